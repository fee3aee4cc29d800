package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequestIDKey is where the request logger stores the id it assigned.
const RequestIDKey = "request_id"

// Response is the body of every error the API returns.
type Response struct {
	Status int `json:"-"`
	Error  struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

func NewResponse(c *gin.Context, status int, code, msg string, detail any) Response {
	resp := Response{Status: status, Detail: detail}
	resp.Error.Code = code
	resp.Error.Message = msg
	if id, ok := c.Get(RequestIDKey); ok {
		resp.Error.RequestID, _ = id.(string)
	}
	return resp
}

// AbortWithError keeps err on the context for the request log and writes a
// body whose code follows from status.
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	abort(c, status, statusCode(status), err, msg, detail)
}

func abort(c *gin.Context, status int, code string, err error, msg string, detail any) {
	if err == nil {
		panic("httperr: abort without an error")
	}

	resp := NewResponse(c, status, code, msg, detail)
	_ = c.Error(&gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

func statusCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeInvalidRequest
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusTooManyRequests:
		return CodeRateLimited
	default:
		if status >= http.StatusInternalServerError {
			return CodeInternal
		}
		return CodeInvalidRequest
	}
}
