package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"car-rental-core/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last public error a handler attached when nothing
// has been written yet. Handlers that only set a status get an empty body.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		for i := len(c.Errors) - 1; i >= 0; i-- {
			err := c.Errors[i]
			if !err.IsType(gin.ErrorTypePublic) {
				continue
			}
			if resp, ok := err.Meta.(httperr.Response); ok {
				c.JSON(resp.Status, resp)
				return
			}
		}
		if status := c.Writer.Status(); status != http.StatusOK {
			c.Status(status)
			c.Writer.WriteHeaderNow()
			return
		}

		resp := httperr.NewResponse(c, http.StatusInternalServerError, httperr.CodeInternal, "Internal server error", nil)
		c.JSON(resp.Status, resp)
	}
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			slog.ErrorContext(c.Request.Context(), "recovered from panic",
				"panic", rec,
				"request_id", GetRequestID(c),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"stack", string(debug.Stack()))

			resp := httperr.NewResponse(c, http.StatusInternalServerError, httperr.CodeInternal, "Internal server error", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
		}()
		c.Next()
	}
}
