package httperr

import (
	"net/http"

	"car-rental-core/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Stable error codes. Clients branch on these, not on messages.
const (
	CodeInvalidRequest      = "invalid_request"
	CodeValidationFailed    = "validation_failed"
	CodeUnauthorized        = "unauthorized"
	CodeForbidden           = "forbidden"
	CodeNotFound            = "not_found"
	CodeDuplicateRequest    = "duplicate_request"
	CodeResourceUnavailable = "resource_unavailable"
	CodeInvalidTransition   = "invalid_transition"
	CodeRateLimited         = "rate_limited"
	CodeInternal            = "internal"
)

type DuplicateDetail struct {
	Scope    string `json:"scope"`
	Outcome  string `json:"outcome,omitempty"`
	EntityID string `json:"entity_id,omitempty"`
}

type category struct {
	status int
	code   string
	msg    string
}

func classify(err error) category {
	switch {
	case errs.Is(err, errs.ErrValidation):
		return category{http.StatusBadRequest, CodeValidationFailed, "Validation failed"}
	case errs.Is(err, errs.ErrNotFound):
		return category{http.StatusNotFound, CodeNotFound, "Not found"}
	case errs.Is(err, errs.ErrForbidden):
		return category{http.StatusForbidden, CodeForbidden, "Forbidden"}
	case errs.Is(err, errs.ErrDuplicateRequest):
		return category{http.StatusConflict, CodeDuplicateRequest, "Duplicate request"}
	case errs.Is(err, errs.ErrResourceUnavailable):
		return category{http.StatusConflict, CodeResourceUnavailable, "Vehicle is not available for the requested dates"}
	case errs.Is(err, errs.ErrInvalidTransition):
		return category{http.StatusConflict, CodeInvalidTransition, "Reservation cannot make this transition"}
	default:
		return category{http.StatusInternalServerError, CodeInternal, "Internal server error"}
	}
}

// Status maps the error taxonomy onto HTTP. Anything unmarked is a 500.
func Status(err error) (int, string) {
	cat := classify(err)
	return cat.status, cat.msg
}

// Code names the taxonomy category of err.
func Code(err error) string {
	return classify(err).code
}

// AbortWithDomainError responds with the mapped status. Client errors carry
// the cause as detail; server errors do not leak it.
func AbortWithDomainError(c *gin.Context, err error) {
	cat := classify(err)

	var detail any
	var dup *errs.DuplicateRequestError
	switch {
	case errs.As(err, &dup):
		d := DuplicateDetail{Scope: dup.Scope, Outcome: dup.Outcome}
		if dup.EntityID != uuid.Nil {
			d.EntityID = dup.EntityID.String()
		}
		detail = d
	case cat.status < http.StatusInternalServerError:
		detail = err.Error()
	}

	abort(c, cat.status, cat.code, err, cat.msg, detail)
}
