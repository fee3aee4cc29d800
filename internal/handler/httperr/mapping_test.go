//go:build unit

package httperr_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"car-rental-core/internal/handler/httperr"
	"car-rental-core/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
		code string
	}{
		{name: "validation", err: errs.Mark(errs.New("bad date"), errs.ErrValidation), want: http.StatusBadRequest, code: httperr.CodeValidationFailed},
		{name: "not found", err: errs.Mark(errs.New("no such reservation"), errs.ErrNotFound), want: http.StatusNotFound, code: httperr.CodeNotFound},
		{name: "forbidden", err: errs.Mark(errs.New("not yours"), errs.ErrForbidden), want: http.StatusForbidden, code: httperr.CodeForbidden},
		{name: "duplicate", err: &errs.DuplicateRequestError{Scope: "reservation.create", Key: "k"}, want: http.StatusConflict, code: httperr.CodeDuplicateRequest},
		{name: "unavailable", err: errs.Mark(errs.New("booked"), errs.ErrResourceUnavailable), want: http.StatusConflict, code: httperr.CodeResourceUnavailable},
		{name: "invalid transition", err: errs.Mark(errs.New("terminal"), errs.ErrInvalidTransition), want: http.StatusConflict, code: httperr.CodeInvalidTransition},
		{name: "wrapped marker survives", err: errs.Wrap(errs.Mark(errs.New("x"), errs.ErrNotFound), "loading"), want: http.StatusNotFound, code: httperr.CodeNotFound},
		{name: "unknown", err: errors.New("connection refused"), want: http.StatusInternalServerError, code: httperr.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, msg := httperr.Status(tt.err)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, msg)
			assert.Equal(t, tt.code, httperr.Code(tt.err))
		})
	}
}

func abort(t *testing.T, err error) map[string]any {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(httperr.RequestIDKey, "req-123")

	httperr.AbortWithDomainError(c, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAbortWithDomainError(t *testing.T) {
	t.Run("duplicate carries the prior outcome", func(t *testing.T) {
		id := uuid.New()
		body := abort(t, &errs.DuplicateRequestError{Scope: "reservation.create", Key: "k", Outcome: "pending", EntityID: id})

		detail, ok := body["detail"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "reservation.create", detail["scope"])
		assert.Equal(t, "pending", detail["outcome"])
		assert.Equal(t, id.String(), detail["entity_id"])
	})

	t.Run("client errors expose the cause", func(t *testing.T) {
		body := abort(t, errs.Mark(errs.New("end date must be after start date"), errs.ErrValidation))
		assert.Contains(t, body["detail"], "end date must be after start date")
	})

	t.Run("server errors hide the cause", func(t *testing.T) {
		body := abort(t, errors.New("password=hunter2 connection refused"))
		_, hasDetail := body["detail"]
		assert.False(t, hasDetail)
		assert.Equal(t, "Internal server error", body["error"].(map[string]any)["message"])
	})
}

func TestAbortWithDomainError_Envelope(t *testing.T) {
	body := abort(t, errs.Mark(errs.New("booked"), errs.ErrResourceUnavailable))

	envelope, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, httperr.CodeResourceUnavailable, envelope["code"])
	assert.Equal(t, "req-123", envelope["request_id"])
}

func TestAbortWithError_CodeFollowsStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		status int
		code   string
	}{
		{status: http.StatusBadRequest, code: httperr.CodeInvalidRequest},
		{status: http.StatusUnauthorized, code: httperr.CodeUnauthorized},
		{status: http.StatusTooManyRequests, code: httperr.CodeRateLimited},
		{status: http.StatusServiceUnavailable, code: httperr.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			httperr.AbortWithError(c, tt.status, errors.New("boom"), "msg", nil)

			var resp httperr.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.True(t, c.IsAborted())
			require.Len(t, c.Errors, 1)
		})
	}
}
