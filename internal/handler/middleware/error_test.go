//go:build unit

package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"car-rental-core/internal/handler/httperr"
	"car-rental-core/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newErrorTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := NewLogger(config.LogConfig{Level: "error", TimeZone: "UTC"})
	r := gin.New()
	r.Use(logger.LoggingMiddleware(), CustomRecovery(), ErrorHandler())
	return r
}

func TestCustomRecovery(t *testing.T) {
	r := newErrorTestRouter()
	r.GET("/boom", func(*gin.Context) { panic("nil map write") })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(RequestIDHeader, "trace-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp httperr.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, httperr.CodeInternal, resp.Error.Code)
	assert.Equal(t, "trace-42", resp.Error.RequestID)
	assert.Equal(t, "trace-42", w.Header().Get(RequestIDHeader))
	assert.NotContains(t, w.Body.String(), "nil map write")
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		handler    gin.HandlerFunc
		wantStatus int
		wantCode   string
	}{
		{
			name: "private error without a body falls back to 500",
			handler: func(c *gin.Context) {
				_ = c.Error(errors.New("lost connection"))
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   httperr.CodeInternal,
		},
		{
			name: "public error body is rendered",
			handler: func(c *gin.Context) {
				resp := httperr.NewResponse(c, http.StatusConflict, httperr.CodeInvalidTransition, "Reservation cannot change state", nil)
				_ = c.Error(&gin.Error{Err: errors.New("terminal"), Type: gin.ErrorTypePublic, Meta: resp})
			},
			wantStatus: http.StatusConflict,
			wantCode:   httperr.CodeInvalidTransition,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newErrorTestRouter()
			r.GET("/x", tt.handler)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			var resp httperr.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.RequestID)
		})
	}

	t.Run("bare status passes through without a body", func(t *testing.T) {
		r := newErrorTestRouter()
		r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestInboundRequestID(t *testing.T) {
	assert.Equal(t, "abc-123", inboundRequestID(" abc-123 "))
	assert.Empty(t, inboundRequestID("has space"))
	assert.Empty(t, inboundRequestID(string(make([]byte, 65))))
	assert.Empty(t, inboundRequestID(""))
}
