//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"car-rental-core/internal/handler/api"
	resdto "car-rental-core/internal/handler/dto/response"
	"car-rental-core/internal/handler/middleware"
	"car-rental-core/internal/pkg/clock"
	"car-rental-core/internal/pkg/errs"
	"car-rental-core/internal/usecase/commands"
	"car-rental-core/tests/common/httptest"
	commandsmock "car-rental-core/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAdminHandler_RunSweep(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	setup := func(t *testing.T) (*gin.Engine, *commandsmock.MockLifecycleSweeper) {
		ctrl := gomock.NewController(t)
		sweeper := commandsmock.NewMockLifecycleSweeper(ctrl)
		router := gin.New()
		router.Use(middleware.ErrorHandler())
		router.POST("/admin/sweeps", api.NewAdminHandler(sweeper, clock.NewMockClock(now)).RunSweep)
		return router, sweeper
	}

	t.Run("reports counts", func(t *testing.T) {
		router, sweeper := setup(t)
		sweeper.EXPECT().RunLifecycleSweep(gomock.Any(), now).
			Return(commands.SweepResult{Completed: 2, Cancelled: 3}, nil)

		rec := httptest.PerformRequest(t, router, http.MethodPost, "/admin/sweeps", nil, "")

		var body resdto.SweepResponse
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		assert.Equal(t, resdto.SweepResponse{Completed: 2, Cancelled: 3}, body)
	})

	t.Run("listing failure returns partial counts", func(t *testing.T) {
		router, sweeper := setup(t)
		sweeper.EXPECT().RunLifecycleSweep(gomock.Any(), now).
			Return(commands.SweepResult{Completed: 1}, errs.New("list timed out pending: connection reset"))

		rec := httptest.PerformRequest(t, router, http.MethodPost, "/admin/sweeps", nil, "")

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "Sweep did not finish")
		assert.Contains(t, rec.Body.String(), `"completed":1`)
		assert.NotContains(t, rec.Body.String(), "connection reset")
	})
}
