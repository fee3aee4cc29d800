//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"car-rental-core/internal/domain/payment"
	"car-rental-core/internal/domain/reservation"
	"car-rental-core/internal/domain/user"
	"car-rental-core/internal/handler/api"
	resdto "car-rental-core/internal/handler/dto/response"
	"car-rental-core/internal/handler/middleware"
	"car-rental-core/internal/pkg/errs"
	"car-rental-core/internal/usecase/commands"
	"car-rental-core/tests/common/builder"
	"car-rental-core/tests/common/httptest"
	commandsmock "car-rental-core/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PaymentHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockPaymentCommands
	actor        user.Actor
}

func (s *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.router.Use(middleware.ErrorHandler())

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockPaymentCommands(s.mockCtrl)
	s.actor = user.NewActor(uuid.New(), user.RoleCustomer)
	handler := api.NewPaymentHandler(s.mockCommands)

	authMiddleware := func(c *gin.Context) {
		middleware.SetActor(c, s.actor)
		c.Next()
	}

	s.router.POST("/payments/process", authMiddleware, handler.ProcessPayment)
	s.router.POST("/payments/confirm", authMiddleware, handler.ConfirmPayment)
}

func (s *PaymentHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPaymentHandlerSuite(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}

func (s *PaymentHandlerTestSuite) TestProcessPayment() {
	confirmed := builder.NewReservationBuilder().Confirmed().WithTotal(15000).BuildDomain()

	s.Run("success: returns the confirmed reservation", func() {
		s.mockCommands.EXPECT().
			ProcessPayment(gomock.Any(), s.actor, confirmed.ID(), "pay-1").
			Return(confirmed, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, "/payments/process",
			map[string]any{"reservation_id": confirmed.ID()}, httptest.IdempotencyKey("pay-1"), "token")

		var body resdto.PaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(confirmed.ID(), body.ReservationID)
		s.Equal("confirmed", body.Status)
		s.Equal(int64(15000), body.TotalAmountCents)
	})

	s.Run("error: 400 without reservation id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments/process", map[string]any{}, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{name: "not the owner", err: commands.ErrPaymentNotAllowed, status: http.StatusForbidden},
		{name: "already confirmed", err: reservation.ErrNotPending, status: http.StatusConflict},
		{name: "gateway down", err: errs.New("gateway timeout"), status: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		s.Run("error: "+tc.name, func() {
			s.mockCommands.EXPECT().ProcessPayment(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tc.err)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments/process",
				map[string]any{"reservation_id": confirmed.ID()}, "token")
			s.Equal(tc.status, rec.Code)
		})
	}
}

func (s *PaymentHandlerTestSuite) TestConfirmPayment() {
	confirmed := builder.NewReservationBuilder().Confirmed().BuildDomain()
	body := func(outcome string) map[string]any {
		return map[string]any{
			"reservation_id":  confirmed.ID(),
			"outcome":         outcome,
			"transaction_ref": "txn-1",
		}
	}

	s.Run("success: outcome is case-insensitive", func() {
		s.mockCommands.EXPECT().
			ConfirmPayment(gomock.Any(), confirmed.ID(), payment.Result{Outcome: payment.OutcomeSucceeded, TransactionRef: "txn-1"}, "").
			Return(confirmed, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments/confirm", body("SUCCEEDED"), "token")
		var resp resdto.PaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Equal("confirmed", resp.Status)
	})

	s.Run("error: 400 on unknown outcome", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments/confirm", body("maybe"), "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Validation failed")
	})

	s.Run("error: 409 with prior outcome on replay", func() {
		s.mockCommands.EXPECT().ConfirmPayment(gomock.Any(), gomock.Any(), gomock.Any(), "cb-1").
			Return(nil, &errs.DuplicateRequestError{Scope: commands.ScopePaymentConfirm, Key: "cb-1", Outcome: "succeeded", EntityID: confirmed.ID()})

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, "/payments/confirm", body("failed"),
			httptest.IdempotencyKey("cb-1"), "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Duplicate request")
		s.Contains(rec.Body.String(), `"outcome":"succeeded"`)
	})
}
