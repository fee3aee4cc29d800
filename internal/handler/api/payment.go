package api

import (
	"net/http"

	reqdto "car-rental-core/internal/handler/dto/request"
	resdto "car-rental-core/internal/handler/dto/response"
	"car-rental-core/internal/handler/httperr"
	"car-rental-core/internal/handler/middleware"
	"car-rental-core/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	commands commands.PaymentCommands
}

func NewPaymentHandler(cmds commands.PaymentCommands) *PaymentHandler {
	return &PaymentHandler{commands: cmds}
}

// @Summary Pay for a reservation
// @Description Charges the gateway for the reservation total and confirms it on success.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Replay protection key"
// @Param request body reqdto.ProcessPaymentRequest true "Payment request"
// @Success 200 {object} resdto.PaymentResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /payments/process [post]
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingActor, "Internal server error", nil)
		return
	}

	var req reqdto.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	res, err := h.commands.ProcessPayment(c.Request.Context(), actor, req.ReservationID, c.GetHeader(idempotencyKeyHeader))
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPaidReservation(res))
}

// @Summary Confirm a payment result
// @Description Gateway callback. Records the attempt and confirms the reservation when it succeeded.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Replay protection key"
// @Param request body reqdto.ConfirmPaymentRequest true "Payment result"
// @Success 200 {object} resdto.PaymentResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /payments/confirm [post]
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	var req reqdto.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	result, err := req.ToResult()
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}

	res, err := h.commands.ConfirmPayment(c.Request.Context(), req.ReservationID, result, c.GetHeader(idempotencyKeyHeader))
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPaidReservation(res))
}
