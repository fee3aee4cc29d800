package api

import (
	"net/http"
	"strconv"

	reqdto "car-rental-core/internal/handler/dto/request"
	resdto "car-rental-core/internal/handler/dto/response"
	"car-rental-core/internal/handler/httperr"
	"car-rental-core/internal/handler/middleware"
	"car-rental-core/internal/pkg/errs"
	"car-rental-core/internal/usecase/commands"
	"car-rental-core/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const idempotencyKeyHeader = "Idempotency-Key"

var (
	errMissingActor   = errs.New("actor missing from request context")
	errInvalidID      = errs.Mark(errs.New("invalid id format"), errs.ErrValidation)
	errInvalidPayload = errs.Mark(errs.New("invalid request format"), errs.ErrValidation)
	errInvalidLimit   = errs.Mark(errs.New("limit must be an integer"), errs.ErrValidation)
)

type ReservationHandler struct {
	commands commands.ReservationCommands
	queries  queries.ReservationQueries
}

func NewReservationHandler(cmds commands.ReservationCommands, q queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{
		commands: cmds,
		queries:  q,
	}
}

// @Summary Create reservation
// @Description Book a vehicle for an inclusive range of days. The reservation starts pending until paid.
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Replay protection key"
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations [post]
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingActor, "Internal server error", nil)
		return
	}

	var req reqdto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	in, err := req.ToInput()
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}

	res, err := h.commands.CreateReservation(c.Request.Context(), actor, in, c.GetHeader(idempotencyKeyHeader))
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}

	h.respondWithView(c, http.StatusCreated, res.ID())
}

// @Summary List reservations
// @Description Admins see every reservation, users see their own. Oldest first, keyset paged.
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param after query string false "Cursor from a previous page"
// @Param limit query int false "Page size (max 200)"
// @Success 200 {object} resdto.ReservationListResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /reservations [get]
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingActor, "Internal server error", nil)
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httperr.AbortWithDomainError(c, errInvalidLimit)
			return
		}
		limit = n
	}

	page, err := h.queries.ListPage(c.Request.Context(), actor, c.Query("after"), limit)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}

	resp, err := resdto.FromReservationPage(page)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	h.respondWithView(c, http.StatusOK, id)
}

// @Summary Update reservation
// @Description Change the pickup location of a non-terminal reservation.
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.UpdateReservationRequest true "Fields to change"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/{id} [patch]
func (h *ReservationHandler) UpdateReservation(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingActor, "Internal server error", nil)
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req reqdto.UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if _, err := h.commands.UpdateReservation(c.Request.Context(), actor, id, req.ToUpdate()); err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	h.respondWithView(c, http.StatusOK, id)
}

// @Summary Cancel reservation
// @Description Owners may cancel pending reservations, and confirmed ones before the start date. Admins may always cancel.
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/{id}/cancel [patch]
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingActor, "Internal server error", nil)
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if _, err := h.commands.CancelReservation(c.Request.Context(), actor, id); err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	h.respondWithView(c, http.StatusOK, id)
}

// respondWithView re-reads the reservation so every endpoint returns the same joined shape.
func (h *ReservationHandler) respondWithView(c *gin.Context, status int, id uuid.UUID) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingActor, "Internal server error", nil)
		return
	}

	view, err := h.queries.Get(c.Request.Context(), actor, id)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}

	resp, err := resdto.FromReservationView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(status, resp)
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.Wrap(errInvalidID, err.Error()), "Invalid ID format", nil)
		return uuid.Nil, false
	}
	return id, true
}
