package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"renthub_backend/internal/middleware"
	"renthub_backend/internal/services"
	"renthub_backend/internal/services/dto"
)

type ReservationHandler struct {
	*BaseHandler
	bookingService     services.BookingService
	reservationService services.ReservationService
}

func NewReservationHandler(
	base *BaseHandler,
	bookingService services.BookingService,
	reservationService services.ReservationService,
) *ReservationHandler {
	return &ReservationHandler{
		BaseHandler:        base,
		bookingService:     bookingService,
		reservationService: reservationService,
	}
}

func (h *ReservationHandler) RegisterRoutes(r *gin.RouterGroup) {
	public := r.Group("/items")
	{
		public.GET("/:itemId/availability", h.CheckAvailability)
	}

	reservations := r.Group("/reservations")
	reservations.Use(middleware.AuthMiddleware())
	{
		reservations.POST("", h.RequestBooking)
		reservations.GET("/my", h.ListMine)
		reservations.GET("/owner", h.ListForOwner)
		reservations.GET("/:reservationId", h.Get)

		// Owner actions
		reservations.POST("/:reservationId/confirm", h.Confirm)
		reservations.POST("/:reservationId/reject", h.Reject)
		reservations.POST("/:reservationId/on-the-way", h.MarkOnTheWay)
		reservations.POST("/:reservationId/complete", h.Complete)

		// Renter actions
		reservations.POST("/:reservationId/cancel", h.Cancel)
		reservations.POST("/:reservationId/deposit", h.SubmitDeposit)

		// Either party
		reservations.POST("/:reservationId/delivered", h.MarkDelivered)
		reservations.POST("/:reservationId/returned", h.MarkReturned)
	}
}

func (h *ReservationHandler) CheckAvailability(c *gin.Context) {
	var q dto.AvailabilityQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	resp, err := h.bookingService.CheckAvailability(c.Request.Context(), c.Param("itemId"), &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReservationHandler) RequestBooking(c *gin.Context) {
	renterID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.BookingRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.bookingService.RequestBooking(c.Request.Context(), renterID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ReservationHandler) Get(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.reservationService.Get(c.Request.Context(), actorID, c.Param("reservationId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReservationHandler) ListMine(c *gin.Context) {
	renterID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.reservationService.ListMine(c.Request.Context(), renterID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReservationHandler) ListForOwner(c *gin.Context) {
	ownerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.reservationService.ListForOwner(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReservationHandler) applyTransition(
	c *gin.Context,
	action func(actorID, reservationID string) (*dto.ReservationResponse, error),
) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := action(actorID, c.Param("reservationId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReservationHandler) Confirm(c *gin.Context) {
	h.applyTransition(c, func(actorID, id string) (*dto.ReservationResponse, error) {
		return h.reservationService.Confirm(c.Request.Context(), actorID, id)
	})
}

func (h *ReservationHandler) Reject(c *gin.Context) {
	h.applyTransition(c, func(actorID, id string) (*dto.ReservationResponse, error) {
		return h.reservationService.Reject(c.Request.Context(), actorID, id)
	})
}

func (h *ReservationHandler) MarkOnTheWay(c *gin.Context) {
	h.applyTransition(c, func(actorID, id string) (*dto.ReservationResponse, error) {
		return h.reservationService.MarkOnTheWay(c.Request.Context(), actorID, id)
	})
}

func (h *ReservationHandler) Complete(c *gin.Context) {
	h.applyTransition(c, func(actorID, id string) (*dto.ReservationResponse, error) {
		return h.reservationService.Complete(c.Request.Context(), actorID, id)
	})
}

func (h *ReservationHandler) Cancel(c *gin.Context) {
	h.applyTransition(c, func(actorID, id string) (*dto.ReservationResponse, error) {
		return h.reservationService.Cancel(c.Request.Context(), actorID, id)
	})
}

func (h *ReservationHandler) SubmitDeposit(c *gin.Context) {
	h.applyTransition(c, func(actorID, id string) (*dto.ReservationResponse, error) {
		return h.reservationService.SubmitDeposit(c.Request.Context(), actorID, id)
	})
}

func (h *ReservationHandler) MarkDelivered(c *gin.Context) {
	h.applyTransition(c, func(actorID, id string) (*dto.ReservationResponse, error) {
		return h.reservationService.MarkDelivered(c.Request.Context(), actorID, id)
	})
}

func (h *ReservationHandler) MarkReturned(c *gin.Context) {
	h.applyTransition(c, func(actorID, id string) (*dto.ReservationResponse, error) {
		return h.reservationService.MarkReturned(c.Request.Context(), actorID, id)
	})
}
