package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"renthub_backend/internal/middleware"
	"renthub_backend/internal/services"
	"renthub_backend/internal/services/dto"
)

type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   base,
		reviewService: reviewService,
	}
}

func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup) {
	public := r.Group("/reviews")
	{
		public.GET("/lessors/:lessorId", h.GetLessorReviews)
		public.GET("/lessors/:lessorId/stats", h.GetLessorRatingStats)
	}

	reviews := r.Group("/reviews")
	reviews.Use(middleware.AuthMiddleware())
	{
		reviews.POST("", h.Rate)
		reviews.GET("/can-rate/:reservationId", h.CanRate)
	}
}

func (h *ReviewHandler) GetLessorReviews(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	reviews, err := h.reviewService.ListLessorReviews(c.Request.Context(), c.Param("lessorId"), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) GetLessorRatingStats(c *gin.Context) {
	stats, err := h.reviewService.RatingStats(c.Request.Context(), c.Param("lessorId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Rate creates or replaces the reviewer's rating for a reservation. A
// repeated submission updates the existing review in place.
func (h *ReviewHandler) Rate(c *gin.Context) {
	reviewerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RateRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	review, err := h.reviewService.RateOrUpdate(c.Request.Context(), reviewerID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) CanRate(c *gin.Context) {
	reviewerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	eligibility, err := h.reviewService.CanRate(c.Request.Context(), c.Param("reservationId"), reviewerID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, eligibility)
}
