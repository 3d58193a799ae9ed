package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"renthub_backend/internal/middleware"
	"renthub_backend/internal/models"
	"renthub_backend/internal/services"
	"renthub_backend/internal/services/dto"
	"renthub_backend/pkg/apperrors"
)

type ItemHandler struct {
	*BaseHandler
	itemService services.ItemService
}

func NewItemHandler(base *BaseHandler, itemService services.ItemService) *ItemHandler {
	return &ItemHandler{
		BaseHandler: base,
		itemService: itemService,
	}
}

func (h *ItemHandler) RegisterRoutes(r *gin.RouterGroup) {
	public := r.Group("/items")
	{
		public.GET("", h.List)
		public.GET("/:itemId", h.Get)
	}

	owner := r.Group("/items")
	owner.Use(middleware.AuthMiddleware())
	{
		owner.POST("", h.Create)
		owner.PUT("/:itemId", h.Update)
		owner.PATCH("/:itemId/availability", h.SetAvailability)
		owner.GET("/my/list", h.ListMine)
	}

	admin := r.Group("/admin/items")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		admin.PATCH("/:itemId/moderation", h.Moderate)
	}
}

func (h *ItemHandler) List(c *gin.Context) {
	page, pageSize := ParsePagination(c)
	city := c.Query("city")

	items, err := h.itemService.List(c.Request.Context(), city, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *ItemHandler) Get(c *gin.Context) {
	item, err := h.itemService.Get(c.Request.Context(), c.Param("itemId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) Create(c *gin.Context) {
	ownerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateItemRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	item, err := h.itemService.Create(c.Request.Context(), ownerID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *ItemHandler) Update(c *gin.Context) {
	ownerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateItemRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	item, err := h.itemService.Update(c.Request.Context(), ownerID, c.Param("itemId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) SetAvailability(c *gin.Context) {
	ownerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req struct {
		IsAvailable *bool `json:"is_available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.IsAvailable == nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("is_available is required"))
		return
	}

	if err := h.itemService.SetAvailability(c.Request.Context(), ownerID, c.Param("itemId"), *req.IsAvailable); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "availability updated"})
}

func (h *ItemHandler) ListMine(c *gin.Context) {
	ownerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	items, err := h.itemService.ListMine(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *ItemHandler) Moderate(c *gin.Context) {
	var req dto.ModerateItemRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	err := h.itemService.Moderate(c.Request.Context(), c.Param("itemId"), models.ModerationStatus(req.Status))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "moderation updated"})
}
