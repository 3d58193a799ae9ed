package dto

import (
	"time"

	"gorm.io/datatypes"

	"renthub_backend/internal/models"
)

type CreateItemRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"omitempty,max=5000"`
	Quantity    int      `json:"quantity" validate:"required,min=1"`
	PricePerDay float64  `json:"price_per_day" validate:"required,gt=0"`
	DepositFee  float64  `json:"deposit_fee" validate:"omitempty,gte=0"`
	City        string   `json:"city" validate:"omitempty,max=100"`
	Photos      []string `json:"photos" validate:"omitempty,max=10"`
}

type UpdateItemRequest struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	Quantity    *int     `json:"quantity,omitempty" validate:"omitempty,min=1"`
	PricePerDay *float64 `json:"price_per_day,omitempty" validate:"omitempty,gt=0"`
	DepositFee  *float64 `json:"deposit_fee,omitempty" validate:"omitempty,gte=0"`
	City        *string  `json:"city,omitempty" validate:"omitempty,max=100"`
	Photos      []string `json:"photos,omitempty" validate:"omitempty,max=10"`
}

type ModerateItemRequest struct {
	Status string `json:"status" validate:"required,is-moderation-status"`
}

type ItemResponse struct {
	ID          string                  `json:"id"`
	OwnerID     string                  `json:"owner_id"`
	Title       string                  `json:"title"`
	Description string                  `json:"description,omitempty"`
	Quantity    int                     `json:"quantity"`
	PricePerDay float64                 `json:"price_per_day"`
	DepositFee  float64                 `json:"deposit_fee"`
	City        string                  `json:"city,omitempty"`
	IsAvailable bool                    `json:"is_available"`
	Moderation  models.ModerationStatus `json:"moderation"`
	Photos      datatypes.JSON          `json:"photos,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`

	// RemainingToday is the per-day availability badge for listings.
	RemainingToday *int `json:"remaining_today,omitempty"`
	// UnitsOut is the owner-dashboard count of units currently past pickup.
	UnitsOut *int `json:"units_out,omitempty"`
}

type ItemListResponse struct {
	Items      []*ItemResponse `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}
