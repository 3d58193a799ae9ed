package dto

import (
	"time"

	"renthub_backend/internal/models"
)

type ReservationResponse struct {
	ID        string                   `json:"id"`
	ItemID    string                   `json:"item_id"`
	RenterID  string                   `json:"renter_id"`
	StartDate string                   `json:"start_date"`
	EndDate   string                   `json:"end_date"`
	Quantity  int                      `json:"quantity"`
	TotalCost float64                  `json:"total_cost"`
	Status    models.ReservationStatus `json:"status"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

type ReservationListResponse struct {
	Reservations []*ReservationResponse `json:"reservations"`
	Total        int                    `json:"total"`
}
