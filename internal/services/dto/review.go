package dto

import "time"

type RateRequest struct {
	ReservationID string `json:"reservation_id" validate:"required"`
	Rating        int    `json:"rating" validate:"required,is-rating"`
	Comment       string `json:"comment" validate:"omitempty,max=2000"`
}

// RateEligibility is the canRate verdict: whether the reviewer may rate,
// and the resolved lessor when allowed.
type RateEligibility struct {
	Allowed  bool   `json:"allowed"`
	Reason   string `json:"reason,omitempty"`
	LessorID string `json:"lessor_id,omitempty"`
}

type ReviewResponse struct {
	ID            string    `json:"id"`
	ReservationID string    `json:"reservation_id"`
	ReviewerID    string    `json:"reviewer_id"`
	LessorID      string    `json:"lessor_id"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ReviewListResponse struct {
	Reviews    []*ReviewResponse `json:"reviews"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

type RatingStatsResponse struct {
	LessorID string  `json:"lessor_id"`
	Average  float64 `json:"average"`
	Count    int64   `json:"count"`
}
