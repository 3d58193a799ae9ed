package dto

// BookingRequest is a renter's reservation attempt. Dates are inclusive
// calendar dates without a time component.
type BookingRequest struct {
	ItemID    string `json:"item_id" validate:"required"`
	StartDate string `json:"start_date" validate:"required,date-only"`
	EndDate   string `json:"end_date" validate:"required,date-only"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// AvailabilityQuery asks how many units remain bookable over a range.
type AvailabilityQuery struct {
	StartDate string `form:"start_date" validate:"required,date-only"`
	EndDate   string `form:"end_date" validate:"required,date-only"`
}

type AvailabilityResponse struct {
	ItemID    string `json:"item_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Remaining int    `json:"remaining"`
}
