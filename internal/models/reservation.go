package models

import "time"

// Reservation is a rental transaction over an inclusive calendar-date range.
// Rows are never deleted; terminal statuses are kept for history and for
// rating eligibility.
type Reservation struct {
	BaseModel
	ItemID    string            `gorm:"not null;index"`
	RenterID  string            `gorm:"not null;index"`
	StartDate time.Time         `gorm:"type:date;not null"`
	EndDate   time.Time         `gorm:"type:date;not null"`
	Quantity  int               `gorm:"not null;check:quantity >= 1"`
	TotalCost float64           `gorm:"not null"`
	Status    ReservationStatus `gorm:"type:varchar(32);default:'pending';index"`

	// Relations
	Item   Item `gorm:"foreignKey:ItemID"`
	Renter User `gorm:"foreignKey:RenterID"`
}

// Overlaps reports whether the reservation's stored range overlaps
// [start, end] under inclusive-inclusive semantics: a shared boundary
// day counts as overlap.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return RangesOverlap(r.StartDate, r.EndDate, start, end)
}

// Consuming reports whether this reservation currently counts against
// its item's capacity.
func (r *Reservation) Consuming() bool {
	return IsConsumingStatus(r.Status)
}

// DateOnly truncates t to local midnight; reservations carry calendar
// dates with no time component.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// RangesOverlap is the inclusive overlap rule shared by the capacity
// queries and in-memory checks: aStart <= bEnd AND aEnd >= bStart.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

// InclusiveDays counts calendar days in [start, end], both bounds included.
// A single-day range yields 1.
func InclusiveDays(start, end time.Time) int {
	start = DateOnly(start)
	end = DateOnly(end)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// TotalCost computes (price_per_day * inclusiveDays + deposit_fee) * units.
func TotalCost(pricePerDay, depositFee float64, start, end time.Time, units int) float64 {
	days := InclusiveDays(start, end)
	return (pricePerDay*float64(days) + depositFee) * float64(units)
}
