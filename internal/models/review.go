package models

// Review is a renter's review of a lessor after a completed reservation.
// At most one review exists per (reservation, reviewer); enforced by a
// unique index and upsert semantics, not by application-level checks.
type Review struct {
	BaseModel
	ReservationID string `gorm:"not null;uniqueIndex:idx_reviews_reservation_reviewer"`
	ReviewerID    string `gorm:"not null;uniqueIndex:idx_reviews_reservation_reviewer"`
	LessorID      string `gorm:"not null;index"`
	Rating        int    `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment       string

	// Relations
	Reservation Reservation `gorm:"foreignKey:ReservationID"`
	Reviewer    User        `gorm:"foreignKey:ReviewerID"`
	Lessor      User        `gorm:"foreignKey:LessorID"`
}
