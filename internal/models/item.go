package models

import "gorm.io/datatypes"

// Item is a rentable listing. Quantity is the number of interchangeable
// units and is the capacity ceiling for all reservations against it; it is
// never decremented by status transitions (capacity is derived at read time).
type Item struct {
	BaseModel
	OwnerID     string  `gorm:"not null;index"`
	Title       string  `gorm:"not null"`
	Description string
	Quantity    int     `gorm:"not null;check:quantity >= 1"`
	PricePerDay float64 `gorm:"not null"`
	DepositFee  float64
	City        string
	IsAvailable bool             `gorm:"default:true"`
	Moderation  ModerationStatus `gorm:"type:varchar(20);default:'pending'"`
	Photos      datatypes.JSON   `gorm:"type:jsonb"`

	// Relations
	Owner        User          `gorm:"foreignKey:OwnerID"`
	Reservations []Reservation `gorm:"foreignKey:ItemID"`
}

// Bookable reports whether renters may currently request this item.
func (i *Item) Bookable() bool {
	return i.IsAvailable && i.Moderation == ModerationStatusApproved
}
