package models

type User struct {
	BaseModel
	Name         string     `gorm:"not null"`
	Email        string     `gorm:"uniqueIndex;not null"`
	PasswordHash string     `gorm:"not null"`
	Role         UserRole   `gorm:"type:varchar(20);default:'user'"`
	Status       UserStatus `gorm:"type:varchar(20);default:'active'"`
	City         string

	// Relations
	Items        []Item        `gorm:"foreignKey:OwnerID"`
	Reservations []Reservation `gorm:"foreignKey:RenterID"`
}
