package services

import (
	"database/sql"

	"gorm.io/gorm"

	"renthub_backend/internal/events"
	"renthub_backend/internal/repositories"
)

// ServiceContainer holds every application service. Handlers receive it
// fully wired so they never construct repositories themselves.
type ServiceContainer struct {
	AuthService         AuthService
	ItemService         ItemService
	AvailabilityService AvailabilityService
	BookingService      BookingService
	ReservationService  ReservationService
	ReviewService       ReviewService
}

// NewServiceContainer wires repositories and services over the shared
// connections. The raw *sql.DB must come from the same pool as gormDB so
// reads and conditional updates observe each other.
func NewServiceContainer(gormDB *gorm.DB, sqlDB *sql.DB, bus *events.Bus) *ServiceContainer {
	userRepo := repositories.NewUserRepository(gormDB)
	itemRepo := repositories.NewItemRepository(gormDB)
	reservationRepo := repositories.NewReservationRepository(sqlDB)
	reviewRepo := repositories.NewReviewRepository(gormDB)

	availability := NewAvailabilityService(reservationRepo, bus)

	return &ServiceContainer{
		AuthService:         NewAuthService(userRepo),
		ItemService:         NewItemService(itemRepo, availability),
		AvailabilityService: availability,
		BookingService:      NewBookingService(itemRepo, reservationRepo, availability, bus),
		ReservationService:  NewReservationService(reservationRepo, itemRepo, availability, bus),
		ReviewService:       NewReviewService(reviewRepo, reservationRepo, itemRepo),
	}
}
