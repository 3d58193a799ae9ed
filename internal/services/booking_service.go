package services

import (
	"context"
	"time"

	"renthub_backend/internal/events"
	"renthub_backend/internal/logger"
	"renthub_backend/internal/models"
	"renthub_backend/internal/repositories"
	"renthub_backend/internal/services/dto"
	"renthub_backend/pkg/apperrors"
)

// BookingService validates a renter's reservation attempt and creates the
// reservation in `pending`. The remaining-units read and the insert are
// separate operations; the store-side capacity guard resolves the race
// between two renters observing the same last unit, and its rejection is
// surfaced as "fully booked", not as a generic failure.
type BookingService interface {
	RequestBooking(ctx context.Context, renterID string, req *dto.BookingRequest) (*dto.ReservationResponse, error)
	CheckAvailability(ctx context.Context, itemID string, q *dto.AvailabilityQuery) (*dto.AvailabilityResponse, error)
}

type bookingService struct {
	itemRepo        repositories.ItemRepository
	reservationRepo repositories.ReservationRepository
	availability    AvailabilityService
	bus             *events.Bus
	now             func() time.Time
}

func NewBookingService(
	itemRepo repositories.ItemRepository,
	reservationRepo repositories.ReservationRepository,
	availability AvailabilityService,
	bus *events.Bus,
) BookingService {
	return &bookingService{
		itemRepo:        itemRepo,
		reservationRepo: reservationRepo,
		availability:    availability,
		bus:             bus,
		now:             time.Now,
	}
}

const dateLayout = "2006-01-02"

func parseDate(value string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, value, time.Local)
}

// RequestBooking applies the business checks in order, short-circuiting on
// the first failure:
//  1. authenticated actor
//  2. actor is not the item owner
//  3. dates present, start not in the past
//  4. remaining units for the range > 0
//  5. requested units within [1, remaining]
func (s *bookingService) RequestBooking(ctx context.Context, renterID string, req *dto.BookingRequest) (*dto.ReservationResponse, error) {
	if renterID == "" {
		return nil, apperrors.ErrSignInRequired
	}

	item, err := s.itemRepo.FindByID(req.ItemID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrItemNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.TransientError(err)
	}

	if item.OwnerID == renterID {
		return nil, apperrors.ErrOwnItemBooking
	}

	if !item.Bookable() {
		return nil, apperrors.ErrInvalidOperation("booking", "Item is not open for booking")
	}

	if req.StartDate == "" || req.EndDate == "" {
		return nil, apperrors.NewBadRequestError("Select dates")
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Select dates")
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Select dates")
	}
	start = models.DateOnly(start)
	end = models.DateOnly(end)

	today := models.DateOnly(s.now())
	if start.Before(today) {
		return nil, apperrors.NewBadRequestError("Start date cannot be in the past")
	}
	if end.Before(start) {
		return nil, apperrors.NewBadRequestError("End date cannot be before start date")
	}

	if req.Quantity < 1 {
		return nil, apperrors.NewBadRequestError("Quantity must be at least 1")
	}

	remaining, err := s.availability.RemainingUnits(ctx, item.ID, item.Quantity, start, end)
	if err != nil {
		return nil, apperrors.TransientError(err)
	}
	if remaining <= 0 {
		return nil, apperrors.ErrCapacityConflict(nil)
	}
	if req.Quantity > remaining {
		return nil, apperrors.ErrCapacityConflict(nil).
			WithDetails(map[string]int{"remaining": remaining, "requested": req.Quantity})
	}

	reservation := &models.Reservation{
		ItemID:    item.ID,
		RenterID:  renterID,
		StartDate: start,
		EndDate:   end,
		Quantity:  req.Quantity,
		TotalCost: models.TotalCost(item.PricePerDay, item.DepositFee, start, end, req.Quantity),
		Status:    models.ReservationStatusPending,
	}

	if err := s.reservationRepo.Create(ctx, reservation); err != nil {
		// A concurrent booking may have taken the capacity between our
		// read and this write; the store guard rejects it.
		if apperrors.Is(err, repositories.ErrCapacityExceeded) {
			return nil, apperrors.ErrCapacityConflict(err)
		}
		return nil, apperrors.TransientError(err)
	}

	s.availability.Invalidate(item.ID)
	if s.bus != nil {
		s.bus.Publish(events.ReservationEvent{
			ReservationID: reservation.ID,
			ItemID:        item.ID,
			To:            models.ReservationStatusPending,
			At:            s.now(),
		})
	}

	logger.CtxInfo(ctx, "reservation requested",
		"reservation_id", reservation.ID, "item_id", item.ID, "units", req.Quantity)

	return buildReservationResponse(reservation), nil
}

func (s *bookingService) CheckAvailability(ctx context.Context, itemID string, q *dto.AvailabilityQuery) (*dto.AvailabilityResponse, error) {
	item, err := s.itemRepo.FindByID(itemID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrItemNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.TransientError(err)
	}

	start, err := parseDate(q.StartDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Select dates")
	}
	end, err := parseDate(q.EndDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Select dates")
	}

	remaining, err := s.availability.RemainingUnits(ctx, item.ID, item.Quantity, start, end)
	if err != nil {
		return nil, apperrors.TransientError(err)
	}

	return &dto.AvailabilityResponse{
		ItemID:    item.ID,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Remaining: remaining,
	}, nil
}

func buildReservationResponse(res *models.Reservation) *dto.ReservationResponse {
	return &dto.ReservationResponse{
		ID:        res.ID,
		ItemID:    res.ItemID,
		RenterID:  res.RenterID,
		StartDate: res.StartDate.Format(dateLayout),
		EndDate:   res.EndDate.Format(dateLayout),
		Quantity:  res.Quantity,
		TotalCost: res.TotalCost,
		Status:    res.Status,
		CreatedAt: res.CreatedAt,
		UpdatedAt: res.UpdatedAt,
	}
}
