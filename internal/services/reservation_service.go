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

// ReservationService drives the reservation lifecycle. Every transition is
// applied with a conditional update against the expected source status;
// zero rows affected means another actor got there first and is reported
// as a state conflict, never swallowed.
type ReservationService interface {
	Get(ctx context.Context, actorID, reservationID string) (*dto.ReservationResponse, error)
	ListMine(ctx context.Context, renterID string) (*dto.ReservationListResponse, error)
	ListForOwner(ctx context.Context, ownerID string) (*dto.ReservationListResponse, error)

	// Owner actions
	Confirm(ctx context.Context, ownerID, reservationID string) (*dto.ReservationResponse, error)
	Reject(ctx context.Context, ownerID, reservationID string) (*dto.ReservationResponse, error)
	MarkOnTheWay(ctx context.Context, ownerID, reservationID string) (*dto.ReservationResponse, error)
	Complete(ctx context.Context, ownerID, reservationID string) (*dto.ReservationResponse, error)

	// Renter actions
	Cancel(ctx context.Context, renterID, reservationID string) (*dto.ReservationResponse, error)
	SubmitDeposit(ctx context.Context, renterID, reservationID string) (*dto.ReservationResponse, error)

	// Either party
	MarkDelivered(ctx context.Context, actorID, reservationID string) (*dto.ReservationResponse, error)
	MarkReturned(ctx context.Context, actorID, reservationID string) (*dto.ReservationResponse, error)
}

type reservationService struct {
	reservationRepo repositories.ReservationRepository
	itemRepo        repositories.ItemRepository
	availability    AvailabilityService
	bus             *events.Bus
	now             func() time.Time
}

func NewReservationService(
	reservationRepo repositories.ReservationRepository,
	itemRepo repositories.ItemRepository,
	availability AvailabilityService,
	bus *events.Bus,
) ReservationService {
	return &reservationService{
		reservationRepo: reservationRepo,
		itemRepo:        itemRepo,
		availability:    availability,
		bus:             bus,
		now:             time.Now,
	}
}

// --- queries ---

func (s *reservationService) Get(ctx context.Context, actorID, reservationID string) (*dto.ReservationResponse, error) {
	res, item, err := s.load(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if actorID != res.RenterID && actorID != item.OwnerID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return buildReservationResponse(res), nil
}

func (s *reservationService) ListMine(ctx context.Context, renterID string) (*dto.ReservationListResponse, error) {
	reservations, err := s.reservationRepo.ListByRenter(ctx, renterID)
	if err != nil {
		return nil, apperrors.TransientError(err)
	}
	return buildReservationList(reservations), nil
}

func (s *reservationService) ListForOwner(ctx context.Context, ownerID string) (*dto.ReservationListResponse, error) {
	reservations, err := s.reservationRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.TransientError(err)
	}
	return buildReservationList(reservations), nil
}

// --- owner actions ---

func (s *reservationService) Confirm(ctx context.Context, ownerID, reservationID string) (*dto.ReservationResponse, error) {
	res, item, err := s.load(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, apperrors.NewForbiddenError("Only the item owner can confirm a reservation")
	}

	// Defense in depth: the pending row does not consume capacity yet, so
	// re-check that confirming it still fits. The store guard remains the
	// authoritative check.
	remaining, err := s.availability.RemainingUnits(ctx, item.ID, item.Quantity, res.StartDate, res.EndDate)
	if err != nil {
		return nil, apperrors.TransientError(err)
	}
	if remaining < res.Quantity {
		return nil, apperrors.ErrCapacityConflict(nil)
	}

	return s.transition(ctx, res, models.ReservationStatusConfirmed)
}

func (s *reservationService) Reject(ctx context.Context, ownerID, reservationID string) (*dto.ReservationResponse, error) {
	res, item, err := s.load(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, apperrors.NewForbiddenError("Only the item owner can reject a reservation")
	}
	return s.transition(ctx, res, models.ReservationStatusRejected)
}

func (s *reservationService) MarkOnTheWay(ctx context.Context, ownerID, reservationID string) (*dto.ReservationResponse, error) {
	res, item, err := s.load(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, apperrors.NewForbiddenError("Only the item owner can dispatch units")
	}
	return s.transition(ctx, res, models.ReservationStatusOnTheWay)
}

func (s *reservationService) Complete(ctx context.Context, ownerID, reservationID string) (*dto.ReservationResponse, error) {
	res, item, err := s.load(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, apperrors.NewForbiddenError("Only the item owner can confirm the return")
	}
	return s.transition(ctx, res, models.ReservationStatusCompleted)
}

// --- renter actions ---

func (s *reservationService) Cancel(ctx context.Context, renterID, reservationID string) (*dto.ReservationResponse, error) {
	res, _, err := s.load(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res.RenterID != renterID {
		return nil, apperrors.NewForbiddenError("Only the renter can cancel a reservation")
	}
	return s.transition(ctx, res, models.ReservationStatusCancelled)
}

func (s *reservationService) SubmitDeposit(ctx context.Context, renterID, reservationID string) (*dto.ReservationResponse, error) {
	res, _, err := s.load(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res.RenterID != renterID {
		return nil, apperrors.NewForbiddenError("Only the renter can submit the deposit")
	}
	return s.transition(ctx, res, models.ReservationStatusDepositSubmitted)
}

// --- either party ---

func (s *reservationService) MarkDelivered(ctx context.Context, actorID, reservationID string) (*dto.ReservationResponse, error) {
	res, item, err := s.load(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if actorID != res.RenterID && actorID != item.OwnerID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return s.transition(ctx, res, models.ReservationStatusOngoing)
}

func (s *reservationService) MarkReturned(ctx context.Context, actorID, reservationID string) (*dto.ReservationResponse, error) {
	res, item, err := s.load(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if actorID != res.RenterID && actorID != item.OwnerID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return s.transition(ctx, res, models.ReservationStatusAwaitingOwnerConfirmation)
}

// --- internals ---

func (s *reservationService) load(ctx context.Context, reservationID string) (*models.Reservation, *models.Item, error) {
	res, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrReservationNotFound) {
			return nil, nil, apperrors.ErrNotFound(err)
		}
		return nil, nil, apperrors.TransientError(err)
	}

	item, err := s.itemRepo.FindByID(res.ItemID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrItemNotFound) {
			return nil, nil, apperrors.ErrNotFound(err)
		}
		return nil, nil, apperrors.TransientError(err)
	}

	return res, item, nil
}

// transition applies res.Status -> next with a conditional update. The
// expected source state is the status we just read; if the row no longer
// matches it, the update affects zero rows and the caller gets a state
// conflict so it can refresh and retry.
func (s *reservationService) transition(ctx context.Context, res *models.Reservation, next models.ReservationStatus) (*dto.ReservationResponse, error) {
	if models.IsTerminalReservationStatus(res.Status) {
		return nil, apperrors.ErrInvalidStatus("reservation",
			"Reservation is already "+string(res.Status))
	}
	if !models.CanTransition(res.Status, next) {
		return nil, apperrors.ErrInvalidStatus("reservation",
			"Cannot move reservation from "+string(res.Status)+" to "+string(next))
	}

	rows, err := s.reservationRepo.UpdateStatus(ctx, res.ID, res.Status, next)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCapacityExceeded) {
			return nil, apperrors.ErrCapacityConflict(err)
		}
		return nil, apperrors.TransientError(err)
	}
	if rows == 0 {
		return nil, apperrors.ErrStateConflict(nil)
	}

	from := res.Status
	res.Status = next
	res.UpdatedAt = s.now()

	s.availability.Invalidate(res.ItemID)
	if s.bus != nil {
		s.bus.Publish(events.ReservationEvent{
			ReservationID: res.ID,
			ItemID:        res.ItemID,
			From:          from,
			To:            next,
			At:            s.now(),
		})
	}

	logger.CtxInfo(ctx, "reservation transitioned",
		"reservation_id", res.ID, "from", from, "to", next)

	return buildReservationResponse(res), nil
}

func buildReservationList(reservations []models.Reservation) *dto.ReservationListResponse {
	out := &dto.ReservationListResponse{Total: len(reservations)}
	for i := range reservations {
		out.Reservations = append(out.Reservations, buildReservationResponse(&reservations[i]))
	}
	return out
}
