package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"renthub_backend/internal/events"
	"renthub_backend/internal/logger"
	"renthub_backend/internal/models"
	"renthub_backend/internal/repositories"
)

// AvailabilityService is the capacity ledger: remaining bookable units are
// always derived from capacity-consuming reservations, never from a
// mutable stock counter. An item's quantity is therefore the single source
// of truth for capacity and is immutable under status transitions.
type AvailabilityService interface {
	// RemainingUnits computes max(0, capacity - consumed) for the
	// inclusive range [start, end]. The result is never negative and
	// never exceeds capacity.
	RemainingUnits(ctx context.Context, itemID string, capacity int, start, end time.Time) (int, error)

	// RemainingUnitsOn is the single-day form used for listing badges:
	// the range form restricted to [day, day].
	RemainingUnitsOn(ctx context.Context, itemID string, capacity int, day time.Time) (int, error)

	// UnitsOut counts units past pickup that cover the given day
	// (owner dashboard).
	UnitsOut(ctx context.Context, itemID string, day time.Time) (int, error)

	// Invalidate drops cached results for an item.
	Invalidate(itemID string)
}

type availabilityService struct {
	reservationRepo repositories.ReservationRepository

	mu    sync.Mutex
	cache map[string]map[string]int // itemID -> rangeKey -> remaining
}

// NewAvailabilityService builds the ledger. When bus is non-nil the cache
// is invalidated on reservation events; correctness does not depend on
// receiving them, the cache only shortens the badge path.
func NewAvailabilityService(reservationRepo repositories.ReservationRepository, bus *events.Bus) AvailabilityService {
	s := &availabilityService{
		reservationRepo: reservationRepo,
		cache:           make(map[string]map[string]int),
	}

	if bus != nil {
		_, ch := bus.Subscribe()
		go func() {
			for event := range ch {
				s.Invalidate(event.ItemID)
			}
		}()
	}

	return s
}

func rangeKey(capacity int, start, end time.Time) string {
	return fmt.Sprintf("%d|%s|%s", capacity, start.Format("2006-01-02"), end.Format("2006-01-02"))
}

func (s *availabilityService) RemainingUnits(ctx context.Context, itemID string, capacity int, start, end time.Time) (int, error) {
	start = models.DateOnly(start)
	end = models.DateOnly(end)

	key := rangeKey(capacity, start, end)
	s.mu.Lock()
	if byRange, ok := s.cache[itemID]; ok {
		if remaining, ok := byRange[key]; ok {
			s.mu.Unlock()
			return remaining, nil
		}
	}
	s.mu.Unlock()

	consumed, err := s.reservationRepo.ConsumedUnits(ctx, itemID, start, end)
	if err != nil {
		return 0, err
	}

	remaining := capacity - consumed
	if remaining < 0 {
		logger.CtxWarn(ctx, "consumed units exceed item capacity",
			"item_id", itemID, "capacity", capacity, "consumed", consumed)
		remaining = 0
	}
	if remaining > capacity {
		remaining = capacity
	}

	s.mu.Lock()
	if _, ok := s.cache[itemID]; !ok {
		s.cache[itemID] = make(map[string]int)
	}
	s.cache[itemID][key] = remaining
	s.mu.Unlock()

	return remaining, nil
}

func (s *availabilityService) RemainingUnitsOn(ctx context.Context, itemID string, capacity int, day time.Time) (int, error) {
	return s.RemainingUnits(ctx, itemID, capacity, day, day)
}

func (s *availabilityService) UnitsOut(ctx context.Context, itemID string, day time.Time) (int, error) {
	return s.reservationRepo.DepartedUnits(ctx, itemID, models.DateOnly(day))
}

func (s *availabilityService) Invalidate(itemID string) {
	s.mu.Lock()
	delete(s.cache, itemID)
	s.mu.Unlock()
}
