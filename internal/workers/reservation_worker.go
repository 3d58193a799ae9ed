package workers

import (
	"context"
	"time"

	"gorm.io/gorm"

	"renthub_backend/internal/events"
	"renthub_backend/internal/logger"
	"renthub_backend/internal/models"
)

// ReservationWorker expires stale pending reservations in the background.
// Pending requests never consume capacity, so expiry is bookkeeping for
// renters and owners rather than a capacity release.
type ReservationWorker struct {
	db         *gorm.DB
	bus        *events.Bus
	pendingTTL time.Duration
	interval   time.Duration
}

func NewReservationWorker(db *gorm.DB, bus *events.Bus, pendingTTL, interval time.Duration) *ReservationWorker {
	return &ReservationWorker{
		db:         db,
		bus:        bus,
		pendingTTL: pendingTTL,
		interval:   interval,
	}
}

func (w *ReservationWorker) Start(ctx context.Context) {
	go w.expirePending(ctx)
}

func (w *ReservationWorker) expirePending(ctx context.Context) {
	log := logger.With("worker", "reservation_worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Reservation worker stopped")
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-w.pendingTTL)
			result := w.db.WithContext(ctx).Exec(`
				UPDATE reservations
				SET status = ?, updated_at = NOW()
				WHERE status = ? AND created_at < ?
			`, models.ReservationStatusExpired, models.ReservationStatusPending, cutoff)
			if result.Error != nil {
				log.Error("Failed to expire pending reservations", "error", result.Error)
			} else if result.RowsAffected > 0 {
				log.Info("Expired stale pending reservations", "count", result.RowsAffected)
			}
		}
	}
}
