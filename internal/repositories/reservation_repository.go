package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"renthub_backend/internal/models"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrCapacityExceeded is returned when the store-side capacity guard
	// rejects a write that would over-book the item.
	ErrCapacityExceeded = errors.New("item capacity exceeded")
)

type ReservationRepository interface {
	Create(ctx context.Context, res *models.Reservation) error
	GetByID(ctx context.Context, id string) (*models.Reservation, error)

	// UpdateStatus performs the conditional transition
	// `SET status = next WHERE id = ? AND status = expected` and returns
	// the number of rows affected (0 means the row moved on already).
	UpdateStatus(ctx context.Context, id string, expected, next models.ReservationStatus) (int64, error)

	// ConsumedUnits sums quantity over capacity-consuming reservations of
	// the item whose inclusive range overlaps [start, end].
	ConsumedUnits(ctx context.Context, itemID string, start, end time.Time) (int, error)

	// DepartedUnits sums quantity over reservations past pickup that
	// cover the given day.
	DepartedUnits(ctx context.Context, itemID string, day time.Time) (int, error)

	ListByRenter(ctx context.Context, renterID string) ([]models.Reservation, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Reservation, error)
}

type ReservationRepositoryImpl struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) ReservationRepository {
	return &ReservationRepositoryImpl{db: db}
}

// statusInClause renders a fixed status set as a SQL IN list. The values
// come from the models constants, never from user input.
func statusInClause(statuses []models.ReservationStatus) string {
	quoted := make([]string, len(statuses))
	for i, s := range statuses {
		quoted[i] = fmt.Sprintf("'%s'", s)
	}
	return strings.Join(quoted, ", ")
}

func (r *ReservationRepositoryImpl) Create(ctx context.Context, res *models.Reservation) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO reservations (item_id, renter_id, start_date, end_date, quantity, total_cost, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, res.ItemID, res.RenterID, res.StartDate, res.EndDate, res.Quantity, res.TotalCost, res.Status).Scan(
		&res.ID, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "item capacity exceeded") {
			return ErrCapacityExceeded
		}
		return err
	}
	return nil
}

func (r *ReservationRepositoryImpl) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	var res models.Reservation
	err := r.db.QueryRowContext(ctx, `
		SELECT id, item_id, renter_id, start_date, end_date, quantity, total_cost, status, created_at, updated_at
		FROM reservations WHERE id = $1
	`, id).Scan(
		&res.ID, &res.ItemID, &res.RenterID, &res.StartDate, &res.EndDate,
		&res.Quantity, &res.TotalCost, &res.Status, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

func (r *ReservationRepositoryImpl) UpdateStatus(ctx context.Context, id string, expected, next models.ReservationStatus) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE reservations SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2
	`, id, expected, next)
	if err != nil {
		// A transition into the consuming set can also trip the
		// capacity guard (e.g. confirming after a racing confirm).
		if strings.Contains(err.Error(), "item capacity exceeded") {
			return 0, ErrCapacityExceeded
		}
		return 0, err
	}
	return result.RowsAffected()
}

func (r *ReservationRepositoryImpl) ConsumedUnits(ctx context.Context, itemID string, start, end time.Time) (int, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(quantity), 0)
		FROM reservations
		WHERE item_id = $1
		  AND status IN (%s)
		  AND start_date <= $3
		  AND end_date >= $2
	`, statusInClause(models.ConsumingStatuses()))

	var consumed int
	err := r.db.QueryRowContext(ctx, query, itemID, start, end).Scan(&consumed)
	return consumed, err
}

func (r *ReservationRepositoryImpl) DepartedUnits(ctx context.Context, itemID string, day time.Time) (int, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(quantity), 0)
		FROM reservations
		WHERE item_id = $1
		  AND status IN (%s)
		  AND start_date <= $2
		  AND end_date >= $2
	`, statusInClause(models.DepartedStatuses()))

	var departed int
	err := r.db.QueryRowContext(ctx, query, itemID, day).Scan(&departed)
	return departed, err
}

func (r *ReservationRepositoryImpl) ListByRenter(ctx context.Context, renterID string) ([]models.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, item_id, renter_id, start_date, end_date, quantity, total_cost, status, created_at, updated_at
		FROM reservations WHERE renter_id = $1 ORDER BY created_at DESC
	`, renterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReservations(rows)
}

func (r *ReservationRepositoryImpl) ListByOwner(ctx context.Context, ownerID string) ([]models.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.item_id, r.renter_id, r.start_date, r.end_date, r.quantity, r.total_cost, r.status, r.created_at, r.updated_at
		FROM reservations r
		JOIN items i ON i.id = r.item_id
		WHERE i.owner_id = $1
		ORDER BY r.created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReservations(rows)
}

func scanReservations(rows *sql.Rows) ([]models.Reservation, error) {
	var reservations []models.Reservation
	for rows.Next() {
		var res models.Reservation
		err := rows.Scan(
			&res.ID, &res.ItemID, &res.RenterID, &res.StartDate, &res.EndDate,
			&res.Quantity, &res.TotalCost, &res.Status, &res.CreatedAt, &res.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}
