package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"renthub_backend/internal/config"
	"renthub_backend/internal/logger"
	"renthub_backend/internal/models"
)

var gormDB *gorm.DB

// ConnectGorm opens the shared GORM connection using the configured DSN.
func ConnectGorm() (*gorm.DB, error) {
	if gormDB != nil {
		return gormDB, nil
	}

	cfg := config.GetConfig()
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	gormDB = db
	return db, nil
}

// AutoMigrate migrates all models and installs the capacity guard.
func AutoMigrate() error {
	db, err := ConnectGorm()
	if err != nil {
		return err
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("uuid extension install failed: %w", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Item{},
		&models.Reservation{},
		&models.Review{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrate failed: %w", err)
	}

	if err := installCapacityGuard(db); err != nil {
		return fmt.Errorf("capacity guard install failed: %w", err)
	}

	logger.Info("AutoMigrate completed")
	return nil
}

// installCapacityGuard creates the trigger that rejects any insert or
// update that would push concurrent consuming reservations past the item's
// quantity on any day of the range. The row lock on items serializes
// concurrent confirmations of the same item, so the check it guards cannot
// race. The raised message is matched verbatim by the reservation
// repository.
func installCapacityGuard(db *gorm.DB) error {
	const fn = `
CREATE OR REPLACE FUNCTION enforce_reservation_capacity() RETURNS trigger AS $$
DECLARE
	cap integer;
	max_used integer;
BEGIN
	IF NEW.status NOT IN ('confirmed', 'deposit_submitted', 'on_the_way', 'ongoing', 'awaiting_owner_confirmation') THEN
		RETURN NEW;
	END IF;

	SELECT quantity INTO cap FROM items WHERE id = NEW.item_id FOR UPDATE;
	IF cap IS NULL THEN
		RAISE EXCEPTION 'item not found';
	END IF;

	SELECT COALESCE(MAX(used), 0) INTO max_used FROM (
		SELECT SUM(r.quantity) AS used
		FROM generate_series(NEW.start_date, NEW.end_date, interval '1 day') AS d
		JOIN reservations r
			ON r.item_id = NEW.item_id
			AND r.id <> NEW.id
			AND r.status IN ('confirmed', 'deposit_submitted', 'on_the_way', 'ongoing', 'awaiting_owner_confirmation')
			AND r.start_date <= d AND r.end_date >= d
		GROUP BY d
	) per_day;

	IF max_used + NEW.quantity > cap THEN
		RAISE EXCEPTION 'item capacity exceeded';
	END IF;

	RETURN NEW;
END
$$ LANGUAGE plpgsql`

	const trigger = `
DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'reservation_capacity_guard') THEN
		CREATE TRIGGER reservation_capacity_guard
			BEFORE INSERT OR UPDATE OF status, quantity, start_date, end_date ON reservations
			FOR EACH ROW EXECUTE FUNCTION enforce_reservation_capacity();
	END IF;
END
$$`

	if err := db.Exec(fn).Error; err != nil {
		return err
	}
	return db.Exec(trigger).Error
}
