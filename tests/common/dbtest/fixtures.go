//go:build unit || e2e

package dbtest

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"car-rental-core/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

func CreateTestVehicle(t *testing.T, db DBLike, plate string, dailyRateCents int64, status string) uuid.UUID {
	t.Helper()

	vehicleID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, `
		INSERT INTO vehicles (id, make, model, license_plate, daily_rate_cents, location, status)
		VALUES ($1, 'Toyota', 'Corolla', $2, $3, 'Airport', $4)
		ON CONFLICT (license_plate) DO NOTHING`,
		vehicleID, plate, dailyRateCents, status)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM vehicles WHERE license_plate = $1", plate).Scan(&vehicleID)
	}

	return vehicleID
}

// CreateTestReservation inserts a row directly, skipping the booking rules, so
// tests can seed history such as reservations that started in the past.
func CreateTestReservation(t *testing.T, db DBLike, vehicleID, userID uuid.UUID, start, end time.Time, status string, createdAt time.Time) uuid.UUID {
	t.Helper()

	reservationID := uuid.New()
	_, err := db.Exec(context.Background(), `
		INSERT INTO reservations (id, vehicle_id, user_id, start_date, end_date, pickup_location,
		                          total_amount_cents, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 'Airport', 15000, $6, 1, $7, $7)`,
		reservationID, vehicleID, userID, start.Format("2006-01-02"), end.Format("2006-01-02"), status, createdAt)
	require.NoError(t, err)

	return reservationID
}

// ReservationStatus reads the stored status and version, bypassing the API.
func ReservationStatus(t *testing.T, db DBLike, id uuid.UUID) (string, int64) {
	t.Helper()

	var (
		status  string
		version int64
	)
	err := db.QueryRow(context.Background(),
		"SELECT status, version FROM reservations WHERE id = $1", id).Scan(&status, &version)
	require.NoError(t, err)
	return status, version
}

// SeedReferenceData inserts the vehicles every e2e run starts with.
func SeedReferenceData(ctx context.Context, db DBLike) error {
	_, err := db.Exec(ctx, `
		INSERT INTO vehicles (id, make, model, license_plate, daily_rate_cents, location, status) VALUES
		    (gen_random_uuid(), 'Honda', 'Civic', 'SEED-001', 5000, 'Downtown', 'available'),
		    (gen_random_uuid(), 'Ford', 'Transit', 'SEED-002', 9000, 'Airport', 'maintenance')
		ON CONFLICT (license_plate) DO NOTHING;
	`)
	return errs.Wrap(err, "seeding vehicles")
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       string
	truncateErr       error
)

func buildTruncate(ctx context.Context, db DBLike) (string, error) {
	rows, err := db.Query(ctx, `
		SELECT 'public.' || quote_ident(tablename)
		FROM pg_tables
		WHERE schemaname = 'public'
		  AND tablename NOT IN ('schema_migrations', 'atlas_schema_revisions')
		ORDER BY tablename`)
	if err != nil {
		return "", errs.Wrap(err, "listing tables")
	}
	tables, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return "", errs.Wrap(err, "listing tables")
	}
	if len(tables) == 0 {
		return "SELECT 1", nil
	}
	return "TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE", nil
}

// ResetDB empties every application table and reseeds reference data. The
// table list is read once per process.
func ResetDB(db DBLike) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		truncateSQL, truncateErr = buildTruncate(ctx, db)
	})
	if truncateErr != nil {
		return truncateErr
	}
	if _, err := db.Exec(ctx, truncateSQL); err != nil {
		return errs.Wrap(err, "truncating tables")
	}

	return SeedReferenceData(ctx, db)
}
