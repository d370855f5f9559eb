package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vehicle-booking/internal/admission"
	"vehicle-booking/internal/data/entity"
	"vehicle-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	// Create admits and inserts booking atomically. A rejected booking
	// returns a *ConflictError listing every blocking booking.
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	ListActive(ctx context.Context, resource string) ([]*entity.Booking, error)
	ListUpcoming(ctx context.Context, resource string, now time.Time) ([]*entity.Booking, error)
	ListActiveInRange(ctx context.Context, resource string, from, to time.Time) ([]*entity.Booking, error)
	Cancel(ctx context.Context, id uuid.UUID, at time.Time) error
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type scanner interface {
	Scan(dest ...any) error
}

const bookingColumns = `id, resource, owner_id, owner_label, start_time, end_time, purpose, notes,
	status, cancelled_at, created_at, updated_at`

func scanBooking(row scanner) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.Resource,
		&booking.OwnerID,
		&booking.OwnerLabel,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Purpose,
		&booking.Notes,
		&booking.Status,
		&booking.CancelledAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) queryBookings(ctx context.Context, q querier, query string, args ...any) ([]*entity.Booking, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

func (r *bookingRepository) findOverlapping(ctx context.Context, q querier, resource string, interval admission.Interval) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE resource = $1
		  AND status = 'active'
		  AND start_time < $3
		  AND end_time > $2
		ORDER BY start_time, id
	`
	return r.queryBookings(ctx, q, query, resource, interval.Start, interval.End)
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	candidate := admission.Candidate{Resource: booking.Resource, Interval: booking.Span()}

	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		// serialize writers per resource so check and insert are one step
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, booking.Resource); err != nil {
			return fmt.Errorf("lock resource %s: %w", booking.Resource, err)
		}

		existing, err := r.findOverlapping(ctx, tx, booking.Resource, candidate.Interval)
		if err != nil {
			return fmt.Errorf("find overlapping bookings: %w", err)
		}

		result, err := admission.Check(candidate, existing)
		if err != nil {
			return fmt.Errorf("admit booking: %w", err)
		}
		if !result.Admitted {
			return &ConflictError{Conflicts: result.Conflicts}
		}

		query := `
			INSERT INTO bookings (id, resource, owner_id, owner_label, start_time, end_time,
			                      purpose, notes, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`
		_, err = tx.Exec(ctx, query,
			booking.ID,
			booking.Resource,
			booking.OwnerID,
			booking.OwnerLabel,
			booking.StartTime,
			booking.EndTime,
			booking.Purpose,
			booking.Notes,
			booking.Status,
			booking.CreatedAt,
			booking.UpdatedAt,
		)
		return err
	})

	var conflictErr *ConflictError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &conflictErr):
		return err
	case pgErrorCode(err) == codeExclusionViolation:
		// the exclusion constraint caught a writer that skipped the lock
		conflicts, findErr := r.findOverlapping(ctx, r.db, booking.Resource, candidate.Interval)
		if findErr != nil {
			r.log.Warn("Failed to load conflicts after exclusion violation", zap.Error(findErr))
		}
		return &ConflictError{Conflicts: conflicts}
	default:
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("resource", booking.Resource),
			zap.String("owner_id", booking.OwnerID.String()),
		)
		return fmt.Errorf("create booking on %s: %w", booking.Resource, err)
	}
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) ListActive(ctx context.Context, resource string) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE resource = $1 AND status = 'active'
		ORDER BY start_time, id
	`

	bookings, err := r.queryBookings(ctx, r.db, query, resource)
	if err != nil {
		r.log.Error("Failed to list active bookings",
			zap.Error(err),
			zap.String("resource", resource),
		)
		return nil, fmt.Errorf("list active bookings on %s: %w", resource, err)
	}

	return bookings, nil
}

// ListUpcoming returns active bookings that have not ended yet. An empty
// resource matches every resource.
func (r *bookingRepository) ListUpcoming(ctx context.Context, resource string, now time.Time) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = 'active'
		  AND end_time > $1
		  AND ($2 = '' OR resource = $2)
		ORDER BY start_time, id
	`

	bookings, err := r.queryBookings(ctx, r.db, query, now, resource)
	if err != nil {
		r.log.Error("Failed to list upcoming bookings",
			zap.Error(err),
			zap.String("resource", resource),
		)
		return nil, fmt.Errorf("list upcoming bookings: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) ListActiveInRange(ctx context.Context, resource string, from, to time.Time) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = 'active'
		  AND start_time < $2
		  AND end_time > $1
		  AND ($3 = '' OR resource = $3)
		ORDER BY start_time, id
	`

	bookings, err := r.queryBookings(ctx, r.db, query, from, to, resource)
	if err != nil {
		r.log.Error("Failed to list bookings in range",
			zap.Error(err),
			zap.Time("from", from),
			zap.Time("to", to),
		)
		return nil, fmt.Errorf("list bookings in range: %w", err)
	}

	return bookings, nil
}

// Cancel marks an active booking cancelled. Cancelling a cancelled booking
// is a no-op.
func (r *bookingRepository) Cancel(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE bookings
		SET status = 'cancelled', cancelled_at = $2, updated_at = $2
		WHERE id = $1 AND status = 'active'
	`

	result, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		r.log.Error("Failed to cancel booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("cancel booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		existing, err := r.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrBookingNotFound
		}
	}

	return nil
}
