package repository

import (
	"errors"
	"fmt"
	"strings"

	"vehicle-booking/internal/data/entity"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrBookingConflict = errors.New("booking overlaps an active booking")
	ErrSessionNotFound = errors.New("session not found or already revoked")
	ErrEmailTaken      = errors.New("email already registered")
)

// postgres error codes
const (
	codeUniqueViolation    = "23505"
	codeExclusionViolation = "23P01"
)

// ConflictError carries every active booking that blocked an insert.
type ConflictError struct {
	Conflicts []*entity.Booking
}

func (e *ConflictError) Error() string {
	ids := make([]string, 0, len(e.Conflicts))
	for _, b := range e.Conflicts {
		ids = append(ids, b.ID.String())
	}
	return fmt.Sprintf("%s: %s", ErrBookingConflict, strings.Join(ids, ", "))
}

func (e *ConflictError) Unwrap() error {
	return ErrBookingConflict
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
