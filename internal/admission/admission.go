// Package admission decides whether a candidate reservation may become an
// active booking. Everything here is pure: callers fetch the active bookings
// for the candidate's resource and pass them in.
package admission

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidInterval  = errors.New("invalid interval")
	ErrMissingBound     = fmt.Errorf("%w: start and end are required", ErrInvalidInterval)
	ErrEmptyInterval    = fmt.Errorf("%w: start must be before end, got a zero-length interval", ErrInvalidInterval)
	ErrInvertedInterval = fmt.Errorf("%w: start must be before end", ErrInvalidInterval)
)

// Interval is the half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval returns a validated interval.
func NewInterval(start, end time.Time) (Interval, error) {
	interval := Interval{Start: start, End: end}
	if err := interval.Validate(); err != nil {
		return Interval{}, err
	}
	return interval, nil
}

func (i Interval) Validate() error {
	switch {
	case i.Start.IsZero() || i.End.IsZero():
		return ErrMissingBound
	case i.Start.Equal(i.End):
		return ErrEmptyInterval
	case i.Start.After(i.End):
		return ErrInvertedInterval
	}
	return nil
}

// Overlaps reports whether two half-open intervals intersect.
// Touching intervals (a.End == b.Start) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Reservation is anything occupying an interval, typically an active booking.
type Reservation interface {
	Span() Interval
}

// Candidate is a proposed booking. Resource is carried for the caller's
// benefit only; the predicate never looks at it.
type Candidate struct {
	Resource string
	Interval Interval
}

type Result[R Reservation] struct {
	Admitted  bool
	Conflicts []R
}

// Admit evaluates candidate against existing, which must already be limited
// to active reservations on the candidate's resource. Every overlapping
// reservation is returned, in input order.
func Admit[R Reservation](candidate Candidate, existing []R) Result[R] {
	var conflicts []R
	for _, reservation := range existing {
		if candidate.Interval.Overlaps(reservation.Span()) {
			conflicts = append(conflicts, reservation)
		}
	}

	return Result[R]{
		Admitted:  len(conflicts) == 0,
		Conflicts: conflicts,
	}
}

// Check validates the candidate interval before running Admit, so invalid
// input never reaches the overlap predicate.
func Check[R Reservation](candidate Candidate, existing []R) (Result[R], error) {
	if err := candidate.Interval.Validate(); err != nil {
		return Result[R]{}, err
	}
	return Admit(candidate, existing), nil
}
