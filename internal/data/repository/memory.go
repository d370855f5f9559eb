package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"vehicle-booking/internal/admission"
	"vehicle-booking/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// memoryStore backs every repository when DB_DRIVER=memory. One mutex
// guards all tables, so booking admission and insert happen under the
// same write lock.
type memoryStore struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]entity.User
	sessions map[uuid.UUID]entity.Session // by token
	signages map[string]entity.Signage    // by label
	bookings map[uuid.UUID]entity.Booking
}

// NewMemoryRepository returns repositories backed by process memory.
// Nothing survives a restart.
func NewMemoryRepository(log *zap.Logger) *Repository {
	store := &memoryStore{
		users:    make(map[uuid.UUID]entity.User),
		sessions: make(map[uuid.UUID]entity.Session),
		signages: make(map[string]entity.Signage),
		bookings: make(map[uuid.UUID]entity.Booking),
	}
	log = log.With(zap.String("repository", "memory"))

	return &Repository{
		User:    &memoryUserRepository{store: store, log: log},
		Session: &memorySessionRepository{store: store, log: log},
		Signage: &memorySignageRepository{store: store, log: log},
		Booking: &memoryBookingRepository{store: store, log: log},
	}
}

func cloneBooking(b entity.Booking) *entity.Booking {
	if b.Notes != nil {
		notes := *b.Notes
		b.Notes = &notes
	}
	if b.CancelledAt != nil {
		at := *b.CancelledAt
		b.CancelledAt = &at
	}
	return &b
}

// sortedBookings returns clones of the bookings matching keep, ordered by
// start time then id.
func (s *memoryStore) sortedBookings(keep func(entity.Booking) bool) []*entity.Booking {
	var out []*entity.Booking
	for _, b := range s.bookings {
		if keep(b) {
			out = append(out, cloneBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// ------------- bookings -------------

type memoryBookingRepository struct {
	store *memoryStore
	log   *zap.Logger
}

func (r *memoryBookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing := r.store.sortedBookings(func(b entity.Booking) bool {
		return b.IsActive() && b.Resource == booking.Resource
	})

	result, err := admission.Check(admission.Candidate{Resource: booking.Resource, Interval: booking.Span()}, existing)
	if err != nil {
		return fmt.Errorf("admit booking: %w", err)
	}
	if !result.Admitted {
		r.log.Debug("Booking rejected",
			zap.String("resource", booking.Resource),
			zap.Int("conflicts", len(result.Conflicts)),
		)
		return &ConflictError{Conflicts: result.Conflicts}
	}

	r.store.bookings[booking.ID] = *cloneBooking(*booking)
	return nil
}

func (r *memoryBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	booking, ok := r.store.bookings[id]
	if !ok {
		return nil, nil
	}
	return cloneBooking(booking), nil
}

func (r *memoryBookingRepository) ListActive(ctx context.Context, resource string) ([]*entity.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.sortedBookings(func(b entity.Booking) bool {
		return b.IsActive() && b.Resource == resource
	}), nil
}

func (r *memoryBookingRepository) ListUpcoming(ctx context.Context, resource string, now time.Time) ([]*entity.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.sortedBookings(func(b entity.Booking) bool {
		return b.IsActive() && b.EndTime.After(now) && (resource == "" || b.Resource == resource)
	}), nil
}

func (r *memoryBookingRepository) ListActiveInRange(ctx context.Context, resource string, from, to time.Time) ([]*entity.Booking, error) {
	window := admission.Interval{Start: from, End: to}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.sortedBookings(func(b entity.Booking) bool {
		return b.IsActive() && window.Overlaps(b.Span()) && (resource == "" || b.Resource == resource)
	}), nil
}

func (r *memoryBookingRepository) Cancel(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	booking, ok := r.store.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}
	if !booking.IsActive() {
		return nil
	}

	booking.Status = entity.BookingStatusCancelled
	booking.CancelledAt = &at
	booking.UpdatedAt = at
	r.store.bookings[id] = booking
	return nil
}

// ------------- sessions -------------

type memorySessionRepository struct {
	store *memoryStore
	log   *zap.Logger
}

func (r *memorySessionRepository) Create(ctx context.Context, session *entity.Session) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.sessions[session.Token] = *session
	return nil
}

func (r *memorySessionRepository) FindValidSession(ctx context.Context, token uuid.UUID, now time.Time) (*entity.Session, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	session, ok := r.store.sessions[token]
	if !ok || !session.IsValid(now) {
		return nil, nil
	}
	return &session, nil
}

func (r *memorySessionRepository) Revoke(ctx context.Context, token uuid.UUID, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	session, ok := r.store.sessions[token]
	if !ok || session.RevokedAt != nil {
		return ErrSessionNotFound
	}

	session.RevokedAt = &at
	r.store.sessions[token] = session
	return nil
}

func (r *memorySessionRepository) CleanExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var removed int64
	for token, session := range r.store.sessions {
		if session.ExpiresAt.Before(before) {
			delete(r.store.sessions, token)
			removed++
		}
	}
	return removed, nil
}

// ------------- users -------------

type memoryUserRepository struct {
	store *memoryStore
	log   *zap.Logger
}

func (r *memoryUserRepository) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.users {
		if existing.Email == user.Email {
			return ErrEmailTaken
		}
	}

	r.store.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *memoryUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, user := range r.store.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, nil
}

// ------------- signages -------------

type memorySignageRepository struct {
	store *memoryStore
	log   *zap.Logger
}

func (r *memorySignageRepository) FindOrCreate(ctx context.Context, label string, now time.Time) (*entity.Signage, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	signage, ok := r.store.signages[label]
	if !ok {
		signage = entity.Signage{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			Label:      label,
		}
	}
	signage.LastUsedAt = now
	r.store.signages[label] = signage

	return &signage, nil
}
