package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vehicle-booking/internal/data/entity"
	"vehicle-booking/internal/data/repository"
	"vehicle-booking/pkg/events"
	"vehicle-booking/pkg/metrics"
	"vehicle-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var errStoreDown = errors.New("connection refused")

// fixed clock: Friday 2025-03-14 08:00 UTC
var testNow = time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)

func testConfig() *utils.Config {
	return &utils.Config{
		App: utils.AppConfig{Name: "vehicle-booking", Timezone: "Europe/Stockholm"},
		Session: utils.SessionConfig{
			ExpiryHours:     24,
			CodeExpiryHours: 168,
		},
		Access: utils.AccessConfig{
			Code:     "6510",
			Signages: []string{"MST", "761", "762"},
		},
		Booking: utils.BookingConfig{
			Resources: []utils.ResourceConfig{
				{Key: "big", Name: "Big Vehicle"},
				{Key: "small", Name: "Small Vehicle"},
			},
			PrefillStart: "09:00",
			PrefillEnd:   "17:00",
			MaxRangeDays: 366,
		},
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.BookingEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// failingBookingRepo fails every call it overrides.
type failingBookingRepo struct {
	repository.BookingRepository
}

func (failingBookingRepo) Create(context.Context, *entity.Booking) error { return errStoreDown }
func (failingBookingRepo) ListActive(context.Context, string) ([]*entity.Booking, error) {
	return nil, errStoreDown
}

type bookingFixture struct {
	svc       *bookingService
	repo      *repository.Repository
	metrics   *metrics.Metrics
	publisher *recordingPublisher
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	repo := repository.NewMemoryRepository(zap.NewNop())
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	publisher := &recordingPublisher{}

	svc := NewBookingService(repo, testConfig(), m, publisher, zap.NewNop()).(*bookingService)
	svc.now = func() time.Time { return testNow }

	return &bookingFixture{svc: svc, repo: repo, metrics: m, publisher: publisher}
}

func principal(label string) utils.Principal {
	return utils.Principal{
		OwnerID:   uuid.New(),
		Label:     label,
		Method:    string(entity.SessionMethodCode),
		IssuedAt:  testNow,
		ExpiresAt: testNow.Add(time.Hour),
	}
}

func hours(h int) time.Time {
	return time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC).Add(time.Duration(h) * time.Hour)
}
