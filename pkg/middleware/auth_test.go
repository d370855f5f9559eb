package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vehicle-booking/internal/data/entity"
	"vehicle-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type stubSessions struct {
	session *entity.Session
	err     error
}

func (s stubSessions) Create(context.Context, *entity.Session) error      { return nil }
func (s stubSessions) Revoke(context.Context, uuid.UUID, time.Time) error { return nil }
func (s stubSessions) CleanExpiredSessions(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (s stubSessions) FindValidSession(_ context.Context, token uuid.UUID, _ time.Time) (*entity.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.session == nil || s.session.Token != token {
		return nil, nil
	}
	return s.session, nil
}

func TestAuthSession(t *testing.T) {
	session := &entity.Session{
		OwnerID:    uuid.New(),
		OwnerLabel: "MST",
		Method:     entity.SessionMethodCode,
		Token:      uuid.New(),
		ExpiresAt:  time.Now().Add(time.Hour),
	}

	tests := []struct {
		name   string
		repo   stubSessions
		header string
		code   int
	}{
		{"missing header", stubSessions{session: session}, "", http.StatusUnauthorized},
		{"wrong scheme", stubSessions{session: session}, "Basic " + session.Token.String(), http.StatusUnauthorized},
		{"no token", stubSessions{session: session}, "Bearer", http.StatusUnauthorized},
		{"malformed token", stubSessions{session: session}, "Bearer abc", http.StatusUnauthorized},
		{"unknown token", stubSessions{session: session}, "Bearer " + uuid.NewString(), http.StatusUnauthorized},
		{"store down", stubSessions{err: errors.New("connection refused")}, "Bearer " + session.Token.String(), http.StatusServiceUnavailable},
		{"valid", stubSessions{session: session}, "Bearer " + session.Token.String(), http.StatusNoContent},
		{"lower case scheme", stubSessions{session: session}, "bearer " + session.Token.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got utils.Principal
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = utils.GetPrincipalFromContext(r.Context())
				w.WriteHeader(http.StatusNoContent)
			})

			r := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			AuthSession(tt.repo, zap.NewNop())(next).ServeHTTP(w, r)

			if w.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, w.Code)
			}
			if tt.code == http.StatusNoContent && (got.OwnerID != session.OwnerID || got.Label != "MST") {
				t.Fatalf("unexpected principal: %+v", got)
			}
		})
	}
}
