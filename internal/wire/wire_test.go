package wire

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vehicle-booking/internal/data/repository"
	"vehicle-booking/pkg/events"
	"vehicle-booking/pkg/metrics"
	"vehicle-booking/pkg/utils"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	config := &utils.Config{
		App:     utils.AppConfig{Name: "vehicle-booking", Timezone: "Europe/Stockholm"},
		Session: utils.SessionConfig{ExpiryHours: 24, CodeExpiryHours: 168},
		Access:  utils.AccessConfig{Code: "6510", Signages: []string{"MST", "761"}},
		Booking: utils.BookingConfig{
			Resources:    []utils.ResourceConfig{{Key: "big", Name: "Big Vehicle"}, {Key: "small", Name: "Small Vehicle"}},
			PrefillStart: "09:00",
			PrefillEnd:   "17:00",
			MaxRangeDays: 366,
		},
	}

	registry := prometheus.NewRegistry()
	app := Wiring(Deps{
		Repo:      repository.NewMemoryRepository(zap.NewNop()),
		Config:    config,
		Metrics:   metrics.NewMetrics("test", registry),
		Gatherer:  registry,
		Publisher: events.NopPublisher{},
		Logger:    zap.NewNop(),
	})

	server := httptest.NewServer(app.Router)
	t.Cleanup(server.Close)
	return server
}

func do(t *testing.T, server *httptest.Server, method, path, token string, body any) (*http.Response, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp, env
}

func login(t *testing.T, server *httptest.Server, signage string) (token, ownerID string) {
	t.Helper()

	resp, env := do(t, server, http.MethodPost, "/api/auth/code", "", map[string]string{"code": "6510", "signage": signage})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d (%s)", signage, resp.StatusCode, env.Message)
	}

	var data struct {
		Token   string `json:"token"`
		OwnerID string `json:"owner_id"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return data.Token, data.OwnerID
}

func bookingBody(start, end time.Time) map[string]any {
	return map[string]any{
		"resource":   "big",
		"start_time": start.Format(time.RFC3339),
		"end_time":   end.Format(time.RFC3339),
		"purpose":    "Delivery",
	}
}

func TestRoutes_RequireSession(t *testing.T) {
	server := newTestServer(t)

	paths := []struct{ method, path, token string }{
		{http.MethodGet, "/api/bookings?resource=big", ""},
		{http.MethodPost, "/api/bookings", ""},
		{http.MethodGet, "/api/calendar", ""},
		{http.MethodGet, "/api/auth/me", "not-a-uuid"},
		{http.MethodGet, "/api/resources", "0b0f6f2e-7a8e-4e1f-9b39-0d3c1f0b6a11"},
	}

	for _, p := range paths {
		resp, _ := do(t, server, p.method, p.path, p.token, nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", p.method, p.path, resp.StatusCode)
		}
	}
}

func TestRoutes_PublicEndpoints(t *testing.T) {
	server := newTestServer(t)

	resp, env := do(t, server, http.MethodGet, "/api/auth/signages", "", nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(env.Data), "MST") {
		t.Fatalf("expected signages, got %d %s", resp.StatusCode, env.Data)
	}

	resp, _ = do(t, server, http.MethodGet, "/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", resp.StatusCode)
	}

	resp, _ = do(t, server, http.MethodGet, "/metrics", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", resp.StatusCode)
	}

	resp, _ = do(t, server, http.MethodPost, "/api/auth/code", "", map[string]string{"code": "0000", "signage": "MST"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong code: expected 401, got %d", resp.StatusCode)
	}
}

func TestBookingFlow(t *testing.T) {
	server := newTestServer(t)
	owner, ownerID := login(t, server, "MST")
	other, _ := login(t, server, "761")

	day := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 7)
	nine, five := day.Add(9*time.Hour), day.Add(17*time.Hour)

	resp, env := do(t, server, http.MethodPost, "/api/bookings", owner, bookingBody(nine, five))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%s)", resp.StatusCode, env.Message)
	}
	var created struct {
		ID      string `json:"id"`
		OwnerID string `json:"owner_id"`
		IsOwner bool   `json:"is_owner"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode booking: %v", err)
	}
	if created.OwnerID != ownerID || !created.IsOwner {
		t.Fatalf("unexpected booking owner: %+v", created)
	}

	// overlap
	resp, env = do(t, server, http.MethodPost, "/api/bookings", other, bookingBody(day.Add(16*time.Hour), day.Add(18*time.Hour)))
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("overlap: expected 409, got %d", resp.StatusCode)
	}
	var conflicts struct {
		Conflicts []struct {
			ID string `json:"id"`
		} `json:"conflicts"`
	}
	if err := json.Unmarshal(env.Errors, &conflicts); err != nil {
		t.Fatalf("decode conflicts: %v", err)
	}
	if len(conflicts.Conflicts) != 1 || conflicts.Conflicts[0].ID != created.ID {
		t.Fatalf("expected conflict with %s, got %s", created.ID, env.Errors)
	}

	// back to back
	resp, _ = do(t, server, http.MethodPost, "/api/bookings", other, bookingBody(five, day.Add(20*time.Hour)))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("back to back: expected 201, got %d", resp.StatusCode)
	}

	// inverted interval
	resp, env = do(t, server, http.MethodPost, "/api/bookings", owner, bookingBody(five, nine))
	if resp.StatusCode != http.StatusBadRequest || !strings.Contains(string(env.Errors), "end_time") {
		t.Fatalf("inverted: expected 400 on end_time, got %d %s", resp.StatusCode, env.Errors)
	}

	// malformed body
	resp, _ = do(t, server, http.MethodPost, "/api/bookings", owner, map[string]any{"start_time": "tomorrow"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("malformed: expected 400, got %d", resp.StatusCode)
	}

	// only the owner may cancel
	resp, _ = do(t, server, http.MethodPut, "/api/bookings/"+created.ID+"/cancel", other, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("non-owner cancel: expected 403, got %d", resp.StatusCode)
	}
	resp, _ = do(t, server, http.MethodPut, "/api/bookings/"+created.ID+"/cancel", owner, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner cancel: expected 200, got %d", resp.StatusCode)
	}
	resp, _ = do(t, server, http.MethodPut, "/api/bookings/"+created.ID+"/cancel", owner, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("repeat cancel: expected 200, got %d", resp.StatusCode)
	}

	// the freed slot can be taken
	resp, _ = do(t, server, http.MethodPost, "/api/bookings", other, bookingBody(nine, five))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("rebook: expected 201, got %d", resp.StatusCode)
	}

	resp, _ = do(t, server, http.MethodGet, "/api/bookings/0b0f6f2e-7a8e-4e1f-9b39-0d3c1f0b6a11", owner, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown booking: expected 404, got %d", resp.StatusCode)
	}

	resp, env = do(t, server, http.MethodGet, "/api/bookings/upcoming", owner, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upcoming: expected 200, got %d", resp.StatusCode)
	}
	var upcoming []json.RawMessage
	if err := json.Unmarshal(env.Data, &upcoming); err != nil || len(upcoming) != 2 {
		t.Fatalf("expected 2 upcoming bookings, got %s", env.Data)
	}
}

func TestCheckAndPrefill(t *testing.T) {
	server := newTestServer(t)
	token, _ := login(t, server, "MST")

	resp, env := do(t, server, http.MethodGet, "/api/calendar/prefill?date=2025-03-14", token, nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(env.Data), "2025-03-14T09:00:00+01:00") {
		t.Fatalf("prefill: got %d %s", resp.StatusCode, env.Data)
	}

	day := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 3)
	resp, env = do(t, server, http.MethodPost, "/api/bookings/check", token, bookingBody(day.Add(9*time.Hour), day.Add(10*time.Hour)))
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(env.Data), `"admitted":true`) {
		t.Fatalf("check: got %d %s", resp.StatusCode, env.Data)
	}
}

func TestLogout_EndsSession(t *testing.T) {
	server := newTestServer(t)
	token, _ := login(t, server, "MST")

	resp, _ := do(t, server, http.MethodGet, "/api/auth/me", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", resp.StatusCode)
	}

	resp, _ = do(t, server, http.MethodPost, "/api/auth/logout", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", resp.StatusCode)
	}

	resp, _ = do(t, server, http.MethodGet, "/api/auth/me", token, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("me after logout: expected 401, got %d", resp.StatusCode)
	}
}
