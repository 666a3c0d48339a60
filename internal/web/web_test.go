package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"nextcal/internal/config"
)

func testConfig(feedURL string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"
	if feedURL != "" {
		cfg.Feeds = []config.FeedConfig{{URL: feedURL, ID: "team"}}
	}
	return cfg
}

func TestHandleHealth(t *testing.T) {
	t.Parallel()

	s := NewServer(testConfig(""), true)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Fatalf("health = %d %q", rec.Code, rec.Body.String())
	}
}

func TestBasicAuth(t *testing.T) {
	t.Parallel()

	cfg := testConfig("")
	cfg.BasicAuth = &config.BasicAuthConfig{Username: "user", Password: "secret"}
	s := NewServer(cfg, true)
	h := s.Handler()

	// /health stays open.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health behind auth = %d", rec.Code)
	}

	// Everything else requires credentials.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/board", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated board = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/board", nil)
	req.SetBasicAuth("user", "wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password = %d, want 401", rec.Code)
	}
}

func TestAPIPathsNeverServeStatic(t *testing.T) {
	t.Parallel()

	s := NewServer(testConfig(""), true)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown api path = %d, want 404", rec.Code)
	}
}

func TestHandleBoardEndToEnd(t *testing.T) {
	feedBody := `[
		{"id": "standup", "title": "Standup", "start": "2024-01-01T09:00:00",
		 "recurring": true,
		 "recurrence": {"type": "weekly", "interval": 1, "weekday": 1}},
		{"id": "bad", "title": "Bad", "start": "2024-01-01T09:00:00",
		 "recurring": true,
		 "recurrence": {"type": "monthly", "weekday": 1, "weekOfMonth": 6}}
	]`
	feedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(feedBody))
	}))
	defer feedSrv.Close()

	// Debug mode uses working-directory cache paths.
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldWD); err != nil {
			t.Fatalf("restore wd: %v", err)
		}
	})

	s := NewServer(testConfig(feedSrv.URL), true)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/board", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("board = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Upcoming  []struct{ ID string }
		Recurring []struct {
			ID    string
			RRule string `json:"rrule"`
		}
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Recurring) != 1 || resp.Recurring[0].ID != "standup" {
		t.Fatalf("recurring = %+v, want only standup", resp.Recurring)
	}
	if resp.Recurring[0].RRule == "" {
		t.Fatal("recurring entry missing rrule")
	}

	// The ICS export serves the same board.
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/board.ics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("board.ics = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Fatalf("board.ics content type = %q", ct)
	}
	if body := rec.Body.String(); !strings.Contains(body, "UID:team/standup@nextcal") {
		t.Fatalf("board.ics missing standup event:\n%s", body)
	}
}
