package web

import (
	"context"
	"crypto/subtle"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"nextcal/internal/board"
	"nextcal/internal/config"
	"nextcal/internal/export"
	"nextcal/internal/feed"
	appLog "nextcal/internal/log"
	"nextcal/internal/model"
)

// Server provides the HTTP surface: the JSON board API, the iCalendar
// export, the rendered preview, and the embedded static board page.
type Server struct {
	cfg   *config.Config
	debug bool
	mux   *http.ServeMux

	// Short-TTL cache in front of the fetch/parse/build pipeline so the
	// UI and the ICS export don't re-fetch feeds on every request. The
	// board itself is recomputed fresh whenever the cache expires.
	boardMu    sync.RWMutex
	boardCache *boardCache
}

// embeddedStatic holds the board page served at /.
//
//go:embed all:static
var embeddedStatic embed.FS

// NewServer constructs a new Server.
func NewServer(cfg *config.Config, debug bool) *Server {
	s := &Server{
		cfg:   cfg,
		debug: debug,
		mux:   http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// An empty username or password counts as disabled.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="nextcal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// StartServer starts an HTTP server bound to cfg.Listen.
func StartServer(_ context.Context, cfg *config.Config, debug bool) error {
	s := NewServer(cfg, debug)
	appLog.Info("starting HTTP server", "listen", "http://"+cfg.Listen, "debug", debug)
	return http.ListenAndServe(cfg.Listen, s.Handler())
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/board", s.handleBoard)
	s.mux.HandleFunc("/board.ics", s.handleBoardICS)
	s.mux.HandleFunc("/preview.png", s.handlePreview)

	// Embedded static board page; all non-API paths fall back here.
	s.mux.Handle("/", s.staticFileServer())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// staticFileServer serves the embedded board page from internal/web/static.
func (s *Server) staticFileServer() http.Handler {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		appLog.Error("failed to initialize embedded static filesystem", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "static UI not available", http.StatusServiceUnavailable)
		})
	}

	fileServer := http.FileServer(http.FS(sub))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// API paths must never fall through to the static page.
		if r.URL.Path == "/api" || strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	})
}

// handlePreview serves the last captured PNG from disk. The path matches
// the capture pipeline in cmd/nextcal.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	previewPath := "/var/lib/nextcal/preview.png"
	if s.debug {
		previewPath = "./cache/preview.png"
	}
	http.ServeFile(w, r, previewPath)
}

// boardResponse is the JSON response shape for /api/board.
type boardResponse struct {
	GeneratedAt     time.Time  `json:"generated_at"`
	DisplayTimeZone string     `json:"display_timezone"`
	Upcoming        []entryDTO `json:"upcoming"`
	Recurring       []entryDTO `json:"recurring"`
}

// entryDTO is a JSON-friendly view of a board entry.
type entryDTO struct {
	SourceID    string    `json:"source_id"`
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	When        time.Time `json:"when"`
	Recurring   bool      `json:"recurring"`
	RRule       string    `json:"rrule,omitempty"`
}

// boardCache holds one assembled board and its timestamp.
type boardCache struct {
	board     board.Board
	updatedAt time.Time
}

const boardCacheTTL = 30 * time.Second

// currentBoard returns a board for now, reusing the cached one while it
// is fresh. horizonDays <= 0 falls back to the configured horizon.
func (s *Server) currentBoard(ctx context.Context, horizonDays int) (board.Board, error) {
	if horizonDays <= 0 {
		horizonDays = s.cfg.HorizonDays
	}

	s.boardMu.RLock()
	bc := s.boardCache
	s.boardMu.RUnlock()
	if bc != nil && time.Since(bc.updatedAt) < boardCacheTTL {
		return bc.board, nil
	}

	loc := resolveLocationOrLocal(s.cfg.Timezone)
	now := time.Now().In(loc)

	sources := make([]feed.Source, 0, len(s.cfg.Feeds))
	for _, fc := range s.cfg.Feeds {
		if fc.URL == "" {
			continue
		}
		id := fc.ID
		if id == "" {
			if fc.Name != "" {
				id = fc.Name
			} else {
				id = fc.URL
			}
		}
		sources = append(sources, feed.Source{ID: id, URL: fc.URL})
	}

	cacheDir := "/var/lib/nextcal/feed-cache"
	if s.debug {
		cacheDir = "./cache/feed-cache"
	}
	fetcher := feed.NewFetcher(cacheDir)

	fetchResults, fetchErrs := fetcher.FetchAll(ctx, sources)
	if len(fetchErrs) > 0 {
		appLog.Warn("one or more feed fetches failed", "error_count", len(fetchErrs), "detail", errorsAggregate(fetchErrs))
	}
	if len(sources) > 0 && len(fetchResults) == 0 {
		return board.Board{}, errors.New("no feed produced a body")
	}

	events := make([]model.Event, 0)
	for _, res := range fetchResults {
		evs, err := feed.ParseFeed(res.Source, res.Body, loc)
		if err != nil {
			appLog.Error("feed parse failed for source", err, "id", res.Source.ID)
			continue
		}
		events = append(events, evs...)
	}

	b := board.Build(events, now, horizonDays)

	s.boardMu.Lock()
	s.boardCache = &boardCache{board: b, updatedAt: time.Now()}
	s.boardMu.Unlock()

	return b, nil
}

// handleBoard returns the assembled board as JSON.
//
// GET /api/board?days=30
//   - days: one-off horizon in days (default: config horizon_days)
func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	days := parseIntDefault(r.URL.Query().Get("days"), 0)

	b, err := s.currentBoard(r.Context(), days)
	if err != nil {
		appLog.Error("api board: build failed", err)
		writeError(w, http.StatusBadGateway, "failed to build board")
		return
	}

	loc := resolveLocationOrLocal(s.cfg.Timezone)
	resp := boardResponse{
		GeneratedAt:     b.GeneratedAt,
		DisplayTimeZone: loc.String(),
		Upcoming:        toDTOs(b.Upcoming),
		Recurring:       toDTOs(b.Recurring),
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleBoardICS serves the same board as an iCalendar feed.
func (s *Server) handleBoardICS(w http.ResponseWriter, r *http.Request) {
	b, err := s.currentBoard(r.Context(), 0)
	if err != nil {
		appLog.Error("board.ics: build failed", err)
		writeError(w, http.StatusBadGateway, "failed to build board")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(export.ICS(b)))
}

func toDTOs(entries []model.Entry) []entryDTO {
	out := make([]entryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryDTO{
			SourceID:    e.SourceID,
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			Location:    e.Location,
			When:        e.When,
			Recurring:   e.Recurring,
			RRule:       e.RRule,
		})
	}
	return out
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func resolveLocationOrLocal(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", name)
		return time.Local
	}
	return loc
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}

func errorsAggregate(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	var b strings.Builder
	for i, e := range errs {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(e.Error())
	}
	return errors.New(b.String())
}
