// Package stubs serves the placeholder collaborators the web client expects
// next to the AI endpoints: demo auth, sessions, matching, locations and a
// realtime hello socket. None of them persist anything.
package stubs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/okian/aithena/pkg/logger"
)

// DemoEmail is reported by /auth/me when no valid token is presented.
const DemoEmail = "demo@example.com"

// Handler holds the stub routes.
type Handler struct {
	secret []byte
	ttl    time.Duration
	logger logger.Logger
	now    func() time.Time
}

// Option configures a Handler.
type Option func(*Handler)

// WithSecret sets the HS256 signing key for issued tokens.
func WithSecret(secret string) Option {
	return func(h *Handler) { h.secret = []byte(secret) }
}

// WithTTL sets the lifetime of issued tokens.
func WithTTL(ttl time.Duration) Option {
	return func(h *Handler) {
		if ttl > 0 {
			h.ttl = ttl
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithClock overrides the time source used for token claims.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// New creates a stub handler.
func New(opts ...Option) *Handler {
	h := &Handler{
		secret: []byte("dev-secret"),
		ttl:    time.Hour,
		logger: logger.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register attaches the stub routes to mux.
func (h *Handler) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("POST /auth/login", h.HandleLogin)
	mux.HandleFunc("GET /auth/me", h.HandleMe)

	mux.HandleFunc("GET /sessions", h.HandleListSessions)
	mux.HandleFunc("POST /sessions", h.HandleCreateSession)

	mux.HandleFunc("GET /matching/recommendations", h.HandleMatchingRecommendations)
	mux.HandleFunc("POST /matching/like/{id}", h.HandleLike)

	mux.HandleFunc("GET /locations/nearby", h.HandleNearby)
	mux.HandleFunc("POST /locations/check-in", h.HandleCheckIn)

	mux.HandleFunc("GET /ws", h.HandleWS)
}

// HandleListSessions handles GET /sessions.
func (h *Handler) HandleListSessions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, []any{})
}

// HandleCreateSession handles POST /sessions.
func (h *Handler) HandleCreateSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"id": uuid.NewString()})
}

// HandleMatchingRecommendations handles GET /matching/recommendations.
func (h *Handler) HandleMatchingRecommendations(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, []any{})
}

// HandleLike handles POST /matching/like/{id}.
func (h *Handler) HandleLike(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "id": r.PathValue("id")})
}

// HandleNearby handles GET /locations/nearby?lat&lng.
func (h *Handler) HandleNearby(w http.ResponseWriter, r *http.Request) {
	lat, lng, err := coordinates(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"lat": lat, "lng": lng, "results": []any{}})
}

// HandleCheckIn handles POST /locations/check-in?lat&lng.
func (h *Handler) HandleCheckIn(w http.ResponseWriter, r *http.Request) {
	lat, lng, err := coordinates(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "lat": lat, "lng": lng})
}

func coordinates(r *http.Request) (float64, float64, error) {
	q := r.URL.Query()
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: lat", ErrBadQuery)
	}
	lng, err := strconv.ParseFloat(q.Get("lng"), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: lng", ErrBadQuery)
	}
	return lat, lng, nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, errorResponse{Code: code, Message: err.Error()})
}
