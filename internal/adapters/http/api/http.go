// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	service "github.com/okian/aithena/internal/app"
	"github.com/okian/aithena/pkg/logger"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Extract(ctx context.Context, req service.ExtractRequest) (service.ExtractResult, error)
	Invites(ctx context.Context, req service.InviteRequest) (service.InvitesResult, error)
	Recommend(ctx context.Context, req service.RecommendRequest) (service.RecommendResult, error)
	StudyPlan(ctx context.Context, req service.PlanRequest) (service.PlanResult, error)
	Chat(ctx context.Context, req service.ChatRequest) (service.ChatReply, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	aiHandler     *AIHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		aiHandler:     NewAIHandler(deps, log),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", MetricsMiddleware(s.healthHandler.HandleHealth, "metrics"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("/ai/chat", MetricsMiddleware(s.aiHandler.HandleChat, "ai_chat"))
	mux.HandleFunc("/ai/extract", MetricsMiddleware(s.aiHandler.HandleExtract, "ai_extract"))
	mux.HandleFunc("/ai/invites", MetricsMiddleware(s.aiHandler.HandleInvites, "ai_invites"))
	mux.HandleFunc("/ai/recommendations", MetricsMiddleware(s.aiHandler.HandleRecommendations, "ai_recommendations"))
	mux.HandleFunc("/ai/study-plan", MetricsMiddleware(s.aiHandler.HandleStudyPlan, "ai_study_plan"))

	// "/" matches everything unclaimed; HandleRoot answers only the exact path.
	mux.HandleFunc("/", MetricsMiddleware(HandleRoot, "root"))
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
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeJSON reads a single JSON value from the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty request body")
		}
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after JSON body")
	}
	return nil
}

// HandleRoot answers GET / with a liveness payload and 404s anything else.
func HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" || r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
