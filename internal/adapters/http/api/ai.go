package api

import (
	"errors"
	"net/http"

	"github.com/okian/aithena/internal/adapters/llm"
	service "github.com/okian/aithena/internal/app"
	"github.com/okian/aithena/internal/domain/profile"
	"github.com/okian/aithena/pkg/logger"
)

// AIHandler serves the /ai/* pipeline endpoints.
type AIHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewAIHandler creates a new AI handler.
func NewAIHandler(deps Dependencies, log logger.Logger) *AIHandler {
	return &AIHandler{deps: deps, logger: log}
}

// recommendRequest keeps profile optional on the wire so a missing one can
// be rejected.
type recommendRequest struct {
	Profile *profile.Profile `json:"profile"`
	Model   string           `json:"model,omitempty"`
}

func (h *AIHandler) decode(w http.ResponseWriter, r *http.Request, op string, v any) bool {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return false
	}
	if err := decodeJSON(w, r, v); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return false
	}
	return true
}

// fail maps orchestrator errors onto HTTP responses.
func (h *AIHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	var up *llm.UpstreamError
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		writeError(w, http.StatusInternalServerError, "not_configured", llm.ErrNotConfigured)
	case errors.As(err, &up):
		status := up.Status
		if status < http.StatusBadRequest || status > 599 {
			status = http.StatusBadGateway
		}
		h.logger.Warn(r.Context(), "upstream model failure",
			logger.String("op", op),
			logger.String("model", up.Model),
			logger.Int("status", up.Status))
		writeJSON(w, status, errorResponse{Code: "upstream_error", Message: up.Body})
	case errors.Is(err, service.ErrCandidatesUnavailable):
		h.logger.Error(r.Context(), "candidate pool unavailable", logger.String("op", op), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "candidates_unavailable", NewKind(op, ErrUnavailable))
	default:
		h.logger.Error(r.Context(), "request failed", logger.String("op", op), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", NewKind(op, ErrUnavailable))
	}
}

// HandleExtract handles POST /ai/extract requests.
func (h *AIHandler) HandleExtract(w http.ResponseWriter, r *http.Request) {
	const op = "api.ai_extract"
	var req service.ExtractRequest
	if !h.decode(w, r, op, &req) {
		return
	}
	res, err := h.deps.Extract(r.Context(), req)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleInvites handles POST /ai/invites requests.
func (h *AIHandler) HandleInvites(w http.ResponseWriter, r *http.Request) {
	const op = "api.ai_invites"
	var req service.InviteRequest
	if !h.decode(w, r, op, &req) {
		return
	}
	res, err := h.deps.Invites(r.Context(), req)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleRecommendations handles POST /ai/recommendations requests.
func (h *AIHandler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	const op = "api.ai_recommendations"
	var req recommendRequest
	if !h.decode(w, r, op, &req) {
		return
	}
	if req.Profile == nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing profile")))
		return
	}
	res, err := h.deps.Recommend(r.Context(), service.RecommendRequest{Profile: *req.Profile, Model: req.Model})
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleStudyPlan handles POST /ai/study-plan requests.
func (h *AIHandler) HandleStudyPlan(w http.ResponseWriter, r *http.Request) {
	const op = "api.ai_study_plan"
	var req service.PlanRequest
	if !h.decode(w, r, op, &req) {
		return
	}
	res, err := h.deps.StudyPlan(r.Context(), req)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleChat handles POST /ai/chat requests.
func (h *AIHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	const op = "api.ai_chat"
	var req service.ChatRequest
	if !h.decode(w, r, op, &req) {
		return
	}
	switch {
	case req.Messages == nil:
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing messages")))
		return
	case req.Personas == nil:
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing personas")))
		return
	}
	res, err := h.deps.Chat(r.Context(), req)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
