package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dialdesk/backend/internal/auth"
	"github.com/dialdesk/backend/internal/registry"
	"github.com/dialdesk/backend/internal/storage"
	"github.com/dialdesk/backend/internal/types"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// SetStatusRequest is the wire form of an agent status change
type SetStatusRequest struct {
	Status types.AgentStatus `json:"status"`
}

// AgentsHandler exposes the agent roster and status control over REST
type AgentsHandler struct {
	registry *registry.Registry
	store    storage.Store
	logger   zerolog.Logger
}

// NewAgentsHandler creates a new AgentsHandler
func NewAgentsHandler(reg *registry.Registry, store storage.Store, logger zerolog.Logger) *AgentsHandler {
	return &AgentsHandler{
		registry: reg,
		store:    store,
		logger:   logger.With().Str("component", "agents_handler").Logger(),
	}
}

// HandleList handles GET /api/agents
func (h *AgentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := auth.TenantFromContext(r.Context())
	if !ok {
		http.Error(w, "no tenant in request context", http.StatusUnauthorized)
		return
	}

	agents := h.registry.ListByTenant(tenantID)
	if agents == nil {
		agents = []types.Agent{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(agents)
}

// HandleGet handles GET /api/agents/{agentId}
func (h *AgentsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := auth.TenantFromContext(r.Context())
	if !ok {
		http.Error(w, "no tenant in request context", http.StatusUnauthorized)
		return
	}
	agentID := chi.URLParam(r, "agentId")

	agent, err := h.registry.Get(tenantID, agentID)
	if err != nil {
		http.Error(w, "agent not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(agent)
}

// HandleSetStatus handles PUT /api/agents/{agentId}/status
func (h *AgentsHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := auth.TenantFromContext(r.Context())
	if !ok {
		http.Error(w, "no tenant in request context", http.StatusUnauthorized)
		return
	}
	agentID := chi.URLParam(r, "agentId")

	var req SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if err := h.registry.SetStatus(tenantID, agentID, req.Status); err != nil {
		switch {
		case errors.Is(err, registry.ErrAgentNotFound):
			http.Error(w, "agent not found", http.StatusNotFound)
		case errors.Is(err, registry.ErrInvalidTransition):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			h.logger.Error().Err(err).Str("agent_id", agentID).Msg("failed to set agent status")
			http.Error(w, "failed to set status", http.StatusInternalServerError)
		}
		return
	}

	agent, err := h.registry.Get(tenantID, agentID)
	if err != nil {
		http.Error(w, "agent not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(agent)
}

// HandleSessions handles GET /api/agents/{agentId}/sessions
func (h *AgentsHandler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := auth.TenantFromContext(r.Context())
	if !ok {
		http.Error(w, "no tenant in request context", http.StatusUnauthorized)
		return
	}
	agentID := chi.URLParam(r, "agentId")

	sessions, err := h.store.GetAvailabilitySessions(tenantID, agentID)
	if err != nil {
		h.logger.Error().Err(err).Str("agent_id", agentID).Msg("failed to get availability sessions")
		http.Error(w, "failed to retrieve sessions", http.StatusInternalServerError)
		return
	}
	if sessions == nil {
		sessions = []types.SessionRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sessions)
}

// HandleCalls handles GET /api/agents/{agentId}/calls?date=YYYY-MM-DD
func (h *AgentsHandler) HandleCalls(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := auth.TenantFromContext(r.Context())
	if !ok {
		http.Error(w, "no tenant in request context", http.StatusUnauthorized)
		return
	}
	agentID := chi.URLParam(r, "agentId")

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		http.Error(w, "date query parameter is required (YYYY-MM-DD)", http.StatusBadRequest)
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	records, err := h.store.GetAgentCallRecords(tenantID, agentID, date)
	if err != nil {
		h.logger.Error().Err(err).
			Str("agent_id", agentID).
			Str("date", dateStr).
			Msg("failed to get agent call records")
		http.Error(w, "failed to retrieve calls", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []types.CallRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}
