package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dialdesk/backend/internal/auth"
	"github.com/dialdesk/backend/internal/router"
	"github.com/dialdesk/backend/internal/types"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// RouteCallRequest is the wire form of a routing request from call control
type RouteCallRequest struct {
	CallID             string   `json:"callId,omitempty"`
	CallerID           string   `json:"callerId"`
	Direction          string   `json:"direction,omitempty"`
	RequestedExtension string   `json:"requestedExtension,omitempty"`
	DepartmentCode     string   `json:"departmentCode,omitempty"`
	RequiredSkills     []string `json:"requiredSkills,omitempty"`
	IsEmergency        bool     `json:"isEmergency,omitempty"`
	IsEscalation       bool     `json:"isEscalation,omitempty"`
}

// CompleteCallRequest carries the final talk time reported by call control
type CompleteCallRequest struct {
	TalkSeconds float64 `json:"talkSeconds"`
}

// CallsHandler exposes the call lifecycle over REST
type CallsHandler struct {
	router *router.Router
	logger zerolog.Logger
}

// NewCallsHandler creates a new CallsHandler
func NewCallsHandler(rt *router.Router, logger zerolog.Logger) *CallsHandler {
	return &CallsHandler{
		router: rt,
		logger: logger.With().Str("component", "calls_handler").Logger(),
	}
}

// HandleRoute handles POST /api/calls/route
func (h *CallsHandler) HandleRoute(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := auth.TenantFromContext(r.Context())
	if !ok {
		http.Error(w, "no tenant in request context", http.StatusUnauthorized)
		return
	}

	var req RouteCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.CallerID == "" {
		http.Error(w, "callerId is required", http.StatusBadRequest)
		return
	}

	outcome, err := h.router.Route(r.Context(), router.RouteRequest{
		TenantID:           tenantID,
		CallID:             req.CallID,
		CallerID:           req.CallerID,
		Direction:          types.CallDirection(req.Direction),
		RequestedExtension: req.RequestedExtension,
		DepartmentCode:     req.DepartmentCode,
		RequiredSkills:     req.RequiredSkills,
		Context: types.RoutingContext{
			IsEmergency:  req.IsEmergency,
			IsEscalation: req.IsEscalation,
		},
	})
	if err != nil {
		h.logger.Error().Err(err).Str("tenant_id", tenantID).Msg("routing failed")
		http.Error(w, "routing failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(outcome)
}

// HandleGet handles GET /api/calls/{callId}
func (h *CallsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := auth.TenantFromContext(r.Context())
	if !ok {
		http.Error(w, "no tenant in request context", http.StatusUnauthorized)
		return
	}
	callID := chi.URLParam(r, "callId")

	call, err := h.router.GetCall(tenantID, callID)
	if err != nil {
		http.Error(w, "call not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(call)
}

// HandleComplete handles POST /api/calls/{callId}/complete
func (h *CallsHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := auth.TenantFromContext(r.Context())
	if !ok {
		http.Error(w, "no tenant in request context", http.StatusUnauthorized)
		return
	}
	callID := chi.URLParam(r, "callId")

	var req CompleteCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	call, err := h.router.Complete(tenantID, callID, req.TalkSeconds)
	if err != nil {
		if errors.Is(err, router.ErrCallNotFound) {
			http.Error(w, "call not found", http.StatusNotFound)
			return
		}
		h.logger.Error().Err(err).Str("call_id", callID).Msg("failed to complete call")
		http.Error(w, "failed to complete call", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(call)
}

// HandleAbandon handles POST /api/calls/{callId}/abandon
func (h *CallsHandler) HandleAbandon(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := auth.TenantFromContext(r.Context())
	if !ok {
		http.Error(w, "no tenant in request context", http.StatusUnauthorized)
		return
	}
	callID := chi.URLParam(r, "callId")

	call, err := h.router.Abandon(tenantID, callID)
	if err != nil {
		h.logger.Error().Err(err).Str("call_id", callID).Msg("failed to abandon call")
		http.Error(w, "failed to abandon call", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if call == nil {
		// Unknown or already finished; abandon is idempotent
		json.NewEncoder(w).Encode(map[string]string{"status": "noop"})
		return
	}
	json.NewEncoder(w).Encode(call)
}
