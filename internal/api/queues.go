package api

import (
	"encoding/json"
	"net/http"

	"github.com/dialdesk/backend/internal/auth"
	"github.com/dialdesk/backend/internal/directory"
	"github.com/dialdesk/backend/internal/router"
	"github.com/dialdesk/backend/internal/types"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// QueuesHandler exposes department queue monitoring over REST
type QueuesHandler struct {
	router *router.Router
	dir    *directory.Directory
	logger zerolog.Logger
}

// NewQueuesHandler creates a new QueuesHandler
func NewQueuesHandler(rt *router.Router, dir *directory.Directory, logger zerolog.Logger) *QueuesHandler {
	return &QueuesHandler{
		router: rt,
		dir:    dir,
		logger: logger.With().Str("component", "queues_handler").Logger(),
	}
}

// HandleDepartments handles GET /api/departments
func (h *QueuesHandler) HandleDepartments(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := auth.TenantFromContext(r.Context())
	if !ok {
		http.Error(w, "no tenant in request context", http.StatusUnauthorized)
		return
	}

	depts := h.dir.ListByTenant(tenantID)
	if depts == nil {
		depts = []types.Department{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(depts)
}

// HandleQueueStatus handles GET /api/departments/{code}/queue
func (h *QueuesHandler) HandleQueueStatus(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := auth.TenantFromContext(r.Context())
	if !ok {
		http.Error(w, "no tenant in request context", http.StatusUnauthorized)
		return
	}
	code := chi.URLParam(r, "code")

	dept, err := h.dir.GetByCode(tenantID, code)
	if err != nil {
		http.Error(w, "department not found", http.StatusNotFound)
		return
	}

	status := h.router.QueueStatus(tenantID, dept.ID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

// HandleQueueOverview handles GET /api/queues
func (h *QueuesHandler) HandleQueueOverview(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := auth.TenantFromContext(r.Context())
	if !ok {
		http.Error(w, "no tenant in request context", http.StatusUnauthorized)
		return
	}

	snapshots := h.router.QueueSnapshots(tenantID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snapshots)
}
