package api

import (
	"encoding/json"
	"net/http"

	"github.com/dialdesk/backend/internal/directory"
	"github.com/dialdesk/backend/internal/registry"
	"github.com/dialdesk/backend/internal/types"
	"github.com/dialdesk/backend/internal/vip"
	"github.com/rs/zerolog"
)

// ProvisioningHandler receives tenant directory syncs from the control
// plane: agents, departments, and VIP profiles arrive as bulk upserts on
// the internal surface.
type ProvisioningHandler struct {
	registry        *registry.Registry
	dir             *directory.Directory
	vips            *vip.StaticResolver
	defaultMaxQueue int
	logger          zerolog.Logger
}

// NewProvisioningHandler creates a new ProvisioningHandler. Departments
// synced without an explicit queue limit get defaultMaxQueue.
func NewProvisioningHandler(reg *registry.Registry, dir *directory.Directory, vips *vip.StaticResolver, defaultMaxQueue int, logger zerolog.Logger) *ProvisioningHandler {
	return &ProvisioningHandler{
		registry:        reg,
		dir:             dir,
		vips:            vips,
		defaultMaxQueue: defaultMaxQueue,
		logger:          logger.With().Str("component", "provisioning").Logger(),
	}
}

// HandleSyncAgents handles POST /internal/sync/agents
func (h *ProvisioningHandler) HandleSyncAgents(w http.ResponseWriter, r *http.Request) {
	var agents []types.Agent
	if err := json.NewDecoder(r.Body).Decode(&agents); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	synced := 0
	for _, agent := range agents {
		if agent.ID == "" || agent.TenantID == "" {
			continue
		}
		h.registry.UpsertAgent(agent)
		synced++
	}

	h.logger.Info().Int("synced", synced).Msg("agent sync received")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"synced": synced})
}

// HandleSyncDepartments handles POST /internal/sync/departments
func (h *ProvisioningHandler) HandleSyncDepartments(w http.ResponseWriter, r *http.Request) {
	var depts []types.Department
	if err := json.NewDecoder(r.Body).Decode(&depts); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	synced := 0
	for _, dept := range depts {
		if dept.ID == "" || dept.TenantID == "" {
			continue
		}
		if dept.MaxQueueSize <= 0 {
			dept.MaxQueueSize = h.defaultMaxQueue
		}
		h.dir.Upsert(dept)
		synced++
	}

	h.logger.Info().Int("synced", synced).Msg("department sync received")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"synced": synced})
}

// HandleSyncVIPs handles POST /internal/sync/vips
func (h *ProvisioningHandler) HandleSyncVIPs(w http.ResponseWriter, r *http.Request) {
	var profiles []types.VIPProfile
	if err := json.NewDecoder(r.Body).Decode(&profiles); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	synced := 0
	for _, profile := range profiles {
		if profile.CallerID == "" || profile.TenantID == "" {
			continue
		}
		h.vips.Upsert(profile)
		synced++
	}

	h.logger.Info().Int("synced", synced).Msg("vip sync received")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"synced": synced})
}
