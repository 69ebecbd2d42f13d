package registry

import (
	"errors"
	"sync"

	"github.com/dialdesk/backend/internal/types"
	"github.com/rs/zerolog"
)

// ErrAgentNotFound is returned when an agent lookup fails within a tenant
var ErrAgentNotFound = errors.New("agent not found")

// SessionStore persists closed availability sessions. Satisfied by
// store.Store; a no-op store keeps the registry usable without DynamoDB.
type SessionStore interface {
	SaveAvailabilitySession(session types.AvailabilitySession) error
}

// Registry maintains the live state of all agents, scoped per tenant.
// It is the single mutual-exclusion point for agent reservation: every
// read and write happens under one lock so concurrent routing attempts
// can never double-book an agent.
type Registry struct {
	mu          sync.RWMutex
	agents      map[string]map[string]*types.Agent // tenantID -> agentID -> agent
	byExtension map[string]map[string]string       // tenantID -> extension -> agentID
	sessions    map[string]*types.AvailabilitySession // tenantID+"/"+agentID -> open session
	store       SessionStore
	logger      zerolog.Logger
}

// NewRegistry creates a new agent registry
func NewRegistry(store SessionStore, logger zerolog.Logger) *Registry {
	return &Registry{
		agents:      make(map[string]map[string]*types.Agent),
		byExtension: make(map[string]map[string]string),
		sessions:    make(map[string]*types.AvailabilitySession),
		store:       store,
		logger:      logger.With().Str("component", "registry").Logger(),
	}
}

// UpsertAgent adds or replaces an agent from the tenant directory.
// New agents start not_available with zero current calls; an existing
// agent keeps its live routing state (status, counters, last call).
func (r *Registry) UpsertAgent(agent types.Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if agent.MaxConcurrentCalls <= 0 {
		agent.MaxConcurrentCalls = 1
	}

	tenant := r.agents[agent.TenantID]
	if tenant == nil {
		tenant = make(map[string]*types.Agent)
		r.agents[agent.TenantID] = tenant
	}

	if existing, ok := tenant[agent.ID]; ok {
		agent.Status = existing.Status
		agent.CurrentCalls = existing.CurrentCalls
		agent.LastCallAt = existing.LastCallAt
		if existing.Extension != agent.Extension {
			delete(r.byExtension[agent.TenantID], existing.Extension)
		}
	} else {
		agent.Status = types.AgentNotAvailable
		agent.CurrentCalls = 0
	}

	tenant[agent.ID] = &agent

	if agent.Extension != "" {
		exts := r.byExtension[agent.TenantID]
		if exts == nil {
			exts = make(map[string]string)
			r.byExtension[agent.TenantID] = exts
		}
		exts[agent.Extension] = agent.ID
	}

	r.logger.Debug().
		Str("tenant_id", agent.TenantID).
		Str("agent_id", agent.ID).
		Str("department_id", agent.DepartmentID).
		Msg("agent upserted")
}

// Get returns a copy of the agent, scoped to the tenant
func (r *Registry) Get(tenantID, agentID string) (*types.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agent, ok := r.agents[tenantID][agentID]
	if !ok {
		return nil, ErrAgentNotFound
	}
	cp := *agent
	return &cp, nil
}

// GetByExtension looks up an agent by its extension within a tenant
func (r *Registry) GetByExtension(tenantID, extension string) (*types.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agentID, ok := r.byExtension[tenantID][extension]
	if !ok {
		return nil, ErrAgentNotFound
	}
	agent, ok := r.agents[tenantID][agentID]
	if !ok {
		return nil, ErrAgentNotFound
	}
	cp := *agent
	return &cp, nil
}

// ListByTenant returns copies of all agents belonging to a tenant
func (r *Registry) ListByTenant(tenantID string) []types.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agents := make([]types.Agent, 0, len(r.agents[tenantID]))
	for _, agent := range r.agents[tenantID] {
		agents = append(agents, *agent)
	}
	return agents
}

// AvailableByDepartment returns copies of all agents in a department
// that can currently take a call.
func (r *Registry) AvailableByDepartment(tenantID, departmentID string) []types.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agents := make([]types.Agent, 0)
	for _, agent := range r.agents[tenantID] {
		if agent.DepartmentID != departmentID {
			continue
		}
		if agent.Active && agent.Status == types.AgentAvailable &&
			agent.CurrentCalls < agent.MaxConcurrentCalls {
			agents = append(agents, *agent)
		}
	}
	return agents
}

// CountAvailable returns the number of agents in a department that can
// currently take a call.
func (r *Registry) CountAvailable(tenantID, departmentID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, agent := range r.agents[tenantID] {
		if agent.DepartmentID != departmentID {
			continue
		}
		if agent.Active && agent.Status == types.AgentAvailable &&
			agent.CurrentCalls < agent.MaxConcurrentCalls {
			count++
		}
	}
	return count
}

// Deactivate soft-deactivates an agent; it stays in the registry but is
// excluded from routing. Agents are never deleted by the routing core.
func (r *Registry) Deactivate(tenantID, agentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	agent, ok := r.agents[tenantID][agentID]
	if !ok {
		return ErrAgentNotFound
	}
	agent.Active = false
	if agent.Status == types.AgentAvailable {
		r.closeSession(agent, types.AgentNotAvailable)
		agent.Status = types.AgentNotAvailable
	}
	return nil
}

// Count returns the total number of agents for a tenant
func (r *Registry) Count(tenantID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents[tenantID])
}
