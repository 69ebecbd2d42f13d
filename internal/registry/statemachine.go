package registry

import (
	"fmt"
	"time"

	"github.com/dialdesk/backend/internal/types"
)

// ErrInvalidTransition is wrapped into every rejected status change
var ErrInvalidTransition = fmt.Errorf("invalid status transition")

// validTransitions is the closed table of allowed status changes.
// Anything not listed here is rejected.
//
//	not_available -> available  (agent opts in)
//	available     -> busy       (call reserved / at capacity)
//	busy          -> available  (capacity freed)
//	available     -> not_available (agent opts out)
//	busy          -> not_available (agent opts out, active calls drain)
var validTransitions = map[types.AgentStatus][]types.AgentStatus{
	types.AgentNotAvailable: {types.AgentAvailable},
	types.AgentAvailable:    {types.AgentBusy, types.AgentNotAvailable},
	types.AgentBusy:         {types.AgentAvailable, types.AgentNotAvailable},
}

func transitionAllowed(from, to types.AgentStatus) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// SetStatus applies a validated status transition for an agent. Entering
// available opens an availability session; leaving it closes the open
// session with the terminal status. The transition and any session
// bookkeeping happen atomically under the registry lock.
func (r *Registry) SetStatus(tenantID, agentID string, status types.AgentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	agent, ok := r.agents[tenantID][agentID]
	if !ok {
		return ErrAgentNotFound
	}

	if !transitionAllowed(agent.Status, status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, agent.Status, status)
	}

	// An agent still at capacity cannot be forced back to available
	if agent.Status == types.AgentBusy && status == types.AgentAvailable &&
		agent.CurrentCalls >= agent.MaxConcurrentCalls {
		return fmt.Errorf("%w: busy -> available with %d active calls at capacity %d",
			ErrInvalidTransition, agent.CurrentCalls, agent.MaxConcurrentCalls)
	}

	previous := agent.Status
	agent.Status = status

	switch {
	case status == types.AgentAvailable:
		r.openSession(agent)
	case previous == types.AgentAvailable:
		r.closeSession(agent, status)
	}

	r.logger.Debug().
		Str("tenant_id", tenantID).
		Str("agent_id", agentID).
		Str("previous", string(previous)).
		Str("status", string(status)).
		Msg("agent status changed")

	return nil
}

// openSession starts a new availability session. Caller holds the lock.
func (r *Registry) openSession(agent *types.Agent) {
	key := agent.TenantID + "/" + agent.ID
	r.sessions[key] = &types.AvailabilitySession{
		AgentID:   agent.ID,
		TenantID:  agent.TenantID,
		StartedAt: time.Now(),
	}
}

// closeSession ends the open availability session, if any, and hands it
// to the store. Caller holds the lock; persistence runs off it.
func (r *Registry) closeSession(agent *types.Agent, endStatus types.AgentStatus) {
	key := agent.TenantID + "/" + agent.ID
	session, ok := r.sessions[key]
	if !ok {
		return
	}
	delete(r.sessions, key)

	now := time.Now()
	session.EndedAt = &now
	session.EndStatus = endStatus

	if r.store == nil {
		return
	}
	closed := *session
	go func() {
		if err := r.store.SaveAvailabilitySession(closed); err != nil {
			r.logger.Error().Err(err).
				Str("tenant_id", closed.TenantID).
				Str("agent_id", closed.AgentID).
				Msg("failed to save availability session")
		}
	}()
}

// OpenSession returns a copy of the agent's open availability session,
// if one exists. Used by utilization accounting and tests.
func (r *Registry) OpenSession(tenantID, agentID string) (*types.AvailabilitySession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[tenantID+"/"+agentID]
	if !ok {
		return nil, false
	}
	cp := *session
	return &cp, true
}
