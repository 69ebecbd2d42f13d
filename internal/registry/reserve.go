package registry

import (
	"errors"
	"time"

	"github.com/dialdesk/backend/internal/types"
)

// ErrAgentUnavailable is returned when a reservation target exists but
// cannot take the call right now. Callers treat it as an expected
// outcome and re-enter selection as if the agent were not a candidate.
var ErrAgentUnavailable = errors.New("agent cannot take a call")

// Reserve atomically books one call slot on an agent: the availability
// check and the counter increment happen as a single conditional update
// under the registry lock. When two routing attempts race for the same
// single-capacity agent, exactly one succeeds; the loser gets
// ErrAgentUnavailable. Returns a copy of the agent after reservation.
func (r *Registry) Reserve(tenantID, agentID string) (*types.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	agent, ok := r.agents[tenantID][agentID]
	if !ok {
		return nil, ErrAgentNotFound
	}
	if agent.TenantID != tenantID {
		return nil, types.ErrTenantMismatch
	}
	if !agent.Active || agent.Status != types.AgentAvailable ||
		agent.CurrentCalls >= agent.MaxConcurrentCalls {
		return nil, ErrAgentUnavailable
	}

	agent.CurrentCalls++
	now := time.Now()
	agent.LastCallAt = &now

	// At capacity: the available -> busy transition applies atomically
	// with the counter change that triggered it.
	if agent.CurrentCalls >= agent.MaxConcurrentCalls {
		agent.Status = types.AgentBusy
		r.closeSession(agent, types.AgentBusy)
	}

	cp := *agent
	return &cp, nil
}

// Release returns one call slot on an agent. Dropping below capacity
// flips busy back to available in the same update; an agent that opted
// out stays not_available while its remaining calls drain.
func (r *Registry) Release(tenantID, agentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	agent, ok := r.agents[tenantID][agentID]
	if !ok {
		return ErrAgentNotFound
	}

	if agent.CurrentCalls > 0 {
		agent.CurrentCalls--
	}

	if agent.Status == types.AgentBusy && agent.CurrentCalls < agent.MaxConcurrentCalls {
		agent.Status = types.AgentAvailable
		r.openSession(agent)
	}

	return nil
}
