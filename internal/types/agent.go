package types

import "time"

// AgentStatus represents an agent's availability state
type AgentStatus string

const (
	// AgentNotAvailable is the initial state; the agent has not opted in
	// to receive calls (or has opted out again).
	AgentNotAvailable AgentStatus = "not_available"
	// AgentAvailable means the agent can be reserved for a call.
	AgentAvailable AgentStatus = "available"
	// AgentBusy means the agent is at its concurrent-call capacity.
	AgentBusy AgentStatus = "busy"
)

// Agent represents a human agent that can receive routed calls.
// All live-routing fields (Status, CurrentCalls, LastCallAt) are owned
// by the registry; identity fields come from tenant provisioning.
type Agent struct {
	ID                 string      `json:"id"`
	TenantID           string      `json:"tenantId"`
	DepartmentID       string      `json:"departmentId"`
	Extension          string      `json:"extension,omitempty"`
	Name               string      `json:"name"`
	Active             bool        `json:"active"`
	Status             AgentStatus `json:"status"`
	CurrentCalls       int         `json:"currentCalls"`
	MaxConcurrentCalls int         `json:"maxConcurrentCalls"`
	Skills             []string    `json:"skills,omitempty"`
	RoutingWeight      int         `json:"routingWeight"`
	LastCallAt         *time.Time  `json:"lastCallAt,omitempty"`
}

// HasSkills reports whether the agent covers every required skill.
// An empty requirement always matches.
func (a *Agent) HasSkills(required []string) bool {
	if len(required) == 0 {
		return true
	}
	have := make(map[string]bool, len(a.Skills))
	for _, s := range a.Skills {
		have[s] = true
	}
	for _, s := range required {
		if !have[s] {
			return false
		}
	}
	return true
}

// AvailabilitySession records one contiguous span an agent spent available.
// A session opens when the agent enters available and closes when it
// leaves, carrying the status it left to.
type AvailabilitySession struct {
	AgentID   string      `json:"agentId"`
	TenantID  string      `json:"tenantId"`
	StartedAt time.Time   `json:"startedAt"`
	EndedAt   *time.Time  `json:"endedAt,omitempty"`
	EndStatus AgentStatus `json:"endStatus,omitempty"`
}
