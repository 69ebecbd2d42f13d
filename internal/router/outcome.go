package router

import "github.com/dialdesk/backend/internal/types"

// OutcomeKind discriminates the routing result variants
type OutcomeKind string

const (
	OutcomeConnected OutcomeKind = "connected"
	OutcomeQueued    OutcomeKind = "queued"
	OutcomeRejected  OutcomeKind = "rejected"
)

// RejectReason explains a rejected routing attempt. Rejections are
// expected results, not errors: call-control decides whether to retry,
// offer a callback, or disconnect.
type RejectReason string

const (
	ReasonExtensionNotFound   RejectReason = "extension_not_found"
	ReasonAgentUnavailable    RejectReason = "agent_unavailable"
	ReasonNoDefaultDepartment RejectReason = "no_default_department"
	ReasonQueueFull           RejectReason = "queue_full"
)

// RoutingOutcome is the closed result of one routing attempt: exactly
// one of connected, queued, or rejected.
type RoutingOutcome struct {
	Kind                 OutcomeKind        `json:"outcome"`
	Agent                *types.Agent       `json:"agent,omitempty"`
	Department           *types.Department  `json:"department,omitempty"`
	Position             int                `json:"position,omitempty"`
	EstimatedWaitSeconds float64            `json:"estimatedWaitSeconds,omitempty"`
	Reason               RejectReason       `json:"reason,omitempty"`
}

// Connected builds the outcome for a call bridged to an agent
func Connected(agent *types.Agent, dept *types.Department) RoutingOutcome {
	return RoutingOutcome{Kind: OutcomeConnected, Agent: agent, Department: dept}
}

// Queued builds the outcome for a call placed into a department queue
func Queued(dept *types.Department, position int, estimatedWait float64) RoutingOutcome {
	return RoutingOutcome{
		Kind:                 OutcomeQueued,
		Department:           dept,
		Position:             position,
		EstimatedWaitSeconds: estimatedWait,
	}
}

// Rejected builds the outcome for a call that could not be placed
func Rejected(reason RejectReason) RoutingOutcome {
	return RoutingOutcome{Kind: OutcomeRejected, Reason: reason}
}
