package types

import "time"

// CallDirection distinguishes inbound from outbound calls
type CallDirection string

const (
	DirectionInbound  CallDirection = "inbound"
	DirectionOutbound CallDirection = "outbound"
)

// CallStatus represents the lifecycle state of a call
type CallStatus string

const (
	CallStatusRinging   CallStatus = "ringing"   // Ingested, routing not yet decided
	CallStatusQueued    CallStatus = "queued"    // Waiting in a department queue
	CallStatusConnected CallStatus = "connected" // Bridged to an agent
	CallStatusCompleted CallStatus = "completed" // Finished normally
	CallStatusFailed    CallStatus = "failed"    // Could not be routed
	CallStatusAbandoned CallStatus = "abandoned" // Caller hung up while waiting
)

// Call represents a live or queued call in the system
type Call struct {
	ID           string        `json:"id"`
	TenantID     string        `json:"tenantId"`
	Direction    CallDirection `json:"direction"`
	Status       CallStatus    `json:"status"`
	CallerID     string        `json:"callerId"`
	AgentID      string        `json:"agentId,omitempty"`
	DepartmentID string        `json:"departmentId,omitempty"`
	Priority     Priority      `json:"priority"`
	StartedAt    time.Time     `json:"startedAt"`
	ConnectedAt  *time.Time    `json:"connectedAt,omitempty"`
	EndedAt      *time.Time    `json:"endedAt,omitempty"`
}
