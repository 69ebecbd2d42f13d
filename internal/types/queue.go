package types

import "time"

// QueueEntry is the derived index of a queued call inside a department
// queue. The Call remains the source of truth for status; the entry is
// removed the instant the call is assigned or abandoned.
type QueueEntry struct {
	ID              string     `json:"id"`
	CallID          string     `json:"callId"`
	TenantID        string     `json:"tenantId"`
	DepartmentID    string     `json:"departmentId"`
	CallerID        string     `json:"callerId"`
	Priority        Priority   `json:"priority"`
	EnqueuedAt      time.Time  `json:"enqueuedAt"`
	AssignedAgentID string     `json:"assignedAgentId,omitempty"`
	AssignedAt      *time.Time `json:"assignedAt,omitempty"`
}

// QueueHealth is a coarse classification of department congestion
type QueueHealth string

const (
	HealthExcellent QueueHealth = "excellent"
	HealthGood      QueueHealth = "good"
	HealthFair      QueueHealth = "fair"
	HealthPoor      QueueHealth = "poor"
	HealthCritical  QueueHealth = "critical"
)

// QueueStatus is the monitoring view of one department queue,
// consumed read-only by dashboards.
type QueueStatus struct {
	TenantID        string      `json:"tenantId"`
	DepartmentID    string      `json:"departmentId"`
	TotalQueued     int         `json:"totalQueued"`
	VIPQueued       int         `json:"vipQueued"`
	AvailableAgents int         `json:"availableAgents"`
	AvgWaitSeconds  float64     `json:"avgWaitSeconds"`
	MaxWaitSeconds  float64     `json:"maxWaitSeconds"`
	Health          QueueHealth `json:"health"`
}
