package types

import "time"

// CallRecord represents a finished call for DynamoDB persistence.
// The partition key combines tenant and date so history queries stay
// scoped to a single tenant.
type CallRecord struct {
	TenantDate   string   `json:"tenantDate" dynamodbav:"TenantDate"` // tenantID#YYYY-MM-DD (partition key)
	CallID       string   `json:"callId" dynamodbav:"CallID"`         // sort key
	TenantID     string   `json:"tenantId" dynamodbav:"TenantID"`
	DepartmentID string   `json:"departmentId" dynamodbav:"DepartmentID"`
	AgentID      string   `json:"agentId" dynamodbav:"AgentID"`
	CallerID     string   `json:"callerId" dynamodbav:"CallerID"`
	Priority     Priority `json:"priority" dynamodbav:"Priority"`
	StartedAt    string   `json:"startedAt" dynamodbav:"StartedAt"`   // RFC3339
	ConnectedAt  string   `json:"connectedAt,omitempty" dynamodbav:"ConnectedAt"`
	EndedAt      string   `json:"endedAt,omitempty" dynamodbav:"EndedAt"`
	WaitSeconds  float64  `json:"waitSeconds" dynamodbav:"WaitSeconds"`
	TalkSeconds  float64  `json:"talkSeconds" dynamodbav:"TalkSeconds"`
	Abandoned    bool     `json:"abandoned" dynamodbav:"Abandoned"`
}

// TenantDateKey builds the CallRecord partition key for a tenant and day
func TenantDateKey(tenantID string, t time.Time) string {
	return tenantID + "#" + t.Format("2006-01-02")
}

// TenantAgentKey builds the SessionRecord partition key
func TenantAgentKey(tenantID, agentID string) string {
	return tenantID + "#" + agentID
}

// SessionRecord is the persisted form of an AvailabilitySession
type SessionRecord struct {
	TenantAgent string `json:"tenantAgent" dynamodbav:"TenantAgent"` // tenantID#agentID (partition key)
	StartedAt   string `json:"startedAt" dynamodbav:"StartedAt"`     // RFC3339 (sort key)
	EndedAt     string `json:"endedAt,omitempty" dynamodbav:"EndedAt"`
	EndStatus   string `json:"endStatus,omitempty" dynamodbav:"EndStatus"`
}
