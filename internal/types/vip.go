package types

// HandlingRule tells the router how a VIP caller wants to be treated
type HandlingRule string

const (
	HandlingImmediateTransfer   HandlingRule = "immediate_transfer"
	HandlingDedicatedAgent      HandlingRule = "dedicated_agent"
	HandlingPreferredDepartment HandlingRule = "preferred_department"
	HandlingNone                HandlingRule = "none"
)

// VIPProfile is supplied by the VIP service for recognized callers.
// Read-only to the routing core.
type VIPProfile struct {
	CallerID              string       `json:"callerId"`
	TenantID              string       `json:"tenantId"`
	Tier                  int          `json:"tier"`
	PreferredAgentID      string       `json:"preferredAgentId,omitempty"`
	PreferredDepartmentID string       `json:"preferredDepartmentId,omitempty"`
	HandlingRule          HandlingRule `json:"handlingRule"`
}
