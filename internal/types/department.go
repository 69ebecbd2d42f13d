package types

// RoutingStrategy selects how an agent is picked among several available
// candidates in a department. Unrecognized values fall back to round robin.
type RoutingStrategy string

const (
	StrategyRoundRobin    RoutingStrategy = "round_robin"
	StrategyLeastBusy     RoutingStrategy = "least_busy"
	StrategySkillsBased   RoutingStrategy = "skills_based"
	StrategyPriorityBased RoutingStrategy = "priority_based"
)

// Department is a routing group of agents sharing a queue and a strategy.
// Read-only to the routing core; provisioned by the tenant directory.
type Department struct {
	ID                  string          `json:"id"`
	TenantID            string          `json:"tenantId"`
	Name                string          `json:"name"`
	Code                string          `json:"code"`
	IsDefault           bool            `json:"isDefault"`
	Strategy            RoutingStrategy `json:"strategy"`
	MaxQueueSize        int             `json:"maxQueueSize"`
	QueueTimeoutSeconds int             `json:"queueTimeoutSeconds"`
	Active              bool            `json:"active"`
}
