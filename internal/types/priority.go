package types

// Priority is the ordinal scale used to order queued calls.
// Higher values win; ties break on arrival time.
type Priority int

const (
	PriorityLow       Priority = 1
	PriorityNormal    Priority = 2
	PriorityHigh      Priority = 3
	PriorityVIP       Priority = 4
	PriorityEmergency Priority = 5
)

// String returns the human-readable name of the priority
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityVIP:
		return "vip"
	case PriorityEmergency:
		return "emergency"
	default:
		return "unknown"
	}
}

// RoutingContext carries per-call flags that influence priority.
// Emergency beats escalation beats VIP tier beats normal.
type RoutingContext struct {
	IsEmergency  bool `json:"isEmergency,omitempty"`
	IsEscalation bool `json:"isEscalation,omitempty"`
}
