package router

import "github.com/dialdesk/backend/internal/types"

// ComputePriority maps a call's VIP profile and context flags onto the
// fixed ordinal scale. Precedence: emergency flag, then escalation,
// then VIP standing, then normal. The flags decide which source wins;
// the scale itself never changes.
func ComputePriority(profile *types.VIPProfile, rc types.RoutingContext) types.Priority {
	switch {
	case rc.IsEmergency:
		return types.PriorityEmergency
	case rc.IsEscalation:
		return types.PriorityHigh
	case profile != nil:
		return types.PriorityVIP
	default:
		return types.PriorityNormal
	}
}
