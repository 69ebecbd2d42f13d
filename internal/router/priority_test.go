package router

import (
	"testing"

	"github.com/dialdesk/backend/internal/types"
)

func TestComputePriority(t *testing.T) {
	vipProfile := &types.VIPProfile{CallerID: "+49vip", TenantID: "t1", Tier: 3}

	tests := []struct {
		name    string
		profile *types.VIPProfile
		rc      types.RoutingContext
		want    types.Priority
	}{
		{"normal caller", nil, types.RoutingContext{}, types.PriorityNormal},
		{"vip caller", vipProfile, types.RoutingContext{}, types.PriorityVIP},
		{"escalation", nil, types.RoutingContext{IsEscalation: true}, types.PriorityHigh},
		{"emergency", nil, types.RoutingContext{IsEmergency: true}, types.PriorityEmergency},
		{"emergency outranks vip", vipProfile, types.RoutingContext{IsEmergency: true}, types.PriorityEmergency},
		{"escalation outranks vip standing", vipProfile, types.RoutingContext{IsEscalation: true}, types.PriorityHigh},
		{"emergency outranks escalation", nil, types.RoutingContext{IsEmergency: true, IsEscalation: true}, types.PriorityEmergency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputePriority(tt.profile, tt.rc); got != tt.want {
				t.Errorf("ComputePriority() = %s, want %s", got, tt.want)
			}
		})
	}
}
