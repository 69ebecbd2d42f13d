package vip

import (
	"context"
	"sync"

	"github.com/dialdesk/backend/internal/types"
)

// Resolver looks up the VIP profile for a caller. A nil profile with a
// nil error means the caller is not a VIP; routing proceeds normally.
type Resolver interface {
	ResolveVIP(ctx context.Context, tenantID, callerID string) (*types.VIPProfile, error)
}

// StaticResolver is an in-memory Resolver fed by the tenant provisioning
// surface. Production deployments can swap in a client for an external
// VIP service behind the same interface.
type StaticResolver struct {
	mu       sync.RWMutex
	profiles map[string]map[string]*types.VIPProfile // tenantID -> callerID
}

// NewStaticResolver creates an empty StaticResolver
func NewStaticResolver() *StaticResolver {
	return &StaticResolver{
		profiles: make(map[string]map[string]*types.VIPProfile),
	}
}

// Upsert adds or replaces a VIP profile
func (r *StaticResolver) Upsert(profile types.VIPProfile) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tenant := r.profiles[profile.TenantID]
	if tenant == nil {
		tenant = make(map[string]*types.VIPProfile)
		r.profiles[profile.TenantID] = tenant
	}
	if profile.HandlingRule == "" {
		profile.HandlingRule = types.HandlingNone
	}
	tenant[profile.CallerID] = &profile
}

// Remove deletes a VIP profile; removing an unknown caller is a no-op
func (r *StaticResolver) Remove(tenantID, callerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.profiles[tenantID], callerID)
}

// ResolveVIP returns a copy of the caller's profile, or nil if none
func (r *StaticResolver) ResolveVIP(_ context.Context, tenantID, callerID string) (*types.VIPProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[tenantID][callerID]
	if !ok {
		return nil, nil
	}
	cp := *profile
	return &cp, nil
}
