package vip

import (
	"context"
	"testing"

	"github.com/dialdesk/backend/internal/types"
)

func TestResolveUnknownCallerIsNil(t *testing.T) {
	r := NewStaticResolver()

	profile, err := r.ResolveVIP(context.Background(), "tenant-a", "+15550001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile != nil {
		t.Errorf("expected nil profile for unknown caller, got %+v", profile)
	}
}

func TestUpsertAndResolve(t *testing.T) {
	r := NewStaticResolver()
	r.Upsert(types.VIPProfile{
		TenantID:         "tenant-a",
		CallerID:         "+15550001",
		Tier:             2,
		PreferredAgentID: "a1",
		HandlingRule:     types.HandlingImmediateTransfer,
	})

	profile, err := r.ResolveVIP(context.Background(), "tenant-a", "+15550001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile == nil {
		t.Fatal("expected profile")
	}
	if profile.HandlingRule != types.HandlingImmediateTransfer {
		t.Errorf("expected immediate_transfer, got %s", profile.HandlingRule)
	}

	// Same caller, different tenant: not a VIP
	profile, err = r.ResolveVIP(context.Background(), "tenant-b", "+15550001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile != nil {
		t.Error("expected VIP profiles scoped per tenant")
	}
}

func TestUpsertDefaultsHandlingRule(t *testing.T) {
	r := NewStaticResolver()
	r.Upsert(types.VIPProfile{TenantID: "tenant-a", CallerID: "+15550002", Tier: 1})

	profile, _ := r.ResolveVIP(context.Background(), "tenant-a", "+15550002")
	if profile.HandlingRule != types.HandlingNone {
		t.Errorf("expected handling rule none, got %s", profile.HandlingRule)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	r := NewStaticResolver()
	r.Upsert(types.VIPProfile{TenantID: "tenant-a", CallerID: "+15550001", Tier: 1})

	r.Remove("tenant-a", "+15550001")
	r.Remove("tenant-a", "+15550001") // second remove is a no-op

	profile, _ := r.ResolveVIP(context.Background(), "tenant-a", "+15550001")
	if profile != nil {
		t.Error("expected profile removed")
	}
}
