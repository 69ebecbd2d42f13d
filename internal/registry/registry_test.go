package registry

import (
	"errors"
	"sync"
	"testing"

	"github.com/dialdesk/backend/internal/types"
	"github.com/rs/zerolog"
)

func newTestRegistry() *Registry {
	return NewRegistry(nil, zerolog.Nop())
}

func addAgent(t *testing.T, r *Registry, tenantID, agentID, deptID string, capacity int) {
	t.Helper()
	r.UpsertAgent(types.Agent{
		ID:                 agentID,
		TenantID:           tenantID,
		DepartmentID:       deptID,
		Extension:          "1" + agentID,
		Name:               "Agent " + agentID,
		Active:             true,
		MaxConcurrentCalls: capacity,
	})
}

func TestUpsertAndLookup(t *testing.T) {
	r := newTestRegistry()
	addAgent(t, r, "tenant-a", "a1", "d1", 1)

	agent, err := r.Get("tenant-a", "a1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if agent.Status != types.AgentNotAvailable {
		t.Errorf("expected initial status not_available, got %s", agent.Status)
	}

	byExt, err := r.GetByExtension("tenant-a", "1a1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byExt.ID != "a1" {
		t.Errorf("expected a1 by extension, got %s", byExt.ID)
	}

	if _, err := r.Get("tenant-b", "a1"); !errors.Is(err, ErrAgentNotFound) {
		t.Errorf("expected ErrAgentNotFound across tenants, got %v", err)
	}
}

func TestUpsertPreservesLiveState(t *testing.T) {
	r := newTestRegistry()
	addAgent(t, r, "tenant-a", "a1", "d1", 2)

	if err := r.SetStatus("tenant-a", "a1", types.AgentAvailable); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Reserve("tenant-a", "a1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Re-provisioning must not reset status or counters
	addAgent(t, r, "tenant-a", "a1", "d2", 2)

	agent, _ := r.Get("tenant-a", "a1")
	if agent.Status != types.AgentAvailable {
		t.Errorf("expected status preserved, got %s", agent.Status)
	}
	if agent.CurrentCalls != 1 {
		t.Errorf("expected current calls preserved, got %d", agent.CurrentCalls)
	}
	if agent.DepartmentID != "d2" {
		t.Errorf("expected department updated, got %s", agent.DepartmentID)
	}
}

func TestStateMachineTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    types.AgentStatus
		to      types.AgentStatus
		wantErr bool
	}{
		{"opt in", types.AgentNotAvailable, types.AgentAvailable, false},
		{"opt out while available", types.AgentAvailable, types.AgentNotAvailable, false},
		{"not_available to busy is illegal", types.AgentNotAvailable, types.AgentBusy, true},
		{"available to available is illegal", types.AgentAvailable, types.AgentAvailable, true},
		{"busy to busy is illegal", types.AgentBusy, types.AgentBusy, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry()
			addAgent(t, r, "tenant-a", "a1", "d1", 1)

			// Walk the agent into the starting state
			switch tt.from {
			case types.AgentAvailable:
				if err := r.SetStatus("tenant-a", "a1", types.AgentAvailable); err != nil {
					t.Fatalf("setup: %v", err)
				}
			case types.AgentBusy:
				if err := r.SetStatus("tenant-a", "a1", types.AgentAvailable); err != nil {
					t.Fatalf("setup: %v", err)
				}
				if _, err := r.Reserve("tenant-a", "a1"); err != nil {
					t.Fatalf("setup: %v", err)
				}
			}

			err := r.SetStatus("tenant-a", "a1", tt.to)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Fatalf("expected ErrInvalidTransition, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestBusyToAvailableAtCapacityRejected(t *testing.T) {
	r := newTestRegistry()
	addAgent(t, r, "tenant-a", "a1", "d1", 1)

	if err := r.SetStatus("tenant-a", "a1", types.AgentAvailable); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Reserve("tenant-a", "a1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := r.SetStatus("tenant-a", "a1", types.AgentAvailable)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition while at capacity, got %v", err)
	}
}

func TestAvailabilitySessions(t *testing.T) {
	r := newTestRegistry()
	addAgent(t, r, "tenant-a", "a1", "d1", 1)

	if _, open := r.OpenSession("tenant-a", "a1"); open {
		t.Error("expected no open session before opting in")
	}

	if err := r.SetStatus("tenant-a", "a1", types.AgentAvailable); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, open := r.OpenSession("tenant-a", "a1"); !open {
		t.Error("expected open session after entering available")
	}

	if err := r.SetStatus("tenant-a", "a1", types.AgentNotAvailable); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, open := r.OpenSession("tenant-a", "a1"); open {
		t.Error("expected session closed after opting out")
	}
}

func TestReserveAndRelease(t *testing.T) {
	r := newTestRegistry()
	addAgent(t, r, "tenant-a", "a1", "d1", 1)

	// Cannot reserve an opted-out agent
	if _, err := r.Reserve("tenant-a", "a1"); !errors.Is(err, ErrAgentUnavailable) {
		t.Fatalf("expected ErrAgentUnavailable, got %v", err)
	}

	if err := r.SetStatus("tenant-a", "a1", types.AgentAvailable); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	agent, err := r.Reserve("tenant-a", "a1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if agent.Status != types.AgentBusy {
		t.Errorf("expected busy at capacity, got %s", agent.Status)
	}
	if agent.CurrentCalls != 1 {
		t.Errorf("expected 1 current call, got %d", agent.CurrentCalls)
	}

	// Second reservation must fail
	if _, err := r.Reserve("tenant-a", "a1"); !errors.Is(err, ErrAgentUnavailable) {
		t.Errorf("expected ErrAgentUnavailable, got %v", err)
	}

	if err := r.Release("tenant-a", "a1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	agent, _ = r.Get("tenant-a", "a1")
	if agent.Status != types.AgentAvailable {
		t.Errorf("expected available after release, got %s", agent.Status)
	}
	if agent.CurrentCalls != 0 {
		t.Errorf("expected 0 current calls, got %d", agent.CurrentCalls)
	}
}

func TestReserveMultiCapacityStaysAvailable(t *testing.T) {
	r := newTestRegistry()
	addAgent(t, r, "tenant-a", "a1", "d1", 3)

	if err := r.SetStatus("tenant-a", "a1", types.AgentAvailable); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	agent, err := r.Reserve("tenant-a", "a1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if agent.Status != types.AgentAvailable {
		t.Errorf("expected still available under capacity, got %s", agent.Status)
	}
}

func TestConcurrentReserveSingleWinner(t *testing.T) {
	r := newTestRegistry()
	addAgent(t, r, "tenant-a", "a1", "d1", 1)
	if err := r.SetStatus("tenant-a", "a1", types.AgentAvailable); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const attempts = 50
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Reserve("tenant-a", "a1")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	wins, losses := 0, 0
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrAgentUnavailable):
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("expected exactly 1 successful reservation, got %d", wins)
	}
	if losses != attempts-1 {
		t.Errorf("expected %d losers, got %d", attempts-1, losses)
	}

	agent, _ := r.Get("tenant-a", "a1")
	if agent.CurrentCalls != 1 {
		t.Errorf("capacity invariant violated: %d current calls", agent.CurrentCalls)
	}
}

func TestTenantIsolation(t *testing.T) {
	r := newTestRegistry()
	addAgent(t, r, "tenant-a", "a1", "d1", 1)
	addAgent(t, r, "tenant-b", "b1", "d1", 1)

	if got := len(r.ListByTenant("tenant-a")); got != 1 {
		t.Errorf("expected 1 agent for tenant-a, got %d", got)
	}
	if _, err := r.GetByExtension("tenant-a", "1b1"); !errors.Is(err, ErrAgentNotFound) {
		t.Errorf("expected extension lookup scoped to tenant, got %v", err)
	}
	if _, err := r.Reserve("tenant-b", "a1"); !errors.Is(err, ErrAgentNotFound) {
		t.Errorf("expected cross-tenant reserve to fail, got %v", err)
	}
}

func TestDeactivateExcludesFromRouting(t *testing.T) {
	r := newTestRegistry()
	addAgent(t, r, "tenant-a", "a1", "d1", 1)
	if err := r.SetStatus("tenant-a", "a1", types.AgentAvailable); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := r.CountAvailable("tenant-a", "d1"); got != 1 {
		t.Fatalf("expected 1 available, got %d", got)
	}

	if err := r.Deactivate("tenant-a", "a1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := r.CountAvailable("tenant-a", "d1"); got != 0 {
		t.Errorf("expected 0 available after deactivation, got %d", got)
	}
	if _, err := r.Get("tenant-a", "a1"); err != nil {
		t.Errorf("deactivated agent should remain in registry, got %v", err)
	}
}
