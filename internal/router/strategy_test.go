package router

import (
	"testing"
	"time"

	"github.com/dialdesk/backend/internal/types"
)

func agentWithLastCall(id string, lastCall *time.Time) types.Agent {
	return types.Agent{ID: id, LastCallAt: lastCall}
}

func TestRoundRobinPrefersNeverCalled(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-10 * time.Minute)

	candidates := []types.Agent{
		agentWithLastCall("a1", &now),
		agentWithLastCall("a2", nil),
		agentWithLastCall("a3", &earlier),
	}
	pick := roundRobin{}.Select(candidates)
	if pick == nil || pick.ID != "a2" {
		t.Errorf("expected never-called a2, got %v", pick)
	}
}

func TestRoundRobinPicksLeastRecent(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-10 * time.Minute)
	earliest := now.Add(-1 * time.Hour)

	candidates := []types.Agent{
		agentWithLastCall("a1", &earlier),
		agentWithLastCall("a2", &earliest),
		agentWithLastCall("a3", &now),
	}
	pick := roundRobin{}.Select(candidates)
	if pick == nil || pick.ID != "a2" {
		t.Errorf("expected least-recently-assigned a2, got %v", pick)
	}
}

func TestLeastBusyPicksFewestCalls(t *testing.T) {
	candidates := []types.Agent{
		{ID: "a1", CurrentCalls: 2},
		{ID: "a2", CurrentCalls: 0},
		{ID: "a3", CurrentCalls: 1},
	}
	pick := leastBusy{}.Select(candidates)
	if pick == nil || pick.ID != "a2" {
		t.Errorf("expected idle a2, got %v", pick)
	}
}

func TestPriorityBasedPicksHighestWeight(t *testing.T) {
	candidates := []types.Agent{
		{ID: "a1", RoutingWeight: 5},
		{ID: "a2", RoutingWeight: 10},
		{ID: "a3", RoutingWeight: 3},
	}
	pick := priorityBased{}.Select(candidates)
	if pick == nil || pick.ID != "a2" {
		t.Errorf("expected heaviest a2, got %v", pick)
	}
}

func TestPriorityBasedTieBreaksRoundRobin(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-1 * time.Hour)

	candidates := []types.Agent{
		{ID: "a1", RoutingWeight: 10, LastCallAt: &now},
		{ID: "a2", RoutingWeight: 10, LastCallAt: &earlier},
		{ID: "a3", RoutingWeight: 5, LastCallAt: nil},
	}
	pick := priorityBased{}.Select(candidates)
	if pick == nil || pick.ID != "a2" {
		t.Errorf("expected tie broken toward a2, got %v", pick)
	}
}

func TestSelectorsHandleEmptyCandidates(t *testing.T) {
	strategies := []types.RoutingStrategy{
		types.StrategyRoundRobin,
		types.StrategyLeastBusy,
		types.StrategySkillsBased,
		types.StrategyPriorityBased,
	}
	for _, s := range strategies {
		if pick := SelectorFor(s).Select(nil); pick != nil {
			t.Errorf("strategy %s: expected nil for empty candidates, got %v", s, pick)
		}
	}
}

func TestSelectorForUnknownStrategyFallsBack(t *testing.T) {
	candidates := []types.Agent{agentWithLastCall("a1", nil)}
	pick := SelectorFor("something_new").Select(candidates)
	if pick == nil || pick.ID != "a1" {
		t.Errorf("expected round robin fallback, got %v", pick)
	}
}

func TestFilterBySkills(t *testing.T) {
	candidates := []types.Agent{
		{ID: "a1", Skills: []string{"german", "billing"}},
		{ID: "a2", Skills: []string{"english"}},
		{ID: "a3", Skills: []string{"german", "billing", "english"}},
	}

	filtered := FilterBySkills(candidates, []string{"german", "billing"})
	if len(filtered) != 2 {
		t.Fatalf("expected 2 matching agents, got %d", len(filtered))
	}
	if filtered[0].ID != "a1" || filtered[1].ID != "a3" {
		t.Errorf("unexpected filter result: %v, %v", filtered[0].ID, filtered[1].ID)
	}

	if got := FilterBySkills(candidates, nil); len(got) != 3 {
		t.Errorf("expected empty requirement to keep everyone, got %d", len(got))
	}
}
