package router

import (
	"github.com/dialdesk/backend/internal/types"
)

// Selector picks the best agent among available candidates. Candidates
// are already filtered to available, skill-matching agents; an empty
// slice yields nil.
type Selector interface {
	Select(candidates []types.Agent) *types.Agent
}

// SelectorFor returns the selector for a department's configured
// strategy. The enum is closed: anything unrecognized routes round robin.
func SelectorFor(strategy types.RoutingStrategy) Selector {
	switch strategy {
	case types.StrategyLeastBusy:
		return leastBusy{}
	case types.StrategySkillsBased:
		return skillsBased{}
	case types.StrategyPriorityBased:
		return priorityBased{}
	default:
		return roundRobin{}
	}
}

// FilterBySkills keeps the candidates covering every required skill.
// An empty requirement keeps everyone.
func FilterBySkills(candidates []types.Agent, required []string) []types.Agent {
	if len(required) == 0 {
		return candidates
	}
	filtered := make([]types.Agent, 0, len(candidates))
	for _, a := range candidates {
		if a.HasSkills(required) {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

// roundRobin picks the least-recently-assigned agent; agents that have
// never taken a call go first.
type roundRobin struct{}

func (roundRobin) Select(candidates []types.Agent) *types.Agent {
	if len(candidates) == 0 {
		return nil
	}
	best := &candidates[0]
	for i := 1; i < len(candidates); i++ {
		c := &candidates[i]
		if c.LastCallAt == nil {
			if best.LastCallAt != nil {
				best = c
			}
			continue
		}
		if best.LastCallAt != nil && c.LastCallAt.Before(*best.LastCallAt) {
			best = c
		}
	}
	return best
}

// leastBusy picks the agent with the fewest active calls
type leastBusy struct{}

func (leastBusy) Select(candidates []types.Agent) *types.Agent {
	if len(candidates) == 0 {
		return nil
	}
	best := &candidates[0]
	for i := 1; i < len(candidates); i++ {
		if candidates[i].CurrentCalls < best.CurrentCalls {
			best = &candidates[i]
		}
	}
	return best
}

// skillsBased takes the first candidate; the skill filter has already
// run upstream.
type skillsBased struct{}

func (skillsBased) Select(candidates []types.Agent) *types.Agent {
	if len(candidates) == 0 {
		return nil
	}
	return &candidates[0]
}

// priorityBased picks the highest routing weight, breaking ties with
// round robin among the tied agents.
type priorityBased struct{}

func (priorityBased) Select(candidates []types.Agent) *types.Agent {
	if len(candidates) == 0 {
		return nil
	}
	maxWeight := candidates[0].RoutingWeight
	for _, c := range candidates[1:] {
		if c.RoutingWeight > maxWeight {
			maxWeight = c.RoutingWeight
		}
	}
	tied := make([]types.Agent, 0, len(candidates))
	for _, c := range candidates {
		if c.RoutingWeight == maxWeight {
			tied = append(tied, c)
		}
	}
	return roundRobin{}.Select(tied)
}
