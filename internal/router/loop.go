package router

import (
	"context"
	"time"

	"github.com/dialdesk/backend/internal/metrics"
	"github.com/dialdesk/backend/internal/types"
)

// Match pairs a drained queue entry with the agent that will take it
type Match struct {
	Entry *types.QueueEntry
	Agent *types.Agent
}

// AssignNotifier delivers drain-loop assignments to call control, which
// performs the actual bridge.
type AssignNotifier interface {
	NotifyAssignment(match Match)
}

// DrainTick runs one drain pass: for every queue holding waiting calls
// it repeatedly matches the highest-priority entry against the
// department's strategy until either the queue empties or no agent can
// take another call.
func (r *Router) DrainTick() []Match {
	matches := make([]Match, 0)

	for _, ref := range r.queues.Waiting() {
		dept, err := r.directory.Get(ref.TenantID, ref.DepartmentID)
		if err != nil {
			// Department deactivated with calls still queued; leave them
			// for Abandon or a timeout sweep.
			continue
		}

		for {
			next := r.queues.Next(ref.TenantID, ref.DepartmentID)
			if next == nil {
				break
			}

			agent := r.selectAndReserve(ref.TenantID, dept, nil)
			if agent == nil {
				break
			}

			entry, ok := r.queues.Assign(ref.TenantID, ref.DepartmentID, next.ID, agent.ID)
			if !ok {
				// Entry vanished between Next and Assign (abandoned or
				// drained concurrently); give the reservation back.
				if err := r.registry.Release(ref.TenantID, agent.ID); err != nil {
					r.logger.Error().Err(err).
						Str("tenant_id", ref.TenantID).
						Str("agent_id", agent.ID).
						Msg("failed to release agent after lost assignment")
				}
				continue
			}

			r.calls.setConnected(ref.TenantID, entry.CallID, agent.ID, ref.DepartmentID)
			matches = append(matches, Match{Entry: entry, Agent: agent})

			r.logger.Info().
				Str("tenant_id", ref.TenantID).
				Str("department_id", ref.DepartmentID).
				Str("call_id", entry.CallID).
				Str("agent_id", agent.ID).
				Float64("wait_seconds", time.Since(entry.EnqueuedAt).Seconds()).
				Msg("queued call connected")
		}

		metrics.SetQueueDepth(ref.TenantID, ref.DepartmentID, r.queues.Depth(ref.TenantID, ref.DepartmentID))
	}

	return matches
}

// DrainLoop periodically drains waiting calls to agents that freed up
type DrainLoop struct {
	router   *Router
	notifier AssignNotifier
	interval time.Duration
}

// NewDrainLoop creates a new drain loop. The notifier may be nil when no
// call-control integration is attached.
func NewDrainLoop(router *Router, notifier AssignNotifier, interval time.Duration) *DrainLoop {
	return &DrainLoop{
		router:   router,
		notifier: notifier,
		interval: interval,
	}
}

// Start runs the drain loop until the context is cancelled
func (dl *DrainLoop) Start(ctx context.Context) {
	ticker := time.NewTicker(dl.interval)
	defer ticker.Stop()

	dl.router.logger.Info().
		Dur("interval", dl.interval).
		Msg("drain loop started")

	for {
		select {
		case <-ctx.Done():
			dl.router.logger.Info().Msg("drain loop stopped")
			return
		case <-ticker.C:
			dl.tick()
		}
	}
}

// tick performs a single drain pass and notifies call control
func (dl *DrainLoop) tick() {
	matches := dl.router.DrainTick()
	if dl.notifier == nil {
		return
	}
	for _, match := range matches {
		dl.notifier.NotifyAssignment(match)
	}
}
