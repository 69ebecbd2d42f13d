package queue

import (
	"errors"
	"time"

	"github.com/dialdesk/backend/internal/types"
)

// ErrQueueFull is returned when a department queue is at capacity
var ErrQueueFull = errors.New("queue is full")

// departmentQueue holds the waiting entries for one (tenant, department)
// pair. Entries are kept in arrival order; the priority ordering law
// (priority DESC, enqueuedAt ASC) is applied on every read, so positions
// are derived, never stored. Not safe for concurrent use on its own:
// the Manager serializes all access.
type departmentQueue struct {
	tenantID     string
	departmentID string
	maxSize      int
	entries      []*types.QueueEntry
}

func newDepartmentQueue(tenantID, departmentID string, maxSize int) *departmentQueue {
	return &departmentQueue{
		tenantID:     tenantID,
		departmentID: departmentID,
		maxSize:      maxSize,
		entries:      make([]*types.QueueEntry, 0),
	}
}

// enqueue appends an entry, failing when the unassigned count is already
// at the department's limit.
func (q *departmentQueue) enqueue(entry *types.QueueEntry) error {
	if q.maxSize > 0 && q.waitingCount() >= q.maxSize {
		return ErrQueueFull
	}
	q.entries = append(q.entries, entry)
	return nil
}

// next returns the unassigned entry with the highest (priority, -enqueuedAt)
// order, the router's candidate when an agent frees up.
func (q *departmentQueue) next() *types.QueueEntry {
	var best *types.QueueEntry
	for _, e := range q.entries {
		if e.AssignedAgentID != "" {
			continue
		}
		if best == nil || ordersBefore(e, best) {
			best = e
		}
	}
	return best
}

// ordersBefore reports whether a should be served before b
func ordersBefore(a, b *types.QueueEntry) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return a.EnqueuedAt.Before(b.EnqueuedAt)
}

// assign stamps an entry with the winning agent and removes it from the
// queue; assigned entries are no longer dequeue candidates.
func (q *departmentQueue) assign(entryID, agentID string) *types.QueueEntry {
	for i, e := range q.entries {
		if e.ID != entryID || e.AssignedAgentID != "" {
			continue
		}
		now := time.Now()
		e.AssignedAgentID = agentID
		e.AssignedAt = &now
		q.entries = append(q.entries[:i], q.entries[i+1:]...)
		return e
	}
	return nil
}

// remove deletes the entry for a call. Idempotent: removing a missing
// or already-assigned entry is a no-op returning false.
func (q *departmentQueue) remove(callID string) *types.QueueEntry {
	for i, e := range q.entries {
		if e.CallID == callID {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return e
		}
	}
	return nil
}

// position computes the 1-based serving position of an entry among the
// unassigned entries, per the ordering law.
func (q *departmentQueue) position(entry *types.QueueEntry) int {
	pos := 1
	for _, e := range q.entries {
		if e.ID == entry.ID || e.AssignedAgentID != "" {
			continue
		}
		if ordersBefore(e, entry) {
			pos++
		}
	}
	return pos
}

func (q *departmentQueue) waitingCount() int {
	count := 0
	for _, e := range q.entries {
		if e.AssignedAgentID == "" {
			count++
		}
	}
	return count
}

func (q *departmentQueue) vipCount() int {
	count := 0
	for _, e := range q.entries {
		if e.AssignedAgentID == "" && e.Priority >= types.PriorityVIP {
			count++
		}
	}
	return count
}

// waitStats returns the average and maximum time the unassigned entries
// have been waiting, in seconds.
func (q *departmentQueue) waitStats(now time.Time) (avg, max float64) {
	count := 0
	total := 0.0
	for _, e := range q.entries {
		if e.AssignedAgentID != "" {
			continue
		}
		wait := now.Sub(e.EnqueuedAt).Seconds()
		total += wait
		if wait > max {
			max = wait
		}
		count++
	}
	if count > 0 {
		avg = total / float64(count)
	}
	return avg, max
}
