package queue

import (
	"sync"
	"time"

	"github.com/dialdesk/backend/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// QueueRef identifies one live department queue
type QueueRef struct {
	TenantID     string
	DepartmentID string
}

// Manager owns every department queue across all tenants. Queues are
// created lazily on first enqueue with the department's configured
// capacity. All queue access is serialized under one lock; position
// reads race harmlessly because ordering is recomputed from the entries
// themselves.
type Manager struct {
	mu        sync.RWMutex
	queues    map[QueueRef]*departmentQueue
	durations map[QueueRef]*durationTracker
	logger    zerolog.Logger
}

// NewManager creates a new queue manager
func NewManager(logger zerolog.Logger) *Manager {
	return &Manager{
		queues:    make(map[QueueRef]*departmentQueue),
		durations: make(map[QueueRef]*durationTracker),
		logger:    logger.With().Str("component", "queue").Logger(),
	}
}

// Enqueue places a call into a department queue at the given priority.
// Returns the created entry, its 1-based position, and the estimated
// wait in seconds. Fails with ErrQueueFull at the department's limit.
func (m *Manager) Enqueue(dept *types.Department, callID, callerID string, priority types.Priority) (*types.QueueEntry, int, float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ref := QueueRef{TenantID: dept.TenantID, DepartmentID: dept.ID}
	q, ok := m.queues[ref]
	if !ok {
		q = newDepartmentQueue(dept.TenantID, dept.ID, dept.MaxQueueSize)
		m.queues[ref] = q
	}

	entry := &types.QueueEntry{
		ID:           uuid.New().String(),
		CallID:       callID,
		TenantID:     dept.TenantID,
		DepartmentID: dept.ID,
		CallerID:     callerID,
		Priority:     priority,
		EnqueuedAt:   time.Now(),
	}

	if err := q.enqueue(entry); err != nil {
		return nil, 0, 0, err
	}

	position := q.position(entry)
	estWait := estimateWaitSeconds(position, m.avgDuration(ref))

	m.logger.Debug().
		Str("tenant_id", dept.TenantID).
		Str("department_id", dept.ID).
		Str("call_id", callID).
		Str("priority", priority.String()).
		Int("position", position).
		Int("queue_depth", q.waitingCount()).
		Msg("call enqueued")

	cp := *entry
	return &cp, position, estWait, nil
}

// Next returns a copy of the next entry the department should serve, or
// nil when nothing is waiting.
func (m *Manager) Next(tenantID, departmentID string) *types.QueueEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	q, ok := m.queues[QueueRef{TenantID: tenantID, DepartmentID: departmentID}]
	if !ok {
		return nil
	}
	entry := q.next()
	if entry == nil {
		return nil
	}
	cp := *entry
	return &cp
}

// Assign stamps a waiting entry with the agent that will take it and
// removes it from the queue. Returns false if the entry was already
// assigned or removed by a concurrent routing attempt.
func (m *Manager) Assign(tenantID, departmentID, entryID, agentID string) (*types.QueueEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.queues[QueueRef{TenantID: tenantID, DepartmentID: departmentID}]
	if !ok {
		return nil, false
	}
	entry := q.assign(entryID, agentID)
	if entry == nil {
		return nil, false
	}

	m.logger.Debug().
		Str("tenant_id", tenantID).
		Str("department_id", departmentID).
		Str("call_id", entry.CallID).
		Str("agent_id", agentID).
		Float64("wait_seconds", time.Since(entry.EnqueuedAt).Seconds()).
		Msg("queued call assigned")

	cp := *entry
	return &cp, true
}

// Remove deletes the queue entry for a call, in any of the tenant's
// queues. Idempotent: a second removal, or removing a call that was
// already assigned, is a no-op returning false.
func (m *Manager) Remove(tenantID, callID string) (*types.QueueEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for ref, q := range m.queues {
		if ref.TenantID != tenantID {
			continue
		}
		if entry := q.remove(callID); entry != nil {
			cp := *entry
			return &cp, true
		}
	}
	return nil, false
}

// Position recomputes the 1-based serving position of a queued call.
// Returns 0 when the call is no longer waiting.
func (m *Manager) Position(tenantID, departmentID, callID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	q, ok := m.queues[QueueRef{TenantID: tenantID, DepartmentID: departmentID}]
	if !ok {
		return 0
	}
	for _, e := range q.entries {
		if e.CallID == callID && e.AssignedAgentID == "" {
			return q.position(e)
		}
	}
	return 0
}

// RecordCallDuration feeds a completed call's duration into the
// department's trailing average for wait estimation.
func (m *Manager) RecordCallDuration(tenantID, departmentID string, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ref := QueueRef{TenantID: tenantID, DepartmentID: departmentID}
	t, ok := m.durations[ref]
	if !ok {
		t = newDurationTracker()
		m.durations[ref] = t
	}
	t.record(seconds)
}

// EstimateWait returns the expected wait in seconds for a queue position
func (m *Manager) EstimateWait(tenantID, departmentID string, position int) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return estimateWaitSeconds(position, m.avgDuration(QueueRef{TenantID: tenantID, DepartmentID: departmentID}))
}

// avgDuration returns the department's trailing average call duration.
// Caller holds at least the read lock.
func (m *Manager) avgDuration(ref QueueRef) float64 {
	if t, ok := m.durations[ref]; ok {
		return t.average()
	}
	return defaultAvgCallSeconds
}

// Status builds the monitoring view of one department queue
func (m *Manager) Status(tenantID, departmentID string, availableAgents int) types.QueueStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := types.QueueStatus{
		TenantID:        tenantID,
		DepartmentID:    departmentID,
		AvailableAgents: availableAgents,
	}

	q, ok := m.queues[QueueRef{TenantID: tenantID, DepartmentID: departmentID}]
	if ok {
		status.TotalQueued = q.waitingCount()
		status.VIPQueued = q.vipCount()
		status.AvgWaitSeconds, status.MaxWaitSeconds = q.waitStats(time.Now())
	}

	status.Health = classifyHealth(status.TotalQueued, availableAgents, status.AvgWaitSeconds)
	return status
}

// Waiting lists the queues that currently hold unassigned entries,
// the drain loop's work list.
func (m *Manager) Waiting() []QueueRef {
	m.mu.RLock()
	defer m.mu.RUnlock()

	refs := make([]QueueRef, 0)
	for ref, q := range m.queues {
		if q.waitingCount() > 0 {
			refs = append(refs, ref)
		}
	}
	return refs
}

// Depth returns the number of unassigned entries in a department queue
func (m *Manager) Depth(tenantID, departmentID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	q, ok := m.queues[QueueRef{TenantID: tenantID, DepartmentID: departmentID}]
	if !ok {
		return 0
	}
	return q.waitingCount()
}
