package router

import (
	"errors"
	"sync"
	"time"

	"github.com/dialdesk/backend/internal/types"
)

// ErrCallNotFound is returned when a call lookup fails within a tenant
var ErrCallNotFound = errors.New("call not found")

// callTable tracks every live call (ringing, queued, or connected) per
// tenant until it reaches a terminal status. The Call is the source of
// truth for status; queue entries are a derived index.
type callTable struct {
	mu    sync.RWMutex
	calls map[string]map[string]*types.Call // tenantID -> callID
}

func newCallTable() *callTable {
	return &callTable{calls: make(map[string]map[string]*types.Call)}
}

func (t *callTable) add(call *types.Call) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tenant := t.calls[call.TenantID]
	if tenant == nil {
		tenant = make(map[string]*types.Call)
		t.calls[call.TenantID] = tenant
	}
	tenant[call.ID] = call
}

func (t *callTable) get(tenantID, callID string) (*types.Call, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	call, ok := t.calls[tenantID][callID]
	if !ok {
		return nil, ErrCallNotFound
	}
	cp := *call
	return &cp, nil
}

// setConnected marks the call bridged to an agent
func (t *callTable) setConnected(tenantID, callID, agentID, departmentID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	call, ok := t.calls[tenantID][callID]
	if !ok {
		return
	}
	now := time.Now()
	call.Status = types.CallStatusConnected
	call.AgentID = agentID
	call.DepartmentID = departmentID
	call.ConnectedAt = &now
}

// setQueued marks the call waiting in a department queue
func (t *callTable) setQueued(tenantID, callID, departmentID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	call, ok := t.calls[tenantID][callID]
	if !ok {
		return
	}
	call.Status = types.CallStatusQueued
	call.DepartmentID = departmentID
}

// finish stamps a terminal status and drops the call from the table,
// returning its final state.
func (t *callTable) finish(tenantID, callID string, status types.CallStatus) (*types.Call, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	call, ok := t.calls[tenantID][callID]
	if !ok {
		return nil, ErrCallNotFound
	}
	now := time.Now()
	call.Status = status
	call.EndedAt = &now
	delete(t.calls[tenantID], callID)

	cp := *call
	return &cp, nil
}

func (t *callTable) count(tenantID string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.calls[tenantID])
}
