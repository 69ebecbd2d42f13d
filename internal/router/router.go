package router

import (
	"context"
	"errors"
	"time"

	"github.com/dialdesk/backend/internal/directory"
	"github.com/dialdesk/backend/internal/metrics"
	"github.com/dialdesk/backend/internal/queue"
	"github.com/dialdesk/backend/internal/registry"
	"github.com/dialdesk/backend/internal/types"
	"github.com/dialdesk/backend/internal/vip"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CallStore persists finished calls. Satisfied by store.Store.
type CallStore interface {
	SaveCallRecord(record types.CallRecord) error
}

// RouteRequest carries everything the router needs for one decision
type RouteRequest struct {
	TenantID           string
	CallID             string
	CallerID           string
	Direction          types.CallDirection
	RequestedExtension string
	DepartmentCode     string
	RequiredSkills     []string
	Context            types.RoutingContext
}

// Router is the orchestrator: it consults the VIP resolver, the agent
// registry, and the department directory, then either commits a direct
// assignment or delegates to the priority queue.
type Router struct {
	registry  *registry.Registry
	directory *directory.Directory
	vip       vip.Resolver
	queues    *queue.Manager
	calls     *callTable
	store     CallStore
	logger    zerolog.Logger
}

// NewRouter creates a new call router
func NewRouter(reg *registry.Registry, dir *directory.Directory, resolver vip.Resolver, queues *queue.Manager, logger zerolog.Logger) *Router {
	return &Router{
		registry:  reg,
		directory: dir,
		vip:       resolver,
		queues:    queues,
		calls:     newCallTable(),
		logger:    logger.With().Str("component", "router").Logger(),
	}
}

// SetStore sets the persistence store for finished call records
func (r *Router) SetStore(store CallStore) {
	r.store = store
}

// Route runs the routing algorithm for one call and commits its side
// effects: on connected the agent is reserved and the call bridged, on
// queued a queue entry exists, on rejected nothing changed.
func (r *Router) Route(ctx context.Context, req RouteRequest) (RoutingOutcome, error) {
	if req.CallID == "" {
		req.CallID = uuid.New().String()
	}
	if req.Direction == "" {
		req.Direction = types.DirectionInbound
	}

	call := &types.Call{
		ID:        req.CallID,
		TenantID:  req.TenantID,
		Direction: req.Direction,
		Status:    types.CallStatusRinging,
		CallerID:  req.CallerID,
		StartedAt: time.Now(),
	}

	// Step 1: VIP lookup and priority computation. A resolver failure
	// downgrades the caller to non-VIP rather than failing the call.
	profile, err := r.vip.ResolveVIP(ctx, req.TenantID, req.CallerID)
	if err != nil {
		r.logger.Warn().Err(err).
			Str("tenant_id", req.TenantID).
			Str("call_id", req.CallID).
			Msg("vip lookup failed, routing as normal caller")
		profile = nil
	}
	priority := ComputePriority(profile, req.Context)
	call.Priority = priority
	r.calls.add(call)

	outcome := r.route(req, profile, priority)

	switch outcome.Kind {
	case OutcomeConnected:
		r.calls.setConnected(req.TenantID, req.CallID, outcome.Agent.ID, outcome.Department.ID)
	case OutcomeQueued:
		r.calls.setQueued(req.TenantID, req.CallID, outcome.Department.ID)
	case OutcomeRejected:
		// No side effects on rejection; forget the call
		r.calls.finish(req.TenantID, req.CallID, types.CallStatusFailed)
	}

	metrics.RecordRoutingOutcome(string(outcome.Kind))
	r.logger.Info().
		Str("tenant_id", req.TenantID).
		Str("call_id", req.CallID).
		Str("priority", priority.String()).
		Str("outcome", string(outcome.Kind)).
		Msg("call routed")

	return outcome, nil
}

// route walks the decision steps in order, short-circuiting on the
// first success.
func (r *Router) route(req RouteRequest, profile *types.VIPProfile, priority types.Priority) RoutingOutcome {
	// Step 2: immediate transfer to the VIP's preferred agent,
	// bypassing extension and department logic.
	if profile != nil && profile.HandlingRule == types.HandlingImmediateTransfer && profile.PreferredAgentID != "" {
		if outcome, ok := r.tryPreferredAgent(req.TenantID, profile.PreferredAgentID); ok {
			return outcome
		}
	}

	// Step 3: direct extension dialing
	if req.RequestedExtension != "" {
		return r.routeByExtension(req)
	}

	// Step 4: VIP department preference
	if profile != nil &&
		(profile.HandlingRule == types.HandlingDedicatedAgent || profile.HandlingRule == types.HandlingPreferredDepartment) {
		if dept := r.resolveVIPDepartment(req.TenantID, profile); dept != nil {
			preferred := ""
			if profile.HandlingRule == types.HandlingDedicatedAgent {
				preferred = profile.PreferredAgentID
			}
			return r.connectOrEnqueue(req, dept, priority, preferred)
		}
	}

	// Step 5: requested department; an unknown code falls back to the
	// tenant default rather than dead-ending the caller.
	if req.DepartmentCode != "" {
		dept, err := r.directory.GetByCode(req.TenantID, req.DepartmentCode)
		if err == nil {
			return r.connectOrEnqueue(req, dept, priority, "")
		}
		r.logger.Warn().
			Str("tenant_id", req.TenantID).
			Str("department_code", req.DepartmentCode).
			Msg("unknown department code, falling back to default")
	}

	// Steps 6-7: tenant default department
	dept, err := r.directory.Default(req.TenantID)
	if err != nil {
		return Rejected(ReasonNoDefaultDepartment)
	}
	return r.connectOrEnqueue(req, dept, priority, "")
}

// tryPreferredAgent attempts a direct reservation of a VIP's preferred
// agent. Returns ok=false when the agent is unknown or cannot take the
// call, letting the algorithm continue.
func (r *Router) tryPreferredAgent(tenantID, agentID string) (RoutingOutcome, bool) {
	agent, err := r.registry.Reserve(tenantID, agentID)
	if err != nil {
		return RoutingOutcome{}, false
	}
	dept, err := r.directory.Get(tenantID, agent.DepartmentID)
	if err != nil {
		// Department misconfigured; keep the reservation valid anyway,
		// the bridge only needs the agent.
		dept = &types.Department{ID: agent.DepartmentID, TenantID: tenantID}
	}
	return Connected(agent, dept), true
}

// routeByExtension implements direct extension dialing: a missing
// extension and an unavailable agent are terminal rejections, the
// caller-facing logic decides whether to retry via department routing.
func (r *Router) routeByExtension(req RouteRequest) RoutingOutcome {
	agent, err := r.registry.GetByExtension(req.TenantID, req.RequestedExtension)
	if err != nil {
		return Rejected(ReasonExtensionNotFound)
	}

	reserved, err := r.registry.Reserve(req.TenantID, agent.ID)
	if err != nil {
		return Rejected(ReasonAgentUnavailable)
	}

	dept, err := r.directory.Get(req.TenantID, reserved.DepartmentID)
	if err != nil {
		dept = &types.Department{ID: reserved.DepartmentID, TenantID: req.TenantID}
	}
	return Connected(reserved, dept)
}

// resolveVIPDepartment finds the department a VIP's handling rule
// points at: the preferred department when set, otherwise the preferred
// agent's home department.
func (r *Router) resolveVIPDepartment(tenantID string, profile *types.VIPProfile) *types.Department {
	if profile.PreferredDepartmentID != "" {
		if dept, err := r.directory.Get(tenantID, profile.PreferredDepartmentID); err == nil {
			return dept
		}
	}
	if profile.PreferredAgentID != "" {
		if agent, err := r.registry.Get(tenantID, profile.PreferredAgentID); err == nil {
			if dept, err := r.directory.Get(tenantID, agent.DepartmentID); err == nil {
				return dept
			}
		}
	}
	return nil
}

// connectOrEnqueue tries to reserve an agent in the department, queueing
// the call at the computed priority when nobody can take it. Losing a
// reservation race removes that agent from the candidate set and the
// selection re-runs, as if the agent had been unavailable all along.
func (r *Router) connectOrEnqueue(req RouteRequest, dept *types.Department, priority types.Priority, preferredAgentID string) RoutingOutcome {
	if preferredAgentID != "" {
		if agent, err := r.registry.Reserve(req.TenantID, preferredAgentID); err == nil {
			return Connected(agent, dept)
		}
	}

	if agent := r.selectAndReserve(req.TenantID, dept, req.RequiredSkills); agent != nil {
		return Connected(agent, dept)
	}

	entry, position, estWait, err := r.queues.Enqueue(dept, req.CallID, req.CallerID, priority)
	if err != nil {
		if !errors.Is(err, queue.ErrQueueFull) {
			r.logger.Error().Err(err).
				Str("tenant_id", req.TenantID).
				Str("call_id", req.CallID).
				Msg("enqueue failed")
		}
		metrics.RecordQueueOverflow()
		return Rejected(ReasonQueueFull)
	}

	metrics.RecordEnqueue()
	metrics.SetQueueDepth(entry.TenantID, entry.DepartmentID, r.queues.Depth(entry.TenantID, entry.DepartmentID))
	return Queued(dept, position, estWait)
}

// selectAndReserve picks an agent per the department's strategy and
// books it atomically, retrying with the remaining candidates when a
// concurrent routing attempt wins the race.
func (r *Router) selectAndReserve(tenantID string, dept *types.Department, requiredSkills []string) *types.Agent {
	candidates := FilterBySkills(r.registry.AvailableByDepartment(tenantID, dept.ID), requiredSkills)
	selector := SelectorFor(dept.Strategy)

	for len(candidates) > 0 {
		pick := selector.Select(candidates)
		if pick == nil {
			return nil
		}

		agent, err := r.registry.Reserve(tenantID, pick.ID)
		if err == nil {
			return agent
		}
		metrics.RecordReservationConflict()

		// Drop the lost candidate and re-run selection
		remaining := candidates[:0]
		for _, c := range candidates {
			if c.ID != pick.ID {
				remaining = append(remaining, c)
			}
		}
		candidates = remaining
	}
	return nil
}

// GetCall returns a copy of a live call
func (r *Router) GetCall(tenantID, callID string) (*types.Call, error) {
	return r.calls.get(tenantID, callID)
}

// Complete finishes a connected call: the agent slot is released (and
// its busy -> available flip applied atomically with the counter), the
// call duration feeds wait estimation, and the record is persisted.
func (r *Router) Complete(tenantID, callID string, talkSeconds float64) (*types.Call, error) {
	call, err := r.calls.finish(tenantID, callID, types.CallStatusCompleted)
	if err != nil {
		return nil, err
	}

	if call.AgentID != "" {
		if err := r.registry.Release(tenantID, call.AgentID); err != nil {
			r.logger.Error().Err(err).
				Str("tenant_id", tenantID).
				Str("agent_id", call.AgentID).
				Msg("failed to release agent")
		}
	}
	if call.DepartmentID != "" && talkSeconds > 0 {
		r.queues.RecordCallDuration(tenantID, call.DepartmentID, talkSeconds)
	}

	metrics.RecordCallCompleted()
	r.persistRecord(call, talkSeconds, false)
	return call, nil
}

// Abandon removes a waiting call after the caller hangs up. Idempotent:
// abandoning an unknown or already-finished call is a no-op.
func (r *Router) Abandon(tenantID, callID string) (*types.Call, error) {
	_, removed := r.queues.Remove(tenantID, callID)

	call, err := r.calls.finish(tenantID, callID, types.CallStatusAbandoned)
	if err != nil {
		if removed {
			r.logger.Warn().
				Str("tenant_id", tenantID).
				Str("call_id", callID).
				Msg("queue entry removed for untracked call")
		}
		return nil, nil
	}

	if call.DepartmentID != "" {
		metrics.SetQueueDepth(tenantID, call.DepartmentID, r.queues.Depth(tenantID, call.DepartmentID))
	}
	metrics.RecordCallAbandoned()
	r.persistRecord(call, 0, true)
	return call, nil
}

// persistRecord hands a finished call to the store without blocking the
// routing path.
func (r *Router) persistRecord(call *types.Call, talkSeconds float64, abandoned bool) {
	if r.store == nil {
		return
	}

	record := types.CallRecord{
		TenantDate:   types.TenantDateKey(call.TenantID, call.StartedAt),
		CallID:       call.ID,
		TenantID:     call.TenantID,
		DepartmentID: call.DepartmentID,
		AgentID:      call.AgentID,
		CallerID:     call.CallerID,
		Priority:     call.Priority,
		StartedAt:    call.StartedAt.Format(time.RFC3339),
		TalkSeconds:  talkSeconds,
		Abandoned:    abandoned,
	}
	if call.ConnectedAt != nil {
		record.ConnectedAt = call.ConnectedAt.Format(time.RFC3339)
		record.WaitSeconds = call.ConnectedAt.Sub(call.StartedAt).Seconds()
	}
	if call.EndedAt != nil {
		record.EndedAt = call.EndedAt.Format(time.RFC3339)
		if abandoned {
			record.WaitSeconds = call.EndedAt.Sub(call.StartedAt).Seconds()
		}
	}

	go func() {
		if err := r.store.SaveCallRecord(record); err != nil {
			r.logger.Error().Err(err).
				Str("call_id", record.CallID).
				Msg("failed to save call record")
		}
	}()
}

// QueueStatus builds the monitoring view for one department
func (r *Router) QueueStatus(tenantID, departmentID string) types.QueueStatus {
	available := r.registry.CountAvailable(tenantID, departmentID)
	return r.queues.Status(tenantID, departmentID, available)
}

// QueueSnapshots returns the queue status of every active department of
// a tenant, the payload broadcast to dashboards.
func (r *Router) QueueSnapshots(tenantID string) []types.QueueStatus {
	depts := r.directory.ListByTenant(tenantID)
	snapshots := make([]types.QueueStatus, 0, len(depts))
	for _, dept := range depts {
		snapshots = append(snapshots, r.QueueStatus(tenantID, dept.ID))
	}
	return snapshots
}
