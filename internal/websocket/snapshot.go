package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dialdesk/backend/internal/types"
	"github.com/rs/zerolog"
)

// SnapshotSource produces the queue status of every department of a
// tenant. Satisfied by router.Router.
type SnapshotSource interface {
	QueueSnapshots(tenantID string) []types.QueueStatus
}

// SnapshotMessage is the queue update pushed to dashboard clients
type SnapshotMessage struct {
	Type      string              `json:"type"`
	Timestamp string              `json:"timestamp"`
	Queues    []types.QueueStatus `json:"queues"`
}

// Snapshotter periodically broadcasts queue snapshots to each tenant's
// connected dashboards.
type Snapshotter struct {
	hub      *Hub
	source   SnapshotSource
	interval time.Duration
	logger   zerolog.Logger
}

// NewSnapshotter creates a new Snapshotter
func NewSnapshotter(hub *Hub, source SnapshotSource, interval time.Duration, logger zerolog.Logger) *Snapshotter {
	return &Snapshotter{
		hub:      hub,
		source:   source,
		interval: interval,
		logger:   logger,
	}
}

// Start begins broadcasting queue snapshots
func (s *Snapshotter) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.interval).Msg("snapshot loop started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("snapshot loop stopped")
			return

		case now := <-ticker.C:
			s.broadcast(now)
		}
	}
}

// broadcast pushes one snapshot round, one message per connected tenant
func (s *Snapshotter) broadcast(now time.Time) {
	for _, tenantID := range s.hub.Tenants() {
		message := SnapshotMessage{
			Type:      "queue_snapshot",
			Timestamp: now.Format(time.RFC3339),
			Queues:    s.source.QueueSnapshots(tenantID),
		}

		data, err := json.Marshal(message)
		if err != nil {
			s.logger.Error().Err(err).Str("tenant_id", tenantID).Msg("failed to marshal snapshot")
			continue
		}

		s.hub.BroadcastToTenant(tenantID, data)
	}
}
