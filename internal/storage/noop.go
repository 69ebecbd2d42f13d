package storage

import (
	"time"

	"github.com/dialdesk/backend/internal/types"
)

// Store defines the storage interface
type Store interface {
	SaveCallRecord(record types.CallRecord) error
	SaveAvailabilitySession(session types.AvailabilitySession) error
	GetCallRecords(tenantID string, date time.Time) ([]types.CallRecord, error)
	GetAgentCallRecords(tenantID, agentID string, date time.Time) ([]types.CallRecord, error)
	GetAvailabilitySessions(tenantID, agentID string) ([]types.SessionRecord, error)
	TruncateAll() error
}

// NoopStore is a no-op implementation when DynamoDB is disabled
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (s *NoopStore) SaveCallRecord(_ types.CallRecord) error                 { return nil }
func (s *NoopStore) SaveAvailabilitySession(_ types.AvailabilitySession) error { return nil }
func (s *NoopStore) GetCallRecords(_ string, _ time.Time) ([]types.CallRecord, error) {
	return nil, nil
}
func (s *NoopStore) GetAgentCallRecords(_, _ string, _ time.Time) ([]types.CallRecord, error) {
	return nil, nil
}
func (s *NoopStore) GetAvailabilitySessions(_, _ string) ([]types.SessionRecord, error) {
	return nil, nil
}
func (s *NoopStore) TruncateAll() error { return nil }
