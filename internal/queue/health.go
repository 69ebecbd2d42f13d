package queue

import "github.com/dialdesk/backend/internal/types"

// Congestion thresholds for queue health classification
const (
	poorRatio       = 5.0
	fairRatio       = 2.0
	poorWaitSeconds = 600.0
	fairWaitSeconds = 300.0
)

// classifyHealth grades a department queue from its depth, the number of
// agents able to serve it, and the average wait of the callers in it.
// No agents at all is always critical; an empty queue with staff is
// always excellent.
func classifyHealth(queued, availableAgents int, avgWaitSeconds float64) types.QueueHealth {
	if availableAgents == 0 {
		return types.HealthCritical
	}
	if queued == 0 {
		return types.HealthExcellent
	}
	ratio := float64(queued) / float64(availableAgents)
	if ratio > poorRatio || avgWaitSeconds > poorWaitSeconds {
		return types.HealthPoor
	}
	if ratio > fairRatio || avgWaitSeconds > fairWaitSeconds {
		return types.HealthFair
	}
	return types.HealthGood
}
