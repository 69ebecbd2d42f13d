package queue

const (
	// defaultAvgCallSeconds seeds wait estimates before any call history exists
	defaultAvgCallSeconds = 300.0
	// waitFactor discounts the naive position*duration estimate; queues
	// drain faster than serially because departments run several agents.
	waitFactor = 0.8
	// durationWindow is how many recent call durations feed the trailing average
	durationWindow = 50
)

// durationTracker keeps a trailing average of recent call durations for
// one department, used to estimate queue wait times.
type durationTracker struct {
	samples []float64
	idx     int
	full    bool
}

func newDurationTracker() *durationTracker {
	return &durationTracker{samples: make([]float64, durationWindow)}
}

// record adds a completed call's duration to the window
func (t *durationTracker) record(seconds float64) {
	if seconds <= 0 {
		return
	}
	t.samples[t.idx] = seconds
	t.idx = (t.idx + 1) % len(t.samples)
	if t.idx == 0 {
		t.full = true
	}
}

// average returns the trailing average duration, or the default when no
// history exists yet.
func (t *durationTracker) average() float64 {
	n := t.idx
	if t.full {
		n = len(t.samples)
	}
	if n == 0 {
		return defaultAvgCallSeconds
	}
	total := 0.0
	for i := 0; i < n; i++ {
		total += t.samples[i]
	}
	return total / float64(n)
}

// estimateWaitSeconds converts a queue position into an expected wait
func estimateWaitSeconds(position int, avgCallSeconds float64) float64 {
	if position <= 0 {
		return 0
	}
	return float64(position) * avgCallSeconds * waitFactor
}
