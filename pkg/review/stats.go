package review

import "time"

// counters holds the raw statistics, maintained under the engine mutex
// and updated exactly once per terminal transition.
type counters struct {
	processed              int64
	succeeded              int64
	failed                 int64
	cancelled              int64
	totalProcessingSeconds float64
}

func (c *counters) record(res *ReviewResult) {
	switch res.Status {
	case StatusCompleted:
		c.processed++
		c.succeeded++
		c.totalProcessingSeconds += res.ProcessingTimeSeconds
	case StatusFailed:
		c.processed++
		c.failed++
		c.totalProcessingSeconds += res.ProcessingTimeSeconds
	case StatusCancelled:
		c.cancelled++
	}
}

// EngineStatistics is a point-in-time snapshot of engine activity.
type EngineStatistics struct {
	Processed                int64         `json:"processed"`
	Succeeded                int64         `json:"succeeded"`
	Failed                   int64         `json:"failed"`
	Cancelled                int64         `json:"cancelled"`
	AverageProcessingSeconds float64       `json:"average_processing_seconds"`
	SuccessRate              float64       `json:"success_rate"`
	ActiveCount              int           `json:"active_count"`
	QueuedCount              int           `json:"queued_count"`
	HistoryCount             int           `json:"history_count"`
	Uptime                   time.Duration `json:"uptime"`
}

// Statistics returns a consistent snapshot of the engine counters.
func (e *Engine) Statistics() EngineStatistics {
	e.mu.Lock()
	defer e.mu.Unlock()

	stats := EngineStatistics{
		Processed:    e.stats.processed,
		Succeeded:    e.stats.succeeded,
		Failed:       e.stats.failed,
		Cancelled:    e.stats.cancelled,
		ActiveCount:  len(e.active) - e.queue.Len(),
		QueuedCount:  e.queue.Len(),
		HistoryCount: len(e.history),
		Uptime:       time.Since(e.startedAt),
	}
	if e.stats.processed > 0 {
		stats.AverageProcessingSeconds = e.stats.totalProcessingSeconds / float64(e.stats.processed)
		stats.SuccessRate = float64(e.stats.succeeded) / float64(e.stats.processed)
	}
	return stats
}

// QueueStatus reports queued request counts per priority band.
func (e *Engine) QueueStatus() map[ReviewPriority]int {
	e.mu.Lock()
	defer e.mu.Unlock()

	status := map[ReviewPriority]int{
		PriorityUrgent: 0,
		PriorityHigh:   0,
		PriorityNormal: 0,
		PriorityLow:    0,
	}
	for _, item := range e.queue {
		status[item.request.Priority]++
	}
	return status
}
