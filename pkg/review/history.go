package review

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// pruneHistoryLocked drops terminal results that fell out of the
// retention window and trims the history to the configured maximum,
// oldest first. Caller holds e.mu.
func (e *Engine) pruneHistoryLocked(now time.Time) {
	cutoff := now.Add(-e.opts.HistoryRetention)

	kept := e.history[:0]
	for _, res := range e.history {
		if res.CompletedAt != nil && res.CompletedAt.Before(cutoff) {
			continue
		}
		kept = append(kept, res)
	}
	for i := len(kept); i < len(e.history); i++ {
		e.history[i] = nil
	}
	e.history = kept

	if excess := len(e.history) - e.opts.MaxHistoryEntries; excess > 0 {
		copy(e.history, e.history[excess:])
		for i := len(e.history) - excess; i < len(e.history); i++ {
			e.history[i] = nil
		}
		e.history = e.history[:len(e.history)-excess]
	}
}

// PruneHistory runs one retention pass and reports how many entries
// were dropped.
func (e *Engine) PruneHistory() int {
	e.mu.Lock()
	before := len(e.history)
	e.pruneHistoryLocked(time.Now())
	dropped := before - len(e.history)
	e.mu.Unlock()

	if dropped > 0 {
		e.logger.Info("review history pruned", "dropped", dropped)
	}
	return dropped
}

// retentionScheduler runs periodic history pruning on a cron schedule.
type retentionScheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

func (s *retentionScheduler) start(e *Engine, schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { e.PruneHistory() }); err != nil {
		return fmt.Errorf("invalid prune schedule %q: %w", schedule, err)
	}
	c.Start()
	s.cron = c
	s.logger = e.logger
	s.logger.Info("history retention scheduler started", "schedule", schedule)
	return nil
}

func (s *retentionScheduler) stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.logger.Info("history retention scheduler stopped")
	s.cron = nil
}
