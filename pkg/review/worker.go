package review

import (
	"container/heap"
	"context"
	"fmt"
	"time"
)

// Start launches the worker pool and the history retention scheduler.
// Calling Start on a started or closed engine is an error.
func (e *Engine) Start() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEngineClosed
	}
	if e.started {
		e.mu.Unlock()
		return fmt.Errorf("review engine already started")
	}
	e.started = true
	workers := e.opts.MaxConcurrentReviews
	e.mu.Unlock()

	if err := e.cron.start(e, e.opts.PruneSchedule); err != nil {
		return err
	}

	for i := 0; i < workers; i++ {
		e.wg.Add(1)
		go e.workerLoop(i)
	}

	e.logger.Info("review engine started", "workers", workers)
	return nil
}

// workerLoop drains the queue until the engine shuts down. Workers wake
// on submission and fall back to polling so a missed wake-up cannot
// strand queued requests.
func (e *Engine) workerLoop(id int) {
	defer e.wg.Done()

	logger := e.logger.With("worker", id)
	logger.Debug("worker started")

	ticker := time.NewTicker(e.opts.PollInterval)
	defer ticker.Stop()

	for {
		e.drainQueue()

		select {
		case <-e.stopCh:
			logger.Debug("worker stopped")
			return
		case <-e.wake:
		case <-ticker.C:
		}
	}
}

// drainQueue processes queued requests until the queue is empty or the
// engine stops.
func (e *Engine) drainQueue() {
	for {
		select {
		case <-e.stopCh:
			return
		default:
		}

		item := e.nextItem()
		if item == nil {
			return
		}
		e.processItem(item)
	}
}

// Shutdown stops accepting submissions, cancels queued and in-flight
// reviews, and waits for the workers to exit or the context to expire.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true

	now := time.Now()
	var cancelled []*ReviewResult
	for e.queue.Len() > 0 {
		item := heap.Pop(&e.queue).(*queueItem)
		delete(e.queued, item.request.ID)
		res, ok := e.active[item.request.ID]
		if !ok || res.Status != StatusPending {
			continue
		}
		res.Status = StatusCancelled
		res.CompletedAt = &now
		res.Metadata["stage"] = "cancelled"
		e.retireLocked(res)
		cancelled = append(cancelled, res.Clone())
	}
	e.metrics.SetQueueDepth(0)

	for _, res := range e.active {
		if res.Status == StatusInProgress {
			res.Status = StatusCancelled
			res.Metadata["stage"] = "cancelled"
		}
	}
	e.mu.Unlock()

	for _, res := range cancelled {
		e.archiveTerminal(res)
	}

	// Abort in-flight analyzer calls and stop the workers.
	e.baseCancel()
	close(e.stopCh)
	e.cron.stop()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = fmt.Errorf("shutdown wait: %w", ctx.Err())
	}

	if e.archive != nil {
		if closeErr := e.archive.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close archive: %w", closeErr)
		}
	}

	e.logger.Info("review engine stopped", "cancelled_pending", len(cancelled))
	return err
}
