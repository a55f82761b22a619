package review

import "time"

// RegisterProgressFunc attaches a callback that receives checkpoint
// reports for one request. Registering again replaces the previous
// callback. The callback runs on the worker goroutine processing the
// request.
func (e *Engine) RegisterProgressFunc(requestID string, fn ProgressFunc) {
	if fn == nil {
		return
	}
	e.progressMu.Lock()
	e.progress[requestID] = fn
	e.progressMu.Unlock()
}

// UnregisterProgressFunc removes the callback for a request. Terminal
// reviews are unregistered automatically.
func (e *Engine) UnregisterProgressFunc(requestID string) {
	e.progressMu.Lock()
	delete(e.progress, requestID)
	e.progressMu.Unlock()
}

// reportCheckpoint records the stage in the result metadata and invokes
// the registered callback, if any. Callback panics are contained so a
// faulty observer cannot abort the review.
func (e *Engine) reportCheckpoint(res *ReviewResult, stage string, percentage float64, operation string) {
	e.mu.Lock()
	requestID := res.RequestID
	if !res.Status.Terminal() {
		if res.Metadata == nil {
			res.Metadata = make(map[string]any)
		}
		res.Metadata["stage"] = stage
		res.Metadata["progress_percentage"] = percentage
		res.Metadata["operation"] = operation
	}
	e.mu.Unlock()

	e.progressMu.RLock()
	fn := e.progress[requestID]
	e.progressMu.RUnlock()
	if fn == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("progress callback panicked", "request_id", requestID, "stage", stage, "panic", r)
		}
	}()

	fn(ReviewProgress{
		RequestID:  requestID,
		Stage:      stage,
		Percentage: percentage,
		Operation:  operation,
		Timestamp:  time.Now(),
	})
}
