package review

import (
	"container/heap"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"veritas-hq/saturn/pkg/analyzer"
	"veritas-hq/saturn/pkg/catalog"
	"veritas-hq/saturn/pkg/compliance"
)

const (
	// DefaultMaxConcurrentReviews bounds the worker pool size.
	DefaultMaxConcurrentReviews = 2

	// DefaultTimeoutSeconds applies when a request leaves TimeoutSeconds
	// unset.
	DefaultTimeoutSeconds = 300

	// MaxTimeoutSeconds is the upper bound accepted at submission.
	MaxTimeoutSeconds = 3600

	// DefaultPollInterval is the worker fallback wake-up period.
	DefaultPollInterval = time.Second

	// DefaultHistoryRetention keeps terminal results in memory for a day.
	DefaultHistoryRetention = 24 * time.Hour

	// DefaultMaxHistoryEntries caps the in-memory history length.
	DefaultMaxHistoryEntries = 1000

	// DefaultPruneSchedule runs history pruning every ten minutes.
	DefaultPruneSchedule = "@every 10m"
)

// Options configures the review engine. Zero values fall back to the
// package defaults.
type Options struct {
	MaxConcurrentReviews  int
	DefaultTimeoutSeconds int
	PollInterval          time.Duration
	HistoryRetention      time.Duration
	MaxHistoryEntries     int
	PruneSchedule         string
	DefaultTemplate       string
}

func (o Options) withDefaults() Options {
	if o.MaxConcurrentReviews <= 0 {
		o.MaxConcurrentReviews = DefaultMaxConcurrentReviews
	}
	if o.DefaultTimeoutSeconds <= 0 {
		o.DefaultTimeoutSeconds = DefaultTimeoutSeconds
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.HistoryRetention <= 0 {
		o.HistoryRetention = DefaultHistoryRetention
	}
	if o.MaxHistoryEntries <= 0 {
		o.MaxHistoryEntries = DefaultMaxHistoryEntries
	}
	if o.PruneSchedule == "" {
		o.PruneSchedule = DefaultPruneSchedule
	}
	if o.DefaultTemplate == "" {
		o.DefaultTemplate = catalog.EUDocTemplateName
	}
	return o
}

// Engine owns the review lifecycle: submission, queueing, processing,
// history, and statistics.
type Engine struct {
	analyzer  analyzer.Analyzer
	validator *compliance.Engine
	opts      Options
	logger    *slog.Logger
	metrics   *Metrics
	archive   ArchiveStore

	baseCtx    context.Context
	baseCancel context.CancelFunc

	mu        sync.Mutex
	queue     reviewQueue
	queued    map[string]*queueItem
	active    map[string]*ReviewResult
	requests  map[string]*ReviewRequest
	history   []*ReviewResult
	stats     counters
	seq       uint64
	closed    bool
	startedAt time.Time

	progressMu sync.RWMutex
	progress   map[string]ProgressFunc

	wake    chan struct{}
	stopCh  chan struct{}
	wg      sync.WaitGroup
	started bool
	cron    retentionScheduler
}

// NewEngine creates a review engine. The analyzer and validator are
// required; metrics and archive storage are attached separately before
// Start.
func NewEngine(an analyzer.Analyzer, validator *compliance.Engine, opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Engine{
		analyzer:   an,
		validator:  validator,
		opts:       opts.withDefaults(),
		logger:     logger.With("component", "review.engine"),
		baseCtx:    ctx,
		baseCancel: cancel,
		queued:     make(map[string]*queueItem),
		active:     make(map[string]*ReviewResult),
		requests:   make(map[string]*ReviewRequest),
		progress:   make(map[string]ProgressFunc),
		wake:       make(chan struct{}, 1),
		stopCh:     make(chan struct{}),
		startedAt:  time.Now(),
	}
}

// SetMetrics attaches Prometheus instrumentation. A nil receiver-safe
// *Metrics keeps the engine usable without a registry.
func (e *Engine) SetMetrics(m *Metrics) { e.metrics = m }

// SetArchive attaches a store that receives terminal results and backs
// Status lookups after history pruning.
func (e *Engine) SetArchive(store ArchiveStore) { e.archive = store }

// Submit validates the request, creates a PENDING result, and enqueues
// the request by priority. All violations are reported together through
// *InvalidRequestError. Returns the request id, assigning one when the
// caller left it empty.
func (e *Engine) Submit(req ReviewRequest) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return "", ErrEngineClosed
	}

	var violations []string

	if req.ID == "" {
		req.ID = uuid.NewString()
	} else if _, exists := e.requests[req.ID]; exists {
		violations = append(violations, fmt.Sprintf("id %q is already queued or active", req.ID))
	}

	if req.DocumentPath == "" {
		violations = append(violations, "document path cannot be empty")
	} else if _, err := os.Stat(req.DocumentPath); err != nil {
		violations = append(violations, fmt.Sprintf("document path is not resolvable: %v", err))
	}

	if !req.ReviewType.Valid() {
		violations = append(violations, fmt.Sprintf("unknown review type %q", req.ReviewType))
	}

	if req.TimeoutSeconds == 0 {
		req.TimeoutSeconds = e.opts.DefaultTimeoutSeconds
	}
	if req.TimeoutSeconds <= 0 || req.TimeoutSeconds > MaxTimeoutSeconds {
		violations = append(violations, fmt.Sprintf("timeout must be in (0, %d] seconds, got %d", MaxTimeoutSeconds, req.TimeoutSeconds))
	}

	if req.Priority == "" {
		req.Priority = PriorityNormal
	} else if !req.Priority.Valid() {
		violations = append(violations, fmt.Sprintf("unknown priority %q", req.Priority))
	}

	if len(violations) > 0 {
		return "", &InvalidRequestError{Violations: violations}
	}

	if req.TemplateName == "" {
		req.TemplateName = e.opts.DefaultTemplate
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	if req.Parameters != nil {
		params := make(map[string]string, len(req.Parameters))
		for k, v := range req.Parameters {
			params[k] = v
		}
		req.Parameters = params
	}

	stored := req
	result := &ReviewResult{
		RequestID:    req.ID,
		Status:       StatusPending,
		ReviewType:   req.ReviewType,
		DocumentPath: req.DocumentPath,
		TemplateName: req.TemplateName,
		CreatedAt:    req.CreatedAt,
		Metadata:     map[string]any{"stage": "queued"},
	}

	e.requests[req.ID] = &stored
	e.active[req.ID] = result

	e.seq++
	item := &queueItem{request: &stored, seq: e.seq}
	heap.Push(&e.queue, item)
	e.queued[req.ID] = item

	e.metrics.ReviewSubmitted(string(stored.Priority))
	e.metrics.SetQueueDepth(e.queue.Len())

	e.logger.Info("review submitted",
		"request_id", stored.ID,
		"review_type", stored.ReviewType,
		"priority", stored.Priority,
		"document", stored.DocumentPath,
	)

	select {
	case e.wake <- struct{}{}:
	default:
	}

	return stored.ID, nil
}

// Status returns a snapshot of the review, looking in the active table,
// then the history, then the archive store.
func (e *Engine) Status(ctx context.Context, requestID string) (*ReviewResult, error) {
	e.mu.Lock()
	if res, ok := e.active[requestID]; ok {
		clone := res.Clone()
		e.mu.Unlock()
		return clone, nil
	}
	for i := len(e.history) - 1; i >= 0; i-- {
		if e.history[i].RequestID == requestID {
			clone := e.history[i].Clone()
			e.mu.Unlock()
			return clone, nil
		}
	}
	e.mu.Unlock()

	if e.archive != nil {
		return e.archive.Get(ctx, requestID)
	}
	return nil, &NotFoundError{RequestID: requestID}
}

// Cancel removes a PENDING request from the queue or marks an
// IN_PROGRESS review CANCELLED. Cancellation of in-flight work is
// cooperative; the worker discards its outcome when it finds the
// CANCELLED status already set. Returns false for terminal or unknown
// requests.
func (e *Engine) Cancel(requestID string) bool {
	e.mu.Lock()

	res, ok := e.active[requestID]
	if !ok {
		e.mu.Unlock()
		return false
	}

	switch res.Status {
	case StatusPending:
		if item, queued := e.queued[requestID]; queued {
			heap.Remove(&e.queue, item.index)
			delete(e.queued, requestID)
			e.metrics.SetQueueDepth(e.queue.Len())
		}
		now := time.Now()
		res.Status = StatusCancelled
		res.CompletedAt = &now
		res.Metadata["stage"] = "cancelled"
		e.retireLocked(res)
		clone := res.Clone()
		e.mu.Unlock()

		e.logger.Info("review cancelled", "request_id", requestID, "was", StatusPending)
		e.archiveTerminal(clone)
		return true

	case StatusInProgress:
		res.Status = StatusCancelled
		res.Metadata["stage"] = "cancelled"
		e.mu.Unlock()

		e.logger.Info("review cancelled", "request_id", requestID, "was", StatusInProgress)
		return true

	default:
		e.mu.Unlock()
		return false
	}
}

// ProcessOne synchronously processes a specific queued request and
// returns its terminal result.
func (e *Engine) ProcessOne(requestID string) (*ReviewResult, error) {
	e.mu.Lock()
	item, ok := e.queued[requestID]
	if !ok {
		e.mu.Unlock()
		return nil, &NotFoundError{RequestID: requestID}
	}
	heap.Remove(&e.queue, item.index)
	delete(e.queued, requestID)
	e.metrics.SetQueueDepth(e.queue.Len())
	e.mu.Unlock()

	res := e.processItem(item)
	if res == nil {
		return nil, &NotFoundError{RequestID: requestID}
	}
	return res, nil
}

// nextItem pops the highest-priority queued request, or nil.
func (e *Engine) nextItem() *queueItem {
	e.mu.Lock()
	defer e.mu.Unlock()

	for e.queue.Len() > 0 {
		item := heap.Pop(&e.queue).(*queueItem)
		delete(e.queued, item.request.ID)
		e.metrics.SetQueueDepth(e.queue.Len())

		res, ok := e.active[item.request.ID]
		if !ok || res.Status != StatusPending {
			continue
		}
		return item
	}
	return nil
}

// outcome is the staging area for one processing run. It is applied to
// the shared result under the engine mutex once the run finishes.
type outcome struct {
	status     ReviewStatus
	errMsg     string
	warnings   []string
	analysis   *analyzer.AnalysisResult
	validation *compliance.ValidationResult
}

// processItem drives one request through the checkpoint pipeline and
// returns a snapshot of the terminal result.
func (e *Engine) processItem(item *queueItem) *ReviewResult {
	req := item.request
	start := time.Now()

	e.mu.Lock()
	res, ok := e.active[req.ID]
	if !ok || res.Status != StatusPending {
		e.mu.Unlock()
		return nil
	}
	res.Status = StatusInProgress
	res.StartedAt = &start
	e.mu.Unlock()

	e.metrics.ReviewStarted()
	e.logger.Info("review started", "request_id", req.ID, "timeout_seconds", req.TimeoutSeconds)

	timeout := time.Duration(req.TimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(e.baseCtx, timeout)
	out := e.run(ctx, req, res, start.Add(timeout))
	cancel()

	return e.finish(req, res, out, start)
}

// run executes the five-checkpoint pipeline. Panics are converted into
// a FAILED outcome so a single request can never kill a worker.
func (e *Engine) run(ctx context.Context, req *ReviewRequest, res *ReviewResult, deadline time.Time) (out outcome) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("review processing panicked", "request_id", req.ID, "panic", r)
			out.status = StatusFailed
			out.errMsg = fmt.Sprintf("internal error: %v", r)
		}
	}()

	timedOut := func() bool { return !time.Now().Before(deadline) }
	timeoutOutcome := func() outcome {
		out.status = StatusFailed
		out.errMsg = fmt.Sprintf("review timed out after %d seconds", req.TimeoutSeconds)
		return out
	}

	e.reportCheckpoint(res, "initialization", 0, "preparing review")
	if timedOut() {
		return timeoutOutcome()
	}

	e.reportCheckpoint(res, "document_analysis", 20, "extracting document content")
	analysis, err := e.analyzer.Analyze(ctx, req.DocumentPath)
	if err != nil {
		if ctx.Err() != nil || timedOut() {
			return timeoutOutcome()
		}
		out.status = StatusFailed
		out.errMsg = fmt.Sprintf("document analysis failed: %v", err)
		return out
	}
	out.analysis = analysis
	if !analysis.Success {
		out.status = StatusFailed
		out.errMsg = "document analysis failed: " + strings.Join(analysis.Errors, "; ")
		return out
	}
	out.warnings = append(out.warnings, analysis.Errors...)
	if timedOut() {
		return timeoutOutcome()
	}

	e.reportCheckpoint(res, "template_validation", 60, "validating against template "+req.TemplateName)
	validation, err := e.validator.Evaluate(compliance.Document{Path: req.DocumentPath, Text: analysis.Text}, req.TemplateName)
	if err != nil {
		out.status = StatusFailed
		out.errMsg = fmt.Sprintf("template validation failed: %v", err)
		return out
	}
	out.validation = validation
	if timedOut() {
		return timeoutOutcome()
	}

	e.reportCheckpoint(res, "results_compilation", 80, "compiling review results")
	if timedOut() {
		return timeoutOutcome()
	}

	e.reportCheckpoint(res, "finalization", 100, "finalizing review")
	if validation.Success {
		out.status = StatusCompleted
	} else {
		out.status = StatusFailed
		blocking := 0
		for _, issue := range validation.ValidationIssues {
			if issue.Blocking() {
				blocking++
			}
		}
		out.errMsg = fmt.Sprintf("compliance validation failed with %d blocking issues", blocking)
	}
	return out
}

// finish applies the outcome under the engine mutex, honoring a
// concurrent cancellation by discarding the computed fields, and moves
// the result to history.
func (e *Engine) finish(req *ReviewRequest, res *ReviewResult, out outcome, start time.Time) *ReviewResult {
	now := time.Now()

	e.mu.Lock()
	if res.Status == StatusCancelled {
		e.logger.Info("review outcome discarded after cancellation", "request_id", req.ID)
	} else {
		res.Status = out.status
		res.AnalysisResult = out.analysis
		res.ValidationResult = out.validation
		res.ErrorMessage = out.errMsg
		res.Warnings = out.warnings
		if v := out.validation; v != nil {
			res.OverallScore = v.OverallScore
			res.CompliancePercentage = v.CompliancePercentage
			res.CriticalIssues = v.CriticalIssueTitles()
			res.Recommendations = append([]string(nil), v.Recommendations...)
		}
	}
	res.CompletedAt = &now
	res.ProcessingTimeSeconds = now.Sub(start).Seconds()
	e.retireLocked(res)
	clone := res.Clone()
	e.mu.Unlock()

	e.metrics.ReviewFinished(string(clone.Status), clone.ProcessingTimeSeconds)
	if clone.Status == StatusCompleted || clone.Status == StatusFailed {
		e.metrics.ObserveScore(clone.OverallScore)
	}

	e.logger.Info("review finished",
		"request_id", req.ID,
		"status", clone.Status,
		"overall_score", clone.OverallScore,
		"processing_seconds", clone.ProcessingTimeSeconds,
	)

	e.archiveTerminal(clone)
	e.UnregisterProgressFunc(req.ID)
	return clone
}

// retireLocked moves a terminal result out of the active table into
// history and updates the statistics counters. Caller holds e.mu.
func (e *Engine) retireLocked(res *ReviewResult) {
	delete(e.active, res.RequestID)
	delete(e.requests, res.RequestID)
	e.history = append(e.history, res)
	e.pruneHistoryLocked(time.Now())
	e.stats.record(res)
}

// archiveTerminal persists a terminal result snapshot, logging failures
// instead of propagating them.
func (e *Engine) archiveTerminal(res *ReviewResult) {
	if e.archive == nil || res == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.archive.Save(ctx, res); err != nil {
		e.logger.Error("failed to archive review result", "request_id", res.RequestID, "error", err)
	}
}
