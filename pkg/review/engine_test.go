package review

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"veritas-hq/saturn/pkg/analyzer"
	"veritas-hq/saturn/pkg/catalog"
	"veritas-hq/saturn/pkg/compliance"
)

// stubAnalyzer lets tests control extraction output and timing.
type stubAnalyzer struct {
	delay    time.Duration
	text     string
	failWith []string
	err      error
}

func (s *stubAnalyzer) Analyze(ctx context.Context, path string) (*analyzer.AnalysisResult, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	if len(s.failWith) > 0 {
		return &analyzer.AnalysisResult{DocumentPath: path, Errors: s.failWith}, nil
	}
	return &analyzer.AnalysisResult{DocumentPath: path, Text: s.text, Success: true}, nil
}

// stubArchive records saved results for history tests.
type stubArchive struct {
	mu      sync.Mutex
	results map[string]*ReviewResult
}

func newStubArchive() *stubArchive {
	return &stubArchive{results: make(map[string]*ReviewResult)}
}

func (a *stubArchive) Save(_ context.Context, result *ReviewResult) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.results[result.RequestID] = result
	return nil
}

func (a *stubArchive) Get(_ context.Context, requestID string) (*ReviewResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if result, ok := a.results[requestID]; ok {
		return result.Clone(), nil
	}
	return nil, &NotFoundError{RequestID: requestID}
}

func (a *stubArchive) Purge(context.Context, time.Time) (int, error) { return 0, nil }
func (a *stubArchive) Close() error                                 { return nil }

const passingDeclaration = `
EU Declaration of Conformity

Manufacturer: ABC Medical Devices GmbH
Company: ABC Medical Devices GmbH
Address: Example Street 123, 12345 Berlin, Germany

Product: XYZ Surgical Instrument
Device: Single-use surgical stapler
Model: SI-2024-001

We hereby declare that the product is in conformity with the
applicable requirements. We declare that this declaration of
conformity is issued under the sole responsibility of the
manufacturer.

Regulation (EU) 2017/745 (MDR)
Directive 93/42/EEC
Medical Device Regulation

Harmonised standards: ISO 14971, IEC 62304

Notified body: NB 0123, certificate number G1-123456, conformity
assessment per Annex IX.

CE marking has been affixed. The conformity marking is visible.

Signed by: Dr. A. Director
Signature: __________________
Date: 15.03.2024
`

func newTestEngine(t *testing.T, an analyzer.Analyzer, opts Options) *Engine {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	validator := compliance.NewEngine(catalog.NewRegistry(), compliance.DefaultConfig(), logger)
	return NewEngine(an, validator, opts, logger)
}

func testDocument(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "declaration.txt")
	if err := os.WriteFile(path, []byte("placeholder"), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	return path
}

func submitRequest(t *testing.T, e *Engine, req ReviewRequest) string {
	t.Helper()
	id, err := e.Submit(req)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	return id
}

func TestEngine_Submit_Validation(t *testing.T) {
	e := newTestEngine(t, &stubAnalyzer{text: "x"}, Options{})
	doc := testDocument(t)

	tests := []struct {
		name       string
		request    ReviewRequest
		wantInPart string
	}{
		{
			name:       "empty document path",
			request:    ReviewRequest{ReviewType: TypeEUDocValidation},
			wantInPart: "document path cannot be empty",
		},
		{
			name:       "unresolvable document path",
			request:    ReviewRequest{DocumentPath: filepath.Join(doc, "missing.txt"), ReviewType: TypeEUDocValidation},
			wantInPart: "not resolvable",
		},
		{
			name:       "unknown review type",
			request:    ReviewRequest{DocumentPath: doc, ReviewType: "audit"},
			wantInPart: "unknown review type",
		},
		{
			name:       "timeout too large",
			request:    ReviewRequest{DocumentPath: doc, ReviewType: TypeEUDocValidation, TimeoutSeconds: 3601},
			wantInPart: "timeout must be in",
		},
		{
			name:       "negative timeout",
			request:    ReviewRequest{DocumentPath: doc, ReviewType: TypeEUDocValidation, TimeoutSeconds: -1},
			wantInPart: "timeout must be in",
		},
		{
			name:       "unknown priority",
			request:    ReviewRequest{DocumentPath: doc, ReviewType: TypeEUDocValidation, Priority: "whenever"},
			wantInPart: "unknown priority",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Submit(tt.request)
			var invalid *InvalidRequestError
			if !errors.As(err, &invalid) {
				t.Fatalf("Submit() error = %v, want *InvalidRequestError", err)
			}
			if !strings.Contains(invalid.Error(), tt.wantInPart) {
				t.Errorf("error %q does not contain %q", invalid.Error(), tt.wantInPart)
			}
		})
	}
}

func TestEngine_Submit_AllViolationsReported(t *testing.T) {
	e := newTestEngine(t, &stubAnalyzer{text: "x"}, Options{})

	_, err := e.Submit(ReviewRequest{ReviewType: "audit", Priority: "whenever", TimeoutSeconds: -5})
	var invalid *InvalidRequestError
	if !errors.As(err, &invalid) {
		t.Fatalf("Submit() error = %v, want *InvalidRequestError", err)
	}
	if len(invalid.Violations) != 4 {
		t.Errorf("Violations = %v, want 4 entries", invalid.Violations)
	}
}

func TestEngine_Submit_DuplicateID(t *testing.T) {
	e := newTestEngine(t, &stubAnalyzer{text: "x"}, Options{})
	doc := testDocument(t)

	submitRequest(t, e, ReviewRequest{ID: "dup", DocumentPath: doc, ReviewType: TypeEUDocValidation})

	_, err := e.Submit(ReviewRequest{ID: "dup", DocumentPath: doc, ReviewType: TypeEUDocValidation})
	var invalid *InvalidRequestError
	if !errors.As(err, &invalid) {
		t.Fatalf("Submit() error = %v, want *InvalidRequestError", err)
	}
}

func TestEngine_Submit_AssignsID(t *testing.T) {
	e := newTestEngine(t, &stubAnalyzer{text: "x"}, Options{})

	id := submitRequest(t, e, ReviewRequest{DocumentPath: testDocument(t), ReviewType: TypeEUDocValidation})
	if id == "" {
		t.Fatal("Submit() returned empty id")
	}

	result, err := e.Status(context.Background(), id)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if result.Status != StatusPending {
		t.Errorf("Status = %s, want %s", result.Status, StatusPending)
	}
}

func TestEngine_ProcessOne_Completed(t *testing.T) {
	e := newTestEngine(t, &stubAnalyzer{text: passingDeclaration}, Options{})

	id := submitRequest(t, e, ReviewRequest{DocumentPath: testDocument(t), ReviewType: TypeEUDocValidation})

	result, err := e.ProcessOne(id)
	if err != nil {
		t.Fatalf("ProcessOne() error = %v", err)
	}

	if result.Status != StatusCompleted {
		t.Fatalf("Status = %s (%s), want %s", result.Status, result.ErrorMessage, StatusCompleted)
	}
	if result.ValidationResult == nil || result.AnalysisResult == nil {
		t.Fatal("embedded results not populated")
	}
	if result.OverallScore <= 0 || result.CompliancePercentage <= 0 {
		t.Errorf("scores = %.1f/%.1f, want positive", result.OverallScore, result.CompliancePercentage)
	}
	if len(result.CriticalIssues) != 0 {
		t.Errorf("CriticalIssues = %v, want none", result.CriticalIssues)
	}
	if result.StartedAt == nil || result.CompletedAt == nil {
		t.Error("timestamps not recorded")
	}
	if result.Metadata["stage"] != "finalization" {
		t.Errorf("stage = %v, want finalization", result.Metadata["stage"])
	}
}

func TestEngine_ProcessOne_FailedValidation(t *testing.T) {
	e := newTestEngine(t, &stubAnalyzer{text: "an unrelated shopping list"}, Options{})

	id := submitRequest(t, e, ReviewRequest{DocumentPath: testDocument(t), ReviewType: TypeEUDocValidation})

	result, err := e.ProcessOne(id)
	if err != nil {
		t.Fatalf("ProcessOne() error = %v", err)
	}

	if result.Status != StatusFailed {
		t.Fatalf("Status = %s, want %s", result.Status, StatusFailed)
	}
	if result.ErrorMessage == "" {
		t.Error("ErrorMessage is empty")
	}
	if len(result.CriticalIssues) == 0 {
		t.Error("CriticalIssues is empty for a non-compliant document")
	}
}

func TestEngine_ProcessOne_AnalyzerFailure(t *testing.T) {
	e := newTestEngine(t, &stubAnalyzer{failWith: []string{"unsupported document format: .bin"}}, Options{})

	id := submitRequest(t, e, ReviewRequest{DocumentPath: testDocument(t), ReviewType: TypeEUDocValidation})

	result, err := e.ProcessOne(id)
	if err != nil {
		t.Fatalf("ProcessOne() error = %v", err)
	}

	if result.Status != StatusFailed {
		t.Fatalf("Status = %s, want %s", result.Status, StatusFailed)
	}
	if !strings.Contains(result.ErrorMessage, "unsupported document format: .bin") {
		t.Errorf("ErrorMessage = %q, want analyzer message surfaced verbatim", result.ErrorMessage)
	}
}

func TestEngine_ProcessOne_Timeout(t *testing.T) {
	e := newTestEngine(t, &stubAnalyzer{delay: 1500 * time.Millisecond, text: "x"}, Options{})

	id := submitRequest(t, e, ReviewRequest{
		DocumentPath:   testDocument(t),
		ReviewType:     TypeEUDocValidation,
		TimeoutSeconds: 1,
	})

	result, err := e.ProcessOne(id)
	if err != nil {
		t.Fatalf("ProcessOne() error = %v", err)
	}

	if result.Status != StatusFailed {
		t.Fatalf("Status = %s, want %s", result.Status, StatusFailed)
	}
	if !strings.Contains(result.ErrorMessage, "timed out") {
		t.Errorf("ErrorMessage = %q, want timeout message", result.ErrorMessage)
	}
}

func TestEngine_PriorityOrder(t *testing.T) {
	e := newTestEngine(t, &stubAnalyzer{text: "x"}, Options{})
	doc := testDocument(t)

	submitRequest(t, e, ReviewRequest{ID: "low", DocumentPath: doc, ReviewType: TypeEUDocValidation, Priority: PriorityLow})
	submitRequest(t, e, ReviewRequest{ID: "urgent", DocumentPath: doc, ReviewType: TypeEUDocValidation, Priority: PriorityUrgent})
	submitRequest(t, e, ReviewRequest{ID: "normal", DocumentPath: doc, ReviewType: TypeEUDocValidation, Priority: PriorityNormal})

	want := []string{"urgent", "normal", "low"}
	for _, wantID := range want {
		item := e.nextItem()
		if item == nil {
			t.Fatalf("nextItem() = nil, want %q", wantID)
		}
		if item.request.ID != wantID {
			t.Fatalf("nextItem() = %q, want %q", item.request.ID, wantID)
		}
	}
}

func TestEngine_PriorityOrder_StableWithinBand(t *testing.T) {
	e := newTestEngine(t, &stubAnalyzer{text: "x"}, Options{})
	doc := testDocument(t)

	created := time.Now()
	for _, id := range []string{"first", "second", "third"} {
		submitRequest(t, e, ReviewRequest{
			ID:           id,
			DocumentPath: doc,
			ReviewType:   TypeEUDocValidation,
			Priority:     PriorityNormal,
			CreatedAt:    created,
		})
	}

	for _, wantID := range []string{"first", "second", "third"} {
		item := e.nextItem()
		if item == nil || item.request.ID != wantID {
			t.Fatalf("nextItem() = %v, want %q", item, wantID)
		}
	}
}

func TestEngine_QueueStatus(t *testing.T) {
	e := newTestEngine(t, &stubAnalyzer{text: "x"}, Options{})
	doc := testDocument(t)

	submitRequest(t, e, ReviewRequest{DocumentPath: doc, ReviewType: TypeEUDocValidation, Priority: PriorityUrgent})
	submitRequest(t, e, ReviewRequest{DocumentPath: doc, ReviewType: TypeEUDocValidation, Priority: PriorityNormal})
	submitRequest(t, e, ReviewRequest{DocumentPath: doc, ReviewType: TypeEUDocValidation, Priority: PriorityNormal})

	status := e.QueueStatus()
	if status[PriorityUrgent] != 1 || status[PriorityNormal] != 2 || status[PriorityLow] != 0 {
		t.Errorf("QueueStatus() = %v", status)
	}
}

func TestEngine_Cancel_Pending(t *testing.T) {
	e := newTestEngine(t, &stubAnalyzer{text: "x"}, Options{})

	id := submitRequest(t, e, ReviewRequest{DocumentPath: testDocument(t), ReviewType: TypeEUDocValidation})

	if !e.Cancel(id) {
		t.Fatal("Cancel() = false, want true")
	}

	result, err := e.Status(context.Background(), id)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if result.Status != StatusCancelled {
		t.Errorf("Status = %s, want %s", result.Status, StatusCancelled)
	}

	if item := e.nextItem(); item != nil {
		t.Errorf("nextItem() = %q after cancellation, want nil", item.request.ID)
	}

	// Terminal: a second cancel is a no-op.
	if e.Cancel(id) {
		t.Error("Cancel() on terminal review = true, want false")
	}
}

func TestEngine_Cancel_InProgressDiscardsOutcome(t *testing.T) {
	e := newTestEngine(t, &stubAnalyzer{delay: 300 * time.Millisecond, text: passingDeclaration}, Options{})

	id := submitRequest(t, e, ReviewRequest{DocumentPath: testDocument(t), ReviewType: TypeEUDocValidation})

	done := make(chan *ReviewResult, 1)
	go func() {
		result, _ := e.ProcessOne(id)
		done <- result
	}()

	// Wait until the review is in progress, then cancel it.
	deadline := time.After(2 * time.Second)
	for {
		result, err := e.Status(context.Background(), id)
		if err != nil {
			t.Fatalf("Status() error = %v", err)
		}
		if result.Status == StatusInProgress {
			break
		}
		select {
		case <-deadline:
			t.Fatal("review never reached IN_PROGRESS")
		case <-time.After(10 * time.Millisecond):
		}
	}

	if !e.Cancel(id) {
		t.Fatal("Cancel() = false, want true")
	}

	result := <-done
	if result == nil {
		t.Fatal("ProcessOne() returned nil result")
	}
	if result.Status != StatusCancelled {
		t.Errorf("Status = %s, want %s", result.Status, StatusCancelled)
	}
	if result.ValidationResult != nil {
		t.Error("ValidationResult retained after cancellation, want discarded")
	}

	stats := e.Statistics()
	if stats.Cancelled != 1 || stats.Succeeded != 0 {
		t.Errorf("stats = %+v, want 1 cancelled and 0 succeeded", stats)
	}
}

func TestEngine_Cancel_Unknown(t *testing.T) {
	e := newTestEngine(t, &stubAnalyzer{text: "x"}, Options{})
	if e.Cancel("missing") {
		t.Error("Cancel(missing) = true, want false")
	}
}

type captureExporter struct {
	result *ReviewResult
}

func (c *captureExporter) Export(w io.Writer, result *ReviewResult) error {
	c.result = result
	_, err := io.WriteString(w, result.RequestID)
	return err
}

func TestEngine_ExportResult(t *testing.T) {
	e := newTestEngine(t, &stubAnalyzer{text: passingDeclaration}, Options{})
	doc := testDocument(t)

	id := submitRequest(t, e, ReviewRequest{DocumentPath: doc, ReviewType: TypeEUDocValidation})
	if _, err := e.ProcessOne(id); err != nil {
		t.Fatalf("ProcessOne() error = %v", err)
	}

	var buf strings.Builder
	exporter := &captureExporter{}
	if err := e.ExportResult(context.Background(), &buf, id, exporter); err != nil {
		t.Fatalf("ExportResult() error = %v", err)
	}
	if buf.String() != id {
		t.Errorf("exported output = %q, want %q", buf.String(), id)
	}
	if exporter.result.Status != StatusCompleted {
		t.Errorf("exported status = %q, want %q", exporter.result.Status, StatusCompleted)
	}

	var notFound *NotFoundError
	if err := e.ExportResult(context.Background(), &buf, "missing", exporter); !errors.As(err, &notFound) {
		t.Fatalf("ExportResult() error = %v, want *NotFoundError", err)
	}
}

func TestEngine_Status_NotFound(t *testing.T) {
	e := newTestEngine(t, &stubAnalyzer{text: "x"}, Options{})

	_, err := e.Status(context.Background(), "missing")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Status() error = %v, want *NotFoundError", err)
	}
}

func TestEngine_Statistics(t *testing.T) {
	e := newTestEngine(t, &stubAnalyzer{text: passingDeclaration}, Options{})
	doc := testDocument(t)

	okID := submitRequest(t, e, ReviewRequest{DocumentPath: doc, ReviewType: TypeEUDocValidation})
	if _, err := e.ProcessOne(okID); err != nil {
		t.Fatalf("ProcessOne() error = %v", err)
	}

	e.analyzer = &stubAnalyzer{failWith: []string{"boom"}}
	failID := submitRequest(t, e, ReviewRequest{DocumentPath: doc, ReviewType: TypeEUDocValidation})
	if _, err := e.ProcessOne(failID); err != nil {
		t.Fatalf("ProcessOne() error = %v", err)
	}

	stats := e.Statistics()
	if stats.Processed != 2 || stats.Succeeded != 1 || stats.Failed != 1 {
		t.Errorf("stats = %+v, want 2 processed, 1 succeeded, 1 failed", stats)
	}
	if stats.SuccessRate != 0.5 {
		t.Errorf("SuccessRate = %.2f, want 0.50", stats.SuccessRate)
	}
	if stats.HistoryCount != 2 {
		t.Errorf("HistoryCount = %d, want 2", stats.HistoryCount)
	}
}

func TestEngine_HistoryBoundWithArchive(t *testing.T) {
	archive := newStubArchive()
	e := newTestEngine(t, &stubAnalyzer{text: passingDeclaration}, Options{MaxHistoryEntries: 2})
	e.SetArchive(archive)
	doc := testDocument(t)

	var ids []string
	for i := 0; i < 3; i++ {
		id := submitRequest(t, e, ReviewRequest{DocumentPath: doc, ReviewType: TypeEUDocValidation})
		if _, err := e.ProcessOne(id); err != nil {
			t.Fatalf("ProcessOne() error = %v", err)
		}
		ids = append(ids, id)
	}

	if got := e.Statistics().HistoryCount; got != 2 {
		t.Fatalf("HistoryCount = %d, want 2", got)
	}

	// The oldest result left history but survives through the archive.
	result, err := e.Status(context.Background(), ids[0])
	if err != nil {
		t.Fatalf("Status(pruned) error = %v", err)
	}
	if result.Status != StatusCompleted {
		t.Errorf("archived Status = %s, want %s", result.Status, StatusCompleted)
	}
}

func TestEngine_ProgressCallbacks(t *testing.T) {
	e := newTestEngine(t, &stubAnalyzer{text: passingDeclaration}, Options{})

	id := submitRequest(t, e, ReviewRequest{DocumentPath: testDocument(t), ReviewType: TypeEUDocValidation})

	var mu sync.Mutex
	var stages []string
	e.RegisterProgressFunc(id, func(p ReviewProgress) {
		mu.Lock()
		stages = append(stages, p.Stage)
		mu.Unlock()
	})

	if _, err := e.ProcessOne(id); err != nil {
		t.Fatalf("ProcessOne() error = %v", err)
	}

	want := []string{"initialization", "document_analysis", "template_validation", "results_compilation", "finalization"}
	mu.Lock()
	defer mu.Unlock()
	if len(stages) != len(want) {
		t.Fatalf("stages = %v, want %v", stages, want)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Errorf("stage[%d] = %q, want %q", i, stages[i], want[i])
		}
	}
}

func TestEngine_ProgressCallbackPanicContained(t *testing.T) {
	e := newTestEngine(t, &stubAnalyzer{text: passingDeclaration}, Options{})

	id := submitRequest(t, e, ReviewRequest{DocumentPath: testDocument(t), ReviewType: TypeEUDocValidation})
	e.RegisterProgressFunc(id, func(ReviewProgress) { panic("observer bug") })

	result, err := e.ProcessOne(id)
	if err != nil {
		t.Fatalf("ProcessOne() error = %v", err)
	}
	if result.Status != StatusCompleted {
		t.Errorf("Status = %s, want %s", result.Status, StatusCompleted)
	}
}

func TestEngine_StartShutdown(t *testing.T) {
	e := newTestEngine(t, &stubAnalyzer{text: passingDeclaration}, Options{
		MaxConcurrentReviews: 2,
		PollInterval:         10 * time.Millisecond,
	})

	if err := e.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	id := submitRequest(t, e, ReviewRequest{DocumentPath: testDocument(t), ReviewType: TypeEUDocValidation})

	deadline := time.After(5 * time.Second)
	for {
		result, err := e.Status(context.Background(), id)
		if err != nil {
			t.Fatalf("Status() error = %v", err)
		}
		if result.Status.Terminal() {
			if result.Status != StatusCompleted {
				t.Fatalf("Status = %s (%s), want %s", result.Status, result.ErrorMessage, StatusCompleted)
			}
			break
		}
		select {
		case <-deadline:
			t.Fatal("review never finished")
		case <-time.After(10 * time.Millisecond):
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	if _, err := e.Submit(ReviewRequest{DocumentPath: testDocument(t), ReviewType: TypeEUDocValidation}); !errors.Is(err, ErrEngineClosed) {
		t.Errorf("Submit() after shutdown error = %v, want ErrEngineClosed", err)
	}
}

func TestEngine_Shutdown_CancelsPending(t *testing.T) {
	e := newTestEngine(t, &stubAnalyzer{text: "x"}, Options{})

	id := submitRequest(t, e, ReviewRequest{DocumentPath: testDocument(t), ReviewType: TypeEUDocValidation})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	result, err := e.Status(context.Background(), id)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if result.Status != StatusCancelled {
		t.Errorf("Status = %s, want %s", result.Status, StatusCancelled)
	}
}
