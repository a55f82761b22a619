package review

import (
	"context"
	"io"
)

// Exporter serializes a review result. Implementations live in the
// export package.
type Exporter interface {
	Export(w io.Writer, result *ReviewResult) error
}

// ExportResult looks up a review and writes it through the given
// exporter.
func (e *Engine) ExportResult(ctx context.Context, w io.Writer, requestID string, exporter Exporter) error {
	result, err := e.Status(ctx, requestID)
	if err != nil {
		return err
	}
	return exporter.Export(w, result)
}
