package export

import (
	"encoding/json"
	"fmt"
	"io"

	"veritas-hq/saturn/pkg/review"
)

// JSONExporter writes a complete structural dump of a review result,
// including the embedded analysis and validation results.
type JSONExporter struct {
	// Pretty enables indented output.
	Pretty bool
}

// Export writes the result as JSON.
func (e *JSONExporter) Export(w io.Writer, result *review.ReviewResult) error {
	enc := json.NewEncoder(w)
	if e.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode review result: %w", err)
	}
	return nil
}
