package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"veritas-hq/saturn/pkg/review"
)

// TextExporter writes a human-readable report with a fixed section
// order: header, summary scores, critical issues, recommendations, and
// the error message when present.
type TextExporter struct{}

// Export writes the report.
func (e *TextExporter) Export(w io.Writer, result *review.ReviewResult) error {
	var b strings.Builder

	b.WriteString("COMPLIANCE REVIEW REPORT\n")
	b.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&b, "Request ID:    %s\n", result.RequestID)
	fmt.Fprintf(&b, "Document:      %s\n", result.DocumentPath)
	fmt.Fprintf(&b, "Template:      %s\n", result.TemplateName)
	fmt.Fprintf(&b, "Review type:   %s\n", result.ReviewType)
	fmt.Fprintf(&b, "Status:        %s\n", strings.ToUpper(string(result.Status)))
	if result.CompletedAt != nil {
		fmt.Fprintf(&b, "Completed:     %s\n", result.CompletedAt.Format(time.RFC3339))
	}

	b.WriteString("\nSUMMARY\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	fmt.Fprintf(&b, "Overall score:         %.1f / 100\n", result.OverallScore)
	fmt.Fprintf(&b, "Compliance:            %.1f%%\n", result.CompliancePercentage)
	fmt.Fprintf(&b, "Processing time:       %.2fs\n", result.ProcessingTimeSeconds)
	if result.ValidationResult != nil {
		fmt.Fprintf(&b, "Validation issues:     %d\n", len(result.ValidationResult.ValidationIssues))
		fmt.Fprintf(&b, "Missing sections:      %d\n", len(result.ValidationResult.MissingSections))
	}

	b.WriteString("\nCRITICAL ISSUES\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	if len(result.CriticalIssues) == 0 {
		b.WriteString("None\n")
	} else {
		for _, issue := range result.CriticalIssues {
			fmt.Fprintf(&b, "  - %s\n", issue)
		}
	}

	b.WriteString("\nRECOMMENDATIONS\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	if len(result.Recommendations) == 0 {
		b.WriteString("None\n")
	} else {
		for _, rec := range result.Recommendations {
			fmt.Fprintf(&b, "  - %s\n", rec)
		}
	}

	if result.ErrorMessage != "" {
		b.WriteString("\nERROR\n")
		b.WriteString(strings.Repeat("-", 60) + "\n")
		b.WriteString(result.ErrorMessage + "\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
