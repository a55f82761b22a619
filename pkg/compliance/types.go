package compliance

import (
	"veritas-hq/saturn/pkg/catalog"
)

// RequirementStatus is the per-requirement outcome of an evaluation.
type RequirementStatus string

const (
	// StatusSatisfied means enough distinct patterns matched.
	StatusSatisfied RequirementStatus = "satisfied"

	// StatusPartiallySatisfied means some but not enough patterns matched.
	StatusPartiallySatisfied RequirementStatus = "partially_satisfied"

	// StatusNotSatisfied means a mandatory requirement had no matches.
	StatusNotSatisfied RequirementStatus = "not_satisfied"

	// StatusNotApplicable means an optional requirement had no matches.
	StatusNotApplicable RequirementStatus = "not_applicable"
)

// Issue categories emitted by the engine.
const (
	CategoryMissingSection       = "missing_section"
	CategoryIncompleteSection    = "incomplete_section"
	CategoryContentValidation    = "content_validation"
	CategoryRegulatoryCompliance = "regulatory_compliance"
	CategoryDateValidation       = "date_validation"
	CategoryEvaluationDiagnostic = "evaluation_diagnostic"
)

// Document is the evaluation input: extracted text plus the path it came
// from (for reporting only; the engine never touches the file system).
type Document struct {
	Path string
	Text string
}

// SectionMatch is evidence of one requirement's match in the document.
// Matches belong to the ValidationResult that holds them and have no
// independent lifecycle.
type SectionMatch struct {
	// RequirementID names the requirement the match is evidence for.
	RequirementID string `json:"requirement_id"`

	// MatchedText is the matched span of the source text.
	MatchedText string `json:"matched_text"`

	// Confidence is the heuristic score in [0, 1].
	Confidence float64 `json:"confidence"`

	// StartOffset and EndOffset are character positions in the source text.
	StartOffset int `json:"start_offset"`
	EndOffset   int `json:"end_offset"`

	// MatchedPatterns is the subset of the requirement's patterns that fired.
	MatchedPatterns []string `json:"matched_patterns"`
}

// ValidationIssue is one finding produced during evaluation.
type ValidationIssue struct {
	Severity            catalog.Severity `json:"severity"`
	Category            string           `json:"category"`
	Title               string           `json:"title"`
	Description         string           `json:"description"`
	Section             string           `json:"section,omitempty"`
	Suggestion          string           `json:"suggestion,omitempty"`
	RegulationReference string           `json:"regulation_reference,omitempty"`
}

// Blocking reports whether the issue prevents a successful result.
func (i ValidationIssue) Blocking() bool {
	return i.Severity == catalog.SeverityCritical || i.Severity == catalog.SeverityHigh
}

// Penalty returns the score deduction for the issue's severity.
func (i ValidationIssue) Penalty() float64 {
	switch i.Severity {
	case catalog.SeverityCritical:
		return 20
	case catalog.SeverityHigh:
		return 10
	case catalog.SeverityMedium:
		return 5
	case catalog.SeverityLow:
		return 2
	default:
		return 0
	}
}

// ValidationResult is the output of one compliance evaluation.
type ValidationResult struct {
	TemplateName string `json:"template_name"`
	DocumentPath string `json:"document_path"`

	// OverallScore is the penalty-adjusted score in [0, 100].
	OverallScore float64 `json:"overall_score"`

	// CompliancePercentage is the weighted requirement coverage in [0, 100].
	CompliancePercentage float64 `json:"compliance_percentage"`

	// RequirementsStatus holds one entry per catalog requirement.
	RequirementsStatus map[string]RequirementStatus `json:"requirements_status"`

	SectionMatches   []SectionMatch    `json:"section_matches"`
	ValidationIssues []ValidationIssue `json:"validation_issues"`

	// MissingSections lists titles of mandatory requirements that were
	// not satisfied.
	MissingSections []string `json:"missing_sections"`

	Recommendations []string `json:"recommendations"`

	ProcessingTimeSeconds float64 `json:"processing_time_seconds"`

	// Success is true iff no issue is critical or high severity.
	Success bool `json:"success"`
}

// CriticalIssueTitles returns the titles of all critical and high
// severity issues, in issue order.
func (r *ValidationResult) CriticalIssueTitles() []string {
	var titles []string
	for _, issue := range r.ValidationIssues {
		if issue.Blocking() {
			titles = append(titles, issue.Title)
		}
	}
	return titles
}
