package compliance

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"veritas-hq/saturn/pkg/catalog"
)

// Engine evaluates document text against templates resolved from a
// catalog registry. An Engine is safe for concurrent use; it holds no
// per-evaluation state beyond a compiled-pattern cache.
type Engine struct {
	registry *catalog.Registry
	config   *Config
	logger   *slog.Logger

	mu       sync.Mutex
	compiled map[*catalog.Template][]compiledRequirement
}

// compiledRequirement pairs a requirement with its compiled patterns.
// Patterns that fail to compile keep their error so evaluation can
// report a diagnostic instead of aborting.
type compiledRequirement struct {
	requirement *catalog.Requirement
	patterns    []compiledPattern
}

type compiledPattern struct {
	source string
	re     *regexp.Regexp
	err    error
}

// NewEngine creates a compliance engine backed by the given registry.
func NewEngine(registry *catalog.Registry, config *Config, logger *slog.Logger) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		registry: registry,
		config:   config,
		logger:   logger.With("component", "compliance.engine"),
		compiled: make(map[*catalog.Template][]compiledRequirement),
	}
}

// Evaluate validates document text against the named template. The text
// may be empty (every mandatory requirement ends up NOT_SATISFIED). The
// only failure mode is an unregistered template name; everything else is
// reported inside the result.
func (e *Engine) Evaluate(doc Document, templateName string) (*ValidationResult, error) {
	start := time.Now()

	tpl, err := e.registry.Get(templateName)
	if err != nil {
		return nil, err
	}

	requirements := e.compiledFor(tpl)

	result := &ValidationResult{
		TemplateName:       tpl.Name,
		DocumentPath:       doc.Path,
		RequirementsStatus: make(map[string]RequirementStatus, len(requirements)),
	}

	now := time.Now()
	var satisfiedWeight float64

	for _, cr := range requirements {
		req := cr.requirement
		status, matches, issues := e.evaluateRequirement(cr, doc.Text)

		result.RequirementsStatus[req.ID] = status
		result.SectionMatches = append(result.SectionMatches, matches...)
		result.ValidationIssues = append(result.ValidationIssues, issues...)

		switch status {
		case StatusSatisfied:
			satisfiedWeight += 1.0
		case StatusPartiallySatisfied:
			satisfiedWeight += 0.5
		case StatusNotSatisfied:
			if req.Required {
				result.MissingSections = append(result.MissingSections, req.Title)
			}
		}

		ruleIn := ruleInput{
			requirement: req,
			matches:     matches,
			text:        strings.ToLower(doc.Text),
			now:         now,
		}
		for _, rule := range req.ValidationRules {
			result.ValidationIssues = append(result.ValidationIssues, e.runRule(rule, ruleIn)...)
		}
	}

	result.CompliancePercentage = 100 * satisfiedWeight / float64(len(requirements))

	var penalty float64
	for _, issue := range result.ValidationIssues {
		penalty += issue.Penalty()
	}
	result.OverallScore = clamp(result.CompliancePercentage-penalty, 0, 100)

	result.Success = true
	for _, issue := range result.ValidationIssues {
		if issue.Blocking() {
			result.Success = false
			break
		}
	}

	result.Recommendations = recommendations(result)
	result.ProcessingTimeSeconds = time.Since(start).Seconds()

	e.logger.Info("template validation completed",
		"template", tpl.Name,
		"document", doc.Path,
		"overall_score", result.OverallScore,
		"compliance_percentage", result.CompliancePercentage,
		"issues", len(result.ValidationIssues),
		"success", result.Success,
	)

	return result, nil
}

// evaluateRequirement searches the text with the requirement's patterns
// and derives the requirement status from distinct-pattern coverage.
func (e *Engine) evaluateRequirement(cr compiledRequirement, text string) (RequirementStatus, []SectionMatch, []ValidationIssue) {
	req := cr.requirement

	var matches []SectionMatch
	var issues []ValidationIssue
	matchedPatterns := make(map[string]bool)

	for _, pattern := range cr.patterns {
		if pattern.err != nil {
			issues = append(issues, ValidationIssue{
				Severity:    catalog.SeverityLow,
				Category:    CategoryEvaluationDiagnostic,
				Title:       "Pattern Evaluation Failed",
				Description: fmt.Sprintf("Pattern %q could not be evaluated: %v", pattern.source, pattern.err),
				Section:     req.Title,
			})
			continue
		}

		for _, loc := range pattern.re.FindAllStringIndex(text, -1) {
			confidence := matchConfidence(text, loc[0], loc[1])
			if confidence < e.config.MinConfidenceThreshold {
				continue
			}

			matches = append(matches, SectionMatch{
				RequirementID:   req.ID,
				MatchedText:     text[loc[0]:loc[1]],
				Confidence:      confidence,
				StartOffset:     loc[0],
				EndOffset:       loc[1],
				MatchedPatterns: []string{pattern.source},
			})
			matchedPatterns[pattern.source] = true
		}
	}

	var status RequirementStatus
	switch {
	case len(matches) == 0 && req.Required:
		status = StatusNotSatisfied
		issues = append(issues, ValidationIssue{
			Severity:            req.Severity,
			Category:            CategoryMissingSection,
			Title:               "Missing Required Section: " + req.Title,
			Description:         "Could not find " + strings.ToLower(req.Description),
			Section:             req.Title,
			Suggestion:          missingSectionSuggestion(req),
			RegulationReference: req.RegulationReference,
		})

	case len(matches) == 0:
		status = StatusNotApplicable

	case float64(len(matchedPatterns)) >= float64(len(req.Patterns))*e.config.SatisfactionRatio:
		status = StatusSatisfied

	default:
		status = StatusPartiallySatisfied
		issues = append(issues, ValidationIssue{
			Severity:            catalog.SeverityMedium,
			Category:            CategoryIncompleteSection,
			Title:               "Incomplete Section: " + req.Title,
			Description:         "Section partially matches requirements but may be missing some elements",
			Section:             req.Title,
			Suggestion:          "Please verify that all required information is included in " + strings.ToLower(req.Title),
			RegulationReference: req.RegulationReference,
		})
	}

	return status, matches, issues
}

// matchConfidence scores a raw match from its surrounding context.
// Structural cue words and domain keywords near the match raise the
// score above the base value; the result is clamped to [0, 1].
func matchConfidence(text string, start, end int) float64 {
	confidence := baseConfidence

	ctxStart := start - contextWindow
	if ctxStart < 0 {
		ctxStart = 0
	}
	ctxEnd := end + contextWindow
	if ctxEnd > len(text) {
		ctxEnd = len(text)
	}
	context := strings.ToLower(text[ctxStart:ctxEnd])

	for _, cue := range []string{"section", "chapter", "article"} {
		if strings.Contains(context, cue) {
			confidence += structuralCueBonus
			break
		}
	}

	var keywordScore float64
	for _, keyword := range []string{"declaration", "conformity", "regulation", "standard", "device"} {
		if strings.Contains(context, keyword) {
			keywordScore += keywordBonus
		}
	}
	if keywordScore > keywordBonusCap {
		keywordScore = keywordBonusCap
	}
	confidence += keywordScore

	return clamp(confidence, 0, 1)
}

// missingSectionSuggestion builds a suggestion from the requirement's
// first two examples.
func missingSectionSuggestion(req *catalog.Requirement) string {
	examples := req.Examples
	if len(examples) > 2 {
		examples = examples[:2]
	}
	suggestion := "Please include " + strings.ToLower(req.Title)
	if len(examples) > 0 {
		suggestion += " with: " + strings.Join(examples, ", ")
	}
	return suggestion
}

// recommendations derives actionable text from the finished result.
func recommendations(result *ValidationResult) []string {
	var recs []string

	if len(result.MissingSections) > 0 {
		recs = append(recs, "Add the following missing sections: "+strings.Join(result.MissingSections, ", "))
	}

	criticalCount := 0
	for _, issue := range result.ValidationIssues {
		if issue.Severity == catalog.SeverityCritical {
			criticalCount++
		}
	}
	if criticalCount > 0 {
		recs = append(recs, fmt.Sprintf("Address %d critical compliance issues to ensure regulatory approval", criticalCount))
	}

	if result.OverallScore < 70 {
		recs = append(recs, "Document requires significant improvements to meet compliance standards")
	} else if result.OverallScore < 85 {
		recs = append(recs, "Document is mostly compliant but could benefit from minor improvements")
	}

	if result.CompliancePercentage < 80 {
		recs = append(recs, "Review template requirements and ensure all mandatory sections are included")
	}

	return recs
}

// compiledFor returns the compiled requirement set for a template,
// compiling and caching on first use. Re-registered templates get fresh
// cache entries because registration replaces the template value.
func (e *Engine) compiledFor(tpl *catalog.Template) []compiledRequirement {
	e.mu.Lock()
	defer e.mu.Unlock()

	if cached, ok := e.compiled[tpl]; ok {
		return cached
	}

	requirements := make([]compiledRequirement, 0, len(tpl.Requirements))
	for i := range tpl.Requirements {
		req := &tpl.Requirements[i]
		cr := compiledRequirement{requirement: req}
		for _, source := range req.Patterns {
			cr.patterns = append(cr.patterns, e.compilePattern(source))
		}
		requirements = append(requirements, cr)
	}

	e.compiled[tpl] = requirements
	return requirements
}

func (e *Engine) compilePattern(source string) compiledPattern {
	pattern := source
	if !e.config.CaseSensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	return compiledPattern{source: source, re: re, err: err}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
