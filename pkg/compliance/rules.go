package compliance

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"veritas-hq/saturn/pkg/catalog"
)

// ruleInput carries everything a validation rule may inspect. The text
// field is the full document lowered once per evaluation.
type ruleInput struct {
	requirement *catalog.Requirement
	matches     []SectionMatch
	text        string
	now         time.Time
}

type ruleFunc func(in ruleInput) []ValidationIssue

// validationRules maps rule names declared in templates to their
// implementations. Names not present here are skipped.
var validationRules = map[string]ruleFunc{
	"must_contain_company_name": ruleMustContainCompanyName,
	"must_contain_address":      ruleMustContainAddress,
	"must_reference_mdr_or_mdd": ruleMustReferenceMDROrMDD,
	"date_must_be_recent":       ruleDateMustBeRecent,
}

var (
	companyIndicators = []string{"gmbh", "ltd", "inc", "corp", "ag", "sa", "bv", "srl", "spa"}
	addressIndicators = []string{"street", "str", "avenue", "ave", "road", "rd", "germany", "france", "italy", "spain", "netherlands"}

	postalCodeRe = regexp.MustCompile(`\d{4,5}`)
	mdrRe        = regexp.MustCompile(`regulation\s+\(eu\)\s+2017/745|mdr`)
	mddRe        = regexp.MustCompile(`directive\s+93/42/eec|mdd`)
	yearRe       = regexp.MustCompile(`20\d{2}`)
)

// runRule executes a named rule, skipping unknown names and containing
// panics so one faulty rule cannot abort the evaluation.
func (e *Engine) runRule(name string, in ruleInput) (issues []ValidationIssue) {
	fn, ok := validationRules[name]
	if !ok {
		e.logger.Debug("skipping unknown validation rule",
			"rule", name,
			"requirement", in.requirement.ID,
		)
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("validation rule panicked",
				"rule", name,
				"requirement", in.requirement.ID,
				"panic", r,
			)
			issues = []ValidationIssue{{
				Severity:    catalog.SeverityLow,
				Category:    CategoryEvaluationDiagnostic,
				Title:       "Validation Rule Failed",
				Description: fmt.Sprintf("Rule %q could not be evaluated: %v", name, r),
				Section:     in.requirement.Title,
			}}
		}
	}()

	return fn(in)
}

// matchedText joins the matched section text, lowered, for indicator
// scans scoped to the requirement's own matches.
func matchedText(matches []SectionMatch) string {
	var b strings.Builder
	for _, m := range matches {
		b.WriteString(strings.ToLower(m.MatchedText))
		b.WriteByte(' ')
	}
	return b.String()
}

func ruleMustContainCompanyName(in ruleInput) []ValidationIssue {
	if len(in.matches) == 0 {
		return nil
	}
	text := matchedText(in.matches)
	for _, indicator := range companyIndicators {
		if strings.Contains(text, indicator) {
			return nil
		}
	}
	return []ValidationIssue{{
		Severity:            catalog.SeverityHigh,
		Category:            CategoryContentValidation,
		Title:               "Missing Company Name",
		Description:         "Manufacturer section does not appear to contain a company name",
		Section:             in.requirement.Title,
		Suggestion:          "Include the full legal name of the manufacturer",
		RegulationReference: in.requirement.RegulationReference,
	}}
}

func ruleMustContainAddress(in ruleInput) []ValidationIssue {
	if len(in.matches) == 0 {
		return nil
	}
	text := matchedText(in.matches)
	for _, indicator := range addressIndicators {
		if strings.Contains(text, indicator) {
			return nil
		}
	}
	if postalCodeRe.MatchString(text) {
		return nil
	}
	return []ValidationIssue{{
		Severity:            catalog.SeverityHigh,
		Category:            CategoryContentValidation,
		Title:               "Missing Address",
		Description:         "Manufacturer section does not appear to contain a postal address",
		Section:             in.requirement.Title,
		Suggestion:          "Include the complete registered address of the manufacturer",
		RegulationReference: in.requirement.RegulationReference,
	}}
}

func ruleMustReferenceMDROrMDD(in ruleInput) []ValidationIssue {
	if mdrRe.MatchString(in.text) || mddRe.MatchString(in.text) {
		return nil
	}
	return []ValidationIssue{{
		Severity:            catalog.SeverityCritical,
		Category:            CategoryRegulatoryCompliance,
		Title:               "Missing Regulatory Reference",
		Description:         "Document does not reference MDR (EU) 2017/745 or MDD 93/42/EEC",
		Section:             in.requirement.Title,
		Suggestion:          "Reference the applicable regulation, e.g. Regulation (EU) 2017/745",
		RegulationReference: "MDR Article 19",
	}}
}

func ruleDateMustBeRecent(in ruleInput) []ValidationIssue {
	currentYear := in.now.Year()
	var futureYears []string

	seen := make(map[string]bool)
	for _, raw := range yearRe.FindAllString(in.text, -1) {
		if seen[raw] {
			continue
		}
		seen[raw] = true

		year, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		if year > currentYear {
			futureYears = append(futureYears, raw)
		}
	}

	if len(futureYears) == 0 {
		return nil
	}
	return []ValidationIssue{{
		Severity:            catalog.SeverityMedium,
		Category:            CategoryDateValidation,
		Title:               "Future Date Detected",
		Description:         "Document contains future dates: " + strings.Join(futureYears, ", "),
		Section:             in.requirement.Title,
		Suggestion:          "Verify that the date of issue is correct",
		RegulationReference: in.requirement.RegulationReference,
	}}
}
