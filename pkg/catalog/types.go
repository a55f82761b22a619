package catalog

// Severity classifies how serious a requirement violation is.
type Severity string

const (
	// SeverityCritical blocks regulatory acceptance outright.
	SeverityCritical Severity = "critical"

	// SeverityHigh must be fixed before the document can pass review.
	SeverityHigh Severity = "high"

	// SeverityMedium should be fixed but does not fail the review.
	SeverityMedium Severity = "medium"

	// SeverityLow is a minor finding.
	SeverityLow Severity = "low"

	// SeverityInfo is informational only.
	SeverityInfo Severity = "info"
)

// Valid reports whether s is one of the known severity levels.
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo:
		return true
	}
	return false
}

// Requirement is one named rule a document must satisfy for a template.
type Requirement struct {
	// ID is the stable key used in validation results.
	ID string `yaml:"id" json:"id"`

	// Title is the human-readable section name.
	Title string `yaml:"title" json:"title"`

	// Description explains what the requirement checks.
	Description string `yaml:"description" json:"description"`

	// Required marks the requirement as mandatory for compliance.
	Required bool `yaml:"required" json:"required"`

	// Patterns is the ordered list of regular expressions whose matches
	// count as evidence for this requirement.
	Patterns []string `yaml:"patterns" json:"patterns"`

	// ValidationRules names additional checks evaluated beyond pattern
	// presence (e.g. "must_contain_company_name").
	ValidationRules []string `yaml:"validation_rules" json:"validation_rules,omitempty"`

	// Severity is the severity of the issue emitted when a mandatory
	// requirement is missing.
	Severity Severity `yaml:"severity" json:"severity"`

	// RegulationReference cites the regulation clause behind the
	// requirement (free text).
	RegulationReference string `yaml:"regulation_reference" json:"regulation_reference,omitempty"`

	// Examples holds sample wording used to build suggestions.
	Examples []string `yaml:"examples" json:"examples,omitempty"`
}

// Template is an ordered set of requirements representing one regulatory
// document type.
type Template struct {
	// Name is the registry key (e.g. "eu_doc").
	Name string `yaml:"name" json:"name"`

	// DisplayName is the human-readable template title.
	DisplayName string `yaml:"display_name" json:"display_name"`

	// Version identifies the template revision.
	Version string `yaml:"version" json:"version"`

	// ApplicableRegulations lists the regulations the template covers.
	ApplicableRegulations []string `yaml:"applicable_regulations" json:"applicable_regulations,omitempty"`

	// Requirements is evaluated in order.
	Requirements []Requirement `yaml:"requirements" json:"requirements"`
}

// TemplateInfo is a summary of a registered template.
type TemplateInfo struct {
	Name                  string   `json:"name"`
	DisplayName           string   `json:"display_name"`
	Version               string   `json:"version"`
	ApplicableRegulations []string `json:"applicable_regulations,omitempty"`
	RequirementCount      int      `json:"requirement_count"`
	RequiredSections      []string `json:"required_sections"`
	OptionalSections      []string `json:"optional_sections"`
}

// Info builds the summary view of the template.
func (t *Template) Info() TemplateInfo {
	info := TemplateInfo{
		Name:                  t.Name,
		DisplayName:           t.DisplayName,
		Version:               t.Version,
		ApplicableRegulations: append([]string(nil), t.ApplicableRegulations...),
		RequirementCount:      len(t.Requirements),
	}
	for _, req := range t.Requirements {
		if req.Required {
			info.RequiredSections = append(info.RequiredSections, req.Title)
		} else {
			info.OptionalSections = append(info.OptionalSections, req.Title)
		}
	}
	return info
}
