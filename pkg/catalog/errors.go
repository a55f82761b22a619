package catalog

import "fmt"

// UnknownTemplateError indicates a template name that is not registered.
type UnknownTemplateError struct {
	Name string
}

// Error returns the error message.
func (e *UnknownTemplateError) Error() string {
	return fmt.Sprintf("unknown template: %q", e.Name)
}

// InvalidTemplateError indicates a template that failed load-time
// validation. Violations lists every problem found, not just the first.
type InvalidTemplateError struct {
	Name       string
	Violations []string
}

// Error returns the error message.
func (e *InvalidTemplateError) Error() string {
	if len(e.Violations) == 1 {
		return fmt.Sprintf("invalid template %q: %s", e.Name, e.Violations[0])
	}
	return fmt.Sprintf("invalid template %q: %d violations: %v", e.Name, len(e.Violations), e.Violations)
}

// LoadError indicates a template file that could not be read or parsed.
type LoadError struct {
	Path  string
	Cause error
}

// Error returns the error message.
func (e *LoadError) Error() string {
	return fmt.Sprintf("template load failed for %q: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Cause
}
