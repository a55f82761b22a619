package catalog

import (
	"fmt"
	"regexp"
	"sort"
	"sync"
)

// Registry is a thread-safe, read-mostly store of compliance templates.
// Templates are registered at startup (built-ins plus template files);
// request-time callers only read.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewRegistry creates a registry preloaded with the built-in templates.
func NewRegistry() *Registry {
	r := &Registry{
		templates: make(map[string]*Template),
	}
	// Built-ins are defined in code and always valid.
	r.templates[EUDocTemplateName] = EUDocTemplate()
	return r
}

// NewEmptyRegistry creates a registry with no templates. Used in tests
// and by loaders that want full control over registration.
func NewEmptyRegistry() *Registry {
	return &Registry{templates: make(map[string]*Template)}
}

// Register validates and adds a template, replacing any template with
// the same name. Registration is a deployment-time operation.
func (r *Registry) Register(tpl *Template) error {
	if err := ValidateTemplate(tpl); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[tpl.Name] = tpl
	return nil
}

// Get resolves a template by name. Fails with *UnknownTemplateError when
// the name is not registered.
func (r *Registry) Get(name string) (*Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tpl, ok := r.templates[name]
	if !ok {
		return nil, &UnknownTemplateError{Name: name}
	}
	return tpl, nil
}

// Info returns the summary of a registered template.
func (r *Registry) Info(name string) (TemplateInfo, error) {
	tpl, err := r.Get(name)
	if err != nil {
		return TemplateInfo{}, err
	}
	return tpl.Info(), nil
}

// Names returns the registered template names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered templates.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.templates)
}

// ValidateTemplate checks a template for structural problems and returns
// an *InvalidTemplateError listing every violation found.
func ValidateTemplate(tpl *Template) error {
	if tpl == nil {
		return &InvalidTemplateError{Violations: []string{"template cannot be nil"}}
	}

	var violations []string
	if tpl.Name == "" {
		violations = append(violations, "template name cannot be empty")
	}
	if len(tpl.Requirements) == 0 {
		violations = append(violations, "template must declare at least one requirement")
	}

	seen := make(map[string]bool, len(tpl.Requirements))
	for i, req := range tpl.Requirements {
		prefix := "requirement " + req.ID
		if req.ID == "" {
			violations = append(violations, fmt.Sprintf("requirement #%d: id cannot be empty", i))
			continue
		}
		if seen[req.ID] {
			violations = append(violations, prefix+": duplicate id")
		}
		seen[req.ID] = true

		if req.Title == "" {
			violations = append(violations, prefix+": title cannot be empty")
		}
		if len(req.Patterns) == 0 {
			violations = append(violations, prefix+": must declare at least one pattern")
		}
		for _, pattern := range req.Patterns {
			if _, err := regexp.Compile(pattern); err != nil {
				violations = append(violations, prefix+": invalid pattern "+pattern)
			}
		}
		if !req.Severity.Valid() {
			violations = append(violations, prefix+": unknown severity "+string(req.Severity))
		}
	}

	if len(violations) > 0 {
		return &InvalidTemplateError{Name: tpl.Name, Violations: violations}
	}
	return nil
}
