package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// templateFile is the on-disk shape of a template definition. One file
// holds exactly one template.
type templateFile struct {
	Template Template `yaml:"template"`
}

// LoadFile reads and validates a single template definition from a YAML
// file.
func LoadFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Cause: err}
	}

	var file templateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &LoadError{Path: path, Cause: fmt.Errorf("yaml parse: %w", err)}
	}

	tpl := file.Template
	if err := ValidateTemplate(&tpl); err != nil {
		return nil, &LoadError{Path: path, Cause: err}
	}
	return &tpl, nil
}

// LoadDir loads every .yaml/.yml template file in dir, sorted by file
// name for deterministic registration order. A missing directory is not
// an error: deployments without extra templates run on built-ins only.
func LoadDir(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &LoadError{Path: dir, Cause: err}
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)

	templates := make([]*Template, 0, len(paths))
	for _, path := range paths {
		tpl, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	return templates, nil
}

// RegisterDir loads all templates from dir into the registry. Returns
// the number of templates registered.
func (r *Registry) RegisterDir(dir string) (int, error) {
	templates, err := LoadDir(dir)
	if err != nil {
		return 0, err
	}
	for _, tpl := range templates {
		if err := r.Register(tpl); err != nil {
			return 0, err
		}
	}
	return len(templates), nil
}
