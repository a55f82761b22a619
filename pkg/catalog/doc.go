// Package catalog defines compliance templates and the requirements they
// contain, and provides a thread-safe registry for resolving templates by
// name at evaluation time.
//
// # Templates and Requirements
//
// A Template is an ordered set of Requirements describing one regulatory
// document type. Each Requirement carries text-match patterns, named
// validation rules, a severity, and example wording. Requirements are
// immutable once registered.
//
// # Built-in Templates
//
// The EU Declaration of Conformity template ships built in:
//
//	reg := catalog.NewRegistry()
//	tpl, err := reg.Get("eu_doc")
//
// # Template Files
//
// Additional templates are deployment artifacts: YAML files in a template
// directory, loaded with LoadDir and optionally hot-reloaded by Watcher
// when files change. Callers cannot mutate the catalog at request time.
package catalog
