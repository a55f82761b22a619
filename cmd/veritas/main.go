// Veritas reviews regulatory documents against structured compliance
// templates, scoring EU Declarations of Conformity and similar
// documents for completeness.
//
// Usage:
//
//	# Review a document against the built-in EU DoC template
//	veritas review declaration.txt
//
//	# Review with a specific template and JSON output
//	veritas review declaration.txt --template eu_doc --format json
//
//	# List registered templates
//	veritas templates
//
//	# Run the long-lived review service
//	veritas serve --config /etc/veritas/config.yaml
//
//	# Show version information
//	veritas version
package main

func main() {
	Execute()
}
