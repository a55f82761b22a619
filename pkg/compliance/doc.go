// Package compliance evaluates extracted document text against a
// compliance template, producing per-requirement status, match evidence,
// issues, and a composite score.
//
// # Evaluation
//
// For each requirement in catalog order the engine searches the text
// with the requirement's patterns, scores each match with a confidence
// heuristic, filters matches below the configured threshold, derives the
// requirement status from distinct-pattern coverage, and runs the
// requirement's named validation rules. Pattern and rule failures are
// downgraded to diagnostic issues so evaluation always completes with a
// partial result; the only hard failure is an unknown template name.
//
// # Scoring
//
// Compliance percentage weights SATISFIED requirements at 1.0 and
// PARTIALLY_SATISFIED at 0.5. The overall score subtracts severity
// penalties (critical 20, high 10, medium 5, low 2) and is clamped to
// [0, 100]. A result is successful when no issue is critical or high.
package compliance
