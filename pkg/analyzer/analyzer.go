package analyzer

import "context"

// Analyzer turns a document file into text and structural metadata.
type Analyzer interface {
	// Analyze extracts content from the document at path. A result with
	// Success=false reports extraction problems in Errors; a non-nil
	// error means no analysis happened at all.
	Analyze(ctx context.Context, path string) (*AnalysisResult, error)
}

// Metadata holds document-level statistics gathered during analysis.
type Metadata struct {
	FileSize       int64  `json:"file_size"`
	WordCount      int    `json:"word_count"`
	CharacterCount int    `json:"character_count"`
	Language       string `json:"language"`
}

// Structure summarizes the shape of the extracted text.
type Structure struct {
	TotalLines       int      `json:"total_lines"`
	NonEmptyLines    int      `json:"non_empty_lines"`
	Paragraphs       int      `json:"paragraphs"`
	PotentialHeaders int      `json:"potential_headers"`
	PotentialLists   int      `json:"potential_lists"`
	HasTables        bool     `json:"has_tables"`
	KeyPhrases       []string `json:"key_phrases,omitempty"`
}

// AnalysisResult is the outcome of analyzing one document.
type AnalysisResult struct {
	DocumentPath          string    `json:"document_path"`
	Text                  string    `json:"-"`
	Metadata              Metadata  `json:"metadata"`
	Structure             Structure `json:"structure"`
	Errors                []string  `json:"errors,omitempty"`
	ProcessingTimeSeconds float64   `json:"processing_time_seconds"`
	Success               bool      `json:"success"`
}
