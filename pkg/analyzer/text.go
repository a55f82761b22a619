package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DefaultMaxFileSize bounds how much document text the analyzer will
// read, 50 MiB.
const DefaultMaxFileSize = 50 << 20

var textExtensions = map[string]bool{
	".txt":  true,
	".text": true,
	".md":   true,
}

var (
	listItemRe       = regexp.MustCompile(`^\s*[-*\x{2022}]\s+|^\s*\d+[.)]\s+`)
	excessNewlinesRe = regexp.MustCompile(`\n\s*\n\s*\n+`)

	// Phrases typical of declarations of conformity, collected to give
	// downstream consumers a quick signal about document intent.
	keyPhraseRes = []*regexp.Regexp{
		regexp.MustCompile(`declaration\s+of\s+conformity`),
		regexp.MustCompile(`ce\s+marking`),
		regexp.MustCompile(`medical\s+device`),
		regexp.MustCompile(`regulation\s+\(eu\)`),
		regexp.MustCompile(`harmonised\s+standard`),
		regexp.MustCompile(`conformity\s+assessment`),
		regexp.MustCompile(`authorized\s+representative`),
		regexp.MustCompile(`notified\s+body`),
	}
)

// TextAnalyzer reads plain-text documents from disk. Binary formats are
// rejected by extension; converting PDF or Word files to text is the
// caller's concern.
type TextAnalyzer struct {
	maxFileSize int64
	logger      *slog.Logger
}

// NewTextAnalyzer creates a plain-text analyzer with the default size
// limit.
func NewTextAnalyzer(logger *slog.Logger) *TextAnalyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &TextAnalyzer{
		maxFileSize: DefaultMaxFileSize,
		logger:      logger.With("component", "analyzer.text"),
	}
}

// Analyze reads and inspects the document at path.
func (a *TextAnalyzer) Analyze(ctx context.Context, path string) (*AnalysisResult, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &AnalysisResult{DocumentPath: path}

	fail := func(msg string) (*AnalysisResult, error) {
		result.Errors = append(result.Errors, msg)
		result.ProcessingTimeSeconds = time.Since(start).Seconds()
		a.logger.Warn("document analysis failed", "document", path, "error", msg)
		return result, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fail(fmt.Sprintf("document not found: %s", path))
		}
		return nil, fmt.Errorf("stat document: %w", err)
	}
	result.Metadata.FileSize = info.Size()

	if ext := strings.ToLower(filepath.Ext(path)); !textExtensions[ext] {
		return fail(fmt.Sprintf("unsupported document format: %s", ext))
	}
	if info.Size() > a.maxFileSize {
		return fail(fmt.Sprintf("file too large: %d bytes (max: %d)", info.Size(), a.maxFileSize))
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := normalizeText(string(raw))
	result.Text = text
	result.Metadata.WordCount = len(strings.Fields(text))
	result.Metadata.CharacterCount = len(text)
	result.Metadata.Language = detectLanguage(text)
	result.Structure = analyzeStructure(text)
	result.Success = len(text) > 0
	if !result.Success {
		result.Errors = append(result.Errors, "document contains no text")
	}
	result.ProcessingTimeSeconds = time.Since(start).Seconds()

	a.logger.Info("document analysis completed",
		"document", path,
		"words", result.Metadata.WordCount,
		"language", result.Metadata.Language,
		"success", result.Success,
	)

	return result, nil
}

// normalizeText cleans extraction artifacts while keeping line
// structure intact for downstream pattern matching.
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\x0c", "")
	text = strings.ReplaceAll(text, "\x00", "")
	text = excessNewlinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func analyzeStructure(text string) Structure {
	lines := strings.Split(text, "\n")

	s := Structure{TotalLines: len(lines)}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		s.NonEmptyLines++

		if len(line) > 50 {
			s.Paragraphs++
		}
		if len(line) < 100 && (line == strings.ToUpper(line) || isTitleCase(line)) {
			s.PotentialHeaders++
		}
		if listItemRe.MatchString(line) {
			s.PotentialLists++
		}
		if strings.ContainsAny(line, "|\t") {
			s.HasTables = true
		}
	}

	lower := strings.ToLower(text)
	for _, re := range keyPhraseRes {
		s.KeyPhrases = append(s.KeyPhrases, re.FindAllString(lower, -1)...)
	}

	return s
}

// isTitleCase reports whether every word of the line starts with an
// upper-case letter.
func isTitleCase(line string) bool {
	words := strings.Fields(line)
	if len(words) == 0 {
		return false
	}
	for _, word := range words {
		r := rune(word[0])
		if r >= 'a' && r <= 'z' {
			return false
		}
	}
	return true
}

// detectLanguage guesses between English and German from common
// function words. Anything else reports unknown.
func detectLanguage(text string) string {
	english := []string{" the ", " and ", " of ", " to ", " is ", " that "}
	german := []string{" der ", " die ", " und ", " den ", " von ", " das "}

	lower := " " + strings.ToLower(text) + " "

	englishCount := 0
	for _, word := range english {
		if strings.Contains(lower, word) {
			englishCount++
		}
	}
	germanCount := 0
	for _, word := range german {
		if strings.Contains(lower, word) {
			germanCount++
		}
	}

	switch {
	case englishCount > germanCount:
		return "en"
	case germanCount > 0:
		return "de"
	default:
		return "unknown"
	}
}
