package analyzer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestAnalyzer() *TextAnalyzer {
	return NewTextAnalyzer(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeDocument(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	return path
}

func TestTextAnalyzer_Analyze(t *testing.T) {
	content := "EU DECLARATION OF CONFORMITY\n\n" +
		"We hereby declare that the medical device conforms to\n" +
		"Regulation (EU) 2017/745. The CE marking has been affixed.\n\n" +
		"- EN ISO 14971:2019\n" +
		"- EN ISO 10993-1:2018\n"
	path := writeDocument(t, "doc.txt", content)

	result, err := newTestAnalyzer().Analyze(context.Background(), path)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if !result.Success {
		t.Fatalf("Success = false, errors: %v", result.Errors)
	}
	if result.Text == "" {
		t.Error("Text is empty")
	}
	if result.Metadata.WordCount == 0 || result.Metadata.CharacterCount == 0 {
		t.Errorf("Metadata counts = %+v, want non-zero", result.Metadata)
	}
	if result.Metadata.Language != "en" {
		t.Errorf("Language = %q, want en", result.Metadata.Language)
	}
	if result.Structure.PotentialLists != 2 {
		t.Errorf("PotentialLists = %d, want 2", result.Structure.PotentialLists)
	}
	if result.Structure.PotentialHeaders == 0 {
		t.Error("PotentialHeaders = 0, want at least the title line")
	}

	wantPhrases := []string{"declaration of conformity", "medical device", "regulation (eu)", "ce marking"}
	joined := strings.Join(result.Structure.KeyPhrases, "|")
	for _, phrase := range wantPhrases {
		if !strings.Contains(joined, phrase) {
			t.Errorf("KeyPhrases %v missing %q", result.Structure.KeyPhrases, phrase)
		}
	}
}

func TestTextAnalyzer_Analyze_Failures(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr string
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.txt") },
			wantErr: "document not found",
		},
		{
			name:    "unsupported format",
			path:    func(t *testing.T) string { return writeDocument(t, "doc.pdf", "%PDF-1.4") },
			wantErr: "unsupported document format",
		},
		{
			name:    "empty document",
			path:    func(t *testing.T) string { return writeDocument(t, "empty.txt", "  \n\n  ") },
			wantErr: "no text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := newTestAnalyzer().Analyze(context.Background(), tt.path(t))
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}
			if result.Success {
				t.Error("Success = true, want false")
			}
			found := false
			for _, msg := range result.Errors {
				if strings.Contains(msg, tt.wantErr) {
					found = true
				}
			}
			if !found {
				t.Errorf("Errors = %v, want one containing %q", result.Errors, tt.wantErr)
			}
		})
	}
}

func TestTextAnalyzer_Analyze_CancelledContext(t *testing.T) {
	path := writeDocument(t, "doc.txt", "content")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestAnalyzer().Analyze(ctx, path); err == nil {
		t.Fatal("Analyze() error = nil, want context error")
	}
}

func TestNormalizeText(t *testing.T) {
	in := "line one\r\nline two\x0c\n\n\n\nline three\x00\n"
	got := normalizeText(in)
	want := "line one\nline two\n\nline three"
	if got != want {
		t.Errorf("normalizeText() = %q, want %q", got, want)
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"english", "the device and the declaration of conformity", "en"},
		{"german", "die Erklärung und der Hersteller von dem Produkt", "de"},
		{"unknown", "lorem ipsum dolor sit amet", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectLanguage(tt.text); got != tt.want {
				t.Errorf("detectLanguage(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
