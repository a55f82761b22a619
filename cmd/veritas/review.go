package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"veritas-hq/saturn/pkg/analyzer"
	"veritas-hq/saturn/pkg/catalog"
	"veritas-hq/saturn/pkg/compliance"
	"veritas-hq/saturn/pkg/config"
	"veritas-hq/saturn/pkg/export"
	"veritas-hq/saturn/pkg/review"
)

var reviewFlags struct {
	template string
	kind     string
	priority string
	format   string
	output   string
	timeout  int
}

var reviewCmd = &cobra.Command{
	Use:   "review <document>",
	Short: "Review a single document and print the report",
	Long: `Review a single document against a compliance template and print the
resulting report.

The document is analyzed, validated against the selected template, and
scored. The command exits non-zero when the review does not complete
successfully.

Examples:
  # Review with the default EU DoC template
  veritas review declaration.txt

  # Review with a specific template and pretty JSON output
  veritas review declaration.txt --template eu_doc --format json

  # Write the report to a file
  veritas review declaration.txt --output report.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)

	reviewCmd.Flags().StringVarP(&reviewFlags.template, "template", "t", "", "template name (default from config)")
	reviewCmd.Flags().StringVar(&reviewFlags.kind, "type", string(review.TypeEUDocValidation), "review type (eu_doc_validation, template_compliance, full_analysis)")
	reviewCmd.Flags().StringVar(&reviewFlags.priority, "priority", string(review.PriorityNormal), "review priority (urgent, high, normal, low)")
	reviewCmd.Flags().StringVarP(&reviewFlags.format, "format", "f", "text", "output format (text, json)")
	reviewCmd.Flags().StringVarP(&reviewFlags.output, "output", "o", "", "write the report to a file instead of stdout")
	reviewCmd.Flags().IntVar(&reviewFlags.timeout, "timeout", 0, "review timeout in seconds (default from config)")
}

func runReview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	slog.SetDefault(logger)

	_, engine, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}

	exporter, err := selectExporter(reviewFlags.format)
	if err != nil {
		return err
	}

	id, err := engine.Submit(review.ReviewRequest{
		DocumentPath:   args[0],
		ReviewType:     review.ReviewType(reviewFlags.kind),
		TemplateName:   reviewFlags.template,
		Priority:       review.ReviewPriority(reviewFlags.priority),
		TimeoutSeconds: reviewFlags.timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to submit review: %w", err)
	}

	result, err := engine.ProcessOne(id)
	if err != nil {
		return fmt.Errorf("review failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if reviewFlags.output != "" {
		f, err := os.Create(reviewFlags.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := exporter.Export(out, result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if result.Status != review.StatusCompleted {
		return fmt.Errorf("review %s: %s", result.Status, result.ErrorMessage)
	}
	return nil
}

// buildEngine wires the registry, analyzer, compliance engine and
// review engine from config.
func buildEngine(cfg *config.Config, logger *slog.Logger) (*catalog.Registry, *review.Engine, error) {
	registry := catalog.NewRegistry()
	if cfg.Catalog.TemplateDir != "" {
		n, err := registry.RegisterDir(cfg.Catalog.TemplateDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load templates from %s: %w", cfg.Catalog.TemplateDir, err)
		}
		logger.Debug("registered templates from directory",
			"dir", cfg.Catalog.TemplateDir,
			"count", n,
		)
	}

	complianceCfg := compliance.DefaultConfig()
	complianceCfg.CaseSensitive = cfg.Compliance.CaseSensitive
	if cfg.Compliance.MinConfidenceThreshold > 0 {
		complianceCfg.MinConfidenceThreshold = cfg.Compliance.MinConfidenceThreshold
	}
	validator := compliance.NewEngine(registry, complianceCfg, logger)

	textAnalyzer := analyzer.NewTextAnalyzer(logger)

	engine := review.NewEngine(textAnalyzer, validator, review.Options{
		MaxConcurrentReviews:  cfg.Review.MaxConcurrentReviews,
		DefaultTimeoutSeconds: cfg.Review.DefaultTimeoutSeconds,
		PollInterval:          cfg.Review.PollInterval,
		HistoryRetention:      time.Duration(cfg.Review.HistoryRetentionHours) * time.Hour,
		MaxHistoryEntries:     cfg.Review.MaxHistoryEntries,
		PruneSchedule:         cfg.Review.PruneSchedule,
	}, logger)

	return registry, engine, nil
}

func selectExporter(format string) (review.Exporter, error) {
	switch format {
	case "json":
		return &export.JSONExporter{Pretty: true}, nil
	case "text":
		return &export.TextExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
