package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"veritas-hq/saturn/pkg/catalog"
	"veritas-hq/saturn/pkg/config"
	"veritas-hq/saturn/pkg/review"
	"veritas-hq/saturn/pkg/review/storage"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the review service",
	Long: `Run the long-lived review service with the configured worker pool.

The service processes submitted reviews concurrently in priority order,
keeps terminal results in a bounded history, and optionally archives
them to a persistent store. When metrics are enabled it exposes a
Prometheus /metrics endpoint.

Examples:
  # Run with default config
  veritas serve

  # Run with a custom config
  veritas serve --config /etc/veritas/config.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	slog.SetDefault(logger)

	fmt.Printf("Veritas v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)

	registry, engine, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Template catalog loaded (%d templates)\n", registry.Len())

	archive, err := buildArchive(cfg)
	if err != nil {
		return err
	}
	if archive != nil {
		engine.SetArchive(archive)
		fmt.Printf("✓ Result archive initialized (%s)\n", cfg.Review.Archive)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Catalog.Watch && cfg.Catalog.TemplateDir != "" {
		watcher := catalog.NewWatcher(registry, cfg.Catalog.TemplateDir, logger)
		go func() {
			if err := watcher.Watch(ctx); err != nil {
				slog.Warn("template watcher stopped", "error", err)
			}
		}()
		defer watcher.Stop()
		fmt.Printf("✓ Template watcher started on %s\n", cfg.Catalog.TemplateDir)
	}

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		engine.SetMetrics(review.NewMetrics(reg))

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		metricsServer = &http.Server{
			Addr:    cfg.Metrics.ListenAddress,
			Handler: mux,
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("metrics server failed", "error", err)
			}
		}()
		fmt.Printf("✓ Metrics endpoint: http://%s/metrics\n", cfg.Metrics.ListenAddress)
	}

	if err := engine.Start(); err != nil {
		return fmt.Errorf("failed to start review engine: %w", err)
	}
	fmt.Printf("✓ Review engine started (%d workers)\n", cfg.Review.MaxConcurrentReviews)
	fmt.Println("\nPress Ctrl+C to stop")

	<-ctx.Done()
	fmt.Println("\nShutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if err := engine.Shutdown(shutdownCtx); err != nil {
		slog.Error("engine shutdown failed", "error", err)
		return err
	}

	fmt.Println("✓ Review engine stopped")
	return nil
}

// buildArchive constructs the terminal-result archive backend named by
// config, or nil when archiving is disabled.
func buildArchive(cfg *config.Config) (review.ArchiveStore, error) {
	switch cfg.Review.Archive {
	case "", "none":
		return nil, nil
	case "memory":
		return storage.NewMemoryStore(), nil
	case "sqlite":
		store, err := storage.NewSQLiteStore(cfg.Review.ArchivePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open result archive: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported archive backend: %s", cfg.Review.Archive)
	}
}
