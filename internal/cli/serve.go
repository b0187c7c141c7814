package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"design-exporter/internal/common/config"
	"design-exporter/internal/common/health"
	"design-exporter/internal/common/logger"
	"design-exporter/internal/common/middleware"
	"design-exporter/internal/exporter/archive"
	"design-exporter/internal/exporter/capture"
	"design-exporter/internal/exporter/codegen"
	"design-exporter/internal/exporter/handlers"
	"design-exporter/internal/exporter/inference"
	"design-exporter/internal/exporter/pipeline"
	"design-exporter/internal/exporter/snapshot"
	"design-exporter/internal/exporter/store"
	"design-exporter/internal/exporter/template"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/spf13/cobra"
)

// ============================================================
// Export Service
// ============================================================

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the export HTTP service",
		Example: `  # Start with defaults (port 3003, data/db/design.db)
  exporter serve

  # Override the port
  exporter serve --port 8080`,
		RunE: runServe,
	}
	cmd.Flags().StringP("port", "p", "", "port to listen on (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := configFrom(cmd)
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Port = port
	}

	db, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open design store: %w", err)
	}
	defer db.Close()

	designs := store.NewSQLiteStore(db)
	if err := designs.Init(cmd.Context()); err != nil {
		return fmt.Errorf("init design store: %w", err)
	}

	runs := pipeline.NewRegistry()
	sweeper, err := runs.StartSweeper(cfg.Runs.SweepSchedule, cfg.Runs.Retention)
	if err != nil {
		return fmt.Errorf("schedule run sweep: %w", err)
	}
	defer sweeper.Stop()

	app := NewApp(cfg, designs, runs)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		logger.Info().Str("addr", addr).Str("env", cfg.Environment).Msg("Starting Export Service")
		errCh <- app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down Export Service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}

// NewApp собирает Fiber-приложение сервиса поверх хранилища дизайна.
func NewApp(cfg *config.Config, designs store.Store, runs *pipeline.Registry) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Export Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	// ============================================================
	// Health Check Routes
	// ============================================================

	health.Register(app, map[string]health.Checker{
		"design_store": designs.Ping,
	})

	// ============================================================
	// Export Routes
	// ============================================================

	extractor := snapshot.NewExtractor(designs)
	packager := archive.NewPackager()

	ai := pipeline.NewAIPipeline(
		extractor,
		capture.NewService(cfg.Capture.Supersample),
		inference.NewClient(inference.NewGeminiModel(cfg.Inference.Model)),
		codegen.NewClient(codegen.NewOpenAIModel(cfg.Codegen.Model), cfg.Codegen.Temperature),
		packager,
	)
	tmpl := pipeline.NewTemplateRunner(extractor, template.NewCompiler(), packager)

	api := app.Group("/api/v1")
	handlers.Register(api, handlers.NewExportHandler(ai, tmpl, runs), handlers.NewDesignHandler(designs, extractor))

	return app
}
