package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/reeltalk/reeltalk/internal/config"
	"github.com/reeltalk/reeltalk/internal/db"
	"github.com/reeltalk/reeltalk/internal/llm"
	"github.com/reeltalk/reeltalk/internal/metrics"
	"github.com/reeltalk/reeltalk/internal/server"
	"github.com/reeltalk/reeltalk/internal/session"
	"github.com/reeltalk/reeltalk/internal/workflow"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the reeltalk API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer cleanup()

	gdb, err := db.Connect(cfg.DatabasePath)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gdb); err != nil {
		return err
	}

	model, err := llm.NewModel(cfg)
	if err != nil {
		return fmt.Errorf("create model: %w", err)
	}
	logger.Info("model initialized", "provider", cfg.LLMProvider, "model", model.Model())

	collector := metrics.NewCollector()
	wf, err := workflow.New(model.LLM(), model, gdb, logger, collector)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	srv := server.New(addr, session.NewStore(), wf, collector, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
