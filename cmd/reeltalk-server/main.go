// Package main provides the standalone reeltalk API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/reeltalk/reeltalk/internal/config"
	"github.com/reeltalk/reeltalk/internal/db"
	"github.com/reeltalk/reeltalk/internal/llm"
	"github.com/reeltalk/reeltalk/internal/metrics"
	"github.com/reeltalk/reeltalk/internal/server"
	"github.com/reeltalk/reeltalk/internal/session"
	"github.com/reeltalk/reeltalk/internal/workflow"
)

func main() {
	// Parse flags
	port := flag.Int("port", 0, "listen port (overrides REELTALK_PORT)")
	dbPath := flag.String("db", "", "sqlite database path (overrides REELTALK_DB_PATH)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	// Initialize logging
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer cleanup()

	logger.Info("starting reeltalk-server", "host", cfg.Host, "port", cfg.Port)

	gdb, err := db.Connect(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	model, err := llm.NewModel(cfg)
	if err != nil {
		logger.Error("failed to create model", "provider", cfg.LLMProvider, "error", err)
		os.Exit(1)
	}
	logger.Info("model initialized", "provider", cfg.LLMProvider, "model", model.Model())

	collector := metrics.NewCollector()
	wf, err := workflow.New(model.LLM(), model, gdb, logger, collector)
	if err != nil {
		logger.Error("failed to build workflow", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	srv := server.New(addr, session.NewStore(), wf, collector, logger)

	// Wait for interrupt signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("API available", "url", fmt.Sprintf("http://%s/api/v1", addr))

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
