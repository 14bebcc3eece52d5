package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/starfolk/internal/logging"
	"github.com/jask/starfolk/internal/server"
	"github.com/jask/starfolk/internal/store"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := logging.New("", cfg.Log.Level, debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if err := os.MkdirAll(filepath.Dir(cfg.Server.DatabasePath), 0o755); err != nil {
		return fmt.Errorf("mkdir db dir: %w", err)
	}
	st, err := store.Open(cfg.Server.DatabasePath, logger.Named("store"))
	if err != nil {
		return err
	}
	defer st.Close()

	srv, err := server.New(server.Config{
		Addr:     cfg.Server.Addr,
		SeedPath: cfg.Server.DataPath,
		Watch:    cfg.Server.Watch,
	}, st, logger.Named("server"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// a bad seed is reported but the server still starts with what it has
	if _, err := srv.Reload(ctx); err != nil {
		logger.Error("failed to load data", zap.String("path", cfg.Server.DataPath), zap.Error(err))
	}
	return srv.ListenAndServe(ctx)
}
