package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/starfolk/internal/catalog/httpclient"
	"github.com/jask/starfolk/internal/location"
	"github.com/jask/starfolk/internal/logging"
	"github.com/jask/starfolk/internal/ui"
)

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// the terminal belongs to the UI, so logs go to a file
	logger, err := logging.New(cfg.Log.Path, cfg.Log.Level, debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	client, err := httpclient.New(cfg.API.BaseURL, httpclient.Options{
		Timeout:       cfg.API.Timeout,
		RatePerSecond: cfg.API.RatePerSecond,
		Burst:         cfg.API.Burst,
		Logger:        logger.Named("httpclient"),
	})
	if err != nil {
		return fmt.Errorf("api client: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	logger.Info("starting", zap.String("api", cfg.API.BaseURL), zap.String("route", cfg.UI.StartRoute))
	app := ui.New(ctx, ui.Deps{
		Gateway:         client,
		Location:        location.New(cfg.UI.StartRoute),
		Logger:          logger,
		AbortSuperseded: cfg.UI.AbortSuperseded,
		ProfileStyle:    cfg.UI.ProfileStyle,
	})
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
