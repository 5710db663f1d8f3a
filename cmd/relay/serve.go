package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/xiaot623/gogo/relay/internal/jobs"
	transporthttp "github.com/xiaot623/gogo/relay/internal/transport/http"
	"github.com/xiaot623/gogo/relay/internal/transport/ws"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the relay server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath)
		},
	}
}

func runServe(ctx context.Context, configPath string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.Close()
	cfg, logger := a.cfg, a.logger

	hub := ws.NewHub()
	runner := jobs.NewRunner(logger)
	wsServer := ws.NewServer(cfg, hub, a.service, runner, logger)
	e := transporthttp.NewServer(transporthttp.NewHandler(a.service, hub), wsServer, cfg.StaticDir, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		logger.Info("relay listening", "addr", addr, "driver", cfg.DatabaseDriver, "model", cfg.LLMModel, "mode", cfg.Mode)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down relay")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		err := e.Shutdown(shutdownCtx)
		// Hijacked sockets are not closed by the HTTP server.
		hub.CloseAll()
		if werr := hub.Wait(shutdownCtx); werr != nil {
			logger.Warn("connections still open at shutdown", "connections", hub.Count(), "error", werr)
		}
		if jerr := runner.Shutdown(shutdownCtx); jerr != nil {
			logger.Warn("background jobs did not finish", "error", jerr)
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("relay stopped")
	return nil
}
