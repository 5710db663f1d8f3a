package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/xiaot623/gogo/relay/internal/adapter/llm"
	"github.com/xiaot623/gogo/relay/internal/config"
	"github.com/xiaot623/gogo/relay/internal/policy"
	"github.com/xiaot623/gogo/relay/internal/service"
	"github.com/xiaot623/gogo/relay/internal/store"
	"github.com/xiaot623/gogo/relay/internal/tools"
)

// Version is set at build time.
var Version = "0.1.0"

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "relay",
		Short: "Streaming chat relay",
		Long: `Relay accepts WebSocket chat clients, streams each turn through an
OpenAI-compatible model with local tool execution, records every session
event, and summarizes sessions after the client leaves.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	rootCmd.AddCommand(newServeCmd(&configPath), newSummarizeCmd(&configPath))
	return rootCmd
}

// app holds the components shared by every command.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   store.Store
	service *service.Service

	closeLog func() error
}

func newApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, closeLog := config.SetupLogger(cfg.LogFile, config.ParseLogLevel(cfg.LogLevel))
	slog.SetDefault(logger)

	db, err := store.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	engine, err := policy.LoadEngine(ctx, cfg.ToolPolicyFile)
	if err != nil {
		_ = db.Close()
		_ = closeLog()
		return nil, fmt.Errorf("failed to load tool policy: %w", err)
	}

	registry := tools.NewDefaultRegistry()
	model := llm.NewClient(cfg.Mode, llm.Config{
		BaseURL:          cfg.LLMBaseURL,
		APIKey:           cfg.LLMAPIKey,
		Model:            cfg.LLMModel,
		Timeout:          cfg.LLMTimeout,
		SummaryMaxTokens: cfg.SummaryMaxTokens,
	}, registry.Definitions(), logger)

	if cfg.Mode != llm.ModeMock && cfg.LLMAPIKey == "" {
		logger.Warn("no model API key configured, upstream requests will fail")
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    db,
		service:  service.New(db, model, registry, engine, logger),
		closeLog: closeLog,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close store", "error", err)
	}
	_ = a.closeLog()
}
