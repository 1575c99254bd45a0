package main

import (
	"context"

	"zencalc/internal/assistant"
	"zencalc/internal/calculator"
	"zencalc/internal/config"
	"zencalc/internal/history"
	"zencalc/internal/observability"

	"go.uber.org/zap"
)

// initTelemetry starts OTLP export when enabled and registers every domain's
// metric instruments. Add new domain InitMetrics calls here as the project grows.
func initTelemetry(ctx context.Context, cfg config.TelemetryConfig) (observability.ShutdownFunc, error) {
	shutdown := observability.ShutdownFunc(func(context.Context) error { return nil })

	if cfg.Enabled {
		var err error
		shutdown, err = observability.InitTelemetry(ctx, observability.ServiceName(cfg.ServiceName))
		if err != nil {
			return nil, err
		}
	}

	for _, initMetrics := range []func() error{
		calculator.InitMetrics,
		history.InitMetrics,
		assistant.InitMetrics,
	} {
		if err := initMetrics(); err != nil {
			_ = shutdown(ctx)
			return nil, err
		}
	}

	return shutdown, nil
}

// openHistory returns the file-backed log when a path is configured and an
// in-memory one otherwise.
func openHistory(cfg config.HistoryConfig) (history.Store, error) {
	if cfg.Path == "" {
		return history.NewLog(cfg.MaxEntries), nil
	}
	return history.Open(cfg.Path, cfg.MaxEntries)
}

// newSolver builds the Gemini solver, or an offline one that always answers
// with the fallback when no key is set or the client cannot be created.
func newSolver(ctx context.Context, cfg config.AssistantConfig) assistant.Solver {
	if cfg.APIKey == "" {
		observability.Logger.Warn("no Gemini API key configured; assistant is offline")
		return assistant.Offline{Reason: "no API key configured"}
	}

	solver, err := assistant.NewGemini(ctx, cfg.APIKey, cfg.Options())
	if err != nil {
		observability.Logger.Error("creating Gemini client", zap.Error(err))
		return assistant.Offline{Reason: err.Error()}
	}
	return solver
}
