package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"zencalc/internal/assistant"
	"zencalc/internal/calculator"
	"zencalc/internal/history"
	"zencalc/internal/observability"
	"zencalc/internal/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calculator, history and assistant over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().String("model", "", "Gemini model for the assistant")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := openHistory(cfg.History)
	if err != nil {
		return err
	}
	if err := history.RegisterMetrics(prometheus.DefaultRegisterer, store); err != nil {
		return err
	}

	sessions := calculator.NewSessions(cfg.Server.SessionTTL)
	service := assistant.NewService(newSolver(ctx, cfg.Assistant), cfg.Assistant.ConversationTTL)
	go pruneIdle(ctx, time.Minute, map[string]pruner{
		"sessions":      sessions,
		"conversations": service,
	})

	router := server.NewRouter(server.Deps{
		Sessions:  sessions,
		History:   store,
		Assistant: service,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		observability.Logger.Info("server started", zap.String("addr", cfg.Server.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", cfg.Server.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	return waitForShutdown(srv, cfg.Server.ShutdownTimeout)
}

func waitForShutdown(srv *http.Server, timeout time.Duration) error {
	observability.Logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return srv.Shutdown(ctx)
}

// pruner drops idle in-memory state and reports how much went.
type pruner interface {
	Prune() int
}

// pruneIdle prunes every target on each tick until ctx ends.
func pruneIdle(ctx context.Context, every time.Duration, targets map[string]pruner) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pruneOnce(targets)
		}
	}
}

func pruneOnce(targets map[string]pruner) {
	for name, p := range targets {
		if n := p.Prune(); n > 0 {
			observability.Logger.Debug("pruned idle state", zap.String("target", name), zap.Int("count", n))
		}
	}
}
