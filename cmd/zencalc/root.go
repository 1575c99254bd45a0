package main

import (
	"context"
	"fmt"
	"time"

	"zencalc/internal/config"
	"zencalc/internal/observability"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	cfgFile string
	cfg     config.Config

	telemetryShutdown observability.ShutdownFunc
)

// flagKeys binds CLI flags to config keys; flags a command does not define are skipped.
var flagKeys = map[string]string{
	"log-level": "log.level",
	"history":   "history.path",
	"addr":      "server.addr",
	"model":     "assistant.model",
}

var rootCmd = &cobra.Command{
	Use:   "zencalc",
	Short: "A keypad calculator with a calculation history and an AI math solver",
	Long: `zencalc runs the calculator keypad state machine from the command line or
behind an HTTP API, keeps the last 50 calculations, and answers free-text
math questions through Gemini.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./zencalc.yaml or ~/.config/zencalc/zencalc.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("history", "", "history snapshot file; an empty value keeps history in memory")
}

func setup(cmd *cobra.Command, args []string) error {
	if err := loadDotEnv(); err != nil {
		return err
	}

	v := config.New(cfgFile)
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || !f.Changed || bindErr != nil {
			return
		}
		bindErr = v.BindPFlag(key, f)
	})
	if bindErr != nil {
		return fmt.Errorf("bind flags: %w", bindErr)
	}

	var err error
	cfg, err = config.Decode(v)
	if err != nil {
		return err
	}

	if err := observability.InitLogger(cfg.Log.Level); err != nil {
		return err
	}

	telemetryShutdown, err = initTelemetry(cmd.Context(), cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}

	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	defer observability.SyncLogger()

	if telemetryShutdown == nil {
		return nil
	}
	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return telemetryShutdown(ctx)
}
