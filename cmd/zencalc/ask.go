package main

import (
	"fmt"
	"strings"

	"zencalc/internal/assistant"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the AI solver a math question in plain English",
	Example: `  zencalc ask "55 mph to km/h"
  zencalc ask split \$250 by 4 with 15% tip`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().String("model", "", "Gemini model to query")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	service := assistant.NewService(newSolver(ctx, cfg.Assistant), 0)

	ex, err := service.Ask(ctx, "", strings.Join(args, " "))
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), ex.Answer)
	return nil
}
