package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear the calculation history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved calculations, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every saved calculation",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.AddCommand(historyListCmd, historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cfg.History)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	calcs := store.List()
	if len(calcs) == 0 {
		fmt.Fprintln(out, "No calculations yet.")
		return nil
	}

	for _, c := range calcs {
		fmt.Fprintf(out, "%s  %s = %s\n", c.Timestamp.Local().Format(time.Kitchen), c.Expression, c.Result)
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cfg.History)
	if err != nil {
		return err
	}

	if err := store.Clear(); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
	return nil
}
