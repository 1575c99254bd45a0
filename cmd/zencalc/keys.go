package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"zencalc/internal/calculator"
	"zencalc/internal/history"
	"zencalc/internal/observability"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var keysCmd = &cobra.Command{
	Use:   "keys [key...]",
	Short: "Press calculator keys and print the display",
	Long: `Applies keypad keys to a fresh calculator. Keys come from the arguments or,
without arguments, from stdin one line at a time. The display is printed after
each line and every completed calculation is saved to history.

Keys: 0-9 .  + - * /  =  C (clear)  DEL  %  +/- (toggle sign)`,
	Example: `  zencalc keys 2 + 3 x 4 =
  echo "0.1 + 0.2 =" | zencalc keys`,
	RunE: runKeys,
}

func init() {
	rootCmd.AddCommand(keysCmd)
}

func runKeys(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cfg.History)
	if err != nil {
		return err
	}

	if len(args) > 0 {
		_, err := pressKeys(calculator.Initial(), strings.Join(args, " "), store, cmd.OutOrStdout())
		return err
	}

	return pressLines(cmd.InOrStdin(), store, cmd.OutOrStdout())
}

// pressLines feeds stdin to the keypad line by line. A bad line is reported
// and skipped; the keypad keeps its state.
func pressLines(in io.Reader, store history.Store, out io.Writer) error {
	state := calculator.Initial()
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		next, err := pressKeys(state, scanner.Text(), store, out)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		state = next
	}

	return scanner.Err()
}

// pressKeys applies one line of keys, printing each completed calculation and
// then the display.
func pressKeys(state calculator.State, line string, store history.Store, out io.Writer) (calculator.State, error) {
	actions, err := calculator.ParseKeys(line)
	if err != nil {
		return state, err
	}

	for _, a := range actions {
		var done *calculator.Completion
		state, done = calculator.Apply(state, a)
		if done == nil {
			continue
		}

		calc := calculator.NewCalculation(*done)
		if err := store.Append(calc); err != nil {
			observability.Logger.Error("appending calculation to history", zap.Error(err))
		}
		fmt.Fprintf(out, "%s = %s\n", calc.Expression, calc.Result)
	}

	if expr := state.Expression(); expr != "" {
		fmt.Fprintf(out, "%s %s\n", expr, calculator.Display(state.Current))
	} else {
		fmt.Fprintln(out, calculator.Display(state.Current))
	}
	return state, nil
}
