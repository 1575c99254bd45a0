package calculator

import (
	"fmt"
	"strings"
)

// keyTokens maps keypad labels to actions. Digits are handled separately so
// "12.5" types four keys.
var keyTokens = map[string]Action{
	"+":   Operate(OpAdd),
	"-":   Operate(OpSubtract),
	"−":   Operate(OpSubtract),
	"*":   Operate(OpMultiply),
	"X":   Operate(OpMultiply),
	"×":   Operate(OpMultiply),
	"/":   Operate(OpDivide),
	"÷":   Operate(OpDivide),
	"=":   Equals(),
	"C":   Clear(),
	"AC":  Clear(),
	"DEL": Delete(),
	"⌫":   Delete(),
	"%":   Percent(),
	"+/-": ToggleSign(),
	"NEG": ToggleSign(),
}

// ParseKeys turns a line of whitespace separated keypad labels into actions,
// e.g. "12.5 + 3 =". Labels are case-insensitive.
func ParseKeys(line string) ([]Action, error) {
	var actions []Action

	for _, tok := range strings.Fields(line) {
		if a, ok := keyTokens[strings.ToUpper(tok)]; ok {
			actions = append(actions, a)
			continue
		}

		for _, r := range tok {
			d := string(r)
			if !isDigit(d) {
				return nil, fmt.Errorf("unknown key %q", tok)
			}
			actions = append(actions, Digit(d))
		}
	}

	return actions, nil
}
