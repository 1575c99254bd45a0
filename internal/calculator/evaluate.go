package calculator

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// resultPlaces is the number of decimal places a folded result is rounded to.
const resultPlaces = 10

// Fallback names the recovery applied while folding an operation, if any.
type Fallback string

const (
	FallbackNone           Fallback = ""
	FallbackDivideByZero   Fallback = "divide_by_zero"
	FallbackInvalidOperand Fallback = "invalid_operand"
	FallbackNonFinite      Fallback = "non_finite"
)

// Evaluate folds left op right into a display string.
//
// An operand that does not parse yields right unchanged. Dividing by zero
// yields "0". Results are rounded to 10 decimal places with trailing zeros
// stripped, so 0.1 + 0.2 is "0.3".
func Evaluate(left, right string, op Operator) string {
	result, _ := evaluate(left, right, op)
	return result
}

func evaluate(left, right string, op Operator) (string, Fallback) {
	l, ok := parseOperand(left)
	if !ok {
		return right, FallbackInvalidOperand
	}
	r, ok := parseOperand(right)
	if !ok {
		return right, FallbackInvalidOperand
	}

	var res float64
	switch op {
	case OpAdd:
		res = l + r
	case OpSubtract:
		res = l - r
	case OpMultiply:
		res = l * r
	case OpDivide:
		if r == 0 {
			return "0", FallbackDivideByZero
		}
		res = l / r
	default:
		return right, FallbackInvalidOperand
	}

	if math.IsInf(res, 0) || math.IsNaN(res) {
		return right, FallbackNonFinite
	}

	// Round the exact binary value, half away from zero. Going through the
	// shortest decimal form first would round twice.
	return decimal.NewFromFloatWithExponent(res, -resultPlaces).String(), FallbackNone
}

// parseOperand parses a display string as a finite decimal float64. Hex
// floats such as "0x1p4" are not operands.
func parseOperand(s string) (float64, bool) {
	if digits := strings.TrimLeft(s, "+-"); len(digits) > 1 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// formatValue re-stringifies a value without rounding, in its shortest
// round-trip form. Negative zero prints as "0".
func formatValue(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
