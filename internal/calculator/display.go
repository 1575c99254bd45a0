package calculator

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var displayPrinter = message.NewPrinter(language.English)

// Display formats a display value for people: the integer part is grouped
// in thousands and the fraction is kept as typed, so a trailing "." or
// trailing zeros survive while a number is being entered.
func Display(v string) string {
	if v == "" {
		return "0"
	}

	intPart, frac, hasDot := strings.Cut(v, ".")

	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign, intPart = "-", intPart[1:]
	}

	grouped := intPart
	if intPart == "" {
		grouped = "0"
	} else if n, err := strconv.ParseUint(intPart, 10, 64); err == nil {
		grouped = displayPrinter.Sprintf("%d", n)
	}

	if hasDot {
		return sign + grouped + "." + frac
	}
	return sign + grouped
}
