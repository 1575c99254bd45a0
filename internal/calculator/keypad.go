package calculator

import "strings"

// Completion is the side output of a successful EQUALS.
type Completion struct {
	Expression string
	Result     string
	Operator   Operator
	Fallback   Fallback
}

// Apply returns the state that follows s after action a. For an EQUALS that
// resolves a pending operation it also returns the completed calculation.
//
// Apply is total: actions that make no sense for s (unknown kinds, a second
// decimal point, EQUALS with nothing pending) return s unchanged.
func Apply(s State, a Action) (State, *Completion) {
	switch a.Kind {
	case KindDigit:
		return applyDigit(s, a.Value), nil
	case KindOperator:
		return applyOperator(s, a.Value), nil
	case KindEquals:
		return applyEquals(s)
	case KindClear:
		return Initial(), nil
	case KindDelete:
		return applyDelete(s), nil
	case KindPercent:
		return mapCurrent(s, func(v float64) float64 { return v / 100 }), nil
	case KindToggleSign:
		return mapCurrent(s, func(v float64) float64 { return v * -1 }), nil
	default:
		return s, nil
	}
}

// Recall puts a previously computed result on the display. The next digit
// starts a fresh entry; a pending operation is left alone.
func Recall(s State, result string) State {
	s.Current = result
	s.Overwrite = true
	return s
}

func isDigit(v string) bool {
	return len(v) == 1 && (v[0] == '.' || (v[0] >= '0' && v[0] <= '9'))
}

func applyDigit(s State, v string) State {
	if !isDigit(v) {
		return s
	}
	if v == "." && strings.Contains(s.Current, ".") {
		return s
	}

	switch {
	case s.Current == "0" && v != ".":
		s.Current = v
		s.Overwrite = false
	case s.Overwrite:
		s.Current = v
		s.Overwrite = false
	default:
		s.Current += v
	}
	return s
}

func applyOperator(s State, v string) State {
	op, ok := ParseOperator(v)
	if !ok {
		return s
	}

	if s.Pending() {
		s.Previous = Evaluate(s.Previous, s.Current, s.Operator)
	} else {
		s.Previous = s.Current
	}
	s.Current = "0"
	s.Operator = op
	s.Overwrite = true
	return s
}

func applyEquals(s State) (State, *Completion) {
	if !s.Pending() {
		return s, nil
	}

	result, fallback := evaluate(s.Previous, s.Current, s.Operator)
	done := &Completion{
		Expression: s.Previous + " " + string(s.Operator) + " " + s.Current,
		Result:     result,
		Operator:   s.Operator,
		Fallback:   fallback,
	}

	return State{
		Current:   result,
		Previous:  "",
		Operator:  OpNone,
		Overwrite: true,
	}, done
}

func applyDelete(s State) State {
	switch {
	case s.Overwrite:
		s.Current = "0"
		s.Overwrite = false
	case len(s.Current) <= 1:
		s.Current = "0"
	default:
		s.Current = s.Current[:len(s.Current)-1]
	}
	return s
}

// mapCurrent replaces the display with f(current). A display that does not
// hold a finite number is left as it is.
func mapCurrent(s State, f func(float64) float64) State {
	v, ok := parseOperand(s.Current)
	if !ok {
		return s
	}
	s.Current = formatValue(f(v))
	return s
}
