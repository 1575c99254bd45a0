package calculator

// Operator is a pending binary operation. The zero value means none is pending.
type Operator string

const (
	OpNone     Operator = ""
	OpAdd      Operator = "+"
	OpSubtract Operator = "-"
	OpMultiply Operator = "*"
	OpDivide   Operator = "/"
)

// ParseOperator maps a keypad symbol to an Operator.
func ParseOperator(s string) (Operator, bool) {
	switch op := Operator(s); op {
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
		return op, true
	default:
		return OpNone, false
	}
}

// Name is the metric/log friendly name of the operator.
func (o Operator) Name() string {
	switch o {
	case OpAdd:
		return "add"
	case OpSubtract:
		return "subtract"
	case OpMultiply:
		return "multiply"
	case OpDivide:
		return "divide"
	default:
		return "none"
	}
}

// Kind identifies a keypad action.
type Kind string

const (
	KindDigit      Kind = "DIGIT"
	KindOperator   Kind = "OPERATOR"
	KindEquals     Kind = "EQUALS"
	KindClear      Kind = "CLEAR"
	KindDelete     Kind = "DELETE"
	KindPercent    Kind = "PERCENT"
	KindToggleSign Kind = "TOGGLE_SIGN"
)

// Valid reports whether k is one of the known action kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindDigit, KindOperator, KindEquals, KindClear, KindDelete, KindPercent, KindToggleSign:
		return true
	}
	return false
}

// Action is a single keypad input. Value carries the digit for DIGIT and the
// operator symbol for OPERATOR; it is ignored otherwise.
type Action struct {
	Kind  Kind   `json:"kind"`
	Value string `json:"value,omitempty"`
}

func Digit(d string) Action { return Action{Kind: KindDigit, Value: d} }
func Operate(op Operator) Action { return Action{Kind: KindOperator, Value: string(op)} }
func Equals() Action { return Action{Kind: KindEquals} }
func Clear() Action { return Action{Kind: KindClear} }
func Delete() Action { return Action{Kind: KindDelete} }
func Percent() Action { return Action{Kind: KindPercent} }
func ToggleSign() Action { return Action{Kind: KindToggleSign} }

// State is the whole calculator. It is a value: Apply never mutates its input.
//
// Operator is OpNone exactly when Previous is empty.
type State struct {
	Current   string   `json:"current_value"`
	Previous  string   `json:"previous_value"`
	Operator  Operator `json:"operator"`
	Overwrite bool     `json:"overwrite"`
}

// Initial returns the power-on state.
func Initial() State {
	return State{Current: "0"}
}

// Pending reports whether a binary operation is waiting for its right operand.
func (s State) Pending() bool {
	return s.Previous != "" && s.Operator != OpNone
}

// Expression renders the pending left operand and operator, e.g. "1,200 +".
// It is empty when nothing is pending.
func (s State) Expression() string {
	if s.Previous == "" {
		return ""
	}
	return Display(s.Previous) + " " + string(s.Operator)
}
