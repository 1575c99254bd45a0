package calculator

// StateView is the JSON rendering of a keypad State.
type StateView struct {
	CurrentValue  string   `json:"current_value"`
	PreviousValue string   `json:"previous_value"`
	Operator      Operator `json:"operator"`
	Overwrite     bool     `json:"overwrite"`
	Display       string   `json:"display"`    // formatted current value
	Expression    string   `json:"expression"` // pending "left op", empty when idle
}

// NewStateView renders s for a response body.
func NewStateView(s State) StateView {
	return StateView{
		CurrentValue:  s.Current,
		PreviousValue: s.Previous,
		Operator:      s.Operator,
		Overwrite:     s.Overwrite,
		Display:       Display(s.Current),
		Expression:    s.Expression(),
	}
}

// SessionResponse is returned by every session endpoint.
type SessionResponse struct {
	SessionID   string       `json:"session_id"`
	State       StateView    `json:"state"`
	Calculation *Calculation `json:"calculation,omitempty"`
}

// RecallRequest is the JSON body for POST /calculator/sessions/{sessionID}/recall.
type RecallRequest struct {
	CalculationID string `json:"calculation_id"`
}

// EvaluateRequest is the JSON body for POST /calculator/evaluate.
type EvaluateRequest struct {
	Left     string `json:"left"`
	Right    string `json:"right"`
	Operator string `json:"operator"` // "+", "-", "*", "/"
}

// EvaluateResponse is the JSON response for POST /calculator/evaluate.
type EvaluateResponse struct {
	Expression string   `json:"expression"`
	Result     string   `json:"result"`
	Fallback   Fallback `json:"fallback,omitempty"`
}
