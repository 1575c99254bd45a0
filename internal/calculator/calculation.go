package calculator

import (
	"time"

	"github.com/google/uuid"
)

// Calculation is an immutable history record of one EQUALS.
type Calculation struct {
	ID         string    `json:"id"`
	Expression string    `json:"expression"`
	Result     string    `json:"result"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewCalculation stamps a completion with a fresh id and the current time.
func NewCalculation(c Completion) Calculation {
	return Calculation{
		ID:         uuid.NewString(),
		Expression: c.Expression,
		Result:     c.Result,
		Timestamp:  time.Now().UTC(),
	}
}
