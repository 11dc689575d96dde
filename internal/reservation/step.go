// Package reservation runs the four-step booking wizard: customer details,
// table choice, optional pre-order, confirmation.
package reservation

import (
	"encoding/json"
	"errors"
)

// Step is a stage of the booking wizard. Steps only move forward.
type Step int

const (
	StepCollectingDetails Step = iota + 1
	StepTableSelection
	StepOrderSelection
	StepConfirmed
)

var stepNames = map[Step]string{
	StepCollectingDetails: "collecting_details",
	StepTableSelection:    "table_selection",
	StepOrderSelection:    "order_selection",
	StepConfirmed:         "confirmed",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s Step) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

var (
	ErrWrongStep       = errors.New("operation not allowed at this step")
	ErrTableNotFound   = errors.New("table not found")
	ErrNotInCart       = errors.New("item is not in the cart")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrSessionNotFound = errors.New("reservation session not found or expired")
)

// StepError reports an operation attempted at the wrong step
type StepError struct {
	Op      string
	Current Step
	Want    Step
}

func (e *StepError) Error() string {
	return e.Op + ": wizard is at " + e.Current.String() + ", needs " + e.Want.String()
}

func (e *StepError) Unwrap() error {
	return ErrWrongStep
}
