package solver

import (
	"errors"
	"time"

	"github.com/kilianp07/pdptw/core/validator"
)

// Outcome classifies the result of a solve.
type Outcome string

const (
	OutcomeOK          Outcome = "ok"
	OutcomeInterrupted Outcome = "interrupted"
	OutcomeInvalid     Outcome = "invalid"
	OutcomeError       Outcome = "error"
)

// Classify returns the outcome of a solve that returned err.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrInterrupted):
		return OutcomeInterrupted
	case errors.Is(err, validator.ErrPrecondition):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}

// Event is published after every solve.
type Event struct {
	Solver   string
	Time     time.Time
	Duration time.Duration
	Vehicles int
	Parcels  int
	Err      error
}

// Outcome classifies e.Err.
func (e Event) Outcome() Outcome { return Classify(e.Err) }
