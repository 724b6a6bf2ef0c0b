package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors returned (wrapped in *PreconditionError) by the profile
// integrators. Match them with errors.Is.
var (
	ErrInvalidStepCount       = errors.New("seawater: step count must be greater than zero")
	ErrProfileTooShort        = errors.New("seawater: TS profile must contain at least two points")
	ErrProfileNotSorted       = errors.New("seawater: TS profile depths must be increasing")
	ErrDegenerateSegment      = errors.New("seawater: TS profile contains a zero-length segment")
	ErrInvalidGravity         = errors.New("seawater: gravity must be positive")
	ErrPressureOutOfRange     = errors.New("seawater: pressure is beyond the TS profile")
	ErrInvalidTimeOfFlight    = errors.New("seawater: time of flight must be non-negative")
	ErrTimeOfFlightOutOfRange = errors.New("seawater: time of flight is beyond the TS profile")
	ErrProfileExhausted       = errors.New("seawater: integration ran past the deepest profile point")
	ErrNumericDegeneracy      = errors.New("seawater: integration produced a non-finite value")
)

// PreconditionError reports a rejected integrator call. No partial result
// accompanies it.
type PreconditionError struct {
	Op     string // Integrator name, e.g. "DepthByPressure".
	Detail string // Optional: offending values.
	Err    error  // One of the sentinel errors above.
}

func (e *PreconditionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %v (%s)", e.Op, e.Err, e.Detail)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PreconditionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsPrecondition reports whether err was caused by a rejected integrator
// precondition.
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

func precondition(op string, err error, format string, args ...any) error {
	return &PreconditionError{Op: op, Err: err, Detail: fmt.Sprintf(format, args...)}
}
