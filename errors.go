package mgadsm

import (
	"errors"
	"fmt"
)

var (
	// ErrNotEvaluated is returned by accessors called before any successful Evaluate.
	ErrNotEvaluated = errors.New("trajectory not evaluated")
	// ErrUnknownLegType is returned when constructing a trajectory with an unsupported leg type.
	ErrUnknownLegType = errors.New("unknown leg type")
	// ErrUnknownStation is returned when a ground station name is not registered.
	ErrUnknownStation = errors.New("unknown ground station")
	// ErrDuplicateStation is returned when registering a ground station name twice.
	ErrDuplicateStation = errors.New("ground station already registered")
)

// ParameterCountError reports a parameter vector whose length does not match the
// trajectory topology. The trajectory state is left untouched.
type ParameterCountError struct {
	Want, Got int
}

func (e ParameterCountError) Error() string {
	return fmt.Sprintf("expected %d trajectory parameters, got %d", e.Want, e.Got)
}

// GeometryError reports a leg whose boundary-value solve did not converge.
// It marks the trajectory invalid but must not abort a batch of evaluations.
type GeometryError struct {
	Leg   int
	Cause error
}

func (e GeometryError) Error() string {
	return fmt.Sprintf("leg %d geometry infeasible: %s", e.Leg, e.Cause)
}

// Unwrap returns the underlying solver failure.
func (e GeometryError) Unwrap() error { return e.Cause }

// InvalidTrajectoryError is returned by accessors after an Evaluate call failed on
// one of the legs.
type InvalidTrajectoryError struct {
	Leg   int
	Cause error
}

func (e InvalidTrajectoryError) Error() string {
	return fmt.Sprintf("trajectory invalid (failed on leg %d): %s", e.Leg, e.Cause)
}

// Unwrap returns the geometry failure which invalidated the trajectory.
func (e InvalidTrajectoryError) Unwrap() error { return e.Cause }
