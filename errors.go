package otg

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// InvalidInputError reports a boundary condition or limit that is
// self-contradictory before any solve is attempted (e.g. vMax <= 0, a
// slice whose length does not match DoFs, or a path boundary velocity
// inconsistent with the path's tangent).
type InvalidInputError struct {
	DoF     int
	Message string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("otg: invalid input for DoF %d: %s", e.DoF, e.Message)
}

// SynchronizationError reports that Step1 or Synchronize succeeded but
// Step2 could not find a profile of the synchronized duration for one
// or more DoFs.
type SynchronizationError struct {
	DoF      int
	Duration float64
}

func (e *SynchronizationError) Error() string {
	return fmt.Sprintf("otg: DoF %d has no feasible profile of duration %g", e.DoF, e.Duration)
}

// ExecutionTimeError reports that Step1 could not find a time-optimal
// profile for one or more DoFs (wrapping each DoF's individual error as
// Cause), or that Calculate recovered a panic during computation. There
// is no deadline or cancellation mechanism at this layer (Calculate
// always runs to completion or failure) — the name matches the
// ErrorExecutionTimeCalculation Result code this maps to, which
// reports a failure in the execution-time (Step1) calculation itself.
type ExecutionTimeError struct {
	Cause error
}

func (e *ExecutionTimeError) Error() string {
	if e.Cause == nil {
		return "otg: execution-time calculation failed"
	}
	return fmt.Sprintf("otg: execution-time calculation failed: %v", e.Cause)
}

func (e *ExecutionTimeError) Unwrap() error { return e.Cause }

// TrajectoryDurationError reports that AtTimeStrict was called with a
// time outside [0, Duration], or that CalculateStrict computed a
// trajectory longer than maxTrajectoryDuration (then Time holds the
// computed duration and Duration holds the ceiling).
type TrajectoryDurationError struct {
	Time, Duration float64
}

func (e *TrajectoryDurationError) Error() string {
	return fmt.Sprintf("otg: time %g outside trajectory duration %g", e.Time, e.Duration)
}

// combineErrors aggregates one error per DoF (nil entries are skipped)
// into a single error, preserving each DoF's individual error for
// inspection via multierr.Errors.
func combineErrors(errs ...error) error {
	return multierr.Combine(errs...)
}

// wrapExecutionTime wraps a recovered panic as an ExecutionTimeError,
// the shape Calculate's panic-recovery boundary hands back to callers
// that can't tolerate a panic crossing into their code.
func wrapExecutionTime(cause error) error {
	return &ExecutionTimeError{Cause: errors.WithStack(cause)}
}
