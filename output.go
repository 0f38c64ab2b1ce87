package otg

import "time"

// OutputParameter is the result of one Calculate call: the sampled
// state at the current control cycle plus bookkeeping a caller feeds
// back as the next call's InputParameter.
type OutputParameter struct {
	NewPosition     []float64
	NewVelocity     []float64
	NewAcceleration []float64

	Time     float64
	Duration float64

	NewCalculation bool
	LimitingDOF    int

	// CalculationDuration is the wall-clock time CalculateStrict spent
	// computing this trajectory. Report it in microseconds with
	// CalculationDuration.Microseconds().
	CalculationDuration time.Duration

	Trajectory Trajectory
}

// AtTime fills NewPosition/NewVelocity/NewAcceleration from out's
// Trajectory at time t, per DoF. Used internally by Calculate and
// exposed for callers that want to resample a previously computed
// trajectory without recomputing it (e.g. for visualization).
func (out *OutputParameter) AtTime(t float64) error {
	p, v, a, err := out.Trajectory.AtTime(t)
	if err != nil {
		return err
	}
	out.NewPosition, out.NewVelocity, out.NewAcceleration = p, v, a
	out.Time = t
	return nil
}

// AtTimeStrict is AtTime's non-clamping counterpart: t outside
// [0, Duration] returns a *TrajectoryDurationError and leaves out
// unmodified.
func (out *OutputParameter) AtTimeStrict(t float64) error {
	p, v, a, err := out.Trajectory.AtTimeStrict(t)
	if err != nil {
		return err
	}
	out.NewPosition, out.NewVelocity, out.NewAcceleration = p, v, a
	out.Time = t
	return nil
}
