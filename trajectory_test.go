package otg

import (
	"testing"

	"go.viam.com/test"
)

func baseInput() *InputParameter {
	return &InputParameter{
		DoFs:                2,
		CurrentPosition:     []float64{0, 0},
		CurrentVelocity:     []float64{0, 0},
		CurrentAcceleration: []float64{0, 0},
		TargetPosition:      []float64{10, 5},
		TargetVelocity:      []float64{0, 0},
		TargetAcceleration:  []float64{0, 0},
		MaxVelocity:         []float64{3, 3},
		MinVelocity:         []float64{-3, -3},
		MaxAcceleration:     []float64{2, 2},
		MinAcceleration:     []float64{-2, -2},
		MaxJerk:             []float64{1, 1},
		InterfaceType:       InterfacePosition,
		Synchronization:     SynchronizeTime,
	}
}

func TestCalculateProfileTrajectorySynchronizesDuration(t *testing.T) {
	out, result, err := Calculate(baseInput())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result, test.ShouldEqual, ResultWorking)
	test.That(t, out.LimitingDOF, test.ShouldEqual, 0)

	p, v, a, err := out.Trajectory.AtTime(out.Trajectory.Duration())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p[0], test.ShouldAlmostEqual, 10.0, 1e-2)
	test.That(t, p[1], test.ShouldAlmostEqual, 5.0, 1e-2)
	test.That(t, v[0], test.ShouldAlmostEqual, 0.0, 1e-2)
	test.That(t, v[1], test.ShouldAlmostEqual, 0.0, 1e-2)
	_ = a
}

func TestAtTimeStrictRejectsOutOfRangeTime(t *testing.T) {
	out, _, err := Calculate(baseInput())
	test.That(t, err, test.ShouldBeNil)

	_, _, _, err = out.Trajectory.AtTimeStrict(out.Trajectory.Duration())
	test.That(t, err, test.ShouldBeNil)

	_, _, _, err = out.Trajectory.AtTimeStrict(out.Trajectory.Duration() + 1)
	test.That(t, err, test.ShouldNotBeNil)
	durErr, ok := err.(*TrajectoryDurationError)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, durErr.Duration, test.ShouldAlmostEqual, out.Trajectory.Duration())

	_, _, _, err = out.Trajectory.AtTimeStrict(-1)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestCalculateRejectsInvalidInput(t *testing.T) {
	in := baseInput()
	in.MaxVelocity[0] = -1 // invalid: must be positive
	_, result, err := Calculate(in)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, result, test.ShouldEqual, ResultErrorInvalidInput)
}

func TestCalculateDisabledDoFIsSkipped(t *testing.T) {
	in := baseInput()
	in.Enabled = []bool{true, false}
	out, _, err := Calculate(in)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.LimitingDOF, test.ShouldEqual, 0)

	_, _, _, err = out.Trajectory.AtTime(0)
	test.That(t, err, test.ShouldBeNil)
}

// DoF 1's target (0.01) is tiny next to DoF 0's (20), so DoF 1's own
// time-optimal duration finishes well before DoF 0's. Under
// SynchronizeTimeIfNecessary, with DoF 1's target velocity and
// acceleration both ~0, DoF 1 is left at its own p_min instead of
// stretched across the full synchronized duration: sampled partway
// through, it should already be at rest at its target.
func TestCalculateTimeIfNecessaryLeavesRestingDoFAtPMin(t *testing.T) {
	in := baseInput()
	in.TargetPosition = []float64{20, 0.01}
	in.Synchronization = SynchronizeTimeIfNecessary

	out, result, err := Calculate(in)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result, test.ShouldEqual, ResultWorking)
	test.That(t, out.LimitingDOF, test.ShouldEqual, 0)

	p, v, _, err := out.Trajectory.AtTime(0.5 * out.Trajectory.Duration())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p[1], test.ShouldAlmostEqual, 0.01, 1e-2)
	test.That(t, v[1], test.ShouldAlmostEqual, 0.0, 1e-2)
}

// TargetVelocity/TargetAcceleration are chosen so the bump branch of
// solveVelocityRamp is selected (dv dominates directArea) but then
// rejects outright because af exceeds MaxAcceleration -- a genuine
// Step1 infeasibility, not just a long duration.
func TestCalculateStep1FailureMapsToExecutionTimeResult(t *testing.T) {
	in := baseInput()
	in.InterfaceType = InterfaceVelocity
	in.TargetVelocity = []float64{1e6, 0}
	in.TargetAcceleration = []float64{1000, 0}

	_, result, err := Calculate(in)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, result, test.ShouldEqual, ResultErrorExecutionTimeCalculation)
	_, ok := err.(*ExecutionTimeError)
	test.That(t, ok, test.ShouldBeTrue)
}

func TestCalculateDisabledDoFFreezesAtCurrentPosition(t *testing.T) {
	in := baseInput()
	in.CurrentPosition = []float64{0, 7}
	in.Enabled = []bool{true, false}

	out, _, err := Calculate(in)
	test.That(t, err, test.ShouldBeNil)

	p, v, _, err := out.Trajectory.AtTime(out.Trajectory.Duration())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p[1], test.ShouldAlmostEqual, 7.0)
	test.That(t, v[1], test.ShouldAlmostEqual, 0.0)
}

func TestCalculatePathRejectsInconsistentBoundaryVelocity(t *testing.T) {
	path, err := NewPath([]float64{0, 0}, []Waypoint{{Position: []float64{10, 0}}}, 0)
	test.That(t, err, test.ShouldBeNil)

	in := &InputParameter{
		DoFs:                2,
		CurrentVelocity:     []float64{1, 1}, // tangent is (1, 0): DoF 1's velocity must be 0
		CurrentAcceleration: []float64{0, 0},
		TargetVelocity:      []float64{0, 0},
		TargetAcceleration:  []float64{0, 0},
		MaxVelocity:         []float64{3, 3},
		MinVelocity:         []float64{-3, -3},
		MaxAcceleration:     []float64{2, 2},
		MinAcceleration:     []float64{-2, -2},
		MaxJerk:             []float64{1, 1},
		InterfaceType:       InterfacePosition,
		Path:                path,
	}

	_, result, err := Calculate(in)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, result, test.ShouldEqual, ResultErrorInvalidInput)
}

func TestCalculateRejectsExcessiveDuration(t *testing.T) {
	in := baseInput()
	in.TargetPosition = []float64{1e8, 1e8}
	in.MaxVelocity = []float64{1, 1}
	in.MinVelocity = []float64{-1, -1}
	in.MaxAcceleration = []float64{1, 1}
	in.MinAcceleration = []float64{-1, -1}
	in.MaxJerk = []float64{1, 1}

	_, result, err := Calculate(in)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, result, test.ShouldEqual, ResultErrorTrajectoryDuration)
}

func TestCalculatePathTrajectoryFollowsWaypoints(t *testing.T) {
	path, err := NewPath([]float64{0, 0}, []Waypoint{
		{Position: []float64{10, 0}},
	}, 0)
	test.That(t, err, test.ShouldBeNil)

	in := &InputParameter{
		DoFs:                2,
		CurrentVelocity:     []float64{0, 0},
		CurrentAcceleration: []float64{0, 0},
		TargetVelocity:      []float64{0, 0},
		TargetAcceleration:  []float64{0, 0},
		MaxVelocity:         []float64{3, 3},
		MinVelocity:         []float64{-3, -3},
		MaxAcceleration:     []float64{2, 2},
		MinAcceleration:     []float64{-2, -2},
		MaxJerk:             []float64{1, 1},
		InterfaceType:       InterfacePosition,
		Path:                path,
	}

	out, result, err := Calculate(in)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result, test.ShouldEqual, ResultWorking)

	p, _, _, err := out.Trajectory.AtTime(out.Trajectory.Duration())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p[0], test.ShouldAlmostEqual, 10.0, 1e-2)
	test.That(t, p[1], test.ShouldAlmostEqual, 0.0, 1e-2)
}
