package otg

import (
	"testing"

	"go.viam.com/test"
)

func TestSolveVelocityRampDirectNoPlateau(t *testing.T) {
	// a0=af=0, dv=1, jMax=1 gives directArea=0, so any dv>=0 takes the
	// bump branch; with aMax large enough the peak stays unclamped.
	ramp := solveVelocityRamp(0, 0, 1, 0, 10, -10, 1)
	test.That(t, ramp.ok, test.ShouldBeTrue)
	test.That(t, ramp.t[1], test.ShouldAlmostEqual, 0.0)
	test.That(t, ramp.durationOf(), test.ShouldBeGreaterThan, 0.0)

	// Reconstruct (v, a) by integrating the ramp and check it lands on target.
	v, a := 0.0, 0.0
	for i := 0; i < 3; i++ {
		_, v, a = Integrate(ramp.t[i], 0, v, a, ramp.j[i])
	}
	test.That(t, v, test.ShouldAlmostEqual, 1.0, 1e-7)
	test.That(t, a, test.ShouldAlmostEqual, 0.0, 1e-7)
}

func TestSolveVelocityRampBumpWithPlateau(t *testing.T) {
	// Large dv forces the peak to clip at aMax and hold a plateau.
	ramp := solveVelocityRamp(0, 0, 100, 0, 2, -2, 1)
	test.That(t, ramp.ok, test.ShouldBeTrue)
	test.That(t, ramp.peak, test.ShouldAlmostEqual, 2.0)
	test.That(t, ramp.t[1], test.ShouldBeGreaterThan, 0.0)

	v, a := 0.0, 0.0
	for i := 0; i < 3; i++ {
		_, v, a = Integrate(ramp.t[i], 0, v, a, ramp.j[i])
	}
	test.That(t, v, test.ShouldAlmostEqual, 100.0, 1e-6)
	test.That(t, a, test.ShouldAlmostEqual, 0.0, 1e-6)
}

func TestSolveVelocityRampValley(t *testing.T) {
	// Negative dv relative to a0=af=0 takes the valley branch.
	ramp := solveVelocityRamp(0, 0, -1, 0, 10, -10, 1)
	test.That(t, ramp.ok, test.ShouldBeTrue)
	test.That(t, ramp.peak, test.ShouldBeLessThan, 0.0)

	v, a := 0.0, 0.0
	for i := 0; i < 3; i++ {
		_, v, a = Integrate(ramp.t[i], 0, v, a, ramp.j[i])
	}
	test.That(t, v, test.ShouldAlmostEqual, -1.0, 1e-7)
	test.That(t, a, test.ShouldAlmostEqual, 0.0, 1e-7)
}

func TestSolveVelocityRampInfeasibleBound(t *testing.T) {
	// a0 already exceeds aMax on the bump branch with dv >= 0: infeasible.
	ramp := solveVelocityRamp(0, 5, 10, 5, 2, -2, 1)
	test.That(t, ramp.ok, test.ShouldBeFalse)
}

func TestDirectArea(t *testing.T) {
	test.That(t, directArea(0, 0, 1), test.ShouldAlmostEqual, 0.0)
	test.That(t, directArea(2, 0, 2), test.ShouldAlmostEqual, 1.0)
}
