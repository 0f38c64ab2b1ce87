package otg

import (
	"testing"

	"go.viam.com/test"
)

func TestVelocity1ReachesTarget(t *testing.T) {
	pr, block, ok := Velocity1(0, 0, 0, 5, 0, 2, -2, 1)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pr.VF, test.ShouldAlmostEqual, 5.0, 1e-6)
	test.That(t, pr.AF, test.ShouldAlmostEqual, 0.0, 1e-6)
	test.That(t, block.TMin, test.ShouldAlmostEqual, pr.TSum[6], 1e-9)
}

func TestVelocity1ZeroChangeIsInstant(t *testing.T) {
	pr, _, ok := Velocity1(0, 3, 0, 3, 0, 2, -2, 1)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pr.TSum[6], test.ShouldAlmostEqual, 0.0, 1e-9)
}

func TestPosition1ReachesTarget(t *testing.T) {
	pr, block, ok := Position1(0, 0, 0, 10, 0, 0, 3, -3, 2, -2, 1)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pr.PF, test.ShouldAlmostEqual, 10.0, 1e-5)
	test.That(t, pr.VF, test.ShouldAlmostEqual, 0.0, 1e-5)
	test.That(t, pr.AF, test.ShouldAlmostEqual, 0.0, 1e-5)
	test.That(t, block.TMin, test.ShouldBeGreaterThan, 0.0)

	// Sampling the profile at its own end should reproduce the final state.
	p, v, a := StateAtTime(&pr, pr.TSum[6]-1e-9)
	test.That(t, p, test.ShouldAlmostEqual, 10.0, 1e-3)
	_ = v
	_ = a
}

func TestPosition1AtRestIsInstant(t *testing.T) {
	pr, block, ok := Position1(5, 0, 0, 5, 0, 0, 3, -3, 2, -2, 1)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pr.TSum[6], test.ShouldAlmostEqual, 0.0, 1e-9)
	test.That(t, block.TMin, test.ShouldAlmostEqual, 0.0)
}

func TestPosition1NegativeDisplacement(t *testing.T) {
	pr, _, ok := Position1(0, 0, 0, -10, 0, 0, 3, -3, 2, -2, 1)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pr.PF, test.ShouldAlmostEqual, -10.0, 1e-5)
}

func TestPosition1CruisesAtVMaxForLongMove(t *testing.T) {
	pr, _, ok := Position1(0, 0, 0, 1000, 0, 0, 3, -3, 2, -2, 1)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pr.PF, test.ShouldAlmostEqual, 1000.0, 1e-3)
	test.That(t, pr.T[3], test.ShouldBeGreaterThan, 0.0)
	test.That(t, pr.V[3], test.ShouldAlmostEqual, 3.0, 1e-5)
}
