package otg

import (
	"testing"

	"go.viam.com/test"
)

func TestVelocity2MatchesStep1AtMinimumDuration(t *testing.T) {
	pr1, block, ok := Velocity1(0, 0, 0, 5, 0, 2, -2, 1)
	test.That(t, ok, test.ShouldBeTrue)

	pr2, ok := Velocity2(block.TMin, 0, 0, 0, 5, 0, 2, -2, 1)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pr2.TSum[6], test.ShouldAlmostEqual, pr1.TSum[6], 1e-5)
	test.That(t, pr2.VF, test.ShouldAlmostEqual, 5.0, 1e-5)
}

func TestVelocity2StretchesDuration(t *testing.T) {
	_, block, ok := Velocity1(0, 0, 0, 5, 0, 2, -2, 1)
	test.That(t, ok, test.ShouldBeTrue)

	target := block.TMin * 2
	pr, ok := Velocity2(target, 0, 0, 0, 5, 0, 2, -2, 1)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pr.TSum[6], test.ShouldAlmostEqual, target, 1e-4)
	test.That(t, pr.VF, test.ShouldAlmostEqual, 5.0, 1e-4)
}

func TestVelocity2RejectsDurationBelowMinimum(t *testing.T) {
	_, block, ok := Velocity1(0, 0, 0, 5, 0, 2, -2, 1)
	test.That(t, ok, test.ShouldBeTrue)

	_, ok = Velocity2(block.TMin*0.5, 0, 0, 0, 5, 0, 2, -2, 1)
	test.That(t, ok, test.ShouldBeFalse)
}

func TestPosition2MatchesStep1AtMinimumDuration(t *testing.T) {
	pr1, block, ok := Position1(0, 0, 0, 10, 0, 0, 3, -3, 2, -2, 1)
	test.That(t, ok, test.ShouldBeTrue)

	pr2, ok := Position2(block.TMin, 0, 0, 0, 10, 0, 0, 3, -3, 2, -2, 1)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pr2.TSum[6], test.ShouldAlmostEqual, pr1.TSum[6], 1e-4)
	test.That(t, pr2.PF, test.ShouldAlmostEqual, 10.0, 1e-3)
}

func TestPosition2StretchesDurationKeepingDisplacement(t *testing.T) {
	_, block, ok := Position1(0, 0, 0, 10, 0, 0, 3, -3, 2, -2, 1)
	test.That(t, ok, test.ShouldBeTrue)

	target := block.TMin * 1.5
	pr, ok := Position2(target, 0, 0, 0, 10, 0, 0, 3, -3, 2, -2, 1)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pr.TSum[6], test.ShouldAlmostEqual, target, 1e-3)
	test.That(t, pr.PF, test.ShouldAlmostEqual, 10.0, 1e-3)
}
