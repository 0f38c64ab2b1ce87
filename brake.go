package otg

import "math"

// brakeEps guards against spurious brake phases triggered by floating
// point noise right at a bound.
const brakeEps = 1e-12

// VelocityBrakeTrajectory computes the single constant-jerk segment that
// pulls a starting acceleration outside [aMin, aMax] back within bounds
// as fast as possible, for the Velocity interface (which places no
// bound on velocity itself). A zero-duration result means a0 was
// already feasible.
func VelocityBrakeTrajectory(a0, aMax, aMin, jMax float64) (tBrakes, jBrakes [2]float64) {
	if a0 > aMax+brakeEps {
		tBrakes[0] = (a0 - aMax) / jMax
		jBrakes[0] = -jMax
	} else if a0 < aMin-brakeEps {
		tBrakes[0] = (aMin - a0) / jMax
		jBrakes[0] = jMax
	}
	return
}

// PositionBrakeTrajectory computes the up-to-two-segment constant-jerk
// prelude that restores feasibility -- velocity within [vMin, vMax] and
// acceleration within [aMin, aMax] -- before Step1 runs, for the
// Position interface. The first segment removes any acceleration
// violation (matching VelocityBrakeTrajectory); the second removes any
// remaining velocity violation given the now-bounded acceleration, by
// running a full velocityRamp from the post-first-segment state to the
// nearest velocity bound with zero final acceleration.
func PositionBrakeTrajectory(v0, a0, vMax, vMin, aMax, aMin, jMax float64) (tBrakes, jBrakes, pBrakes, vBrakes, aBrakes [2]float64) {
	p, v, a := 0.0, v0, a0
	pBrakes[0], vBrakes[0], aBrakes[0] = p, v, a

	if a > aMax+brakeEps {
		tBrakes[0] = (a - aMax) / jMax
		jBrakes[0] = -jMax
	} else if a < aMin-brakeEps {
		tBrakes[0] = (aMin - a) / jMax
		jBrakes[0] = jMax
	}
	p, v, a = Integrate(tBrakes[0], p, v, a, jBrakes[0])
	pBrakes[1], vBrakes[1], aBrakes[1] = p, v, a

	target, j2 := math.NaN(), 0.0
	switch {
	case v > vMax+brakeEps:
		target, j2 = vMax, -jMax
	case v < vMin-brakeEps:
		target, j2 = vMin, jMax
	default:
		return
	}

	// Stop at whichever comes first: velocity reaching the bound, or
	// acceleration returning to zero. Either leaves a feasible state for
	// Step1 to take over from.
	t2 := math.Inf(1)
	disc := a*a - 2*j2*(v-target)
	if disc >= 0 {
		sq := math.Sqrt(disc)
		for _, root := range [2]float64{(-a + sq) / j2, (-a - sq) / j2} {
			if root >= 0 && root < t2 {
				t2 = root
			}
		}
	}
	if tAZero := -a / j2; tAZero > 0 && tAZero < t2 {
		t2 = tAZero
	}
	if math.IsInf(t2, 1) {
		return
	}

	tBrakes[1] = t2
	jBrakes[1] = j2
	return
}
