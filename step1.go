package otg

import "math"

const positionEps = 1e-9

// Velocity1 computes the time-optimal three-phase constant-jerk profile
// that drives (v0, a0) to (vf, af) under |a| <= max(aMax, -aMin) and
// |j| <= jMax. Position is carried along for bookkeeping only -- the
// Velocity interface does not constrain pf/vMax, per spec.
func Velocity1(p0, v0, a0, vf, af, aMax, aMin, jMax float64) (Profile, Block, bool) {
	ramp := solveVelocityRamp(v0, a0, vf, af, aMax, aMin, jMax)
	if !ramp.ok {
		return Profile{}, Block{}, false
	}

	var j, t [7]float64
	ramp.toProfilePhases(&j, &t, 0)

	var pr Profile
	setPhases(&pr, p0, v0, a0, j, t)
	if !closeEnough(pr.VF, vf) || !closeEnough(pr.AF, af) {
		return Profile{}, Block{}, false
	}

	block := Block{TMin: pr.TSum[6], PMin: pr}
	return pr, block, true
}

// Position1 computes the time-optimal seven-phase constant-jerk profile
// from (p0, v0, a0) to (pf, vf, af) under |v| <= max(vMax, -vMin),
// |a| <= max(aMax, -aMin), |j| <= jMax.
//
// The profile is built from two velocity ramps (see kinematics.go)
// joined by a cruise at a shared plateau velocity vp: ramp one drives
// (v0, a0) to (vp, 0), a zero-jerk cruise holds vp for duration t3, and
// ramp two drives (vp, 0) to (vf, af). vp is pushed to the velocity
// bound in the direction of travel whenever that leaves t3 >= 0
// (saturating the bound is always at least as fast, mirroring
// Velocity1's own peak-acceleration saturation); otherwise vp is found
// by bisection so the two ramps alone cover the required displacement
// with no cruise.
func Position1(p0, v0, a0, pf, vf, af, vMax, vMin, aMax, aMin, jMax float64) (Profile, Block, bool) {
	if closeEnough(p0, pf) && closeEnough(v0, vf) && closeEnough(a0, af) && closeEnough(v0, 0) && closeEnough(a0, 0) {
		var pr Profile
		setPhases(&pr, p0, v0, a0, [7]float64{}, [7]float64{})
		return pr, Block{TMin: 0, PMin: pr}, true
	}

	ramp1, ramp2, t3, ok := solvePlateau(p0, v0, a0, pf, vf, af, vMax, vMin, aMax, aMin, jMax)
	if !ok {
		return Profile{}, Block{}, false
	}

	var j, t [7]float64
	ramp1.toProfilePhases(&j, &t, 0)
	t[3] = t3
	ramp2.toProfilePhases(&j, &t, 4)

	var pr Profile
	setPhases(&pr, p0, v0, a0, j, t)
	if !closeEnough(pr.PF, pf) || !closeEnough(pr.VF, vf) || !closeEnough(pr.AF, af) {
		return Profile{}, Block{}, false
	}

	block := Block{TMin: pr.TSum[6], PMin: pr}
	return pr, block, true
}

// solvePlateau finds the shared cruise velocity (and the two bounding
// ramps) used by Position1 and, with a fixed target duration, Position2.
func solvePlateau(p0, v0, a0, pf, vf, af, vMax, vMin, aMax, aMin, jMax float64) (ramp1, ramp2 velocityRamp, t3 float64, ok bool) {
	dp := pf - p0
	vBound := vMax
	if dp < 0 {
		vBound = vMin
	}

	if r1, r2, g, valid := evalPlateau(v0, a0, vf, af, vBound, aMax, aMin, jMax); valid {
		if vBound != 0 {
			candidateT3 := (dp - g) / vBound
			if candidateT3 >= -positionEps {
				if candidateT3 < 0 {
					candidateT3 = 0
				}
				return r1, r2, candidateT3, true
			}
		}
	}

	lo, hi := math.Min(0, vBound), math.Max(0, vBound)
	valAt := func(vp float64) (velocityRamp, velocityRamp, float64, bool) {
		return evalPlateau(v0, a0, vf, af, vp, aMax, aMin, jMax)
	}

	_, _, gLo, okLo := valAt(lo)
	_, _, gHi, okHi := valAt(hi)
	if !okLo || !okHi {
		return velocityRamp{}, velocityRamp{}, 0, false
	}
	if (gLo-dp)*(gHi-dp) > 0 {
		return velocityRamp{}, velocityRamp{}, 0, false
	}

	const maxIter = 100
	for i := 0; i < maxIter; i++ {
		mid := 0.5 * (lo + hi)
		r1, r2, g, valid := valAt(mid)
		if !valid {
			return velocityRamp{}, velocityRamp{}, 0, false
		}
		diff := g - dp
		if math.Abs(diff) < positionEps || hi-lo < positionEps {
			return r1, r2, 0, true
		}
		if (diff > 0) == (gHi-dp > 0) {
			hi = mid
			gHi = g
		} else {
			lo = mid
			gLo = g
		}
	}
	r1, r2, _, valid := valAt(0.5 * (lo + hi))
	return r1, r2, 0, valid
}

// evalPlateau constructs the two velocity ramps that pass through
// plateau velocity vp and returns the no-cruise displacement they
// cover together.
func evalPlateau(v0, a0, vf, af, vp, aMax, aMin, jMax float64) (ramp1, ramp2 velocityRamp, displacement float64, ok bool) {
	ramp1 = solveVelocityRamp(v0, a0, vp, 0, aMax, aMin, jMax)
	ramp2 = solveVelocityRamp(vp, 0, vf, af, aMax, aMin, jMax)
	if !ramp1.ok || !ramp2.ok {
		return ramp1, ramp2, 0, false
	}
	displacement = ramp1.displacement(0, v0, a0) + ramp2.displacement(0, vp, 0)
	return ramp1, ramp2, displacement, true
}

func closeEnough(a, b float64) bool {
	return math.Abs(a-b) < 1e-7
}
