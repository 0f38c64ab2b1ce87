package otg

import "math"

const step2Eps = 1e-8

// Velocity2 computes a feasible three-phase constant-jerk profile of
// exactly duration t that drives (v0, a0) to (vf, af), by searching the
// peak acceleration reached by the ramp (the "slack" parameter: lower
// peak means longer ramps and a larger acceleration-holding plateau for
// the same net velocity change, which is monotone in duration).
func Velocity2(t, p0, v0, a0, vf, af, aMax, aMin, jMax float64) (Profile, bool) {
	if t < -step2Eps {
		return Profile{}, false
	}
	ramp, ok := solveVelocityRampForDuration(v0, a0, vf, af, aMax, aMin, jMax, t)
	if !ok {
		return Profile{}, false
	}

	var j, tArr [7]float64
	ramp.toProfilePhases(&j, &tArr, 0)

	var pr Profile
	setPhases(&pr, p0, v0, a0, j, tArr)
	if !closeEnough(pr.VF, vf) || !closeEnough(pr.AF, af) {
		return Profile{}, false
	}
	return pr, true
}

// Position2 computes a feasible seven-phase constant-jerk profile of
// exactly duration t from (p0, v0, a0) to (pf, vf, af), by searching the
// shared cruise velocity vp (the ramps stay at their own time-optimal
// shape for whatever vp is chosen; only vp and the cruise length t3
// trade off to hit the requested total duration and displacement
// simultaneously).
func Position2(t, p0, v0, a0, pf, vf, af, vMax, vMin, aMax, aMin, jMax float64) (Profile, bool) {
	if t < -step2Eps {
		return Profile{}, false
	}
	ramp1, ramp2, t3, ok := solvePlateauForDuration(p0, v0, a0, pf, vf, af, vMax, vMin, aMax, aMin, jMax, t)
	if !ok {
		return Profile{}, false
	}

	var j, tArr [7]float64
	ramp1.toProfilePhases(&j, &tArr, 0)
	tArr[3] = t3
	ramp2.toProfilePhases(&j, &tArr, 4)

	var pr Profile
	setPhases(&pr, p0, v0, a0, j, tArr)
	if !closeEnough(pr.PF, pf) || !closeEnough(pr.VF, vf) || !closeEnough(pr.AF, af) {
		return Profile{}, false
	}
	return pr, true
}

func solveVelocityRampForDuration(v0, a0, vf, af, aMax, aMin, jMax, target float64) (velocityRamp, bool) {
	dv := vf - v0
	d := directArea(a0, af, jMax)
	if dv >= d {
		return rampForDuration(a0, af, dv, aMax, jMax, target, true)
	}
	return rampForDuration(a0, af, dv, aMin, jMax, target, false)
}

// rampForDuration searches over the ramp's peak acceleration for the
// value that produces total duration == target, for the bump family
// (bump=true, peak in [max(a0,af), aMax]) or the valley family
// (bump=false, peak in [aMin, min(a0,af)]).
func rampForDuration(a0, af, dv, bound, jMax, target float64, bump bool) (velocityRamp, bool) {
	peakMin, peakMax := math.Max(a0, af), bound
	if !bump {
		peakMin, peakMax = bound, math.Min(a0, af)
	}
	if peakMin > peakMax {
		return velocityRamp{}, false
	}

	durAt := func(peak float64) (t1, tp, t3 float64) {
		if bump {
			t1 = (peak - a0) / jMax
			t3 = (peak - af) / jMax
		} else {
			t1 = (a0 - peak) / jMax
			t3 = (af - peak) / jMax
		}
		areaNoPlateau := (2*peak*peak - a0*a0 - af*af) / (2 * jMax)
		if !bump {
			areaNoPlateau = -areaNoPlateau
		}
		if math.Abs(peak) < 1e-12 {
			// A zero peak cannot cover any remaining velocity change in
			// finite time.
			tp = 0
			if math.Abs(dv-areaNoPlateau) > 1e-12 {
				tp = math.Inf(1)
			}
		} else {
			tp = (dv - areaNoPlateau) / peak
		}
		if tp < 0 {
			tp = 0
		}
		return
	}

	// Clamp peakMax (bump) / peakMin (valley) to where the no-plateau
	// solution matches dv exactly -- beyond that point tp would be
	// negative, i.e. infeasible.
	if bump {
		freeVal := (2*jMax*dv + a0*a0 + af*af) / 2
		if freeVal >= 0 {
			if fp := math.Sqrt(freeVal); fp < peakMax {
				peakMax = fp
			}
		}
		if peakMax < peakMin {
			peakMax = peakMin
		}
	} else {
		freeVal := (a0*a0 + af*af - 2*jMax*dv) / 2
		if freeVal >= 0 {
			if fp := -math.Sqrt(freeVal); fp > peakMin {
				peakMin = fp
			}
		}
		if peakMin > peakMax {
			peakMin = peakMax
		}
	}

	totalAt := func(peak float64) float64 {
		t1, tp, t3 := durAt(peak)
		return t1 + tp + t3
	}

	// duration is monotone decreasing in peak for the bump family
	// (increasing for the valley family, since peak runs negative).
	lo, hi := peakMin, peakMax
	durLo, durHi := totalAt(lo), totalAt(hi)
	if bump {
		if target > durLo+step2Eps || target < durHi-step2Eps {
			return velocityRamp{}, false
		}
	} else {
		if target > durHi+step2Eps || target < durLo-step2Eps {
			return velocityRamp{}, false
		}
	}

	const maxIter = 100
	peak := hi
	for i := 0; i < maxIter; i++ {
		mid := 0.5 * (lo + hi)
		d := totalAt(mid)
		diff := d - target
		if math.Abs(diff) < step2Eps || hi-lo < 1e-13 {
			peak = mid
			break
		}
		wantLower := bump == (diff < 0)
		if wantLower {
			hi = mid
		} else {
			lo = mid
		}
		peak = mid
	}

	t1, tp, t3 := durAt(peak)
	j := jMax
	if !bump {
		j = -jMax
	}
	return velocityRamp{
		j:    [3]float64{j, 0, -j},
		t:    [3]float64{t1, tp, t3},
		peak: peak,
		ok:   true,
	}, true
}

func solvePlateauForDuration(p0, v0, a0, pf, vf, af, vMax, vMin, aMax, aMin, jMax, target float64) (ramp1, ramp2 velocityRamp, t3 float64, ok bool) {
	dp := pf - p0

	h := func(vp float64) (velocityRamp, velocityRamp, float64, float64, bool) {
		r1, r2, disp, valid := evalPlateau(v0, a0, vf, af, vp, aMax, aMin, jMax)
		if !valid {
			return r1, r2, 0, 0, false
		}
		tCruise := target - r1.durationOf() - r2.durationOf()
		residual := disp + vp*tCruise - dp
		return r1, r2, tCruise, residual, true
	}

	lo, hi := vMin, vMax
	_, _, _, resLo, okLo := h(lo)
	_, _, _, resHi, okHi := h(hi)
	if !okLo || !okHi || resLo*resHi > 0 {
		// Fall back to a narrower, direction-consistent bracket.
		lo, hi = math.Min(0, vMax), math.Max(0, vMax)
		if dp < 0 {
			lo, hi = vMin, 0
		}
		_, _, _, resLo, okLo = h(lo)
		_, _, _, resHi, okHi = h(hi)
		if !okLo || !okHi || resLo*resHi > 0 {
			return velocityRamp{}, velocityRamp{}, 0, false
		}
	}

	const maxIter = 100
	var r1, r2 velocityRamp
	var tc float64
	for i := 0; i < maxIter; i++ {
		mid := 0.5 * (lo + hi)
		a, b, tCruise, residual, valid := h(mid)
		if !valid {
			return velocityRamp{}, velocityRamp{}, 0, false
		}
		r1, r2, tc = a, b, tCruise
		if math.Abs(residual) < step2Eps || hi-lo < 1e-13 {
			break
		}
		if (residual > 0) == (resHi > 0) {
			hi = mid
		} else {
			lo = mid
		}
	}
	if tc < -step2Eps {
		return velocityRamp{}, velocityRamp{}, 0, false
	}
	if tc < 0 {
		tc = 0
	}
	return r1, r2, tc, true
}
