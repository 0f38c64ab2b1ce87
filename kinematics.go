package otg

import "math"

// velocityRamp is the closed-form, time-optimal three-phase constant-jerk
// transition between two (velocity, acceleration) states, bounded by
// [aMin, aMax] and jMax. It is the shared building block behind
// Velocity1/Velocity2 and, nested twice, behind Position1/Position2: a
// position profile is an accelerate-ramp, an optional cruise, and a
// decelerate-ramp, and each ramp is exactly this transition, meeting
// the cruise at zero acceleration.
//
// The transition is a "bump" (jerk +,-, peak above both endpoints) when
// the requested velocity change exceeds the direct single-ramp value D,
// or a "valley" (jerk -,+, peak below both endpoints) otherwise. peak
// is clamped to [aMin, aMax], adding
// a zero-jerk plateau phase when the unclamped peak would exceed it.
type velocityRamp struct {
	j    [3]float64
	t    [3]float64
	peak float64
	ok   bool
}

// directArea is the net velocity change covered by the degenerate
// single-segment ramp between a0 and af at jerk magnitude jMax -- the
// boundary between the "bump" and "valley" families.
func directArea(a0, af, jMax float64) float64 {
	apMax := math.Max(a0, af)
	apMin := math.Min(a0, af)
	return (apMax*apMax - apMin*apMin) / (2 * jMax)
}

func solveVelocityRamp(v0, a0, vf, af, aMax, aMin, jMax float64) velocityRamp {
	dv := vf - v0
	d := directArea(a0, af, jMax)

	if dv >= d {
		return velocityRampBump(a0, af, dv, aMax, jMax)
	}
	return velocityRampValley(a0, af, dv, aMin, jMax)
}

func velocityRampBump(a0, af, dv, aMax, jMax float64) velocityRamp {
	if aMax < math.Max(a0, af) {
		return velocityRamp{}
	}
	free := (2*jMax*dv + a0*a0 + af*af) / 2
	if free < 0 {
		return velocityRamp{}
	}
	peak := math.Sqrt(free)
	if peak <= aMax {
		t1 := (peak - a0) / jMax
		t3 := (peak - af) / jMax
		return velocityRamp{
			j:    [3]float64{jMax, 0, -jMax},
			t:    [3]float64{t1, 0, t3},
			peak: peak,
			ok:   true,
		}
	}

	peak = aMax
	t1 := (peak - a0) / jMax
	t3 := (peak - af) / jMax
	areaNoPlateau := (2*peak*peak - a0*a0 - af*af) / (2 * jMax)
	tp := (dv - areaNoPlateau) / peak
	if tp < 0 {
		tp = 0
	}
	return velocityRamp{
		j:    [3]float64{jMax, 0, -jMax},
		t:    [3]float64{t1, tp, t3},
		peak: peak,
		ok:   true,
	}
}

func velocityRampValley(a0, af, dv, aMin, jMax float64) velocityRamp {
	if aMin > math.Min(a0, af) {
		return velocityRamp{}
	}
	free := (a0*a0 + af*af - 2*jMax*dv) / 2
	if free < 0 {
		return velocityRamp{}
	}
	peak := -math.Sqrt(free)
	if peak >= aMin {
		t1 := (a0 - peak) / jMax
		t3 := (af - peak) / jMax
		return velocityRamp{
			j:    [3]float64{-jMax, 0, jMax},
			t:    [3]float64{t1, 0, t3},
			peak: peak,
			ok:   true,
		}
	}

	peak = aMin
	t1 := (a0 - peak) / jMax
	t3 := (af - peak) / jMax
	areaNoPlateau := (a0*a0 + af*af - 2*peak*peak) / (2 * jMax)
	tp := (dv - areaNoPlateau) / peak
	if tp < 0 {
		tp = 0
	}
	return velocityRamp{
		j:    [3]float64{-jMax, 0, jMax},
		t:    [3]float64{t1, tp, t3},
		peak: peak,
		ok:   true,
	}
}

// durationOf sums the three ramp phase durations.
func (r velocityRamp) durationOf() float64 {
	return r.t[0] + r.t[1] + r.t[2]
}

// displacement returns the position change covered by the ramp starting
// from position p0 with the ramp's own (v0, a0) implicit in its phases.
func (r velocityRamp) displacement(p0, v0, a0 float64) float64 {
	p, v, a := p0, v0, a0
	for i := 0; i < 3; i++ {
		p, v, a = Integrate(r.t[i], p, v, a, r.j[i])
	}
	return p - p0
}

// toProfilePhases writes a velocityRamp into phase slots [lo, lo+3) of a
// seven-phase jerk/duration pair.
func (r velocityRamp) toProfilePhases(j, t *[7]float64, lo int) {
	for i := 0; i < 3; i++ {
		j[lo+i] = r.j[i]
		t[lo+i] = r.t[i]
	}
}
