// Package otg implements a time-optimal, jerk-limited, time-synchronized
// online trajectory generator (OTG) core for multi-axis motion control.
package otg

import (
	"math"
	"sort"
)

// Profile is a seven-phase constant-jerk schedule for a single degree of
// freedom, plus an optional two-segment brake prelude. It is an inert
// record: every operation over it (Integrate, StateAtTime,
// PositionExtrema) is a free function, so a Profile is trivially
// copyable across control cycles.
type Profile struct {
	J    [7]float64
	T    [7]float64
	TSum [7]float64
	P    [7]float64
	V    [7]float64
	A    [7]float64

	PF, VF, AF float64

	TBrakes [2]float64
	JBrakes [2]float64
	PBrakes [2]float64
	VBrakes [2]float64
	ABrakes [2]float64
	TBrake  float64
}

// Integrate applies a constant jerk j for duration dt starting from state
// (p, v, a) and returns the resulting state.
func Integrate(dt, p, v, a, j float64) (float64, float64, float64) {
	return p + v*dt + 0.5*a*dt*dt + j*dt*dt*dt/6,
		v + a*dt + 0.5*j*dt*dt,
		a + j*dt
}

// setPhases fills the seven phase-start states and cumulative times of a
// Profile given its starting state and per-phase (jerk, duration) pairs.
// It is the single place phase bookkeeping happens, shared by Step1 and
// Step2 so their candidate constructors never duplicate the integration
// loop.
func setPhases(pr *Profile, p0, v0, a0 float64, j, t [7]float64) {
	pr.J = j
	pr.T = t
	p, v, a := p0, v0, a0
	sum := 0.0
	for i := 0; i < 7; i++ {
		pr.P[i], pr.V[i], pr.A[i] = p, v, a
		p, v, a = Integrate(t[i], p, v, a, j[i])
		sum += t[i]
		pr.TSum[i] = sum
	}
	pr.PF, pr.VF, pr.AF = p, v, a
}

// StateAtTime locates t within the profile's seven phases by binary
// search on TSum and integrates the found phase from its cached
// phase-start state. t must satisfy 0 <= t < TSum[6]; callers handle
// extrapolation for t outside that range themselves.
func StateAtTime(pr *Profile, t float64) (p, v, a float64) {
	// index of the first phase whose cumulative end time is > t
	i := sort.Search(7, func(i int) bool { return pr.TSum[i] > t })
	if i >= 7 {
		i = 6
	}
	tStart := 0.0
	if i > 0 {
		tStart = pr.TSum[i-1]
	}
	return Integrate(t-tStart, pr.P[i], pr.V[i], pr.A[i], pr.J[i])
}

// Extremum is a per-DoF minimum/maximum position pair.
type Extremum struct {
	Min, Max float64
}

// PositionExtrema returns the minimum and maximum position attained over
// the profile's domain [0, TSum[6]], including the brake prelude.
// Extrema occur either at phase boundaries or, within a phase, where
// velocity crosses zero.
func PositionExtrema(pr *Profile) Extremum {
	ext := Extremum{Min: pr.P[0], Max: pr.P[0]}
	consider := func(p float64) {
		if p < ext.Min {
			ext.Min = p
		}
		if p > ext.Max {
			ext.Max = p
		}
	}

	considerBrakePhase := func(i int) {
		if pr.TBrakes[i] <= 0 {
			return
		}
		considerPhase(pr.PBrakes[i], pr.VBrakes[i], pr.ABrakes[i], pr.JBrakes[i], pr.TBrakes[i], consider)
	}
	considerBrakePhase(0)
	considerBrakePhase(1)

	for i := 0; i < 7; i++ {
		if pr.T[i] <= 0 {
			continue
		}
		considerPhase(pr.P[i], pr.V[i], pr.A[i], pr.J[i], pr.T[i], consider)
	}
	consider(pr.PF)
	return ext
}

// considerPhase feeds the endpoints and any interior zero-velocity
// crossing of a single constant-jerk phase to consider.
func considerPhase(p, v, a, j, t float64, consider func(float64)) {
	consider(p)
	pEnd, _, _ := Integrate(t, p, v, a, j)
	consider(pEnd)

	if j == 0 {
		if a == 0 {
			return
		}
		// Constant-acceleration phase: v + a*tau = 0.
		if tau := -v / a; tau >= 0 && tau <= t {
			pTau, _, _ := Integrate(tau, p, v, a, j)
			consider(pTau)
		}
		return
	}
	// Solve v + a*tau + 0.5*j*tau^2 = 0 for tau in [0, t].
	disc := a*a - 2*j*v
	if disc < 0 {
		return
	}
	sq := math.Sqrt(disc)
	for _, tau := range [2]float64{(-a + sq) / j, (-a - sq) / j} {
		if tau >= 0 && tau <= t {
			pTau, _, _ := Integrate(tau, p, v, a, j)
			consider(pTau)
		}
	}
}
