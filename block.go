package otg

import "math"

// Interval describes a contiguous duration range [Left, Right] over
// which Profile is a feasible (if not time-optimal) profile for the
// same boundary conditions as the Block it belongs to.
type Interval struct {
	Left, Right float64
	Profile     Profile
}

// Block summarizes the feasible-duration structure of a single DoF, as
// produced by Step1: the minimum feasible duration and its profile,
// plus fields A and B for up to two alternate duration intervals.
// Position1 and Velocity1 leave A and B nil, and Position2/Velocity2
// do not read a Block: they always search.
type Block struct {
	TMin float64
	PMin Profile
	A    *Interval
	B    *Interval
}

const synchronizeEps = 1e-12

// Synchronize selects the common trajectory duration across all enabled
// DoFs: the slowest DoF's minimum duration, clamped up to
// minimumDuration and, if discrete is set, rounded up to the next
// multiple of deltaTime. It returns the chosen duration and the index
// of the limiting DoF (the one whose own minimum duration equals the
// chosen duration), or -1 if none matches (every DoF must then run
// Step2). A false return means every DoF is disabled.
func Synchronize(blocks []Block, enabled []bool, minimumDuration *float64, discrete bool, deltaTime float64) (duration float64, limitingDOF int, ok bool) {
	limitingDOF = -1
	found := false
	for dof, b := range blocks {
		if enabled != nil && !enabled[dof] {
			continue
		}
		found = true
		if limitingDOF == -1 || b.TMin > duration {
			duration = b.TMin
			limitingDOF = dof
		}
	}
	if !found {
		return 0, -1, false
	}

	if minimumDuration != nil && *minimumDuration > duration {
		duration = *minimumDuration
		limitingDOF = -1
	}

	if discrete && deltaTime > 0 {
		k := math.Ceil(duration/deltaTime - synchronizeEps)
		discretized := k * deltaTime
		if discretized != duration {
			limitingDOF = -1
		}
		duration = discretized
	}

	return duration, limitingDOF, true
}
