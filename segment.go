package otg

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Segment is a piece of a multi-waypoint Path, parametrized by arc
// length s over [0, Length()]. Path calls its segments through this
// interface; LinearSegment and QuarticBlendSegment are the only two
// implementations, and Path has no type switch over them.
type Segment interface {
	Length() float64
	Q(s float64, out []float64)
	PDQ(s float64, out []float64)
	PDDQ(s float64, out []float64)
	PDDDQ(s float64, out []float64)
}

// LinearSegment is the straight-line path between two waypoints.
type LinearSegment struct {
	Start, End, Direction []float64
	length                float64
}

// NewLinearSegment builds a LinearSegment between start and end, both
// full DoF-vectors of the same length.
func NewLinearSegment(start, end []float64) *LinearSegment {
	dir := make([]float64, len(start))
	for i := range start {
		dir[i] = end[i] - start[i]
	}
	return &LinearSegment{Start: start, End: end, Direction: dir, length: floats.Norm(dir, 2)}
}

func (s *LinearSegment) Length() float64 { return s.length }

func (s *LinearSegment) Q(arc float64, out []float64) {
	u := 0.0
	if s.length > 0 {
		u = arc / s.length
	}
	for i := range out {
		out[i] = s.Start[i] + u*s.Direction[i]
	}
}

func (s *LinearSegment) PDQ(_ float64, out []float64) {
	if s.length == 0 {
		for i := range out {
			out[i] = 0
		}
		return
	}
	for i := range out {
		out[i] = s.Direction[i] / s.length
	}
}

func (s *LinearSegment) PDDQ(_ float64, out []float64) {
	for i := range out {
		out[i] = 0
	}
}

func (s *LinearSegment) PDDDQ(_ float64, out []float64) {
	for i := range out {
		out[i] = 0
	}
}

// QuarticBlendSegment smooths the corner between two LinearSegments by
// replacing a short stretch around their shared waypoint with
// q(s) = f + s·e + s³·c + s⁴·b per DoF: a quartic whose tangent
// C¹-matches both neighboring linear segments (pdq(0) = lm,
// pdq(length) = rm) and whose second derivative vanishes at both
// blend endpoints.
type QuarticBlendSegment struct {
	b, c, e, f []float64
	length     float64
}

// NewQuarticBlendSegment builds the blend joining a left segment
// (absolute start lb, unit tangent lm, and the arc length sMid of its
// own waypoint end) to a right segment (unit tangent rm), sized by the
// requested blend distance diff and capped at sAbsMax (half the
// shorter of the two adjoining segments, so the blend never eats past
// either segment's midpoint).
func NewQuarticBlendSegment(lb, lm, rm []float64, sMid, diff, sAbsMax float64) *QuarticBlendSegment {
	dofs := len(lb)
	sAbsMin := sAbsMax
	for d := 0; d < dofs; d++ {
		if denom := lm[d] - rm[d]; denom != 0 {
			if s := math.Abs(-16 * diff / (3 * denom)); s < sAbsMin {
				sAbsMin = s
			}
		}
	}

	b := make([]float64, dofs)
	c := make([]float64, dofs)
	e := make([]float64, dofs)
	f := make([]float64, dofs)
	for d := 0; d < dofs; d++ {
		b[d] = (lm[d] - rm[d]) / (16 * sAbsMin * sAbsMin * sAbsMin)
		c[d] = (rm[d] - lm[d]) / (4 * sAbsMin * sAbsMin)
		e[d] = lm[d]
		f[d] = lb[d] + lm[d]*(sMid-sAbsMin)
	}
	return &QuarticBlendSegment{b: b, c: c, e: e, f: f, length: 2 * sAbsMin}
}

func (s *QuarticBlendSegment) Length() float64 { return s.length }

func (s *QuarticBlendSegment) Q(arc float64, out []float64) {
	for i := range out {
		out[i] = s.f[i] + arc*(s.e[i]+arc*(arc*(s.c[i]+arc*s.b[i])))
	}
}

func (s *QuarticBlendSegment) PDQ(arc float64, out []float64) {
	for i := range out {
		out[i] = s.e[i] + arc*(arc*(3*s.c[i]+arc*4*s.b[i]))
	}
}

func (s *QuarticBlendSegment) PDDQ(arc float64, out []float64) {
	for i := range out {
		out[i] = arc * (6*s.c[i] + arc*12*s.b[i])
	}
}

func (s *QuarticBlendSegment) PDDDQ(arc float64, out []float64) {
	for i := range out {
		out[i] = 6*s.c[i] + arc*24*s.b[i]
	}
}
