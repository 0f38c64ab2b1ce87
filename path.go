package otg

import (
	"sort"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Waypoint is one point a Path passes through, either an absolute
// position or, with Relative set, a delta added onto the previous
// waypoint's resolved position (or onto start, for the first
// waypoint). MaxBlendDistance overrides NewPath's default blend
// distance for the corner at the previous waypoint, where the segment
// ending at this waypoint begins; nil uses the default. The first
// waypoint's MaxBlendDistance is never read.
type Waypoint struct {
	Position         []float64
	Relative         bool
	MaxBlendDistance *float64
}

// Vector3Waypoint builds an absolute 3-DoF Waypoint from an
// r3.Vector, for callers working in Cartesian space.
func Vector3Waypoint(v r3.Vector, maxBlendDistance float64) Waypoint {
	return Waypoint{Position: []float64{v.X, v.Y, v.Z}, MaxBlendDistance: &maxBlendDistance}
}

// Path is a piecewise-parametric curve through a sequence of
// waypoints, parametrized by arc length over [0, TotalLength()].
type Path struct {
	segments          []Segment
	cumulativeLengths []float64
	dofs              int
}

// NewPath builds a Path starting at start and passing through
// waypoints in order. Each waypoint is resolved to an absolute
// position first, then joined to its neighbor by a LinearSegment.
// The corner at every waypoint but the last is replaced by a
// QuarticBlendSegment when its blend distance (the MaxBlendDistance
// of the waypoint after that corner, or defaultBlendDistance if nil)
// is positive; both adjoining LinearSegments are trimmed by the same
// amount the blend consumes, so blending never changes TotalLength().
// The start and the last waypoint are never blended.
func NewPath(start []float64, waypoints []Waypoint, defaultBlendDistance float64) (*Path, error) {
	if len(waypoints) == 0 {
		return nil, errors.New("otg: path needs at least one waypoint")
	}
	dofs := len(start)
	for i, wp := range waypoints {
		if len(wp.Position) != dofs {
			return nil, errors.Errorf("otg: waypoint %d has %d DoFs, want %d", i, len(wp.Position), dofs)
		}
	}

	absolute := make([][]float64, len(waypoints)+1)
	absolute[0] = start
	for i, wp := range waypoints {
		if !wp.Relative {
			absolute[i+1] = wp.Position
			continue
		}
		pos := make([]float64, dofs)
		for d := 0; d < dofs; d++ {
			pos[d] = absolute[i][d] + wp.Position[d]
		}
		absolute[i+1] = pos
	}

	lines := make([]*LinearSegment, len(waypoints))
	for i := range lines {
		lines[i] = NewLinearSegment(absolute[i], absolute[i+1])
	}

	p := &Path{dofs: dofs}
	for i := 1; i < len(lines); i++ {
		blendDistance := defaultBlendDistance
		if waypoints[i].MaxBlendDistance != nil {
			blendDistance = *waypoints[i].MaxBlendDistance
		}
		if blendDistance <= 0 {
			p.appendSegment(lines[i-1])
			continue
		}

		left, right := lines[i-1], lines[i]
		lm := make([]float64, dofs)
		rm := make([]float64, dofs)
		for d := 0; d < dofs; d++ {
			lm[d] = (left.End[d] - left.Start[d]) / left.Length()
			rm[d] = (right.End[d] - right.Start[d]) / right.Length()
		}

		sAbsMax := left.Length()
		if right.Length() < sAbsMax {
			sAbsMax = right.Length()
		}
		sAbsMax /= 2

		blend := NewQuarticBlendSegment(left.Start, lm, rm, left.Length(), blendDistance, sAbsMax)
		sAbs := blend.Length() / 2

		leftEnd := make([]float64, dofs)
		left.Q(left.Length()-sAbs, leftEnd)
		newLeft := NewLinearSegment(left.Start, leftEnd)

		rightStart := make([]float64, dofs)
		right.Q(sAbs, rightStart)
		newRight := NewLinearSegment(rightStart, right.End)

		p.appendSegment(newLeft)
		p.appendSegment(blend)
		lines[i] = newRight
	}
	p.appendSegment(lines[len(lines)-1])
	return p, nil
}

func (p *Path) appendSegment(s Segment) {
	length := s.Length()
	total := 0.0
	if n := len(p.cumulativeLengths); n > 0 {
		total = p.cumulativeLengths[n-1]
	}
	p.segments = append(p.segments, s)
	p.cumulativeLengths = append(p.cumulativeLengths, total+length)
}

// TotalLength returns the arc length of the full path.
func (p *Path) TotalLength() float64 {
	if n := len(p.cumulativeLengths); n > 0 {
		return p.cumulativeLengths[n-1]
	}
	return 0
}

// DoFs returns the number of degrees of freedom each waypoint carries.
func (p *Path) DoFs() int { return p.dofs }

// FindIndex returns the index of the segment containing arc length s
// and the arc length measured from that segment's own start.
func (p *Path) FindIndex(s float64) (idx int, local float64) {
	idx = sort.Search(len(p.cumulativeLengths), func(i int) bool {
		return p.cumulativeLengths[i] > s
	})
	if idx >= len(p.segments) {
		idx = len(p.segments) - 1
	}
	start := 0.0
	if idx > 0 {
		start = p.cumulativeLengths[idx-1]
	}
	return idx, s - start
}

func (p *Path) Q(s float64, out []float64) {
	idx, local := p.FindIndex(s)
	p.segments[idx].Q(local, out)
}

func (p *Path) PDQ(s float64, out []float64) {
	idx, local := p.FindIndex(s)
	p.segments[idx].PDQ(local, out)
}

func (p *Path) PDDQ(s float64, out []float64) {
	idx, local := p.FindIndex(s)
	p.segments[idx].PDDQ(local, out)
}

func (p *Path) PDDDQ(s float64, out []float64) {
	idx, local := p.FindIndex(s)
	p.segments[idx].PDDDQ(local, out)
}

// DQ, DDQ, and DDDQ compose the arc-length derivatives above with a
// given arc-length motion profile s(t) via the chain rule, returning
// DoF-space velocity, acceleration, and jerk at time t.
func (p *Path) DQ(s, ds float64, out []float64) {
	p.PDQ(s, out)
	for i := range out {
		out[i] *= ds
	}
}

func (p *Path) DDQ(s, ds, dds float64, out []float64) {
	pdq := make([]float64, len(out))
	p.PDQ(s, pdq)
	p.PDDQ(s, out)
	for i := range out {
		out[i] = out[i]*ds*ds + pdq[i]*dds
	}
}

func (p *Path) DDDQ(s, ds, dds, ddds float64, out []float64) {
	pdq := make([]float64, len(out))
	pddq := make([]float64, len(out))
	p.PDQ(s, pdq)
	p.PDDQ(s, pddq)
	p.PDDDQ(s, out)
	for i := range out {
		out[i] = out[i]*ds*ds*ds + 3*pddq[i]*ds*dds + pdq[i]*ddds
	}
}
