package otg

import (
	"math"
	"time"

	"github.com/pkg/errors"
)

// Trajectory is the tagged union Calculate hands back: either an
// independent Profile per DoF (Type = TypeProfile) or a single
// arc-length Profile driving a shared Path (Type = TypePath). AtTime
// dispatches on Kind rather than through an open interface hierarchy,
// since no third kind exists.
type Trajectory struct {
	Kind        Type
	duration    float64
	limitingDOF int

	profiles []Profile // TypeProfile: one per DoF

	path        *Path
	pathProfile Profile // TypePath: arc length s in place of position
}

func (tr *Trajectory) Duration() float64 { return tr.duration }
func (tr *Trajectory) LimitingDOF() int  { return tr.limitingDOF }
func (tr *Trajectory) DoFs() int         { return len(tr.profiles) }

// AtTimeStrict samples the trajectory at time t like AtTime, but
// rejects t outside [0, Duration()] with a *TrajectoryDurationError
// instead of clamping, for callers that want to catch a caller bug
// (e.g. a stale cached duration) rather than silently return the
// boundary state.
func (tr *Trajectory) AtTimeStrict(t float64) (p, v, a []float64, err error) {
	if t < 0 || t > tr.duration {
		return nil, nil, nil, &TrajectoryDurationError{Time: t, Duration: tr.duration}
	}
	return tr.AtTime(t)
}

// AtTime samples the trajectory at time t, returning per-DoF position,
// velocity, and acceleration. t outside [0, Duration()] is clamped to
// the nearest endpoint rather than erroring, matching a control loop
// calling slightly past the end of a finished move.
func (tr *Trajectory) AtTime(t float64) (p, v, a []float64, err error) {
	if t < 0 {
		t = 0
	}
	if t > tr.duration {
		t = tr.duration
	}

	switch tr.Kind {
	case TypeProfile:
		p = make([]float64, len(tr.profiles))
		v = make([]float64, len(tr.profiles))
		a = make([]float64, len(tr.profiles))
		for i := range tr.profiles {
			p[i], v[i], a[i] = stateInProfile(&tr.profiles[i], t)
		}
		return p, v, a, nil

	case TypePath:
		s, ds, dds := stateInProfile(&tr.pathProfile, t)
		dofs := tr.path.DoFs()
		p = make([]float64, dofs)
		v = make([]float64, dofs)
		a = make([]float64, dofs)
		tr.path.Q(s, p)
		tr.path.DQ(s, ds, v)
		tr.path.DDQ(s, ds, dds, a)
		return p, v, a, nil

	default:
		return nil, nil, nil, errors.New("otg: trajectory has no kind")
	}
}

// stateInProfile evaluates a Profile at local time t, accounting for
// its brake prelude and clamping t past the profile's own end to its
// final state.
func stateInProfile(pr *Profile, t float64) (p, v, a float64) {
	if t < pr.TBrakes[0] {
		return Integrate(t, pr.PBrakes[0], pr.VBrakes[0], pr.ABrakes[0], pr.JBrakes[0])
	}
	if t < pr.TBrake {
		local := t - pr.TBrakes[0]
		return Integrate(local, pr.PBrakes[1], pr.VBrakes[1], pr.ABrakes[1], pr.JBrakes[1])
	}
	local := t - pr.TBrake
	if local >= pr.TSum[6] {
		return pr.PF, pr.VF, pr.AF
	}
	return StateAtTime(pr, local)
}

// finalizeBrake stacks a Profile's main phases on top of its brake
// prelude and fills TBrake for stateInProfile's dispatch.
func finalizeBrake(pr *Profile, tBrakes, jBrakes, pBrakes, vBrakes, aBrakes [2]float64) {
	pr.TBrakes, pr.JBrakes = tBrakes, jBrakes
	pr.PBrakes, pr.VBrakes, pr.ABrakes = pBrakes, vBrakes, aBrakes
	pr.TBrake = tBrakes[0] + tBrakes[1]
}

// maxTrajectoryDuration is the hard ceiling on a computed trajectory's
// duration. Calculate rejects anything longer with
// ResultErrorTrajectoryDuration rather than handing back a plan a
// caller almost certainly didn't intend (e.g. a misconfigured bound
// driving Step1 toward a near-zero-jerk crawl).
const maxTrajectoryDuration = 7.6e3

// resultForError maps an error returned by calculateProfileTrajectory
// or calculatePathTrajectory onto the Result code spec'd for its
// category.
func resultForError(err error) Result {
	switch err.(type) {
	case *InvalidInputError:
		return ResultErrorInvalidInput
	case *ExecutionTimeError:
		return ResultErrorExecutionTimeCalculation
	case *SynchronizationError:
		return ResultErrorSynchronizationCalculation
	case *TrajectoryDurationError:
		return ResultErrorTrajectoryDuration
	default:
		return ResultError
	}
}

// CalculateStrict computes the trajectory for in. On failure it
// returns both the Result code for the error's category (via
// resultForError) and the real error itself. Unlike Calculate, it
// does not recover from programmer errors (e.g. mismatched slice
// lengths), so it is the entry point for tests that want a stack trace
// rather than a Result code.
func CalculateStrict(in *InputParameter) (*OutputParameter, Result, error) {
	start := time.Now()

	if err := validateInput(in); err != nil {
		return nil, ResultErrorInvalidInput, err
	}

	var tr *Trajectory
	var err error
	if in.trajectoryType() == TypePath {
		tr, err = calculatePathTrajectory(in)
	} else {
		tr, err = calculateProfileTrajectory(in)
	}
	if err != nil {
		return nil, resultForError(err), err
	}

	if tr.duration > maxTrajectoryDuration {
		err := &TrajectoryDurationError{Time: tr.duration, Duration: maxTrajectoryDuration}
		return nil, ResultErrorTrajectoryDuration, err
	}

	out := &OutputParameter{
		Duration:       tr.duration,
		NewCalculation: true,
		LimitingDOF:    tr.limitingDOF,
		Trajectory:     *tr,
	}
	if err := out.AtTime(0); err != nil {
		return nil, ResultError, err
	}
	result := ResultWorking
	if tr.duration <= 0 {
		result = ResultFinished
	}
	out.CalculationDuration = time.Since(start)
	return out, result, nil
}

// Calculate is the panic-safe entry point: it returns whatever
// CalculateStrict returns, and a recovered panic is reported as an
// ExecutionTimeError with ResultErrorExecutionTimeCalculation instead
// of propagating.
func Calculate(in *InputParameter) (out *OutputParameter, result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = wrapExecutionTime(errors.Errorf("otg: panic during calculation: %v", r))
			result = ResultErrorExecutionTimeCalculation
			out = nil
		}
	}()
	return CalculateStrict(in)
}

func validateInput(in *InputParameter) error {
	if in.DoFs <= 0 {
		return &InvalidInputError{DoF: -1, Message: "DoFs must be positive"}
	}
	need := func(name string, s []float64) error {
		if len(s) != in.DoFs {
			return &InvalidInputError{DoF: -1, Message: name + " length does not match DoFs"}
		}
		return nil
	}
	required := map[string][]float64{
		"CurrentVelocity": in.CurrentVelocity,
		"TargetVelocity":  in.TargetVelocity,
		"MaxVelocity":     in.MaxVelocity,
		"MinVelocity":     in.MinVelocity,
		"MaxAcceleration": in.MaxAcceleration,
		"MinAcceleration": in.MinAcceleration,
		"MaxJerk":         in.MaxJerk,
	}
	if in.trajectoryType() == TypeProfile {
		required["CurrentPosition"] = in.CurrentPosition
		required["TargetPosition"] = in.TargetPosition
	}
	for name, s := range required {
		if err := need(name, s); err != nil {
			return err
		}
	}
	for i := 0; i < in.DoFs; i++ {
		if !in.enabled(i) {
			continue
		}
		if in.MaxJerk[i] <= 0 {
			return &InvalidInputError{DoF: i, Message: "MaxJerk must be positive"}
		}
		if in.MaxVelocity[i] <= 0 || in.MinVelocity[i] >= 0 {
			return &InvalidInputError{DoF: i, Message: "MaxVelocity must be positive and MinVelocity negative"}
		}
		if in.MaxAcceleration[i] <= 0 || in.MinAcceleration[i] >= 0 {
			return &InvalidInputError{DoF: i, Message: "MaxAcceleration must be positive and MinAcceleration negative"}
		}
	}
	return nil
}

// calculateProfileTrajectory runs the brake -> Step1 -> Synchronize ->
// Step2 pipeline across all enabled DoFs for the independent-target
// (waypoint-free) case.
func calculateProfileTrajectory(in *InputParameter) (*Trajectory, error) {
	n := in.DoFs
	profiles := make([]Profile, n)
	blocks := make([]Block, n)
	enabled := make([]bool, n)
	errs := make([]error, 0, n)

	for i := 0; i < n; i++ {
		enabled[i] = in.enabled(i)
		if !enabled[i] {
			// A disabled DoF holds its current state: pf/vf/af freeze at
			// current, and TSum stays zero so stateInProfile returns that
			// frozen state for every t >= 0.
			v0 := in.CurrentVelocity[i]
			a0 := 0.0
			if in.CurrentAcceleration != nil {
				a0 = in.CurrentAcceleration[i]
			}
			profiles[i] = Profile{PF: in.CurrentPosition[i], VF: v0, AF: a0}
			continue
		}

		a0 := 0.0
		if in.CurrentAcceleration != nil {
			a0 = in.CurrentAcceleration[i]
		}
		af := 0.0
		if in.TargetAcceleration != nil {
			af = in.TargetAcceleration[i]
		}

		var tBrakes, jBrakes, pBrakes, vBrakes, aBrakes [2]float64
		v0, p0 := in.CurrentVelocity[i], in.CurrentPosition[i]
		if in.InterfaceType == InterfaceVelocity {
			tBrakes, jBrakes = VelocityBrakeTrajectory(a0, in.MaxAcceleration[i], in.MinAcceleration[i], in.MaxJerk[i])
			p, v, a := Integrate(tBrakes[0], p0, v0, a0, jBrakes[0])
			pBrakes[0], vBrakes[0], aBrakes[0] = p0, v0, a0
			pBrakes[1], vBrakes[1], aBrakes[1] = p, v, a
			p0, v0, a0 = p, v, a
		} else {
			tBrakes, jBrakes, pBrakes, vBrakes, aBrakes = PositionBrakeTrajectory(
				v0, a0, in.MaxVelocity[i], in.MinVelocity[i], in.MaxAcceleration[i], in.MinAcceleration[i], in.MaxJerk[i])
			p0, v0, a0 = Integrate(tBrakes[1], pBrakes[1], vBrakes[1], aBrakes[1], jBrakes[1])
		}

		var pr Profile
		var block Block
		var ok bool
		if in.InterfaceType == InterfaceVelocity {
			pr, block, ok = Velocity1(p0, v0, a0, in.TargetVelocity[i], af,
				in.MaxAcceleration[i], in.MinAcceleration[i], in.MaxJerk[i])
		} else {
			pr, block, ok = Position1(p0, v0, a0, in.TargetPosition[i], in.TargetVelocity[i], af,
				in.MaxVelocity[i], in.MinVelocity[i], in.MaxAcceleration[i], in.MinAcceleration[i], in.MaxJerk[i])
		}
		if !ok {
			errs = append(errs, errors.Errorf("DoF %d: no feasible time-optimal profile", i))
			continue
		}
		finalizeBrake(&pr, tBrakes, jBrakes, pBrakes, vBrakes, aBrakes)
		profiles[i] = pr
		block.TMin += pr.TBrake // Synchronize must compare total (brake + main) durations
		blocks[i] = block
		logBlockFound(i, block)
	}
	if len(errs) > 0 {
		return nil, &ExecutionTimeError{Cause: combineErrors(errs...)}
	}

	discrete := in.Discretization == DurationDiscrete
	deltaTime := in.DeltaTime
	duration, limitingDOF, ok := Synchronize(blocks, enabled, in.MinimumDuration, discrete, deltaTime)
	if !ok {
		return nil, &InvalidInputError{DoF: -1, Message: "no DoF is enabled"}
	}
	logSynchronized(duration, limitingDOF)

	if in.Synchronization == SynchronizeNone {
		return &Trajectory{Kind: TypeProfile, duration: duration, limitingDOF: limitingDOF, profiles: profiles}, nil
	}

	for i := 0; i < n; i++ {
		if !enabled[i] || i == limitingDOF {
			continue
		}
		if closeEnough(profiles[i].TBrake+profiles[i].TSum[6], duration) {
			continue
		}

		afv := 0.0
		if in.TargetAcceleration != nil {
			afv = in.TargetAcceleration[i]
		}
		if in.Synchronization == SynchronizeTimeIfNecessary && closeEnough(in.TargetVelocity[i], 0) && closeEnough(afv, 0) {
			// Already at rest with nowhere further to go: leave this DoF
			// at its own time-optimal p_min instead of stretching it.
			continue
		}

		pr := profiles[i]
		localTarget := duration - pr.TBrake
		p0, v0, a0 := pr.PBrakes[0], pr.VBrakes[0], pr.ABrakes[0]
		if pr.TBrake > 0 {
			p0, v0, a0 = pr.PBrakes[1], pr.VBrakes[1], pr.ABrakes[1]
		}

		var stretched Profile
		var ok2 bool
		if in.InterfaceType == InterfaceVelocity {
			stretched, ok2 = Velocity2(localTarget, p0, v0, a0, in.TargetVelocity[i], afv,
				in.MaxAcceleration[i], in.MinAcceleration[i], in.MaxJerk[i])
		} else {
			stretched, ok2 = Position2(localTarget, p0, v0, a0, in.TargetPosition[i], in.TargetVelocity[i], afv,
				in.MaxVelocity[i], in.MinVelocity[i], in.MaxAcceleration[i], in.MinAcceleration[i], in.MaxJerk[i])
		}
		if !ok2 {
			logStep2Failure(i, localTarget)
			return nil, &SynchronizationError{DoF: i, Duration: duration}
		}
		finalizeBrake(&stretched, pr.TBrakes, pr.JBrakes, pr.PBrakes, pr.VBrakes, pr.ABrakes)
		profiles[i] = stretched
	}

	return &Trajectory{Kind: TypeProfile, duration: duration, limitingDOF: limitingDOF, profiles: profiles}, nil
}

// calculatePathTrajectory reduces the multi-DoF waypoint-path problem
// to a single arc-length Step1/Step2 solve, by converting every DoF's
// velocity/acceleration/jerk bound into an equivalent scalar bound on
// the arc-length derivatives, scaled by the path's largest per-axis
// tangent component (the axis most sensitive to that bound along the
// whole path).
func calculatePathTrajectory(in *InputParameter) (*Trajectory, error) {
	path := in.Path
	vMax, aMax, jMax, err := pathKappaBounds(path, in)
	if err != nil {
		return nil, err
	}

	s0, err := validateBoundary(path, 0, in.CurrentVelocity, in.enabled)
	if err != nil {
		return nil, err
	}
	sf, err := validateBoundary(path, path.TotalLength(), in.TargetVelocity, in.enabled)
	if err != nil {
		return nil, err
	}

	v0 := s0.rate
	vf := sf.rate
	a0, af := 0.0, 0.0
	if in.CurrentAcceleration != nil {
		if a0, err = pathArcAccel(path, 0, v0, in.CurrentAcceleration, in.enabled); err != nil {
			return nil, err
		}
	}
	if in.TargetAcceleration != nil {
		if af, err = pathArcAccel(path, path.TotalLength(), vf, in.TargetAcceleration, in.enabled); err != nil {
			return nil, err
		}
	}

	pr, block, ok := Position1(0, v0, a0, path.TotalLength(), vf, af, vMax, -vMax, aMax, -aMax, jMax)
	if !ok {
		return nil, &ExecutionTimeError{Cause: errors.New("otg: no feasible arc-length profile for path")}
	}

	discrete := in.Discretization == DurationDiscrete
	duration, _, _ := Synchronize([]Block{block}, []bool{true}, in.MinimumDuration, discrete, in.DeltaTime)
	if !closeEnough(duration, pr.TSum[6]) {
		stretched, ok2 := Position2(duration, 0, v0, a0, path.TotalLength(), vf, af, vMax, -vMax, aMax, -aMax, jMax)
		if !ok2 {
			return nil, &SynchronizationError{DoF: 0, Duration: duration}
		}
		pr = stretched
	}

	return &Trajectory{Kind: TypePath, duration: duration, limitingDOF: 0, path: path, pathProfile: pr}, nil
}

type arcRate struct {
	rate float64
	axis int
}

// pathBoundaryTolerance bounds how far one enabled axis's implied
// arc-length rate or acceleration may drift from another's before a
// Cartesian boundary value is rejected as inconsistent with the
// path's tangent.
const pathBoundaryTolerance = 1e-10

// oracleAxis picks, among enabled DoFs, the one with the largest
// |tangent component| -- the axis least sensitive to numerical error
// when dividing it out of a Cartesian boundary value, rather than
// always axis 0.
func oracleAxis(tangent []float64, enabled func(int) bool) (axis int, best float64) {
	axis = -1
	for i, t := range tangent {
		if !enabled(i) {
			continue
		}
		if math.Abs(t) > best {
			best, axis = math.Abs(t), i
		}
	}
	return axis, best
}

// validateBoundary converts a Cartesian boundary velocity at arc
// length s into an arc-length rate using the oracle axis, then checks
// every other enabled axis implies the same rate within
// pathBoundaryTolerance -- the boundary-inconsistent-path invalid
// input case.
func validateBoundary(path *Path, s float64, velocity []float64, enabled func(int) bool) (arcRate, error) {
	if velocity == nil {
		return arcRate{}, nil
	}
	tangent := make([]float64, path.DoFs())
	path.PDQ(s, tangent)

	axis, best := oracleAxis(tangent, enabled)
	if axis < 0 || best < 1e-12 {
		return arcRate{}, &InvalidInputError{DoF: -1, Message: "degenerate path tangent at boundary"}
	}
	rate := velocity[axis] / tangent[axis]

	for i, t := range tangent {
		if !enabled(i) || i == axis {
			continue
		}
		if math.Abs(t) < 1e-12 {
			if math.Abs(velocity[i]) > pathBoundaryTolerance {
				return arcRate{}, &InvalidInputError{DoF: i, Message: "boundary velocity inconsistent with path tangent"}
			}
			continue
		}
		if other := velocity[i] / t; math.Abs(other-rate) > pathBoundaryTolerance {
			return arcRate{}, &InvalidInputError{DoF: i, Message: "boundary velocity inconsistent with path tangent"}
		}
	}
	return arcRate{rate: rate, axis: axis}, nil
}

// pathArcAccel is validateBoundary's acceleration counterpart: it
// derives s̈ from the oracle axis via a = q''(s)ṡ² + q'(s)s̈ and
// checks every other enabled axis agrees within pathBoundaryTolerance.
func pathArcAccel(path *Path, s, ds float64, accel []float64, enabled func(int) bool) (float64, error) {
	tangent := make([]float64, path.DoFs())
	curvature := make([]float64, path.DoFs())
	path.PDQ(s, tangent)
	path.PDDQ(s, curvature)

	axis, best := oracleAxis(tangent, enabled)
	if axis < 0 || best < 1e-12 {
		return 0, nil
	}
	dds := (accel[axis] - curvature[axis]*ds*ds) / tangent[axis]

	for i, t := range tangent {
		if !enabled(i) || i == axis || math.Abs(t) < 1e-12 {
			continue
		}
		if other := (accel[i] - curvature[i]*ds*ds) / t; math.Abs(other-dds) > pathBoundaryTolerance {
			return 0, &InvalidInputError{DoF: i, Message: "boundary acceleration inconsistent with path tangent"}
		}
	}
	return dds, nil
}

// pathKappaBounds derives scalar arc-length bounds from per-axis
// bounds by sampling the path's tangent at every segment boundary and
// keeping the tightest (smallest) per-axis ratio.
func pathKappaBounds(path *Path, in *InputParameter) (vMax, aMax, jMax float64, err error) {
	vMax, aMax, jMax = math.Inf(1), math.Inf(1), math.Inf(1)
	samples := []float64{0, path.TotalLength()}
	for _, cum := range path.cumulativeLengths {
		samples = append(samples, cum)
	}

	dofs := path.DoFs()
	tangent := make([]float64, dofs)
	for _, s := range samples {
		if s > path.TotalLength() {
			s = path.TotalLength()
		}
		path.PDQ(s, tangent)
		for i := 0; i < dofs; i++ {
			if !in.enabled(i) {
				continue
			}
			mag := math.Abs(tangent[i])
			if mag < 1e-9 {
				continue
			}
			if v := in.MaxVelocity[i] / mag; v < vMax {
				vMax = v
			}
			if a := in.MaxAcceleration[i] / mag; a < aMax {
				aMax = a
			}
			if j := in.MaxJerk[i] / mag; j < jMax {
				jMax = j
			}
		}
	}
	if math.IsInf(vMax, 1) || math.IsInf(aMax, 1) || math.IsInf(jMax, 1) {
		return 0, 0, 0, errors.New("otg: path has no axis with a nonzero tangent component")
	}
	return vMax, aMax, jMax, nil
}
