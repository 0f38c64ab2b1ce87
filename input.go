package otg

// Interface selects whether InputParameter's target fields describe a
// position or a velocity target per DoF.
type Interface int

const (
	InterfacePosition Interface = iota
	InterfaceVelocity
)

// Synchronization selects how non-limiting DoFs are brought to the
// synchronized duration.
type Synchronization int

const (
	// SynchronizeTime brings every enabled DoF to the same duration
	// (the default: true time synchronization across axes).
	SynchronizeTime Synchronization = iota
	// SynchronizeTimeIfNecessary is SynchronizeTime, except a DoF whose
	// target velocity and acceleration are both ~0 is left at its own
	// p_min instead of stretched to duration: it has nowhere further
	// to go, so there is no plant benefit to prolonging it.
	SynchronizeTimeIfNecessary
	// SynchronizeNone lets every DoF run at its own time-optimal
	// duration, with no cross-DoF coupling.
	SynchronizeNone
)

// DurationDiscretization selects whether the synchronized duration is
// left continuous or rounded up to the next control-cycle boundary.
type DurationDiscretization int

const (
	DurationContinuous DurationDiscretization = iota
	DurationDiscrete
)

// Type selects whether a trajectory is driven by independent per-DoF
// targets (ProfileTrajectory) or by a shared Path through waypoints
// (PathTrajectory).
type Type int

const (
	TypeProfile Type = iota
	TypePath
)

// Result is the outcome of a Calculate/CalculateStrict call. It is an
// ABI-stable integer, not an error value, because Working and Finished
// are both success states a caller branches on every control cycle.
// The values are fixed by the calling convention and must not be
// renumbered, independent of language.
type Result int

const (
	ResultWorking                         Result = 0
	ResultFinished                        Result = 1
	ResultError                           Result = -1
	ResultErrorInvalidInput               Result = -100
	ResultErrorTrajectoryDuration         Result = -101
	ResultErrorExecutionTimeCalculation   Result = -110
	ResultErrorSynchronizationCalculation Result = -111
)

func (r Result) String() string {
	switch r {
	case ResultFinished:
		return "Finished"
	case ResultWorking:
		return "Working"
	case ResultErrorInvalidInput:
		return "ErrorInvalidInput"
	case ResultErrorExecutionTimeCalculation:
		return "ErrorExecutionTimeCalculation"
	case ResultErrorSynchronizationCalculation:
		return "ErrorSynchronizationCalculation"
	case ResultErrorTrajectoryDuration:
		return "ErrorTrajectoryDuration"
	default:
		return "Error"
	}
}

// InputParameter is the full boundary-condition and limit set for one
// Calculate call, covering every enabled DoF.
type InputParameter struct {
	DoFs int

	CurrentPosition     []float64
	CurrentVelocity     []float64
	CurrentAcceleration []float64

	TargetPosition     []float64
	TargetVelocity     []float64
	TargetAcceleration []float64

	MaxVelocity     []float64
	MinVelocity     []float64
	MaxAcceleration []float64
	MinAcceleration []float64
	MaxJerk         []float64

	Enabled []bool

	InterfaceType   Interface
	Synchronization Synchronization
	Discretization  DurationDiscretization

	MinimumDuration *float64
	DeltaTime       float64

	// Path, if non-nil, switches this input to Type = TypePath: motion
	// follows the waypoints rather than independent per-DoF targets.
	Path *Path
}

func (in *InputParameter) enabled(dof int) bool {
	if in.Enabled == nil {
		return true
	}
	return in.Enabled[dof]
}

func (in *InputParameter) trajectoryType() Type {
	if in.Path != nil {
		return TypePath
	}
	return TypeProfile
}
