// Package jerklimited implements the jerk-limited interpolation primitive
// used by the trajectory smoothing strategies: a single-timestep update that
// moves a set of joints from a current kinematic state toward a target state
// without exceeding per-joint velocity, acceleration, or jerk limits, and a
// bounded-horizon generator that samples a whole profile from it.
package jerklimited

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Default parameters for profile generation.
const (
	// DefaultTimestep is the fixed internal sample period in seconds.
	DefaultTimestep = 0.001
	// DefaultPositionTolerance is the convergence window in radians.
	DefaultPositionTolerance = 1e-5
)

// ErrInvalidInput is returned when the states or limits fed to the primitive
// are inconsistent, e.g. a goal that is unreachable in zero time.
var ErrInvalidInput = errors.New("invalid input to jerk-limited interpolation")

// ErrGenerationFailed is returned when no feasible profile reaches the goal
// within the duration cap.
var ErrGenerationFailed = errors.New("no feasible jerk-limited profile within the duration cap")

// NewInvalidInputError annotates ErrInvalidInput with per-joint details.
func NewInvalidInputError(details error) error {
	return multierr.Append(ErrInvalidInput, details)
}

// NewGenerationError reports a profile that failed to converge within maxDuration seconds.
func NewGenerationError(maxDuration float64) error {
	return errors.Wrapf(ErrGenerationFailed, "duration cap %.4fs", maxDuration)
}

// State is the kinematic state of one joint at one instant.
type State struct {
	Position     float64
	Velocity     float64
	Acceleration float64
}

// Limits holds one joint's symmetric kinematic limits. All three must be
// strictly positive; an unbounded joint never passes through this package.
type Limits struct {
	Velocity     float64 // rad/s
	Acceleration float64 // rad/s^2
	Jerk         float64 // rad/s^3
}

// Validate checks that every limit is strictly positive and finite.
func (l Limits) Validate() error {
	var allErrs error
	if !(l.Velocity > 0) || math.IsInf(l.Velocity, 0) {
		allErrs = multierr.Combine(allErrs, errors.Errorf("velocity limit must be positive and finite, got %f", l.Velocity))
	}
	if !(l.Acceleration > 0) || math.IsInf(l.Acceleration, 0) {
		allErrs = multierr.Combine(allErrs, errors.Errorf("acceleration limit must be positive and finite, got %f", l.Acceleration))
	}
	if !(l.Jerk > 0) || math.IsInf(l.Jerk, 0) {
		allErrs = multierr.Combine(allErrs, errors.Errorf("jerk limit must be positive and finite, got %f", l.Jerk))
	}
	return allErrs
}

// StepResult classifies one Update call.
type StepResult int

const (
	// Working means the target is feasible but was not reached this timestep.
	Working StepResult = iota
	// Finished means the target state was reached within this timestep.
	Finished
	// FinishedWithDeviation means the target position was reached but the
	// requested arrival velocity or acceleration had to be relaxed.
	FinishedWithDeviation
	// Infeasible means the target can never be reached without violating
	// limits; the outputs were left unmodified.
	Infeasible
)

func (r StepResult) String() string {
	switch r {
	case Working:
		return "working"
	case Finished:
		return "finished"
	case FinishedWithDeviation:
		return "finished with deviation"
	case Infeasible:
		return "infeasible"
	default:
		return "unknown"
	}
}

// Feasible reports whether the result leaves the smoother in a usable state.
func (r StepResult) Feasible() bool {
	return r != Infeasible
}

// Input carries the per-joint current and target states for one Update.
type Input struct {
	CurrentPosition     []float64
	CurrentVelocity     []float64
	CurrentAcceleration []float64
	TargetPosition      []float64
	TargetVelocity      []float64
	TargetAcceleration  []float64
}

// NewInput allocates a zeroed Input for the given joint count.
func NewInput(dof int) *Input {
	return &Input{
		CurrentPosition:     make([]float64, dof),
		CurrentVelocity:     make([]float64, dof),
		CurrentAcceleration: make([]float64, dof),
		TargetPosition:      make([]float64, dof),
		TargetVelocity:      make([]float64, dof),
		TargetAcceleration:  make([]float64, dof),
	}
}

// Output carries the per-joint state produced by one Update.
type Output struct {
	NewPosition     []float64
	NewVelocity     []float64
	NewAcceleration []float64
}

// NewOutput allocates a zeroed Output for the given joint count.
func NewOutput(dof int) *Output {
	return &Output{
		NewPosition:     make([]float64, dof),
		NewVelocity:     make([]float64, dof),
		NewAcceleration: make([]float64, dof),
	}
}

// PassToInput feeds the previous output back as the next current state.
func (o *Output) PassToInput(in *Input) {
	copy(in.CurrentPosition, o.NewPosition)
	copy(in.CurrentVelocity, o.NewVelocity)
	copy(in.CurrentAcceleration, o.NewAcceleration)
}

// Smoother advances a set of joints one fixed timestep at a time while
// honoring per-joint limits. It holds no state between calls beyond what the
// caller chooses to feed back via Output.PassToInput.
type Smoother struct {
	dof               int
	timestep          float64
	limits            []Limits
	positionTolerance float64
}

// NewSmoother creates a single-step smoother for dof joints at the given
// timestep. A non-positive positionTolerance selects the default.
func NewSmoother(dof int, timestep float64, limits []Limits, positionTolerance float64) (*Smoother, error) {
	if dof <= 0 {
		return nil, errors.Errorf("joint count must be positive, got %d", dof)
	}
	if !(timestep > 0) || math.IsInf(timestep, 0) {
		return nil, errors.Errorf("timestep must be positive and finite, got %f", timestep)
	}
	if len(limits) != dof {
		return nil, errors.Errorf("expected %d joint limits, got %d", dof, len(limits))
	}
	var allErrs error
	for i, l := range limits {
		if err := l.Validate(); err != nil {
			allErrs = multierr.Combine(allErrs, errors.Wrapf(err, "joint %d", i))
		}
	}
	if allErrs != nil {
		return nil, allErrs
	}
	if positionTolerance <= 0 {
		positionTolerance = DefaultPositionTolerance
	}
	return &Smoother{dof: dof, timestep: timestep, limits: limits, positionTolerance: positionTolerance}, nil
}

// DoF returns the joint count.
func (s *Smoother) DoF() int {
	return s.dof
}

// Timestep returns the fixed sample period in seconds.
func (s *Smoother) Timestep() float64 {
	return s.timestep
}

// Update advances every joint one timestep from in's current state toward
// in's target state, writing the result to out. If any joint's target is
// infeasible the outputs are left untouched and Infeasible is returned.
func (s *Smoother) Update(in *Input, out *Output) StepResult {
	for joint := 0; joint < s.dof; joint++ {
		if !targetFeasible(s.targetState(in, joint), s.currentState(in, joint), s.limits[joint]) {
			return Infeasible
		}
	}

	allReached := true
	deviated := false
	for joint := 0; joint < s.dof; joint++ {
		next, outcome := stepJoint(
			s.currentState(in, joint), s.targetState(in, joint),
			s.limits[joint], s.timestep, s.positionTolerance,
		)
		out.NewPosition[joint] = next.Position
		out.NewVelocity[joint] = next.Velocity
		out.NewAcceleration[joint] = next.Acceleration
		switch outcome {
		case jointWorking:
			allReached = false
		case jointReachedWithDeviation:
			deviated = true
		}
	}
	if !allReached {
		return Working
	}
	if deviated {
		return FinishedWithDeviation
	}
	return Finished
}

func (s *Smoother) currentState(in *Input, joint int) State {
	return State{in.CurrentPosition[joint], in.CurrentVelocity[joint], in.CurrentAcceleration[joint]}
}

func (s *Smoother) targetState(in *Input, joint int) State {
	return State{in.TargetPosition[joint], in.TargetVelocity[joint], in.TargetAcceleration[joint]}
}
