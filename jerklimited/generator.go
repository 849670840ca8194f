package jerklimited

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Profile is a fixed-timestep sampling of a jerk-limited move, one sample
// series per joint. The first sample is the starting state.
type Profile struct {
	Timestep      float64
	Positions     [][]float64
	Velocities    [][]float64
	Accelerations [][]float64
}

// Len returns the number of samples per joint.
func (p *Profile) Len() int {
	if len(p.Positions) == 0 {
		return 0
	}
	return len(p.Positions[0])
}

// Final returns the last sampled state of the given joint.
func (p *Profile) Final(joint int) State {
	last := p.Len() - 1
	return State{
		Position:     p.Positions[joint][last],
		Velocity:     p.Velocities[joint][last],
		Acceleration: p.Accelerations[joint][last],
	}
}

// Generator produces bounded-time-horizon jerk-limited profiles between two
// kinematic states, sampled at a fixed timestep.
type Generator struct {
	dof               int
	timestep          float64
	positionTolerance float64
}

// NewGenerator creates a profile generator for dof joints. Non-positive
// timestep or tolerance select the defaults.
func NewGenerator(dof int, timestep, positionTolerance float64) (*Generator, error) {
	if dof <= 0 {
		return nil, errors.Errorf("joint count must be positive, got %d", dof)
	}
	if timestep <= 0 {
		timestep = DefaultTimestep
	}
	if positionTolerance <= 0 {
		positionTolerance = DefaultPositionTolerance
	}
	return &Generator{dof: dof, timestep: timestep, positionTolerance: positionTolerance}, nil
}

// Timestep returns the fixed sample period in seconds.
func (g *Generator) Timestep() float64 {
	return g.timestep
}

// checkInputs validates one generation request.
func (g *Generator) checkInputs(current, goal []State, limits []Limits, desiredDuration, maxDuration float64) error {
	var allErrs error
	if len(current) != g.dof || len(goal) != g.dof || len(limits) != g.dof {
		allErrs = multierr.Combine(allErrs,
			errors.Errorf("expected %d joints, got %d current / %d goal / %d limits", g.dof, len(current), len(goal), len(limits)))
	}
	if !(desiredDuration > 0) {
		allErrs = multierr.Combine(allErrs, errors.Errorf("goal is unreachable in non-positive duration %f", desiredDuration))
	}
	if maxDuration < desiredDuration {
		allErrs = multierr.Combine(allErrs, errors.Errorf("duration cap %f is below the desired duration %f", maxDuration, desiredDuration))
	}
	if allErrs != nil {
		return NewInvalidInputError(allErrs)
	}
	for joint := 0; joint < g.dof; joint++ {
		if err := limits[joint].Validate(); err != nil {
			allErrs = multierr.Combine(allErrs, errors.Wrapf(err, "joint %d", joint))
			continue
		}
		lim := limits[joint]
		for _, st := range []State{current[joint], goal[joint]} {
			if !finite(st.Position) || !finite(st.Velocity) || !finite(st.Acceleration) {
				allErrs = multierr.Combine(allErrs, errors.Errorf("joint %d state is not finite", joint))
				continue
			}
			if math.Abs(st.Velocity) > lim.Velocity {
				allErrs = multierr.Combine(allErrs, errors.Errorf("joint %d velocity %f exceeds limit %f", joint, st.Velocity, lim.Velocity))
			}
			if math.Abs(st.Acceleration) > lim.Acceleration {
				allErrs = multierr.Combine(allErrs, errors.Errorf("joint %d acceleration %f exceeds limit %f", joint, st.Acceleration, lim.Acceleration))
			}
		}
	}
	if allErrs != nil {
		return NewInvalidInputError(allErrs)
	}
	return nil
}

// Generate samples a jerk-limited profile from current to goal. The profile
// aims for desiredDuration but may extend up to maxDuration before the goal
// is declared unreachable. The returned profile's first sample is the
// current state.
func (g *Generator) Generate(current, goal []State, limits []Limits, desiredDuration, maxDuration float64) (*Profile, error) {
	if err := g.checkInputs(current, goal, limits, desiredDuration, maxDuration); err != nil {
		return nil, err
	}

	smoother, err := NewSmoother(g.dof, g.timestep, limits, g.positionTolerance)
	if err != nil {
		return nil, NewInvalidInputError(err)
	}

	in := NewInput(g.dof)
	out := NewOutput(g.dof)
	profile := &Profile{
		Timestep:      g.timestep,
		Positions:     make([][]float64, g.dof),
		Velocities:    make([][]float64, g.dof),
		Accelerations: make([][]float64, g.dof),
	}
	for joint := 0; joint < g.dof; joint++ {
		in.CurrentPosition[joint] = current[joint].Position
		in.CurrentVelocity[joint] = current[joint].Velocity
		in.CurrentAcceleration[joint] = current[joint].Acceleration
		in.TargetPosition[joint] = goal[joint].Position
		in.TargetVelocity[joint] = goal[joint].Velocity
		in.TargetAcceleration[joint] = goal[joint].Acceleration
		profile.Positions[joint] = append(profile.Positions[joint], current[joint].Position)
		profile.Velocities[joint] = append(profile.Velocities[joint], current[joint].Velocity)
		profile.Accelerations[joint] = append(profile.Accelerations[joint], current[joint].Acceleration)
	}

	// Hard iteration ceiling derived from the duration cap.
	maxSteps := int(math.Ceil(maxDuration / g.timestep))
	for step := 0; step < maxSteps; step++ {
		result := smoother.Update(in, out)
		if result == Infeasible {
			return nil, NewInvalidInputError(errors.New("target state violates kinematic limits"))
		}
		for joint := 0; joint < g.dof; joint++ {
			profile.Positions[joint] = append(profile.Positions[joint], out.NewPosition[joint])
			profile.Velocities[joint] = append(profile.Velocities[joint], out.NewVelocity[joint])
			profile.Accelerations[joint] = append(profile.Accelerations[joint], out.NewAcceleration[joint])
		}
		if result == Finished || result == FinishedWithDeviation {
			return profile, nil
		}
		out.PassToInput(in)
	}
	return nil, NewGenerationError(maxDuration)
}
