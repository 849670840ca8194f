package smoothing

import (
	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/FidelitasDefense/FD-Moveit2-Jazzy-Mirror/jerklimited"
	"github.com/FidelitasDefense/FD-Moveit2-Jazzy-Mirror/robotmodel"
)

// DefaultStepJerk is used for joints with no declared jerk bound when
// filtering streamed commands. Streaming controllers rarely declare one.
const DefaultStepJerk = 300.0 // rad/s^3

// StepFilter smooths a stream of joint position commands one control cycle
// at a time, limiting velocity, acceleration, and jerk on the way to each
// commanded position. Each command is treated as a stopping point: the
// filter always aims to come to rest there, so a stale stream decelerates
// instead of coasting.
type StepFilter struct {
	smoother *jerklimited.Smoother
	in       *jerklimited.Input
	out      *jerklimited.Output

	// Whether out holds a previous cycle's result to feed back.
	havePriorOutput bool
}

// NewStepFilter builds a streaming filter for the named joint group. Every
// joint must declare a velocity bound; missing acceleration and jerk bounds
// fall back to defaults with a warning.
func NewStepFilter(
	model *robotmodel.Model,
	groupName string,
	timestep float64,
	logger golog.Logger,
) (*StepFilter, error) {
	group, err := model.JointGroup(groupName)
	if err != nil {
		return nil, err
	}
	if timestep <= 0 {
		return nil, errors.Errorf("control timestep must be positive, got %f", timestep)
	}

	joints := group.Joints()
	limits := make([]jerklimited.Limits, group.DoF())
	for i := range limits {
		b := group.Bounds(i)
		if !b.VelocityBounded {
			return nil, NewMissingVelocityBoundError(joints[i])
		}
		limits[i].Velocity = b.MaxVelocity
		if b.AccelerationBounded {
			limits[i].Acceleration = b.MaxAcceleration
		} else {
			logger.Warnw("joint has no acceleration bound, using default",
				"joint", joints[i], "default", DefaultMaxAcceleration)
			limits[i].Acceleration = DefaultMaxAcceleration
		}
		if b.JerkBounded {
			limits[i].Jerk = b.MaxJerk
		} else {
			limits[i].Jerk = DefaultStepJerk
		}
	}

	smoother, err := jerklimited.NewSmoother(group.DoF(), timestep, limits, 0)
	if err != nil {
		return nil, err
	}
	return &StepFilter{
		smoother: smoother,
		in:       jerklimited.NewInput(group.DoF()),
		out:      jerklimited.NewOutput(group.DoF()),
	}, nil
}

// Reset seeds the filter from a measured robot state, discarding any
// feedback from previous cycles. Call it before the first Step and after
// any tracking interruption.
func (f *StepFilter) Reset(positions, velocities, accelerations []float64) error {
	if err := f.checkDoF(positions, velocities, accelerations); err != nil {
		return err
	}
	copy(f.in.CurrentPosition, positions)
	copy(f.in.CurrentVelocity, velocities)
	copy(f.in.CurrentAcceleration, accelerations)
	f.havePriorOutput = false
	return nil
}

// Step advances the filter by one control cycle toward the commanded
// positions, overwriting all three slices in place with the limited state.
// On an infeasible step the slices are left untouched, the feedback chain
// is dropped, and the caller should Reset from a measured state.
func (f *StepFilter) Step(positions, velocities, accelerations []float64) error {
	if err := f.checkDoF(positions, velocities, accelerations); err != nil {
		return err
	}
	if f.havePriorOutput {
		f.out.PassToInput(f.in)
	}

	copy(f.in.TargetPosition, positions)
	for i := range f.in.TargetVelocity {
		f.in.TargetVelocity[i] = 0
		f.in.TargetAcceleration[i] = 0
	}

	if result := f.smoother.Update(f.in, f.out); !result.Feasible() {
		f.havePriorOutput = false
		return errors.Wrap(ErrStepInfeasible, "commanded position cannot be tracked")
	}
	f.havePriorOutput = true

	copy(positions, f.out.NewPosition)
	copy(velocities, f.out.NewVelocity)
	copy(accelerations, f.out.NewAcceleration)
	return nil
}

func (f *StepFilter) checkDoF(positions, velocities, accelerations []float64) error {
	dof := len(f.in.CurrentPosition)
	if len(positions) != dof || len(velocities) != dof || len(accelerations) != dof {
		return errors.Errorf("expected state slices of length %d, got %d/%d/%d",
			dof, len(positions), len(velocities), len(accelerations))
	}
	return nil
}
