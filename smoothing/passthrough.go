package smoothing

import (
	"context"

	"github.com/FidelitasDefense/FD-Moveit2-Jazzy-Mirror/trajectory"
)

// PassThroughSmoother validates the trajectory and leaves it untouched.
// Useful for controllers that already enforce limits downstream.
type PassThroughSmoother struct{}

// ApplySmoothing implements Smoother.
func (s *PassThroughSmoother) ApplySmoothing(
	ctx context.Context,
	traj *trajectory.Trajectory,
	velocityScale, accelerationScale float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return traj.Validate()
}
