package smoothing

import (
	"context"

	"github.com/edaniels/golog"

	"github.com/FidelitasDefense/FD-Moveit2-Jazzy-Mirror/trajectory"
)

// LowPassSmoother runs each joint's position sequence through a first-order
// Butterworth filter, seeded so the first waypoint is unchanged. Velocities
// and accelerations are left as-is; it is intended for trajectories that
// will be re-parameterized afterward, so it needs no robot model.
type LowPassSmoother struct {
	filterCoefficient float64
	logger            golog.Logger
}

// ApplySmoothing implements Smoother. The velocity and acceleration scales
// are ignored; filtering shapes positions only.
func (s *LowPassSmoother) ApplySmoothing(
	ctx context.Context,
	traj *trajectory.Trajectory,
	velocityScale, accelerationScale float64,
) error {
	if traj.Len() < 2 {
		return ErrTooFewWaypoints
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for joint := 0; joint < traj.DoF(); joint++ {
		filter, err := newLowPassFilter(s.filterCoefficient)
		if err != nil {
			return err
		}
		filter.Reset(traj.Waypoint(0).Positions[joint])
		for i := 1; i < traj.Len(); i++ {
			wp := traj.Waypoint(i)
			wp.Positions[joint] = filter.Next(wp.Positions[joint])
		}
	}
	s.logger.Debugw("low-pass filtered trajectory positions",
		"waypoints", traj.Len(), "coefficient", s.filterCoefficient)
	return nil
}
