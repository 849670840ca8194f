package smoothing

import (
	"github.com/pkg/errors"

	"github.com/FidelitasDefense/FD-Moveit2-Jazzy-Mirror/jerklimited"
	"github.com/FidelitasDefense/FD-Moveit2-Jazzy-Mirror/robotmodel"
)

// Fallback limits for joints whose model declares no bound. Jerk bounds are
// typically not modeled, so the jerk default dominates in practice.
const (
	DefaultMaxVelocity     = 5.0  // rad/s
	DefaultMaxAcceleration = 10.0 // rad/s^2
	DefaultMaxJerk         = 20.0 // rad/s^3
)

// LimitsForGroup derives one set of kinematic limits per joint in the group.
// Declared model bounds are scaled by the given factors; undeclared bounds
// fall back to the package defaults, also scaled. Both scales must lie in
// (0, 1]. Bounds are assumed symmetric.
func LimitsForGroup(group *robotmodel.JointGroup, velocityScale, accelerationScale float64) ([]jerklimited.Limits, error) {
	if group == nil {
		return nil, ErrNoJointGroup
	}
	if velocityScale <= 0 || velocityScale > 1 {
		return nil, errors.Errorf("velocity scaling factor must be in (0, 1], got %f", velocityScale)
	}
	if accelerationScale <= 0 || accelerationScale > 1 {
		return nil, errors.Errorf("acceleration scaling factor must be in (0, 1], got %f", accelerationScale)
	}

	limits := make([]jerklimited.Limits, group.DoF())
	for i := range limits {
		bounds := group.Bounds(i)

		if bounds.VelocityBounded {
			limits[i].Velocity = velocityScale * bounds.MaxVelocity
		} else {
			limits[i].Velocity = velocityScale * DefaultMaxVelocity
		}

		if bounds.AccelerationBounded {
			limits[i].Acceleration = accelerationScale * bounds.MaxAcceleration
		} else {
			limits[i].Acceleration = accelerationScale * DefaultMaxAcceleration
		}

		if bounds.JerkBounded {
			limits[i].Jerk = bounds.MaxJerk
		} else {
			limits[i].Jerk = DefaultMaxJerk
		}

		if err := limits[i].Validate(); err != nil {
			return nil, errors.Wrapf(err, "joint %q", group.Joints()[i])
		}
	}
	return limits, nil
}
