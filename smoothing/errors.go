package smoothing

import "github.com/pkg/errors"

// ErrNoJointGroup is used when a trajectory reaches a smoother without an
// associated joint group. It looks like the planner did not set the group
// the plan was computed for.
var ErrNoJointGroup = errors.New("trajectory has no joint group set")

// ErrTooFewWaypoints is used when a trajectory is too short to smooth.
var ErrTooFewWaypoints = errors.New("trajectory does not have enough waypoints to smooth")

// ErrSmoothingFailed is used when the duration-extension retry budget is exhausted.
var ErrSmoothingFailed = errors.New("trajectory smoothing failed")

// ErrStepInfeasible is used when a single filter step cannot reach its
// target without violating kinematic limits.
var ErrStepInfeasible = errors.New("jerk-limited step cannot reach the target without violating limits")

// NewSmoothingFailedError reports an exhausted duration-extension budget.
func NewSmoothingFailedError(attempts int) error {
	return errors.Wrapf(ErrSmoothingFailed, "after %d duration extension attempts", attempts)
}

// NewMissingVelocityBoundError is used by the safety-sensitive step-filter
// path, which refuses to substitute a default velocity limit.
func NewMissingVelocityBoundError(joint string) error {
	return errors.Errorf("no velocity limit defined for joint %q", joint)
}

// NewDiscontinuityError reports a filtered position jump beyond what the
// joint's kinematic limits allow in one timestep.
func NewDiscontinuityError(joint int, discontinuity, max float64) error {
	return errors.Errorf("unacceptable position discontinuity on joint %d: %f exceeds the kinematic bound %f",
		joint, discontinuity, max)
}

// NewGroupDoFMismatchError is used when a trajectory's joint count differs
// from its associated group's.
func NewGroupDoFMismatchError(trajDoF, groupDoF int) error {
	return errors.Errorf("trajectory has %d joints but its group has %d", trajDoF, groupDoF)
}
