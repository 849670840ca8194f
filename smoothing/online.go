package smoothing

import (
	"context"
	"math"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/FidelitasDefense/FD-Moveit2-Jazzy-Mirror/jerklimited"
	"github.com/FidelitasDefense/FD-Moveit2-Jazzy-Mirror/robotmodel"
	"github.com/FidelitasDefense/FD-Moveit2-Jazzy-Mirror/trajectory"
	"github.com/FidelitasDefense/FD-Moveit2-Jazzy-Mirror/utils"
)

const (
	// Consecutive waypoints closer than this are treated as identical.
	identicalPositionEpsilon = 1e-3 // rad
	// Bounded duration-extension retry.
	maxDurationExtensionAttempts = 5
	durationExtensionFraction    = 1.1
	// Backward-motion mitigation: target velocities decay by this factor per
	// iteration until their magnitude falls below the floor.
	velocityDecayFactor      = 0.9
	minVelocityMagnitude     = 0.01 // rad/s
	maxVelocityDecayAttempts = 100
	// Joints asked to hold a velocity below this cannot lag.
	laggingVelocityEpsilon = 1e-10
)

// OnlineSmoother feeds a single incremental jerk-limited smoother through
// the whole trajectory, one waypoint span per step, overwriting each target
// waypoint with the limited state actually reachable. If any span is
// infeasible, the seed trajectory is restored with every segment duration
// extended by a fixed factor and the pass restarts, a bounded number of
// times.
type OnlineSmoother struct {
	model  *robotmodel.Model
	logger golog.Logger
}

// ApplySmoothing implements Smoother.
func (s *OnlineSmoother) ApplySmoothing(
	ctx context.Context,
	traj *trajectory.Trajectory,
	velocityScale, accelerationScale float64,
) error {
	group, err := groupForTrajectory(s.model, traj)
	if err != nil {
		return err
	}
	if traj.Len() < 2 {
		return ErrTooFewWaypoints
	}
	limits, err := LimitsForGroup(group, velocityScale, accelerationScale)
	if err != nil {
		return err
	}

	// The interpolation cannot handle angle wraparound.
	traj.Unwind()

	timestep := traj.AverageSegmentDuration()
	if timestep <= 0 {
		return errors.New("trajectory has no positive segment durations to smooth")
	}

	seed := traj.Clone()
	original := traj.Clone()

	for attempt := 0; attempt < maxDurationExtensionAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		smoother, err := jerklimited.NewSmoother(traj.DoF(), timestep, limits, 0)
		if err != nil {
			return err
		}
		ok, err := s.runPass(ctx, traj, smoother, limits, timestep)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		// The seed trajectory's durations likely were not long enough once
		// jerk is taken into account. Extend them and try again.
		for i := 1; i < seed.Len(); i++ {
			seed.SetDuration(i, durationExtensionFraction*seed.Duration(i))
		}
		traj.CopyFrom(seed)
		timestep = traj.AverageSegmentDuration()
		s.logger.Debugw("smoothing pass infeasible, extending segment durations",
			"attempt", attempt+1, "timestep", timestep)
	}

	traj.CopyFrom(original)
	return NewSmoothingFailedError(maxDurationExtensionAttempts)
}

// runPass walks every waypoint span once. It reports false when some span
// was infeasible and the whole pass should be retried with longer durations.
func (s *OnlineSmoother) runPass(
	ctx context.Context,
	traj *trajectory.Trajectory,
	smoother *jerklimited.Smoother,
	limits []jerklimited.Limits,
	timestep float64,
) (bool, error) {
	dof := traj.DoF()
	in := jerklimited.NewInput(dof)
	out := jerklimited.NewOutput(dof)
	initializeSmootherState(in, out, traj.Waypoint(0))

	for span := 0; span < traj.Len()-1; span++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		next := traj.Waypoint(span + 1)

		// Feed the previous step's output back as the new current state.
		out.PassToInput(in)
		copy(in.TargetPosition, next.Positions)
		copy(in.TargetVelocity, next.Velocities)
		copy(in.TargetAcceleration, next.Accelerations)

		result := smoother.Update(in, out)
		if !result.Feasible() {
			return false, nil
		}

		// If the requested velocity is too great, a joint can actually move
		// backward to give itself more time to accelerate to the target
		// velocity. Decrease the requested velocities until that behavior is
		// gone, keeping the exact target position.
		skipped := false
		velocityMagnitude := floats.Norm(in.TargetVelocity, 2)
		for decay := 0; checkForLaggingMotion(in, out) && velocityMagnitude > minVelocityMagnitude; decay++ {
			if err := ctx.Err(); err != nil {
				return false, err
			}
			if decay == maxVelocityDecayAttempts {
				return false, nil
			}

			// A span with no real change in position is not worth fighting
			// over: simply set it equal to the previous waypoint.
			if identicalWaypoints(traj.Waypoint(span), next) {
				replacement := traj.Waypoint(span).Clone()
				replacement.DurationFromPrevious = next.DurationFromPrevious
				if err := traj.SetWaypoint(span+1, replacement); err != nil {
					return false, err
				}
				skipped = true
				break
			}

			for joint := 0; joint < dof; joint++ {
				in.TargetVelocity[joint] *= velocityDecayFactor
				// Propagate the change in velocity to acceleration too; the
				// position is untouched so the exact target is still achieved.
				implied := (in.TargetVelocity[joint] - out.NewVelocity[joint]) / timestep
				in.TargetAcceleration[joint] = utils.Clamp(implied, -limits[joint].Acceleration, limits[joint].Acceleration)
			}
			velocityMagnitude = floats.Norm(in.TargetVelocity, 2)

			result = smoother.Update(in, out)
			if !result.Feasible() {
				return false, nil
			}
		}
		if skipped {
			continue
		}

		// Overwrite the target waypoint with the limited state actually reached.
		copy(next.Positions, out.NewPosition)
		copy(next.Velocities, out.NewVelocity)
		copy(next.Accelerations, out.NewAcceleration)
	}
	return true, nil
}

// initializeSmootherState seeds both the input's current state and the
// output from the first waypoint, so the first feedback pass is a no-op.
func initializeSmootherState(in *jerklimited.Input, out *jerklimited.Output, first *trajectory.Waypoint) {
	copy(in.CurrentPosition, first.Positions)
	copy(in.CurrentVelocity, first.Velocities)
	copy(in.CurrentAcceleration, first.Accelerations)
	copy(out.NewPosition, first.Positions)
	copy(out.NewVelocity, first.Velocities)
	copy(out.NewAcceleration, first.Accelerations)
}

// checkForLaggingMotion reports whether any joint's limited output velocity
// lags its requested velocity, indicating the jerk-limited correction is
// moving the joint opposite to its commanded direction. Joints with a
// near-zero requested velocity are skipped; the ratio is undefined there.
func checkForLaggingMotion(in *jerklimited.Input, out *jerklimited.Output) bool {
	for joint := range in.TargetVelocity {
		target := in.TargetVelocity[joint]
		if math.Abs(target) < laggingVelocityEpsilon {
			continue
		}
		if out.NewVelocity[joint]/target < 1 {
			return true
		}
	}
	return false
}

// identicalWaypoints reports whether two waypoints are within a tight
// position epsilon of each other across all joints.
func identicalWaypoints(prev, next *trajectory.Waypoint) bool {
	return floats.Distance(prev.Positions, next.Positions, 2) <= identicalPositionEpsilon
}
