package smoothing

import (
	"context"
	"math"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/FidelitasDefense/FD-Moveit2-Jazzy-Mirror/jerklimited"
	"github.com/FidelitasDefense/FD-Moveit2-Jazzy-Mirror/robotmodel"
	"github.com/FidelitasDefense/FD-Moveit2-Jazzy-Mirror/trajectory"
	"github.com/FidelitasDefense/FD-Moveit2-Jazzy-Mirror/utils"
)

const (
	// Slack granted to the per-span generator to find a feasible profile.
	maxDurationFactor = 100.0
	// Bounded escalation of the post-pass filter coefficient.
	maxFilterEscalations = 3
)

// SegmentSmoother smooths a trajectory one waypoint span at a time with a
// bounded-horizon jerk-limited generator, then runs an iterative low-pass
// pass over the concatenated samples to remove residual numerical
// discontinuities. A failed span aborts the whole call; retry lives in the
// online strategy, not here.
type SegmentSmoother struct {
	model             *robotmodel.Model
	timestep          float64
	positionTolerance float64
	filterCoefficient float64
	sink              TrajectorySink
	logger            golog.Logger
}

// ApplySmoothing implements Smoother. On success the trajectory's waypoint
// sequence is replaced with the fixed-timestep smoothed samples; on failure
// the trajectory keeps its (unwound) seed waypoints.
func (s *SegmentSmoother) ApplySmoothing(
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
	dof := traj.DoF()

	// The interpolation cannot handle angle wraparound.
	traj.Unwind()

	if s.sink != nil {
		if err := s.sink.WriteTrajectory(traj); err != nil {
			s.logger.Warnw("trajectory sink write failed", "error", err)
		}
	}

	generator, err := jerklimited.NewGenerator(dof, s.timestep, s.positionTolerance)
	if err != nil {
		return err
	}

	outgoing := trajectory.New(traj.GroupName(), dof)
	first := traj.Waypoint(0).Clone()
	if err := outgoing.Append(first); err != nil {
		return err
	}

	current := waypointStates(traj.Waypoint(0))
	for span := 0; span < traj.Len()-1; span++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		goal := waypointStates(traj.Waypoint(span + 1))
		desired := traj.Duration(span + 1)

		profile, err := generator.Generate(current, goal, limits, desired, maxDurationFactor*desired)
		if err != nil {
			return errors.Wrapf(err, "span %d", span)
		}

		// The span start is already the trajectory's last point.
		for sample := 1; sample < profile.Len(); sample++ {
			wp := trajectory.NewWaypoint(dof)
			for joint := 0; joint < dof; joint++ {
				wp.Positions[joint] = profile.Positions[joint][sample]
				wp.Velocities[joint] = profile.Velocities[joint][sample]
				wp.Accelerations[joint] = profile.Accelerations[joint][sample]
			}
			wp.DurationFromPrevious = s.timestep
			if err := outgoing.Append(wp); err != nil {
				return err
			}
		}
		for joint := 0; joint < dof; joint++ {
			current[joint] = profile.Final(joint)
		}
	}

	// A very small numerical mismatch between span boundaries can cause a
	// large jerk spike; filter it out before handing the trajectory back.
	if err := s.applyIterativeLowPass(outgoing, limits); err != nil {
		return err
	}

	s.logger.Debugw("segment smoothing complete",
		"input waypoints", traj.Len(), "output waypoints", outgoing.Len())
	traj.CopyFrom(outgoing)
	return nil
}

// applyIterativeLowPass runs a first-order low-pass filter over each joint's
// position samples. If filtering introduces a position jump beyond what the
// joint's limits allow in one timestep, the filter coefficient is doubled
// and the joint is re-filtered from the raw samples; a bounded number of
// escalations later the violation becomes an error.
func (s *SegmentSmoother) applyIterativeLowPass(traj *trajectory.Trajectory, limits []jerklimited.Limits) error {
	dt := s.timestep
	for joint := range limits {
		lim := limits[joint]
		maxDiscontinuity := lim.Velocity*dt + 0.5*lim.Acceleration*utils.Square(dt) + lim.Jerk*utils.Cube(dt)/6

		raw := make([]float64, traj.Len())
		for i := range raw {
			raw[i] = traj.Waypoint(i).Positions[joint]
		}

		coefficient := s.filterCoefficient
		var filtered []float64
		for attempt := 0; ; attempt++ {
			var worst float64
			filtered, worst = filterJointPositions(raw, coefficient)
			if worst <= maxDiscontinuity {
				break
			}
			if attempt == maxFilterEscalations {
				return NewDiscontinuityError(joint, worst, maxDiscontinuity)
			}
			s.logger.Warnw("position discontinuity after filtering, escalating coefficient",
				"joint", joint, "discontinuity", worst, "max", maxDiscontinuity, "coefficient", coefficient)
			coefficient *= 2
		}

		for i := 1; i < traj.Len(); i++ {
			traj.Waypoint(i).Positions[joint] = filtered[i]
		}
	}
	return nil
}

// filterJointPositions low-passes one joint's samples, seeded with the first
// sample, and reports the worst step-to-step discontinuity introduced.
func filterJointPositions(raw []float64, coefficient float64) ([]float64, float64) {
	filter, err := newLowPassFilter(coefficient)
	if err != nil {
		// escalation only ever raises the coefficient
		panic(err)
	}
	filter.Reset(raw[0])

	filtered := make([]float64, len(raw))
	filtered[0] = raw[0]
	worst := 0.0
	for i := 1; i < len(raw); i++ {
		filtered[i] = filter.Next(raw[i])
		worst = math.Max(worst, math.Abs(filtered[i]-filtered[i-1]))
	}
	return filtered, worst
}

// waypointStates copies a waypoint into per-joint kinematic states.
func waypointStates(w *trajectory.Waypoint) []jerklimited.State {
	states := make([]jerklimited.State, len(w.Positions))
	for joint := range states {
		states[joint] = jerklimited.State{
			Position:     w.Positions[joint],
			Velocity:     w.Velocities[joint],
			Acceleration: w.Accelerations[joint],
		}
	}
	return states
}
