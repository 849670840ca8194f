package jerklimited

import (
	"math"

	"github.com/FidelitasDefense/FD-Moveit2-Jazzy-Mirror/utils"
)

type jointOutcome int

const (
	jointWorking jointOutcome = iota
	jointReached
	jointReachedWithDeviation
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// targetFeasible reports whether the target state can ever be held within
// the joint's limits. A target velocity or acceleration beyond the limit can
// never be reached no matter how much time is available.
func targetFeasible(tgt, cur State, lim Limits) bool {
	for _, v := range []float64{tgt.Position, tgt.Velocity, tgt.Acceleration, cur.Position, cur.Velocity, cur.Acceleration} {
		if !finite(v) {
			return false
		}
	}
	const slack = 1e-9
	if math.Abs(tgt.Velocity) > lim.Velocity*(1+slack) {
		return false
	}
	if math.Abs(tgt.Acceleration) > lim.Acceleration*(1+slack) {
		return false
	}
	return true
}

// stepJoint advances one joint by dt toward tgt.
//
// The velocity command follows a braking envelope: the joint may only move
// as fast as still allows it to decelerate to the target velocity by the
// time it arrives. The acceleration command is additionally enveloped so the
// velocity can be leveled off within the jerk limit before hitting the
// velocity bound, then slewed at most jerk*dt from the previous
// acceleration. Position integrates trapezoidally.
func stepJoint(cur, tgt State, lim Limits, dt, tol float64) (State, jointOutcome) {
	dp := tgt.Position - cur.Position

	// The goal position and velocity are reachable within this single step:
	// land on them. The acceleration follows as closely as the jerk limit
	// allows; an acceleration residual counts as a deviation, not a miss.
	if math.Abs(dp) <= math.Abs(cur.Velocity)*dt+0.5*lim.Acceleration*dt*dt &&
		math.Abs(tgt.Velocity-cur.Velocity) <= lim.Acceleration*dt {
		a := slewToward(cur.Acceleration, tgt.Acceleration, lim.Jerk*dt)
		if a == tgt.Acceleration {
			return tgt, jointReached
		}
		return State{Position: tgt.Position, Velocity: tgt.Velocity, Acceleration: a}, jointReachedWithDeviation
	}

	// Already at the goal position but the arrival velocity or acceleration
	// cannot be matched this step: hold position, slew toward the rest.
	if math.Abs(dp) <= tol {
		a := slewToward(cur.Acceleration, tgt.Acceleration, lim.Jerk*dt)
		v := slewToward(cur.Velocity, tgt.Velocity, lim.Acceleration*dt)
		return State{Position: tgt.Position, Velocity: v, Acceleration: a}, jointReachedWithDeviation
	}

	dir := utils.Sign(dp)

	// Velocity envelope: fast enough to make progress, never faster than the
	// braking distance to the target allows. The margin covers the distance
	// spent ramping the deceleration in at the jerk limit.
	margin := math.Abs(cur.Velocity) * lim.Acceleration / lim.Jerk
	vAllow := math.Sqrt(utils.Square(tgt.Velocity) + 2*lim.Acceleration*math.Max(0, math.Abs(dp)-margin))
	// Close the remaining gap in one step when it is small, but never slow
	// below the requested arrival velocity.
	vNeed := math.Max(math.Abs(dp)/dt, math.Abs(tgt.Velocity))
	vDes := dir * math.Min(math.Min(lim.Velocity, vAllow), vNeed)

	// Acceleration toward the velocity setpoint, ramping out within the jerk
	// limit as the setpoint is approached.
	dv := vDes - cur.Velocity
	aDes := utils.Sign(dv) * math.Min(math.Abs(dv)/dt,
		math.Min(lim.Acceleration, math.Sqrt(2*lim.Jerk*math.Abs(dv))))

	// Acceleration envelope: leave room to ramp acceleration back to zero
	// before the velocity bound is hit.
	aUp := math.Sqrt(2*lim.Jerk*math.Max(0, lim.Velocity-cur.Velocity)) - lim.Jerk*dt
	aDown := math.Sqrt(2*lim.Jerk*math.Max(0, lim.Velocity+cur.Velocity)) - lim.Jerk*dt
	aDes = utils.Clamp(aDes, -math.Max(0, aDown), math.Max(0, aUp))

	a := slewToward(cur.Acceleration, aDes, lim.Jerk*dt)
	v := cur.Velocity + a*dt
	if math.Abs(v) > lim.Velocity {
		v = utils.Clamp(v, -lim.Velocity, lim.Velocity)
		a = (v - cur.Velocity) / dt
	}
	p := cur.Position + 0.5*(cur.Velocity+v)*dt
	return State{Position: p, Velocity: v, Acceleration: a}, jointWorking
}

// slewToward moves cur toward want by at most maxDelta.
func slewToward(cur, want, maxDelta float64) float64 {
	return utils.Clamp(want, cur-maxDelta, cur+maxDelta)
}
