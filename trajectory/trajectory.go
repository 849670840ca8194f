// Package trajectory provides the mutable joint-space trajectory container
// consumed and rewritten by the smoothing strategies. A trajectory is an
// ordered sequence of waypoints, each carrying per-joint position, velocity,
// and acceleration plus the time elapsed since the previous waypoint.
package trajectory

import (
	"math"

	"github.com/pkg/errors"
)

// NewIncorrectDoFError is used when a waypoint's joint count does not match the trajectory.
func NewIncorrectDoFError(actual, expected int) error {
	return errors.Errorf("waypoint has %d joints, trajectory expects %d", actual, expected)
}

// Waypoint is one sampled point of a trajectory. Revolute values are in
// radians, durations in seconds.
type Waypoint struct {
	Positions            []float64
	Velocities           []float64
	Accelerations        []float64
	DurationFromPrevious float64
}

// NewWaypoint allocates a zeroed waypoint for the given number of joints.
func NewWaypoint(dof int) *Waypoint {
	return &Waypoint{
		Positions:     make([]float64, dof),
		Velocities:    make([]float64, dof),
		Accelerations: make([]float64, dof),
	}
}

// Clone returns a deep copy of the waypoint.
func (w *Waypoint) Clone() *Waypoint {
	c := &Waypoint{
		Positions:            make([]float64, len(w.Positions)),
		Velocities:           make([]float64, len(w.Velocities)),
		Accelerations:        make([]float64, len(w.Accelerations)),
		DurationFromPrevious: w.DurationFromPrevious,
	}
	copy(c.Positions, w.Positions)
	copy(c.Velocities, w.Velocities)
	copy(c.Accelerations, w.Accelerations)
	return c
}

func (w *Waypoint) validate(dof int) error {
	if len(w.Positions) != dof {
		return NewIncorrectDoFError(len(w.Positions), dof)
	}
	if len(w.Velocities) != dof {
		return NewIncorrectDoFError(len(w.Velocities), dof)
	}
	if len(w.Accelerations) != dof {
		return NewIncorrectDoFError(len(w.Accelerations), dof)
	}
	if w.DurationFromPrevious < 0 || math.IsNaN(w.DurationFromPrevious) {
		return errors.Errorf("waypoint duration must be non-negative, got %f", w.DurationFromPrevious)
	}
	return nil
}

// Trajectory is an ordered, mutable, caller-owned sequence of waypoints
// associated with a named joint group on a robot model.
type Trajectory struct {
	groupName string
	dof       int
	waypoints []*Waypoint
}

// New creates an empty trajectory for the given joint group and joint count.
func New(groupName string, dof int) *Trajectory {
	return &Trajectory{groupName: groupName, dof: dof}
}

// GroupName returns the name of the associated joint group. It may be empty
// if the planner that produced the trajectory never set one.
func (t *Trajectory) GroupName() string {
	return t.groupName
}

// DoF returns the number of joints per waypoint.
func (t *Trajectory) DoF() int {
	return t.dof
}

// Len returns the waypoint count.
func (t *Trajectory) Len() int {
	return len(t.waypoints)
}

// Waypoint returns the i-th waypoint. The returned value aliases the
// trajectory's storage; mutations are visible to the container.
func (t *Trajectory) Waypoint(i int) *Waypoint {
	return t.waypoints[i]
}

// SetWaypoint replaces the i-th waypoint.
func (t *Trajectory) SetWaypoint(i int, w *Waypoint) error {
	if err := w.validate(t.dof); err != nil {
		return err
	}
	t.waypoints[i] = w
	return nil
}

// Duration returns the i-th waypoint's duration from the previous waypoint.
func (t *Trajectory) Duration(i int) float64 {
	return t.waypoints[i].DurationFromPrevious
}

// SetDuration overwrites the i-th waypoint's duration from the previous waypoint.
func (t *Trajectory) SetDuration(i int, d float64) {
	t.waypoints[i].DurationFromPrevious = d
}

// Append adds a waypoint to the end of the trajectory.
func (t *Trajectory) Append(w *Waypoint) error {
	if err := w.validate(t.dof); err != nil {
		return err
	}
	t.waypoints = append(t.waypoints, w)
	return nil
}

// Clear removes all waypoints, keeping the group association.
func (t *Trajectory) Clear() {
	t.waypoints = t.waypoints[:0]
}

// Clone returns a deep copy of the trajectory.
func (t *Trajectory) Clone() *Trajectory {
	c := &Trajectory{groupName: t.groupName, dof: t.dof, waypoints: make([]*Waypoint, 0, len(t.waypoints))}
	for _, w := range t.waypoints {
		c.waypoints = append(c.waypoints, w.Clone())
	}
	return c
}

// CopyFrom replaces this trajectory's waypoints with deep copies of the
// other's. Used to restore a seed trajectory before a retry.
func (t *Trajectory) CopyFrom(other *Trajectory) {
	t.groupName = other.groupName
	t.dof = other.dof
	t.waypoints = t.waypoints[:0]
	for _, w := range other.waypoints {
		t.waypoints = append(t.waypoints, w.Clone())
	}
}

// Unwind removes 2pi-modular discontinuities from every joint so that
// interpolation sees a continuous path. The first waypoint anchors each
// joint; later positions are shifted by whole revolutions to stay within
// pi of their predecessor.
func (t *Trajectory) Unwind() {
	if len(t.waypoints) < 2 {
		return
	}
	for joint := 0; joint < t.dof; joint++ {
		offset := 0.0
		for i := 1; i < len(t.waypoints); i++ {
			prev := t.waypoints[i-1].Positions[joint]
			cur := t.waypoints[i].Positions[joint] + offset
			for cur-prev > math.Pi {
				offset -= 2 * math.Pi
				cur -= 2 * math.Pi
			}
			for prev-cur > math.Pi {
				offset += 2 * math.Pi
				cur += 2 * math.Pi
			}
			t.waypoints[i].Positions[joint] = cur
		}
	}
}

// TotalDuration returns the sum of all waypoint durations.
func (t *Trajectory) TotalDuration() float64 {
	total := 0.0
	for _, w := range t.waypoints {
		total += w.DurationFromPrevious
	}
	return total
}

// AverageSegmentDuration returns the mean duration of the spans between
// consecutive waypoints, or 0 for trajectories with fewer than 2 waypoints.
func (t *Trajectory) AverageSegmentDuration() float64 {
	if len(t.waypoints) < 2 {
		return 0
	}
	total := 0.0
	for i := 1; i < len(t.waypoints); i++ {
		total += t.waypoints[i].DurationFromPrevious
	}
	return total / float64(len(t.waypoints)-1)
}

// Validate checks internal consistency: every waypoint matches the
// trajectory's joint count and carries a non-negative duration.
func (t *Trajectory) Validate() error {
	for i, w := range t.waypoints {
		if err := w.validate(t.dof); err != nil {
			return errors.Wrapf(err, "waypoint %d", i)
		}
	}
	return nil
}
