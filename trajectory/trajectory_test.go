package trajectory

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func wp(dur float64, positions ...float64) *Waypoint {
	w := NewWaypoint(len(positions))
	copy(w.Positions, positions)
	w.DurationFromPrevious = dur
	return w
}

func TestAppendAndValidate(t *testing.T) {
	traj := New("arm", 2)
	test.That(t, traj.Len(), test.ShouldEqual, 0)
	test.That(t, traj.GroupName(), test.ShouldEqual, "arm")

	test.That(t, traj.Append(wp(0, 0, 0)), test.ShouldBeNil)
	test.That(t, traj.Append(wp(0.5, 1, -1)), test.ShouldBeNil)
	test.That(t, traj.Len(), test.ShouldEqual, 2)
	test.That(t, traj.Validate(), test.ShouldBeNil)

	// wrong joint count
	test.That(t, traj.Append(wp(0.5, 1)), test.ShouldNotBeNil)
	// negative duration
	test.That(t, traj.Append(wp(-0.1, 1, 2)), test.ShouldNotBeNil)
	test.That(t, traj.Len(), test.ShouldEqual, 2)
}

func TestDurations(t *testing.T) {
	traj := New("arm", 1)
	test.That(t, traj.Append(wp(0, 0)), test.ShouldBeNil)
	test.That(t, traj.Append(wp(0.4, 1)), test.ShouldBeNil)
	test.That(t, traj.Append(wp(0.6, 2)), test.ShouldBeNil)

	test.That(t, traj.TotalDuration(), test.ShouldAlmostEqual, 1.0)
	test.That(t, traj.AverageSegmentDuration(), test.ShouldAlmostEqual, 0.5)

	traj.SetDuration(2, 1.0)
	test.That(t, traj.Duration(2), test.ShouldEqual, 1.0)

	short := New("arm", 1)
	test.That(t, short.AverageSegmentDuration(), test.ShouldEqual, 0.0)
}

func TestCloneIsDeep(t *testing.T) {
	traj := New("arm", 1)
	test.That(t, traj.Append(wp(0, 0)), test.ShouldBeNil)
	test.That(t, traj.Append(wp(0.5, 1)), test.ShouldBeNil)

	c := traj.Clone()
	c.Waypoint(1).Positions[0] = 99
	c.SetDuration(1, 2)
	test.That(t, traj.Waypoint(1).Positions[0], test.ShouldEqual, 1.0)
	test.That(t, traj.Duration(1), test.ShouldEqual, 0.5)
}

func TestCopyFromRestoresSeed(t *testing.T) {
	seed := New("arm", 1)
	test.That(t, seed.Append(wp(0, 0)), test.ShouldBeNil)
	test.That(t, seed.Append(wp(0.5, 1)), test.ShouldBeNil)

	working := seed.Clone()
	working.Waypoint(1).Positions[0] = 42
	working.SetDuration(1, 9)

	working.CopyFrom(seed)
	test.That(t, working.Len(), test.ShouldEqual, 2)
	test.That(t, working.Waypoint(1).Positions[0], test.ShouldEqual, 1.0)
	test.That(t, working.Duration(1), test.ShouldEqual, 0.5)
}

func TestUnwind(t *testing.T) {
	traj := New("arm", 1)
	// pi/2 -> just past -pi, a wraparound jump of ~ -3.3 rad
	test.That(t, traj.Append(wp(0, math.Pi/2)), test.ShouldBeNil)
	test.That(t, traj.Append(wp(0.5, -math.Pi+0.1)), test.ShouldBeNil)
	test.That(t, traj.Append(wp(0.5, -math.Pi+0.2)), test.ShouldBeNil)

	traj.Unwind()
	test.That(t, traj.Waypoint(1).Positions[0], test.ShouldAlmostEqual, math.Pi+0.1)
	test.That(t, traj.Waypoint(2).Positions[0], test.ShouldAlmostEqual, math.Pi+0.2)
	for i := 1; i < traj.Len(); i++ {
		jump := traj.Waypoint(i).Positions[0] - traj.Waypoint(i-1).Positions[0]
		test.That(t, math.Abs(jump), test.ShouldBeLessThan, math.Pi)
	}
}

func TestUnwindNoChangeForContinuousPath(t *testing.T) {
	traj := New("arm", 1)
	test.That(t, traj.Append(wp(0, 0)), test.ShouldBeNil)
	test.That(t, traj.Append(wp(0.5, 1)), test.ShouldBeNil)
	traj.Unwind()
	test.That(t, traj.Waypoint(1).Positions[0], test.ShouldEqual, 1.0)
}

func TestClear(t *testing.T) {
	traj := New("arm", 1)
	test.That(t, traj.Append(wp(0, 0)), test.ShouldBeNil)
	traj.Clear()
	test.That(t, traj.Len(), test.ShouldEqual, 0)
	test.That(t, traj.GroupName(), test.ShouldEqual, "arm")
}
