package smoothing

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"
)

func TestCSVSinkWritesWaypointRows(t *testing.T) {
	traj := makeTrajectory(t, [][]float64{{0, 0}, {0.1, 0.2}, {0.2, 0.4}}, 0.5)
	traj.Waypoint(1).Velocities[0] = 1.5

	var buf bytes.Buffer
	sink := NewCSVSink(&buf)
	test.That(t, sink.WriteTrajectory(traj), test.ShouldBeNil)

	records, err := csv.NewReader(&buf).ReadAll()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, records, test.ShouldHaveLength, 4)
	test.That(t, records[0], test.ShouldResemble,
		[]string{"time", "position0", "velocity0", "acceleration0", "position1", "velocity1", "acceleration1"})
	// One row per waypoint with cumulative time in the first column.
	test.That(t, records[1][0], test.ShouldEqual, "0")
	test.That(t, records[2][0], test.ShouldEqual, "0.5")
	test.That(t, records[3][0], test.ShouldEqual, "1")
	test.That(t, records[2][2], test.ShouldEqual, "1.5")
}

func TestSegmentSmootherWritesSeedToSink(t *testing.T) {
	logger := golog.NewTestLogger(t)
	model := makeArmModel(t, boundedJoint(2, 10, 40))

	var buf bytes.Buffer
	s, err := New(Config{Type: TypeSegment, Sink: NewCSVSink(&buf)}, model, logger)
	test.That(t, err, test.ShouldBeNil)

	traj := makeTrajectory(t, [][]float64{{0}, {1}}, 0.5)
	test.That(t, s.ApplySmoothing(context.Background(), traj, 1, 1), test.ShouldBeNil)

	// The sink sees the seed trajectory, not the smoothed samples.
	records, err := csv.NewReader(&buf).ReadAll()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, records, test.ShouldHaveLength, 3)
}
