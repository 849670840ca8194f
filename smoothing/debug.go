package smoothing

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/FidelitasDefense/FD-Moveit2-Jazzy-Mirror/trajectory"
)

// TrajectorySink receives a copy of the trajectory a smoother is about to
// process, before any modification. Used for offline inspection.
type TrajectorySink interface {
	WriteTrajectory(traj *trajectory.Trajectory) error
}

// CSVSink writes trajectories as CSV, one row per waypoint: the cumulative
// time followed by every joint's position, velocity, and acceleration.
type CSVSink struct {
	w io.Writer
}

// NewCSVSink wraps a writer. The sink does not close it.
func NewCSVSink(w io.Writer) *CSVSink {
	return &CSVSink{w: w}
}

// WriteTrajectory implements TrajectorySink.
func (s *CSVSink) WriteTrajectory(traj *trajectory.Trajectory) error {
	writer := csv.NewWriter(s.w)

	header := []string{"time"}
	for joint := 0; joint < traj.DoF(); joint++ {
		n := strconv.Itoa(joint)
		header = append(header, "position"+n, "velocity"+n, "acceleration"+n)
	}
	if err := writer.Write(header); err != nil {
		return errors.Wrap(err, "writing trajectory header")
	}

	elapsed := 0.0
	for i := 0; i < traj.Len(); i++ {
		wp := traj.Waypoint(i)
		elapsed += wp.DurationFromPrevious
		row := []string{strconv.FormatFloat(elapsed, 'g', -1, 64)}
		for joint := 0; joint < traj.DoF(); joint++ {
			row = append(row,
				strconv.FormatFloat(wp.Positions[joint], 'g', -1, 64),
				strconv.FormatFloat(wp.Velocities[joint], 'g', -1, 64),
				strconv.FormatFloat(wp.Accelerations[joint], 'g', -1, 64),
			)
		}
		if err := writer.Write(row); err != nil {
			return errors.Wrapf(err, "writing waypoint %d", i)
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "flushing trajectory rows")
}
