// Package smoothing re-time-parameterizes joint-space trajectories so they
// respect per-joint velocity, acceleration, and jerk limits while preserving
// the start and end conditions and converging toward the original path
// shape. Two independent strategies exist for the same problem: a
// segment-wise jerk-limited generator with a low-pass post-pass, and an
// online jerk-limited filter that retries with extended segment durations
// when it cannot find a feasible timing. A standalone per-sample velocity
// enforcer and an incremental step filter share the same bounds contract.
package smoothing

import (
	"context"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/FidelitasDefense/FD-Moveit2-Jazzy-Mirror/jerklimited"
	"github.com/FidelitasDefense/FD-Moveit2-Jazzy-Mirror/robotmodel"
	"github.com/FidelitasDefense/FD-Moveit2-Jazzy-Mirror/trajectory"
)

// Type selects a concrete smoothing strategy at construction.
type Type string

// The available smoothing strategies.
const (
	TypeSegment     Type = "segment"
	TypeOnline      Type = "online"
	TypeLowPass     Type = "lowpass"
	TypePassThrough Type = "passthrough"
)

// DefaultFilterCoefficient tunes the low-pass post-pass; higher means less filtering.
const DefaultFilterCoefficient = 20.0

// Smoother rewrites a trajectory in place into a kinematically feasible one.
// The trajectory is owned exclusively by the caller for the duration of the
// call; implementations hold no state across calls and must leave the
// trajectory internally consistent on every exit path.
type Smoother interface {
	ApplySmoothing(ctx context.Context, traj *trajectory.Trajectory, velocityScale, accelerationScale float64) error
}

// Config selects and tunes a smoothing strategy.
type Config struct {
	Type Type
	// Timestep is the fixed sample period of the segment strategy in
	// seconds; zero selects the 1 ms default.
	Timestep float64
	// PositionTolerance is the convergence window in radians; zero selects
	// the default.
	PositionTolerance float64
	// FilterCoefficient tunes the low-pass passes; zero selects the default.
	FilterCoefficient float64
	// Sink optionally receives reference trajectories for offline analysis.
	Sink TrajectorySink
}

// Validate checks the config for structural problems.
func (c Config) Validate() error {
	switch c.Type {
	case TypeSegment, TypeOnline, TypeLowPass, TypePassThrough:
	default:
		return errors.Errorf("unknown smoothing type %q", c.Type)
	}
	if c.Timestep < 0 {
		return errors.Errorf("timestep cannot be negative, got %f", c.Timestep)
	}
	if c.FilterCoefficient != 0 && c.FilterCoefficient < minFilterCoefficient {
		return errors.Errorf("filter coefficient must be at least %.1f, got %f", minFilterCoefficient, c.FilterCoefficient)
	}
	return nil
}

// New builds the strategy named by the config. The model supplies per-joint
// bounds and is required by the segment and online strategies.
func New(cfg Config, model *robotmodel.Model, logger golog.Logger) (Smoother, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Timestep == 0 {
		cfg.Timestep = jerklimited.DefaultTimestep
	}
	if cfg.PositionTolerance == 0 {
		cfg.PositionTolerance = jerklimited.DefaultPositionTolerance
	}
	if cfg.FilterCoefficient == 0 {
		cfg.FilterCoefficient = DefaultFilterCoefficient
	}

	switch cfg.Type {
	case TypePassThrough:
		return &PassThroughSmoother{}, nil
	case TypeLowPass:
		return &LowPassSmoother{filterCoefficient: cfg.FilterCoefficient, logger: logger}, nil
	case TypeSegment:
		if model == nil {
			return nil, robotmodel.ErrNoModelInformation
		}
		return &SegmentSmoother{
			model:             model,
			timestep:          cfg.Timestep,
			positionTolerance: cfg.PositionTolerance,
			filterCoefficient: cfg.FilterCoefficient,
			sink:              cfg.Sink,
			logger:            logger,
		}, nil
	case TypeOnline:
		if model == nil {
			return nil, robotmodel.ErrNoModelInformation
		}
		return &OnlineSmoother{model: model, logger: logger}, nil
	default:
		return nil, errors.Errorf("unknown smoothing type %q", cfg.Type)
	}
}

// groupForTrajectory resolves a trajectory's associated joint group on the
// model and checks the joint counts line up.
func groupForTrajectory(model *robotmodel.Model, traj *trajectory.Trajectory) (*robotmodel.JointGroup, error) {
	if traj.GroupName() == "" {
		return nil, ErrNoJointGroup
	}
	group, err := model.JointGroup(traj.GroupName())
	if err != nil {
		return nil, err
	}
	if traj.DoF() != group.DoF() {
		return nil, NewGroupDoFMismatchError(traj.DoF(), group.DoF())
	}
	return group, nil
}
