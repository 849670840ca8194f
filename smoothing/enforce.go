package smoothing

import (
	"math"

	"github.com/pkg/errors"

	"github.com/FidelitasDefense/FD-Moveit2-Jazzy-Mirror/robotmodel"
	"github.com/FidelitasDefense/FD-Moveit2-Jazzy-Mirror/utils"
)

// EnforceVelocityLimits scales a vector of position deltas so that no joint
// exceeds its declared velocity bound over one control period. The scale is
// uniform across joints, preserving the direction of motion: the joint that
// is proportionally most over its limit dictates the slowdown. Joints
// without a declared bound never constrain the result. The returned slice
// is newly allocated.
func EnforceVelocityLimits(group *robotmodel.JointGroup, period float64, deltas []float64) ([]float64, error) {
	if period <= 0 {
		return nil, errors.Errorf("control period must be positive, got %f", period)
	}
	if len(deltas) != group.DoF() {
		return nil, errors.Errorf("group %q has %d joints but got %d deltas", group.Name(), group.DoF(), len(deltas))
	}

	scale := 1.0
	for i, d := range deltas {
		b := group.Bounds(i)
		if !b.VelocityBounded {
			continue
		}
		velocity := d / period
		bounded := utils.Clamp(velocity, -b.MaxVelocity, b.MaxVelocity)
		if bounded != velocity && math.Abs(velocity) > 0 {
			scale = math.Min(scale, bounded/velocity)
		}
	}

	out := make([]float64, len(deltas))
	for i, d := range deltas {
		out[i] = d * scale
	}
	return out, nil
}
