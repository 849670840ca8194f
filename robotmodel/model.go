// Package robotmodel describes the per-joint kinematic bounds of a robot.
// It is the read-only collaborator the smoothing strategies query for
// symmetric velocity, acceleration, and jerk limits.
package robotmodel

import (
	"github.com/pkg/errors"
)

// ErrNoModelInformation is used when there is no model information.
var ErrNoModelInformation = errors.New("no model information")

// NewGroupNotFoundError is used when a joint group is looked up on a model that does not define it.
func NewGroupNotFoundError(name string) error {
	return errors.Errorf("joint group %q not found in model", name)
}

// VariableBounds holds the declared symmetric limits of one joint. A limit
// only applies when the corresponding Bounded flag is set; an unbounded
// joint is a valid, expected state handled by the caller via defaults.
type VariableBounds struct {
	VelocityBounded     bool
	MaxVelocity         float64
	AccelerationBounded bool
	MaxAcceleration     float64
	JerkBounded         bool
	MaxJerk             float64
}

// JointGroup is an ordered set of joints that move together, e.g. one arm.
type JointGroup struct {
	name   string
	joints []string
	bounds []VariableBounds
}

// NewJointGroup creates a group from parallel joint-name and bounds slices.
func NewJointGroup(name string, joints []string, bounds []VariableBounds) (*JointGroup, error) {
	if len(joints) == 0 {
		return nil, errors.Errorf("joint group %q has no joints", name)
	}
	if len(joints) != len(bounds) {
		return nil, errors.Errorf("joint group %q has %d joints but %d bounds", name, len(joints), len(bounds))
	}
	return &JointGroup{name: name, joints: joints, bounds: bounds}, nil
}

// Name returns the group name.
func (g *JointGroup) Name() string {
	return g.name
}

// DoF returns the number of joints in the group.
func (g *JointGroup) DoF() int {
	return len(g.joints)
}

// Joints returns the joint names, in order.
func (g *JointGroup) Joints() []string {
	return g.joints
}

// Bounds returns the declared bounds of the i-th joint.
func (g *JointGroup) Bounds(i int) VariableBounds {
	return g.bounds[i]
}

// Model is a set of named joint groups with their kinematic bounds.
type Model struct {
	name   string
	groups map[string]*JointGroup
}

// NewModel creates a model from the given groups.
func NewModel(name string, groups ...*JointGroup) (*Model, error) {
	m := &Model{name: name, groups: map[string]*JointGroup{}}
	for _, g := range groups {
		if _, ok := m.groups[g.name]; ok {
			return nil, errors.Errorf("duplicate joint group %q in model %q", g.name, name)
		}
		m.groups[g.name] = g
	}
	return m, nil
}

// Name returns the model name.
func (m *Model) Name() string {
	return m.name
}

// JointGroup looks up a group by name.
func (m *Model) JointGroup(name string) (*JointGroup, error) {
	g, ok := m.groups[name]
	if !ok {
		return nil, NewGroupNotFoundError(name)
	}
	return g, nil
}
