package robotmodel

import (
	"testing"

	"go.viam.com/test"
)

func vb(vel, acc float64) VariableBounds {
	return VariableBounds{
		VelocityBounded: true, MaxVelocity: vel,
		AccelerationBounded: true, MaxAcceleration: acc,
	}
}

func TestNewJointGroup(t *testing.T) {
	g, err := NewJointGroup("arm", []string{"shoulder", "elbow"}, []VariableBounds{vb(2, 10), vb(3, 8)})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g.DoF(), test.ShouldEqual, 2)
	test.That(t, g.Name(), test.ShouldEqual, "arm")
	test.That(t, g.Bounds(1).MaxVelocity, test.ShouldEqual, 3.0)
	test.That(t, g.Bounds(0).JerkBounded, test.ShouldBeFalse)

	_, err = NewJointGroup("empty", nil, nil)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewJointGroup("mismatch", []string{"a"}, []VariableBounds{vb(1, 1), vb(1, 1)})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestModelGroupLookup(t *testing.T) {
	g, err := NewJointGroup("arm", []string{"j0"}, []VariableBounds{vb(1, 1)})
	test.That(t, err, test.ShouldBeNil)
	m, err := NewModel("robot", g)
	test.That(t, err, test.ShouldBeNil)

	got, err := m.JointGroup("arm")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldEqual, g)

	_, err = m.JointGroup("legs")
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewModel("dup", g, g)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestUnmarshalModelJSON(t *testing.T) {
	jsonData := []byte(`{
		"name": "testbot",
		"groups": [{
			"name": "arm",
			"joints": [
				{"id": "j0", "max_velocity": 2.0, "max_acceleration": 10.0, "max_jerk": 40.0},
				{"id": "j1", "max_velocity": 1.5},
				{"id": "j2"}
			]
		}]
	}`)
	m, err := UnmarshalModelJSON(jsonData, "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Name(), test.ShouldEqual, "testbot")

	g, err := m.JointGroup("arm")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g.DoF(), test.ShouldEqual, 3)
	test.That(t, g.Bounds(0).JerkBounded, test.ShouldBeTrue)
	test.That(t, g.Bounds(0).MaxJerk, test.ShouldEqual, 40.0)
	test.That(t, g.Bounds(1).VelocityBounded, test.ShouldBeTrue)
	test.That(t, g.Bounds(1).AccelerationBounded, test.ShouldBeFalse)
	test.That(t, g.Bounds(2).VelocityBounded, test.ShouldBeFalse)
}

func TestUnmarshalModelJSONErrors(t *testing.T) {
	_, err := UnmarshalModelJSON(nil, "")
	test.That(t, err, test.ShouldEqual, ErrNoModelInformation)

	_, err = UnmarshalModelJSON([]byte(`{"name": "x"}`), "")
	test.That(t, err, test.ShouldEqual, ErrNoModelInformation)

	_, err = UnmarshalModelJSON([]byte(`not json`), "")
	test.That(t, err, test.ShouldNotBeNil)

	// negative limit
	_, err = UnmarshalModelJSON([]byte(`{
		"groups": [{"name": "arm", "joints": [{"id": "j0", "max_velocity": -1.0}]}]
	}`), "")
	test.That(t, err, test.ShouldNotBeNil)

	// duplicate joint
	_, err = UnmarshalModelJSON([]byte(`{
		"groups": [{"name": "arm", "joints": [{"id": "j0"}, {"id": "j0"}]}]
	}`), "")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestModelNameOverride(t *testing.T) {
	m, err := UnmarshalModelJSON([]byte(`{
		"name": "original",
		"groups": [{"name": "arm", "joints": [{"id": "j0"}]}]
	}`), "override")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Name(), test.ShouldEqual, "override")
}
