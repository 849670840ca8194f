package smoothing

import (
	"testing"

	"go.viam.com/test"

	"github.com/FidelitasDefense/FD-Moveit2-Jazzy-Mirror/robotmodel"
)

func TestLimitsForGroup(t *testing.T) {
	model := makeArmModel(t,
		boundedJoint(2, 8, 40),
		robotmodel.VariableBounds{}, // nothing declared
	)
	group, err := model.JointGroup(testGroupName)
	test.That(t, err, test.ShouldBeNil)

	limits, err := LimitsForGroup(group, 1, 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, limits, test.ShouldHaveLength, 2)
	test.That(t, limits[0].Velocity, test.ShouldEqual, 2.0)
	test.That(t, limits[0].Acceleration, test.ShouldEqual, 8.0)
	test.That(t, limits[0].Jerk, test.ShouldEqual, 40.0)

	// Undeclared bounds fall back to the defaults.
	test.That(t, limits[1].Velocity, test.ShouldEqual, DefaultMaxVelocity)
	test.That(t, limits[1].Acceleration, test.ShouldEqual, DefaultMaxAcceleration)
	test.That(t, limits[1].Jerk, test.ShouldEqual, DefaultMaxJerk)
}

func TestLimitsForGroupScaling(t *testing.T) {
	model := makeArmModel(t, boundedJoint(2, 8, 40))
	group, err := model.JointGroup(testGroupName)
	test.That(t, err, test.ShouldBeNil)

	limits, err := LimitsForGroup(group, 0.5, 0.25)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, limits[0].Velocity, test.ShouldEqual, 1.0)
	test.That(t, limits[0].Acceleration, test.ShouldEqual, 2.0)
	// Jerk is never scaled.
	test.That(t, limits[0].Jerk, test.ShouldEqual, 40.0)
}

func TestLimitsForGroupBadScales(t *testing.T) {
	model := makeArmModel(t, boundedJoint(2, 8, 40))
	group, err := model.JointGroup(testGroupName)
	test.That(t, err, test.ShouldBeNil)

	for _, scale := range []float64{0, -0.5, 1.5} {
		_, err := LimitsForGroup(group, scale, 1)
		test.That(t, err, test.ShouldNotBeNil)
		_, err = LimitsForGroup(group, 1, scale)
		test.That(t, err, test.ShouldNotBeNil)
	}
}
