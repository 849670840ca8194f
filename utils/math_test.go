package utils

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestDegRadConversion(t *testing.T) {
	test.That(t, DegToRad(0), test.ShouldEqual, 0)
	test.That(t, DegToRad(180), test.ShouldEqual, math.Pi)
	test.That(t, RadToDeg(math.Pi), test.ShouldEqual, 180.0)
	test.That(t, RadToDeg(DegToRad(90)), test.ShouldAlmostEqual, 90.0)
}

func TestClamp(t *testing.T) {
	for _, c := range []struct {
		x, min, max, want float64
	}{
		{1, 0, 2, 1},
		{-1, 0, 2, 0},
		{3, 0, 2, 2},
		{2, 0, 2, 2},
	} {
		test.That(t, Clamp(c.x, c.min, c.max), test.ShouldEqual, c.want)
	}
}

func TestSign(t *testing.T) {
	test.That(t, Sign(1.5), test.ShouldEqual, 1.0)
	test.That(t, Sign(-0.2), test.ShouldEqual, -1.0)
	test.That(t, Sign(0), test.ShouldEqual, 0.0)
}

func TestFloat64AlmostEqual(t *testing.T) {
	test.That(t, Float64AlmostEqual(1.0, 1.0+1e-9, 1e-8), test.ShouldBeTrue)
	test.That(t, Float64AlmostEqual(1.0, 1.1, 1e-8), test.ShouldBeFalse)
}

func TestSquareCube(t *testing.T) {
	test.That(t, Square(3), test.ShouldEqual, 9.0)
	test.That(t, Cube(-2), test.ShouldEqual, -8.0)
}
