// Package utils contains small math helpers shared across the trajectory packages.
package utils

import (
	"math"
)

func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// Math.pow( x, 2 ) is slow, this is faster
func Square(n float64) float64 {
	return n * n
}

// Cube returns n^3 without going through math.Pow.
func Cube(n float64) float64 {
	return n * n * n
}

// Clamp bounds x to [min, max].
func Clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}

// Sign returns -1, 0, or 1 depending on the sign of x.
func Sign(x float64) float64 {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}

// Float64AlmostEqual compares two float64s within the given epsilon.
func Float64AlmostEqual(v, other, epsilon float64) bool {
	return math.Abs(v-other) <= epsilon
}

func AbsInt(n int) int {
	if n < 0 {
		return -1 * n
	}
	return n
}

func MaxInt(a, b int) int {
	if a < b {
		return b
	}
	return a
}

func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
