package smoothing

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestLowPassFilterRejectsBadCoefficient(t *testing.T) {
	_, err := newLowPassFilter(0.9)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = newLowPassFilter(minFilterCoefficient)
	test.That(t, err, test.ShouldBeNil)
}

func TestLowPassFilterUnityDCGain(t *testing.T) {
	filter, err := newLowPassFilter(20)
	test.That(t, err, test.ShouldBeNil)
	filter.Reset(3.0)
	for i := 0; i < 50; i++ {
		test.That(t, filter.Next(3.0), test.ShouldAlmostEqual, 3.0, 1e-12)
	}
}

func TestLowPassFilterStepResponse(t *testing.T) {
	filter, err := newLowPassFilter(2)
	test.That(t, err, test.ShouldBeNil)
	filter.Reset(0)

	prev := 0.0
	for i := 0; i < 200; i++ {
		y := filter.Next(1.0)
		// Monotone rise, never past the input.
		test.That(t, y, test.ShouldBeGreaterThanOrEqualTo, prev)
		test.That(t, y, test.ShouldBeLessThanOrEqualTo, 1.0)
		prev = y
	}
	test.That(t, prev, test.ShouldAlmostEqual, 1.0, 1e-9)
}

func TestLowPassFilterSmoothsANoisySignal(t *testing.T) {
	filter, err := newLowPassFilter(4)
	test.That(t, err, test.ShouldBeNil)
	filter.Reset(0)

	// A slow ramp with alternating high-frequency noise on top. The filtered
	// step-to-step jumps must be substantially smaller than the raw ones.
	noise := 0.05
	worstRaw, worstFiltered := 0.0, 0.0
	prevRaw, prevFiltered := 0.0, 0.0
	for i := 1; i < 400; i++ {
		raw := 0.001*float64(i) + noise*math.Pow(-1, float64(i))
		filtered := filter.Next(raw)
		worstRaw = math.Max(worstRaw, math.Abs(raw-prevRaw))
		worstFiltered = math.Max(worstFiltered, math.Abs(filtered-prevFiltered))
		prevRaw, prevFiltered = raw, filtered
	}
	test.That(t, worstFiltered, test.ShouldBeLessThan, worstRaw/2)
}
