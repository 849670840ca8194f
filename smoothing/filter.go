package smoothing

import (
	"github.com/pkg/errors"
)

// minFilterCoefficient is the minimum feasible low-pass filter coefficient.
const minFilterCoefficient = 1.0

// lowPassFilter is a first-order Butterworth low-pass filter with a single
// tuning parameter. A higher coefficient means less filtering; unity gain at
// DC is preserved for any coefficient.
type lowPassFilter struct {
	scaleTerm            float64
	feedbackTerm         float64
	previousMeasurements [2]float64
	previousFiltered     float64
}

func newLowPassFilter(coefficient float64) (*lowPassFilter, error) {
	if coefficient < minFilterCoefficient {
		return nil, errors.Errorf("low-pass filter coefficient must be at least %.1f, got %f", minFilterCoefficient, coefficient)
	}
	return &lowPassFilter{
		scaleTerm:    1.0 / (1.0 + coefficient),
		feedbackTerm: (coefficient - 1.0) / (coefficient + 1.0),
	}, nil
}

// Reset seeds the filter history so the next sample is measured against value.
func (f *lowPassFilter) Reset(value float64) {
	f.previousMeasurements[0] = value
	f.previousMeasurements[1] = value
	f.previousFiltered = value
}

// Next pushes one measurement through the filter and returns the filtered value.
func (f *lowPassFilter) Next(x float64) float64 {
	f.previousMeasurements[0] = f.previousMeasurements[1]
	f.previousMeasurements[1] = x

	filtered := f.scaleTerm*(f.previousMeasurements[1]+f.previousMeasurements[0]) + f.feedbackTerm*f.previousFiltered
	f.previousFiltered = filtered
	return filtered
}
