// Package mel provides mel scale frequency conversions (HTK formula) and
// mel-spaced frequency grids for filterbank initialization.
package mel

import (
	"fmt"
	"math"
)

// HzToMel converts frequency in Hz to the mel scale.
func HzToMel(hz float64) float64 {
	return 2595 * math.Log10(1+hz/700)
}

// MelToHz converts frequency in the mel scale to Hz.
func MelToHz(mel float64) float64 {
	return 700 * (math.Pow(10, mel/2595) - 1)
}

// Points returns n frequencies in Hz, equally spaced on the mel scale
// between minHz and maxHz inclusive.
func Points(minHz, maxHz float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("mel: need at least 2 points, got %d", n)
	}

	if minHz < 0 || maxHz <= minHz {
		return nil, fmt.Errorf("mel: invalid frequency range %.2f-%.2f Hz", minHz, maxHz)
	}

	lo := HzToMel(minHz)
	hi := HzToMel(maxHz)
	step := (hi - lo) / float64(n-1)

	out := make([]float64, n)
	for i := range out {
		out[i] = MelToHz(lo + float64(i)*step)
	}

	// Pin the endpoints against round-off drift.
	out[0] = minHz
	out[n-1] = maxHz

	return out, nil
}
