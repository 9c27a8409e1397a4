package sinc

import (
	"math"
	"math/cmplx"

	"github.com/Betciso/speechbrain/dsp/core"
)

// Response computes the complex frequency response H(e^{-jw}) of FIR
// coefficients at the given frequency (Hz) and sample rate (Hz).
func Response(coeffs []float64, freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate

	var h complex128
	for k, c := range coeffs {
		h += complex(c, 0) * cmplx.Exp(complex(0, -w*float64(k)))
	}

	return h
}

// MagnitudeDB returns the magnitude response in dB at the given frequency.
func MagnitudeDB(coeffs []float64, freqHz, sampleRate float64) float64 {
	return core.LinearToDB(cmplx.Abs(Response(coeffs, freqHz, sampleRate)))
}
