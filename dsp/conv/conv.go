// Package conv provides single-channel linear convolution primitives.
//
// Two strategies are offered:
//
//   - Direct convolution: O(N*M) time-domain convolution for short kernels
//   - Overlap-add (OLA): FFT-based block convolution for long kernels
//
// [Convolve] selects between them automatically by kernel length. For
// repeated convolution with the same kernel, create a reusable [OverlapAdd]
// to amortize the FFT plan and kernel transform.
package conv

import (
	"errors"

	"github.com/Betciso/speechbrain/internal/vecmath"
)

// Errors returned by convolution functions.
var (
	ErrEmptyInput  = errors.New("conv: empty input")
	ErrEmptyKernel = errors.New("conv: empty kernel")
)

// Mode specifies the output mode for convolution.
type Mode int

const (
	// ModeFull returns the full convolution result with length len(a)+len(b)-1.
	ModeFull Mode = iota

	// ModeSame returns output with the same length as the first input.
	ModeSame

	// ModeValid returns only the portion where the signals fully overlap,
	// with length max(len(a), len(b)) - min(len(a), len(b)) + 1.
	ModeValid
)

// directThreshold is the kernel length at which FFT-based convolution
// overtakes the direct form.
const directThreshold = 64

// Direct performs direct time-domain linear convolution of a and b.
// Returns a new slice of length len(a) + len(b) - 1.
func Direct(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}

	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	result := make([]float64, len(a)+len(b)-1)
	DirectTo(result, a, b)

	return result, nil
}

// DirectTo performs direct convolution, writing to a pre-allocated
// destination. dst must have length len(a) + len(b) - 1.
func DirectTo(dst, a, b []float64) {
	for i := range dst {
		dst[i] = 0
	}

	m := len(b)
	if m >= 4 {
		// Vectorizable form: scale the kernel by each input sample and
		// accumulate into the sliding destination window.
		temp := make([]float64, m)

		for i, x := range a {
			vecmath.ScaleBlock(temp, b, x)
			vecmath.AddBlockInPlace(dst[i:i+m], temp)
		}

		return
	}

	for i, x := range a {
		for j, h := range b {
			dst[i+j] += x * h
		}
	}
}

// Convolve performs linear convolution with automatic algorithm selection:
// direct form for kernels shorter than 64 samples, overlap-add otherwise.
func Convolve(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}

	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	// Ensure a is the longer signal.
	if len(b) > len(a) {
		a, b = b, a
	}

	if len(b) < directThreshold {
		return Direct(a, b)
	}

	return OverlapAddConvolve(a, b)
}

// ConvolveMode performs convolution with the specified output mode.
// Trimming is relative to the first argument.
func ConvolveMode(a, b []float64, mode Mode) ([]float64, error) {
	full, err := Convolve(a, b)
	if err != nil {
		return nil, err
	}

	return trimToMode(full, len(a), len(b), mode), nil
}

func trimToMode(full []float64, lenA, lenB int, mode Mode) []float64 {
	switch mode {
	case ModeSame:
		start := (lenB - 1) / 2
		return full[start : start+lenA]
	case ModeValid:
		if lenA >= lenB {
			return full[lenB-1 : lenA]
		}

		return full[lenA-1 : lenB]
	default:
		return full
	}
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}

	return p
}
