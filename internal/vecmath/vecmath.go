// Package vecmath provides portable block operations for the convolution
// hot loops.
package vecmath

import "math"

// DotProduct returns the dot product of a and b: sum(a[i] * b[i]).
// Only the minimum length of the two slices is used.
func DotProduct(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}

	return sum
}

// ScaleBlock computes dst[i] = src[i] * scale.
func ScaleBlock(dst, src []float64, scale float64) {
	for i := range src {
		dst[i] = src[i] * scale
	}
}

// ScaleBlockInPlace computes dst[i] *= scale.
func ScaleBlockInPlace(dst []float64, scale float64) {
	for i := range dst {
		dst[i] *= scale
	}
}

// AddBlockInPlace computes dst[i] += src[i].
func AddBlockInPlace(dst, src []float64) {
	for i := range src {
		dst[i] += src[i]
	}
}

// MulBlockInPlace computes dst[i] *= src[i].
func MulBlockInPlace(dst, src []float64) {
	for i := range src {
		dst[i] *= src[i]
	}
}

// MaxAbs returns the largest absolute value in x, or 0 for an empty slice.
func MaxAbs(x []float64) float64 {
	m := 0.0
	for _, v := range x {
		if a := math.Abs(v); a > m {
			m = a
		}
	}

	return m
}
