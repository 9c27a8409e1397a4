package vecmath

import (
	"math"
	"testing"
)

func TestDotProduct(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{4, 5, 6}

	if got := DotProduct(a, b); got != 32 {
		t.Errorf("DotProduct = %v, want 32", got)
	}

	// Shorter slice bounds the sum.
	if got := DotProduct(a, b[:2]); got != 14 {
		t.Errorf("DotProduct short = %v, want 14", got)
	}

	if got := DotProduct(nil, b); got != 0 {
		t.Errorf("DotProduct nil = %v, want 0", got)
	}
}

func TestScaleBlock(t *testing.T) {
	src := []float64{1, -2, 3}
	dst := make([]float64, 3)

	ScaleBlock(dst, src, 2)

	want := []float64{2, -4, 6}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}

	ScaleBlockInPlace(dst, 0.5)
	for i := range src {
		if dst[i] != src[i] {
			t.Errorf("in-place dst[%d] = %v, want %v", i, dst[i], src[i])
		}
	}
}

func TestAddMulBlockInPlace(t *testing.T) {
	dst := []float64{1, 1, 1}
	AddBlockInPlace(dst, []float64{1, 2, 3})

	for i, want := range []float64{2, 3, 4} {
		if dst[i] != want {
			t.Errorf("add dst[%d] = %v, want %v", i, dst[i], want)
		}
	}

	MulBlockInPlace(dst, []float64{2, 0, 1})
	for i, want := range []float64{4, 0, 4} {
		if dst[i] != want {
			t.Errorf("mul dst[%d] = %v, want %v", i, dst[i], want)
		}
	}
}

func TestMaxAbs(t *testing.T) {
	if got := MaxAbs([]float64{1, -5, 3}); got != 5 {
		t.Errorf("MaxAbs = %v, want 5", got)
	}

	if got := MaxAbs(nil); got != 0 {
		t.Errorf("MaxAbs nil = %v, want 0", got)
	}

	if got := MaxAbs([]float64{math.Inf(-1)}); !math.IsInf(got, 1) {
		t.Errorf("MaxAbs -Inf = %v, want +Inf", got)
	}
}
