package conv

import (
	"errors"
	"math"
	"testing"

	"github.com/Betciso/speechbrain/internal/testutil"
)

func TestDirect(t *testing.T) {
	tests := []struct {
		name     string
		a        []float64
		b        []float64
		expected []float64
	}{
		{
			name:     "simple 3x3",
			a:        []float64{1, 2, 3},
			b:        []float64{1, 1, 1},
			expected: []float64{1, 3, 6, 5, 3},
		},
		{
			name:     "impulse",
			a:        []float64{1, 2, 3, 4, 5},
			b:        []float64{1},
			expected: []float64{1, 2, 3, 4, 5},
		},
		{
			name:     "delayed impulse",
			a:        []float64{1, 2, 3, 4, 5},
			b:        []float64{0, 0, 1},
			expected: []float64{0, 0, 1, 2, 3, 4, 5},
		},
		{
			name:     "symmetric",
			a:        []float64{1, 2, 1},
			b:        []float64{1, 2, 1},
			expected: []float64{1, 4, 6, 4, 1},
		},
		{
			name:     "kernel longer than 4 taps",
			a:        []float64{1, 0, 0},
			b:        []float64{1, 2, 3, 4, 5},
			expected: []float64{1, 2, 3, 4, 5, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Direct(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			testutil.RequireSliceNearlyEqual(t, result, tt.expected, 1e-10)
		})
	}
}

func TestDirectErrors(t *testing.T) {
	if _, err := Direct(nil, []float64{1, 2}); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}

	if _, err := Direct([]float64{1, 2}, nil); !errors.Is(err, ErrEmptyKernel) {
		t.Errorf("expected ErrEmptyKernel, got %v", err)
	}
}

func TestOverlapAddMatchesDirect(t *testing.T) {
	signal := testutil.Noise(1, 1.0, 2000)
	kernel := testutil.Noise(2, 1.0, 129)

	want, err := Direct(signal, kernel)
	if err != nil {
		t.Fatalf("direct: %v", err)
	}

	got, err := OverlapAddConvolve(signal, kernel)
	if err != nil {
		t.Fatalf("overlap-add: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, got, want, 1e-8)
}

func TestOverlapAddReusable(t *testing.T) {
	kernel := testutil.Noise(3, 1.0, 200)

	oa, err := NewOverlapAdd(kernel, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if oa.KernelLen() != 200 {
		t.Fatalf("KernelLen = %d, want 200", oa.KernelLen())
	}

	for i := 0; i < 3; i++ {
		signal := testutil.Noise(int64(10+i), 1.0, 777)

		got, err := oa.Process(signal)
		if err != nil {
			t.Fatalf("process %d: %v", i, err)
		}

		want, _ := Direct(signal, kernel)
		testutil.RequireSliceNearlyEqual(t, got, want, 1e-8)
	}
}

func TestConvolveSelectsAlgorithm(t *testing.T) {
	signal := testutil.Sine(440, 16000, 1.0, 1000)

	for _, kernelLen := range []int{8, 63, 64, 300} {
		kernel := testutil.Noise(int64(kernelLen), 1.0, kernelLen)

		got, err := Convolve(signal, kernel)
		if err != nil {
			t.Fatalf("kernel %d: %v", kernelLen, err)
		}

		if len(got) != len(signal)+kernelLen-1 {
			t.Fatalf("kernel %d: length = %d, want %d", kernelLen, len(got), len(signal)+kernelLen-1)
		}

		want, _ := Direct(signal, kernel)
		testutil.RequireSliceNearlyEqual(t, got, want, 1e-8)
	}
}

func TestConvolveMode(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{1, 1, 1}

	full, err := ConvolveMode(a, b, ModeFull)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(full) != 7 {
		t.Errorf("full length = %d, want 7", len(full))
	}

	same, err := ConvolveMode(a, b, ModeSame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, same, []float64{3, 6, 9, 12, 9}, 1e-10)

	valid, err := ConvolveMode(a, b, ModeValid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, valid, []float64{6, 9, 12}, 1e-10)
}

func TestNextPowerOf2(t *testing.T) {
	cases := map[int]int{1: 1, 2: 2, 3: 4, 5: 8, 1023: 1024, 1024: 1024}
	for in, want := range cases {
		if got := nextPowerOf2(in); got != want {
			t.Errorf("nextPowerOf2(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestConvolveCommutative(t *testing.T) {
	a := testutil.Noise(7, 1.0, 50)
	b := testutil.Noise(8, 1.0, 300)

	ab, err := Convolve(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ba, err := Convolve(b, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(testutil.MaxAbsDiff(t, ab, ba)) > 1e-8 {
		t.Error("convolution not commutative")
	}
}
