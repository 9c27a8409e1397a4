package mel

import (
	"math"
	"testing"
)

func TestHzToMelKnownValues(t *testing.T) {
	// mel(700) = 2595 * log10(2).
	want := 2595 * math.Log10(2)
	if got := HzToMel(700); math.Abs(got-want) > 1e-9 {
		t.Errorf("HzToMel(700) = %v, want %v", got, want)
	}

	if got := HzToMel(0); got != 0 {
		t.Errorf("HzToMel(0) = %v, want 0", got)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, hz := range []float64{50, 300, 1000, 4000, 7999} {
		got := MelToHz(HzToMel(hz))
		if math.Abs(got-hz) > 1e-6 {
			t.Errorf("round trip %v Hz = %v", hz, got)
		}
	}
}

func TestMonotonic(t *testing.T) {
	prev := HzToMel(0)
	for hz := 10.0; hz <= 8000; hz += 10 {
		m := HzToMel(hz)
		if m <= prev {
			t.Fatalf("HzToMel not monotone at %v Hz", hz)
		}
		prev = m
	}
}

func TestPoints(t *testing.T) {
	pts, err := Points(50, 7900, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pts) != 9 {
		t.Fatalf("len = %d, want 9", len(pts))
	}

	if pts[0] != 50 || pts[8] != 7900 {
		t.Errorf("endpoints = %v, %v, want 50, 7900", pts[0], pts[8])
	}

	// Equal spacing on the mel axis, strictly increasing in Hz.
	melStep := (HzToMel(7900) - HzToMel(50)) / 8
	for i := 1; i < len(pts); i++ {
		if pts[i] <= pts[i-1] {
			t.Errorf("points not increasing at %d: %v <= %v", i, pts[i], pts[i-1])
		}

		gap := HzToMel(pts[i]) - HzToMel(pts[i-1])
		if math.Abs(gap-melStep) > 1e-6 {
			t.Errorf("mel gap at %d = %v, want %v", i, gap, melStep)
		}
	}
}

func TestPointsInvalid(t *testing.T) {
	if _, err := Points(50, 7900, 1); err == nil {
		t.Error("expected error for n < 2")
	}

	if _, err := Points(100, 100, 4); err == nil {
		t.Error("expected error for empty range")
	}

	if _, err := Points(-1, 100, 4); err == nil {
		t.Error("expected error for negative minHz")
	}
}
