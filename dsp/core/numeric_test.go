package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		lo       float64
		hi       float64
		expected float64
	}{
		{name: "inside", value: 12, lo: -50, hi: 50, expected: 12},
		{name: "below", value: -80, lo: -50, hi: 50, expected: -50},
		{name: "above", value: 73, lo: -50, hi: 50, expected: 50},
		{name: "swapped", value: 73, lo: 50, hi: -50, expected: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.lo, tt.hi)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Fatal("expected values to be nearly equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-3) {
		t.Fatal("expected values to differ")
	}
	if !NearlyEqual(0, 0, 0) {
		t.Fatal("expected zeros to be equal with default eps")
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(110) {
		t.Fatal("110 should be finite")
	}
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if IsFinite(v) {
			t.Fatalf("IsFinite(%v) = true, want false", v)
		}
	}
}

func TestLinearToDB(t *testing.T) {
	if !NearlyEqual(LinearToDB(0.5), -6.020599913279624, 1e-12) {
		t.Fatalf("LinearToDB(0.5) = %v", LinearToDB(0.5))
	}
	if !math.IsInf(LinearToDB(0), -1) {
		t.Fatal("expected -Inf for zero")
	}
	if !math.IsNaN(LinearToDB(-1)) {
		t.Fatal("expected NaN for negative amplitude")
	}
}
