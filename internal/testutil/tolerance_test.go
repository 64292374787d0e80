package testutil

import (
	"math"
	"testing"
)

func TestMaxAbsDiff(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"equal", []float64{1, 2}, []float64{1, 2}, 0},
		{"largest wins", []float64{1, 2, 3}, []float64{1, 2.5, 2.9}, 0.5},
		{"nan", []float64{math.NaN()}, []float64{0}, math.Inf(1)},
		{"empty", nil, nil, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MaxAbsDiff(tc.a, tc.b)
			if err != nil {
				t.Fatalf("MaxAbsDiff() error = %v", err)
			}
			if math.Abs(got-tc.want) > 1e-12 && got != tc.want {
				t.Fatalf("MaxAbsDiff() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMaxAbsDiffLengthMismatch(t *testing.T) {
	if _, err := MaxAbsDiff([]float64{1}, nil); err == nil {
		t.Fatal("expected error for length mismatch")
	}
}

func TestRequireWithinCents(t *testing.T) {
	// 110 Hz to 110.3 Hz is about 4.7 cents.
	RequireWithinCents(t, "A2", 110.3, 110, 5)
	RequireWithinPercent(t, "A2", 110.3, 110, 0.3)
}
