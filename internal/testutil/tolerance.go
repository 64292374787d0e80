package testutil

import (
	"fmt"
	"math"
	"testing"
)

// RequireNearlyEqual fails t if |got-want| exceeds eps or got is NaN.
func RequireNearlyEqual(t *testing.T, name string, got, want, eps float64) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(got-want) > eps {
		t.Fatalf("%s = %v, want %v (eps %v)", name, got, want, eps)
	}
}

// RequireWithinPercent fails t unless got is within pct percent of want.
func RequireWithinPercent(t *testing.T, name string, got, want, pct float64) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(got-want) > math.Abs(want)*pct/100 {
		t.Fatalf("%s = %.3f, want %.3f ±%.1f%%", name, got, want, pct)
	}
}

// RequireWithinCents fails t unless the pitch interval between got and
// want is at most cents. Both must be positive.
func RequireWithinCents(t *testing.T, name string, got, want, cents float64) {
	t.Helper()
	if !(got > 0) || !(want > 0) {
		t.Fatalf("%s = %v, want %v: frequencies must be positive", name, got, want)
	}
	if d := 1200 * math.Log2(got/want); math.Abs(d) > cents {
		t.Fatalf("%s = %.3f Hz, %+.2f cents from %.3f Hz (limit %.1f)", name, got, d, want, cents)
	}
}

// RequireSliceNearlyEqual fails t on a length mismatch or on the first
// element pair further apart than eps.
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	d, err := MaxAbsDiff(got, want)
	if err != nil {
		t.Fatal(err)
	}
	if d <= eps {
		return
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > eps {
			t.Fatalf("[%d] = %v, want %v (eps %v)", i, got[i], want[i], eps)
		}
	}
}

// MaxAbsDiff returns the largest element-wise distance between a and b.
// NaN in either slice yields +Inf.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("testutil: length mismatch: %d vs %d", len(a), len(b))
	}
	var worst float64
	for i := range a {
		d := math.Abs(a[i] - b[i])
		if math.IsNaN(d) {
			return math.Inf(1), nil
		}
		worst = max(worst, d)
	}
	return worst, nil
}
