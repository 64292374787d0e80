//nolint:revive
package time

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-tuner/internal/testutil"
)

func TestRMSSine(t *testing.T) {
	// 110 Hz at 44.1 kHz over 2048 samples is not an integer number of
	// periods, so the tolerance is loose.
	x := testutil.DeterministicSine(110, 44100, 0.3, 2048)
	testutil.RequireNearlyEqual(t, "RMS()", RMS(x), 0.3/math.Sqrt2, 3e-3)
}

func TestDCAndRemoveDC(t *testing.T) {
	x := []float64{1, 2, 3, 6}
	if got := DC(x); got != 3 {
		t.Fatalf("DC() = %v, want 3", got)
	}

	dst := make([]float64, len(x))
	mean := RemoveDC(dst, x)
	if mean != 3 {
		t.Fatalf("RemoveDC() mean = %v, want 3", mean)
	}
	testutil.RequireSliceNearlyEqual(t, dst, []float64{-2, -1, 0, 3}, 0)

	// In place.
	RemoveDC(x, x)
	testutil.RequireSliceNearlyEqual(t, x, dst, 0)
}

func TestMeasure(t *testing.T) {
	tests := []struct {
		name     string
		signal   []float64
		wantDC   float64
		wantRMS  float64
		wantPeak float64
	}{
		{"empty", nil, 0, 0, 0},
		{"constant", testutil.DC(0.5, 64), 0.5, 0, 0},
		{"square with offset", []float64{1.5, 0.5, 1.5, 0.5}, 1, 0.5, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Measure(tt.signal)
			testutil.RequireNearlyEqual(t, "DC", l.DC, tt.wantDC, 1e-12)
			testutil.RequireNearlyEqual(t, "RMS", l.RMS, tt.wantRMS, 1e-12)
			testutil.RequireNearlyEqual(t, "Peak", l.Peak, tt.wantPeak, 1e-12)
			if l.Length != len(tt.signal) {
				t.Fatalf("Length = %d, want %d", l.Length, len(tt.signal))
			}
		})
	}

	if l := Measure(nil); !math.IsInf(l.RMS_dB, -1) {
		t.Fatalf("Measure(nil).RMS_dB = %v, want -Inf", l.RMS_dB)
	}
}

func TestEmptyInputs(t *testing.T) {
	if RMS(nil) != 0 || DC(nil) != 0 || Peak(nil) != 0 {
		t.Fatal("empty signal statistics must be 0")
	}
}

func TestPeak(t *testing.T) {
	if got := Peak([]float64{0.1, -0.7, 0.3}); got != 0.7 {
		t.Fatalf("Peak() = %v, want 0.7", got)
	}
}

func BenchmarkMeasure(b *testing.B) {
	x := testutil.DeterministicSine(110, 44100, 0.3, 2048)

	b.ReportAllocs()
	b.SetBytes(int64(len(x) * 8))

	for range b.N {
		Measure(x)
	}
}
