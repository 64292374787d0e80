package pitch

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-tuner/dsp/window"
	"github.com/cwbudde/algo-tuner/internal/testutil"
)

func TestSineAccuracy(t *testing.T) {
	freqs := []float64{82.41, 110, 146.83, 196, 246.94, 329.63, 440, 900}

	for _, method := range []Method{MethodDirect, MethodFFT} {
		for _, sr := range []float64{44100, 48000} {
			est := New(WithMethod(method))

			for _, f := range freqs {
				x := testutil.DeterministicSine(f, sr, 0.3, 2048)

				r := est.Estimate(x, sr)
				if r.Outcome != Voiced {
					t.Fatalf("%s sr=%v f=%v: Outcome = %v, want voiced", method, sr, f, r.Outcome)
				}
				testutil.RequireWithinPercent(t, "frequency", r.Frequency, f, 1)
			}
		}
	}
}

func TestLongBlockLowFrequencies(t *testing.T) {
	// Three periods of 62 Hz need more than 2048 samples.
	est := New()
	for _, f := range []float64{62, 70} {
		x := testutil.DeterministicSine(f, 44100, 0.3, 4096)
		testutil.RequireWithinPercent(t, "frequency", est.Estimate(x, 44100).Frequency, f, 1)
	}
}

func TestPluckedStringWithNoise(t *testing.T) {
	est := New()

	for _, f := range []float64{82.41, 110, 196, 329.63} {
		x := testutil.Add(
			testutil.Pluck(f, 44100, 0.5, 0.5, 2048),
			testutil.DeterministicNoise(3, 0.01, 2048),
		)

		r := est.Estimate(x, 44100)
		if !r.HasPitch() {
			t.Fatalf("f=%v: HasPitch() = false, outcome %v", f, r.Outcome)
		}
		testutil.RequireWithinPercent(t, "frequency", r.Frequency, f, 1.5)
	}
}

func TestEndToEndA2(t *testing.T) {
	x := testutil.DeterministicSine(110, 44100, 0.3, 2048)

	r := Estimate(x, 44100)
	testutil.RequireNearlyEqual(t, "Energy", r.Energy, 0.212, 3e-3)
	testutil.RequireWithinPercent(t, "frequency", r.Frequency, 110, 1)

	if r.Lag < 399 || r.Lag > 401 {
		t.Fatalf("Lag = %d, want about 400", r.Lag)
	}
}

func TestNoiseGate(t *testing.T) {
	tests := []struct {
		name   string
		signal []float64
	}{
		{"zeros", make([]float64, 2048)},
		{"quiet sine", testutil.DeterministicSine(110, 44100, 0.007, 2048)},
		{"dc only", testutil.DC(0.8, 2048)},
		{"quiet noise", testutil.DeterministicNoise(9, 0.008, 2048)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Estimate(tt.signal, 44100)
			if r.Energy >= DefaultNoiseFloor {
				t.Fatalf("fixture energy %v is not below the gate", r.Energy)
			}
			if r.Outcome != NoSignal || r.Frequency != 0 || r.HasPitch() {
				t.Fatalf("got %+v, want no-signal without frequency", r)
			}
		})
	}
}

func TestZeroBlockEnergy(t *testing.T) {
	r := Estimate(make([]float64, 2048), 44100)
	if r.Energy != 0 {
		t.Fatalf("Energy = %v, want 0", r.Energy)
	}
}

func TestDCRemovedBeforeEnergy(t *testing.T) {
	x := testutil.DeterministicSine(220, 44100, 0.3, 2048)
	for i := range x {
		x[i] += 0.4
	}

	r := Estimate(x, 44100)
	testutil.RequireNearlyEqual(t, "Energy", r.Energy, 0.3/math.Sqrt2, 3e-3)
	testutil.RequireWithinPercent(t, "frequency", r.Frequency, 220, 1)
}

func TestWhiteNoiseWellFormed(t *testing.T) {
	// Uniform noise with RMS 0.1.
	x := testutil.DeterministicNoise(1, 0.1*math.Sqrt(3), 2048)

	for _, method := range []Method{MethodDirect, MethodFFT} {
		r := Estimate(x, 44100, WithMethod(method))
		if r.Energy < DefaultNoiseFloor {
			t.Fatalf("noise energy %v below gate", r.Energy)
		}
		if r.HasPitch() {
			if r.Frequency <= 0 || !(r.Frequency < math.Inf(1)) {
				t.Fatalf("voiced reading with bad frequency %v", r.Frequency)
			}
			continue
		}
		if r.Frequency != 0 {
			t.Fatalf("unvoiced reading carries frequency %v", r.Frequency)
		}
	}
}

// A centred ramp has a correlation that only falls from the shortest lag.
// Its largest value sits on the range edge, which is not a period.
func TestCorrelationWithoutInteriorPeak(t *testing.T) {
	x := make([]float64, 2048)
	for i := range x {
		x[i] = -0.5 + float64(i)/float64(len(x)-1)
	}

	for _, method := range []Method{MethodDirect, MethodFFT} {
		r := New(WithMethod(method)).Estimate(x, 44100)
		if r.Outcome != NoPeak || r.Frequency != 0 || r.HasPitch() {
			t.Fatalf("%s: Estimate(ramp) = %+v, want no-peak", method, r)
		}
		testutil.RequireNearlyEqual(t, "Energy", r.Energy, 0.2888, 1e-3)
	}
}

func TestShortBlocks(t *testing.T) {
	est := New()

	for _, n := range []int{1, 2, 3, 10, 44, 45, 46, 100, 500, 734, 735, 736} {
		x := testutil.DeterministicSine(440, 44100, 0.5, n)
		for i := range x {
			x[i] += 0.01 * float64(i%3)
		}

		r := est.Estimate(x, 44100)
		if r.HasPitch() && !(r.Frequency > 0) {
			t.Fatalf("n=%d: bad frequency %v", n, r.Frequency)
		}
		if !r.HasPitch() && r.Frequency != 0 {
			t.Fatalf("n=%d: frequency %v without pitch", n, r.Frequency)
		}
	}
}

func TestInvalidInput(t *testing.T) {
	x := testutil.DeterministicSine(110, 44100, 0.3, 2048)

	tests := []struct {
		name       string
		samples    []float64
		sampleRate float64
		wantEnergy bool
	}{
		{"empty", nil, 44100, false},
		{"zero rate", x, 0, true},
		{"negative rate", x, -44100, true},
		{"nan rate", x, math.NaN(), true},
		{"inf rate", x, math.Inf(1), true},
		{"nan sample", []float64{0.1, math.NaN(), 0.2}, 44100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Estimate(tt.samples, tt.sampleRate)
			if r.Outcome != InvalidInput || r.HasPitch() {
				t.Fatalf("Outcome = %v, want invalid-input", r.Outcome)
			}
			if tt.wantEnergy && !(r.Energy > 0.2) {
				t.Fatalf("Energy = %v, want measured", r.Energy)
			}
		})
	}
}

func TestLagRangeFollowsSampleRate(t *testing.T) {
	est := New()

	tests := []struct {
		sampleRate       float64
		wantMin, wantMax int
	}{
		{44100, 44, 735},
		{48000, 48, 800},
		{8000, 8, 133},
		{44100, 44, 735},
	}

	for _, tt := range tests {
		lo, hi := est.LagRange(tt.sampleRate)
		if lo != tt.wantMin || hi != tt.wantMax {
			t.Fatalf("LagRange(%v) = (%d, %d), want (%d, %d)",
				tt.sampleRate, lo, hi, tt.wantMin, tt.wantMax)
		}
	}

	// The same estimator follows a device switch.
	x := testutil.DeterministicSine(196, 48000, 0.3, 2048)
	testutil.RequireWithinPercent(t, "frequency", est.Estimate(x, 48000).Frequency, 196, 1)
}

func TestFFTMatchesDirect(t *testing.T) {
	direct := New()
	viaFFT := New(WithMethod(MethodFFT))

	for _, f := range []float64{82.41, 146.83, 329.63, 700} {
		x := testutil.Add(
			testutil.Pluck(f, 44100, 0.4, 0.3, 2048),
			testutil.DeterministicNoise(5, 0.02, 2048),
		)

		a := direct.Estimate(x, 44100)
		b := viaFFT.Estimate(x, 44100)

		if a.Outcome != b.Outcome || a.Lag != b.Lag {
			t.Fatalf("f=%v: direct %+v, fft %+v", f, a, b)
		}
		testutil.RequireNearlyEqual(t, "Frequency", b.Frequency, a.Frequency, 1e-6)
	}
}

func TestWindowedEstimate(t *testing.T) {
	for _, f := range []float64{196, 440} {
		x := testutil.DeterministicSine(f, 44100, 0.3, 4096)

		r := Estimate(x, 44100, WithWindow(window.TypeHann))
		testutil.RequireWithinPercent(t, "frequency", r.Frequency, f, 1)
		// Energy is measured before windowing.
		testutil.RequireNearlyEqual(t, "Energy", r.Energy, 0.3/math.Sqrt2, 3e-3)
	}
}

func TestParabolicShift(t *testing.T) {
	tests := []struct {
		name       string
		y0, y1, y2 float64
		want       float64
		wantOK     bool
	}{
		{"symmetric", 1, 2, 1, 0, true},
		{"leaning right", 0, 2, 1, 0.25, true},
		{"leaning left", 1, 2, 0, -0.25, true},
		{"flat", 1, 1, 1, 0, false},
		{"line", 0, 1, 2, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parabolicShift(tt.y0, tt.y1, tt.y2)
			if ok != tt.wantOK || math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("parabolicShift() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	cfg := ApplyOptions(
		WithNoiseFloor(-1),
		WithFrequencyRange(500, 100),
		WithMethod(Method(7)),
		nil,
	)
	if cfg != DefaultConfig() {
		t.Fatalf("invalid options changed config: %+v", cfg)
	}

	cfg = ApplyOptions(WithNoiseFloor(0.01), WithFrequencyRange(70, 1200), WithMethod(MethodFFT))
	if cfg.NoiseFloor != 0.01 || cfg.MinFrequency != 70 || cfg.MaxFrequency != 1200 || cfg.Method != MethodFFT {
		t.Fatalf("ApplyOptions() = %+v", cfg)
	}

	lo, hi := New(WithFrequencyRange(70, 1200)).LagRange(48000)
	if lo != 40 || hi != 685 {
		t.Fatalf("LagRange() = (%d, %d), want (40, 685)", lo, hi)
	}
}

func TestOutcomeString(t *testing.T) {
	if NoSignal.String() != "no-signal" || Outcome(42).String() != "unknown" {
		t.Fatalf("unexpected outcome names %q %q", NoSignal, Outcome(42))
	}
}
