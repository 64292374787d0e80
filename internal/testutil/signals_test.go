package testutil

import (
	"math"
	"testing"
)

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1000, 48000, 1.0, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}
	// Phase 0 start.
	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	for i, v := range s {
		if v < -1 || v > 1 {
			t.Fatalf("s[%d] = %v out of range", i, v)
		}
	}
}

func TestPluckDecays(t *testing.T) {
	const sr = 44100.0
	s := Pluck(110, sr, 0.5, 0.1, int(sr))

	peak := func(x []float64) float64 {
		m := 0.0
		for _, v := range x {
			m = math.Max(m, math.Abs(v))
		}
		return m
	}

	head := peak(s[:2048])
	tail := peak(s[len(s)-2048:])
	if head > 0.5 || head < 0.2 {
		t.Fatalf("head peak = %v, want within (0.2, 0.5]", head)
	}
	if tail >= head/100 {
		t.Fatalf("tail peak = %v, want < %v", tail, head/100)
	}
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 1.0, 64)
	b := DeterministicNoise(42, 1.0, 64)
	if len(a) != 64 {
		t.Fatalf("len = %d, want 64", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at index %d", i)
		}
		if a[i] < -1 || a[i] > 1 {
			t.Fatalf("a[%d] = %v out of range", i, a[i])
		}
	}

	c := DeterministicNoise(43, 1.0, 64)
	if c[0] == a[0] && c[1] == a[1] {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestAdd(t *testing.T) {
	got := Add([]float64{1, 2, 3}, DC(0.5, 2))
	RequireSliceNearlyEqual(t, got, []float64{1.5, 2.5}, 0)
}

func TestFloat32(t *testing.T) {
	got := Float32(Ones(3))
	if len(got) != 3 || got[2] != 1 {
		t.Fatalf("Float32(Ones(3)) = %v", got)
	}
}
