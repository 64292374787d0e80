package main

import (
	"bytes"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("tuner %s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func TestEstimateText(t *testing.T) {
	got := execute(t, "estimate", "--freq", "110", "--json=false", "--log-level", "error")

	if !strings.Contains(got, "-> A2 ") || !strings.Contains(got, "(in)") {
		t.Fatalf("output = %q, want A2 in tune", got)
	}
}

func TestEstimateSilence(t *testing.T) {
	got := execute(t, "estimate", "--amplitude", "0.001", "--json=false", "--log-level", "error")

	if !strings.HasPrefix(got, "no pitch (no-signal)") {
		t.Fatalf("output = %q, want no-signal", got)
	}
}

func TestEstimateJSON(t *testing.T) {
	got := execute(t, "estimate", "--freq", "196", "--amplitude", "0.3", "--json", "--log-level", "error")

	for _, want := range []string{`"string": "G3"`, `"status": "in"`, `"state": "tracking"`} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %s:\n%s", want, got)
		}
	}
}

func TestInvalidLogLevel(t *testing.T) {
	rootCmd.SetArgs([]string{"estimate", "--log-level", "loud"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := rootCmd.Execute(); err == nil {
		t.Fatal("Execute() error = nil, want invalid log level")
	}
}
