package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cwbudde/algo-tuner/internal/capture"
	"github.com/cwbudde/algo-tuner/measure/tuning"
)

// parseNotes reads a comma-separated performance. Each item is a string
// name from t with an optional cents offset ("A2", "E2+12", "D3-30"), a
// frequency in Hz ("196.5") or "rest".
func parseNotes(s string, t *tuning.Tuning, hold time.Duration, amp float64) ([]capture.Note, error) {
	var notes []capture.Note
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		freq, err := noteFrequency(item, t)
		if err != nil {
			return nil, err
		}
		notes = append(notes, capture.Note{Frequency: freq, Amplitude: amp, Hold: hold})
	}

	if len(notes) == 0 {
		return nil, fmt.Errorf("no notes in %q", s)
	}
	return notes, nil
}

func noteFrequency(item string, t *tuning.Tuning) (float64, error) {
	if strings.EqualFold(item, "rest") {
		return 0, nil
	}

	if f, err := strconv.ParseFloat(item, 64); err == nil {
		if !(f > 0) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("note %q: frequency must be positive and finite", item)
		}
		return f, nil
	}

	name, offset := item, 0.0
	if i := strings.IndexAny(item, "+-"); i > 0 {
		c, err := strconv.ParseFloat(item[i:], 64)
		if err != nil {
			return 0, fmt.Errorf("note %q: bad cents offset: %w", item, err)
		}
		name, offset = item[:i], c
	}

	ref, ok := t.Lookup(name)
	if !ok {
		return 0, fmt.Errorf("note %q: unknown string %q", item, name)
	}
	return ref.Frequency * math.Pow(2, offset/1200), nil
}
