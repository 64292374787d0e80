package tuner

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/cwbudde/algo-tuner/measure/onset"
	"github.com/cwbudde/algo-tuner/measure/pitch"
	"github.com/cwbudde/algo-tuner/measure/tuning"
)

func TestReadingJSON(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		r    Reading
		want []string
	}{
		{
			name: "idle",
			r:    Reading{Energy: 0.001, Outcome: pitch.NoSignal},
			want: []string{`"frequency":null`, `"status":"idle"`, `"state":"idle"`, `"string":null`, `"cents":null`, `"pluck":null`, `"outcome":"no-signal"`},
		},
		{
			name: "tracking",
			r: Reading{
				Frequency: 111,
				Energy:    0.3,
				State:     Tracking,
				Result: &tuning.Result{
					String: tuning.ReferenceString{Name: "A2", Frequency: 110},
					Cents:  15.7,
					Status: tuning.StatusHigh,
				},
				Pluck: &onset.Event{String: "A2", At: at},
			},
			want: []string{`"frequency":111`, `"status":"high"`, `"state":"tracking"`, `"string":"A2"`, `"target":110`, `"cents":15.7`, `"pluck":{"string":"A2","at":"2024-05-01T10:00:00Z"}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.r)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(string(data), w) {
					t.Errorf("JSON %s lacks %s", data, w)
				}
			}
		})
	}
}
