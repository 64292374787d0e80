package tuner

import (
	"encoding/json"

	"github.com/cwbudde/algo-tuner/measure/onset"
)

// wireReading is the JSON shape of a Reading. Absent values are null.
type wireReading struct {
	Frequency      *float64     `json:"frequency"`
	Energy         float64      `json:"energy"`
	SmoothedEnergy float64      `json:"smoothed_energy"`
	Status         string       `json:"status"`
	State          State        `json:"state"`
	Outcome        string       `json:"outcome"`
	String         *string      `json:"string"`
	Target         *float64     `json:"target"`
	Cents          *float64     `json:"cents"`
	Pluck          *onset.Event `json:"pluck"`
}

// MarshalJSON implements json.Marshaler.
func (r Reading) MarshalJSON() ([]byte, error) {
	w := wireReading{
		Energy:         r.Energy,
		SmoothedEnergy: r.SmoothedEnergy,
		Status:         r.Status(),
		State:          r.State,
		Outcome:        r.Outcome.String(),
		Pluck:          r.Pluck,
	}

	if r.Result != nil {
		f, name, target, cents := r.Frequency, r.Result.String.Name, r.Result.String.Frequency, r.Result.Cents
		w.Frequency = &f
		w.String = &name
		w.Target = &target
		w.Cents = &cents
	}

	return json.Marshal(w)
}
