package pitch_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tuner/measure/pitch"
)

func ExampleEstimator_Estimate() {
	const sampleRate = 44100.0

	block := make([]float64, 2048)
	for i := range block {
		block[i] = 0.3 * math.Sin(2*math.Pi*110*float64(i)/sampleRate)
	}

	est := pitch.New()
	r := est.Estimate(block, sampleRate)

	fmt.Printf("%s %.0f Hz energy %.2f\n", r.Outcome, r.Frequency, r.Energy)

	silent := est.Estimate(make([]float64, 2048), sampleRate)
	fmt.Println(silent.Outcome, silent.HasPitch())

	// Output:
	// voiced 110 Hz energy 0.21
	// no-signal false
}
