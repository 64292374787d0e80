package tuning_test

import (
	"fmt"

	"github.com/cwbudde/algo-tuner/measure/tuning"
)

func ExampleTuning_Evaluate() {
	std := tuning.Standard()

	for _, f := range []float64{110, 149, 192.5, 1500} {
		res, ok := std.Evaluate(f)
		if !ok {
			fmt.Printf("%.1f Hz: implausible\n", f)
			continue
		}
		fmt.Printf("%.1f Hz: %s %+.1f cents %s\n", f, res.String.Name, res.Cents, res.Status)
	}

	// Output:
	// 110.0 Hz: A2 +0.0 cents in
	// 149.0 Hz: D3 +25.4 cents high
	// 192.5 Hz: G3 -31.2 cents low
	// 1500.0 Hz: implausible
}
