package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-tuner/dsp/core"
	"github.com/cwbudde/algo-tuner/dsp/signal"
	"github.com/cwbudde/algo-tuner/measure/tuner"
)

var estimateFlags struct {
	freq       float64
	amplitude  float64
	sampleRate float64
	size       int
	noise      float64
	seed       int64
	pluck      bool
	asJSON     bool
}

func init() {
	f := estimateCmd.Flags()
	f.Float64Var(&estimateFlags.freq, "freq", 110, "test tone frequency in Hz")
	f.Float64Var(&estimateFlags.amplitude, "amplitude", 0.3, "test tone amplitude")
	f.Float64Var(&estimateFlags.sampleRate, "sample-rate", 44100, "sample rate in Hz")
	f.IntVar(&estimateFlags.size, "size", 0, "block size (configured block size when 0)")
	f.Float64Var(&estimateFlags.noise, "noise", 0, "white noise amplitude added to the tone")
	f.Int64Var(&estimateFlags.seed, "seed", 1, "noise seed")
	f.BoolVar(&estimateFlags.pluck, "pluck", false, "use a decaying plucked tone instead of a sine")
	f.BoolVar(&estimateFlags.asJSON, "json", false, "print the reading as JSON")

	rootCmd.AddCommand(estimateCmd)
}

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Run one block of a generated tone through the tuner",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		size := estimateFlags.size
		if size <= 0 {
			size = cfg.Audio.BlockSize
		}

		samples, err := testTone(size)
		if err != nil {
			return err
		}

		opts, err := cfg.TunerOptions()
		if err != nil {
			return err
		}
		r := tuner.New(opts...).Process(samples, estimateFlags.sampleRate)

		out := cmd.OutOrStdout()
		if estimateFlags.asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		}

		if r.Result == nil {
			_, err = fmt.Fprintf(out, "no pitch (%s), energy %.3f\n", r.Outcome, r.Energy)
			return err
		}
		_, err = fmt.Fprintf(out, "%.2f Hz -> %s %+.1f cents (%s), energy %.3f\n",
			r.Frequency, r.Result.String.Name, r.Result.Cents, r.Result.Status, r.Energy)
		return err
	},
}

func testTone(size int) ([]float64, error) {
	gen := signal.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(estimateFlags.sampleRate)},
		signal.WithSeed(estimateFlags.seed),
	)

	var (
		tone []float64
		err  error
	)
	if estimateFlags.pluck {
		tone, err = gen.Pluck(estimateFlags.freq, estimateFlags.amplitude, 1.5, size)
	} else {
		tone, err = gen.Sine(estimateFlags.freq, estimateFlags.amplitude, size)
	}
	if err != nil {
		return nil, err
	}

	if estimateFlags.noise > 0 {
		noise, err := gen.WhiteNoise(estimateFlags.noise, size)
		if err != nil {
			return nil, err
		}
		for i := range tone {
			tone[i] += noise[i]
		}
	}

	return tone, nil
}
