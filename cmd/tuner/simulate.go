package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-tuner/internal/capture"
)

var simulateFlags struct {
	notes      string
	hold       time.Duration
	amplitude  float64
	decay      float64
	noise      float64
	seed       int64
	sampleRate float64
	loop       bool
	fast       bool
	serve      bool
	addr       string
	noDisplay  bool
}

func init() {
	f := simulateCmd.Flags()
	f.StringVar(&simulateFlags.notes, "notes", "E2,A2,D3,G3,B3,E4", "comma-separated strings with optional cents offsets, frequencies or rest")
	f.DurationVar(&simulateFlags.hold, "hold", time.Second, "duration of each note")
	f.Float64Var(&simulateFlags.amplitude, "amplitude", 0.4, "pluck amplitude")
	f.Float64Var(&simulateFlags.decay, "decay", 1.5, "envelope time constant in seconds")
	f.Float64Var(&simulateFlags.noise, "noise", 0, "white noise amplitude")
	f.Int64Var(&simulateFlags.seed, "seed", 1, "noise seed")
	f.Float64Var(&simulateFlags.sampleRate, "sample-rate", 44100, "sample rate in Hz")
	f.BoolVar(&simulateFlags.loop, "loop", false, "repeat the notes until interrupted")
	f.BoolVar(&simulateFlags.fast, "fast", false, "generate blocks as fast as possible instead of in real time")
	f.BoolVar(&simulateFlags.serve, "serve", false, "enable the HTTP/WebSocket server")
	f.StringVar(&simulateFlags.addr, "listen", "", "HTTP listen address")
	f.BoolVar(&simulateFlags.noDisplay, "no-display", false, "disable the terminal panel")

	rootCmd.AddCommand(simulateCmd)
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Tune a synthetic performance",
	Long: `Plays plucked notes through the tuner without an audio device. Notes are
string names from the configured tuning, optionally detuned in cents
("E2+12", "D3-30"), plain frequencies in Hz, or "rest".`,
	Example: `  tuner simulate --notes E2-20,E2-5,E2 --hold 1.5s
  tuner simulate --notes A2,rest,D3 --loop --serve`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		applyOutputFlags(cmd, simulateFlags.serve, simulateFlags.addr, simulateFlags.noDisplay)

		set, err := cfg.TuningSet()
		if err != nil {
			return err
		}
		notes, err := parseNotes(simulateFlags.notes, set, simulateFlags.hold, simulateFlags.amplitude)
		if err != nil {
			return err
		}

		src, err := capture.NewSynthetic(capture.SyntheticConfig{
			SampleRate: simulateFlags.sampleRate,
			BlockSize:  cfg.Audio.BlockSize,
			Notes:      notes,
			Decay:      simulateFlags.decay,
			Noise:      simulateFlags.noise,
			Seed:       simulateFlags.seed,
			Paced:      !simulateFlags.fast,
			Loop:       simulateFlags.loop,
		})
		if err != nil {
			return err
		}

		log.Info("simulating", "notes", len(notes), "sample_rate", simulateFlags.sampleRate)

		return runPipeline(src, cmd.OutOrStdout())
	},
}
