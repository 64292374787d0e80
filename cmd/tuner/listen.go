package main

import (
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-tuner/internal/capture/portaudio"
)

var listenFlags struct {
	device     string
	sampleRate float64
	blockSize  int
	lowLatency bool
	serve      bool
	addr       string
	noDisplay  bool
}

func init() {
	f := listenCmd.Flags()
	f.StringVar(&listenFlags.device, "device", "", "input device name substring (default input when empty)")
	f.Float64Var(&listenFlags.sampleRate, "sample-rate", 0, "sample rate in Hz (device default when 0)")
	f.IntVar(&listenFlags.blockSize, "block-size", 0, "samples per block")
	f.BoolVar(&listenFlags.lowLatency, "low-latency", false, "request low-latency device parameters")
	f.BoolVar(&listenFlags.serve, "serve", false, "enable the HTTP/WebSocket server")
	f.StringVar(&listenFlags.addr, "listen", "", "HTTP listen address")
	f.BoolVar(&listenFlags.noDisplay, "no-display", false, "disable the terminal panel")

	rootCmd.AddCommand(listenCmd)
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Tune from a microphone",
	Long:  `Captures mono audio from an input device through PortAudio and tunes it live.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		applyListenFlags(cmd)

		if err := portaudio.Initialize(); err != nil {
			return err
		}
		defer func() {
			if err := portaudio.Terminate(); err != nil {
				log.Warn("portaudio terminate", "error", err)
			}
		}()

		src, err := portaudio.Open(portaudio.Config{
			Device:     cfg.Audio.Device,
			SampleRate: cfg.Audio.SampleRate,
			BlockSize:  cfg.Audio.BlockSize,
			LowLatency: cfg.Audio.LowLatency,
		})
		if err != nil {
			return err
		}

		log.Info("listening", "device", src.DeviceName(), "sample_rate", src.SampleRate(), "block_size", cfg.Audio.BlockSize)

		return runPipeline(src, cmd.OutOrStdout())
	},
}

// applyListenFlags overrides the configuration with flags that were set.
func applyListenFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	if f.Changed("device") {
		cfg.Audio.Device = listenFlags.device
	}
	if f.Changed("sample-rate") {
		cfg.Audio.SampleRate = listenFlags.sampleRate
	}
	if f.Changed("block-size") {
		cfg.Audio.BlockSize = listenFlags.blockSize
	}
	if f.Changed("low-latency") {
		cfg.Audio.LowLatency = listenFlags.lowLatency
	}
	applyOutputFlags(cmd, listenFlags.serve, listenFlags.addr, listenFlags.noDisplay)
}

func applyOutputFlags(cmd *cobra.Command, serve bool, addr string, noDisplay bool) {
	f := cmd.Flags()
	if f.Changed("serve") {
		cfg.Server.Enabled = serve
	}
	if f.Changed("listen") {
		cfg.Server.ListenAddr = addr
		cfg.Server.Enabled = true
	}
	if noDisplay {
		cfg.Display.Enabled = false
	}
}
