package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-tuner/internal/capture/portaudio"
)

func init() {
	rootCmd.AddCommand(devicesCmd)
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List audio input devices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := portaudio.Initialize(); err != nil {
			return err
		}
		defer func() { _ = portaudio.Terminate() }()

		devices, err := portaudio.Devices()
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "\tNAME\tHOST API\tCHANNELS\tRATE")
		for _, d := range devices {
			mark := ""
			if d.Default {
				mark = "*"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.0f\n", mark, d.Name, d.HostAPI, d.MaxInputChannels, d.DefaultSampleRate)
		}
		return tw.Flush()
	},
}
