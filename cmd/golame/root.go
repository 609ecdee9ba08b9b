package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var bitrate int
	var quality int
	var verbose bool

	cmd := &cobra.Command{
		Use:           "golame <input.wav> <output.mp3>",
		Short:         "Encode a WAV file to MP3",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
			return encodeFile(args[0], args[1], bitrate, quality)
		},
	}

	cmd.Flags().IntVarP(&bitrate, "bitrate", "b", 128, "Target bitrate in kbps")
	cmd.Flags().IntVarP(&quality, "quality", "q", 5, "Encoder quality, 0 (best) to 9 (fastest)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}
