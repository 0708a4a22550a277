package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/echocapsule/mediakit/internal/enhance"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the available filters, effects and audio presets",
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

		fmt.Fprintln(w, "PHOTO FILTERS")
		for _, id := range []enhance.FilterID{enhance.FilterNone, enhance.FilterYesterday, enhance.FilterEcho, enhance.FilterDream} {
			fmt.Fprintf(w, "  %s\n", id)
		}

		fmt.Fprintln(w, "VISUAL EFFECTS")
		for _, id := range enhance.EffectOrder {
			fmt.Fprintf(w, "  %s\n", id)
		}

		fmt.Fprintln(w, "AUDIO PRESETS")
		for _, id := range []enhance.AudioFilterID{
			enhance.AudioFilterNone,
			enhance.AudioFilterTelephone,
			enhance.AudioFilterTapeEcho,
			enhance.AudioFilterCathedral,
			enhance.AudioFilterCrystalClear,
			enhance.AudioFilterVinylWarmth,
		} {
			p := enhance.AudioFilters[id]
			switch {
			case p.IsZero():
				fmt.Fprintf(w, "  %s\n", id)
			default:
				fmt.Fprintf(w, "  %s\tlowpass=%.0f highpass=%.0f gain=%.2f reverb=%.2f delay=%.2f distortion=%.2f\n",
					id, p.Lowpass, p.Highpass, p.Gain, p.Reverb, p.Delay, p.Distortion)
			}
		}

		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
