package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/echocapsule/mediakit/internal/logging"
)

// rootCmd is the main Cobra command for the mediakit CLI.
var rootCmd = &cobra.Command{
	Use:   "mediakit",
	Short: "Capsule media enhancement - filters, effects and audio presets",
	Long: `mediakit runs the capsule media enhancement pipeline from the command line:
photos and videos through the filter/effect compositor, audio recordings
through the preset processor, with a local vault for saved output.

Examples:
  mediakit enhance -i photo.jpg -o out.jpg --filter yesterday --effect vignette --effect grain
  mediakit enhance -i clip.mp4 -o frame.jpg --filter dream   # one frame, output is a photo
  mediakit audio -i message.wav -o telephone.wav --preset telephone
  mediakit vault list
  mediakit vault export --dest backup.zip
  mediakit presets`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
