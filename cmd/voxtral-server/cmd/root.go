package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"voxtral-server/cmd/voxtral-server/cmd/serve"
	"voxtral-server/cmd/voxtral-server/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "voxtral-server",
	Short: "HTTP transcription server for the Voxtral speech-to-text model",
	Long: `HTTP transcription server for the Voxtral speech-to-text model.

- Accepts multipart WAV uploads on /transcribe and /transcribe-json
- Reports model and device state on /health
- Delegates inference to a local runner or Mistral's hosted API`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
