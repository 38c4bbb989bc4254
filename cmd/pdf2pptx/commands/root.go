// Package commands implements the pdf2pptx command tree.
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Tech2AI-collab/tech2ai-hub/cmd/pdf2pptx/ui"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/config"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/observability"
	"github.com/Tech2AI-collab/tech2ai-hub/pkg/converter"
)

// Set at build time with -ldflags "-X .../commands.version=...".
var version = "0.1.0"

var (
	cfgFile  string
	verbose  bool
	jsonMode bool
	noColor  bool

	cfg    *config.Config
	logger *observability.Logger
	out    *ui.UI
)

var rootCmd = &cobra.Command{
	Use:   "pdf2pptx",
	Short: "Convert PDF documents into PowerPoint presentations",
	Long: `pdf2pptx turns every page of a PDF into a slide. In image mode each page
becomes a full-bleed background picture; in editable mode the page text is
placed as native text boxes.

It can also serve the conversion engine and the site API over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load() // Ignore error if .env doesn't exist

		out = ui.New(jsonMode, noColor, verbose)

		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded

		level := cfg.Observability.LogLevel
		if verbose {
			level = "debug"
		} else if cmd.Name() == "convert" {
			// Progress output owns the terminal during conversions.
			level = "warn"
		}
		format := cfg.Observability.LogFormat
		if jsonMode {
			format = "json"
		}
		logger = observability.NewLogger(observability.LogConfig{
			Level:       level,
			Format:      format,
			ServiceName: "pdf2pptx",
		})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonMode, "json", false, "emit machine-readable JSON lines")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command and prints any error.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		msg := err.Error()
		if converter.KindOf(err) != "" {
			msg = converter.StatusMessage(err)
		}
		if out != nil {
			out.Error("%s", msg)
		} else {
			fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %s\n", msg)
		}
	}
	return err
}
