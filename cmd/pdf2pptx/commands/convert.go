package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tech2AI-collab/tech2ai-hub/cmd/pdf2pptx/ui"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/pdf"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/progress"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/uploads"
	"github.com/Tech2AI-collab/tech2ai-hub/pkg/converter"
)

var (
	convertOutput      string
	convertMode        string
	convertWidthPolicy string
	convertLayout      string
	convertQuality     int
	convertScale       float64
)

var convertCmd = &cobra.Command{
	Use:   "convert <file.pdf>",
	Short: "Convert a PDF into a .pptx deck",
	Long: `Convert renders each page of the PDF onto its own slide and writes
<name>_converted.pptx next to the input unless --output is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output .pptx path (default: <input-dir>/<name>_converted.pptx)")
	convertCmd.Flags().StringVarP(&convertMode, "mode", "m", "", "conversion mode: image or editable")
	convertCmd.Flags().StringVar(&convertWidthPolicy, "width-policy", "", "text box width: fill-to-slide-width or measured")
	convertCmd.Flags().StringVar(&convertLayout, "layout", "", "slide layout: 16x9 or page")
	convertCmd.Flags().IntVar(&convertQuality, "quality", 0, "JPEG quality for image mode (1-100)")
	convertCmd.Flags().Float64Var(&convertScale, "scale", 0, "render magnification for image mode")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]

	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Conversion.Mode = convertMode
	}
	if flags.Changed("width-policy") {
		cfg.Conversion.WidthPolicy = convertWidthPolicy
	}
	if flags.Changed("layout") {
		cfg.Conversion.SlideLayout = convertLayout
	}
	if flags.Changed("quality") {
		if err := pdf.NewValidator().ValidateQuality(convertQuality); err != nil {
			return err
		}
		cfg.Conversion.JPEGQuality = convertQuality
	}
	if flags.Changed("scale") {
		cfg.Conversion.Magnification = convertScale
	}

	client, err := converter.NewClientWithConfig(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startTime := time.Now()
	updates, err := client.Process(ctx, input)
	if err != nil {
		return err
	}

	out.Info("Converting %s (%s mode)", input, client.Options().Mode)
	view := newProgressView(out)

	var final converter.Update
	for u := range updates {
		if u.Done() {
			final = u
			break
		}
		view.update(u.Percent, u.Phase)
	}
	view.stop()

	if final.Err != nil {
		if ctx.Err() != nil {
			out.Warning("Conversion cancelled")
		}
		out.Emit(map[string]interface{}{
			"success": false,
			"kind":    converter.KindOf(final.Err),
			"error":   converter.StatusMessage(final.Err),
		})
		return final.Err
	}
	if final.Artifact == nil {
		return context.Canceled
	}

	target := convertOutput
	if target == "" {
		target = filepath.Join(filepath.Dir(input), final.Artifact.FileName)
	}
	if !strings.EqualFold(filepath.Ext(target), ".pptx") {
		target += ".pptx"
	}
	if err := os.WriteFile(target, final.Artifact.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}

	size := uploads.FormatSize(int64(len(final.Artifact.Data)))
	out.Emit(map[string]interface{}{
		"success":  true,
		"output":   target,
		"slides":   final.Artifact.SlideCount,
		"size":     size,
		"duration": time.Since(startTime).Round(time.Millisecond).String(),
	})
	out.Success("Saved %d slides to %s (%s) in %v", final.Artifact.SlideCount, target, size, time.Since(startTime).Round(time.Millisecond))
	return nil
}

// progressView shows a spinner while the document loads, then a bar.
type progressView struct {
	ui      *ui.UI
	spinner *ui.Spinner
	bar     *ui.ProgressBar
	phase   string
}

func newProgressView(u *ui.UI) *progressView {
	v := &progressView{ui: u}
	if u.Interactive() {
		v.spinner = ui.NewSpinner(u.Err, progress.PhaseLoading)
		v.spinner.Start()
	}
	return v
}

func (v *progressView) update(percent int, phase string) {
	v.ui.Emit(map[string]interface{}{"percent": percent, "phase": phase})

	if !v.ui.Interactive() {
		if phase != v.phase {
			v.ui.Verbose("[%3d%%] %s", percent, phase)
		}
		v.phase = phase
		return
	}

	if phase == progress.PhaseLoading {
		return
	}
	if v.spinner != nil {
		v.spinner.Stop()
		v.spinner = nil
	}
	if v.bar == nil {
		v.bar = ui.NewProgressBar(v.ui.Err, phase)
	}
	v.bar.Set(percent, phase)
	v.phase = phase
}

func (v *progressView) stop() {
	if v.spinner != nil {
		v.spinner.Stop()
	}
	if v.bar != nil {
		v.bar.Stop()
	}
}
