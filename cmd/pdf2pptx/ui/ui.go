// Package ui provides terminal output for the pdf2pptx CLI.
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// UI writes human output to Out and diagnostics to Err. In JSON mode it
// writes one JSON object per line to Out and nothing decorative.
type UI struct {
	Out      io.Writer
	Err      io.Writer
	jsonMode bool
	verbose  bool
}

// New creates a UI on stdout and stderr.
func New(jsonMode, noColor, verbose bool) *UI {
	if noColor {
		color.NoColor = true
	}
	return &UI{Out: os.Stdout, Err: os.Stderr, jsonMode: jsonMode, verbose: verbose}
}

// JSON reports whether the UI is in JSON mode.
func (u *UI) JSON() bool {
	return u.jsonMode
}

// Interactive reports whether stderr is a terminal and animations make sense.
func (u *UI) Interactive() bool {
	if u.jsonMode {
		return false
	}
	f, ok := u.Err.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Emit writes v as one JSON line in JSON mode.
func (u *UI) Emit(v interface{}) {
	if !u.jsonMode {
		return
	}
	_ = json.NewEncoder(u.Out).Encode(v)
}

// Success prints a success message.
func (u *UI) Success(format string, args ...interface{}) {
	if u.jsonMode {
		return
	}
	color.New(color.FgGreen).Fprintf(u.Out, "✓ %s\n", fmt.Sprintf(format, args...))
}

// Error prints an error message to stderr.
func (u *UI) Error(format string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(u.Err, "✗ %s\n", fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (u *UI) Warning(format string, args ...interface{}) {
	if u.jsonMode {
		return
	}
	color.New(color.FgYellow).Fprintf(u.Out, "⚠ %s\n", fmt.Sprintf(format, args...))
}

// Info prints an informational message.
func (u *UI) Info(format string, args ...interface{}) {
	if u.jsonMode {
		return
	}
	color.New(color.FgCyan).Fprintf(u.Out, "ℹ %s\n", fmt.Sprintf(format, args...))
}

// Verbose prints only when --verbose is set.
func (u *UI) Verbose(format string, args ...interface{}) {
	if u.jsonMode || !u.verbose {
		return
	}
	fmt.Fprintf(u.Err, "  %s\n", fmt.Sprintf(format, args...))
}

// ProgressBar is a 0..100 bar whose description follows the current phase.
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

// NewProgressBar creates a percentage bar on w.
func NewProgressBar(w io.Writer, description string) *ProgressBar {
	bar := progressbar.NewOptions(
		100,
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &ProgressBar{bar: bar}
}

// Set moves the bar to percent and shows phase.
func (p *ProgressBar) Set(percent int, phase string) {
	p.bar.Describe(phase)
	_ = p.bar.Set(percent)
}

// Stop leaves the bar where it is and ends the line.
func (p *ProgressBar) Stop() {
	_ = p.bar.Exit()
}

// Spinner shows indeterminate progress.
type Spinner struct {
	spinner *spinner.Spinner
}

// NewSpinner creates a spinner on w with the given message.
func NewSpinner(w io.Writer, message string) *Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + message
	return &Spinner{spinner: s}
}

// Start starts the animation.
func (s *Spinner) Start() {
	s.spinner.Start()
}

// Stop stops the animation and clears the line.
func (s *Spinner) Stop() {
	s.spinner.Stop()
}

// UpdateMessage changes the spinner's message.
func (s *Spinner) UpdateMessage(message string) {
	s.spinner.Suffix = " " + message
}
