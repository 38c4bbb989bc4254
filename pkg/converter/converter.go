// Package converter is the public entry point for turning PDF documents into
// PowerPoint decks.
package converter

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/Tech2AI-collab/tech2ai-hub/internal/config"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/convert"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/domain"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/observability"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/pdf"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/progress"
)

// Re-export types for the public API
type (
	Artifact    = domain.Artifact
	Mode        = domain.Mode
	WidthPolicy = domain.WidthPolicy
	ErrorKind   = domain.ErrorKind
	Error       = domain.Error
	Options     = convert.Options
	Config      = config.Config
	Event       = progress.Event
	Sink        = progress.Sink
	Logger      = observability.Logger
)

// Mode and width policy constants
const (
	ModeImage    = domain.ModeImage
	ModeEditable = domain.ModeEditable

	WidthFillSlide = domain.WidthFillSlide
	WidthMeasured  = domain.WidthMeasured
)

// Error kinds
const (
	KindLoad       = domain.KindLoad
	KindRender     = domain.KindRender
	KindExtraction = domain.KindExtraction
	KindPackaging  = domain.KindPackaging
	KindValidation = domain.KindValidation
	KindConfig     = domain.KindConfig
	KindCancelled  = domain.KindCancelled
	KindIO         = domain.KindIO
)

// DefaultOptions returns image mode at 2x on 16:9 slides.
func DefaultOptions() Options {
	return convert.DefaultOptions()
}

// KindOf returns the error kind of err, or "" if it is not a conversion error.
func KindOf(err error) ErrorKind {
	return domain.KindOf(err)
}

// StatusMessage formats err the way the conversion UI shows it.
func StatusMessage(err error) string {
	return domain.StatusMessage(err)
}

// Client converts documents. It is safe for concurrent use; every call runs
// its own pipeline.
type Client struct {
	loader    *pdf.Loader
	validator *pdf.Validator
	opts      Options
	logger    *observability.Logger
}

// NewClient creates a client from CONFIG_PATH (if set), .env and the environment.
func NewClient() (*Client, error) {
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return nil, err
	}
	return NewClientWithConfig(cfg, nil)
}

// NewClientWithConfig creates a client from cfg. logger may be nil.
func NewClientWithConfig(cfg *Config, logger *Logger) (*Client, error) {
	if cfg == nil {
		return nil, domain.ConfigError("config is required", nil)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := convert.OptionsFromConfig(cfg.Conversion)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = observability.Nop()
	}

	return &Client{
		loader:    pdf.NewLoader(logger),
		validator: pdf.NewValidator(),
		opts:      opts,
		logger:    logger,
	}, nil
}

// Options returns the client's default conversion options.
func (c *Client) Options() Options {
	return c.opts
}

// ConvertBytes converts an in-memory PDF. name is used for the output file
// name; contentType may be empty. sink may be nil.
func (c *Client) ConvertBytes(ctx context.Context, name, contentType string, data []byte, opts Options, sink Sink) (*Artifact, error) {
	p := convert.NewPipeline(c.loader, opts, convert.WithLogger(c.logger))
	return p.Run(ctx, convert.Input{Name: name, ContentType: contentType, Data: data}, sink)
}

// ConvertFile converts the PDF at path with the client's options.
func (c *Client) ConvertFile(ctx context.Context, path string, sink Sink) (*Artifact, error) {
	if err := c.validator.ValidatePDFPath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.IOError("failed to read PDF", err)
	}
	return c.ConvertBytes(ctx, filepath.Base(path), "", data, c.opts, sink)
}

// Update is one item of a Process stream. The last item carries either
// Artifact or Err.
type Update struct {
	Percent  int
	Phase    string
	Artifact *Artifact
	Err      error
}

// Done reports whether u is the final update.
func (u Update) Done() bool {
	return u.Artifact != nil || u.Err != nil
}

// Process converts the PDF at path in the background and streams progress.
// The channel is closed after the final update. Callers must drain it or
// cancel ctx.
func (c *Client) Process(ctx context.Context, path string) (<-chan Update, error) {
	if err := c.validator.ValidatePDFPath(path); err != nil {
		return nil, err
	}

	updates := make(chan Update, 16)
	send := func(u Update) {
		select {
		case updates <- u:
		case <-ctx.Done():
		}
	}

	go func() {
		defer close(updates)
		artifact, err := c.ConvertFile(ctx, path, progress.Func(func(percent int, phase string) {
			send(Update{Percent: percent, Phase: phase})
		}))
		final := Update{Percent: progress.CompletePercent, Artifact: artifact}
		if err != nil {
			final = Update{Err: err}
		}
		// After cancellation the final update is delivered only if there is room.
		select {
		case updates <- final:
		case <-ctx.Done():
			select {
			case updates <- final:
			default:
			}
		}
	}()

	return updates, nil
}
