// Package pdf is the PDF backend: pdfcpu parses and validates structure,
// MuPDF (go-fitz) rasterizes pages and ledongthuc/pdf walks content streams for text.
package pdf

import (
	"bytes"
	"context"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/Tech2AI-collab/tech2ai-hub/internal/domain"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/observability"
)

var disableConfigDir sync.Once

// Loader opens PDF buffers. It implements domain.Loader.
type Loader struct {
	validator *Validator
	logger    *observability.Logger
}

// NewLoader creates a loader. A nil logger disables logging.
func NewLoader(logger *observability.Logger) *Loader {
	disableConfigDir.Do(api.DisableConfigDir)
	if logger == nil {
		logger = observability.Nop()
	}
	return &Loader{
		validator: NewValidator(),
		logger:    logger.WithOperation("pdf.load"),
	}
}

// WithMaxBytes caps the accepted input size.
func (l *Loader) WithMaxBytes(n int64) *Loader {
	l.validator.MaxBytes = n
	return l
}

// Load checks the signature, then parses and validates the structure.
func (l *Loader) Load(ctx context.Context, data []byte) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.CancelledError("load cancelled", err)
	}
	if err := l.validator.ValidateSignature(data); err != nil {
		return nil, err
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, domain.LoadError("PDF structure could not be parsed", err)
	}
	if err := api.ValidateContext(pctx); err != nil {
		return nil, domain.LoadError("PDF failed validation", err)
	}

	l.logger.Debug().Int("pages", pctx.PageCount).Int("bytes", len(data)).Msg("PDF loaded")

	return &Document{
		data:  data,
		pctx:  pctx,
		boxes: make(map[int]domain.PageBox, pctx.PageCount),
	}, nil
}
