// Package textrun turns raw content-stream runs into validated text runs.
package textrun

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/Tech2AI-collab/tech2ai-hub/internal/domain"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/observability"
)

// Extractor reads a page's runs at 1.0x and keeps the ones worth placing.
type Extractor struct {
	logger *observability.Logger
}

// NewExtractor creates a new text extractor
func NewExtractor(logger *observability.Logger) *Extractor {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Extractor{logger: logger.WithOperation("extract")}
}

// Extract returns the page's runs with derived font heights.
// Whitespace-only runs are dropped; a non-finite transform is an ExtractionError.
func (e *Extractor) Extract(ctx context.Context, doc domain.Document, page int) ([]domain.TextRun, error) {
	raw, err := doc.PageText(ctx, page)
	if err != nil {
		return nil, domain.ExtractionError(fmt.Sprintf("page %d text could not be read", page), err)
	}

	runs, err := Filter(raw)
	if err != nil {
		return nil, domain.ExtractionError(fmt.Sprintf("page %d has malformed text data", page), err)
	}

	e.logger.Debug().
		Int("page", page).
		Int("raw_runs", len(raw)).
		Int("runs", len(runs)).
		Msg("text extracted")

	return runs, nil
}

// Filter validates and normalizes raw runs, preserving order.
func Filter(raw []domain.RawRun) ([]domain.TextRun, error) {
	runs := make([]domain.TextRun, 0, len(raw))
	for i, r := range raw {
		text := norm.NFC.String(r.Text)
		if IsBlank(text) {
			continue
		}
		if !r.Transform.IsFinite() {
			return nil, fmt.Errorf("run %d %q has a non-finite transform %v", i, text, r.Transform.Components())
		}
		runs = append(runs, domain.TextRun{
			Text:       text,
			Transform:  r.Transform,
			FontHeight: r.Transform.FontHeight(),
			Advance:    r.Advance,
		})
	}
	return runs, nil
}

// IsBlank reports whether s is empty or only whitespace.
func IsBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}
