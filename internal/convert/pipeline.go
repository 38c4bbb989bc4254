// Package convert runs the PDF to PPTX pipeline: load, then one slide per
// page in strict order, then packaging.
package convert

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Tech2AI-collab/tech2ai-hub/internal/domain"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/layout"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/observability"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/pdf"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/pptx"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/progress"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/render"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/slides"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/textrun"
)

// Input is the file handed to the pipeline.
type Input struct {
	Name        string
	ContentType string
	Data        []byte
}

// Pipeline converts exactly one input. Create a new one per conversion.
type Pipeline struct {
	loader     domain.Loader
	rasterizer domain.Rasterizer
	extractor  domain.TextExtractor
	packager   domain.Packager
	validator  *pdf.Validator
	opts       Options
	logger     *observability.Logger

	mu    sync.Mutex
	state domain.State
	used  bool
	err   error
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithRasterizer replaces the default JPEG rasterizer.
func WithRasterizer(r domain.Rasterizer) Option {
	return func(p *Pipeline) { p.rasterizer = r }
}

// WithExtractor replaces the default text extractor.
func WithExtractor(e domain.TextExtractor) Option {
	return func(p *Pipeline) { p.extractor = e }
}

// WithPackager replaces the default PPTX writer.
func WithPackager(pk domain.Packager) Option {
	return func(p *Pipeline) { p.packager = pk }
}

// WithLogger sets the logger.
func WithLogger(l *observability.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// NewPipeline creates a pipeline around a PDF backend.
func NewPipeline(loader domain.Loader, opts Options, options ...Option) *Pipeline {
	p := &Pipeline{
		loader:    loader,
		validator: pdf.NewValidator(),
		opts:      opts.withDefaults(),
		logger:    observability.Nop(),
		state:     domain.StateIdle,
	}
	for _, o := range options {
		o(p)
	}
	p.logger = p.logger.WithOperation("convert")
	if p.rasterizer == nil {
		p.rasterizer = render.NewRasterizer(p.opts.Magnification, p.opts.JPEGQuality, p.logger)
	}
	if p.extractor == nil {
		p.extractor = textrun.NewExtractor(p.logger)
	}
	if p.packager == nil {
		p.packager = pptx.NewWriter()
	}
	return p
}

// State returns the current pipeline state.
func (p *Pipeline) State() domain.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Err returns the failure reason once the pipeline has failed.
func (p *Pipeline) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *Pipeline) setState(s domain.State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// Run converts in, reporting progress to sink. Any error aborts the whole
// conversion and discards every slide built so far; progress stays at its
// last value and receives the error status as its final phase.
func (p *Pipeline) Run(ctx context.Context, in Input, sink progress.Sink) (*domain.Artifact, error) {
	p.mu.Lock()
	if p.used {
		p.mu.Unlock()
		return nil, domain.ValidationError("pipeline already used, create a new one", nil)
	}
	p.used = true
	p.mu.Unlock()

	startTime := time.Now()
	reporter := progress.NewReporter(sink)
	log := p.logger.WithStr("file", in.Name)

	// Rejected inputs never reach the loading stage and report no progress.
	if err := p.validator.ValidateContentType(in.ContentType); err != nil {
		return nil, p.fail(log, reporter, err)
	}
	if err := p.validator.ValidateSignature(in.Data); err != nil {
		return nil, p.fail(log, reporter, err)
	}

	log.Info().Str("mode", string(p.opts.Mode)).Int("bytes", len(in.Data)).Msg("conversion started")

	p.setState(domain.StateLoading)
	reporter.Update(0, progress.PhaseLoading)

	doc, err := p.loader.Load(ctx, in.Data)
	if err != nil {
		if domain.KindOf(err) == "" {
			err = domain.LoadError("PDF could not be loaded", err)
		}
		return nil, p.fail(log, reporter, err)
	}
	defer doc.Close()

	total := doc.PageCount()
	reporter.Update(0, progress.PhaseFound(total))
	log.Info().Int("pages", total).Msg("document loaded")

	size, err := p.slideSize(doc)
	if err != nil {
		return nil, p.fail(log, reporter, err)
	}

	mapper := layout.NewMapper(layout.Options{
		LineHeight:  p.opts.LineHeight,
		WidthPolicy: p.opts.WidthPolicy,
		SlideWidth:  size.Width,
		FontFace:    p.opts.FontFace,
		Color:       p.opts.TextColor,
	})
	builder := slides.NewBuilder(size, total)

	p.setState(domain.StateRendering)
	for page := 1; page <= total; page++ {
		if err := ctx.Err(); err != nil {
			builder.Discard()
			return nil, p.fail(log, reporter, domain.CancelledError(fmt.Sprintf("cancelled before page %d", page), err))
		}

		if err := p.convertPage(ctx, doc, page, mapper, builder); err != nil {
			builder.Discard()
			return nil, p.fail(log, reporter, err)
		}

		reporter.Update(progress.PagePercent(page, total), progress.PhasePage(page, total))
		log.Debug().Int("page", page).Int("of", total).Msg("page committed")
	}

	if err := ctx.Err(); err != nil {
		builder.Discard()
		return nil, p.fail(log, reporter, domain.CancelledError("cancelled before packaging", err))
	}

	p.setState(domain.StatePackaging)
	reporter.Update(progress.PackagingStart, progress.PhaseFinalizing)

	fileName := pptx.OutputName(in.Name)
	pres, err := builder.Finalize(fileName)
	if err != nil {
		return nil, p.fail(log, reporter, domain.PackagingError("slide set could not be finalized", err))
	}

	data, err := p.packager.Package(pres)
	if err != nil {
		if domain.KindOf(err) == "" {
			err = domain.PackagingError("presentation could not be serialized", err)
		}
		return nil, p.fail(log, reporter, err)
	}

	artifact := &domain.Artifact{
		FileName:    fileName,
		ContentType: pptx.MediaType,
		Data:        data,
		SlideCount:  len(pres.Slides),
	}

	p.setState(domain.StateComplete)
	reporter.Complete(progress.PhaseComplete)

	log.Info().
		Int("slides", artifact.SlideCount).
		Int("bytes", len(data)).
		Dur("duration", time.Since(startTime)).
		Msg("conversion complete")

	return artifact, nil
}

func (p *Pipeline) convertPage(ctx context.Context, doc domain.Document, page int, mapper *layout.Mapper, builder *slides.Builder) error {
	switch p.opts.Mode {
	case domain.ModeEditable:
		box, err := doc.PageBox(page)
		if err != nil {
			return domain.ExtractionError(fmt.Sprintf("page %d has no usable page box", page), err)
		}
		runs, err := p.extractor.Extract(ctx, doc, page)
		if err != nil {
			return asKind(err, domain.KindExtraction, fmt.Sprintf("page %d text extraction failed", page))
		}
		return builder.AddTextBoxes(page, mapper.MapAll(runs, box))
	default:
		raster, err := p.rasterizer.Rasterize(ctx, doc, page)
		if err != nil {
			return asKind(err, domain.KindRender, fmt.Sprintf("page %d rasterization failed", page))
		}
		return builder.AddBackground(page, raster)
	}
}

func (p *Pipeline) slideSize(doc domain.Document) (domain.SlideSize, error) {
	if p.opts.SlideLayout != LayoutPage || doc.PageCount() == 0 {
		return domain.Slide16x9, nil
	}
	box, err := doc.PageBox(1)
	if err != nil {
		return domain.SlideSize{}, domain.LoadError("first page has no usable page box", err)
	}
	return domain.SlideSize{
		Width:  box.Width / domain.PointsPerInch,
		Height: box.Height / domain.PointsPerInch,
	}, nil
}

func (p *Pipeline) fail(log *observability.Logger, reporter *progress.Reporter, err error) error {
	p.mu.Lock()
	p.state = domain.StateFailed
	p.err = err
	p.mu.Unlock()

	log.Error().Err(err).
		Str("kind", string(domain.KindOf(err))).
		Int("percent", reporter.Percent()).
		Str("phase", reporter.Phase()).
		Msg("conversion failed")

	if reporter.Reported() {
		reporter.Fail(domain.StatusMessage(err))
	}
	return err
}

// asKind keeps classified errors and wraps bare ones with kind.
func asKind(err error, kind domain.ErrorKind, message string) error {
	if domain.KindOf(err) != "" {
		return err
	}
	return domain.NewError(kind, message, err)
}
