package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/Tech2AI-collab/tech2ai-hub/internal/config"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/convert"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/domain"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/observability"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/progress"
)

// ConvertHandler runs a conversion per request and streams back the .pptx.
type ConvertHandler struct {
	logger   *observability.Logger
	loader   domain.Loader
	defaults config.ConversionConfig
	maxBytes int64
}

// NewConvertHandler creates a conversion handler.
func NewConvertHandler(logger *observability.Logger, loader domain.Loader, defaults config.ConversionConfig, maxBytes int64) *ConvertHandler {
	return &ConvertHandler{logger: logger, loader: loader, defaults: defaults, maxBytes: maxBytes}
}

// Convert handles POST /api/convert with form field file and optional mode
// and width_policy overrides.
func (h *ConvertHandler) Convert(w http.ResponseWriter, r *http.Request) {
	if h.loader == nil {
		writeFailure(w, http.StatusServiceUnavailable, "Conversion is not configured")
		return
	}
	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeFailure(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeFailure(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "Could not read upload")
		return
	}

	cfg := h.defaults
	if mode := r.FormValue("mode"); mode != "" {
		cfg.Mode = mode
	}
	if policy := r.FormValue("width_policy"); policy != "" {
		cfg.WidthPolicy = policy
	}
	opts, err := convert.OptionsFromConfig(cfg)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, domain.StatusMessage(err))
		return
	}

	log := h.logger.WithContext(r.Context())
	sink := progress.Func(func(percent int, phase string) {
		log.Debug().Int("percent", percent).Str("phase", phase).Msg("progress")
	})

	// Generic binary uploads count as undeclared and fall through to the signature check.
	contentType := header.Header.Get("Content-Type")
	if contentType == "application/octet-stream" {
		contentType = ""
	}

	pipeline := convert.NewPipeline(h.loader, opts, convert.WithLogger(log))
	artifact, err := pipeline.Run(r.Context(), convert.Input{
		Name:        header.Filename,
		ContentType: contentType,
		Data:        data,
	}, sink)
	if err != nil {
		writeFailure(w, statusFor(err), domain.StatusMessage(err))
		return
	}

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": artifact.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	w.Header().Set("X-Slide-Count", strconv.Itoa(artifact.SlideCount))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact.Data)
}

func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindLoad:
		return http.StatusUnprocessableEntity
	case domain.KindValidation, domain.KindConfig:
		return http.StatusBadRequest
	case domain.KindCancelled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
