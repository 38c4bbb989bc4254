package api

import (
	"errors"
	"net/http"

	"github.com/Tech2AI-collab/tech2ai-hub/internal/observability"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/uploads"
)

// UploadHandler stores multipart uploads.
type UploadHandler struct {
	logger   *observability.Logger
	store    *uploads.Store
	maxBytes int64
}

// NewUploadHandler creates an upload handler.
func NewUploadHandler(logger *observability.Logger, store *uploads.Store, maxBytes int64) *UploadHandler {
	return &UploadHandler{logger: logger, store: store, maxBytes: maxBytes}
}

type uploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Name    string `json:"name"`
	Size    string `json:"size"`
}

// Upload handles POST /api/upload with form fields file and type.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeFailure(w, http.StatusServiceUnavailable, "Uploads are not configured")
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

	saved, err := h.store.Save(header.Filename, r.FormValue("type"), file)
	if err != nil {
		h.logger.WithContext(r.Context()).Error().Err(err).Str("name", header.Filename).Msg("upload failed")
		writeFailure(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	h.logger.WithContext(r.Context()).Info().
		Str("url", saved.URL).
		Int64("bytes", saved.Bytes).
		Msg("file uploaded")

	writeJSON(w, http.StatusOK, uploadResponse{
		Success: true,
		URL:     saved.URL,
		Name:    saved.Name,
		Size:    saved.Size,
	})
}
