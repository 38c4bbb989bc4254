package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Tech2AI-collab/tech2ai-hub/internal/observability"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/posts"
)

// PostsHandler serves the post store.
type PostsHandler struct {
	logger *observability.Logger
	store  *posts.Store
	now    func() time.Time
}

// NewPostsHandler creates a posts handler.
func NewPostsHandler(logger *observability.Logger, store *posts.Store) *PostsHandler {
	return &PostsHandler{logger: logger, store: store, now: time.Now}
}

func (h *PostsHandler) ready(w http.ResponseWriter) bool {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "Post store is not configured")
		return false
	}
	return true
}

// List handles GET /api/posts. ?status=published limits to published posts.
func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	var (
		all []posts.Post
		err error
	)
	if r.URL.Query().Get("status") == posts.StatusPublished {
		all, err = h.store.Published()
	} else {
		all, err = h.store.All()
	}
	if err != nil {
		h.logger.WithContext(r.Context()).Error().Err(err).Msg("list posts failed")
		writeError(w, http.StatusInternalServerError, "Failed to read posts")
		return
	}
	writeJSON(w, http.StatusOK, all)
}

// Create handles POST /api/posts. New posts default to draft, dated now.
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	var p posts.Post
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if p.Title == "" || p.Slug == "" {
		writeError(w, http.StatusBadRequest, "Title and Slug are required")
		return
	}

	if p.Date == "" {
		p.Date = h.now().UTC().Format(time.RFC3339Nano)
	}
	if p.Attachments == nil {
		p.Attachments = []posts.Attachment{}
	}
	if p.Status == "" {
		p.Status = posts.StatusDraft
	}
	p.ViewCount = 0

	if err := h.store.Upsert(p); err != nil {
		h.logger.WithContext(r.Context()).Error().Err(err).Str("slug", p.Slug).Msg("create post failed")
		writeError(w, http.StatusInternalServerError, "Failed to create post")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// Get handles GET /api/posts/{slug}.
func (h *PostsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	p, err := h.store.Get(chi.URLParam(r, "slug"))
	if errors.Is(err, posts.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read posts")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Update handles PUT /api/posts/{slug}. The slug in the path wins over the body.
func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	var p posts.Post
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	p.Slug = chi.URLParam(r, "slug")

	if err := h.store.Upsert(p); err != nil {
		h.logger.WithContext(r.Context()).Error().Err(err).Str("slug", p.Slug).Msg("update post failed")
		writeError(w, http.StatusInternalServerError, "Failed to update post")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Delete handles DELETE /api/posts/{slug}.
func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	if err := h.store.Delete(chi.URLParam(r, "slug")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete post")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// View handles POST /api/posts/{slug}/views.
func (h *PostsHandler) View(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	if err := h.store.IncrementViews(chi.URLParam(r, "slug")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record view")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
