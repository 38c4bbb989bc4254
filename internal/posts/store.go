// Package posts keeps blog posts in a single JSON file keyed by slug.
package posts

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Tech2AI-collab/tech2ai-hub/internal/domain"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/observability"
)

// ErrNotFound is returned when no post has the requested slug.
var ErrNotFound = errors.New("post not found")

// Post statuses.
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
)

// Attachment is a file linked from a post.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Size string `json:"size,omitempty"`
}

// Post is one blog entry. Content is HTML or Markdown.
type Post struct {
	Slug         string       `json:"slug"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Content      string       `json:"content"`
	YoutubeURL   string       `json:"youtubeUrl,omitempty"`
	Date         string       `json:"date"`
	CoverImage   string       `json:"coverImage,omitempty"`
	Attachments  []Attachment `json:"attachments"`
	Status       string       `json:"status,omitempty"`
	ViewCount    int          `json:"viewCount"`
	InlineImages []string     `json:"inlineImages,omitempty"`
}

// SizeResolver reports the formatted size of an uploaded file by URL.
type SizeResolver interface {
	SizeOf(url string) (string, bool)
}

// Store reads and writes the posts file. Every call rereads the file, so
// edits made outside the process are picked up.
type Store struct {
	mu     sync.Mutex
	path   string
	sizes  SizeResolver
	logger *observability.Logger
}

// NewStore creates a store backed by the JSON file at path. sizes may be nil.
func NewStore(path string, sizes SizeResolver, logger *observability.Logger) *Store {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Store{
		path:   path,
		sizes:  sizes,
		logger: logger.WithOperation("posts"),
	}
}

// All returns every post in file order with defaults applied.
func (s *Store) All() ([]Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Published returns posts whose status is published.
func (s *Store) Published() ([]Post, error) {
	all, err := s.All()
	if err != nil {
		return nil, err
	}
	out := make([]Post, 0, len(all))
	for _, p := range all {
		if p.Status == StatusPublished {
			out = append(out, p)
		}
	}
	return out, nil
}

// Get returns the post with slug.
func (s *Store) Get(slug string) (*Post, error) {
	all, err := s.All()
	if err != nil {
		return nil, err
	}
	if i := indexOf(all, slug); i >= 0 {
		return &all[i], nil
	}
	return nil, ErrNotFound
}

// Upsert replaces the post with the same slug in place, or inserts it at the
// front when the slug is new.
func (s *Store) Upsert(post Post) error {
	if strings.TrimSpace(post.Slug) == "" {
		return domain.ValidationError("post slug is required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return err
	}
	if i := indexOf(all, post.Slug); i >= 0 {
		all[i] = post
	} else {
		all = append([]Post{post}, all...)
	}
	return s.save(all)
}

// Delete removes the post with slug. Deleting a missing slug is not an error.
func (s *Store) Delete(slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return err
	}
	kept := all[:0]
	for _, p := range all {
		if p.Slug != slug {
			kept = append(kept, p)
		}
	}
	return s.save(kept)
}

// IncrementViews bumps the view count of slug. Unknown slugs are ignored.
func (s *Store) IncrementViews(slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return err
	}
	i := indexOf(all, slug)
	if i < 0 {
		return nil
	}
	all[i].ViewCount++
	return s.save(all)
}

func (s *Store) load() ([]Post, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []Post{}, nil
	}
	if err != nil {
		return nil, domain.IOError("failed to read posts file", err)
	}

	var all []Post
	if err := json.Unmarshal(data, &all); err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("posts file is not valid JSON")
		return nil, domain.IOError("posts file is corrupt", err)
	}

	for i := range all {
		s.applyDefaults(&all[i])
	}
	return all, nil
}

func (s *Store) applyDefaults(p *Post) {
	if p.Status == "" {
		p.Status = StatusPublished
	}
	if p.Attachments == nil {
		p.Attachments = []Attachment{}
	}
	if s.sizes == nil {
		return
	}
	for i := range p.Attachments {
		a := &p.Attachments[i]
		if a.Size != "" {
			continue
		}
		if size, ok := s.sizes.SizeOf(a.URL); ok {
			a.Size = size
		}
	}
}

// save writes through a temp file and rename so readers never see a partial file.
func (s *Store) save(all []Post) error {
	if all == nil {
		all = []Post{}
	}
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return domain.IOError("failed to encode posts", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.IOError("failed to create posts directory", err)
	}
	tmp, err := os.CreateTemp(dir, ".posts-*.json")
	if err != nil {
		return domain.IOError("failed to create temp posts file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return domain.IOError("failed to write posts", err)
	}
	if err := tmp.Close(); err != nil {
		return domain.IOError("failed to write posts", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return domain.IOError("failed to replace posts file", err)
	}
	return nil
}

func indexOf(all []Post, slug string) int {
	for i, p := range all {
		if p.Slug == slug {
			return i
		}
	}
	return -1
}
