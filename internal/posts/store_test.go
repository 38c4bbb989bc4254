package posts

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tech2AI-collab/tech2ai-hub/internal/domain"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/uploads"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "posts.json")
	return NewStore(path, nil, nil), path
}

func bytesOf(n int) io.Reader {
	return bytes.NewReader(make([]byte, n))
}

func slugs(ps []Post) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Slug)
	}
	return out
}

func TestAllMissingFile(t *testing.T) {
	s, _ := newTestStore(t)
	all, err := s.All()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpsertInsertsAtFront(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Upsert(Post{Slug: "first", Title: "First"}))
	require.NoError(t, s.Upsert(Post{Slug: "second", Title: "Second"}))
	require.NoError(t, s.Upsert(Post{Slug: "third", Title: "Third"}))

	all, err := s.All()
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "second", "first"}, slugs(all))
}

func TestUpsertReplacesInPlace(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Upsert(Post{Slug: "a", Title: "A"}))
	require.NoError(t, s.Upsert(Post{Slug: "b", Title: "B"}))
	require.NoError(t, s.Upsert(Post{Slug: "a", Title: "A2", Status: StatusDraft}))

	all, err := s.All()
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, slugs(all))

	got, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "A2", got.Title)
	assert.Equal(t, StatusDraft, got.Status)
}

func TestUpsertRequiresSlug(t *testing.T) {
	s, _ := newTestStore(t)
	err := s.Upsert(Post{Title: "no slug"})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestGetNotFound(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Upsert(Post{Slug: "a"}))
	require.NoError(t, s.Upsert(Post{Slug: "b"}))

	require.NoError(t, s.Delete("a"))
	require.NoError(t, s.Delete("missing"))

	all, err := s.All()
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, slugs(all))
}

func TestPublishedAndDefaults(t *testing.T) {
	s, path := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	raw := `[
  {"slug": "legacy", "title": "Legacy"},
  {"slug": "draft", "title": "Draft", "status": "draft", "attachments": []},
  {"slug": "live", "title": "Live", "status": "published", "viewCount": 4, "attachments": []}
]`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	all, err := s.All()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, StatusPublished, all[0].Status)
	assert.Equal(t, 0, all[0].ViewCount)
	assert.NotNil(t, all[0].Attachments)

	published, err := s.Published()
	require.NoError(t, err)
	assert.Equal(t, []string{"legacy", "live"}, slugs(published))
}

func TestIncrementViews(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Upsert(Post{Slug: "a"}))

	require.NoError(t, s.IncrementViews("a"))
	require.NoError(t, s.IncrementViews("a"))
	require.NoError(t, s.IncrementViews("unknown"))

	got, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 2, got.ViewCount)
}

func TestCorruptFile(t *testing.T) {
	s, path := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := s.All()
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindIO))

	require.Error(t, s.Upsert(Post{Slug: "a"}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data))
}

func TestAttachmentSizesFilled(t *testing.T) {
	root := t.TempDir()
	up := uploads.NewStore(filepath.Join(root, "uploads"))
	saved, err := up.Save("spec.pdf", uploads.KindFile, bytesOf(12636))
	require.NoError(t, err)

	s := NewStore(filepath.Join(root, "posts.json"), up, nil)
	require.NoError(t, s.Upsert(Post{
		Slug: "with-files",
		Attachments: []Attachment{
			{Name: "spec.pdf", URL: saved.URL},
			{Name: "ext", URL: "https://example.com/x.pdf"},
			{Name: "kept", URL: saved.URL, Size: "1 MB"},
		},
	}))

	got, err := s.Get("with-files")
	require.NoError(t, err)
	want := []Attachment{
		{Name: "spec.pdf", URL: saved.URL, Size: "12.34 KB"},
		{Name: "ext", URL: "https://example.com/x.pdf"},
		{Name: "kept", URL: saved.URL, Size: "1 MB"},
	}
	if diff := cmp.Diff(want, got.Attachments); diff != "" {
		t.Errorf("attachments mismatch (-want +got):\n%s", diff)
	}
}
