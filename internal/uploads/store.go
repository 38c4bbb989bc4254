// Package uploads stores user uploads on disk under collision-resistant names
// and formats their sizes for display.
package uploads

import (
	"fmt"
	"io"
	"math"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Tech2AI-collab/tech2ai-hub/internal/domain"
)

// URLPrefix is the public path every stored upload is served under.
const URLPrefix = "/uploads/"

// Upload kinds, as sent in the form's type field.
const (
	KindFile  = "file"
	KindImage = "image"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// Saved describes a stored upload.
type Saved struct {
	URL   string `json:"url"`
	Name  string `json:"name"`
	Size  string `json:"size"`
	Bytes int64  `json:"-"`
	Path  string `json:"-"`
}

// Store writes uploads below a root directory: files/ for documents and
// images/ for everything else.
type Store struct {
	root  string
	newID func() string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{
		root:  dir,
		newID: func() string { return uuid.New().String() },
	}
}

// Root returns the directory uploads are written to.
func (s *Store) Root() string {
	return s.root
}

// Subdir maps an upload kind to its folder.
func Subdir(kind string) string {
	if kind == KindFile {
		return "files"
	}
	return "images"
}

// SanitizeName strips everything but ASCII letters, digits, dots and dashes.
func SanitizeName(name string) string {
	return unsafeChars.ReplaceAllString(filepath.Base(strings.ReplaceAll(name, `\`, "/")), "")
}

// Save copies r into the store as <uuid>-<sanitized name>.
func (s *Store) Save(name, kind string, r io.Reader) (*Saved, error) {
	sub := Subdir(kind)
	dir := filepath.Join(s.root, sub)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, domain.IOError("failed to create upload directory", err)
	}

	fileName := s.newID() + "-" + SanitizeName(name)
	dst := filepath.Join(dir, fileName)

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, domain.IOError("failed to create upload file", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return nil, domain.IOError("failed to write upload", err)
	}

	return &Saved{
		URL:   URLPrefix + sub + "/" + fileName,
		Name:  name,
		Size:  FormatSize(n),
		Bytes: n,
		Path:  dst,
	}, nil
}

// Resolve maps a public /uploads/ URL to its file path. It returns false for
// URLs outside the store.
func (s *Store) Resolve(url string) (string, bool) {
	if !strings.HasPrefix(url, URLPrefix) {
		return "", false
	}
	rel := path.Clean("/" + strings.TrimPrefix(url, URLPrefix))
	if rel == "/" {
		return "", false
	}
	return filepath.Join(s.root, filepath.FromSlash(rel)), true
}

// SizeOf returns the formatted size of the upload behind url.
func (s *Store) SizeOf(url string) (string, bool) {
	p, ok := s.Resolve(url)
	if !ok {
		return "", false
	}
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return "", false
	}
	return FormatSize(info.Size()), true
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatSize renders a byte count in base-1024 units with at most two
// decimals: 0 -> "0 Bytes", 12636 -> "12.34 KB".
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	v := float64(bytes)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	v = math.Round(v*100) / 100
	return fmt.Sprintf("%s %s", strconv.FormatFloat(v, 'f', -1, 64), sizeUnits[i])
}
