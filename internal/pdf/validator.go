package pdf

import (
	"bytes"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/Tech2AI-collab/tech2ai-hub/internal/domain"
)

// signatureWindow is how far into the buffer the %PDF- header may start.
const signatureWindow = 1024

var pdfSignature = []byte("%PDF-")

var pdfContentTypes = map[string]bool{
	"application/pdf":     true,
	"application/x-pdf":   true,
	"application/acrobat": true,
}

// Validator provides input validation for PDF inputs
type Validator struct {
	// MaxBytes rejects inputs larger than this when positive.
	MaxBytes int64
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidatePDFPath validates that a file path is valid and points to a PDF
func (v *Validator) ValidatePDFPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return domain.ValidationError("file path cannot be empty", nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ValidationError(fmt.Sprintf("file does not exist: %s", path), err)
		}
		return domain.ValidationError(fmt.Sprintf("cannot access file: %s", path), err)
	}

	if info.IsDir() {
		return domain.ValidationError(fmt.Sprintf("path is a directory, not a file: %s", path), nil)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".pdf" {
		return domain.ValidationError(fmt.Sprintf("file is not a PDF (has extension %s)", ext), nil)
	}

	if v.MaxBytes > 0 && info.Size() > v.MaxBytes {
		return domain.ValidationError(fmt.Sprintf("file is too large (%d bytes, limit %d)", info.Size(), v.MaxBytes), nil)
	}

	return nil
}

// ValidateContentType rejects a declared content type that is not PDF.
// An empty declaration is accepted and left to the signature check.
func (v *Validator) ValidateContentType(contentType string) error {
	if strings.TrimSpace(contentType) == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return domain.LoadError(fmt.Sprintf("unparseable content type %q", contentType), err)
	}
	if !pdfContentTypes[strings.ToLower(mediaType)] {
		return domain.LoadError(fmt.Sprintf("input is not a PDF (content type %s)", mediaType), nil)
	}
	return nil
}

// ValidateSignature checks that data starts with a PDF header.
func (v *Validator) ValidateSignature(data []byte) error {
	if len(data) == 0 {
		return domain.LoadError("input is empty", nil)
	}
	if v.MaxBytes > 0 && int64(len(data)) > v.MaxBytes {
		return domain.LoadError(fmt.Sprintf("input is too large (%d bytes, limit %d)", len(data), v.MaxBytes), nil)
	}
	head := data
	if len(head) > signatureWindow {
		head = head[:signatureWindow]
	}
	if !bytes.Contains(head, pdfSignature) {
		return domain.LoadError("input is not a PDF (missing %PDF- header)", nil)
	}
	return nil
}

// ValidateQuality validates image quality parameter
func (v *Validator) ValidateQuality(quality int) error {
	if quality < 1 || quality > 100 {
		return domain.ValidationError(fmt.Sprintf("quality must be between 1 and 100, got %d", quality), nil)
	}
	return nil
}
