package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	cause := errors.New("unexpected EOF")

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"with cause", LoadError("not a valid PDF", cause), "[LoadError] not a valid PDF: unexpected EOF"},
		{"without cause", RenderError("page 3 failed", nil), "[RenderError] page 3 failed"},
		{"packaging", PackagingError("zip write failed", cause), "[PackagingError] zip write failed: unexpected EOF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestKindOf(t *testing.T) {
	cause := errors.New("boom")
	wrapped := fmt.Errorf("page 2: %w", ExtractionError("bad transform", cause))

	assert.Equal(t, KindExtraction, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindExtraction))
	assert.False(t, IsKind(wrapped, KindRender))
	assert.Equal(t, ErrorKind(""), KindOf(cause))
	assert.ErrorIs(t, wrapped, cause)
	assert.ErrorIs(t, wrapped, &Error{Kind: KindExtraction})
	assert.NotErrorIs(t, wrapped, &Error{Kind: KindLoad})
}

func TestStatusMessage(t *testing.T) {
	assert.Equal(t, "", StatusMessage(nil))
	assert.Equal(t,
		"Error converting file: RenderError: page 2 could not be rendered: corrupt stream",
		StatusMessage(RenderError("page 2 could not be rendered", errors.New("corrupt stream"))))
	assert.Equal(t,
		"Error converting file: LoadError: input is not a PDF",
		StatusMessage(LoadError("input is not a PDF", nil)))
	assert.Equal(t, "Error converting file: disk full", StatusMessage(errors.New("disk full")))
}
