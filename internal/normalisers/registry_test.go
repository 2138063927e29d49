package normalisers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

type stubNormaliser struct {
	format domain.Format
	text   string
	err    error
}

func (s *stubNormaliser) Format() domain.Format { return s.format }

func (s *stubNormaliser) Normalise(_ context.Context, _ string) (string, error) {
	return s.text, s.err
}

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubNormaliser{format: domain.FormatText})

	assert.Equal(t, domain.FormatText, r.Resolve("notes.txt"))
	assert.Equal(t, domain.FormatUnsupported, r.Resolve("report.pdf"), "no pdf normaliser registered")
	assert.Equal(t, domain.FormatUnsupported, r.Resolve("image.png"))
}

func TestRegistry_Extract_Trims(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubNormaliser{format: domain.FormatText, text: "  \n hello \n\t"})

	format, text, err := r.Extract(context.Background(), "a.txt")

	require.NoError(t, err)
	assert.Equal(t, domain.FormatText, format)
	assert.Equal(t, "hello", text)
}

func TestRegistry_Extract_Unsupported(t *testing.T) {
	r := NewDefaultRegistry()

	format, _, err := r.Extract(context.Background(), "legacy.doc")

	assert.Equal(t, domain.FormatUnsupported, format)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestRegistry_Extract_Empty(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubNormaliser{format: domain.FormatText, text: "   \n  "})

	_, _, err := r.Extract(context.Background(), "blank.txt")

	assert.ErrorIs(t, err, domain.ErrEmptyContent)
}

func TestRegistry_Extract_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	r := NewRegistry()
	r.Register(&stubNormaliser{format: domain.FormatDOCX, err: boom})

	format, _, err := r.Extract(context.Background(), "a.docx")

	assert.Equal(t, domain.FormatDOCX, format)
	assert.ErrorIs(t, err, boom)
}

func TestRegistry_Register_Replaces(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubNormaliser{format: domain.FormatText, text: "old"})
	r.Register(&stubNormaliser{format: domain.FormatText, text: "new"})

	_, text, err := r.Extract(context.Background(), "a.txt")

	require.NoError(t, err)
	assert.Equal(t, "new", text)
}

func TestDefaultRegistry_PlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.txt")
	require.NoError(t, os.WriteFile(path, []byte("Hello world. This is a test document about cats.\n"), 0o600))

	format, text, err := NewDefaultRegistry().Extract(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, domain.FormatText, format)
	assert.Equal(t, "Hello world. This is a test document about cats.", text)
}
