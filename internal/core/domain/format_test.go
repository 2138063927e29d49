package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected Format
	}{
		{name: "pdf", path: "/docs/report.pdf", expected: FormatPDF},
		{name: "upper case pdf", path: "REPORT.PDF", expected: FormatPDF},
		{name: "docx", path: "notes.docx", expected: FormatDOCX},
		{name: "txt", path: "readme.txt", expected: FormatText},
		{name: "markdown reads as text", path: "README.md", expected: FormatText},
		{name: "legacy doc unsupported", path: "old.doc", expected: FormatUnsupported},
		{name: "no extension", path: "Makefile", expected: FormatUnsupported},
		{name: "image", path: "photo.png", expected: FormatUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatFromPath(tt.path))
		})
	}
}

func TestFormat_IsSupported(t *testing.T) {
	assert.True(t, FormatPDF.IsSupported())
	assert.True(t, FormatDOCX.IsSupported())
	assert.True(t, FormatText.IsSupported())
	assert.False(t, FormatUnsupported.IsSupported())
	assert.False(t, Format("rtf").IsSupported())
}

func TestFormat_Description(t *testing.T) {
	assert.Equal(t, "PDF document", FormatPDF.Description())
	assert.Equal(t, "Unknown", FormatUnsupported.Description())
}
