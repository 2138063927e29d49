package domain

import (
	"path/filepath"
	"strings"
)

// Format is the closed set of document formats the extractor understands.
type Format string

// Supported formats.
const (
	FormatPDF         Format = "pdf"
	FormatDOCX        Format = "docx"
	FormatText        Format = "txt"
	FormatUnsupported Format = "unsupported"
)

// FormatFromPath resolves the format from a file's extension.
// Matching is case-insensitive. Markdown and .text files are read as plain text.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	case ".txt", ".text", ".md":
		return FormatText
	default:
		return FormatUnsupported
	}
}

// IsSupported returns true unless the format is FormatUnsupported.
func (f Format) IsSupported() bool {
	switch f {
	case FormatPDF, FormatDOCX, FormatText:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f Format) String() string {
	return string(f)
}

// Description returns a human-readable description of the format.
func (f Format) Description() string {
	switch f {
	case FormatPDF:
		return "PDF document"
	case FormatDOCX:
		return "Word document"
	case FormatText:
		return "Plain text"
	default:
		return unknownDescription
	}
}
