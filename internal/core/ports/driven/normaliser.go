package driven

import (
	"context"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// Normaliser extracts plain text from files of one format.
type Normaliser interface {
	// Format returns the format this normaliser handles.
	Format() domain.Format

	// Normalise reads the file and returns its text content.
	// Returns an error wrapping domain.ErrExtraction when the file cannot be parsed.
	Normalise(ctx context.Context, path string) (string, error)
}

// NormaliserRegistry resolves a file's format and extracts its text.
type NormaliserRegistry interface {
	// Register adds a normaliser, replacing any previous one for the same format.
	Register(n Normaliser)

	// Resolve returns the format of the path, FormatUnsupported if no normaliser handles it.
	Resolve(path string) domain.Format

	// Extract returns the trimmed text of the file.
	// Errors wrap domain.ErrUnsupportedFormat, domain.ErrExtraction or domain.ErrEmptyContent.
	Extract(ctx context.Context, path string) (domain.Format, string, error)
}
