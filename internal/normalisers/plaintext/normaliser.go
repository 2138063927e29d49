// Package plaintext reads text files, decoding them as UTF-8 when valid
// and as Latin-1 otherwise.
package plaintext

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns domain.FormatText.
func (n *Normaliser) Format() domain.Format {
	return domain.FormatText
}

// Normalise reads the whole file. Decoding never fails: every byte
// sequence is valid Latin-1.
func (n *Normaliser) Normalise(_ context.Context, path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", domain.ErrExtraction, path, err)
	}
	return Decode(raw), nil
}

// Decode interprets raw as UTF-8, or as Latin-1 when it is not valid UTF-8.
// A leading UTF-8 byte order mark is dropped.
func Decode(raw []byte) string {
	if utf8.Valid(raw) {
		if len(raw) >= 3 && raw[0] == 0xEF && raw[1] == 0xBB && raw[2] == 0xBF {
			raw = raw[3:]
		}
		return string(raw)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		// ISO 8859-1 maps every byte, so this is unreachable in practice.
		return string(raw)
	}
	return string(decoded)
}
