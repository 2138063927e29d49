package normalisers

import (
	"github.com/custodia-labs/askdocs-cli/internal/normalisers/docx"
	"github.com/custodia-labs/askdocs-cli/internal/normalisers/pdf"
	"github.com/custodia-labs/askdocs-cli/internal/normalisers/plaintext"
)

// NewDefaultRegistry returns a registry with the PDF, DOCX and plain text normalisers.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(pdf.New())
	r.Register(docx.New())
	r.Register(plaintext.New())
	return r
}
