// Package pdf extracts plain text from PDF files page by page.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// DefaultPageTimeout bounds text extraction for a single page.
const DefaultPageTimeout = 10 * time.Second

var errPageTimeout = errors.New("page extraction timed out")

// Normaliser handles PDF documents.
type Normaliser struct {
	pageTimeout time.Duration
}

// Option configures the normaliser.
type Option func(*Normaliser)

// WithPageTimeout overrides DefaultPageTimeout.
func WithPageTimeout(d time.Duration) Option {
	return func(n *Normaliser) {
		if d > 0 {
			n.pageTimeout = d
		}
	}
}

// New creates a new PDF normaliser.
func New(opts ...Option) *Normaliser {
	n := &Normaliser{pageTimeout: DefaultPageTimeout}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Format returns domain.FormatPDF.
func (n *Normaliser) Format() domain.Format {
	return domain.FormatPDF
}

// Normalise returns the text of every page joined with newlines.
// A page the parser cannot read fails the whole document.
func (n *Normaliser) Normalise(ctx context.Context, path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: pdf parser panic: %v", domain.ErrExtraction, r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: opening pdf: %v", domain.ErrExtraction, err)
	}
	defer f.Close()

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := n.extractPage(ctx, page)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}
			return "", fmt.Errorf("%w: page %d: %v", domain.ErrExtraction, i, err)
		}
		pages = append(pages, content)
	}

	return strings.Join(pages, "\n"), nil
}

// extractPage runs the parser on its own goroutine so a pathological page
// cannot stall ingestion, and converts parser panics into errors.
func (n *Normaliser) extractPage(ctx context.Context, page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{err: fmt.Errorf("parser panic: %v", r)}
			}
		}()
		content, err := page.GetPlainText(nil)
		resChan <- result{content: content, err: err}
	}()

	timer := time.NewTimer(n.pageTimeout)
	defer timer.Stop()

	select {
	case r := <-resChan:
		return r.content, r.err
	case <-timer.C:
		return "", errPageTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
