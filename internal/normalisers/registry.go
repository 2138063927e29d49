package normalisers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry maps formats to normalisers.
type Registry struct {
	mu          sync.RWMutex
	normalisers map[domain.Format]driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{normalisers: make(map[domain.Format]driven.Normaliser)}
}

// Register adds a normaliser, replacing any previous one for the same format.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.normalisers[n.Format()] = n
}

// Resolve returns the path's format, or FormatUnsupported when nothing handles it.
func (r *Registry) Resolve(path string) domain.Format {
	format := domain.FormatFromPath(path)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.normalisers[format]; !ok {
		return domain.FormatUnsupported
	}
	return format
}

// Extract resolves the format once and returns the trimmed text.
func (r *Registry) Extract(ctx context.Context, path string) (domain.Format, string, error) {
	format := domain.FormatFromPath(path)

	r.mu.RLock()
	n, ok := r.normalisers[format]
	r.mu.RUnlock()
	if !ok {
		return domain.FormatUnsupported, "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, path)
	}

	text, err := n.Normalise(ctx, path)
	if err != nil {
		return format, "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return format, "", fmt.Errorf("%w: %s", domain.ErrEmptyContent, path)
	}
	return format, text, nil
}
