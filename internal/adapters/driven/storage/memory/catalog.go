package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

// Ensure CatalogStore implements the interface.
var _ driven.CatalogStore = (*CatalogStore)(nil)

// CatalogStore is an in-memory implementation of driven.CatalogStore.
// It mirrors the sqlite store's semantics, including LIKE matching.
type CatalogStore struct {
	mu        sync.RWMutex
	documents []domain.Document
	chunks    []domain.Chunk
	nextDocID int64
	nextChkID int64
	now       func() time.Time
}

// NewCatalogStore creates a new in-memory catalog store.
func NewCatalogStore() *CatalogStore {
	return &CatalogStore{now: time.Now}
}

// FindByFingerprint returns the document with the given fingerprint.
func (s *CatalogStore) FindByFingerprint(_ context.Context, fingerprint string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.documents {
		if s.documents[i].Fingerprint == fingerprint {
			doc := s.documents[i]
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

// RecordDocument inserts a document.
func (s *CatalogStore) RecordDocument(_ context.Context, doc *domain.Document) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertDocument(doc)
}

func (s *CatalogStore) insertDocument(doc *domain.Document) (int64, error) {
	for i := range s.documents {
		if s.documents[i].Fingerprint == doc.Fingerprint {
			return 0, domain.ErrDuplicateFingerprint
		}
	}
	s.nextDocID++
	stored := *doc
	stored.ID = s.nextDocID
	stored.ChunkCount = 0
	if stored.IngestedAt.IsZero() {
		stored.IngestedAt = s.now()
	}
	s.documents = append(s.documents, stored)
	return stored.ID, nil
}

// RecordChunks appends chunks to a document.
func (s *CatalogStore) RecordChunks(_ context.Context, documentID int64, chunks []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertChunks(documentID, chunks)
}

func (s *CatalogStore) insertChunks(documentID int64, chunks []string) error {
	idx := s.indexOf(documentID)
	if idx < 0 {
		return domain.ErrNotFound
	}
	start := s.documents[idx].ChunkCount
	for i, content := range chunks {
		s.nextChkID++
		s.chunks = append(s.chunks, domain.Chunk{
			ID:         s.nextChkID,
			DocumentID: documentID,
			Index:      start + i,
			Content:    content,
		})
	}
	s.documents[idx].ChunkCount += len(chunks)
	return nil
}

// RecordIngestion records a document and its chunks atomically.
func (s *CatalogStore) RecordIngestion(_ context.Context, doc *domain.Document, chunks []string) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.insertDocument(doc)
	if err != nil {
		return nil, err
	}
	if err := s.insertChunks(id, chunks); err != nil {
		return nil, err
	}
	stored := s.documents[s.indexOf(id)]
	return &stored, nil
}

// CountDocuments returns the number of documents.
func (s *CatalogStore) CountDocuments(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents), nil
}

// CountChunks returns the number of chunks.
func (s *CatalogStore) CountChunks(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

// CountByFormat returns document counts per format.
func (s *CatalogStore) CountByFormat(_ context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int)
	for i := range s.documents {
		counts[s.documents[i].Format.String()]++
	}
	return counts, nil
}

// ListDocuments returns documents, newest first.
func (s *CatalogStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Document, len(s.documents))
	copy(result, s.documents)
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].IngestedAt.Equal(result[j].IngestedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].IngestedAt.After(result[j].IngestedAt)
	})
	return result, nil
}

// MatchChunks returns chunks matching every LIKE pattern, in insertion order.
func (s *CatalogStore) MatchChunks(_ context.Context, patterns []string, limit int) ([]driven.ChunkMatch, error) {
	if limit <= 0 || len(patterns) == 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []driven.ChunkMatch
	for _, c := range s.chunks {
		lower := strings.ToLower(c.Content)
		ok := true
		for _, p := range patterns {
			if !Like(lower, p) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		name := ""
		if idx := s.indexOf(c.DocumentID); idx >= 0 {
			name = s.documents[idx].Name
		}
		matches = append(matches, driven.ChunkMatch{Chunk: c, DocumentName: name})
		if len(matches) == limit {
			break
		}
	}
	return matches, nil
}

// ClearAll removes everything.
func (s *CatalogStore) ClearAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = nil
	s.chunks = nil
	return nil
}

// Close is a no-op.
func (s *CatalogStore) Close() error {
	return nil
}

func (s *CatalogStore) indexOf(id int64) int {
	for i := range s.documents {
		if s.documents[i].ID == id {
			return i
		}
	}
	return -1
}

// Like reports whether s matches a SQL LIKE pattern with '\' as the escape
// character. Matching is case-sensitive; callers lower-case both sides.
func Like(s, pattern string) bool {
	return like([]rune(s), []rune(pattern))
}

func like(s, p []rune) bool {
	for len(p) > 0 {
		switch p[0] {
		case '%':
			for len(p) > 0 && p[0] == '%' {
				p = p[1:]
			}
			if len(p) == 0 {
				return true
			}
			for i := 0; i <= len(s); i++ {
				if like(s[i:], p) {
					return true
				}
			}
			return false
		case '_':
			if len(s) == 0 {
				return false
			}
			s, p = s[1:], p[1:]
		default:
			if p[0] == '\\' && len(p) > 1 {
				p = p[1:]
			}
			if len(s) == 0 || s[0] != p[0] {
				return false
			}
			s, p = s[1:], p[1:]
		}
	}
	return len(s) == 0
}
