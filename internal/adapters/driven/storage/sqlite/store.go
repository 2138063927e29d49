package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/askdocs-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

// CatalogFile is the catalog database file name inside the base path.
const CatalogFile = "documents.db"

// Store is the SQLite-backed catalog of documents and chunks.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store in the specified base directory.
// If baseDir is empty, defaults to ~/.askdocs/documents.db.
func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		baseDir = domain.DefaultBasePath()
	}

	db, dbPath, err := openDatabase(baseDir, CatalogFile)
	if err != nil {
		return nil, err
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := migrate(db, migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// openDatabase creates baseDir if needed and opens name inside it
// with WAL journaling, a busy timeout and foreign keys enabled.
func openDatabase(baseDir, name string) (*sql.DB, string, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, "", fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(baseDir, name)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, "", fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("enabling foreign keys: %w", err)
	}

	return db, dbPath, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// CatalogStore returns a CatalogStore interface backed by this store.
func (s *Store) CatalogStore() driven.CatalogStore {
	return &catalogStore{store: s}
}

// migrate runs all pending migrations, each in its own transaction.
func migrate(db *sql.DB, fsys fs.FS) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if err := applyMigration(db, version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func applyMigration(db *sql.DB, version int, script string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== Catalog Store ====================

// catalogStore implements driven.CatalogStore.
type catalogStore struct {
	store *Store
}

var _ driven.CatalogStore = (*catalogStore)(nil)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// withTx runs fn inside a transaction, committing only when fn succeeds.
func (s *catalogStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// FindByFingerprint returns the document with the given fingerprint.
func (s *catalogStore) FindByFingerprint(ctx context.Context, fingerprint string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, fingerprint, name, format, ingested_at, chunk_count
		FROM documents WHERE fingerprint = ?
	`, fingerprint)

	return scanDocument(row)
}

// RecordDocument inserts a document and returns its ID.
func (s *catalogStore) RecordDocument(ctx context.Context, doc *domain.Document) (int64, error) {
	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = insertDocument(ctx, tx, doc)
		return err
	})
	return id, err
}

// RecordChunks appends chunks after any existing ones and updates the chunk count.
func (s *catalogStore) RecordChunks(ctx context.Context, documentID int64, chunks []string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var next int
		row := tx.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(chunk_index) + 1, 0) FROM chunks WHERE document_id = ?", documentID)
		if err := row.Scan(&next); err != nil {
			return fmt.Errorf("reading chunk count: %w", err)
		}
		return insertChunks(ctx, tx, documentID, next, chunks)
	})
}

// RecordIngestion records a document and its chunks atomically.
func (s *catalogStore) RecordIngestion(ctx context.Context, doc *domain.Document, chunks []string) (*domain.Document, error) {
	recorded := *doc
	recorded.ChunkCount = 0
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := insertDocument(ctx, tx, &recorded)
		if err != nil {
			return err
		}
		recorded.ID = id
		return insertChunks(ctx, tx, id, 0, chunks)
	})
	if err != nil {
		return nil, err
	}
	recorded.ChunkCount = len(chunks)
	return &recorded, nil
}

// CountDocuments returns the number of documents.
func (s *catalogStore) CountDocuments(ctx context.Context) (int, error) {
	var n int
	if err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// CountChunks returns the number of chunks.
func (s *catalogStore) CountChunks(ctx context.Context) (int, error) {
	var n int
	if err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

// CountByFormat returns document counts grouped by format.
func (s *catalogStore) CountByFormat(ctx context.Context) (map[string]int, error) {
	rows, err := s.store.db.QueryContext(ctx, "SELECT format, COUNT(*) FROM documents GROUP BY format")
	if err != nil {
		return nil, fmt.Errorf("querying format counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var format string
		var n int
		if err := rows.Scan(&format, &n); err != nil {
			return nil, fmt.Errorf("scanning format count: %w", err)
		}
		counts[format] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating format counts: %w", err)
	}

	return counts, nil
}

// ListDocuments returns all documents, newest first.
func (s *catalogStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, fingerprint, name, format, ingested_at, chunk_count
		FROM documents ORDER BY ingested_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// MatchChunks returns chunks whose lower-cased content matches every pattern.
// Patterns use '\' as the escape character.
func (s *catalogStore) MatchChunks(ctx context.Context, patterns []string, limit int) ([]driven.ChunkMatch, error) {
	if len(patterns) == 0 || limit <= 0 {
		return nil, nil
	}

	clauses := make([]string, len(patterns))
	args := make([]any, 0, len(patterns)+1)
	for i, p := range patterns {
		clauses[i] = `c.content_lower LIKE ? ESCAPE '\'`
		args = append(args, p)
	}
	args = append(args, limit)

	//nolint:gosec // clauses are constant strings; values are bound parameters
	query := `
		SELECT c.id, c.document_id, c.chunk_index, c.content, d.name
		FROM chunks c
		JOIN documents d ON d.id = c.document_id
		WHERE ` + strings.Join(clauses, " AND ") + `
		ORDER BY c.id
		LIMIT ?`

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("matching chunks: %w", err)
	}
	defer rows.Close()

	var matches []driven.ChunkMatch //nolint:prealloc // size unknown from query
	for rows.Next() {
		var m driven.ChunkMatch
		if err := rows.Scan(&m.Chunk.ID, &m.Chunk.DocumentID, &m.Chunk.Index,
			&m.Chunk.Content, &m.DocumentName); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return matches, nil
}

// ClearAll deletes every chunk and document in one transaction.
func (s *catalogStore) ClearAll(ctx context.Context) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
			return fmt.Errorf("deleting chunks: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM documents"); err != nil {
			return fmt.Errorf("deleting documents: %w", err)
		}
		return nil
	})
}

// Close closes the underlying store.
func (s *catalogStore) Close() error {
	return s.store.Close()
}

// ==================== Helper Functions ====================

// insertDocument inserts doc, reporting duplicates as domain.ErrDuplicateFingerprint.
func insertDocument(ctx context.Context, q execer, doc *domain.Document) (int64, error) {
	var existing int64
	err := q.QueryRowContext(ctx, "SELECT id FROM documents WHERE fingerprint = ?", doc.Fingerprint).Scan(&existing)
	switch {
	case err == nil:
		return 0, fmt.Errorf("%w: document %d", domain.ErrDuplicateFingerprint, existing)
	case !errors.Is(err, sql.ErrNoRows):
		return 0, fmt.Errorf("checking fingerprint: %w", err)
	}

	ingestedAt := doc.IngestedAt
	if ingestedAt.IsZero() {
		ingestedAt = time.Now()
	}

	res, err := q.ExecContext(ctx, `
		INSERT INTO documents (fingerprint, name, format, ingested_at, chunk_count)
		VALUES (?, ?, ?, ?, ?)
	`, doc.Fingerprint, doc.Name, string(doc.Format), ingestedAt.UTC(), doc.ChunkCount)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %v", domain.ErrDuplicateFingerprint, err)
		}
		return 0, fmt.Errorf("saving document: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading document id: %w", err)
	}
	return id, nil
}

// insertChunks writes chunks with indices starting at first and bumps chunk_count.
func insertChunks(ctx context.Context, q execer, documentID int64, first int, chunks []string) error {
	if len(chunks) == 0 {
		return nil
	}

	stmt, err := q.PrepareContext(ctx, `
		INSERT INTO chunks (document_id, chunk_index, content, content_lower)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, content := range chunks {
		if _, err := stmt.ExecContext(ctx, documentID, first+i, content, strings.ToLower(content)); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	res, err := q.ExecContext(ctx,
		"UPDATE documents SET chunk_count = chunk_count + ? WHERE id = ?", len(chunks), documentID)
	if err != nil {
		return fmt.Errorf("updating chunk count: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("document %d: %w", documentID, domain.ErrNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanDocument scans a single document row.
func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var format string

	if err := row.Scan(&doc.ID, &doc.Fingerprint, &doc.Name, &format,
		&doc.IngestedAt, &doc.ChunkCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	doc.Format = domain.Format(format)

	return &doc, nil
}
