// Package sqlite provides SQLite-based implementations of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It provides two databases:
//
//   - Store (documents.db): the CatalogStore of documents and chunks
//   - VectorIndex (semantic.db): a local semantic index with exact cosine search
//
// # Schema
//
// Each database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, both databases live in ~/.askdocs
//
// # Thread Safety
//
// All operations are safe for concurrent use. SQLite in WAL mode provides
// database-level locking.
package sqlite
