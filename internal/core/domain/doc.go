// Package domain defines the core business entities for askdocs.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A catalogued source file identified by its content fingerprint
//   - Chunk: An overlapping text window cut from a document
//   - SearchResult: A ranked chunk returned by retrieval
//   - Turn: One question/answer exchange with the assistant
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
