// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - CatalogStore: Relational record of documents and chunks (SQLite)
//   - Normaliser: Extracts plain text from one file format
//   - NormaliserRegistry: Resolves the format of a path and dispatches
//   - PostProcessorPipeline: Turns extracted text into chunks
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - VectorIndex: Semantic index entries. Without it, retrieval is keyword only.
//   - EmbeddingService: Generates vector embeddings. Without it, VectorIndex is also unused.
//   - Generator: Answer generation. Without it, questions get the fallback answer.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
