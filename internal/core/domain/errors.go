package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Ingestion Errors.

	// ErrUnsupportedFormat indicates the file extension is not one of pdf, docx or txt.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrExtraction indicates the file could not be opened or parsed.
	ErrExtraction = errors.New("text extraction failed")

	// ErrEmptyContent indicates the extracted text is empty after trimming.
	ErrEmptyContent = errors.New("document has no text content")

	// ErrDuplicateFingerprint indicates a document with the same content is already catalogued.
	// The ingestion entry point treats this as success.
	ErrDuplicateFingerprint = errors.New("document already catalogued")

	// Retrieval Errors.

	// ErrIndexUnavailable indicates the semantic index cannot serve a query.
	// Retrieval falls back to keyword matching.
	ErrIndexUnavailable = errors.New("semantic index unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// Generation Errors.

	// ErrLLMUnavailable indicates the generation service is not configured or unreachable.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrGenerationTimeout indicates the model server did not answer in time.
	ErrGenerationTimeout = errors.New("generation timed out")

	// ErrGeneration indicates the model server returned an error or malformed response.
	ErrGeneration = errors.New("generation failed")
)
