package domain

import "time"

// Document is a catalogued source file.
// Exactly one Document exists per distinct content fingerprint.
type Document struct {
	// ID is the catalog-assigned identifier.
	ID int64

	// Fingerprint is the content hash of the raw file bytes.
	Fingerprint string

	// Name is the base file name shown to users.
	Name string

	// Format is the file format resolved from the extension.
	Format Format

	// IngestedAt is when the document was recorded.
	IngestedAt time.Time

	// ChunkCount is the number of chunks stored for the document.
	ChunkCount int
}

// Chunk is a contiguous window of a document's extracted text.
type Chunk struct {
	// ID is the catalog-assigned identifier.
	ID int64

	// DocumentID links to the parent Document.
	DocumentID int64

	// Index is the zero-based position within the document.
	Index int

	// Content is the trimmed chunk text. Never empty.
	Content string
}

// KnowledgeStats summarises the catalog.
type KnowledgeStats struct {
	TotalDocuments int
	TotalChunks    int

	// FileTypes counts documents per format, e.g. {"pdf": 2, "txt": 1}.
	FileTypes map[string]int
}
