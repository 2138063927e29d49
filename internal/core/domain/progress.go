package domain

// IngestStage identifies a step of document ingestion.
type IngestStage string

// Ingestion stages, in the order they are reported.
const (
	StageHashing    IngestStage = "hashing"
	StageExtracting IngestStage = "extracting"
	StageChunking   IngestStage = "chunking"
	StageStoring    IngestStage = "storing"
	StageIndexing   IngestStage = "indexing"
	StageDone       IngestStage = "done"
	StageSkipped    IngestStage = "skipped"
	StageFailed     IngestStage = "failed"
)

// IsTerminal returns true for stages that end an ingestion.
func (s IngestStage) IsTerminal() bool {
	return s == StageDone || s == StageSkipped || s == StageFailed
}

// ProgressEvent is a human-readable progress notification.
type ProgressEvent struct {
	// Path is the file being ingested.
	Path string

	// Stage is the step that was reached.
	Stage IngestStage

	// Message is a short description for display.
	Message string

	// Current and Total describe chunk progress during indexing. Zero otherwise.
	Current int
	Total   int
}

// IngestReport summarises one file of a batch ingestion.
type IngestReport struct {
	Path string

	// OK mirrors the success flag of single-file ingestion.
	// Duplicates are reported as OK with Duplicate set.
	OK        bool
	Duplicate bool

	// DocumentID is set when a new document was recorded.
	DocumentID int64

	// Chunks is the number of chunks recorded.
	Chunks int

	// Err carries the failure reason when OK is false.
	Err error
}
