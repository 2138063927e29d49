package driven

import "context"

// PostProcessor processes extracted text to produce chunks.
// PostProcessors are chained in a pipeline.
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes the extracted text and the chunks produced so far.
	// A processor that creates chunks (e.g., chunker) receives nil and returns new chunks.
	// A processor that rewrites chunks receives and returns chunks.
	Process(ctx context.Context, content string, chunks []string) ([]string, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the text through all processors in order.
	// Returns the final chunks after all processing.
	Process(ctx context.Context, content string) ([]string, error)
}
