// Package chunker splits text into overlapping chunks that prefer to end on sentence boundaries.
package chunker

import (
	"context"
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize is the default maximum chunk length in bytes.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of bytes shared by consecutive chunks.
const DefaultChunkOverlap = 200

// sentenceTerminals end a sentence for boundary detection.
const sentenceTerminals = ".!?"

// Processor splits extracted text into chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the maximum chunk size.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Overlap must be smaller than the window or it never advances.
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured maximum chunk size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Process splits content into chunks.
// Input chunks are ignored; this processor creates new chunks from the content.
func (p *Processor) Process(_ context.Context, content string, _ []string) ([]string, error) {
	return Split(content, p.chunkSize, p.overlap), nil
}

// Split cuts text into windows of at most maxSize bytes.
//
// Text no longer than maxSize is returned as a single trimmed chunk.
// Otherwise each window [start, start+maxSize) that does not reach the end
// of the text is shortened to end just after its last '.', '!' or '?'
// when that character lies strictly after start. The next window starts
// overlap bytes before the previous end. Chunks are trimmed and empty
// chunks are dropped. Cuts never split a UTF-8 sequence.
func Split(text string, maxSize, overlap int) []string {
	if maxSize <= 0 {
		maxSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= maxSize {
		overlap = maxSize / 4
	}

	if len(text) <= maxSize {
		if chunk := strings.TrimSpace(text); chunk != "" {
			return []string{chunk}
		}
		return nil
	}

	chunks := make([]string, 0, len(text)/(maxSize-overlap)+1)
	start := 0
	for start < len(text) {
		end := start + maxSize
		if end >= len(text) {
			end = len(text)
		} else {
			if cut := strings.LastIndexAny(text[start:end], sentenceTerminals); cut > 0 {
				end = start + cut + 1
			} else {
				end = runeFloor(text, end, start)
			}
		}

		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(text) {
			break
		}

		next := runeFloor(text, end-overlap, start)
		if next <= start {
			// A sentence cut close to start would move the window backwards.
			next = end
		}
		start = next
	}

	return chunks
}

// runeFloor moves i back to the start of the UTF-8 sequence containing it,
// never below lo.
func runeFloor(text string, i, lo int) int {
	for i > lo && i < len(text) && !utf8.RuneStart(text[i]) {
		i--
	}
	return i
}
