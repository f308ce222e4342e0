package services

import "pdf-chat-backend/models"

// Chunker splits document text into overlapping fixed-size windows.
type Chunker struct {
	maxChunkSize int
	overlap      int
}

// NewChunker returns a chunker with the given window and overlap sizes,
// falling back to 1000/100 when given non-positive values. The overlap is
// clamped below the window size so the scan always advances.
func NewChunker(maxChunkSize, overlap int) *Chunker {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	if overlap < 0 {
		overlap = 100
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 2
	}
	return &Chunker{maxChunkSize: maxChunkSize, overlap: overlap}
}

// Split cuts text into ordered chunks of at most maxChunkSize runes, each
// sharing overlap runes with its predecessor. Empty input yields no chunks;
// non-empty input always yields at least one. Concatenating the first chunk
// with every later chunk minus its leading overlap reconstructs the input
// exactly.
func (c *Chunker) Split(text, source string) []models.Chunk {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var chunks []models.Chunk
	step := c.maxChunkSize - c.overlap

	for start := 0; start < len(runes); start += step {
		end := start + c.maxChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, models.Chunk{
			Text:   string(runes[start:end]),
			Source: source,
			Order:  len(chunks),
		})
		if end == len(runes) {
			break
		}
	}

	return chunks
}

// MaxChunkSize reports the configured window size in runes.
func (c *Chunker) MaxChunkSize() int { return c.maxChunkSize }

// Overlap reports the configured overlap in runes.
func (c *Chunker) Overlap() int { return c.overlap }
