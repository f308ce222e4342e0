package models

// Chunk is a bounded, overlapping text window cut from a source document.
// It is the unit of embedding and retrieval.
type Chunk struct {
	Text   string `json:"text"`
	Source string `json:"source"` // originating filename
	Order  int    `json:"order"`  // position within the source document
}

// RetrievedChunk is a chunk returned by similarity search, in rank order.
type RetrievedChunk struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
	Score    float32        `json:"score"`
}
