package models

// ChatRequest is accepted as form fields or JSON.
type ChatRequest struct {
	SessionID string `form:"session_id" json:"session_id" binding:"required"`
	Query     string `form:"query" json:"query"`
}

// SourceDocument is a cited source passage returned alongside an answer.
type SourceDocument struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

// ChatResult is the outcome of one retrieval-augmented answer.
type ChatResult struct {
	Answer  string           `json:"answer"`
	Sources []SourceDocument `json:"sources"`
}

// ChatResponse is the wire shape of the chat endpoint.
type ChatResponse struct {
	Answer          string           `json:"answer"`
	SourceDocuments []SourceDocument `json:"source_documents"`
	SessionID       string           `json:"session_id"`
}
