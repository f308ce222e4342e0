package models

import "time"

// Session is a user's isolated document-collection-plus-chat context. The
// vector collection named by ID is the durable record; this struct only backs
// the advisory in-process cache.
type Session struct {
	ID        string    `json:"session_id"`
	Files     []string  `json:"files"`
	Chunks    int       `json:"chunks"`
	CreatedAt time.Time `json:"created_at"`
}

// UploadResponse is returned by the upload endpoint on success.
type UploadResponse struct {
	SessionID string `json:"session_id"`
}
