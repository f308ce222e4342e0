package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalFileStore keeps each session's raw uploads in a directory named by the
// session ID, removed wholesale at session end.
type LocalFileStore struct {
	baseDir string
}

func NewLocalFileStore(baseDir string) (*LocalFileStore, error) {
	if baseDir == "" {
		baseDir = "./storage"
	}
	sessionsDir := filepath.Join(baseDir, "sessions")
	if err := os.MkdirAll(sessionsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalFileStore{baseDir: sessionsDir}, nil
}

// SaveFile writes one uploaded file under the session's directory. The stored
// name is the base name of the upload, stripped of any client-supplied path.
func (s *LocalFileStore) SaveFile(ctx context.Context, sessionID, filename string, data []byte) (string, error) {
	dir := filepath.Join(s.baseDir, sessionID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create session directory: %w", err)
	}

	path := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", filename, err)
	}
	return path, nil
}

// RemoveSession deletes all files stored for the session. Removing a session
// that stored nothing is a no-op.
func (s *LocalFileStore) RemoveSession(ctx context.Context, sessionID string) error {
	return os.RemoveAll(filepath.Join(s.baseDir, sessionID))
}
