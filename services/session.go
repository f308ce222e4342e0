package services

import (
	"context"
	"errors"

	"pdf-chat-backend/internal/logger"
)

// EndSession tears down a session: the vector collection if present and any
// stored raw files. It is idempotent - ending a session that does not exist
// reports existed=false with no error. Failures while actually attempting
// deletion are returned so the caller can report them, but a partial failure
// still removes whatever it can.
func (p *Pipeline) EndSession(ctx context.Context, sessionID string) (existed bool, err error) {
	p.cache.forget(sessionID)

	existed, existsErr := p.index.Exists(ctx, sessionID)
	if existsErr != nil {
		err = errors.Join(err, existsErr)
	}

	if deleteErr := p.index.Delete(ctx, sessionID); deleteErr != nil {
		logger.Error("Failed to delete session collection", "session_id", sessionID, "error", deleteErr)
		err = errors.Join(err, deleteErr)
	}

	if filesErr := p.files.RemoveSession(ctx, sessionID); filesErr != nil {
		logger.Error("Failed to remove session files", "session_id", sessionID, "error", filesErr)
		err = errors.Join(err, filesErr)
	}

	return existed, err
}
