package services

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"pdf-chat-backend/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GridFSFileStore stores raw uploads in MongoDB GridFS, for deployments
// without a persistent local disk. Files are tagged with their session ID so
// a whole session can be removed in one pass.
type GridFSFileStore struct {
	bucket *gridfs.Bucket
}

func NewGridFSFileStore(db *mongo.Database) (*GridFSFileStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName("session_uploads"))
	if err != nil {
		return nil, fmt.Errorf("failed to create GridFS bucket: %w", err)
	}
	return &GridFSFileStore{bucket: bucket}, nil
}

func (s *GridFSFileStore) SaveFile(ctx context.Context, sessionID, filename string, data []byte) (string, error) {
	name := path.Join(sessionID, path.Base(filename))
	uploadOpts := options.GridFSUpload().SetMetadata(bson.M{"session_id": sessionID})

	fileID, err := s.bucket.UploadFromStream(name, bytes.NewReader(data), uploadOpts)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to GridFS: %w", filename, err)
	}
	return fileID.Hex(), nil
}

func (s *GridFSFileStore) RemoveSession(ctx context.Context, sessionID string) error {
	cursor, err := s.bucket.Find(bson.M{"metadata.session_id": sessionID})
	if err != nil {
		return fmt.Errorf("failed to list session files: %w", err)
	}
	defer cursor.Close(ctx)

	var firstErr error
	for cursor.Next(ctx) {
		var file struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&file); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := s.bucket.Delete(file.ID); err != nil {
			logger.Error("Failed to delete GridFS file", "session_id", sessionID, "file_id", file.ID.Hex(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if err := cursor.Err(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
