package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"pdf-chat-backend/internal/logger"
	"pdf-chat-backend/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var pdfMagic = []byte("%PDF")

// UploadedFile is one uploaded document, already read into memory by the
// HTTP layer (uploads are size-capped there).
type UploadedFile struct {
	Name string
	Data []byte
}

// Ingest validates the uploaded PDFs, extracts and chunks their text, embeds
// every chunk, and creates the session's vector collection. The returned
// session ID names that collection. Any failure after the first side effect
// rolls back best-effort: the collection (if created) and the stored raw
// files are removed, then the original error propagates.
func (p *Pipeline) Ingest(ctx context.Context, files []UploadedFile) (string, error) {
	if len(files) == 0 {
		return "", validationErrorf("no files provided")
	}
	for _, f := range files {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".pdf") {
			return "", validationErrorf("file %s is not a PDF, only PDF files are allowed", f.Name)
		}
		if !bytes.HasPrefix(f.Data, pdfMagic) {
			return "", validationErrorf("file %s does not appear to be a valid PDF", f.Name)
		}
	}

	sessionID := uuid.NewString()

	chunkCount, err := p.ingestSession(ctx, sessionID, files)
	if err != nil {
		p.rollback(sessionID)
		return "", err
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	p.cache.put(models.Session{
		ID:        sessionID,
		Files:     names,
		Chunks:    chunkCount,
		CreatedAt: time.Now(),
	})

	logger.Info("Session indexed", "session_id", sessionID, "files", len(files), "chunks", chunkCount)
	return sessionID, nil
}

func (p *Pipeline) ingestSession(ctx context.Context, sessionID string, files []UploadedFile) (int, error) {
	// First side effect: persist the raw uploads under the session.
	for _, f := range files {
		if _, err := p.files.SaveFile(ctx, sessionID, f.Name, f.Data); err != nil {
			return 0, upstreamError("storage", err)
		}
	}

	// Extract text per document in parallel, preserving document order.
	texts := make([]string, len(files))
	g, extractCtx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			text, err := p.extractor.Extract(extractCtx, f.Data, f.Name)
			if err != nil {
				return upstreamError("parser", err)
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var chunks []models.Chunk
	for i, text := range texts {
		chunks = append(chunks, p.chunker.Split(text, files[i].Name)...)
	}
	if len(chunks) == 0 {
		empty := true
		for _, text := range texts {
			if strings.TrimSpace(text) != "" {
				empty = false
				break
			}
		}
		if empty {
			return 0, &IngestionError{Stage: "extract", Err: fmt.Errorf("no content extracted from PDF files")}
		}
		return 0, &IngestionError{Stage: "chunk", Err: fmt.Errorf("no text chunks created from documents")}
	}

	contents := make([]string, len(chunks))
	for i, chunk := range chunks {
		contents[i] = chunk.Text
	}
	vectors, err := p.embedder.EmbedTexts(ctx, contents)
	if err != nil {
		return 0, upstreamError("embedder", err)
	}

	if err := p.index.CreateAndPopulate(ctx, sessionID, chunks, vectors); err != nil {
		return 0, upstreamError("index", err)
	}

	return len(chunks), nil
}

// rollback removes whatever the failed ingest left behind. Cleanup failures
// are logged and swallowed so the original error is not masked. A leaked
// collection whose cleanup also failed is a known edge case; it remains
// removable through the end-session endpoint.
func (p *Pipeline) rollback(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := p.index.Delete(ctx, sessionID); err != nil {
		logger.Error("Rollback: failed to delete collection", "session_id", sessionID, "error", err)
	}
	if err := p.files.RemoveSession(ctx, sessionID); err != nil {
		logger.Error("Rollback: failed to remove session files", "session_id", sessionID, "error", err)
	}
}
