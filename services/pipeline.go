package services

import (
	"context"
	"sync"

	"pdf-chat-backend/internal/config"
	"pdf-chat-backend/models"
)

// Embedder converts text into fixed-dimension vectors via a remote model.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Generator produces a single completion for a prompt.
type Generator interface {
	GenerateAnswer(ctx context.Context, prompt string) (string, error)
}

// VectorIndex is a remote nearest-neighbor store keyed by session ID.
type VectorIndex interface {
	Exists(ctx context.Context, sessionID string) (bool, error)
	CreateAndPopulate(ctx context.Context, sessionID string, chunks []models.Chunk, vectors [][]float32) error
	Query(ctx context.Context, sessionID string, vector []float32, k int) ([]models.RetrievedChunk, error)
	Delete(ctx context.Context, sessionID string) error
}

// TextExtractor pulls plain text out of an uploaded document.
type TextExtractor interface {
	Extract(ctx context.Context, content []byte, filename string) (string, error)
}

// FileStore keeps a session's raw uploads until the session ends.
type FileStore interface {
	SaveFile(ctx context.Context, sessionID, filename string, data []byte) (string, error)
	RemoveSession(ctx context.Context, sessionID string) error
}

// Pipeline orchestrates ingestion, answering, and session teardown over the
// external collaborators. It holds no per-session state beyond an advisory
// cache; the vector index's own existence check is the source of truth.
type Pipeline struct {
	cfg       *config.Config
	embedder  Embedder
	generator Generator
	index     VectorIndex
	extractor TextExtractor
	files     FileStore
	chunker   *Chunker

	cache *sessionCache
}

func NewPipeline(cfg *config.Config, embedder Embedder, generator Generator, index VectorIndex, extractor TextExtractor, files FileStore) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		embedder:  embedder,
		generator: generator,
		index:     index,
		extractor: extractor,
		files:     files,
		chunker:   NewChunker(cfg.MaxChunkSize, cfg.ChunkOverlap),
		cache:     newSessionCache(),
	}
}

// sessionCache is a lookup cache only. It is lost on restart and is never
// consulted to decide whether a session exists.
type sessionCache struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

func newSessionCache() *sessionCache {
	return &sessionCache{sessions: make(map[string]models.Session)}
}

func (c *sessionCache) put(s models.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[s.ID] = s
}

func (c *sessionCache) get(id string) (models.Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.sessions[id]
	return s, ok
}

func (c *sessionCache) forget(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
}

// Sessions returns a snapshot of sessions created by this process, for
// logging and diagnostics only.
func (p *Pipeline) Sessions() []models.Session {
	p.cache.mu.RLock()
	defer p.cache.mu.RUnlock()
	out := make([]models.Session, 0, len(p.cache.sessions))
	for _, s := range p.cache.sessions {
		out = append(out, s)
	}
	return out
}
