package services

import (
	"context"
	"fmt"
	"sync"

	"pdf-chat-backend/internal/config"
	"pdf-chat-backend/models"
)

func testConfig() *config.Config {
	return &config.Config{
		MaxChunkSize:  1000,
		ChunkOverlap:  100,
		RetrievalTopK: 5,
	}
}

type fakeEmbedder struct {
	dim             int
	textsErr        error
	queryErr        error
	embedTextsCalls int
	embedQueryCalls int
}

func (f *fakeEmbedder) vector() []float32 {
	dim := f.dim
	if dim == 0 {
		dim = 4
	}
	v := make([]float32, dim)
	for i := range v {
		v[i] = 0.5
	}
	return v
}

func (f *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	f.embedTextsCalls++
	if f.textsErr != nil {
		return nil, f.textsErr
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = f.vector()
	}
	return vectors, nil
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	f.embedQueryCalls++
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.vector(), nil
}

type fakeGenerator struct {
	answer     string
	err        error
	calls      int
	lastPrompt string
}

func (f *fakeGenerator) GenerateAnswer(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	if f.answer == "" {
		return "generated answer", nil
	}
	return f.answer, nil
}

type fakeIndex struct {
	mu          sync.Mutex
	collections map[string][]models.Chunk
	queryHits   []models.RetrievedChunk

	existsErr error
	createErr error
	queryErr  error
	deleteErr error

	existsCalls int
	createCalls int
	queryCalls  int
	// deletions counts only removals of a collection that was present
	deletions int
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{collections: make(map[string][]models.Chunk)}
}

func (f *fakeIndex) Exists(ctx context.Context, sessionID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.existsCalls++
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.collections[sessionID]
	return ok, nil
}

func (f *fakeIndex) CreateAndPopulate(ctx context.Context, sessionID string, chunks []models.Chunk, vectors [][]float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.collections[sessionID]; ok {
		return fmt.Errorf("collection %s already exists", sessionID)
	}
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks and vectors length mismatch")
	}
	f.collections[sessionID] = chunks
	return nil
}

func (f *fakeIndex) Query(ctx context.Context, sessionID string, vector []float32, k int) ([]models.RetrievedChunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryCalls++
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if _, ok := f.collections[sessionID]; !ok {
		return nil, fmt.Errorf("collection %s does not exist", sessionID)
	}
	if len(f.queryHits) > k {
		return f.queryHits[:k], nil
	}
	return f.queryHits, nil
}

func (f *fakeIndex) Delete(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.collections[sessionID]; ok {
		f.deletions++
		delete(f.collections, sessionID)
	}
	return nil
}

type fakeExtractor struct {
	texts map[string]string // filename -> extracted text
	err   error
}

func (f *fakeExtractor) Extract(ctx context.Context, content []byte, filename string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.texts[filename], nil
}

type fakeFileStore struct {
	mu        sync.Mutex
	saved     map[string][]string // sessionID -> filenames
	saveErr   error
	removeErr error
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{saved: make(map[string][]string)}
}

func (f *fakeFileStore) SaveFile(ctx context.Context, sessionID, filename string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.saved[sessionID] = append(f.saved[sessionID], filename)
	return sessionID + "/" + filename, nil
}

func (f *fakeFileStore) RemoveSession(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.saved, sessionID)
	return nil
}

func newTestPipeline(embedder *fakeEmbedder, generator *fakeGenerator, index *fakeIndex, extractor *fakeExtractor, store *fakeFileStore) *Pipeline {
	return NewPipeline(testConfig(), embedder, generator, index, extractor, store)
}
