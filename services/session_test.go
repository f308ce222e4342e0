package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndSessionIdempotent(t *testing.T) {
	index := newFakeIndex()
	seedSession(index, "session-1")
	store := newFakeFileStore()
	store.saved["session-1"] = []string{"doc.pdf"}
	p := newTestPipeline(&fakeEmbedder{}, &fakeGenerator{}, index, &fakeExtractor{}, store)

	existed, err := p.EndSession(context.Background(), "session-1")
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, 1, index.deletions)
	assert.Empty(t, store.saved)

	// Second call succeeds and deletes nothing
	existed, err = p.EndSession(context.Background(), "session-1")
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Equal(t, 1, index.deletions)
}

func TestEndSessionUnknownSession(t *testing.T) {
	index := newFakeIndex()
	p := newTestPipeline(&fakeEmbedder{}, &fakeGenerator{}, index, &fakeExtractor{}, newFakeFileStore())

	existed, err := p.EndSession(context.Background(), "never-created")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestEndSessionReportsDeletionFailure(t *testing.T) {
	index := newFakeIndex()
	seedSession(index, "session-1")
	index.deleteErr = errors.New("qdrant unavailable")
	store := newFakeFileStore()
	store.saved["session-1"] = []string{"doc.pdf"}
	p := newTestPipeline(&fakeEmbedder{}, &fakeGenerator{}, index, &fakeExtractor{}, store)

	existed, err := p.EndSession(context.Background(), "session-1")
	assert.True(t, existed)
	require.Error(t, err)
	// File removal still ran despite the index failure
	assert.Empty(t, store.saved)
}

func TestEndSessionEvictsCache(t *testing.T) {
	index := newFakeIndex()
	extractor := &fakeExtractor{texts: map[string]string{"doc.pdf": "some content"}}
	p := newTestPipeline(&fakeEmbedder{}, &fakeGenerator{}, index, extractor, newFakeFileStore())

	sessionID, err := p.Ingest(context.Background(), []UploadedFile{pdfFile("doc.pdf", "x")})
	require.NoError(t, err)
	require.Len(t, p.Sessions(), 1)

	_, err = p.EndSession(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Empty(t, p.Sessions())
}
