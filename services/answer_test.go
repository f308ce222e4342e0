package services

import (
	"context"
	"errors"
	"testing"

	"pdf-chat-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSession(index *fakeIndex, sessionID string) {
	index.collections[sessionID] = []models.Chunk{{Text: "seed", Source: "doc.pdf"}}
}

func TestAnswerEmptyQuery(t *testing.T) {
	index := newFakeIndex()
	embedder := &fakeEmbedder{}
	generator := &fakeGenerator{}
	p := newTestPipeline(embedder, generator, index, &fakeExtractor{}, newFakeFileStore())

	for _, query := range []string{"", "   ", "\n\t"} {
		_, err := p.Answer(context.Background(), "some-session", query)

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
	}

	// Rejected before any remote call
	assert.Zero(t, index.existsCalls)
	assert.Zero(t, embedder.embedQueryCalls)
	assert.Zero(t, generator.calls)
}

func TestAnswerUnknownSession(t *testing.T) {
	index := newFakeIndex()
	embedder := &fakeEmbedder{}
	generator := &fakeGenerator{}
	p := newTestPipeline(embedder, generator, index, &fakeExtractor{}, newFakeFileStore())

	_, err := p.Answer(context.Background(), "missing-session", "what is this about?")

	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Zero(t, embedder.embedQueryCalls)
	assert.Zero(t, generator.calls)
}

func TestAnswerNoRetrievedChunks(t *testing.T) {
	index := newFakeIndex()
	seedSession(index, "session-1")
	index.queryHits = nil
	generator := &fakeGenerator{}
	p := newTestPipeline(&fakeEmbedder{}, generator, index, &fakeExtractor{}, newFakeFileStore())

	result, err := p.Answer(context.Background(), "session-1", "anything relevant?")
	require.NoError(t, err)

	assert.Equal(t, NoRelevantInfoAnswer, result.Answer)
	assert.Empty(t, result.Sources)
	assert.NotNil(t, result.Sources)
	// The generative model is never invoked for an empty retrieval
	assert.Zero(t, generator.calls)
}

func TestAnswerReturnsSourcesInRankOrder(t *testing.T) {
	index := newFakeIndex()
	seedSession(index, "session-1")
	index.queryHits = []models.RetrievedChunk{
		{Content: "first ranked passage", Metadata: map[string]any{"source": "a.pdf", "chunk": int64(0)}, Score: 0.92},
		{Content: "second ranked passage", Metadata: map[string]any{"source": "b.pdf", "chunk": int64(3)}, Score: 0.71},
	}
	generator := &fakeGenerator{answer: "a grounded answer"}
	p := newTestPipeline(&fakeEmbedder{}, generator, index, &fakeExtractor{}, newFakeFileStore())

	result, err := p.Answer(context.Background(), "session-1", "what does the report say?")
	require.NoError(t, err)

	assert.Equal(t, "a grounded answer", result.Answer)
	require.Len(t, result.Sources, 2)
	assert.Equal(t, "first ranked passage", result.Sources[0].Content)
	assert.Equal(t, "second ranked passage", result.Sources[1].Content)
	assert.Equal(t, "a.pdf", result.Sources[0].Metadata["source"])

	assert.Equal(t, 1, generator.calls)
	assert.Contains(t, generator.lastPrompt, "first ranked passage\n\nsecond ranked passage")
	assert.Contains(t, generator.lastPrompt, "Question: what does the report say?")
}

func TestAnswerTrimsQueryBeforePrompting(t *testing.T) {
	index := newFakeIndex()
	seedSession(index, "session-1")
	index.queryHits = []models.RetrievedChunk{{Content: "passage"}}
	generator := &fakeGenerator{}
	p := newTestPipeline(&fakeEmbedder{}, generator, index, &fakeExtractor{}, newFakeFileStore())

	_, err := p.Answer(context.Background(), "session-1", "  spaced out query  ")
	require.NoError(t, err)
	assert.Contains(t, generator.lastPrompt, "Question: spaced out query")
}

func TestAnswerGeneratorFailure(t *testing.T) {
	index := newFakeIndex()
	seedSession(index, "session-1")
	index.queryHits = []models.RetrievedChunk{{Content: "passage"}}
	generator := &fakeGenerator{err: errors.New("model overloaded")}
	p := newTestPipeline(&fakeEmbedder{}, generator, index, &fakeExtractor{}, newFakeFileStore())

	_, err := p.Answer(context.Background(), "session-1", "a question")

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, "generator", upstreamErr.Service)
	// One attempt, no retry
	assert.Equal(t, 1, generator.calls)
}

func TestAnswerEmbedderFailure(t *testing.T) {
	index := newFakeIndex()
	seedSession(index, "session-1")
	embedder := &fakeEmbedder{queryErr: errors.New("auth failure")}
	generator := &fakeGenerator{}
	p := newTestPipeline(embedder, generator, index, &fakeExtractor{}, newFakeFileStore())

	_, err := p.Answer(context.Background(), "session-1", "a question")

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, "embedder", upstreamErr.Service)
	assert.Zero(t, generator.calls)
}
