package services

import (
	"context"
	"fmt"
	"strings"

	"pdf-chat-backend/models"
)

// NoRelevantInfoAnswer is returned verbatim when retrieval finds nothing for
// a valid session; the generative model is not invoked in that case.
const NoRelevantInfoAnswer = "I couldn't find any relevant information to answer your question."

// Answer embeds the query, retrieves the top-K most similar chunks from the
// session's collection, and generates a grounded answer citing those chunks
// in retrieval-rank order.
func (p *Pipeline) Answer(ctx context.Context, sessionID, query string) (*models.ChatResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validationErrorf("query cannot be empty")
	}

	exists, err := p.index.Exists(ctx, sessionID)
	if err != nil {
		return nil, upstreamError("index", err)
	}
	if !exists {
		p.cache.forget(sessionID)
		return nil, &NotFoundError{Msg: "session not found"}
	}

	queryVector, err := p.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, upstreamError("embedder", err)
	}

	retrieved, err := p.index.Query(ctx, sessionID, queryVector, p.cfg.RetrievalTopK)
	if err != nil {
		return nil, upstreamError("index", err)
	}

	if len(retrieved) == 0 {
		return &models.ChatResult{
			Answer:  NoRelevantInfoAnswer,
			Sources: []models.SourceDocument{},
		}, nil
	}

	answer, err := p.generator.GenerateAnswer(ctx, buildPrompt(query, retrieved))
	if err != nil {
		return nil, upstreamError("generator", err)
	}

	sources := make([]models.SourceDocument, len(retrieved))
	for i, chunk := range retrieved {
		sources[i] = models.SourceDocument{
			Content:  chunk.Content,
			Metadata: chunk.Metadata,
		}
	}

	return &models.ChatResult{Answer: answer, Sources: sources}, nil
}

// buildPrompt embeds the retrieved context and the verbatim query. Chunks are
// joined in retrieval-rank order, separated by blank lines.
func buildPrompt(query string, retrieved []models.RetrievedChunk) string {
	contents := make([]string, len(retrieved))
	for i, chunk := range retrieved {
		contents[i] = chunk.Content
	}
	context := strings.Join(contents, "\n\n")

	return fmt.Sprintf(`Answer the question based on the following context:

%s

Question: %s`, context, query)
}
