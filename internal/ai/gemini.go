package ai

import (
	"context"
	"fmt"
	"time"

	"pdf-chat-backend/internal/config"
	"pdf-chat-backend/internal/logger"

	"github.com/google/generative-ai-go/genai"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

// Gemini caps batch embedding requests at 100 contents per call.
const embedBatchLimit = 100

// Client wraps the Gemini SDK for embeddings and answer generation.
// Generation is guarded by a circuit breaker and a client-side rate limiter;
// nothing here retries a failed call.
type Client struct {
	client      *genai.Client
	cfg         *config.Config
	breaker     *gobreaker.CircuitBreaker
	rateLimiter *rate.Limiter
}

type RateLimits struct {
	RPM int // Requests per minute
	TPM int // Tokens per minute
	RPD int // Requests per day
}

func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	limits := getRateLimits(cfg.GeminiTier)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "GeminiAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	// RPM limit with some buffer
	rateLimiter := rate.NewLimiter(rate.Limit(float64(limits.RPM)*0.9/60.0), limits.RPM/10+1)

	return &Client{
		client:      client,
		cfg:         cfg,
		breaker:     breaker,
		rateLimiter: rateLimiter,
	}, nil
}

func getRateLimits(tier string) RateLimits {
	switch tier {
	case "tier1":
		return RateLimits{RPM: 1000, TPM: 1000000, RPD: 10000}
	case "tier2":
		return RateLimits{RPM: 2000, TPM: 4000000, RPD: 50000}
	default: // free
		return RateLimits{RPM: 10, TPM: 250000, RPD: 250}
	}
}

// EmbedTexts returns one vector per input text, order-preserving, using
// batched embedding calls.
func (c *Client) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	em := c.client.EmbeddingModel(c.cfg.GoogleEmbeddingsModel)

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchLimit {
		end := start + embedBatchLimit
		if end > len(texts) {
			end = len(texts)
		}

		batch := em.NewBatch()
		for _, text := range texts[start:end] {
			batch.AddContent(genai.Text(text))
		}

		resp, err := em.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("batch embedding failed (%d-%d of %d): %w", start, end, len(texts), err)
		}
		if len(resp.Embeddings) != end-start {
			return nil, fmt.Errorf("embedding count mismatch: sent %d, got %d", end-start, len(resp.Embeddings))
		}
		for _, emb := range resp.Embeddings {
			vectors = append(vectors, emb.Values)
		}
	}

	return vectors, nil
}

// EmbedQuery embeds a single query string.
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	em := c.client.EmbeddingModel(c.cfg.GoogleEmbeddingsModel)
	resp, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}
	if resp.Embedding == nil {
		return nil, fmt.Errorf("no embedding returned")
	}
	return resp.Embedding.Values, nil
}

// GenerateAnswer runs a single completion for the prompt. The call is made
// exactly once: a failure propagates to the caller unretried.
func (c *Client) GenerateAnswer(ctx context.Context, prompt string) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", err
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		model := c.client.GenerativeModel(c.cfg.GeminiModel)
		model.SetTemperature(0.2)
		model.SetMaxOutputTokens(2048)
		return model.GenerateContent(ctx, genai.Text(prompt))
	})
	if err != nil {
		if err == gobreaker.ErrOpenState {
			return "", fmt.Errorf("gemini temporarily unavailable (circuit open)")
		}
		return "", err
	}

	resp := result.(*genai.GenerateContentResponse)
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no candidates in gemini response")
	}

	var answer string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			answer += string(text)
		}
	}
	if answer == "" {
		return "", fmt.Errorf("empty completion from gemini")
	}
	return answer, nil
}

func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
