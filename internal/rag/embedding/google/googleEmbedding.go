package google

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/banglaqa/GoPDFQA/internal/config"
	"github.com/banglaqa/GoPDFQA/internal/rag/embedding"
	"github.com/banglaqa/GoPDFQA/pkg/logger_i"
	"google.golang.org/genai"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client
var dimension int32 = config.EmbeddingOutputDimensionality

type client struct {
	genAi *genai.Client
	model string
}

// GetEmbeddingClient builds the genai client at most once per process.
// Returns nil when initialization failed (missing key, unreachable service).
func GetEmbeddingClient(ctx context.Context, modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("google_embedding")
		newEmbedder(ctx, modelName, apikey)
	})

	if embeddingClient == nil {
		return nil
	}
	return &client{genAi: embeddingClient.genAi, model: embeddingClient.model}
}

func newEmbedder(ctx context.Context, modelName string, apikey string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating embedding client", "error", err)
		return
	}
	embeddingClient = &client{
		genAi: c,
		model: modelName,
	}
	logger.Info("Embedding client created", "model", modelName, "dimension", dimension)
	go closeClient(ctx, embeddingClient)
}

func closeClient(ctx context.Context, embeddingClient *client) {
	<-ctx.Done()
	logger.Info("Closing embedding client")
	embeddingClient.genAi = nil
	embeddingClient.model = ""
}

// GetEmbedding embeds a single question.
func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	result, err := c.genAi.Models.EmbedContent(ctx, c.model, genai.Text(query),
		&genai.EmbedContentConfig{OutputDimensionality: &dimension, TaskType: "RETRIEVAL_QUERY"})
	if err != nil {
		logger.Error("Query embedding failed", "error", err)
		return nil, err
	}
	if len(result.Embeddings) == 0 {
		return nil, errors.New("embedding service returned no vectors")
	}
	return result.Embeddings[0].Values, nil
}

// BatchEmbedding embeds all chunks of one document in a single call, with
// one retry when the service reports rate exhaustion.
func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	res, err := c.doCall(ctx, getContent(chunks))
	if err != nil {
		if !shouldRetry(err) {
			logger.Error("Batch embedding failed", "error", err)
			return nil, err
		}
		logger.Warn("Rate limit hit, retrying batch", "delay", config.EmbeddingRetryDelay)
		time.Sleep(config.EmbeddingRetryDelay)
		if res, err = c.doCall(ctx, getContent(chunks)); err != nil {
			logger.Error("Batch embedding retry failed", "error", err)
			return nil, err
		}
	}

	if len(res.Embeddings) != len(chunks) {
		return nil, errors.New("embedding count does not match chunk count")
	}
	vectors := make([][]float32, 0, len(res.Embeddings))
	for _, r := range res.Embeddings {
		vectors = append(vectors, r.Values)
	}
	return vectors, nil
}

func (c *client) doCall(ctx context.Context, content []*genai.Content) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, content,
		&genai.EmbedContentConfig{OutputDimensionality: &dimension, TaskType: "RETRIEVAL_DOCUMENT"})
}
