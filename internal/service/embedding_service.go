package service

import (
	"context"
	"fmt"
	"time"

	"invoice-rag/pkg/config"
	"invoice-rag/pkg/metrics"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// OpenAI accepts up to 2048 inputs per request; stay well below.
const embeddingBatchSize = 100

// Embedder generates vector embeddings from text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Model() string
}

// OpenAIEmbedder calls the OpenAI embeddings endpoint.
type OpenAIEmbedder struct {
	client openai.Client
	model  string
	logger *zap.Logger
}

func NewOpenAIEmbedder(cfg *config.OpenAIConfig, logger *zap.Logger) (*OpenAIEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required for embeddings")
	}

	return &OpenAIEmbedder{
		client: openai.NewClient(clientOptions(cfg)...),
		model:  cfg.EmbeddingModel,
		logger: logger,
	}, nil
}

func clientOptions(cfg *config.OpenAIConfig) []option.RequestOption {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return opts
}

func (e *OpenAIEmbedder) Model() string {
	return e.model
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(texts))

	for offset := 0; offset < len(texts); offset += embeddingBatchSize {
		end := min(offset+embeddingBatchSize, len(texts))
		batch := texts[offset:end]

		start := time.Now()
		resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
			Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: batch},
			Model: openai.EmbeddingModel(e.model),
		})
		metrics.ObserveExternal("openai", "embeddings", start, err)
		if err != nil {
			return nil, fmt.Errorf("embed batch at %d: %w", offset, err)
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("embed batch at %d: got %d vectors for %d inputs", offset, len(resp.Data), len(batch))
		}

		vectors := make([][]float32, len(batch))
		for _, item := range resp.Data {
			if item.Index < 0 || int(item.Index) >= len(batch) {
				return nil, fmt.Errorf("embed batch at %d: index %d out of range", offset, item.Index)
			}
			vec := make([]float32, len(item.Embedding))
			for i, v := range item.Embedding {
				vec[i] = float32(v)
			}
			vectors[item.Index] = vec
		}
		embeddings = append(embeddings, vectors...)
	}

	e.logger.Debug("Embeddings generated",
		zap.String("model", e.model),
		zap.Int("count", len(embeddings)),
	)

	return embeddings, nil
}
