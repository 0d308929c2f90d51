package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

const qaTemplate = `Context information is below.
---------------------
%s
---------------------
Given the context information and not prior knowledge, answer the query.
Query: %s
Answer: `

// RAGService answers queries against a VectorIndex: embed the query,
// retrieve the closest chunks and ask the generator.
type RAGService struct {
	embedder  Embedder
	generator Generator
	topK      int
	logger    *zap.Logger
}

func NewRAGService(embedder Embedder, generator Generator, topK int, logger *zap.Logger) *RAGService {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &RAGService{
		embedder:  embedder,
		generator: generator,
		topK:      topK,
		logger:    logger,
	}
}

func (s *RAGService) Retrieve(ctx context.Context, index *VectorIndex, query string) ([]ScoredChunk, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results := index.Search(vector, s.topK)

	s.logger.Info("Index search completed",
		zap.Int("results", len(results)),
		zap.Int("chunks", index.Len()),
	)

	return results, nil
}

// BuildContext joins retrieved chunks in document order.
func (s *RAGService) BuildContext(results []ScoredChunk) string {
	ordered := make([]ScoredChunk, len(results))
	copy(ordered, results)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Index < ordered[j].Index
	})

	parts := make([]string, len(ordered))
	for i, r := range ordered {
		parts[i] = r.Text
	}
	return strings.Join(parts, "\n\n")
}

// Answer runs the full retrieve-then-generate cycle and returns the
// generator output untouched.
func (s *RAGService) Answer(ctx context.Context, index *VectorIndex, query string) (string, error) {
	results, err := s.Retrieve(ctx, index, query)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(qaTemplate, s.BuildContext(results), query)

	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	s.logger.Info("Query answered",
		zap.String("generator", s.generator.Name()),
		zap.Int("answer_length", len(answer)),
	)

	return answer, nil
}
