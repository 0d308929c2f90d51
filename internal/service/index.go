package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"invoice-rag/internal/models"
)

const (
	defaultChunkSize = 1024
	defaultTopK      = 2
)

type Chunk struct {
	Index     int
	Text      string
	Embedding []float32
}

type ScoredChunk struct {
	Chunk
	Score float64
}

// VectorIndex is the in-memory embedding index of one parsed document.
// It is immutable once built and safe for concurrent reads.
type VectorIndex struct {
	Document *models.Document
	chunks   []Chunk
}

// BuildIndex chunks text and embeds every chunk.
func BuildIndex(ctx context.Context, embedder Embedder, text string, chunkSize, overlap int) (*VectorIndex, error) {
	pieces := chunkText(text, chunkSize, overlap)
	if len(pieces) == 0 {
		return nil, ErrEmptyDocument
	}

	vectors, err := embedder.EmbedBatch(ctx, pieces)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(vectors) != len(pieces) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(pieces))
	}

	chunks := make([]Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = Chunk{Index: i, Text: piece, Embedding: vectors[i]}
	}

	return &VectorIndex{chunks: chunks}, nil
}

func (ix *VectorIndex) Len() int {
	return len(ix.chunks)
}

// Search returns the k chunks most similar to query, best first.
func (ix *VectorIndex) Search(query []float32, k int) []ScoredChunk {
	if k <= 0 {
		k = defaultTopK
	}

	scored := make([]ScoredChunk, len(ix.chunks))
	for i, c := range ix.chunks {
		scored[i] = ScoredChunk{Chunk: c, Score: cosineSimilarity(query, c.Embedding)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// chunkText splits text into windows of at most size runes, cutting on
// whitespace where possible. Consecutive windows share overlap runes.
func chunkText(text string, size, overlap int) []string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}
	if size <= 0 {
		size = defaultChunkSize
	}
	if overlap < 0 || overlap >= size/2 {
		overlap = 0
	}

	var chunks []string
	for start := 0; start < len(runes); {
		end := start + size
		if end >= len(runes) {
			if piece := strings.TrimSpace(string(runes[start:])); piece != "" {
				chunks = append(chunks, piece)
			}
			break
		}

		cut := end
		for i := end; i > start+size/2; i-- {
			if unicode.IsSpace(runes[i]) {
				cut = i
				break
			}
		}

		if piece := strings.TrimSpace(string(runes[start:cut])); piece != "" {
			chunks = append(chunks, piece)
		}

		next := cut - overlap
		if next <= start {
			next = cut
		}
		start = next
	}

	return chunks
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
