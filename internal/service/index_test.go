package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func longText(words int) string {
	parts := make([]string, words)
	for i := range parts {
		parts[i] = []string{"factura", "consumo", "gas", "importe", "periodo"}[i%5]
	}
	return strings.Join(parts, " ")
}

func TestChunkText(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, chunkText("   \n ", 100, 10))
	})

	t.Run("short text is one chunk", func(t *testing.T) {
		assert.Equal(t, []string{"Fecha factura: 20/11/2018"}, chunkText("  Fecha factura: 20/11/2018 ", 100, 10))
	})

	t.Run("chunks respect size and cover text", func(t *testing.T) {
		text := longText(300)
		chunks := chunkText(text, 100, 20)
		require.Greater(t, len(chunks), 1)

		for _, c := range chunks {
			assert.LessOrEqual(t, utf8.RuneCountInString(c), 100)
			assert.NotEqual(t, ' ', rune(c[0]))
		}
		assert.True(t, strings.HasPrefix(text, chunks[0]))
		assert.True(t, strings.HasSuffix(text, chunks[len(chunks)-1]))

		total := 0
		for _, c := range chunks {
			total += utf8.RuneCountInString(c)
		}
		assert.Greater(t, total, utf8.RuneCountInString(text), "overlap repeats text")
	})

	t.Run("oversized overlap is ignored", func(t *testing.T) {
		text := longText(200)
		assert.Equal(t, chunkText(text, 100, 0), chunkText(text, 100, 60))
	})

	t.Run("no whitespace", func(t *testing.T) {
		chunks := chunkText(strings.Repeat("x", 250), 100, 0)
		require.Len(t, chunks, 3)
		assert.Len(t, chunks[2], 50)
	})

	t.Run("multibyte runes are not split", func(t *testing.T) {
		chunks := chunkText(strings.Repeat("ñ", 150), 100, 0)
		require.Len(t, chunks, 2)
		for _, c := range chunks {
			assert.True(t, utf8.ValidString(c))
		}
	})
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2, 3}, []float32{2, 4, 6}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}))
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}

func TestVectorIndex_Search(t *testing.T) {
	ix := &VectorIndex{chunks: []Chunk{
		{Index: 0, Text: "a", Embedding: []float32{1, 0, 0}},
		{Index: 1, Text: "b", Embedding: []float32{0.7, 0.7, 0}},
		{Index: 2, Text: "c", Embedding: []float32{0, 0, 1}},
	}}

	results := ix.Search([]float32{1, 0.1, 0}, 2)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Text)
	assert.Equal(t, "b", results[1].Text)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)

	assert.Len(t, ix.Search([]float32{1, 0, 0}, 10), 3)
	assert.Len(t, ix.Search([]float32{1, 0, 0}, 0), defaultTopK)
}

func TestBuildIndex(t *testing.T) {
	ctx := context.Background()

	ix, err := BuildIndex(ctx, &keywordEmbedder{}, longText(100), 120, 20)
	require.NoError(t, err)
	assert.Greater(t, ix.Len(), 1)
	for i, c := range ix.chunks {
		assert.Equal(t, i, c.Index)
		assert.NotEmpty(t, c.Embedding)
	}

	_, err = BuildIndex(ctx, &keywordEmbedder{}, "  ", 120, 20)
	assert.ErrorIs(t, err, ErrEmptyDocument)

	_, err = BuildIndex(ctx, &keywordEmbedder{err: errUpstream}, "factura", 120, 20)
	assert.True(t, errors.Is(err, errUpstream))
}
