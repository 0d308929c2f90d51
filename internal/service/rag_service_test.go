package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func indexOf(t *testing.T, embedder Embedder, texts ...string) *VectorIndex {
	t.Helper()
	vectors, err := embedder.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)

	ix := &VectorIndex{}
	for i, text := range texts {
		ix.chunks = append(ix.chunks, Chunk{Index: i, Text: text, Embedding: vectors[i]})
	}
	return ix
}

func TestRAGService_Answer(t *testing.T) {
	embedder := &keywordEmbedder{}
	generator := &fakeGenerator{response: `{"consumo_kWh": "1234 kWh"}`}
	rag := NewRAGService(embedder, generator, 2, zaptest.NewLogger(t))

	ix := indexOf(t, embedder,
		"fecha factura 20/11/2018",
		"descuento gas 5,00",
		"consumo kwh 1234 consumo",
	)

	answer, err := rag.Answer(context.Background(), ix, "consumo kwh")
	require.NoError(t, err)
	assert.Equal(t, `{"consumo_kWh": "1234 kWh"}`, answer)

	prompt := generator.lastPrompt()
	assert.Contains(t, prompt, "Context information is below.")
	assert.Contains(t, prompt, "consumo kwh 1234 consumo")
	assert.Contains(t, prompt, "Query: consumo kwh\nAnswer: ")
}

func TestRAGService_BuildContextKeepsDocumentOrder(t *testing.T) {
	rag := NewRAGService(&keywordEmbedder{}, &fakeGenerator{}, 0, zaptest.NewLogger(t))
	assert.Equal(t, defaultTopK, rag.topK)

	results := []ScoredChunk{
		{Chunk: Chunk{Index: 3, Text: "third"}, Score: 0.9},
		{Chunk: Chunk{Index: 1, Text: "first"}, Score: 0.5},
	}
	assert.Equal(t, "first\n\nthird", rag.BuildContext(results))
	assert.Equal(t, 3, results[0].Index, "input is not reordered")
}

func TestRAGService_Errors(t *testing.T) {
	ix := indexOf(t, &keywordEmbedder{}, "factura")

	rag := NewRAGService(&keywordEmbedder{err: errUpstream}, &fakeGenerator{}, 2, zaptest.NewLogger(t))
	_, err := rag.Answer(context.Background(), ix, "factura")
	assert.ErrorIs(t, err, errUpstream)

	rag = NewRAGService(&keywordEmbedder{}, &fakeGenerator{err: errUpstream}, 2, zaptest.NewLogger(t))
	_, err = rag.Answer(context.Background(), ix, "factura")
	assert.ErrorIs(t, err, errUpstream)
}
