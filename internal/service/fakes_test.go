package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"invoice-rag/internal/models"

	"github.com/google/uuid"
)

var testVocabulary = []string{"fecha", "factura", "consumo", "kwh", "cuota", "fija", "total", "electricidad", "descuento", "gas"}

// keywordEmbedder maps text to keyword counts so similarity is predictable.
type keywordEmbedder struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (e *keywordEmbedder) vector(text string) []float32 {
	v := make([]float32, len(testVocabulary)+1)
	v[len(testVocabulary)] = 0.01
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,:;\"{}")
		for i, k := range testVocabulary {
			if word == k {
				v[i]++
			}
		}
	}
	return v
}

func (e *keywordEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *keywordEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vector(t)
	}
	return out, nil
}

func (e *keywordEmbedder) Model() string { return "keyword" }

type fakeGenerator struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.response, g.err
}

func (g *fakeGenerator) Name() string { return "fake" }

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

func (g *fakeGenerator) lastPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.prompts) == 0 {
		return ""
	}
	return g.prompts[len(g.prompts)-1]
}

type fakeParser struct {
	text string
	err  error
}

func (p *fakeParser) Parse(_ context.Context, _ string) (string, error) {
	return p.text, p.err
}

func (p *fakeParser) Name() models.ParserType { return models.ParserTypeLlamaParse }

type memoryStore struct {
	mu          sync.Mutex
	documents   []*models.Document
	extractions []*models.Extraction
	err         error
}

func (s *memoryStore) CreateDocument(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.documents = append(s.documents, doc)
	return nil
}

func (s *memoryStore) Create(_ context.Context, e *models.Extraction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.extractions = append(s.extractions, e)
	return nil
}

func (s *memoryStore) List(_ context.Context, limit, offset int) ([]*models.Extraction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if offset >= len(s.extractions) {
		return nil, nil
	}
	end := min(offset+limit, len(s.extractions))
	return s.extractions[offset:end], nil
}

// documentStore adapts memoryStore to DocumentStore.
type documentStore struct{ *memoryStore }

func (d documentStore) Create(ctx context.Context, doc *models.Document) error {
	return d.CreateDocument(ctx, doc)
}

func (d documentStore) GetByID(_ context.Context, id uuid.UUID) (*models.Document, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, doc := range d.documents {
		if doc.ID == id {
			return doc, nil
		}
	}
	return nil, errors.New("document not found")
}

type mapCache struct {
	mu      sync.Mutex
	entries map[string]string
	err     error
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]string)}
}

func (c *mapCache) Get(_ context.Context, hash, query string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", false, c.err
	}
	v, ok := c.entries[hash+"|"+query]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, hash, query, response string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.entries[hash+"|"+query] = response
	return nil
}

var errUpstream = errors.New("upstream unavailable")
