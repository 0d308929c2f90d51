package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"invoice-rag/internal/models"
	"invoice-rag/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrFileNotFound    = errors.New("file not found")
	ErrNotProcessed    = errors.New("no document has been processed yet, call /process first")
	ErrEmptyDocument   = errors.New("document contains no text")
	ErrInvalidResponse = errors.New("invalid model response")
	ErrStorageDisabled = errors.New("persistence is not configured")
)

type DocumentStore interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
}

type ExtractionStore interface {
	Create(ctx context.Context, extraction *models.Extraction) error
	List(ctx context.Context, limit, offset int) ([]*models.Extraction, error)
}

// QueryCache stores generator answers per document content and query.
type QueryCache interface {
	Get(ctx context.Context, documentHash, query string) (string, bool, error)
	Set(ctx context.Context, documentHash, query, response string) error
}

type ExtractionConfig struct {
	ChunkSize       int
	ChunkOverlap    int
	ExternalTimeout time.Duration
}

type ExtractResult struct {
	Extraction *models.Extraction
	Problems   []string
}

// ExtractionService owns the active document index. Process replaces it,
// Query and Extract read a snapshot of it.
type ExtractionService struct {
	parser      Parser
	embedder    Embedder
	rag         *RAGService
	documents   DocumentStore
	extractions ExtractionStore
	cache       QueryCache
	cfg         ExtractionConfig
	logger      *zap.Logger

	mu     sync.RWMutex
	active *VectorIndex
}

// NewExtractionService wires the pipeline. documents, extractions and cache
// may be nil, in which case persistence or caching is skipped.
func NewExtractionService(
	parser Parser,
	embedder Embedder,
	rag *RAGService,
	documents DocumentStore,
	extractions ExtractionStore,
	cache QueryCache,
	cfg ExtractionConfig,
	logger *zap.Logger,
) *ExtractionService {
	return &ExtractionService{
		parser:      parser,
		embedder:    embedder,
		rag:         rag,
		documents:   documents,
		extractions: extractions,
		cache:       cache,
		cfg:         cfg,
		logger:      logger,
	}
}

// Process parses the file, indexes its text and makes it the active document.
func (s *ExtractionService) Process(ctx context.Context, filePath string) (*models.Document, error) {
	filePath = strings.TrimSpace(filePath)
	info, err := os.Stat(filePath)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, filePath)
	}

	hash, err := hashFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	text, err := s.parser.Parse(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	text = cleanParsedText(text)
	if text == "" {
		return nil, ErrEmptyDocument
	}

	index, err := BuildIndex(ctx, s.embedder, text, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("failed to build index: %w", err)
	}

	doc := &models.Document{
		ID:         uuid.New(),
		FileName:   filepath.Base(filePath),
		FilePath:   filePath,
		FileHash:   hash,
		Parser:     s.parser.Name(),
		TextLength: len(text),
		ChunkCount: index.Len(),
		CreatedAt:  time.Now(),
	}
	index.Document = doc

	if s.documents != nil {
		if err := s.documents.Create(ctx, doc); err != nil {
			s.logger.Warn("Failed to save document record", zap.Error(err), zap.String("document_id", doc.ID.String()))
		}
	}

	s.mu.Lock()
	s.active = index
	s.mu.Unlock()
	metrics.IndexedChunks.Set(float64(index.Len()))

	s.logger.Info("Document processed",
		zap.String("document_id", doc.ID.String()),
		zap.String("file", doc.FileName),
		zap.String("parser", string(doc.Parser)),
		zap.Int("text_length", doc.TextLength),
		zap.Int("chunks", doc.ChunkCount),
	)

	return doc, nil
}

// Query answers query against the active document. An empty query runs the
// invoice extraction prompt. The model output is returned verbatim.
func (s *ExtractionService) Query(ctx context.Context, query string) (string, bool, error) {
	index := s.snapshot()
	if index == nil {
		return "", false, ErrNotProcessed
	}

	return s.answer(ctx, index, query)
}

func (s *ExtractionService) answer(ctx context.Context, index *VectorIndex, query string) (string, bool, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		query = InvoicePrompt
	}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, index.Document.FileHash, query)
		switch {
		case err != nil:
			s.logger.Warn("Query cache lookup failed", zap.Error(err))
		case ok:
			metrics.QueryCacheHits.WithLabelValues("hit").Inc()
			return cached, true, nil
		default:
			metrics.QueryCacheHits.WithLabelValues("miss").Inc()
		}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	answer, err := s.rag.Answer(ctx, index, query)
	if err != nil {
		return "", false, fmt.Errorf("query failed: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, index.Document.FileHash, query, answer); err != nil {
			s.logger.Warn("Failed to cache query response", zap.Error(err))
		}
	}

	return answer, false, nil
}

// Extract runs the invoice prompt and turns the answer into InvoiceFields.
func (s *ExtractionService) Extract(ctx context.Context) (*ExtractResult, error) {
	index := s.snapshot()
	if index == nil {
		return nil, ErrNotProcessed
	}

	raw, _, err := s.answer(ctx, index, "")
	if err != nil {
		return nil, err
	}

	fields, problems, err := ParseInvoiceFields(raw)
	if err != nil {
		s.logger.Error("Failed to parse invoice fields", zap.Error(err), zap.String("response", raw))
		return nil, err
	}

	extraction := &models.Extraction{
		ID:          uuid.New(),
		DocumentID:  index.Document.ID,
		Fields:      fields,
		RawResponse: raw,
		Valid:       len(problems) == 0,
		CreatedAt:   time.Now(),
	}

	if len(problems) > 0 {
		s.logger.Warn("Extracted fields failed validation",
			zap.String("document_id", index.Document.ID.String()),
			zap.Strings("problems", problems),
		)
	}

	if s.extractions != nil {
		if err := s.extractions.Create(ctx, extraction); err != nil {
			s.logger.Warn("Failed to save extraction", zap.Error(err))
		}
	}

	return &ExtractResult{Extraction: extraction, Problems: problems}, nil
}

func (s *ExtractionService) ListExtractions(ctx context.Context, limit, offset int) ([]*models.Extraction, error) {
	if s.extractions == nil {
		return nil, ErrStorageDisabled
	}
	extractions, err := s.extractions.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	s.attachFileNames(ctx, extractions)
	return extractions, nil
}

// attachFileNames fills FileName from the documents table. A missing
// document leaves the name empty.
func (s *ExtractionService) attachFileNames(ctx context.Context, extractions []*models.Extraction) {
	if s.documents == nil {
		return
	}
	names := make(map[uuid.UUID]string)
	for _, e := range extractions {
		name, seen := names[e.DocumentID]
		if !seen {
			doc, err := s.documents.GetByID(ctx, e.DocumentID)
			if err != nil {
				s.logger.Warn("Failed to load document for extraction",
					zap.String("document_id", e.DocumentID.String()), zap.Error(err))
			} else {
				name = doc.FileName
			}
			names[e.DocumentID] = name
		}
		e.FileName = name
	}
}

// ActiveDocument returns the document currently served by Query, or nil.
func (s *ExtractionService) ActiveDocument() *models.Document {
	if index := s.snapshot(); index != nil {
		return index.Document
	}
	return nil
}

func (s *ExtractionService) snapshot() *VectorIndex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *ExtractionService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.ExternalTimeout > 0 {
		return context.WithTimeout(ctx, s.cfg.ExternalTimeout)
	}
	return context.WithCancel(ctx)
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
