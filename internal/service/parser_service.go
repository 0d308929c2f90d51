package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"invoice-rag/internal/models"
	"invoice-rag/pkg/config"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// Parser turns a document on disk into plain text.
type Parser interface {
	Parse(ctx context.Context, filePath string) (string, error)
	Name() models.ParserType
}

// NewParser returns the parser selected by RAG_PARSER.
func NewParser(cfg *config.Config, logger *zap.Logger) (Parser, error) {
	switch models.ParserType(cfg.RAG.Parser) {
	case models.ParserTypeLlamaParse, "":
		if cfg.LlamaParse.APIKey == "" {
			return nil, fmt.Errorf("LLAMA_CLOUD_API_KEY is required for the llamaparse parser")
		}
		return NewLlamaParser(&cfg.LlamaParse, logger), nil
	case models.ParserTypeFitz:
		return NewFitzParser(logger), nil
	default:
		return nil, fmt.Errorf("unknown parser %q (supported: llamaparse, fitz)", cfg.RAG.Parser)
	}
}

// FitzParser extracts the text layer of a PDF locally with MuPDF.
type FitzParser struct {
	logger *zap.Logger
}

func NewFitzParser(logger *zap.Logger) *FitzParser {
	return &FitzParser{logger: logger}
}

func (p *FitzParser) Name() models.ParserType {
	return models.ParserTypeFitz
}

func (p *FitzParser) Parse(ctx context.Context, pdfPath string) (string, error) {
	if ext := strings.ToLower(filepath.Ext(pdfPath)); ext != ".pdf" {
		return "", fmt.Errorf("unsupported file format: %s (supported: pdf)", ext)
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var textBuilder strings.Builder

	for i := 0; i < doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		pageText, err := doc.Text(i)
		if err != nil {
			p.logger.Warn("Failed to extract text from page",
				zap.Int("page", i+1),
				zap.String("file", pdfPath),
				zap.Error(err),
			)
			continue
		}

		if pageText != "" {
			textBuilder.WriteString(pageText)
			textBuilder.WriteString("\n")
		}
	}

	text := strings.TrimSpace(textBuilder.String())
	if text == "" {
		return "", ErrEmptyDocument
	}

	p.logger.Info("PDF text extracted using go-fitz",
		zap.String("file", pdfPath),
		zap.Int("pages", doc.NumPage()),
		zap.Int("text_length", len(text)),
	)

	return text, nil
}
