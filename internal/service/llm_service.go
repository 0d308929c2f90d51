package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"invoice-rag/pkg/config"
	"invoice-rag/pkg/metrics"

	"github.com/Role1776/gigago"
	"github.com/openai/openai-go"
	"go.uber.org/zap"
)

// systemInstruction frames every completion as grounded question answering
// over the indexed invoice text.
const systemInstruction = `You are an expert question answering system for utility invoices.
Always answer the query using only the provided context information, never prior knowledge.
Rules:
1. Never refer to the context explicitly in your answer.
2. Avoid phrases such as "Based on the context" or "The context information".
3. When asked for JSON, return only the JSON document.`

// Generator produces a completion for a single prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// NewGenerator returns the generator selected by RAG_GENERATOR.
func NewGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Generator, error) {
	switch cfg.RAG.Generator {
	case "openai", "":
		return NewOpenAIGenerator(&cfg.OpenAI, logger)
	case "gigachat":
		return NewGigaChatGenerator(ctx, &cfg.GigaChat, logger)
	default:
		return nil, fmt.Errorf("unknown generator %q (supported: openai, gigachat)", cfg.RAG.Generator)
	}
}

type OpenAIGenerator struct {
	client      openai.Client
	model       string
	temperature float64
	logger      *zap.Logger
}

func NewOpenAIGenerator(cfg *config.OpenAIConfig, logger *zap.Logger) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai generator")
	}

	logger.Info("Using OpenAI chat model", zap.String("model", cfg.ChatModel))

	return &OpenAIGenerator{
		client:      openai.NewClient(clientOptions(cfg)...),
		model:       cfg.ChatModel,
		temperature: cfg.Temperature,
		logger:      logger,
	}, nil
}

func (g *OpenAIGenerator) Name() string {
	return "openai/" + g.model
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemInstruction),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(g.temperature),
	})
	metrics.ObserveExternal("openai", "chat", start, err)
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}

	g.logger.Info("Completion received",
		zap.String("model", g.model),
		zap.Int64("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("elapsed", time.Since(start)),
	)

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

type GigaChatGenerator struct {
	client *gigago.Client
	model  *gigago.GenerativeModel
	name   string
	logger *zap.Logger
}

func NewGigaChatGenerator(ctx context.Context, cfg *config.GigaChatConfig, logger *zap.Logger) (*GigaChatGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GIGACHAT_API_KEY is required for the gigachat generator")
	}

	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}

	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SystemInstruction = systemInstruction
	model.Temperature = 0.1

	logger.Info("Using GigaChat model", zap.String("model", cfg.Model))

	return &GigaChatGenerator{
		client: client,
		model:  model,
		name:   cfg.Model,
		logger: logger,
	}, nil
}

func (g *GigaChatGenerator) Name() string {
	return "gigachat/" + g.name
}

func (g *GigaChatGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: prompt},
	}

	start := time.Now()
	resp, err := g.model.Generate(ctx, messages)
	metrics.ObserveExternal("gigachat", "chat", start, err)
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (g *GigaChatGenerator) Close() error {
	if g.client != nil {
		g.client.Close()
	}
	return nil
}
