package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"invoice-rag/internal/models"
	"invoice-rag/pkg/config"
	"invoice-rag/pkg/metrics"

	"go.uber.org/zap"
)

const (
	jobStatusPending  = "PENDING"
	jobStatusSuccess  = "SUCCESS"
	jobStatusError    = "ERROR"
	jobStatusCanceled = "CANCELED"
)

// LlamaParser sends documents to the LlamaParse REST API.
// Flow: POST /upload -> GET /job/{id} until SUCCESS -> GET /job/{id}/result/{type}.
type LlamaParser struct {
	cfg        *config.LlamaParseConfig
	httpClient *http.Client
	logger     *zap.Logger
}

func NewLlamaParser(cfg *config.LlamaParseConfig, logger *zap.Logger) *LlamaParser {
	if cfg.ResultType == "" {
		cfg.ResultType = "text"
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	return &LlamaParser{
		cfg:        cfg,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

func (p *LlamaParser) Name() models.ParserType {
	return models.ParserTypeLlamaParse
}

type llamaJob struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error_message,omitempty"`
}

func (p *LlamaParser) Parse(ctx context.Context, filePath string) (string, error) {
	start := time.Now()

	jobID, err := p.upload(ctx, filePath)
	metrics.ObserveExternal("llamaparse", "upload", start, err)
	if err != nil {
		return "", err
	}

	p.logger.Info("LlamaParse job created", zap.String("job_id", jobID), zap.String("file", filePath))

	if err := p.waitForJob(ctx, jobID); err != nil {
		metrics.ObserveExternal("llamaparse", "job", start, err)
		return "", err
	}

	text, err := p.result(ctx, jobID)
	metrics.ObserveExternal("llamaparse", "result", start, err)
	if err != nil {
		return "", err
	}

	p.logger.Info("LlamaParse job completed",
		zap.String("job_id", jobID),
		zap.String("result_type", p.cfg.ResultType),
		zap.Int("text_length", len(text)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return text, nil
}

func (p *LlamaParser) upload(ctx context.Context, filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreatePart(map[string][]string{
		"Content-Type":        {"application/pdf"},
		"Content-Disposition": {fmt.Sprintf(`form-data; name="file"; filename="%s"`, filepath.Base(filePath))},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to copy file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url("/upload"), &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var job llamaJob
	if err := p.do(req, &job); err != nil {
		return "", fmt.Errorf("llamaparse upload: %w", err)
	}
	if job.ID == "" {
		return "", fmt.Errorf("llamaparse upload: empty job id in response")
	}

	return job.ID, nil
}

func (p *LlamaParser) waitForJob(ctx context.Context, jobID string) error {
	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url("/job/"+jobID), nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		var job llamaJob
		if err := p.do(req, &job); err != nil {
			return fmt.Errorf("llamaparse job status: %w", err)
		}

		switch strings.ToUpper(job.Status) {
		case jobStatusSuccess:
			return nil
		case jobStatusError, jobStatusCanceled:
			return fmt.Errorf("llamaparse job %s finished with status %s: %s", jobID, job.Status, job.Error)
		case jobStatusPending, "":
		default:
			p.logger.Debug("Unexpected LlamaParse job status", zap.String("status", job.Status))
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("llamaparse job %s: %w", jobID, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (p *LlamaParser) result(ctx context.Context, jobID string) (string, error) {
	resultType := strings.ToLower(p.cfg.ResultType)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url("/job/"+jobID+"/result/"+resultType), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	var payload map[string]json.RawMessage
	if err := p.do(req, &payload); err != nil {
		return "", fmt.Errorf("llamaparse result: %w", err)
	}

	raw, ok := payload[resultType]
	if !ok {
		return "", fmt.Errorf("llamaparse result: missing %q field", resultType)
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", fmt.Errorf("llamaparse result: %w", err)
	}

	return strings.TrimSpace(text), nil
}

func (p *LlamaParser) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (p *LlamaParser) url(path string) string {
	return strings.TrimRight(p.cfg.BaseURL, "/") + path
}
