package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"invoice-rag/internal/dto"
	"invoice-rag/internal/models"
	"invoice-rag/internal/service"
	"invoice-rag/pkg/metrics"
	"invoice-rag/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Extractor interface {
	Process(ctx context.Context, filePath string) (*models.Document, error)
	Query(ctx context.Context, query string) (string, bool, error)
	Extract(ctx context.Context) (*service.ExtractResult, error)
	ListExtractions(ctx context.Context, limit, offset int) ([]*models.Extraction, error)
	ActiveDocument() *models.Document
}

type Exporter interface {
	ExportXLSX(ctx context.Context) ([]byte, error)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type InvoiceHandler struct {
	extractor Extractor
	exporter  Exporter
	logger    *zap.Logger
}

func NewInvoiceHandler(extractor Extractor, exporter Exporter, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		extractor: extractor,
		exporter:  exporter,
		logger:    logger,
	}
}

// Process godoc
// @Summary Process an invoice PDF
// @Description Parse a PDF from a local path, index its text and make it the active document
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body dto.ProcessRequest true "Path to the PDF"
// @Success 200 {object} dto.ProcessResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /process [post]
func (h *InvoiceHandler) Process(c *fiber.Ctx) error {
	var req dto.ProcessRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, "process", fiber.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.FilePath) == "" {
		return h.fail(c, "process", fiber.StatusBadRequest, "file_path is required")
	}

	doc, err := h.extractor.Process(c.UserContext(), req.FilePath)
	if err != nil {
		h.requestLogger(c).Error("Failed to process document", zap.Error(err), zap.String("file_path", req.FilePath))
		return h.fail(c, "process", statusFor(err), err.Error())
	}

	metrics.RequestsTotal.WithLabelValues("process", "ok").Inc()
	return c.JSON(dto.ProcessResponse{
		Message:    "PDF processed and index created successfully",
		DocumentID: doc.ID.String(),
		FileName:   doc.FileName,
		TextLength: doc.TextLength,
		Chunks:     doc.ChunkCount,
	})
}

// Query godoc
// @Summary Query the active invoice
// @Description Ask a question about the processed invoice. An empty query runs the invoice extraction prompt
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body dto.QueryRequest true "Query"
// @Success 200 {object} dto.QueryResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /query [post]
func (h *InvoiceHandler) Query(c *fiber.Ctx) error {
	var req dto.QueryRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return h.fail(c, "query", fiber.StatusBadRequest, "Invalid request body")
		}
	}

	response, cached, err := h.extractor.Query(c.UserContext(), req.Query)
	if err != nil {
		h.requestLogger(c).Error("Failed to query document", zap.Error(err))
		return h.fail(c, "query", statusFor(err), err.Error())
	}

	metrics.RequestsTotal.WithLabelValues("query", "ok").Inc()
	return c.JSON(dto.QueryResponse{
		Response: response,
		Cached:   cached,
	})
}

// Extract godoc
// @Summary Extract invoice fields
// @Description Run the invoice prompt on the active document, validate and store the structured fields
// @Tags invoices
// @Produce json
// @Success 200 {object} dto.ExtractResponse
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /extract [post]
func (h *InvoiceHandler) Extract(c *fiber.Ctx) error {
	result, err := h.extractor.Extract(c.UserContext())
	if err != nil {
		h.requestLogger(c).Error("Failed to extract invoice fields", zap.Error(err))
		return h.fail(c, "extract", statusFor(err), err.Error())
	}

	e := result.Extraction
	metrics.RequestsTotal.WithLabelValues("extract", "ok").Inc()
	return c.JSON(dto.ExtractResponse{
		ExtractionID: e.ID.String(),
		DocumentID:   e.DocumentID.String(),
		Fields:       e.Fields,
		Valid:        e.Valid,
		Errors:       result.Problems,
		Raw:          e.RawResponse,
	})
}

// ListExtractions godoc
// @Summary List stored extractions
// @Tags invoices
// @Produce json
// @Param limit query int false "Limit" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} dto.ExtractionResponse
// @Failure 503 {object} map[string]string
// @Router /extractions [get]
func (h *InvoiceHandler) ListExtractions(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	offset := c.QueryInt("offset", 0)

	extractions, err := h.extractor.ListExtractions(c.UserContext(), limit, offset)
	if err != nil {
		h.requestLogger(c).Error("Failed to list extractions", zap.Error(err))
		return h.fail(c, "list", statusFor(err), err.Error())
	}

	response := make([]dto.ExtractionResponse, 0, len(extractions))
	for _, e := range extractions {
		response = append(response, dto.ExtractionResponse{
			ID:         e.ID.String(),
			DocumentID: e.DocumentID.String(),
			FileName:   e.FileName,
			Fields:     e.Fields,
			Valid:      e.Valid,
			CreatedAt:  e.CreatedAt.Format(time.RFC3339),
		})
	}

	metrics.RequestsTotal.WithLabelValues("list", "ok").Inc()
	return c.JSON(response)
}

// ExportExtractions godoc
// @Summary Export extractions as XLSX
// @Tags invoices
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 503 {object} map[string]string
// @Router /extractions/export [get]
func (h *InvoiceHandler) ExportExtractions(c *fiber.Ctx) error {
	data, err := h.exporter.ExportXLSX(c.UserContext())
	if err != nil {
		h.requestLogger(c).Error("Failed to export extractions", zap.Error(err))
		return h.fail(c, "export", statusFor(err), err.Error())
	}

	metrics.RequestsTotal.WithLabelValues("export", "ok").Inc()
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="facturas.xlsx"`)
	return c.Send(data)
}

// Health godoc
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *InvoiceHandler) Health(c *fiber.Ctx) error {
	resp := dto.HealthResponse{Status: "ok"}
	if doc := h.extractor.ActiveDocument(); doc != nil {
		resp.ActiveDocument = doc.FileName
	}
	return c.JSON(resp)
}

// requestLogger tags entries with the token subject when the route is
// authenticated.
func (h *InvoiceHandler) requestLogger(c *fiber.Ctx) *zap.Logger {
	if subject := middleware.Subject(c); subject != "" {
		return h.logger.With(zap.String("subject", subject))
	}
	return h.logger
}

func (h *InvoiceHandler) fail(c *fiber.Ctx, operation string, status int, message string) error {
	metrics.RequestsTotal.WithLabelValues(operation, "error").Inc()
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrFileNotFound),
		errors.Is(err, service.ErrNotProcessed),
		errors.Is(err, service.ErrEmptyDocument):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrInvalidResponse):
		return fiber.StatusBadGateway
	case errors.Is(err, service.ErrStorageDisabled):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
