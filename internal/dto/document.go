package dto

import "invoice-rag/internal/models"

type ProcessRequest struct {
	FilePath string `json:"file_path" validate:"required"`
}

type ProcessResponse struct {
	Message    string `json:"message"`
	DocumentID string `json:"document_id"`
	FileName   string `json:"file_name"`
	TextLength int    `json:"text_length"`
	Chunks     int    `json:"chunks"`
}

type QueryRequest struct {
	Query string `json:"query"`
}

type QueryResponse struct {
	Response string `json:"response"`
	Cached   bool   `json:"cached,omitempty"`
}

type ExtractResponse struct {
	ExtractionID string               `json:"extraction_id,omitempty"`
	DocumentID   string               `json:"document_id"`
	Fields       models.InvoiceFields `json:"fields"`
	Valid        bool                 `json:"valid"`
	Errors       []string             `json:"errors,omitempty"`
	Raw          string               `json:"raw"`
}

type ExtractionResponse struct {
	ID         string               `json:"id"`
	DocumentID string               `json:"document_id"`
	FileName   string               `json:"file_name,omitempty"`
	Fields     models.InvoiceFields `json:"fields"`
	Valid      bool                 `json:"valid"`
	CreatedAt  string               `json:"created_at"`
}

type HealthResponse struct {
	Status         string `json:"status"`
	ActiveDocument string `json:"active_document,omitempty"`
}
