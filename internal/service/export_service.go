package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"invoice-rag/internal/models"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const exportSheet = "Facturas"

var exportHeaders = []string{
	"Extraction ID",
	"Document ID",
	"Fecha factura",
	"Fecha desde",
	"Fecha hasta",
	"Consumo kWh",
	"Cuota fija sin IVA",
	"Cuota variable sin IVA",
	"Alquiler contador sin IVA",
	"Impuesto esp. hidrocarburo sin IVA",
	"Descuento gas",
	"Total electricidad",
	"Valid",
	"Created at",
}

// ExportService renders persisted extractions as an XLSX workbook.
type ExportService struct {
	extractions ExtractionStore
	maxRows     int
	logger      *zap.Logger
}

func NewExportService(extractions ExtractionStore, logger *zap.Logger) *ExportService {
	return &ExportService{
		extractions: extractions,
		maxRows:     10000,
		logger:      logger,
	}
}

func (s *ExportService) ExportXLSX(ctx context.Context) ([]byte, error) {
	if s.extractions == nil {
		return nil, ErrStorageDisabled
	}

	start := time.Now()
	rows, err := s.extractions.List(ctx, s.maxRows, 0)
	if err != nil {
		return nil, fmt.Errorf("query extractions: %w", err)
	}

	data, err := buildWorkbook(rows)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Extractions exported",
		zap.Int("rows", len(rows)),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return data, nil
}

func buildWorkbook(rows []*models.Extraction) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return nil, err
		}
	}

	for r, e := range rows {
		values := []any{
			e.ID.String(),
			e.DocumentID.String(),
			e.Fields.FechaFactura,
			e.Fields.FechaDesde,
			e.Fields.FechaHasta,
			e.Fields.ConsumoKWh,
			e.Fields.CuotaFijaSinIVA,
			e.Fields.CuotaVariableSinIVA,
			e.Fields.AlquilerContadorSinIVA,
			e.Fields.ImpuestoEspHidrocarburoSinIVA,
			e.Fields.DescuentoGas,
			e.Fields.TotalElectricidad,
			e.Valid,
			e.CreatedAt.UTC().Format(time.RFC3339),
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
