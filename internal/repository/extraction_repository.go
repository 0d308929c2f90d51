package repository

import (
	"context"

	"invoice-rag/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var extractionColumns = []string{
	"id", "document_id",
	"fecha_factura", "fecha_desde", "fecha_hasta", "consumo_kwh",
	"cuota_fija_sin_iva", "cuota_variable_sin_iva", "alquiler_contador_sin_iva",
	"impuesto_esp_hidrocarburo_sin_iva", "descuento_gas", "total_electricidad",
	"raw_response", "valid", "created_at",
}

type ExtractionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewExtractionRepository(db *pgxpool.Pool, logger *zap.Logger) *ExtractionRepository {
	return &ExtractionRepository{
		db:     db,
		logger: logger,
	}
}

func insertExtractionQuery(e *models.Extraction) squirrel.InsertBuilder {
	f := e.Fields
	return squirrel.Insert("extractions").
		Columns(extractionColumns...).
		Values(
			e.ID, e.DocumentID,
			f.FechaFactura, f.FechaDesde, f.FechaHasta, f.ConsumoKWh,
			f.CuotaFijaSinIVA, f.CuotaVariableSinIVA, f.AlquilerContadorSinIVA,
			f.ImpuestoEspHidrocarburoSinIVA, f.DescuentoGas, f.TotalElectricidad,
			e.RawResponse, e.Valid, e.CreatedAt,
		).
		PlaceholderFormat(squirrel.Dollar)
}

func listExtractionsQuery(limit, offset int) squirrel.SelectBuilder {
	return squirrel.Select(extractionColumns...).
		From("extractions").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)
}

func (r *ExtractionRepository) Create(ctx context.Context, e *models.Extraction) error {
	sql, args, err := insertExtractionQuery(e).ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *ExtractionRepository) List(ctx context.Context, limit, offset int) ([]*models.Extraction, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	sql, args, err := listExtractionsQuery(limit, offset).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var extractions []*models.Extraction
	for rows.Next() {
		var e models.Extraction
		f := &e.Fields
		if err := rows.Scan(
			&e.ID, &e.DocumentID,
			&f.FechaFactura, &f.FechaDesde, &f.FechaHasta, &f.ConsumoKWh,
			&f.CuotaFijaSinIVA, &f.CuotaVariableSinIVA, &f.AlquilerContadorSinIVA,
			&f.ImpuestoEspHidrocarburoSinIVA, &f.DescuentoGas, &f.TotalElectricidad,
			&e.RawResponse, &e.Valid, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		extractions = append(extractions, &e)
	}

	return extractions, rows.Err()
}
