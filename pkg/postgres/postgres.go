package postgres

import (
	"context"
	"fmt"

	"invoice-rag/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id          UUID PRIMARY KEY,
	file_name   TEXT NOT NULL,
	file_path   TEXT NOT NULL,
	file_hash   TEXT NOT NULL,
	parser      TEXT NOT NULL,
	text_length INTEGER NOT NULL,
	chunk_count INTEGER NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS extractions (
	id                                UUID PRIMARY KEY,
	document_id                       UUID NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	fecha_factura                     TEXT NOT NULL,
	fecha_desde                       TEXT NOT NULL,
	fecha_hasta                       TEXT NOT NULL,
	consumo_kwh                       TEXT NOT NULL,
	cuota_fija_sin_iva                TEXT NOT NULL,
	cuota_variable_sin_iva            TEXT NOT NULL,
	alquiler_contador_sin_iva         TEXT NOT NULL,
	impuesto_esp_hidrocarburo_sin_iva TEXT NOT NULL,
	descuento_gas                     TEXT NOT NULL,
	total_electricidad                TEXT NOT NULL,
	raw_response                      TEXT NOT NULL,
	valid                             BOOLEAN NOT NULL,
	created_at                        TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS extractions_document_id_idx ON extractions(document_id);
`

func NewPool(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.DBName),
	)

	return pool, nil
}

// Migrate creates the tables used by the repositories when missing.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
