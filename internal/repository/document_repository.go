package repository

import (
	"context"

	"invoice-rag/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var documentColumns = []string{"id", "file_name", "file_path", "file_hash", "parser", "text_length", "chunk_count", "created_at"}

type DocumentRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewDocumentRepository(db *pgxpool.Pool, logger *zap.Logger) *DocumentRepository {
	return &DocumentRepository{
		db:     db,
		logger: logger,
	}
}

func insertDocumentQuery(doc *models.Document) squirrel.InsertBuilder {
	return squirrel.Insert("documents").
		Columns(documentColumns...).
		Values(doc.ID, doc.FileName, doc.FilePath, doc.FileHash, doc.Parser, doc.TextLength, doc.ChunkCount, doc.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)
}

func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	sql, args, err := insertDocumentQuery(doc).ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func documentByIDQuery(id uuid.UUID) squirrel.SelectBuilder {
	return squirrel.Select(documentColumns...).
		From("documents").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)
}

func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	sql, args, err := documentByIDQuery(id).ToSql()
	if err != nil {
		return nil, err
	}

	var doc models.Document
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&doc.ID, &doc.FileName, &doc.FilePath, &doc.FileHash, &doc.Parser, &doc.TextLength, &doc.ChunkCount, &doc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &doc, nil
}
