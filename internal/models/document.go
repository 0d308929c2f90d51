package models

import (
	"time"

	"github.com/google/uuid"
)

type ParserType string

const (
	ParserTypeLlamaParse ParserType = "llamaparse"
	ParserTypeFitz       ParserType = "fitz"
)

// Document is an invoice file that has been parsed and indexed.
type Document struct {
	ID         uuid.UUID  `db:"id"`
	FileName   string     `db:"file_name"`
	FilePath   string     `db:"file_path"`
	FileHash   string     `db:"file_hash"` // sha256 of the file contents
	Parser     ParserType `db:"parser"`
	TextLength int        `db:"text_length"`
	ChunkCount int        `db:"chunk_count"`
	CreatedAt  time.Time  `db:"created_at"`
}
