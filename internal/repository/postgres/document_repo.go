package postgres

import (
	"context"
	"errors"
	"fmt"

	"go-talent-marketplace/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type documentRepo struct {
	db *pgxpool.Pool
}

func NewDocumentRepository(db *pgxpool.Pool) domain.DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *domain.Document) error {
	query := `
		INSERT INTO documents (id, owner_id, type, file_name, content_type, size_bytes, storage_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		doc.ID, doc.OwnerID, doc.Type, doc.FileName, doc.ContentType,
		doc.SizeBytes, doc.StorageKey, doc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	query := `
		SELECT id, owner_id, type, file_name, content_type, size_bytes, storage_key, created_at
		FROM documents WHERE id = $1`

	var d domain.Document
	err := r.db.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.OwnerID, &d.Type, &d.FileName, &d.ContentType,
		&d.SizeBytes, &d.StorageKey, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *documentRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Document, error) {
	query := `
		SELECT id, owner_id, type, file_name, content_type, size_bytes, storage_key, created_at
		FROM documents WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		var d domain.Document
		err := rows.Scan(
			&d.ID, &d.OwnerID, &d.Type, &d.FileName, &d.ContentType,
			&d.SizeBytes, &d.StorageKey, &d.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
