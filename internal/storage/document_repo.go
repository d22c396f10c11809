package storage

import (
	"context"
	"fmt"

	"aidorag/internal/models"
)

type DocumentRepo struct {
	db *DB
}

func NewDocumentRepo(db *DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

func (r *DocumentRepo) Insert(ctx context.Context, d models.Document) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO documents (document_id, workspace_id, user_id, file_name, file_type, file_size, status)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		d.DocumentID, d.WorkspaceID, d.UserID, d.FileName, d.FileType, d.FileSize, d.Status,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepo) UpdateStatus(ctx context.Context, documentID, status, failReason string) error {
	_, err := r.db.Pool.Exec(ctx, `
UPDATE documents SET status=$2, fail_reason=NULLIF($3,''), updated_at=NOW() WHERE document_id=$1`,
		documentID, status, failReason)
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	return nil
}

func (r *DocumentRepo) MarkProcessed(ctx context.Context, documentID string, chunksCount int) error {
	_, err := r.db.Pool.Exec(ctx, `
UPDATE documents SET status='processed', chunks_count=$2, fail_reason=NULL, updated_at=NOW()
WHERE document_id=$1`, documentID, chunksCount)
	if err != nil {
		return fmt.Errorf("mark document processed: %w", err)
	}
	return nil
}

// Delete removes the document row; chunk rows cascade.
func (r *DocumentRepo) Delete(ctx context.Context, documentID string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM documents WHERE document_id=$1`, documentID)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (r *DocumentRepo) GetByID(ctx context.Context, workspaceID, documentID string) (models.Document, error) {
	var d models.Document
	err := r.db.Pool.QueryRow(ctx, `
SELECT document_id, workspace_id, user_id, file_name, file_type, file_size, status,
       chunks_count, COALESCE(fail_reason,''), created_at, updated_at
FROM documents
WHERE workspace_id=$1 AND document_id=$2`, workspaceID, documentID).
		Scan(&d.DocumentID, &d.WorkspaceID, &d.UserID, &d.FileName, &d.FileType, &d.FileSize,
			&d.Status, &d.ChunksCount, &d.FailReason, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return models.Document{}, fmt.Errorf("get document by id: %w", err)
	}
	return d, nil
}

func (r *DocumentRepo) ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Document, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT document_id, workspace_id, user_id, file_name, file_type, file_size, status,
       chunks_count, COALESCE(fail_reason,''), created_at, updated_at
FROM documents
WHERE workspace_id=$1
ORDER BY created_at DESC`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	out := make([]models.Document, 0)
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.DocumentID, &d.WorkspaceID, &d.UserID, &d.FileName, &d.FileType, &d.FileSize,
			&d.Status, &d.ChunksCount, &d.FailReason, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}
