package storage

import (
	"context"
	"fmt"
)

type ProviderCallRecord struct {
	CallID       string
	Operation    string
	WorkspaceID  string
	DocumentID   string
	ProviderName string
	Model        string
	RequestID    string
	Status       string
	ErrorType    string
}

// AuditRepo records every provider call outcome, successful or not. The table
// is append-only.
type AuditRepo struct {
	db *DB
}

func NewAuditRepo(db *DB) *AuditRepo {
	return &AuditRepo{db: db}
}

func (r *AuditRepo) Insert(ctx context.Context, rec ProviderCallRecord) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO provider_calls (call_id, operation, workspace_id, document_id, provider_name, model, request_id, status, error_type)
VALUES ($1, $2, NULLIF($3,''), NULLIF($4,''), $5, $6, $7, $8, NULLIF($9,''))`,
		rec.CallID, rec.Operation, rec.WorkspaceID, rec.DocumentID, rec.ProviderName, rec.Model,
		rec.RequestID, rec.Status, rec.ErrorType)
	if err != nil {
		return fmt.Errorf("insert provider call: %w", err)
	}
	return nil
}
