package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"aidorag/internal/models"
)

type ChunkRecord struct {
	ChunkID         string
	DocumentID      string
	WorkspaceID     string
	ChunkOrderIndex int
	Content         string
	TokenCount      int
	ChunkType       string
	Metadata        map[string]any
	EmbeddingVector *string
}

type ChunkRepo struct {
	db *DB
}

func NewChunkRepo(db *DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// InsertChunks is phase A of the two-phase write: every row is inserted in one
// transaction with the embedding column left NULL. The deployed vector column
// type does not reliably accept a vector literal mixed into the same batched
// insert as plain columns, so vectors are attached row by row afterwards.
// Failure here leaves zero chunk rows for the document.
func (r *ChunkRepo) InsertChunks(ctx context.Context, chunks []ChunkRecord) error {
	if len(chunks) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx insert chunks: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for _, c := range chunks {
		meta, err := json.Marshal(orEmptyMeta(c.Metadata))
		if err != nil {
			return fmt.Errorf("marshal chunk metadata %s: %w", c.ChunkID, err)
		}
		_, err = tx.Exec(ctx, `
INSERT INTO chunks (chunk_id, document_id, workspace_id, chunk_order_index, content, token_count, chunk_type, metadata)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb)`,
			c.ChunkID, c.DocumentID, c.WorkspaceID, c.ChunkOrderIndex, c.Content, c.TokenCount, c.ChunkType, string(meta),
		)
		if err != nil {
			return fmt.Errorf("insert chunk %s: %w", c.ChunkID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit chunks tx: %w", err)
	}
	return nil
}

// AttachVector is phase B: one independent vector update keyed by chunk id.
func (r *ChunkRepo) AttachVector(ctx context.Context, chunkID, vectorLiteral string) error {
	_, err := r.db.Pool.Exec(ctx, `
UPDATE chunks SET embedding = $2::vector WHERE chunk_id = $1`, chunkID, vectorLiteral)
	if err != nil {
		return fmt.Errorf("attach vector to chunk %s: %w", chunkID, err)
	}
	return nil
}

func (r *ChunkRepo) ListByDocument(ctx context.Context, documentID string) ([]models.Chunk, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT chunk_id, document_id, workspace_id, chunk_order_index, content, token_count,
       chunk_type, embedding IS NOT NULL, created_at
FROM chunks
WHERE document_id=$1
ORDER BY chunk_order_index ASC`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list chunks by document: %w", err)
	}
	defer rows.Close()
	out := make([]models.Chunk, 0, 64)
	for rows.Next() {
		var c models.Chunk
		if err := rows.Scan(&c.ChunkID, &c.DocumentID, &c.WorkspaceID, &c.ChunkOrderIndex, &c.Content,
			&c.TokenCount, &c.ChunkType, &c.HasEmbedding, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chunk by document: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks by document: %w", err)
	}
	return out, nil
}

func (r *ChunkRepo) CountWithVectors(ctx context.Context, documentID string) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx, `
SELECT COUNT(*) FROM chunks WHERE document_id=$1 AND embedding IS NOT NULL`, documentID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count chunks with vectors: %w", err)
	}
	return n, nil
}

func orEmptyMeta(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
