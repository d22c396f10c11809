package ingest

import (
	"context"
	"fmt"
	"log"

	"aidorag/internal/config"
	"aidorag/internal/models"
	"aidorag/internal/storage"
)

type ChunkStore interface {
	InsertChunks(ctx context.Context, chunks []storage.ChunkRecord) error
	AttachVector(ctx context.Context, chunkID, vectorLiteral string) error
}

type DocumentStore interface {
	MarkProcessed(ctx context.Context, documentID string, chunksCount int) error
	UpdateStatus(ctx context.Context, documentID, status, failReason string) error
	Delete(ctx context.Context, documentID string) error
}

type WriteResult struct {
	ChunksTotal       int    `json:"chunks_total"`
	ChunksWithVectors int    `json:"chunks_with_vectors"`
	Status            string `json:"status"`
}

// Writer persists a document's chunks with the two-phase protocol: phase A
// inserts every row without its vector in one atomic call, phase B attaches
// vectors row by row. A phase A failure aborts the document (the document row
// is deleted so no orphaned zero-chunk document survives); phase B failures
// are independent and only counted. The completion policy decides whether
// missing vectors fail the document or leave it processed-but-degraded.
type Writer struct {
	chunks ChunkStore
	docs   DocumentStore
	policy string
	logger *log.Logger
}

func NewWriter(chunks ChunkStore, docs DocumentStore, policy string) *Writer {
	if policy != config.EmbedPolicyStrict {
		policy = config.EmbedPolicyBestEffort
	}
	return &Writer{chunks: chunks, docs: docs, policy: policy, logger: log.Default()}
}

func (w *Writer) Write(ctx context.Context, documentID string, records []storage.ChunkRecord) (WriteResult, error) {
	if len(records) == 0 {
		// Nothing to embed or store; an empty document is still processed.
		if err := w.docs.MarkProcessed(ctx, documentID, 0); err != nil {
			return WriteResult{}, err
		}
		return WriteResult{Status: models.StatusProcessed}, nil
	}

	stripped := make([]storage.ChunkRecord, len(records))
	for i, rec := range records {
		rec.EmbeddingVector = nil
		stripped[i] = rec
	}
	if err := w.chunks.InsertChunks(ctx, stripped); err != nil {
		if delErr := w.docs.Delete(ctx, documentID); delErr != nil {
			w.logger.Printf("cleanup of document %s after failed chunk insert: %v", documentID, delErr)
		}
		return WriteResult{}, fmt.Errorf("insert chunks for document %s: %w", documentID, err)
	}

	attached := 0
	for _, rec := range records {
		if rec.EmbeddingVector == nil {
			continue
		}
		if err := w.chunks.AttachVector(ctx, rec.ChunkID, *rec.EmbeddingVector); err != nil {
			w.logger.Printf("attach vector for chunk %s: %v", rec.ChunkID, err)
			continue
		}
		attached++
	}

	result := WriteResult{ChunksTotal: len(records), ChunksWithVectors: attached}
	if w.policy == config.EmbedPolicyStrict && attached < len(records) {
		reason := fmt.Sprintf("embeddings missing for %d/%d chunks", len(records)-attached, len(records))
		if err := w.docs.UpdateStatus(ctx, documentID, models.StatusFailed, reason); err != nil {
			return result, err
		}
		result.Status = models.StatusFailed
		return result, nil
	}
	if err := w.docs.MarkProcessed(ctx, documentID, len(records)); err != nil {
		return result, err
	}
	result.Status = models.StatusProcessed
	return result, nil
}
