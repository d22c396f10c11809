package ingest

import (
	"context"
	"fmt"
	"testing"

	"aidorag/internal/config"
	"aidorag/internal/models"
	"aidorag/internal/storage"

	"github.com/stretchr/testify/require"
)

type fakeChunkStore struct {
	insertErr       error
	attachFail      map[string]bool
	inserted        []storage.ChunkRecord
	attachedVectors map[string]string
}

func newFakeChunkStore() *fakeChunkStore {
	return &fakeChunkStore{attachedVectors: map[string]string{}}
}

func (f *fakeChunkStore) InsertChunks(ctx context.Context, chunks []storage.ChunkRecord) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, chunks...)
	return nil
}

func (f *fakeChunkStore) AttachVector(ctx context.Context, chunkID, vectorLiteral string) error {
	if f.attachFail[chunkID] {
		return fmt.Errorf("simulated attach failure")
	}
	f.attachedVectors[chunkID] = vectorLiteral
	return nil
}

type fakeDocStore struct {
	processedCount int
	processedCalls int
	status         string
	failReason     string
	deleted        []string
}

func (f *fakeDocStore) MarkProcessed(ctx context.Context, documentID string, chunksCount int) error {
	f.processedCount = chunksCount
	f.processedCalls++
	f.status = models.StatusProcessed
	return nil
}

func (f *fakeDocStore) UpdateStatus(ctx context.Context, documentID, status, failReason string) error {
	f.status = status
	f.failReason = failReason
	return nil
}

func (f *fakeDocStore) Delete(ctx context.Context, documentID string) error {
	f.deleted = append(f.deleted, documentID)
	return nil
}

func lit(s string) *string { return &s }

func sampleRecords() []storage.ChunkRecord {
	return []storage.ChunkRecord{
		{ChunkID: "c1", DocumentID: "d1", Content: "first", EmbeddingVector: lit("[0.1,0.2]")},
		{ChunkID: "c2", DocumentID: "d1", Content: "second", EmbeddingVector: lit("[0.3,0.4]")},
		{ChunkID: "c3", DocumentID: "d1", Content: "third", EmbeddingVector: nil},
	}
}

func TestWriteEmptyDocumentIsProcessed(t *testing.T) {
	chunks := newFakeChunkStore()
	docs := &fakeDocStore{}
	w := NewWriter(chunks, docs, config.EmbedPolicyBestEffort)

	res, err := w.Write(context.Background(), "d1", nil)
	require.NoError(t, err)
	require.Equal(t, models.StatusProcessed, res.Status)
	require.Zero(t, docs.processedCount)
	require.Empty(t, chunks.inserted)
}

func TestWritePhaseAInsertsRowsWithoutVectors(t *testing.T) {
	chunks := newFakeChunkStore()
	docs := &fakeDocStore{}
	w := NewWriter(chunks, docs, config.EmbedPolicyBestEffort)

	res, err := w.Write(context.Background(), "d1", sampleRecords())
	require.NoError(t, err)
	require.Len(t, chunks.inserted, 3)
	for _, rec := range chunks.inserted {
		require.Nil(t, rec.EmbeddingVector, "phase A rows must not carry vectors")
	}
	require.Equal(t, 3, res.ChunksTotal)
	require.Equal(t, 2, res.ChunksWithVectors)
	require.Equal(t, models.StatusProcessed, res.Status)
	require.Equal(t, 3, docs.processedCount)
}

func TestWritePhaseAFailureDeletesDocument(t *testing.T) {
	chunks := newFakeChunkStore()
	chunks.insertErr = fmt.Errorf("connection refused")
	docs := &fakeDocStore{}
	w := NewWriter(chunks, docs, config.EmbedPolicyBestEffort)

	_, err := w.Write(context.Background(), "d1", sampleRecords())
	require.Error(t, err)
	require.Equal(t, []string{"d1"}, docs.deleted)
	require.Empty(t, chunks.inserted)
	require.Zero(t, docs.processedCalls)
}

func TestWritePhaseBFailureIsTolerated(t *testing.T) {
	chunks := newFakeChunkStore()
	chunks.attachFail = map[string]bool{"c2": true}
	docs := &fakeDocStore{}
	w := NewWriter(chunks, docs, config.EmbedPolicyBestEffort)

	res, err := w.Write(context.Background(), "d1", sampleRecords())
	require.NoError(t, err)
	require.Equal(t, 1, res.ChunksWithVectors)
	require.Equal(t, models.StatusProcessed, res.Status)
	require.Equal(t, 3, docs.processedCount)
	require.Contains(t, chunks.attachedVectors, "c1")
	require.NotContains(t, chunks.attachedVectors, "c2")
}

func TestWriteStrictPolicyFailsOnMissingVectors(t *testing.T) {
	chunks := newFakeChunkStore()
	docs := &fakeDocStore{}
	w := NewWriter(chunks, docs, config.EmbedPolicyStrict)

	res, err := w.Write(context.Background(), "d1", sampleRecords())
	require.NoError(t, err)
	require.Equal(t, models.StatusFailed, res.Status)
	require.Equal(t, models.StatusFailed, docs.status)
	require.Equal(t, "embeddings missing for 1/3 chunks", docs.failReason)
	require.Len(t, chunks.inserted, 3, "rows stay queryable even when the document fails")
}

func TestWriteStrictPolicyPassesWhenAllAttached(t *testing.T) {
	chunks := newFakeChunkStore()
	docs := &fakeDocStore{}
	w := NewWriter(chunks, docs, config.EmbedPolicyStrict)

	records := []storage.ChunkRecord{
		{ChunkID: "c1", DocumentID: "d1", Content: "first", EmbeddingVector: lit("[0.1]")},
		{ChunkID: "c2", DocumentID: "d1", Content: "second", EmbeddingVector: lit("[0.2]")},
	}
	res, err := w.Write(context.Background(), "d1", records)
	require.NoError(t, err)
	require.Equal(t, models.StatusProcessed, res.Status)
	require.Equal(t, 2, res.ChunksWithVectors)
}
