package activities

import (
	"context"
	"strings"
	"testing"

	"aidorag/internal/config"

	"github.com/stretchr/testify/require"
)

func TestChunkDocumentActivityContiguousOrderIndexes(t *testing.T) {
	a := &Activities{cfg: config.Config{ChunkSizeTokens: 800}}

	// First 3200-char slice is control characters only, so sanitization
	// empties it and the chunk drops out of the batch.
	text := strings.Repeat("\x01", 3200) + strings.Repeat("a", 800)
	out, err := a.ChunkDocumentActivity(context.Background(), ChunkDocumentInput{
		DocumentID:      "d1",
		WorkspaceID:     "w1",
		Text:            text,
		ChunkSizeTokens: 800,
	})
	require.NoError(t, err)
	require.Len(t, out.Chunks, 1)
	require.Equal(t, 0, out.Chunks[0].ChunkOrderIndex)
	require.Equal(t, strings.Repeat("a", 800), out.Chunks[0].Content)
}

func TestChunkDocumentActivityDeterministicIDs(t *testing.T) {
	a := &Activities{cfg: config.Config{ChunkSizeTokens: 800}}

	text := strings.Repeat("alpha beta gamma ", 300)
	first, err := a.ChunkDocumentActivity(context.Background(), ChunkDocumentInput{
		DocumentID: "d1", WorkspaceID: "w1", Text: text, ChunkSizeTokens: 800,
	})
	require.NoError(t, err)
	second, err := a.ChunkDocumentActivity(context.Background(), ChunkDocumentInput{
		DocumentID: "d1", WorkspaceID: "w1", Text: text, ChunkSizeTokens: 800,
	})
	require.NoError(t, err)

	require.Equal(t, len(first.Chunks), len(second.Chunks))
	for i := range first.Chunks {
		require.Equal(t, first.Chunks[i].ChunkID, second.Chunks[i].ChunkID)
		require.Equal(t, i, first.Chunks[i].ChunkOrderIndex)
	}
}
