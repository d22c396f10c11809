package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkTextEmptyInput(t *testing.T) {
	require.Empty(t, ChunkText("", 800))
	require.Empty(t, ChunkText("   \n\t  ", 800))
}

func TestChunkTextSingleChunkWhenSmall(t *testing.T) {
	text := "hello world"
	chunks := ChunkText(text, 800)
	require.Len(t, chunks, 1)
	require.Equal(t, text, chunks[0].Content)
	require.Equal(t, 3, chunks[0].TokenCount)
}

func TestChunkTextExactBoundaryIsSingleChunk(t *testing.T) {
	// 3200 chars at 800 target tokens sits exactly on the boundary.
	text := strings.Repeat("a", 800*CharsPerToken)
	chunks := ChunkText(text, 800)
	require.Len(t, chunks, 1)
	require.Equal(t, 800, chunks[0].TokenCount)
}

func TestChunkTextSplitsLargeDocument(t *testing.T) {
	// 4000 chars = 1000 estimated tokens, splits into 800 + 200.
	text := strings.Repeat("b", 4000)
	chunks := ChunkText(text, 800)
	require.Len(t, chunks, 2)
	require.Equal(t, 800, chunks[0].TokenCount)
	require.Equal(t, 200, chunks[1].TokenCount)
}

func TestChunkTextDeterministic(t *testing.T) {
	text := strings.Repeat("some repeated sentence. ", 500)
	a := ChunkText(text, 200)
	b := ChunkText(text, 200)
	require.Equal(t, a, b)
}

func TestChunkTextConcatenationCoversInput(t *testing.T) {
	// With no whitespace at the boundaries, concatenating chunks in order
	// reproduces the normalized input exactly.
	text := strings.Repeat("x", 10_000)
	chunks := ChunkText(text, 800)
	var sb strings.Builder
	for _, c := range chunks {
		sb.WriteString(c.Content)
	}
	require.Equal(t, text, sb.String())
}

func TestChunkTextNormalizesLineEndings(t *testing.T) {
	chunks := ChunkText("line one\r\nline two", 800)
	require.Len(t, chunks, 1)
	require.Equal(t, "line one\nline two", chunks[0].Content)
}

func TestEstimateTokensRoundsUp(t *testing.T) {
	require.Equal(t, 0, EstimateTokens(""))
	require.Equal(t, 1, EstimateTokens("a"))
	require.Equal(t, 1, EstimateTokens("abcd"))
	require.Equal(t, 2, EstimateTokens("abcde"))
}
