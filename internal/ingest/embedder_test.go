package ingest

import (
	"context"
	"fmt"
	"testing"

	"aidorag/internal/providers"

	"github.com/stretchr/testify/require"
)

// flakyProvider embeds deterministically but fails for inputs it was told to
// fail, so tests can target a specific batch index.
type flakyProvider struct {
	dim      int
	failText map[string]bool
}

func (f *flakyProvider) Embed(ctx context.Context, req providers.EmbedRequest) ([][]float32, providers.ProviderInfo, error) {
	info := providers.ProviderInfo{Name: "flaky", Model: "flaky-embed-v1"}
	if len(req.Inputs) != 1 {
		return nil, info, fmt.Errorf("expected single input, got %d", len(req.Inputs))
	}
	if f.failText[req.Inputs[0]] {
		return nil, info, fmt.Errorf("simulated embed failure")
	}
	vec := make([]float32, f.dim)
	for i := range vec {
		vec[i] = float32(len(req.Inputs[0]))
	}
	return [][]float32{vec}, info, nil
}

func TestEmbedAllPreservesOrder(t *testing.T) {
	e, err := NewEmbedder(&flakyProvider{dim: 4}, 4, 3, 0)
	require.NoError(t, err)
	defer e.Release()

	texts := []string{"a", "bb", "ccc", "dddd", "eeeee"}
	results, tally, info := e.EmbedAll(context.Background(), texts)

	require.Len(t, results, len(texts))
	require.Equal(t, len(texts), tally.Succeeded)
	require.Zero(t, tally.Failed)
	require.Equal(t, "flaky", info.Name)
	require.Equal(t, "flaky-embed-v1", info.Model)
	for i, text := range texts {
		require.Equal(t, float32(len(text)), results[i][0], "result %d must match input %d", i, i)
	}
}

func TestEmbedAllToleratesPartialFailure(t *testing.T) {
	p := &flakyProvider{dim: 4, failText: map[string]bool{"ccc": true}}
	e, err := NewEmbedder(p, 4, 2, 0)
	require.NoError(t, err)
	defer e.Release()

	texts := []string{"a", "bb", "ccc", "dddd"}
	results, tally, info := e.EmbedAll(context.Background(), texts)
	require.Equal(t, "flaky", info.Name)

	require.Len(t, results, 4)
	require.Equal(t, 3, tally.Succeeded)
	require.Equal(t, 1, tally.Failed)
	require.NotNil(t, results[2])
	require.Empty(t, results[2])
	require.Len(t, results[0], 4)
	require.Len(t, results[3], 4)
}

func TestEmbedAllEmptyBatch(t *testing.T) {
	e, err := NewEmbedder(&flakyProvider{dim: 4}, 4, 2, 0)
	require.NoError(t, err)
	defer e.Release()

	results, tally, info := e.EmbedAll(context.Background(), nil)
	require.Empty(t, results)
	require.Zero(t, tally.Succeeded)
	require.Zero(t, tally.Failed)
	require.Empty(t, info.Name)
}

func TestEmbedAllTreatsEmptyVectorAsFailure(t *testing.T) {
	e, err := NewEmbedder(&flakyProvider{dim: 0}, 0, 1, 0)
	require.NoError(t, err)
	defer e.Release()

	results, tally, _ := e.EmbedAll(context.Background(), []string{"text"})
	require.Len(t, results, 1)
	require.Equal(t, 1, tally.Failed)
	require.Empty(t, results[0])
}
