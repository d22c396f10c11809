package ingest

import (
	"context"
	"log"
	"sync"
	"time"

	"aidorag/internal/providers"

	"github.com/panjf2000/ants/v2"
)

// EmbedTally reports how many chunks of a batch received an embedding.
type EmbedTally struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Embedder generates embeddings for chunk texts through a bounded worker
// pool. Results are written into a pre-sized slice keyed by input index, so
// the output at index i always corresponds to the input at index i no matter
// which order workers complete in. A per-item provider failure leaves an
// empty vector at that index and never aborts the batch.
type Embedder struct {
	provider providers.EmbeddingProvider
	dim      int
	delay    time.Duration
	pool     *ants.Pool
	logger   *log.Logger
}

func NewEmbedder(provider providers.EmbeddingProvider, dim, workers int, delay time.Duration) (*Embedder, error) {
	if workers < 1 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	return &Embedder{
		provider: provider,
		dim:      dim,
		delay:    delay,
		pool:     pool,
		logger:   log.Default(),
	}, nil
}

// EmbedAll embeds every text and returns a same-length result slice, a
// success/failure tally, and the provider identity reported for the batch.
// Indices that failed hold a non-nil empty slice.
func (e *Embedder) EmbedAll(ctx context.Context, texts []string) ([][]float32, EmbedTally, providers.ProviderInfo) {
	results := make([][]float32, len(texts))
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		tally EmbedTally
		info  providers.ProviderInfo
	)
	for i := range texts {
		i := i
		wg.Add(1)
		submitErr := e.pool.Submit(func() {
			defer wg.Done()
			vec, callInfo, err := e.embedOne(ctx, texts[i])
			if err != nil {
				e.logger.Printf("embed chunk %d failed: %v", i, err)
				results[i] = []float32{}
				mu.Lock()
				tally.Failed++
				mu.Unlock()
				return
			}
			results[i] = vec
			mu.Lock()
			tally.Succeeded++
			if info.Name == "" {
				info = callInfo
			}
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			e.logger.Printf("submit embed task %d: %v", i, submitErr)
			results[i] = []float32{}
			mu.Lock()
			tally.Failed++
			mu.Unlock()
		}
	}
	wg.Wait()
	return results, tally, info
}

func (e *Embedder) embedOne(ctx context.Context, text string) ([]float32, providers.ProviderInfo, error) {
	vecs, info, err := e.provider.Embed(ctx, providers.EmbedRequest{
		Operation: "chunk_embed",
		Inputs:    []string{text},
		Dimension: e.dim,
	})
	// Pace consecutive calls per worker to stay under provider rate limits.
	if e.delay > 0 {
		time.Sleep(e.delay)
	}
	if err != nil {
		return nil, info, err
	}
	if len(vecs) == 0 || len(vecs[0]) == 0 {
		return nil, info, providers.ErrEmptyEmbedding
	}
	return vecs[0], info, nil
}

// Release frees the worker pool. The embedder must not be used afterwards.
func (e *Embedder) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}
