package vector

import (
	"context"
	"fmt"

	"aidorag/internal/models"

	"github.com/jackc/pgx/v5"
)

type SearchFilters struct {
	DocumentIDs []string
}

type Searcher struct {
	q Queryer
}

type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func NewSearcher(q Queryer) *Searcher {
	return &Searcher{q: q}
}

// SearchChunks runs a cosine-similarity search over a workspace's embedded
// chunks. Rows still waiting for phase B (embedding IS NULL) never match.
func (s *Searcher) SearchChunks(ctx context.Context, workspaceID string, queryVec []float32, topK int, filters SearchFilters) ([]models.ChunkResult, error) {
	if topK <= 0 {
		topK = 8
	}
	vecLiteral := ToLiteral(queryVec)
	args := []any{workspaceID, vecLiteral, topK}

	filterSQL := ""
	if len(filters.DocumentIDs) > 0 {
		filterSQL = " AND c.document_id = ANY($4)"
		args = append(args, filters.DocumentIDs)
	}

	query := `
SELECT c.document_id,
       d.file_name,
       c.chunk_id,
       LEFT(c.content, 420) AS snippet,
       1 - (c.embedding <=> $2::vector) AS score,
       c.content
FROM chunks c
JOIN documents d ON d.document_id = c.document_id
WHERE c.workspace_id = $1
  AND c.embedding IS NOT NULL` + filterSQL + `
ORDER BY c.embedding <=> $2::vector
LIMIT $3`

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query vector search: %w", err)
	}
	defer rows.Close()

	results := make([]models.ChunkResult, 0, topK)
	for rows.Next() {
		var r models.ChunkResult
		if err := rows.Scan(&r.DocumentID, &r.FileName, &r.ChunkID, &r.Snippet, &r.Score, &r.ChunkText); err != nil {
			return nil, fmt.Errorf("scan chunk result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search rows: %w", err)
	}
	return results, nil
}
