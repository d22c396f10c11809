package storage

import (
	"context"
	"fmt"
)

// AcquireDocumentLock takes a session-scoped Postgres advisory lock keyed by
// the document id, serializing delete-then-recompute sequences that would
// otherwise race when the same document is reprocessed concurrently. The
// returned release func must be called exactly once.
func (d *DB) AcquireDocumentLock(ctx context.Context, documentID string) (func(), error) {
	conn, err := d.Pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire conn for document lock: %w", err)
	}
	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock(hashtextextended($1, 0))`, documentID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire document lock %s: %w", documentID, err)
	}
	release := func() {
		// Unlock on a background context so cancellation of the caller's
		// context cannot leak the lock.
		_, _ = conn.Exec(context.Background(), `SELECT pg_advisory_unlock(hashtextextended($1, 0))`, documentID)
		conn.Release()
	}
	return release, nil
}
