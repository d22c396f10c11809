package extract

// ChunkIDSet builds a lookup set from a list of chunk IDs.
func ChunkIDSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// SharesAnyChunk reports whether any of sourceChunkIDs appears in the set.
// Re-derivation uses this to find entities and relations that trace back to a
// document's chunks: a linear scan over each row's provenance list.
func SharesAnyChunk(sourceChunkIDs []string, set map[string]struct{}) bool {
	for _, id := range sourceChunkIDs {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}
