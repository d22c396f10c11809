package api

import (
	"context"
	"testing"

	"aidorag/internal/extract"
	"aidorag/internal/models"

	"github.com/stretchr/testify/require"
)

type fakeDerivedStore struct {
	entities  []models.Entity
	relations []models.Relation

	deletedEntities  []string
	deletedRelations []string
}

func (f *fakeDerivedStore) ListEntitiesByWorkspace(_ context.Context, workspaceID string) ([]models.Entity, error) {
	out := make([]models.Entity, 0, len(f.entities))
	for _, e := range f.entities {
		if e.WorkspaceID == workspaceID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeDerivedStore) ListRelationsByWorkspace(_ context.Context, workspaceID string) ([]models.Relation, error) {
	out := make([]models.Relation, 0, len(f.relations))
	for _, rel := range f.relations {
		if rel.WorkspaceID == workspaceID {
			out = append(out, rel)
		}
	}
	return out, nil
}

func (f *fakeDerivedStore) DeleteEntity(_ context.Context, entityID string) error {
	f.deletedEntities = append(f.deletedEntities, entityID)
	return nil
}

func (f *fakeDerivedStore) DeleteRelation(_ context.Context, relationID string) error {
	f.deletedRelations = append(f.deletedRelations, relationID)
	return nil
}

func TestDeleteDerivedByChunksCleansAllWorkspaceMembers(t *testing.T) {
	store := &fakeDerivedStore{
		entities: []models.Entity{
			{EntityID: "e-owner", UserID: "u1", WorkspaceID: "w1", SourceChunkIDs: []string{"c1"}},
			{EntityID: "e-member", UserID: "u2", WorkspaceID: "w1", SourceChunkIDs: []string{"c2"}},
			{EntityID: "e-other-doc", UserID: "u1", WorkspaceID: "w1", SourceChunkIDs: []string{"z9"}},
		},
		relations: []models.Relation{
			{RelationID: "r-member", UserID: "u2", WorkspaceID: "w1", SourceChunkIDs: []string{"c1", "c2"}},
			{RelationID: "r-other-doc", UserID: "u1", WorkspaceID: "w1", SourceChunkIDs: []string{"z9"}},
		},
	}
	set := extract.ChunkIDSet([]string{"c1", "c2"})

	require.NoError(t, deleteDerivedByChunks(context.Background(), store, "w1", set))

	// Rows derived by another workspace member from the deleted chunks must
	// not survive with dangling provenance.
	require.ElementsMatch(t, []string{"e-owner", "e-member"}, store.deletedEntities)
	require.Equal(t, []string{"r-member"}, store.deletedRelations)
}

func TestDeleteDerivedByChunksIgnoresOtherWorkspaces(t *testing.T) {
	store := &fakeDerivedStore{
		entities: []models.Entity{
			{EntityID: "e-w2", UserID: "u1", WorkspaceID: "w2", SourceChunkIDs: []string{"c1"}},
		},
	}
	require.NoError(t, deleteDerivedByChunks(context.Background(), store, "w1", extract.ChunkIDSet([]string{"c1"})))
	require.Empty(t, store.deletedEntities)
}
