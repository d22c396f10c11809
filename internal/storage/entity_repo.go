package storage

import (
	"context"
	"fmt"

	"aidorag/internal/models"
)

type EntityRepo struct {
	db *DB
}

func NewEntityRepo(db *DB) *EntityRepo {
	return &EntityRepo{db: db}
}

func (r *EntityRepo) InsertEntity(ctx context.Context, e models.Entity) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO entities (entity_id, user_id, workspace_id, name, entity_type, source_chunk_ids)
VALUES ($1, $2, $3, $4, $5, $6)`,
		e.EntityID, e.UserID, e.WorkspaceID, e.Name, e.EntityType, e.SourceChunkIDs)
	if err != nil {
		return fmt.Errorf("insert entity: %w", err)
	}
	return nil
}

func (r *EntityRepo) InsertRelation(ctx context.Context, rel models.Relation) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO relations (relation_id, user_id, workspace_id, source_entity_id, target_entity_id, relation_type, source_chunk_ids)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rel.RelationID, rel.UserID, rel.WorkspaceID, rel.SourceEntityID, rel.TargetEntityID, rel.RelationType, rel.SourceChunkIDs)
	if err != nil {
		return fmt.Errorf("insert relation: %w", err)
	}
	return nil
}

func (r *EntityRepo) ListEntitiesByUser(ctx context.Context, userID string) ([]models.Entity, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT entity_id, user_id, workspace_id, name, entity_type, source_chunk_ids, created_at
FROM entities
WHERE user_id=$1`, userID)
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	defer rows.Close()
	out := make([]models.Entity, 0)
	for rows.Next() {
		var e models.Entity
		if err := rows.Scan(&e.EntityID, &e.UserID, &e.WorkspaceID, &e.Name, &e.EntityType, &e.SourceChunkIDs, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entities: %w", err)
	}
	return out, nil
}

func (r *EntityRepo) ListRelationsByUser(ctx context.Context, userID string) ([]models.Relation, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT relation_id, user_id, workspace_id, source_entity_id, target_entity_id, relation_type, source_chunk_ids, created_at
FROM relations
WHERE user_id=$1`, userID)
	if err != nil {
		return nil, fmt.Errorf("list relations: %w", err)
	}
	defer rows.Close()
	out := make([]models.Relation, 0)
	for rows.Next() {
		var rel models.Relation
		if err := rows.Scan(&rel.RelationID, &rel.UserID, &rel.WorkspaceID, &rel.SourceEntityID, &rel.TargetEntityID,
			&rel.RelationType, &rel.SourceChunkIDs, &rel.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan relation: %w", err)
		}
		out = append(out, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate relations: %w", err)
	}
	return out, nil
}

func (r *EntityRepo) ListEntitiesByWorkspace(ctx context.Context, workspaceID string) ([]models.Entity, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT entity_id, user_id, workspace_id, name, entity_type, source_chunk_ids, created_at
FROM entities
WHERE workspace_id=$1`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list workspace entities: %w", err)
	}
	defer rows.Close()
	out := make([]models.Entity, 0)
	for rows.Next() {
		var e models.Entity
		if err := rows.Scan(&e.EntityID, &e.UserID, &e.WorkspaceID, &e.Name, &e.EntityType, &e.SourceChunkIDs, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workspace entities: %w", err)
	}
	return out, nil
}

func (r *EntityRepo) ListRelationsByWorkspace(ctx context.Context, workspaceID string) ([]models.Relation, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT relation_id, user_id, workspace_id, source_entity_id, target_entity_id, relation_type, source_chunk_ids, created_at
FROM relations
WHERE workspace_id=$1`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list workspace relations: %w", err)
	}
	defer rows.Close()
	out := make([]models.Relation, 0)
	for rows.Next() {
		var rel models.Relation
		if err := rows.Scan(&rel.RelationID, &rel.UserID, &rel.WorkspaceID, &rel.SourceEntityID, &rel.TargetEntityID,
			&rel.RelationType, &rel.SourceChunkIDs, &rel.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan relation: %w", err)
		}
		out = append(out, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workspace relations: %w", err)
	}
	return out, nil
}

func (r *EntityRepo) DeleteEntity(ctx context.Context, entityID string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM entities WHERE entity_id=$1`, entityID)
	if err != nil {
		return fmt.Errorf("delete entity: %w", err)
	}
	return nil
}

func (r *EntityRepo) DeleteRelation(ctx context.Context, relationID string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM relations WHERE relation_id=$1`, relationID)
	if err != nil {
		return fmt.Errorf("delete relation: %w", err)
	}
	return nil
}
