package models

import "time"

// Document lifecycle states. Status is the single authoritative progress
// signal read by polling clients.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusProcessed  = "processed"
	StatusFailed     = "failed"
)

type Document struct {
	DocumentID  string    `json:"document_id"`
	WorkspaceID string    `json:"workspace_id"`
	UserID      string    `json:"user_id"`
	FileName    string    `json:"file_name"`
	FileType    string    `json:"file_type"`
	FileSize    int64     `json:"file_size"`
	Status      string    `json:"status"`
	ChunksCount int       `json:"chunks_count"`
	FailReason  string    `json:"fail_reason,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Chunk struct {
	ChunkID         string         `json:"chunk_id"`
	DocumentID      string         `json:"document_id"`
	WorkspaceID     string         `json:"workspace_id"`
	ChunkOrderIndex int            `json:"chunk_order_index"`
	Content         string         `json:"content"`
	TokenCount      int            `json:"token_count"`
	ChunkType       string         `json:"chunk_type"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	HasEmbedding    bool           `json:"has_embedding"`
	CreatedAt       time.Time      `json:"created_at"`
}

type Entity struct {
	EntityID       string    `json:"entity_id"`
	UserID         string    `json:"user_id"`
	WorkspaceID    string    `json:"workspace_id"`
	Name           string    `json:"name"`
	EntityType     string    `json:"entity_type"`
	SourceChunkIDs []string  `json:"source_chunk_ids"`
	CreatedAt      time.Time `json:"created_at"`
}

type Relation struct {
	RelationID     string    `json:"relation_id"`
	UserID         string    `json:"user_id"`
	WorkspaceID    string    `json:"workspace_id"`
	SourceEntityID string    `json:"source_entity_id"`
	TargetEntityID string    `json:"target_entity_id"`
	RelationType   string    `json:"relation_type"`
	SourceChunkIDs []string  `json:"source_chunk_ids"`
	CreatedAt      time.Time `json:"created_at"`
}

type ChunkResult struct {
	DocumentID string  `json:"document_id"`
	FileName   string  `json:"file_name"`
	ChunkID    string  `json:"chunk_id"`
	Snippet    string  `json:"snippet"`
	Score      float64 `json:"score"`
	ChunkText  string  `json:"chunk_text,omitempty"`
}
