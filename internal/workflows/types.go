package workflows

import (
	"aidorag/internal/activities"
	"aidorag/internal/extract"
)

type DocumentProcessInput struct {
	WorkspaceID     string `json:"workspace_id"`
	UserID          string `json:"user_id"`
	DocumentID      string `json:"document_id"`
	DocumentPath    string `json:"document_path"`
	FileName        string `json:"file_name"`
	FileType        string `json:"file_type"`
	ChunkSizeTokens int    `json:"chunk_size_tokens"`
	EmbedProviders  int    `json:"embed_providers"`
	CooldownSeconds int    `json:"cooldown_seconds"`
	SkipExtraction  bool   `json:"skip_extraction,omitempty"`
}

type DocumentStatus struct {
	DocumentID        string            `json:"document_id"`
	FileName          string            `json:"file_name"`
	CurrentStep       string            `json:"current_step"`
	Status            string            `json:"status"`
	FailReason        string            `json:"fail_reason,omitempty"`
	ChunksTotal       int               `json:"chunks_total"`
	ChunksWithVectors int               `json:"chunks_with_vectors"`
	Providers         []string          `json:"providers_used"`
	RetryCounts       map[string]int    `json:"retry_counts"`
	Steps             map[string]string `json:"steps"`
}

type ReprocessDocumentInput struct {
	UserID      string `json:"user_id"`
	WorkspaceID string `json:"workspace_id"`
	DocumentID  string `json:"document_id"`
	FileName    string `json:"file_name"`
}

type ReprocessAllInput struct {
	UserID        string `json:"user_id"`
	WorkspaceID   string `json:"workspace_id"`
	MaxConcurrent int    `json:"max_concurrent"`
}

type AnswerQueryInput struct {
	WorkspaceID     string   `json:"workspace_id"`
	UserID          string   `json:"user_id"`
	Question        string   `json:"question"`
	TopK            int      `json:"top_k"`
	DocumentIDs     []string `json:"document_ids,omitempty"`
	EmbedOrder      []int    `json:"embed_order,omitempty"`
	LLMOrder        []int    `json:"llm_order,omitempty"`
	CooldownSeconds int      `json:"cooldown_seconds"`
}

type AnswerQueryOutput struct {
	Answer        string                   `json:"answer"`
	Results       []activities.SearchChunk `json:"results"`
	EmbedProvider string                   `json:"embed_provider"`
	LLMProvider   string                   `json:"llm_provider"`
	LLMModel      string                   `json:"llm_model"`
}

type FAQGenerateInput struct {
	WorkspaceID     string   `json:"workspace_id"`
	Excerpts        []string `json:"excerpts"`
	LLMOrder        []int    `json:"llm_order,omitempty"`
	CooldownSeconds int      `json:"cooldown_seconds"`
}

type FAQGenerateOutput struct {
	Items       []extract.FAQItem `json:"items"`
	LLMProvider string            `json:"llm_provider"`
	LLMModel    string            `json:"llm_model"`
}

type ReprocessProgress struct {
	WorkspaceID   string            `json:"workspace_id"`
	Total         int               `json:"total"`
	Done          int               `json:"done"`
	Failed        int               `json:"failed"`
	PerDocument   map[string]string `json:"per_document_status"`
	ChildWorkflow map[string]string `json:"child_workflow_ids,omitempty"`
}
