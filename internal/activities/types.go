package activities

type ExtractTextInput struct {
	DocumentPath string `json:"document_path"`
	FileType     string `json:"file_type"`
}

type ExtractTextOutput struct {
	Text string `json:"text"`
}

type ChunkDocumentInput struct {
	DocumentID      string `json:"document_id"`
	WorkspaceID     string `json:"workspace_id"`
	Text            string `json:"text"`
	ChunkSizeTokens int    `json:"chunk_size_tokens"`
}

type ChunkItem struct {
	ChunkID         string `json:"chunk_id"`
	DocumentID      string `json:"document_id"`
	WorkspaceID     string `json:"workspace_id"`
	ChunkOrderIndex int    `json:"chunk_order_index"`
	Content         string `json:"content"`
	TokenCount      int    `json:"token_count"`
}

type ChunkDocumentOutput struct {
	Chunks []ChunkItem `json:"chunks"`
}

type EmbedChunksInput struct {
	Operation     string   `json:"operation"`
	WorkspaceID   string   `json:"workspace_id"`
	DocumentID    string   `json:"document_id"`
	ProviderIndex int      `json:"provider_index"`
	Texts         []string `json:"texts"`
}

type EmbedChunksOutput struct {
	Vectors      [][]float32 `json:"vectors"`
	Succeeded    int         `json:"succeeded"`
	Failed       int         `json:"failed"`
	ProviderName string      `json:"provider_name"`
	Model        string      `json:"model"`
}

type PersistChunksInput struct {
	DocumentID string      `json:"document_id"`
	Chunks     []ChunkItem `json:"chunks"`
	Vectors    [][]float32 `json:"vectors"`
}

type PersistChunksOutput struct {
	ChunksTotal       int    `json:"chunks_total"`
	ChunksWithVectors int    `json:"chunks_with_vectors"`
	Status            string `json:"status"`
}

type UpdateDocumentStatusInput struct {
	DocumentID string `json:"document_id"`
	Status     string `json:"status"`
	FailReason string `json:"fail_reason"`
}

type WriteDocumentArtifactsInput struct {
	WorkspaceID string         `json:"workspace_id"`
	DocumentID  string         `json:"document_id"`
	Metadata    map[string]any `json:"metadata"`
	Text        string         `json:"text"`
	Chunks      []ChunkItem    `json:"chunks"`
}

type EmbedQueryInput struct {
	Operation     string `json:"operation"`
	Text          string `json:"text"`
	ProviderIndex int    `json:"provider_index"`
}

type EmbedQueryOutput struct {
	Vector       []float32 `json:"vector"`
	ProviderName string    `json:"provider_name"`
	Model        string    `json:"model"`
}

type SearchChunksInput struct {
	WorkspaceID string    `json:"workspace_id"`
	QueryVec    []float32 `json:"query_vec"`
	TopK        int       `json:"top_k"`
	DocumentIDs []string  `json:"document_ids,omitempty"`
}

type SearchChunk struct {
	DocumentID string  `json:"document_id"`
	FileName   string  `json:"file_name"`
	ChunkID    string  `json:"chunk_id"`
	Snippet    string  `json:"snippet"`
	Score      float64 `json:"score"`
	Text       string  `json:"text"`
}

type SearchChunksOutput struct {
	Results []SearchChunk `json:"results"`
}

type LLMGenerateInput struct {
	Operation     string   `json:"operation"`
	WorkspaceID   string   `json:"workspace_id"`
	DocumentID    string   `json:"document_id"`
	Prompt        string   `json:"prompt"`
	Context       []string `json:"context"`
	ProviderIndex int      `json:"provider_index"`
	ProviderRef   string   `json:"provider_ref,omitempty"`
}

type LLMGenerateOutput struct {
	Text         string `json:"text"`
	ProviderName string `json:"provider_name"`
	Model        string `json:"model"`
}

type LogProviderCallInput struct {
	CallID       string `json:"call_id"`
	Operation    string `json:"operation"`
	WorkspaceID  string `json:"workspace_id"`
	DocumentID   string `json:"document_id"`
	ProviderName string `json:"provider_name"`
	Model        string `json:"model"`
	RequestID    string `json:"request_id"`
	Status       string `json:"status"`
	ErrorType    string `json:"error_type"`
}

type RederiveEntitiesInput struct {
	UserID        string `json:"user_id"`
	WorkspaceID   string `json:"workspace_id"`
	DocumentID    string `json:"document_id"`
	FileName      string `json:"file_name"`
	ProviderIndex int    `json:"provider_index"`
}

type RederiveEntitiesOutput struct {
	ChunksSeen       int `json:"chunks_seen"`
	EntitiesDeleted  int `json:"entities_deleted"`
	RelationsDeleted int `json:"relations_deleted"`
	EntitiesCreated  int `json:"entities_created"`
	RelationsCreated int `json:"relations_created"`
}

type ListDocumentsInput struct {
	WorkspaceID string `json:"workspace_id"`
}

type DocumentSummary struct {
	DocumentID string `json:"document_id"`
	UserID     string `json:"user_id"`
	FileName   string `json:"file_name"`
	Status     string `json:"status"`
}

type ListDocumentsOutput struct {
	Documents []DocumentSummary `json:"documents"`
}
