package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"aidorag/internal/config"
	"aidorag/internal/extract"
	"aidorag/internal/models"
	"aidorag/internal/providers"
	"aidorag/internal/storage"
	"aidorag/internal/util"
	"aidorag/internal/workflows"

	"github.com/google/uuid"
	enumspb "go.temporal.io/api/enums/v1"
	tclient "go.temporal.io/sdk/client"
)

type Server struct {
	cfg        config.Config
	db         *storage.DB
	docRepo    *storage.DocumentRepo
	chunkRepo  *storage.ChunkRepo
	entityRepo *storage.EntityRepo
	providers  *providers.Manager
	temporal   tclient.Client
}

type tenant struct {
	UserID      string
	WorkspaceID string
}

type queryCitation struct {
	RefID      string  `json:"ref_id"`
	DocumentID string  `json:"document_id"`
	FileName   string  `json:"file_name"`
	ChunkID    string  `json:"chunk_id"`
	Snippet    string  `json:"snippet"`
	Score      float64 `json:"score"`
}

func NewServer(cfg config.Config) *Server {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := storage.NewDB(ctx, cfg.PostgresURL)
	if err != nil {
		panic(err)
	}
	pm, err := providers.NewManager(cfg)
	if err != nil {
		panic(err)
	}
	tc, err := tclient.Dial(tclient.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		panic(err)
	}
	return &Server{
		cfg:        cfg,
		db:         db,
		docRepo:    storage.NewDocumentRepo(db),
		chunkRepo:  storage.NewChunkRepo(db),
		entityRepo: storage.NewEntityRepo(db),
		providers:  pm,
		temporal:   tc,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/documents", s.requireTenant(s.handleDocuments))
	mux.HandleFunc("/documents/", s.requireTenant(s.handleDocumentScoped))
	mux.HandleFunc("/query", s.requireTenant(s.handleQuery))
	mux.HandleFunc("/faq", s.requireTenant(s.handleFAQ))
	mux.HandleFunc("/entities", s.requireTenant(s.handleEntities))
	mux.HandleFunc("/relations", s.requireTenant(s.handleRelations))
	mux.HandleFunc("/admin/reprocess", s.requireTenant(s.handleReprocess))
	mux.HandleFunc("/admin/reprocess/progress", s.requireTenant(s.handleReprocessProgress))
	return withCORS(mux)
}

// requireTenant rejects requests missing the caller identity headers. Every
// data-touching route is scoped to the tenant taken from these headers, never
// from the request body.
func (s *Server) requireTenant(next func(http.ResponseWriter, *http.Request, tenant)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t := tenant{
			UserID:      strings.TrimSpace(r.Header.Get("X-User-ID")),
			WorkspaceID: strings.TrimSpace(r.Header.Get("X-Workspace-ID")),
		}
		if t.UserID == "" || t.WorkspaceID == "" {
			writeErr(w, http.StatusUnauthorized, fmt.Errorf("missing identity headers"))
			return
		}
		next(w, r, t)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request, t tenant) {
	switch r.Method {
	case http.MethodGet:
		docs, err := s.docRepo.ListByWorkspace(r.Context(), t.WorkspaceID)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		writeData(w, http.StatusOK, map[string]any{"documents": docs})
	case http.MethodPost:
		s.handleUpload(w, r, t)
	default:
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request, t tenant) {
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("parse multipart: %w", err))
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		if single, ok := firstSingleFile(r.MultipartForm.File); ok {
			files = append(files, single)
		}
	}
	if len(files) == 0 {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("no files provided"))
		return
	}

	inDir := filepath.Join(s.cfg.DataRoot, "in", t.WorkspaceID)
	if err := util.EnsureDir(inDir); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	type uploadResult struct {
		DocumentID string `json:"document_id"`
		FileName   string `json:"file_name"`
		WorkflowID string `json:"workflow_id"`
	}
	out := make([]uploadResult, 0, len(files))

	for _, fh := range files {
		fileType := uploadFileType(fh.Filename)
		if fileType == "" {
			continue
		}
		savedPath, size, err := saveUploadedFile(inDir, fh)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		documentID := uuid.NewString()
		if err := s.docRepo.Insert(r.Context(), models.Document{
			DocumentID:  documentID,
			WorkspaceID: t.WorkspaceID,
			UserID:      t.UserID,
			FileName:    filepath.Base(savedPath),
			FileType:    fileType,
			FileSize:    size,
			Status:      models.StatusPending,
		}); err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}

		wfID := "document-" + documentID
		we, err := s.temporal.ExecuteWorkflow(r.Context(), tclient.StartWorkflowOptions{
			ID:                    wfID,
			TaskQueue:             s.cfg.TemporalTaskQueue,
			WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
		}, workflows.DocumentProcessWorkflow, workflows.DocumentProcessInput{
			WorkspaceID:     t.WorkspaceID,
			UserID:          t.UserID,
			DocumentID:      documentID,
			DocumentPath:    savedPath,
			FileName:        filepath.Base(savedPath),
			FileType:        fileType,
			ChunkSizeTokens: s.cfg.ChunkSizeTokens,
			EmbedProviders:  s.providers.EmbedCount(),
			CooldownSeconds: s.cfg.CooldownSecs,
		})
		if err != nil {
			writeErr(w, http.StatusConflict, err)
			return
		}
		out = append(out, uploadResult{DocumentID: documentID, FileName: filepath.Base(savedPath), WorkflowID: we.GetID()})
	}
	if len(out) == 0 {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("no supported files provided"))
		return
	}
	writeData(w, http.StatusAccepted, map[string]any{"uploaded": out})
}

func (s *Server) handleDocumentScoped(w http.ResponseWriter, r *http.Request, t tenant) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/documents/"), "/"), "/")
	if len(parts) < 1 || parts[0] == "" {
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
		return
	}
	documentID := parts[0]

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			s.handleDocumentStatus(w, r, t, documentID)
		case http.MethodDelete:
			s.handleDocumentDelete(w, r, t, documentID)
		default:
			writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		}
		return
	}
	if len(parts) == 2 && parts[1] == "chunks" {
		if r.Method != http.MethodGet {
			writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
			return
		}
		if _, err := s.docRepo.GetByID(r.Context(), t.WorkspaceID, documentID); err != nil {
			writeErr(w, http.StatusNotFound, err)
			return
		}
		chunks, err := s.chunkRepo.ListByDocument(r.Context(), documentID)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		writeData(w, http.StatusOK, map[string]any{"chunks": chunks})
		return
	}
	writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
}

// handleDocumentStatus reports live workflow progress when an ingestion run is
// active, and otherwise falls back to the persisted document row.
func (s *Server) handleDocumentStatus(w http.ResponseWriter, r *http.Request, t tenant, documentID string) {
	doc, err := s.docRepo.GetByID(r.Context(), t.WorkspaceID, documentID)
	if err != nil {
		writeErr(w, http.StatusNotFound, err)
		return
	}
	resp, qErr := s.temporal.QueryWorkflow(r.Context(), "document-"+documentID, "", workflows.QueryGetDocumentStatus)
	if qErr == nil {
		var status workflows.DocumentStatus
		if err := resp.Get(&status); err == nil {
			writeData(w, http.StatusOK, map[string]any{"document": doc, "progress": status})
			return
		}
	}
	writeData(w, http.StatusOK, map[string]any{"document": doc})
}

// handleDocumentDelete removes the document row (chunks cascade) along with
// entities and relations derived from its chunks, then the stored file.
func (s *Server) handleDocumentDelete(w http.ResponseWriter, r *http.Request, t tenant, documentID string) {
	doc, err := s.docRepo.GetByID(r.Context(), t.WorkspaceID, documentID)
	if err != nil {
		writeErr(w, http.StatusNotFound, err)
		return
	}
	chunks, err := s.chunkRepo.ListByDocument(r.Context(), documentID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	ids := make([]string, 0, len(chunks))
	for _, c := range chunks {
		ids = append(ids, c.ChunkID)
	}
	if err := deleteDerivedByChunks(r.Context(), s.entityRepo, t.WorkspaceID, extract.ChunkIDSet(ids)); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if err := s.docRepo.Delete(r.Context(), documentID); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	_ = os.Remove(filepath.Join(s.cfg.DataRoot, "in", t.WorkspaceID, filepath.Base(doc.FileName)))
	writeData(w, http.StatusOK, map[string]any{"deleted": documentID})
}

type derivedStore interface {
	ListEntitiesByWorkspace(ctx context.Context, workspaceID string) ([]models.Entity, error)
	ListRelationsByWorkspace(ctx context.Context, workspaceID string) ([]models.Relation, error)
	DeleteEntity(ctx context.Context, entityID string) error
	DeleteRelation(ctx context.Context, relationID string) error
}

// deleteDerivedByChunks removes every entity and relation in the workspace
// whose provenance overlaps the given chunk set, no matter which member
// derived it. Relations go first so no relation outlives its endpoints.
func deleteDerivedByChunks(ctx context.Context, store derivedStore, workspaceID string, set map[string]struct{}) error {
	relations, err := store.ListRelationsByWorkspace(ctx, workspaceID)
	if err != nil {
		return err
	}
	for _, rel := range relations {
		if !extract.SharesAnyChunk(rel.SourceChunkIDs, set) {
			continue
		}
		if err := store.DeleteRelation(ctx, rel.RelationID); err != nil {
			return err
		}
	}
	entities, err := store.ListEntitiesByWorkspace(ctx, workspaceID)
	if err != nil {
		return err
	}
	for _, e := range entities {
		if !extract.SharesAnyChunk(e.SourceChunkIDs, set) {
			continue
		}
		if err := store.DeleteEntity(ctx, e.EntityID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request, t tenant) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req struct {
		Question    string   `json:"question"`
		TopK        int      `json:"top_k"`
		DocumentIDs []string `json:"document_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("question is required"))
		return
	}
	if req.TopK <= 0 {
		req.TopK = 8
	}

	we, err := s.temporal.ExecuteWorkflow(r.Context(), tclient.StartWorkflowOptions{
		ID:        "query-" + uuid.NewString(),
		TaskQueue: s.cfg.TemporalTaskQueue,
	}, workflows.AnswerQueryWorkflow, workflows.AnswerQueryInput{
		WorkspaceID:     t.WorkspaceID,
		UserID:          t.UserID,
		Question:        req.Question,
		TopK:            req.TopK,
		DocumentIDs:     req.DocumentIDs,
		EmbedOrder:      s.providers.PreferredEmbedOrder(),
		LLMOrder:        s.providers.PreferredLLMOrder(),
		CooldownSeconds: s.cfg.CooldownSecs,
	})
	if err != nil {
		writeErr(w, http.StatusConflict, err)
		return
	}
	var out workflows.AnswerQueryOutput
	if err := we.Get(r.Context(), &out); err != nil {
		writeErr(w, http.StatusBadGateway, fmt.Errorf("query workflow failed: %w", err))
		return
	}

	citations := make([]queryCitation, 0, len(out.Results))
	for i, res := range out.Results {
		snippet := util.DisplayEvidenceSnippet(res.Text, req.Question, 420)
		if snippet == "" {
			snippet = util.DisplaySnippet(res.Snippet, 420)
		}
		citations = append(citations, queryCitation{
			RefID:      fmt.Sprintf("C%d", i+1),
			DocumentID: res.DocumentID,
			FileName:   res.FileName,
			ChunkID:    res.ChunkID,
			Snippet:    snippet,
			Score:      res.Score,
		})
	}

	answer := strings.TrimSpace(out.Answer)
	if answer == "" {
		answer = "No relevant evidence was retrieved for this question."
	}
	writeData(w, http.StatusOK, map[string]any{
		"answer":          answer,
		"citations":       citations,
		"embed_provider":  out.EmbedProvider,
		"llm_provider":    out.LLMProvider,
		"llm_model":       out.LLMModel,
		"retrieved_count": len(citations),
	})
}

func (s *Server) handleFAQ(w http.ResponseWriter, r *http.Request, t tenant) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req struct {
		DocumentIDs []string `json:"document_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	if len(req.DocumentIDs) == 0 {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("document_ids is required"))
		return
	}

	excerpts := make([]string, 0, 20)
	for _, docID := range req.DocumentIDs {
		if _, err := s.docRepo.GetByID(r.Context(), t.WorkspaceID, docID); err != nil {
			writeErr(w, http.StatusNotFound, err)
			return
		}
		chunks, err := s.chunkRepo.ListByDocument(r.Context(), docID)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		for _, c := range chunks {
			if len(excerpts) >= 20 {
				break
			}
			excerpts = append(excerpts, util.DisplaySnippet(c.Content, 1200))
		}
	}
	if len(excerpts) == 0 {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("no chunks available for faq generation"))
		return
	}

	we, err := s.temporal.ExecuteWorkflow(r.Context(), tclient.StartWorkflowOptions{
		ID:        "faq-" + uuid.NewString(),
		TaskQueue: s.cfg.TemporalTaskQueue,
	}, workflows.FAQGenerateWorkflow, workflows.FAQGenerateInput{
		WorkspaceID:     t.WorkspaceID,
		Excerpts:        excerpts,
		LLMOrder:        s.providers.PreferredLLMOrder(),
		CooldownSeconds: s.cfg.CooldownSecs,
	})
	if err != nil {
		writeErr(w, http.StatusConflict, err)
		return
	}
	var out workflows.FAQGenerateOutput
	if err := we.Get(r.Context(), &out); err != nil {
		writeErr(w, http.StatusBadGateway, fmt.Errorf("faq workflow failed: %w", err))
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"faqs":         out.Items,
		"llm_provider": out.LLMProvider,
		"llm_model":    out.LLMModel,
	})
}

func (s *Server) handleEntities(w http.ResponseWriter, r *http.Request, t tenant) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	entities, err := s.entityRepo.ListEntitiesByUser(r.Context(), t.UserID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"entities": entities})
}

func (s *Server) handleRelations(w http.ResponseWriter, r *http.Request, t tenant) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	relations, err := s.entityRepo.ListRelationsByUser(r.Context(), t.UserID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"relations": relations})
}

func (s *Server) handleReprocess(w http.ResponseWriter, r *http.Request, t tenant) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	wfID := "reprocess-" + t.WorkspaceID
	we, err := s.temporal.ExecuteWorkflow(r.Context(), tclient.StartWorkflowOptions{
		ID:                                       wfID,
		TaskQueue:                                s.cfg.TemporalTaskQueue,
		WorkflowIDReusePolicy:                    enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}, workflows.ReprocessAllWorkflow, workflows.ReprocessAllInput{
		UserID:        t.UserID,
		WorkspaceID:   t.WorkspaceID,
		MaxConcurrent: s.cfg.ReprocessMaxConc,
	})
	if err != nil {
		writeErr(w, http.StatusConflict, err)
		return
	}
	writeData(w, http.StatusAccepted, map[string]any{"workflow_id": we.GetID(), "run_id": we.GetRunID()})
}

func (s *Server) handleReprocessProgress(w http.ResponseWriter, r *http.Request, t tenant) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	resp, err := s.temporal.QueryWorkflow(r.Context(), "reprocess-"+t.WorkspaceID, "", workflows.QueryGetReprocessProgress)
	if err != nil {
		writeErr(w, http.StatusNotFound, err)
		return
	}
	var prog workflows.ReprocessProgress
	if err := resp.Get(&prog); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeData(w, http.StatusOK, prog)
}

func uploadFileType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return "pdf"
	case ".txt":
		return "txt"
	case ".md":
		return "md"
	default:
		return ""
	}
}

func saveUploadedFile(dstDir string, fh *multipart.FileHeader) (path string, size int64, err error) {
	src, err := fh.Open()
	if err != nil {
		return "", 0, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(dstDir, "upload-*")
	if err != nil {
		return "", 0, fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
	}()

	n, err := io.Copy(tmp, src)
	if err != nil {
		return "", 0, fmt.Errorf("write upload: %w", err)
	}
	finalPath := util.SafeJoin(dstDir, fh.Filename)
	if err := tmp.Close(); err != nil {
		return "", 0, err
	}
	if err := os.Rename(tmp.Name(), finalPath); err != nil {
		return "", 0, fmt.Errorf("atomic move upload: %w", err)
	}
	return finalPath, n, nil
}

func firstSingleFile(m map[string][]*multipart.FileHeader) (*multipart.FileHeader, bool) {
	for _, v := range m {
		if len(v) > 0 {
			return v[0], true
		}
	}
	return nil, false
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, code int, data any) {
	writeJSON(w, code, map[string]any{"success": true, "data": data})
}

func writeErr(w http.ResponseWriter, code int, err error) {
	apiErr := toAPIError(code, err)
	writeJSON(w, code, map[string]any{
		"success": false,
		"error": map[string]any{
			"code":    apiErr.Code,
			"message": apiErr.Message,
		},
	})
}

type apiError struct {
	Code    string
	Message string
}

func toAPIError(status int, err error) apiError {
	msg := "Request failed."
	code := "AR-API-4000"
	raw := ""
	if err != nil {
		raw = strings.ToLower(err.Error())
	}

	switch {
	case status >= 500:
		switch {
		case strings.Contains(raw, "relation") && strings.Contains(raw, "does not exist"):
			return apiError{
				Code:    "AR-DB-5001",
				Message: "Database schema is not initialized. Run migrations and retry.",
			}
		case strings.Contains(raw, "connect"), strings.Contains(raw, "dial tcp"), strings.Contains(raw, "connection refused"):
			return apiError{
				Code:    "AR-DB-5002",
				Message: "Database connection is unavailable. Check local services and retry.",
			}
		default:
			return apiError{
				Code:    "AR-API-5000",
				Message: "Internal server error. Please retry or check service logs.",
			}
		}
	case status == http.StatusBadRequest:
		code = "AR-API-4001"
		msg = "Invalid request. Check inputs and retry."
	case status == http.StatusUnauthorized:
		code = "AR-API-4010"
		msg = "Missing or invalid identity headers."
	case status == http.StatusNotFound:
		code = "AR-API-4004"
		msg = "Requested resource was not found."
	case status == http.StatusConflict:
		code = "AR-API-4009"
		msg = "Operation conflicts with current state. Retry after checking status."
	case status == http.StatusMethodNotAllowed:
		code = "AR-API-4005"
		msg = "This endpoint does not support the requested method."
	case status == http.StatusBadGateway:
		code = "AR-API-5020"
		msg = "Upstream provider unavailable. Retry shortly."
	}

	if status >= 400 && status < 500 && err != nil {
		low := strings.ToLower(err.Error())
		switch {
		case strings.Contains(low, "question is required"):
			msg = "A question is required."
		case strings.Contains(low, "document_ids is required"):
			msg = "At least one document id is required."
		case strings.Contains(low, "no files provided"), strings.Contains(low, "no supported files provided"):
			msg = "No supported document files were provided."
		case strings.Contains(low, "invalid json"):
			msg = "Malformed JSON request body."
		}
	}

	return apiError{Code: code, Message: msg}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-User-ID, X-Workspace-ID")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
