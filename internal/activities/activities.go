package activities

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"aidorag/internal/config"
	"aidorag/internal/extract"
	"aidorag/internal/ingest"
	"aidorag/internal/models"
	"aidorag/internal/providers"
	"aidorag/internal/storage"
	"aidorag/internal/util"
	"aidorag/internal/vector"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
)

type Activities struct {
	cfg        config.Config
	db         *storage.DB
	docRepo    *storage.DocumentRepo
	chunkRepo  *storage.ChunkRepo
	entityRepo *storage.EntityRepo
	auditRepo  *storage.AuditRepo
	searcher   *vector.Searcher
	providers  *providers.Manager
}

func New(cfg config.Config, db *storage.DB) (*Activities, error) {
	pm, err := providers.NewManager(cfg)
	if err != nil {
		return nil, err
	}
	return &Activities{
		cfg:        cfg,
		db:         db,
		docRepo:    storage.NewDocumentRepo(db),
		chunkRepo:  storage.NewChunkRepo(db),
		entityRepo: storage.NewEntityRepo(db),
		auditRepo:  storage.NewAuditRepo(db),
		searcher:   vector.NewSearcher(db.Pool),
		providers:  pm,
	}, nil
}

func (a *Activities) ExtractTextActivity(ctx context.Context, in ExtractTextInput) (ExtractTextOutput, error) {
	_ = ctx
	var text string
	switch strings.ToLower(strings.TrimSpace(in.FileType)) {
	case "pdf":
		f, r, err := pdf.Open(in.DocumentPath)
		if err != nil {
			return ExtractTextOutput{}, fmt.Errorf("open pdf: %w", err)
		}
		defer f.Close()
		reader, err := r.GetPlainText()
		if err != nil {
			return ExtractTextOutput{}, fmt.Errorf("extract pdf text: %w", err)
		}
		buf := new(strings.Builder)
		if _, err := io.Copy(buf, reader); err != nil {
			return ExtractTextOutput{}, fmt.Errorf("read extracted text: %w", err)
		}
		text = buf.String()
	default:
		b, err := os.ReadFile(in.DocumentPath)
		if err != nil {
			return ExtractTextOutput{}, fmt.Errorf("read document: %w", err)
		}
		text = string(b)
	}
	text = util.SanitizeText(strings.TrimSpace(text))
	if text == "" {
		return ExtractTextOutput{}, util.ErrNoExtractableText
	}
	return ExtractTextOutput{Text: text}, nil
}

func (a *Activities) ChunkDocumentActivity(ctx context.Context, in ChunkDocumentInput) (ChunkDocumentOutput, error) {
	_ = ctx
	if in.ChunkSizeTokens <= 0 {
		in.ChunkSizeTokens = a.cfg.ChunkSizeTokens
	}
	raw := ingest.ChunkText(in.Text, in.ChunkSizeTokens)
	chunks := make([]ChunkItem, 0, len(raw))
	for _, c := range raw {
		content := util.SanitizeText(c.Content)
		if content == "" {
			continue
		}
		// Order indexes stay contiguous even when a sanitized chunk drops out.
		orderIndex := len(chunks)
		contentHash := util.SHA256Hex([]byte(content))
		chunkID := util.SHA256Hex([]byte(fmt.Sprintf("%s:%d:%s", in.DocumentID, orderIndex, contentHash)))
		chunks = append(chunks, ChunkItem{
			ChunkID:         chunkID,
			DocumentID:      in.DocumentID,
			WorkspaceID:     in.WorkspaceID,
			ChunkOrderIndex: orderIndex,
			Content:         content,
			TokenCount:      c.TokenCount,
		})
	}
	return ChunkDocumentOutput{Chunks: chunks}, nil
}

// EmbedChunksActivity runs the worker-pool embedder over a chunk batch.
// Per-chunk failures are tolerated and reported in the tally; the activity
// errors only when no chunk at all could be embedded, which signals the
// workflow to fail over to the next provider.
func (a *Activities) EmbedChunksActivity(ctx context.Context, in EmbedChunksInput) (EmbedChunksOutput, error) {
	provider, ref := a.providers.EmbedProviderByIndex(in.ProviderIndex)
	embedder, err := ingest.NewEmbedder(provider, a.cfg.EmbedDim, a.cfg.EmbedWorkers,
		time.Duration(a.cfg.EmbedDelayMillis)*time.Millisecond)
	if err != nil {
		return EmbedChunksOutput{}, fmt.Errorf("build embedder: %w", err)
	}
	defer embedder.Release()

	vectors, tally, info := embedder.EmbedAll(ctx, in.Texts)
	if len(in.Texts) > 0 && tally.Succeeded == 0 {
		return EmbedChunksOutput{}, fmt.Errorf("embed via %s failed for all %d chunks", ref.Raw, len(in.Texts))
	}
	return EmbedChunksOutput{
		Vectors:      vectors,
		Succeeded:    tally.Succeeded,
		Failed:       tally.Failed,
		ProviderName: ref.Name,
		Model:        info.Model,
	}, nil
}

func (a *Activities) PersistChunksActivity(ctx context.Context, in PersistChunksInput) (PersistChunksOutput, error) {
	records := make([]storage.ChunkRecord, 0, len(in.Chunks))
	for i, c := range in.Chunks {
		var embedding *string
		if i < len(in.Vectors) && len(in.Vectors[i]) > 0 {
			lit := vector.ToLiteral(in.Vectors[i])
			embedding = &lit
		}
		records = append(records, storage.ChunkRecord{
			ChunkID:         c.ChunkID,
			DocumentID:      c.DocumentID,
			WorkspaceID:     c.WorkspaceID,
			ChunkOrderIndex: c.ChunkOrderIndex,
			Content:         c.Content,
			TokenCount:      c.TokenCount,
			ChunkType:       "text",
			EmbeddingVector: embedding,
		})
	}
	writer := ingest.NewWriter(a.chunkRepo, a.docRepo, a.cfg.EmbedPolicy)
	res, err := writer.Write(ctx, in.DocumentID, records)
	if err != nil {
		return PersistChunksOutput{}, err
	}
	return PersistChunksOutput{
		ChunksTotal:       res.ChunksTotal,
		ChunksWithVectors: res.ChunksWithVectors,
		Status:            res.Status,
	}, nil
}

func (a *Activities) UpdateDocumentStatusActivity(ctx context.Context, in UpdateDocumentStatusInput) error {
	return a.docRepo.UpdateStatus(ctx, in.DocumentID, in.Status, in.FailReason)
}

func (a *Activities) WriteDocumentArtifactsActivity(ctx context.Context, in WriteDocumentArtifactsInput) error {
	_ = ctx
	base := filepath.Join(a.cfg.DataRoot, "out", in.WorkspaceID, in.DocumentID)
	if err := util.EnsureDir(base); err != nil {
		return err
	}
	if err := util.WriteJSONAtomic(filepath.Join(base, "metadata.json"), in.Metadata); err != nil {
		return err
	}
	if in.Text != "" {
		if err := util.WriteTextAtomic(filepath.Join(base, "text.txt"), in.Text); err != nil {
			return err
		}
	}
	rows := make([]any, 0, len(in.Chunks))
	for _, c := range in.Chunks {
		rows = append(rows, c)
	}
	return util.WriteJSONLinesAtomic(filepath.Join(base, "chunks.jsonl"), rows)
}

func (a *Activities) EmbedQueryActivity(ctx context.Context, in EmbedQueryInput) (EmbedQueryOutput, error) {
	provider, _ := a.providers.EmbedProviderByIndex(in.ProviderIndex)
	vectors, info, err := provider.Embed(ctx, providers.EmbedRequest{
		Operation: in.Operation,
		Inputs:    []string{in.Text},
		Dimension: a.cfg.EmbedDim,
	})
	if err != nil {
		return EmbedQueryOutput{}, err
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return EmbedQueryOutput{}, providers.ErrEmptyEmbedding
	}
	return EmbedQueryOutput{Vector: vectors[0], ProviderName: info.Name, Model: info.Model}, nil
}

func (a *Activities) SearchChunksActivity(ctx context.Context, in SearchChunksInput) (SearchChunksOutput, error) {
	results, err := a.searcher.SearchChunks(ctx, in.WorkspaceID, in.QueryVec, in.TopK, vector.SearchFilters{
		DocumentIDs: in.DocumentIDs,
	})
	if err != nil {
		return SearchChunksOutput{}, err
	}
	out := make([]SearchChunk, 0, len(results))
	for _, r := range results {
		out = append(out, SearchChunk{
			DocumentID: r.DocumentID,
			FileName:   r.FileName,
			ChunkID:    r.ChunkID,
			Snippet:    r.Snippet,
			Score:      r.Score,
			Text:       r.ChunkText,
		})
	}
	return SearchChunksOutput{Results: out}, nil
}

func (a *Activities) LLMGenerateActivity(ctx context.Context, in LLMGenerateInput) (LLMGenerateOutput, error) {
	if in.ProviderRef != "" {
		if idx := a.providers.FindLLMProviderIndex(in.ProviderRef); idx >= 0 {
			in.ProviderIndex = idx
		} else {
			return LLMGenerateOutput{}, fmt.Errorf("llm provider ref not configured in worker: %s", in.ProviderRef)
		}
	}
	provider, ref := a.providers.LLMProviderByIndex(in.ProviderIndex)
	resp, info, err := provider.Generate(ctx, providers.GenerateRequest{
		Operation: in.Operation,
		Prompt:    in.Prompt,
		Context:   in.Context,
	})
	if err != nil {
		return LLMGenerateOutput{}, fmt.Errorf("llm generate via %s failed: %w", ref.Raw, err)
	}
	return LLMGenerateOutput{Text: resp.Text, ProviderName: info.Name, Model: info.Model}, nil
}

func (a *Activities) LogProviderCallActivity(ctx context.Context, in LogProviderCallInput) error {
	callID := in.CallID
	if callID == "" {
		callID = uuid.NewString()
	}
	return a.auditRepo.Insert(ctx, storage.ProviderCallRecord{
		CallID:       callID,
		Operation:    in.Operation,
		WorkspaceID:  in.WorkspaceID,
		DocumentID:   in.DocumentID,
		ProviderName: in.ProviderName,
		Model:        in.Model,
		RequestID:    in.RequestID,
		Status:       in.Status,
		ErrorType:    in.ErrorType,
	})
}

// RederiveEntitiesActivity deletes a document's derived entities and relations
// and recomputes them from the current chunk set. The whole delete-then-insert
// sequence runs under a per-document advisory lock so concurrent reprocess
// requests serialize instead of interleaving. Session-scoped locks cannot span
// activity boundaries, which is why extraction runs inside one activity rather
// than as separate workflow steps.
func (a *Activities) RederiveEntitiesActivity(ctx context.Context, in RederiveEntitiesInput) (RederiveEntitiesOutput, error) {
	release, err := a.db.AcquireDocumentLock(ctx, in.DocumentID)
	if err != nil {
		return RederiveEntitiesOutput{}, err
	}
	defer release()

	chunks, err := a.chunkRepo.ListByDocument(ctx, in.DocumentID)
	if err != nil {
		return RederiveEntitiesOutput{}, err
	}
	if len(chunks) == 0 {
		return RederiveEntitiesOutput{}, util.ErrNoChunks
	}

	chunkIDs := make([]string, 0, len(chunks))
	for _, c := range chunks {
		chunkIDs = append(chunkIDs, c.ChunkID)
	}
	set := extract.ChunkIDSet(chunkIDs)
	out := RederiveEntitiesOutput{ChunksSeen: len(chunks)}

	// Relations first so nothing dangles if the activity is interrupted
	// between the two delete passes.
	relations, err := a.entityRepo.ListRelationsByUser(ctx, in.UserID)
	if err != nil {
		return out, err
	}
	for _, rel := range relations {
		if !extract.SharesAnyChunk(rel.SourceChunkIDs, set) {
			continue
		}
		if err := a.entityRepo.DeleteRelation(ctx, rel.RelationID); err != nil {
			return out, err
		}
		out.RelationsDeleted++
	}
	entities, err := a.entityRepo.ListEntitiesByUser(ctx, in.UserID)
	if err != nil {
		return out, err
	}
	for _, e := range entities {
		if !extract.SharesAnyChunk(e.SourceChunkIDs, set) {
			continue
		}
		if err := a.entityRepo.DeleteEntity(ctx, e.EntityID); err != nil {
			return out, err
		}
		out.EntitiesDeleted++
	}

	provider, ref := a.providers.LLMProviderByIndex(in.ProviderIndex)
	type entityAgg struct {
		entityType extract.EntityType
		chunkIDs   []string
	}
	type relationAgg struct {
		source, target string
		relationType   extract.RelationType
		chunkIDs       []string
	}
	entityByName := map[string]*entityAgg{}
	entityOrder := make([]string, 0)
	relationByKey := map[string]*relationAgg{}
	relationOrder := make([]string, 0)

	for _, c := range chunks {
		prompt := extract.BuildChunkExtractionPrompt(in.FileName, c.Content)
		resp, _, genErr := provider.Generate(ctx, providers.GenerateRequest{
			Operation: "entity_extract",
			Prompt:    prompt,
		})
		if genErr != nil {
			log.Printf("entity extraction via %s for chunk %s: %v", ref.Raw, c.ChunkID, genErr)
			continue
		}
		parsed := extract.ParseExtractionJSON(resp.Text)
		for _, e := range parsed.Entities {
			agg, ok := entityByName[e.Name]
			if !ok {
				agg = &entityAgg{entityType: e.EntityType}
				entityByName[e.Name] = agg
				entityOrder = append(entityOrder, e.Name)
			}
			agg.chunkIDs = appendUnique(agg.chunkIDs, c.ChunkID)
		}
		for _, rel := range parsed.Relations {
			key := rel.Source + "|" + string(rel.RelationType) + "|" + rel.Target
			agg, ok := relationByKey[key]
			if !ok {
				agg = &relationAgg{source: rel.Source, target: rel.Target, relationType: rel.RelationType}
				relationByKey[key] = agg
				relationOrder = append(relationOrder, key)
			}
			agg.chunkIDs = appendUnique(agg.chunkIDs, c.ChunkID)
		}
	}

	entityIDByName := make(map[string]string, len(entityByName))
	for _, name := range entityOrder {
		agg := entityByName[name]
		entityID := uuid.NewString()
		if err := a.entityRepo.InsertEntity(ctx, models.Entity{
			EntityID:       entityID,
			UserID:         in.UserID,
			WorkspaceID:    in.WorkspaceID,
			Name:           name,
			EntityType:     string(agg.entityType),
			SourceChunkIDs: agg.chunkIDs,
		}); err != nil {
			return out, err
		}
		entityIDByName[name] = entityID
		out.EntitiesCreated++
	}
	for _, key := range relationOrder {
		agg := relationByKey[key]
		sourceID, srcOK := entityIDByName[agg.source]
		targetID, tgtOK := entityIDByName[agg.target]
		if !srcOK || !tgtOK {
			continue
		}
		if err := a.entityRepo.InsertRelation(ctx, models.Relation{
			RelationID:     uuid.NewString(),
			UserID:         in.UserID,
			WorkspaceID:    in.WorkspaceID,
			SourceEntityID: sourceID,
			TargetEntityID: targetID,
			RelationType:   string(agg.relationType),
			SourceChunkIDs: agg.chunkIDs,
		}); err != nil {
			return out, err
		}
		out.RelationsCreated++
	}
	return out, nil
}

func (a *Activities) ListDocumentsActivity(ctx context.Context, in ListDocumentsInput) (ListDocumentsOutput, error) {
	docs, err := a.docRepo.ListByWorkspace(ctx, in.WorkspaceID)
	if err != nil {
		return ListDocumentsOutput{}, err
	}
	out := ListDocumentsOutput{Documents: make([]DocumentSummary, 0, len(docs))}
	for _, d := range docs {
		out.Documents = append(out.Documents, DocumentSummary{
			DocumentID: d.DocumentID,
			UserID:     d.UserID,
			FileName:   d.FileName,
			Status:     d.Status,
		})
	}
	return out, nil
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
