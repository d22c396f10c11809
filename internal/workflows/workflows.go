package workflows

import (
	"fmt"
	"strings"
	"time"

	"aidorag/internal/activities"
	"aidorag/internal/models"
	"aidorag/internal/providers"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	QueryGetDocumentStatus    = "GetDocumentStatus"
	QueryGetReprocessProgress = "GetReprocessProgress"
)

type providerState struct {
	disabledUntil map[int]time.Time
	retries       map[string]int
}

func newProviderState() providerState {
	return providerState{disabledUntil: map[int]time.Time{}, retries: map[string]int{}}
}

func DocumentProcessWorkflow(ctx workflow.Context, input DocumentProcessInput) (string, error) {
	status := DocumentStatus{
		DocumentID:  input.DocumentID,
		FileName:    input.FileName,
		CurrentStep: "init",
		Status:      models.StatusProcessing,
		RetryCounts: map[string]int{},
		Steps:       map[string]string{},
	}
	if err := workflow.SetQueryHandler(ctx, QueryGetDocumentStatus, func() (DocumentStatus, error) {
		return status, nil
	}); err != nil {
		return "", err
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    20 * time.Second,
			MaximumAttempts:    2,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)
	cooldown := durationOrDefault(input.CooldownSeconds, 900)
	providerCount := defaultCount(input.EmbedProviders)
	state := newProviderState()

	status.CurrentStep = "mark_processing"
	status.Steps[status.CurrentStep] = "processing"
	if err := workflow.ExecuteActivity(ctx, "UpdateDocumentStatusActivity", activities.UpdateDocumentStatusInput{
		DocumentID: input.DocumentID, Status: models.StatusProcessing,
	}).Get(ctx, nil); err != nil {
		return "", err
	}
	status.Steps[status.CurrentStep] = "done"

	status.CurrentStep = "extract_text"
	status.Steps[status.CurrentStep] = "processing"
	var textOut activities.ExtractTextOutput
	if err := workflow.ExecuteActivity(ctx, "ExtractTextActivity", activities.ExtractTextInput{
		DocumentPath: input.DocumentPath, FileType: input.FileType,
	}).Get(ctx, &textOut); err != nil {
		if isNoTextError(err) {
			return failDocument(ctx, &status, input.DocumentID, "no extractable text found in document")
		}
		return "", err
	}
	status.Steps[status.CurrentStep] = "done"

	status.CurrentStep = "chunk_text"
	status.Steps[status.CurrentStep] = "processing"
	var chunkOut activities.ChunkDocumentOutput
	if err := workflow.ExecuteActivity(ctx, "ChunkDocumentActivity", activities.ChunkDocumentInput{
		DocumentID:      input.DocumentID,
		WorkspaceID:     input.WorkspaceID,
		Text:            textOut.Text,
		ChunkSizeTokens: input.ChunkSizeTokens,
	}).Get(ctx, &chunkOut); err != nil {
		return "", err
	}
	status.ChunksTotal = len(chunkOut.Chunks)
	status.Steps[status.CurrentStep] = "done"

	var embedOut activities.EmbedChunksOutput
	if len(chunkOut.Chunks) > 0 {
		status.CurrentStep = "embed_chunks"
		status.Steps[status.CurrentStep] = "processing"
		texts := make([]string, 0, len(chunkOut.Chunks))
		for _, c := range chunkOut.Chunks {
			texts = append(texts, c.Content)
		}
		var err error
		embedOut, err = callEmbedWithFailover(ctx, &state, providerCount, cooldown, activities.EmbedChunksInput{
			Operation:   "chunk_embed",
			WorkspaceID: input.WorkspaceID,
			DocumentID:  input.DocumentID,
			Texts:       texts,
		}, status.RetryCounts)
		if err != nil {
			return "", err
		}
		status.Providers = append(status.Providers, embedOut.ProviderName)
		status.Steps[status.CurrentStep] = "done"
	}

	status.CurrentStep = "persist_chunks"
	status.Steps[status.CurrentStep] = "processing"
	var persistOut activities.PersistChunksOutput
	if err := workflow.ExecuteActivity(ctx, "PersistChunksActivity", activities.PersistChunksInput{
		DocumentID: input.DocumentID,
		Chunks:     chunkOut.Chunks,
		Vectors:    embedOut.Vectors,
	}).Get(ctx, &persistOut); err != nil {
		if isInvalidTextEncodingError(err) {
			return failDocument(ctx, &status, input.DocumentID, "document contains invalid text encoding after extraction")
		}
		return "", err
	}
	status.ChunksWithVectors = persistOut.ChunksWithVectors
	status.Steps[status.CurrentStep] = "done"

	status.CurrentStep = "write_artifacts"
	status.Steps[status.CurrentStep] = "processing"
	if err := workflow.ExecuteActivity(ctx, "WriteDocumentArtifactsActivity", activities.WriteDocumentArtifactsInput{
		WorkspaceID: input.WorkspaceID,
		DocumentID:  input.DocumentID,
		Metadata: map[string]any{
			"document_id":         input.DocumentID,
			"file_name":           input.FileName,
			"file_type":           input.FileType,
			"chunks_total":        persistOut.ChunksTotal,
			"chunks_with_vectors": persistOut.ChunksWithVectors,
			"generated_at":        workflow.Now(ctx),
		},
		Text:   textOut.Text,
		Chunks: chunkOut.Chunks,
	}).Get(ctx, nil); err != nil {
		return "", err
	}
	status.Steps[status.CurrentStep] = "done"

	if !input.SkipExtraction && len(chunkOut.Chunks) > 0 {
		status.CurrentStep = "extract_entities"
		status.Steps[status.CurrentStep] = "processing"
		var rederiveOut activities.RederiveEntitiesOutput
		if err := workflow.ExecuteActivity(ctx, "RederiveEntitiesActivity", activities.RederiveEntitiesInput{
			UserID:      input.UserID,
			WorkspaceID: input.WorkspaceID,
			DocumentID:  input.DocumentID,
			FileName:    input.FileName,
		}).Get(ctx, &rederiveOut); err != nil {
			// Extraction never gates ingestion: the document keeps its
			// vector-store state even when entity derivation fails.
			status.Steps[status.CurrentStep] = "failed"
		} else {
			status.Steps[status.CurrentStep] = "done"
		}
	}

	status.CurrentStep = "done"
	status.Status = persistOut.Status
	return status.Status, nil
}

func failDocument(ctx workflow.Context, status *DocumentStatus, documentID, reason string) (string, error) {
	status.Status = models.StatusFailed
	status.FailReason = reason
	status.Steps[status.CurrentStep] = "failed"
	_ = workflow.ExecuteActivity(ctx, "UpdateDocumentStatusActivity", activities.UpdateDocumentStatusInput{
		DocumentID: documentID,
		Status:     models.StatusFailed,
		FailReason: reason,
	}).Get(ctx, nil)
	return status.Status, nil
}

func DocumentReprocessWorkflow(ctx workflow.Context, input ReprocessDocumentInput) (string, error) {
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    2,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	var out activities.RederiveEntitiesOutput
	err := workflow.ExecuteActivity(ctx, "RederiveEntitiesActivity", activities.RederiveEntitiesInput{
		UserID:      input.UserID,
		WorkspaceID: input.WorkspaceID,
		DocumentID:  input.DocumentID,
		FileName:    input.FileName,
	}).Get(ctx, &out)
	if err != nil {
		if isNoChunksError(err) {
			return "failed", nil
		}
		return "", err
	}
	return "processed", nil
}

func ReprocessAllWorkflow(ctx workflow.Context, input ReprocessAllInput) (ReprocessProgress, error) {
	progress := ReprocessProgress{
		WorkspaceID:   input.WorkspaceID,
		PerDocument:   map[string]string{},
		ChildWorkflow: map[string]string{},
	}
	if err := workflow.SetQueryHandler(ctx, QueryGetReprocessProgress, func() (ReprocessProgress, error) {
		return progress, nil
	}); err != nil {
		return progress, err
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    20 * time.Second,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	var listOut activities.ListDocumentsOutput
	if err := workflow.ExecuteActivity(ctx, "ListDocumentsActivity", activities.ListDocumentsInput{
		WorkspaceID: input.WorkspaceID,
	}).Get(ctx, &listOut); err != nil {
		return progress, err
	}
	docs := listOut.Documents
	progress.Total = len(docs)
	maxChildren := input.MaxConcurrent
	if maxChildren <= 0 {
		maxChildren = 3
	}

	for i := 0; i < len(docs); i += maxChildren {
		end := i + maxChildren
		if end > len(docs) {
			end = len(docs)
		}
		futures := make([]workflow.ChildWorkflowFuture, 0, end-i)
		childDocs := make([]activities.DocumentSummary, 0, end-i)
		for _, d := range docs[i:end] {
			progress.PerDocument[d.DocumentID] = "processing"
			workflowID := "rederive-" + sanitizeID(input.WorkspaceID) + "-" + sanitizeID(d.DocumentID)
			cwo := workflow.ChildWorkflowOptions{WorkflowID: workflowID}
			childCtx := workflow.WithChildOptions(ctx, cwo)
			f := workflow.ExecuteChildWorkflow(childCtx, DocumentReprocessWorkflow, ReprocessDocumentInput{
				UserID:      d.UserID,
				WorkspaceID: input.WorkspaceID,
				DocumentID:  d.DocumentID,
				FileName:    d.FileName,
			})
			futures = append(futures, f)
			childDocs = append(childDocs, d)
			progress.ChildWorkflow[d.DocumentID] = workflowID
		}

		for idx, f := range futures {
			var childStatus string
			err := f.Get(ctx, &childStatus)
			docID := childDocs[idx].DocumentID
			if err != nil {
				progress.Failed++
				progress.PerDocument[docID] = "failed"
				continue
			}
			if childStatus == "failed" {
				progress.Failed++
				progress.PerDocument[docID] = "no chunks found"
				continue
			}
			progress.Done++
			progress.PerDocument[docID] = childStatus
		}
	}
	return progress, nil
}

func callEmbedWithFailover(ctx workflow.Context, state *providerState, providerCount int, cooldown time.Duration, input activities.EmbedChunksInput, retryCounts map[string]int) (activities.EmbedChunksOutput, error) {
	if retryCounts == nil {
		retryCounts = map[string]int{}
	}
	var lastErr error
	maxAttempts := providerCount * 4
	if maxAttempts <= 0 {
		maxAttempts = 4
	}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		idx := attempt % providerCount
		if isProviderDisabled(ctx, state, idx) {
			continue
		}
		input.ProviderIndex = idx
		var out activities.EmbedChunksOutput
		err := workflow.ExecuteActivity(ctx, "EmbedChunksActivity", input).Get(ctx, &out)
		if err == nil {
			_ = workflow.ExecuteActivity(ctx, "LogProviderCallActivity", activities.LogProviderCallInput{
				Operation:    input.Operation,
				WorkspaceID:  input.WorkspaceID,
				DocumentID:   input.DocumentID,
				ProviderName: out.ProviderName,
				Model:        out.Model,
				RequestID:    fmt.Sprintf("%s-%d", input.Operation, attempt),
				Status:       "ok",
			}).Get(ctx, nil)
			return out, nil
		}
		lastErr = err
		errType := providers.ClassifyError(err)
		_ = workflow.ExecuteActivity(ctx, "LogProviderCallActivity", activities.LogProviderCallInput{
			Operation:    input.Operation,
			WorkspaceID:  input.WorkspaceID,
			DocumentID:   input.DocumentID,
			ProviderName: fmt.Sprintf("provider-%d", idx),
			RequestID:    fmt.Sprintf("%s-%d", input.Operation, attempt),
			Status:       "failed",
			ErrorType:    string(errType),
		}).Get(ctx, nil)
		key := fmt.Sprintf("embed-%d", idx)
		retryCounts[key]++
		switch errType {
		case providers.ErrorQuota:
			disableProviderUntil(ctx, state, idx, cooldown)
		case providers.ErrorRate:
			if retryCounts[key] <= 2 {
				workflow.Sleep(ctx, time.Duration(retryCounts[key]*2)*time.Second)
				attempt--
			} else {
				disableProviderUntil(ctx, state, idx, 2*time.Minute)
			}
		case providers.ErrorTransient:
			if retryCounts[key] <= 2 {
				workflow.Sleep(ctx, time.Duration(retryCounts[key])*time.Second)
				attempt--
			}
		default:
			disableProviderUntil(ctx, state, idx, time.Minute)
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("all embed providers exhausted")
	}
	return activities.EmbedChunksOutput{}, lastErr
}

func isProviderDisabled(ctx workflow.Context, state *providerState, idx int) bool {
	until, ok := state.disabledUntil[idx]
	if !ok {
		return false
	}
	return workflow.Now(ctx).Before(until)
}

func disableProviderUntil(ctx workflow.Context, state *providerState, idx int, d time.Duration) {
	state.disabledUntil[idx] = workflow.Now(ctx).Add(d)
}

func isNoTextError(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "no extractable text")
}

func isNoChunksError(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "no chunks found")
}

func isInvalidTextEncodingError(err error) bool {
	e := strings.ToLower(err.Error())
	return strings.Contains(e, "invalid byte sequence") || strings.Contains(e, "sqlstate 22021")
}

func sanitizeID(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.ReplaceAll(s, ".", "-")
	s = strings.ReplaceAll(s, "/", "-")
	return s
}

func durationOrDefault(seconds int, fallback int) time.Duration {
	if seconds <= 0 {
		seconds = fallback
	}
	return time.Duration(seconds) * time.Second
}

func defaultCount(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}
