package workflows

import (
	"fmt"
	"strings"
	"time"

	"aidorag/internal/activities"
	"aidorag/internal/extract"
	"aidorag/internal/providers"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// AnswerQueryWorkflow runs one retrieval-augmented answer: embed the
// question, search the workspace's chunks, then generate an answer grounded
// in the retrieved passages. Provider failover applies to both the embedding
// and the generation call.
func AnswerQueryWorkflow(ctx workflow.Context, input AnswerQueryInput) (AnswerQueryOutput, error) {
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    2,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)
	cooldown := durationOrDefault(input.CooldownSeconds, 900)
	embedState := newProviderState()
	llmState := newProviderState()

	eq, err := callEmbedQueryWithFailover(ctx, &embedState, providerOrder(input.EmbedOrder), cooldown, activities.EmbedQueryInput{
		Operation: "query_embed",
		Text:      input.Question,
	}, nil)
	if err != nil {
		return AnswerQueryOutput{}, err
	}

	var retrieved activities.SearchChunksOutput
	if err := workflow.ExecuteActivity(ctx, "SearchChunksActivity", activities.SearchChunksInput{
		WorkspaceID: input.WorkspaceID,
		QueryVec:    eq.Vector,
		TopK:        input.TopK,
		DocumentIDs: input.DocumentIDs,
	}).Get(ctx, &retrieved); err != nil {
		return AnswerQueryOutput{}, err
	}

	passages := toPassageContext(retrieved.Results)
	genInput := activities.LLMGenerateInput{
		Operation:   "rag_answer",
		WorkspaceID: input.WorkspaceID,
		Prompt:      extract.BuildAnswerPrompt(input.Question, passages),
	}
	gen, errType, genErr := callLLMWithFailover(ctx, &llmState, providerOrder(input.LLMOrder), cooldown, genInput, nil)
	if genErr != nil && errType == string(providers.ErrorContext) {
		reduced := passages
		if len(reduced) > 3 {
			reduced = reduced[:3]
		}
		genInput.Prompt = extract.BuildAnswerPrompt(input.Question, reduced)
		gen, _, genErr = callLLMWithFailover(ctx, &llmState, providerOrder(input.LLMOrder), cooldown, genInput, nil)
	}
	if genErr != nil {
		return AnswerQueryOutput{}, genErr
	}

	return AnswerQueryOutput{
		Answer:        gen.Text,
		Results:       retrieved.Results,
		EmbedProvider: eq.ProviderName,
		LLMProvider:   gen.ProviderName,
		LLMModel:      gen.Model,
	}, nil
}

// FAQGenerateWorkflow drafts FAQ items from document excerpts collected by
// the caller. Parsing tolerates fenced or partially malformed model output.
func FAQGenerateWorkflow(ctx workflow.Context, input FAQGenerateInput) (FAQGenerateOutput, error) {
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    2,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)
	cooldown := durationOrDefault(input.CooldownSeconds, 900)
	llmState := newProviderState()

	gen, _, err := callLLMWithFailover(ctx, &llmState, providerOrder(input.LLMOrder), cooldown, activities.LLMGenerateInput{
		Operation:   "faq_generate",
		WorkspaceID: input.WorkspaceID,
		Prompt:      extract.BuildFAQPrompt(input.Excerpts),
	}, nil)
	if err != nil {
		return FAQGenerateOutput{}, err
	}
	return FAQGenerateOutput{
		Items:       extract.ParseFAQJSON(gen.Text),
		LLMProvider: gen.ProviderName,
		LLMModel:    gen.Model,
	}, nil
}

func callEmbedQueryWithFailover(ctx workflow.Context, state *providerState, order []int, cooldown time.Duration, input activities.EmbedQueryInput, retryCounts map[string]int) (activities.EmbedQueryOutput, error) {
	if retryCounts == nil {
		retryCounts = map[string]int{}
	}
	var lastErr error
	for attempt := 0; attempt < len(order)*4; attempt++ {
		idx := order[attempt%len(order)]
		if isProviderDisabled(ctx, state, idx) {
			continue
		}
		input.ProviderIndex = idx
		var out activities.EmbedQueryOutput
		err := workflow.ExecuteActivity(ctx, "EmbedQueryActivity", input).Get(ctx, &out)
		if err == nil {
			return out, nil
		}
		lastErr = err
		errType := providers.ClassifyError(err)
		key := fmt.Sprintf("eq-%d", idx)
		retryCounts[key]++
		switch errType {
		case providers.ErrorQuota:
			disableProviderUntil(ctx, state, idx, cooldown)
		case providers.ErrorRate, providers.ErrorTransient:
			if retryCounts[key] <= 2 {
				workflow.Sleep(ctx, time.Duration(retryCounts[key])*time.Second)
				attempt--
			} else {
				disableProviderUntil(ctx, state, idx, 2*time.Minute)
			}
		default:
			disableProviderUntil(ctx, state, idx, time.Minute)
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("all embed query providers exhausted")
	}
	return activities.EmbedQueryOutput{}, lastErr
}

func callLLMWithFailover(ctx workflow.Context, state *providerState, order []int, cooldown time.Duration, input activities.LLMGenerateInput, retryCounts map[string]int) (activities.LLMGenerateOutput, string, error) {
	if retryCounts == nil {
		retryCounts = map[string]int{}
	}
	var lastErr error
	for attempt := 0; attempt < len(order)*4; attempt++ {
		idx := order[attempt%len(order)]
		if isProviderDisabled(ctx, state, idx) {
			continue
		}
		input.ProviderIndex = idx
		var out activities.LLMGenerateOutput
		err := workflow.ExecuteActivity(ctx, "LLMGenerateActivity", input).Get(ctx, &out)
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
			return out, "", nil
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
		key := fmt.Sprintf("llm-%s-%d", input.Operation, idx)
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
		case providers.ErrorContext:
			return activities.LLMGenerateOutput{}, string(providers.ErrorContext), err
		default:
			disableProviderUntil(ctx, state, idx, time.Minute)
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("all llm providers exhausted")
	}
	return activities.LLMGenerateOutput{}, string(providers.ClassifyError(lastErr)), lastErr
}

// providerOrder falls back to the first configured provider when the caller
// supplied no preference.
func providerOrder(order []int) []int {
	if len(order) == 0 {
		return []int{0}
	}
	return order
}

func toPassageContext(results []activities.SearchChunk) []string {
	out := make([]string, 0, len(results))
	for i, r := range results {
		text := strings.TrimSpace(r.Text)
		if text == "" {
			text = strings.TrimSpace(r.Snippet)
		}
		out = append(out, fmt.Sprintf("C%d | %s: %s", i+1, r.FileName, text))
	}
	return out
}
