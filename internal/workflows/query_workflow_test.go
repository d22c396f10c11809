package workflows

import (
	"context"
	"errors"
	"testing"

	"aidorag/internal/activities"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"
)

func registerQueryActivities(env *testsuite.TestWorkflowEnvironment) {
	registerActivityName(env, "EmbedQueryActivity", func(context.Context, activities.EmbedQueryInput) (activities.EmbedQueryOutput, error) {
		return activities.EmbedQueryOutput{}, nil
	})
	registerActivityName(env, "SearchChunksActivity", func(context.Context, activities.SearchChunksInput) (activities.SearchChunksOutput, error) {
		return activities.SearchChunksOutput{}, nil
	})
	registerActivityName(env, "LLMGenerateActivity", func(context.Context, activities.LLMGenerateInput) (activities.LLMGenerateOutput, error) {
		return activities.LLMGenerateOutput{}, nil
	})
	registerActivityName(env, "LogProviderCallActivity", func(context.Context, activities.LogProviderCallInput) error { return nil })
}

func TestAnswerQueryWorkflowSuccess(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(AnswerQueryWorkflow)
	registerQueryActivities(env)

	env.OnActivity("EmbedQueryActivity", mock.Anything, mock.Anything).Return(activities.EmbedQueryOutput{
		Vector: []float32{0.1, 0.2}, ProviderName: "mock", Model: "mock-embed-v1",
	}, nil)
	env.OnActivity("SearchChunksActivity", mock.Anything, mock.Anything).Return(activities.SearchChunksOutput{
		Results: []activities.SearchChunk{
			{DocumentID: "d1", FileName: "doc.pdf", ChunkID: "c1", Text: "the merger closed in 2024", Score: 0.91},
		},
	}, nil)
	env.OnActivity("LLMGenerateActivity", mock.Anything, mock.Anything).Return(activities.LLMGenerateOutput{
		Text: "The merger closed in 2024 [C1].", ProviderName: "mock", Model: "mock-llm-v1",
	}, nil)
	env.OnActivity("LogProviderCallActivity", mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(AnswerQueryWorkflow, AnswerQueryInput{
		WorkspaceID: "w1", UserID: "u1", Question: "when did the merger close?", TopK: 8,
		EmbedOrder: []int{0}, LLMOrder: []int{0}, CooldownSeconds: 10,
	})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out AnswerQueryOutput
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "The merger closed in 2024 [C1].", out.Answer)
	require.Len(t, out.Results, 1)
	require.Equal(t, "c1", out.Results[0].ChunkID)
	require.Equal(t, "mock", out.EmbedProvider)
	require.Equal(t, "mock-llm-v1", out.LLMModel)
}

func TestAnswerQueryWorkflowEmbedRetriesTransientFailure(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(AnswerQueryWorkflow)
	registerQueryActivities(env)

	env.OnActivity("EmbedQueryActivity", mock.Anything, mock.Anything).
		Return(activities.EmbedQueryOutput{}, errors.New("timeout contacting embed provider")).Once()
	env.OnActivity("EmbedQueryActivity", mock.Anything, mock.Anything).
		Return(activities.EmbedQueryOutput{Vector: []float32{0.5}, ProviderName: "mock"}, nil).Once()
	env.OnActivity("SearchChunksActivity", mock.Anything, mock.Anything).Return(activities.SearchChunksOutput{}, nil)
	env.OnActivity("LLMGenerateActivity", mock.Anything, mock.Anything).Return(activities.LLMGenerateOutput{
		Text: "No relevant passages were found.", ProviderName: "mock",
	}, nil)
	env.OnActivity("LogProviderCallActivity", mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(AnswerQueryWorkflow, AnswerQueryInput{
		WorkspaceID: "w1", UserID: "u1", Question: "anything?", TopK: 4,
		EmbedOrder: []int{0}, LLMOrder: []int{0}, CooldownSeconds: 10,
	})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out AnswerQueryOutput
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "mock", out.EmbedProvider)
}

func TestFAQGenerateWorkflowParsesItems(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(FAQGenerateWorkflow)
	registerQueryActivities(env)

	env.OnActivity("LLMGenerateActivity", mock.Anything, mock.Anything).Return(activities.LLMGenerateOutput{
		Text:         `[{"question":"What is the notice period?","answer":"Thirty days."}]`,
		ProviderName: "mock", Model: "mock-llm-v1",
	}, nil)
	env.OnActivity("LogProviderCallActivity", mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(FAQGenerateWorkflow, FAQGenerateInput{
		WorkspaceID: "w1", Excerpts: []string{"Either party may terminate with thirty days notice."},
		LLMOrder: []int{0}, CooldownSeconds: 10,
	})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out FAQGenerateOutput
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Len(t, out.Items, 1)
	require.Equal(t, "What is the notice period?", out.Items[0].Question)
	require.Equal(t, "mock", out.LLMProvider)
}
