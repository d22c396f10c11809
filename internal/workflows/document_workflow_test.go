package workflows

import (
	"context"
	"errors"
	"testing"

	"aidorag/internal/activities"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
)

func registerActivityName[T any](env *testsuite.TestWorkflowEnvironment, name string, fn T) {
	env.RegisterActivityWithOptions(fn, activity.RegisterOptions{Name: name})
}

func registerDocumentActivities(env *testsuite.TestWorkflowEnvironment) {
	registerActivityName(env, "UpdateDocumentStatusActivity", func(context.Context, activities.UpdateDocumentStatusInput) error { return nil })
	registerActivityName(env, "ExtractTextActivity", func(context.Context, activities.ExtractTextInput) (activities.ExtractTextOutput, error) {
		return activities.ExtractTextOutput{}, nil
	})
	registerActivityName(env, "ChunkDocumentActivity", func(context.Context, activities.ChunkDocumentInput) (activities.ChunkDocumentOutput, error) {
		return activities.ChunkDocumentOutput{}, nil
	})
	registerActivityName(env, "EmbedChunksActivity", func(context.Context, activities.EmbedChunksInput) (activities.EmbedChunksOutput, error) {
		return activities.EmbedChunksOutput{}, nil
	})
	registerActivityName(env, "PersistChunksActivity", func(context.Context, activities.PersistChunksInput) (activities.PersistChunksOutput, error) {
		return activities.PersistChunksOutput{}, nil
	})
	registerActivityName(env, "WriteDocumentArtifactsActivity", func(context.Context, activities.WriteDocumentArtifactsInput) error { return nil })
	registerActivityName(env, "RederiveEntitiesActivity", func(context.Context, activities.RederiveEntitiesInput) (activities.RederiveEntitiesOutput, error) {
		return activities.RederiveEntitiesOutput{}, nil
	})
	registerActivityName(env, "LogProviderCallActivity", func(context.Context, activities.LogProviderCallInput) error { return nil })
}

func TestDocumentProcessWorkflowSuccess(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(DocumentProcessWorkflow)
	registerDocumentActivities(env)

	env.OnActivity("UpdateDocumentStatusActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("ExtractTextActivity", mock.Anything, mock.Anything).Return(activities.ExtractTextOutput{Text: "document body text"}, nil)
	env.OnActivity("ChunkDocumentActivity", mock.Anything, mock.Anything).Return(activities.ChunkDocumentOutput{Chunks: []activities.ChunkItem{
		{ChunkID: "c1", DocumentID: "d1", WorkspaceID: "w1", ChunkOrderIndex: 0, Content: "document body text", TokenCount: 5},
	}}, nil)
	env.OnActivity("EmbedChunksActivity", mock.Anything, mock.Anything).Return(activities.EmbedChunksOutput{
		Vectors: [][]float32{{0.1, 0.2}}, Succeeded: 1, ProviderName: "mock",
	}, nil)
	env.OnActivity("PersistChunksActivity", mock.Anything, mock.Anything).Return(activities.PersistChunksOutput{
		ChunksTotal: 1, ChunksWithVectors: 1, Status: "processed",
	}, nil)
	env.OnActivity("WriteDocumentArtifactsActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("RederiveEntitiesActivity", mock.Anything, mock.Anything).Return(activities.RederiveEntitiesOutput{ChunksSeen: 1, EntitiesCreated: 2}, nil)
	env.OnActivity("LogProviderCallActivity", mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(DocumentProcessWorkflow, DocumentProcessInput{
		WorkspaceID: "w1", UserID: "u1", DocumentID: "d1", DocumentPath: "/tmp/doc.pdf",
		FileName: "doc.pdf", FileType: "pdf", EmbedProviders: 1, CooldownSeconds: 10,
	})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "processed", out)
}

func TestDocumentProcessWorkflowNoTextFailsGracefully(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(DocumentProcessWorkflow)
	registerDocumentActivities(env)

	env.OnActivity("UpdateDocumentStatusActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("ExtractTextActivity", mock.Anything, mock.Anything).Return(activities.ExtractTextOutput{}, errors.New("no extractable text found in document"))

	env.ExecuteWorkflow(DocumentProcessWorkflow, DocumentProcessInput{
		WorkspaceID: "w1", UserID: "u1", DocumentID: "d1", DocumentPath: "/tmp/doc.pdf",
		FileName: "doc.pdf", FileType: "pdf", EmbedProviders: 1, CooldownSeconds: 10,
	})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "failed", out)
}

func TestDocumentProcessWorkflowEmptyDocumentProcessed(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(DocumentProcessWorkflow)
	registerDocumentActivities(env)

	env.OnActivity("UpdateDocumentStatusActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("ExtractTextActivity", mock.Anything, mock.Anything).Return(activities.ExtractTextOutput{Text: "x"}, nil)
	env.OnActivity("ChunkDocumentActivity", mock.Anything, mock.Anything).Return(activities.ChunkDocumentOutput{}, nil)
	env.OnActivity("PersistChunksActivity", mock.Anything, mock.Anything).Return(activities.PersistChunksOutput{Status: "processed"}, nil)
	env.OnActivity("WriteDocumentArtifactsActivity", mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(DocumentProcessWorkflow, DocumentProcessInput{
		WorkspaceID: "w1", UserID: "u1", DocumentID: "d1", DocumentPath: "/tmp/doc.txt",
		FileName: "doc.txt", FileType: "txt", EmbedProviders: 1, CooldownSeconds: 10,
	})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "processed", out)
}

func TestDocumentProcessWorkflowStrictPolicyFailure(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(DocumentProcessWorkflow)
	registerDocumentActivities(env)

	env.OnActivity("UpdateDocumentStatusActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("ExtractTextActivity", mock.Anything, mock.Anything).Return(activities.ExtractTextOutput{Text: "body"}, nil)
	env.OnActivity("ChunkDocumentActivity", mock.Anything, mock.Anything).Return(activities.ChunkDocumentOutput{Chunks: []activities.ChunkItem{
		{ChunkID: "c1", DocumentID: "d1", Content: "body", TokenCount: 1},
	}}, nil)
	env.OnActivity("EmbedChunksActivity", mock.Anything, mock.Anything).Return(activities.EmbedChunksOutput{
		Vectors: [][]float32{{}}, Succeeded: 0, Failed: 1, ProviderName: "mock",
	}, nil)
	env.OnActivity("PersistChunksActivity", mock.Anything, mock.Anything).Return(activities.PersistChunksOutput{
		ChunksTotal: 1, ChunksWithVectors: 0, Status: "failed",
	}, nil)
	env.OnActivity("WriteDocumentArtifactsActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("RederiveEntitiesActivity", mock.Anything, mock.Anything).Return(activities.RederiveEntitiesOutput{}, nil)
	env.OnActivity("LogProviderCallActivity", mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(DocumentProcessWorkflow, DocumentProcessInput{
		WorkspaceID: "w1", UserID: "u1", DocumentID: "d1", DocumentPath: "/tmp/doc.txt",
		FileName: "doc.txt", FileType: "txt", EmbedProviders: 1, CooldownSeconds: 10,
	})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "failed", out)
}

func TestDocumentReprocessWorkflowNoChunks(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(DocumentReprocessWorkflow)
	registerActivityName(env, "RederiveEntitiesActivity", func(context.Context, activities.RederiveEntitiesInput) (activities.RederiveEntitiesOutput, error) {
		return activities.RederiveEntitiesOutput{}, nil
	})
	env.OnActivity("RederiveEntitiesActivity", mock.Anything, mock.Anything).Return(activities.RederiveEntitiesOutput{}, errors.New("no chunks found"))

	env.ExecuteWorkflow(DocumentReprocessWorkflow, ReprocessDocumentInput{
		UserID: "u1", WorkspaceID: "w1", DocumentID: "d1", FileName: "doc.pdf",
	})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "failed", out)
}
