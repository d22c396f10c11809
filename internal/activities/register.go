package activities

import "go.temporal.io/sdk/worker"

func Register(w worker.Worker, a *Activities) {
	w.RegisterActivity(a.ExtractTextActivity)
	w.RegisterActivity(a.ChunkDocumentActivity)
	w.RegisterActivity(a.EmbedChunksActivity)
	w.RegisterActivity(a.PersistChunksActivity)
	w.RegisterActivity(a.UpdateDocumentStatusActivity)
	w.RegisterActivity(a.WriteDocumentArtifactsActivity)
	w.RegisterActivity(a.EmbedQueryActivity)
	w.RegisterActivity(a.SearchChunksActivity)
	w.RegisterActivity(a.LLMGenerateActivity)
	w.RegisterActivity(a.LogProviderCallActivity)
	w.RegisterActivity(a.RederiveEntitiesActivity)
	w.RegisterActivity(a.ListDocumentsActivity)
}
