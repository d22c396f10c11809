package providers

import "testing"

func TestResolveGeminiKeyFallback(t *testing.T) {
	_ = t
	// Key resolution is environment-dependent; this test ensures constructor does not panic.
	p := NewGeminiProvider("alias1")
	if p == nil {
		t.Fatalf("expected provider instance")
	}
}

func TestGeminiDefaultModels(t *testing.T) {
	t.Setenv("AIDORAG_GEMINI_EMBED_MODEL", "")
	t.Setenv("AIDORAG_GEMINI_MODEL", "")
	p := NewGeminiProvider("")
	if p.embedModel != "text-embedding-004" {
		t.Fatalf("unexpected embed model: %s", p.embedModel)
	}
	if p.genModel != "gemini-1.5-flash" {
		t.Fatalf("unexpected generation model: %s", p.genModel)
	}
}
