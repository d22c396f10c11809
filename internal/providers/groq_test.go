package providers

import "testing"

func TestNewGroqProviderDefaults(t *testing.T) {
	t.Setenv("AIDORAG_GROQ_MODEL", "")
	p := NewGroqProvider("alias1")
	if p == nil {
		t.Fatalf("expected provider instance")
	}
	if p.model != "llama-3.1-8b-instant" {
		t.Fatalf("unexpected default model %q", p.model)
	}
}
