package util

import (
	"strings"
	"testing"
)

func TestDisplaySnippetTruncates(t *testing.T) {
	out := DisplaySnippet(strings.Repeat("word ", 200), 50)
	if len([]rune(out)) > 54 {
		t.Fatalf("snippet too long: %d runes", len([]rune(out)))
	}
	if !strings.HasSuffix(out, "...") {
		t.Fatalf("expected ellipsis, got %q", out)
	}
}

func TestDisplayEvidenceSnippetRelevance(t *testing.T) {
	chunk := "Acme ships widgets to three regions. Quarterly revenue grew by twelve percent. Unrelated footer text."
	out := DisplayEvidenceSnippet(chunk, "What was the revenue growth?", 200)
	if !strings.Contains(strings.ToLower(out), "revenue") {
		t.Fatalf("expected revenue sentence in snippet, got %q", out)
	}
}
