package ingest

import (
	"strings"
	"unicode/utf8"
)

const (
	// CharsPerToken is the fixed character-per-token estimate used for chunk
	// sizing. Token counts here are sizing approximations, not tokenizer output.
	CharsPerToken = 4

	DefaultChunkSizeTokens = 800
)

type Chunk struct {
	Content    string `json:"content"`
	TokenCount int    `json:"token_count"`
}

// EstimateTokens returns ceil(runeCount / CharsPerToken).
func EstimateTokens(s string) int {
	n := utf8.RuneCountInString(s)
	return (n + CharsPerToken - 1) / CharsPerToken
}

// ChunkText splits document text into bounded chunks of roughly
// targetTokens tokens each. Line endings are normalized (CRLF to LF) and the
// text is trimmed before slicing. Boundaries fall at fixed character offsets;
// there is no overlap and no sentence awareness. Whitespace-only slices are
// dropped. Empty input yields an empty list, never an error.
func ChunkText(text string, targetTokens int) []Chunk {
	if targetTokens <= 0 {
		targetTokens = DefaultChunkSizeTokens
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSpace(text)
	if text == "" {
		return []Chunk{}
	}

	runes := []rune(text)
	totalTokens := (len(runes) + CharsPerToken - 1) / CharsPerToken
	if totalTokens <= targetTokens {
		return []Chunk{{Content: text, TokenCount: totalTokens}}
	}

	window := targetTokens * CharsPerToken
	out := make([]Chunk, 0, len(runes)/window+1)
	for i := 0; i < len(runes); i += window {
		end := i + window
		if end > len(runes) {
			end = len(runes)
		}
		part := strings.TrimSpace(string(runes[i:end]))
		if part == "" {
			continue
		}
		out = append(out, Chunk{Content: part, TokenCount: EstimateTokens(part)})
	}
	return out
}
