package extract

import (
	"encoding/json"
	"strings"
)

// ParseExtractionJSON parses an extraction response, tolerating Markdown code
// fences and malformed payloads. Invalid entries are dropped, duplicates are
// collapsed, and relations referencing unknown entities are discarded.
func ParseExtractionJSON(raw string) ExtractionResult {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ExtractionResult{}
	}
	raw = stripCodeFence(raw)
	var payload ExtractionResult
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return ExtractionResult{}
	}

	out := ExtractionResult{}
	names := map[string]struct{}{}
	for _, e := range payload.Entities {
		n, ok := NormalizeEntity(e)
		if !ok {
			continue
		}
		if _, exists := names[n.Name]; exists {
			continue
		}
		names[n.Name] = struct{}{}
		out.Entities = append(out.Entities, n)
	}
	seenRel := map[string]struct{}{}
	for _, r := range payload.Relations {
		n, ok := NormalizeRelation(r)
		if !ok {
			continue
		}
		if _, srcOK := names[n.Source]; !srcOK {
			continue
		}
		if _, tgtOK := names[n.Target]; !tgtOK {
			continue
		}
		k := n.Source + "|" + string(n.RelationType) + "|" + n.Target
		if _, exists := seenRel[k]; exists {
			continue
		}
		seenRel[k] = struct{}{}
		out.Relations = append(out.Relations, n)
	}
	return out
}

// ParseFAQJSON parses a generated FAQ array, dropping items missing either
// field.
func ParseFAQJSON(raw string) []FAQItem {
	raw = stripCodeFence(strings.TrimSpace(raw))
	if raw == "" {
		return nil
	}
	var items []FAQItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	out := make([]FAQItem, 0, len(items))
	for _, it := range items {
		it.Question = strings.TrimSpace(it.Question)
		it.Answer = strings.TrimSpace(it.Answer)
		if it.Question == "" || it.Answer == "" {
			continue
		}
		out = append(out, it)
	}
	return out
}

func stripCodeFence(s string) string {
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
