package vector

import (
	"fmt"
	"strconv"
	"strings"
)

// ToLiteral encodes an embedding as the canonical pgvector text form:
// an opening bracket, comma-separated decimal values with no spaces, and a
// closing bracket, e.g. "[0.1,-0.2,0.3]".
func ToLiteral(v []float32) string {
	parts := make([]string, 0, len(v))
	for _, x := range v {
		parts = append(parts, strconv.FormatFloat(float64(x), 'g', -1, 32))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// ParseLiteral is the inverse of ToLiteral.
func ParseLiteral(s string) ([]float32, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("vector literal missing brackets: %q", s)
	}
	body := strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	if strings.TrimSpace(body) == "" {
		return []float32{}, nil
	}
	parts := strings.Split(body, ",")
	out := make([]float32, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("parse vector component %q: %w", p, err)
		}
		out = append(out, float32(f))
	}
	return out, nil
}
