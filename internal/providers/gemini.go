package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// GeminiProvider talks to the Google Generative Language REST API for both
// embeddings (text-embedding-004, 768 dims) and generation.
type GeminiProvider struct {
	keyName    string
	apiKey     string
	embedModel string
	genModel   string
	baseURL    string
	client     *http.Client
}

func NewGeminiProvider(keyName string) *GeminiProvider {
	embedModel := os.Getenv("AIDORAG_GEMINI_EMBED_MODEL")
	if strings.TrimSpace(embedModel) == "" {
		embedModel = "text-embedding-004"
	}
	genModel := os.Getenv("AIDORAG_GEMINI_MODEL")
	if strings.TrimSpace(genModel) == "" {
		genModel = "gemini-1.5-flash"
	}
	return &GeminiProvider{
		keyName:    keyName,
		apiKey:     resolveGeminiKey(keyName),
		embedModel: embedModel,
		genModel:   genModel,
		baseURL:    "https://generativelanguage.googleapis.com/v1beta",
		client:     &http.Client{Timeout: 60 * time.Second},
	}
}

func (g *GeminiProvider) Embed(ctx context.Context, req EmbedRequest) ([][]float32, ProviderInfo, error) {
	info := ProviderInfo{Name: "gemini", Model: g.embedModel, Key: g.keyName}
	if g.apiKey == "" {
		return nil, info, fmt.Errorf("gemini key missing for alias %q", g.keyName)
	}
	out := make([][]float32, 0, len(req.Inputs))
	for _, text := range req.Inputs {
		body := map[string]any{
			"model":   "models/" + g.embedModel,
			"content": map[string]any{"parts": []map[string]string{{"text": text}}},
		}
		if req.Dimension > 0 {
			body["outputDimensionality"] = req.Dimension
		}
		payload, _ := json.Marshal(body)
		url := fmt.Sprintf("%s/models/%s:embedContent?key=%s", g.baseURL, g.embedModel, g.apiKey)
		httpReq, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		httpReq.Header.Set("Content-Type", "application/json")
		resp, err := g.client.Do(httpReq)
		if err != nil {
			return nil, info, fmt.Errorf("gemini embedding request failed: %w", err)
		}
		respBody, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if resp.StatusCode >= 400 {
			return nil, info, fmt.Errorf("gemini embedding error %d: %s", resp.StatusCode, string(respBody))
		}
		var parsed struct {
			Embedding struct {
				Values []float32 `json:"values"`
			} `json:"embedding"`
		}
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			return nil, info, fmt.Errorf("decode gemini embedding response: %w", err)
		}
		if len(parsed.Embedding.Values) == 0 {
			return nil, info, fmt.Errorf("gemini returned empty embedding")
		}
		out = append(out, parsed.Embedding.Values)
	}
	return out, info, nil
}

func (g *GeminiProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	info := ProviderInfo{Name: "gemini", Model: g.genModel, Key: g.keyName}
	if g.apiKey == "" {
		return GenerateResponse{}, info, fmt.Errorf("gemini key missing for alias %q", g.keyName)
	}
	prompt := req.Prompt
	if len(req.Context) > 0 {
		prompt += "\n\nContext:\n" + strings.Join(req.Context, "\n\n")
	}
	payload, _ := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	})
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.genModel, g.apiKey)
	httpReq, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return GenerateResponse{}, info, fmt.Errorf("gemini generate request failed: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return GenerateResponse{}, info, fmt.Errorf("gemini generate error %d: %s", resp.StatusCode, string(body))
	}
	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return GenerateResponse{}, info, fmt.Errorf("decode gemini response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return GenerateResponse{}, info, fmt.Errorf("gemini returned empty candidates")
	}
	return GenerateResponse{Text: parsed.Candidates[0].Content.Parts[0].Text}, info, nil
}

func resolveGeminiKey(alias string) string {
	if alias != "" {
		if v := os.Getenv("AIDORAG_GEMINI_KEY_" + strings.ToUpper(alias)); v != "" {
			return v
		}
	}
	return os.Getenv("GEMINI_API_KEY")
}
