// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package capability

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pdiddy/paper-summarizer/internal/httputil"
	"github.com/pdiddy/paper-summarizer/pkg/types"
)

// OpenAIEmbedder calls an OpenAI-compatible /v1/embeddings endpoint
// (OpenAI, vLLM, Ollama, text-embeddings-inference).
type OpenAIEmbedder struct {
	Endpoint   string
	Model      string
	APIKey     string
	UserAgent  string
	MaxRetries int
	Client     *http.Client
	Logger     *slog.Logger
}

// NewOpenAIEmbedder builds an embedder from config.
func NewOpenAIEmbedder(cfg types.EmbedderConfig) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		Endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		Model:     cfg.Model,
		APIKey:    cfg.APIKey,
		UserAgent: cfg.UserAgent,
		Client:    &http.Client{Timeout: cfg.Timeout},
		Logger:    slog.Default(),
	}
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// Embed returns the embedding of text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Model: e.Model, Input: []string{text}})
	if err != nil {
		return nil, fmt.Errorf("marshaling embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.Endpoint+"/v1/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.APIKey)
	}
	if e.UserAgent != "" {
		req.Header.Set("User-Agent", e.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, e.Client, req, e.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding request: %v", ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading embedding response: %v", ErrModelUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		e.Logger.Warn("embedding server error", "status", resp.StatusCode, "body", truncate(string(data), 200))
		return nil, fmt.Errorf("%w: embedding server returned %d", ErrModelUnavailable, resp.StatusCode)
	}

	var parsed embedResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parsing embedding response: %w", err)
	}
	if len(parsed.Data) == 0 || len(parsed.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding", ErrModelUnavailable)
	}
	return parsed.Data[0].Embedding, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
