// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package capability

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"

	"github.com/pdiddy/paper-summarizer/internal/httputil"
	"github.com/pdiddy/paper-summarizer/pkg/types"
)

// summaryPromptTmpl asks for an abstractive summary of one passage.
var summaryPromptTmpl = template.Must(template.New("summary").Parse(`You are summarizing part of an academic paper for a researcher.

Write a faithful abstractive summary of the passage below in {{.Min}} to {{.Max}} words.
Use plain prose in complete sentences. Do not add facts that are not in the passage,
do not use bullet points, headings or citations, and do not mention "the passage".

Passage:
{{.Text}}
`))

// taggerPromptTmpl asks for typed entity spans as JSON.
var taggerPromptTmpl = template.Must(template.New("tagger").Parse(`You are a scientific named-entity tagger. Find every dataset, model, metric and software framework named in the text below.

For each mention return:
- text: the exact surface form from the text
- kind: one of "dataset", "model", "metric", "framework"
- confidence: a float between 0.0 and 1.0

Respond with a JSON object containing a "spans" array and nothing else.

Example response:
{"spans": [{"text": "ImageNet", "kind": "dataset", "confidence": 0.95}, {"text": "top-1 accuracy", "kind": "metric", "confidence": 0.8}]}

Text:
{{.Text}}
`))

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

// claudeClient holds the transport shared by the Claude-backed adapters.
type claudeClient struct {
	APIKey     string
	Model      string
	UserAgent  string
	MaxRetries int
	Client     *http.Client
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// complete sends one user prompt and returns the first text block.
func (c *claudeClient) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	bodyBytes, err := json.Marshal(claudeRequest{
		Model:     c.Model,
		MaxTokens: maxTokens,
		Messages:  []claudeMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, c.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("%w: calling Claude API: %v", ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: Claude API returned %d: %s", ErrModelUnavailable, resp.StatusCode, truncate(string(body), 200))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding Claude response: %w", err)
	}
	for _, block := range cResp.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("%w: no text content in Claude API response", ErrModelUnavailable)
}

// ClaudeGenerator is a Generator backed by the Claude Messages API.
type ClaudeGenerator struct {
	claudeClient
	maxInput int
}

// NewClaudeGenerator builds a Claude-backed Generator from config.
func NewClaudeGenerator(cfg types.GeneratorConfig) *ClaudeGenerator {
	return &ClaudeGenerator{
		claudeClient: claudeClient{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			UserAgent:  cfg.UserAgent,
			MaxRetries: cfg.MaxRetries,
			Client:     &http.Client{Timeout: cfg.Timeout},
		},
		maxInput: cfg.MaxInputWords,
	}
}

// Generate returns an abstractive summary of text within target words.
func (g *ClaudeGenerator) Generate(ctx context.Context, text string, target Length) (string, error) {
	prompt, err := render(summaryPromptTmpl, struct {
		Text     string
		Min, Max int
	}{text, target.Min, target.Max})
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	// Roughly 1.5 tokens per English word, with headroom.
	out, err := g.complete(ctx, prompt, target.Max*2+64)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// MaxInputWords returns the configured input limit.
func (g *ClaudeGenerator) MaxInputWords() int { return g.maxInput }

// ClaudeTagger is an EntityTagger backed by the Claude Messages API.
type ClaudeTagger struct {
	claudeClient
}

// NewClaudeTagger builds a Claude-backed EntityTagger from config.
func NewClaudeTagger(cfg types.TaggerConfig) *ClaudeTagger {
	return &ClaudeTagger{claudeClient: claudeClient{
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
		Client:     &http.Client{Timeout: cfg.Timeout},
	}}
}

// Tag returns the entity spans the model proposes for text. Spans with a
// confidence outside [0,1] are clamped.
func (t *ClaudeTagger) Tag(ctx context.Context, text string) ([]Span, error) {
	prompt, err := render(taggerPromptTmpl, struct{ Text string }{text})
	if err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}
	out, err := t.complete(ctx, prompt, 2048)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Spans []Span `json:"spans"`
	}
	if err := json.Unmarshal([]byte(stripFences(out)), &parsed); err != nil {
		return nil, fmt.Errorf("parsing tagger response JSON: %w", err)
	}
	for i := range parsed.Spans {
		parsed.Spans[i].Confidence = min(max(parsed.Spans[i].Confidence, 0), 1)
	}
	return parsed.Spans, nil
}

// stripFences removes a surrounding ```json fence if the model added one.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// render executes a prompt template.
func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
