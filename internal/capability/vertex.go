// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package capability

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"github.com/pdiddy/paper-summarizer/pkg/types"
)

const vertexSystemPrompt = "You are a careful scientific editor. You write faithful abstractive summaries of academic papers in plain prose, without adding facts that are not in the source."

// VertexGenerator is a Generator backed by a Gemini model on Vertex AI.
// Credentials come from Application Default Credentials.
type VertexGenerator struct {
	client   *genai.Client
	model    string
	maxInput int
}

// NewVertexGenerator opens a Vertex AI client for cfg.ProjectID and cfg.Region.
// The caller must Close the generator.
func NewVertexGenerator(ctx context.Context, cfg types.GeneratorConfig) (*VertexGenerator, error) {
	if cfg.ProjectID == "" || cfg.Region == "" {
		return nil, fmt.Errorf("vertex generator: project_id and region cannot be empty")
	}
	client, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}
	model := cfg.Model
	if model == "" || strings.HasPrefix(model, "claude") {
		model = "gemini-1.5-pro"
	}
	return &VertexGenerator{client: client, model: model, maxInput: cfg.MaxInputWords}, nil
}

// Generate returns an abstractive summary of text within target words.
func (g *VertexGenerator) Generate(ctx context.Context, text string, target Length) (string, error) {
	prompt, err := render(summaryPromptTmpl, struct {
		Text     string
		Min, Max int
	}{text, target.Min, target.Max})
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}

	// GenerativeModel is configured per call; the handle is not safe to
	// mutate from concurrent tasks.
	m := g.client.GenerativeModel(g.model)
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(vertexSystemPrompt)},
	}
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:     genai.Ptr[float32](0.2),
		MaxOutputTokens: genai.Ptr(int32(target.Max*2 + 64)),
	}

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: vertex generate: %v", ErrModelUnavailable, err)
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		break
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", fmt.Errorf("%w: no text content in vertex response", ErrModelUnavailable)
	}
	return out, nil
}

// MaxInputWords returns the configured input limit.
func (g *VertexGenerator) MaxInputWords() int { return g.maxInput }

// Close releases the underlying client.
func (g *VertexGenerator) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
