// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package capability

import (
	"context"
	"fmt"

	"github.com/pdiddy/paper-summarizer/pkg/types"
)

// NewEmbedder builds the Embedder selected by cfg.Backend.
func NewEmbedder(cfg types.EmbedderConfig) (Embedder, error) {
	switch cfg.Backend {
	case types.EmbedderHashing, "":
		return NewHashingEmbedder(cfg.Dimension), nil
	case types.EmbedderOpenAI:
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("embedder backend %q requires an endpoint", cfg.Backend)
		}
		return NewOpenAIEmbedder(cfg), nil
	default:
		return nil, fmt.Errorf("unknown embedder backend %q", cfg.Backend)
	}
}

// NewGenerator builds the Generator selected by cfg.Backend. Remote backends
// are wrapped with WithRetry. The returned close func releases any client and
// is never nil.
func NewGenerator(ctx context.Context, cfg types.GeneratorConfig) (Generator, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Backend {
	case types.GeneratorLead, "":
		return NewLeadGenerator(cfg.MaxInputWords), noop, nil
	case types.GeneratorClaude:
		if cfg.APIKey == "" {
			return nil, noop, fmt.Errorf("generator backend %q requires an API key", cfg.Backend)
		}
		return WithRetry(NewClaudeGenerator(cfg), cfg.MaxRetries), noop, nil
	case types.GeneratorVertex:
		gen, err := NewVertexGenerator(ctx, cfg)
		if err != nil {
			return nil, noop, err
		}
		return WithRetry(gen, cfg.MaxRetries), gen.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown generator backend %q", cfg.Backend)
	}
}

// NewTagger builds the EntityTagger selected by cfg.Backend. The none backend
// returns a nil tagger; the entity extractor then runs patterns only.
func NewTagger(cfg types.TaggerConfig) (EntityTagger, error) {
	switch cfg.Backend {
	case types.TaggerNone, "":
		return nil, nil
	case types.TaggerClaude:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("tagger backend %q requires an API key", cfg.Backend)
		}
		return NewClaudeTagger(cfg), nil
	default:
		return nil, fmt.Errorf("unknown tagger backend %q", cfg.Backend)
	}
}
