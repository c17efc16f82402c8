// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline composes the four summarization stages into one run:
// section extraction, hierarchical summarization, entity extraction and
// process-graph generation, in that order.
//
// Between stages Run reports progress through a Checkpoint. A Checkpoint
// that returns an error stops the run before the next stage starts, which is
// how the task orchestrator implements cooperative cancellation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pdiddy/paper-summarizer/internal/capability"
	"github.com/pdiddy/paper-summarizer/internal/entities"
	"github.com/pdiddy/paper-summarizer/internal/procgraph"
	"github.com/pdiddy/paper-summarizer/internal/sections"
	"github.com/pdiddy/paper-summarizer/internal/summarize"
	"github.com/pdiddy/paper-summarizer/pkg/types"
)

// ErrCancelled is returned by a Checkpoint to stop a run.
var ErrCancelled = errors.New("task cancelled")

// Progress checkpoints reported after each stage.
const (
	ProgressSections  = 10
	ProgressSummaries = 40
	ProgressEntities  = 70
	ProgressGraph     = 90
	ProgressDone      = 100
)

// Checkpoint receives progress after a stage completes. Returning a non-nil
// error aborts the run; the error is returned from Run unchanged.
type Checkpoint func(progress int, message string) error

// Pipeline runs the stages over one document. It holds no per-run state and
// is safe for concurrent use when its capabilities are.
type Pipeline struct {
	sections   *sections.Extractor
	summarizer *summarize.Summarizer
	entities   *entities.Extractor
	graph      *procgraph.Generator
	logger     *slog.Logger
}

// New assembles a Pipeline from its stages. A nil logger uses slog.Default.
func New(sec *sections.Extractor, sum *summarize.Summarizer, ent *entities.Extractor, graph *procgraph.Generator, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		sections:   sec,
		summarizer: sum,
		entities:   ent,
		graph:      graph,
		logger:     logger,
	}
}

// FromConfig builds every stage and capability from cfg. The returned close
// function releases capability clients and must be called when the pipeline
// is no longer used.
func FromConfig(ctx context.Context, cfg types.Config, logger *slog.Logger) (*Pipeline, func() error, error) {
	if logger == nil {
		logger = slog.Default()
	}

	secVocab := sections.DefaultVocabulary()
	if cfg.Sections.VocabularyFile != "" {
		v, err := sections.LoadVocabulary(cfg.Sections.VocabularyFile)
		if err != nil {
			return nil, nil, err
		}
		secVocab = v
	}
	stepVocab := procgraph.DefaultVocabulary()
	if cfg.Graph.VocabularyFile != "" {
		v, err := procgraph.LoadVocabulary(cfg.Graph.VocabularyFile)
		if err != nil {
			return nil, nil, err
		}
		stepVocab = v
	}

	emb, err := capability.NewEmbedder(cfg.Embedder)
	if err != nil {
		return nil, nil, fmt.Errorf("embedder: %w", err)
	}
	tagger, err := capability.NewTagger(cfg.Tagger)
	if err != nil {
		return nil, nil, fmt.Errorf("entity tagger: %w", err)
	}
	gen, closeGen, err := capability.NewGenerator(ctx, cfg.Generator)
	if err != nil {
		return nil, nil, fmt.Errorf("generator: %w", err)
	}

	p := New(
		sections.New(cfg.Sections, secVocab, logger),
		summarize.New(cfg.Summary, emb, gen, logger),
		entities.New(cfg.Entities, tagger, logger),
		procgraph.New(cfg.Graph, stepVocab),
		logger,
	)
	return p, closeGen, nil
}

// Run executes all stages and returns the merged summary. meta is passed
// through unaltered. A nil checkpoint is allowed.
func (p *Pipeline) Run(ctx context.Context, doc types.Document, meta types.PaperMeta, checkpoint Checkpoint) (*types.PaperSummary, error) {
	if checkpoint == nil {
		checkpoint = func(int, string) error { return nil }
	}

	secs, err := p.sections.Extract(doc)
	if err != nil {
		return nil, fmt.Errorf("extracting sections: %w", err)
	}
	p.logger.Info("sections extracted", "count", len(secs), "keys", secs.Keys())
	if err := checkpoint(ProgressSections, fmt.Sprintf("Extracted %d sections", len(secs))); err != nil {
		return nil, err
	}

	res, err := p.summarizer.Summarize(ctx, secs)
	if err != nil {
		return nil, fmt.Errorf("summarizing: %w", err)
	}
	if err := checkpoint(ProgressSummaries, "Summarized sections"); err != nil {
		return nil, err
	}

	ents := p.entities.Extract(ctx, secs)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkpoint(ProgressEntities, "Extracted entities"); err != nil {
		return nil, err
	}

	var graph string
	for _, s := range res.Sections {
		if s.SectionKey == types.SectionMethodology {
			graph = p.graph.Generate(s.AbstractSummary)
			break
		}
	}
	msg := "Generated process graph"
	if graph == "" {
		msg = "No process graph detected"
	}
	if err := checkpoint(ProgressGraph, msg); err != nil {
		return nil, err
	}

	return &types.PaperSummary{
		Title:            meta.Title,
		Authors:          meta.Authors,
		OverallSummary:   res.Overall,
		SectionSummaries: res.Sections,
		SectionsFound:    secs.Keys(),
		OverallKeywords:  res.Keywords,
		Entities:         ents,
		ProcessGraph:     graph,
		CompressionStats: res.Stats,
	}, nil
}
