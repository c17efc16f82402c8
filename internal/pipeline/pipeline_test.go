// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-summarizer/internal/capability"
	"github.com/pdiddy/paper-summarizer/internal/entities"
	"github.com/pdiddy/paper-summarizer/internal/procgraph"
	"github.com/pdiddy/paper-summarizer/internal/sections"
	"github.com/pdiddy/paper-summarizer/internal/summarize"
	"github.com/pdiddy/paper-summarizer/pkg/types"
)

// downGenerator always reports the model as unavailable.
type downGenerator struct {
	calls atomic.Int32
}

func (g *downGenerator) Generate(context.Context, string, capability.Length) (string, error) {
	g.calls.Add(1)
	return "", fmt.Errorf("%w: connection refused", capability.ErrModelUnavailable)
}

func (g *downGenerator) MaxInputWords() int { return 3000 }

func testPipeline(gen capability.Generator) *Pipeline {
	cfg := types.DefaultConfig()
	if gen == nil {
		gen = capability.NewLeadGenerator(cfg.Generator.MaxInputWords)
	}
	return New(
		sections.New(cfg.Sections, nil, nil),
		summarize.New(cfg.Summary, capability.NewHashingEmbedder(cfg.Embedder.Dimension), gen, nil),
		entities.New(cfg.Entities, nil, nil),
		procgraph.New(cfg.Graph, nil),
		nil,
	)
}

const methodologyText = "First, we collect data. Then, we train a ResNet-50 model. Finally, we evaluate on a held-out test set."

func scenarioDoc() types.Document {
	return types.Document{Blocks: []types.Block{
		{Text: "Introduction", FontSize: 14, IsBold: true},
		{Text: "Image classification with deep networks remains an active research area.", FontSize: 10},
		{Text: "Methodology", FontSize: 14, IsBold: true, PageIndex: 1},
		{Text: methodologyText, FontSize: 10, PageIndex: 1},
	}}
}

func longText(n int) string {
	var sb strings.Builder
	for i := range n {
		fmt.Fprintf(&sb, "Trial number %d shows that residual connections stabilize optimization of deep networks. ", i+1)
	}
	return strings.TrimSpace(sb.String())
}

func TestRun_MethodologyScenario(t *testing.T) {
	meta := types.PaperMeta{Title: "Deep Residual Learning", Authors: []string{"He", "Zhang"}}

	var progress []int
	got, err := testPipeline(nil).Run(context.Background(), scenarioDoc(), meta, func(p int, msg string) error {
		assert.NotEmpty(t, msg)
		progress = append(progress, p)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []int{ProgressSections, ProgressSummaries, ProgressEntities, ProgressGraph}, progress)
	assert.Equal(t, meta.Title, got.Title)
	assert.Equal(t, meta.Authors, got.Authors)
	assert.Equal(t, []types.SectionKey{types.SectionIntroduction, types.SectionMethodology}, got.SectionsFound)
	assert.Len(t, got.SectionSummaries, 2)
	assert.Contains(t, got.Entities.Models, "ResNet-50")

	require.NotEmpty(t, got.ProcessGraph)
	assert.True(t, strings.HasPrefix(got.ProcessGraph, "graph TD\n"))
	assert.Equal(t, 3, strings.Count(got.ProcessGraph, `["`))
	assert.Contains(t, got.ProcessGraph, "S3 --> End")

	assert.LessOrEqual(t, got.CompressionStats.SummaryWordCount, got.CompressionStats.OriginalWordCount)
}

func TestRun_NoHeaders(t *testing.T) {
	doc := types.Document{Blocks: []types.Block{
		{Text: longText(6)},
		{Text: longText(4)},
	}}

	got, err := testPipeline(nil).Run(context.Background(), doc, types.PaperMeta{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []types.SectionKey{types.SectionOther}, got.SectionsFound)
	assert.NotEmpty(t, got.OverallSummary)
	assert.Empty(t, got.ProcessGraph)
}

func TestRun_GeneratorDownFallsBack(t *testing.T) {
	gen := &downGenerator{}
	doc := types.Document{Blocks: []types.Block{
		{Text: "Results", IsBold: true},
		{Text: longText(20)},
		{Text: "Conclusion", IsBold: true},
		{Text: "Residual networks train reliably at depth."},
	}}

	got, err := testPipeline(gen).Run(context.Background(), doc, types.PaperMeta{}, nil)
	require.NoError(t, err)
	assert.Positive(t, gen.calls.Load())

	res, ok := got.Section(types.SectionResults)
	require.True(t, ok)
	require.NotEmpty(t, res.ExtractiveSentences)
	assert.True(t, res.Fallback)
	assert.Equal(t, strings.Join(res.ExtractiveSentences, " "), res.AbstractSummary)
}

func TestRun_CancelAfterExtraction(t *testing.T) {
	gen := &downGenerator{}
	doc := types.Document{Blocks: []types.Block{
		{Text: "Results", IsBold: true},
		{Text: longText(20)},
		{Text: "Conclusion", IsBold: true},
		{Text: longText(8)},
	}}

	got, err := testPipeline(gen).Run(context.Background(), doc, types.PaperMeta{}, func(p int, _ string) error {
		if p >= ProgressSections {
			return ErrCancelled
		}
		return nil
	})
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Nil(t, got)
	assert.Zero(t, gen.calls.Load(), "no stage runs after cancellation")
}

func TestRun_EmptyDocument(t *testing.T) {
	_, err := testPipeline(nil).Run(context.Background(), types.Document{Blocks: []types.Block{{Text: "  "}}}, types.PaperMeta{}, nil)
	assert.ErrorIs(t, err, sections.ErrEmptyDocument)
}

func TestFromConfig(t *testing.T) {
	p, closeFn, err := FromConfig(context.Background(), types.DefaultConfig(), nil)
	require.NoError(t, err)
	defer closeFn()

	got, err := p.Run(context.Background(), scenarioDoc(), types.PaperMeta{}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, got.ProcessGraph)

	cfg := types.DefaultConfig()
	cfg.Sections.VocabularyFile = "does-not-exist.yaml"
	_, _, err = FromConfig(context.Background(), cfg, nil)
	assert.Error(t, err)
}
