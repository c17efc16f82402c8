// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-summarizer/internal/capability"
	"github.com/pdiddy/paper-summarizer/internal/textutil"
	"github.com/pdiddy/paper-summarizer/pkg/types"
)

// --- fakes ---

// fakeGenerator returns a fixed reply, or fails when the input contains
// failOn (every call when failOn is "*").
type fakeGenerator struct {
	reply    string
	failOn   string
	maxInput int

	mu     sync.Mutex
	inputs []string
}

func (g *fakeGenerator) Generate(_ context.Context, text string, _ capability.Length) (string, error) {
	g.mu.Lock()
	g.inputs = append(g.inputs, text)
	g.mu.Unlock()
	if g.failOn == "*" || (g.failOn != "" && strings.Contains(text, g.failOn)) {
		return "", fmt.Errorf("%w: fake outage", capability.ErrModelUnavailable)
	}
	if g.reply != "" {
		return g.reply, nil
	}
	return "Generated summary of the passage.", nil
}

func (g *fakeGenerator) MaxInputWords() int {
	if g.maxInput == 0 {
		return 3000
	}
	return g.maxInput
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, errors.New("embedder offline")
}

func newTestSummarizer(gen capability.Generator) *Summarizer {
	return New(types.DefaultConfig().Summary, capability.NewHashingEmbedder(0), gen, nil)
}

// longSection builds a section body of n distinct topical sentences.
func longSection(topic string, n int) string {
	var sb strings.Builder
	for i := range n {
		fmt.Fprintf(&sb, "The %s experiment number %d measures how deep residual networks behave during training. ", topic, i+1)
	}
	return strings.TrimSpace(sb.String())
}

// --- Summarize ---

func TestSummarize_ShortSectionsPassThrough(t *testing.T) {
	gen := &fakeGenerator{}
	sections := types.SectionMap{
		{Key: types.SectionIntroduction, Text: "Transformers [1] dominate language modeling."},
		{Key: types.SectionMethodology, Text: "First, we collect data. Then, we train a ResNet-50 model. Finally, we evaluate on a held-out test set."},
	}

	res, err := newTestSummarizer(gen).Summarize(context.Background(), sections)
	require.NoError(t, err)

	require.Len(t, res.Sections, 2)
	assert.Equal(t, "Transformers dominate language modeling.", res.Sections[0].AbstractSummary)
	assert.Equal(t, sections[1].Text, res.Sections[1].AbstractSummary)
	assert.Equal(t, []string{"First, we collect data.", "Then, we train a ResNet-50 model.", "Finally, we evaluate on a held-out test set."},
		res.Sections[1].ExtractiveSentences)
	assert.False(t, res.Sections[1].Fallback)

	// Only the overall pass reaches the generator.
	assert.Len(t, gen.inputs, 1)
	assert.Equal(t, "Generated summary of the passage.", res.Overall)
}

func TestSummarize_LongSection(t *testing.T) {
	gen := capability.NewLeadGenerator(0)
	sections := types.SectionMap{
		{Key: types.SectionResults, Text: longSection("baseline", 20)},
	}

	res, err := newTestSummarizer(gen).Summarize(context.Background(), sections)
	require.NoError(t, err)

	sum := res.Sections[0]
	assert.Len(t, sum.ExtractiveSentences, 8, "ceil(0.4 * 20)")
	assertInSourceOrder(t, textutil.Sentences(sections[0].Text), sum.ExtractiveSentences)
	assert.LessOrEqual(t, textutil.WordCount(sum.AbstractSummary), 150)
	assert.NotEmpty(t, sum.AbstractSummary)
	assert.NotEmpty(t, sum.Keywords)
	assert.LessOrEqual(t, len(sum.Keywords), 5)
}

func TestSummarize_SummaryBounded(t *testing.T) {
	gen := &fakeGenerator{reply: strings.Repeat("word ", 500)}
	sections := types.SectionMap{
		{Key: types.SectionIntroduction, Text: longSection("intro", 30)},
		{Key: types.SectionMethodology, Text: longSection("method", 30)},
	}

	res, err := newTestSummarizer(gen).Summarize(context.Background(), sections)
	require.NoError(t, err)
	for _, s := range res.Sections {
		assert.LessOrEqual(t, textutil.WordCount(s.AbstractSummary), 201, "section %s", s.SectionKey)
	}
	assert.LessOrEqual(t, res.Stats.SummaryWordCount, res.Stats.OriginalWordCount)
	assert.LessOrEqual(t, res.Stats.SummaryWordCount, 201)
}

func TestSummarize_GeneratorFallback(t *testing.T) {
	gen := &fakeGenerator{failOn: "method"}
	sections := types.SectionMap{
		{Key: types.SectionIntroduction, Text: longSection("intro", 10)},
		{Key: types.SectionMethodology, Text: longSection("method", 10)},
	}

	res, err := newTestSummarizer(gen).Summarize(context.Background(), sections)
	require.NoError(t, err)

	intro, meth := res.Sections[0], res.Sections[1]
	assert.False(t, intro.Fallback)
	assert.Equal(t, "Generated summary of the passage.", intro.AbstractSummary)

	assert.True(t, meth.Fallback)
	require.NotEmpty(t, meth.ExtractiveSentences)
	assert.Equal(t, strings.Join(meth.ExtractiveSentences, " "), meth.AbstractSummary)
}

func TestSummarize_ModelUnavailable(t *testing.T) {
	// Every sentence is under the minimum length, so no extractive text exists.
	short := strings.Repeat("Go now. Run fast. ", 20)

	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"no extractive fallback", short, true},
		{"extractive fallback exists", longSection("x", 10), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{failOn: "*"}
			res, err := newTestSummarizer(gen).Summarize(context.Background(),
				types.SectionMap{{Key: types.SectionOther, Text: tt.text}})
			if tt.wantErr {
				assert.ErrorIs(t, err, capability.ErrModelUnavailable)
				return
			}
			require.NoError(t, err)
			assert.True(t, res.Sections[0].Fallback)
			// The overall pass also failed, so the section summaries stand in.
			assert.Equal(t, res.Sections[0].AbstractSummary, res.Overall)
		})
	}
}

func TestSummarize_TruncatesInput(t *testing.T) {
	gen := &fakeGenerator{maxInput: 40}
	sections := types.SectionMap{{Key: types.SectionResults, Text: longSection("cap", 20)}}

	_, err := newTestSummarizer(gen).Summarize(context.Background(), sections)
	require.NoError(t, err)
	require.NotEmpty(t, gen.inputs)
	for _, in := range gen.inputs {
		assert.LessOrEqual(t, textutil.WordCount(in), 40)
	}
}

func TestSummarize_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestSummarizer(&fakeGenerator{}).Summarize(ctx,
		types.SectionMap{{Key: types.SectionOther, Text: longSection("x", 10)}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStats(t *testing.T) {
	sections := types.SectionMap{
		{Key: types.SectionAbstract, Text: "one two three"},
		{Key: types.SectionOther, Text: "four five"},
	}
	assert.Equal(t, types.CompressionStats{OriginalWordCount: 5, SummaryWordCount: 2}, Stats(sections, "one five"))
}

// --- extractive ---

func TestExtractive(t *testing.T) {
	topic := []string{
		"Residual networks ease the training of very deep convolutional layers.",
		"Deep residual layers learn functions relative to the layer inputs.",
		"Training very deep networks with residual layers improves accuracy.",
		"Quarterly revenue grew strongly in the retail segment last year.",
		"Residual connections let deep networks train with many layers.",
	}
	text := strings.Join(topic, " ")

	kept := newTestSummarizer(&fakeGenerator{}).extractive(context.Background(), text)
	assert.Len(t, kept, 2)
	assert.NotContains(t, kept, topic[3])
	assertInSourceOrder(t, topic, kept)
}

func TestExtractive_FiltersAndFallback(t *testing.T) {
	text := "Too short. " + longSection("y", 5) + " Long" + strings.Repeat(" long", 120) + " end."

	s := New(types.DefaultConfig().Summary, failingEmbedder{}, &fakeGenerator{}, nil)
	kept := s.extractive(context.Background(), text)
	// 5 eligible sentences, k = 2, embedder down: leading sentences.
	assert.Equal(t, textutil.Sentences(longSection("y", 5))[:2], kept)
}

// --- keywords ---

func TestKeywords(t *testing.T) {
	s := newTestSummarizer(&fakeGenerator{})
	text := longSection("transformer", 6) + " Attention heads align tokens across the sequence."

	kws := s.keywords(context.Background(), text, 5)
	assert.NotEmpty(t, kws)
	assert.LessOrEqual(t, len(kws), 5)
	seen := map[string]bool{}
	for _, k := range kws {
		assert.False(t, seen[k], "duplicate keyword %q", k)
		seen[k] = true
		for _, w := range strings.Fields(k) {
			assert.Contains(t, strings.ToLower(text), w)
			assert.False(t, s.stops.IsStop(w), "stopword %q in %q", w, k)
		}
	}
}

func TestKeywords_Diversity(t *testing.T) {
	cfg := types.DefaultConfig().Summary
	cfg.KeywordDiversity = -1 // every pair is too similar
	s := New(cfg, capability.NewHashingEmbedder(0), &fakeGenerator{}, nil)

	kws := s.keywords(context.Background(), longSection("graph", 4), 5)
	assert.Len(t, kws, 1)
}

func TestKeywords_EmbedderDown(t *testing.T) {
	s := New(types.DefaultConfig().Summary, failingEmbedder{}, &fakeGenerator{}, nil)
	kws := s.keywords(context.Background(), "Graph networks scale. Graph networks learn. Graph kernels fail.", 3)
	assert.Equal(t, []string{"graph", "graph networks", "networks"}, kws)
}

// --- helpers ---

func TestTruncateSentences(t *testing.T) {
	sents := []string{"one two three.", "four five.", "six seven eight nine."}
	tests := []struct {
		name string
		max  int
		want string
	}{
		{"fits", 20, "one two three. four five. six seven eight nine."},
		{"drops from end", 6, "one two three. four five."},
		{"cuts first sentence", 2, "one two"},
		{"no limit", 0, "one two three. four five. six seven eight nine."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncateSentences(sents, tt.max))
		})
	}
}

func TestCleanSummary(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"A full sentence.", "A full sentence."},
		{"A full sentence. And a", "A full sentence."},
		{"A full sentence. And a longer trailing fragment", "A full sentence. And a longer trailing fragment."},
		{"No punctuation at all", "No punctuation at all."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanSummary(tt.in))
	}
}

func TestTargetLength(t *testing.T) {
	s := newTestSummarizer(&fakeGenerator{})
	assert.Equal(t, capability.Length{Min: 50, Max: 200}, s.targetLength(types.SectionIntroduction))
	assert.Equal(t, capability.Length{Min: 50, Max: 200}, s.targetLength(types.SectionConclusion))
	assert.Equal(t, capability.Length{Min: 50, Max: 150}, s.targetLength(types.SectionMethodology))
}

// assertInSourceOrder checks that kept is a subsequence of source.
func assertInSourceOrder(t *testing.T, source, kept []string) {
	t.Helper()
	j := 0
	for _, s := range source {
		if j < len(kept) && s == kept[j] {
			j++
		}
	}
	assert.Equal(t, len(kept), j, "kept sentences out of source order: %v", kept)
}
