// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize reduces a paper's sections to bounded summaries.
//
// Each section goes through an extractive pre-filter (centroid-ranked
// sentences), then abstractive generation over the kept sentences. The
// section summaries are then summarized once more into the overall summary.
// Keywords are picked per section and for the whole paper with a
// diversity-aware ranking.
package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/paper-summarizer/internal/capability"
	"github.com/pdiddy/paper-summarizer/internal/textutil"
	"github.com/pdiddy/paper-summarizer/pkg/types"
)

// Result is the output of Summarize.
type Result struct {
	// Overall is the aggregated summary of all sections.
	Overall string

	// Sections holds one summary per input section, in input order.
	Sections []types.SectionSummary

	// Keywords are the paper-level keywords.
	Keywords []string

	// Stats relates Overall to the raw section texts.
	Stats types.CompressionStats
}

// Summarizer runs the hierarchical reduction. It is safe for concurrent use
// when its capabilities are.
type Summarizer struct {
	cfg       types.SummaryConfig
	embedder  capability.Embedder
	generator capability.Generator
	stops     *textutil.Stoplist
	logger    *slog.Logger
}

// New returns a Summarizer. A nil logger uses slog.Default.
func New(cfg types.SummaryConfig, emb capability.Embedder, gen capability.Generator, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{
		cfg:       cfg,
		embedder:  emb,
		generator: gen,
		stops:     textutil.DefaultStoplist(),
		logger:    logger,
	}
}

// sectionOutcome records whether a section needed the Generator and whether
// the call failed.
type sectionOutcome struct {
	attempted bool
	failed    bool
}

// Summarize summarizes every section and then the paper as a whole. A
// failed generation falls back to the section's extractive sentences; the
// call fails with capability.ErrModelUnavailable only when every generation
// failed and no fallback text exists.
func (s *Summarizer) Summarize(ctx context.Context, sections types.SectionMap) (Result, error) {
	summaries := make([]types.SectionSummary, len(sections))
	outcomes := make([]sectionOutcome, len(sections))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.cfg.Concurrency, 1))
	for i, sec := range sections {
		g.Go(func() error {
			summaries[i], outcomes[i] = s.summarizeSection(gctx, sec)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	attempted, failed := 0, 0
	var parts []string
	for i, o := range outcomes {
		if o.attempted {
			attempted++
		}
		if o.failed {
			failed++
		}
		if summaries[i].AbstractSummary != "" {
			parts = append(parts, summaries[i].AbstractSummary)
		}
	}
	if attempted > 0 && failed == attempted && len(parts) == 0 {
		return Result{}, fmt.Errorf("summarizing %d sections: %w", len(sections), capability.ErrModelUnavailable)
	}

	joined := strings.Join(parts, " ")
	overall := s.overall(ctx, joined, sections)

	return Result{
		Overall:  overall,
		Sections: summaries,
		Keywords: s.keywords(ctx, joined, s.cfg.OverallKeywords),
		Stats:    Stats(sections, overall),
	}, nil
}

// Stats derives the compression statistics. It is the only place the two
// word counts are computed.
func Stats(sections types.SectionMap, overall string) types.CompressionStats {
	orig := 0
	for _, sec := range sections {
		orig += textutil.WordCount(sec.Text)
	}
	return types.CompressionStats{
		OriginalWordCount: orig,
		SummaryWordCount:  textutil.WordCount(overall),
	}
}

// summarizeSection reduces one section. It never fails; generator errors
// turn into the extractive fallback.
func (s *Summarizer) summarizeSection(ctx context.Context, sec types.Section) (types.SectionSummary, sectionOutcome) {
	log := s.logger.With("stage", "summarize", "section", sec.Key)
	out := types.SectionSummary{SectionKey: sec.Key}

	cleaned := textutil.Clean(sec.Text)
	if cleaned == "" {
		return out, sectionOutcome{}
	}
	out.Keywords = s.keywords(ctx, cleaned, s.cfg.SectionKeywords)

	if textutil.WordCount(cleaned) < s.cfg.ShortSectionWords {
		out.ExtractiveSentences = textutil.Sentences(cleaned)
		out.AbstractSummary = cleaned
		log.Debug("short section used as its own summary")
		return out, sectionOutcome{}
	}

	out.ExtractiveSentences = s.extractive(ctx, cleaned)
	input := out.ExtractiveSentences
	if len(input) == 0 {
		input = textutil.Sentences(cleaned)
	}

	target := s.targetLength(sec.Key)
	gen, err := s.generate(ctx, input, target)
	if err != nil {
		log.Warn("abstractive generation failed, using extractive sentences", "error", err)
		out.AbstractSummary = textutil.ClampWords(strings.Join(out.ExtractiveSentences, " "), s.cfg.MaxSummaryWords)
		out.Fallback = true
		return out, sectionOutcome{attempted: true, failed: true}
	}
	out.AbstractSummary = gen
	log.Debug("section summarized",
		"sentences", len(out.ExtractiveSentences), "words", textutil.WordCount(gen))
	return out, sectionOutcome{attempted: true}
}

// overall runs the aggregation pass. On failure the concatenated section
// summaries stand in. The result never has more words than the source.
func (s *Summarizer) overall(ctx context.Context, joined string, sections types.SectionMap) string {
	if joined == "" {
		return ""
	}
	limit := s.cfg.MaxSummaryWords
	if orig := Stats(sections, "").OriginalWordCount; limit <= 0 || orig < limit {
		limit = orig
	}

	summary, err := s.generate(ctx, textutil.Sentences(joined), capability.Length{
		Min: min(s.cfg.MinSummaryWords, s.cfg.MaxSummaryWords),
		Max: s.cfg.MaxSummaryWords,
	})
	if err != nil {
		s.logger.Warn("overall summary generation failed, using section summaries", "stage", "summarize", "error", err)
		summary = joined
	}
	return textutil.ClampWords(summary, limit)
}

// generate truncates the input to the generator limit and returns the cleaned
// and clamped generation. Empty output counts as a failure.
func (s *Summarizer) generate(ctx context.Context, sentences []string, target capability.Length) (string, error) {
	input := truncateSentences(sentences, s.generator.MaxInputWords())
	out, err := s.generator.Generate(ctx, input, target)
	if err != nil {
		return "", err
	}
	out = cleanSummary(textutil.ClampWords(textutil.NormalizeSpace(out), s.cfg.MaxSummaryWords))
	if out == "" {
		return "", fmt.Errorf("%w: empty generation", capability.ErrModelUnavailable)
	}
	return out, nil
}

// targetLength returns the generation bounds for a section. Introduction and
// conclusion get the full budget.
func (s *Summarizer) targetLength(key types.SectionKey) capability.Length {
	maxWords := s.cfg.SectionSummaryWords
	if key == types.SectionIntroduction || key == types.SectionConclusion || maxWords <= 0 {
		maxWords = s.cfg.MaxSummaryWords
	}
	maxWords = min(maxWords, s.cfg.MaxSummaryWords)
	return capability.Length{Min: min(s.cfg.MinSummaryWords, maxWords), Max: maxWords}
}

// truncateSentences joins sentences while the word count stays within
// maxWords, dropping from the end. A first sentence longer than the limit
// is cut at the limit.
func truncateSentences(sentences []string, maxWords int) string {
	if maxWords <= 0 {
		return strings.Join(sentences, " ")
	}
	var kept []string
	words := 0
	for _, sent := range sentences {
		n := textutil.WordCount(sent)
		if words+n > maxWords {
			if len(kept) == 0 {
				return strings.Join(textutil.Words(sent)[:maxWords], " ")
			}
			break
		}
		kept = append(kept, sent)
		words += n
	}
	return strings.Join(kept, " ")
}

// minFragmentChars is the shortest trailing text kept after the last
// sentence terminator.
const minFragmentChars = 10

// cleanSummary drops a short trailing fragment and makes sure the summary
// ends with sentence punctuation.
func cleanSummary(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if i := strings.LastIndexAny(s, ".!?"); i >= 0 && i < len(s)-1 {
		if tail := strings.TrimSpace(s[i+1:]); len(tail) < minFragmentChars {
			s = s[:i+1]
		}
	}
	if !strings.HasSuffix(s, ".") && !strings.HasSuffix(s, "!") && !strings.HasSuffix(s, "?") {
		s += "."
	}
	return s
}
