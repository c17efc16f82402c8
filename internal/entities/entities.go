// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package entities finds the datasets, models, metrics and frameworks a
// paper names. Deterministic patterns run first; an optional EntityTagger
// adds recall. Candidates are validated and deduplicated, with pattern
// matches taking precedence over tagger spans.
package entities

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/paper-summarizer/internal/capability"
	"github.com/pdiddy/paper-summarizer/internal/textutil"
	"github.com/pdiddy/paper-summarizer/pkg/types"
)

// Source records where a candidate came from.
type Source string

const (
	SourcePattern Source = "pattern"
	SourceModel   Source = "model"
)

// Candidate is an unvalidated entity guess.
type Candidate struct {
	Text       string
	Kind       Kind
	Source     Source
	Confidence float64
}

const (
	minEntityChars      = 2
	maxEntityChars      = 50
	maxPunctuationRatio = 0.3
)

// Extractor finds entities in a SectionMap. The tagger is optional.
type Extractor struct {
	cfg    types.EntityConfig
	tagger capability.EntityTagger
	stops  *textutil.Stoplist
	logger *slog.Logger
}

// New returns an Extractor. A nil tagger runs patterns only; a nil logger
// uses slog.Default.
func New(cfg types.EntityConfig, tagger capability.EntityTagger, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{cfg: cfg, tagger: tagger, stops: textutil.DefaultStoplist(), logger: logger}
}

// Extract returns the entities named in sections. It never fails: tagger
// errors are logged and the pattern results stand.
func (e *Extractor) Extract(ctx context.Context, sections types.SectionMap) types.EntitySet {
	var cands []Candidate
	for _, sec := range sections {
		cands = append(cands, Patterns(sec.Text)...)
	}
	cands = append(cands, e.tag(ctx, sections)...)
	return e.resolve(cands)
}

// Patterns runs the deterministic recognizers over text in table order. A
// match overlapping an earlier match is dropped, so named patterns shadow
// shape patterns and longer names shadow their parts.
func Patterns(text string) []Candidate {
	var out []Candidate
	var claimed [][2]int
	overlaps := func(lo, hi int) bool {
		for _, c := range claimed {
			if lo < c[1] && c[0] < hi {
				return true
			}
		}
		return false
	}

	for _, recs := range [][]recognizer{namedPatterns, shapePatterns} {
		for _, r := range recs {
			for _, m := range r.re.FindAllStringSubmatchIndex(text, -1) {
				lo, hi := m[2*r.group], m[2*r.group+1]
				if lo < 0 || overlaps(lo, hi) {
					continue
				}
				claimed = append(claimed, [2]int{lo, hi})
				out = append(out, Candidate{
					Text:       text[lo:hi],
					Kind:       r.kind,
					Source:     SourcePattern,
					Confidence: 1,
				})
			}
		}
	}
	return out
}

// tag runs the tagger over each section with bounded concurrency. Results
// keep section order.
func (e *Extractor) tag(ctx context.Context, sections types.SectionMap) []Candidate {
	if e.tagger == nil || len(sections) == 0 {
		return nil
	}

	perSection := make([][]Candidate, len(sections))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(e.cfg.Concurrency, 1))
	for i, sec := range sections {
		g.Go(func() error {
			spans, err := e.tagger.Tag(gctx, sec.Text)
			if err != nil {
				e.logger.Warn("entity tagger failed, keeping pattern matches",
					"stage", "entities", "section", sec.Key, "error", err)
				return nil
			}
			lower := strings.ToLower(sec.Text)
			for _, sp := range spans {
				kind, ok := kindAliases[strings.ToLower(strings.TrimSpace(sp.Kind))]
				if !ok || sp.Confidence < e.cfg.MinConfidence {
					continue
				}
				// Drop spans the section does not contain.
				if !strings.Contains(lower, strings.ToLower(strings.TrimSpace(sp.Text))) {
					continue
				}
				perSection[i] = append(perSection[i], Candidate{
					Text:       sp.Text,
					Kind:       kind,
					Source:     SourceModel,
					Confidence: sp.Confidence,
				})
			}
			return nil
		})
	}
	g.Wait()

	var out []Candidate
	for _, c := range perSection {
		out = append(out, c...)
	}
	return out
}

// resolve validates and deduplicates candidates. Pattern candidates win
// ties against tagger candidates regardless of order; otherwise the first
// occurrence wins.
func (e *Extractor) resolve(cands []Candidate) types.EntitySet {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Source == SourcePattern && cands[j].Source != SourcePattern
	})

	seen := make(map[string]bool)
	byKind := make(map[Kind][]string)
	for _, c := range cands {
		text := textutil.NormalizeSpace(c.Text)
		if !e.Valid(text) {
			continue
		}
		key := strings.ToLower(text)
		if seen[key] {
			continue
		}
		seen[key] = true
		byKind[c.Kind] = append(byKind[c.Kind], text)
	}

	return types.EntitySet{
		Datasets:   sorted(byKind[KindDataset]),
		Models:     sorted(byKind[KindModel]),
		Metrics:    sorted(byKind[KindMetric]),
		Frameworks: sorted(byKind[KindFramework]),
	}
}

// Valid reports whether text can be an entity: 2 to 50 characters, at least
// one letter, not a stopword, and at most 30% punctuation.
func (e *Extractor) Valid(text string) bool {
	n := utf8.RuneCountInString(text)
	if n < minEntityChars || n > maxEntityChars {
		return false
	}
	if !textutil.HasLetter(text) || e.stops.IsStop(text) {
		return false
	}
	punct := 0
	for _, r := range text {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			punct++
		}
	}
	return float64(punct)/float64(n) <= maxPunctuationRatio
}

func sorted(s []string) []string {
	if s == nil {
		return []string{}
	}
	sort.Slice(s, func(i, j int) bool {
		li, lj := strings.ToLower(s[i]), strings.ToLower(s[j])
		if li != lj {
			return li < lj
		}
		return s[i] < s[j]
	})
	return s
}
