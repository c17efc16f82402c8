// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sections splits a layout-tagged paper into canonical sections.
//
// Headers are found from font metadata first: blocks set larger than the
// median body font, or in bold, whose text names a known section. When fewer
// than two such headers exist the extractor scans text lines for headings
// instead, and when that also fails the whole text becomes the "other"
// section. A reference-list heading ends extraction.
package sections

import (
	"errors"
	"log/slog"
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/paper-summarizer/internal/textutil"
	"github.com/pdiddy/paper-summarizer/pkg/types"
)

// ErrEmptyDocument is returned when a document has no extractable text.
var ErrEmptyDocument = errors.New("document contains no extractable text")

const (
	// minLayoutHeaders is the fewest font-detected headers that make the
	// layout pass trustworthy.
	minLayoutHeaders = 2

	// maxHeadingWords bounds a line-detected heading.
	maxHeadingWords = 6

	// maxInlineHeadingChars bounds the "Abstract:" part of a run-in heading.
	maxInlineHeadingChars = 40
)

// Extractor turns a Document into a SectionMap. It holds no per-document
// state and is safe for concurrent use.
type Extractor struct {
	cfg    types.SectionConfig
	vocab  *Vocabulary
	logger *slog.Logger
}

// New returns an Extractor. A nil vocab uses DefaultVocabulary and a nil
// logger uses slog.Default.
func New(cfg types.SectionConfig, vocab *Vocabulary, logger *slog.Logger) *Extractor {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxHeaderChars <= 0 {
		cfg.MaxHeaderChars = 100
	}
	return &Extractor{cfg: cfg, vocab: vocab, logger: logger}
}

// Extract returns the sections of doc in document order. It fails only with
// ErrEmptyDocument; missing layout or undetectable headers degrade the
// result instead.
func (e *Extractor) Extract(doc types.Document) (types.SectionMap, error) {
	blocks := make([]types.Block, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		if strings.TrimSpace(b.Text) == "" {
			continue
		}
		blocks = append(blocks, b)
	}
	if len(blocks) == 0 {
		return nil, ErrEmptyDocument
	}

	if doc.HasLayout() {
		if m, ok := e.byLayout(blocks); ok && len(m) > 0 {
			e.logger.Debug("sections detected from layout", "sections", len(m))
			return m, nil
		}
		e.logger.Debug("layout headers insufficient, scanning text lines")
	}

	m, body := e.byLines(blocks)
	if len(m) > 0 {
		e.logger.Debug("sections detected from text lines", "sections", len(m))
		return m, nil
	}

	e.logger.Warn("no section headers detected, using single section")
	if body == "" {
		body = joinBlocks(blocks)
	}
	return types.SectionMap{{Key: types.SectionOther, Text: body}}, nil
}

// byLayout groups blocks under font-detected headers. It reports false when
// fewer than minLayoutHeaders headers were found.
func (e *Extractor) byLayout(blocks []types.Block) (types.SectionMap, bool) {
	threshold := math.Inf(1)
	if med, ok := medianFontSize(blocks); ok {
		threshold = med + e.cfg.HeaderFontMargin
	}

	headers := make(map[int]Match)
	explicitAbstract := false
	for i, b := range blocks {
		text := strings.TrimSpace(b.Text)
		if len(text) > e.cfg.MaxHeaderChars {
			continue
		}
		if b.FontSize < threshold && !b.IsBold {
			continue
		}
		m, ok := e.vocab.Match(text)
		if !ok {
			continue
		}
		headers[i] = m
		if !m.Stop && m.Key == types.SectionAbstract {
			explicitAbstract = true
		}
	}
	if len(headers) < minLayoutHeaders {
		return nil, false
	}

	var sb sectionBuilder
	var current types.SectionKey
	for i, b := range blocks {
		if m, ok := headers[i]; ok {
			if m.Stop {
				break
			}
			current = m.Key
			continue
		}
		if current == "" {
			// Preamble: long blocks are an unlabelled abstract, short ones
			// are title and author lines.
			if !explicitAbstract && len(strings.TrimSpace(b.Text)) >= e.cfg.MinPreambleChars {
				sb.add(types.SectionAbstract, b.Text)
			}
			continue
		}
		sb.add(current, b.Text)
	}
	return sb.build(), true
}

// line is one text line classified by lineHeading.
type line struct {
	text    string
	heading bool
	match   Match
}

// byLines groups text lines under line-detected headings. It also returns
// all non-heading text before any reference-list heading.
func (e *Extractor) byLines(blocks []types.Block) (types.SectionMap, string) {
	var lines []line
	first := -1
	explicitAbstract := false
	for _, b := range blocks {
		for _, raw := range strings.Split(b.Text, "\n") {
			t := strings.TrimSpace(raw)
			if t == "" {
				continue
			}
			m, rest, ok := e.lineHeading(t)
			if !ok {
				lines = append(lines, line{text: t})
				continue
			}
			if first < 0 {
				first = len(lines)
			}
			if !m.Stop && m.Key == types.SectionAbstract {
				explicitAbstract = true
			}
			lines = append(lines, line{heading: true, match: m})
			if rest != "" {
				lines = append(lines, line{text: rest})
			}
		}
	}

	var body []string
	var sb sectionBuilder
	var current types.SectionKey
	var preamble []string
	for i, l := range lines {
		if l.heading {
			if l.match.Stop {
				break
			}
			current = l.match.Key
			continue
		}
		body = append(body, l.text)
		if first < 0 {
			continue
		}
		if i < first {
			preamble = append(preamble, l.text)
			if i == first-1 {
				p := textutil.NormalizeSpace(strings.Join(preamble, " "))
				if !explicitAbstract && len(p) >= e.cfg.MinPreambleChars {
					sb.add(types.SectionAbstract, p)
				}
			}
			continue
		}
		sb.add(current, l.text)
	}
	return sb.build(), textutil.NormalizeSpace(strings.Join(body, " "))
}

// lineHeading reports whether t is a heading line. A run-in heading such as
// "Abstract: We propose..." returns the trailing text as rest.
func (e *Extractor) lineHeading(t string) (m Match, rest string, ok bool) {
	if i := strings.IndexAny(t, ":—"); i > 0 && i <= maxInlineHeadingChars {
		_, size := utf8.DecodeRuneInString(t[i:])
		if m, ok := e.headingLine(t[:i]); ok {
			return m, strings.TrimSpace(t[i+size:]), true
		}
	}
	if len(t) > e.cfg.MaxHeaderChars {
		return Match{}, "", false
	}
	m, ok = e.headingLine(t)
	return m, "", ok
}

// headingLine applies the text-only heading rules: the line starts with a
// capitalized vocabulary alias, is short, and any words after the alias are
// title-cased.
func (e *Extractor) headingLine(s string) (Match, bool) {
	s = strings.TrimSpace(numberingRe.ReplaceAllString(strings.TrimSpace(s), ""))
	if s == "" || strings.HasSuffix(s, ",") || strings.HasSuffix(s, ";") {
		return Match{}, false
	}
	r, _ := utf8.DecodeRuneInString(s)
	if !unicode.IsUpper(r) {
		return Match{}, false
	}
	words := strings.Fields(s)
	if len(words) > maxHeadingWords {
		return Match{}, false
	}
	m, ok := e.vocab.Match(s)
	if !ok || !m.Prefix {
		return Match{}, false
	}
	for _, w := range words[len(strings.Fields(m.Alias)):] {
		w = strings.TrimRight(w, ".:")
		if len(w) <= 3 {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(w); unicode.IsLower(r) {
			return Match{}, false
		}
	}
	return m, true
}

// medianFontSize returns the median of the positive block font sizes.
func medianFontSize(blocks []types.Block) (float64, bool) {
	var sizes []float64
	for _, b := range blocks {
		if b.FontSize > 0 {
			sizes = append(sizes, b.FontSize)
		}
	}
	if len(sizes) == 0 {
		return 0, false
	}
	sort.Float64s(sizes)
	n := len(sizes)
	if n%2 == 1 {
		return sizes[n/2], true
	}
	return (sizes[n/2-1] + sizes[n/2]) / 2, true
}

func joinBlocks(blocks []types.Block) string {
	parts := make([]string, len(blocks))
	for i, b := range blocks {
		parts[i] = b.Text
	}
	return textutil.NormalizeSpace(strings.Join(parts, " "))
}

// sectionBuilder accumulates text per key, keeping first-seen key order. A
// key seen again appends to its existing entry.
type sectionBuilder struct {
	order []types.SectionKey
	parts map[types.SectionKey][]string
}

func (sb *sectionBuilder) add(key types.SectionKey, text string) {
	if sb.parts == nil {
		sb.parts = make(map[types.SectionKey][]string)
	}
	if _, seen := sb.parts[key]; !seen {
		sb.order = append(sb.order, key)
	}
	sb.parts[key] = append(sb.parts[key], text)
}

func (sb *sectionBuilder) build() types.SectionMap {
	var m types.SectionMap
	for _, key := range sb.order {
		text := textutil.NormalizeSpace(strings.Join(sb.parts[key], " "))
		if text == "" {
			continue
		}
		m = append(m, types.Section{Key: key, Text: text})
	}
	return m
}
