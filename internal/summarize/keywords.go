// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/paper-summarizer/internal/capability"
	"github.com/pdiddy/paper-summarizer/internal/textutil"
)

// phraseBreakRe splits sentences at punctuation no keyword spans.
var phraseBreakRe = regexp.MustCompile(`[,;:()\[\]{}"“”]+`)

const maxNgram = 3

type scored struct {
	text  string
	vec   []float32
	score float64
}

// keywords returns up to n keyphrases of text. Candidates are the most
// frequent stopword-free 1-3 grams, scored by similarity to the text
// embedding. A candidate is skipped when it is more similar than
// KeywordDiversity to one already chosen.
func (s *Summarizer) keywords(ctx context.Context, text string, n int) []string {
	if n <= 0 || text == "" {
		return nil
	}
	cands := s.candidates(text)
	if len(cands) == 0 {
		return nil
	}

	docVec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		s.logger.Warn("keyword embedding failed, using frequency order", "stage", "keywords", "error", err)
		return cands[:min(n, len(cands))]
	}

	ranked := make([]scored, 0, len(cands))
	for _, c := range cands {
		v, err := s.embedder.Embed(ctx, c)
		if err != nil {
			continue
		}
		ranked = append(ranked, scored{text: c, vec: v, score: capability.Cosine(docVec, v)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	var chosen []scored
	for _, c := range ranked {
		if len(chosen) == n {
			break
		}
		redundant := false
		for _, k := range chosen {
			if capability.Cosine(c.vec, k.vec) > s.cfg.KeywordDiversity {
				redundant = true
				break
			}
		}
		if !redundant {
			chosen = append(chosen, c)
		}
	}

	out := make([]string, len(chosen))
	for i, c := range chosen {
		out[i] = c.text
	}
	return out
}

// candidates lists the distinct n-grams of text by descending frequency,
// ties in first-seen order, capped at MaxKeywordCandidates.
func (s *Summarizer) candidates(text string) []string {
	counts := make(map[string]int)
	var order []string
	for _, sent := range textutil.Sentences(text) {
		for _, phrase := range phraseBreakRe.Split(sent, -1) {
			toks := textutil.Tokens(phrase)
			for i := range toks {
				for size := 1; size <= maxNgram && i+size <= len(toks); size++ {
					last := toks[i+size-1]
					if len(last) < 2 || s.stops.IsStop(last) {
						break
					}
					if size == 1 && len(last) < 3 {
						continue
					}
					gram := strings.Join(toks[i:i+size], " ")
					if counts[gram] == 0 {
						order = append(order, gram)
					}
					counts[gram]++
				}
			}
		}
	}

	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if limit := s.cfg.MaxKeywordCandidates; limit > 0 && len(order) > limit {
		order = order[:limit]
	}
	return order
}
