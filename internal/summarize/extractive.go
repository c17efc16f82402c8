// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"math"
	"sort"
	"unicode/utf8"

	"github.com/pdiddy/paper-summarizer/internal/capability"
	"github.com/pdiddy/paper-summarizer/internal/textutil"
)

// extractive returns the top ceil(ratio*n) eligible sentences of text by
// cosine similarity to the sentence centroid, in original order. Sentences
// outside the configured character bounds are never kept. If the Embedder
// fails the leading sentences are kept instead.
func (s *Summarizer) extractive(ctx context.Context, text string) []string {
	var eligible []string
	for _, sent := range textutil.Sentences(text) {
		n := utf8.RuneCountInString(sent)
		if n < s.cfg.MinSentenceChars || n > s.cfg.MaxSentenceChars {
			continue
		}
		eligible = append(eligible, sent)
	}
	if len(eligible) == 0 {
		return nil
	}
	k := int(math.Ceil(s.cfg.ExtractiveRatio * float64(len(eligible))))
	k = min(max(k, 1), len(eligible))

	vecs := make([][]float32, len(eligible))
	for i, sent := range eligible {
		v, err := s.embedder.Embed(ctx, sent)
		if err != nil {
			s.logger.Warn("sentence embedding failed, keeping leading sentences", "stage", "summarize", "error", err)
			return eligible[:k]
		}
		vecs[i] = v
	}

	centroid := capability.Centroid(vecs)
	scores := make([]float64, len(vecs))
	for i, v := range vecs {
		scores[i] = capability.Cosine(v, centroid)
	}

	idx := make([]int, len(eligible))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })
	idx = idx[:k]
	sort.Ints(idx)

	kept := make([]string, k)
	for i, j := range idx {
		kept[i] = eligible[j]
	}
	return kept
}
