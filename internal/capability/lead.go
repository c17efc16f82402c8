// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package capability

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/paper-summarizer/internal/textutil"
)

// LeadGenerator is an offline Generator that returns the leading sentences
// of its input up to the target length. It lets the pipeline run without a
// model and keeps tests deterministic.
type LeadGenerator struct {
	maxInput int
}

// NewLeadGenerator returns a LeadGenerator accepting up to maxInput words
// (3000 when maxInput <= 0).
func NewLeadGenerator(maxInput int) *LeadGenerator {
	if maxInput <= 0 {
		maxInput = 3000
	}
	return &LeadGenerator{maxInput: maxInput}
}

// Generate keeps whole sentences while the running word count stays within
// target.Max. The first sentence is always kept and clamped if needed.
func (g *LeadGenerator) Generate(_ context.Context, text string, target Length) (string, error) {
	sents := textutil.Sentences(text)
	if len(sents) == 0 {
		return "", fmt.Errorf("%w: empty input", ErrModelUnavailable)
	}

	var kept []string
	words := 0
	for _, s := range sents {
		n := textutil.WordCount(s)
		if len(kept) > 0 && target.Max > 0 && words+n > target.Max {
			break
		}
		kept = append(kept, s)
		words += n
	}
	out := strings.Join(kept, " ")
	if target.Max > 0 {
		out = textutil.ClampWords(out, target.Max)
	}
	return out, nil
}

// MaxInputWords returns the input limit.
func (g *LeadGenerator) MaxInputWords() int { return g.maxInput }
