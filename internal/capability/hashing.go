// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package capability

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/pdiddy/paper-summarizer/internal/textutil"
)

// HashingEmbedder is an offline Embedder that projects word unigrams and
// bigrams into a fixed number of signed buckets (feature hashing). It is
// deterministic and needs no model, so it serves as the default backend and
// as the test double for ranking logic.
type HashingEmbedder struct {
	dim int
}

// NewHashingEmbedder returns a HashingEmbedder producing vectors of size dim
// (256 when dim <= 0).
func NewHashingEmbedder(dim int) *HashingEmbedder {
	if dim <= 0 {
		dim = 256
	}
	return &HashingEmbedder{dim: dim}
}

// Embed returns the L2-normalized hashed feature vector of text.
func (h *HashingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, h.dim)
	tokens := textutil.Tokens(text)
	for i, tok := range tokens {
		h.add(vec, tok, 1)
		if i > 0 {
			h.add(vec, tokens[i-1]+" "+tok, 0.5)
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return vec, nil
}

func (h *HashingEmbedder) add(vec []float32, feature string, weight float32) {
	f := fnv.New64a()
	f.Write([]byte(feature))
	sum := f.Sum64()
	idx := int(sum % uint64(h.dim))
	if sum&(1<<63) != 0 {
		weight = -weight
	}
	vec[idx] += weight
}
