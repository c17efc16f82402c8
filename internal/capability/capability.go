// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package capability defines the model-backed ports the pipeline depends on
// (Embedder, Generator, EntityTagger) and one adapter per concrete backend.
// The pipeline only sees the interfaces; adapters are chosen from config.
package capability

import (
	"context"
	"errors"
	"math"
)

// ErrModelUnavailable reports that a backing model could not serve a request.
// Adapters wrap transport failures, non-success responses and empty output
// with it so callers can decide whether a fallback applies.
var ErrModelUnavailable = errors.New("model unavailable")

// Embedder maps text to a fixed-length vector. Identical input must produce
// identical output, and any two vectors are comparable with Cosine.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Length bounds a generation request in words.
type Length struct {
	Min int
	Max int
}

// Generator produces abstractive text from input text. MaxInputWords is the
// fixed input limit L_max; callers must truncate before calling Generate.
type Generator interface {
	Generate(ctx context.Context, text string, target Length) (string, error)
	MaxInputWords() int
}

// Span is one entity guess returned by an EntityTagger.
type Span struct {
	Text       string  `json:"text" yaml:"text"`
	Kind       string  `json:"kind" yaml:"kind"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// EntityTagger proposes entity spans in text. Confidence is in [0,1]; an
// empty result is valid.
type EntityTagger interface {
	Tag(ctx context.Context, text string) ([]Span, error)
}

// Cosine computes cosine similarity between two vectors. Vectors of
// different length or zero norm score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Centroid returns the element-wise mean of vecs, or nil for no input.
func Centroid(vecs [][]float32) []float32 {
	if len(vecs) == 0 {
		return nil
	}
	out := make([]float32, len(vecs[0]))
	for _, v := range vecs {
		for i := range out {
			if i < len(v) {
				out[i] += v[i]
			}
		}
	}
	n := float32(len(vecs))
	for i := range out {
		out[i] /= n
	}
	return out
}
