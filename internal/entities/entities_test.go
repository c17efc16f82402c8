// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entities

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/paper-summarizer/internal/capability"
	"github.com/pdiddy/paper-summarizer/pkg/types"
)

// fakeTagger returns fixed spans, or err when set.
type fakeTagger struct {
	spans []capability.Span
	err   error
}

func (f *fakeTagger) Tag(context.Context, string) ([]capability.Span, error) {
	return f.spans, f.err
}

func testExtractor(tagger capability.EntityTagger) *Extractor {
	return New(types.DefaultConfig().Entities, tagger, nil)
}

func TestExtract_MethodologyScenario(t *testing.T) {
	sections := types.SectionMap{
		{Key: types.SectionIntroduction, Text: "Image classification remains hard."},
		{Key: types.SectionMethodology, Text: "First, we collect data. Then, we train a ResNet-50 model. Finally, we evaluate on a held-out test set."},
	}
	got := testExtractor(nil).Extract(context.Background(), sections)
	assert.Contains(t, got.Models, "ResNet-50")
}

func TestPatterns(t *testing.T) {
	type want struct {
		kind Kind
		text string
	}
	tests := []struct {
		name string
		text string
		want []want
	}{
		{
			name: "named entities",
			text: "We fine-tune BERT and GPT-4 with PyTorch on SQuAD 2.0, reporting F1-score and BLEU-4.",
			want: []want{
				{KindModel, "GPT-4"}, {KindModel, "BERT"},
				{KindDataset, "SQuAD 2.0"},
				{KindMetric, "F1-score"}, {KindMetric, "BLEU-4"},
				{KindFramework, "PyTorch"},
			},
		},
		{
			name: "naming conventions",
			text: "We introduce MobileNet-7 and evaluate on the SST-2 dataset using a Dice-score.",
			want: []want{
				{KindDataset, "SST-2"},
				{KindMetric, "Dice-score"},
				{KindModel, "MobileNet-7"},
			},
		},
		{
			name: "longer names shadow parts",
			text: "A Swin Transformer beats a plain Transformer on CIFAR-100.",
			want: []want{
				{KindModel, "Swin Transformer"}, {KindModel, "Transformer"},
				{KindDataset, "CIFAR-100"},
			},
		},
		{
			name: "nothing to find",
			text: "We thank the anonymous reviewers for their comments.",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []want
			for _, c := range Patterns(tt.text) {
				assert.Equal(t, SourcePattern, c.Source)
				got = append(got, want{c.Kind, c.Text})
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestExtract_TaggerMerge(t *testing.T) {
	tagger := &fakeTagger{spans: []capability.Span{
		{Text: "WikiSQL", Kind: "dataset", Confidence: 0.9},
		{Text: "ImageNet", Kind: "model", Confidence: 0.9},   // pattern says dataset
		{Text: "Adam", Kind: "framework", Confidence: 0.3},   // below threshold
		{Text: "Hallucinated", Kind: "model", Confidence: 1}, // not in text
		{Text: "the", Kind: "metric", Confidence: 0.9},       // stopword
		{Text: "Flax", Kind: "Library", Confidence: 0.8},
		{Text: "x", Kind: "model", Confidence: 0.9},
		{Text: "Jane", Kind: "person", Confidence: 0.9},
	}}
	sections := types.SectionMap{
		{Key: types.SectionExperiments, Text: "We train on ImageNet and WikiSQL using Flax and Adam with Jane."},
	}

	got := testExtractor(tagger).Extract(context.Background(), sections)
	assert.Equal(t, types.EntitySet{
		Datasets:   []string{"ImageNet", "WikiSQL"},
		Models:     []string{},
		Metrics:    []string{},
		Frameworks: []string{"Flax"},
	}, got)
}

func TestExtract_TaggerFailure(t *testing.T) {
	tagger := &fakeTagger{err: errors.New("tagger offline")}
	sections := types.SectionMap{{Key: types.SectionOther, Text: "Results on COCO with TensorFlow."}}

	got := testExtractor(tagger).Extract(context.Background(), sections)
	assert.Equal(t, []string{"COCO"}, got.Datasets)
	assert.Equal(t, []string{"TensorFlow"}, got.Frameworks)
}

func TestExtract_Dedup(t *testing.T) {
	sections := types.SectionMap{
		{Key: types.SectionResults, Text: "Accuracy improves. Top-1 accuracy is reported."},
		{Key: types.SectionDiscussion, Text: "We discuss accuracy and PyTorch, then pytorch again."},
	}
	got := testExtractor(nil).Extract(context.Background(), sections)
	assert.Equal(t, []string{"Accuracy"}, got.Metrics)
	assert.Equal(t, []string{"PyTorch"}, got.Frameworks)
}

func TestExtract_Empty(t *testing.T) {
	got := testExtractor(nil).Extract(context.Background(), nil)
	assert.True(t, got.Empty())
	assert.NotNil(t, got.Datasets)
}

func TestValid(t *testing.T) {
	e := testExtractor(nil)
	tests := []struct {
		text string
		want bool
	}{
		{"ResNet-50", true},
		{"F1-score", true},
		{"GLUE", true},
		{"a", false},
		{"12345", false},
		{"the", false},
		{"Model", false},
		{"--ab--", false},
		{strings.Repeat("x", 51), false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Valid(tt.text))
		})
	}
}
