// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-summarizer/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.ArchiveConfig{Dir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	tick := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}
	return s
}

func sampleSummary(title string, keywords ...string) *types.PaperSummary {
	return &types.PaperSummary{
		Title:           title,
		Authors:         []string{"Ada Lovelace"},
		OverallSummary:  "We study " + title + " on standard benchmarks.",
		SectionsFound:   []types.SectionKey{types.SectionAbstract, types.SectionMethodology},
		OverallKeywords: keywords,
		SectionSummaries: []types.SectionSummary{
			{SectionKey: types.SectionAbstract, AbstractSummary: "Short abstract.", ExtractiveSentences: []string{"Short abstract."}, Keywords: []string{"abstract"}},
		},
		Entities:         types.EntitySet{Models: []string{"ResNet-50"}, Datasets: []string{"ImageNet"}, Metrics: []string{}, Frameworks: []string{}},
		ProcessGraph:     "graph TD\n    Start([Start])\n",
		CompressionStats: types.CompressionStats{OriginalWordCount: 1200, SummaryWordCount: 150},
	}
}

func TestSaveAndGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	want := sampleSummary("Residual Learning", "residual", "depth")
	e, err := s.Save(ctx, "papers/resnet.pdf", want)
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "Residual Learning", e.Title)

	got, err := s.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, "papers/resnet.pdf", got.Source)
	assert.Equal(t, []string{"residual", "depth"}, got.Keywords)
	assert.Equal(t, e.CreatedAt, got.CreatedAt)
	assert.Equal(t, want, got.Summary)
}

func TestGet_NotFound(t *testing.T) {
	_, err := testStore(t).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSave_Nil(t *testing.T) {
	_, err := testStore(t).Save(context.Background(), "x.pdf", nil)
	assert.Error(t, err)
}

func TestListAndSearch(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, sum := range []*types.PaperSummary{
		sampleSummary("Residual Learning", "residual"),
		sampleSummary("Attention Is All You Need", "transformer", "attention"),
		sampleSummary("100% Sparse Models", "sparsity"),
	} {
		_, err := s.Save(ctx, "in.yaml", sum)
		require.NoError(t, err)
	}

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "100% Sparse Models", all[0].Title, "newest first")

	limited, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	tests := []struct {
		query string
		want  []string
	}{
		{"ATTENTION", []string{"Attention Is All You Need"}},
		{"transformer", []string{"Attention Is All You Need"}},
		{"benchmarks", []string{"100% Sparse Models", "Attention Is All You Need", "Residual Learning"}},
		{"100%", []string{"100% Sparse Models"}},
		{"0_ Sparse", nil},
		{"quantum", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := s.Search(ctx, tt.query, 10)
			require.NoError(t, err)
			var titles []string
			for _, e := range got {
				titles = append(titles, e.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestOpen_Reopen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(types.ArchiveConfig{Dir: dir})
	require.NoError(t, err)
	e, err := s.Save(context.Background(), "a.pdf", sampleSummary("Persisted"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(types.ArchiveConfig{Dir: dir})
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Persisted", got.Summary.Title)
}
