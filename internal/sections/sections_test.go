// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sections

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-summarizer/pkg/types"
)

func testExtractor() *Extractor {
	return New(types.DefaultConfig().Sections, nil, nil)
}

func body(text string) types.Block { return types.Block{Text: text, FontSize: 10} }
func header(text string) types.Block { return types.Block{Text: text, FontSize: 12, IsBold: true} }

// resnetDoc is a small paper with font-detected headers and a reference list.
var resnetDoc = types.Document{Blocks: []types.Block{
	{Text: "Deep Residual Learning", FontSize: 16, IsBold: true},
	body("Jane Doe, John Roe"),
	header("Abstract"),
	body("We present a residual learning framework to ease the training of deep networks."),
	header("1 Introduction"),
	body("Deeper neural networks are more difficult to train."),
	header("2 Method"),
	body("We reformulate the layers as learning residual functions."),
	header("3 Results"),
	body("Our 152-layer network achieves 3.57% error."),
	header("References"),
	body("[1] K. He. Identity mappings in deep residual networks."),
	header("Appendix"),
	body("Extra material after the references."),
}}

func TestExtract_Layout(t *testing.T) {
	m, err := testExtractor().Extract(resnetDoc)
	require.NoError(t, err)

	assert.Equal(t, types.SectionMap{
		{Key: types.SectionAbstract, Text: "We present a residual learning framework to ease the training of deep networks."},
		{Key: types.SectionIntroduction, Text: "Deeper neural networks are more difficult to train."},
		{Key: types.SectionMethodology, Text: "We reformulate the layers as learning residual functions."},
		{Key: types.SectionResults, Text: "Our 152-layer network achieves 3.57% error."},
	}, m)
}

func TestExtract_Idempotent(t *testing.T) {
	e := testExtractor()
	a, err := e.Extract(resnetDoc)
	require.NoError(t, err)
	b, err := e.Extract(resnetDoc)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestExtract_KeysCanonicalAndUnique(t *testing.T) {
	doc := types.Document{Blocks: []types.Block{
		header("Introduction"),
		body("Intro text."),
		header("Analysis"),
		body("First discussion part."),
		header("Experimental Setup"),
		body("Setup text."),
		header("Discussion"),
		body("Second discussion part."),
		header("Acknowledgments"),
		body("We thank the reviewers."),
	}}
	m, err := testExtractor().Extract(doc)
	require.NoError(t, err)

	seen := map[types.SectionKey]bool{}
	for _, s := range m {
		assert.True(t, s.Key.Valid(), "key %q", s.Key)
		assert.False(t, seen[s.Key], "duplicate key %q", s.Key)
		seen[s.Key] = true
	}
	assert.Equal(t, []types.SectionKey{
		types.SectionIntroduction, types.SectionDiscussion, types.SectionExperiments, types.SectionOther,
	}, m.Keys())
	text, _ := m.Get(types.SectionDiscussion)
	assert.Equal(t, "First discussion part. Second discussion part.", text)
}

func TestExtract_Preamble(t *testing.T) {
	tests := []struct {
		name         string
		blocks       []types.Block
		wantAbstract string
	}{
		{
			name: "long preamble becomes abstract",
			blocks: []types.Block{
				{Text: "A Title", FontSize: 16},
				body("This unlabelled opening paragraph summarizes the whole contribution of the paper."),
				header("Introduction"),
				body("Intro."),
				header("Conclusion"),
				body("Done."),
			},
			wantAbstract: "This unlabelled opening paragraph summarizes the whole contribution of the paper.",
		},
		{
			name: "explicit abstract drops preamble",
			blocks: []types.Block{
				body("This long front-matter block lists affiliations and e-mail addresses of authors."),
				header("Abstract"),
				body("The real abstract."),
				header("Introduction"),
				body("Intro."),
			},
			wantAbstract: "The real abstract.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := testExtractor().Extract(types.Document{Blocks: tt.blocks})
			require.NoError(t, err)
			require.NotEmpty(t, m)
			assert.Equal(t, types.SectionAbstract, m[0].Key)
			assert.Equal(t, tt.wantAbstract, m[0].Text)
		})
	}
}

func TestExtract_LineFallback(t *testing.T) {
	tests := []struct {
		name   string
		blocks []types.Block
		want   types.SectionMap
	}{
		{
			name: "no layout metadata",
			blocks: []types.Block{{Text: "A Study of Things\nIntroduction\nThis paper studies things in depth.\n" +
				"2. Methods\nFirst, we collect data.\nResults show that our approach works.\nReferences\n[1] Foo. Bar."}},
			want: types.SectionMap{
				{Key: types.SectionIntroduction, Text: "This paper studies things in depth."},
				{Key: types.SectionMethodology, Text: "First, we collect data. Results show that our approach works."},
			},
		},
		{
			name: "single layout header falls back",
			blocks: []types.Block{
				header("Introduction"),
				body("Intro body.\nConclusion\nClosing words."),
			},
			want: types.SectionMap{
				{Key: types.SectionIntroduction, Text: "Intro body."},
				{Key: types.SectionConclusion, Text: "Closing words."},
			},
		},
		{
			name: "run-in headings",
			blocks: []types.Block{{Text: "Abstract: We propose a thing.\nIntroduction — Things matter."}},
			want: types.SectionMap{
				{Key: types.SectionAbstract, Text: "We propose a thing."},
				{Key: types.SectionIntroduction, Text: "Things matter."},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := testExtractor().Extract(types.Document{Blocks: tt.blocks})
			require.NoError(t, err)
			assert.Equal(t, tt.want, m)
		})
	}
}

func TestExtract_NoHeaders(t *testing.T) {
	doc := types.Document{Blocks: []types.Block{
		{Text: "Neural networks learn representations."},
		{Text: "They are trained with gradient descent.\nModel training is slow."},
	}}
	m, err := testExtractor().Extract(doc)
	require.NoError(t, err)
	assert.Equal(t, types.SectionMap{{
		Key:  types.SectionOther,
		Text: "Neural networks learn representations. They are trained with gradient descent. Model training is slow.",
	}}, m)
}

func TestExtract_Empty(t *testing.T) {
	for _, doc := range []types.Document{
		{},
		{Blocks: []types.Block{{Text: "  "}, {Text: "\n\t"}}},
	} {
		_, err := testExtractor().Extract(doc)
		assert.ErrorIs(t, err, ErrEmptyDocument)
	}
}

func TestMedianFontSize(t *testing.T) {
	_, ok := medianFontSize([]types.Block{{Text: "x"}})
	assert.False(t, ok)

	med, ok := medianFontSize([]types.Block{{FontSize: 12}, {FontSize: 10}, {FontSize: 9}})
	assert.True(t, ok)
	assert.Equal(t, 10.0, med)

	med, _ = medianFontSize([]types.Block{{FontSize: 10}, {FontSize: 12}})
	assert.Equal(t, 11.0, med)
}

// --- vocabulary ---

func TestVocabularyMatch(t *testing.T) {
	v := DefaultVocabulary()
	tests := []struct {
		heading    string
		wantOK     bool
		wantKey    types.SectionKey
		wantStop   bool
		wantPrefix bool
	}{
		{"1. Introduction", true, types.SectionIntroduction, false, true},
		{"IV. EXPERIMENTAL RESULTS", true, types.SectionResults, false, true},
		{"2.3 Related Work:", true, types.SectionRelatedWork, false, true},
		{"Experimental Setup", true, types.SectionExperiments, false, true},
		{"Results on ImageNet", true, types.SectionResults, false, true},
		{"Comparison with Prior Work", true, types.SectionRelatedWork, false, false},
		{"Acknowledgments", true, types.SectionOther, false, true},
		{"References", true, "", true, true},
		{"Deep Residual Learning", false, "", false, false},
		{"Experimentation", false, "", false, false},
		{"", false, "", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.heading, func(t *testing.T) {
			m, ok := v.Match(tt.heading)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKey, m.Key)
			assert.Equal(t, tt.wantStop, m.Stop)
			assert.Equal(t, tt.wantPrefix, m.Prefix)
		})
	}
}

func TestLoadVocabulary(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		return p
	}

	v, err := LoadVocabulary(write("ok.yaml", "version: 2\nsections:\n  methodology: [Procedure]\nstop: [Literatur]\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, v.Version)
	m, ok := v.Match("Procedure")
	assert.True(t, ok)
	assert.Equal(t, types.SectionMethodology, m.Key)
	m, ok = v.Match("Literatur")
	assert.True(t, ok)
	assert.True(t, m.Stop)

	tests := []struct{ name, content string }{
		{"missing version", "sections:\n  methodology: [procedure]\n"},
		{"unknown key", "version: 1\nsections:\n  appendix: [appendix]\n"},
		{"no aliases", "version: 1\n"},
		{"bad yaml", "version: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadVocabulary(write(tt.name+".yaml", tt.content))
			assert.Error(t, err)
		})
	}

	_, err = LoadVocabulary(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
