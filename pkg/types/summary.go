// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// SectionKey is a canonical section name.
type SectionKey string

const (
	SectionAbstract     SectionKey = "abstract"
	SectionIntroduction SectionKey = "introduction"
	SectionRelatedWork  SectionKey = "related_work"
	SectionMethodology  SectionKey = "methodology"
	SectionExperiments  SectionKey = "experiments"
	SectionResults      SectionKey = "results"
	SectionDiscussion   SectionKey = "discussion"
	SectionConclusion   SectionKey = "conclusion"
	SectionOther        SectionKey = "other"
)

// CanonicalSections lists every valid SectionKey in conventional paper order.
var CanonicalSections = []SectionKey{
	SectionAbstract,
	SectionIntroduction,
	SectionRelatedWork,
	SectionMethodology,
	SectionExperiments,
	SectionResults,
	SectionDiscussion,
	SectionConclusion,
	SectionOther,
}

// Valid reports whether k is one of the canonical section keys.
func (k SectionKey) Valid() bool {
	for _, c := range CanonicalSections {
		if k == c {
			return true
		}
	}
	return false
}

// Section is one entry of a SectionMap.
type Section struct {
	// Key is the canonical section name.
	Key SectionKey `json:"key" yaml:"key"`

	// Text is the section body with headers removed.
	Text string `json:"text" yaml:"text"`
}

// SectionMap is an ordered mapping from canonical section key to section text.
// Order reflects document order; each key appears at most once.
type SectionMap []Section

// Get returns the text stored under key.
func (m SectionMap) Get(key SectionKey) (string, bool) {
	for _, s := range m {
		if s.Key == key {
			return s.Text, true
		}
	}
	return "", false
}

// Keys returns the section keys in document order.
func (m SectionMap) Keys() []SectionKey {
	keys := make([]SectionKey, len(m))
	for i, s := range m {
		keys[i] = s.Key
	}
	return keys
}

// FullText joins all section texts in document order.
func (m SectionMap) FullText() string {
	parts := make([]string, 0, len(m))
	for _, s := range m {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, " ")
}

// SectionSummary is the multi-granularity summary of one section.
type SectionSummary struct {
	// SectionKey identifies the summarized section.
	SectionKey SectionKey `json:"section_key" yaml:"section_key"`

	// ExtractiveSentences are the kept source sentences in original order.
	ExtractiveSentences []string `json:"extractive_sentences" yaml:"extractive_sentences"`

	// AbstractSummary is the generated summary, or the extractive fallback
	// when generation was unavailable.
	AbstractSummary string `json:"abstract_summary" yaml:"abstract_summary"`

	// Keywords are the top diversity-ranked keywords for the section.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Fallback is set when AbstractSummary came from the extractive sentences
	// because the Generator could not serve the request.
	Fallback bool `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// EntitySet holds the validated, deduplicated entities found in a paper.
// Each slice is a set: sorted, no duplicates under case and whitespace
// normalization.
type EntitySet struct {
	Datasets   []string `json:"datasets" yaml:"datasets"`
	Models     []string `json:"models" yaml:"models"`
	Metrics    []string `json:"metrics" yaml:"metrics"`
	Frameworks []string `json:"frameworks" yaml:"frameworks"`
}

// Empty reports whether no entity of any kind was found.
func (e EntitySet) Empty() bool {
	return len(e.Datasets) == 0 && len(e.Models) == 0 && len(e.Metrics) == 0 && len(e.Frameworks) == 0
}

// CompressionStats relates the summary length to the source length.
type CompressionStats struct {
	// OriginalWordCount is the word count summed over raw section texts.
	OriginalWordCount int `json:"original_word_count" yaml:"original_word_count"`

	// SummaryWordCount is the word count of the overall summary.
	SummaryWordCount int `json:"summary_word_count" yaml:"summary_word_count"`
}

// Ratio returns the fraction of words removed, in [0,1]. Zero when the
// original is empty.
func (c CompressionStats) Ratio() float64 {
	if c.OriginalWordCount == 0 {
		return 0
	}
	return 1 - float64(c.SummaryWordCount)/float64(c.OriginalWordCount)
}

// PaperSummary is the terminal artifact of the pipeline. It is immutable
// once returned.
type PaperSummary struct {
	// Title and Authors are passed through from PaperMeta.
	Title   string   `json:"title,omitempty" yaml:"title,omitempty"`
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// OverallSummary is the aggregated abstractive summary of the paper.
	OverallSummary string `json:"overall_summary" yaml:"overall_summary"`

	// SectionSummaries holds one summary per detected section in document order.
	SectionSummaries []SectionSummary `json:"section_summaries" yaml:"section_summaries"`

	// SectionsFound lists the detected section keys in document order.
	SectionsFound []SectionKey `json:"sections_found" yaml:"sections_found"`

	// OverallKeywords are the top keywords for the whole paper.
	OverallKeywords []string `json:"overall_keywords" yaml:"overall_keywords"`

	// Entities are the datasets, models, metrics and frameworks mentioned.
	Entities EntitySet `json:"entities" yaml:"entities"`

	// ProcessGraph is a Mermaid flowchart of the methodology, empty when no
	// process could be detected.
	ProcessGraph string `json:"process_graph,omitempty" yaml:"process_graph,omitempty"`

	// CompressionStats is derived from the section texts and OverallSummary.
	CompressionStats CompressionStats `json:"compression_stats" yaml:"compression_stats"`
}

// Section returns the summary for key.
func (p *PaperSummary) Section(key SectionKey) (SectionSummary, bool) {
	for _, s := range p.SectionSummaries {
		if s.SectionKey == key {
			return s, true
		}
	}
	return SectionSummary{}, false
}
