package types

import "time"

// HTTPConfig holds shared HTTP settings used by capability adapters that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-summarizer/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for adapters that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// SectionConfig holds settings for the section extractor.
type SectionConfig struct {
	// HeaderFontMargin is added to the median font size to get the header
	// threshold (default 0.5pt).
	HeaderFontMargin float64 `json:"header_font_margin" yaml:"header_font_margin"`

	// MaxHeaderChars is the longest text that can still be a header (default 100).
	MaxHeaderChars int `json:"max_header_chars" yaml:"max_header_chars"`

	// MinPreambleChars is the shortest pre-header block kept as abstract text;
	// shorter blocks are title/author front-matter (default 50).
	MinPreambleChars int `json:"min_preamble_chars" yaml:"min_preamble_chars"`

	// VocabularyFile overrides the built-in section alias table.
	VocabularyFile string `json:"vocabulary_file,omitempty" yaml:"vocabulary_file,omitempty"`
}

// SummaryConfig holds settings for the hierarchical summarizer.
type SummaryConfig struct {
	// ExtractiveRatio is the fraction of ranked sentences kept (default 0.4).
	ExtractiveRatio float64 `json:"extractive_ratio" yaml:"extractive_ratio"`

	// MinSentenceChars and MaxSentenceChars bound the sentences considered
	// for ranking (default 30 and 500).
	MinSentenceChars int `json:"min_sentence_chars" yaml:"min_sentence_chars"`
	MaxSentenceChars int `json:"max_sentence_chars" yaml:"max_sentence_chars"`

	// MinSummaryWords is the minimum length requested from the generator (default 50).
	MinSummaryWords int `json:"min_summary_words" yaml:"min_summary_words"`

	// SectionSummaryWords is the target length for ordinary sections (default 150).
	SectionSummaryWords int `json:"section_summary_words" yaml:"section_summary_words"`

	// MaxSummaryWords is the hard ceiling for any section summary and the
	// target for introduction, conclusion and the overall summary (default 200).
	MaxSummaryWords int `json:"max_summary_words" yaml:"max_summary_words"`

	// ShortSectionWords: sections with fewer cleaned words are their own
	// summary (default 50).
	ShortSectionWords int `json:"short_section_words" yaml:"short_section_words"`

	// SectionKeywords and OverallKeywords are the keyword counts kept per
	// section and for the paper (default 5 and 10).
	SectionKeywords int `json:"section_keywords" yaml:"section_keywords"`
	OverallKeywords int `json:"overall_keywords" yaml:"overall_keywords"`

	// KeywordDiversity is the maximum cosine similarity allowed between two
	// selected keywords (default 0.8).
	KeywordDiversity float64 `json:"keyword_diversity" yaml:"keyword_diversity"`

	// MaxKeywordCandidates caps the n-grams embedded per text (default 150).
	MaxKeywordCandidates int `json:"max_keyword_candidates" yaml:"max_keyword_candidates"`

	// Concurrency bounds how many sections are summarized at once (default 1).
	Concurrency int `json:"concurrency" yaml:"concurrency"`
}

// EntityConfig holds settings for the entity extractor.
type EntityConfig struct {
	// MinConfidence drops tagger spans below this score (default 0.5).
	MinConfidence float64 `json:"min_confidence" yaml:"min_confidence"`

	// Concurrency bounds how many sections are tagged at once (default 2).
	Concurrency int `json:"concurrency" yaml:"concurrency"`
}

// GraphConfig holds settings for the process-graph generator.
type GraphConfig struct {
	// MinSteps is the fewest steps that produce a graph (default 2).
	MinSteps int `json:"min_steps" yaml:"min_steps"`

	// MaxLabelChars caps node label length (default 80).
	MaxLabelChars int `json:"max_label_chars" yaml:"max_label_chars"`

	// VocabularyFile overrides the built-in process verb table.
	VocabularyFile string `json:"vocabulary_file,omitempty" yaml:"vocabulary_file,omitempty"`
}

// TaskConfig holds settings for the task orchestrator.
type TaskConfig struct {
	// Workers is the worker pool size (default 1).
	Workers int `json:"workers" yaml:"workers"`

	// QueueSize is the number of submitted tasks that may wait (default 64).
	QueueSize int `json:"queue_size" yaml:"queue_size"`
}

// EmbedderBackend identifies the Embedder implementation.
type EmbedderBackend string

const (
	EmbedderHashing EmbedderBackend = "hashing"
	EmbedderOpenAI  EmbedderBackend = "openai"
)

// EmbedderConfig selects and configures the Embedder capability.
type EmbedderConfig struct {
	HTTPConfig `yaml:",inline"`

	// Backend selects the implementation: hashing (offline) or openai.
	Backend EmbedderBackend `json:"backend" yaml:"backend"`

	// Endpoint is the base URL of an OpenAI-compatible embedding server.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`

	// Model is the embedding model name.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// APIKey authenticates against the embedding server.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Dimension is the vector size of the hashing embedder (default 256).
	Dimension int `json:"dimension" yaml:"dimension"`
}

// GeneratorBackend identifies the Generator implementation.
type GeneratorBackend string

const (
	GeneratorLead   GeneratorBackend = "lead"
	GeneratorClaude GeneratorBackend = "claude"
	GeneratorVertex GeneratorBackend = "vertex"
)

// GeneratorConfig selects and configures the Generator capability.
type GeneratorConfig struct {
	AIConfig   `yaml:",inline"`
	HTTPConfig `yaml:",inline"`

	// Backend selects the implementation: lead (offline), claude, or vertex.
	Backend GeneratorBackend `json:"backend" yaml:"backend"`

	// MaxInputWords is the generator's input limit L_max in words (default 3000).
	MaxInputWords int `json:"max_input_words" yaml:"max_input_words"`

	// ProjectID and Region address Vertex AI.
	ProjectID string `json:"project_id,omitempty" yaml:"project_id,omitempty"`
	Region    string `json:"region,omitempty" yaml:"region,omitempty"`
}

// TaggerBackend identifies the EntityTagger implementation.
type TaggerBackend string

const (
	TaggerNone   TaggerBackend = "none"
	TaggerClaude TaggerBackend = "claude"
)

// TaggerConfig selects and configures the EntityTagger capability.
type TaggerConfig struct {
	AIConfig   `yaml:",inline"`
	HTTPConfig `yaml:",inline"`

	// Backend selects the implementation: none or claude.
	Backend TaggerBackend `json:"backend" yaml:"backend"`
}

// ArchiveConfig holds settings for the summary archive.
type ArchiveConfig struct {
	// Dir is the directory holding the archive database.
	Dir string `json:"dir" yaml:"dir"`
}

// Config groups all settings.
type Config struct {
	Sections  SectionConfig   `json:"sections" yaml:"sections"`
	Summary   SummaryConfig   `json:"summary" yaml:"summary"`
	Entities  EntityConfig    `json:"entities" yaml:"entities"`
	Graph     GraphConfig     `json:"graph" yaml:"graph"`
	Tasks     TaskConfig      `json:"tasks" yaml:"tasks"`
	Embedder  EmbedderConfig  `json:"embedder" yaml:"embedder"`
	Generator GeneratorConfig `json:"generator" yaml:"generator"`
	Tagger    TaggerConfig    `json:"tagger" yaml:"tagger"`
	Archive   ArchiveConfig   `json:"archive" yaml:"archive"`
}

// DefaultConfig returns the configuration used when no file or flag
// overrides a value. The defaults run fully offline.
func DefaultConfig() Config {
	httpCfg := HTTPConfig{Timeout: 120 * time.Second, UserAgent: "paper-summarizer/0.1"}
	return Config{
		Sections: SectionConfig{
			HeaderFontMargin: 0.5,
			MaxHeaderChars:   100,
			MinPreambleChars: 50,
		},
		Summary: SummaryConfig{
			ExtractiveRatio:      0.4,
			MinSentenceChars:     30,
			MaxSentenceChars:     500,
			MinSummaryWords:      50,
			SectionSummaryWords:  150,
			MaxSummaryWords:      200,
			ShortSectionWords:    50,
			SectionKeywords:      5,
			OverallKeywords:      10,
			KeywordDiversity:     0.8,
			MaxKeywordCandidates: 150,
			Concurrency:          1,
		},
		Entities: EntityConfig{
			MinConfidence: 0.5,
			Concurrency:   2,
		},
		Graph: GraphConfig{
			MinSteps:      2,
			MaxLabelChars: 80,
		},
		Tasks: TaskConfig{
			Workers:   1,
			QueueSize: 64,
		},
		Embedder: EmbedderConfig{
			HTTPConfig: httpCfg,
			Backend:    EmbedderHashing,
			Dimension:  256,
		},
		Generator: GeneratorConfig{
			AIConfig:      AIConfig{Model: "claude-sonnet-4-5-20250929", MaxRetries: 3},
			HTTPConfig:    httpCfg,
			Backend:       GeneratorLead,
			MaxInputWords: 3000,
			Region:        "us-central1",
		},
		Tagger: TaggerConfig{
			AIConfig:   AIConfig{Model: "claude-sonnet-4-5-20250929", MaxRetries: 3},
			HTTPConfig: httpCfg,
			Backend:    TaggerNone,
		},
		Archive: ArchiveConfig{
			Dir: "summaries",
		},
	}
}
