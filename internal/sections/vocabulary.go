// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sections

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-summarizer/pkg/types"
)

//go:embed vocabulary.yaml
var defaultVocabularyYAML []byte

// Vocabulary is a versioned table of section heading aliases.
type Vocabulary struct {
	Version  int                           `yaml:"version"`
	Sections map[types.SectionKey][]string `yaml:"sections"`
	Stop     []string                      `yaml:"stop"`

	aliases []alias
}

type alias struct {
	text string
	key  types.SectionKey
	stop bool
}

// Match is the result of matching a heading against a Vocabulary.
type Match struct {
	// Key is the canonical section the heading names. Empty for stop headings.
	Key types.SectionKey

	// Stop is set for reference-list headings.
	Stop bool

	// Alias is the matched vocabulary entry.
	Alias string

	// Prefix is set when the alias starts the heading.
	Prefix bool
}

// DefaultVocabulary returns the built-in vocabulary.
func DefaultVocabulary() *Vocabulary {
	v, err := parseVocabulary(defaultVocabularyYAML)
	if err != nil {
		panic(fmt.Sprintf("sections: built-in vocabulary: %v", err))
	}
	return v
}

// LoadVocabulary reads a vocabulary table from a YAML file.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vocabulary %s: %w", path, err)
	}
	v, err := parseVocabulary(data)
	if err != nil {
		return nil, fmt.Errorf("vocabulary %s: %w", path, err)
	}
	return v, nil
}

func parseVocabulary(data []byte) (*Vocabulary, error) {
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if v.Version < 1 {
		return nil, fmt.Errorf("missing or invalid version %d", v.Version)
	}

	// Build in canonical order so ties resolve the same way on every load.
	for _, key := range types.CanonicalSections {
		for _, a := range v.Sections[key] {
			if a = normalizeAlias(a); a != "" {
				v.aliases = append(v.aliases, alias{text: a, key: key})
			}
		}
	}
	for key := range v.Sections {
		if !key.Valid() {
			return nil, fmt.Errorf("unknown section key %q", key)
		}
	}
	for _, a := range v.Stop {
		if a = normalizeAlias(a); a != "" {
			v.aliases = append(v.aliases, alias{text: a, stop: true})
		}
	}
	if len(v.aliases) == 0 {
		return nil, fmt.Errorf("no aliases defined")
	}
	return &v, nil
}

func normalizeAlias(a string) string {
	return strings.Join(strings.Fields(strings.ToLower(a)), " ")
}

// numberingRe matches leading section numbering: "1", "2.3.", "IV.", "A.".
var numberingRe = regexp.MustCompile(`^(?:\d+(?:\.\d+)*\.?|[IVXLC]+\.?|[A-Z]\.)\s+`)

// headingText strips numbering and trailing punctuation and lowercases.
func headingText(text string) string {
	text = strings.TrimSpace(text)
	text = numberingRe.ReplaceAllString(text, "")
	text = strings.TrimRight(text, ":.;- ")
	return normalizeAlias(text)
}

// Match finds the section a heading names. The longest alias occurring in
// the heading on word boundaries wins.
func (v *Vocabulary) Match(text string) (Match, bool) {
	h := headingText(text)
	if h == "" {
		return Match{}, false
	}

	var best *alias
	bestPrefix := false
	for i := range v.aliases {
		a := &v.aliases[i]
		pos := wordIndex(h, a.text)
		if pos < 0 {
			continue
		}
		if best == nil || len(a.text) > len(best.text) {
			best = a
			bestPrefix = pos == 0
		}
	}
	if best == nil {
		return Match{}, false
	}
	return Match{Key: best.key, Stop: best.stop, Alias: best.text, Prefix: bestPrefix}, true
}

// wordIndex returns the first index of sub in s where it is bounded by
// non-letters on both sides, or -1.
func wordIndex(s, sub string) int {
	for off := 0; off+len(sub) <= len(s); {
		i := strings.Index(s[off:], sub)
		if i < 0 {
			return -1
		}
		i += off
		end := i + len(sub)
		if (i == 0 || !isWordByte(s[i-1])) && (end == len(s) || !isWordByte(s[end])) {
			return i
		}
		off = i + 1
	}
	return -1
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9' || b >= 0x80
}
