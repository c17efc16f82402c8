// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package procgraph

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

//go:embed steps.yaml
var defaultVocabularyYAML []byte

// Vocabulary is a versioned table of process verbs and sequence connectives.
type Vocabulary struct {
	Version     int      `yaml:"version"`
	Verbs       []string `yaml:"verbs"`
	Connectives []string `yaml:"connectives"`

	forms       map[string]bool
	connectives [][]string
}

// DefaultVocabulary returns the built-in vocabulary.
func DefaultVocabulary() *Vocabulary {
	v, err := parseVocabulary(defaultVocabularyYAML)
	if err != nil {
		panic(fmt.Sprintf("procgraph: built-in vocabulary: %v", err))
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
	if len(v.Verbs) == 0 && len(v.Connectives) == 0 {
		return nil, fmt.Errorf("no verbs or connectives defined")
	}

	v.forms = make(map[string]bool)
	for _, verb := range v.Verbs {
		for _, f := range inflections(strings.ToLower(strings.TrimSpace(verb))) {
			v.forms[f] = true
		}
	}
	for _, c := range v.Connectives {
		if words := strings.Fields(strings.ToLower(c)); len(words) > 0 {
			v.connectives = append(v.connectives, words)
		}
	}
	return &v, nil
}

// inflections returns the regular forms of a verb: base, third person,
// past and gerund.
func inflections(verb string) []string {
	if verb == "" {
		return nil
	}
	forms := []string{verb, verb + "s", verb + "ed", verb + "ing"}
	switch {
	case strings.HasSuffix(verb, "e"):
		stem := verb[:len(verb)-1]
		forms = append(forms, verb+"d", stem+"ing")
	case strings.HasSuffix(verb, "y") && len(verb) > 1 && !strings.ContainsRune("aeiou", rune(verb[len(verb)-2])):
		stem := verb[:len(verb)-1]
		forms = append(forms, stem+"ies", stem+"ied")
	case strings.HasSuffix(verb, "s") || strings.HasSuffix(verb, "sh") || strings.HasSuffix(verb, "ch") || strings.HasSuffix(verb, "x"):
		forms = append(forms, verb+"es")
	}
	return forms
}

// IsStep reports whether the tokens of a sentence contain a process verb or
// a connective.
func (v *Vocabulary) IsStep(tokens []string) bool {
	for i, tok := range tokens {
		if v.forms[tok] {
			return true
		}
		for _, c := range v.connectives {
			if hasPrefixTokens(tokens[i:], c) {
				return true
			}
		}
	}
	return false
}

func hasPrefixTokens(tokens, prefix []string) bool {
	if len(tokens) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if tokens[i] != p {
			return false
		}
	}
	return true
}
