// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textutil provides the text primitives shared by the pipeline stages:
// sentence splitting, cleaning, tokenization, word counting and stopwords.
package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// numericCiteRe matches bracketed numeric citations like [1] or [2, 14].
	numericCiteRe = regexp.MustCompile(`\[\d+(?:\s*[,–-]\s*\d+)*\]`)

	// parenCiteRe matches parenthesized numeric citations like (3) or (4, 5).
	parenCiteRe = regexp.MustCompile(`\(\d+(?:\s*,\s*\d+)*\)`)

	urlRe   = regexp.MustCompile(`https?://\S+`)
	emailRe = regexp.MustCompile(`\S+@\S+\.\S+`)

	// figRefRe matches figure, table and equation references like "Fig. 3".
	figRefRe = regexp.MustCompile(`(?i)\b(?:fig|figure|table|eq)\.?\s*\d+`)

	spaceRe = regexp.MustCompile(`\s+`)
)

// Clean removes citation markers, URLs, e-mail addresses and figure/table
// references, then normalizes whitespace.
func Clean(text string) string {
	text = numericCiteRe.ReplaceAllString(text, "")
	text = parenCiteRe.ReplaceAllString(text, "")
	text = urlRe.ReplaceAllString(text, "")
	text = emailRe.ReplaceAllString(text, "")
	text = figRefRe.ReplaceAllString(text, "")
	return NormalizeSpace(text)
}

// NormalizeSpace collapses runs of whitespace into single spaces and trims.
func NormalizeSpace(text string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}

// Words splits text on whitespace.
func Words(text string) []string {
	return strings.Fields(text)
}

// WordCount returns the number of whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ClampWords limits text to at most max words. When the text is longer it is
// cut at the last sentence end within the limit, or at the word limit when no
// sentence ends early enough.
func ClampWords(text string, max int) string {
	words := strings.Fields(text)
	if max <= 0 || len(words) <= max {
		return text
	}
	cut := max
	for i := max - 1; i >= max/2; i-- {
		if endsSentence(words[i]) {
			cut = i + 1
			break
		}
	}
	return strings.Join(words[:cut], " ")
}

func endsSentence(word string) bool {
	return strings.HasSuffix(word, ".") || strings.HasSuffix(word, "!") || strings.HasSuffix(word, "?")
}

// Tokens lowercases text and splits it into word tokens made of letters,
// digits and inner hyphens. Pure-numeric tokens are dropped.
func Tokens(text string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		tok := strings.Trim(current.String(), "-")
		current.Reset()
		if tok == "" || isNumeric(tok) {
			return
		}
		tokens = append(tokens, tok)
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			current.WriteRune(unicode.ToLower(r))
			continue
		}
		flush()
	}
	flush()
	return tokens
}

func isNumeric(tok string) bool {
	for _, r := range tok {
		if !unicode.IsDigit(r) && r != '-' && r != '.' {
			return false
		}
	}
	return true
}

// HasLetter reports whether s contains any alphabetic character.
func HasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
