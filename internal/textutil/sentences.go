package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// abbreviations never end a sentence, compared lowercased without the final period.
var abbreviations = map[string]bool{
	"e.g": true, "i.e": true, "al": true, "etc": true, "vs": true, "cf": true,
	"fig": true, "figs": true, "eq": true, "eqs": true, "sec": true, "no": true,
	"dr": true, "prof": true, "approx": true, "resp": true, "ref": true, "refs": true,
	"tab": true, "vol": true, "pp": true, "ch": true,
}

// Sentences splits text into trimmed sentences. A sentence ends at '.', '!'
// or '?' followed by whitespace and an uppercase letter, digit or opening
// bracket, unless the terminating word is a known abbreviation or a single
// initial.
func Sentences(text string) []string {
	text = NormalizeSpace(text)
	if text == "" {
		return nil
	}

	var out []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		next := i + size
		if r != '.' && r != '!' && r != '?' {
			i = next
			continue
		}

		// Absorb closing quotes and brackets after the terminator.
		end := next
		for end < len(text) && strings.IndexByte(`"')]`, text[end]) >= 0 {
			end++
		}
		if end < len(text) && text[end] != ' ' {
			i = next
			continue
		}
		if end < len(text) && !startsSentence(text[end+1:]) {
			i = next
			continue
		}
		if r == '.' && isAbbreviation(text[start:i]) {
			i = next
			continue
		}

		if s := strings.TrimSpace(text[start:end]); s != "" {
			out = append(out, s)
		}
		start = end
		i = end
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

func startsSentence(rest string) bool {
	r, _ := utf8.DecodeRuneInString(rest)
	return unicode.IsUpper(r) || unicode.IsDigit(r) || strings.ContainsRune(`"'([“‘`, r)
}

// isAbbreviation reports whether the word ending prefix is an abbreviation
// or an initial such as "J".
func isAbbreviation(prefix string) bool {
	idx := strings.LastIndexAny(prefix, " (")
	word := prefix[idx+1:]
	if word == "" {
		return false
	}
	if utf8.RuneCountInString(word) == 1 {
		r, _ := utf8.DecodeRuneInString(word)
		return unicode.IsUpper(r)
	}
	return abbreviations[strings.ToLower(word)]
}
