package textutil

import "strings"

// englishStopwords is the default stoplist for keyword candidates and entity
// validation.
var englishStopwords = []string{
	"a", "about", "above", "after", "again", "against", "all", "also", "am", "an", "and", "any", "are",
	"as", "at", "be", "because", "been", "before", "being", "below", "between", "both", "but", "by",
	"can", "could", "did", "do", "does", "doing", "down", "during", "each", "et", "al", "etc", "few",
	"for", "from", "further", "had", "has", "have", "having", "he", "her", "here", "hers", "him",
	"his", "how", "however", "i", "if", "in", "into", "is", "it", "its", "itself", "just", "may",
	"me", "might", "more", "most", "must", "my", "no", "nor", "not", "now", "of", "off", "on", "once",
	"one", "only", "or", "other", "our", "ours", "out", "over", "own", "same", "she", "should", "so",
	"some", "such", "than", "that", "the", "their", "theirs", "them", "then", "there", "these",
	"they", "this", "those", "through", "thus", "to", "too", "two", "under", "until", "up", "us",
	"use", "used", "using", "very", "via", "was", "we", "well", "were", "what", "when", "where",
	"whether", "which", "while", "who", "whom", "why", "will", "with", "within", "without", "would",
	"yet", "you", "your", "paper", "section", "figure", "table", "show", "shows", "shown", "based",
	"new", "first", "second", "third", "finally", "next", "e.g", "i.e", "data", "model", "method",
}

// Stoplist is a set of lowercase stopwords.
type Stoplist struct {
	stops map[string]struct{}
}

// NewStoplist builds a stoplist from words, lowercasing each.
func NewStoplist(words []string) *Stoplist {
	stops := make(map[string]struct{}, len(words))
	for _, w := range words {
		stops[strings.ToLower(w)] = struct{}{}
	}
	return &Stoplist{stops: stops}
}

// DefaultStoplist returns the built-in English stoplist.
func DefaultStoplist() *Stoplist {
	return NewStoplist(englishStopwords)
}

// IsStop reports whether word is a stopword, ignoring case.
func (s *Stoplist) IsStop(word string) bool {
	_, ok := s.stops[strings.ToLower(word)]
	return ok
}
