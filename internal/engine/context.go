package engine

import (
	"strings"
	"unicode"
)

// Context enhancement parameters
const (
	ContextWindow       = 5    // words before the match
	ContextBoost        = 0.35 // added to the score when a keyword is present
	MinScoreWithContext = 0.4
	maxScore            = 1.0
)

// precedingWords returns up to n lower-cased words ending before offset
func precedingWords(text string, offset, n int) []string {
	if offset > len(text) {
		offset = len(text)
	}
	words := strings.FieldsFunc(text[:offset], func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) > n {
		words = words[len(words)-n:]
	}
	for i := range words {
		words[i] = strings.ToLower(words[i])
	}
	return words
}

// hasContext reports whether any keyword appears among the words preceding offset
func hasContext(text string, offset int, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	words := precedingWords(text, offset, ContextWindow)
	for _, w := range words {
		for _, k := range keywords {
			if w == strings.ToLower(k) {
				return true
			}
		}
	}
	return false
}

// boost applies the context boost to score
func boost(score float64) float64 {
	s := score + ContextBoost
	if s > maxScore {
		s = maxScore
	}
	if s < MinScoreWithContext {
		s = MinScoreWithContext
	}
	return s
}
