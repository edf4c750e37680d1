package sentiment

import (
	"strings"
	"unicode"

	"github.com/bbalet/stopwords"
	"github.com/kljensen/snowball"
)

// A Normalizer reduces raw journal text to a canonical token stream for the
// vectorizer: lowercased, stripped of anything that is not an ASCII letter,
// stopword-filtered, and stemmed to a base form. Every step is deterministic,
// so the same text always normalizes to the same output.
type Normalizer struct {
	langCode string // ISO 639-1 code for the stopword list
	stemLang string // snowball language name
	minLen   int
}

// NewNormalizer returns a Normalizer for English text.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		langCode: "en",
		stemLang: "english",
		minLen:   3,
	}
}

// Normalize returns the normalized form of text, tokens rejoined with single
// spaces. Empty or fully-filtered input yields the empty string; that is a
// legal zero-token result, not an error.
func (n *Normalizer) Normalize(text string) string {
	return strings.Join(n.Tokens(text), " ")
}

// Tokens runs the full pipeline and returns the surviving tokens in order.
func (n *Normalizer) Tokens(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
		// Digits, punctuation, and non-ASCII runes are dropped outright.
	}

	var out []string
	for _, tok := range strings.Fields(b.String()) {
		if len(tok) < n.minLen {
			continue
		}
		if n.isStopword(tok) {
			continue
		}
		out = append(out, n.stem(tok))
	}
	return out
}

// isStopword reports whether the stopword list removes tok entirely.
func (n *Normalizer) isStopword(tok string) bool {
	return strings.TrimSpace(stopwords.CleanString(tok, n.langCode, false)) == ""
}

// stem reduces tok to its base form, falling back to the raw token when the
// stemmer rejects it.
func (n *Normalizer) stem(tok string) string {
	stemmed, err := snowball.Stem(tok, n.stemLang, true)
	if err != nil || stemmed == "" {
		return tok
	}
	return stemmed
}
