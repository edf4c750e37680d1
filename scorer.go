package sentiment

import (
	"math"
	"strings"
	"unicode"

	"gopkg.in/neurosnap/sentences.v1"
	"gopkg.in/neurosnap/sentences.v1/english"
)

// A LexiconScorer estimates polarity from raw text using word lists and
// simple negation/intensifier heuristics. It needs no training data and
// works on the original word forms, so it deliberately bypasses the
// Normalizer: "don't like" must keep its negation to score correctly.
type LexiconScorer struct {
	lex            *lexicon
	segmenter      *sentences.DefaultSentenceTokenizer
	negationWindow int // words to check back for a negation
	modifierWindow int // words to check back for an intensifier
}

// NewLexiconScorer returns a scorer with the built-in English lexicon.
func NewLexiconScorer() *LexiconScorer {
	seg, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		// Bundled Punkt data failed to load; score the text as one sentence.
		seg = nil
	}
	return &LexiconScorer{
		lex:            newLexicon(),
		segmenter:      seg,
		negationWindow: 3,
		modifierWindow: 2,
	}
}

// Score returns a polarity estimate in [-1, 1] for raw text. Text with no
// recognized sentiment words scores 0.
func (s *LexiconScorer) Score(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}

	var (
		weighted float64
		weights  float64
	)
	for _, sent := range s.split(text) {
		polarity, coverage := s.scoreSentence(sent)
		if coverage == 0 {
			continue
		}
		weighted += polarity * coverage
		weights += coverage
	}
	if weights == 0 {
		return 0
	}
	return clamp(weighted/weights, -1, 1)
}

// split segments text into sentences, falling back to the whole text when
// the segmenter is unavailable.
func (s *LexiconScorer) split(text string) []string {
	if s.segmenter == nil {
		return []string{text}
	}
	segs := s.segmenter.Tokenize(text)
	out := make([]string, 0, len(segs))
	for _, seg := range segs {
		out = append(out, seg.Text)
	}
	if len(out) == 0 {
		return []string{text}
	}
	return out
}

// scoreSentence scores a single sentence. The returned coverage is the
// fraction of tokens that carried sentiment, used to weight sentences when
// aggregating to document level.
func (s *LexiconScorer) scoreSentence(sent string) (polarity, coverage float64) {
	tokens := scorerTokens(sent)
	if len(tokens) == 0 {
		return 0, 0
	}

	var (
		posScore float64
		negScore float64
		hits     int
	)
	for i, tok := range tokens {
		base := s.lex.score(tok)
		if base == 0 {
			continue
		}

		modified := s.applyModifiers(base, tokens, i)
		if s.negatedAt(tokens, i) {
			// Negation reverses but weakens: "not good" is mildly bad,
			// not the mirror image of "good".
			modified = -modified * 0.5
		}

		if modified > 0 {
			posScore += modified
		} else {
			negScore += math.Abs(modified)
		}
		hits++
	}

	if hits == 0 {
		return 0, 0
	}
	posScore /= float64(hits)
	negScore /= float64(hits)

	switch {
	case negScore == 0:
		polarity = math.Min(1.0, posScore*1.5)
	case posScore == 0:
		polarity = math.Max(-1.0, -negScore*1.5)
	default:
		polarity = (posScore - negScore) / (posScore + negScore)
	}

	coverage = float64(hits) / float64(len(tokens))
	return polarity, coverage
}

// negatedAt reports whether a negation word appears within the window
// preceding position i.
func (s *LexiconScorer) negatedAt(tokens []string, i int) bool {
	start := i - s.negationWindow
	if start < 0 {
		start = 0
	}
	for j := start; j < i; j++ {
		if s.lex.isNegation(tokens[j]) {
			return true
		}
	}
	return false
}

// applyModifiers scales a base score by any intensifier or diminisher in the
// couple of words before it.
func (s *LexiconScorer) applyModifiers(base float64, tokens []string, i int) float64 {
	start := i - s.modifierWindow
	if start < 0 {
		start = 0
	}
	for j := start; j < i; j++ {
		if m := s.lex.modifierStrength(tokens[j]); m != 0 {
			return base * (1 + m)
		}
	}
	return base
}

// scorerTokens lowercases and splits a sentence into word tokens, folding
// contractions ("don't" -> "dont") so they match the negation list.
func scorerTokens(sent string) []string {
	sent = strings.ToLower(sent)
	sent = strings.Map(func(r rune) rune {
		if r == '\'' || r == '’' {
			return -1
		}
		return r
	}, sent)
	return strings.FieldsFunc(sent, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
