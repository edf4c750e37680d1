package sentiment

// lexicon holds the word lists behind the training-free polarity scorer.
// Scores live in [-1, 1]. The vocabulary skews toward the language of
// personal journaling (feelings, days, events) rather than product reviews.
type lexicon struct {
	words     map[string]float64
	modifiers map[string]float64 // >0 intensifies, <0 diminishes
	negations map[string]bool
}

func newLexicon() *lexicon {
	return &lexicon{
		words:     lexiconWords,
		modifiers: lexiconModifiers,
		negations: lexiconNegations,
	}
}

// score returns the base polarity for a word, 0 when unknown.
func (l *lexicon) score(word string) float64 {
	return l.words[word]
}

// modifierStrength returns the intensifier factor for a word, 0 when the
// word is not a modifier.
func (l *lexicon) modifierStrength(word string) float64 {
	return l.modifiers[word]
}

// isNegation reports whether a word inverts the polarity of what follows.
func (l *lexicon) isNegation(word string) bool {
	return l.negations[word]
}

var lexiconWords = map[string]float64{
	// Strong positive
	"wonderful":   0.85,
	"amazing":     0.85,
	"fantastic":   0.85,
	"excellent":   0.9,
	"perfect":     0.95,
	"incredible":  0.85,
	"brilliant":   0.85,
	"outstanding": 0.9,
	"thrilled":    0.85,
	"ecstatic":    0.9,
	"overjoyed":   0.9,
	"delighted":   0.8,
	"blessed":     0.75,
	"grateful":    0.75,
	"joyful":      0.8,
	"best":        0.85,

	// Moderate positive
	"good":      0.6,
	"great":     0.75,
	"happy":     0.7,
	"love":      0.8,
	"loved":     0.8,
	"enjoy":     0.65,
	"enjoyed":   0.65,
	"beautiful": 0.75,
	"nice":      0.5,
	"pleasant":  0.6,
	"fun":       0.65,
	"relaxed":   0.55,
	"peaceful":  0.6,
	"proud":     0.65,
	"excited":   0.7,
	"hopeful":   0.6,
	"better":    0.5,
	"positive":  0.6,
	"calm":      0.5,
	"like":      0.5,

	// Mild positive
	"okay": 0.2,
	"fine": 0.3,
	"well": 0.3,

	// Strong negative
	"terrible":   -0.9,
	"awful":      -0.85,
	"horrible":   -0.85,
	"miserable":  -0.85,
	"devastated": -0.9,
	"hopeless":   -0.85,
	"unbearable": -0.85,
	"worst":      -0.85,
	"hate":       -0.8,
	"hated":      -0.8,
	"dreadful":   -0.85,
	"exhausted":  -0.65,

	// Moderate negative
	"bad":          -0.6,
	"sad":          -0.7,
	"angry":        -0.7,
	"upset":        -0.65,
	"anxious":      -0.65,
	"worried":      -0.6,
	"stressed":     -0.65,
	"depressed":    -0.8,
	"lonely":       -0.7,
	"frustrated":   -0.65,
	"disappointed": -0.7,
	"tired":        -0.45,
	"afraid":       -0.6,
	"scared":       -0.65,
	"hurt":         -0.65,
	"guilty":       -0.6,
	"worse":        -0.5,
	"negative":     -0.6,
	"annoyed":      -0.55,
	"cry":          -0.6,
	"cried":        -0.6,
	"fail":         -0.7,
	"failed":       -0.7,
	"failure":      -0.75,
	"wrong":        -0.6,
	"sick":         -0.55,
	"pain":         -0.6,

	// Mild / context dependent
	"busy":    -0.2,
	"hard":    -0.2,
	"slow":    -0.3,
	"boring":  -0.6,
	"strange": -0.2,
	"quiet":   0.1,
	"new":     0.2,
}

var lexiconModifiers = map[string]float64{
	// Intensifiers
	"very":       0.3,
	"really":     0.3,
	"so":         0.3,
	"extremely":  0.5,
	"absolutely": 0.5,
	"incredibly": 0.5,
	"totally":    0.4,
	"completely": 0.4,
	"truly":      0.3,
	"deeply":     0.4,

	// Diminishers
	"slightly": -0.4,
	"somewhat": -0.3,
	"bit":      -0.3, // "a bit"
	"kind":     -0.2, // "kind of"
	"barely":   -0.5,
	"hardly":   -0.5,
	"little":   -0.3,
}

var lexiconNegations = map[string]bool{
	"not":     true,
	"no":      true,
	"never":   true,
	"neither": true,
	"nobody":  true,
	"nothing": true,
	"cannot":  true,
	"cant":    true,
	"dont":    true,
	"didnt":   true,
	"doesnt":  true,
	"wasnt":   true,
	"werent":  true,
	"isnt":    true,
	"arent":   true,
	"wont":    true,
	"without": true,
}
