package sentiment

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// DefaultMaxFeatures caps the learned vocabulary size.
const DefaultMaxFeatures = 5000

// A Vectorizer learns a fixed vocabulary with TF-IDF weights from a training
// corpus and turns normalized text into fixed-length feature vectors. It is
// deterministic: fitting twice on the same corpus yields the same vocabulary,
// ordering, and weights.
type Vectorizer struct {
	maxFeatures int
	vocab       map[string]int // term -> vector index
	terms       []string       // vector index -> term
	idf         []float64      // vector index -> inverse document frequency
}

// NewVectorizer creates a Vectorizer keeping at most maxFeatures terms.
// A non-positive maxFeatures selects DefaultMaxFeatures.
func NewVectorizer(maxFeatures int) *Vectorizer {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	return &Vectorizer{maxFeatures: maxFeatures}
}

// Fit learns the vocabulary and IDF weights from a corpus of normalized
// documents. When the corpus is larger than maxFeatures distinct terms, the
// most frequent terms across the corpus win; ties break lexically so repeated
// fits stay stable.
func (v *Vectorizer) Fit(corpus []string) error {
	if len(corpus) == 0 {
		return ErrEmptyCorpus
	}

	totalCounts := make(map[string]int)
	docFreq := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]bool)
		for _, term := range strings.Fields(doc) {
			totalCounts[term]++
			if !seen[term] {
				seen[term] = true
				docFreq[term]++
			}
		}
	}
	if len(totalCounts) == 0 {
		return ErrEmptyCorpus
	}

	selected := make([]string, 0, len(totalCounts))
	for term := range totalCounts {
		selected = append(selected, term)
	}
	sort.Slice(selected, func(i, j int) bool {
		if totalCounts[selected[i]] != totalCounts[selected[j]] {
			return totalCounts[selected[i]] > totalCounts[selected[j]]
		}
		return selected[i] < selected[j]
	})
	if len(selected) > v.maxFeatures {
		selected = selected[:v.maxFeatures]
	}
	// Vector positions are assigned in lexical order, independent of the
	// frequency ranking used for selection.
	sort.Strings(selected)

	nDocs := float64(len(corpus))
	v.terms = selected
	v.vocab = make(map[string]int, len(selected))
	v.idf = make([]float64, len(selected))
	for i, term := range selected {
		v.vocab[term] = i
		// Smoothed IDF; keeps every weight finite even for terms present
		// in all documents.
		v.idf[i] = math.Log((1+nDocs)/(1+float64(docFreq[term]))) + 1
	}
	return nil
}

// Transform converts one normalized document into its TF-IDF vector. Terms
// outside the learned vocabulary contribute nothing. Calling Transform
// before Fit returns ErrNotFitted.
func (v *Vectorizer) Transform(doc string) (*mat.VecDense, error) {
	if v.vocab == nil {
		return nil, ErrNotFitted
	}

	vec := mat.NewVecDense(len(v.terms), nil)
	for _, term := range strings.Fields(doc) {
		if i, ok := v.vocab[term]; ok {
			vec.SetVec(i, vec.AtVec(i)+v.idf[i])
		}
	}
	if norm := mat.Norm(vec, 2); norm > 0 {
		vec.ScaleVec(1/norm, vec)
	}
	return vec, nil
}

// TransformAll converts a batch of documents.
func (v *Vectorizer) TransformAll(docs []string) ([]*mat.VecDense, error) {
	out := make([]*mat.VecDense, len(docs))
	for i, doc := range docs {
		vec, err := v.Transform(doc)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// NumFeatures returns the fixed vector length, 0 before Fit.
func (v *Vectorizer) NumFeatures() int {
	return len(v.terms)
}

// vectorizerState is the serializable form of a fitted Vectorizer.
type vectorizerState struct {
	MaxFeatures int
	Terms       []string
	IDF         []float64
}

func (v *Vectorizer) state() vectorizerState {
	return vectorizerState{
		MaxFeatures: v.maxFeatures,
		Terms:       v.terms,
		IDF:         v.idf,
	}
}

func vectorizerFromState(st vectorizerState) *Vectorizer {
	v := NewVectorizer(st.MaxFeatures)
	v.terms = st.Terms
	v.idf = st.IDF
	v.vocab = make(map[string]int, len(st.Terms))
	for i, term := range st.Terms {
		v.vocab[term] = i
	}
	return v
}
