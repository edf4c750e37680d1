package sentiment

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// ClassifierConfig controls random forest training.
type ClassifierConfig struct {
	Trees        int     // number of trees in the ensemble
	MaxDepth     int     // maximum tree depth
	MinLeaf      int     // minimum samples per leaf
	TestFraction float64 // holdout share for evaluation
	Seed         int64   // seeds bootstrap sampling and the split
}

// DefaultClassifierConfig returns the standard forest configuration. The
// fixed seed makes bootstrap sampling and the train/test partition
// reproducible across runs.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		Trees:        100,
		MaxDepth:     10,
		MinLeaf:      1,
		TestFraction: 0.2,
		Seed:         42,
	}
}

// Evaluation holds holdout metrics from a Fit call.
type Evaluation struct {
	Accuracy    float64
	TestSamples int
	PerClass    map[Label]ClassMetrics
}

// A Forest is an ensemble of decision trees voting on mood labels. Predict
// returns the winning label together with its vote share, so confidence is
// always in (0, 1].
type Forest struct {
	cfg     ClassifierConfig
	classes []Label
	trees   [][]forestNode
}

// forestNode is one node of a serialized decision tree. Leaves have
// Left == -1 and carry the majority class index.
type forestNode struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Class     int
}

// NewForest creates an untrained forest.
func NewForest(cfg ClassifierConfig) *Forest {
	if cfg.Trees <= 0 {
		cfg = DefaultClassifierConfig()
	}
	return &Forest{cfg: cfg}
}

// Fit trains the ensemble. It partitions the dataset 80/20 stratified by
// label using the configured seed, grows the trees on the training share,
// and reports accuracy plus per-class precision/recall/F1 on the holdout.
func (f *Forest) Fit(vectors []*mat.VecDense, labels []Label) (*Evaluation, error) {
	if len(vectors) == 0 || len(vectors) != len(labels) {
		return nil, ErrEmptyCorpus
	}

	f.classes = distinctLabels(labels)
	classIndex := make(map[Label]int, len(f.classes))
	for i, c := range f.classes {
		classIndex[c] = i
	}
	y := make([]int, len(labels))
	for i, l := range labels {
		y[i] = classIndex[l]
	}

	rng := rand.New(rand.NewSource(f.cfg.Seed))
	trainIdx, testIdx := stratifiedSplit(y, len(f.classes), f.cfg.TestFraction, rng)

	nFeatures := vectors[0].Len()
	mtry := int(math.Ceil(math.Sqrt(float64(nFeatures))))
	if mtry < 1 {
		mtry = 1
	}

	f.trees = make([][]forestNode, f.cfg.Trees)
	for t := 0; t < f.cfg.Trees; t++ {
		sample := make([]int, len(trainIdx))
		for i := range sample {
			sample[i] = trainIdx[rng.Intn(len(trainIdx))]
		}
		b := &treeBuilder{
			vectors:  vectors,
			y:        y,
			nClasses: len(f.classes),
			mtry:     mtry,
			maxDepth: f.cfg.MaxDepth,
			minLeaf:  f.cfg.MinLeaf,
			rng:      rng,
		}
		b.grow(sample, 0)
		f.trees[t] = b.nodes
	}

	return f.evaluate(vectors, y, testIdx), nil
}

// Predict returns the ensemble vote for a single feature vector.
func (f *Forest) Predict(vec *mat.VecDense) (Label, float64, error) {
	if len(f.trees) == 0 {
		return Neutral, 0, ErrNotFitted
	}

	votes := make([]int, len(f.classes))
	for _, tree := range f.trees {
		votes[predictTree(tree, vec)]++
	}
	best := 0
	for i := 1; i < len(votes); i++ {
		if votes[i] > votes[best] {
			best = i
		}
	}
	confidence := float64(votes[best]) / float64(len(f.trees))
	return f.classes[best], confidence, nil
}

// Classes returns the label set seen during training, in stable order.
func (f *Forest) Classes() []Label {
	return f.classes
}

// maxFeature returns the highest feature index any split references, or -1
// for a forest of pure leaves. Used to cross-check a restored classifier
// against its vectorizer's feature count.
func (f *Forest) maxFeature() int {
	max := -1
	for _, tree := range f.trees {
		for _, n := range tree {
			if n.Left != -1 && n.Feature > max {
				max = n.Feature
			}
		}
	}
	return max
}

func predictTree(nodes []forestNode, vec *mat.VecDense) int {
	i := 0
	for nodes[i].Left != -1 {
		if vec.AtVec(nodes[i].Feature) <= nodes[i].Threshold {
			i = nodes[i].Left
		} else {
			i = nodes[i].Right
		}
	}
	return nodes[i].Class
}

// evaluate computes holdout metrics using the freshly grown ensemble.
func (f *Forest) evaluate(vectors []*mat.VecDense, y []int, testIdx []int) *Evaluation {
	eval := &Evaluation{
		TestSamples: len(testIdx),
		PerClass:    make(map[Label]ClassMetrics, len(f.classes)),
	}
	if len(testIdx) == 0 {
		return eval
	}

	tp := make([]int, len(f.classes))
	fp := make([]int, len(f.classes))
	fn := make([]int, len(f.classes))
	support := make([]int, len(f.classes))
	correct := 0

	for _, i := range testIdx {
		pred, _, _ := f.Predict(vectors[i])
		predIdx := 0
		for k, c := range f.classes {
			if c == pred {
				predIdx = k
				break
			}
		}
		support[y[i]]++
		if predIdx == y[i] {
			correct++
			tp[predIdx]++
		} else {
			fp[predIdx]++
			fn[y[i]]++
		}
	}

	eval.Accuracy = float64(correct) / float64(len(testIdx))
	for i, c := range f.classes {
		var precision, recall, f1 float64
		if tp[i]+fp[i] > 0 {
			precision = float64(tp[i]) / float64(tp[i]+fp[i])
		}
		if tp[i]+fn[i] > 0 {
			recall = float64(tp[i]) / float64(tp[i]+fn[i])
		}
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
		eval.PerClass[c] = ClassMetrics{
			Precision: precision,
			Recall:    recall,
			F1:        f1,
			Support:   support[i],
		}
	}
	return eval
}

// stratifiedSplit partitions sample indices into train and test sets,
// preserving each class's proportion. Classes are visited in index order and
// shuffled with the supplied rng, so the partition is a pure function of the
// labels and the seed.
func stratifiedSplit(y []int, nClasses int, testFraction float64, rng *rand.Rand) (train, test []int) {
	groups := make([][]int, nClasses)
	for i, c := range y {
		groups[c] = append(groups[c], i)
	}

	for _, group := range groups {
		if len(group) == 0 {
			continue
		}
		rng.Shuffle(len(group), func(i, j int) {
			group[i], group[j] = group[j], group[i]
		})
		nTest := int(math.Round(testFraction * float64(len(group))))
		if nTest == 0 && len(group) >= 2 {
			nTest = 1
		}
		if nTest >= len(group) {
			nTest = len(group) - 1
		}
		test = append(test, group[:nTest]...)
		train = append(train, group[nTest:]...)
	}
	sort.Ints(train)
	sort.Ints(test)
	return train, test
}

func distinctLabels(labels []Label) []Label {
	seen := make(map[Label]bool)
	var out []Label
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// treeBuilder grows one CART-style tree over a bootstrap sample.
type treeBuilder struct {
	vectors  []*mat.VecDense
	y        []int
	nClasses int
	mtry     int
	maxDepth int
	minLeaf  int
	rng      *rand.Rand

	nodes []forestNode
}

// grow builds the subtree for the given samples and returns its node index.
func (b *treeBuilder) grow(samples []int, depth int) int {
	counts := make([]int, b.nClasses)
	for _, i := range samples {
		counts[b.y[i]]++
	}

	if depth >= b.maxDepth || len(samples) < 2*b.minLeaf || isPure(counts) {
		return b.leaf(counts)
	}

	feature, threshold, ok := b.bestSplit(samples, counts)
	if !ok {
		return b.leaf(counts)
	}

	var left, right []int
	for _, i := range samples {
		if b.vectors[i].AtVec(feature) <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < b.minLeaf || len(right) < b.minLeaf {
		return b.leaf(counts)
	}

	idx := len(b.nodes)
	b.nodes = append(b.nodes, forestNode{Feature: feature, Threshold: threshold})
	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.nodes[idx].Left = l
	b.nodes[idx].Right = r
	return idx
}

func (b *treeBuilder) leaf(counts []int) int {
	best := 0
	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[best] {
			best = i
		}
	}
	idx := len(b.nodes)
	b.nodes = append(b.nodes, forestNode{Left: -1, Right: -1, Class: best})
	return idx
}

// bestSplit searches a random subset of features for the gini-optimal
// threshold over the node's samples.
func (b *treeBuilder) bestSplit(samples []int, counts []int) (feature int, threshold float64, ok bool) {
	nFeatures := b.vectors[0].Len()
	parentGini := gini(counts, len(samples))

	bestGain := 0.0
	candidates := b.rng.Perm(nFeatures)[:b.mtry]
	sort.Ints(candidates)

	type valClass struct {
		val float64
		cls int
	}
	for _, feat := range candidates {
		pairs := make([]valClass, len(samples))
		for i, s := range samples {
			pairs[i] = valClass{b.vectors[s].AtVec(feat), b.y[s]}
		}
		sort.Slice(pairs, func(i, j int) bool { return pairs[i].val < pairs[j].val })

		leftCounts := make([]int, b.nClasses)
		rightCounts := make([]int, b.nClasses)
		copy(rightCounts, counts)

		for i := 0; i < len(pairs)-1; i++ {
			leftCounts[pairs[i].cls]++
			rightCounts[pairs[i].cls]--
			if pairs[i].val == pairs[i+1].val {
				continue
			}
			nLeft := i + 1
			nRight := len(pairs) - nLeft
			weighted := (float64(nLeft)*gini(leftCounts, nLeft) +
				float64(nRight)*gini(rightCounts, nRight)) / float64(len(pairs))
			if gain := parentGini - weighted; gain > bestGain {
				bestGain = gain
				feature = feat
				threshold = (pairs[i].val + pairs[i+1].val) / 2
				ok = true
			}
		}
	}
	return feature, threshold, ok
}

func gini(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}
	impurity := 1.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		impurity -= p * p
	}
	return impurity
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

// forestState is the serializable form of a trained Forest.
type forestState struct {
	Config  ClassifierConfig
	Classes []Label
	Trees   [][]forestNode
}

func (f *Forest) state() forestState {
	return forestState{Config: f.cfg, Classes: f.classes, Trees: f.trees}
}

func forestFromState(st forestState) *Forest {
	return &Forest{cfg: st.Config, classes: st.Classes, trees: st.Trees}
}
