package sentiment

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// MinTrainingEntries is the smallest journal that can train a model.
const MinTrainingEntries = 10

// Config configures an Engine. All resources are passed in explicitly; the
// engine reads nothing from the environment.
type Config struct {
	// ModelDir is where trained artifacts are persisted and restored from.
	ModelDir string

	// MaxFeatures caps the vectorizer vocabulary.
	MaxFeatures int

	// Classifier controls random forest training.
	Classifier ClassifierConfig

	// Logger receives structured engine events. Defaults to a no-op logger.
	Logger zerolog.Logger
}

// DefaultConfig returns the standard engine configuration.
func DefaultConfig() Config {
	return Config{
		ModelDir:    "models",
		MaxFeatures: DefaultMaxFeatures,
		Classifier:  DefaultClassifierConfig(),
		Logger:      zerolog.Nop(),
	}
}

// artifact is one immutable trained vectorizer/classifier pair. The engine
// swaps whole pairs; predictions never observe a half-replaced model.
type artifact struct {
	vectorizer *Vectorizer
	classifier *Forest
}

// An Engine orchestrates mood prediction, training, and insight generation
// for one process. Until a model has been trained (or restored via Load),
// predictions come from the lexicon scorer; afterwards the trained
// classifier is authoritative and the lexicon score rides along for
// comparison.
//
// Concurrent use is safe: Predict reads the current artifact through an
// atomic pointer and never blocks, while Train serializes with other Train
// calls and publishes a new artifact only after every fit step succeeded.
type Engine struct {
	cfg        Config
	logger     zerolog.Logger
	normalizer *Normalizer
	scorer     *LexiconScorer
	store      *ModelStore
	aggregator *InsightsAggregator

	trainMu sync.Mutex
	model   atomic.Pointer[artifact]
}

// NewEngine creates an engine in the untrained state. Call Load to restore a
// previously persisted model.
func NewEngine(cfg Config) *Engine {
	if cfg.ModelDir == "" {
		cfg.ModelDir = DefaultConfig().ModelDir
	}
	if cfg.MaxFeatures <= 0 {
		cfg.MaxFeatures = DefaultMaxFeatures
	}
	if cfg.Classifier.Trees <= 0 {
		cfg.Classifier = DefaultClassifierConfig()
	}
	return &Engine{
		cfg:        cfg,
		logger:     cfg.Logger,
		normalizer: NewNormalizer(),
		scorer:     NewLexiconScorer(),
		store:      NewModelStore(cfg.ModelDir, cfg.Logger),
		aggregator: NewInsightsAggregator(),
	}
}

// Trained reports whether a model artifact is currently active.
func (e *Engine) Trained() bool {
	return e.model.Load() != nil
}

// Load restores the persisted model pair, if any, and reports whether one
// was found and activated. A corrupt or unreadable artifact is logged and
// treated as absent; the engine keeps serving lexicon predictions.
func (e *Engine) Load() bool {
	vec, clf, err := e.store.Load()
	if err != nil {
		e.logger.Warn().Err(err).Msg("could not restore model artifacts")
		return false
	}
	if vec == nil || clf == nil {
		return false
	}
	e.model.Store(&artifact{vectorizer: vec, classifier: clf})
	return true
}

// Predict scores one piece of text. It is total: every input yields a
// Result, degrading from the trained model to the lexicon scorer when
// anything goes wrong mid-prediction.
func (e *Engine) Predict(text string) Result {
	lexScore := e.scorer.Score(text)

	model := e.model.Load()
	if model == nil || strings.TrimSpace(text) == "" {
		return lexiconResult(lexScore, MethodLexicon)
	}

	result, err := e.predictTrained(model, text, lexScore)
	if err != nil {
		e.logger.Warn().Err(err).Msg("trained prediction failed, using lexicon fallback")
		return lexiconResult(lexScore, MethodTrainedFallback)
	}
	return result
}

func (e *Engine) predictTrained(model *artifact, text string, lexScore float64) (result Result, err error) {
	// A classifier paired with the wrong vectorizer can index features the
	// vector does not have, which panics inside the matrix code. Predict
	// stays total: the panic becomes an error and the lexicon serves the call.
	defer func() {
		if r := recover(); r != nil {
			result = Result{}
			err = fmt.Errorf("trained prediction panicked: %v", r)
		}
	}()

	vec, err := model.vectorizer.Transform(e.normalizer.Normalize(text))
	if err != nil {
		return Result{}, err
	}
	label, confidence, err := model.classifier.Predict(vec)
	if err != nil {
		return Result{}, err
	}

	lexLabel := LabelForScore(lexScore)
	return Result{
		Sentiment:        lexScore,
		Label:            label,
		Confidence:       confidence,
		Method:           MethodTrainedModel,
		LexiconSentiment: &lexScore,
		LexiconLabel:     &lexLabel,
	}, nil
}

func lexiconResult(score float64, method Method) Result {
	return Result{
		Sentiment:  score,
		Label:      LabelForScore(score),
		Confidence: math.Abs(score),
		Method:     method,
	}
}

// Train fits a new model on the user's journal. Training labels are derived
// from each entry's stored sentiment score, not re-scored from the text, so
// the supervised model bootstraps off whichever path scored the entry
// originally. On any failure the previously active model, if any, stays in
// use untouched.
func (e *Engine) Train(entries []JournalEntry) TrainingReport {
	e.trainMu.Lock()
	defer e.trainMu.Unlock()

	if len(entries) < MinTrainingEntries {
		return TrainingReport{
			Status:  StatusInsufficientData,
			Message: "need at least 10 journal entries to train the model",
		}
	}

	texts := make([]string, 0, len(entries))
	labels := make([]Label, 0, len(entries))
	for _, entry := range entries {
		if strings.TrimSpace(entry.Content) == "" {
			continue
		}
		texts = append(texts, e.normalizer.Normalize(entry.Content))
		labels = append(labels, LabelForScore(entry.Sentiment))
	}
	if len(texts) < MinTrainingEntries {
		return TrainingReport{
			Status:  StatusInsufficientData,
			Message: "need at least 10 journal entries with content",
		}
	}

	vectorizer, classifier, eval, err := e.fitModel(texts, labels)
	if err != nil {
		return e.trainingError("model fit failed", err)
	}

	if err := e.store.Save(vectorizer, classifier); err != nil {
		return e.trainingError("artifact save failed", err)
	}

	// Publish only after fit, evaluate, and save all succeeded.
	e.model.Store(&artifact{vectorizer: vectorizer, classifier: classifier})

	e.logger.Info().
		Int("samples", len(texts)).
		Int("test_samples", eval.TestSamples).
		Float64("accuracy", eval.Accuracy).
		Msg("model trained")

	return TrainingReport{
		Status:          StatusSuccess,
		Accuracy:        eval.Accuracy,
		TrainingSamples: len(texts) - eval.TestSamples,
		TestSamples:     eval.TestSamples,
		ClassReport:     eval.PerClass,
	}
}

// fitModel runs the fit pipeline. A panic anywhere in it surfaces as an
// error, so Train reports StatusError instead of unwinding through the
// caller.
func (e *Engine) fitModel(texts []string, labels []Label) (vec *Vectorizer, clf *Forest, eval *Evaluation, err error) {
	defer func() {
		if r := recover(); r != nil {
			vec, clf, eval = nil, nil, nil
			err = fmt.Errorf("panic during fit: %v", r)
		}
	}()

	vec = NewVectorizer(e.cfg.MaxFeatures)
	if err := vec.Fit(texts); err != nil {
		return nil, nil, nil, fmt.Errorf("vectorizer fit: %w", err)
	}
	vectors, err := vec.TransformAll(texts)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("vectorization: %w", err)
	}

	clf = NewForest(e.cfg.Classifier)
	eval, err = clf.Fit(vectors, labels)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("classifier fit: %w", err)
	}
	return vec, clf, eval, nil
}

func (e *Engine) trainingError(msg string, err error) TrainingReport {
	e.logger.Error().Err(err).Msg(msg)
	return TrainingReport{
		Status:  StatusError,
		Message: msg + ": " + err.Error(),
	}
}

// Insights summarizes a journal ordered oldest to newest. Pure; no engine
// state is read or written.
func (e *Engine) Insights(entries []JournalEntry) InsightsReport {
	return e.aggregator.Aggregate(entries)
}
