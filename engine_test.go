package sentiment

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ModelDir = t.TempDir()
	return NewEngine(cfg)
}

// trainingEntries is a ten-entry journal spanning both label classes.
func trainingEntries() []JournalEntry {
	texts := []struct {
		content   string
		sentiment float64
	}{
		{"I had a wonderful day and felt happy", 0.6},
		{"Today was amazing and I was so happy", 0.7},
		{"Feeling happy and grateful for everything", 0.8},
		{"A happy peaceful morning out with my family", 0.5},
		{"Great news at work made me really happy today", 0.6},
		{"Happy and excited about the upcoming trip", 0.7},
		{"A terrible day when everything went wrong", -0.7},
		{"I felt sad and lonely for most of the evening", -0.6},
		{"A horrible stressful meeting ruined my mood", -0.8},
		{"Angry and frustrated about work again", -0.5},
	}
	entries := make([]JournalEntry, len(texts))
	for i, tt := range texts {
		entries[i] = JournalEntry{Content: tt.content, Sentiment: tt.sentiment}
	}
	return entries
}

func TestEngine_PredictUntrained(t *testing.T) {
	e := testEngine(t)

	result := e.Predict("I had a wonderful day")
	assert.Equal(t, MethodLexicon, result.Method)
	assert.Equal(t, Positive, result.Label)
	assert.GreaterOrEqual(t, result.Sentiment, -1.0)
	assert.LessOrEqual(t, result.Sentiment, 1.0)
	assert.Nil(t, result.LexiconSentiment)
}

func TestEngine_PredictIsTotal(t *testing.T) {
	e := testEngine(t)
	for _, text := range []string{"", "   ", "!!!", "okay", "this is a long journal entry about nothing in particular"} {
		result := e.Predict(text)
		assert.GreaterOrEqual(t, result.Sentiment, -1.0)
		assert.LessOrEqual(t, result.Sentiment, 1.0)
		assert.NotEmpty(t, result.Label)
		assert.GreaterOrEqual(t, result.Confidence, 0.0)
		assert.LessOrEqual(t, result.Confidence, 1.0)
	}
}

func TestEngine_TrainInsufficientData(t *testing.T) {
	e := testEngine(t)

	report := e.Train(trainingEntries()[:9])
	assert.Equal(t, StatusInsufficientData, report.Status)
	assert.False(t, e.Trained(), "a failed training must not change engine state")

	// Entries without content do not count toward the minimum.
	entries := trainingEntries()
	entries[0].Content = ""
	entries[1].Content = "   "
	report = e.Train(entries)
	assert.Equal(t, StatusInsufficientData, report.Status)
	assert.False(t, e.Trained())
}

func TestEngine_TrainSuccess(t *testing.T) {
	e := testEngine(t)

	report := e.Train(trainingEntries())
	require.Equal(t, StatusSuccess, report.Status, report.Message)

	assert.Equal(t, 10, report.TrainingSamples+report.TestSamples)
	assert.GreaterOrEqual(t, report.Accuracy, 0.0)
	assert.LessOrEqual(t, report.Accuracy, 1.0)
	assert.NotEmpty(t, report.ClassReport)
	assert.True(t, e.Trained())
}

func TestEngine_PredictTrained(t *testing.T) {
	e := testEngine(t)
	require.Equal(t, StatusSuccess, e.Train(trainingEntries()).Status)

	result := e.Predict("I am so happy today")
	assert.Equal(t, MethodTrainedModel, result.Method)
	assert.Equal(t, Positive, result.Label)
	assert.Greater(t, result.Confidence, 0.0)
	assert.LessOrEqual(t, result.Confidence, 1.0)

	// The lexicon comparison score always rides along on the trained path.
	require.NotNil(t, result.LexiconSentiment)
	require.NotNil(t, result.LexiconLabel)
	assert.Equal(t, LabelForScore(*result.LexiconSentiment), *result.LexiconLabel)
}

func TestEngine_TrainingLabelsDerivedFromStoredSentiment(t *testing.T) {
	// The stored sentiment float, not the text, decides the training label.
	// An entry with cheerful text but a negative stored score trains as
	// negative; the model intentionally learns to reproduce earlier scoring,
	// not ground truth.
	entries := trainingEntries()
	entries[5].Sentiment = -0.9 // cheerful text, negative label

	e := testEngine(t)
	report := e.Train(entries)
	assert.Equal(t, StatusSuccess, report.Status)
}

func TestEngine_TrainErrorKeepsOldArtifact(t *testing.T) {
	e := testEngine(t)
	require.Equal(t, StatusSuccess, e.Train(trainingEntries()).Status)
	before := e.Predict("I am so happy today")

	// All-numeric content survives the non-empty check but normalizes to
	// nothing, so the vectorizer has no corpus to fit.
	degenerate := make([]JournalEntry, 10)
	for i := range degenerate {
		degenerate[i] = JournalEntry{Content: "12345 67890", Sentiment: 0.5}
	}
	report := e.Train(degenerate)
	assert.Equal(t, StatusError, report.Status)
	assert.NotEmpty(t, report.Message)

	// The previous model is still authoritative.
	after := e.Predict("I am so happy today")
	assert.Equal(t, MethodTrainedModel, after.Method)
	assert.Equal(t, before.Label, after.Label)
	assert.Equal(t, before.Confidence, after.Confidence)
}

func TestEngine_RetrainReplacesArtifact(t *testing.T) {
	e := testEngine(t)
	require.Equal(t, StatusSuccess, e.Train(trainingEntries()).Status)
	require.Equal(t, StatusSuccess, e.Train(trainingEntries()).Status)
	assert.True(t, e.Trained())
}

func TestEngine_LoadAbsent(t *testing.T) {
	e := testEngine(t)
	assert.False(t, e.Load())
	assert.False(t, e.Trained())
}

func TestEngine_LoadCorruptIsNonFatal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModelDir = t.TempDir()

	first := NewEngine(cfg)
	require.Equal(t, StatusSuccess, first.Train(trainingEntries()).Status)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.ModelDir, classifierFile), []byte("junk"), 0o644))

	second := NewEngine(cfg)
	assert.False(t, second.Load())

	// Degraded but alive: predictions fall back to the lexicon.
	result := second.Predict("I had a wonderful day")
	assert.Equal(t, MethodLexicon, result.Method)
}

// A classifier paired with a vectorizer from a different training would
// index features past the end of every transformed vector. Predict must
// absorb the resulting panic and serve the lexicon fallback.
func TestEngine_PredictRecoversFromMismatchedModel(t *testing.T) {
	e := testEngine(t)

	vec := NewVectorizer(0)
	require.NoError(t, vec.Fit([]string{"happi day", "sad night"}))
	e.model.Store(&artifact{vectorizer: vec, classifier: wideForest()})

	result := e.Predict("what a happy day")
	assert.Equal(t, MethodTrainedFallback, result.Method)
	assert.Equal(t, LabelForScore(result.Sentiment), result.Label)
	assert.GreaterOrEqual(t, result.Sentiment, -1.0)
	assert.LessOrEqual(t, result.Sentiment, 1.0)
}

func TestEngine_LoadMismatchedPairIsNonFatal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModelDir = t.TempDir()

	vec := NewVectorizer(0)
	require.NoError(t, vec.Fit([]string{"happi day", "sad night"}))
	require.NoError(t, NewModelStore(cfg.ModelDir, zerolog.Nop()).Save(vec, wideForest()))

	e := NewEngine(cfg)
	assert.False(t, e.Load())
	assert.False(t, e.Trained())
	assert.Equal(t, MethodLexicon, e.Predict("I had a wonderful day").Method)
}

func TestEngine_PersistedModelRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModelDir = t.TempDir()

	first := NewEngine(cfg)
	require.Equal(t, StatusSuccess, first.Train(trainingEntries()).Status)
	want := first.Predict("grateful for a peaceful happy evening")

	second := NewEngine(cfg)
	require.True(t, second.Load())
	got := second.Predict("grateful for a peaceful happy evening")

	assert.Equal(t, MethodTrainedModel, got.Method)
	assert.Equal(t, want.Label, got.Label)
	assert.Equal(t, want.Confidence, got.Confidence)
}

func TestEngine_Insights(t *testing.T) {
	e := testEngine(t)

	assert.Equal(t, StatusNoData, e.Insights(nil).Status)

	report := e.Insights(trainingEntries())
	require.Equal(t, StatusSuccess, report.Status)
	assert.Equal(t, 10, report.TotalEntries)
	assert.Equal(t, 6, report.Distribution[Positive])
	assert.Equal(t, 4, report.Distribution[Negative])
}

func TestEngine_ConcurrentPredictDuringTrain(t *testing.T) {
	e := testEngine(t)
	entries := trainingEntries()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 5; i++ {
			e.Train(entries)
		}
	}()

	for i := 0; i < 200; i++ {
		result := e.Predict("I am so happy today")
		// Every reader sees a whole artifact or none: the method is either
		// pure lexicon (no model yet) or fully trained, never an error.
		assert.Contains(t, []Method{MethodLexicon, MethodTrainedModel}, result.Method)
		assert.GreaterOrEqual(t, result.Confidence, 0.0)
		assert.LessOrEqual(t, result.Confidence, 1.0)
	}
	wg.Wait()
}
