package sentiment

import (
	"time"

	"github.com/google/uuid"
)

// Label is a coarse mood category derived from a polarity score.
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

// Method identifies which path produced a prediction.
type Method string

const (
	// MethodLexicon means the lexicon scorer produced the result because no
	// trained model was available.
	MethodLexicon Method = "lexicon"

	// MethodTrainedModel means the trained classifier produced the label.
	MethodTrainedModel Method = "trained_model"

	// MethodTrainedFallback means the trained path failed mid-prediction and
	// the lexicon scorer supplied the result instead.
	MethodTrainedFallback Method = "trained_model_fallback"
)

// Trend describes the direction of recent sentiment relative to older entries.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// Stability describes how much sentiment varies across a journal.
type Stability string

const (
	StabilityStable   Stability = "stable"
	StabilityVariable Stability = "variable"
)

// Status reports the outcome of a training or insights request.
type Status string

const (
	StatusSuccess          Status = "success"
	StatusInsufficientData Status = "insufficient_data"
	StatusNoData           Status = "no_data"
	StatusError            Status = "error"
)

// A JournalEntry is the engine's read-only view of a stored journal record.
// The storage layer owns these; the engine only derives values from them.
type JournalEntry struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content"`
	Sentiment float64   `json:"sentiment"`
	Mood      Label     `json:"mood_category"`
	CreatedAt time.Time `json:"created_at"`
}

// A Result holds a single prediction. Sentiment is the continuous polarity
// estimate in [-1, 1]; Label is the authoritative mood category. When a
// trained model produced the label, LexiconSentiment and LexiconLabel carry
// the lexicon scorer's independent estimate for comparison.
type Result struct {
	Sentiment  float64 `json:"sentiment"`
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
	Method     Method  `json:"method"`

	LexiconSentiment *float64 `json:"lexicon_sentiment,omitempty"`
	LexiconLabel     *Label   `json:"lexicon_label,omitempty"`
}

// ClassMetrics holds per-label evaluation figures from a training run.
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// A TrainingReport summarizes one training invocation.
type TrainingReport struct {
	Status          Status                 `json:"status"`
	Accuracy        float64                `json:"accuracy,omitempty"`
	TrainingSamples int                    `json:"training_samples,omitempty"`
	TestSamples     int                    `json:"test_samples,omitempty"`
	ClassReport     map[Label]ClassMetrics `json:"per_class_metrics,omitempty"`
	Message         string                 `json:"message,omitempty"`
}

// An InsightsReport summarizes the longitudinal mood statistics of a journal.
type InsightsReport struct {
	Status           Status        `json:"status"`
	TotalEntries     int           `json:"total_entries,omitempty"`
	AverageSentiment float64       `json:"average_sentiment,omitempty"`
	SentimentStd     float64       `json:"sentiment_std,omitempty"`
	Distribution     map[Label]int `json:"distribution,omitempty"`
	RecentAverage    float64       `json:"recent_average,omitempty"`
	Trend            Trend         `json:"trend,omitempty"`
	MoodStability    Stability     `json:"mood_stability,omitempty"`
	Message          string        `json:"message,omitempty"`
}

// labelThreshold is the polarity magnitude beyond which a score stops being
// neutral. Shared by the lexicon path, training-label derivation, and
// insight aggregation.
const labelThreshold = 0.1

// LabelForScore maps a polarity score to its mood category. Pure function;
// every component that derives a label from a float goes through here.
func LabelForScore(score float64) Label {
	switch {
	case score > labelThreshold:
		return Positive
	case score < -labelThreshold:
		return Negative
	default:
		return Neutral
	}
}
