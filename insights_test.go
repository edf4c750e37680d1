package sentiment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// entriesWithScores builds an ordered journal, oldest first, one entry per
// day ending today.
func entriesWithScores(scores []float64) []JournalEntry {
	entries := make([]JournalEntry, len(scores))
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, s := range scores {
		entries[i] = JournalEntry{
			Sentiment: s,
			CreatedAt: start.AddDate(0, 0, i),
		}
	}
	return entries
}

func TestAggregate_NoData(t *testing.T) {
	a := NewInsightsAggregator()
	report := a.Aggregate(nil)
	assert.Equal(t, StatusNoData, report.Status)
	assert.NotEmpty(t, report.Message)
}

func TestAggregate_ImprovingTrend(t *testing.T) {
	// 20 entries rising steadily from -0.5 to 0.5.
	scores := make([]float64, 20)
	for i := range scores {
		scores[i] = -0.5 + float64(i)/19.0
	}

	report := NewInsightsAggregator().Aggregate(entriesWithScores(scores))
	require.Equal(t, StatusSuccess, report.Status)
	assert.Equal(t, TrendImproving, report.Trend)
	assert.Equal(t, 20, report.TotalEntries)
}

func TestAggregate_DecliningTrend(t *testing.T) {
	scores := make([]float64, 20)
	for i := range scores {
		scores[i] = 0.5 - float64(i)/19.0
	}

	report := NewInsightsAggregator().Aggregate(entriesWithScores(scores))
	assert.Equal(t, TrendDeclining, report.Trend)
}

func TestAggregate_FlatJournal(t *testing.T) {
	scores := make([]float64, 20) // all zero

	report := NewInsightsAggregator().Aggregate(entriesWithScores(scores))
	require.Equal(t, StatusSuccess, report.Status)
	assert.Equal(t, 0.0, report.SentimentStd)
	assert.Equal(t, 0.0, report.AverageSentiment)
	assert.Equal(t, StabilityStable, report.MoodStability)
	assert.Equal(t, TrendStable, report.Trend)
	assert.Equal(t, map[Label]int{Neutral: 20}, report.Distribution)
}

func TestAggregate_PopulationStdDev(t *testing.T) {
	// Population std of {-0.4, 0.4} is 0.4 (sample std would be ~0.566).
	report := NewInsightsAggregator().Aggregate(entriesWithScores([]float64{-0.4, 0.4}))
	assert.InDelta(t, 0.4, report.SentimentStd, 1e-12)
}

func TestAggregate_VariableMood(t *testing.T) {
	report := NewInsightsAggregator().Aggregate(entriesWithScores([]float64{
		0.9, -0.9, 0.8, -0.8, 0.9, -0.9, 0.8, -0.8,
	}))
	assert.Equal(t, StabilityVariable, report.MoodStability)
}

func TestAggregate_DistributionRecomputedFromScores(t *testing.T) {
	entries := entriesWithScores([]float64{0.6, -0.6, 0.0, 0.5})
	// Storage labels have drifted; they must not be trusted.
	for i := range entries {
		entries[i].Mood = Negative
	}

	report := NewInsightsAggregator().Aggregate(entries)
	assert.Equal(t, map[Label]int{Positive: 2, Negative: 1, Neutral: 1}, report.Distribution)
}

func TestAggregate_ShortJournalTrendDefaultsToStable(t *testing.T) {
	// 13 entries: a recent window exists but no full older window.
	scores := make([]float64, 13)
	for i := range scores {
		scores[i] = float64(i) * 0.07 // clearly rising
	}

	report := NewInsightsAggregator().Aggregate(entriesWithScores(scores))
	assert.Equal(t, TrendStable, report.Trend)
}

func TestAggregate_RecentAverageUsesLastSeven(t *testing.T) {
	scores := []float64{0, 0, 0, 0, 0, 0, 0, 0.7, 0.7, 0.7, 0.7, 0.7, 0.7, 0.7}

	report := NewInsightsAggregator().Aggregate(entriesWithScores(scores))
	assert.InDelta(t, 0.7, report.RecentAverage, 1e-12)
	assert.Equal(t, TrendImproving, report.Trend)
}

func TestAggregate_SingleEntry(t *testing.T) {
	report := NewInsightsAggregator().Aggregate(entriesWithScores([]float64{0.3}))
	require.Equal(t, StatusSuccess, report.Status)
	assert.Equal(t, 1, report.TotalEntries)
	assert.Equal(t, 0.3, report.AverageSentiment)
	assert.Equal(t, TrendStable, report.Trend)
	assert.Equal(t, StabilityStable, report.MoodStability)
}
