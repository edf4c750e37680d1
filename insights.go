package sentiment

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Thresholds for trend and stability classification. Fixed constants; the
// reports they produce are compared numerically across implementations.
const (
	trendWindow        = 7
	trendDelta         = 0.1
	stabilityThreshold = 0.3
)

// An InsightsAggregator computes descriptive and trend statistics over a
// user's scored journal history. It is pure: no state, no side effects.
type InsightsAggregator struct{}

// NewInsightsAggregator returns an aggregator.
func NewInsightsAggregator() *InsightsAggregator {
	return &InsightsAggregator{}
}

// Aggregate summarizes entries ordered oldest to newest. Labels in the
// distribution are recomputed from each entry's stored sentiment rather than
// trusted from storage, so drifted stored labels cannot skew the counts.
func (a *InsightsAggregator) Aggregate(entries []JournalEntry) InsightsReport {
	if len(entries) == 0 {
		return InsightsReport{
			Status:  StatusNoData,
			Message: "no journal entries found",
		}
	}

	scores := make([]float64, len(entries))
	distribution := make(map[Label]int, 3)
	for i, entry := range entries {
		scores[i] = entry.Sentiment
		distribution[LabelForScore(entry.Sentiment)]++
	}

	mean := stat.Mean(scores, nil)
	// Population standard deviation: journals are the whole population of
	// interest, not a sample from one.
	std := math.Sqrt(stat.MomentAbout(2, scores, mean, nil))

	recent := scores
	if len(scores) > trendWindow {
		recent = scores[len(scores)-trendWindow:]
	}
	recentAvg := stat.Mean(recent, nil)

	// With fewer than two full windows there is no older period to compare
	// against, and the trend defaults to stable.
	olderAvg := recentAvg
	if len(scores) >= 2*trendWindow {
		older := scores[len(scores)-2*trendWindow : len(scores)-trendWindow]
		olderAvg = stat.Mean(older, nil)
	}

	trend := TrendStable
	switch {
	case recentAvg > olderAvg+trendDelta:
		trend = TrendImproving
	case recentAvg < olderAvg-trendDelta:
		trend = TrendDeclining
	}

	stability := StabilityStable
	if std >= stabilityThreshold {
		stability = StabilityVariable
	}

	return InsightsReport{
		Status:           StatusSuccess,
		TotalEntries:     len(entries),
		AverageSentiment: mean,
		SentimentStd:     std,
		Distribution:     distribution,
		RecentAverage:    recentAvg,
		Trend:            trend,
		MoodStability:    stability,
	}
}
