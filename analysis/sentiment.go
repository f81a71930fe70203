package analysis

import (
	"fmt"
	"sort"

	"github.com/michaWorku/news-sentiment-stock-analysis/models"
	"github.com/michaWorku/news-sentiment-stock-analysis/observability"

	"github.com/jonreiter/govader"
)

// ScoredHeadline pairs one news record with its polarity score.
type ScoredHeadline struct {
	Date     models.Date `json:"date"`
	Headline string      `json:"headline"`
	Score    float64     `json:"score"`
}

// Scorer assigns a polarity score in [-1, 1] to text using the VADER
// lexical model. The zero value is not usable; construct with
// NewScorer.
type Scorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewScorer builds a Scorer with the standard English lexicon.
func NewScorer() *Scorer {
	return &Scorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the compound polarity of the text. A scoring failure
// is recovered here rather than aborting the batch: the text scores
// 0.0 neutral, the reason is logged, and the failure counter is
// incremented.
func (s *Scorer) Score(text string) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			observability.Warn("sentiment scoring failed, substituting neutral",
				"reason", fmt.Sprint(r))
			observability.GetMetrics().RecordScoringFailure("panic")
			score = 0.0
		}
	}()
	return s.analyzer.PolarityScores(text).Compound
}

// ScoreHeadlines scores every news record's headline.
func (s *Scorer) ScoreHeadlines(records []models.NewsRecord) []ScoredHeadline {
	scored := make([]ScoredHeadline, len(records))
	for i, r := range records {
		scored[i] = ScoredHeadline{
			Date:     r.Date,
			Headline: r.Headline,
			Score:    s.Score(r.Headline),
		}
	}
	observability.GetMetrics().RecordHeadlinesScored(len(records))
	return scored
}

// AggregateDaily reduces per-headline scores to one arithmetic mean
// per calendar date, ascending by date. Records with a missing date
// are skipped; dates with no scored records do not appear.
func AggregateDaily(scored []ScoredHeadline) models.TimeSeries {
	sums := make(map[models.Date]float64)
	counts := make(map[models.Date]int)
	for _, sh := range scored {
		if sh.Date.IsZero() {
			continue
		}
		sums[sh.Date] += sh.Score
		counts[sh.Date]++
	}

	series := make(models.TimeSeries, 0, len(sums))
	for date, sum := range sums {
		series = append(series, models.Point{Date: date, Value: sum / float64(counts[date])})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	return series
}
