package analysis

import (
	"fmt"

	"github.com/michaWorku/news-sentiment-stock-analysis/dataset"
	"github.com/michaWorku/news-sentiment-stock-analysis/models"
	"github.com/michaWorku/news-sentiment-stock-analysis/observability"
)

// Pipeline runs the full analysis over one price table and one news
// table: clean, align, indicators and returns, sentiment, correlation,
// and the descriptive extras, assembled into an AnalysisReport.
// Stages run sequentially; each consumes fully materialized inputs
// and produces new data.
type Pipeline struct {
	scorer  *Scorer
	windows Windows
	topN    int
}

// NewPipeline creates a Pipeline. A nil scorer gets the default VADER
// scorer. topN bounds the keyword and publisher rankings.
func NewPipeline(scorer *Scorer, windows Windows, topN int) *Pipeline {
	if scorer == nil {
		scorer = NewScorer()
	}
	return &Pipeline{scorer: scorer, windows: windows, topN: topN}
}

// Run executes the stages in order and assembles the report.
//
// Indicators and the financial summary cover the full cleaned price
// history; the return and sentiment series that feed the correlation
// cover only the dates both tables share. A correlation precondition
// failure is recorded on the report rather than aborting the run. A
// panic in any stage fails the report and is returned as an error.
func (p *Pipeline) Run(symbol string, prices []models.PriceRecord, news []models.NewsRecord) (report *models.AnalysisReport, err error) {
	report = models.NewAnalysisReport(symbol)
	metrics := observability.GetMetrics()
	log := observability.WithSymbol(symbol)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("analysis run failed: %v", r)
			report.Fail(err)
			metrics.RecordPipelineRun(string(models.ReportStatusFailed))
			log.Error("analysis run failed", "run_id", report.ID, "reason", fmt.Sprint(r))
		}
	}()

	log.Info("starting analysis",
		"run_id", report.ID,
		"price_rows", len(prices),
		"news_rows", len(news))
	report.PriceRows = len(prices)
	report.NewsRows = len(news)

	timer := metrics.NewTimer()
	cleaned := models.SortPricesByDate(dataset.CleanPrices(prices))
	timer.ObserveStage("clean")
	if dropped := len(prices) - len(cleaned); dropped > 0 {
		log.Debug("dropped incomplete price rows", "dropped", dropped, "kept", len(cleaned))
	}

	timer = metrics.NewTimer()
	alignedNews, alignedPrices := dataset.AlignByDate(news, cleaned)
	timer.ObserveStage("align")
	report.AlignedDays = len(dataset.DateSet(models.PriceDates(alignedPrices)))
	log.Debug("aligned datasets", "days", report.AlignedDays)

	timer = metrics.NewTimer()
	report.Financial = Summarize(cleaned)
	report.Indicators = ComputeIndicators(cleaned, p.windows)
	report.Returns = DailyReturns(alignedPrices)
	timer.ObserveStage("indicators")

	timer = metrics.NewTimer()
	scored := p.scorer.ScoreHeadlines(alignedNews)
	report.Sentiment = AggregateDaily(scored)
	timer.ObserveStage("sentiment")

	timer = metrics.NewTimer()
	result, corrErr := Correlate(report.Returns, report.Sentiment)
	timer.ObserveStage("correlation")
	if corrErr != nil {
		report.CorrelationError = corrErr.Error()
		log.Warn("correlation unavailable", "error", corrErr)
	} else {
		report.Correlation = &result
	}

	timer = metrics.NewTimer()
	report.HeadlineLengths = HeadlineLengths(news)
	report.TopKeywords = TopKeywords(news, p.topN)
	report.TopPublishers = TopPublishers(news, p.topN)
	report.EmailDomains = EmailDomains(news)
	report.PublicationTrend = ArticlesPerDay(news)
	report.HourCounts = HourHistogram(news)
	timer.ObserveStage("descriptive")

	metrics.RecordPipelineRun(string(models.ReportStatusCompleted))
	report.Counters = metrics.Snapshot()
	report.Complete()

	log.Info("analysis complete",
		"run_id", report.ID,
		"status", report.Status,
		"duration_ms", report.DurationMs,
		"aligned_days", report.AlignedDays)
	return report, nil
}
