package analysis

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/michaWorku/news-sentiment-stock-analysis/models"

	"gonum.org/v1/gonum/stat"
)

// HeadlineLengths summarizes the distribution of headline lengths in
// characters: count, mean, sample standard deviation, min, quartiles
// and max. With no records every statistic is NaN; with a single
// record the standard deviation is NaN.
func HeadlineLengths(records []models.NewsRecord) models.LengthStats {
	lengths := make([]float64, 0, len(records))
	for _, r := range records {
		lengths = append(lengths, float64(utf8.RuneCountInString(r.Headline)))
	}

	stats := models.LengthStats{
		Count:  len(lengths),
		Mean:   math.NaN(),
		StdDev: math.NaN(),
		Min:    math.NaN(),
		Q25:    math.NaN(),
		Median: math.NaN(),
		Q75:    math.NaN(),
		Max:    math.NaN(),
	}
	if len(lengths) == 0 {
		return stats
	}

	sort.Float64s(lengths)
	stats.Mean = stat.Mean(lengths, nil)
	stats.StdDev = stat.StdDev(lengths, nil)
	stats.Min = lengths[0]
	stats.Q25 = quantileLinear(lengths, 0.25)
	stats.Median = quantileLinear(lengths, 0.5)
	stats.Q75 = quantileLinear(lengths, 0.75)
	stats.Max = lengths[len(lengths)-1]
	return stats
}

// quantileLinear computes the p-quantile of sorted values as
// h = p*(n-1) with linear interpolation between the bracketing order
// statistics.
func quantileLinear(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	h := p * float64(n-1)
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

// PublisherCounts tallies articles per publisher, descending by count
// with ties broken by name. Blank publishers are skipped.
func PublisherCounts(records []models.NewsRecord) []models.PublisherCount {
	counts := make(map[string]int)
	for _, r := range records {
		if strings.TrimSpace(r.Publisher) == "" {
			continue
		}
		counts[r.Publisher]++
	}

	out := make([]models.PublisherCount, 0, len(counts))
	for publisher, n := range counts {
		out = append(out, models.PublisherCount{Publisher: publisher, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Publisher < out[j].Publisher
	})
	return out
}

// TopPublishers returns the n most frequent publishers.
func TopPublishers(records []models.NewsRecord, n int) []models.PublisherCount {
	counts := PublisherCounts(records)
	if n >= 0 && n < len(counts) {
		counts = counts[:n]
	}
	return counts
}

// ArticlesPerDay counts records per calendar date, ascending by date.
// Records with a missing date are excluded.
func ArticlesPerDay(records []models.NewsRecord) models.TimeSeries {
	counts := make(map[models.Date]int)
	for _, r := range records {
		if r.Date.IsZero() {
			continue
		}
		counts[r.Date]++
	}

	series := make(models.TimeSeries, 0, len(counts))
	for date, n := range counts {
		series = append(series, models.Point{Date: date, Value: float64(n)})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	return series
}

// HourHistogram buckets records by publication hour of day. Records
// without a parseable timestamp are excluded.
func HourHistogram(records []models.NewsRecord) [24]int {
	var hist [24]int
	for _, r := range records {
		if r.PublishedAt.IsZero() {
			continue
		}
		hist[r.PublishedAt.Hour()]++
	}
	return hist
}

// EmailDomains tallies the substring after the last '@' in publisher
// strings that look like email addresses, descending by count with
// ties broken by domain.
func EmailDomains(records []models.NewsRecord) []models.DomainCount {
	counts := make(map[string]int)
	for _, r := range records {
		idx := strings.LastIndex(r.Publisher, "@")
		if idx < 0 || idx == len(r.Publisher)-1 {
			continue
		}
		counts[r.Publisher[idx+1:]]++
	}

	out := make([]models.DomainCount, 0, len(counts))
	for domain, n := range counts {
		out = append(out, models.DomainCount{Domain: domain, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Domain < out[j].Domain
	})
	return out
}
