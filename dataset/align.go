package dataset

import "github.com/michaWorku/news-sentiment-stock-analysis/models"

// DateSet collects the non-missing dates in the list into a set.
func DateSet(dates []models.Date) map[models.Date]struct{} {
	set := make(map[models.Date]struct{}, len(dates))
	for _, d := range dates {
		if d.IsZero() {
			continue
		}
		set[d] = struct{}{}
	}
	return set
}

// IntersectDates returns the dates present in both sets.
func IntersectDates(a, b map[models.Date]struct{}) map[models.Date]struct{} {
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	out := make(map[models.Date]struct{})
	for d := range small {
		if _, ok := large[d]; ok {
			out[d] = struct{}{}
		}
	}
	return out
}

// AlignByDate restricts both tables to the calendar dates present in
// each, preserving input order and returning new slices. Records with
// a missing date never match. Zero overlap yields two empty slices,
// not an error.
func AlignByDate(news []models.NewsRecord, prices []models.PriceRecord) ([]models.NewsRecord, []models.PriceRecord) {
	common := IntersectDates(
		DateSet(models.NewsDates(news)),
		DateSet(models.PriceDates(prices)),
	)

	alignedNews := make([]models.NewsRecord, 0, len(news))
	for _, r := range news {
		if _, ok := common[r.Date]; ok {
			alignedNews = append(alignedNews, r)
		}
	}

	alignedPrices := make([]models.PriceRecord, 0, len(prices))
	for _, r := range prices {
		if _, ok := common[r.Date]; ok {
			alignedPrices = append(alignedPrices, r)
		}
	}

	return alignedNews, alignedPrices
}
