package analysis

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/michaWorku/news-sentiment-stock-analysis/models"

	"github.com/bbalet/stopwords"
)

// TopKeywords ranks the headline vocabulary by frequency after
// lowercasing and removing English stop words. Tokens shorter than
// two runes are dropped; ties are broken alphabetically. At most n
// keywords are returned.
func TopKeywords(records []models.NewsRecord, n int) []models.Keyword {
	counts := make(map[string]int)
	for _, r := range records {
		cleaned := stopwords.CleanString(r.Headline, "en", false)
		for _, token := range strings.Fields(cleaned) {
			if utf8.RuneCountInString(token) < 2 {
				continue
			}
			counts[token]++
		}
	}

	out := make([]models.Keyword, 0, len(counts))
	for word, count := range counts {
		out = append(out, models.Keyword{Word: word, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
