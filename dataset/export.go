package dataset

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/michaWorku/news-sentiment-stock-analysis/models"
)

// WritePrices writes a price table as CSV in the standard column
// order. NaN cells and missing dates are written empty so the file
// round-trips through LoadPrices.
func WritePrices(path string, records []models.PriceRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Date", "Open", "High", "Low", "Close", "Volume", "Company"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, r := range records {
		date := ""
		if !r.Date.IsZero() {
			date = r.Date.String()
		}
		row := []string{
			date,
			formatFloatCell(r.Open),
			formatFloatCell(r.High),
			formatFloatCell(r.Low),
			formatFloatCell(r.Close),
			formatFloatCell(r.Volume),
			r.Company,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}

func formatFloatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
