// Package dataset loads, validates, and aligns the CSV tables the
// analysis pipeline consumes.
package dataset

import (
	"fmt"
	"strings"
)

// PriceSchema maps the logical price fields to CSV column names.
// Company is optional; when empty or absent from the header, the
// company tag is derived from the file name instead.
type PriceSchema struct {
	Date    string `yaml:"date"`
	Open    string `yaml:"open"`
	High    string `yaml:"high"`
	Low     string `yaml:"low"`
	Close   string `yaml:"close"`
	Volume  string `yaml:"volume"`
	Company string `yaml:"company,omitempty"`
}

// DefaultPriceSchema matches the yfinance CSV export layout. The
// Company column is bound when present and otherwise derived from the
// file name.
func DefaultPriceSchema() PriceSchema {
	return PriceSchema{
		Date:    "Date",
		Open:    "Open",
		High:    "High",
		Low:     "Low",
		Close:   "Close",
		Volume:  "Volume",
		Company: "Company",
	}
}

// NewsSchema maps the logical news fields to CSV column names.
type NewsSchema struct {
	Date      string `yaml:"date"`
	Headline  string `yaml:"headline"`
	Publisher string `yaml:"publisher"`
}

// DefaultNewsSchema matches the analyst-ratings news layout.
func DefaultNewsSchema() NewsSchema {
	return NewsSchema{
		Date:      "date",
		Headline:  "headline",
		Publisher: "publisher",
	}
}

// SchemaError reports columns a schema requires that the CSV header
// does not provide. Loading fails fast with this error instead of
// silently skipping normalization.
type SchemaError struct {
	Path    string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema mismatch in %s: missing columns %s",
		e.Path, strings.Join(e.Missing, ", "))
}

// priceColumns holds resolved header indexes for a price file.
// company is -1 when the column is absent.
type priceColumns struct {
	date, open, high, low, close, volume, company int
}

// newsColumns holds resolved header indexes for a news file.
type newsColumns struct {
	date, headline, publisher int
}

// columnIndex finds a column by name, case-insensitively, so "Date"
// and "date" both resolve without schema overrides.
func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// resolve validates the header against the schema and returns the
// column indexes. Required columns that are absent are collected into
// a single SchemaError.
func (s PriceSchema) resolve(path string, header []string) (priceColumns, error) {
	cols := priceColumns{
		date:    columnIndex(header, s.Date),
		open:    columnIndex(header, s.Open),
		high:    columnIndex(header, s.High),
		low:     columnIndex(header, s.Low),
		close:   columnIndex(header, s.Close),
		volume:  columnIndex(header, s.Volume),
		company: -1,
	}
	if s.Company != "" {
		cols.company = columnIndex(header, s.Company)
	}

	var missing []string
	for _, c := range []struct {
		name string
		idx  int
	}{
		{s.Date, cols.date},
		{s.Open, cols.open},
		{s.High, cols.high},
		{s.Low, cols.low},
		{s.Close, cols.close},
		{s.Volume, cols.volume},
	} {
		if c.idx < 0 {
			missing = append(missing, c.name)
		}
	}
	if len(missing) > 0 {
		return priceColumns{}, &SchemaError{Path: path, Missing: missing}
	}
	return cols, nil
}

func (s NewsSchema) resolve(path string, header []string) (newsColumns, error) {
	cols := newsColumns{
		date:      columnIndex(header, s.Date),
		headline:  columnIndex(header, s.Headline),
		publisher: columnIndex(header, s.Publisher),
	}

	var missing []string
	for _, c := range []struct {
		name string
		idx  int
	}{
		{s.Date, cols.date},
		{s.Headline, cols.headline},
		{s.Publisher, cols.publisher},
	} {
		if c.idx < 0 {
			missing = append(missing, c.name)
		}
	}
	if len(missing) > 0 {
		return newsColumns{}, &SchemaError{Path: path, Missing: missing}
	}
	return cols, nil
}
