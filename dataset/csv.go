package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/michaWorku/news-sentiment-stock-analysis/models"
	"github.com/michaWorku/news-sentiment-stock-analysis/observability"
)

// MissingFileError reports an input path that does not exist. It is
// fatal to the load call that raised it and is never retried.
type MissingFileError struct {
	Path string
	Err  error
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("input file not found: %s", e.Path)
}

func (e *MissingFileError) Unwrap() error { return e.Err }

// timestampLayouts are the date formats the datasets use, tried in order.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a raw date cell. Values that match none of
// the known layouts return an error; callers treat those rows as
// having a missing date rather than failing the batch.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", s)
}

// Loader reads price and news tables from CSV files.
type Loader struct {
	Prices PriceSchema
	News   NewsSchema
}

// NewLoader creates a Loader with the default schemas.
func NewLoader() *Loader {
	return &Loader{
		Prices: DefaultPriceSchema(),
		News:   DefaultNewsSchema(),
	}
}

// LoadPrices reads one or more price CSVs. Directory paths expand to
// their *.csv entries in name order. When a file has no company
// column, every record is tagged with the uppercased file stem
// ("aapl.csv" becomes AAPL). Per-row parse failures never abort the
// load: a bad numeric cell becomes NaN and a bad date becomes a
// missing date, both dropped later by CleanPrices and alignment.
func (l *Loader) LoadPrices(paths ...string) ([]models.PriceRecord, error) {
	files, err := expandCSVPaths(paths)
	if err != nil {
		return nil, err
	}

	var records []models.PriceRecord
	for _, file := range files {
		fileRecords, err := l.loadPriceFile(file)
		if err != nil {
			return nil, err
		}
		records = append(records, fileRecords...)
	}

	observability.GetMetrics().RecordRowsLoaded("prices", len(records))
	observability.Info("loaded price data", "files", len(files), "rows", len(records))
	return records, nil
}

// LoadNews reads a news CSV. Rows whose date cannot be parsed keep
// their text fields but carry a missing date, which excludes them
// from every join and aggregate downstream.
func (l *Loader) LoadNews(path string) ([]models.NewsRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingFileError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	cols, err := l.News.resolve(path, header)
	if err != nil {
		return nil, err
	}

	var records []models.NewsRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		record := models.NewsRecord{
			Headline:  strings.TrimSpace(cell(row, cols.headline)),
			Publisher: strings.TrimSpace(cell(row, cols.publisher)),
		}
		if published, perr := ParseTimestamp(cell(row, cols.date)); perr == nil {
			record.PublishedAt = published
			record.Date = models.NewDate(published)
		}
		records = append(records, record)
	}

	observability.GetMetrics().RecordRowsLoaded("news", len(records))
	observability.Info("loaded news data", "path", path, "rows", len(records))
	return records, nil
}

// CleanPrices drops rows with a missing date or any undefined numeric
// cell, returning a new slice. The input is not modified.
func CleanPrices(records []models.PriceRecord) []models.PriceRecord {
	out := make([]models.PriceRecord, 0, len(records))
	for _, r := range records {
		if r.Date.IsZero() {
			continue
		}
		if math.IsNaN(r.Open) || math.IsNaN(r.High) || math.IsNaN(r.Low) ||
			math.IsNaN(r.Close) || math.IsNaN(r.Volume) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// CompanyFromFilename derives a company tag from the file stem:
// "data/aapl.csv" becomes "AAPL".
func CompanyFromFilename(path string) string {
	base := filepath.Base(path)
	return strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
}

func (l *Loader) loadPriceFile(path string) ([]models.PriceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingFileError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	cols, err := l.Prices.resolve(path, header)
	if err != nil {
		return nil, err
	}

	fileTag := ""
	if cols.company < 0 {
		fileTag = CompanyFromFilename(path)
	}

	var records []models.PriceRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		record := models.PriceRecord{
			Date:    parseDateCell(cell(row, cols.date)),
			Open:    parseFloatCell(cell(row, cols.open)),
			High:    parseFloatCell(cell(row, cols.high)),
			Low:     parseFloatCell(cell(row, cols.low)),
			Close:   parseFloatCell(cell(row, cols.close)),
			Volume:  parseFloatCell(cell(row, cols.volume)),
			Company: fileTag,
		}
		if cols.company >= 0 {
			record.Company = strings.TrimSpace(cell(row, cols.company))
		}
		records = append(records, record)
	}
	return records, nil
}

// expandCSVPaths resolves the given files and directories to a flat
// list of CSV files. A path that does not exist fails the whole load.
func expandCSVPaths(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, &MissingFileError{Path: p, Err: err}
			}
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", p, err)
		}
		var dirFiles []string
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
				continue
			}
			dirFiles = append(dirFiles, filepath.Join(p, entry.Name()))
		}
		sort.Strings(dirFiles)
		files = append(files, dirFiles...)
	}
	return files, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseFloatCell(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func parseDateCell(s string) models.Date {
	t, err := ParseTimestamp(s)
	if err != nil {
		return models.Date{}
	}
	return models.NewDate(t)
}
