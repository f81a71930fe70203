package models

import "time"

// NewsRecord is one news headline row. PublishedAt keeps the full
// timestamp when the source provided one (hour-of-day statistics need
// it); Date is the normalized calendar date used for joins. A zero
// Date marks an unparseable source value and excludes the record from
// every join and aggregate downstream.
type NewsRecord struct {
	PublishedAt time.Time `json:"published_at,omitempty"`
	Date        Date      `json:"date"`
	Headline    string    `json:"headline"`
	Publisher   string    `json:"publisher"`
}

// NewsDates returns the normalized date of every record in order,
// including zero dates for unparseable rows.
func NewsDates(records []NewsRecord) []Date {
	dates := make([]Date, len(records))
	for i, r := range records {
		dates[i] = r.Date
	}
	return dates
}
