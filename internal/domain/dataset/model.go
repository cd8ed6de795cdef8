package dataset

import (
	"fmt"
	"strings"
	"time"
)

// Record is one ingested crisis report. Records are immutable after
// ingestion; computed attributes live on graph nodes, not here.
type Record struct {
	ID        string
	Keyword   string
	Location  string
	Text      string
	Target    int // 1 = disaster-related, 0 = not
	Timestamp *time.Time
}

// Stats summarizes an ingested dataset
type Stats struct {
	TotalRows         int `json:"total_rows"`
	SkippedRows       int `json:"skipped_rows"`
	UniqueKeywords    int `json:"unique_keywords"`
	UniqueLocations   int `json:"unique_locations"`
	DisasterTweets    int `json:"disaster_tweets"`
	NonDisasterTweets int `json:"non_disaster_tweets"`
}

// Dataset is the record set for one analysis run
type Dataset struct {
	Records []Record
	Stats   Stats
}

// ByID returns the record with the given id, if present
func (d *Dataset) ByID(id string) (Record, bool) {
	for _, r := range d.Records {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

// TopKeyword returns the most frequent non-empty keyword, "N/A" when none
func (d *Dataset) TopKeyword() string {
	counts := make(map[string]int)
	for _, r := range d.Records {
		if r.Keyword != "" {
			counts[r.Keyword]++
		}
	}
	top, best := "N/A", 0
	for kw, c := range counts {
		if c > best || (c == best && top != "N/A" && kw < top) {
			top, best = kw, c
		}
	}
	return top
}

// computeStats fills aggregate counts for a validated record slice
func computeStats(records []Record, skipped int) Stats {
	keywords := make(map[string]struct{})
	locations := make(map[string]struct{})
	disasters := 0
	for _, r := range records {
		if r.Keyword != "" {
			keywords[r.Keyword] = struct{}{}
		}
		if r.Location != "" {
			locations[r.Location] = struct{}{}
		}
		if r.Target == 1 {
			disasters++
		}
	}
	return Stats{
		TotalRows:         len(records),
		SkippedRows:       skipped,
		UniqueKeywords:    len(keywords),
		UniqueLocations:   len(locations),
		DisasterTweets:    disasters,
		NonDisasterTweets: len(records) - disasters,
	}
}

// EmptyDatasetError is returned when an ingested input contains no usable rows
type EmptyDatasetError struct {
	Reason string
}

func (e *EmptyDatasetError) Error() string {
	return fmt.Sprintf("empty dataset: %s", e.Reason)
}

// DuplicateIDError is returned when an ingestion batch repeats record ids
type DuplicateIDError struct {
	IDs []string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate record ids: %s", strings.Join(e.IDs, ", "))
}

// NoDatasetError is returned when analysis runs before any ingestion
type NoDatasetError struct{}

func (e *NoDatasetError) Error() string {
	return "no dataset ingested"
}
