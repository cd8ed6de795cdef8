package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
)

var requiredColumns = []string{"id", "keyword", "location", "text", "target"}

// IngestCSV parses a CSV export with columns id,keyword,location,text,target
// and an optional timestamp column. Malformed rows are skipped and counted.
// The whole batch is rejected on duplicate ids or when no row survives.
func IngestCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, &EmptyDatasetError{Reason: "input is empty or unreadable"}
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	tsCol, hasTS := timestampColumn(cols)

	var records []Record
	skipped := 0
	seen := make(map[string]struct{})
	dupes := make(map[string]struct{})

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		rec, ok := parseRow(row, cols, tsCol, hasTS)
		if !ok {
			skipped++
			continue
		}
		if _, exists := seen[rec.ID]; exists {
			dupes[rec.ID] = struct{}{}
			continue
		}
		seen[rec.ID] = struct{}{}
		records = append(records, rec)
	}

	if len(dupes) > 0 {
		ids := make([]string, 0, len(dupes))
		for id := range dupes {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		return nil, &DuplicateIDError{IDs: ids}
	}
	if len(records) == 0 {
		return nil, &EmptyDatasetError{Reason: "no valid rows"}
	}

	return &Dataset{
		Records: records,
		Stats:   computeStats(records, skipped),
	}, nil
}

// New builds a dataset from already-parsed records, applying the same
// duplicate and emptiness checks as CSV ingestion.
func New(records []Record) (*Dataset, error) {
	seen := make(map[string]struct{}, len(records))
	var dupes []string
	valid := make([]Record, 0, len(records))
	skipped := 0
	for _, rec := range records {
		if rec.ID == "" {
			skipped++
			continue
		}
		if _, exists := seen[rec.ID]; exists {
			dupes = append(dupes, rec.ID)
			continue
		}
		seen[rec.ID] = struct{}{}
		valid = append(valid, rec)
	}
	if len(dupes) > 0 {
		sort.Strings(dupes)
		return nil, &DuplicateIDError{IDs: dupes}
	}
	if len(valid) == 0 {
		return nil, &EmptyDatasetError{Reason: "no valid records"}
	}
	return &Dataset{Records: valid, Stats: computeStats(valid, skipped)}, nil
}

func timestampColumn(cols map[string]int) (int, bool) {
	for _, candidate := range []string{"timestamp", "created_at", "time", "date"} {
		if i, ok := cols[candidate]; ok {
			return i, true
		}
	}
	return 0, false
}

func parseRow(row []string, cols map[string]int, tsCol int, hasTS bool) (Record, bool) {
	field := func(name string) string {
		i := cols[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	id := field("id")
	text := field("text")
	if id == "" || text == "" {
		return Record{}, false
	}
	target, err := strconv.Atoi(field("target"))
	if err != nil || (target != 0 && target != 1) {
		return Record{}, false
	}

	rec := Record{
		ID:       id,
		Keyword:  field("keyword"),
		Location: field("location"),
		Text:     text,
		Target:   target,
	}
	if hasTS && tsCol < len(row) {
		if ts, err := parseTimestamp(strings.TrimSpace(row[tsCol])); err == nil {
			rec.Timestamp = &ts
		}
	}
	return rec, true
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
