package dataset

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestIngestCSV(t *testing.T) {
	t.Run("parses valid rows", func(t *testing.T) {
		csv := "id,keyword,location,text,target\n" +
			"1,flood,Houston,flash flood downtown,1\n" +
			"2,fire,,brush fire contained,0\n"
		ds, err := IngestCSV(strings.NewReader(csv))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(ds.Records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(ds.Records))
		}
		if ds.Stats.DisasterTweets != 1 || ds.Stats.NonDisasterTweets != 1 {
			t.Fatalf("unexpected stats: %+v", ds.Stats)
		}
		if ds.Records[0].Location != "Houston" {
			t.Fatalf("unexpected location: %q", ds.Records[0].Location)
		}
	})

	t.Run("skips malformed rows", func(t *testing.T) {
		csv := "id,keyword,location,text,target\n" +
			"1,flood,Houston,flash flood downtown,1\n" +
			"2,fire,,,0\n" +
			"3,storm,Miami,storm surge,notanumber\n" +
			"4,quake,Tokyo,buildings shaking,2\n"
		ds, err := IngestCSV(strings.NewReader(csv))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(ds.Records) != 1 {
			t.Fatalf("expected 1 record, got %d", len(ds.Records))
		}
		if ds.Stats.SkippedRows != 3 {
			t.Fatalf("expected 3 skipped rows, got %d", ds.Stats.SkippedRows)
		}
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		csv := "id,keyword,location,text,target\n" +
			"1,flood,Houston,flash flood,1\n" +
			"1,flood,Houston,flash flood again,1\n" +
			"2,fire,LA,wildfire,1\n" +
			"2,fire,LA,wildfire again,1\n"
		_, err := IngestCSV(strings.NewReader(csv))
		var dup *DuplicateIDError
		if !errors.As(err, &dup) {
			t.Fatalf("expected DuplicateIDError, got %v", err)
		}
		if !reflect.DeepEqual(dup.IDs, []string{"1", "2"}) {
			t.Fatalf("unexpected duplicate ids: %v", dup.IDs)
		}
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := IngestCSV(strings.NewReader(""))
		var empty *EmptyDatasetError
		if !errors.As(err, &empty) {
			t.Fatalf("expected EmptyDatasetError, got %v", err)
		}
	})

	t.Run("rejects header-only input", func(t *testing.T) {
		_, err := IngestCSV(strings.NewReader("id,keyword,location,text,target\n"))
		var empty *EmptyDatasetError
		if !errors.As(err, &empty) {
			t.Fatalf("expected EmptyDatasetError, got %v", err)
		}
	})

	t.Run("reports missing columns", func(t *testing.T) {
		_, err := IngestCSV(strings.NewReader("id,text\n1,hello\n"))
		if err == nil || !strings.Contains(err.Error(), "missing required columns") {
			t.Fatalf("expected missing column error, got %v", err)
		}
	})

	t.Run("parses optional timestamps", func(t *testing.T) {
		csv := "id,keyword,location,text,target,timestamp\n" +
			"1,flood,Houston,flash flood,1,2025-03-01 10:30:00\n" +
			"2,flood,Houston,streets underwater,1,garbage\n"
		ds, err := IngestCSV(strings.NewReader(csv))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ds.Records[0].Timestamp == nil {
			t.Fatal("expected first record to carry a timestamp")
		}
		if ds.Records[1].Timestamp != nil {
			t.Fatal("expected unparseable timestamp to be dropped")
		}
	})
}

func TestNew(t *testing.T) {
	t.Run("rejects duplicates", func(t *testing.T) {
		_, err := New([]Record{
			{ID: "a", Text: "one", Target: 1},
			{ID: "a", Text: "two", Target: 0},
		})
		var dup *DuplicateIDError
		if !errors.As(err, &dup) {
			t.Fatalf("expected DuplicateIDError, got %v", err)
		}
	})

	t.Run("rejects empty batch", func(t *testing.T) {
		_, err := New(nil)
		var empty *EmptyDatasetError
		if !errors.As(err, &empty) {
			t.Fatalf("expected EmptyDatasetError, got %v", err)
		}
	})
}

func TestTopKeyword(t *testing.T) {
	ds := &Dataset{Records: []Record{
		{ID: "1", Keyword: "flood"},
		{ID: "2", Keyword: "flood"},
		{ID: "3", Keyword: "fire"},
	}}
	if got := ds.TopKeyword(); got != "flood" {
		t.Fatalf("unexpected top keyword: %q", got)
	}

	empty := &Dataset{}
	if got := empty.TopKeyword(); got != "N/A" {
		t.Fatalf("unexpected top keyword for empty dataset: %q", got)
	}
}
