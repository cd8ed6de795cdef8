package insight

import (
	"testing"
	"time"

	"crisisnet/internal/domain/dataset"
)

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestBuildTimelineRealTimestamps(t *testing.T) {
	ds := &dataset.Dataset{Records: []dataset.Record{
		{ID: "1", Target: 1, Timestamp: ts("2025-03-01T10:00:00Z")},
		{ID: "2", Target: 0, Timestamp: ts("2025-03-01T23:59:00Z")},
		{ID: "3", Target: 1, Timestamp: ts("2025-03-03T00:00:00Z")},
		{ID: "4", Target: 1}, // no timestamp, dropped from real buckets
	}}

	tl := BuildTimeline(ds, time.Now())
	if !tl.HasRealTimestamp {
		t.Fatal("expected real timestamp flag")
	}
	if len(tl.Points) != 2 {
		t.Fatalf("expected 2 daily buckets, got %d", len(tl.Points))
	}
	first := tl.Points[0]
	if first.Total != 2 || first.Disaster != 1 || first.NonDisaster != 1 {
		t.Fatalf("unexpected first bucket: %+v", first)
	}
	if !tl.Points[0].Timestamp.Before(tl.Points[1].Timestamp) {
		t.Fatal("buckets not in chronological order")
	}
	if tl.Frequency != "D" {
		t.Fatalf("unexpected frequency: %q", tl.Frequency)
	}
}

func TestBuildTimelineSynthetic(t *testing.T) {
	ds := &dataset.Dataset{Records: []dataset.Record{
		{ID: "1", Target: 1},
		{ID: "2", Target: 0},
		{ID: "3", Target: 1},
	}}
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	tl := BuildTimeline(ds, now)
	if tl.HasRealTimestamp {
		t.Fatal("synthetic timeline must not claim real timestamps")
	}
	if len(tl.Points) != 3 {
		t.Fatalf("expected one synthetic day per record, got %d", len(tl.Points))
	}
	last := tl.Points[len(tl.Points)-1]
	if !last.Timestamp.Equal(now.Truncate(24 * time.Hour)) {
		t.Fatalf("expected synthetic days to end at now, got %v", last.Timestamp)
	}
}

func TestBuildTimelineEmpty(t *testing.T) {
	tl := BuildTimeline(&dataset.Dataset{}, time.Now())
	if len(tl.Points) != 0 || tl.HasRealTimestamp {
		t.Fatalf("unexpected timeline for empty dataset: %+v", tl)
	}
}
