package live

import (
	"fmt"
	"reflect"
	"testing"

	"crisisnet/internal/domain/feed"
)

func event(id, location string, compound float64, keywords ...string) feed.LiveEvent {
	return feed.LiveEvent{
		ID:        id,
		Text:      "text " + id,
		Location:  location,
		Keywords:  keywords,
		Sentiment: feed.Sentiment{Compound: compound},
	}
}

func TestWindowEviction(t *testing.T) {
	w := newWindow(3)
	for i := 0; i < 5; i++ {
		w.push(event(fmt.Sprintf("%d", i), "", 0))
	}

	if w.count != 3 {
		t.Fatalf("window exceeded capacity: %d", w.count)
	}
	got := w.events()
	ids := make([]string, len(got))
	for i, e := range got {
		ids[i] = e.ID
	}
	if !reflect.DeepEqual(ids, []string{"2", "3", "4"}) {
		t.Fatalf("expected oldest-first FIFO order, got %v", ids)
	}
}

func TestWindowAggregates(t *testing.T) {
	w := newWindow(2)
	w.push(event("1", "Houston", -1, "flood"))
	w.push(event("2", "Houston", 0, "flood", "storm"))
	// Evicts event 1, removing its contributions.
	w.push(event("3", "Denver", 1, "storm"))

	s := w.summary()
	if s.TotalEvents != 2 {
		t.Fatalf("unexpected total: %d", s.TotalEvents)
	}
	if s.AvgSentiment != 0.5 {
		t.Fatalf("unexpected rolling sentiment: %f", s.AvgSentiment)
	}
	if len(s.TopLocations) != 2 {
		t.Fatalf("unexpected locations: %+v", s.TopLocations)
	}
	// storm now outnumbers flood 2 to 1.
	if !reflect.DeepEqual(s.TopKeywords, []string{"storm", "flood"}) {
		t.Fatalf("unexpected keywords: %v", s.TopKeywords)
	}
	if s.LastEvent == nil || s.LastEvent.ID != "3" {
		t.Fatalf("unexpected last event: %+v", s.LastEvent)
	}
}

func TestWindowEmptySummary(t *testing.T) {
	s := newWindow(4).summary()
	if s.TotalEvents != 0 || s.LastEvent != nil {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.TopLocations == nil || s.TopKeywords == nil {
		t.Fatal("empty summary must carry empty slices, not nil")
	}
}

func TestWindowTopLocationCoordinates(t *testing.T) {
	lat, lon := 29.76, -95.37
	w := newWindow(4)
	e := event("1", "Houston", 0)
	e.Lat, e.Lon = &lat, &lon
	w.push(e)
	w.push(event("2", "Houston", 0))

	s := w.summary()
	if len(s.TopLocations) != 1 || s.TopLocations[0].Count != 2 {
		t.Fatalf("unexpected locations: %+v", s.TopLocations)
	}
	if s.TopLocations[0].Lat == nil || *s.TopLocations[0].Lat != lat {
		t.Fatalf("expected sample coordinate, got %+v", s.TopLocations[0])
	}
}
