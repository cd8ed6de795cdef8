package live

import (
	"sort"

	"crisisnet/internal/domain/feed"
)

// LocationCount is one entry of the rolling top-locations list, with a
// sample coordinate when any event for that location resolved one
type LocationCount struct {
	Location string   `json:"location"`
	Count    int      `json:"count"`
	Lat      *float64 `json:"lat"`
	Lon      *float64 `json:"lon"`
}

// Summary is the rolling view over the live window
type Summary struct {
	TotalEvents  int             `json:"total_events"`
	AvgSentiment float64         `json:"avg_sentiment"`
	TopLocations []LocationCount `json:"top_locations"`
	TopKeywords  []string        `json:"top_keywords"`
	LastEvent    *feed.LiveEvent `json:"last_event"`
}

// window is the bounded FIFO event buffer plus incrementally maintained
// aggregates. Not safe for concurrent use; the pipeline serializes access.
type window struct {
	buf   []feed.LiveEvent
	head  int
	count int

	sentimentSum   float64
	sentimentCount int
	locations      map[string]int
	keywords       map[string]int
}

func newWindow(capacity int) *window {
	if capacity <= 0 {
		capacity = 200
	}
	return &window{
		buf:       make([]feed.LiveEvent, capacity),
		locations: make(map[string]int),
		keywords:  make(map[string]int),
	}
}

// push appends an event, evicting the oldest when the buffer is full
func (w *window) push(event feed.LiveEvent) {
	if w.count == len(w.buf) {
		w.remove(w.buf[w.head])
		w.head = (w.head + 1) % len(w.buf)
		w.count--
	}
	w.buf[(w.head+w.count)%len(w.buf)] = event
	w.count++
	w.add(event)
}

func (w *window) add(event feed.LiveEvent) {
	w.sentimentSum += event.Sentiment.Compound
	w.sentimentCount++
	if event.Location != "" {
		w.locations[event.Location]++
	}
	for _, kw := range event.Keywords {
		w.keywords[kw]++
	}
}

func (w *window) remove(event feed.LiveEvent) {
	w.sentimentSum -= event.Sentiment.Compound
	w.sentimentCount--
	if event.Location != "" {
		if w.locations[event.Location]--; w.locations[event.Location] <= 0 {
			delete(w.locations, event.Location)
		}
	}
	for _, kw := range event.Keywords {
		if w.keywords[kw]--; w.keywords[kw] <= 0 {
			delete(w.keywords, kw)
		}
	}
}

// events returns the window contents oldest first
func (w *window) events() []feed.LiveEvent {
	out := make([]feed.LiveEvent, 0, w.count)
	for i := 0; i < w.count; i++ {
		out = append(out, w.buf[(w.head+i)%len(w.buf)])
	}
	return out
}

// summary builds the rolling summary from the maintained aggregates
func (w *window) summary() Summary {
	s := Summary{TotalEvents: w.count}
	if w.count == 0 {
		s.TopLocations = []LocationCount{}
		s.TopKeywords = []string{}
		return s
	}
	if w.sentimentCount > 0 {
		s.AvgSentiment = w.sentimentSum / float64(w.sentimentCount)
	}

	s.TopLocations = w.topLocations(5)
	s.TopKeywords = topCounts(w.keywords, 5)
	last := w.buf[(w.head+w.count-1)%len(w.buf)]
	s.LastEvent = &last
	return s
}

func (w *window) topLocations(n int) []LocationCount {
	names := topCounts(w.locations, n)
	out := make([]LocationCount, 0, len(names))
	for _, name := range names {
		entry := LocationCount{Location: name, Count: w.locations[name]}
		for i := 0; i < w.count; i++ {
			e := w.buf[(w.head+i)%len(w.buf)]
			if e.Location == name && e.Lat != nil {
				entry.Lat, entry.Lon = e.Lat, e.Lon
				break
			}
		}
		out = append(out, entry)
	}
	return out
}

// topCounts returns the n highest-count keys, count descending then key
// order for determinism
func topCounts(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if counts[keys[a]] != counts[keys[b]] {
			return counts[keys[a]] > counts[keys[b]]
		}
		return keys[a] < keys[b]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
