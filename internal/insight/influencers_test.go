package insight

import (
	"strings"
	"testing"
	"unicode/utf8"

	"crisisnet/internal/domain/dataset"
	"crisisnet/internal/graphx"
)

func TestTopInfluencers(t *testing.T) {
	records := []dataset.Record{
		{ID: "a", Keyword: "flood", Text: "first"},
		{ID: "b", Keyword: "fire", Text: "second"},
		{ID: "c", Keyword: "storm", Text: "third"},
	}
	g := graphx.NewGraph(records)
	m := &graphx.Metrics{
		DegreeCentrality: []float64{0.1, 0.9, 0.5},
		Betweenness:      []float64{0, 0.5, 0.5},
		Eigenvector:      []float64{0, 0.8, 0.2},
		Clustering:       []float64{0, 0, 0},
	}
	p := graphx.Partition{Assignments: []int{0, 1, 1}, Count: 2}

	got := TopInfluencers(g, m, p, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 influencers, got %d", len(got))
	}
	if got[0].ID != "b" || got[1].ID != "c" {
		t.Fatalf("unexpected ranking: %q, %q", got[0].ID, got[1].ID)
	}
	// 0.4*0.9 + 0.3*0.5 + 0.3*0.8
	if diff := got[0].CombinedScore - 0.75; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("unexpected combined score: %f", got[0].CombinedScore)
	}
	if got[0].Community != 1 {
		t.Fatalf("unexpected community: %d", got[0].Community)
	}
}

func TestTruncateRuneBoundary(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{name: "short ascii untouched", input: "hello", max: 10, want: "hello"},
		{name: "long ascii cut", input: "abcdefgh", max: 4, want: "abcd"},
		{name: "multibyte cut on rune", input: strings.Repeat("å", 6), max: 4, want: strings.Repeat("å", 4)},
		{name: "multibyte within limit", input: "café", max: 4, want: "café"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.max)
			if !utf8.ValidString(got) {
				t.Fatalf("result is not valid UTF-8: %q", got)
			}
			if got != tt.want {
				t.Fatalf("unexpected result: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTopInfluencersTieBreak(t *testing.T) {
	records := []dataset.Record{
		{ID: "z", Text: "one"},
		{ID: "a", Text: "two"},
	}
	g := graphx.NewGraph(records)
	m := &graphx.Metrics{
		DegreeCentrality: []float64{0.5, 0.5},
		Betweenness:      []float64{0, 0},
		Eigenvector:      []float64{0, 0},
		Clustering:       []float64{0, 0},
	}
	p := graphx.Partition{Assignments: []int{0, 0}, Count: 1}

	got := TopInfluencers(g, m, p, 0)
	if got[0].ID != "a" {
		t.Fatalf("expected id tie break, got %q first", got[0].ID)
	}
}
