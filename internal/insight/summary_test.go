package insight

import (
	"strings"
	"testing"
)

func TestGenerateSummary(t *testing.T) {
	agg := Aggregates{
		TotalRecords:    10,
		DisasterRecords: 6,
		NonDisaster:     4,
		NumCommunities:  3,
		AverageDegree:   2.5,
		GraphDensity:    0.12,
		TopKeyword:      "flood",
	}
	influencers := []Influencer{
		{ID: "42", CombinedScore: 0.9, Community: 1},
		{ID: "7", CombinedScore: 0.5, Community: 0},
	}

	s := GenerateSummary(agg, influencers)
	for _, want := range []string{
		"analyzed 10 records",
		"6 disaster-related",
		"3 distinct information communities",
		"Record 42 emerged as the most influential node",
		"'flood'",
	} {
		if !strings.Contains(s.Summary, want) {
			t.Fatalf("summary missing %q:\n%s", want, s.Summary)
		}
	}
	// Two influencer lines plus the keyword and community lines.
	if len(s.Insights) != 4 {
		t.Fatalf("expected 4 insight lines, got %d", len(s.Insights))
	}
}

func TestGenerateSummaryNoInfluencers(t *testing.T) {
	s := GenerateSummary(Aggregates{TopKeyword: "N/A"}, nil)
	if strings.Contains(s.Summary, "most influential node") {
		t.Fatal("summary should omit the influencer sentence when none exist")
	}
	if len(s.Insights) != 2 {
		t.Fatalf("expected 2 insight lines, got %d", len(s.Insights))
	}
}
