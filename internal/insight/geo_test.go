package insight

import (
	"math"
	"testing"

	"crisisnet/internal/domain/dataset"
	"crisisnet/internal/domain/feed"
)

type mapGeocoder map[string][2]float64

func (m mapGeocoder) Resolve(location string) (float64, float64, bool) {
	c, ok := m[location]
	return c[0], c[1], ok
}

func TestComputeGeoInsights(t *testing.T) {
	ds := &dataset.Dataset{Records: []dataset.Record{
		{ID: "1", Keyword: "flood", Location: "Houston", Target: 1},
		{ID: "2", Keyword: "flood", Location: "Houston", Target: 1},
		{ID: "3", Keyword: "storm", Location: "Houston", Target: 0},
		{ID: "4", Keyword: "fire", Location: "Denver", Target: 1},
		{ID: "5", Keyword: "fog", Location: "Nowhere", Target: 0},
	}}
	sentiments := map[string]feed.Sentiment{
		"1": {Compound: -0.8},
		"2": {Compound: -0.4},
	}
	geocoder := mapGeocoder{
		"Houston": {29.76, -95.37},
		"Denver":  {39.74, -104.99},
	}

	out := ComputeGeoInsights(ds, sentiments, geocoder)
	// The unresolvable location is omitted.
	if len(out.Locations) != 2 {
		t.Fatalf("expected 2 geocoded locations, got %d", len(out.Locations))
	}

	houston := out.Locations[0]
	if houston.Location != "Houston" || houston.TotalRecords != 3 {
		t.Fatalf("unexpected top location: %+v", houston)
	}
	if houston.DisasterRecords != 2 || houston.NonDisaster != 1 {
		t.Fatalf("unexpected counts: %+v", houston)
	}
	if houston.AverageSentiment == nil || math.Abs(*houston.AverageSentiment+0.6) > 1e-9 {
		t.Fatalf("unexpected average sentiment: %v", houston.AverageSentiment)
	}
	if len(houston.TopKeywords) == 0 || houston.TopKeywords[0] != "flood" {
		t.Fatalf("unexpected keywords: %v", houston.TopKeywords)
	}

	if out.Summary.HighestActivityLocation != "Houston" {
		t.Fatalf("unexpected highest activity: %+v", out.Summary)
	}
	// Denver is all disasters, so it carries the highest risk ratio.
	if out.Summary.HighestRiskLocation != "Denver" || out.Summary.HighestRiskRatio != 1 {
		t.Fatalf("unexpected highest risk: %+v", out.Summary)
	}
}

func TestComputeGeoInsightsNoResolvableLocations(t *testing.T) {
	ds := &dataset.Dataset{Records: []dataset.Record{
		{ID: "1", Location: "Nowhere"},
	}}
	out := ComputeGeoInsights(ds, nil, mapGeocoder{})
	if len(out.Locations) != 0 {
		t.Fatalf("expected no locations, got %d", len(out.Locations))
	}
	if out.Summary.TotalGeocodedLocations != 0 {
		t.Fatalf("unexpected summary: %+v", out.Summary)
	}
}
