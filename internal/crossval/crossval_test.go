package crossval

import (
	"math"
	"testing"
	"time"

	"crisisnet/internal/domain/dataset"
	"crisisnet/internal/domain/feed"
	"crisisnet/internal/graphx"
	"crisisnet/internal/insight"
)

type stubGeocoder struct {
	coords map[string][2]float64
}

func (s stubGeocoder) Resolve(location string) (float64, float64, bool) {
	c, ok := s.coords[location]
	return c[0], c[1], ok
}

func TestHaversineKm(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tolerance              float64
	}{
		{name: "same point", lat1: 29.76, lon1: -95.36, lat2: 29.76, lon2: -95.36, want: 0, tolerance: 1e-9},
		{name: "one degree latitude", lat1: 0, lon1: 0, lat2: 1, lon2: 0, want: 111.19, tolerance: 0.1},
		{name: "houston to dallas", lat1: 29.7604, lon1: -95.3698, lat2: 32.7767, lon2: -96.797, want: 362, tolerance: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := haversineKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Fatalf("unexpected distance: got %f, want %f", got, tt.want)
			}
		})
	}
}

func validatorFixture() (*Validator, *dataset.Dataset, *graphx.Graph, graphx.Partition) {
	geocoder := stubGeocoder{coords: map[string][2]float64{
		"Houston": {29.7604, -95.3698},
		"Denver":  {39.7392, -104.9903},
	}}
	v := NewValidator(geocoder, DefaultConfig())

	records := []dataset.Record{
		{ID: "1", Keyword: "flood", Location: "Houston", Text: "flooding", Target: 1},
		{ID: "2", Keyword: "flood", Location: "Houston", Text: "more flooding", Target: 1},
		{ID: "3", Keyword: "picnic", Location: "Denver", Text: "sunny day", Target: 0},
	}
	ds := &dataset.Dataset{Records: records}
	g := graphx.NewGraph(records)
	p := graphx.Partition{Assignments: []int{0, 0, 1}, Count: 2}
	return v, ds, g, p
}

func TestValidateAligned(t *testing.T) {
	v, ds, g, p := validatorFixture()
	now := time.Now()
	govAlerts := []feed.ExternalAlert{
		{Event: "Flash Flood Warning", Severity: "critical", Provider: "nws", Lat: 29.7604, Lon: -95.3698},
	}
	alerts := []insight.Alert{
		{ID: "1", AlertScore: 0.7},
		{ID: "2", AlertScore: 0.5},
		{ID: "3", AlertScore: 0.2},
	}

	report := v.Validate(ds, g, p, govAlerts, alerts, now)
	if report.Summary.TotalClusters != 2 {
		t.Fatalf("unexpected cluster count: %d", report.Summary.TotalClusters)
	}
	if report.Summary.AlignedClusters != 1 {
		t.Fatalf("expected 1 aligned cluster, got %d", report.Summary.AlignedClusters)
	}

	flood := report.Results[0]
	if flood.Status != VerdictAligned {
		t.Fatalf("unexpected verdict: %q", flood.Status)
	}
	// 0.8 + 0.05 * critical rank
	if math.Abs(flood.AlignmentScore-0.95) > 1e-9 {
		t.Fatalf("unexpected alignment score: %f", flood.AlignmentScore)
	}
	if flood.MatchedAlert == nil || flood.MatchedAlert.Event != "Flash Flood Warning" {
		t.Fatalf("unexpected matched alert: %+v", flood.MatchedAlert)
	}

	// Boost is capped at 0.15 and aligned members carry the verdict.
	var adjusted *insight.Alert
	for i := range report.AdjustedAlerts {
		if report.AdjustedAlerts[i].ID == "1" {
			adjusted = &report.AdjustedAlerts[i]
		}
	}
	if adjusted == nil {
		t.Fatal("missing adjusted alert for record 1")
	}
	if adjusted.GovAlignment != VerdictAligned {
		t.Fatalf("unexpected gov alignment: %q", adjusted.GovAlignment)
	}
	wantBoost := math.Min(0.15, 0.95*0.2)
	if math.Abs(adjusted.GovBoost-wantBoost) > 1e-9 {
		t.Fatalf("unexpected boost: %f", adjusted.GovBoost)
	}
	if math.Abs(adjusted.AlertScore-(0.7+wantBoost)) > 1e-9 {
		t.Fatalf("unexpected adjusted score: %f", adjusted.AlertScore)
	}
}

func TestValidateContradicted(t *testing.T) {
	v, ds, g, p := validatorFixture()
	now := time.Now()
	// A normal-severity advisory near a disaster-heavy community.
	govAlerts := []feed.ExternalAlert{
		{Event: "Flood Statement", Severity: "normal", Provider: "nws", Lat: 29.7604, Lon: -95.3698},
	}
	alerts := []insight.Alert{{ID: "1", AlertScore: 0.6}, {ID: "2", AlertScore: 0.4}}

	report := v.Validate(ds, g, p, govAlerts, alerts, now)
	flood := report.Results[0]
	if flood.Status != VerdictContradicted {
		t.Fatalf("unexpected verdict: %q", flood.Status)
	}
	if math.Abs(flood.AlignmentScore-(-0.3)) > 1e-9 {
		t.Fatalf("unexpected alignment score: %f", flood.AlignmentScore)
	}

	penalty := 0.3 * 0.15
	for _, a := range report.AdjustedAlerts {
		if a.ID != "1" {
			continue
		}
		if a.GovAlignment != VerdictContradicted {
			t.Fatalf("unexpected gov alignment: %q", a.GovAlignment)
		}
		if math.Abs(a.AlertScore-(0.6-penalty)) > 1e-9 {
			t.Fatalf("unexpected penalized score: %f", a.AlertScore)
		}
	}
}

func TestValidateNoMatch(t *testing.T) {
	v, ds, g, p := validatorFixture()
	now := time.Now()

	t.Run("no gov alerts", func(t *testing.T) {
		report := v.Validate(ds, g, p, nil, nil, now)
		if report.Summary.NoMatchClusters != 2 {
			t.Fatalf("expected all clusters unmatched, got %+v", report.Summary)
		}
		if len(report.Results) != 0 {
			t.Fatalf("expected no per-cluster results, got %d", len(report.Results))
		}
	})

	t.Run("alert too far away", func(t *testing.T) {
		// Dallas is well beyond the 50 km radius from Houston.
		govAlerts := []feed.ExternalAlert{
			{Event: "Flood Warning", Severity: "critical", Lat: 32.7767, Lon: -96.797},
		}
		report := v.Validate(ds, g, p, govAlerts, nil, now)
		if report.Results[0].Status != VerdictNoMatch {
			t.Fatalf("unexpected verdict: %q", report.Results[0].Status)
		}
	})
}

func TestValidateVerdictOrdering(t *testing.T) {
	v, ds, g, p := validatorFixture()
	now := time.Now()
	govAlerts := []feed.ExternalAlert{
		{Event: "Flood Warning", Severity: "high", Lat: 29.7604, Lon: -95.3698},
	}
	alerts := []insight.Alert{
		{ID: "3", AlertScore: 0.62},
		{ID: "1", AlertScore: 0.6},
	}

	report := v.Validate(ds, g, p, govAlerts, alerts, now)
	// The aligned Houston record overtakes the unboosted Denver record.
	if report.AdjustedAlerts[0].ID != "1" {
		t.Fatalf("expected boosted alert first, got %q", report.AdjustedAlerts[0].ID)
	}
}

func TestTimeWindowsOverlap(t *testing.T) {
	v := NewValidator(stubGeocoder{}, Config{MaxDistanceKm: 50, TimeWindow: 24 * time.Hour})
	now := time.Now()
	at := func(offset time.Duration) *time.Time {
		ts := now.Add(offset)
		return &ts
	}

	tests := []struct {
		name           string
		s1, e1, s2, e2 *time.Time
		want           bool
	}{
		{name: "direct overlap", s1: at(-2 * time.Hour), e1: at(0), s2: at(-time.Hour), e2: at(time.Hour), want: true},
		{name: "within start tolerance", s1: at(-30 * time.Hour), e1: at(-29 * time.Hour), s2: at(-10 * time.Hour), e2: at(-9 * time.Hour), want: true},
		{name: "too far apart", s1: at(-80 * time.Hour), e1: at(-79 * time.Hour), s2: at(0), e2: at(time.Hour), want: false},
		{name: "missing bounds default to now", s1: nil, e1: nil, s2: nil, e2: nil, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.timeWindowsOverlap(tt.s1, tt.e1, tt.s2, tt.e2, now)
			if got != tt.want {
				t.Fatalf("unexpected overlap verdict: got %v, want %v", got, tt.want)
			}
		})
	}
}
