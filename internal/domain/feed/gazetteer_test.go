package feed

import (
	"context"
	"testing"
)

func TestStaticGazetteerResolve(t *testing.T) {
	g := NewStaticGazetteer(map[string][2]float64{"Springfield": {39.8, -89.65}})

	tests := []struct {
		name     string
		location string
		ok       bool
	}{
		{name: "known location", location: "New York", ok: true},
		{name: "case insensitive", location: "new york", ok: true},
		{name: "extra entry", location: "Springfield", ok: true},
		{name: "unknown location", location: "Atlantis", ok: false},
		{name: "empty location", location: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, ok := g.Resolve(tt.location)
			if ok != tt.ok {
				t.Fatalf("unexpected resolution for %q: got %v, want %v", tt.location, ok, tt.ok)
			}
		})
	}
}

func TestNeutralSentiment(t *testing.T) {
	s := NeutralSentiment{}.Score("anything at all")
	if s.Compound != 0 || s.Label != "neutral" {
		t.Fatalf("unexpected sentiment: %+v", s)
	}
}

func TestStaticAlerts(t *testing.T) {
	alerts := &StaticAlerts{Alerts: []ExternalAlert{{Event: "Flood Warning"}}}
	got, err := alerts.Fetch(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Event != "Flood Warning" {
		t.Fatalf("unexpected alerts: %+v", got)
	}
}

func TestSeverityRank(t *testing.T) {
	if SeverityRank("critical") != 3 || SeverityRank("high") != 2 ||
		SeverityRank("elevated") != 1 || SeverityRank("normal") != 0 ||
		SeverityRank("unknown") != 0 {
		t.Fatal("unexpected severity ordering")
	}
}
