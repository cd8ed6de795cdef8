package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Graph.SimilarityThreshold != 0.3 {
		t.Fatalf("unexpected similarity threshold: %f", cfg.Graph.SimilarityThreshold)
	}
	if cfg.Graph.MaxFeatures != 500 || cfg.Graph.MinDocFreq != 2 {
		t.Fatalf("unexpected graph defaults: %+v", cfg.Graph)
	}
	if cfg.Insight.MaxAlerts != 25 || cfg.Insight.TopInfluencers != 10 {
		t.Fatalf("unexpected insight defaults: %+v", cfg.Insight)
	}
	if cfg.Live.BufferSize != 200 {
		t.Fatalf("unexpected live buffer size: %d", cfg.Live.BufferSize)
	}
	if cfg.Live.NATS.Subject != "crisisnet.events" {
		t.Fatalf("unexpected nats subject: %q", cfg.Live.NATS.Subject)
	}
	if cfg.CrossVal.MaxDistanceKm != 50 || cfg.CrossVal.TimeWindow != 24*time.Hour {
		t.Fatalf("unexpected crossval defaults: %+v", cfg.CrossVal)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GRAPH_SIMILARITY_THRESHOLD", "0.5")
	t.Setenv("INSIGHT_MAX_ALERTS", "10")
	t.Setenv("NATS_RECONNECT_WAIT", "5s")
	t.Setenv("LOG_DEBUG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Graph.SimilarityThreshold != 0.5 {
		t.Fatalf("unexpected threshold: %f", cfg.Graph.SimilarityThreshold)
	}
	if cfg.Insight.MaxAlerts != 10 {
		t.Fatalf("unexpected max alerts: %d", cfg.Insight.MaxAlerts)
	}
	if cfg.Live.NATS.ReconnectWait != 5*time.Second {
		t.Fatalf("unexpected reconnect wait: %v", cfg.Live.NATS.ReconnectWait)
	}
	if !cfg.Log.Debug {
		t.Fatal("expected debug logging enabled")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("GRAPH_SIMILARITY_THRESHOLD", "1.5")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for out-of-range threshold")
	}
}
