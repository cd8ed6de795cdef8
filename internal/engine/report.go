package engine

import (
	"time"

	"crisisnet/internal/crossval"
	"crisisnet/internal/domain/dataset"
	"crisisnet/internal/domain/feed"
	"crisisnet/internal/graphx"
	"crisisnet/internal/insight"
)

// Report is the full serializable output of one analysis run
type Report struct {
	Stats        dataset.Stats            `json:"dataset_stats"`
	GraphMetrics graphx.GraphMetrics      `json:"graph_metrics"`
	Approximate  bool                     `json:"approximate_centrality"`
	Communities  int                      `json:"num_communities"`
	Influencers  []insight.Influencer     `json:"top_influencers"`
	Topics       []insight.Topic          `json:"topics"`
	Sentiment    insight.SentimentSummary `json:"sentiment_summary"`
	Alerts       insight.AlertReport      `json:"alert_report"`
	Geo          insight.GeoInsights      `json:"geo_insights"`
	Timeline     insight.Timeline         `json:"timeline"`
	GovAlerts    []feed.ExternalAlert     `json:"gov_alerts"`
	CrossVal     crossval.Report          `json:"cross_validation"`
	Summary      insight.Summary          `json:"summary"`
	Graph        GraphExport              `json:"graph"`
	AnalyzedAt   time.Time                `json:"analyzed_at"`
}

// BuildReport assembles the flat report view of a session
func BuildReport(s *Session) Report {
	return Report{
		Stats:        s.Dataset.Stats,
		GraphMetrics: s.Metrics.Graph,
		Approximate:  s.Metrics.Approximate,
		Communities:  s.Partition.Count,
		Influencers:  s.Influencers,
		Topics:       s.Text.Topics,
		Sentiment:    s.Text.SentimentSummary,
		Alerts:       s.Alerts,
		Geo:          s.Geo,
		Timeline:     s.Timeline,
		GovAlerts:    s.GovAlerts,
		CrossVal:     s.CrossVal,
		Summary:      s.Summary,
		Graph:        ExportGraph(s),
		AnalyzedAt:   s.AnalyzedAt,
	}
}
