package insight

import (
	"sort"

	"crisisnet/internal/domain/dataset"
	"crisisnet/internal/domain/feed"
	"crisisnet/internal/graphx"
)

// Composite alert blend: centrality, sentiment risk, topic prominence
const (
	alertCentralityWeight = 0.5
	alertSentimentWeight  = 0.3
	alertTopicWeight      = 0.2

	centralityDegreeWeight      = 0.45
	centralityBetweennessWeight = 0.35
	centralityEigenWeight       = 0.2

	disasterSentimentBoost = 1.1
)

// Severity tier cut points
const (
	severityCritical = 0.8
	severityHigh     = 0.6
	severityElevated = 0.4
)

// Alert is one node's composite alert score and its components
type Alert struct {
	ID              string  `json:"id"`
	Text            string  `json:"text"`
	Keyword         string  `json:"keyword"`
	Location        string  `json:"location"`
	Target          int     `json:"target"`
	Community       int     `json:"community"`
	AlertScore      float64 `json:"alert_score"`
	CentralityScore float64 `json:"centrality_score"`
	SentimentRisk   float64 `json:"sentiment_risk"`
	TopicConfidence float64 `json:"topic_confidence"`
	SentimentLabel  string  `json:"sentiment_label"`
	Severity        string  `json:"severity"`

	// Cross-validation adjustments, filled by the cross validator
	GovAlignment string  `json:"gov_alignment,omitempty"`
	GovBoost     float64 `json:"gov_boost,omitempty"`
	GovPenalty   float64 `json:"gov_penalty,omitempty"`
}

// AlertSummary aggregates the alert list
type AlertSummary struct {
	AverageAlertScore float64 `json:"average_alert_score"`
	CriticalAlerts    int     `json:"critical_alerts"`
	HighAlerts        int     `json:"high_alerts"`
	ElevatedAlerts    int     `json:"elevated_alerts"`
}

// AlertReport is the ranked alert output of one analysis run
type AlertReport struct {
	Alerts  []Alert      `json:"alerts"`
	Summary AlertSummary `json:"summary"`
}

// SeverityLabel maps a composite score to its tier
func SeverityLabel(score float64) string {
	switch {
	case score >= severityCritical:
		return "critical"
	case score >= severityHigh:
		return "high"
	case score >= severityElevated:
		return "elevated"
	default:
		return "normal"
	}
}

// ComputeAlerts derives one composite alert per record from centrality,
// sentiment polarity and topic prominence, ranks them and keeps the top
// maxAlerts. The summary counts every record, not just the kept slice.
func ComputeAlerts(
	ds *dataset.Dataset,
	g *graphx.Graph,
	m *graphx.Metrics,
	sentiments map[string]feed.Sentiment,
	topics map[string]feed.TopicInfo,
	partition graphx.Partition,
	maxAlerts int,
) AlertReport {
	alerts := make([]Alert, 0, len(ds.Records))
	for _, rec := range ds.Records {
		i, ok := g.IndexOf(rec.ID)
		if !ok {
			continue
		}

		centrality := centralityDegreeWeight*m.DegreeCentrality[i] +
			centralityBetweennessWeight*m.Betweenness[i] +
			centralityEigenWeight*m.Eigenvector[i]

		sentiment, hasSentiment := sentiments[rec.ID]
		if !hasSentiment {
			sentiment = feed.Sentiment{Label: "neutral"}
		}
		risk := 1 - ((sentiment.Compound + 1) / 2)
		if rec.Target == 1 {
			risk *= disasterSentimentBoost
		}

		topicConfidence := 0.0
		if topic, ok := topics[rec.ID]; ok {
			topicConfidence = topic.Confidence
		}

		score := alertCentralityWeight*centrality +
			alertSentimentWeight*risk +
			alertTopicWeight*topicConfidence
		score = clamp01(score)

		alerts = append(alerts, Alert{
			ID:              rec.ID,
			Text:            truncate(rec.Text, 200),
			Keyword:         rec.Keyword,
			Location:        rec.Location,
			Target:          rec.Target,
			Community:       partition.Assignments[i],
			AlertScore:      score,
			CentralityScore: centrality,
			SentimentRisk:   risk,
			TopicConfidence: topicConfidence,
			SentimentLabel:  sentiment.Label,
			Severity:        SeverityLabel(score),
		})
	}

	SortAlerts(alerts)
	summary := SummarizeAlerts(alerts)
	if maxAlerts > 0 && len(alerts) > maxAlerts {
		alerts = alerts[:maxAlerts]
	}
	return AlertReport{Alerts: alerts, Summary: summary}
}

// SortAlerts orders alerts by score descending, id ascending on ties
func SortAlerts(alerts []Alert) {
	sort.Slice(alerts, func(a, b int) bool {
		if alerts[a].AlertScore != alerts[b].AlertScore {
			return alerts[a].AlertScore > alerts[b].AlertScore
		}
		return alerts[a].ID < alerts[b].ID
	})
}

// SummarizeAlerts recounts the severity tiers of an alert list
func SummarizeAlerts(alerts []Alert) AlertSummary {
	var summary AlertSummary
	if len(alerts) == 0 {
		return summary
	}
	total := 0.0
	for _, a := range alerts {
		total += a.AlertScore
		switch {
		case a.AlertScore >= severityCritical:
			summary.CriticalAlerts++
		case a.AlertScore >= severityHigh:
			summary.HighAlerts++
		case a.AlertScore >= severityElevated:
			summary.ElevatedAlerts++
		}
	}
	summary.AverageAlertScore = total / float64(len(alerts))
	return summary
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
