package insight

import (
	"fmt"
	"strings"

	"crisisnet/internal/domain/dataset"
	"crisisnet/internal/graphx"
)

// Aggregates are the corpus-level counts that feed the summary template
type Aggregates struct {
	TotalRecords      int     `json:"total_tweets"`
	DisasterRecords   int     `json:"disaster_tweets"`
	NonDisaster       int     `json:"non_disaster_tweets"`
	NumCommunities    int     `json:"num_communities"`
	AverageDegree     float64 `json:"average_degree"`
	GraphDensity      float64 `json:"graph_density"`
	AveragePathLength float64 `json:"average_path_length"`
	Diameter          int     `json:"diameter"`
	Radius            int     `json:"radius"`
	AverageClustering float64 `json:"average_clustering"`
	NumComponents     int     `json:"num_components"`
	TopKeyword        string  `json:"top_keyword"`
}

// Summary is the rendered natural-language report plus its insight lines
type Summary struct {
	Summary  string   `json:"summary"`
	Insights []string `json:"insights"`
}

// BuildAggregates collects corpus and graph statistics for the summary
func BuildAggregates(ds *dataset.Dataset, m *graphx.Metrics, partition graphx.Partition) Aggregates {
	return Aggregates{
		TotalRecords:      ds.Stats.TotalRows,
		DisasterRecords:   ds.Stats.DisasterTweets,
		NonDisaster:       ds.Stats.NonDisasterTweets,
		NumCommunities:    partition.Count,
		AverageDegree:     m.Graph.AverageDegree,
		GraphDensity:      m.Graph.Density,
		AveragePathLength: m.Graph.AveragePathLength,
		Diameter:          m.Graph.Diameter,
		Radius:            m.Graph.Radius,
		AverageClustering: m.Graph.AverageClustering,
		NumComponents:     m.Graph.NumComponents,
		TopKeyword:        ds.TopKeyword(),
	}
}

// GenerateSummary renders the fixed report template from the aggregates
// and the influencer ranking. No free-form generation happens here.
func GenerateSummary(agg Aggregates, influencers []Influencer) Summary {
	var parts []string

	parts = append(parts, fmt.Sprintf(
		"CrisisNet analyzed %d records, identifying %d disaster-related and %d non-disaster records.",
		agg.TotalRecords, agg.DisasterRecords, agg.NonDisaster,
	))
	parts = append(parts, fmt.Sprintf(
		"The social network contains %d distinct information communities with an average degree of %.2f and graph density of %.4f.",
		agg.NumCommunities, agg.AverageDegree, agg.GraphDensity,
	))
	parts = append(parts, fmt.Sprintf(
		"Information typically travels %.2f hops with a network diameter of %d and average clustering coefficient of %.2f.",
		agg.AveragePathLength, agg.Diameter, agg.AverageClustering,
	))
	if len(influencers) > 0 {
		top := influencers[0]
		parts = append(parts, fmt.Sprintf(
			"Record %s emerged as the most influential node with a combined centrality score of %.3f, belonging to community %d.",
			top.ID, top.CombinedScore, top.Community,
		))
	}
	parts = append(parts, fmt.Sprintf(
		"The most frequently discussed keyword is '%s', indicating the primary focus of crisis communication in this dataset.",
		agg.TopKeyword,
	))

	insights := make([]string, 0, 7)
	for i, inf := range influencers {
		if i == 5 {
			break
		}
		insights = append(insights, fmt.Sprintf(
			"Record %s is a key informer in community %d with combined centrality score of %.3f",
			inf.ID, inf.Community, inf.CombinedScore,
		))
	}
	insights = append(insights, fmt.Sprintf("The most common disaster keyword is '%s'", agg.TopKeyword))
	insights = append(insights, fmt.Sprintf("Network contains %d distinct information communities", agg.NumCommunities))

	return Summary{
		Summary:  strings.Join(parts, " "),
		Insights: insights,
	}
}
