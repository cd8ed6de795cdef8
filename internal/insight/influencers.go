// Package insight synthesizes scores, rankings and report objects from the
// graph metrics and externally supplied text signals.
package insight

import (
	"sort"

	"crisisnet/internal/graphx"
)

// Influencer ranking blend
const (
	influencerDegreeWeight      = 0.4
	influencerBetweennessWeight = 0.3
	influencerEigenvectorWeight = 0.3
)

// Influencer is one ranked node with its component centrality scores
type Influencer struct {
	ID                    string  `json:"id"`
	CombinedScore         float64 `json:"combined_score"`
	DegreeCentrality      float64 `json:"degree_centrality"`
	BetweennessCentrality float64 `json:"betweenness_centrality"`
	EigenvectorCentrality float64 `json:"eigenvector_centrality"`
	ClusteringCoefficient float64 `json:"clustering_coefficient"`
	Community             int     `json:"community"`
	Keyword               string  `json:"keyword"`
	Location              string  `json:"location"`
	Text                  string  `json:"text"`
	Target                int     `json:"target"`
}

// TopInfluencers ranks nodes by a weighted centrality blend and returns the
// top n. Ties break by record id for run-to-run stability.
func TopInfluencers(g *graphx.Graph, m *graphx.Metrics, partition graphx.Partition, n int) []Influencer {
	influencers := make([]Influencer, 0, g.Order())
	for i, node := range g.Nodes {
		combined := influencerDegreeWeight*m.DegreeCentrality[i] +
			influencerBetweennessWeight*m.Betweenness[i] +
			influencerEigenvectorWeight*m.Eigenvector[i]
		influencers = append(influencers, Influencer{
			ID:                    node.Record.ID,
			CombinedScore:         combined,
			DegreeCentrality:      m.DegreeCentrality[i],
			BetweennessCentrality: m.Betweenness[i],
			EigenvectorCentrality: m.Eigenvector[i],
			ClusteringCoefficient: m.Clustering[i],
			Community:             partition.Assignments[i],
			Keyword:               node.Record.Keyword,
			Location:              node.Record.Location,
			Text:                  truncate(node.Record.Text, 150),
			Target:                node.Record.Target,
		})
	}
	sort.Slice(influencers, func(a, b int) bool {
		if influencers[a].CombinedScore != influencers[b].CombinedScore {
			return influencers[a].CombinedScore > influencers[b].CombinedScore
		}
		return influencers[a].ID < influencers[b].ID
	})
	if n > 0 && len(influencers) > n {
		influencers = influencers[:n]
	}
	return influencers
}

// truncate cuts on a rune boundary so multibyte text never yields a
// broken trailing sequence
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
