package engine

const labelMaxLen = 50

// ExportNode is the wire form of one graph node with its computed
// attributes
type ExportNode struct {
	ID                    string  `json:"id"`
	Label                 string  `json:"label"`
	Keyword               string  `json:"keyword"`
	Location              string  `json:"location"`
	Target                int     `json:"target"`
	Community             int     `json:"community"`
	Degree                int     `json:"degree"`
	DegreeCentrality      float64 `json:"degree_centrality"`
	BetweennessCentrality float64 `json:"betweenness_centrality"`
	EigenvectorCentrality float64 `json:"eigenvector_centrality"`
	ClusteringCoefficient float64 `json:"clustering_coefficient"`
	AveragePathLength     float64 `json:"average_path_length"`
	Text                  string  `json:"text"`
}

// ExportEdge is the wire form of one edge. Endpoints of an existing edge
// are always one hop apart in a simple graph, so PathLength is 1 and
// IsDirect is true.
type ExportEdge struct {
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	Weight     float64 `json:"weight"`
	Type       string  `json:"type"`
	PathLength int     `json:"path_length"`
	IsDirect   bool    `json:"is_direct"`
}

// GraphExport is the serializable graph view of one session
type GraphExport struct {
	Nodes []ExportNode `json:"nodes"`
	Edges []ExportEdge `json:"edges"`
}

// ExportGraph renders the session graph for visualization consumers
func ExportGraph(s *Session) GraphExport {
	export := GraphExport{
		Nodes: make([]ExportNode, 0, s.Graph.Order()),
		Edges: make([]ExportEdge, 0, s.Graph.Size()),
	}

	for _, node := range s.Graph.Nodes {
		rec := node.Record
		export.Nodes = append(export.Nodes, ExportNode{
			ID:                    rec.ID,
			Label:                 nodeLabel(rec.Text),
			Keyword:               rec.Keyword,
			Location:              rec.Location,
			Target:                rec.Target,
			Community:             node.Community,
			Degree:                node.Degree,
			DegreeCentrality:      node.DegreeCentrality,
			BetweennessCentrality: node.BetweennessCentrality,
			EigenvectorCentrality: node.EigenvectorCentrality,
			ClusteringCoefficient: node.ClusteringCoefficient,
			AveragePathLength:     node.AveragePathLength,
			Text:                  rec.Text,
		})
	}

	for _, edge := range s.Graph.Edges {
		export.Edges = append(export.Edges, ExportEdge{
			Source:     edge.Source,
			Target:     edge.Target,
			Weight:     edge.Weight,
			Type:       string(edge.Type),
			PathLength: 1,
			IsDirect:   true,
		})
	}
	return export
}

// nodeLabel shortens node text on a rune boundary
func nodeLabel(text string) string {
	if len(text) <= labelMaxLen {
		return text
	}
	r := []rune(text)
	if len(r) <= labelMaxLen {
		return text
	}
	return string(r[:labelMaxLen]) + "..."
}
