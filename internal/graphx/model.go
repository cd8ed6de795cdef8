// Package graphx holds the similarity graph model and the algorithmic
// backends that operate on it.
package graphx

import (
	"gonum.org/v1/gonum/mat"

	"crisisnet/internal/domain/dataset"
)

// EdgeType
type EdgeType string

const (
	EdgeSimilarity     EdgeType = "similarity"
	EdgeSharedKeyword  EdgeType = "shared_keyword"
	EdgeSharedLocation EdgeType = "shared_location"
)

// Node is one record in the graph plus its computed attributes. Attributes
// are recomputed wholesale on each analysis run, never patched.
type Node struct {
	Record dataset.Record

	Degree                int
	DegreeCentrality      float64
	BetweennessCentrality float64
	EigenvectorCentrality float64
	ClusteringCoefficient float64
	AveragePathLength     float64
	Community             int
	AlertScore            float64
}

// Edge is an undirected weighted relation between two records
type Edge struct {
	Source string
	Target string
	Weight float64
	Type   EdgeType
}

// neighbor is one adjacency entry, by node index
type neighbor struct {
	idx    int
	weight float64
}

// Graph is the node/edge collection for one analysis run. It is simple and
// undirected: at most one edge connects a pair, carrying the dominant type.
type Graph struct {
	Nodes []*Node
	Edges []Edge

	index map[string]int
	adj   [][]neighbor
}

// NewGraph creates a graph over the given records with no edges
func NewGraph(records []dataset.Record) *Graph {
	g := &Graph{
		Nodes: make([]*Node, len(records)),
		index: make(map[string]int, len(records)),
		adj:   make([][]neighbor, len(records)),
	}
	for i, rec := range records {
		g.Nodes[i] = &Node{Record: rec, Community: -1}
		g.index[rec.ID] = i
	}
	return g
}

// Order returns the number of nodes
func (g *Graph) Order() int { return len(g.Nodes) }

// Size returns the number of edges
func (g *Graph) Size() int { return len(g.Edges) }

// IndexOf returns the node index for a record id
func (g *Graph) IndexOf(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// HasEdge reports whether any edge connects the two node indices
func (g *Graph) HasEdge(i, j int) bool {
	for _, nb := range g.adj[i] {
		if nb.idx == j {
			return true
		}
	}
	return false
}

// AddEdge connects two node indices. Self loops and second edges between a
// pair are ignored; the first edge added carries the dominant type.
func (g *Graph) AddEdge(i, j int, weight float64, typ EdgeType) {
	if i == j || g.HasEdge(i, j) {
		return
	}
	if weight < 0 {
		weight = 0
	}
	if weight > 1 {
		weight = 1
	}
	g.Edges = append(g.Edges, Edge{
		Source: g.Nodes[i].Record.ID,
		Target: g.Nodes[j].Record.ID,
		Weight: weight,
		Type:   typ,
	})
	g.adj[i] = append(g.adj[i], neighbor{idx: j, weight: weight})
	g.adj[j] = append(g.adj[j], neighbor{idx: i, weight: weight})
}

// Neighbors returns the adjacency row of a node index
func (g *Graph) Neighbors(i int) []neighbor { return g.adj[i] }

// Vectorizer encodes documents into a weighted feature space. The
// vocabulary is fixed when Fit runs; Transform must tolerate unseen terms.
type Vectorizer interface {
	Fit(docs []string)
	Transform(doc string) []float64
	Matrix() *mat.Dense
	Features() int
}

// CentralityCalculator computes per-node and graph-level metrics
type CentralityCalculator interface {
	Compute(g *Graph) *Metrics
}

// CommunityDetector partitions a graph's nodes into communities
type CommunityDetector interface {
	Detect(g *Graph) Partition
}

// Partition maps every node index to a community id. Community ids are
// stable within one analysis run only.
type Partition struct {
	Assignments []int
	Count       int
}

// CommunityOf returns the community for a record id, -1 when the id is not
// part of the partition
func (p Partition) CommunityOf(g *Graph, id string) int {
	i, ok := g.IndexOf(id)
	if !ok || i >= len(p.Assignments) {
		return -1
	}
	return p.Assignments[i]
}
