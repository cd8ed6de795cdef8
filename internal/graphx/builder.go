package graphx

import (
	"strings"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/mat"

	"crisisnet/internal/domain/dataset"
)

const (
	sharedKeywordWeight  = 0.5
	sharedLocationWeight = 0.3
)

// BuilderConfig contains configuration for the graph builder
type BuilderConfig struct {
	SimilarityThreshold float64
	LargeGraphWarn      int
}

// Builder turns a dataset into a weighted similarity graph. Pairwise cosine
// similarity comes from one matrix product over the encoder's normalized
// document-term matrix, so cost stays tractable near the warning threshold.
type Builder struct {
	vectorizer Vectorizer
	config     BuilderConfig
	logger     *log.Logger
}

// NewBuilder creates a graph builder around a vectorizer
func NewBuilder(vectorizer Vectorizer, config BuilderConfig, logger *log.Logger) *Builder {
	if config.SimilarityThreshold <= 0 {
		config.SimilarityThreshold = 0.3
	}
	if config.LargeGraphWarn <= 0 {
		config.LargeGraphWarn = 1000
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{vectorizer: vectorizer, config: config, logger: logger}
}

// Build fits the vectorizer over the dataset corpus and assembles the
// graph: similarity edges first, then shared-keyword and shared-location
// edges between pairs not already connected.
func (b *Builder) Build(ds *dataset.Dataset) *Graph {
	g := NewGraph(ds.Records)
	n := g.Order()
	if n > b.config.LargeGraphWarn {
		b.logger.Warn("large dataset, similarity computation is quadratic",
			"nodes", n, "threshold", b.config.LargeGraphWarn)
	}
	if n < 2 {
		return g
	}

	docs := make([]string, n)
	for i, rec := range ds.Records {
		docs[i] = rec.Text
	}
	b.vectorizer.Fit(docs)

	b.addSimilarityEdges(g)
	b.addSharedKeywordEdges(g, ds.Records)
	b.addSharedLocationEdges(g, ds.Records)

	b.logger.Info("graph built", "nodes", g.Order(), "edges", g.Size())
	return g
}

// addSimilarityEdges thresholds the cosine similarity matrix. Rows of the
// fitted matrix are L2-normalized, so the Gram matrix holds cosines.
func (b *Builder) addSimilarityEdges(g *Graph) {
	m := b.vectorizer.Matrix()
	if m == nil {
		return
	}
	var sim mat.Dense
	sim.Mul(m, m.T())

	n := g.Order()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if w := sim.At(i, j); w >= b.config.SimilarityThreshold {
				g.AddEdge(i, j, w, EdgeSimilarity)
			}
		}
	}
}

func (b *Builder) addSharedKeywordEdges(g *Graph, records []dataset.Record) {
	groups := make(map[string][]int)
	for i, rec := range records {
		if rec.Keyword != "" {
			groups[rec.Keyword] = append(groups[rec.Keyword], i)
		}
	}
	addGroupEdges(g, groups, sharedKeywordWeight, EdgeSharedKeyword)
}

func (b *Builder) addSharedLocationEdges(g *Graph, records []dataset.Record) {
	groups := make(map[string][]int)
	for i, rec := range records {
		loc := strings.ToLower(strings.TrimSpace(rec.Location))
		if loc != "" {
			groups[loc] = append(groups[loc], i)
		}
	}
	addGroupEdges(g, groups, sharedLocationWeight, EdgeSharedLocation)
}

func addGroupEdges(g *Graph, groups map[string][]int, weight float64, typ EdgeType) {
	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		for a := 0; a < len(members); a++ {
			for b := a + 1; b < len(members); b++ {
				g.AddEdge(members[a], members[b], weight, typ)
			}
		}
	}
}
