package graphx

import "math"

const (
	eigenMaxIterations = 1000
	eigenTolerance     = 1e-6
)

// Metrics holds per-node metric vectors (indexed like g.Nodes) and
// graph-level statistics for one analysis run
type Metrics struct {
	Degree            []int
	DegreeCentrality  []float64
	Betweenness       []float64
	Eigenvector       []float64
	Clustering        []float64
	AveragePathLength []float64

	// Approximate is set when eigenvector centrality fell back to degree
	// centrality for at least one component
	Approximate bool

	Graph GraphMetrics
}

// GraphMetrics are graph-level statistics
type GraphMetrics struct {
	AverageDegree     float64 `json:"average_degree"`
	Density           float64 `json:"density"`
	NumComponents     int     `json:"num_components"`
	AverageClustering float64 `json:"average_clustering"`

	// Path statistics are computed over the largest connected component.
	// DiameterDefined reports whether Diameter is a true global diameter
	// (the graph is connected) rather than a per-component value.
	AveragePathLength float64 `json:"average_path_length"`
	Diameter          int     `json:"diameter"`
	DiameterDefined   bool    `json:"diameter_defined"`
	Radius            int     `json:"radius"`
}

// Calculator is the default CentralityCalculator over the in-memory graph
type Calculator struct{}

// NewCalculator returns the default metrics backend
func NewCalculator() *Calculator { return &Calculator{} }

// Compute fills every per-node metric and the graph-level statistics.
// Disconnected graphs are handled per component: betweenness and path
// lengths never cross components and eigenvector centrality is solved on
// each component separately.
func (c *Calculator) Compute(g *Graph) *Metrics {
	n := g.Order()
	m := &Metrics{
		Degree:            make([]int, n),
		DegreeCentrality:  make([]float64, n),
		Betweenness:       make([]float64, n),
		Eigenvector:       make([]float64, n),
		Clustering:        make([]float64, n),
		AveragePathLength: make([]float64, n),
	}
	if n == 0 {
		return m
	}

	for i := 0; i < n; i++ {
		m.Degree[i] = len(g.Neighbors(i))
	}
	if n > 1 {
		for i := 0; i < n; i++ {
			m.DegreeCentrality[i] = float64(m.Degree[i]) / float64(n-1)
		}
	}

	c.computeClustering(g, m)
	components := Components(g)
	c.computeBetweenness(g, m)
	c.computePathMetrics(g, m, components)
	c.computeEigenvector(g, m, components)

	degreeSum := 0
	clusteringSum := 0.0
	for i := 0; i < n; i++ {
		degreeSum += m.Degree[i]
		clusteringSum += m.Clustering[i]
	}
	m.Graph.AverageDegree = float64(degreeSum) / float64(n)
	m.Graph.AverageClustering = clusteringSum / float64(n)
	if n > 1 {
		m.Graph.Density = float64(2*g.Size()) / float64(n*(n-1))
	}
	m.Graph.NumComponents = len(components)

	return m
}

// Components returns the connected components as index slices, ordered by
// smallest member index
func Components(g *Graph) [][]int {
	n := g.Order()
	visited := make([]bool, n)
	var components [][]int
	queue := make([]int, 0, n)

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		visited[start] = true
		queue = append(queue[:0], start)
		component := []int{start}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			for _, nb := range g.Neighbors(v) {
				if !visited[nb.idx] {
					visited[nb.idx] = true
					queue = append(queue, nb.idx)
					component = append(component, nb.idx)
				}
			}
		}
		components = append(components, component)
	}
	return components
}

// computeClustering fills local clustering coefficients: the fraction of
// possible triangles among each node's neighbors, 0 below degree 2
func (c *Calculator) computeClustering(g *Graph, m *Metrics) {
	n := g.Order()
	adjSet := make([]map[int]struct{}, n)
	for i := 0; i < n; i++ {
		adjSet[i] = make(map[int]struct{}, len(g.Neighbors(i)))
		for _, nb := range g.Neighbors(i) {
			adjSet[i][nb.idx] = struct{}{}
		}
	}
	for i := 0; i < n; i++ {
		k := m.Degree[i]
		if k < 2 {
			continue
		}
		links := 0
		nbrs := g.Neighbors(i)
		for a := 0; a < len(nbrs); a++ {
			for b := a + 1; b < len(nbrs); b++ {
				if _, ok := adjSet[nbrs[a].idx][nbrs[b].idx]; ok {
					links++
				}
			}
		}
		m.Clustering[i] = float64(2*links) / float64(k*(k-1))
	}
}

// computeBetweenness runs Brandes' algorithm on the unweighted graph.
// Scores are halved for undirectedness and normalized by the number of
// node pairs, (n-1)(n-2)/2.
func (c *Calculator) computeBetweenness(g *Graph, m *Metrics) {
	n := g.Order()
	if n < 3 {
		return
	}

	bc := make([]float64, n)
	sigma := make([]float64, n)
	dist := make([]int, n)
	delta := make([]float64, n)
	preds := make([][]int, n)
	stack := make([]int, 0, n)
	queue := make([]int, 0, n)

	for s := 0; s < n; s++ {
		stack = stack[:0]
		queue = queue[:0]
		for i := 0; i < n; i++ {
			sigma[i] = 0
			dist[i] = -1
			delta[i] = 0
			preds[i] = preds[i][:0]
		}
		sigma[s] = 1
		dist[s] = 0
		queue = append(queue, s)

		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			stack = append(stack, v)
			for _, nb := range g.Neighbors(v) {
				w := nb.idx
				if dist[w] < 0 {
					dist[w] = dist[v] + 1
					queue = append(queue, w)
				}
				if dist[w] == dist[v]+1 {
					sigma[w] += sigma[v]
					preds[w] = append(preds[w], v)
				}
			}
		}

		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range preds[w] {
				delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
			}
			if w != s {
				bc[w] += delta[w]
			}
		}
	}

	scale := 1.0 / (float64(n-1) * float64(n-2)) // 1/2 undirected * 2/((n-1)(n-2))
	for i := 0; i < n; i++ {
		m.Betweenness[i] = bc[i] * scale
	}
}

// computePathMetrics fills per-node average shortest path lengths over
// reachable nodes only, plus the graph-level diameter and radius policy:
// computed over the largest component, flagged undefined when disconnected
func (c *Calculator) computePathMetrics(g *Graph, m *Metrics, components [][]int) {
	n := g.Order()
	dist := make([]int, n)
	queue := make([]int, 0, n)

	largest := 0
	for ci, comp := range components {
		if len(comp) > len(components[largest]) {
			largest = ci
		}
	}

	var (
		pathSum   float64
		pathCount int
		diameter  int
		radius    = math.MaxInt
	)

	for ci, comp := range components {
		for _, s := range comp {
			for i := range dist {
				dist[i] = -1
			}
			dist[s] = 0
			queue = append(queue[:0], s)
			total, reached, ecc := 0, 0, 0
			for len(queue) > 0 {
				v := queue[0]
				queue = queue[1:]
				for _, nb := range g.Neighbors(v) {
					if dist[nb.idx] < 0 {
						dist[nb.idx] = dist[v] + 1
						queue = append(queue, nb.idx)
						total += dist[nb.idx]
						reached++
						if dist[nb.idx] > ecc {
							ecc = dist[nb.idx]
						}
					}
				}
			}
			if reached > 0 {
				m.AveragePathLength[s] = float64(total) / float64(reached)
			}
			if ci == largest && len(comp) > 1 {
				pathSum += float64(total)
				pathCount += reached
				if ecc > diameter {
					diameter = ecc
				}
				if ecc < radius {
					radius = ecc
				}
			}
		}
	}

	if pathCount > 0 {
		m.Graph.AveragePathLength = pathSum / float64(pathCount)
		m.Graph.Diameter = diameter
		m.Graph.Radius = radius
	}
	m.Graph.DiameterDefined = len(components) == 1 && n > 1
}

// computeEigenvector runs power iteration per component over the weighted
// adjacency. Components that do not converge within the iteration cap fall
// back to degree centrality and mark the metrics approximate.
func (c *Calculator) computeEigenvector(g *Graph, m *Metrics, components [][]int) {
	for _, comp := range components {
		if len(comp) == 1 {
			continue // isolates and singletons carry zero centrality
		}
		if !powerIteration(g, m.Eigenvector, comp) {
			for _, v := range comp {
				m.Eigenvector[v] = m.DegreeCentrality[v]
			}
			m.Approximate = true
		}
	}
}

// powerIteration solves the principal eigenvector restricted to one
// component, writing L2-normalized scores into out. Returns false on
// non-convergence.
func powerIteration(g *Graph, out []float64, comp []int) bool {
	size := len(comp)
	x := make(map[int]float64, size)
	next := make(map[int]float64, size)
	for _, v := range comp {
		x[v] = 1.0 / float64(size)
	}

	for iter := 0; iter < eigenMaxIterations; iter++ {
		for _, v := range comp {
			next[v] = x[v]
		}
		for _, v := range comp {
			for _, nb := range g.Neighbors(v) {
				next[nb.idx] += x[v] * nb.weight
			}
		}
		var norm float64
		for _, v := range comp {
			norm += next[v] * next[v]
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			norm = 1
		}
		var change float64
		for _, v := range comp {
			next[v] /= norm
			change += math.Abs(next[v] - x[v])
		}
		x, next = next, x
		if change < float64(size)*eigenTolerance {
			for _, v := range comp {
				out[v] = x[v]
			}
			return true
		}
	}
	return false
}
