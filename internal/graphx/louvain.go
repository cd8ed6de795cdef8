package graphx

import "sort"

// Louvain is a greedy modularity-maximization community detector. Nodes
// are scanned in index order with first-improvement moves and weight
// sums accumulate in sorted key order, so the result is deterministic
// for a fixed graph; tie-break order still shapes the partition on
// degenerate inputs.
type Louvain struct {
	// MaxPasses bounds the local-moving/coarsening rounds
	MaxPasses int
}

// NewLouvain returns the default community detector
func NewLouvain() *Louvain {
	return &Louvain{MaxPasses: 10}
}

// Detect partitions the graph. Every node lands in exactly one community;
// isolated nodes each get their own singleton community.
func (l *Louvain) Detect(g *Graph) Partition {
	n := g.Order()
	if n == 0 {
		return Partition{Assignments: nil, Count: 0}
	}

	// Working multigraph state, coarsened between passes.
	size := n
	adj := make([]map[int]float64, n)
	selfLoops := make([]float64, n)
	membership := make([]int, n) // original node -> current coarse node
	for i := 0; i < n; i++ {
		membership[i] = i
		adj[i] = make(map[int]float64, len(g.Neighbors(i)))
		for _, nb := range g.Neighbors(i) {
			adj[i][nb.idx] += nb.weight
		}
	}

	totalWeight := 0.0
	for _, e := range g.Edges {
		totalWeight += e.Weight
	}
	if totalWeight == 0 {
		// No edges: every node is its own community.
		assignments := make([]int, n)
		for i := range assignments {
			assignments[i] = i
		}
		return Partition{Assignments: assignments, Count: n}
	}

	passes := l.MaxPasses
	if passes <= 0 {
		passes = 10
	}
	for pass := 0; pass < passes; pass++ {
		community, improved := localMoving(size, adj, selfLoops, totalWeight)
		if !improved && pass > 0 {
			break
		}
		community = compactLabels(community)

		// Project onto original nodes.
		for i := 0; i < n; i++ {
			membership[i] = community[membership[i]]
		}

		// Coarsen: one node per community, aggregated weights.
		newSize := 0
		for _, c := range community {
			if c >= newSize {
				newSize = c + 1
			}
		}
		if newSize == size {
			break
		}
		newAdj := make([]map[int]float64, newSize)
		newSelf := make([]float64, newSize)
		for i := range newAdj {
			newAdj[i] = make(map[int]float64)
		}
		for v := 0; v < size; v++ {
			cv := community[v]
			newSelf[cv] += selfLoops[v]
			// Sorted keys keep float accumulation order stable across runs.
			for _, w := range sortedKeys(adj[v]) {
				weight := adj[v][w]
				cw := community[w]
				if cv == cw {
					// Each intra-community edge appears from both ends.
					newSelf[cv] += weight / 2
				} else {
					newAdj[cv][cw] += weight
				}
			}
		}
		size, adj, selfLoops = newSize, newAdj, newSelf
		if !improved {
			break
		}
	}

	assignments := compactLabels(membership)
	count := 0
	for _, c := range assignments {
		if c >= count {
			count = c + 1
		}
	}
	return Partition{Assignments: assignments, Count: count}
}

// localMoving runs one Louvain level: repeatedly move nodes to the
// neighboring community with the best modularity gain until stable.
// Returns the community of each coarse node and whether anything moved.
func localMoving(size int, adj []map[int]float64, selfLoops []float64, totalWeight float64) ([]int, bool) {
	community := make([]int, size)
	degree := make([]float64, size)    // weighted degree per node
	commTotal := make([]float64, size) // total weighted degree per community
	for v := 0; v < size; v++ {
		community[v] = v
		d := 2 * selfLoops[v]
		for _, w := range sortedKeys(adj[v]) {
			d += adj[v][w]
		}
		degree[v] = d
		commTotal[v] = d
	}

	m2 := 2 * totalWeight
	improvedEver := false
	for {
		moved := false
		for v := 0; v < size; v++ {
			current := community[v]

			// Weight from v to each neighboring community.
			links := make(map[int]float64)
			for _, w := range sortedKeys(adj[v]) {
				links[community[w]] += adj[v][w]
			}

			commTotal[current] -= degree[v]
			bestComm := current
			bestGain := links[current] - commTotal[current]*degree[v]/m2
			for _, comm := range sortedKeys(links) {
				if comm == current {
					continue
				}
				gain := links[comm] - commTotal[comm]*degree[v]/m2
				if gain > bestGain || (gain == bestGain && comm < bestComm) {
					bestGain = gain
					bestComm = comm
				}
			}
			commTotal[bestComm] += degree[v]
			if bestComm != current {
				community[v] = bestComm
				moved = true
				improvedEver = true
			}
		}
		if !moved {
			break
		}
	}
	return community, improvedEver
}

// sortedKeys returns the map's keys in ascending order
func sortedKeys(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// compactLabels renumbers labels to consecutive ints ordered by first
// appearance, keeping community ids stable within a run
func compactLabels(labels []int) []int {
	next := 0
	remap := make(map[int]int, len(labels))
	out := make([]int, len(labels))
	for i, l := range labels {
		if _, ok := remap[l]; !ok {
			remap[l] = next
			next++
		}
		out[i] = remap[l]
	}
	return out
}
