package graph

import (
	"math/rand"

	"gonum.org/v1/gonum/graph/simple"
)

// GenerateRandomGraph builds a random connected weighted undirected graph
// with n vertices and approximately m edges, via gonum's graph/simple package,
// adapted from the teacher's cmd/lp-sssp/rand-graph.go (which used
// simple.NewWeightedDirectedGraph plus graph/path for SSSP fixtures) into an
// undirected fixture generator for FM refinement tests.
func GenerateRandomGraph(n, m int, seed int64) *StaticGraph {
	rng := rand.New(rand.NewSource(seed))
	wg := simple.NewWeightedUndirectedGraph(0, 0)

	for i := 0; i < n; i++ {
		wg.AddNode(simple.Node(int64(i)))
	}

	// A random spanning tree first, guaranteeing connectivity, then extra
	// random edges up to approximately m.
	order := rng.Perm(n)
	for i := 1; i < n; i++ {
		u := int64(order[i])
		v := int64(order[rng.Intn(i)])
		addWeightedEdgeIfAbsent(wg, u, v, 1+rng.Int63n(8), rng)
	}

	extra := m - (n - 1)
	for e := 0; e < extra; e++ {
		u := int64(rng.Intn(n))
		v := int64(rng.Intn(n))
		if u == v {
			continue
		}
		addWeightedEdgeIfAbsent(wg, u, v, 1+rng.Int63n(8), rng)
	}

	return FromWeightedGraph(wg, n, rng)
}

func addWeightedEdgeIfAbsent(wg *simple.WeightedUndirectedGraph, u, v int64, weight int64, rng *rand.Rand) {
	if wg.HasEdgeBetween(u, v) {
		return
	}
	wg.SetWeightedEdge(wg.NewWeightedEdge(simple.Node(u), simple.Node(v), float64(weight)))
}

// FromWeightedGraph converts a gonum WeightedUndirectedGraph into a
// StaticGraph, assigning each vertex a random small integer weight (vertex
// weights have no gonum equivalent, so they are synthesised here the way a
// test fixture needs them).
func FromWeightedGraph(wg *simple.WeightedUndirectedGraph, n int, rng *rand.Rand) *StaticGraph {
	adj := make([][]Edge, n)
	vwgt := make([]int64, n)
	for v := 0; v < n; v++ {
		vwgt[v] = 1 + rng.Int63n(4)
		nodes := wg.From(int64(v))
		for nodes.Next() {
			u := nodes.Node().ID()
			w := wg.WeightedEdge(int64(v), u)
			adj[v] = append(adj[v], Edge{To: uint32(u), Weight: int64(w.Weight())})
		}
	}
	return NewStaticGraph(adj, vwgt)
}
