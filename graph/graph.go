// Package graph provides the static, read-only graph representation consumed
// by the refinement engine, plus test-fixture helpers for building random
// instances.
package graph

import (
	"github.com/yarchi/mt-KaHIP/enforce"
)

// StaticGraph is a read-only, compressed-sparse-row (CSR) weighted undirected
// graph. It is built once (via NewStaticGraph or FromWeightedGraph) and never
// mutated afterwards; the refinement engine only ever mutates a separate
// Partition alongside it.
type StaticGraph struct {
	numVertices uint32
	xadj        []int32  // length numVertices+1; adjacency of v is adjncy[xadj[v]:xadj[v+1]]
	adjncy      []uint32 // length numEdges*2 (each undirected edge stored both directions)
	adjwgt      []int64  // parallel to adjncy
	vwgt        []int64  // length numVertices
	numEdges    uint64   // number of undirected edges (not directed entries)
}

// NewStaticGraph builds a StaticGraph from an adjacency list. adj[v] holds the
// (neighbour, weight) pairs for v; the caller must supply both directions of
// every undirected edge (adj[u] contains v and adj[v] contains u) with
// matching weights, matching what FromWeightedGraph produces.
func NewStaticGraph(adj [][]Edge, vwgt []int64) *StaticGraph {
	n := uint32(len(adj))
	enforce.ENFORCE(len(vwgt) == len(adj), "vertex weight vector must match vertex count")

	xadj := make([]int32, n+1)
	total := 0
	for v := uint32(0); v < n; v++ {
		total += len(adj[v])
	}
	adjncy := make([]uint32, 0, total)
	adjwgt := make([]int64, 0, total)

	for v := uint32(0); v < n; v++ {
		xadj[v] = int32(len(adjncy))
		for _, e := range adj[v] {
			adjncy = append(adjncy, e.To)
			adjwgt = append(adjwgt, e.Weight)
		}
	}
	xadj[n] = int32(len(adjncy))

	vw := make([]int64, n)
	copy(vw, vwgt)

	return &StaticGraph{
		numVertices: n,
		xadj:        xadj,
		adjncy:      adjncy,
		adjwgt:      adjwgt,
		vwgt:        vw,
		numEdges:    uint64(len(adjncy)) / 2,
	}
}

func (g *StaticGraph) NumVertices() uint32 { return g.numVertices }

func (g *StaticGraph) NumEdges() uint64 { return g.numEdges }

// OutEdges returns the neighbours of v with their edge weights, copied into a
// newly allocated slice on every call.
func (g *StaticGraph) OutEdges(v uint32) []Edge {
	lo, hi := g.xadj[v], g.xadj[v+1]
	n := hi - lo
	out := make([]Edge, n)
	for i := int32(0); i < n; i++ {
		out[i] = Edge{To: g.adjncy[lo+i], Weight: g.adjwgt[lo+i]}
	}
	return out
}

// Degree returns the number of incident edges of v.
func (g *StaticGraph) Degree(v uint32) int32 {
	return g.xadj[v+1] - g.xadj[v]
}

func (g *StaticGraph) VertexWeight(v uint32) int64 {
	return g.vwgt[v]
}

// TotalVertexWeight sums vertex weights, used to size balance constraints.
func (g *StaticGraph) TotalVertexWeight() int64 {
	var sum int64
	for _, w := range g.vwgt {
		sum += w
	}
	return sum
}
