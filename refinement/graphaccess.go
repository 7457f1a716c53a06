package refinement

import "github.com/yarchi/mt-KaHIP/graph"

// partitionView adapts a graph.StaticGraph plus a graph.Partition into the
// GraphAccess interface the engine consumes. It is the only place in this
// package that is allowed to write to the partition, and only from the
// commit phase.
type partitionView struct {
	g *graph.StaticGraph
	p *graph.Partition
}

// NewGraphAccess wraps a static graph and a partition for use with
// PerformRefinement / PerformRefinementAroundParts.
func NewGraphAccess(g *graph.StaticGraph, p *graph.Partition) GraphAccess {
	return &partitionView{g: g, p: p}
}

func (a *partitionView) NumVertices() uint32 { return a.g.NumVertices() }

func (a *partitionView) NumEdges() uint64 { return a.g.NumEdges() }

func (a *partitionView) OutEdges(v uint32) []graph.Edge { return a.g.OutEdges(v) }

func (a *partitionView) VertexWeight(v uint32) int64 { return a.g.VertexWeight(v) }

func (a *partitionView) BlockOf(v uint32) uint32 { return a.p.BlockOf[v] }

// SetBlock moves v into block b and keeps the partition's BlockWeight and
// BlockSize in step with the new assignment.
func (a *partitionView) SetBlock(v uint32, b uint32) {
	from := a.p.BlockOf[v]
	vw := a.g.VertexWeight(v)
	a.p.BlockWeight[from] -= vw
	a.p.BlockSize[from]--
	a.p.BlockWeight[b] += vw
	a.p.BlockSize[b]++
	a.p.BlockOf[v] = b
}

func (a *partitionView) PartitionCount() uint32 { return uint32(a.p.K) }
