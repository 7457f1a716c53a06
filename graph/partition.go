package graph

import "github.com/yarchi/mt-KaHIP/enforce"

// Partition is the mutable k-way assignment of vertices to blocks, owned by
// the caller for the duration of a refinement call. The refinement engine
// only mutates it inside the commit phase.
type Partition struct {
	K           int
	BlockOf     []uint32
	BlockWeight []int64
	BlockSize   []int32
}

// NewPartition derives block weights/sizes for an existing BlockOf assignment
// over g, matching what a real boundary structure would have accumulated.
func NewPartition(g *StaticGraph, k int, blockOf []uint32) *Partition {
	enforce.ENFORCE(len(blockOf) == int(g.NumVertices()), "block assignment must cover every vertex")

	p := &Partition{
		K:           k,
		BlockOf:     append([]uint32(nil), blockOf...),
		BlockWeight: make([]int64, k),
		BlockSize:   make([]int32, k),
	}
	for v := uint32(0); v < g.NumVertices(); v++ {
		b := p.BlockOf[v]
		enforce.ENFORCE(int(b) < k, "block id out of range")
		p.BlockWeight[b] += g.VertexWeight(v)
		p.BlockSize[b]++
	}
	return p
}

// Clone returns a deep copy, used by tests that want to compare a refined
// partition against its pre-refinement state.
func (p *Partition) Clone() *Partition {
	return &Partition{
		K:           p.K,
		BlockOf:     append([]uint32(nil), p.BlockOf...),
		BlockWeight: append([]int64(nil), p.BlockWeight...),
		BlockSize:   append([]int32(nil), p.BlockSize...),
	}
}
