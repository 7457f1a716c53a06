// Package boundary implements the refinement.Boundary collaborator: tracking
// which vertices sit on a block boundary and answering the block-size/weight
// queries the balance constraint needs, grounded on the teacher's pattern of
// a small mutable side-structure kept in sync with vertex moves (e.g.
// graph/termination.go's per-thread counters, here narrowed to per-block
// counters instead of per-thread message counters).
package boundary

import (
	"sync"
	"sync/atomic"

	"github.com/yarchi/mt-KaHIP/graph"
	"github.com/yarchi/mt-KaHIP/refinement"
)

// CompleteBoundary tracks per-block weight/size with atomics so that the
// parallel refinement phase can read them concurrently with the single
// commit-phase writer updating them via AdjustWeight, and incrementally
// maintains the boundary vertex set itself so SetupStartNodesAll and
// SetupStartNodesAroundBlocks don't have to rescan the whole graph every
// round.
type CompleteBoundary struct {
	g *graph.StaticGraph
	p *graph.Partition

	blockWeight []atomic.Int64
	blockSize   []atomic.Int32

	mu       sync.Mutex
	boundary map[uint32]struct{}
}

// NewCompleteBoundary seeds block weight/size from the current partition
// assignment and does the one full scan the boundary set ever needs, since
// every subsequent round keeps it in sync incrementally through
// OnMoveApplied. g and p must agree on vertex count and block count.
func NewCompleteBoundary(g *graph.StaticGraph, p *graph.Partition) *CompleteBoundary {
	b := &CompleteBoundary{
		g:           g,
		p:           p,
		blockWeight: make([]atomic.Int64, p.K),
		blockSize:   make([]atomic.Int32, p.K),
		boundary:    make(map[uint32]struct{}),
	}
	for blk := 0; blk < p.K; blk++ {
		b.blockWeight[blk].Store(p.BlockWeight[blk])
		b.blockSize[blk].Store(p.BlockSize[blk])
	}
	for v := uint32(0); v < g.NumVertices(); v++ {
		if b.isBoundaryNow(v) {
			b.boundary[v] = struct{}{}
		}
	}
	return b
}

func (b *CompleteBoundary) isBoundaryNow(v uint32) bool {
	bv := b.p.BlockOf[v]
	for _, e := range b.g.OutEdges(v) {
		if b.p.BlockOf[e.To] != bv {
			return true
		}
	}
	return false
}

func (b *CompleteBoundary) BlockWeight(blk uint32) int64 { return b.blockWeight[blk].Load() }

func (b *CompleteBoundary) BlockSize(blk uint32) int32 { return b.blockSize[blk].Load() }

// OnMoveApplied is called once per committed move, from the single-threaded
// commit phase, after the move has already landed in the partition. v and
// every one of its neighbours may have changed boundary status as a result
// (v by moving, its neighbours because one of their own neighbours just
// changed block), so both get re-checked and the boundary set updated
// in place rather than rebuilt from scratch.
func (b *CompleteBoundary) OnMoveApplied(v, from, to uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refreshBoundaryStatus(v)
	for _, e := range b.g.OutEdges(v) {
		b.refreshBoundaryStatus(e.To)
	}
}

func (b *CompleteBoundary) refreshBoundaryStatus(v uint32) {
	if b.isBoundaryNow(v) {
		b.boundary[v] = struct{}{}
	} else {
		delete(b.boundary, v)
	}
}

// AdjustWeight moves vw units of weight from block `from` to block `to` and
// updates both block sizes. The commit phase calls this alongside
// OnMoveApplied for every committed move.
func (b *CompleteBoundary) AdjustWeight(from, to uint32, vw int64) {
	b.blockWeight[from].Add(-vw)
	b.blockWeight[to].Add(vw)
	b.blockSize[from].Add(-1)
	b.blockSize[to].Add(1)
}

// SetupStartNodesAll returns every vertex with at least one neighbour in a
// different block: the full boundary, seeding a global refinement round.
func (b *CompleteBoundary) SetupStartNodesAll(_ refinement.GraphAccess) []uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	start := make([]uint32, 0, len(b.boundary))
	for v := range b.boundary {
		start = append(start, v)
	}
	return start
}

// SetupStartNodesAroundBlocks returns boundary vertices belonging to either
// lhs or rhs whose neighbours cross into the other of the two blocks,
// seeding a localised round focused on a single block pair.
func (b *CompleteBoundary) SetupStartNodesAroundBlocks(_ refinement.GraphAccess, lhs, rhs uint32) []uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	var start []uint32
	for v := range b.boundary {
		bv := b.p.BlockOf[v]
		if bv != lhs && bv != rhs {
			continue
		}
		other := lhs
		if bv == lhs {
			other = rhs
		}
		for _, e := range b.g.OutEdges(v) {
			if b.p.BlockOf[e.To] == other {
				start = append(start, v)
				break
			}
		}
	}
	return start
}

var _ refinement.Boundary = (*CompleteBoundary)(nil)
