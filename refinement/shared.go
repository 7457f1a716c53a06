package refinement

import "sync/atomic"

// sharedState is the per-call state every worker goroutine reads and writes
// concurrently during the speculative phase: one claim flag per vertex (so
// at most one thread ever speculatively moves a given vertex in a round),
// optimistic per-block weight/size counters used to reject speculative moves
// that would obviously overshoot the balance constraint before the
// single-threaded commit phase re-validates them for real, and one
// move-counter per worker thread used by the global stopping heuristic
// (stop_faction_of_nodes_moved): once the threads' counters summed together
// exceed 5% of the vertex count, a chain that checks in stops early rather
// than continuing to churn through an already-mostly-reshuffled partition.
type sharedState struct {
	b Boundary

	claimed     []atomic.Bool
	blockWeight []atomic.Int64
	blockSize   []atomic.Int32
	movedCount  []atomic.Int64
}

func newSharedState(g GraphAccess, b Boundary, numThreads int) *sharedState {
	k := int(g.PartitionCount())
	s := &sharedState{
		b:           b,
		claimed:     make([]atomic.Bool, g.NumVertices()),
		blockWeight: make([]atomic.Int64, k),
		blockSize:   make([]atomic.Int32, k),
		movedCount:  make([]atomic.Int64, numThreads),
	}
	s.syncBlocksFromBoundary()
	return s
}

func (s *sharedState) syncBlocksFromBoundary() {
	for blk := range s.blockWeight {
		s.blockWeight[blk].Store(s.b.BlockWeight(uint32(blk)))
		s.blockSize[blk].Store(s.b.BlockSize(uint32(blk)))
	}
}

func (s *sharedState) resetMovedCounts() {
	for i := range s.movedCount {
		s.movedCount[i].Store(0)
	}
}

// resetAll zeros every claim flag and move counter and resyncs block
// weight/size from the boundary, run once at the start of a round
// (reset_global).
func (s *sharedState) resetAll() {
	for i := range s.claimed {
		s.claimed[i].Store(false)
	}
	s.resetMovedCounts()
	s.syncBlocksFromBoundary()
}

// partialReset resyncs move counters and block weight/size from the
// boundary (which by now reflects the commit that just ran) and clears
// claims for every vertex not present in keep, run between the inner
// iterations of one localised-search call (partial_reset_global) so
// rejected or rolled-back vertices become eligible to be retried while
// committed vertices stay claimed for the remainder of the call.
func (s *sharedState) partialReset(keep map[uint32]bool) {
	for v := range s.claimed {
		if !keep[uint32(v)] {
			s.claimed[v].Store(false)
		}
	}
	s.resetMovedCounts()
	s.syncBlocksFromBoundary()
}

func (s *sharedState) tryClaim(v uint32) bool {
	return s.claimed[v].CompareAndSwap(false, true)
}

func (s *sharedState) isClaimed(v uint32) bool {
	return s.claimed[v].Load()
}

func (s *sharedState) adjustBlockWeight(b uint32, delta int64) int64 {
	return s.blockWeight[b].Add(delta)
}

func (s *sharedState) peekBlockWeight(b uint32) int64 {
	return s.blockWeight[b].Load()
}

func (s *sharedState) adjustBlockSize(b uint32, delta int32) int32 {
	return s.blockSize[b].Add(delta)
}

func (s *sharedState) recordMove(threadID int) {
	s.movedCount[threadID].Add(1)
}

func (s *sharedState) movedFraction(n uint32) float64 {
	if n == 0 {
		return 0
	}
	var total int64
	for i := range s.movedCount {
		total += s.movedCount[i].Load()
	}
	return float64(total) / float64(n)
}
