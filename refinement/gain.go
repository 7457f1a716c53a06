package refinement

import "math"

// blockResolver resolves a vertex's current block under some view of the
// partition: a worker's speculative shadow during a chain (see
// threadContext.shadowBlockOf), or the authoritative partition directly
// (GraphAccess.BlockOf) when the commit phase recomputes a move's real gain
// against the partially-already-committed state at replay time.
type blockResolver func(v uint32) uint32

// computeGain returns the change in edge-cut from moving v out of `from`
// and into `to`, under the given view of block membership: neighbours
// resolved into `to` now count as cut-reducing, neighbours in `from` count
// as cut-increasing. This is the one gain oracle both the speculative pass
// and the commit phase's replay use, just fed a different resolver.
func computeGain(g GraphAccess, resolve blockResolver, v, from, to uint32) int64 {
	var gain int64
	for _, e := range g.OutEdges(v) {
		switch resolve(e.To) {
		case to:
			gain += e.Weight
		case from:
			gain -= e.Weight
		}
	}
	return gain
}

// bestTargetBlock scans the candidate target blocks (every block other than
// `from` for a global round, or just the other half of a block pair for a
// localised around-parts round; see candidateBlocks) and returns the one
// maximising computeGain under the given view. A vertex whose `from` block is
// not itself among the candidates has no target (found is false), so an
// around-parts round never moves a vertex out of an unrelated block.
func bestTargetBlock(g GraphAccess, resolve blockResolver, v, from uint32, candidates []uint32) (target uint32, gain int64, found bool) {
	best := int64(math.MinInt64)
	inScope := false
	for _, b := range candidates {
		if b == from {
			inScope = true
		}
	}
	if !inScope {
		return target, best, false
	}
	for _, b := range candidates {
		if b == from {
			continue
		}
		g2 := computeGain(g, resolve, v, from, b)
		if !found || g2 > best {
			best, target, found = g2, b, true
		}
	}
	return target, best, found
}

// candidateBlocks returns every block for a global round (pair == nil), or
// exactly the other block of the pair for a localised around-parts round,
// keeping such rounds from wandering moves into unrelated blocks.
func candidateBlocks(k uint32, pair []uint32) []uint32 {
	if pair == nil {
		all := make([]uint32, k)
		for b := uint32(0); b < k; b++ {
			all[b] = b
		}
		return all
	}
	return pair
}
