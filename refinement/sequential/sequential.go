// Package sequential is a small, single-threaded reference refinement pass
// used only by tests to cross-check the parallel engine's gain/bookkeeping
// on small graphs. It is not part of the core: it makes no concurrency or
// balance-constraint tradeoffs, and exists purely as an independent oracle
// to compare results against, the same role graph/oracle-compare.go plays
// for edge-cut and block-weight bookkeeping.
package sequential

import "github.com/yarchi/mt-KaHIP/refinement"

// Refine greedily applies the single best-gain move across the whole graph,
// one move at a time, until no move would strictly improve the cut. It
// mutates g directly through SetBlock and returns the total gain achieved.
func Refine(g refinement.GraphAccess) int64 {
	var totalGain int64
	n := g.NumVertices()
	k := g.PartitionCount()

	for pass := uint64(0); pass < uint64(n)*uint64(k)+1; pass++ {
		bestVertex, bestTarget := uint32(0), uint32(0)
		var bestGain int64
		found := false

		for v := uint32(0); v < n; v++ {
			from := g.BlockOf(v)
			for to := uint32(0); to < k; to++ {
				if to == from {
					continue
				}
				gain := gainOf(g, v, from, to)
				if gain > 0 && (!found || gain > bestGain) {
					bestVertex, bestTarget, bestGain, found = v, to, gain, true
				}
			}
		}

		if !found {
			break
		}
		g.SetBlock(bestVertex, bestTarget)
		totalGain += bestGain
	}
	return totalGain
}

// gainOf is the same edge-cut delta formula the parallel engine's gain
// oracle (refinement.computeGain) uses, evaluated directly against the real
// partition rather than a speculative shadow view.
func gainOf(g refinement.GraphAccess, v, from, to uint32) int64 {
	var gain int64
	for _, e := range g.OutEdges(v) {
		switch g.BlockOf(e.To) {
		case to:
			gain += e.Weight
		case from:
			gain -= e.Weight
		}
	}
	return gain
}
