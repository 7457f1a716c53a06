package refinement

// commit is the deterministic, single-threaded reconciliation phase. For
// each worker's transposition log it walks the accepted prefix
// [0, minCutIdx) (the point where the chain's cumulative gain peaked),
// recomputes every entry's gain against the authoritative partition using
// the same gain oracle the speculative phase used, and applies it only if
// that recomputation still picks the logged target block and the recomputed
// gain is not negative, so no committed move makes the real cut worse;
// processing workers and log entries in a fixed order means every
// recomputation sees every earlier commit from this same pass already
// applied. Anything that fails those checks, plus the whole rolled-back tail
// [minCutIdx, len(log)), is
// reported back as reactivated: vertices the caller should requeue for
// another inner iteration, since the interleaving that invalidated them may
// not recur.
func commit(g GraphAccess, b Boundary, cfg *PartitionConfig, contexts []*threadContext, candidates []uint32) (realGain int64, realMoves int, touchedBlocks map[uint32]uint32, committed map[uint32]bool, reactivated []uint32) {
	touchedBlocks = make(map[uint32]uint32)
	committed = make(map[uint32]bool)

	k := int(g.PartitionCount())
	weight := make([]int64, k)
	for blk := 0; blk < k; blk++ {
		weight[blk] = b.BlockWeight(uint32(blk))
	}

	for _, tc := range contexts {
		limit := tc.minCutIdx
		if limit > len(tc.log) {
			limit = len(tc.log)
		}
		for i := 0; i < limit; i++ {
			t := tc.log[i]

			if committed[t.vertex] {
				continue // another chain's entry for the same vertex already landed this pass
			}
			if g.BlockOf(t.vertex) != t.fromBlock {
				reactivated = append(reactivated, t.vertex)
				continue // vertex's real block already moved from under this entry
			}

			// Recompute v's gain against the authoritative partition rather
			// than trusting the stale value the speculative shadow produced:
			// an earlier entry in this same walk may have just moved one of
			// v's neighbours, changing what v's best real target is, or turning
			// the move into one that would raise the real cut.
			target, gain, found := bestTargetBlock(g, g.BlockOf, t.vertex, t.fromBlock, candidates)
			if !found || target != t.toBlock || gain < 0 {
				reactivated = append(reactivated, t.vertex)
				continue
			}

			vw := g.VertexWeight(t.vertex)
			if cfg.Lmax > 0 && weight[t.toBlock]+vw > cfg.Lmax {
				reactivated = append(reactivated, t.vertex)
				continue // would overshoot the balance constraint for real
			}

			g.SetBlock(t.vertex, t.toBlock)
			weight[t.fromBlock] -= vw
			weight[t.toBlock] += vw
			b.AdjustWeight(t.fromBlock, t.toBlock, vw)
			b.OnMoveApplied(t.vertex, t.fromBlock, t.toBlock)

			realGain += gain
			realMoves++
			touchedBlocks[t.fromBlock] = t.fromBlock
			touchedBlocks[t.toBlock] = t.toBlock
			committed[t.vertex] = true
		}

		for i := limit; i < len(tc.log); i++ {
			reactivated = append(reactivated, tc.log[i].vertex)
		}
	}
	return
}
