package refinement

// runChain performs one localised FM search chain seeded at startNodes,
// speculatively moving vertices into tc's shadow state (never touching the
// real partition) and appending each accepted move to tc.log. Vertices
// claimed by another chain this round are skipped.
//
// Four stop conditions end the chain. The local PQ draining
// (stop_empty_queue) ends only this chain; the other three also set
// tc.stopped so the calling worker knows to stop dispatching further seeds
// this wave as well:
//   - stepsSinceBest, the count of accepted moves since the last new best
//     cumulative-gain prefix, reaches tc.stepLimit (stop_stopping_rule);
//   - tc.swaps, the flat count of accepted moves, reaches tc.maxSwaps
//     (stop_max_number_of_swaps);
//   - the fraction of all vertices moved so far this wave, summed across
//     every worker's counter, exceeds 5% of the graph
//     (stop_faction_of_nodes_moved).
func runChain(g GraphAccess, s *sharedState, cfg *PartitionConfig, tc *threadContext, startNodes []uint32, initNeighbors bool, candidates []uint32) {
	resolve := func(v uint32) uint32 { return tc.shadowBlockOf(g, v) }

	// consider (re-)evaluates v's best move under the chain's current shadow
	// and refreshes its PQ entry accordingly: a vertex no longer boundary (or
	// now claimed by another chain) is dropped from tracking, a vertex still
	// boundary gets a fresh entry pushed whose gain reflects the latest
	// shadow state. The stale entry it replaces, if any, is left in pq and
	// skipped when it is eventually popped (see the queued check below) --
	// the teacher's PQ has no positional decrease-key, so this re-push is
	// how the chain satisfies "recompute and adjust the PQ key" without one.
	consider := func(v uint32) {
		if s.isClaimed(v) {
			delete(tc.queued, v)
			return
		}
		from := tc.shadowBlockOf(g, v)
		_, gain, found := bestTargetBlock(g, resolve, v, from, candidates)
		if !found {
			delete(tc.queued, v)
			return
		}
		item := &pqItem{vertex: v, gain: gain}
		tc.queued[v] = item
		tc.pq.Push(item)
	}

	for _, v := range startNodes {
		consider(v)
		if initNeighbors {
			for _, e := range g.OutEdges(v) {
				consider(e.To)
			}
		}
	}

	for len(tc.pq) > 0 {
		item := tc.pq.Pop()
		v := item.vertex
		if tc.queued[v] != item {
			continue // superseded by a later recompute of v's gain
		}
		delete(tc.queued, v)

		if s.isClaimed(v) {
			continue
		}
		from := tc.shadowBlockOf(g, v)
		target, gain, found := bestTargetBlock(g, resolve, v, from, candidates)
		if !found || !acceptable(cfg, tc, gain) {
			continue
		}

		vw := g.VertexWeight(v)
		if cfg.Lmax > 0 && s.peekBlockWeight(target)+vw > cfg.Lmax {
			continue
		}
		if !s.tryClaim(v) {
			continue // another chain claimed v first
		}

		s.adjustBlockWeight(from, -vw)
		s.adjustBlockWeight(target, vw)
		s.adjustBlockSize(from, -1)
		s.adjustBlockSize(target, 1)

		tc.shadow[v] = movedToEntry(target, gain)
		tc.cumGain += gain
		tc.log = append(tc.log, transposition{vertex: v, fromBlock: from, toBlock: target, gain: gain})
		tc.swaps++
		s.recordMove(tc.id)

		if tc.cumGain > tc.bestGain {
			tc.bestGain = tc.cumGain
			tc.minCutIdx = len(tc.log)
			tc.stepsSinceBest = 0
		} else {
			tc.stepsSinceBest++
		}

		// A move changes its neighbours' true gain; recompute and refresh
		// the PQ entry of each not-yet-claimed out-neighbour, adding any
		// that just became boundary.
		for _, e := range g.OutEdges(v) {
			consider(e.To)
		}

		if tc.stepsSinceBest >= tc.stepLimit {
			tc.stopped = true
			return
		}
		if tc.swaps >= tc.maxSwaps {
			tc.stopped = true
			return
		}
		if s.movedFraction(g.NumVertices()) > 0.05 {
			tc.stopped = true
			return
		}
	}
}

// acceptable decides whether a candidate move should be taken given the
// chain's stop rule: StopSimple only ever takes strictly improving moves;
// StopAdaptive additionally tolerates the chain's cumulative gain dipping
// below zero, up to KwayAdaptiveLimitsAlpha, so the chain can walk through a
// temporary worsening move to reach a better one further on.
func acceptable(cfg *PartitionConfig, tc *threadContext, gain int64) bool {
	if gain > 0 {
		return true
	}
	if cfg.KwayStopRule == StopAdaptive {
		return tc.cumGain+gain >= -int64(cfg.KwayAdaptiveLimitsAlpha)
	}
	return false
}
