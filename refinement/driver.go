package refinement

import (
	"sync"
	"time"

	"github.com/yarchi/mt-KaHIP/enforce"
	"github.com/yarchi/mt-KaHIP/mathutils"
	"github.com/yarchi/mt-KaHIP/utils"
)

// PerformRefinement runs up to `rounds` global multitry passes: each pass
// seeds the work queue from every boundary vertex, runs runLocalizedSearch
// to a fixed point, and stops early once a pass produces no boundary
// (nothing left to refine) or no committed moves (converged).
func PerformRefinement(cfg *PartitionConfig, g GraphAccess, b Boundary, rounds int, initNeighbors bool, alpha int) (int64, Statistics) {
	watch := &mathutils.Watch{}
	watch.Start()
	stats := Statistics{}

	// The source saves/restores config.kway_adaptive_limits_alpha and
	// forces the adaptive stop rule for the duration of the call; here that
	// is a local copy instead of a save/restore of shared state.
	local := *cfg
	local.KwayStopRule = StopAdaptive
	local.KwayAdaptiveLimitsAlpha = alpha
	cfg = &local

	var totalGain int64
	for r := 0; r < rounds; r++ {
		t0 := time.Now()
		startNodes := b.SetupStartNodesAll(g)
		stats.TimeSetupStartNodes += time.Since(t0)
		if len(startNodes) == 0 {
			break
		}

		gain, moved, _ := runLocalizedSearch(cfg, g, b, startNodes, initNeighbors, &stats, nil)
		totalGain += gain
		if moved == 0 {
			break
		}
	}

	enforce.ENFORCE(totalGain >= 0, "refinement produced a negative total gain")
	stats.performedGain = totalGain
	stats.TimeTotal = watch.Elapsed()
	return totalGain, stats
}

// PerformRefinementAroundParts runs up to cfg.LocalMultitryRounds passes
// localised to the boundary between exactly two blocks, returning the set of
// blocks whose weight/size changed so a caller doing many such calls in
// sequence knows which boundaries need re-examining.
func PerformRefinementAroundParts(cfg *PartitionConfig, g GraphAccess, b Boundary, initNeighbors bool, alpha int, lhs, rhs uint32) (int64, map[uint32]uint32, Statistics) {
	watch := &mathutils.Watch{}
	watch.Start()
	stats := Statistics{}

	local := *cfg
	local.KwayStopRule = StopAdaptive
	local.KwayAdaptiveLimitsAlpha = alpha
	cfg = &local

	var totalGain int64
	touched := make(map[uint32]uint32)
	pair := []uint32{lhs, rhs}
	for r := 0; r < cfg.LocalMultitryRounds; r++ {
		t0 := time.Now()
		startNodes := b.SetupStartNodesAroundBlocks(g, lhs, rhs)
		stats.TimeSetupStartNodes += time.Since(t0)
		if len(startNodes) == 0 {
			break
		}

		gain, moved, roundTouched := runLocalizedSearch(cfg, g, b, startNodes, initNeighbors, &stats, pair)
		for blk := range roundTouched {
			touched[blk] = blk
		}
		totalGain += gain
		if moved == 0 {
			break
		}
	}

	enforce.ENFORCE(totalGain >= 0, "localised refinement produced a negative total gain")
	stats.performedGain = totalGain
	stats.TimeTotal = watch.Elapsed()
	return totalGain, touched, stats
}

// runLocalizedSearch is start_more_localized_search: repeat while work
// remains. It resets the shared claim state, shuffles the to-do list, then
// loops: dispatch cfg.NumThreads-1 worker goroutines plus the calling
// goroutine as worker 0 over whatever is currently queued, join them,
// commit the resulting chains, and push every vertex commit rejected or
// rolled back (reactivated) back onto the queue for another iteration. The
// loop ends once an iteration's commit has nothing left to reactivate, or
// after a generous bound on iterations so a pathological instance that kept
// reactivating the same handful of vertices could never spin forever.
func runLocalizedSearch(cfg *PartitionConfig, g GraphAccess, b Boundary, todo []uint32, initNeighbors bool, stats *Statistics, pair []uint32) (int64, int, map[uint32]uint32) {
	tInit := time.Now()

	numThreads := cfg.NumThreads
	if numThreads < 1 {
		numThreads = 1
	}

	s := newSharedState(g, b, numThreads)
	s.resetAll()

	candidates := candidateBlocks(g.PartitionCount(), pair)

	contexts := make([]*threadContext, numThreads)
	for i := range contexts {
		contexts[i] = newThreadContext(i, cfg.Seed+int64(i), stepLimitFor(cfg), maxSwapsFor(cfg))
	}
	stats.TimeInit += time.Since(tInit)

	shuffled := append([]uint32(nil), todo...)
	utils.Shuffle(shuffled)
	q := newWorkQueue(shuffled)

	var totalGain int64
	var totalMoves int
	touched := make(map[uint32]uint32)

	maxInnerIterations := int(g.NumVertices())*2 + len(todo) + 8

	for iter := 0; iter < maxInnerIterations; iter++ {
		tGen := time.Now()
		runWorker := func(id int) {
			tc := contexts[id]
			tc.reset()
			for !tc.stopped {
				v, ok := q.tryPop()
				if !ok {
					break
				}
				if s.isClaimed(v) {
					continue
				}
				runChain(g, s, cfg, tc, []uint32{v}, initNeighbors, candidates)
			}
		}

		var wg sync.WaitGroup
		for i := 1; i < numThreads; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				runWorker(id)
			}(i)
		}
		runWorker(0)

		tWait := time.Now()
		wg.Wait()
		stats.TimeWait += time.Since(tWait)
		stats.TimeGenerateMoves += time.Since(tGen)

		tMove := time.Now()
		realGain, realMoves, roundTouched, committed, reactivated := commit(g, b, cfg, contexts, candidates)
		stats.TimeMoveNodes += time.Since(tMove)
		stats.realNodesMovement += realMoves
		stats.CommitPasses++

		totalGain += realGain
		totalMoves += realMoves
		for blk := range roundTouched {
			touched[blk] = blk
		}

		if len(reactivated) == 0 {
			break
		}

		s.partialReset(committed)
		for _, v := range reactivated {
			q.push(v)
		}
	}

	return totalGain, totalMoves, touched
}

// stepLimitFor bounds how many non-improving moves a chain tolerates since
// its last new best cumulative-gain prefix before it gives up on its start
// node (stop_stopping_rule), matching the source's fixed step_limit = 50,
// widened under the adaptive stop rule to let a chain wander further before
// the commit phase re-validates whatever it found.
func stepLimitFor(cfg *PartitionConfig) int {
	if cfg.KwayStopRule == StopAdaptive {
		return 50 * (1 + cfg.KwayAdaptiveLimitsAlpha)
	}
	return 50
}

// maxSwapsFor bounds the total number of moves a single chain may make
// (stop_max_number_of_swaps), a flat cap distinct from stepLimitFor's
// non-improving-streak bound.
func maxSwapsFor(cfg *PartitionConfig) int {
	return stepLimitFor(cfg) * 8
}
