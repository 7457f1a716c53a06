package refinement

import (
	"math/rand"

	"github.com/yarchi/mt-KaHIP/utils"
)

type shadowKind uint8

const (
	shadowUnchanged shadowKind = iota
	shadowMovedTo
)

// shadowEntry is the sum type describing a vertex's speculative state inside
// one worker's thread-local context: either Unchanged, or MovedTo(block,
// gain). Using a tagged union here (rather than a raw atomic plus a separate
// per-thread boolean split) keeps "has this chain moved v, and where" as one
// value with no way to observe an inconsistent pairing of the two.
type shadowEntry struct {
	kind  shadowKind
	block uint32
	gain  int64
}

func unchangedEntry() shadowEntry { return shadowEntry{kind: shadowUnchanged} }

func movedToEntry(block uint32, gain int64) shadowEntry {
	return shadowEntry{kind: shadowMovedTo, block: block, gain: gain}
}

func (s shadowEntry) isMoved() bool { return s.kind == shadowMovedTo }

// pqItem is one candidate vertex in a worker's gain-ordered priority queue.
type pqItem struct {
	vertex uint32
	gain   int64
}

// Less implements utils.PQI: PQ pops the "least" element by Less first, so
// making Less report "greater gain sorts first" turns the teacher's min-heap
// into a max-heap on gain.
func (p *pqItem) Less(o *pqItem) bool { return p.gain > o.gain }

// transposition records one speculative move, in the order it was made, so
// that commit can replay a prefix of the chain's history and the rest can be
// rolled back by simply not applying it.
type transposition struct {
	vertex    uint32
	fromBlock uint32
	toBlock   uint32
	gain      int64
}

// threadContext is the per-worker state for a localised search chain: its
// priority queue, RNG, shadow view of speculative moves, and transposition
// log, plus the index into that log where the chain's cumulative gain
// peaked (the rollback point commit will replay up to).
//
// queued tracks, for every vertex currently represented in pq, the *pqItem
// instance that is its live entry. A move can change a not-yet-claimed
// neighbour's true gain, so a vertex may be pushed more than once as its
// priority is refreshed; queued lets pop-time code tell a fresh entry from
// one it has since superseded (the teacher's PQ has no positional
// decrease-key, so re-pushing and invalidating the old entry is the
// corpus's usual substitute for one).
type threadContext struct {
	id             int
	rng            *rand.Rand
	pq             utils.PQ[*pqItem]
	shadow         map[uint32]shadowEntry
	queued         map[uint32]*pqItem
	log            []transposition
	minCutIdx      int
	cumGain        int64
	bestGain       int64
	stepLimit      int
	maxSwaps       int
	swaps          int
	stepsSinceBest int
	stopped        bool
}

func newThreadContext(id int, seed int64, stepLimit, maxSwaps int) *threadContext {
	return &threadContext{
		id:        id,
		rng:       rand.New(rand.NewSource(seed)),
		shadow:    make(map[uint32]shadowEntry),
		queued:    make(map[uint32]*pqItem),
		stepLimit: stepLimit,
		maxSwaps:  maxSwaps,
	}
}

func (tc *threadContext) reset() {
	tc.pq = tc.pq[:0]
	for k := range tc.shadow {
		delete(tc.shadow, k)
	}
	for k := range tc.queued {
		delete(tc.queued, k)
	}
	tc.log = tc.log[:0]
	tc.minCutIdx = 0
	tc.cumGain = 0
	tc.bestGain = 0
	tc.swaps = 0
	tc.stepsSinceBest = 0
	tc.stopped = false
}

// shadowBlockOf resolves v's block as seen by this chain: its own
// speculative move if it has made one, otherwise the real partition.
func (tc *threadContext) shadowBlockOf(g GraphAccess, v uint32) uint32 {
	if e, ok := tc.shadow[v]; ok && e.isMoved() {
		return e.block
	}
	return g.BlockOf(v)
}
