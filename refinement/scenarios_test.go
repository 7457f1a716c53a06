package refinement_test

import (
	"math/rand"
	"testing"

	"github.com/yarchi/mt-KaHIP/boundary"
	"github.com/yarchi/mt-KaHIP/graph"
	"github.com/yarchi/mt-KaHIP/refinement"
)

func setup(t *testing.T, adj [][]graph.Edge, vwgt []int64, k int, blockOf []uint32) (*graph.StaticGraph, *graph.Partition, refinement.GraphAccess, *boundary.CompleteBoundary) {
	t.Helper()
	g := graph.NewStaticGraph(adj, vwgt)
	p := graph.NewPartition(g, k, blockOf)
	access := refinement.NewGraphAccess(g, p)
	bnd := boundary.NewCompleteBoundary(g, p)
	return g, p, access, bnd
}

// A misplaced singleton: vertex 0 is fully connected to block 1 but starts in
// block 0 alone; the engine should move it, driving the cut to zero.
func TestScenarioMisplacedSingleton(t *testing.T) {
	adj := [][]graph.Edge{
		{{To: 1, Weight: 1}, {To: 2, Weight: 1}, {To: 3, Weight: 1}},
		{{To: 0, Weight: 1}, {To: 2, Weight: 1}, {To: 3, Weight: 1}},
		{{To: 0, Weight: 1}, {To: 1, Weight: 1}, {To: 3, Weight: 1}},
		{{To: 0, Weight: 1}, {To: 1, Weight: 1}, {To: 2, Weight: 1}},
	}
	vwgt := []int64{1, 1, 1, 1}
	g, p, access, bnd := setup(t, adj, vwgt, 2, []uint32{0, 1, 1, 1})

	before := graph.EdgeCut(g, p)
	if before != 3 {
		t.Fatalf("expected initial cut of 3, got %d", before)
	}

	cfg := refinement.DefaultPartitionConfig(2)
	cfg.NumThreads = 1
	gain, _ := refinement.PerformRefinement(&cfg, access, bnd, 5, true, 1)

	after := graph.EdgeCut(g, p)
	if after != 0 {
		t.Fatalf("expected the singleton to fully migrate, cut = %d", after)
	}
	if gain != before-after {
		t.Fatalf("claimed gain %d does not match observed cut delta %d", gain, before-after)
	}
}

// A suboptimal partition of two loosely-joined triangles should converge to
// the one-edge cut once the misplaced vertex crosses over.
func TestScenarioImprovingSwapReducesCut(t *testing.T) {
	adj := [][]graph.Edge{
		{{To: 1, Weight: 1}, {To: 2, Weight: 1}},
		{{To: 0, Weight: 1}, {To: 2, Weight: 1}},
		{{To: 0, Weight: 1}, {To: 1, Weight: 1}, {To: 3, Weight: 1}},
		{{To: 2, Weight: 1}, {To: 4, Weight: 1}, {To: 5, Weight: 1}},
		{{To: 3, Weight: 1}, {To: 5, Weight: 1}},
		{{To: 3, Weight: 1}, {To: 4, Weight: 1}},
	}
	vwgt := []int64{1, 1, 1, 1, 1, 1}
	// Vertex 2 starts on the wrong side of the bridge.
	g, p, access, bnd := setup(t, adj, vwgt, 2, []uint32{0, 0, 1, 1, 1, 1})

	before := graph.EdgeCut(g, p)
	cfg := refinement.DefaultPartitionConfig(2)
	cfg.NumThreads = 2
	gain, _ := refinement.PerformRefinement(&cfg, access, bnd, 5, true, 1)
	after := graph.EdgeCut(g, p)

	if after > before {
		t.Fatalf("refinement made the cut worse: %d -> %d", before, after)
	}
	if gain != before-after {
		t.Fatalf("claimed gain %d does not match observed cut delta %d", gain, before-after)
	}
	if after != 1 {
		t.Fatalf("expected convergence to the single bridging edge, got cut = %d", after)
	}
}

// With an Lmax tight enough to forbid every improving move (vertex 0 into
// block 0, vertex 1 into block 1), the engine must leave the partition
// unchanged rather than overshoot the constraint.
func TestScenarioBalanceConstraintPreventsOverfill(t *testing.T) {
	adj := [][]graph.Edge{
		{{To: 1, Weight: 5}},
		{{To: 0, Weight: 5}, {To: 2, Weight: 1}},
		{{To: 1, Weight: 1}},
	}
	vwgt := []int64{1, 1, 1}
	g, p, access, bnd := setup(t, adj, vwgt, 2, []uint32{1, 0, 0})

	cfg := refinement.DefaultPartitionConfig(2)
	cfg.NumThreads = 1
	cfg.Lmax = 1 // block 0 already holds weight 2; no vertex may join it.

	refinement.PerformRefinement(&cfg, access, bnd, 5, true, 1)

	if p.BlockOf[0] != 1 {
		t.Fatalf("vertex 0 moved despite Lmax forbidding it: now in block %d", p.BlockOf[0])
	}
	if !graph.BlockWeightsMatch(g, p) {
		t.Fatal("block weight bookkeeping drifted from the real partition")
	}
}

// The engine never reports a negative net improvement.
func TestScenarioNeverNegativeGain(t *testing.T) {
	g := graph.GenerateRandomGraph(60, 200, 7)
	blockOf := graph.InitialPartitionRandom(g.NumVertices(), 4, rand.New(rand.NewSource(3)))
	p := graph.NewPartition(g, 4, blockOf)
	access := refinement.NewGraphAccess(g, p)
	bnd := boundary.NewCompleteBoundary(g, p)

	cfg := refinement.DefaultPartitionConfig(4)
	cfg.NumThreads = 4
	gain, _ := refinement.PerformRefinement(&cfg, access, bnd, 8, true, 1)
	if gain < 0 {
		t.Fatalf("engine reported a negative overall gain: %d", gain)
	}
}

// A triangle split across two blocks where the only move that would
// actually lower the cut is balance-infeasible: every move the engine is
// free to make nets zero, so it must report no improvement at all.
func TestScenarioTriangleAcrossTwoBlocksNoImprovingMove(t *testing.T) {
	adj := [][]graph.Edge{
		{{To: 1, Weight: 1}, {To: 2, Weight: 1}},
		{{To: 0, Weight: 1}, {To: 2, Weight: 1}},
		{{To: 0, Weight: 1}, {To: 1, Weight: 1}},
	}
	vwgt := []int64{1, 1, 1}
	g, p, access, bnd := setup(t, adj, vwgt, 2, []uint32{0, 1, 0})

	cfg := refinement.DefaultPartitionConfig(2)
	cfg.NumThreads = 1
	cfg.Lmax = 2 // block 0 already holds both its vertices; vertex 1 can't join it.

	before := graph.EdgeCut(g, p)
	gain, _ := refinement.PerformRefinement(&cfg, access, bnd, 5, true, 1)
	after := graph.EdgeCut(g, p)

	if gain != 0 {
		t.Fatalf("expected no feasible improving move, got gain %d", gain)
	}
	if after != before {
		t.Fatalf("expected the partition to stay at cut %d, got %d", before, after)
	}
}

// A two-block path already at its optimal cut: every candidate move is
// either neutral or strictly worse, so the engine must leave it untouched.
func TestScenarioPathAlreadyOptimal(t *testing.T) {
	adj := [][]graph.Edge{
		{{To: 1, Weight: 1}},
		{{To: 0, Weight: 1}, {To: 2, Weight: 1}},
		{{To: 1, Weight: 1}, {To: 3, Weight: 1}},
		{{To: 2, Weight: 1}},
	}
	vwgt := []int64{1, 1, 1, 1}
	g, p, access, bnd := setup(t, adj, vwgt, 2, []uint32{0, 0, 1, 1})

	cfg := refinement.DefaultPartitionConfig(2)
	cfg.NumThreads = 1
	cfg.Lmax = 2

	before := graph.EdgeCut(g, p)
	if before != 1 {
		t.Fatalf("expected initial cut of 1, got %d", before)
	}

	gain, _ := refinement.PerformRefinement(&cfg, access, bnd, 5, true, 1)
	after := graph.EdgeCut(g, p)

	if gain != 0 {
		t.Fatalf("expected an already-optimal partition to admit no improving move, got gain %d", gain)
	}
	if after != before {
		t.Fatalf("expected cut to stay at %d, got %d", before, after)
	}
}

// Two disjoint edges joined by one heavily-weighted cross edge: moving
// vertex 1 into block 1 and moving vertex 2 into block 0 each gain 9 and are
// by far the most attractive moves in the graph, and with many worker
// threads several chains are likely to reach for them concurrently. Exactly
// one of those competing attempts may land: once one has, the other would
// put the heavy edge back into the cut, so vertices 1 and 2 must end up in
// the same block.
func TestScenarioConcurrentConflictResolvesExactlyOneMove(t *testing.T) {
	adj := [][]graph.Edge{
		{{To: 1, Weight: 1}},
		{{To: 0, Weight: 1}, {To: 2, Weight: 10}},
		{{To: 1, Weight: 10}, {To: 3, Weight: 1}},
		{{To: 2, Weight: 1}},
		{},
		{},
	}
	vwgt := []int64{1, 1, 1, 1, 1, 1}
	g, p, access, bnd := setup(t, adj, vwgt, 2, []uint32{0, 0, 1, 1, 0, 1})

	cfg := refinement.DefaultPartitionConfig(2)
	cfg.NumThreads = 4

	gain, _ := refinement.PerformRefinement(&cfg, access, bnd, 5, true, 1)

	if p.BlockOf[1] != p.BlockOf[2] {
		t.Fatalf("expected exactly one side of the heavy cross edge to move, leaving vertices 1 and 2 together; got blocks %d and %d", p.BlockOf[1], p.BlockOf[2])
	}
	if gain <= 0 {
		t.Fatalf("expected a positive gain from resolving the contended move, got %d", gain)
	}
	if !graph.BlockWeightsMatch(g, p) {
		t.Fatal("block weight bookkeeping drifted from the real partition")
	}
}

// A chain's speculative move can be rejected at commit because an earlier
// chain's commit this same pass already changed the authoritative state it
// was computed against; the rejected vertex must be reactivated and retried
// in a later inner iteration rather than simply dropped. On a densely
// contended instance that happens often enough that at least one trial
// needs more than one commit pass to reach a fixed point. Each call runs a
// single round, so a second commit pass can only come from reactivation.
func TestScenarioReactivationDrivesMultipleCommitPasses(t *testing.T) {
	sawMultiplePasses := false
	for trial := 0; trial < 10; trial++ {
		seed := int64(500 + trial)
		g := graph.GenerateRandomGraph(40, 160, seed)
		k := 3
		blockOf := graph.InitialPartitionModulo(g.NumVertices(), k)
		p := graph.NewPartition(g, k, blockOf)
		access := refinement.NewGraphAccess(g, p)
		bnd := boundary.NewCompleteBoundary(g, p)

		cfg := refinement.DefaultPartitionConfig(k)
		cfg.NumThreads = 8
		cfg.Seed = seed
		cfg.Lmax = g.TotalVertexWeight()/int64(k) + 1

		_, stats := refinement.PerformRefinement(&cfg, access, bnd, 1, true, 1)
		if !graph.BlockWeightsMatch(g, p) {
			t.Fatalf("trial %d: block weight bookkeeping drifted from the real partition", trial)
		}
		if stats.CommitPasses > 1 {
			sawMultiplePasses = true
			break
		}
	}
	if !sawMultiplePasses {
		t.Fatal("expected at least one contended trial to need more than one commit pass")
	}
}

// Running many concurrent workers over a small, heavily-contended graph must
// never leave the bookkeeping inconsistent with the real partition, even
// when many chains race to claim the same handful of vertices.
func TestScenarioConcurrentClaimSafety(t *testing.T) {
	g := graph.GenerateRandomGraph(30, 100, 11)
	blockOf := graph.InitialPartitionModulo(g.NumVertices(), 3)
	p := graph.NewPartition(g, 3, blockOf)
	access := refinement.NewGraphAccess(g, p)
	bnd := boundary.NewCompleteBoundary(g, p)

	cfg := refinement.DefaultPartitionConfig(3)
	cfg.NumThreads = 16 // deliberately more workers than useful work, to maximise contention
	refinement.PerformRefinement(&cfg, access, bnd, 5, true, 1)

	if !graph.BlockWeightsMatch(g, p) {
		t.Fatal("concurrent claims left block weight bookkeeping inconsistent")
	}
}

// Allowing more rounds never converges to a worse (or even lower-gain)
// result than fewer rounds on the same starting partition, since later
// rounds only apply moves that pass every previous round's constraints too.
func TestScenarioMoreRoundsNeverWorse(t *testing.T) {
	build := func() (refinement.GraphAccess, *boundary.CompleteBoundary, *graph.StaticGraph, *graph.Partition) {
		g := graph.GenerateRandomGraph(80, 260, 21)
		blockOf := graph.InitialPartitionRoundRobin(g.NumVertices(), 4)
		p := graph.NewPartition(g, 4, blockOf)
		return refinement.NewGraphAccess(g, p), boundary.NewCompleteBoundary(g, p), g, p
	}

	access1, bnd1, g1, p1 := build()
	cfg := refinement.DefaultPartitionConfig(4)
	cfg.NumThreads = 2
	before := graph.EdgeCut(g1, p1)
	refinement.PerformRefinement(&cfg, access1, bnd1, 1, true, 1)
	oneRoundCut := graph.EdgeCut(g1, p1)

	access5, bnd5, g5, p5 := build()
	refinement.PerformRefinement(&cfg, access5, bnd5, 8, true, 1)
	manyRoundsCut := graph.EdgeCut(g5, p5)

	if manyRoundsCut > oneRoundCut {
		t.Fatalf("more rounds produced a worse cut: 1 round -> %d, 8 rounds -> %d (started at %d)", oneRoundCut, manyRoundsCut, before)
	}
}
