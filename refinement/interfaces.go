// Package refinement implements the core of a parallel, shared-memory
// multi-try Fiduccia-Mattheyses local search for k-way graph partitioning:
// speculative parallel move generation, rollback-aware gain accounting, and a
// deterministic single-threaded commit phase.
package refinement

import "github.com/yarchi/mt-KaHIP/graph"

// GraphAccess is the thin, read-mostly view of the graph and current
// partition the engine needs. SetBlock is only ever called from the commit
// phase, on the calling goroutine, never concurrently.
type GraphAccess interface {
	NumVertices() uint32
	NumEdges() uint64
	OutEdges(v uint32) []graph.Edge
	VertexWeight(v uint32) int64
	BlockOf(v uint32) uint32
	SetBlock(v uint32, b uint32)
	PartitionCount() uint32
}

// Boundary is the collaborator responsible for tracking which vertices sit on
// a block boundary, seeding start-node sets for a refinement round, and
// answering block-size/weight queries used by the balance constraint.
type Boundary interface {
	SetupStartNodesAll(g GraphAccess) []uint32
	SetupStartNodesAroundBlocks(g GraphAccess, lhs, rhs uint32) []uint32
	BlockWeight(b uint32) int64
	BlockSize(b uint32) int32
	OnMoveApplied(v, from, to uint32)
	AdjustWeight(from, to uint32, vw int64)
}
