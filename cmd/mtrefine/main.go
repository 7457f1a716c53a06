// Command mtrefine builds a random weighted graph and an initial k-way
// partition, then exercises the refinement engine against it, reporting the
// resulting statistics. It plays the same demonstrator role the teacher's
// cmd/lp-* binaries play relative to its graph/framework packages.
package main

import (
	"flag"

	"github.com/rs/zerolog/log"

	"github.com/yarchi/mt-KaHIP/boundary"
	"github.com/yarchi/mt-KaHIP/graph"
	"github.com/yarchi/mt-KaHIP/refinement"
	"github.com/yarchi/mt-KaHIP/utils"
)

func main() {
	numVertices := flag.Int("vertices", 2000, "number of vertices in the random graph")
	numEdges := flag.Int("edges", 8000, "approximate number of edges in the random graph")
	k := flag.Int("k", 8, "number of blocks")
	threads := flag.Int("threads", 4, "number of worker threads")
	rounds := flag.Int("rounds", 10, "maximum number of global refinement rounds")
	seed := flag.Int64("seed", 1, "random seed")
	initNeighbors := flag.Bool("init-neighbors", true, "seed each chain with its start node's neighbours too")
	alpha := flag.Int("alpha", 1, "adaptive stop rule slack")
	flag.Parse()

	g := graph.GenerateRandomGraph(*numVertices, *numEdges, *seed)
	blockOf := graph.InitialPartitionRoundRobin(g.NumVertices(), *k)
	partition := graph.NewPartition(g, *k, blockOf)

	before := graph.EdgeCut(g, partition)
	log.Info().Msg("initial edge cut: " + utils.V(before))

	access := refinement.NewGraphAccess(g, partition)
	bnd := boundary.NewCompleteBoundary(g, partition)

	cfg := refinement.DefaultPartitionConfig(*k)
	cfg.NumThreads = *threads
	cfg.Seed = *seed

	gain, stats := refinement.PerformRefinement(&cfg, access, bnd, *rounds, *initNeighbors, *alpha)

	after := graph.EdgeCut(g, partition)
	log.Info().Msg("refinement finished: " + stats.String())
	log.Info().Msg("claimed gain: " + utils.V(gain) + " observed cut delta: " + utils.V(before-after))

	if !graph.BlockWeightsMatch(g, partition) {
		log.Panic().Msg("block weight bookkeeping drifted from the real partition")
	}

	byWeight := make([]float64, len(partition.BlockWeight))
	for i, w := range partition.BlockWeight {
		byWeight[i] = float64(w)
	}
	heaviest := utils.SortGiveIndexesLargestFirst(byWeight)
	if len(heaviest) > 0 {
		log.Info().Msg("heaviest block: " + utils.V(heaviest[0]) + " weight " + utils.V(partition.BlockWeight[heaviest[0]]))
	}

	topN := uint32(3)
	if top := utils.FindTopNInArray(byWeight, topN); len(top) > 0 {
		for i := len(top) - 1; i >= 0; i-- {
			log.Info().Msg("top heavy block: " + utils.V(top[i].First) + " weight " + utils.V(top[i].Second))
		}
	}
}
