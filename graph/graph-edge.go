package graph

// Edge is a single directed adjacency entry: a neighbouring vertex and the
// weight of the (undirected) edge connecting to it.
type Edge struct {
	To     uint32
	Weight int64
}
