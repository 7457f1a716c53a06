package refinement

// StopRule selects how a localised search chain decides it has explored
// enough around a given start node before the worker moves to the next one.
type StopRule int

const (
	// StopSimple only accepts strictly gain-positive moves.
	StopSimple StopRule = iota
	// StopAdaptive additionally accepts moves that dip the chain's
	// cumulative gain below zero, up to KwayAdaptiveLimitsAlpha, so a
	// chain can climb out of a local optimum instead of stalling.
	StopAdaptive
)

func (s StopRule) String() string {
	switch s {
	case StopSimple:
		return "simple"
	case StopAdaptive:
		return "adaptive"
	default:
		return "unknown"
	}
}

// PartitionConfig is the pure-data configuration the engine reads.
// Constructing it from flags or a config file is an ambient-stack concern
// left to callers such as cmd/mtrefine; this package does no I/O.
type PartitionConfig struct {
	NumThreads              int
	Seed                    int64
	K                       int
	KwayStopRule            StopRule
	KwayAdaptiveLimitsAlpha int
	LocalMultitryRounds     int
	Lmax                    int64 // per-block weight ceiling; 0 disables the balance constraint
}

// DefaultPartitionConfig returns reasonable defaults for a k-way refinement
// call; callers override whichever fields matter to them.
func DefaultPartitionConfig(k int) PartitionConfig {
	return PartitionConfig{
		NumThreads:              4,
		Seed:                    1,
		K:                       k,
		KwayStopRule:            StopAdaptive,
		KwayAdaptiveLimitsAlpha: 1,
		LocalMultitryRounds:     5,
		Lmax:                    0,
	}
}
