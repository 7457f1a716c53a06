package refinement

import (
	"strconv"
	"time"
)

// Statistics is a plain value returned by each refinement call. There is no
// process-wide aggregator (unlike the source's static print_full_statistics
// / get_performed_gain globals); a caller wanting totals across calls sums
// the returned values itself.
type Statistics struct {
	TimeSetupStartNodes time.Duration
	TimeInit            time.Duration
	TimeGenerateMoves   time.Duration
	TimeMoveNodes       time.Duration
	// TimeWait accumulates time the joining goroutine spent blocked in
	// sync.WaitGroup.Wait() for stragglers. The source declares the
	// equivalent field but never assigns it; here it is actually written,
	// a deliberate, narrow addition (see DESIGN.md).
	TimeWait time.Duration
	TimeTotal time.Duration

	// CommitPasses counts how many speculate/commit inner iterations
	// runLocalizedSearch ran in total across every round of this call: more
	// than one per round means at least one vertex was reactivated and
	// retried after being rejected or rolled back at commit.
	CommitPasses int

	performedGain     int64
	realNodesMovement int
}

func (s Statistics) PerformedGain() int64 { return s.performedGain }

func (s Statistics) RealNodesMoved() int { return s.realNodesMovement }

func (s Statistics) String() string {
	return "gain=" + strconv.FormatInt(s.performedGain, 10) +
		" moved=" + strconv.Itoa(s.realNodesMovement) +
		" total=" + s.TimeTotal.String() +
		" wait=" + s.TimeWait.String()
}
