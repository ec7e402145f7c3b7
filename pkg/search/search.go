package search

import (
	"fmt"
	"time"

	"github.com/seekerror/stdlib/pkg/lang"
)

// OnePly is the depth unit of a full ply. Depth is a scaled integer so that
// fractional extensions and reductions do not lose precision.
const OnePly = 1000

// StopCondition determines when a search stops: after a fixed iteration
// depth, or when a time budget runs out.
type StopCondition struct {
	depth  lang.Optional[int]
	budget lang.Optional[time.Duration]
}

// Depth returns a stop condition that searches exactly d iterations.
func Depth(d int) StopCondition {
	return StopCondition{depth: lang.Some(d)}
}

// Time returns a stop condition that searches within the given budget.
func Time(budget time.Duration) StopCondition {
	return StopCondition{budget: lang.Some(budget)}
}

func (c StopCondition) String() string {
	if d, ok := c.depth.V(); ok {
		return fmt.Sprintf("depth=%v", d)
	}
	if b, ok := c.budget.V(); ok {
		return fmt.Sprintf("time=%v", b)
	}
	return "none"
}

// Stats holds search statistics for a single CalculateMove call.
type Stats struct {
	Nodes, LeafNodes uint64
	Cutoffs          uint64
	TTLookups        uint64
	TTHits           uint64
	NullSearches     uint64
	FailedNulls      uint64
}

func (s Stats) String() string {
	return fmt.Sprintf("nodes=%v leaves=%v cutoffs=%v tt=%v/%v null=%v/%v",
		s.Nodes, s.LeafNodes, s.Cutoffs, s.TTHits, s.TTLookups, s.FailedNulls, s.NullSearches)
}
