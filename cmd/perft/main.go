// perft is a movegen debugging tool. It counts the move-tree nodes of the
// starting position to a given depth.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/herohde/halma/pkg/board"
	"github.com/herohde/halma/pkg/board/grid"
	"github.com/seekerror/logw"
)

var (
	depth  = flag.Int("depth", 4, "Search depth")
	divide = flag.Bool("divide", false, "Divide counts by initial move")
)

func main() {
	ctx := context.Background()
	flag.Parse()

	state, err := grid.Decode(grid.Initial())
	if err != nil {
		logw.Exitf(ctx, "Invalid initial position: %v", err)
	}

	for i := 1; i <= *depth; i++ {
		start := time.Now()
		nodes := search(&state, i, *divide && i == *depth)
		duration := time.Since(start)

		println(fmt.Sprintf("perft,%v,%v,%v", i, nodes, duration.Microseconds()))
	}
}

func search(s *board.State, depth int, d bool) int64 {
	if depth == 0 {
		return 1
	}

	var nodes int64
	for _, m := range s.PossibleMoves() {
		s.Make(m)
		count := search(s, depth-1, false)
		s.Unmake(m)

		if d {
			println(fmt.Sprintf("%v: %v", m, count))
		}
		nodes += count
	}
	return nodes
}
