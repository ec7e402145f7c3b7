package eval

import (
	"github.com/herohde/halma/pkg/board"
)

// Cache holds incrementally maintained positional aggregates for both
// players, evaluated with five terms:
//   - The distance of the least advanced piece of each player to its
//     destination side of the board.
//   - The total distance of the remaining pieces to the destination side.
//   - How well the cell-parity kinds of the pieces match the kinds of the
//     destination cells. A piece on the wrong parity class can never occupy
//     its target, so the class counts must balance.
//   - How centralised the pieces are.
//   - The mobility of the individual pieces.
//
// The aggregates only reflect the position if Apply/Revert is called for
// every move made on the underlying state.
type Cache struct {
	targetKinds  [board.NumPlayers][4]int
	kinds        [board.NumPlayers][4]int
	ys           [board.NumPlayers][board.Height]int
	dist         [board.NumPlayers]int
	distToCenter [board.NumPlayers][board.Width]int
}

// NewCache builds the aggregates for the given state by a full scan.
func NewCache(s *board.State) *Cache {
	ret := &Cache{}

	for p := board.ZeroPlayer; p < board.NumPlayers; p++ {
		targets := board.Target[p]
		for {
			c, ok := targets.Pop()
			if !ok {
				break
			}
			x, y := c.Pos()
			ret.targetKinds[p][kind(x, y)]++
		}

		pieces := s.Pieces(p)
		for {
			c, ok := pieces.Pop()
			if !ok {
				break
			}
			ret.add(p, c, 1)
		}
	}
	return ret
}

// Apply updates the aggregates for the move by the given player.
func (e *Cache) Apply(p board.Player, m board.Move) {
	e.add(p, m.From, -1)
	e.add(p, m.To, 1)
}

// Revert updates the aggregates for the reverted move by the given player.
func (e *Cache) Revert(p board.Player, m board.Move) {
	e.Apply(p, m.Inverse())
}

func (e *Cache) add(p board.Player, c board.Cell, delta int) {
	x, y := c.Pos()
	e.kinds[p][kind(x, y)] += delta
	e.ys[p][y] += delta
	if p == board.North {
		e.dist[p] += delta * (board.Height - 1 - y)
	} else {
		e.dist[p] += delta * y
	}
	e.distToCenter[p][centerDistance(x, y)] += delta
}

// Evaluate combines the cached terms and the mobility of the given state
// into a signed score for the side to move.
func (e *Cache) Evaluate(s *board.State) Score {
	var score Score
	score += 100_000 * e.scoreDistLastPiece() / 17
	score += 100_000 * e.scoreTotalDistance() / 209
	score += 100_000 * e.scoreCentralization() / 100
	score += 100_000 * e.scoreKinds() / 120
	score += e.scoreMobility(s) * 2

	if s.Turn() == board.South {
		return -score
	}
	return score
}

func (e *Cache) scoreKinds() Score {
	var p0, p1 int
	for k := 0; k < 4; k++ {
		p0 += abs(e.targetKinds[board.North][k] - e.kinds[board.North][k])
		p1 += abs(e.targetKinds[board.South][k] - e.kinds[board.South][k])
	}
	return Score(p1 - p0)
}

func (e *Cache) scoreTotalDistance() Score {
	return Score(e.dist[board.South]-e.dist[board.North]) - e.scoreDistLastPiece()
}

func (e *Cache) scoreDistLastPiece() Score {
	// The least advanced piece of player 0 sits on its smallest occupied
	// row; of player 1 on its largest.

	p0 := 0
	for y := 0; y < board.Height; y++ {
		if e.ys[board.North][y] > 0 {
			p0 = board.Height - 1 - y
			break
		}
	}

	p1 := 0
	for y := board.Height - 1; y >= 0; y-- {
		if e.ys[board.South][y] > 0 {
			p1 = y
			break
		}
	}

	return Score(p1 - p0)
}

func (e *Cache) scoreCentralization() Score {
	var p0, p1 int
	for d := 0; d < board.Width; d++ {
		p0 += max(0, d-1) * e.distToCenter[board.North][d]
		p1 += max(0, d-1) * e.distToCenter[board.South][d]
	}
	return Score(p1 - p0)
}

func (e *Cache) scoreMobility(s *board.State) Score {
	var p0, p1 int

	pieces := s.Pieces(board.North)
	for {
		c, ok := pieces.Pop()
		if !ok {
			break
		}
		p0 += s.ReachableFrom(c).PopCount()
	}

	pieces = s.Pieces(board.South)
	for {
		c, ok := pieces.Pop()
		if !ok {
			break
		}
		p1 += s.ReachableFrom(c).PopCount()
	}

	return Score(p0 - p1)
}

// kind returns the cell-parity class of a grid position. The four classes
// are invariant under the moves that preserve parity: two-cell horizontal
// steps and knight-like double-row steps.
func kind(x, y int) int {
	return 2*((x+y/2)%2) + y%2
}

// centerDistance returns the horizontal distance of a position from the
// centre column, accounting for the half-cell offset of odd rows.
func centerDistance(x, y int) int {
	return min(abs(6-x), abs(x-(6+y%2)))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func max(a, b int) int {
	if a < b {
		return b
	}
	return a
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
