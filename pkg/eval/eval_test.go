package eval_test

import (
	"math/rand"
	"testing"

	"github.com/herohde/halma/pkg/board"
	"github.com/herohde/halma/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initial(t *testing.T) board.State {
	t.Helper()
	return mustState(t, board.Target[board.South], board.Target[board.North], board.North)
}

func mustState(t *testing.T, north, south board.Bitboard, turn board.Player) board.State {
	t.Helper()

	s, err := board.NewState([2]board.Bitboard{north, south}, turn, 0)
	require.NoError(t, err)
	return s
}

func cells(list ...[2]int) board.Bitboard {
	var ret board.Bitboard
	for _, pos := range list {
		ret.Set(board.NewCell(pos[0], pos[1]))
	}
	return ret
}

func TestEvaluate(t *testing.T) {
	t.Run("symmetric", func(t *testing.T) {
		// The initial position is perfectly symmetric and scores zero.

		s := initial(t)
		c := eval.NewCache(&s)
		assert.Equal(t, c.Evaluate(&s), eval.Score(0))
	})

	t.Run("antisymmetric", func(t *testing.T) {
		// The same position scores v for one side to move and -v for the
		// other.

		r := rand.New(rand.NewSource(5))
		s := initial(t)

		for i := 0; i < 20; i++ {
			moves := s.PossibleMoves()
			require.NotEmpty(t, moves)
			s.Make(moves[r.Intn(len(moves))])
		}

		c := eval.NewCache(&s)
		flipped := mustState(t, s.Pieces(board.North), s.Pieces(board.South), s.Turn().Opponent())
		assert.Equal(t, c.Evaluate(&s), -c.Evaluate(&flipped))
	})

	t.Run("win_progress", func(t *testing.T) {
		// A nearly finished player evaluates far ahead of a laggard still
		// crossing the middle of the board.

		north := board.Target[board.North]
		north.Clear(board.NewCell(4, 12))
		north.Set(board.NewCell(3, 12))

		south := cells([2]int{2, 6}, [2]int{3, 6}, [2]int{4, 6})
		for x := 1; x <= 12; x++ {
			south.Set(board.NewCell(x, 5))
		}

		s := mustState(t, north, south, board.South)
		c := eval.NewCache(&s)
		assert.Less(t, c.Evaluate(&s), eval.Score(0)) // South to move, far behind
	})
}

func TestIncremental(t *testing.T) {
	// The incrementally maintained aggregates equal a fresh full re-scan
	// throughout a random playout with occasional unmakes.

	r := rand.New(rand.NewSource(4))
	s := initial(t)
	c := eval.NewCache(&s)

	for i := 0; i < 100; i++ {
		moves := s.PossibleMoves()
		require.NotEmpty(t, moves)
		m := moves[r.Intn(len(moves))]

		c.Apply(s.Turn(), m)
		s.Make(m)
		assert.Equal(t, c, eval.NewCache(&s))
		assert.Equal(t, c.Evaluate(&s), eval.NewCache(&s).Evaluate(&s))

		if r.Intn(4) == 0 {
			s.Unmake(m)
			c.Revert(s.Turn(), m)
			assert.Equal(t, c, eval.NewCache(&s))
		}
	}
}
