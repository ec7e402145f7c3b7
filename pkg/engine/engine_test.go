package engine_test

import (
	"context"
	"testing"

	"github.com/herohde/halma/pkg/board"
	"github.com/herohde/halma/pkg/board/grid"
	"github.com/herohde/halma/pkg/engine"
	"github.com/herohde/halma/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine(t *testing.T) {
	ctx := context.Background()

	e := engine.New(ctx, "halma", "test",
		engine.WithTableBits(12),
		engine.WithStopCondition(search.Depth(1)),
	)

	t.Run("move", func(t *testing.T) {
		require.NoError(t, e.Reset(ctx, grid.Initial()))

		assert.NoError(t, e.Move(ctx, grid.Move{From: [2]int{4, 4}, To: [2]int{4, 5}}))
		assert.Error(t, e.Move(ctx, grid.Move{From: [2]int{6, 8}, To: [2]int{6, 9}}), "no piece on origin")
		assert.Error(t, e.Move(ctx, grid.Move{From: [2]int{8, 12}, To: [2]int{8, 8}}), "unreachable destination")

		s, err := grid.Decode(e.State())
		require.NoError(t, err)
		assert.Equal(t, s.Ply(), 1)
		assert.Equal(t, s.Turn(), board.South)
	})

	t.Run("takeback", func(t *testing.T) {
		require.NoError(t, e.Reset(ctx, grid.Initial()))
		assert.Error(t, e.TakeBack(ctx))

		require.NoError(t, e.Move(ctx, grid.Move{From: [2]int{4, 4}, To: [2]int{4, 5}}))
		require.NoError(t, e.TakeBack(ctx))

		assert.Equal(t, e.State(), grid.Initial())
	})

	t.Run("calculate", func(t *testing.T) {
		require.NoError(t, e.Reset(ctx, grid.Initial()))

		gm, err := e.CalculateMove(ctx)
		require.NoError(t, err)

		m, err := grid.DecodeMove(gm)
		require.NoError(t, err)

		s, err := grid.Decode(e.State())
		require.NoError(t, err)
		assert.True(t, s.Pieces(s.Turn()).IsSet(m.From))
		assert.True(t, s.ReachableFrom(m.From).IsSet(m.To))
	})
}
