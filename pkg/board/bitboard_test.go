package board_test

import (
	"testing"

	"github.com/herohde/halma/pkg/board"
	"github.com/stretchr/testify/assert"
)

func TestBitboard(t *testing.T) {
	t.Run("shr", func(t *testing.T) {
		bb := board.Bitboard{0x0123456789ABCDEF, 0x23456789ABCDEF12, 0x456789ABCDEF0123, 0x6789ABCDEF012345}

		assert.Equal(t, bb.Shr(8), board.Bitboard{0x120123456789ABCD, 0x2323456789ABCDEF, 0x45456789ABCDEF01, 0x006789ABCDEF0123})
		assert.Equal(t, bb.Shr(32), board.Bitboard{0xABCDEF1201234567, 0xCDEF012323456789, 0xEF012345456789AB, 0x000000006789ABCD})
	})

	t.Run("shl", func(t *testing.T) {
		bb := board.Bitboard{0xABCDEF1201234567, 0xCDEF012323456789, 0xEF012345456789AB, 0x000000006789ABCD}

		assert.Equal(t, bb.Shl(32), board.Bitboard{0x0123456700000000, 0x23456789ABCDEF12, 0x456789ABCDEF0123, 0x6789ABCDEF012345})
	})

	t.Run("shift_roundtrip", func(t *testing.T) {
		bb := board.Target[board.South].Or(board.BitMask(board.NewCell(6, 8)))

		for _, n := range []uint{1, 2, 13, 14, 26, 28, 63} {
			assert.Equal(t, bb.Shl(n).Shr(n), bb, "shift by %v", n)
		}
	})

	t.Run("setclear", func(t *testing.T) {
		var bb board.Bitboard

		c := board.NewCell(6, 8)
		assert.False(t, bb.IsSet(c))

		bb.Set(c)
		assert.True(t, bb.IsSet(c))
		assert.Equal(t, bb.PopCount(), 1)

		bb.Clear(c)
		assert.False(t, bb.IsSet(c))
		assert.True(t, bb.IsEmpty())
	})

	t.Run("pop", func(t *testing.T) {
		bb := board.BitMask(board.NewCell(6, 0)).
			Or(board.BitMask(board.NewCell(6, 8))).
			Or(board.BitMask(board.NewCell(6, 16)))

		var cells []board.Cell
		for {
			c, ok := bb.Pop()
			if !ok {
				break
			}
			cells = append(cells, c)
		}

		// LSB first.
		assert.Equal(t, cells, []board.Cell{board.NewCell(6, 0), board.NewCell(6, 8), board.NewCell(6, 16)})
		assert.True(t, bb.IsEmpty())
	})

	t.Run("masks", func(t *testing.T) {
		// 121 playing cells and two disjoint 15-cell goal triangles.

		assert.Equal(t, board.Invalid.PopCount(), 135)
		assert.Equal(t, board.Target[board.North].PopCount(), 15)
		assert.Equal(t, board.Target[board.South].PopCount(), 15)

		assert.True(t, board.Target[board.North].And(board.Target[board.South]).IsEmpty())
		assert.True(t, board.Target[board.North].And(board.Invalid).IsEmpty())
		assert.True(t, board.Target[board.South].And(board.Invalid).IsEmpty())
		assert.Equal(t, board.Target[board.North].Or(board.Target[board.South]).PopCount(), 30)

		valid := 0
		for i := 0; i < board.NumCells; i++ {
			if board.Cell(i).IsValid() {
				valid++
			}
		}
		assert.Equal(t, valid, 121)
	})
}
