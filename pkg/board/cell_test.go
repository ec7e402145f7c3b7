package board_test

import (
	"testing"

	"github.com/herohde/halma/pkg/board"
	"github.com/stretchr/testify/assert"
)

func TestCell(t *testing.T) {
	t.Run("layout", func(t *testing.T) {
		tests := []struct {
			x, y     int
			expected board.Cell
		}{
			{6, 0, 0x06},
			{6, 1, 0x13},
			{7, 1, 0x14},
			{5, 2, 0x20},
			{6, 2, 0x21},
			{7, 2, 0x22},
			{6, 8, 0x72},
			{6, 16, 0xDE},
		}

		for _, tt := range tests {
			assert.Equal(t, board.NewCell(tt.x, tt.y), tt.expected)

			x, y := tt.expected.Pos()
			assert.Equal(t, x, tt.x)
			assert.Equal(t, y, tt.y)
		}
	})

	t.Run("roundtrip", func(t *testing.T) {
		for y := 0; y < board.Height; y++ {
			for x := 0; x < board.Width; x++ {
				c := board.NewCell(x, y)
				cx, cy := c.Pos()
				assert.Equal(t, cx, x)
				assert.Equal(t, cy, y)
			}
		}
	})

	t.Run("offsets", func(t *testing.T) {
		// The east neighbour is always +1; the cell below at the same
		// column is +13 from even rows and +14 from odd rows.

		for y := 0; y < board.Height-1; y++ {
			for x := 0; x < board.Width-1; x++ {
				c := board.NewCell(x, y)
				assert.Equal(t, board.NewCell(x+1, y), c+board.East)

				if y%2 == 0 {
					assert.Equal(t, board.NewCell(x, y+1), c+board.SouthWest)
					assert.Equal(t, board.NewCell(x+1, y+1), c+board.SouthEast)
				} else {
					assert.Equal(t, board.NewCell(x, y+1), c+board.SouthEast)
				}
			}
		}
	})
}
