// Package grid contains the external tile-grid game state format and its
// JSON encoding, used at the engine boundary and in the match protocol.
package grid

import (
	"fmt"

	"github.com/herohde/halma/pkg/board"
)

// Tile is the content of a single grid position.
type Tile rune

const (
	Empty   Tile = '.'
	Invalid Tile = 'x'
	Player0 Tile = '0'
	Player1 Tile = '1'
)

// GameState is the external game state: a 13x17 grid of tiles, a ply
// counter and the player to move. The board is encoded as 17 strings of 13
// tiles each, top row first.
type GameState struct {
	Board  []string `json:"board"`
	Ply    int      `json:"ply"`
	Player int      `json:"player"`
}

// Move is the external move format: from/to grid positions as (x, y) pairs.
type Move struct {
	From [2]int `json:"from"`
	To   [2]int `json:"to"`
}

// Initial returns the canonical starting position: 15 pieces per player,
// each filling the opponent's target triangle, player 0 to move.
func Initial() GameState {
	var pieces [board.NumPlayers]board.Bitboard
	pieces[board.North] = board.Target[board.South]
	pieces[board.South] = board.Target[board.North]

	s, _ := board.NewState(pieces, board.North, 0)
	return Encode(&s)
}

// Encode converts an internal state into the external grid format.
func Encode(s *board.State) GameState {
	ret := GameState{
		Ply:    s.Ply(),
		Player: int(s.Turn()),
	}

	for y := 0; y < board.Height; y++ {
		row := make([]rune, board.Width)
		for x := 0; x < board.Width; x++ {
			c := board.NewCell(x, y)
			switch {
			case !c.IsValid():
				row[x] = rune(Invalid)
			case s.Pieces(board.North).IsSet(c):
				row[x] = rune(Player0)
			case s.Pieces(board.South).IsSet(c):
				row[x] = rune(Player1)
			default:
				row[x] = rune(Empty)
			}
		}
		ret.Board = append(ret.Board, string(row))
	}
	return ret
}

// Decode converts an external grid state into an internal state. It rejects
// malformed grids, pieces on invalid cells and bad player values.
func Decode(g GameState) (board.State, error) {
	if len(g.Board) != board.Height {
		return board.State{}, fmt.Errorf("invalid number of rows: %v", len(g.Board))
	}
	if g.Player != 0 && g.Player != 1 {
		return board.State{}, fmt.Errorf("invalid player: %v", g.Player)
	}

	var pieces [board.NumPlayers]board.Bitboard
	for y, row := range g.Board {
		runes := []rune(row)
		if len(runes) != board.Width {
			return board.State{}, fmt.Errorf("invalid row %v: '%v'", y, row)
		}

		for x, r := range runes {
			c := board.NewCell(x, y)
			switch Tile(r) {
			case Empty, Invalid:
				// ok: no piece. Empty/invalid mismatches are cosmetic.

			case Player0:
				pieces[board.North].Set(c)

			case Player1:
				pieces[board.South].Set(c)

			default:
				return board.State{}, fmt.Errorf("invalid tile '%c' at (%v,%v)", r, x, y)
			}
		}
	}

	return board.NewState(pieces, board.Player(g.Player), g.Ply)
}

// EncodeMove converts an internal move into the external format.
func EncodeMove(m board.Move) Move {
	fx, fy := m.From.Pos()
	tx, ty := m.To.Pos()
	return Move{From: [2]int{fx, fy}, To: [2]int{tx, ty}}
}

// DecodeMove converts an external move into the internal format.
func DecodeMove(m Move) (board.Move, error) {
	from, err := decodePos(m.From)
	if err != nil {
		return board.Move{}, fmt.Errorf("invalid from: %v", err)
	}
	to, err := decodePos(m.To)
	if err != nil {
		return board.Move{}, fmt.Errorf("invalid to: %v", err)
	}
	return board.Move{From: from, To: to}, nil
}

func decodePos(pos [2]int) (board.Cell, error) {
	x, y := pos[0], pos[1]
	if x < 0 || x >= board.Width || y < 0 || y >= board.Height {
		return 0, fmt.Errorf("position (%v,%v) outside the grid", x, y)
	}

	c := board.NewCell(x, y)
	if !c.IsValid() {
		return 0, fmt.Errorf("position (%v,%v) is not a playing cell", x, y)
	}
	return c, nil
}
