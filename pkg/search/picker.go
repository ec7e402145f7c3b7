package search

import (
	"github.com/herohde/halma/pkg/board"
)

// MovePicker is a staged lazy iterator over the legal moves of a position.
// It first yields the transposition-table move, if present and legal, then
// generates the remaining moves and emits them partially ordered: the first
// 8 emissions are selection-sorted by a cheap progress heuristic, the rest
// come in generation order. If 8 ordered moves did not produce a cutoff,
// full sorting is not expected to help.
type MovePicker struct {
	state *board.State
	hash  board.ZobristHash
	tt    *TranspositionTable

	stage   pickerStage
	ttMove  board.Move
	hasTT   bool
	index   int
	ordered int
	moves   []board.Move
}

type pickerStage uint8

const (
	ttStage pickerStage = iota
	generateStage
	allStage
)

// orderLimit is the number of emissions sorted by the progress heuristic.
const orderLimit = 8

func NewMovePicker(state *board.State, hash board.ZobristHash, tt *TranspositionTable) *MovePicker {
	return &MovePicker{
		state: state,
		hash:  hash,
		tt:    tt,
		stage: ttStage,
	}
}

// Next returns the next move, if any.
func (p *MovePicker) Next() (board.Move, bool) {
	switch p.stage {
	case ttStage:
		p.stage = generateStage
		if t, ok := p.tt.Read(p.hash); ok && isLegal(p.state, t.Move) {
			p.ttMove = t.Move
			p.hasTT = true
			return t.Move, true
		}
		return p.Next()

	case generateStage:
		p.moves = p.state.PossibleMoves()
		p.stage = allStage
		return p.Next()

	default:
		for p.index < len(p.moves) {
			if p.hasTT && p.moves[p.index] == p.ttMove {
				p.index++ // skip: already emitted
				continue
			}

			if p.ordered < orderLimit {
				best := p.index
				bestScore := progress(p.state.Turn(), p.moves[best])
				for j := p.index + 1; j < len(p.moves); j++ {
					if score := progress(p.state.Turn(), p.moves[j]); score > bestScore {
						best = j
						bestScore = score
					}
				}
				p.moves[p.index], p.moves[best] = p.moves[best], p.moves[p.index]

				if p.hasTT && p.moves[p.index] == p.ttMove {
					p.index++
					continue
				}
			}

			m := p.moves[p.index]
			p.index++
			p.ordered++
			return m, true
		}
		return board.Move{}, false
	}
}

// isLegal returns true iff the move is legal in the given state: the origin
// holds a piece of the side to move and the destination is reachable.
func isLegal(s *board.State, m board.Move) bool {
	return s.Pieces(s.Turn()).IsSet(m.From) && s.ReachableFrom(m.From).IsSet(m.To)
}

// progress scores a move by how far it advances towards the player's goal
// side of the board.
func progress(p board.Player, m board.Move) int {
	d := m.To.Row() - m.From.Row()
	if p == board.North {
		return d
	}
	return -d
}
