package board

import "fmt"

// State represents the internal game state: one bitboard per player, the
// side to move and a ply counter. Invariants: the piece boards are disjoint
// and contain no invalid bits.
type State struct {
	pieces [NumPlayers]Bitboard
	turn   Player
	ply    int
}

// NewState returns a state from the given piece boards. It rejects
// overlapping boards and pieces on invalid cells.
func NewState(pieces [NumPlayers]Bitboard, turn Player, ply int) (State, error) {
	if !pieces[North].And(pieces[South]).IsEmpty() {
		return State{}, fmt.Errorf("overlapping piece boards")
	}
	if !pieces[North].Or(pieces[South]).And(Invalid).IsEmpty() {
		return State{}, fmt.Errorf("pieces on invalid cells")
	}
	return State{pieces: pieces, turn: turn, ply: ply}, nil
}

// Pieces returns the piece board for the given player.
func (s *State) Pieces(p Player) Bitboard {
	return s.pieces[p]
}

// Turn returns the side to move.
func (s *State) Turn() Player {
	return s.turn
}

// Ply returns the ply counter.
func (s *State) Ply() int {
	return s.ply
}

// Occupied returns the cells occupied by either player.
func (s *State) Occupied() Bitboard {
	return s.pieces[North].Or(s.pieces[South])
}

// Empty returns the valid cells occupied by neither player.
func (s *State) Empty() Bitboard {
	return s.Occupied().Or(Invalid).Not()
}

// Make applies a move for the side to move, toggles the turn and increments
// the ply. The move endpoints must satisfy the caller contract: from holds a
// piece of the side to move, to is an empty valid cell.
func (s *State) Make(m Move) {
	if !s.pieces[s.turn].IsSet(m.From) || s.Occupied().IsSet(m.To) || !m.To.IsValid() {
		panic(fmt.Sprintf("corrupt move %v for player %v: %v", m, s.turn, s))
	}

	s.pieces[s.turn].Clear(m.From)
	s.pieces[s.turn].Set(m.To)
	s.turn = s.turn.Opponent()
	s.ply++
}

// Unmake is the exact inverse of Make.
func (s *State) Unmake(m Move) {
	s.turn = s.turn.Opponent()
	s.ply--

	if !s.pieces[s.turn].IsSet(m.To) || s.pieces[s.turn].IsSet(m.From) {
		panic(fmt.Sprintf("corrupt unmove %v for player %v: %v", m, s.turn, s))
	}

	s.pieces[s.turn].Clear(m.To)
	s.pieces[s.turn].Set(m.From)
}

// Won returns true iff the player has brought the game home: the target
// triangle is fully occupied and at least one of the occupants is the
// player's own. The second condition prevents the opponent from blocking
// the win forever by parking a piece in the triangle.
func (s *State) Won(p Player) bool {
	occupied := s.Occupied()
	return occupied.And(Target[p]) == Target[p] && !s.pieces[p].And(Target[p]).IsEmpty()
}

// ReachableFrom returns the set of cells reachable from the given cell by a
// single slide or any number of consecutive jumps. Jump landings are found
// as a fixed-point iteration over a jumping frontier: in each of the six
// directions, a frontier cell jumps a neighbouring piece onto the empty
// cell behind it. Each step is a handful of shifts and masks on the full
// board, independent of how many pieces or jump chains exist.
func (s *State) ReachableFrom(from Cell) Bitboard {
	occupied := s.Occupied()
	empty := occupied.Or(Invalid).Not()

	var frontier Bitboard
	next := BitMask(from)

	for frontier != next {
		frontier = next

		for _, d := range [3]struct{ skip, jump uint }{
			{1, 2},   // east
			{13, 26}, // south-west
			{14, 28}, // south-east
		} {
			next = next.Or(occupied.Shl(d.skip).And(frontier.Shl(d.jump)))
			next = next.Or(occupied.Shr(d.skip).And(frontier.Shr(d.jump)))
		}

		next = next.And(empty)
	}

	// The slide offsets wrap around 256, but the empty mask keeps any
	// wrapped destination out.
	for _, slide := range Slides {
		frontier.Set(from + slide)
	}

	return frontier.And(empty)
}

// PossibleMoves returns all legal moves for the side to move.
func (s *State) PossibleMoves() []Move {
	ret := make([]Move, 0, 256)

	origin := s.pieces[s.turn]
	for {
		from, ok := origin.Pop()
		if !ok {
			break
		}

		targets := s.ReachableFrom(from)
		for {
			to, ok := targets.Pop()
			if !ok {
				break
			}
			ret = append(ret, Move{From: from, To: to})
		}
	}
	return ret
}

func (s *State) String() string {
	return fmt.Sprintf("state{pieces=[%v %v], turn=%v, ply=%v}", s.pieces[North], s.pieces[South], s.turn, s.ply)
}
