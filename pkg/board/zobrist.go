package board

import "math/rand"

// ZobristHash is an incrementally updatable position hash based on
// cell-player pairs plus the side to move.
//
// See also: https://research.cs.wisc.edu/techreports/1970/TR88.pdf.
type ZobristHash uint64

// ZobristTable is a pseudo-randomized table for computing a position hash.
// Hash values from tables with different seeds are not comparable.
type ZobristTable struct {
	tiles [NumCells][NumPlayers]ZobristHash
	turn  ZobristHash
}

func NewZobristTable(seed int64) *ZobristTable {
	ret := &ZobristTable{}

	r := rand.New(rand.NewSource(seed))

	for i := 0; i < NumCells; i++ {
		for p := ZeroPlayer; p < NumPlayers; p++ {
			ret.tiles[i][p] = ZobristHash(r.Uint64())
		}
	}
	ret.turn = ZobristHash(r.Uint64())

	return ret
}

// Hash computes the zobrist hash for the given state from scratch.
func (z *ZobristTable) Hash(s *State) ZobristHash {
	var hash ZobristHash

	for p := ZeroPlayer; p < NumPlayers; p++ {
		pieces := s.Pieces(p)
		for {
			c, ok := pieces.Pop()
			if !ok {
				break
			}
			hash ^= z.tiles[c][p]
		}
	}
	if s.Turn() == South {
		hash ^= z.turn
	}
	return hash
}

// Update returns the hash delta for the given (legal) move by the given
// player. The caller XORs it into its running hash. XOR is involutive, so
// unmaking a move applies the same delta again.
func (z *ZobristTable) Update(p Player, m Move) ZobristHash {
	return z.tiles[m.From][p] ^ z.tiles[m.To][p] ^ z.turn
}
