// Package search contains the principal-variation search and its utilities.
package search

import (
	"context"
	"fmt"

	"github.com/herohde/halma/pkg/board"
	"github.com/herohde/halma/pkg/eval"
	"github.com/seekerror/logw"
)

// Bound represents the bound of a -- possibly inexact -- search score.
type Bound uint8

const (
	ExactBound Bound = iota
	LowerBound
	UpperBound
)

func (b Bound) String() string {
	switch b {
	case ExactBound:
		return "Exact"
	case LowerBound:
		return "Lower"
	case UpperBound:
		return "Upper"
	default:
		return "?"
	}
}

// Transposition is a stored search result for a position. Depth is in
// fractional ply units, Ply is the game ply at which the entry was stored.
type Transposition struct {
	Bound Bound
	Score eval.Score
	Move  board.Move
	Depth int
	Ply   int
}

// shouldBeReplacedBy decides whether a new entry for the same slot wins
// over the existing one: PV entries replace unconditionally, stale entries
// age out after 6 game plies, and otherwise deeper searches are preferred.
func (t Transposition) shouldBeReplacedBy(o Transposition, pv bool) bool {
	if pv {
		return true
	}
	if t.Ply+6 < o.Ply {
		return true
	}
	if t.Depth <= o.Depth {
		return true
	}
	return false
}

func (t Transposition) String() string {
	return fmt.Sprintf("%v@%v = %v, %v", t.Bound, t.Depth, t.Score, t.Move)
}

type slot struct {
	hash board.ZobristHash
	t    Transposition
	used bool
}

// TranspositionTable is a direct-mapped transposition table: 1<<bits slots,
// indexed by the low bits of the position hash. Entries store the full hash,
// so a slot collision overwrites per the replacement policy and a residual
// hash collision is caught by the move picker revalidating the stored move.
type TranspositionTable struct {
	table []slot
	mask  uint64
	used  uint64
}

func NewTranspositionTable(ctx context.Context, bits uint) *TranspositionTable {
	n := uint64(1) << bits

	logw.Infof(ctx, "Allocating TT with %v entries (2^%v)", n, bits)

	return &TranspositionTable{
		table: make([]slot, n),
		mask:  n - 1,
	}
}

// Read returns the entry for the given position hash, if present.
func (t *TranspositionTable) Read(hash board.ZobristHash) (Transposition, bool) {
	s := &t.table[uint64(hash)&t.mask]
	if s.used && s.hash == hash {
		return s.t, true
	}
	return Transposition{}, false
}

// Write stores the entry, subject to the replacement policy. Returns true
// iff the entry was stored.
func (t *TranspositionTable) Write(hash board.ZobristHash, tr Transposition, pv bool) bool {
	s := &t.table[uint64(hash)&t.mask]

	if s.used && !s.t.shouldBeReplacedBy(tr, pv) {
		return false
	}
	if !s.used {
		t.used++
	}

	*s = slot{hash: hash, t: tr, used: true}
	return true
}

// Size returns a nominal size of the table in bytes, counting 32 bytes per
// slot.
func (t *TranspositionTable) Size() uint64 {
	return uint64(len(t.table)) << 5
}

// Used returns the utilization as a fraction [0;1].
func (t *TranspositionTable) Used() float64 {
	return float64(t.used) / float64(len(t.table))
}

func (t *TranspositionTable) String() string {
	return fmt.Sprintf("TT[%v @ %v%%]", t.Size(), int(100*t.Used()))
}
