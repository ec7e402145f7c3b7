package search

import (
	"context"
	"time"

	"github.com/herohde/halma/pkg/board"
	"github.com/herohde/halma/pkg/eval"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

const (
	// pollMask gates the time check to every 2048 visited nodes.
	pollMask = 0x7ff
	// unwindMargin is the per-ply safety margin for unwinding the
	// recursion once the budget runs out.
	unwindMargin = 4 * time.Millisecond
	// iterationMargin is the minimum remaining budget to start another
	// iterative-deepening iteration.
	iterationMargin = 50 * time.Millisecond
)

// Searcher implements iterative-deepening principal-variation search over
// the full negamax tree, with a zero-window split for non-first moves:
//
//	function pvs(node, depth, α, β, color) is
//	    if depth = 0 or node is a terminal node then
//	        return color × the heuristic value of node
//	    for each child of node do
//	        if child is first child then
//	            score := −pvs(child, depth − 1, −β, −α, −color)
//	        else
//	            score := −pvs(child, depth − 1, −α − 1, −α, −color) (* null window *)
//	            if α < score < β then
//	                score := −pvs(child, depth − 1, −β, −score, −color) (* full re-search *)
//	        α := max(α, score)
//	        if α ≥ β then
//	            break (* beta cut-off *)
//	    return α
//
// See: https://en.wikipedia.org/wiki/Principal_variation_search.
//
// The Searcher owns the internal game state along with its incrementally
// maintained evaluation cache and position hash. It is single-threaded and
// synchronous: the caller must not mutate the state during a search. Not
// thread-safe.
type Searcher struct {
	state board.State
	zt    *board.ZobristTable
	hash  board.ZobristHash
	eval  *eval.Cache
	tt    *TranspositionTable

	seed int64
	bits uint

	stop      StopCondition
	triggered bool
	start     time.Time
	rootPly   int

	stats Stats
}

// Option is a Searcher creation option.
type Option func(*Searcher)

// WithTableBits configures the transposition table to 1<<bits slots.
func WithTableBits(bits uint) Option {
	return func(s *Searcher) {
		s.bits = bits
	}
}

// WithZobristSeed configures the zobrist table to use the given random seed
// instead of the default seed of zero.
func WithZobristSeed(seed int64) Option {
	return func(s *Searcher) {
		s.seed = seed
	}
}

// NewSearcher returns a searcher for the given state. It seeds the zobrist
// tables, builds the evaluation cache and pre-allocates the transposition
// table.
func NewSearcher(ctx context.Context, state board.State, opts ...Option) *Searcher {
	s := &Searcher{
		state: state,
		bits:  20,
		stop:  Depth(6),
	}
	for _, fn := range opts {
		fn(s)
	}

	s.zt = board.NewZobristTable(s.seed)
	s.hash = s.zt.Hash(&s.state)
	s.eval = eval.NewCache(&s.state)
	s.tt = NewTranspositionTable(ctx, s.bits)

	return s
}

// State returns a copy of the internal game state.
func (s *Searcher) State() board.State {
	return s.state
}

// Hash returns the current position hash.
func (s *Searcher) Hash() board.ZobristHash {
	return s.hash
}

// Stats returns the statistics of the latest CalculateMove call.
func (s *Searcher) Stats() Stats {
	return s.stats
}

// SetStopCondition sets the stop condition for subsequent searches.
func (s *Searcher) SetStopCondition(c StopCondition) {
	s.stop = c
}

// Make applies an externally chosen move and keeps the hash and evaluation
// cache in sync. The move must be legal for the side to move.
func (s *Searcher) Make(m board.Move) {
	s.makeMove(m)
}

// Unmake reverts an externally chosen move. Exact inverse of Make.
func (s *Searcher) Unmake(m board.Move) {
	s.unmakeMove(m)
}

func (s *Searcher) makeMove(m board.Move) {
	s.eval.Apply(s.state.Turn(), m)
	s.hash ^= s.zt.Update(s.state.Turn(), m)
	s.state.Make(m)
}

func (s *Searcher) unmakeMove(m board.Move) {
	s.state.Unmake(m)
	s.hash ^= s.zt.Update(s.state.Turn(), m)
	s.eval.Revert(s.state.Turn(), m)
}

// CalculateMove runs an iteratively deepened search under the configured
// stop condition and returns the chosen move. The transposition table
// carries over between iterations, so deeper iterations start with better
// move ordering. The returned move is read from the root entry of the table
// after the deepest completed iteration.
func (s *Searcher) CalculateMove(ctx context.Context) board.Move {
	s.stats = Stats{}
	s.triggered = false
	s.start = time.Now()
	s.rootPly = s.state.Ply()

	var completed board.Move
	hasCompleted := false

	for d := 1; ; d++ {
		if limit, ok := s.stop.depth.V(); ok && d > limit {
			break
		}
		if budget, ok := s.stop.budget.V(); ok {
			if remaining := budget - time.Since(s.start); remaining < iterationMargin {
				logw.Debugf(ctx, "Stopping search before depth %v", d)
				break
			}
		}
		if contextx.IsCancelled(ctx) {
			break
		}

		score := s.searchPV(ctx, 0, -eval.WinScore, eval.WinScore, d*OnePly)
		logw.Debugf(ctx, "Searched depth=%v score=%v %v", d, score, s.stats)

		if s.triggered {
			break
		}
		if t, ok := s.tt.Read(s.hash); ok && isLegal(&s.state, t.Move) {
			completed, hasCompleted = t.Move, true
		}
	}

	if hasCompleted {
		return completed
	}
	if t, ok := s.tt.Read(s.hash); ok && isLegal(&s.state, t.Move) {
		return t.Move
	}

	// No usable root entry: possible only if not even the first iteration
	// completed. Fall back to the first generated move.

	picker := NewMovePicker(&s.state, s.hash, s.tt)
	m, ok := picker.Next()
	if !ok {
		panic("no legal moves")
	}

	logw.Warningf(ctx, "No root entry in transposition table; falling back to %v", m)
	return m
}

// searchPV searches the position with a full alpha-beta window. The first
// move is searched at full width; subsequent moves get a zero-window search
// first and a full re-search only if they fail high.
func (s *Searcher) searchPV(ctx context.Context, ply int, alpha, beta eval.Score, depth int) eval.Score {
	if s.shouldStop(ctx, ply) {
		return s.eval.Evaluate(&s.state)
	}

	s.stats.Nodes++

	// (1) Check if we lost. Prefer faster wins and slower losses.

	if s.state.Won(s.state.Turn().Opponent()) {
		return -eval.WinScore + eval.Score(ply)
	}

	// (2) Check if we ran out of depth and have to evaluate statically.

	if depth < OnePly {
		s.stats.LeafNodes++
		return s.eval.Evaluate(&s.state)
	}

	// (3) Lookup the position in the transposition table. A previous
	// evaluation at sufficient depth may cut off immediately.

	if score, ok := s.transpositionScore(alpha, beta, depth); ok {
		s.stats.TTHits++
		s.stats.Cutoffs++
		return score
	}

	// (4) Evaluate the moves. Whether any move raised alpha without
	// exceeding beta decides the bound of the stored result.

	raised := false
	first := true
	var best board.Move

	picker := NewMovePicker(&s.state, s.hash, s.tt)
	for {
		m, ok := picker.Next()
		if !ok {
			break
		}

		s.makeMove(m)

		var score eval.Score
		if first {
			first = false
			score = -s.searchPV(ctx, ply+1, -beta, -alpha, depth-OnePly)
		} else {
			s.stats.NullSearches++
			score = -s.searchNull(ctx, ply+1, -alpha, depth-OnePly)
			if score > alpha {
				// Failed high: re-search with the full window.
				s.stats.FailedNulls++
				score = -s.searchPV(ctx, ply+1, -beta, -alpha, depth-OnePly)
			}
		}

		s.unmakeMove(m)

		if score >= beta {
			s.stats.Cutoffs++
			s.insertTransposition(LowerBound, beta, m, depth, true)
			return beta
		}
		if score > alpha {
			raised = true
			best = m
			alpha = score
		}
	}

	if raised {
		s.insertTransposition(ExactBound, alpha, best, depth, true)
	} else {
		s.insertTransposition(UpperBound, alpha, best, depth, true)
	}
	return alpha
}

// searchNull searches the position with a zero window, alpha = beta-1. It
// recurses only into itself, never back into the PV search.
func (s *Searcher) searchNull(ctx context.Context, ply int, beta eval.Score, depth int) eval.Score {
	if s.shouldStop(ctx, ply) {
		return s.eval.Evaluate(&s.state)
	}

	s.stats.Nodes++

	if s.state.Won(s.state.Turn().Opponent()) {
		return -eval.WinScore + eval.Score(ply)
	}

	if depth < OnePly {
		s.stats.LeafNodes++
		return s.eval.Evaluate(&s.state)
	}

	alpha := beta - 1

	if score, ok := s.transpositionScore(alpha, beta, depth); ok {
		s.stats.TTHits++
		s.stats.Cutoffs++
		return score
	}

	picker := NewMovePicker(&s.state, s.hash, s.tt)
	for {
		m, ok := picker.Next()
		if !ok {
			break
		}

		s.makeMove(m)
		score := -s.searchNull(ctx, ply+1, -alpha, depth-OnePly)
		s.unmakeMove(m)

		if score >= beta {
			s.stats.Cutoffs++
			s.insertTransposition(LowerBound, beta, m, depth, false)
			return beta
		}
	}

	return alpha
}

// shouldStop polls the stop condition. Once the stop flag latches, every
// level below the root short-circuits to a static evaluation and unwinds;
// the root itself (ply 0) never stops and finishes its move loop. The
// clock is read every 2048 visited nodes, with a safety margin proportional
// to the unwind distance.
func (s *Searcher) shouldStop(ctx context.Context, ply int) bool {
	if ply == 0 {
		return false
	}
	if s.triggered {
		return true
	}
	if s.stats.Nodes&pollMask != 0 {
		return false
	}

	if contextx.IsCancelled(ctx) {
		s.triggered = true
		return true
	}
	if budget, ok := s.stop.budget.V(); ok {
		if time.Since(s.start)+time.Duration(ply)*unwindMargin >= budget {
			s.triggered = true
			return true
		}
	}
	return false
}

// transpositionScore returns a score and true iff the stored entry for the
// current position was searched at least as deep as requested and either is
// exact or bounds the score outside the (alpha, beta) window.
func (s *Searcher) transpositionScore(alpha, beta eval.Score, depth int) (eval.Score, bool) {
	s.stats.TTLookups++

	t, ok := s.tt.Read(s.hash)
	if !ok || t.Depth < depth {
		return 0, false
	}

	switch t.Bound {
	case ExactBound:
		return t.Score, true
	case LowerBound:
		if t.Score >= beta {
			return beta, true
		}
	case UpperBound:
		if t.Score <= alpha {
			return alpha, true
		}
	}
	return 0, false
}

func (s *Searcher) insertTransposition(bound Bound, score eval.Score, m board.Move, depth int, pv bool) {
	s.tt.Write(s.hash, Transposition{
		Bound: bound,
		Score: score,
		Move:  m,
		Depth: depth,
		Ply:   s.rootPly,
	}, pv)
}
