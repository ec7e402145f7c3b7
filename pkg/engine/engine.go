// Package engine encapsulates game-playing logic, search and evaluation.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/herohde/halma/pkg/board"
	"github.com/herohde/halma/pkg/board/grid"
	"github.com/herohde/halma/pkg/search"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
)

var version = build.NewVersion(0, 3, 1)

// Options are engine creation options.
type Options struct {
	// TableBits is the log2 size of the transposition table.
	TableBits uint
	// Seed is the zobrist table seed.
	Seed int64
	// Stop is the default stop condition.
	Stop search.StopCondition
}

func (o Options) String() string {
	return fmt.Sprintf("{tt=2^%v, seed=%v, stop=%v}", o.TableBits, o.Seed, o.Stop)
}

// Engine wraps the searcher behind the external game state format and keeps
// a move history for takebacks. Thread-safe.
type Engine struct {
	name, author string
	opts         Options

	s       *search.Searcher
	history []board.Move
	mu      sync.Mutex
}

// Option is an engine creation option.
type Option func(*Options)

// WithTableBits configures the transposition table to 1<<bits slots.
func WithTableBits(bits uint) Option {
	return func(o *Options) {
		o.TableBits = bits
	}
}

// WithZobristSeed configures the zobrist seed.
func WithZobristSeed(seed int64) Option {
	return func(o *Options) {
		o.Seed = seed
	}
}

// WithStopCondition configures the default stop condition.
func WithStopCondition(c search.StopCondition) Option {
	return func(o *Options) {
		o.Stop = c
	}
}

func New(ctx context.Context, name, author string, opts ...Option) *Engine {
	e := &Engine{
		name:   name,
		author: author,
		opts: Options{
			TableBits: 20,
			Stop:      search.Depth(6),
		},
	}
	for _, fn := range opts {
		fn(&e.opts)
	}

	_ = e.Reset(ctx, grid.Initial())

	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

// State returns the current game state in the external format.
func (e *Engine) State() grid.GameState {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.s.State()
	return grid.Encode(&s)
}

// Reset resets the engine to the given position. The transposition table
// and evaluation cache are rebuilt.
func (e *Engine) Reset(ctx context.Context, g grid.GameState) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := grid.Decode(g)
	if err != nil {
		return err
	}

	e.s = search.NewSearcher(ctx, state,
		search.WithTableBits(e.opts.TableBits),
		search.WithZobristSeed(e.opts.Seed),
	)
	e.s.SetStopCondition(e.opts.Stop)
	e.history = nil

	logw.Infof(ctx, "Reset %v, hash=%x", &state, e.s.Hash())
	return nil
}

// Move applies the given move, usually an opponent move. It rejects moves
// that are not legal in the current state.
func (e *Engine) Move(ctx context.Context, gm grid.Move) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := grid.DecodeMove(gm)
	if err != nil {
		return fmt.Errorf("invalid move: %w", err)
	}

	state := e.s.State()
	if !state.Pieces(state.Turn()).IsSet(m.From) || !state.ReachableFrom(m.From).IsSet(m.To) {
		return fmt.Errorf("illegal move: %v", m)
	}

	e.s.Make(m)
	e.history = append(e.history, m)

	logw.Infof(ctx, "Move %v: hash=%x", m, e.s.Hash())
	return nil
}

// TakeBack undoes the latest move.
func (e *Engine) TakeBack(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.history) == 0 {
		return fmt.Errorf("no move to take back")
	}

	m := e.history[len(e.history)-1]
	e.history = e.history[:len(e.history)-1]
	e.s.Unmake(m)

	logw.Infof(ctx, "Takeback %v", m)
	return nil
}

// SetStopCondition sets the stop condition for subsequent searches.
func (e *Engine) SetStopCondition(ctx context.Context, c search.StopCondition) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Stop = c
	e.s.SetStopCondition(c)

	logw.Infof(ctx, "Stop condition: %v", c)
}

// CalculateMove searches the current position and returns the chosen move.
// It does not apply the move.
func (e *Engine) CalculateMove(ctx context.Context) (grid.Move, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	m := e.s.CalculateMove(ctx)
	logw.Infof(ctx, "Search %v: %v (%v)", e.s.Hash(), m, e.s.Stats())

	return grid.EncodeMove(m), nil
}
