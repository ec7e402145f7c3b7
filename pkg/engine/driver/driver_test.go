package driver_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/herohde/halma/pkg/board"
	"github.com/herohde/halma/pkg/board/grid"
	"github.com/herohde/halma/pkg/engine"
	"github.com/herohde/halma/pkg/engine/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriver(t *testing.T) {
	ctx := context.Background()

	e := engine.New(ctx, "halma", "test", engine.WithTableBits(12))

	in := make(chan string, 10)
	d, out := driver.NewDriver(ctx, e, in)

	setup, err := json.Marshal(grid.Initial())
	require.NoError(t, err)
	in <- "setup " + string(setup)
	assert.Equal(t, <-out, "ok")

	move, err := json.Marshal(grid.Move{From: [2]int{4, 4}, To: [2]int{4, 5}})
	require.NoError(t, err)
	in <- "move " + string(move)
	assert.Equal(t, <-out, "ok")

	in <- "millis 100"
	assert.Equal(t, <-out, "ok")

	in <- "depth 2"
	assert.Equal(t, <-out, "ok")

	in <- "getmove"
	var reply grid.Move
	require.NoError(t, json.Unmarshal([]byte(<-out), &reply))

	m, err := grid.DecodeMove(reply)
	require.NoError(t, err)

	// The reply is a legal move for the side to move (South, after the
	// applied opening move), and is not applied by getmove itself.

	s, err := grid.Decode(e.State())
	require.NoError(t, err)
	assert.Equal(t, s.Turn(), board.South)
	assert.Equal(t, s.Ply(), 1)
	assert.True(t, s.Pieces(s.Turn()).IsSet(m.From))
	assert.True(t, s.ReachableFrom(m.From).IsSet(m.To))

	in <- "quit"
	<-d.Closed()

	_, ok := <-out
	assert.False(t, ok)
}

func TestDriverRejects(t *testing.T) {
	ctx := context.Background()

	e := engine.New(ctx, "halma", "test", engine.WithTableBits(12))

	in := make(chan string, 10)
	d, out := driver.NewDriver(ctx, e, in)

	in <- "setup {"
	assert.Contains(t, <-out, "error")

	move, _ := json.Marshal(grid.Move{From: [2]int{6, 8}, To: [2]int{6, 9}}) // no piece there
	in <- "move " + string(move)
	assert.Contains(t, <-out, "error")

	in <- "millis nope"
	assert.Contains(t, <-out, "error")

	in <- "bogus"
	assert.Contains(t, <-out, "error")

	in <- "quit"
	<-d.Closed()
}
