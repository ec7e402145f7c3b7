// Package console implements an interactive console driver for debugging.
package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/herohde/halma/pkg/board/grid"
	"github.com/herohde/halma/pkg/engine"
	"github.com/herohde/halma/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

const ProtocolName = "console"

// Driver implements a console driver for debugging. Moves are entered as
// coordinate pairs, such as "6,4 6,5".
type Driver struct {
	iox.AsyncCloser

	e   *engine.Engine
	out chan<- string
}

func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		AsyncCloser: iox.NewAsyncCloser(),
		e:           e,
		out:         out,
	}
	go d.process(ctx, in)

	return d, out
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "Console protocol initialized")

	d.out <- fmt.Sprintf("engine %v (%v)", d.e.Name(), d.e.Author())
	d.printBoard()

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}

			parts := strings.Split(strings.TrimSpace(line), " ")
			if len(parts) == 0 {
				break
			}

			cmd := parts[0]
			args := parts[1:]

			switch strings.ToLower(cmd) {
			case "reset", "r":
				if err := d.e.Reset(ctx, grid.Initial()); err != nil {
					logw.Errorf(ctx, "Reset failed: %v", err)
					return
				}
				d.printBoard()

			case "undo", "u":
				_ = d.e.TakeBack(ctx)
				d.printBoard()

			case "print", "p":
				d.printBoard()

			case "depth", "d":
				if len(args) > 0 {
					depth, _ := strconv.Atoi(args[0])
					d.e.SetStopCondition(ctx, search.Depth(depth))
				}

			case "millis", "m":
				if len(args) > 0 {
					millis, _ := strconv.Atoi(args[0])
					d.e.SetStopCondition(ctx, search.Time(time.Duration(millis)*time.Millisecond))
				}

			case "analyze", "a":
				m, err := d.e.CalculateMove(ctx)
				if err != nil {
					logw.Errorf(ctx, "Analyze failed: %v", err)
					return
				}
				d.out <- fmt.Sprintf("bestmove %v,%v %v,%v", m.From[0], m.From[1], m.To[0], m.To[1])

			case "go", "g":
				m, err := d.e.CalculateMove(ctx)
				if err != nil {
					logw.Errorf(ctx, "Search failed: %v", err)
					return
				}
				if err := d.e.Move(ctx, m); err != nil {
					logw.Errorf(ctx, "Move failed: %v", err)
					return
				}
				d.out <- fmt.Sprintf("moved %v,%v %v,%v", m.From[0], m.From[1], m.To[0], m.To[1])
				d.printBoard()

			case "quit", "exit", "q":
				return

			case "":
				// ignore empty command

			default:
				// Assume coordinate move if not a recognized command.

				m, err := parseMove(parts)
				if err != nil {
					d.out <- fmt.Sprintf("invalid move: '%v'", line)
					break
				}
				if err := d.e.Move(ctx, m); err != nil {
					d.out <- fmt.Sprintf("invalid move: '%v': %v", line, err)
				} else {
					d.printBoard()
				}
			}

		case <-d.Closed():
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

// parseMove parses a move as two coordinate pairs, e.g. "6,4 6,5".
func parseMove(parts []string) (grid.Move, error) {
	if len(parts) != 2 {
		return grid.Move{}, fmt.Errorf("expected two positions")
	}

	from, err := parsePos(parts[0])
	if err != nil {
		return grid.Move{}, err
	}
	to, err := parsePos(parts[1])
	if err != nil {
		return grid.Move{}, err
	}
	return grid.Move{From: from, To: to}, nil
}

func parsePos(str string) ([2]int, error) {
	parts := strings.Split(str, ",")
	if len(parts) != 2 {
		return [2]int{}, fmt.Errorf("invalid position: '%v'", str)
	}

	x, err := strconv.Atoi(parts[0])
	if err != nil {
		return [2]int{}, err
	}
	y, err := strconv.Atoi(parts[1])
	if err != nil {
		return [2]int{}, err
	}
	return [2]int{x, y}, nil
}

func (d *Driver) printBoard() {
	g := d.e.State()

	d.out <- ""
	for y, row := range g.Board {
		var sb strings.Builder
		if y%2 == 0 {
			sb.WriteString(" ")
		}
		for _, r := range row {
			switch grid.Tile(r) {
			case grid.Invalid:
				sb.WriteString("  ")
			default:
				sb.WriteRune(r)
				sb.WriteString(" ")
			}
		}
		d.out <- sb.String()
	}
	d.out <- ""
	d.out <- fmt.Sprintf("ply: %v, player: %v", g.Ply, g.Player)
	d.out <- ""
}
