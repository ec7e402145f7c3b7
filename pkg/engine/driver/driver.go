// Package driver implements the line-based match protocol spoken by the
// tournament tooling: setup/move/millis/seconds/getmove/quit.
package driver

import (
	"context"
	"encoding/json"
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

const ProtocolName = "match"

// Driver implements the match protocol. Commands receive an "ok" reply,
// except getmove, which replies with the chosen move as JSON.
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

	logw.Infof(ctx, "Match protocol initialized")

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}

			parts := strings.SplitN(strings.TrimSpace(line), " ", 2)
			cmd := parts[0]
			arg := ""
			if len(parts) > 1 {
				arg = parts[1]
			}

			switch cmd {
			case "setup":
				var g grid.GameState
				if err := json.Unmarshal([]byte(arg), &g); err != nil {
					d.reject(ctx, line, err)
					break
				}
				if err := d.e.Reset(ctx, g); err != nil {
					d.reject(ctx, line, err)
					break
				}
				d.out <- "ok"

			case "move":
				var m grid.Move
				if err := json.Unmarshal([]byte(arg), &m); err != nil {
					d.reject(ctx, line, err)
					break
				}
				if err := d.e.Move(ctx, m); err != nil {
					d.reject(ctx, line, err)
					break
				}
				d.out <- "ok"

			case "millis", "seconds":
				n, err := strconv.Atoi(arg)
				if err != nil || n <= 0 {
					d.reject(ctx, line, fmt.Errorf("invalid duration: '%v'", arg))
					break
				}

				unit := time.Millisecond
				if cmd == "seconds" {
					unit = time.Second
				}
				d.e.SetStopCondition(ctx, search.Time(time.Duration(n)*unit))
				d.out <- "ok"

			case "depth":
				n, err := strconv.Atoi(arg)
				if err != nil || n <= 0 {
					d.reject(ctx, line, fmt.Errorf("invalid depth: '%v'", arg))
					break
				}
				d.e.SetStopCondition(ctx, search.Depth(n))
				d.out <- "ok"

			case "getmove":
				m, err := d.e.CalculateMove(ctx)
				if err != nil {
					d.reject(ctx, line, err)
					break
				}
				data, _ := json.Marshal(m)
				d.out <- string(data)

			case "quit":
				return

			case "":
				// ignore empty command

			default:
				d.reject(ctx, line, fmt.Errorf("unknown command"))
			}

		case <-d.Closed():
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

func (d *Driver) reject(ctx context.Context, line string, err error) {
	logw.Errorf(ctx, "Rejected '%v': %v", line, err)
	d.out <- fmt.Sprintf("error %v", err)
}
