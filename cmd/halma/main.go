package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/herohde/halma/pkg/engine"
	"github.com/herohde/halma/pkg/engine/console"
	"github.com/herohde/halma/pkg/engine/driver"
	"github.com/herohde/halma/pkg/search"
)

var (
	interactive = flag.Bool("console", false, "Interactive console instead of the match protocol")
	hash        = flag.Uint("hash", 20, "Transposition table size as log2 of the entry count")
	millis      = flag.Int("millis", 1000, "Default time budget per move in milliseconds")
	seed        = flag.Int64("seed", 0, "Zobrist table seed")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: halma [options]

HALMA is a Chinese-Checkers engine speaking a line-based match protocol.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	e := engine.New(ctx, "halma", "herohde",
		engine.WithTableBits(*hash),
		engine.WithZobristSeed(*seed),
		engine.WithStopCondition(search.Time(time.Duration(*millis)*time.Millisecond)),
	)

	in := engine.ReadStdinLines(ctx)

	if *interactive {
		d, out := console.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-d.Closed()
		return
	}

	d, out := driver.NewDriver(ctx, e, in)
	go engine.WriteStdoutLines(ctx, out)

	<-d.Closed()
}
