// halma-match runs a round-robin tournament between engine binaries
// speaking the match protocol, and prints the standings after each round.
// Game records can optionally be archived in a sqlite database.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"time"

	"github.com/herohde/halma/pkg/board"
	"github.com/herohde/halma/pkg/board/grid"
	"github.com/seekerror/logw"

	_ "modernc.org/sqlite"
)

var (
	rounds   = flag.Int("rounds", 8, "Number of round-robin rounds")
	millis   = flag.Int("millis", 500, "Time budget per move in milliseconds")
	maxPlies = flag.Int("maxplies", 1000, "Adjudicate a draw after this many plies")
	dbPath   = flag.String("db", "", "Archive game records in the given sqlite database (optional)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: halma-match [options] name path [name path ...]

HALMA-MATCH plays engine binaries against each other.
Options:
`)
		flag.PrintDefaults()
	}
}

type outcome int8

const (
	draw outcome = iota
	win          // first engine of the pairing won
	loss
)

func main() {
	flag.Parse()
	ctx := context.Background()

	args := flag.Args()
	if len(args) < 4 || len(args)%2 != 0 {
		flag.Usage()
		logw.Exitf(ctx, "Expected at least two name/path engine pairs")
	}

	var engines []definition
	for i := 0; i < len(args); i += 2 {
		engines = append(engines, definition{name: args[i], path: args[i+1]})
	}

	var db *sql.DB
	if *dbPath != "" {
		var err error
		db, err = openArchive(*dbPath)
		if err != nil {
			logw.Exitf(ctx, "Failed to open archive: %v", err)
		}
		defer db.Close()
	}

	results := make([][][]outcome, *rounds)
	for round := 0; round < *rounds; round++ {
		results[round] = make([][]outcome, len(engines))
		for i := range engines {
			results[round][i] = make([]outcome, len(engines))
			for j := range engines {
				if i == j {
					continue
				}

				o, err := runSingle(ctx, db, engines[i], engines[j])
				if err != nil {
					logw.Exitf(ctx, "Game %v vs %v failed: %v", engines[i].name, engines[j].name, err)
				}
				results[round][i][j] = o
			}
		}

		if round+1 == *rounds {
			fmt.Println()
			fmt.Println("Tournament over.")
			fmt.Println("Final standings:")
		} else {
			fmt.Printf("Round %v over.\n", round+1)
			fmt.Println("Current standings:")
		}
		printStandings(engines, results[:round+1])
	}
}

type definition struct {
	name, path string
}

func (d definition) spawn(ctx context.Context) (*instance, error) {
	cmd := exec.Command(d.path)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	logw.Debugf(ctx, "Spawned %v: pid=%v", d.name, cmd.Process.Pid)
	return &instance{cmd: cmd, stdin: stdin, out: bufio.NewScanner(stdout)}, nil
}

// instance is a running engine subprocess on the match protocol.
type instance struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	out   *bufio.Scanner
}

func (e *instance) setup(g grid.GameState) error {
	data, _ := json.Marshal(g)
	return e.expectOK(fmt.Sprintf("setup %v", string(data)))
}

func (e *instance) move(m grid.Move) error {
	data, _ := json.Marshal(m)
	return e.expectOK(fmt.Sprintf("move %v", string(data)))
}

func (e *instance) millis(n int) error {
	return e.expectOK(fmt.Sprintf("millis %v", n))
}

func (e *instance) getmove() (grid.Move, error) {
	line, err := e.send("getmove")
	if err != nil {
		return grid.Move{}, err
	}

	var m grid.Move
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		return grid.Move{}, fmt.Errorf("invalid move '%v': %w", line, err)
	}
	return m, nil
}

func (e *instance) quit() {
	_, _ = fmt.Fprintln(e.stdin, "quit")
	_ = e.stdin.Close()
	_ = e.cmd.Wait()
}

func (e *instance) send(cmd string) (string, error) {
	if _, err := fmt.Fprintln(e.stdin, cmd); err != nil {
		return "", err
	}
	if !e.out.Scan() {
		return "", fmt.Errorf("no response to '%v'", cmd)
	}
	return e.out.Text(), nil
}

func (e *instance) expectOK(cmd string) error {
	line, err := e.send(cmd)
	if err != nil {
		return err
	}
	if line != "ok" {
		return fmt.Errorf("did not receive 'ok' for '%v': '%v'", cmd, line)
	}
	return nil
}

// runSingle plays a single game with a as player 0 and b as player 1.
func runSingle(ctx context.Context, db *sql.DB, a, b definition) (outcome, error) {
	started := time.Now()

	ai0, err := a.spawn(ctx)
	if err != nil {
		return draw, err
	}
	defer ai0.quit()

	ai1, err := b.spawn(ctx)
	if err != nil {
		return draw, err
	}
	defer ai1.quit()

	initial := grid.Initial()
	state, _ := grid.Decode(initial)

	for _, e := range []*instance{ai0, ai1} {
		if err := e.setup(initial); err != nil {
			return draw, err
		}
		if err := e.millis(*millis); err != nil {
			return draw, err
		}
	}

	result := draw
	plies := 0
	for plies < *maxPlies {
		cur := ai0
		if state.Turn() == board.South {
			cur = ai1
		}

		gm, err := cur.getmove()
		if err != nil {
			return draw, err
		}
		m, err := grid.DecodeMove(gm)
		if err != nil {
			return draw, err
		}
		if !state.Pieces(state.Turn()).IsSet(m.From) || !state.ReachableFrom(m.From).IsSet(m.To) {
			return draw, fmt.Errorf("illegal move %v by %v", m, state.Turn())
		}

		state.Make(m)
		plies++

		for _, e := range []*instance{ai0, ai1} {
			if err := e.move(gm); err != nil {
				return draw, err
			}
		}

		if state.Won(board.North) {
			result = win
			break
		}
		if state.Won(board.South) {
			result = loss
			break
		}
	}

	logw.Infof(ctx, "Game %v vs %v: %v after %v plies", a.name, b.name, result, plies)

	if db != nil {
		if err := saveGame(db, a.name, b.name, started, plies, result); err != nil {
			logw.Errorf(ctx, "Failed to archive game: %v", err)
		}
	}
	return result, nil
}

func (o outcome) String() string {
	switch o {
	case win:
		return "0-won"
	case loss:
		return "1-won"
	default:
		return "draw"
	}
}

func printStandings(engines []definition, results [][][]outcome) {
	type standing struct {
		name                string
		wins, losses, draws int
	}

	standings := make([]standing, len(engines))
	for i, e := range engines {
		standings[i].name = e.name
		for _, round := range results {
			for j := range engines {
				if i == j {
					continue
				}

				switch round[i][j] {
				case win:
					standings[i].wins++
				case loss:
					standings[i].losses++
				case draw:
					standings[i].draws++
				}
				switch round[j][i] {
				case win:
					standings[i].losses++
				case loss:
					standings[i].wins++
				case draw:
					standings[i].draws++
				}
			}
		}
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].wins-standings[i].losses > standings[j].wins-standings[j].losses
	})

	width := 6
	for _, s := range standings {
		if len(s.name) > width {
			width = len(s.name)
		}
	}

	fmt.Printf("%*v | Wins | Losses | Draws\n", width, "Engine")
	for _, s := range standings {
		fmt.Printf("%*v | %4v | %6v | %5v\n", width, s.name, s.wins, s.losses, s.draws)
	}
}

func openArchive(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS games (
		started_at DATETIME,
		ended_at DATETIME,
		player0_name TEXT,
		player1_name TEXT,
		plies INTEGER,
		outcome TEXT
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func saveGame(db *sql.DB, p0, p1 string, started time.Time, plies int, o outcome) error {
	_, err := db.Exec(
		`INSERT INTO games (started_at, ended_at, player0_name, player1_name, plies, outcome) VALUES (?, ?, ?, ?, ?, ?)`,
		started, time.Now(), p0, p1, plies, o.String(),
	)
	return err
}
