package game

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Game is one play session: the current board, the cursor and everything
// needed to start over with the same difficulty
type Game struct {
	config     GameConfig
	difficulty Difficulty
	rand       *rand.Rand

	board  *Board
	cursor Point
}

func NewGame(config GameConfig) (*Game, error) {
	difficulty, err := config.Difficulty()
	if err != nil && config.Layout == "" {
		return nil, err
	}

	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	g := &Game{
		config:     config,
		difficulty: difficulty,
		rand:       NewRand(seed),
	}
	if err := g.Reset(); err != nil {
		return nil, err
	}

	Log.WithFields(logrus.Fields{
		"difficulty": g.board.Difficulty().String(),
		"seed":       seed,
	}).Info("new game")
	return g, nil
}

func (g *Game) Board() *Board {
	return g.board
}

func (g *Game) Cursor() Point {
	return g.cursor
}

// Reset abandons the current board for a new one with the same difficulty.
// Random boards get a new mine layout; fixed layouts start over.
func (g *Game) Reset() error {
	board, err := g.config.createBoard(g.difficulty, g.rand)
	if err != nil {
		return err
	}
	g.board = board
	g.clampCursor()

	if g.config.Director != nil {
		g.config.Director.Init(board)
	}
	return nil
}

// MoveCursor shifts the cursor, keeping it on the board
func (g *Game) MoveCursor(dx, dy int) {
	g.cursor.X += dx
	g.cursor.Y += dy
	g.clampCursor()
}

// SetCursor places the cursor on p, failing with ErrOutOfBounds when p is
// off the board
func (g *Game) SetCursor(p Point) error {
	if _, err := g.board.index(p); err != nil {
		return err
	}
	g.cursor = p
	return nil
}

func (g *Game) clampCursor() {
	g.cursor.X = min(max(g.cursor.X, 0), g.board.Width()-1)
	g.cursor.Y = min(max(g.cursor.Y, 0), g.board.Height()-1)
}

func (g *Game) ToggleFlag() error {
	return g.board.ToggleFlag(g.cursor)
}

func (g *Game) Reveal() error {
	return g.board.Reveal(g.cursor)
}

// Step lets the configured director make one move
func (g *Game) Step() bool {
	if g.config.Director == nil {
		return false
	}
	return g.config.Director.Act()
}

var errQuit = errors.New("quit")

var moves = map[string]Point{
	"w": {0, -1}, "k": {0, -1}, "up": {0, -1},
	"s": {0, 1}, "j": {0, 1}, "down": {0, 1},
	"a": {-1, 0}, "h": {-1, 0}, "left": {-1, 0},
	"d": {1, 0}, "l": {1, 0}, "right": {1, 0},
}

// Exec applies one line of input to the game
func (g *Game) Exec(line string) error {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return nil
	}
	command, args := fields[0], fields[1:]

	if delta, ok := moves[command]; ok {
		g.MoveCursor(delta.X, delta.Y)
		return nil
	}

	switch command {
	case "r", "reveal", "f", "flag":
		if len(args) > 0 {
			p, err := parsePoint(args)
			if err != nil {
				return err
			}
			if err := g.SetCursor(p); err != nil {
				return err
			}
		}
		if command[0] == 'r' {
			return g.Reveal()
		}
		return g.ToggleFlag()
	case "p", "play":
		if !g.Step() {
			return fmt.Errorf("no director move available")
		}
		return nil
	case "n", "new":
		return g.Reset()
	case "q", "quit":
		return errQuit
	}
	return fmt.Errorf("unknown command %q", command)
}

func parsePoint(args []string) (Point, error) {
	if len(args) != 2 {
		return Point{}, fmt.Errorf("expected x and y, got %q", strings.Join(args, " "))
	}
	x, err := strconv.Atoi(args[0])
	if err != nil {
		return Point{}, fmt.Errorf("invalid x: %w", err)
	}
	y, err := strconv.Atoi(args[1])
	if err != nil {
		return Point{}, fmt.Errorf("invalid y: %w", err)
	}
	return Point{X: x, Y: y}, nil
}

// autoplay lets the director act until it runs out of moves, drawing the
// board after each one
func (g *Game) autoplay(out io.Writer) error {
	for !g.board.IsGameOver() && g.Step() {
		if err := Render(out, g.board, g.cursor); err != nil {
			return err
		}
		time.Sleep(g.config.DirectorDelay)
	}
	return nil
}

// Run plays a session, reading one command per line from in and drawing the
// board to out after each. It returns when in is exhausted or on quit.
func Run(config GameConfig, in io.Reader, out io.Writer) error {
	g, err := NewGame(config)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for {
		if config.Director != nil {
			if err := g.autoplay(out); err != nil {
				return err
			}
		}
		if err := Render(out, g.board, g.cursor); err != nil {
			return err
		}

		if !scanner.Scan() {
			return scanner.Err()
		}

		err := g.Exec(scanner.Text())
		switch {
		case errors.Is(err, errQuit):
			return nil
		case errors.Is(err, ErrOutOfBounds):
			Log.WithError(err).Warn("move outside the board")
			fmt.Fprintln(out, err)
		case err != nil:
			fmt.Fprintln(out, err)
		}
	}
}
