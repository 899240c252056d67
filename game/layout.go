package game

import (
	"fmt"
	"strings"
)

const (
	layoutMine = '*'
	layoutSafe = '.'
)

// ParseLayout builds a covered board with a fixed mine layout. Each non-blank
// line is one row; '*' marks a mine and '.' a safe tile.
func ParseLayout(in string) (*Board, error) {
	var rows []string
	for _, line := range strings.Split(in, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			rows = append(rows, line)
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty layout", ErrInvalidConfiguration)
	}

	width := len(rows[0])
	var mineIndexes []int
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: layout row %d has %d tiles, expected %d",
				ErrInvalidConfiguration, y, len(row), width)
		}
		for x, c := range []byte(row) {
			switch c {
			case layoutMine:
				mineIndexes = append(mineIndexes, y*width+x)
			case layoutSafe:
			default:
				return nil, fmt.Errorf("%w: unexpected %q at (%d, %d) in layout",
					ErrInvalidConfiguration, c, x, y)
			}
		}
	}

	difficulty, err := NewDifficulty(width, len(rows), len(mineIndexes))
	if err != nil {
		return nil, err
	}
	return createBoard(difficulty, mineIndexes), nil
}

// Layout renders the board's mine layout in the format read by ParseLayout
func (board *Board) Layout() string {
	var b strings.Builder
	for y := 0; y < board.Height(); y++ {
		for x := 0; x < board.Width(); x++ {
			if board.mines.Contains(y*board.Width() + x) {
				b.WriteByte(layoutMine)
			} else {
				b.WriteByte(layoutSafe)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
