package game

import (
	"bufio"
	"fmt"
	"io"
)

const (
	runeCovered = '#'
	runeFlag    = '^'
	runeMine    = '*'
	runeCursor  = 'X'

	helpText = "w/a/s/d move, r reveal, f flag, n new game, q quit"
)

var numRunes = [9]rune{' ', '1', '2', '3', '4', '5', '6', '7', '8'}

func tileRune(board *Board, idx int) rune {
	switch board.tileState(idx) {
	case Covered:
		return runeCovered
	case Flag:
		return runeFlag
	case Mine:
		return runeMine
	default:
		return numRunes[board.adjacent[idx]]
	}
}

// Render draws the board inside a border, followed by a status footer. The
// cursor is drawn only while the game is still being played.
func Render(w io.Writer, board *Board, cursor Point) error {
	out := bufio.NewWriter(w)
	showCursor := !board.IsGameOver() && board.contains(cursor)

	border := func() {
		out.WriteByte('+')
		for x := 0; x < board.Width(); x++ {
			out.WriteByte('-')
		}
		out.WriteString("+\n")
	}

	border()
	for y := 0; y < board.Height(); y++ {
		out.WriteByte('|')
		for x := 0; x < board.Width(); x++ {
			if showCursor && cursor.X == x && cursor.Y == y {
				out.WriteRune(runeCursor)
				continue
			}
			out.WriteRune(tileRune(board, y*board.Width()+x))
		}
		out.WriteString("|\n")
	}
	border()

	fmt.Fprintln(out, footer(board))
	return out.Flush()
}

func footer(board *Board) string {
	remaining := board.MineCount() - board.FlagCount()
	status := fmt.Sprintf("Time: %d  Mines: %d", int(board.Elapsed().Seconds()), remaining)

	switch board.State() {
	case NotStarted:
		return helpText
	case Won:
		return status + "  WIN!"
	case Lost:
		return status + "  LOSE :("
	default:
		return status + "  " + helpText
	}
}
