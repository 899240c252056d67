package random

import (
	"math/rand/v2"

	"github.com/they4kman/cursesweep/game"
)

// Director reveals a random covered, unflagged tile on every act
type Director struct {
	Rand *rand.Rand

	board *game.Board
}

func (director *Director) Init(board *game.Board) {
	director.board = board
	if director.Rand == nil {
		director.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
}

func (director *Director) Act() bool {
	if director.board == nil || director.board.IsGameOver() {
		return false
	}

	candidates := CoveredTiles(director.board)
	if len(candidates) == 0 {
		return false
	}

	target := candidates[director.Rand.IntN(len(candidates))]
	if err := director.board.Reveal(target); err != nil {
		game.Log.WithError(err).Error("random director failed to reveal")
		return false
	}
	return true
}

// CoveredTiles lists the positions still covered and not flagged, in
// row-major order
func CoveredTiles(board *game.Board) []game.Point {
	var tiles []game.Point
	for y := 0; y < board.Height(); y++ {
		for x := 0; x < board.Width(); x++ {
			p := game.Point{X: x, Y: y}
			if state, _ := board.TileState(p); state == game.Covered {
				tiles = append(tiles, p)
			}
		}
	}
	return tiles
}
