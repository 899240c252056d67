package constraint

import (
	"math"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
	"github.com/they4kman/cursesweep/director/random"
	"github.com/they4kman/cursesweep/game"
)

// Director plays the moves that follow directly from a single numbered
// tile:
//
//   - if a tile's covered neighbours exactly account for its unflagged mines,
//     they are all flagged;
//   - if a tile's flags account for all of its mines, it is chorded.
//
// When none are left it reveals the frontier tile least likely to be a mine,
// and guesses at random when there is no frontier.
type Director struct {
	Rand *rand.Rand

	board    *game.Board
	fallback random.Director
}

// Observation is what one uncovered tile tells about its neighbourhood
type Observation struct {
	Origin   game.Point
	NumMines int
	Flagged  int
	Covered  []game.Point
}

// Unresolved is the number of mines among Covered
func (observation Observation) Unresolved() int {
	return observation.NumMines - observation.Flagged
}

func (observation Observation) MineProbability() float64 {
	return float64(observation.Unresolved()) / float64(len(observation.Covered))
}

func (director *Director) Init(board *game.Board) {
	director.board = board
	director.fallback = random.Director{Rand: director.Rand}
	director.fallback.Init(board)
}

func (director *Director) Act() bool {
	if director.board == nil || director.board.IsGameOver() {
		return false
	}

	if director.actDeliberate() {
		return true
	}
	if director.actLowestProbability() {
		return true
	}
	game.Log.Debug("no frontier, guessing")
	return director.fallback.Act()
}

func (director *Director) actLowestProbability() bool {
	candidates := LowestProbability(director.Observations())
	if len(candidates) == 0 {
		return false
	}

	target := candidates[director.fallback.Rand.IntN(len(candidates))]
	game.Log.WithFields(logrus.Fields{
		"tile":       target.String(),
		"candidates": len(candidates),
	}).Debug("revealing least likely mine")
	director.must(director.board.Reveal(target), target)
	return true
}

// LowestProbability returns the covered tiles with the lowest mine
// probability among the observations, in the order they were first seen. A
// tile seen by several observations takes the lowest of their probabilities.
// Tiles that are certainly mines are never returned.
func LowestProbability(observations []Observation) []game.Point {
	lowest := math.Inf(1)
	var order []game.Point
	probabilities := make(map[game.Point]float64)

	for _, observation := range observations {
		probability := observation.MineProbability()
		for _, p := range observation.Covered {
			past, seen := probabilities[p]
			if !seen {
				order = append(order, p)
			}
			if !seen || probability < past {
				probabilities[p] = probability
			}
			lowest = min(lowest, probability)
		}
	}
	if lowest >= 1 {
		return nil
	}

	var candidates []game.Point
	for _, p := range order {
		if probabilities[p] == lowest {
			candidates = append(candidates, p)
		}
	}
	return candidates
}

func (director *Director) actDeliberate() bool {
	for _, observation := range director.Observations() {
		switch {
		case observation.Unresolved() == len(observation.Covered):
			// flags are capped at the mine count, so misplaced flags can
			// leave this move without effect
			before := director.board.FlagCount()
			for _, p := range observation.Covered {
				director.must(director.board.ToggleFlag(p), p)
			}
			if director.board.FlagCount() != before {
				return true
			}
		case observation.Unresolved() == 0:
			director.must(director.board.Reveal(observation.Origin), observation.Origin)
			return true
		}
	}
	return false
}

// Observations collects every uncovered numbered tile that still borders
// covered, unflagged tiles
func (director *Director) Observations() []Observation {
	board := director.board
	var observations []Observation

	for y := 0; y < board.Height(); y++ {
		for x := 0; x < board.Width(); x++ {
			origin := game.Point{X: x, Y: y}
			if state, _ := board.TileState(origin); state != game.Empty {
				continue
			}
			numMines, _ := board.AdjacentCount(origin)
			if numMines == 0 {
				continue
			}

			observation := Observation{Origin: origin, NumMines: numMines}
			neighbors, _ := board.Neighbors(origin)
			for _, neighbor := range neighbors {
				switch state, _ := board.TileState(neighbor); state {
				case game.Flag:
					observation.Flagged++
				case game.Covered:
					observation.Covered = append(observation.Covered, neighbor)
				}
			}
			if len(observation.Covered) > 0 {
				observations = append(observations, observation)
			}
		}
	}
	return observations
}

func (director *Director) must(err error, p game.Point) {
	if err != nil {
		game.Log.WithFields(logrus.Fields{"tile": p.String()}).WithError(err).Error("constraint director move failed")
	}
}
