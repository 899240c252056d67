package game

import (
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/they4kman/cursesweep/util/collections"
)

var Log = logrus.New()

// Board owns the complete state of one round. It is not safe for concurrent
// use; the session loop is its only owner.
type Board struct {
	difficulty Difficulty

	covered    []bool
	numCovered int
	mines      collections.Set[int]
	flags      collections.Set[int]
	adjacent   []int // mines among each tile's neighbours

	state                 BoardState
	startTime, finishTime time.Time
	now                   func() time.Time
}

// NewRand returns a deterministic random source for the given seed
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewBoard places the difficulty's mines at random and returns a fresh,
// fully covered board. A nil rng is replaced by a time-seeded source.
//
// The first revealed tile is not guaranteed to be safe.
func NewBoard(difficulty Difficulty, rng *rand.Rand) (*Board, error) {
	if err := difficulty.validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewRand(uint64(time.Now().UnixNano()))
	}

	board := createBoard(difficulty, placeMines(difficulty.TileCount(), difficulty.MineCount(), rng))
	Log.WithFields(logrus.Fields{
		"difficulty": difficulty.String(),
	}).Debug("created board")
	return board, nil
}

// placeMines draws numMines distinct tile indexes with a partial
// Fisher-Yates shuffle
func placeMines(numTiles, numMines int, rng *rand.Rand) []int {
	cellIndexes := make([]int, numTiles)
	for i := range cellIndexes {
		cellIndexes[i] = i
	}
	for i := 0; i < numMines; i++ {
		j := i + rng.IntN(numTiles-i)
		cellIndexes[i], cellIndexes[j] = cellIndexes[j], cellIndexes[i]
	}
	return cellIndexes[:numMines]
}

// createBoard expects mineIndexes to hold difficulty.MineCount() distinct
// in-range indexes
func createBoard(difficulty Difficulty, mineIndexes []int) *Board {
	numTiles := difficulty.TileCount()
	board := &Board{
		difficulty: difficulty,
		covered:    make([]bool, numTiles),
		numCovered: numTiles,
		mines:      collections.NewSet(mineIndexes...),
		flags:      make(collections.Set[int]),
		adjacent:   make([]int, numTiles),
		state:      NotStarted,
		now:        time.Now,
	}
	for i := range board.covered {
		board.covered[i] = true
	}

	var buf [8]int
	for mine := range board.mines {
		for _, neighbor := range board.neighbors(mine, buf[:0]) {
			board.adjacent[neighbor]++
		}
	}
	return board
}

func (board *Board) Difficulty() Difficulty {
	return board.difficulty
}

func (board *Board) Width() int {
	return board.difficulty.Width()
}

func (board *Board) Height() int {
	return board.difficulty.Height()
}

func (board *Board) MineCount() int {
	return board.difficulty.MineCount()
}

func (board *Board) FlagCount() int {
	return board.flags.Len()
}

// CoveredCount returns the number of tiles still hidden, flagged ones included
func (board *Board) CoveredCount() int {
	return board.numCovered
}

func (board *Board) State() BoardState {
	return board.state
}

func (board *Board) Started() bool {
	return board.state != NotStarted
}

func (board *Board) Won() bool {
	return board.state == Won
}

func (board *Board) Lost() bool {
	return board.state == Lost
}

func (board *Board) IsGameOver() bool {
	return board.state.Terminal()
}

// StartTime is the instant of the first uncover, or the zero time
func (board *Board) StartTime() time.Time {
	return board.startTime
}

// FinishTime is the instant the game was won or lost, or the zero time
func (board *Board) FinishTime() time.Time {
	return board.finishTime
}

func (board *Board) Elapsed() time.Duration {
	switch {
	case !board.Started():
		return 0
	case board.IsGameOver():
		return board.finishTime.Sub(board.startTime)
	default:
		return board.now().Sub(board.startTime)
	}
}

func (board *Board) TileState(p Point) (TileState, error) {
	idx, err := board.index(p)
	if err != nil {
		return Covered, err
	}
	return board.tileState(idx), nil
}

func (board *Board) tileState(idx int) TileState {
	switch {
	case board.flags.Contains(idx):
		return Flag
	case board.covered[idx]:
		return Covered
	case board.mines.Contains(idx):
		return Mine
	default:
		return Empty
	}
}

func (board *Board) AdjacentCount(p Point) (int, error) {
	idx, err := board.index(p)
	if err != nil {
		return 0, err
	}
	return board.adjacent[idx], nil
}

func (board *Board) AdjacentFlagCount(p Point) (int, error) {
	idx, err := board.index(p)
	if err != nil {
		return 0, err
	}
	return board.adjacentFlags(idx), nil
}

func (board *Board) adjacentFlags(idx int) int {
	var buf [8]int
	count := 0
	for _, neighbor := range board.neighbors(idx, buf[:0]) {
		if board.flags.Contains(neighbor) {
			count++
		}
	}
	return count
}

// ToggleFlag flags or unflags a covered tile. The number of flags is capped
// at the mine count; flagging past the cap, flagging an uncovered tile and
// flagging after the game ended are ignored.
func (board *Board) ToggleFlag(p Point) error {
	idx, err := board.index(p)
	if err != nil {
		return err
	}
	if board.IsGameOver() || !board.covered[idx] {
		return nil
	}

	if board.flags.Contains(idx) {
		board.flags.Remove(idx)
	} else if board.flags.Len() < board.MineCount() {
		board.flags.Add(idx)
	}
	return nil
}

// Reveal uncovers the tile at p. Revealing an uncovered tile whose adjacent
// flags account for all of its adjacent mines reveals the rest of its
// neighbours instead. Flagged tiles and finished games are left unchanged.
func (board *Board) Reveal(p Point) error {
	idx, err := board.index(p)
	if err != nil {
		return err
	}
	if board.IsGameOver() {
		return nil
	}

	if !board.covered[idx] {
		board.chord(idx)
	} else {
		board.uncover(idx)
	}
	return nil
}

func (board *Board) chord(idx int) {
	var buf [8]int
	neighbors := board.neighbors(idx, buf[:0])
	if board.adjacent[idx] > board.adjacentFlags(idx) {
		return
	}

	for _, neighbor := range neighbors {
		if board.IsGameOver() {
			return
		}
		// an earlier neighbour's cascade may already have opened this one
		if board.covered[neighbor] {
			board.uncover(neighbor)
		}
	}
}

// uncover opens a single covered tile, cascades through empty regions and
// settles the outcome of the move
func (board *Board) uncover(idx int) {
	if board.flags.Contains(idx) {
		return
	}

	board.markUncovered(idx)
	if board.state == NotStarted {
		board.startGame()
	}

	if board.mines.Contains(idx) {
		board.lose()
		return
	}

	if board.adjacent[idx] == 0 {
		board.cascadeEmpty(idx)
	}

	if board.numCovered == board.MineCount() {
		board.win()
	}
}

func (board *Board) cascadeEmpty(idx int) {
	var buf [8]int
	for _, zero := range board.zeroRegion(idx) {
		for _, neighbor := range board.neighbors(zero, buf[:0]) {
			if board.covered[neighbor] && !board.flags.Contains(neighbor) {
				board.markUncovered(neighbor)
			}
		}
	}
}

func (board *Board) markUncovered(idx int) {
	if board.covered[idx] {
		board.covered[idx] = false
		board.numCovered--
	}
}

// transition moves the board along NotStarted -> InProgress -> {Won, Lost}
// and reports whether the move was allowed
func (board *Board) transition(to BoardState) bool {
	if !board.state.canTransition(to) {
		Log.WithFields(logrus.Fields{
			"from": board.state.String(),
			"to":   to.String(),
		}).Warn("rejected board state transition")
		return false
	}
	board.state = to
	return true
}

func (board *Board) startGame() {
	if board.transition(InProgress) {
		board.startTime = board.now()
	}
}

func (board *Board) lose() {
	if !board.transition(Lost) {
		return
	}
	board.finishTime = board.now()

	for mine := range board.mines {
		board.markUncovered(mine)
	}
	board.logGameEnd()
}

func (board *Board) win() {
	if !board.transition(Won) {
		return
	}
	board.finishTime = board.now()

	for mine := range board.mines {
		board.flags.Add(mine)
	}
	board.logGameEnd()
}

func (board *Board) logGameEnd() {
	Log.WithFields(logrus.Fields{
		"difficulty": board.difficulty.String(),
		"state":      board.state.String(),
		"elapsed":    board.Elapsed().String(),
		"mines":      collections.Sorted(board.mines),
	}).Debug("game ended")
}
