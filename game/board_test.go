package game

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	m.Run()
}

func mustLayout(t *testing.T, layout string) *Board {
	t.Helper()
	board, err := ParseLayout(layout)
	require.NoError(t, err)
	return board
}

func tileStates(board *Board) []TileState {
	states := make([]TileState, board.Width()*board.Height())
	for i := range states {
		states[i] = board.tileState(i)
	}
	return states
}

func stateAt(t *testing.T, board *Board, x, y int) TileState {
	t.Helper()
	state, err := board.TileState(Point{X: x, Y: y})
	require.NoError(t, err)
	return state
}

func TestNewBoardPlacesMines(t *testing.T) {
	tests := []struct {
		name                    string
		width, height, numMines int
	}{
		{"beginner", 9, 9, 10},
		{"intermediate", 16, 16, 40},
		{"expert", 30, 16, 99},
		{"single row", 10, 1, 3},
		{"nearly full", 4, 4, 15},
		{"one mine", 2, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			difficulty, err := NewDifficulty(tt.width, tt.height, tt.numMines)
			require.NoError(t, err)

			for seed := uint64(1); seed <= 20; seed++ {
				board, err := NewBoard(difficulty, NewRand(seed))
				require.NoError(t, err)

				assert.Equal(t, tt.numMines, board.mines.Len())
				for mine := range board.mines {
					assert.True(t, mine >= 0 && mine < difficulty.TileCount(), "mine %d out of range", mine)
				}

				// brute-force recount
				for y := 0; y < tt.height; y++ {
					for x := 0; x < tt.width; x++ {
						expected := 0
						for dy := -1; dy <= 1; dy++ {
							for dx := -1; dx <= 1; dx++ {
								nx, ny := x+dx, y+dy
								if (dx != 0 || dy != 0) && nx >= 0 && ny >= 0 && nx < tt.width && ny < tt.height &&
									board.mines.Contains(ny*tt.width+nx) {
									expected++
								}
							}
						}
						count, err := board.AdjacentCount(Point{X: x, Y: y})
						require.NoError(t, err)
						assert.Equal(t, expected, count, "adjacency at (%d, %d)", x, y)
					}
				}

				assert.Equal(t, NotStarted, board.State())
				assert.Equal(t, difficulty.TileCount(), board.CoveredCount())
				assert.Zero(t, board.FlagCount())
				for _, state := range tileStates(board) {
					assert.Equal(t, Covered, state)
				}
			}
		})
	}
}

func TestNewBoardSeedIsReproducible(t *testing.T) {
	difficulty, err := PresetDifficulty("expert")
	require.NoError(t, err)

	a, err := NewBoard(difficulty, NewRand(7))
	require.NoError(t, err)
	b, err := NewBoard(difficulty, NewRand(7))
	require.NoError(t, err)
	assert.Equal(t, a.Layout(), b.Layout())

	board, err := NewBoard(difficulty, nil)
	require.NoError(t, err)
	assert.Equal(t, 99, board.mines.Len())
}

func TestNewBoardRejectsZeroDifficulty(t *testing.T) {
	_, err := NewBoard(Difficulty{}, NewRand(1))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestOutOfBounds(t *testing.T) {
	board := mustLayout(t, `
		*..
		...
	`)

	for _, p := range []Point{{-1, 0}, {0, -1}, {3, 0}, {0, 2}, {3, 2}} {
		t.Run(p.String(), func(t *testing.T) {
			_, err := board.TileState(p)
			assert.ErrorIs(t, err, ErrOutOfBounds)
			_, err = board.AdjacentCount(p)
			assert.ErrorIs(t, err, ErrOutOfBounds)
			_, err = board.AdjacentFlagCount(p)
			assert.ErrorIs(t, err, ErrOutOfBounds)
			_, err = board.Neighbors(p)
			assert.ErrorIs(t, err, ErrOutOfBounds)
			assert.ErrorIs(t, board.ToggleFlag(p), ErrOutOfBounds)
			assert.ErrorIs(t, board.Reveal(p), ErrOutOfBounds)
		})
	}

	assert.Equal(t, NotStarted, board.State())
	assert.Equal(t, 6, board.CoveredCount())
}

func TestRevealFloodWinsSmallBoard(t *testing.T) {
	board := mustLayout(t, `
		...
		...
		..*
	`)

	require.NoError(t, board.Reveal(Point{0, 0}))

	states := tileStates(board)
	for i := 0; i < 8; i++ {
		assert.Equal(t, Empty, states[i], "tile %d", i)
	}
	assert.Equal(t, Flag, states[8])
	assert.True(t, board.Won())
	assert.False(t, board.Lost())
	assert.True(t, board.IsGameOver())
	assert.Equal(t, 1, board.CoveredCount())
	assert.Equal(t, 1, board.FlagCount())
}

func TestChordedReveal(t *testing.T) {
	board := mustLayout(t, `
		*.*.
		....
		....
	`)
	origin := Point{1, 0}

	require.NoError(t, board.Reveal(origin))
	count, _ := board.AdjacentCount(origin)
	require.Equal(t, 2, count)
	require.Equal(t, 11, board.CoveredCount())

	// one flag does not satisfy the tile
	require.NoError(t, board.ToggleFlag(Point{0, 0}))
	flags, _ := board.AdjacentFlagCount(origin)
	assert.Equal(t, 1, flags)
	before := tileStates(board)
	require.NoError(t, board.Reveal(origin))
	assert.Equal(t, before, tileStates(board))

	require.NoError(t, board.ToggleFlag(Point{2, 0}))
	require.NoError(t, board.Reveal(origin))

	assert.Equal(t, Empty, stateAt(t, board, 0, 1))
	assert.Equal(t, Empty, stateAt(t, board, 1, 1))
	assert.Equal(t, Empty, stateAt(t, board, 2, 1))
	assert.Equal(t, Covered, stateAt(t, board, 3, 0))
	assert.Equal(t, Covered, stateAt(t, board, 0, 2))
	assert.Equal(t, Flag, stateAt(t, board, 0, 0))
	assert.Equal(t, Flag, stateAt(t, board, 2, 0))
	assert.Equal(t, InProgress, board.State())
	assert.Equal(t, 8, board.CoveredCount())
}

func TestChordedRevealOnMisplacedFlagLoses(t *testing.T) {
	board := mustLayout(t, `
		*.*.
		....
		....
	`)
	origin := Point{1, 0}

	require.NoError(t, board.Reveal(origin))
	require.NoError(t, board.ToggleFlag(Point{0, 1}))
	require.NoError(t, board.ToggleFlag(Point{1, 1}))
	require.NoError(t, board.Reveal(origin))

	assert.True(t, board.Lost())
	assert.Equal(t, Mine, stateAt(t, board, 0, 0))
	assert.Equal(t, Mine, stateAt(t, board, 2, 0))
	// wrong flags keep reporting as flags
	assert.Equal(t, Flag, stateAt(t, board, 0, 1))
	assert.Equal(t, Flag, stateAt(t, board, 1, 1))
}

func TestChordOnZeroTileRevealsRemainingNeighbors(t *testing.T) {
	board := mustLayout(t, `
		....*
		....*
	`)

	// flags across the whole column stay closed, but the opening flows past them
	require.NoError(t, board.ToggleFlag(Point{1, 0}))
	require.NoError(t, board.ToggleFlag(Point{1, 1}))
	require.NoError(t, board.Reveal(Point{0, 0}))
	assert.Equal(t, Flag, stateAt(t, board, 1, 0))
	assert.Equal(t, Flag, stateAt(t, board, 1, 1))
	assert.Equal(t, Empty, stateAt(t, board, 2, 1))
	assert.Equal(t, Empty, stateAt(t, board, 3, 0))
	assert.Equal(t, 4, board.CoveredCount())
	assert.Equal(t, InProgress, board.State())

	require.NoError(t, board.ToggleFlag(Point{1, 0}))
	require.NoError(t, board.ToggleFlag(Point{1, 1}))
	require.NoError(t, board.Reveal(Point{0, 0}))
	assert.Equal(t, Empty, stateAt(t, board, 1, 0))
	assert.Equal(t, Empty, stateAt(t, board, 1, 1))
	assert.True(t, board.Won())
}

func TestCascadePassesFlaggedZeroTile(t *testing.T) {
	board := mustLayout(t, "....*")

	require.NoError(t, board.ToggleFlag(Point{1, 0}))
	require.NoError(t, board.Reveal(Point{0, 0}))

	assert.Equal(t, []TileState{Empty, Flag, Empty, Empty, Covered}, tileStates(board))
	assert.Equal(t, 2, board.CoveredCount())
	assert.Equal(t, InProgress, board.State())

	// lifting the flag and revealing the tile finishes the board
	require.NoError(t, board.ToggleFlag(Point{1, 0}))
	require.NoError(t, board.Reveal(Point{1, 0}))
	assert.True(t, board.Won())
}

func TestRevealFlaggedTileIsNoop(t *testing.T) {
	board := mustLayout(t, `
		*..
		...
	`)
	p := Point{2, 1}

	require.NoError(t, board.ToggleFlag(p))
	require.NoError(t, board.Reveal(p))

	assert.Equal(t, Flag, stateAt(t, board, 2, 1))
	assert.Equal(t, NotStarted, board.State())
	assert.Equal(t, 6, board.CoveredCount())
}

func TestToggleFlag(t *testing.T) {
	board := mustLayout(t, `
		*...
		...*
	`)

	t.Run("twice restores", func(t *testing.T) {
		before := tileStates(board)
		require.NoError(t, board.ToggleFlag(Point{1, 0}))
		assert.Equal(t, Flag, stateAt(t, board, 1, 0))
		require.NoError(t, board.ToggleFlag(Point{1, 0}))
		assert.Equal(t, before, tileStates(board))
		assert.Zero(t, board.FlagCount())
		assert.Equal(t, NotStarted, board.State())
	})

	t.Run("capped at mine count", func(t *testing.T) {
		require.NoError(t, board.ToggleFlag(Point{1, 0}))
		require.NoError(t, board.ToggleFlag(Point{2, 0}))
		require.Equal(t, 2, board.FlagCount())

		before := tileStates(board)
		require.NoError(t, board.ToggleFlag(Point{3, 0}))
		assert.Equal(t, before, tileStates(board))
		assert.Equal(t, 2, board.FlagCount())

		// freeing one flag allows exactly one more
		require.NoError(t, board.ToggleFlag(Point{1, 0}))
		require.NoError(t, board.ToggleFlag(Point{3, 0}))
		assert.Equal(t, Flag, stateAt(t, board, 3, 0))
		require.NoError(t, board.ToggleFlag(Point{0, 1}))
		assert.Equal(t, Covered, stateAt(t, board, 0, 1))
		assert.Equal(t, 2, board.FlagCount())
	})

	t.Run("uncovered tile", func(t *testing.T) {
		require.NoError(t, board.ToggleFlag(Point{2, 0}))
		require.NoError(t, board.ToggleFlag(Point{3, 0}))
		require.NoError(t, board.Reveal(Point{1, 1}))
		require.NoError(t, board.ToggleFlag(Point{1, 1}))
		assert.Equal(t, Empty, stateAt(t, board, 1, 1))
		assert.Zero(t, board.FlagCount())
	})
}

func TestGameOverFreezesBoard(t *testing.T) {
	layout := `
		*...
		....
		...*
	`
	lost := mustLayout(t, layout)
	require.NoError(t, lost.ToggleFlag(Point{1, 1}))
	require.NoError(t, lost.Reveal(Point{0, 0}))
	require.True(t, lost.Lost())

	won := mustLayout(t, layout)
	require.NoError(t, won.Reveal(Point{1, 0}))
	require.NoError(t, won.Reveal(Point{3, 0}))
	require.NoError(t, won.Reveal(Point{0, 2}))
	require.True(t, won.Won())

	for name, board := range map[string]*Board{"lost": lost, "won": won} {
		t.Run(name, func(t *testing.T) {
			before := tileStates(board)
			finished := board.FinishTime()
			for y := 0; y < board.Height(); y++ {
				for x := 0; x < board.Width(); x++ {
					require.NoError(t, board.Reveal(Point{x, y}))
					require.NoError(t, board.ToggleFlag(Point{x, y}))
				}
			}
			assert.Equal(t, before, tileStates(board))
			assert.Equal(t, finished, board.FinishTime())
			assert.True(t, board.IsGameOver())
		})
	}
}

func TestLossRevealsMines(t *testing.T) {
	board := mustLayout(t, `
		*..
		...
		..*
	`)

	require.NoError(t, board.ToggleFlag(Point{0, 0}))
	require.NoError(t, board.Reveal(Point{2, 2}))

	assert.True(t, board.Lost())
	assert.False(t, board.Won())
	// flag precedence holds over the revealed mine layout
	assert.Equal(t, Flag, stateAt(t, board, 0, 0))
	assert.Equal(t, Mine, stateAt(t, board, 2, 2))
	assert.Equal(t, Covered, stateAt(t, board, 1, 1))
}

func TestFirstRevealMayLose(t *testing.T) {
	board := mustLayout(t, "*.")

	require.NoError(t, board.Reveal(Point{0, 0}))

	assert.True(t, board.Started())
	assert.True(t, board.Lost())
	assert.Equal(t, Covered, stateAt(t, board, 1, 0))
}

func TestMineWithoutAdjacentMinesDoesNotCascade(t *testing.T) {
	board := mustLayout(t, `
		...
		.*.
		...
	`)
	count, _ := board.AdjacentCount(Point{1, 1})
	require.Zero(t, count)

	require.NoError(t, board.Reveal(Point{1, 1}))

	assert.True(t, board.Lost())
	assert.False(t, board.Won())
	assert.Equal(t, 8, board.CoveredCount())
}

func TestFirstRevealMayWin(t *testing.T) {
	board := mustLayout(t, "*.")
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	board.now = func() time.Time { return clock }

	require.NoError(t, board.Reveal(Point{1, 0}))

	assert.True(t, board.Won())
	assert.Equal(t, Flag, stateAt(t, board, 0, 0))
	assert.Equal(t, board.StartTime(), board.FinishTime())
}

func TestWinIffOnlyMinesCovered(t *testing.T) {
	board := mustLayout(t, `
		*.*
		...
		*.*
	`)

	// every edge midpoint sits next to two mines
	for _, p := range []Point{{1, 0}, {0, 1}, {2, 1}, {1, 2}} {
		require.NoError(t, board.Reveal(p))
		require.False(t, board.IsGameOver())
	}
	require.Equal(t, 5, board.CoveredCount())

	require.NoError(t, board.Reveal(Point{1, 1}))
	assert.True(t, board.Won())
	assert.Equal(t, 4, board.FlagCount())
	for _, p := range []Point{{0, 0}, {2, 0}, {0, 2}, {2, 2}} {
		assert.Equal(t, Flag, stateAt(t, board, p.X, p.Y))
	}
}

func TestFloodStopsAtNumberedTiles(t *testing.T) {
	difficulty, err := NewDifficulty(30, 16, 40)
	require.NoError(t, err)

	for seed := uint64(1); seed <= 50; seed++ {
		board, err := NewBoard(difficulty, NewRand(seed))
		require.NoError(t, err)

		start := -1
		for idx := range board.adjacent {
			if board.adjacent[idx] == 0 && !board.mines.Contains(idx) {
				start = idx
				break
			}
		}
		if start < 0 {
			continue
		}

		require.NoError(t, board.Reveal(board.point(start)))
		require.False(t, board.Lost(), "seed %d", seed)

		var buf [8]int
		for idx, covered := range board.covered {
			if covered {
				continue
			}
			assert.False(t, board.mines.Contains(idx), "seed %d: mine %d uncovered", seed, idx)
			if board.adjacent[idx] != 0 {
				continue
			}
			// an open zero tile never borders a covered tile
			for _, neighbor := range board.neighbors(idx, buf[:0]) {
				assert.False(t, board.covered[neighbor], "seed %d: %d left covered beside %d", seed, neighbor, idx)
			}
		}
	}
}

func TestTimestamps(t *testing.T) {
	board := mustLayout(t, `
		*..
		...
		...
	`)
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	board.now = func() time.Time { return clock }

	assert.False(t, board.Started())
	assert.Zero(t, board.Elapsed())
	assert.True(t, board.StartTime().IsZero())

	require.NoError(t, board.Reveal(Point{1, 0}))
	assert.Equal(t, InProgress, board.State())
	assert.Equal(t, clock, board.StartTime())

	clock = clock.Add(3 * time.Second)
	assert.Equal(t, 3*time.Second, board.Elapsed())

	clock = clock.Add(2 * time.Second)
	require.NoError(t, board.Reveal(Point{2, 2}))
	require.True(t, board.Won())
	assert.Equal(t, clock, board.FinishTime())

	clock = clock.Add(time.Minute)
	assert.Equal(t, 5*time.Second, board.Elapsed())
}

func TestRandomPlayKeepsInvariants(t *testing.T) {
	difficulty, err := NewDifficulty(12, 10, 20)
	require.NoError(t, err)

	for seed := uint64(1); seed <= 100; seed++ {
		board, err := NewBoard(difficulty, NewRand(seed))
		require.NoError(t, err)
		rng := NewRand(seed + 1000)

		for moves := 0; !board.IsGameOver() && moves < 1000; moves++ {
			if rng.IntN(3) == 0 {
				p := Point{X: rng.IntN(board.Width()), Y: rng.IntN(board.Height())}
				require.NoError(t, board.ToggleFlag(p))
			} else {
				// every reveal of a covered, unflagged tile makes progress
				var candidates []int
				for idx, covered := range board.covered {
					if covered && !board.flags.Contains(idx) {
						candidates = append(candidates, idx)
					}
				}
				require.NotEmpty(t, candidates)
				require.NoError(t, board.Reveal(board.point(candidates[rng.IntN(len(candidates))])))
			}

			require.LessOrEqual(t, board.FlagCount(), board.MineCount())
			require.False(t, board.Won() && board.Lost())
			if !board.IsGameOver() {
				for flag := range board.flags {
					require.True(t, board.covered[flag])
				}
			}
		}

		require.True(t, board.IsGameOver(), "seed %d did not finish", seed)
		if board.Won() {
			assert.Equal(t, board.MineCount(), board.CoveredCount())
		}
	}
}
