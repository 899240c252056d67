package game

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrOutOfBounds          = errors.New("position out of bounds")
)

// Difficulty is the validated board size and mine count of a game. The zero
// value is not usable; build one with NewDifficulty or PresetDifficulty.
type Difficulty struct {
	width, height int
	mineCount     int
}

type preset struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	NumMines int `yaml:"mines"`
}

var presets = map[string]preset{
	"beginner":     {Width: 9, Height: 9, NumMines: 10},
	"intermediate": {Width: 16, Height: 16, NumMines: 40},
	"expert":       {Width: 30, Height: 16, NumMines: 99},
}

func NewDifficulty(width, height, mineCount int) (Difficulty, error) {
	if width <= 0 || height <= 0 {
		return Difficulty{}, fmt.Errorf("%w: board size %dx%d must be positive", ErrInvalidConfiguration, width, height)
	}
	if mineCount <= 0 || mineCount >= width*height {
		return Difficulty{}, fmt.Errorf("%w: mine count %d must be between 0 and %d exclusive",
			ErrInvalidConfiguration, mineCount, width*height)
	}
	return Difficulty{width: width, height: height, mineCount: mineCount}, nil
}

// PresetDifficulty looks up one of the named difficulty tiers
func PresetDifficulty(name string) (Difficulty, error) {
	p, ok := presets[name]
	if !ok {
		return Difficulty{}, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidConfiguration, name)
	}
	return NewDifficulty(p.Width, p.Height, p.NumMines)
}

// PresetNames returns the built-in preset names in alphabetical order
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d Difficulty) Width() int {
	return d.width
}

func (d Difficulty) Height() int {
	return d.height
}

func (d Difficulty) MineCount() int {
	return d.mineCount
}

func (d Difficulty) TileCount() int {
	return d.width * d.height
}

func (d Difficulty) String() string {
	return fmt.Sprintf("%dx%d(%d)", d.width, d.height, d.mineCount)
}

func (d Difficulty) validate() error {
	_, err := NewDifficulty(d.width, d.height, d.mineCount)
	return err
}
