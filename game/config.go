package game

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

type GameConfig struct {
	// Named difficulty tier; Width, Height and NumMines override its values
	// when non-zero
	Preset        string
	Width, Height int
	NumMines      int

	// Seed for mine placement; 0 picks one from the clock
	Seed uint64

	// Fixed mine layout in the format read by ParseLayout, replacing the
	// random placement when set
	Layout string

	Director Director
	// Pause between director moves
	DirectorDelay time.Duration

	// presets added from a config file, looked up before the built-in ones
	presets map[string]preset
}

func NewGameConfig() GameConfig {
	return GameConfig{
		Preset:        "expert",
		Director:      nil,
		DirectorDelay: 200 * time.Millisecond,
	}
}

// Difficulty resolves the preset and explicit dimensions into a validated
// Difficulty
func (config GameConfig) Difficulty() (Difficulty, error) {
	base, ok := config.presets[config.Preset]
	if !ok {
		base, ok = presets[config.Preset]
	}
	if !ok {
		return Difficulty{}, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidConfiguration, config.Preset)
	}
	if config.Width != 0 {
		base.Width = config.Width
	}
	if config.Height != 0 {
		base.Height = config.Height
	}
	if config.NumMines != 0 {
		base.NumMines = config.NumMines
	}
	return NewDifficulty(base.Width, base.Height, base.NumMines)
}

func (config GameConfig) createBoard(difficulty Difficulty, rng *rand.Rand) (*Board, error) {
	if config.Layout != "" {
		return ParseLayout(config.Layout)
	}
	return NewBoard(difficulty, rng)
}

// FileConfig is the layout of the optional YAML configuration file
type FileConfig struct {
	Difficulty string            `yaml:"difficulty"`
	Width      int               `yaml:"width"`
	Height     int               `yaml:"height"`
	NumMines   int               `yaml:"mines"`
	Seed       uint64            `yaml:"seed"`
	Presets    map[string]preset `yaml:"presets"`
}

func LoadConfigFile(path string) (*FileConfig, error) {
	in, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(in)
}

func ParseConfig(in []byte) (*FileConfig, error) {
	var file FileConfig
	if err := yaml.UnmarshalStrict(in, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	return &file, nil
}

// AddPresets validates the file's presets and makes them available by name
// to this config. They may shadow the built-in presets.
func (config *GameConfig) AddPresets(file *FileConfig) error {
	for name, p := range file.Presets {
		if _, err := NewDifficulty(p.Width, p.Height, p.NumMines); err != nil {
			return fmt.Errorf("preset %q: %w", name, err)
		}
	}
	if len(file.Presets) == 0 {
		return nil
	}

	added := make(map[string]preset, len(config.presets)+len(file.Presets))
	for name, p := range config.presets {
		added[name] = p
	}
	for name, p := range file.Presets {
		added[name] = p
	}
	config.presets = added
	return nil
}
