package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/they4kman/cursesweep/director/constraint"
	"github.com/they4kman/cursesweep/director/random"
	"github.com/they4kman/cursesweep/game"
)

var gameConfig = game.NewGameConfig()
var (
	directorName string
	layoutPath   string
	configPath   string
	logLevel     string
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cursesweep",
		Short: "Play Minesweeper in the terminal",
		Long: `cursesweep is a Minesweeper game played one command per line.

Run with no arguments to play an expert board
	cursesweep

Pick a difficulty, or give the board size yourself
	cursesweep --difficulty beginner
	cursesweep -w 20 -h 10 -m 30

Use the director flag to make the computer play for you
	cursesweep --director constraint
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := setupLogging(logLevel); err != nil {
				return err
			}
			return applyConfigFile(cmd.Flags(), configPath, &gameConfig)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if layoutPath != "" {
				layout, err := os.ReadFile(layoutPath)
				if err != nil {
					return err
				}
				gameConfig.Layout = string(layout)
			}

			director, err := newDirector(directorName, gameConfig.Seed)
			if err != nil {
				return err
			}
			gameConfig.Director = director

			return game.Run(gameConfig, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	// Define our root -help without a shorthand, as we'll use -h for --height
	// Ref: https://github.com/spf13/cobra/issues/291
	cmd.Flags().Bool("help", false, "Help for this command")

	cmd.Flags().VarP(newDifficultyValue("expert", &gameConfig.Preset), "difficulty", "d",
		fmt.Sprintf("Difficulty preset (%s)", strings.Join(game.PresetNames(), ", ")))
	cmd.Flags().IntVarP(&gameConfig.Width, "width", "w", 0, "Width of game board, in cells (overrides the preset)")
	cmd.Flags().IntVarP(&gameConfig.Height, "height", "h", 0, "Height of game board, in cells (overrides the preset)")
	cmd.Flags().IntVarP(&gameConfig.NumMines, "mines", "m", 0, "Number of mines to place in the game board (overrides the preset)")
	cmd.Flags().Uint64Var(&gameConfig.Seed, "seed", 0, "Seed for mine placement (0 picks one from the clock)")
	cmd.Flags().StringVar(&layoutPath, "layout", "", "Play a fixed mine layout read from this file ('*' mine, '.' safe)")
	cmd.Flags().StringVar(&directorName, "director", "", `Make the computer play:
random: reveal random tiles
constraint: play obvious moves, guess when stuck`)
	cmd.Flags().DurationVar(&gameConfig.DirectorDelay, "director-delay", gameConfig.DirectorDelay, "Pause between director moves")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file with defaults and extra presets")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warning", "Log level (debug, info, warning, error)")

	return cmd
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func setupLogging(level string) error {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	game.Log.SetOutput(os.Stderr)
	game.Log.SetLevel(parsed)
	return nil
}

// applyConfigFile fills in every setting the file defines and the command
// line left alone
func applyConfigFile(flags *pflag.FlagSet, path string, config *game.GameConfig) error {
	if path == "" {
		return nil
	}
	file, err := game.LoadConfigFile(path)
	if err != nil {
		return err
	}
	if err := config.AddPresets(file); err != nil {
		return err
	}

	if file.Difficulty != "" && !flags.Changed("difficulty") {
		config.Preset = file.Difficulty
	}
	if file.Width != 0 && !flags.Changed("width") {
		config.Width = file.Width
	}
	if file.Height != 0 && !flags.Changed("height") {
		config.Height = file.Height
	}
	if file.NumMines != 0 && !flags.Changed("mines") {
		config.NumMines = file.NumMines
	}
	if file.Seed != 0 && !flags.Changed("seed") {
		config.Seed = file.Seed
	}

	game.Log.WithFields(logrus.Fields{
		"path":   path,
		"preset": config.Preset,
	}).Debug("loaded config file")
	return nil
}

func newDirector(name string, seed uint64) (game.Director, error) {
	rng := game.NewRand(seed + 1)
	if seed == 0 {
		rng = nil
	}

	switch name {
	case "":
		return nil, nil
	case "random":
		return &random.Director{Rand: rng}, nil
	case "constraint":
		return &constraint.Director{Rand: rng}, nil
	}
	return nil, fmt.Errorf("invalid director %q", name)
}

type difficultyValue string

func newDifficultyValue(val string, p *string) *difficultyValue {
	*p = val
	return (*difficultyValue)(p)
}

func (value *difficultyValue) String() string {
	return string(*value)
}

// Set only normalizes the name. A config file may still add presets, so the
// name is checked when the difficulty is resolved.
func (value *difficultyValue) Set(name string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return fmt.Errorf("invalid difficulty")
	}
	*value = difficultyValue(name)
	return nil
}

func (value *difficultyValue) Type() string {
	return "difficulty"
}
