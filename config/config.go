// Package config loads game and frontend settings from SNAKE_* environment
// variables, then lets command line flags override them.
package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/caarlos0/env/v11"

	"gridsnake/game"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "SNAKE_"

// Config is everything a frontend needs to start
type Config struct {
	Game game.Config

	DBPath    string `env:"DB_PATH" envDefault:"data/snake.db"`
	StatsFile string `env:"STATS_FILE" envDefault:"data/gamestats.json"`
	Sound     bool   `env:"SOUND" envDefault:"true"`
}

// ParseEnv fills target from the environment using the SNAKE_ prefix
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the environment, applies flags from args (without the program
// name) and validates the result.
func Load(name string, args []string, output io.Writer) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}
	fs.IntVar(&cfg.Game.BoardSize, "size", cfg.Game.BoardSize, "board side length in cells")
	fs.DurationVar(&cfg.Game.InitialSpeed, "speed", cfg.Game.InitialSpeed, "time between moves at level 1 (lower = faster)")
	fs.DurationVar(&cfg.Game.MinSpeed, "min-speed", cfg.Game.MinSpeed, "fastest time between moves")
	fs.IntVar(&cfg.Game.PointsForLevelUp, "level-points", cfg.Game.PointsForLevelUp, "points needed per level")
	fs.Float64Var(&cfg.Game.Food.SpecialChance, "special-chance", cfg.Game.Food.SpecialChance, "probability of special food (0-1)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the sqlite score database")
	fs.StringVar(&cfg.StatsFile, "stats", cfg.StatsFile, "path to the json stats file")
	fs.BoolVar(&cfg.Sound, "sound", cfg.Sound, "play sound effects")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.Game.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
