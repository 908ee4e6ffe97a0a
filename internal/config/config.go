// Package config reads server settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"tilesweeper/internal/game"
)

// Config holds everything cmd/web needs to start.
type Config struct {
	Port       string
	BaseURL    string
	LogLevel   zerolog.Level
	Game       game.Config
	Seed       int64
	SessionTTL time.Duration
}

// Getenv looks up a variable; os.Getenv in production, a map in tests.
type Getenv func(key string) string

// Load reads .env files if present and then the process environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && len(files) > 0 {
		return Config{}, fmt.Errorf("load env files: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults for unset keys.
func FromEnv(getenv Getenv) (Config, error) {
	get := func(k, def string) string {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Port:    get("PORT", "8080"),
		BaseURL: strings.TrimRight(get("BASE_URL", ""), "/"),
		Game:    game.DefaultConfig(),
	}

	lvl, err := zerolog.ParseLevel(get("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = lvl

	if cfg.Game.Rows, err = atoi(get("GRID_ROWS", strconv.Itoa(game.DefaultRows)), "GRID_ROWS"); err != nil {
		return Config{}, err
	}
	if cfg.Game.Cols, err = atoi(get("GRID_COLS", strconv.Itoa(game.DefaultCols)), "GRID_COLS"); err != nil {
		return Config{}, err
	}
	if cfg.Game.Fill, err = game.ParseFillPolicy(get("FILL_POLICY", cfg.Game.Fill.String())); err != nil {
		return Config{}, fmt.Errorf("FILL_POLICY: %w", err)
	}
	if cfg.Game.Reveal, err = game.ParseRevealPolicy(get("REVEAL_POLICY", cfg.Game.Reveal.String())); err != nil {
		return Config{}, fmt.Errorf("REVEAL_POLICY: %w", err)
	}
	cfg.Game.Labels.A = get("LABEL_A", cfg.Game.Labels.A)
	cfg.Game.Labels.B = get("LABEL_B", cfg.Game.Labels.B)
	if strings.EqualFold(cfg.Game.Labels.A, cfg.Game.Labels.B) {
		return Config{}, fmt.Errorf("%w: LABEL_A and LABEL_B must differ", game.ErrConfiguration)
	}
	if err := cfg.Game.Validate(); err != nil {
		return Config{}, err
	}

	if cfg.Seed, err = strconv.ParseInt(get("RNG_SEED", "0"), 10, 64); err != nil {
		return Config{}, fmt.Errorf("RNG_SEED: %w", err)
	}
	if cfg.SessionTTL, err = time.ParseDuration(get("SESSION_TTL", game.DefaultSessionTTL.String())); err != nil {
		return Config{}, fmt.Errorf("SESSION_TTL: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	return cfg, nil
}

// Addr returns the listen address for Port.
func (c Config) Addr() string {
	return ":" + c.Port
}

func atoi(value, key string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
