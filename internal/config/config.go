// Package config provides YAML-based configuration loading for the snake game.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vovakirdan/tui-snake/internal/snake"
)

// Config contains all settings for a snake session.
type Config struct {
	Board      BoardConfig     `yaml:"board"`
	Difficulty string          `yaml:"difficulty"`
	Storage    StorageConfig   `yaml:"storage"`
	Log        LogConfig       `yaml:"log"`
	Telemetry  TelemetryConfig `yaml:"telemetry"`
}

// BoardConfig defines the play field in cells.
type BoardConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// StorageConfig defines where scores are persisted.
type StorageConfig struct {
	Path string `yaml:"path"` // empty disables persistence
}

// LogConfig defines logger output.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // empty discards logs
}

// TelemetryConfig toggles OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

var (
	ErrInvalidBoard      = errors.New("config: board width and height must be positive")
	ErrInvalidDifficulty = errors.New("config: unknown difficulty")
)

// BoardSize returns the board as the engine type.
func (c Config) BoardSize() snake.BoardSize {
	return snake.BoardSize{Width: c.Board.Width, Height: c.Board.Height}
}

// DifficultyLevel parses the configured difficulty.
func (c Config) DifficultyLevel() (snake.Difficulty, error) {
	d, err := snake.ParseDifficulty(c.Difficulty)
	if err != nil {
		return d, fmt.Errorf("%w: %q", ErrInvalidDifficulty, c.Difficulty)
	}
	return d, nil
}

// Validate checks that the configuration can start a game.
func (c Config) Validate() error {
	if !c.BoardSize().Valid() {
		return fmt.Errorf("%w (got %dx%d)", ErrInvalidBoard, c.Board.Width, c.Board.Height)
	}
	if _, err := c.DifficultyLevel(); err != nil {
		return err
	}
	return nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}
