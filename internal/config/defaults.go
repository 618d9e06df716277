package config

import (
	_ "embed"

	"github.com/vovakirdan/tui-snake/internal/snake"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

// Default returns the hardcoded snake configuration.
func Default() Config {
	return Config{
		Board: BoardConfig{
			Width:  snake.DefaultBoardSize.Width,
			Height: snake.DefaultBoardSize.Height,
		},
		Difficulty: snake.DifficultyMedium.String(),
		Storage: StorageConfig{
			Path: "~/.snake/snake.db",
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.snake/snake.log",
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			ServiceName: "tui-snake",
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultSnakeYAML
}
