package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/snake"
	"github.com/vovakirdan/tui-snake/internal/storage"
	"github.com/vovakirdan/tui-snake/internal/telemetry"
)

// session holds everything a command needs to run games.
type session struct {
	cfg    config.Config
	logger *log.Logger
	store  *storage.Store // nil when persistence is disabled or unavailable
	tracer trace.Tracer

	closers []func()
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Storage.Path = flagDBPath
	}
	if flags.Changed("difficulty") {
		cfg.Difficulty = flagDifficulty
	}
	if flags.Changed("width") {
		cfg.Board.Width = flagWidth
	}
	if flags.Changed("height") {
		cfg.Board.Height = flagHeight
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// openSession loads configuration and opens the logger, store and tracer.
// Only configuration errors are fatal; the rest degrade with a warning.
func openSession(ctx context.Context, cmd *cobra.Command) (*session, error) {
	// Local .env may carry OTEL_EXPORTER_OTLP_* settings
	envErr := godotenv.Load()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg}

	s.logger = s.newLogger()
	if envErr != nil && !os.IsNotExist(envErr) {
		s.logger.Warn(".env file not loaded", "error", envErr)
	}

	if path := cfg.Storage.Path; path != "" {
		store, err := storage.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
			s.logger.Warn("could not open scores database", "path", path, "error", err)
		} else {
			s.store = store
			s.closers = append(s.closers, func() { store.Close() })
		}
	}

	s.tracer = telemetry.NoopTracer()
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Setup(ctx, cfg.Telemetry.ServiceName)
		if err != nil {
			s.logger.Warn("telemetry setup failed, running without tracing", "error", err)
		} else {
			s.tracer = telemetry.Tracer("engine")
			s.closers = append(s.closers, func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(shutdownCtx); err != nil {
					s.logger.Warn("telemetry shutdown failed", "error", err)
				}
			})
		}
	}

	return s, nil
}

// newLogger writes to the configured log file so the TUI keeps the terminal.
func (s *session) newLogger() *log.Logger {
	var w io.Writer = io.Discard
	if path := config.ExpandPath(s.cfg.Log.File); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err == nil {
				w = f
				s.closers = append(s.closers, func() { f.Close() })
			} else {
				fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
			}
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "snake",
	})
	if level, err := log.ParseLevel(s.cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warn("unknown log level, using info", "level", s.cfg.Log.Level)
	}
	return logger
}

// newEngine builds an engine from the session configuration.
func (s *session) newEngine(difficulty snake.Difficulty) *snake.Engine {
	opts := []snake.Option{
		snake.WithLogger(s.logger),
		snake.WithTracer(s.tracer),
		snake.WithSeed(flagSeed),
		snake.WithDifficulty(difficulty),
		snake.WithBoardSize(s.cfg.BoardSize()),
	}
	// A nil *storage.Store must not become a non-nil interface
	if s.store != nil {
		opts = append(opts, snake.WithStore(s.store))
	}
	return snake.New(opts...)
}

// difficulty returns the configured difficulty. Validate has already run.
func (s *session) difficulty() snake.Difficulty {
	d, _ := s.cfg.DifficultyLevel()
	return d
}

// Close releases resources in reverse order of acquisition.
func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}
