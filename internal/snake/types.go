// Package snake implements the rules engine of a grid-based snake game.
// The engine owns the authoritative game state, advances it on ticks issued
// by a Scheduler and publishes read-only snapshots to observers. It has no
// terminal or rendering dependencies, keeping the game logic pure and testable.
package snake

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Direction represents the snake's movement direction.
type Direction int

const (
	DirRight Direction = iota
	DirDown
	DirLeft
	DirUp
)

// Valid reports whether d is one of the four known directions.
func (d Direction) Valid() bool {
	return d >= DirRight && d <= DirUp
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	default:
		return d
	}
}

// delta returns the unit vector of the direction. Y grows downwards.
func (d Direction) delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// Difficulty selects the fixed tick interval of a game.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
)

// ErrUnknownDifficulty is returned by ParseDifficulty for unrecognized names.
var ErrUnknownDifficulty = errors.New("snake: unknown difficulty")

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	return d >= DifficultyEasy && d <= DifficultyHard
}

// Interval returns the tick period for the difficulty.
func (d Difficulty) Interval() time.Duration {
	switch d {
	case DifficultyEasy:
		return 150 * time.Millisecond
	case DifficultyHard:
		return 70 * time.Millisecond
	default:
		return 100 * time.Millisecond
	}
}

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty converts a case-insensitive name ("easy", "medium", "hard")
// into a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy, nil
	case "medium", "normal":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	default:
		return DifficultyMedium, fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
}

// Status is the lifecycle state of a game.
type Status int

const (
	StatusInitial Status = iota
	StatusRunning
	StatusPaused
	StatusGameOver
)

func (s Status) String() string {
	switch s {
	case StatusInitial:
		return "initial"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Position is a 0-indexed board cell.
type Position struct {
	X, Y int
}

// NoFood marks the absence of food when every cell is occupied by the snake.
var NoFood = Position{X: -1, Y: -1}

// Step returns the neighbouring cell in direction d.
func (p Position) Step(d Direction) Position {
	dx, dy := d.delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// BoardSize holds the board dimensions in cells.
type BoardSize struct {
	Width, Height int
}

// DefaultBoardSize is the board used when none is configured.
var DefaultBoardSize = BoardSize{Width: 20, Height: 20}

// Valid reports whether both dimensions are positive.
func (b BoardSize) Valid() bool {
	return b.Width > 0 && b.Height > 0
}

// Contains reports whether p lies within [0,Width)x[0,Height).
func (b BoardSize) Contains(p Position) bool {
	return p.X >= 0 && p.X < b.Width && p.Y >= 0 && p.Y < b.Height
}

// Cells returns the number of cells on the board.
func (b BoardSize) Cells() int {
	return b.Width * b.Height
}

// origin is the cell a fresh snake starts on, pulled inside small boards.
func (b BoardSize) origin() Position {
	return Position{
		X: max(0, min(5, b.Width-1)),
		Y: max(0, min(5, b.Height-1)),
	}
}
