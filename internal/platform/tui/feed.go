// Package tui provides the Bubble Tea front end for the snake engine.
// The engine drives itself on its own scheduler; this package only renders
// published snapshots and forwards key presses as engine commands.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/snake"
)

// SnapshotMsg carries an engine snapshot into the Bubble Tea loop.
type SnapshotMsg snake.Snapshot

// waitForSnapshot returns a command that blocks until the engine publishes
// the next snapshot or done is closed.
func waitForSnapshot(feed *snake.SnapshotChannel, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-feed.C():
			return SnapshotMsg(s)
		case <-done:
			return nil
		}
	}
}
