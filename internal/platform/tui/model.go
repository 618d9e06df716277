package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/snake"
)

// Game is the engine surface the TUI drives. *snake.Engine implements it.
type Game interface {
	Start()
	Restart()
	Pause()
	Resume()
	ChangeDirection(snake.Direction)
	SetDifficulty(snake.Difficulty)
	Snapshot() snake.Snapshot
	Subscribe(snake.Observer) (unsubscribe func())
}

var _ Game = (*snake.Engine)(nil)

// Model is the Bubble Tea model for a snake session.
type Model struct {
	game        Game
	feed        *snake.SnapshotChannel
	done        chan struct{}
	unsubscribe func()
	snap        snake.Snapshot
	keys        GameKeyMap
	help        help.Model
	width       int
	height      int
	quitting    bool
}

// NewModel creates a model subscribed to the game's snapshots.
// Call Close once the program exits.
func NewModel(game Game) Model {
	feed := snake.NewSnapshotChannel(32)
	return Model{
		game:        game,
		feed:        feed,
		done:        make(chan struct{}),
		unsubscribe: game.Subscribe(feed),
		snap:        game.Snapshot(),
		keys:        DefaultGameKeyMap(),
		help:        help.New(),
	}
}

// Init starts listening for snapshots.
func (m Model) Init() tea.Cmd {
	return waitForSnapshot(m.feed, m.done)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case SnapshotMsg:
		m.snap = snake.Snapshot(msg)
		return m, waitForSnapshot(m.feed, m.done)
	}

	return m, nil
}

// handleKey maps keyboard input to engine commands.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Action):
		m.primaryAction()
		return m, nil

	case key.Matches(msg, m.keys.Pause):
		switch m.game.Snapshot().Status {
		case snake.StatusRunning:
			m.game.Pause()
		case snake.StatusPaused:
			m.game.Resume()
		}
		return m, nil

	case key.Matches(msg, m.keys.Restart):
		if m.game.Snapshot().Status != snake.StatusInitial {
			m.game.Restart()
		}
		return m, nil
	}

	if d, ok := m.keys.Direction(msg); ok {
		// Engine ignores turns unless running
		m.game.ChangeDirection(d)
		return m, nil
	}

	if d, ok := m.keys.Difficulty(msg); ok {
		m.game.SetDifficulty(d)
		return m, nil
	}

	return m, nil
}

// primaryAction runs the single status-dependent control.
func (m Model) primaryAction() {
	switch m.game.Snapshot().Status {
	case snake.StatusInitial:
		m.game.Start()
	case snake.StatusRunning:
		m.game.Pause()
	case snake.StatusPaused:
		m.game.Resume()
	case snake.StatusGameOver:
		m.game.Restart()
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	needW, needH := RequiredSize(m.snap.Board)
	if m.width > 0 && (m.width < needW || m.height < needH) {
		return RenderTooSmall(m.snap.Board, m.width, m.height)
	}

	var b strings.Builder
	b.WriteString(RenderHUD(m.snap))
	b.WriteString("\n")
	b.WriteString(RenderBoard(m.snap))
	b.WriteString("\n")
	b.WriteString(RenderStatus(m.snap))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Snapshot returns the last snapshot the model rendered.
func (m Model) Snapshot() snake.Snapshot {
	return m.snap
}

// Close detaches the model from the game and releases a pending snapshot wait.
func (m Model) Close() {
	m.unsubscribe()
	select {
	case <-m.done:
	default:
		close(m.done)
	}
}

// Run starts the Bubble Tea program for game and blocks until the player quits.
func Run(game Game) error {
	model := NewModel(game)
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
