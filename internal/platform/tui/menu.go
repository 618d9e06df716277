package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-snake/internal/snake"
)

// MenuChoice is what the player picked on the main menu.
type MenuChoice int

const (
	MenuPlay MenuChoice = iota
	MenuScores
	MenuQuit
)

var menuItems = []struct {
	choice MenuChoice
	title  string
}{
	{MenuPlay, "Play"},
	{MenuScores, "High Scores"},
	{MenuQuit, "Quit"},
}

var difficulties = []snake.Difficulty{
	snake.DifficultyEasy,
	snake.DifficultyMedium,
	snake.DifficultyHard,
}

// MenuModel is the Bubble Tea model for the main menu.
type MenuModel struct {
	cursor     int
	difficulty snake.Difficulty
	highScore  int
	width      int
	height     int
	keys       MenuKeyMap
	help       help.Model
	chosen     bool
	choice     MenuChoice
}

// NewMenuModel creates a new menu model.
func NewMenuModel(difficulty snake.Difficulty, highScore, width, height int) MenuModel {
	if !difficulty.Valid() {
		difficulty = snake.DifficultyMedium
	}
	return MenuModel{
		difficulty: difficulty,
		highScore:  highScore,
		width:      width,
		height:     height,
		keys:       DefaultMenuKeyMap(),
		help:       help.New(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Back):
		return m.choose(MenuQuit)

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(menuItems)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Left):
		m.difficulty = shiftDifficulty(m.difficulty, -1)

	case key.Matches(msg, m.keys.Right):
		m.difficulty = shiftDifficulty(m.difficulty, 1)

	case key.Matches(msg, m.keys.Scores):
		return m.choose(MenuScores)

	case key.Matches(msg, m.keys.Select):
		return m.choose(menuItems[m.cursor].choice)
	}

	return m, nil
}

func (m MenuModel) choose(c MenuChoice) (tea.Model, tea.Cmd) {
	m.chosen = true
	m.choice = c
	return m, tea.Quit
}

// shiftDifficulty steps through the difficulty list, clamping at both ends.
func shiftDifficulty(d snake.Difficulty, step int) snake.Difficulty {
	for i, v := range difficulties {
		if v == d {
			i = max(0, min(len(difficulties)-1, i+step))
			return difficulties[i]
		}
	}
	return snake.DifficultyMedium
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.chosen {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	selectedStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("S N A K E"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("High score: %d", m.highScore), m.width))
	b.WriteString("\n\n")

	for i, item := range menuItems {
		line := "  " + item.title
		if i == m.cursor {
			line = selectedStyle.Render("> " + item.title)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	var levels []string
	for _, d := range difficulties {
		name := d.String()
		if d == m.difficulty {
			name = selectedStyle.Render("[" + name + "]")
		} else {
			name = " " + name + " "
		}
		levels = append(levels, name)
	}
	b.WriteString(centerText("Difficulty: "+strings.Join(levels, " "), m.width))
	b.WriteString("\n\n")

	b.WriteString(centerText(dimStyle.Render(m.help.View(m.keys)), m.width))
	b.WriteString("\n")

	return b.String()
}

// Choice returns the player's choice and whether one was made.
func (m MenuModel) Choice() (MenuChoice, bool) {
	return m.choice, m.chosen
}

// Difficulty returns the difficulty selected on the menu.
func (m MenuModel) Difficulty() snake.Difficulty {
	return m.difficulty
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Choice     MenuChoice
	Difficulty snake.Difficulty
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(difficulty snake.Difficulty, highScore, width, height int) (MenuResult, error) {
	model := NewMenuModel(difficulty, highScore, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Choice: MenuQuit, Difficulty: difficulty}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Choice: MenuQuit, Difficulty: difficulty}, nil
	}

	choice, chosen := m.Choice()
	if !chosen {
		choice = MenuQuit
	}
	return MenuResult{Choice: choice, Difficulty: m.Difficulty()}, nil
}
