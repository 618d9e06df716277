package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-snake/internal/snake"
)

// Each board cell is drawn two columns wide so cells look roughly square.
const cellWidth = 2

// Layout rows outside the board: HUD, border, status line and help.
const (
	chromeRows = 6
	chromeCols = 2
)

// cellKind identifies what occupies a board cell.
type cellKind int

const (
	cellEmpty cellKind = iota
	cellBody
	cellHead
	cellFood
)

var cellGlyphs = map[cellKind]string{
	cellEmpty: "  ",
	cellBody:  "██",
	cellHead:  "██",
	cellFood:  "()",
}

var cellStyles = map[cellKind]lipgloss.Style{
	cellEmpty: lipgloss.NewStyle(),
	cellBody:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	cellHead:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	cellFood:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
}

var (
	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
	hudLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	hudValueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	overlayStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	gameOverStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	newHighStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// RequiredSize returns the terminal size needed to draw a board.
func RequiredSize(b snake.BoardSize) (width, height int) {
	return b.Width*cellWidth + chromeCols, b.Height + chromeRows
}

// cellGrid maps a snapshot onto a row-major grid of cell kinds.
func cellGrid(s snake.Snapshot) [][]cellKind {
	grid := make([][]cellKind, s.Board.Height)
	for y := range grid {
		grid[y] = make([]cellKind, s.Board.Width)
	}

	set := func(p snake.Position, k cellKind) {
		if s.Board.Contains(p) {
			grid[p.Y][p.X] = k
		}
	}

	if s.HasFood() {
		set(s.Food, cellFood)
	}
	for i := len(s.Snake) - 1; i >= 0; i-- {
		if i == 0 {
			set(s.Snake[i], cellHead)
		} else {
			set(s.Snake[i], cellBody)
		}
	}
	return grid
}

// RenderBoard draws the board inside a border.
// Groups adjacent cells of the same kind to minimize ANSI escape sequences.
func RenderBoard(s snake.Snapshot) string {
	grid := cellGrid(s)

	var sb strings.Builder
	sb.Grow(s.Board.Cells()*cellWidth*2 + s.Board.Height)

	for y, row := range grid {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < len(row) {
			kind := row[x]
			var run strings.Builder
			for x < len(row) && row[x] == kind {
				run.WriteString(cellGlyphs[kind])
				x++
			}
			sb.WriteString(cellStyles[kind].Render(run.String()))
		}
	}

	return boardStyle.Render(sb.String())
}

// RenderHUD draws the score line above the board.
func RenderHUD(s snake.Snapshot) string {
	field := func(label string, value any) string {
		return hudLabelStyle.Render(label+" ") + hudValueStyle.Render(fmt.Sprint(value))
	}
	return strings.Join([]string{
		field("Score", s.Score),
		field("High", s.HighScore),
		field("Length", s.Len()),
		field("Speed", s.Difficulty),
	}, "   ")
}

// RenderStatus draws the status-dependent prompt below the board.
func RenderStatus(s snake.Snapshot) string {
	switch s.Status {
	case snake.StatusInitial:
		return overlayStyle.Render("Press space to start")
	case snake.StatusPaused:
		return overlayStyle.Render("PAUSED") + dimStyle.Render("  space to resume")
	case snake.StatusGameOver:
		line := gameOverStyle.Render(fmt.Sprintf("GAME OVER  score %d", s.Score))
		if s.NewHighScore {
			line += "  " + newHighStyle.Render("New High Score!")
		}
		return line + dimStyle.Render("  space to restart")
	default:
		return dimStyle.Render(s.Status.String())
	}
}

// RenderTooSmall explains why the board cannot be drawn.
func RenderTooSmall(b snake.BoardSize, width, height int) string {
	needW, needH := RequiredSize(b)
	return fmt.Sprintf("Terminal too small: %dx%d, need %dx%d for a %dx%d board.\nResize or press q to quit.",
		width, height, needW, needH, b.Width, b.Height)
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}
