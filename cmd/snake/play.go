package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/snake"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start a game directly, skipping the menu.

Controls:
  Arrows/WASD/hjkl - Steer
  Space/Enter      - Start, pause, resume or restart
  P/Esc            - Pause / resume
  R                - Restart
  1/2/3            - Easy / medium / hard
  ?                - Toggle help
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - 150ms per move
  medium - 100ms per move
  hard   - 70ms per move

Examples:
  snake play
  snake play --difficulty hard
  snake play --width 30 --height 15 --seed 42
  snake play --config ./my-snake.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, _ []string) {
	s, err := openSession(cmd.Context(), cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	if err := checkTerminal(s.cfg.BoardSize()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Use --width and --height to pick a smaller board.")
		s.Close()
		os.Exit(1)
	}

	if err := playGame(s, s.difficulty()); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		s.Close()
		os.Exit(1)
	}
}

// playGame runs one TUI session on a fresh engine.
func playGame(s *session, difficulty snake.Difficulty) error {
	engine := s.newEngine(difficulty)
	defer engine.Close()

	s.logger.Debug("session opened", "session", engine.ID(), "board", s.cfg.BoardSize())
	return tui.Run(engine)
}

// terminalSize returns the terminal size, or 80x24 when it is unknown.
func terminalSize() (width, height int) {
	width, height = 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return width, height
}

// checkTerminal fails when the terminal cannot show the whole board.
func checkTerminal(board snake.BoardSize) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil
	}
	w, h := terminalSize()
	needW, needH := tui.RequiredSize(board)
	if w < needW || h < needH {
		return fmt.Errorf("terminal is %dx%d but a %dx%d board needs %dx%d",
			w, h, board.Width, board.Height, needW, needH)
	}
	return nil
}
