package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/platform/tui"
)

func runMenu(cmd *cobra.Command, _ []string) {
	s, err := openSession(cmd.Context(), cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	difficulty := s.difficulty()

	// Menu loop
	for {
		width, height := terminalSize()

		highScore := 0
		if s.store != nil {
			if high, err := s.store.LoadHighScore(); err == nil {
				highScore = high
			}
		}

		result, err := tui.RunMenu(difficulty, highScore, width, height)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		difficulty = result.Difficulty

		switch result.Choice {
		case tui.MenuQuit:
			return

		case tui.MenuScores:
			var source tui.ScoreSource
			if s.store != nil {
				source = s.store
			}
			goBack, sbErr := tui.RunScoreboard(source, width, height)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if !goBack {
				return // User quit from scoreboard
			}

		case tui.MenuPlay:
			if err := checkTerminal(s.cfg.BoardSize()); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return
			}
			if err := playGame(s, difficulty); err != nil {
				fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
			}
			// Loop back to menu
		}
	}
}
