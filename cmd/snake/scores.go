package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var (
	flagScoresLimit       int
	flagScoresInteractive bool
	flagScoresClear       bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show recorded games",
	Long: `Display the best recorded games and the stored high score.

Examples:
  snake scores
  snake scores --limit 25
  snake scores -i
  snake scores --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVarP(&flagScoresLimit, "limit", "n", 10, "Number of games to show")
	scoresCmd.Flags().BoolVarP(&flagScoresInteractive, "interactive", "i", false, "Browse scores in the TUI")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all recorded games and the high score")
}

func runScores(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Storage.Path == "" {
		fmt.Fprintln(os.Stderr, "Error: score storage is disabled (storage.path is empty)")
		os.Exit(1)
	}

	// Open score storage
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearScores(); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			store.Close()
			os.Exit(1)
		}
		fmt.Println("Scores cleared.")
		return
	}

	if flagScoresInteractive {
		width, height := terminalSize()
		if _, err := tui.RunScoreboard(store, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return
	}

	// Get top scores
	scores, err := store.TopScores(flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		store.Close()
		os.Exit(1)
	}

	// Display scores
	fmt.Println("High Scores - Snake")
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'snake play' to set the first high score!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-6s  %-6s  %-8s  %-7s  %s\n", "Rank", "Score", "Length", "Speed", "Board", "Date")
	fmt.Printf("  %-4s  %-6s  %-6s  %-8s  %-7s  %s\n", "----", "-----", "------", "-----", "-----", "----")

	// Print scores
	for i, entry := range scores {
		board := fmt.Sprintf("%dx%d", entry.BoardWidth, entry.BoardHeight)
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-6d  %-6d  %-8s  %-7s  %s\n",
			i+1, entry.Score, entry.Length, entry.Difficulty, board, dateStr)
	}

	// Show high score and totals
	fmt.Println()
	if high, err := store.LoadHighScore(); err == nil {
		fmt.Printf("Best: %d\n", high)
	}
	if stats, err := store.Stats(); err == nil {
		fmt.Printf("Games: %d  Average: %.1f\n", stats.Games, stats.AvgScore)
	}
}
