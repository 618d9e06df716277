// snake is a terminal snake game.
//
// Usage:
//
//	snake                    - Start menu (play, high scores, difficulty)
//	snake play               - Play a game directly
//	snake scores             - Show recorded games and the best score
//	snake config             - Print the effective configuration
//
// Global flags:
//
//	--config <path>      - Custom config YAML
//	--db <path>          - Scores database path (default: ~/.snake/snake.db)
//	--difficulty <level> - easy, medium or hard
//	--width, --height    - Board size in cells
//	--seed <value>       - RNG seed for reproducible food placement
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig     string
	flagDBPath     string
	flagDifficulty string
	flagWidth      int
	flagHeight     int
	flagSeed       int64
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake",
	Short: "Snake - the classic game in your terminal",
	Long: `Snake is a terminal version of the classic game.

Steer the snake to the food, grow one segment per bite, and avoid
the walls and your own body.

Available commands:
  play     - Play a game directly
  scores   - View recorded games
  config   - Print the effective configuration

Run without a command to open the menu.

Examples:
  snake
  snake play --difficulty hard
  snake play --width 30 --height 15
  snake scores`,
	Run: runMenu,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty: easy, medium, hard")
	rootCmd.PersistentFlags().IntVar(&flagWidth, "width", 0, "Board width in cells")
	rootCmd.PersistentFlags().IntVar(&flagHeight, "height", 0, "Board height in cells")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}
