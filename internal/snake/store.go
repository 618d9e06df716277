package snake

// HighScoreStore persists the best score across sessions.
// LoadHighScore is called once when an engine is created; SaveHighScore is
// called whenever a game over sets a new record. Implementations should
// report a missing value as 0 with a nil error.
type HighScoreStore interface {
	LoadHighScore() (int, error)
	SaveHighScore(score int) error
}

// ScoreRecorder is an optional extension of HighScoreStore that keeps a
// history of finished games.
type ScoreRecorder interface {
	RecordGame(result GameResult) error
}

// GameResult describes a finished game.
type GameResult struct {
	Session    string
	Score      int
	Length     int
	Difficulty Difficulty
	Board      BoardSize
	Ticks      uint64
}
