package snake

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// manualScheduler is a Scheduler whose ticks are fired by the test.
type manualScheduler struct {
	mu       sync.Mutex
	running  bool
	interval time.Duration
	fn       func()
	last     func() // Most recently installed callback, kept after Stop
	starts   int
	stops    int
	replaces int
}

func (s *manualScheduler) Start(interval time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = true
	s.interval = interval
	s.fn = fn
	s.last = fn
	s.starts++
}

func (s *manualScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.fn = nil
	s.stops++
}

func (s *manualScheduler) Replace(interval time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = true
	s.interval = interval
	s.fn = fn
	s.last = fn
	s.replaces++
}

// fire invokes the installed callback, if the scheduler is running.
func (s *manualScheduler) fire() {
	s.mu.Lock()
	fn := s.fn
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (s *manualScheduler) isRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// memStore is an in-memory HighScoreStore and ScoreRecorder.
type memStore struct {
	high     int
	loadErr  error
	saveErr  error
	saved    []int
	recorded []GameResult
}

func (m *memStore) LoadHighScore() (int, error) {
	if m.loadErr != nil {
		return 0, m.loadErr
	}
	return m.high, nil
}

func (m *memStore) SaveHighScore(score int) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.high = score
	m.saved = append(m.saved, score)
	return nil
}

func (m *memStore) RecordGame(r GameResult) error {
	m.recorded = append(m.recorded, r)
	return nil
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *manualScheduler) {
	t.Helper()
	sched := &manualScheduler{}
	all := append([]Option{WithScheduler(sched), WithSeed(42)}, opts...)
	e := New(all...)
	t.Cleanup(e.Close)
	return e, sched
}

// place overrides the board contents of a running engine.
func place(e *Engine, body []Position, food Position, dir Direction) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.snake = append([]Position(nil), body...)
	e.food = food
	e.direction = dir
	e.nextDir = dir
}

func TestNewEngineInitialState(t *testing.T) {
	e, sched := newTestEngine(t, WithStore(&memStore{high: 7}))

	snap := e.Snapshot()
	if snap.Status != StatusInitial {
		t.Errorf("Expected status initial, got %v", snap.Status)
	}
	if snap.Len() != 1 || snap.Head() != (Position{X: 5, Y: 5}) {
		t.Errorf("Expected snake [(5,5)], got %v", snap.Snake)
	}
	if snap.Direction != DirRight {
		t.Errorf("Expected direction right, got %v", snap.Direction)
	}
	if snap.HighScore != 7 {
		t.Errorf("Expected high score 7, got %d", snap.HighScore)
	}
	if snap.Difficulty != DifficultyMedium {
		t.Errorf("Expected medium difficulty, got %v", snap.Difficulty)
	}
	if snap.Board != DefaultBoardSize {
		t.Errorf("Expected default board, got %v", snap.Board)
	}
	if !snap.Board.Contains(snap.Food) || snap.Food == snap.Head() {
		t.Errorf("Food at invalid position %v", snap.Food)
	}
	if sched.isRunning() {
		t.Error("Scheduler should not run in initial status")
	}
}

func TestNewEngineHighScoreLoadFailure(t *testing.T) {
	e, _ := newTestEngine(t, WithStore(&memStore{high: 99, loadErr: errors.New("disk gone")}))

	if got := e.Snapshot().HighScore; got != 0 {
		t.Errorf("Expected high score 0 on load failure, got %d", got)
	}
}

func TestStartThenTick(t *testing.T) {
	e, sched := newTestEngine(t)

	e.Start()
	place(e, []Position{{X: 5, Y: 5}}, Position{X: 10, Y: 10}, DirRight)

	if sched.interval != DifficultyMedium.Interval() {
		t.Errorf("Expected interval %v, got %v", DifficultyMedium.Interval(), sched.interval)
	}

	sched.fire()

	snap := e.Snapshot()
	if snap.Status != StatusRunning {
		t.Fatalf("Expected running, got %v", snap.Status)
	}
	if snap.Len() != 1 || snap.Head() != (Position{X: 6, Y: 5}) {
		t.Errorf("Expected snake [(6,5)], got %v", snap.Snake)
	}
	if snap.Score != 0 {
		t.Errorf("Expected score 0, got %d", snap.Score)
	}
}

func TestStartResetsGame(t *testing.T) {
	e, sched := newTestEngine(t, WithStore(&memStore{high: 3}), WithDifficulty(DifficultyHard))
	e.SetBoardSize(30, 12)

	e.Start()
	place(e, []Position{{X: 9, Y: 9}, {X: 8, Y: 9}, {X: 7, Y: 9}}, Position{X: 0, Y: 0}, DirUp)
	e.Start()

	snap := e.Snapshot()
	if snap.Len() != 1 || snap.Head() != (Position{X: 5, Y: 5}) {
		t.Errorf("Expected fresh snake at origin, got %v", snap.Snake)
	}
	if snap.Direction != DirRight || snap.Score != 0 || snap.Ticks != 0 {
		t.Errorf("Expected reset direction/score/ticks, got %v/%d/%d", snap.Direction, snap.Score, snap.Ticks)
	}
	if snap.HighScore != 3 || snap.Difficulty != DifficultyHard || snap.Board != (BoardSize{Width: 30, Height: 12}) {
		t.Errorf("Start should preserve settings, got %+v", snap)
	}
	if sched.interval != DifficultyHard.Interval() {
		t.Errorf("Expected hard interval, got %v", sched.interval)
	}
	if sched.stops < 2 {
		t.Errorf("Start should stop the previous scheduler, stops=%d", sched.stops)
	}
}

func TestMoveWithoutFood(t *testing.T) {
	e, sched := newTestEngine(t)
	e.Start()

	body := []Position{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 3, Y: 5}}
	place(e, body, Position{X: 0, Y: 19}, DirRight)

	for i := 0; i < 5; i++ {
		sched.fire()
		snap := e.Snapshot()
		if snap.Len() != len(body) {
			t.Fatalf("Tick %d: length changed to %d", i, snap.Len())
		}
		if snap.Score != 0 {
			t.Fatalf("Tick %d: score changed to %d", i, snap.Score)
		}
	}

	if head := e.Snapshot().Head(); head != (Position{X: 10, Y: 5}) {
		t.Errorf("Expected head at (10,5), got %v", head)
	}
}

func TestEatingFood(t *testing.T) {
	e, sched := newTestEngine(t)
	e.Start()
	place(e, []Position{{X: 5, Y: 5}, {X: 4, Y: 5}}, Position{X: 6, Y: 5}, DirRight)

	sched.fire()

	snap := e.Snapshot()
	if snap.Score != 1 {
		t.Errorf("Expected score 1, got %d", snap.Score)
	}
	want := []Position{{X: 6, Y: 5}, {X: 5, Y: 5}, {X: 4, Y: 5}}
	if snap.Len() != len(want) {
		t.Fatalf("Expected length %d, got %d", len(want), snap.Len())
	}
	for i, p := range want {
		if snap.Snake[i] != p {
			t.Errorf("Segment %d: expected %v, got %v", i, p, snap.Snake[i])
		}
	}
	for _, seg := range snap.Snake {
		if seg == snap.Food {
			t.Errorf("New food %v placed on snake", snap.Food)
		}
	}
	if !snap.HasFood() || !snap.Board.Contains(snap.Food) {
		t.Errorf("New food out of bounds: %v", snap.Food)
	}
}

func TestFoodNeverOnSnake(t *testing.T) {
	e, sched := newTestEngine(t, WithSeed(7))
	e.SetBoardSize(6, 6)
	e.Start()

	// Walk a lawnmower path so the snake keeps growing without hitting itself.
	dirs := []Direction{DirRight, DirDown, DirLeft, DirDown}
	for i := 0; i < 200 && e.Snapshot().Status == StatusRunning; i++ {
		snap := e.Snapshot()
		head := snap.Head()
		if !snap.Board.Contains(head.Step(snap.Direction)) {
			for _, d := range dirs {
				if d != snap.Direction && d != snap.Direction.Opposite() && snap.Board.Contains(head.Step(d)) {
					e.ChangeDirection(d)
					break
				}
			}
		}
		sched.fire()

		snap = e.Snapshot()
		if !snap.HasFood() {
			continue
		}
		for _, seg := range snap.Snake {
			if seg == snap.Food {
				t.Fatalf("Tick %d: food %v on snake", i, snap.Food)
			}
		}
	}
}

func TestFoodPlacementFullBoard(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetBoardSize(2, 1)

	e.mu.Lock()
	e.snake = []Position{{X: 1, Y: 0}, {X: 0, Y: 0}}
	food := e.placeFoodLocked()
	e.mu.Unlock()

	if food != NoFood {
		t.Errorf("Expected NoFood on a full board, got %v", food)
	}
}

func TestNoImmediateReversal(t *testing.T) {
	tests := []struct {
		committed Direction
		requested Direction
		accepted  bool
	}{
		{DirRight, DirLeft, false},
		{DirLeft, DirRight, false},
		{DirUp, DirDown, false},
		{DirDown, DirUp, false},
		{DirRight, DirUp, true},
		{DirRight, DirDown, true},
		{DirUp, DirLeft, true},
		{DirRight, DirRight, true},
	}

	for _, tt := range tests {
		t.Run(tt.committed.String()+"->"+tt.requested.String(), func(t *testing.T) {
			e, _ := newTestEngine(t)
			e.Start()
			place(e, []Position{{X: 5, Y: 5}}, Position{X: 0, Y: 0}, tt.committed)

			e.ChangeDirection(tt.requested)

			e.mu.Lock()
			got := e.nextDir
			e.mu.Unlock()

			want := tt.committed
			if tt.accepted {
				want = tt.requested
			}
			if got != want {
				t.Errorf("Expected pending %v, got %v", want, got)
			}
		})
	}
}

func TestReversalCheckedAgainstCommittedDirection(t *testing.T) {
	e, sched := newTestEngine(t)
	e.Start()
	place(e, []Position{{X: 5, Y: 5}}, Position{X: 0, Y: 0}, DirRight)

	// Up is pending, but Left still reverses the committed Right.
	e.ChangeDirection(DirUp)
	e.ChangeDirection(DirLeft)

	sched.fire()

	if got := e.Snapshot().Direction; got != DirUp {
		t.Errorf("Expected committed direction up, got %v", got)
	}
}

func TestLastDirectionChangeWins(t *testing.T) {
	e, sched := newTestEngine(t)
	e.Start()
	place(e, []Position{{X: 5, Y: 5}}, Position{X: 0, Y: 0}, DirRight)

	e.ChangeDirection(DirUp)
	e.ChangeDirection(DirDown)

	if got := e.Snapshot().Direction; got != DirRight {
		t.Errorf("Pending direction must not apply before a tick, got %v", got)
	}

	sched.fire()

	snap := e.Snapshot()
	if snap.Direction != DirDown || snap.Head() != (Position{X: 5, Y: 6}) {
		t.Errorf("Expected down to (5,6), got %v at %v", snap.Direction, snap.Head())
	}
}

func TestChangeDirectionIgnoredWhenNotRunning(t *testing.T) {
	e, _ := newTestEngine(t)

	e.ChangeDirection(DirDown)
	e.mu.Lock()
	got := e.nextDir
	e.mu.Unlock()
	if got != DirRight {
		t.Errorf("Direction change accepted in initial status: %v", got)
	}

	e.Start()
	e.Pause()
	e.ChangeDirection(DirDown)
	e.mu.Lock()
	got = e.nextDir
	e.mu.Unlock()
	if got != DirRight {
		t.Errorf("Direction change accepted while paused: %v", got)
	}
}

func TestWallCollision(t *testing.T) {
	e, sched := newTestEngine(t)
	e.SetBoardSize(1, 1)
	e.Start()

	snap := e.Snapshot()
	if snap.Head() != (Position{X: 0, Y: 0}) {
		t.Fatalf("Expected origin clamped to (0,0), got %v", snap.Head())
	}
	if snap.HasFood() {
		t.Errorf("Expected no food on a 1x1 board, got %v", snap.Food)
	}

	sched.fire()

	if got := e.Snapshot().Status; got != StatusGameOver {
		t.Errorf("Expected game over, got %v", got)
	}
	if sched.isRunning() {
		t.Error("Scheduler should stop on game over")
	}
}

func TestWallCollisionAllEdges(t *testing.T) {
	tests := []struct {
		name string
		head Position
		dir  Direction
	}{
		{"left", Position{X: 0, Y: 3}, DirLeft},
		{"right", Position{X: 19, Y: 3}, DirRight},
		{"top", Position{X: 3, Y: 0}, DirUp},
		{"bottom", Position{X: 3, Y: 19}, DirDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, sched := newTestEngine(t)
			e.Start()
			place(e, []Position{tt.head}, Position{X: 10, Y: 10}, tt.dir)

			sched.fire()

			snap := e.Snapshot()
			if snap.Status != StatusGameOver {
				t.Errorf("Expected game over, got %v", snap.Status)
			}
			if snap.Head() != tt.head {
				t.Errorf("State should freeze on game over, head moved to %v", snap.Head())
			}
		})
	}
}

func TestSelfCollisionOntoNeck(t *testing.T) {
	e, sched := newTestEngine(t)
	e.Start()
	place(e, []Position{{X: 1, Y: 0}, {X: 0, Y: 0}}, Position{X: 10, Y: 10}, DirLeft)

	sched.fire()

	if got := e.Snapshot().Status; got != StatusGameOver {
		t.Errorf("Expected game over, got %v", got)
	}
}

func TestSelfCollisionBody(t *testing.T) {
	e, sched := newTestEngine(t)
	e.Start()
	// Head at (2,2) heading up into (2,1), which is mid-body.
	body := []Position{{X: 2, Y: 2}, {X: 3, Y: 2}, {X: 3, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 1}}
	place(e, body, Position{X: 10, Y: 10}, DirLeft)
	e.ChangeDirection(DirUp)

	sched.fire()

	if got := e.Snapshot().Status; got != StatusGameOver {
		t.Errorf("Expected game over, got %v", got)
	}
}

func TestTailChaseAllowed(t *testing.T) {
	e, sched := newTestEngine(t)
	e.Start()
	// A 2x2 loop: the head moves into the cell the tail is vacating.
	body := []Position{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}}
	place(e, body, Position{X: 10, Y: 10}, DirUp)
	e.ChangeDirection(DirRight)

	sched.fire()

	snap := e.Snapshot()
	if snap.Status != StatusRunning {
		t.Fatalf("Expected running, got %v", snap.Status)
	}
	want := []Position{{X: 1, Y: 0}, {X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}
	for i, p := range want {
		if snap.Snake[i] != p {
			t.Errorf("Segment %d: expected %v, got %v", i, p, snap.Snake[i])
		}
	}
}

func TestGameOverUpdatesHighScore(t *testing.T) {
	store := &memStore{high: 2}
	e, sched := newTestEngine(t, WithStore(store))
	e.Start()

	e.mu.Lock()
	e.score = 3
	e.mu.Unlock()
	place(e, []Position{{X: 19, Y: 0}}, Position{X: 10, Y: 10}, DirRight)

	sched.fire()

	snap := e.Snapshot()
	if snap.Status != StatusGameOver {
		t.Fatalf("Expected game over, got %v", snap.Status)
	}
	if snap.HighScore != 3 || !snap.NewHighScore {
		t.Errorf("Expected new high score 3, got %d (new=%v)", snap.HighScore, snap.NewHighScore)
	}
	if len(store.saved) != 1 || store.saved[0] != 3 {
		t.Errorf("Expected high score 3 saved once, got %v", store.saved)
	}
	if len(store.recorded) != 1 || store.recorded[0].Score != 3 {
		t.Errorf("Expected finished game recorded, got %v", store.recorded)
	}
}

func TestGameOverBelowHighScore(t *testing.T) {
	store := &memStore{high: 10}
	e, sched := newTestEngine(t, WithStore(store))
	e.Start()

	e.mu.Lock()
	e.score = 4
	e.mu.Unlock()
	place(e, []Position{{X: 19, Y: 0}}, Position{X: 10, Y: 10}, DirRight)

	sched.fire()

	snap := e.Snapshot()
	if snap.HighScore != 10 || snap.NewHighScore {
		t.Errorf("High score should stay 10, got %d (new=%v)", snap.HighScore, snap.NewHighScore)
	}
	if len(store.saved) != 0 {
		t.Errorf("High score should not be written, got %v", store.saved)
	}
	if len(store.recorded) != 1 {
		t.Errorf("Finished game should still be recorded, got %v", store.recorded)
	}
}

func TestHighScoreSaveFailureIsNonFatal(t *testing.T) {
	store := &memStore{saveErr: errors.New("read-only")}
	e, sched := newTestEngine(t, WithStore(store))
	e.Start()

	e.mu.Lock()
	e.score = 5
	e.mu.Unlock()
	place(e, []Position{{X: 19, Y: 0}}, Position{X: 10, Y: 10}, DirRight)

	sched.fire()

	snap := e.Snapshot()
	if snap.Status != StatusGameOver || snap.HighScore != 5 {
		t.Errorf("Expected game over with in-memory high score 5, got %v/%d", snap.Status, snap.HighScore)
	}

	e.Start()
	if got := e.Snapshot().Status; got != StatusRunning {
		t.Errorf("Game should continue after a failed write, got %v", got)
	}
}

func TestHighScoreMonotonic(t *testing.T) {
	store := &memStore{}
	e, sched := newTestEngine(t, WithStore(store))

	scores := []int{3, 1, 8, 8, 2, 5}
	best := 0
	for _, s := range scores {
		e.Start()
		e.mu.Lock()
		e.score = s
		e.mu.Unlock()
		place(e, []Position{{X: 0, Y: 0}}, Position{X: 10, Y: 10}, DirUp)

		before := e.Snapshot().HighScore
		sched.fire()
		after := e.Snapshot().HighScore

		best = max(best, s)
		if after < before {
			t.Fatalf("High score decreased from %d to %d", before, after)
		}
		if after != best {
			t.Fatalf("Expected high score %d, got %d", best, after)
		}
	}
	if store.high != 8 {
		t.Errorf("Expected persisted high score 8, got %d", store.high)
	}
}

func TestGameOverStopsTicking(t *testing.T) {
	e, sched := newTestEngine(t)
	e.Start()
	place(e, []Position{{X: 19, Y: 0}}, Position{X: 10, Y: 10}, DirRight)
	stale := sched.last

	sched.fire()
	ticks := e.Snapshot().Ticks

	stale()
	sched.fire()

	snap := e.Snapshot()
	if snap.Ticks != ticks || snap.Status != StatusGameOver {
		t.Errorf("Ticks after game over: %d -> %d (%v)", ticks, snap.Ticks, snap.Status)
	}

	e.Restart()
	if got := e.Snapshot().Status; got != StatusRunning || !sched.isRunning() {
		t.Errorf("Restart should resume ticking, got %v running=%v", got, sched.isRunning())
	}
}

func TestPauseResume(t *testing.T) {
	e, sched := newTestEngine(t)
	e.Start()

	e.Pause()
	if got := e.Snapshot().Status; got != StatusPaused {
		t.Fatalf("Expected paused, got %v", got)
	}
	if sched.isRunning() {
		t.Error("Scheduler should stop on pause")
	}

	e.Resume()
	if got := e.Snapshot().Status; got != StatusRunning {
		t.Fatalf("Expected running, got %v", got)
	}
	if !sched.isRunning() || sched.interval != DifficultyMedium.Interval() {
		t.Errorf("Scheduler should restart at %v, got running=%v interval=%v",
			DifficultyMedium.Interval(), sched.isRunning(), sched.interval)
	}
}

func TestPauseResumeIdempotent(t *testing.T) {
	e, sched := newTestEngine(t)
	e.Start()
	e.Pause()

	before := e.Snapshot()
	stops := sched.stops
	e.Pause()
	after := e.Snapshot()
	if after.Status != before.Status || after.Head() != before.Head() || sched.stops != stops {
		t.Error("Pause while paused changed state")
	}

	e.Resume()
	starts := sched.starts
	e.Resume()
	if got := e.Snapshot().Status; got != StatusRunning || sched.starts != starts {
		t.Errorf("Resume while running changed state: %v, starts %d -> %d", got, starts, sched.starts)
	}
}

func TestPauseResumeInvalidStatus(t *testing.T) {
	e, sched := newTestEngine(t)

	e.Pause()
	e.Resume()
	if got := e.Snapshot().Status; got != StatusInitial {
		t.Errorf("Expected initial, got %v", got)
	}
	if sched.starts != 0 {
		t.Errorf("Scheduler started from initial status")
	}
}

func TestStaleTickAfterPause(t *testing.T) {
	e, sched := newTestEngine(t)
	e.Start()
	stale := sched.last

	e.Pause()
	before := e.Snapshot()
	stale()

	after := e.Snapshot()
	if after.Ticks != before.Ticks || after.Head() != before.Head() {
		t.Errorf("Stale tick advanced a paused game: %v -> %v", before.Head(), after.Head())
	}

	// A tick queued before pause must stay dead after resume as well.
	e.Resume()
	stale()
	if got := e.Snapshot().Ticks; got != before.Ticks {
		t.Errorf("Stale tick ran after resume, ticks=%d", got)
	}
}

func TestSetDifficultyWhileRunning(t *testing.T) {
	e, sched := newTestEngine(t)
	e.Start()
	old := sched.last

	e.SetDifficulty(DifficultyHard)

	if sched.replaces != 1 {
		t.Errorf("Expected one replace, got %d", sched.replaces)
	}
	if sched.interval != DifficultyHard.Interval() {
		t.Errorf("Expected interval %v, got %v", DifficultyHard.Interval(), sched.interval)
	}

	// The old callback is dead; only the new one ticks.
	ticks := e.Snapshot().Ticks
	old()
	if got := e.Snapshot().Ticks; got != ticks {
		t.Errorf("Replaced scheduler still ticking")
	}
	sched.fire()
	if got := e.Snapshot().Ticks; got != ticks+1 {
		t.Errorf("Expected exactly one tick, got %d", got-ticks)
	}
	if got := e.Snapshot().Status; got != StatusRunning {
		t.Errorf("Difficulty change should keep the game running, got %v", got)
	}
}

func TestSetDifficultyWhilePaused(t *testing.T) {
	e, sched := newTestEngine(t)
	e.Start()
	e.Pause()

	e.SetDifficulty(DifficultyEasy)
	if sched.isRunning() {
		t.Error("Difficulty change must not restart a paused game")
	}

	e.Resume()
	if sched.interval != DifficultyEasy.Interval() {
		t.Errorf("Expected resume at %v, got %v", DifficultyEasy.Interval(), sched.interval)
	}
}

func TestSetDifficultyInitial(t *testing.T) {
	e, sched := newTestEngine(t)

	e.SetDifficulty(DifficultyHard)
	e.SetDifficulty(Difficulty(42))

	if got := e.Snapshot().Difficulty; got != DifficultyHard {
		t.Errorf("Expected hard, got %v", got)
	}
	if sched.starts != 0 || sched.replaces != 0 {
		t.Error("Difficulty change must not start the scheduler")
	}
}

func TestSetBoardSize(t *testing.T) {
	e, sched := newTestEngine(t)

	e.SetBoardSize(0, 10)
	e.SetBoardSize(10, -1)
	if got := e.Snapshot().Board; got != DefaultBoardSize {
		t.Errorf("Invalid sizes should be ignored, got %v", got)
	}

	e.SetBoardSize(4, 3)
	snap := e.Snapshot()
	if snap.Board != (BoardSize{Width: 4, Height: 3}) {
		t.Errorf("Expected 4x3, got %v", snap.Board)
	}
	if !snap.Board.Contains(snap.Head()) || !snap.Board.Contains(snap.Food) {
		t.Errorf("Initial board not re-seeded: head %v food %v", snap.Head(), snap.Food)
	}

	e.Start()
	e.SetBoardSize(50, 50)
	if got := e.Snapshot().Board; got != (BoardSize{Width: 4, Height: 3}) {
		t.Errorf("Resize while running should be ignored, got %v", got)
	}

	place(e, []Position{{X: 3, Y: 0}}, Position{X: 0, Y: 2}, DirRight)
	sched.fire()
	e.SetBoardSize(8, 8)
	if got := e.Snapshot().Board; got != (BoardSize{Width: 8, Height: 8}) {
		t.Errorf("Resize after game over should apply, got %v", got)
	}
}

func TestSubscribe(t *testing.T) {
	e, sched := newTestEngine(t)

	var got []Snapshot
	unsubscribe := e.Subscribe(ObserverFunc(func(s Snapshot) {
		got = append(got, s)
	}))

	e.Start()
	sched.fire()
	e.Pause()

	if len(got) != 3 {
		t.Fatalf("Expected 3 snapshots, got %d", len(got))
	}
	if got[0].Status != StatusRunning || got[1].Ticks != 1 || got[2].Status != StatusPaused {
		t.Errorf("Unexpected snapshot sequence: %+v", got)
	}

	unsubscribe()
	e.Resume()
	if len(got) != 3 {
		t.Errorf("Observer called after unsubscribe")
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	e, _ := newTestEngine(t)

	snap := e.Snapshot()
	snap.Snake[0] = Position{X: 99, Y: 99}

	if got := e.Snapshot().Head(); got == (Position{X: 99, Y: 99}) {
		t.Error("Mutating a snapshot changed engine state")
	}
}

func TestClose(t *testing.T) {
	e, sched := newTestEngine(t)
	e.Start()
	stale := sched.last

	e.Close()
	if sched.isRunning() {
		t.Error("Close should stop the scheduler")
	}

	ticks := e.Snapshot().Ticks
	stale()
	e.Start()
	e.Pause()
	if got := e.Snapshot(); got.Ticks != ticks || got.Status != StatusRunning {
		t.Errorf("Engine changed after close: %+v", got)
	}

	e.Close()
}

func TestSnapshotChannelDropsOldest(t *testing.T) {
	c := NewSnapshotChannel(2)
	for i := 1; i <= 3; i++ {
		c.Publish(Snapshot{Score: i})
	}

	first := <-c.C()
	second := <-c.C()
	if first.Score != 2 || second.Score != 3 {
		t.Errorf("Expected scores 2,3 got %d,%d", first.Score, second.Score)
	}
}

func TestDeterminism(t *testing.T) {
	run := func() Snapshot {
		e, sched := newTestEngine(t, WithSeed(12345))
		e.Start()
		for i := 0; i < 30; i++ {
			switch i {
			case 3:
				e.ChangeDirection(DirDown)
			case 8:
				e.ChangeDirection(DirLeft)
			case 12:
				e.ChangeDirection(DirUp)
			}
			sched.fire()
		}
		return e.Snapshot()
	}

	a, b := run(), run()
	if a.Food != b.Food || a.Head() != b.Head() || a.Score != b.Score || a.Status != b.Status {
		t.Errorf("Same seed produced different games: %+v vs %+v", a, b)
	}
}
