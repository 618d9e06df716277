package snake

import (
	"context"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Engine is the snake state machine. All commands and scheduled ticks are
// serialized by a single mutex; invalid commands for the current status are
// silently ignored.
type Engine struct {
	mu sync.Mutex

	id        string
	rng       *rand.Rand
	scheduler Scheduler
	store     HighScoreStore
	logger    *log.Logger
	tracer    trace.Tracer
	span      trace.Span // Active while a game is in progress

	observers []subscription
	nextSubID int

	// generation identifies the current scheduler installation. Ticks
	// carrying an older generation are dropped.
	generation uint64
	closed     bool

	// Game state
	snake        []Position // Head at index 0
	food         Position
	direction    Direction // Committed on the last tick
	nextDir      Direction // Applied on the next tick
	score        int
	highScore    int
	newHighScore bool
	status       Status
	difficulty   Difficulty
	board        BoardSize
	ticks        uint64
}

type subscription struct {
	id  int
	obs Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithScheduler sets the tick scheduler. Defaults to a TickerScheduler.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) {
		if s != nil {
			e.scheduler = s
		}
	}
}

// WithStore sets the high score persistence collaborator.
func WithStore(s HighScoreStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithTracer sets the tracer used for per-game spans. Defaults to a no-op tracer.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// WithSeed seeds the food placement RNG for reproducible games.
// A zero seed keeps the time-based default.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		if seed != 0 {
			e.rng = rand.New(rand.NewSource(seed))
		}
	}
}

// WithDifficulty sets the initial difficulty.
func WithDifficulty(d Difficulty) Option {
	return func(e *Engine) {
		if d.Valid() {
			e.difficulty = d
		}
	}
}

// WithBoardSize sets the initial board size.
func WithBoardSize(b BoardSize) Option {
	return func(e *Engine) {
		if b.Valid() {
			e.board = b
		}
	}
}

// New creates an engine in StatusInitial with a one-segment snake and food
// placed at random. The high score is read from the store once; a read
// failure counts as 0.
func New(opts ...Option) *Engine {
	e := &Engine{
		id:         uuid.NewString(),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		scheduler:  NewTickerScheduler(),
		logger:     log.New(io.Discard),
		tracer:     noop.NewTracerProvider().Tracer("snake"),
		difficulty: DifficultyMedium,
		board:      DefaultBoardSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("session", e.id)

	if e.store != nil {
		high, err := e.store.LoadHighScore()
		if err != nil {
			e.logger.Warn("could not load high score", "error", err)
			high = 0
		}
		e.highScore = max(0, high)
	}

	e.resetLocked()
	e.status = StatusInitial
	return e
}

// ID returns the session identifier used in logs and traces.
func (e *Engine) ID() string {
	return e.id
}

// Start resets the board and begins a new game at the current difficulty.
// Valid from any status. High score, difficulty and board size are kept.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}

	e.stopSchedulerLocked()
	e.endSpanLocked("restarted")

	e.resetLocked()
	e.status = StatusRunning
	e.beginSpanLocked()
	e.startSchedulerLocked()

	e.logger.Info("game started",
		"difficulty", e.difficulty,
		"board", e.board,
		"interval", e.difficulty.Interval(),
	)
	e.publishLocked()
}

// Restart is equivalent to Start.
func (e *Engine) Restart() {
	e.Start()
}

// Pause stops ticking. Only valid while running.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.status != StatusRunning {
		return
	}

	e.stopSchedulerLocked()
	e.status = StatusPaused
	e.addSpanEventLocked("paused")
	e.logger.Debug("game paused", "score", e.score)
	e.publishLocked()
}

// Resume restarts ticking at the current difficulty. Only valid while paused.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.status != StatusPaused {
		return
	}

	e.status = StatusRunning
	e.startSchedulerLocked()
	e.addSpanEventLocked("resumed")
	e.logger.Debug("game resumed", "score", e.score)
	e.publishLocked()
}

// ChangeDirection queues d for the next tick. Ignored unless running, and
// ignored when d reverses the committed direction. The last accepted
// request before a tick wins.
func (e *Engine) ChangeDirection(d Direction) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.status != StatusRunning || !d.Valid() {
		return
	}
	if d == e.direction.Opposite() {
		return
	}

	e.nextDir = d
}

// SetDifficulty changes the tick interval. Valid in any status; while running
// the scheduler is swapped for one at the new interval.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || !d.Valid() || d == e.difficulty {
		return
	}

	e.difficulty = d
	if e.status == StatusRunning {
		e.replaceSchedulerLocked()
	}

	e.addSpanEventLocked("difficulty.changed", attribute.String("snake.difficulty", d.String()))
	e.logger.Info("difficulty changed", "difficulty", d, "interval", d.Interval())
	e.publishLocked()
}

// SetBoardSize changes the board dimensions. Ignored while running or for
// non-positive sizes. In StatusInitial the board is re-seeded so the idle
// snake and food fit the new dimensions.
func (e *Engine) SetBoardSize(width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	b := BoardSize{Width: width, Height: height}
	if e.closed || e.status == StatusRunning || !b.Valid() {
		return
	}

	e.board = b
	if e.status == StatusInitial {
		e.resetLocked()
	}

	e.logger.Debug("board resized", "board", b)
	e.publishLocked()
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Subscribe registers an observer and returns a function that removes it.
// Neither Subscribe nor the returned function may be called from inside Publish.
func (e *Engine) Subscribe(obs Observer) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextSubID++
	id := e.nextSubID
	e.observers = append(e.observers, subscription{id: id, obs: obs})

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, sub := range e.observers {
			if sub.id == id {
				e.observers = append(e.observers[:i], e.observers[i+1:]...)
				return
			}
		}
	}
}

// Close stops the scheduler and discards observers. Later commands are no-ops.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true
	e.stopSchedulerLocked()
	e.endSpanLocked("closed")
	e.observers = nil
	e.logger.Debug("engine closed")
}

// resetLocked puts a fresh one-segment snake at the origin and places food.
func (e *Engine) resetLocked() {
	e.snake = []Position{e.board.origin()}
	e.direction = DirRight
	e.nextDir = DirRight
	e.score = 0
	e.ticks = 0
	e.newHighScore = false
	e.food = e.placeFoodLocked()
}

// onTick is the scheduler callback for the installation stamped gen.
func (e *Engine) onTick(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || gen != e.generation || e.status != StatusRunning {
		return
	}
	e.tickLocked()
}

// tickLocked advances the snake by one cell.
func (e *Engine) tickLocked() {
	e.ticks++
	e.direction = e.nextDir
	head := e.snake[0].Step(e.direction)

	if cause, hit := e.collisionLocked(head); hit {
		e.gameOverLocked(cause)
		e.publishLocked()
		return
	}

	e.snake = append([]Position{head}, e.snake...)

	if head == e.food {
		e.score++
		e.food = e.placeFoodLocked()
		e.addSpanEventLocked("food.eaten",
			attribute.Int("snake.score", e.score),
			attribute.Int("snake.length", len(e.snake)),
		)
	} else {
		e.snake = e.snake[:len(e.snake)-1]
	}

	e.publishLocked()
}

// collisionLocked checks head against the walls and the body. The tail is
// skipped because it vacates this tick, unless it is also the neck of a
// two-segment snake: moving onto the neck means passing through it.
func (e *Engine) collisionLocked(head Position) (string, bool) {
	if !e.board.Contains(head) {
		return "wall", true
	}

	checkLen := len(e.snake) - 1
	if len(e.snake) == 2 {
		checkLen = 2
	}
	for i := 0; i < checkLen; i++ {
		if e.snake[i] == head {
			return "self", true
		}
	}
	return "", false
}

// gameOverLocked freezes the game and settles the high score.
func (e *Engine) gameOverLocked(cause string) {
	e.stopSchedulerLocked()
	e.status = StatusGameOver

	e.newHighScore = false
	if e.score > e.highScore {
		e.highScore = e.score
		e.newHighScore = true
		if e.store != nil {
			if err := e.store.SaveHighScore(e.score); err != nil {
				e.logger.Warn("could not save high score", "score", e.score, "error", err)
			}
		}
		e.logger.Info("new high score", "score", e.score)
	}

	if rec, ok := e.store.(ScoreRecorder); ok && e.score > 0 {
		if err := rec.RecordGame(e.resultLocked()); err != nil {
			e.logger.Warn("could not record game", "error", err)
		}
	}

	e.logger.Info("game over",
		"cause", cause,
		"score", e.score,
		"length", len(e.snake),
		"ticks", e.ticks,
	)
	e.endSpanLocked(cause)
}

// placeFoodLocked picks a cell uniformly among those not covered by the snake.
func (e *Engine) placeFoodLocked() Position {
	occupied := make(map[Position]struct{}, len(e.snake))
	for _, seg := range e.snake {
		occupied[seg] = struct{}{}
	}

	free := make([]Position, 0, max(0, e.board.Cells()-len(occupied)))
	for y := 0; y < e.board.Height; y++ {
		for x := 0; x < e.board.Width; x++ {
			p := Position{X: x, Y: y}
			if _, ok := occupied[p]; !ok {
				free = append(free, p)
			}
		}
	}

	if len(free) == 0 {
		return NoFood
	}
	return free[e.rng.Intn(len(free))]
}

func (e *Engine) startSchedulerLocked() {
	e.generation++
	gen := e.generation
	e.scheduler.Start(e.difficulty.Interval(), func() { e.onTick(gen) })
}

func (e *Engine) replaceSchedulerLocked() {
	e.generation++
	gen := e.generation
	e.scheduler.Replace(e.difficulty.Interval(), func() { e.onTick(gen) })
}

func (e *Engine) stopSchedulerLocked() {
	e.generation++
	e.scheduler.Stop()
}

func (e *Engine) snapshotLocked() Snapshot {
	body := make([]Position, len(e.snake))
	copy(body, e.snake)

	return Snapshot{
		Session:      e.id,
		Snake:        body,
		Food:         e.food,
		Direction:    e.direction,
		Score:        e.score,
		HighScore:    e.highScore,
		NewHighScore: e.newHighScore,
		Status:       e.status,
		Difficulty:   e.difficulty,
		Board:        e.board,
		Ticks:        e.ticks,
	}
}

func (e *Engine) resultLocked() GameResult {
	return GameResult{
		Session:    e.id,
		Score:      e.score,
		Length:     len(e.snake),
		Difficulty: e.difficulty,
		Board:      e.board,
		Ticks:      e.ticks,
	}
}

func (e *Engine) publishLocked() {
	if len(e.observers) == 0 {
		return
	}
	snap := e.snapshotLocked()
	for _, sub := range e.observers {
		sub.obs.Publish(snap)
	}
}

// --- Tracing ---

func (e *Engine) beginSpanLocked() {
	_, e.span = e.tracer.Start(context.Background(), "snake.game",
		trace.WithAttributes(
			attribute.String("snake.session", e.id),
			attribute.String("snake.difficulty", e.difficulty.String()),
			attribute.Int("board.width", e.board.Width),
			attribute.Int("board.height", e.board.Height),
		),
	)
}

func (e *Engine) addSpanEventLocked(name string, attrs ...attribute.KeyValue) {
	if e.span == nil {
		return
	}
	e.span.AddEvent(name, trace.WithAttributes(attrs...))
}

func (e *Engine) endSpanLocked(reason string) {
	if e.span == nil {
		return
	}
	e.span.SetAttributes(
		attribute.Int("snake.score", e.score),
		attribute.Int("snake.length", len(e.snake)),
		attribute.Int64("snake.ticks", int64(e.ticks)),
		attribute.String("snake.end_reason", reason),
	)
	e.span.End()
	e.span = nil
}
