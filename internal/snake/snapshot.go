package snake

// Snapshot is a read-only copy of the game state handed to observers.
type Snapshot struct {
	Session      string
	Snake        []Position // Head at index 0
	Food         Position
	Direction    Direction // Committed direction
	Score        int
	HighScore    int
	NewHighScore bool // Set when the last game over beat the stored record
	Status       Status
	Difficulty   Difficulty
	Board        BoardSize
	Ticks        uint64 // Ticks since the last start
}

// Head returns the head position. Returns NoFood for an empty snapshot.
func (s Snapshot) Head() Position {
	if len(s.Snake) == 0 {
		return NoFood
	}
	return s.Snake[0]
}

// Len returns the snake length.
func (s Snapshot) Len() int {
	return len(s.Snake)
}

// HasFood reports whether food is on the board.
func (s Snapshot) HasFood() bool {
	return s.Food != NoFood
}

// Observer receives a snapshot after every committed transition.
// Publish is called while the engine lock is held and in commit order,
// so it must not call back into the engine.
type Observer interface {
	Publish(Snapshot)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(Snapshot)

// Publish calls f(s).
func (f ObserverFunc) Publish(s Snapshot) {
	f(s)
}

// SnapshotChannel is a non-blocking Observer backed by a buffered channel.
// When the buffer is full the oldest snapshot is dropped.
type SnapshotChannel struct {
	ch chan Snapshot
}

// NewSnapshotChannel creates a channel observer with the given buffer size.
func NewSnapshotChannel(size int) *SnapshotChannel {
	if size < 1 {
		size = 16
	}
	return &SnapshotChannel{ch: make(chan Snapshot, size)}
}

// Publish enqueues s without blocking.
func (c *SnapshotChannel) Publish(s Snapshot) {
	select {
	case c.ch <- s:
		return
	default:
	}

	// Buffer full, drop oldest and retry
	select {
	case <-c.ch:
	default:
	}
	select {
	case c.ch <- s:
	default:
	}
}

// C returns the channel snapshots are delivered on.
func (c *SnapshotChannel) C() <-chan Snapshot {
	return c.ch
}
