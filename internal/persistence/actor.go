package persistence

import (
	"time"

	"github.com/adred-codev/rusticokv/internal/monitoring"
	"github.com/adred-codev/rusticokv/internal/store"
	"github.com/rs/zerolog"
)

// Actor is the single dedicated goroutine that owns the snapshot file.
// Snapshot messages are coalesced by interval: a message arriving before
// the interval has elapsed since the last write is dropped, matching the
// original's self.instante.elapsed() >= self.intervalo gate. A write
// failure stops the actor (the original breaks its receive loop on error)
// rather than crashing the server.
type Actor struct {
	path      string
	interval  time.Duration
	lastWrite time.Time
	mailbox   chan message
	logger    zerolog.Logger
	stopped   chan struct{}
}

// NewActor builds an actor that will write to path no more often than
// interval.
func NewActor(path string, interval time.Duration, logger zerolog.Logger) *Actor {
	return &Actor{
		path:     path,
		interval: interval,
		mailbox:  make(chan message, 8),
		logger:   logger.With().Str("component", "persistence").Logger(),
		stopped:  make(chan struct{}),
	}
}

// Start spawns the actor's run loop in its own goroutine and returns
// immediately.
func (a *Actor) Start() {
	go a.run()
}

// Snapshot enqueues a table to persist. The send is best-effort: if the
// mailbox is full the snapshot is dropped rather than blocking the
// caller's Store lock-free notify path, matching the original's ignored
// send().is_ok() result.
func (a *Actor) Snapshot(data map[string]*store.Entry) {
	select {
	case a.mailbox <- message{kind: msgSnapshot, snapshot: data}:
	default:
		a.logger.Warn().Msg("persistence mailbox full, dropping snapshot")
	}
}

// Update implements store.Observer, so an Actor can be registered directly
// via Store.Subscribe.
func (a *Actor) Update(snapshot map[string]*store.Entry) {
	a.Snapshot(snapshot)
}

// ChangeFile redirects future writes to a new path.
func (a *Actor) ChangeFile(path string) {
	a.mailbox <- message{kind: msgChangeFile, path: path}
}

// Close stops the actor's run loop after it drains any already-queued
// message.
func (a *Actor) Close() {
	a.mailbox <- message{kind: msgClose}
	<-a.stopped
}

func (a *Actor) run() {
	defer close(a.stopped)

	for msg := range a.mailbox {
		switch msg.kind {
		case msgSnapshot:
			if time.Since(a.lastWrite) < a.interval {
				continue
			}
			start := time.Now()
			if err := writeSnapshot(a.path, msg.snapshot); err != nil {
				a.logger.Error().Err(err).Str("path", a.path).Msg("snapshot write failed, stopping persistence actor")
				monitoring.SnapshotWrites.WithLabelValues("error").Inc()
				return
			}
			monitoring.SnapshotWrites.WithLabelValues("ok").Inc()
			monitoring.SnapshotDuration.Observe(time.Since(start).Seconds())
			a.lastWrite = time.Now()

		case msgChangeFile:
			a.path = msg.path

		case msgClose:
			return
		}
	}
}
