package store

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultQueueSize bounds the async write queue.
const DefaultQueueSize = 256

const writeTimeout = 5 * time.Second

type writeOp struct {
	name  string
	apply func(ctx context.Context, s Store) error
}

// Writer drains persistence writes onto a Store from a single goroutine.
// Enqueueing never blocks gameplay: when the queue is full the write is
// dropped and logged. Ordering is preserved for writes that get through.
type Writer struct {
	store  Store
	logger *log.Logger
	queue  chan writeOp
	done   chan struct{}
}

// NewWriter starts the drain goroutine. queueSize <= 0 selects the default.
func NewWriter(store Store, logger *log.Logger, queueSize int) *Writer {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	w := &Writer{
		store:  store,
		logger: logger.WithPrefix("store"),
		queue:  make(chan writeOp, queueSize),
		done:   make(chan struct{}),
	}
	go w.drain()
	return w
}

func (w *Writer) drain() {
	defer close(w.done)
	for op := range w.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := op.apply(ctx, w.store); err != nil {
			w.logger.Warn("write failed", "op", op.name, "error", err)
		}
		cancel()
	}
}

func (w *Writer) enqueue(op writeOp) {
	select {
	case w.queue <- op:
	default:
		w.logger.Warn("write queue full, dropping", "op", op.name)
	}
}

// Close stops accepting writes and waits for the queue to drain.
func (w *Writer) Close() error {
	close(w.queue)
	<-w.done
	return w.store.Close()
}

func (w *Writer) CreateRoom(rec RoomRecord) {
	w.enqueue(writeOp{name: "create_room", apply: func(ctx context.Context, s Store) error {
		return s.CreateRoom(ctx, rec)
	}})
}

func (w *Writer) UpdateRoomLock(code string, locked bool) {
	w.enqueue(writeOp{name: "update_room_lock", apply: func(ctx context.Context, s Store) error {
		return s.UpdateRoomLock(ctx, code, locked)
	}})
}

func (w *Writer) UpsertPlayer(rec PlayerRecord) {
	w.enqueue(writeOp{name: "upsert_player", apply: func(ctx context.Context, s Store) error {
		return s.UpsertPlayer(ctx, rec)
	}})
}

func (w *Writer) UpdatePlayerConnection(playerID string, connected bool) {
	w.enqueue(writeOp{name: "update_player_connection", apply: func(ctx context.Context, s Store) error {
		return s.UpdatePlayerConnection(ctx, playerID, connected)
	}})
}

func (w *Writer) RecordHand(rec HandRecord) {
	w.enqueue(writeOp{name: "record_hand", apply: func(ctx context.Context, s Store) error {
		return s.RecordHand(ctx, rec)
	}})
}

func (w *Writer) RecordAction(rec ActionRecord) {
	w.enqueue(writeOp{name: "record_action", apply: func(ctx context.Context, s Store) error {
		return s.RecordAction(ctx, rec)
	}})
}
