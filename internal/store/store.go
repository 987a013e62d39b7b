package store

import (
	"context"
	"time"
)

// RoomRecord is the persisted shape of a room.
type RoomRecord struct {
	Code      string `gorm:"primaryKey;size:8"`
	HostID    string
	Locked    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PlayerRecord is the persisted shape of a room member. Stacks are
// written after every completed hand so a restart can report final
// standings, not live hand state.
type PlayerRecord struct {
	ID        string `gorm:"primaryKey"`
	RoomCode  string `gorm:"index"`
	Name      string
	Seat      int
	Stack     int
	IsHost    bool
	Connected bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HandRecord captures one completed hand, including everything needed to
// audit the deal after the fact.
type HandRecord struct {
	ID         uint   `gorm:"primaryKey"`
	RoomCode   string `gorm:"index"`
	HandNumber int
	DeckHash   string
	MasterSalt string
	Board      string // space separated card codes
	Summary    []byte `gorm:"type:jsonb"`
	StartedAt  time.Time
	EndedAt    time.Time
}

// ActionRecord is one betting action in the audit trail.
type ActionRecord struct {
	ID         string `gorm:"primaryKey"`
	RoomCode   string `gorm:"index"`
	HandNumber int
	PlayerID   string
	Action     string
	Amount     *int
	Round      string
	CreatedAt  time.Time
}

// Store persists rooms, players, hands and actions. Implementations must
// be safe for concurrent use.
type Store interface {
	// Init prepares the backing schema.
	Init(ctx context.Context) error

	CreateRoom(ctx context.Context, rec RoomRecord) error
	UpdateRoomLock(ctx context.Context, code string, locked bool) error
	UpsertPlayer(ctx context.Context, rec PlayerRecord) error
	UpdatePlayerConnection(ctx context.Context, playerID string, connected bool) error
	RecordHand(ctx context.Context, rec HandRecord) error
	RecordAction(ctx context.Context, rec ActionRecord) error

	Close() error
}

// Noop discards every write. Used when no database is configured.
type Noop struct{}

func (Noop) Init(context.Context) error                           { return nil }
func (Noop) CreateRoom(context.Context, RoomRecord) error         { return nil }
func (Noop) UpdateRoomLock(context.Context, string, bool) error   { return nil }
func (Noop) UpsertPlayer(context.Context, PlayerRecord) error     { return nil }
func (Noop) UpdatePlayerConnection(context.Context, string, bool) error { return nil }
func (Noop) RecordHand(context.Context, HandRecord) error         { return nil }
func (Noop) RecordAction(context.Context, ActionRecord) error     { return nil }
func (Noop) Close() error                                         { return nil }
