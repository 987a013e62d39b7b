package store

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu      sync.Mutex
	ops     []string
	failOn  string
	blocked chan struct{}
}

func (f *fakeStore) record(op string) error {
	if f.blocked != nil {
		<-f.blocked
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, op)
	if op == f.failOn {
		return errors.New("boom")
	}
	return nil
}

func (f *fakeStore) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ops...)
}

func (f *fakeStore) Init(context.Context) error { return f.record("init") }
func (f *fakeStore) CreateRoom(_ context.Context, rec RoomRecord) error {
	return f.record("create_room:" + rec.Code)
}
func (f *fakeStore) UpdateRoomLock(_ context.Context, code string, _ bool) error {
	return f.record("update_room_lock:" + code)
}
func (f *fakeStore) UpsertPlayer(_ context.Context, rec PlayerRecord) error {
	return f.record("upsert_player:" + rec.ID)
}
func (f *fakeStore) UpdatePlayerConnection(_ context.Context, id string, _ bool) error {
	return f.record("update_player_connection:" + id)
}
func (f *fakeStore) RecordHand(_ context.Context, rec HandRecord) error {
	return f.record("record_hand:" + rec.RoomCode)
}
func (f *fakeStore) RecordAction(_ context.Context, rec ActionRecord) error {
	return f.record("record_action:" + rec.ID)
}
func (f *fakeStore) Close() error { return nil }

func TestWriterPreservesOrder(t *testing.T) {
	fake := &fakeStore{}
	w := NewWriter(fake, log.New(io.Discard), 16)

	w.CreateRoom(RoomRecord{Code: "AAAAA"})
	w.UpsertPlayer(PlayerRecord{ID: "p1"})
	w.RecordAction(ActionRecord{ID: "a1"})
	w.RecordHand(HandRecord{RoomCode: "AAAAA"})
	require.NoError(t, w.Close())

	assert.Equal(t, []string{
		"create_room:AAAAA",
		"upsert_player:p1",
		"record_action:a1",
		"record_hand:AAAAA",
	}, fake.recorded())
}

func TestWriterSurvivesStoreErrors(t *testing.T) {
	fake := &fakeStore{failOn: "upsert_player:p1"}
	w := NewWriter(fake, log.New(io.Discard), 16)

	w.UpsertPlayer(PlayerRecord{ID: "p1"})
	w.CreateRoom(RoomRecord{Code: "BBBBB"})
	require.NoError(t, w.Close())

	assert.Equal(t, []string{"upsert_player:p1", "create_room:BBBBB"}, fake.recorded())
}

func TestWriterDropsWhenQueueFull(t *testing.T) {
	release := make(chan struct{})
	fake := &fakeStore{blocked: release}
	w := NewWriter(fake, log.New(io.Discard), 1)

	// First write occupies the drain goroutine, second fills the queue,
	// third must be dropped without blocking.
	w.CreateRoom(RoomRecord{Code: "ONE"})
	w.CreateRoom(RoomRecord{Code: "TWO"})
	w.CreateRoom(RoomRecord{Code: "THREE"})

	close(release)
	require.NoError(t, w.Close())

	recorded := fake.recorded()
	assert.LessOrEqual(t, len(recorded), 2)
	assert.Contains(t, recorded, "create_room:ONE")
}
