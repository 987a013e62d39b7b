package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotOrdersSeatsThenBench(t *testing.T) {
	room := testRoom(2000, 2000)
	room.Players[0].Seat = 3
	room.Players[1].Seat = 1
	room.Players = append(room.Players,
		&Player{ID: "bench-z", Name: "Zoe", Seat: NoSeat},
		&Player{ID: "bench-a", Name: "Ada", Seat: NoSeat},
	)

	snapshot := BuildSnapshot(room, "", 10, 20)
	require.Len(t, snapshot.Players, 4)
	assert.Equal(t, "player-1", snapshot.Players[0].ID)
	assert.Equal(t, "player-0", snapshot.Players[1].ID)
	assert.Equal(t, "bench-a", snapshot.Players[2].ID)
	assert.Equal(t, "bench-z", snapshot.Players[3].ID)
}

func TestSnapshotHoleCardsOnlyForViewer(t *testing.T) {
	engine := testEngine(t, "AS AH KS KH")
	room := testRoom(2000, 2000)
	_, err := engine.StartHand(room)
	require.NoError(t, err)

	mine := BuildSnapshot(room, "player-0", 10, 20)
	require.Len(t, mine.YourCards, 2)
	assert.Equal(t, "AS", mine.YourCards[0].Code())
	assert.Equal(t, "KS", mine.YourCards[1].Code())

	theirs := BuildSnapshot(room, "player-1", 10, 20)
	require.Len(t, theirs.YourCards, 2)
	assert.Equal(t, "AH", theirs.YourCards[0].Code())

	spectator := BuildSnapshot(room, "", 10, 20)
	assert.Empty(t, spectator.YourCards)
}

func TestSnapshotWithholdsMasterSaltUntilComplete(t *testing.T) {
	engine := testEngine(t, "")
	room := testRoom(2000, 2000)
	_, err := engine.StartHand(room)
	require.NoError(t, err)

	live := BuildSnapshot(room, "player-0", 10, 20)
	require.NotNil(t, live.Hand)
	require.NotNil(t, live.Hand.Commitment)
	assert.Empty(t, live.Hand.Commitment.MasterSalt)
	assert.Len(t, live.Hand.Commitment.HashedCards, 52)
	assert.NotEmpty(t, live.Hand.Commitment.DeckHash)

	_, err = engine.HandleAction(room, "player-0", ActionPayload{Type: ActionFold})
	require.NoError(t, err)

	done := BuildSnapshot(room, "player-0", 10, 20)
	require.NotNil(t, done.Hand)
	require.NotNil(t, done.Hand.Commitment)
	assert.Equal(t, "master", done.Hand.Commitment.MasterSalt)
}

func TestSnapshotIsIdempotent(t *testing.T) {
	engine := testEngine(t, "")
	room := testRoom(2000, 2000, 2000)
	_, err := engine.StartHand(room)
	require.NoError(t, err)

	first := BuildSnapshot(room, "player-1", 10, 20)
	second := BuildSnapshot(room, "player-1", 10, 20)
	assert.Equal(t, first, second)
}

func TestSnapshotCurrentSeatOmittedWhenNobodyActs(t *testing.T) {
	room := testRoom(2000, 2000)
	snapshot := BuildSnapshot(room, "player-0", 10, 20)
	assert.Nil(t, snapshot.Hand)

	room.Hand = &Hand{HandNumber: 1, Phase: PhaseComplete, CurrentSeat: NoSeat}
	snapshot = BuildSnapshot(room, "player-0", 10, 20)
	require.NotNil(t, snapshot.Hand)
	assert.Nil(t, snapshot.Hand.CurrentSeat)
}
