package game

import (
	"sort"
	"time"

	"github.com/vanishedd/pokerwithyourfriends/internal/deck"
)

// HandView is the hand state shared with every player at the table.
// Hole cards never appear here; they belong to PlayerView for the
// viewer only. The deck commitment is public from the first deal but
// carries no master salt until the hand completes.
type HandView struct {
	HandNumber     int              `json:"handNumber"`
	Phase          Phase            `json:"phase"`
	Board          []deck.Card      `json:"board"`
	Pot            int              `json:"pot"`
	Pots           []Pot            `json:"pots,omitempty"`
	CurrentBet     int              `json:"currentBet"`
	MinimumRaise   int              `json:"minimumRaise"`
	DealerSeat     int              `json:"dealerSeat"`
	SmallBlindSeat int              `json:"smallBlindSeat"`
	BigBlindSeat   int              `json:"bigBlindSeat"`
	CurrentSeat    *int             `json:"currentSeat,omitempty"`
	PendingActions []Action         `json:"pendingActions"`
	Commitment     *deck.Commitment `json:"commitment,omitempty"`
}

// Snapshot is the full room state as one viewer sees it. Building one
// never mutates the room, so repeated snapshots of an unchanged room are
// identical.
type Snapshot struct {
	RoomCode    string        `json:"roomCode"`
	HostID      string        `json:"hostId"`
	Locked      bool          `json:"isLocked"`
	CreatedAt   time.Time     `json:"createdAt"`
	SmallBlind  int           `json:"smallBlind"`
	BigBlind    int           `json:"bigBlind"`
	Players     []PlayerView  `json:"players"`
	Hand        *HandView     `json:"hand,omitempty"`
	YourCards   []deck.Card   `json:"yourCards,omitempty"`
	Chat        []ChatMessage `json:"chat"`
	LastSummary *HandSummary  `json:"lastSummary,omitempty"`
	NextHandAt  *time.Time    `json:"nextHandAt,omitempty"`
}

// BuildSnapshot renders the room for one viewer. viewerID may be empty
// for a spectator view with no hole cards.
func BuildSnapshot(room *Room, viewerID string, smallBlind, bigBlind int) Snapshot {
	snapshot := Snapshot{
		RoomCode:   room.Code,
		HostID:     room.HostID,
		Locked:     room.Locked,
		CreatedAt:  room.CreatedAt,
		SmallBlind: smallBlind,
		BigBlind:   bigBlind,
		Players:    make([]PlayerView, 0, len(room.Players)),
		Chat:       append([]ChatMessage(nil), room.Chat...),
	}

	for _, p := range room.Players {
		snapshot.Players = append(snapshot.Players, p.View())
	}
	// Seated players first in seat order, then the bench by name.
	sort.SliceStable(snapshot.Players, func(i, j int) bool {
		a, b := snapshot.Players[i], snapshot.Players[j]
		switch {
		case a.Seat != nil && b.Seat != nil:
			return *a.Seat < *b.Seat
		case a.Seat != nil:
			return true
		case b.Seat != nil:
			return false
		default:
			return a.Name < b.Name
		}
	})

	if hand := room.Hand; hand != nil {
		view := &HandView{
			HandNumber:     hand.HandNumber,
			Phase:          hand.Phase,
			Board:          append([]deck.Card(nil), hand.Board...),
			Pot:            hand.Pot,
			Pots:           hand.Pots,
			CurrentBet:     hand.CurrentBet,
			MinimumRaise:   hand.MinimumRaise,
			DealerSeat:     hand.DealerSeat,
			SmallBlindSeat: hand.SmallBlindSeat,
			BigBlindSeat:   hand.BigBlindSeat,
			PendingActions: append([]Action(nil), hand.Actions...),
		}
		if hand.CurrentSeat != NoSeat {
			seat := hand.CurrentSeat
			view.CurrentSeat = &seat
		}
		if hand.Deck != nil {
			commitment := hand.Deck.Commitment
			if hand.Phase != PhaseComplete {
				commitment = commitment.Public()
			}
			view.Commitment = &commitment
		}
		snapshot.Hand = view

		if viewerID != "" {
			if viewer := room.PlayerByID(viewerID); viewer != nil && len(viewer.HoleCards) > 0 {
				snapshot.YourCards = append([]deck.Card(nil), viewer.HoleCards...)
			}
		}
	}

	if room.LastSummary != nil {
		snapshot.LastSummary = room.LastSummary
	}
	if !room.NextHandAt.IsZero() {
		at := room.NextHandAt
		snapshot.NextHandAt = &at
	}
	return snapshot
}
