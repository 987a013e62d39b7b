package game

import (
	"time"

	"github.com/vanishedd/pokerwithyourfriends/internal/deck"
)

// NoSeat marks an unseated player.
const NoSeat = -1

// PlayerStatus describes what a player is doing right now.
type PlayerStatus string

const (
	StatusWaiting      PlayerStatus = "waiting"
	StatusActing       PlayerStatus = "acting"
	StatusFolded       PlayerStatus = "folded"
	StatusAllIn        PlayerStatus = "all-in"
	StatusOut          PlayerStatus = "out"
	StatusDisconnected PlayerStatus = "disconnected"
)

// Player is a seated or waiting participant of a room. The stack persists
// across hands; bet, totalBet, fold/all-in flags, hole cards and hasActed
// are per-hand transients reset by StartHand.
type Player struct {
	ID        string
	Token     string
	Name      string
	Seat      int
	Stack     int
	IsHost    bool
	Connected bool
	Status    PlayerStatus

	Bet                 int
	TotalBet            int
	HasFolded           bool
	IsAllIn             bool
	HoleCards           []deck.Card
	HoleSecretPositions []int
	HasActed            bool
	LastActionAt        time.Time
}

// Seated reports whether the player holds a seat.
func (p *Player) Seated() bool {
	return p.Seat != NoSeat
}

// CanAct reports whether the player may take a betting action.
func (p *Player) CanAct() bool {
	return !p.HasFolded && !p.IsAllIn && p.Status != StatusOut
}

// resetForNewHand clears the per-hand transient fields. Players without
// chips sit out the hand.
func (p *Player) resetForNewHand() {
	p.Bet = 0
	p.TotalBet = 0
	p.HasFolded = false
	p.IsAllIn = false
	p.HoleCards = nil
	p.HoleSecretPositions = nil
	p.HasActed = false
	if p.Stack > 0 {
		p.Status = StatusWaiting
	} else {
		p.Status = StatusOut
	}
}

// PlayerView is the public projection of a player sent to every client.
type PlayerView struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Stack     int          `json:"stack"`
	Seat      *int         `json:"seat"`
	IsHost    bool         `json:"isHost"`
	Connected bool         `json:"connected"`
	Status    PlayerStatus `json:"status"`
	Bet       int          `json:"bet"`
	TotalBet  int          `json:"totalBet"`
	HasFolded bool         `json:"hasFolded"`
	IsAllIn   bool         `json:"isAllIn"`
}

// View builds the public projection. Hole cards never appear here.
func (p *Player) View() PlayerView {
	var seat *int
	if p.Seated() {
		s := p.Seat
		seat = &s
	}
	return PlayerView{
		ID:        p.ID,
		Name:      p.Name,
		Stack:     p.Stack,
		Seat:      seat,
		IsHost:    p.IsHost,
		Connected: p.Connected,
		Status:    p.Status,
		Bet:       p.Bet,
		TotalBet:  p.TotalBet,
		HasFolded: p.HasFolded,
		IsAllIn:   p.IsAllIn,
	}
}
