package game

import (
	"sort"
	"strings"
	"time"
)

// ChatBufferSize bounds the room chat to the most recent entries.
const ChatBufferSize = 50

// ChatMessage is one chat entry, broadcast verbatim after length clamping.
type ChatMessage struct {
	ID        string    `json:"id"`
	PlayerID  string    `json:"playerId"`
	Name      string    `json:"name"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Room is the state of one private table. It owns its players and its
// current hand; it carries no synchronization of its own, the coordinator
// guarantees exclusive access per room.
type Room struct {
	Code        string
	HostID      string
	CreatedAt   time.Time
	Locked      bool
	Players     []*Player
	Hand        *Hand
	Chat        []ChatMessage
	HandHistory []Action
	HandCounter int
	LastSummary *HandSummary
	NextHandAt  time.Time // zero when no hand is scheduled
}

// PlayerByID returns the player with the given id, or nil.
func (r *Room) PlayerByID(id string) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PlayerByToken returns the player holding the given credential, or nil.
func (r *Room) PlayerByToken(token string) *Player {
	for _, p := range r.Players {
		if p.Token == token {
			return p
		}
	}
	return nil
}

// HasName reports whether a player with the given display name exists.
// Names collide case-insensitively.
func (r *Room) HasName(name string) bool {
	for _, p := range r.Players {
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

// SeatedPlayers returns the players holding seats.
func (r *Room) SeatedPlayers() []*Player {
	seated := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		if p.Seated() {
			seated = append(seated, p)
		}
	}
	return seated
}

// EligiblePlayers counts seated players able to fund a new hand.
func (r *Room) EligiblePlayers() int {
	count := 0
	for _, p := range r.Players {
		if p.Seated() && p.Stack > 0 {
			count++
		}
	}
	return count
}

// OrderedSeats returns the occupied seat numbers in ascending order.
func (r *Room) OrderedSeats() []int {
	seats := make([]int, 0, len(r.Players))
	for _, p := range r.Players {
		if p.Seated() {
			seats = append(seats, p.Seat)
		}
	}
	sort.Ints(seats)
	return seats
}

// NextSeatFrom returns the next occupied seat clockwise after startSeat,
// wrapping around. Pass NoSeat to get the lowest occupied seat. Returns
// NoSeat when the room has no seated players.
func (r *Room) NextSeatFrom(startSeat int) int {
	seats := r.OrderedSeats()
	if len(seats) == 0 {
		return NoSeat
	}
	if startSeat == NoSeat {
		return seats[0]
	}
	for _, seat := range seats {
		if seat > startSeat {
			return seat
		}
	}
	return seats[0]
}

// PlayerAtSeat returns the player at the given seat, or nil.
func (r *Room) PlayerAtSeat(seat int) *Player {
	if seat == NoSeat {
		return nil
	}
	for _, p := range r.Players {
		if p.Seat == seat {
			return p
		}
	}
	return nil
}

// AssignNextSeat seats the player at the lowest free seat and returns it.
func (r *Room) AssignNextSeat(p *Player, maxSeats int) int {
	taken := make(map[int]bool, len(r.Players))
	for _, existing := range r.Players {
		if existing.Seated() {
			taken[existing.Seat] = true
		}
	}
	for seat := 0; seat < maxSeats; seat++ {
		if !taken[seat] {
			p.Seat = seat
			return seat
		}
	}
	p.Seat = NoSeat
	return NoSeat
}

// AppendChat pushes a chat message onto the bounded ring buffer.
func (r *Room) AppendChat(msg ChatMessage) {
	r.Chat = append(r.Chat, msg)
	if len(r.Chat) > ChatBufferSize {
		r.Chat = r.Chat[len(r.Chat)-ChatBufferSize:]
	}
}

// resetPlayersForNewHand clears every player's per-hand transients.
func (r *Room) resetPlayersForNewHand() {
	for _, p := range r.Players {
		p.resetForNewHand()
	}
}

// resetBets clears per-round bet state at the start of a new street.
func (r *Room) resetBets() {
	for _, p := range r.Players {
		p.Bet = 0
		p.HasActed = false
		if !p.HasFolded && !p.IsAllIn && p.Stack > 0 && p.Status != StatusOut {
			p.Status = StatusWaiting
		}
	}
}

// contenders returns the players still in the hand: dealt in, not out,
// not folded. Players who joined after the deal never contend.
func (r *Room) contenders() []*Player {
	active := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		if len(p.HoleCards) > 0 && p.Status != StatusOut && !p.HasFolded {
			active = append(active, p)
		}
	}
	return active
}
