package game

import (
	"time"

	"github.com/vanishedd/pokerwithyourfriends/internal/deck"
	"github.com/vanishedd/pokerwithyourfriends/internal/evaluator"
)

// Phase is the lifecycle stage of a hand (or the room's lobby before one).
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhasePreflop  Phase = "preflop"
	PhaseFlop     Phase = "flop"
	PhaseTurn     Phase = "turn"
	PhaseRiver    Phase = "river"
	PhaseShowdown Phase = "showdown"
	PhaseComplete Phase = "complete"
)

// ActionType is a betting action.
type ActionType string

const (
	ActionFold  ActionType = "fold"
	ActionCheck ActionType = "check"
	ActionCall  ActionType = "call"
	ActionBet   ActionType = "bet"
	ActionRaise ActionType = "raise"
)

// ActionPayload is a validated player request to act.
type ActionPayload struct {
	Type   ActionType `json:"type"`
	Amount *int       `json:"amount,omitempty"`
}

// Action is one entry of a hand's ordered action log.
type Action struct {
	ID        string     `json:"id"`
	PlayerID  string     `json:"playerId"`
	Type      ActionType `json:"type"`
	Amount    *int       `json:"amount,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	Round     Phase      `json:"round"`
}

// Pot is a main or side pot with the players eligible to win it. The sum
// of all pot amounts equals the sum of all players' cumulative bets.
type Pot struct {
	Amount            int      `json:"amount"`
	EligiblePlayerIDs []string `json:"eligiblePlayerIds"`
}

// Hand is one full deal from blinds through resolution. A room holds at
// most one live hand; resolution freezes it at PhaseComplete.
type Hand struct {
	HandNumber           int
	Deck                 *deck.CommittedDeck
	DeckPosition         int
	Board                []deck.Card
	BoardSecretPositions []int
	Phase                Phase
	DealerSeat           int
	SmallBlindSeat       int
	BigBlindSeat         int
	CurrentSeat          int // NoSeat when nobody is to act
	CurrentBet           int
	MinimumRaise         int
	Pot                  int
	Pots                 []Pot
	Actions              []Action
	StartedAt            time.Time
	EndedAt              time.Time
}

// Live reports whether the hand is still being played.
func (h *Hand) Live() bool {
	return h != nil && h.Phase != PhaseComplete
}

// Winner records one player's share of a resolved hand.
type Winner struct {
	PlayerID string               `json:"playerId"`
	Amount   int                  `json:"amount"`
	BestHand evaluator.Evaluation `json:"bestHand"`
}

// HandSummary is the frozen result of a completed hand.
type HandSummary struct {
	HandNumber int         `json:"handNumber"`
	Winners    []Winner    `json:"winners"`
	Board      []deck.Card `json:"board"`
	Actions    []Action    `json:"actions"`
	StartedAt  time.Time   `json:"startedAt"`
	EndedAt    time.Time   `json:"endedAt"`
}
