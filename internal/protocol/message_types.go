package protocol

import (
	"github.com/vanishedd/pokerwithyourfriends/internal/deck"
	"github.com/vanishedd/pokerwithyourfriends/internal/game"
)

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
// These are used for client-server communication protocol
const (
	// Client to server messages
	MessageTypePlayerAction MessageType = "player_action"
	MessageTypeChatSend     MessageType = "chat_send"
	MessageTypeRequestState MessageType = "request_state"
	MessageTypeStartHand    MessageType = "start_hand"
	MessageTypeToggleLock   MessageType = "toggle_lock"

	// Server to client messages
	MessageTypeRoomState      MessageType = "room_state"
	MessageTypeChatMessage    MessageType = "chat_message"
	MessageTypeError          MessageType = "error"
	MessageTypeDeckCommitment MessageType = "deck_commitment"
	MessageTypeCardReveal     MessageType = "card_reveal"
	MessageTypeHandComplete   MessageType = "hand_complete"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// Client → Server Messages

// PlayerActionData carries one betting decision.
type PlayerActionData struct {
	Action game.ActionType `json:"action"`
	Amount *int            `json:"amount,omitempty"`
}

// ChatSendData carries one chat line. The server clamps the length.
type ChatSendData struct {
	Message string `json:"message"`
}

// Server → Client Messages

// ErrorData reports a rejected request without closing the connection.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DeckCommitmentData publishes the deck promise at the start of a hand,
// before any card is revealed. The master salt is never present here.
type DeckCommitmentData struct {
	HandNumber int             `json:"handNumber"`
	Commitment deck.Commitment `json:"commitment"`
}

// CardRevealData delivers salted proofs for cards as they become visible.
// Hole card reveals go only to their owner; board reveals to everyone.
type CardRevealData struct {
	HandNumber int           `json:"handNumber"`
	Reveals    []deck.Reveal `json:"reveals"`
}

// HandCompleteData closes out a hand: the result plus the full commitment
// including the master salt, so any client can audit the deal.
type HandCompleteData struct {
	Summary    game.HandSummary `json:"summary"`
	Commitment deck.Commitment  `json:"commitment"`
	NextHandAt *int64           `json:"nextHandAt,omitempty"` // unix millis
}
