package game

import "errors"

// Precondition violations. None of these mutate hand or room state.
var (
	ErrInsufficientPlayers = errors.New("game: need at least two players to start a hand")
	ErrHandInProgress      = errors.New("game: hand already in progress")
	ErrNoActiveHand        = errors.New("game: no active hand")
	ErrUnknownPlayer       = errors.New("game: unknown player")
	ErrNotYourTurn         = errors.New("game: it is not your turn")
	ErrCannotAct           = errors.New("game: player cannot act")
	ErrCheckFacingBet      = errors.New("game: cannot check while facing a bet")
	ErrNothingToCall       = errors.New("game: nothing to call")
	ErrBetTooSmall         = errors.New("game: bet/raise must exceed current bet")
	ErrRaiseBelowMinimum   = errors.New("game: raise below minimum")
	ErrInsufficientChips   = errors.New("game: insufficient chips")
	ErrUnsupportedAction   = errors.New("game: unsupported action")
)

// ErrDeckExhausted indicates the deck ran out mid-deal. With six seats and
// five streets a 52-card deck cannot run out, so this is a hand-fatal
// programming defect rather than a user error.
var ErrDeckExhausted = errors.New("game: deck exhausted while dealing")
