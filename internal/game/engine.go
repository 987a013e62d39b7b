package game

import (
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vanishedd/pokerwithyourfriends/internal/deck"
	"github.com/vanishedd/pokerwithyourfriends/internal/evaluator"
)

// ActionRecorder receives every successful action for the audit trail.
// Implementations must not block; failures never reach gameplay.
type ActionRecorder func(roomCode string, handNumber int, action Action)

// Engine is the betting state machine. It owns a hand's lifecycle on
// behalf of one room at a time: blinds, turn order, legal-action checks,
// round advancement and showdown resolution. The engine itself holds no
// per-room state, so one instance serves every room; the caller guarantees
// exclusive access to the room being mutated.
type Engine struct {
	logger       *log.Logger
	smallBlind   int
	bigBlind     int
	minPlayers   int
	commit       func() (*deck.CommittedDeck, error)
	now          func() time.Time
	recordAction ActionRecorder
}

// EngineOption customizes an engine.
type EngineOption func(*Engine)

// WithCommitFunc overrides deck commitment, for deterministic decks in tests.
func WithCommitFunc(commit func() (*deck.CommittedDeck, error)) EngineOption {
	return func(e *Engine) { e.commit = commit }
}

// WithNow overrides the engine's clock, for deterministic timestamps.
func WithNow(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// WithActionRecorder wires the fire-and-forget audit sink.
func WithActionRecorder(record ActionRecorder) EngineOption {
	return func(e *Engine) { e.recordAction = record }
}

// NewEngine creates a betting engine with the given blind sizes.
func NewEngine(logger *log.Logger, smallBlind, bigBlind, minPlayers int, opts ...EngineOption) *Engine {
	e := &Engine{
		logger:     logger.WithPrefix("engine"),
		smallBlind: smallBlind,
		bigBlind:   bigBlind,
		minPlayers: minPlayers,
		commit:     func() (*deck.CommittedDeck, error) { return deck.Commit(nil) },
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SmallBlind returns the configured small blind.
func (e *Engine) SmallBlind() int { return e.smallBlind }

// BigBlind returns the configured big blind.
func (e *Engine) BigBlind() int { return e.bigBlind }

// StartHand deals a fresh hand for the room: resets per-hand player state,
// commits a new deck, rotates the dealer, posts blinds and deals hole
// cards. Fails with ErrInsufficientPlayers when fewer than two seated
// players can fund it.
func (e *Engine) StartHand(room *Room) (*Hand, error) {
	if room.EligiblePlayers() < e.minPlayers {
		return nil, ErrInsufficientPlayers
	}

	committed, err := e.commit()
	if err != nil {
		return nil, err
	}

	room.resetPlayersForNewHand()

	orderedSeats := room.OrderedSeats()
	previousDealer := NoSeat
	if room.Hand != nil {
		previousDealer = room.Hand.DealerSeat
	} else if len(orderedSeats) > 0 {
		previousDealer = orderedSeats[0]
	}
	dealerSeat := room.NextSeatFrom(previousDealer)
	smallBlindSeat := room.NextSeatFrom(dealerSeat)
	bigBlindSeat := room.NextSeatFrom(smallBlindSeat)

	hand := &Hand{
		HandNumber:     room.HandCounter + 1,
		Deck:           committed,
		Phase:          PhasePreflop,
		DealerSeat:     dealerSeat,
		SmallBlindSeat: smallBlindSeat,
		BigBlindSeat:   bigBlindSeat,
		CurrentSeat:    NoSeat,
		CurrentBet:     e.bigBlind,
		MinimumRaise:   e.bigBlind,
		StartedAt:      e.now(),
	}

	room.HandCounter = hand.HandNumber
	room.Hand = hand
	room.LastSummary = nil

	e.postBlind(room, hand, smallBlindSeat, e.smallBlind)
	e.postBlind(room, hand, bigBlindSeat, e.bigBlind)
	if err := e.dealHoleCards(room, hand); err != nil {
		return nil, err
	}

	hand.CurrentSeat = e.findNextActingSeat(room, hand, bigBlindSeat)
	if hand.CurrentSeat != NoSeat {
		markActingSeat(room, hand.CurrentSeat)
	}

	e.logger.Info("hand started",
		"room", room.Code,
		"hand", hand.HandNumber,
		"dealer", dealerSeat,
		"smallBlind", smallBlindSeat,
		"bigBlind", bigBlindSeat)

	return hand, nil
}

// HandleAction applies one validated player action. On hand completion it
// returns the summary; otherwise it advances the turn and returns nil.
// Every error is a precondition violation raised before any mutation.
func (e *Engine) HandleAction(room *Room, playerID string, payload ActionPayload) (*HandSummary, error) {
	hand := room.Hand
	if !hand.Live() {
		return nil, ErrNoActiveHand
	}

	player := room.PlayerByID(playerID)
	if player == nil {
		return nil, ErrUnknownPlayer
	}
	if player.Seat != hand.CurrentSeat {
		return nil, ErrNotYourTurn
	}
	if !player.CanAct() {
		return nil, ErrCannotAct
	}

	previousBet := player.Bet
	var loggedAmount *int

	switch payload.Type {
	case ActionFold:
		player.HasFolded = true
		player.Status = StatusFolded

	case ActionCheck:
		if player.Bet != hand.CurrentBet {
			return nil, ErrCheckFacingBet
		}
		player.Status = StatusWaiting

	case ActionCall:
		owed := hand.CurrentBet - player.Bet
		if owed <= 0 {
			return nil, ErrNothingToCall
		}
		e.commitChips(player, hand, min(player.Stack, owed))
		called := player.Bet - previousBet
		loggedAmount = &called

	case ActionBet, ActionRaise:
		if err := e.applyBetOrRaise(room, player, hand, payload); err != nil {
			return nil, err
		}
		loggedAmount = payload.Amount

	default:
		return nil, ErrUnsupportedAction
	}

	player.HasActed = true
	player.LastActionAt = e.now()

	action := Action{
		ID:        uuid.NewString(),
		PlayerID:  player.ID,
		Type:      payload.Type,
		Amount:    loggedAmount,
		CreatedAt: player.LastActionAt,
		Round:     hand.Phase,
	}
	hand.Actions = append(hand.Actions, action)
	room.HandHistory = append(room.HandHistory, action)
	if e.recordAction != nil {
		e.recordAction(room.Code, hand.HandNumber, action)
	}

	summary, err := e.tryResolve(room, hand)
	if err != nil {
		return nil, err
	}
	if summary != nil {
		return summary, nil
	}

	e.advanceTurn(room, hand)
	return nil, nil
}

// applyBetOrRaise validates fully before moving any chips.
func (e *Engine) applyBetOrRaise(room *Room, player *Player, hand *Hand, payload ActionPayload) error {
	if payload.Amount == nil || *payload.Amount <= hand.CurrentBet {
		return ErrBetTooSmall
	}
	targetBet := *payload.Amount
	additional := targetBet - player.Bet
	if additional > player.Stack {
		return ErrInsufficientChips
	}
	raiseAmount := targetBet - hand.CurrentBet
	if hand.CurrentBet > 0 && raiseAmount < hand.MinimumRaise {
		return ErrRaiseBelowMinimum
	}

	e.commitChips(player, hand, additional)
	hand.CurrentBet = targetBet
	if raiseAmount > 0 {
		hand.MinimumRaise = raiseAmount
	} else {
		hand.MinimumRaise = e.bigBlind
	}

	// Everyone else still in contention must act again.
	for _, other := range room.Players {
		if other.ID != player.ID && other.CanAct() {
			other.HasActed = false
		}
	}
	return nil
}

// commitChips moves chips from the player's stack into the pot, flagging
// all-in when the stack empties. amount must not exceed the stack.
func (e *Engine) commitChips(player *Player, hand *Hand, amount int) {
	player.Stack -= amount
	player.Bet += amount
	player.TotalBet += amount
	hand.Pot += amount
	if player.Stack == 0 {
		player.IsAllIn = true
		player.Status = StatusAllIn
	} else {
		player.Status = StatusWaiting
	}
}

// postBlind posts a forced blind capped at the poster's stack.
func (e *Engine) postBlind(room *Room, hand *Hand, seat, blind int) {
	player := room.PlayerAtSeat(seat)
	if player == nil {
		return
	}
	e.commitChips(player, hand, min(player.Stack, blind))
}

// dealHoleCards deals two passes in seat order, recording the deck
// positions so per-player reveals can be produced later.
func (e *Engine) dealHoleCards(room *Room, hand *Hand) error {
	seats := room.OrderedSeats()
	for pass := 0; pass < 2; pass++ {
		for _, seat := range seats {
			player := room.PlayerAtSeat(seat)
			if player == nil {
				continue
			}
			secret, err := e.nextSecret(hand)
			if err != nil {
				return err
			}
			player.HoleCards = append(player.HoleCards, secret.Card)
			player.HoleSecretPositions = append(player.HoleSecretPositions, secret.Position)
		}
	}
	return nil
}

func (e *Engine) nextSecret(hand *Hand) (deck.SecretCard, error) {
	if hand.DeckPosition >= len(hand.Deck.Secrets) {
		return deck.SecretCard{}, ErrDeckExhausted
	}
	secret := hand.Deck.Secrets[hand.DeckPosition]
	hand.DeckPosition++
	return secret, nil
}

// markActingSeat flags the acting player; everyone else still able to act
// goes back to waiting.
func markActingSeat(room *Room, seat int) {
	for _, p := range room.Players {
		if p.Seat == seat {
			p.Status = StatusActing
		} else if p.CanAct() && p.Status != StatusDisconnected {
			p.Status = StatusWaiting
		}
	}
}

func (e *Engine) advanceTurn(room *Room, hand *Hand) {
	from := hand.CurrentSeat
	if from == NoSeat {
		from = hand.DealerSeat
	}
	next := e.findNextActingSeat(room, hand, from)
	if next == NoSeat {
		return
	}
	hand.CurrentSeat = next
	markActingSeat(room, next)
}

// findNextActingSeat scans seats clockwise after fromSeat, skipping
// folded/all-in/out players and those who have already acted at the
// current bet level. Returns NoSeat when nobody remains to act.
func (e *Engine) findNextActingSeat(room *Room, hand *Hand, fromSeat int) int {
	seats := room.OrderedSeats()
	if len(seats) == 0 {
		return NoSeat
	}
	startIndex := -1
	for i, seat := range seats {
		if seat == fromSeat {
			startIndex = i
			break
		}
	}
	for offset := 1; offset <= len(seats); offset++ {
		var index int
		if startIndex >= 0 {
			index = (startIndex + offset) % len(seats)
		} else {
			index = (offset - 1) % len(seats)
		}
		candidate := room.PlayerAtSeat(seats[index])
		if candidate == nil || !candidate.CanAct() || len(candidate.HoleCards) == 0 {
			continue
		}
		if candidate.Bet == hand.CurrentBet && candidate.HasActed {
			continue
		}
		return seats[index]
	}
	return NoSeat
}

// tryResolve closes the hand or the betting round when nothing is pending:
// a single un-folded player wins immediately; otherwise the round closes
// once every actionable player has acted and matched the current bet.
func (e *Engine) tryResolve(room *Room, hand *Hand) (*HandSummary, error) {
	contenders := room.contenders()
	if len(contenders) == 1 {
		return e.resolveSingleWinner(room, hand, contenders[0]), nil
	}

	for _, p := range contenders {
		if p.IsAllIn || p.Stack == 0 {
			continue
		}
		if !p.HasActed || p.Bet != hand.CurrentBet {
			return nil, nil
		}
	}
	return e.advancePhase(room, hand)
}

// advancePhase moves to the next street, revealing board cards, or runs
// the showdown after the river.
func (e *Engine) advancePhase(room *Room, hand *Hand) (*HandSummary, error) {
	next := nextPhase(hand.Phase)
	if next == PhaseShowdown || next == PhaseComplete {
		return e.resolveShowdown(room, hand)
	}

	room.resetBets()
	hand.CurrentBet = 0
	hand.MinimumRaise = e.bigBlind
	hand.Phase = next

	switch next {
	case PhaseFlop:
		e.burnCard(hand)
		if err := e.dealBoard(hand, 3); err != nil {
			return nil, err
		}
	case PhaseTurn, PhaseRiver:
		e.burnCard(hand)
		if err := e.dealBoard(hand, 1); err != nil {
			return nil, err
		}
	}

	hand.CurrentSeat = e.findNextActingSeat(room, hand, hand.DealerSeat)
	if hand.CurrentSeat != NoSeat {
		markActingSeat(room, hand.CurrentSeat)
		return nil, nil
	}

	// Everyone left is all-in: keep dealing streets through to showdown.
	return e.advancePhase(room, hand)
}

func nextPhase(current Phase) Phase {
	switch current {
	case PhasePreflop:
		return PhaseFlop
	case PhaseFlop:
		return PhaseTurn
	case PhaseTurn:
		return PhaseRiver
	case PhaseRiver:
		return PhaseShowdown
	default:
		return PhaseComplete
	}
}

func (e *Engine) burnCard(hand *Hand) {
	hand.DeckPosition++
}

func (e *Engine) dealBoard(hand *Hand, count int) error {
	for i := 0; i < count; i++ {
		secret, err := e.nextSecret(hand)
		if err != nil {
			return err
		}
		hand.Board = append(hand.Board, secret.Card)
		hand.BoardSecretPositions = append(hand.BoardSecretPositions, secret.Position)
	}
	return nil
}

// resolveSingleWinner awards the whole pot without evaluation when all
// but one player folded.
func (e *Engine) resolveSingleWinner(room *Room, hand *Hand, winner *Player) *HandSummary {
	potAmount := hand.Pot
	winner.Stack += potAmount
	hand.Pots = []Pot{{Amount: potAmount, EligiblePlayerIDs: []string{winner.ID}}}
	e.freezeHand(room, hand)

	return &HandSummary{
		HandNumber: hand.HandNumber,
		Winners: []Winner{{
			PlayerID: winner.ID,
			Amount:   potAmount,
			BestHand: evaluator.Evaluation{Description: "Won by fold"},
		}},
		Board:     append([]deck.Card(nil), hand.Board...),
		Actions:   append([]Action(nil), hand.Actions...),
		StartedAt: hand.StartedAt,
		EndedAt:   hand.EndedAt,
	}
}

// resolveShowdown evaluates every contender, builds side pots from the
// cumulative contributions and pays each pot to its strongest eligible
// hands, splitting evenly with odd chips going to the lowest seats first.
func (e *Engine) resolveShowdown(room *Room, hand *Hand) (*HandSummary, error) {
	type contention struct {
		player *Player
		eval   evaluator.Evaluation
	}

	var contenders []contention
	for _, p := range room.Players {
		if p.HasFolded || len(p.HoleCards) != 2 {
			continue
		}
		eval, err := evaluator.Evaluate(append(append([]deck.Card(nil), p.HoleCards...), hand.Board...))
		if err != nil {
			return nil, err
		}
		contenders = append(contenders, contention{player: p, eval: eval})
	}

	pots := buildPots(room.Players)
	payouts := make(map[string]int)

	for _, pot := range pots {
		var eligible []contention
		for _, c := range contenders {
			for _, id := range pot.EligiblePlayerIDs {
				if c.player.ID == id {
					eligible = append(eligible, c)
					break
				}
			}
		}
		if len(eligible) == 0 {
			continue
		}

		best := eligible[0].eval.Strength
		for _, c := range eligible[1:] {
			if c.eval.Strength > best {
				best = c.eval.Strength
			}
		}
		var winners []contention
		for _, c := range eligible {
			if c.eval.Strength == best {
				winners = append(winners, c)
			}
		}

		// Deterministic odd-chip policy: lowest seats first.
		sort.SliceStable(winners, func(i, j int) bool {
			return winners[i].player.Seat < winners[j].player.Seat
		})

		baseShare := pot.Amount / len(winners)
		remainder := pot.Amount % len(winners)
		for _, w := range winners {
			payout := baseShare
			if remainder > 0 {
				payout++
				remainder--
			}
			w.player.Stack += payout
			payouts[w.player.ID] += payout
		}
	}

	hand.Pots = pots
	e.freezeHand(room, hand)

	summary := &HandSummary{
		HandNumber: hand.HandNumber,
		Board:      append([]deck.Card(nil), hand.Board...),
		Actions:    append([]Action(nil), hand.Actions...),
		StartedAt:  hand.StartedAt,
		EndedAt:    hand.EndedAt,
	}
	for _, c := range contenders {
		if amount, ok := payouts[c.player.ID]; ok {
			summary.Winners = append(summary.Winners, Winner{
				PlayerID: c.player.ID,
				Amount:   amount,
				BestHand: c.eval,
			})
		}
	}
	return summary, nil
}

// freezeHand marks the hand complete and settles player statuses.
func (e *Engine) freezeHand(room *Room, hand *Hand) {
	hand.Pot = 0
	hand.CurrentSeat = NoSeat
	hand.Phase = PhaseComplete
	hand.EndedAt = e.now()

	for _, p := range room.Players {
		if p.Status == StatusOut || p.Status == StatusDisconnected {
			continue
		}
		if p.HasFolded {
			p.Status = StatusFolded
		} else {
			p.Status = StatusWaiting
		}
	}

	e.logger.Info("hand complete", "room", room.Code, "hand", hand.HandNumber, "pots", len(hand.Pots))
}
