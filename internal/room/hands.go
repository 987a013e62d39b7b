package room

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/vanishedd/pokerwithyourfriends/internal/deck"
	"github.com/vanishedd/pokerwithyourfriends/internal/game"
	"github.com/vanishedd/pokerwithyourfriends/internal/protocol"
	"github.com/vanishedd/pokerwithyourfriends/internal/store"
)

// StartHand deals a new hand on the host's request. A pending
// auto-continuation timer is cancelled first.
func (c *Coordinator) StartHand(code, token string) error {
	lr, err := c.room(code)
	if err != nil {
		return err
	}

	lr.mu.Lock()
	defer lr.mu.Unlock()

	player := lr.state.PlayerByToken(token)
	if player == nil {
		return ErrUnknownToken
	}
	if player.ID != lr.state.HostID {
		return ErrNotHost
	}
	if lr.state.Hand.Live() {
		return game.ErrHandInProgress
	}

	c.cancelNextHand(lr)
	hand, err := c.engine.StartHand(lr.state)
	if err != nil {
		return err
	}
	c.announceHand(lr.state, hand)
	return nil
}

// HandleAction applies a betting action under the room lock. Board
// reveals and fresh snapshots go out on success; a completed hand is
// recorded and the next one scheduled.
func (c *Coordinator) HandleAction(code, playerID string, payload game.ActionPayload) error {
	lr, err := c.room(code)
	if err != nil {
		return err
	}

	lr.mu.Lock()
	defer lr.mu.Unlock()

	hand := lr.state.Hand
	boardBefore := 0
	if hand != nil {
		boardBefore = len(hand.Board)
	}

	summary, err := c.engine.HandleAction(lr.state, playerID, payload)
	if err != nil {
		return err
	}

	if newReveals := c.boardReveals(hand, boardBefore); len(newReveals) > 0 {
		c.broadcast(lr.state, protocol.MessageTypeCardReveal, protocol.CardRevealData{
			HandNumber: hand.HandNumber,
			Reveals:    newReveals,
		})
	}

	if summary != nil {
		c.completeHand(lr, hand, summary)
	}
	c.broadcastState(lr.state)
	return nil
}

// announceHand publishes a freshly dealt hand: the public commitment to
// everyone, each player's hole card proofs to their own connections only,
// then per-viewer snapshots.
func (c *Coordinator) announceHand(state *game.Room, hand *game.Hand) {
	c.broadcast(state, protocol.MessageTypeDeckCommitment, protocol.DeckCommitmentData{
		HandNumber: hand.HandNumber,
		Commitment: hand.Deck.Commitment.Public(),
	})

	for _, p := range state.Players {
		if len(p.HoleSecretPositions) == 0 {
			continue
		}
		reveals, err := holeReveals(hand, p)
		if err != nil {
			c.logger.Error("building hole reveals", "room", state.Code, "player", p.ID, "error", err)
			continue
		}
		c.sendToToken(p.Token, protocol.MessageTypeCardReveal, protocol.CardRevealData{
			HandNumber: hand.HandNumber,
			Reveals:    reveals,
		})
	}

	c.broadcastState(state)
}

// completeHand records the result, reveals the full commitment and
// schedules the auto-continuation. Called with the room lock held.
func (c *Coordinator) completeHand(lr *liveRoom, hand *game.Hand, summary *game.HandSummary) {
	state := lr.state
	state.LastSummary = summary

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		c.logger.Error("encoding hand summary", "room", state.Code, "error", err)
	}
	c.writer.RecordHand(store.HandRecord{
		RoomCode:   state.Code,
		HandNumber: hand.HandNumber,
		DeckHash:   hand.Deck.Commitment.DeckHash,
		MasterSalt: hand.Deck.Commitment.MasterSalt,
		Board:      strings.Join(deck.Codes(hand.Board), " "),
		Summary:    summaryJSON,
		StartedAt:  hand.StartedAt,
		EndedAt:    hand.EndedAt,
	})
	for _, p := range state.Players {
		c.persistPlayer(state.Code, p)
	}

	data := protocol.HandCompleteData{
		Summary:    *summary,
		Commitment: hand.Deck.Commitment,
	}
	if state.EligiblePlayers() >= c.cfg.MinPlayers {
		c.scheduleNextHand(lr)
		millis := state.NextHandAt.UnixMilli()
		data.NextHandAt = &millis
	} else {
		state.NextHandAt = time.Time{}
	}
	c.broadcast(state, protocol.MessageTypeHandComplete, data)
}

// scheduleNextHand arms the one-shot continuation timer. Called with the
// room lock held.
func (c *Coordinator) scheduleNextHand(lr *liveRoom) {
	c.cancelNextHand(lr)
	lr.state.NextHandAt = c.clock.Now().Add(c.cfg.NextHandDelay)
	code := lr.state.Code
	lr.nextHand = c.clock.AfterFunc(c.cfg.NextHandDelay, func() {
		c.autoStartHand(code)
	})
}

func (c *Coordinator) cancelNextHand(lr *liveRoom) {
	if lr.nextHand != nil {
		lr.nextHand.Stop()
		lr.nextHand = nil
	}
	lr.state.NextHandAt = time.Time{}
}

// autoStartHand is the timer callback. The room may have changed since
// scheduling, so every precondition is re-checked under the lock.
func (c *Coordinator) autoStartHand(code string) {
	lr, err := c.room(code)
	if err != nil {
		return
	}

	lr.mu.Lock()
	defer lr.mu.Unlock()

	state := lr.state
	lr.nextHand = nil
	state.NextHandAt = time.Time{}

	if state.Hand.Live() {
		return
	}
	if state.EligiblePlayers() < c.cfg.MinPlayers {
		c.logger.Info("auto-start skipped, not enough funded players", "room", code)
		c.broadcastState(state)
		return
	}

	hand, err := c.engine.StartHand(state)
	if err != nil {
		c.logger.Warn("auto-start failed", "room", code, "error", err)
		c.broadcastState(state)
		return
	}
	c.announceHand(state, hand)
}

// holeReveals builds the proofs for one player's hole cards.
func holeReveals(hand *game.Hand, p *game.Player) ([]deck.Reveal, error) {
	reveals := make([]deck.Reveal, 0, len(p.HoleSecretPositions))
	for _, pos := range p.HoleSecretPositions {
		r, err := hand.Deck.Reveal(pos)
		if err != nil {
			return nil, err
		}
		reveals = append(reveals, r)
	}
	return reveals, nil
}

// boardReveals builds proofs for board cards dealt after the given index.
func (c *Coordinator) boardReveals(hand *game.Hand, from int) []deck.Reveal {
	if hand == nil || from >= len(hand.BoardSecretPositions) {
		return nil
	}
	reveals := make([]deck.Reveal, 0, len(hand.BoardSecretPositions)-from)
	for _, pos := range hand.BoardSecretPositions[from:] {
		r, err := hand.Deck.Reveal(pos)
		if err != nil {
			c.logger.Error("building board reveal", "position", pos, "error", err)
			continue
		}
		reveals = append(reveals, r)
	}
	return reveals
}
