package room

import (
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/vanishedd/pokerwithyourfriends/internal/game"
	"github.com/vanishedd/pokerwithyourfriends/internal/protocol"
	"github.com/vanishedd/pokerwithyourfriends/internal/roomcode"
	"github.com/vanishedd/pokerwithyourfriends/internal/store"
)

// ChatMessageLimit clamps chat lines, in runes.
const ChatMessageLimit = 280

// Config carries the table rules every room plays under.
type Config struct {
	SmallBlind    int
	BigBlind      int
	StartingStack int
	MinPlayers    int
	MaxPlayers    int
	NextHandDelay time.Duration
}

// DefaultConfig returns the standard table rules.
func DefaultConfig() Config {
	return Config{
		SmallBlind:    10,
		BigBlind:      20,
		StartingStack: 2000,
		MinPlayers:    2,
		MaxPlayers:    6,
		NextHandDelay: 15 * time.Second,
	}
}

// liveRoom pairs room state with the mutex that serializes access to it.
// Everything inside state is only touched with mu held.
type liveRoom struct {
	mu            sync.Mutex
	state         *game.Room
	startingStack int
	nextHand      *quartz.Timer
}

type session struct {
	roomCode string
	playerID string
}

// Coordinator owns every room and session. Rooms are independent: each
// serializes its own mutations behind its liveRoom mutex while different
// rooms proceed in parallel. The registry mutex is never held while a
// room mutex is taken.
type Coordinator struct {
	logger *log.Logger
	clock  quartz.Clock
	engine *game.Engine
	writer *store.Writer
	codes  *roomcode.Generator
	cfg    Config

	mu       sync.RWMutex
	rooms    map[string]*liveRoom
	sessions map[string]session // token -> session

	sendMu  sync.RWMutex
	senders map[string]map[Sender]struct{} // token -> open connections
}

// New creates a coordinator. The writer must not be nil; wrap store.Noop
// when persistence is disabled.
func New(logger *log.Logger, clock quartz.Clock, writer *store.Writer, cfg Config, engineOpts ...game.EngineOption) *Coordinator {
	c := &Coordinator{
		logger:   logger.WithPrefix("room"),
		clock:    clock,
		writer:   writer,
		codes:    roomcode.NewGenerator(nil),
		cfg:      cfg,
		rooms:    make(map[string]*liveRoom),
		sessions: make(map[string]session),
		senders:  make(map[string]map[Sender]struct{}),
	}
	opts := append([]game.EngineOption{game.WithActionRecorder(c.recordAction)}, engineOpts...)
	c.engine = game.NewEngine(logger, cfg.SmallBlind, cfg.BigBlind, cfg.MinPlayers, opts...)
	return c
}

// JoinResult is handed back on create and join; the token is the caller's
// credential for everything that follows.
type JoinResult struct {
	RoomCode string        `json:"roomCode"`
	PlayerID string        `json:"playerId"`
	Token    string        `json:"token"`
	Seat     int           `json:"seat"`
	Snapshot game.Snapshot `json:"snapshot"`
}

// CreateRoom opens a new room with the caller seated at seat 0 as host.
// stack <= 0 selects the configured starting stack.
func (c *Coordinator) CreateRoom(name string, stack int) (JoinResult, error) {
	if stack <= 0 {
		stack = c.cfg.StartingStack
	}

	player := &game.Player{
		ID:        uuid.NewString(),
		Token:     uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Seat:      0,
		Stack:     stack,
		IsHost:    true,
		Status:    game.StatusWaiting,
	}

	now := c.clock.Now()
	lr := &liveRoom{startingStack: stack}

	c.mu.Lock()
	code := c.codes.Generate()
	for _, exists := c.rooms[code]; exists; _, exists = c.rooms[code] {
		code = c.codes.Generate()
	}
	lr.state = &game.Room{
		Code:      code,
		HostID:    player.ID,
		CreatedAt: now,
		Players:   []*game.Player{player},
	}
	c.rooms[code] = lr
	c.sessions[player.Token] = session{roomCode: code, playerID: player.ID}
	c.mu.Unlock()

	c.writer.CreateRoom(store.RoomRecord{Code: code, HostID: player.ID, CreatedAt: now})
	c.persistPlayer(code, player)

	c.logger.Info("room created", "room", code, "host", player.Name)
	return JoinResult{
		RoomCode: code,
		PlayerID: player.ID,
		Token:    player.Token,
		Seat:     player.Seat,
		Snapshot: c.buildSnapshot(lr.state, player.ID),
	}, nil
}

// JoinRoom seats a new player at the lowest free seat. A join during a
// live hand succeeds; the player is dealt in from the next hand.
func (c *Coordinator) JoinRoom(code, name string) (JoinResult, error) {
	lr, err := c.room(code)
	if err != nil {
		return JoinResult{}, err
	}
	name = strings.TrimSpace(name)

	lr.mu.Lock()
	state := lr.state
	if state.Locked {
		lr.mu.Unlock()
		return JoinResult{}, ErrRoomLocked
	}
	if state.HasName(name) {
		lr.mu.Unlock()
		return JoinResult{}, ErrNameTaken
	}
	if len(state.SeatedPlayers()) >= c.cfg.MaxPlayers {
		lr.mu.Unlock()
		return JoinResult{}, ErrRoomFull
	}

	player := &game.Player{
		ID:     uuid.NewString(),
		Token:  uuid.NewString(),
		Name:   name,
		Seat:   game.NoSeat,
		Stack:  lr.startingStack,
		Status: game.StatusWaiting,
	}
	state.AssignNextSeat(player, c.cfg.MaxPlayers)
	state.Players = append(state.Players, player)

	result := JoinResult{
		RoomCode: state.Code,
		PlayerID: player.ID,
		Token:    player.Token,
		Seat:     player.Seat,
		Snapshot: c.buildSnapshot(state, player.ID),
	}
	c.broadcastState(state)
	lr.mu.Unlock()

	c.mu.Lock()
	c.sessions[player.Token] = session{roomCode: state.Code, playerID: player.ID}
	c.mu.Unlock()

	c.persistPlayer(state.Code, player)
	c.logger.Info("player joined", "room", state.Code, "player", name, "seat", player.Seat)
	return result, nil
}

// ToggleLock opens or closes the room to new joins. Host only.
func (c *Coordinator) ToggleLock(code, token string, locked bool) error {
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

	lr.state.Locked = locked
	c.writer.UpdateRoomLock(lr.state.Code, locked)
	c.broadcastState(lr.state)
	return nil
}

// Snapshot builds the room state as the token's player sees it.
func (c *Coordinator) Snapshot(code, token string) (game.Snapshot, error) {
	lr, err := c.room(code)
	if err != nil {
		return game.Snapshot{}, err
	}

	lr.mu.Lock()
	defer lr.mu.Unlock()

	player := lr.state.PlayerByToken(token)
	if player == nil {
		return game.Snapshot{}, ErrUnknownToken
	}
	return c.buildSnapshot(lr.state, player.ID), nil
}

// Chat trims, clamps and broadcasts one chat line.
func (c *Coordinator) Chat(code, playerID, text string) error {
	lr, err := c.room(code)
	if err != nil {
		return err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}
	if runes := []rune(text); len(runes) > ChatMessageLimit {
		text = string(runes[:ChatMessageLimit])
	}

	lr.mu.Lock()
	defer lr.mu.Unlock()

	player := lr.state.PlayerByID(playerID)
	if player == nil {
		return game.ErrUnknownPlayer
	}

	msg := game.ChatMessage{
		ID:        uuid.NewString(),
		PlayerID:  player.ID,
		Name:      player.Name,
		Message:   text,
		CreatedAt: c.clock.Now(),
	}
	lr.state.AppendChat(msg)
	c.broadcast(lr.state, protocol.MessageTypeChatMessage, msg)
	return nil
}

// Connect registers a websocket connection for a token. Multiple tabs per
// player are allowed; the player counts as connected while any remain.
// The new connection immediately receives a snapshot and, mid-hand, the
// reveals for its own hole cards.
func (c *Coordinator) Connect(code, token string, sender Sender) error {
	lr, err := c.room(code)
	if err != nil {
		return err
	}

	lr.mu.Lock()
	player := lr.state.PlayerByToken(token)
	if player == nil {
		lr.mu.Unlock()
		return ErrUnknownToken
	}
	lr.mu.Unlock()

	c.sendMu.Lock()
	set := c.senders[token]
	if set == nil {
		set = make(map[Sender]struct{})
		c.senders[token] = set
	}
	set[sender] = struct{}{}
	c.sendMu.Unlock()

	lr.mu.Lock()
	defer lr.mu.Unlock()

	wasConnected := player.Connected
	player.Connected = true
	if player.Status == game.StatusDisconnected {
		player.Status = game.StatusWaiting
	}

	c.sendTo(sender, protocol.MessageTypeRoomState, c.buildSnapshot(lr.state, player.ID))
	if hand := lr.state.Hand; hand.Live() && len(player.HoleSecretPositions) > 0 {
		if reveals, err := holeReveals(hand, player); err == nil {
			c.sendTo(sender, protocol.MessageTypeCardReveal, protocol.CardRevealData{
				HandNumber: hand.HandNumber,
				Reveals:    reveals,
			})
		}
	}

	if !wasConnected {
		c.writer.UpdatePlayerConnection(player.ID, true)
		c.broadcastState(lr.state)
	}
	return nil
}

// Disconnect removes one connection. The player only flips to
// disconnected when their last connection drops.
func (c *Coordinator) Disconnect(code, token string, sender Sender) {
	c.sendMu.Lock()
	set := c.senders[token]
	delete(set, sender)
	drained := len(set) == 0
	if drained {
		delete(c.senders, token)
	}
	c.sendMu.Unlock()

	if !drained {
		return
	}

	lr, err := c.room(code)
	if err != nil {
		return
	}

	lr.mu.Lock()
	defer lr.mu.Unlock()

	player := lr.state.PlayerByToken(token)
	if player == nil || !player.Connected {
		return
	}
	player.Connected = false
	// A player in a live hand keeps their betting state; the seat still
	// has to act when the turn comes around.
	if !lr.state.Hand.Live() || len(player.HoleCards) == 0 {
		if player.Status != game.StatusOut {
			player.Status = game.StatusDisconnected
		}
	}

	c.writer.UpdatePlayerConnection(player.ID, false)
	c.broadcastState(lr.state)
}

// Resolve maps a token to its room code and player id.
func (c *Coordinator) Resolve(token string) (roomCode, playerID string, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.sessions[token]
	return s.roomCode, s.playerID, ok
}

func (c *Coordinator) room(code string) (*liveRoom, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	lr, ok := c.rooms[roomcode.Normalize(code)]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return lr, nil
}

func (c *Coordinator) buildSnapshot(state *game.Room, viewerID string) game.Snapshot {
	return game.BuildSnapshot(state, viewerID, c.cfg.SmallBlind, c.cfg.BigBlind)
}

func (c *Coordinator) persistPlayer(roomCode string, p *game.Player) {
	c.writer.UpsertPlayer(store.PlayerRecord{
		ID:        p.ID,
		RoomCode:  roomCode,
		Name:      p.Name,
		Seat:      p.Seat,
		Stack:     p.Stack,
		IsHost:    p.IsHost,
		Connected: p.Connected,
	})
}

func (c *Coordinator) recordAction(roomCode string, handNumber int, action game.Action) {
	c.writer.RecordAction(store.ActionRecord{
		ID:         action.ID,
		RoomCode:   roomCode,
		HandNumber: handNumber,
		PlayerID:   action.PlayerID,
		Action:     string(action.Type),
		Amount:     action.Amount,
		Round:      string(action.Round),
		CreatedAt:  action.CreatedAt,
	})
}

// sendToToken fans a message out to every connection a token holds.
func (c *Coordinator) sendToToken(token string, msgType protocol.MessageType, payload any) {
	msg, err := protocol.NewMessage(msgType, payload)
	if err != nil {
		c.logger.Error("encoding message", "type", msgType, "error", err)
		return
	}
	c.sendMu.RLock()
	defer c.sendMu.RUnlock()
	for sender := range c.senders[token] {
		sender.Send(msg)
	}
}

func (c *Coordinator) sendTo(sender Sender, msgType protocol.MessageType, payload any) {
	msg, err := protocol.NewMessage(msgType, payload)
	if err != nil {
		c.logger.Error("encoding message", "type", msgType, "error", err)
		return
	}
	sender.Send(msg)
}

// broadcast sends the same payload to every player in the room.
func (c *Coordinator) broadcast(state *game.Room, msgType protocol.MessageType, payload any) {
	for _, p := range state.Players {
		c.sendToToken(p.Token, msgType, payload)
	}
}

// broadcastState sends each player their own view of the room.
func (c *Coordinator) broadcastState(state *game.Room) {
	for _, p := range state.Players {
		c.sendToToken(p.Token, protocol.MessageTypeRoomState, c.buildSnapshot(state, p.ID))
	}
}
