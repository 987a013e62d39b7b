package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vanishedd/pokerwithyourfriends/internal/game"
	"github.com/vanishedd/pokerwithyourfriends/internal/protocol"
	"github.com/vanishedd/pokerwithyourfriends/internal/room"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

// Connection represents a WebSocket connection to a client. It implements
// room.Sender; the coordinator fans messages out through Send while the
// pumps keep the socket alive.
type Connection struct {
	conn        *websocket.Conn
	send        chan *protocol.Message
	roomCode    string
	token       string
	playerID    string
	logger      *log.Logger
	coordinator *room.Coordinator
	ctx         context.Context
	cancel      context.CancelFunc
	closeOnce   sync.Once
}

// NewConnection creates a new connection wrapper bound to one player.
func NewConnection(conn *websocket.Conn, logger *log.Logger, coordinator *room.Coordinator, roomCode, token, playerID string) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:        conn,
		send:        make(chan *protocol.Message, 256),
		roomCode:    roomCode,
		token:       token,
		playerID:    playerID,
		logger:      logger.WithPrefix("conn"),
		coordinator: coordinator,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.coordinator.Disconnect(c.roomCode, c.token, c)
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// Send queues a message for the client. A full buffer closes the
// connection rather than blocking the coordinator.
func (c *Connection) Send(msg *protocol.Message) {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, this is expected during shutdown
			c.logger.Debug("send on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
	case <-c.ctx.Done():
	default:
		c.logger.Warn("send buffer full, closing connection")
		_ = c.Close()
	}
}

// sendError reports a rejected request to this connection only.
func (c *Connection) sendError(code string, err error) {
	msg, encErr := protocol.NewMessage(protocol.MessageTypeError, protocol.ErrorData{
		Code:    code,
		Message: err.Error(),
	})
	if encErr != nil {
		return
	}
	c.Send(msg)
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg protocol.Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Debug("write failed", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage dispatches one inbound message to the coordinator. Errors
// go back to this connection only; state broadcasts reach everyone.
func (c *Connection) handleMessage(msg *protocol.Message) {
	switch msg.Type {
	case protocol.MessageTypePlayerAction:
		var data protocol.PlayerActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("bad_request", errors.New("malformed player_action payload"))
			return
		}
		payload := game.ActionPayload{Type: data.Action, Amount: data.Amount}
		if err := c.coordinator.HandleAction(c.roomCode, c.playerID, payload); err != nil {
			c.sendError("action_rejected", err)
		}

	case protocol.MessageTypeChatSend:
		var data protocol.ChatSendData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("bad_request", errors.New("malformed chat_send payload"))
			return
		}
		if err := c.coordinator.Chat(c.roomCode, c.playerID, data.Message); err != nil {
			c.sendError("chat_rejected", err)
		}

	case protocol.MessageTypeStartHand:
		if err := c.coordinator.StartHand(c.roomCode, c.token); err != nil {
			c.sendError("start_rejected", err)
		}

	case protocol.MessageTypeToggleLock:
		var data struct {
			Locked bool `json:"locked"`
		}
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("bad_request", errors.New("malformed toggle_lock payload"))
			return
		}
		if err := c.coordinator.ToggleLock(c.roomCode, c.token, data.Locked); err != nil {
			c.sendError("lock_rejected", err)
		}

	case protocol.MessageTypeRequestState:
		snapshot, err := c.coordinator.Snapshot(c.roomCode, c.token)
		if err != nil {
			c.sendError("state_rejected", err)
			return
		}
		if out, err := protocol.NewMessage(protocol.MessageTypeRoomState, snapshot); err == nil {
			c.Send(out)
		}

	default:
		c.sendError("unknown_type", errors.New("unknown message type: "+msg.Type.String()))
	}
}
