package room

import "github.com/vanishedd/pokerwithyourfriends/internal/protocol"

// Sender delivers protocol messages to one client connection. Send is
// best-effort: a dead connection drops the message and is cleaned up by
// its own read/write pumps.
type Sender interface {
	Send(msg *protocol.Message)
}
