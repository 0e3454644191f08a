package main

import (
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nguyenphuquang1234567/Tank-Battle-Game/game"
	"github.com/nguyenphuquang1234567/Tank-Battle-Game/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 16
	sendBufSize    = 256
	// Viewers send input at 240 Hz and pointer at 200 Hz
	maxMessagesPerSec = 600
)

// Client represents a WebSocket connection seated in a room
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	id         string
	remoteAddr string
	room       *Room
	team       game.Team
	msgCount   int
	msgResetAt time.Time
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		id:         uuid.NewString(),
		remoteAddr: remoteAddr,
	}
}

// Role returns the sender role stamped on forwarded messages
func (c *Client) Role() string {
	if c.team == game.TeamRed {
		return protocol.RoleHost
	}
	return protocol.RoleViewer
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("ws error", "client", c.id, "error", err)
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Warn("rate limit exceeded, disconnecting", "addr", c.remoteAddr)
			break
		}

		if msgType == websocket.BinaryMessage {
			c.handleBinary(message)
		} else {
			c.handleMessage(message)
		}
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// Check for binary marker (0xFF prefix from SendBinary)
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("marshal error", "error", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message
// Prefixes with 0xFF marker byte so WritePump can distinguish from text
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF // binary marker
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

// handleMessage routes text messages between the two seats
func (c *Client) handleMessage(raw []byte) {
	var env protocol.InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Debug("unmarshal error", "client", c.id, "error", err)
		return
	}

	switch env.T {
	case protocol.MsgProbe:
		c.SendJSON(protocol.Envelope{T: protocol.MsgEcho, Data: env.D})
	case protocol.MsgInput, protocol.MsgAck:
		if c.team == game.TeamBlue {
			c.forward(c.room.Host(), env)
		}
	case protocol.MsgPointer:
		c.forward(c.room.Peer(c), env)
	default:
		log.Debug("dropping message", "type", env.T, "from", c.Role())
	}
}

func (c *Client) forward(dst *Client, env protocol.InEnvelope) {
	if dst == nil || dst == c {
		return
	}
	out := protocol.Envelope{T: env.T, From: c.Role()}
	if len(env.D) > 0 {
		out.Data = env.D
	}
	dst.SendJSON(out)
}

// handleBinary forwards tagged frames: inputs go to the host, snapshots
// go to the viewer
func (c *Client) handleBinary(frame []byte) {
	tag, _, err := protocol.SplitFrame(frame)
	if err != nil {
		log.Debug("bad frame", "client", c.id, "error", err)
		return
	}

	var to game.Team
	switch {
	case tag == protocol.FrameInput && c.team == game.TeamBlue:
		to = game.TeamRed
	case tag == protocol.FrameSnapshot && c.team == game.TeamRed:
		to = game.TeamBlue
	default:
		return
	}
	if dst := c.room.Seat(to); dst != nil {
		dst.SendBinary(frame)
	}
}
