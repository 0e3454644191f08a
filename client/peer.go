package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/nguyenphuquang1234567/Tank-Battle-Game/netsync"
	"github.com/nguyenphuquang1234567/Tank-Battle-Game/protocol"
)

const (
	writeWait   = 10 * time.Second
	sendBufSize = 256
	inBufSize   = 256
)

var (
	ErrConnectionLost = errors.New("connection to relay lost")
	ErrOpponentLeft   = errors.New("opponent left the match")
)

// Inbound is one message received from the relay. Snapshot frames are not
// delivered here; they land in the peer's Latest slot.
type Inbound struct {
	Env    protocol.InEnvelope
	Frame  []byte
	Binary bool
}

// Transport is the participant's view of the relay connection
type Transport interface {
	SendJSON(t string, data interface{})
	SendBinary(frame []byte)
	Inbound() <-chan Inbound
	Snapshots() *netsync.Latest
	Done() <-chan struct{}
	Close()
}

// Peer is a websocket connection to the relay. Sends never block: a full
// queue drops the message.
type Peer struct {
	conn      *websocket.Conn
	send      chan []byte
	in        chan Inbound
	latest    *netsync.Latest
	done      chan struct{}
	closeOnce sync.Once
}

// RelayURL builds the websocket URL for addr, which may be a bare
// host:port or a full ws:// URL
func RelayURL(addr, room string) (string, error) {
	if !strings.Contains(addr, "://") {
		addr = "ws://" + addr
	}
	u, err := url.Parse(addr)
	if err != nil {
		return "", fmt.Errorf("relay address: %w", err)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	q := u.Query()
	if room != "" {
		q.Set("room", room)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Dial connects to the relay and starts the pumps
func Dial(addr, room string) (*Peer, error) {
	target, err := RelayURL(addr, room)
	if err != nil {
		return nil, err
	}
	conn, _, err := websocket.DefaultDialer.Dial(target, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", target, err)
	}
	log.Info("connected", "relay", target)
	return NewPeer(conn), nil
}

// NewPeer wraps an established connection
func NewPeer(conn *websocket.Conn) *Peer {
	p := &Peer{
		conn:   conn,
		send:   make(chan []byte, sendBufSize),
		in:     make(chan Inbound, inBufSize),
		latest: netsync.NewLatest(),
		done:   make(chan struct{}),
	}
	go p.writePump()
	go p.readPump()
	return p
}

func (p *Peer) Inbound() <-chan Inbound    { return p.in }
func (p *Peer) Snapshots() *netsync.Latest { return p.latest }
func (p *Peer) Done() <-chan struct{}      { return p.done }

// Close shuts the connection down. Safe to call more than once.
func (p *Peer) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
		p.conn.Close()
	})
}

func (p *Peer) readPump() {
	defer p.Close()
	for {
		msgType, message, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("ws error", "error", err)
			}
			return
		}

		var in Inbound
		if msgType == websocket.BinaryMessage {
			tag, payload, err := protocol.SplitFrame(message)
			if err != nil {
				log.Debug("bad frame", "error", err)
				continue
			}
			if tag == protocol.FrameSnapshot {
				p.latest.Put(payload)
				continue
			}
			in = Inbound{Frame: message, Binary: true}
		} else {
			if err := json.Unmarshal(message, &in.Env); err != nil {
				log.Debug("unmarshal error", "error", err)
				continue
			}
		}

		select {
		case p.in <- in:
		case <-p.done:
			return
		}
	}
}

func (p *Peer) writePump() {
	for {
		select {
		case message := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = p.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = p.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				p.Close()
				return
			}
		case <-p.done:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			p.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// SendJSON queues a text message
func (p *Peer) SendJSON(t string, data interface{}) {
	raw, err := protocol.Marshal(t, data)
	if err != nil {
		log.Error("marshal error", "type", t, "error", err)
		return
	}
	p.enqueue(raw)
}

// SendBinary queues a binary frame, marked with a 0xFF prefix for the
// write pump
func (p *Peer) SendBinary(frame []byte) {
	msg := make([]byte, len(frame)+1)
	msg[0] = 0xFF
	copy(msg[1:], frame)
	p.enqueue(msg)
}

func (p *Peer) enqueue(msg []byte) {
	select {
	case <-p.done:
		return
	default:
	}
	select {
	case p.send <- msg:
	default:
		// Relay too slow, drop
	}
}

// AwaitRole blocks until the relay assigns a seat
func AwaitRole(t Transport, timeout time.Duration) (protocol.RoleMsg, error) {
	var role protocol.RoleMsg
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		select {
		case in := <-t.Inbound():
			switch in.Env.T {
			case protocol.MsgRole:
				if err := json.Unmarshal(in.Env.D, &role); err != nil {
					return role, fmt.Errorf("role: %w", err)
				}
				return role, nil
			case protocol.MsgError:
				var msg protocol.ErrorMsg
				json.Unmarshal(in.Env.D, &msg)
				return role, fmt.Errorf("relay refused: %s", msg.Msg)
			}
		case <-t.Done():
			return role, ErrConnectionLost
		case <-deadline.C:
			return role, errors.New("timed out waiting for seat")
		}
	}
}
