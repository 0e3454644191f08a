package main

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nguyenphuquang1234567/Tank-Battle-Game/protocol"
)

const (
	maxConnsPerIP = 5
	maxTotalConns = 1000
	reapInterval  = time.Minute
)

// Hub manages all connected clients and seats them in rooms
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	rooms      *RoomManager
	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		rooms:      NewRoomManager(),
		ipConns:    make(map[string]int),
	}
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= maxTotalConns {
		return false
	}
	if h.ipConns[ip] >= maxConnsPerIP {
		return false
	}
	return true
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// Seat places c in the room with roomID and announces it. A refused
// client gets an error message; the caller closes it.
func (h *Hub) Seat(c *Client, roomID string) error {
	room, team, err := h.rooms.Join(roomID, c)
	if err != nil {
		return err
	}
	c.room = room
	c.team = team

	c.SendJSON(protocol.Envelope{T: protocol.MsgRole, Data: protocol.RoleMsg{
		Team: protocol.TeamName(team),
		ID:   c.id,
		Room: room.ID,
	}})
	if host := room.Host(); host != nil {
		room.Broadcast(protocol.Envelope{T: protocol.MsgAuthority, Data: protocol.AuthorityMsg{HostID: host.id}})
	}
	room.Broadcast(protocol.Envelope{T: protocol.MsgCount, Data: protocol.CountMsg{N: room.Count()}})

	log.Info("seated", "room", room.ID, "team", team, "client", c.id)
	return nil
}

// Run processes register/unregister events and reaps abandoned rooms
func (h *Hub) Run() {
	reap := time.NewTicker(reapInterval)
	defer reap.Stop()
	for {
		select {
		case now := <-reap.C:
			if n := h.rooms.Reap(now, roomIdleTimeout); n > 0 {
				log.Info("reaped idle rooms", "count", n, "active", h.rooms.Count())
			}

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			if client.room != nil {
				h.depart(client)
			}
		}
	}
}

// depart tears down the client's room and tells whoever remains
func (h *Hub) depart(c *Client) {
	rest := h.rooms.Leave(c.room, c)
	log.Info("left", "room", c.room.ID, "team", c.team, "client", c.id)
	if rest == nil {
		return
	}
	rest.SendJSON(protocol.Envelope{T: protocol.MsgLeft, Data: protocol.RoleMsg{
		Team: protocol.TeamName(c.team),
		ID:   c.id,
		Room: c.room.ID,
	}})
	rest.SendJSON(protocol.Envelope{T: protocol.MsgCount, Data: protocol.CountMsg{N: 1}})
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}
