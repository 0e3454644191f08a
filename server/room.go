package main

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nguyenphuquang1234567/Tank-Battle-Game/game"
)

const (
	maxRooms = 100
	// Reserved rooms nobody joined are dropped after this long
	roomIdleTimeout = 5 * time.Minute
)

var (
	ErrRoomFull   = errors.New("room is full")
	ErrTooMany    = errors.New("too many active rooms")
	ErrRoomClosed = errors.New("room is closed")
)

// Room seats at most two participants. The first seat plays Red and
// simulates, the second plays Blue and views.
type Room struct {
	ID string

	mu      sync.RWMutex
	seats   [2]*Client
	closed  bool
	created time.Time
}

// Seat returns the client in the seat for team, or nil
func (r *Room) Seat(team game.Team) *Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.seats[team]
}

// Host returns the simulating client
func (r *Room) Host() *Client {
	return r.Seat(game.TeamRed)
}

// Peer returns the other occupant of c's room
func (r *Room) Peer(c *Client) *Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.seats {
		if s != nil && s != c {
			return s
		}
	}
	return nil
}

// Count returns the number of occupied seats
func (r *Room) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, s := range r.seats {
		if s != nil {
			n++
		}
	}
	return n
}

// Broadcast sends a text message to every occupant
func (r *Room) Broadcast(msg interface{}) {
	r.mu.RLock()
	seats := r.seats
	r.mu.RUnlock()
	for _, s := range seats {
		if s != nil {
			s.SendJSON(msg)
		}
	}
}

func (r *Room) join(c *Client) (game.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return 0, ErrRoomClosed
	}
	for _, team := range game.Teams {
		if r.seats[team] == nil {
			r.seats[team] = c
			return team, nil
		}
	}
	return 0, ErrRoomFull
}

// leave removes c and closes the room. It returns the remaining occupant.
func (r *Room) leave(c *Client) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rest *Client
	for i, s := range r.seats {
		if s == c {
			r.seats[i] = nil
		} else if s != nil {
			rest = s
		}
	}
	r.closed = true
	return rest
}

// expire closes the room if it is empty and older than idle
func (r *Room) expire(now time.Time, idle time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seats[0] != nil || r.seats[1] != nil || now.Sub(r.created) < idle {
		return false
	}
	r.closed = true
	return true
}

// RoomInfo is the public listing of a room
type RoomInfo struct {
	ID      string `json:"id"`
	Players int    `json:"players"`
}

// RoomManager handles creation and lookup of rooms
type RoomManager struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewRoomManager creates a new RoomManager
func NewRoomManager() *RoomManager {
	return &RoomManager{
		rooms: make(map[string]*Room),
	}
}

// CreateRoom creates an empty room with a fresh UUID
func (rm *RoomManager) CreateRoom() (*Room, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if len(rm.rooms) >= maxRooms {
		return nil, ErrTooMany
	}
	room := &Room{ID: uuid.NewString(), created: time.Now()}
	rm.rooms[room.ID] = room
	return room, nil
}

// GetRoom returns a room by ID
func (rm *RoomManager) GetRoom(id string) *Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.rooms[id]
}

// Join seats c in the room with id, creating the room when id is empty
// or unknown
func (rm *RoomManager) Join(id string, c *Client) (*Room, game.Team, error) {
	rm.mu.Lock()
	room, ok := rm.rooms[id]
	if !ok {
		if len(rm.rooms) >= maxRooms {
			rm.mu.Unlock()
			return nil, 0, ErrTooMany
		}
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		room = &Room{ID: id, created: time.Now()}
		rm.rooms[id] = room
	}
	rm.mu.Unlock()

	team, err := room.join(c)
	if err != nil {
		return nil, 0, err
	}
	return room, team, nil
}

// Leave removes c from its room and tears the room down. It returns the
// remaining occupant, if any.
func (rm *RoomManager) Leave(room *Room, c *Client) *Client {
	rest := room.leave(c)
	rm.mu.Lock()
	if rm.rooms[room.ID] == room {
		delete(rm.rooms, room.ID)
	}
	rm.mu.Unlock()
	return rest
}

// Reap drops rooms that stayed empty for longer than idle and returns
// how many were removed
func (rm *RoomManager) Reap(now time.Time, idle time.Duration) int {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	n := 0
	for id, room := range rm.rooms {
		if room.expire(now, idle) {
			delete(rm.rooms, id)
			n++
		}
	}
	return n
}

// ListRooms returns info about all active rooms
func (rm *RoomManager) ListRooms() []RoomInfo {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	list := make([]RoomInfo, 0, len(rm.rooms))
	for _, room := range rm.rooms {
		list = append(list, RoomInfo{ID: room.ID, Players: room.Count()})
	}
	return list
}

// Count returns the number of active rooms
func (rm *RoomManager) Count() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}
