// Package protocol defines the messages exchanged between participants and
// the relay.
package protocol

import (
	"encoding/json"

	"github.com/nguyenphuquang1234567/Tank-Battle-Game/game"
)

// Relay -> participant message types
const (
	MsgRole      = "role"      // seat assignment, sent once
	MsgAuthority = "authority" // which connection simulates
	MsgCount     = "count"     // connected participants
	MsgLeft      = "left"      // a participant left, session is over
	MsgError     = "error"
)

// Participant <-> participant message types, forwarded by the relay
const (
	MsgInput   = "input"
	MsgPointer = "pointer"
	MsgAck     = "ack" // viewer asks the host to acknowledge a round/match result
	MsgProbe   = "probe"
	MsgEcho    = "echo"
)

// Sender roles stamped on forwarded messages
const (
	RoleHost   = "host"
	RoleViewer = "viewer"
)

// Envelope wraps all text messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
	From string      `json:"f,omitempty"`
}

// InEnvelope is used for incoming messages, json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T    string          `json:"t"`
	D    json.RawMessage `json:"d,omitempty"`
	From string          `json:"f,omitempty"`
}

// RoleMsg assigns a connection to a team
type RoleMsg struct {
	Team string `json:"team"` // "red" or "blue"
	ID   string `json:"id"`
	Room string `json:"room"`
}

// AuthorityMsg names the simulating connection
type AuthorityMsg struct {
	HostID string `json:"hostId"`
}

// CountMsg carries the number of connected participants
type CountMsg struct {
	N int `json:"n"`
}

// InputMsg is the text form of an input update
type InputMsg struct {
	Team  string     `json:"team"`
	Input game.Input `json:"input"`
}

// PointerMsg carries an aiming cursor position
type PointerMsg struct {
	Team string  `json:"team"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// ProbeMsg is a latency probe, echoed back unchanged
type ProbeMsg struct {
	TS int64 `json:"ts"`
}

// ErrorMsg reports a refused request
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// Marshal encodes a text message
func Marshal(t string, data interface{}) ([]byte, error) {
	return json.Marshal(Envelope{T: t, Data: data})
}

// TeamName returns the lower-case wire name of a team
func TeamName(t game.Team) string {
	if t == game.TeamBlue {
		return "blue"
	}
	return "red"
}
