package protocol

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/nguyenphuquang1234567/Tank-Battle-Game/game"
)

// Binary frames start with a tag byte
const (
	FrameInput    byte = 0x01 // protobuf wire encoded input update
	FrameSnapshot byte = 0x02 // msgpack world snapshot
)

// Input frame field numbers
const (
	fieldTeam  protowire.Number = 1
	fieldFlags protowire.Number = 2
)

const (
	flagUp = 1 << iota
	flagDown
	flagLeft
	flagRight
	flagFire
)

var (
	ErrUnknownFrame = errors.New("unknown frame")
	ErrShortFrame   = errors.New("short frame")
)

// SplitFrame returns the tag and payload of a binary frame
func SplitFrame(b []byte) (byte, []byte, error) {
	if len(b) == 0 {
		return 0, nil, ErrShortFrame
	}
	switch b[0] {
	case FrameInput, FrameSnapshot:
		return b[0], b[1:], nil
	}
	return b[0], nil, fmt.Errorf("%w: tag 0x%02x", ErrUnknownFrame, b[0])
}

// SnapshotFrame prefixes an encoded snapshot with its tag
func SnapshotFrame(payload []byte) []byte {
	b := make([]byte, 0, len(payload)+1)
	b = append(b, FrameSnapshot)
	return append(b, payload...)
}

// InputFrame encodes an input update
func InputFrame(team game.Team, in game.Input) []byte {
	b := make([]byte, 0, 8)
	b = append(b, FrameInput)
	b = protowire.AppendTag(b, fieldTeam, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(team))
	b = protowire.AppendTag(b, fieldFlags, protowire.VarintType)
	b = protowire.AppendVarint(b, packFlags(in))
	return b
}

// ParseInputFrame decodes the payload of an input frame. Unknown fields
// are skipped.
func ParseInputFrame(payload []byte) (game.Team, game.Input, error) {
	var team game.Team
	var in game.Input
	for len(payload) > 0 {
		num, typ, n := protowire.ConsumeTag(payload)
		if n < 0 {
			return 0, in, fmt.Errorf("input frame tag: %w", protowire.ParseError(n))
		}
		payload = payload[n:]
		if typ != protowire.VarintType {
			n = protowire.ConsumeFieldValue(num, typ, payload)
			if n < 0 {
				return 0, in, fmt.Errorf("input frame field %d: %w", num, protowire.ParseError(n))
			}
			payload = payload[n:]
			continue
		}
		v, n := protowire.ConsumeVarint(payload)
		if n < 0 {
			return 0, in, fmt.Errorf("input frame field %d: %w", num, protowire.ParseError(n))
		}
		payload = payload[n:]
		switch num {
		case fieldTeam:
			team = game.Team(v)
		case fieldFlags:
			in = unpackFlags(v)
		}
	}
	if !team.Valid() {
		return 0, in, fmt.Errorf("input frame: invalid team %d", team)
	}
	return team, in, nil
}

func packFlags(in game.Input) uint64 {
	var f uint64
	if in.Up {
		f |= flagUp
	}
	if in.Down {
		f |= flagDown
	}
	if in.Left {
		f |= flagLeft
	}
	if in.Right {
		f |= flagRight
	}
	if in.Fire {
		f |= flagFire
	}
	return f
}

func unpackFlags(f uint64) game.Input {
	return game.Input{
		Up:    f&flagUp != 0,
		Down:  f&flagDown != 0,
		Left:  f&flagLeft != 0,
		Right: f&flagRight != 0,
		Fire:  f&flagFire != 0,
	}
}
