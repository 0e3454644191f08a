package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nguyenphuquang1234567/Tank-Battle-Game/game"
	"github.com/nguyenphuquang1234567/Tank-Battle-Game/netsync"
	"github.com/nguyenphuquang1234567/Tank-Battle-Game/protocol"
)

const (
	pointerInterval = time.Second / 200
	inputInterval   = time.Second / 240
)

// Host owns the authoritative world. Online it streams snapshots to the
// viewer; offline the opponent is driven by the AI engine.
type Host struct {
	World  *game.World
	Keys   *game.InputState
	Remote *game.RemoteInputs

	peer    Transport
	ui      UI
	cues    game.CueSink
	board   scoreboard
	invite  string
	role    string
	count   int
	started bool
	status  string

	lastPointer game.Pointer
}

// NewHost creates the Red host for an online match. The match starts once
// the relay reports both seats taken.
func NewHost(cfg game.Config, peer Transport, ui UI, cues game.CueSink, journal *Journal, invite string) *Host {
	keys := &game.InputState{}
	remote := &game.RemoteInputs{}
	b := game.Binding{Local: game.TeamRed, Keys: keys, Remote: remote}
	return &Host{
		World:  game.NewWorld(cfg, game.ControlFor(game.TeamRed, b), game.ControlFor(game.TeamBlue, b)),
		Keys:   keys,
		Remote: remote,
		peer:   peer,
		ui:     ui,
		cues:   cues,
		board:  scoreboard{journal: journal},
		invite: invite,
		role:   protocol.RoleHost,
		count:  1,
		status: "waiting for opponent",
	}
}

// NewOfflineHost creates a local match against the AI
func NewOfflineHost(cfg game.Config, ui UI, cues game.CueSink, journal *Journal) *Host {
	keys := &game.InputState{}
	engine := game.NewAIEngine(game.TeamBlue, cfg.Seed+1)
	b := game.Binding{Local: game.TeamRed, AIMode: true, Keys: keys, Engine: engine}
	w := game.NewWorld(cfg, game.ControlFor(game.TeamRed, b), game.ControlFor(game.TeamBlue, b))
	w.AttachAI(engine)
	return &Host{
		World:   w,
		Keys:    keys,
		Remote:  &game.RemoteInputs{},
		ui:      ui,
		cues:    cues,
		board:   scoreboard{journal: journal},
		role:    "offline",
		count:   2,
		started: true,
	}
}

// Started reports whether the simulation is running
func (h *Host) Started() bool {
	return h.started
}

// Run drives the host until the context ends, the user quits or the
// session is lost
func (h *Host) Run(ctx context.Context) error {
	tick := time.NewTicker(game.TickDuration)
	defer tick.Stop()
	pointer := time.NewTicker(pointerInterval)
	defer pointer.Stop()

	var inbound <-chan Inbound
	var done <-chan struct{}
	if h.peer != nil {
		inbound = h.peer.Inbound()
		done = h.peer.Done()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-tick.C:
			h.Tick(now)
		case <-pointer.C:
			h.sendPointer(true)
		case in := <-inbound:
			if err := h.HandleInbound(in); err != nil {
				return err
			}
		case <-done:
			return ErrConnectionLost
		case ev := <-h.ui.Events():
			if !h.HandleUI(ev, time.Now()) {
				return nil
			}
		}
	}
}

// Tick advances the world one step and publishes the result
func (h *Host) Tick(now time.Time) {
	if h.started {
		h.Keys.Sample(now)
		h.World.Step()
		for _, e := range h.World.DrainEvents() {
			h.cues.Cue(e)
		}
		h.board.observe(h.World.Match)
		h.publish()
	}
	h.ui.Draw(h.World, h.hud())
}

func (h *Host) publish() {
	if h.peer == nil {
		return
	}
	data, err := netsync.Encode(netsync.Capture(h.World))
	if err != nil {
		log.Error("snapshot encode", "error", err)
		return
	}
	h.peer.SendBinary(protocol.SnapshotFrame(data))
}

// sendPointer sends the aim point when it moved, or unconditionally on the
// periodic tick when force is set.
func (h *Host) sendPointer(force bool) {
	if h.peer == nil || !h.started {
		return
	}
	p := h.Keys.Pointer()
	if !p.Valid || (p == h.lastPointer && !force) {
		return
	}
	h.lastPointer = p
	h.peer.SendJSON(protocol.MsgPointer, protocol.PointerMsg{Team: protocol.TeamName(game.TeamRed), X: p.X, Y: p.Y})
}

// HandleInbound applies one relay message. It returns an error when the
// session is over.
func (h *Host) HandleInbound(in Inbound) error {
	if in.Binary {
		h.handleFrame(in.Frame)
		return nil
	}

	switch in.Env.T {
	case protocol.MsgCount:
		var msg protocol.CountMsg
		if err := json.Unmarshal(in.Env.D, &msg); err != nil {
			return nil
		}
		h.count = msg.N
		if h.count >= 2 && !h.started {
			log.Info("opponent joined, starting match")
			h.started = true
			h.status = ""
		} else if h.count < 2 && h.started {
			return ErrOpponentLeft
		}
	case protocol.MsgLeft:
		return ErrOpponentLeft
	case protocol.MsgInput:
		var msg protocol.InputMsg
		if err := json.Unmarshal(in.Env.D, &msg); err != nil {
			return nil
		}
		if team, ok := game.ParseTeam(msg.Team); ok {
			h.remoteInput(team, msg.Input)
		}
	case protocol.MsgPointer:
		var msg protocol.PointerMsg
		if err := json.Unmarshal(in.Env.D, &msg); err != nil {
			return nil
		}
		if team, ok := game.ParseTeam(msg.Team); ok && team == game.TeamBlue {
			h.Remote.SetPointer(team, msg.X, msg.Y)
		}
	case protocol.MsgAck:
		h.World.Acknowledge()
	case protocol.MsgAuthority:
		log.Debug("authority", "data", string(in.Env.D))
	case protocol.MsgError:
		log.Warn("relay error", "data", string(in.Env.D))
	}
	return nil
}

func (h *Host) handleFrame(frame []byte) {
	tag, payload, err := protocol.SplitFrame(frame)
	if err != nil || tag != protocol.FrameInput {
		return
	}
	team, in, err := protocol.ParseInputFrame(payload)
	if err != nil {
		log.Debug("bad input frame", "error", err)
		return
	}
	h.remoteInput(team, in)
}

// remoteInput accepts input only for the viewer's tank
func (h *Host) remoteInput(team game.Team, in game.Input) {
	if team != game.TeamBlue {
		return
	}
	h.Remote.SetInput(team, in)
}

// HandleUI applies one user action. It returns false when the user quits.
func (h *Host) HandleUI(ev UIEvent, now time.Time) bool {
	switch ev.Kind {
	case UIQuit:
		return false
	case UIAck:
		h.World.Acknowledge()
	default:
		applyKeys(h.Keys, ev, now)
		if ev.Kind == UIAim {
			h.sendPointer(false)
		}
	}
	return true
}

func (h *Host) hud() HUD {
	hud := HUD{
		Team:        game.TeamRed,
		Role:        h.role,
		Status:      h.status,
		PeerPointer: h.Remote.Pointer(game.TeamBlue),
	}
	if !h.started {
		hud.Invite = h.invite
	}
	h.board.fill(&hud)
	return hud
}
