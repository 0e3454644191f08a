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

// Viewer mirrors the host's world. Its own tank is predicted from local
// input and corrected toward each snapshot; the host's tank is smoothed.
type Viewer struct {
	Mirror *netsync.Mirror
	Keys   *game.InputState
	Team   game.Team

	peer    Transport
	ui      UI
	cues    game.CueSink
	board   scoreboard
	meter   netsync.LatencyMeter
	count   int
	started bool
	status  string

	peerPointer game.Pointer
	lastPointer game.Pointer
}

// NewViewer creates the viewer for team
func NewViewer(cfg game.Config, team game.Team, peer Transport, ui UI, cues game.CueSink, journal *Journal) *Viewer {
	keys := &game.InputState{}
	return &Viewer{
		Mirror: netsync.NewMirror(cfg, team, game.LocalControl{State: keys}),
		Keys:   keys,
		Team:   team,
		peer:   peer,
		ui:     ui,
		cues:   cues,
		board:  scoreboard{journal: journal},
		count:  1,
		status: "waiting for host",
	}
}

// Run drives the viewer until the context ends, the user quits or the
// session is lost
func (v *Viewer) Run(ctx context.Context) error {
	tick := time.NewTicker(game.TickDuration)
	defer tick.Stop()
	input := time.NewTicker(inputInterval)
	defer input.Stop()
	pointer := time.NewTicker(pointerInterval)
	defer pointer.Stop()
	probe := time.NewTicker(netsync.ProbeInterval)
	defer probe.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-tick.C:
			v.Tick(now)
		case now := <-input.C:
			v.sendInput(now, true)
		case <-pointer.C:
			v.sendPointer(true)
		case now := <-probe.C:
			v.peer.SendJSON(protocol.MsgProbe, protocol.ProbeMsg{TS: v.meter.Probe(now)})
		case in := <-v.peer.Inbound():
			if err := v.HandleInbound(in, time.Now()); err != nil {
				return err
			}
		case <-v.peer.Done():
			return ErrConnectionLost
		case ev := <-v.ui.Events():
			if !v.HandleUI(ev, time.Now()) {
				return nil
			}
		}
	}
}

// Tick applies the newest pending snapshot, advances prediction and
// smoothing, and draws
func (v *Viewer) Tick(now time.Time) {
	if data, ok := v.peer.Snapshots().Take(); ok {
		v.apply(data)
	}
	if v.Mirror.Ready() {
		w := v.Mirror.World
		cfg := w.Config()
		factor := netsync.Factor(v.meter.Ping())
		local := w.Tank(v.Team)
		if v.started && w.Match.Running() {
			netsync.Predict(local, v.Keys.Input(), v.Keys.Pointer(), cfg.Width, cfg.Height)
		}
		netsync.Reconcile(local, factor)
		netsync.Smooth(w.Tank(v.Team.Opponent()), factor)
	}
	v.ui.Draw(v.Mirror.World, v.hud())
}

// apply decodes one snapshot into the mirror. Corrupt snapshots are
// dropped.
func (v *Viewer) apply(data []byte) {
	s, err := netsync.Decode(data)
	if err != nil {
		log.Debug("dropping snapshot", "error", err)
		return
	}
	for _, e := range v.Mirror.Apply(s) {
		v.cues.Cue(e)
	}
	v.board.observe(v.Mirror.World.Match)
}

// sendInput samples the keyboard and sends it to the host. Unless force
// is set only a change is sent.
func (v *Viewer) sendInput(now time.Time, force bool) {
	in, changed := v.Keys.Sample(now)
	if !v.started || (!changed && !force) {
		return
	}
	v.peer.SendBinary(protocol.InputFrame(v.Team, in))
}

func (v *Viewer) sendPointer(force bool) {
	if !v.started {
		return
	}
	p := v.Keys.Pointer()
	if !p.Valid || (p == v.lastPointer && !force) {
		return
	}
	v.lastPointer = p
	v.peer.SendJSON(protocol.MsgPointer, protocol.PointerMsg{Team: protocol.TeamName(v.Team), X: p.X, Y: p.Y})
}

// HandleInbound applies one relay message. It returns an error when the
// session is over.
func (v *Viewer) HandleInbound(in Inbound, now time.Time) error {
	if in.Binary {
		return nil
	}
	switch in.Env.T {
	case protocol.MsgCount:
		var msg protocol.CountMsg
		if err := json.Unmarshal(in.Env.D, &msg); err != nil {
			return nil
		}
		v.count = msg.N
		if v.count >= 2 && !v.started {
			log.Info("host present, match on")
			v.started = true
			v.status = ""
		} else if v.count < 2 && v.started {
			return ErrOpponentLeft
		}
	case protocol.MsgLeft:
		return ErrOpponentLeft
	case protocol.MsgEcho:
		var msg protocol.ProbeMsg
		if err := json.Unmarshal(in.Env.D, &msg); err == nil {
			v.meter.Echo(msg.TS, now)
		}
	case protocol.MsgPointer:
		var msg protocol.PointerMsg
		if err := json.Unmarshal(in.Env.D, &msg); err == nil {
			v.peerPointer = game.Pointer{X: msg.X, Y: msg.Y, Valid: true}
		}
	case protocol.MsgAuthority:
		log.Debug("authority", "data", string(in.Env.D))
	case protocol.MsgError:
		log.Warn("relay error", "data", string(in.Env.D))
	}
	return nil
}

// HandleUI applies one user action. It returns false when the user quits.
func (v *Viewer) HandleUI(ev UIEvent, now time.Time) bool {
	switch ev.Kind {
	case UIQuit:
		return false
	case UIAck:
		v.peer.SendJSON(protocol.MsgAck, nil)
	default:
		applyKeys(v.Keys, ev, now)
		if ev.Kind == UIAim {
			v.sendPointer(false)
		} else {
			v.sendInput(now, false)
		}
	}
	return true
}

func (v *Viewer) hud() HUD {
	hud := HUD{
		Team:        v.Team,
		Role:        protocol.RoleViewer,
		Ping:        v.meter.Ping(),
		Status:      v.status,
		PeerPointer: v.peerPointer,
	}
	v.board.fill(&hud)
	return hud
}
