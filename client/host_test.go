package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nguyenphuquang1234567/Tank-Battle-Game/game"
	"github.com/nguyenphuquang1234567/Tank-Battle-Game/netsync"
	"github.com/nguyenphuquang1234567/Tank-Battle-Game/protocol"
)

func newTestHost(t *testing.T) (*Host, *fakeTransport, *fakeUI, *recorder) {
	t.Helper()
	peer := newFakeTransport()
	ui := newFakeUI()
	rec := &recorder{}
	h := NewHost(quietConfig(), peer, ui, rec, nil, "ws://relay.test/ws?room=r")
	return h, peer, ui, rec
}

func startHost(t *testing.T, h *Host) {
	t.Helper()
	if err := h.HandleInbound(textIn(protocol.MsgCount, protocol.CountMsg{N: 2})); err != nil {
		t.Fatal(err)
	}
	if !h.Started() {
		t.Fatal("expected host to start with two participants")
	}
}

func TestHostWaitsForOpponent(t *testing.T) {
	h, peer, ui, _ := newTestHost(t)

	h.Tick(time.Now())
	if h.World.Tick != 0 {
		t.Errorf("expected no simulation before start, got tick %d", h.World.Tick)
	}
	if len(peer.sentBinary()) != 0 {
		t.Errorf("expected no snapshots before start, got %d", len(peer.sentBinary()))
	}
	if ui.draws != 1 {
		t.Errorf("expected 1 draw, got %d", ui.draws)
	}
	if ui.last.Invite == "" {
		t.Error("expected invite on the waiting screen")
	}

	h.HandleInbound(textIn(protocol.MsgCount, protocol.CountMsg{N: 1}))
	if h.Started() {
		t.Error("expected host to keep waiting with one participant")
	}
}

func TestHostStreamsSnapshots(t *testing.T) {
	h, peer, ui, _ := newTestHost(t)
	startHost(t, h)

	h.Tick(time.Now())
	if h.World.Tick != 1 {
		t.Errorf("expected tick 1, got %d", h.World.Tick)
	}
	frames := peer.sentBinary()
	if len(frames) != 1 {
		t.Fatalf("expected 1 snapshot frame, got %d", len(frames))
	}
	tag, payload, err := protocol.SplitFrame(frames[0])
	if err != nil || tag != protocol.FrameSnapshot {
		t.Fatalf("expected snapshot frame, got tag %d err %v", tag, err)
	}
	s, err := netsync.Decode(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.T[game.TeamRed].X != h.World.Tanks[game.TeamRed].X {
		t.Errorf("expected red x %v, got %v", h.World.Tanks[game.TeamRed].X, s.T[game.TeamRed].X)
	}
	if ui.last.Invite != "" {
		t.Error("expected invite hidden once started")
	}
}

func TestHostAppliesViewerInput(t *testing.T) {
	h, _, _, _ := newTestHost(t)
	startHost(t, h)

	frame := protocol.InputFrame(game.TeamBlue, game.Input{Up: true})
	h.HandleInbound(Inbound{Frame: frame, Binary: true})
	if !h.Remote.Input(game.TeamBlue).Up {
		t.Error("expected blue input from binary frame")
	}

	h.HandleInbound(textIn(protocol.MsgInput, protocol.InputMsg{Team: "blue", Input: game.Input{Left: true}}))
	in := h.Remote.Input(game.TeamBlue)
	if !in.Left || in.Up {
		t.Errorf("expected text input to replace frame input, got %+v", in)
	}

	y := h.World.Tanks[game.TeamBlue].Y
	h.HandleInbound(Inbound{Frame: protocol.InputFrame(game.TeamBlue, game.Input{Up: true}), Binary: true})
	h.Tick(time.Now())
	if h.World.Tanks[game.TeamBlue].Y >= y {
		t.Errorf("expected blue tank to move up from %v, got %v", y, h.World.Tanks[game.TeamBlue].Y)
	}
}

func TestHostRejectsInputForOwnTank(t *testing.T) {
	h, _, _, _ := newTestHost(t)
	startHost(t, h)

	h.HandleInbound(Inbound{Frame: protocol.InputFrame(game.TeamRed, game.Input{Down: true}), Binary: true})
	h.HandleInbound(textIn(protocol.MsgInput, protocol.InputMsg{Team: "red", Input: game.Input{Down: true}}))
	if h.Remote.Input(game.TeamRed).Down {
		t.Error("expected red input from the viewer to be ignored")
	}
}

func TestHostViewerPointer(t *testing.T) {
	h, _, ui, _ := newTestHost(t)
	startHost(t, h)

	h.HandleInbound(textIn(protocol.MsgPointer, protocol.PointerMsg{Team: "blue", X: 400, Y: 300}))
	p := h.Remote.Pointer(game.TeamBlue)
	if !p.Valid || p.X != 400 || p.Y != 300 {
		t.Errorf("expected blue pointer (400,300), got %+v", p)
	}
	h.Tick(time.Now())
	if ui.last.PeerPointer != p {
		t.Errorf("expected HUD peer pointer %+v, got %+v", p, ui.last.PeerPointer)
	}
}

func TestHostSendsPointerOnMoveAndTimer(t *testing.T) {
	h, peer, _, _ := newTestHost(t)
	now := time.Now()

	h.HandleUI(UIEvent{Kind: UIAim, X: 100, Y: 100}, now)
	h.sendPointer(true)
	if n := len(peer.sentText(protocol.MsgPointer)); n != 0 {
		t.Errorf("expected no pointer before start, got %d", n)
	}

	startHost(t, h)
	h.HandleUI(UIEvent{Kind: UIAim, X: 120, Y: 100}, now)
	if n := len(peer.sentText(protocol.MsgPointer)); n != 1 {
		t.Fatalf("expected 1 pointer message on move, got %d", n)
	}
	h.HandleUI(UIEvent{Kind: UIAim, X: 120, Y: 100}, now)
	if n := len(peer.sentText(protocol.MsgPointer)); n != 1 {
		t.Errorf("expected no resend for a still pointer, got %d", n)
	}

	h.sendPointer(true)
	h.sendPointer(true)
	sent := peer.sentText(protocol.MsgPointer)
	if len(sent) != 3 {
		t.Fatalf("expected periodic resends, got %d messages", len(sent))
	}
	p := sent[2].Data.(protocol.PointerMsg)
	if p.Team != "red" || p.X != 120 || p.Y != 100 {
		t.Errorf("expected red (120,100), got %+v", p)
	}
}

func TestHostAckFromViewer(t *testing.T) {
	h, _, _, _ := newTestHost(t)
	startHost(t, h)

	h.World.Match.LoseLife(game.TeamRed)
	if h.World.Match.Phase != game.PhaseRoundOver {
		t.Fatalf("expected round over, got %v", h.World.Match.Phase)
	}
	h.HandleInbound(textIn(protocol.MsgAck, nil))
	if h.World.Match.Phase != game.PhaseCountdown {
		t.Errorf("expected countdown after ack, got %v", h.World.Match.Phase)
	}
}

func TestHostLocalAck(t *testing.T) {
	h, _, _, _ := newTestHost(t)
	startHost(t, h)

	h.World.Match.LoseLife(game.TeamBlue)
	if !h.HandleUI(UIEvent{Kind: UIAck}, time.Now()) {
		t.Fatal("expected ack not to quit")
	}
	if h.World.Match.Phase != game.PhaseCountdown {
		t.Errorf("expected countdown after ack, got %v", h.World.Match.Phase)
	}
	if h.HandleUI(UIEvent{Kind: UIQuit}, time.Now()) {
		t.Error("expected quit")
	}
}

func TestHostOpponentLeft(t *testing.T) {
	h, _, _, _ := newTestHost(t)
	startHost(t, h)

	if err := h.HandleInbound(textIn(protocol.MsgLeft, protocol.RoleMsg{Team: "blue"})); !errors.Is(err, ErrOpponentLeft) {
		t.Errorf("expected ErrOpponentLeft, got %v", err)
	}
	if err := h.HandleInbound(textIn(protocol.MsgCount, protocol.CountMsg{N: 1})); !errors.Is(err, ErrOpponentLeft) {
		t.Errorf("expected ErrOpponentLeft on count drop, got %v", err)
	}
}

func TestHostRunEndsOnLeft(t *testing.T) {
	h, peer, _, _ := newTestHost(t)
	peer.in <- textIn(protocol.MsgCount, protocol.CountMsg{N: 2})
	peer.in <- textIn(protocol.MsgLeft, protocol.RoleMsg{Team: "blue"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.Run(ctx); !errors.Is(err, ErrOpponentLeft) {
		t.Errorf("expected ErrOpponentLeft, got %v", err)
	}
}

func TestHostRunEndsOnConnectionLoss(t *testing.T) {
	h, peer, _, _ := newTestHost(t)
	peer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.Run(ctx); !errors.Is(err, ErrConnectionLost) {
		t.Errorf("expected ErrConnectionLost, got %v", err)
	}
}

func TestHostCuesEvents(t *testing.T) {
	h, _, _, rec := newTestHost(t)
	startHost(t, h)

	red := h.World.Tanks[game.TeamRed]
	blue := h.World.Tanks[game.TeamBlue]
	b := game.NewBullet(blue.X, blue.Y, 0, 0, game.TeamRed, red.Color(), game.BulletDamage)
	h.World.Bullets = append(h.World.Bullets, b)
	h.Tick(time.Now())

	if rec.count(game.EventHit) == 0 {
		t.Error("expected a hit cue")
	}
}

func TestOfflineHostPlaysAgainstAI(t *testing.T) {
	ui := newFakeUI()
	h := NewOfflineHost(quietConfig(), ui, &recorder{}, nil)
	if !h.Started() {
		t.Fatal("expected offline match to start immediately")
	}

	blue := h.World.Tanks[game.TeamBlue]
	x, y := blue.X, blue.Y
	now := time.Now()
	for i := 0; i < 120; i++ {
		h.Tick(now)
		now = now.Add(game.TickDuration)
	}
	if h.World.Tick != 120 {
		t.Errorf("expected tick 120, got %d", h.World.Tick)
	}
	if blue.X == x && blue.Y == y {
		t.Error("expected the AI to move the blue tank")
	}
	if ui.last.Role != "offline" {
		t.Errorf("expected offline role, got %s", ui.last.Role)
	}
}

func TestOfflineHostQuitsOnContext(t *testing.T) {
	h := NewOfflineHost(quietConfig(), newFakeUI(), &recorder{}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := h.Run(ctx); err != nil {
		t.Errorf("expected clean exit, got %v", err)
	}
	if h.World.Tick == 0 {
		t.Error("expected the world to advance while running")
	}
}
