package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nguyenphuquang1234567/Tank-Battle-Game/game"
	"github.com/nguyenphuquang1234567/Tank-Battle-Game/protocol"
)

// startRelayStub serves one websocket connection and hands it to serve
func startRelayStub(t *testing.T, serve func(conn *websocket.Conn)) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		serve(conn)
	}))
	t.Cleanup(srv.Close)
	return strings.TrimPrefix(srv.URL, "http://")
}

func TestPeerRoutesInbound(t *testing.T) {
	snapshot := []byte{0x98, 0x01, 0x02}
	input := protocol.InputFrame(game.TeamBlue, game.Input{Right: true})
	addr := startRelayStub(t, func(conn *websocket.Conn) {
		raw, _ := protocol.Marshal(protocol.MsgRole, protocol.RoleMsg{Team: "red", ID: "x", Room: "r"})
		conn.WriteMessage(websocket.TextMessage, raw)
		conn.WriteMessage(websocket.BinaryMessage, protocol.SnapshotFrame(snapshot))
		conn.WriteMessage(websocket.BinaryMessage, input)
		conn.ReadMessage()
	})

	p, err := Dial(addr, "r")
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	role, err := AwaitRole(p, 2*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if role.Team != "red" || role.Room != "r" {
		t.Errorf("expected red in r, got %+v", role)
	}

	select {
	case in := <-p.Inbound():
		if !in.Binary || !bytes.Equal(in.Frame, input) {
			t.Errorf("expected input frame, got %+v", in)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for input frame")
	}

	// Snapshots bypass the inbound queue
	got, ok := p.Snapshots().Take()
	if !ok || !bytes.Equal(got, snapshot) {
		t.Errorf("expected snapshot %v in slot, got %v %v", snapshot, got, ok)
	}
}

func TestPeerSends(t *testing.T) {
	type msg struct {
		kind int
		data []byte
	}
	received := make(chan msg, 4)
	addr := startRelayStub(t, func(conn *websocket.Conn) {
		for {
			kind, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			received <- msg{kind, data}
		}
	})

	p, err := Dial(addr, "")
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	frame := protocol.InputFrame(game.TeamBlue, game.Input{Up: true})
	p.SendBinary(frame)
	p.SendJSON(protocol.MsgAck, nil)

	for i, want := range []msg{{websocket.BinaryMessage, frame}, {websocket.TextMessage, []byte(`{"t":"ack"}`)}} {
		select {
		case got := <-received:
			if got.kind != want.kind || !bytes.Equal(got.data, want.data) {
				t.Errorf("message %d: expected %d %q, got %d %q", i, want.kind, want.data, got.kind, got.data)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("message %d: timed out", i)
		}
	}
}

func TestPeerDoneOnServerClose(t *testing.T) {
	addr := startRelayStub(t, func(conn *websocket.Conn) {})

	p, err := Dial(addr, "")
	if err != nil {
		t.Fatal(err)
	}
	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("expected peer to notice the closed connection")
	}
	// Sends after close are dropped
	p.SendJSON(protocol.MsgProbe, protocol.ProbeMsg{TS: 1})
	p.Close()
}

func TestAwaitRoleRefused(t *testing.T) {
	f := newFakeTransport()
	f.in <- textIn(protocol.MsgError, protocol.ErrorMsg{Msg: "room is full"})
	_, err := AwaitRole(f, time.Second)
	if err == nil || !strings.Contains(err.Error(), "room is full") {
		t.Errorf("expected refusal, got %v", err)
	}
}

func TestAwaitRoleConnectionLost(t *testing.T) {
	f := newFakeTransport()
	f.Close()
	if _, err := AwaitRole(f, time.Second); !errors.Is(err, ErrConnectionLost) {
		t.Errorf("expected ErrConnectionLost, got %v", err)
	}
}

func TestAwaitRoleTimeout(t *testing.T) {
	f := newFakeTransport()
	if _, err := AwaitRole(f, 10*time.Millisecond); err == nil {
		t.Error("expected timeout")
	}
}
