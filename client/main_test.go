package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseOptionsDefaults(t *testing.T) {
	t.Setenv("TANK_ADDR", "")
	t.Setenv("TANK_ROOM", "")
	o, err := parseOptions(nil)
	if err != nil {
		t.Fatal(err)
	}
	if o.Mode != ModeAI {
		t.Errorf("expected mode %s, got %s", ModeAI, o.Mode)
	}
	if o.Addr != "localhost:8080" {
		t.Errorf("expected localhost:8080, got %s", o.Addr)
	}
	if o.Room != "" || o.Headless || o.Mute {
		t.Errorf("expected zero room and flags, got %+v", o)
	}
}

func TestParseOptionsEnvironment(t *testing.T) {
	t.Setenv("TANK_ADDR", "relay.example:9000")
	t.Setenv("TANK_ROOM", "abc")
	o, err := parseOptions([]string{"-mode", "online", "-headless", "-seed", "42"})
	if err != nil {
		t.Fatal(err)
	}
	if o.Addr != "relay.example:9000" || o.Room != "abc" {
		t.Errorf("expected env addr and room, got %s %s", o.Addr, o.Room)
	}
	if o.Mode != ModeOnline || !o.Headless || o.Seed != 42 {
		t.Errorf("expected online headless seed 42, got %+v", o)
	}

	// Flags win over the environment
	o, _ = parseOptions([]string{"-addr", "other:1"})
	if o.Addr != "other:1" {
		t.Errorf("expected other:1, got %s", o.Addr)
	}
}

func TestParseOptionsRejectsUnknownMode(t *testing.T) {
	if _, err := parseOptions([]string{"-mode", "coop"}); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestRelayURL(t *testing.T) {
	cases := []struct {
		addr, room, want string
	}{
		{"localhost:8080", "", "ws://localhost:8080/ws"},
		{"localhost:8080", "abc", "ws://localhost:8080/ws?room=abc"},
		{"wss://relay.example", "abc", "wss://relay.example/ws?room=abc"},
		{"ws://relay.example/custom", "r", "ws://relay.example/custom?room=r"},
	}
	for _, c := range cases {
		got, err := RelayURL(c.addr, c.room)
		if err != nil {
			t.Errorf("%s: %v", c.addr, err)
			continue
		}
		if got != c.want {
			t.Errorf("expected %s, got %s", c.want, got)
		}
	}
}

func TestSessionMessage(t *testing.T) {
	if msg := sessionMessage(fmt.Errorf("run: %w", ErrOpponentLeft)); !strings.Contains(msg, "opponent left") {
		t.Errorf("expected opponent message, got %q", msg)
	}
	if msg := sessionMessage(ErrConnectionLost); !strings.Contains(msg, "Lost connection") {
		t.Errorf("expected connection message, got %q", msg)
	}
	if msg := sessionMessage(errors.New("boom")); msg != "boom" {
		t.Errorf("expected boom, got %q", msg)
	}
}

func TestRealMainExitCodes(t *testing.T) {
	var stderr bytes.Buffer
	if code := realMain([]string{"-mode", "duel"}, &stderr); code != 2 {
		t.Errorf("expected exit 2 for a bad mode, got %d", code)
	}
	if !strings.Contains(stderr.String(), "unknown mode") {
		t.Errorf("expected the mode error on stderr, got %q", stderr.String())
	}
}

func TestRealMainClosesLogFile(t *testing.T) {
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	path := filepath.Join(t.TempDir(), "tank.log")

	var stderr bytes.Buffer
	code := realMain([]string{
		"-mode", "online", "-addr", "127.0.0.1:1", "-headless", "-mute", "-log-file", path,
	}, &stderr)
	if code != 1 {
		t.Fatalf("expected exit 1 when the relay is unreachable, got %d", code)
	}
	if stderr.Len() == 0 {
		t.Error("expected a session message on stderr")
	}

	log.Error("after exit")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "session ended") {
		t.Errorf("expected the failure in the log file, got %q", data)
	}
	if strings.Contains(string(data), "after exit") {
		t.Error("expected logging to leave the file once realMain returned")
	}
}
