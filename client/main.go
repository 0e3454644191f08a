package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nguyenphuquang1234567/Tank-Battle-Game/game"
)

const (
	ModeAI     = "ai"
	ModeOnline = "online"

	seatTimeout = 10 * time.Second
)

// Options are the participant's command line settings
type Options struct {
	Mode     string
	Addr     string
	Room     string
	Seed     int64
	Headless bool
	Mute     bool
	LogLevel string
	LogFile  string
}

// GetEnv returns the value of key, or def when unset
func GetEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func parseOptions(args []string) (Options, error) {
	var o Options
	fs := flag.NewFlagSet("tank", flag.ContinueOnError)
	fs.StringVar(&o.Mode, "mode", ModeAI, "Game mode: ai (offline against the computer) or online")
	fs.StringVar(&o.Addr, "addr", GetEnv("TANK_ADDR", "localhost:8080"), "Relay address")
	fs.StringVar(&o.Room, "room", GetEnv("TANK_ROOM", ""), "Room to join (empty creates one)")
	fs.Int64Var(&o.Seed, "seed", 0, "Simulation seed (0 picks one)")
	fs.BoolVar(&o.Headless, "headless", false, "Log status lines instead of drawing the terminal")
	fs.BoolVar(&o.Mute, "mute", false, "Disable sound")
	fs.StringVar(&o.LogLevel, "log-level", GetEnv("TANK_LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	fs.StringVar(&o.LogFile, "log-file", "", "Write logs to this file")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.Mode != ModeAI && o.Mode != ModeOnline {
		return o, fmt.Errorf("unknown mode %q", o.Mode)
	}
	return o, nil
}

// logFile restores stderr logging when the file is closed
type logFile struct {
	*os.File
}

func (f logFile) Close() error {
	log.SetOutput(os.Stderr)
	return f.File.Close()
}

// setupLogging routes logs away from the terminal while it is drawn
func setupLogging(o Options) (io.Closer, error) {
	if lvl, err := log.ParseLevel(o.LogLevel); err == nil {
		log.SetLevel(lvl)
	} else {
		log.Warn("unknown log level, using info", "level", o.LogLevel)
	}
	log.SetReportTimestamp(true)

	switch {
	case o.LogFile != "":
		f, err := os.OpenFile(o.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		log.SetOutput(f)
		return logFile{f}, nil
	case !o.Headless:
		log.SetOutput(io.Discard)
	}
	return nil, nil
}

func main() {
	os.Exit(realMain(os.Args[1:], os.Stderr))
}

// realMain runs the participant and returns the process exit code, so
// deferred cleanup finishes before the process exits
func realMain(args []string, stderr io.Writer) int {
	opts, err := parseOptions(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}
	closer, err := setupLogging(opts)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if closer != nil {
		defer closer.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		log.Error("session ended", "error", err)
		fmt.Fprintln(stderr, sessionMessage(err))
		return 1
	}
	return 0
}

// sessionMessage is the user-visible reason a session ended
func sessionMessage(err error) string {
	switch {
	case errors.Is(err, ErrOpponentLeft):
		return "Your opponent left. The match is over."
	case errors.Is(err, ErrConnectionLost):
		return "Lost connection to the relay. The match is over."
	}
	return err.Error()
}

func run(ctx context.Context, opts Options) error {
	cfg := game.DefaultConfig()
	if opts.Seed != 0 {
		cfg.Seed = opts.Seed
	}

	journal, err := OpenJournal()
	if err != nil {
		log.Warn("journal disabled", "error", err)
		journal = nil
	}
	defer journal.Close()

	audio := NewAudio(opts.Mute)
	sink := cues{audio, cueLog{}}

	if opts.Mode == ModeAI {
		ui, err := newUI(opts, cfg)
		if err != nil {
			return err
		}
		defer ui.Close()
		log.Info("offline match", "seed", cfg.Seed)
		return NewOfflineHost(cfg, ui, sink, journal).Run(ctx)
	}

	peer, err := Dial(opts.Addr, opts.Room)
	if err != nil {
		return err
	}
	defer peer.Close()

	role, err := AwaitRole(peer, seatTimeout)
	if err != nil {
		return err
	}
	team, ok := game.ParseTeam(role.Team)
	if !ok {
		return fmt.Errorf("relay assigned unknown team %q", role.Team)
	}
	invite := InviteURL(opts.Addr, role.Room)
	log.Info("seated", "team", team, "room", role.Room, "invite", invite)

	ui, err := newUI(opts, cfg)
	if err != nil {
		return err
	}
	defer ui.Close()

	if team == game.TeamRed {
		return NewHost(cfg, peer, ui, sink, journal, invite).Run(ctx)
	}
	return NewViewer(cfg, team, peer, ui, sink, journal).Run(ctx)
}

func newUI(opts Options, cfg game.Config) (UI, error) {
	if opts.Headless {
		return NewHeadless(game.TickRate), nil
	}
	return NewTerminal(cfg)
}
