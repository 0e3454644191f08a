package netsync

import (
	"math"
	"sync"
	"time"

	"github.com/nguyenphuquang1234567/Tank-Battle-Game/game"
)

const (
	MinFactor     = 0.1
	MaxFactor     = 0.4
	baseFactor    = 0.2
	SnapDistance  = 80.0
	SnapAngle     = math.Pi / 2
	ProbeInterval = time.Second
)

// Factor returns the smoothing factor for the measured round trip. Slower
// links catch up more aggressively.
func Factor(ping time.Duration) float64 {
	ms := float64(ping) / float64(time.Millisecond)
	return game.Clamp(baseFactor+ms/1000, MinFactor, MaxFactor)
}

// Smooth pulls a remote tank toward its latest authoritative pose
func Smooth(t *game.Tank, factor float64) {
	if !t.HasTarget {
		return
	}
	t.X = game.Lerp(t.X, t.TargetX, factor)
	t.Y = game.Lerp(t.Y, t.TargetY, factor)
	t.Angle = game.LerpAngle(t.Angle, t.TargetAngle, factor)
}

// Predict applies local input to the viewer's own tank ahead of the host
func Predict(t *game.Tank, in game.Input, p game.Pointer, width, height float64) {
	t.Move(in, width, height)
	t.Aim(p)
}

// Reconcile corrects a predicted tank toward its authoritative pose.
// Large errors are treated as a desync and snapped.
func Reconcile(t *game.Tank, factor float64) {
	if !t.HasTarget {
		return
	}
	if game.Distance(t.X, t.Y, t.TargetX, t.TargetY) > SnapDistance {
		t.X, t.Y = t.TargetX, t.TargetY
	} else {
		t.X = game.Lerp(t.X, t.TargetX, factor)
		t.Y = game.Lerp(t.Y, t.TargetY, factor)
	}
	da := game.NormalizeAngle(t.TargetAngle - t.Angle)
	if math.Abs(da) > SnapAngle {
		t.Angle = t.TargetAngle
	} else {
		t.Angle += da * factor
	}
}

// LatencyMeter measures round-trip time with timestamp probes
type LatencyMeter struct {
	mu   sync.Mutex
	ping time.Duration
}

// Probe returns the timestamp to send, in unix milliseconds
func (l *LatencyMeter) Probe(now time.Time) int64 {
	return now.UnixMilli()
}

// Echo records the round trip for a returned probe timestamp
func (l *LatencyMeter) Echo(ts int64, now time.Time) {
	rtt := now.Sub(time.UnixMilli(ts))
	if rtt < 0 {
		return
	}
	l.mu.Lock()
	l.ping = rtt
	l.mu.Unlock()
}

// Ping returns the last measured round trip
func (l *LatencyMeter) Ping() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ping
}

// Latest holds only the newest undelivered frame. Older frames are
// overwritten, never queued.
type Latest struct {
	mu     sync.Mutex
	data   []byte
	ok     bool
	notify chan struct{}
}

// NewLatest creates an empty slot
func NewLatest() *Latest {
	return &Latest{notify: make(chan struct{}, 1)}
}

// Put replaces any pending frame
func (l *Latest) Put(data []byte) {
	l.mu.Lock()
	l.data = data
	l.ok = true
	l.mu.Unlock()
	select {
	case l.notify <- struct{}{}:
	default:
	}
}

// Take returns the pending frame, if any, and empties the slot
func (l *Latest) Take() ([]byte, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	data, ok := l.data, l.ok
	l.data, l.ok = nil, false
	return data, ok
}

// Ready is signalled after Put
func (l *Latest) Ready() <-chan struct{} {
	return l.notify
}
