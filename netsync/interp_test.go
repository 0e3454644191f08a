package netsync

import (
	"math"
	"testing"
	"time"

	"github.com/nguyenphuquang1234567/Tank-Battle-Game/game"
)

func TestFactorBounds(t *testing.T) {
	cases := []struct {
		ping time.Duration
		want float64
	}{
		{0, 0.2},
		{50 * time.Millisecond, 0.25},
		{150 * time.Millisecond, 0.35},
		{time.Second, MaxFactor},
	}
	for _, c := range cases {
		if got := Factor(c.ping); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("ping %v: expected %v, got %v", c.ping, c.want, got)
		}
	}
}

func targeted(x, y, a, tx, ty, ta float64) *game.Tank {
	tank := game.NewTank(x, y, a, game.TeamBlue, nil)
	tank.TargetX, tank.TargetY, tank.TargetAngle = tx, ty, ta
	tank.HasTarget = true
	return tank
}

func TestReconcileSnapsLargeError(t *testing.T) {
	tank := targeted(100, 100, 0, 200, 100, 0)
	Reconcile(tank, 0.2)
	if tank.X != 200 {
		t.Errorf("expected snap to 200, got %v", tank.X)
	}
}

func TestReconcileSmoothsSmallError(t *testing.T) {
	tank := targeted(100, 100, 0, 150, 100, 0)
	Reconcile(tank, 0.2)
	if math.Abs(tank.X-110) > 1e-9 {
		t.Errorf("expected 110, got %v", tank.X)
	}
}

func TestReconcileAngle(t *testing.T) {
	tank := targeted(100, 100, 0, 100, 100, math.Pi*0.75)
	Reconcile(tank, 0.2)
	if tank.Angle != math.Pi*0.75 {
		t.Errorf("expected snap past 90 degrees, got %v", tank.Angle)
	}

	tank = targeted(100, 100, 0, 100, 100, 0.5)
	Reconcile(tank, 0.2)
	if math.Abs(tank.Angle-0.1) > 1e-9 {
		t.Errorf("expected 0.1, got %v", tank.Angle)
	}
}

func TestSmoothTakesShortArc(t *testing.T) {
	tank := targeted(0, 0, math.Pi-0.1, 0, 0, -math.Pi+0.1)
	Smooth(tank, 0.5)
	if tank.Angle < math.Pi-0.1 {
		t.Errorf("expected angle to cross +pi, got %v", tank.Angle)
	}
}

func TestSmoothWithoutTarget(t *testing.T) {
	tank := game.NewTank(10, 10, 0, game.TeamRed, nil)
	Smooth(tank, 0.4)
	if tank.X != 10 || tank.Y != 10 {
		t.Error("expected no movement without a target")
	}
}

func TestLatencyMeter(t *testing.T) {
	var l LatencyMeter
	now := time.UnixMilli(5000)
	ts := l.Probe(now)
	l.Echo(ts, now.Add(80*time.Millisecond))
	if l.Ping() != 80*time.Millisecond {
		t.Errorf("expected 80ms, got %v", l.Ping())
	}
	l.Echo(ts+1000, now)
	if l.Ping() != 80*time.Millisecond {
		t.Error("expected negative round trip to be ignored")
	}
}

func TestLatestKeepsNewest(t *testing.T) {
	l := NewLatest()
	l.Put([]byte("a"))
	l.Put([]byte("b"))
	<-l.Ready()
	data, ok := l.Take()
	if !ok || string(data) != "b" {
		t.Errorf("expected newest frame b, got %q %v", data, ok)
	}
	if _, ok := l.Take(); ok {
		t.Error("expected slot empty after take")
	}
}
