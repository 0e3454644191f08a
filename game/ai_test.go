package game

import (
	"math"
	"testing"
)

func aiView(selfX, selfY, oppX, oppY float64) View {
	self := NewTank(selfX, selfY, 0, TeamBlue, nil)
	opp := NewTank(oppX, oppY, 0, TeamRed, nil)
	return View{Tick: 1000, Width: 1280, Height: 720, Self: *self, Opponent: *opp}
}

func TestAIRetreatsOnLowHealth(t *testing.T) {
	e := NewAIEngine(TeamBlue, 1)
	e.SetState(AIAggressive)
	v := aiView(600, 360, 700, 360)
	v.Self.Health = int(0.2 * TankMaxHealth)

	e.Decide(v)
	if e.State != AIRetreat {
		t.Errorf("expected retreat, got %v", e.State)
	}
}

func TestAIFindsCoverAwayFromOpponent(t *testing.T) {
	e := NewAIEngine(TeamBlue, 1)
	v := aiView(600, 360, 700, 360)
	v.Self.Health = int(0.2 * TankMaxHealth)

	for i := 0; i < AICoverInterval-1; i++ {
		e.Decide(v)
	}
	if _, ok := e.Cover(); ok {
		t.Fatalf("expected no cover before %d ticks", AICoverInterval)
	}
	e.Decide(v)
	p, ok := e.Cover()
	if !ok {
		t.Fatal("expected a cover point")
	}
	if math.Abs(p.X-400) > 1e-6 || math.Abs(p.Y-360) > 1e-6 {
		t.Errorf("expected cover at (400,360), got (%.2f,%.2f)", p.X, p.Y)
	}
}

func TestAIHoldsStillToRegenerate(t *testing.T) {
	e := NewAIEngine(TeamBlue, 1)
	v := aiView(600, 360, 1000, 360)
	v.Self.Health = int(0.2 * TankMaxHealth)

	out := e.Decide(v)
	if out.Input.Up || out.Input.Down || out.Input.Left || out.Input.Right {
		t.Errorf("expected no movement while regenerating, got %+v", out.Input)
	}
}

func TestAIAggressiveOnAdvantage(t *testing.T) {
	e := NewAIEngine(TeamBlue, 1)
	v := aiView(600, 360, 900, 360)
	v.Opponent.Health = int(0.4 * TankMaxHealth)

	out := e.Decide(v)
	if e.State != AIAggressive {
		t.Fatalf("expected aggressive, got %v", e.State)
	}
	if !out.Input.Right || out.Input.Left {
		t.Errorf("expected to close in to the right, got %+v", out.Input)
	}
}

func TestAIHuntApproachesFromAfar(t *testing.T) {
	e := NewAIEngine(TeamBlue, 1)
	out := e.Decide(aiView(200, 360, 1100, 360))
	if e.State != AIHunt {
		t.Fatalf("expected hunt, got %v", e.State)
	}
	if !out.Input.Right || out.Input.Left || out.Input.Up || out.Input.Down {
		t.Errorf("expected to move right only, got %+v", out.Input)
	}
	if !out.Aim.Valid || out.Aim.X != 1100 || out.Aim.Y != 360 {
		t.Errorf("expected aim at a stationary opponent, got %+v", out.Aim)
	}
}

func TestAIStateChangesAfterDuration(t *testing.T) {
	e := NewAIEngine(TeamBlue, 3)
	v := aiView(200, 360, 1100, 360)
	for i := 0; i < AIStateDuration-1; i++ {
		e.Decide(v)
	}
	if e.stateTimer != AIStateDuration-1 {
		t.Fatalf("expected state timer %d, got %d", AIStateDuration-1, e.stateTimer)
	}
	e.Decide(v)
	if e.stateTimer != 0 {
		t.Errorf("expected state timer reset after %d ticks, got %d", AIStateDuration, e.stateTimer)
	}
	switch e.State {
	case AIHunt, AIDefensive, AIAggressive:
	default:
		t.Errorf("expected a random pick among hunt/defensive/aggressive, got %v", e.State)
	}
}

func TestAIPredictsMovement(t *testing.T) {
	e := NewAIEngine(TeamBlue, 1)
	v := aiView(200, 360, 1000, 360)
	e.Decide(v)
	v.Opponent.X = 1010
	out := e.Decide(v)
	if out.Aim.X != 1030 {
		t.Errorf("expected aim extrapolated to 1030, got %v", out.Aim.X)
	}
}

func TestAIDifficultyAdapts(t *testing.T) {
	e := NewAIEngine(TeamBlue, 1)
	v := aiView(200, 360, 1100, 360)
	v.Self.Health = int(0.2 * TankMaxHealth)
	v.Opponent.Health = TankMaxHealth
	for i := 0; i < AIAdaptInterval; i++ {
		e.Decide(v)
	}
	if diff := e.Difficulty - (AIStartDifficulty - AIDifficultyStep); diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected difficulty %.1f, got %f", AIStartDifficulty-AIDifficultyStep, e.Difficulty)
	}
	for i := 0; i < AIAdaptInterval*10; i++ {
		e.Decide(v)
	}
	if e.Difficulty < AIMinDifficulty-1e-9 {
		t.Errorf("expected difficulty floor %.1f, got %f", AIMinDifficulty, e.Difficulty)
	}

	v.Self.Health = TankMaxHealth
	v.Opponent.Health = int(0.2 * TankMaxHealth)
	for i := 0; i < AIAdaptInterval*20; i++ {
		e.Decide(v)
	}
	if e.Difficulty > AIMaxDifficulty+1e-9 {
		t.Errorf("expected difficulty ceiling %.1f, got %f", AIMaxDifficulty, e.Difficulty)
	}
}

func TestAIDodgesIncomingBullet(t *testing.T) {
	e := NewAIEngine(TeamBlue, 1)
	v := aiView(640, 360, 640, 700)
	v.Self.Health = int(0.2 * TankMaxHealth) // retreat clears its own steering
	v.Bullets = []Bullet{*NewBullet(540, 360, TankBulletSpeed, 0, TeamRed, ColorRed, BulletDamage)}

	out := e.Decide(v)
	if !(out.Input.Up || out.Input.Down || out.Input.Left || out.Input.Right) {
		t.Error("expected a dodge movement")
	}
}

func TestAIIgnoresFriendlyBullets(t *testing.T) {
	e := NewAIEngine(TeamBlue, 1)
	v := aiView(640, 360, 640, 700)
	v.Self.Health = int(0.2 * TankMaxHealth)
	v.Bullets = []Bullet{*NewBullet(540, 360, TankBulletSpeed, 0, TeamBlue, ColorBlue, BulletDamage)}

	out := e.Decide(v)
	if out.Input.Up || out.Input.Down || out.Input.Left || out.Input.Right {
		t.Errorf("expected no dodge from own bullet, got %+v", out.Input)
	}
}

func TestAIFleesMeteor(t *testing.T) {
	e := NewAIEngine(TeamBlue, 1)
	v := aiView(640, 360, 640, 700)
	v.Self.Health = int(0.2 * TankMaxHealth)
	v.Meteors = []Meteor{*NewMeteor(700, 360, 3, 1, 20)}

	out := e.Decide(v)
	if !out.Input.Left || out.Input.Right {
		t.Errorf("expected to flee left, got %+v", out.Input)
	}
}

func TestAIDeterministicForSeed(t *testing.T) {
	a := NewAIEngine(TeamBlue, 42)
	b := NewAIEngine(TeamBlue, 42)
	v := aiView(300, 200, 900, 500)
	for i := 0; i < 1000; i++ {
		v.Tick = i
		if a.Decide(v) != b.Decide(v) {
			t.Fatalf("tick %d: expected identical decisions", i)
		}
	}
}

func TestAIControlsTankInWorld(t *testing.T) {
	engine := NewAIEngine(TeamBlue, 5)
	b := Binding{Local: TeamRed, AIMode: true, Keys: &InputState{}, Engine: engine}
	cfg := quietConfig()
	w := NewWorld(cfg, ControlFor(TeamRed, b), ControlFor(TeamBlue, b))
	w.AttachAI(engine)

	x := w.Tanks[TeamBlue].X
	for i := 0; i < 30; i++ {
		w.Step()
	}
	if w.Tanks[TeamBlue].X == x {
		t.Error("expected the AI tank to move")
	}
}
