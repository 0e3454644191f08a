package game

import (
	"fmt"
	"math"
	"math/rand"
)

// AI tuning, in playfield units and ticks
const (
	AIStandOff        = 150.0
	AIStandOffBand    = 30.0
	AIStrafeInterval  = 120
	AIStateDuration   = 180
	AILowHealth       = 0.3
	AIHighHealth      = 0.7
	AIPredictInterval = 30
	AICoverInterval   = 120
	AICoverDistance   = 200.0
	AIMargin          = 50.0
	AIStartDifficulty = 0.8
	AIAdaptInterval   = 600
	AIDifficultyStep  = 0.1
	AIMinDifficulty   = 0.3
	AIMaxDifficulty   = 1.0
	AIDodgeRadius     = 120.0
	AIDangerRadius    = 40.0
	AIDodgeProbe      = 50.0
	AIMeteorFlee      = 100.0
	AIPowerUpNear     = 150.0
	AIPowerUpSafe     = 200.0
	AIFireRange       = 500.0
	AIMinReaction     = 3  // ticks
	AIMaxReaction     = 12 // ticks
	aiDeadZone        = 0.35
	aiDodgeWeight     = 2.0
)

// AIState is the current behavior of the decision engine
type AIState int

const (
	AIHunt AIState = iota
	AIRetreat
	AIAggressive
	AIDefensive
	AIPowerUp
)

func (s AIState) String() string {
	switch s {
	case AIHunt:
		return "hunt"
	case AIRetreat:
		return "retreat"
	case AIAggressive:
		return "aggressive"
	case AIDefensive:
		return "defensive"
	case AIPowerUp:
		return "powerup"
	}
	return fmt.Sprintf("AIState(%d)", int(s))
}

// Output is what a decider produces each tick
type Output struct {
	Input Input
	Aim   Pointer
}

// View is the part of the world a decider may look at. It holds copies,
// so deciders cannot mutate the simulation.
type View struct {
	Tick     int
	Width    float64
	Height   float64
	Self     Tank
	Opponent Tank
	Bullets  []Bullet
	PowerUps []PowerUp
	Meteors  []Meteor
}

// ViewFor projects the world for team
func (w *World) ViewFor(team Team) View {
	v := View{
		Tick:     w.Tick,
		Width:    w.cfg.Width,
		Height:   w.cfg.Height,
		Self:     *w.Tanks[team],
		Opponent: *w.Tanks[team.Opponent()],
		Bullets:  make([]Bullet, 0, len(w.Bullets)),
		PowerUps: make([]PowerUp, 0, len(w.PowerUps)),
		Meteors:  make([]Meteor, 0, len(w.Meteors)),
	}
	for _, b := range w.Bullets {
		v.Bullets = append(v.Bullets, *b)
	}
	for _, p := range w.PowerUps {
		v.PowerUps = append(v.PowerUps, *p)
	}
	for _, m := range w.Meteors {
		v.Meteors = append(v.Meteors, *m)
	}
	return v
}

// Decider turns a view into control signals. AIEngine is the rule-based
// implementation; other backends can stand in behind the same contract.
type Decider interface {
	Decide(v View) Output
}

// AIEngine is a finite-state controller that plays one tank
type AIEngine struct {
	Team       Team
	State      AIState
	Difficulty float64

	rng *rand.Rand
	out Output

	stateTimer    int
	predictTimer  int
	coverTimer    int
	adaptTimer    int
	strafeTimer   int
	strafeDir     float64
	lastKnown     Point
	haveLastKnown bool
	cover         *Point
	reactionDelay int
	reactionTimer int

	// steering accumulated during one decision
	sx, sy float64
}

// NewAIEngine creates an engine for team, deterministic for seed
func NewAIEngine(team Team, seed int64) *AIEngine {
	return &AIEngine{
		Team:       team,
		State:      AIHunt,
		Difficulty: AIStartDifficulty,
		rng:        rand.New(rand.NewSource(seed)),
		strafeDir:  1,
	}
}

// Output returns the most recent decision
func (e *AIEngine) Output() Output {
	if e == nil {
		return Output{}
	}
	return e.out
}

// Update consults the engine with the current world
func (e *AIEngine) Update(w *World) {
	e.out = e.Decide(w.ViewFor(e.Team))
}

// Cover returns the current retreat point, if any
func (e *AIEngine) Cover() (Point, bool) {
	if e.cover == nil {
		return Point{}, false
	}
	return *e.cover, true
}

// Decide runs one evaluation of the state machine and the auxiliary
// behaviors and returns keyboard-equivalent signals
func (e *AIEngine) Decide(v View) Output {
	self, opp := &v.Self, &v.Opponent

	e.stateTimer++
	e.predictTimer++
	e.coverTimer++
	e.adaptTimer++
	e.strafeTimer++

	if !e.haveLastKnown {
		e.lastKnown = Point{opp.X, opp.Y}
		e.haveLastKnown = true
	}
	if e.adaptTimer >= AIAdaptInterval {
		e.adapt(self, opp)
		e.adaptTimer = 0
	}
	if e.predictTimer >= AIPredictInterval {
		e.lastKnown = Point{opp.X, opp.Y}
		e.predictTimer = 0
	}
	if e.coverTimer >= AICoverInterval {
		e.findCover(v)
		e.coverTimer = 0
	}
	if e.strafeTimer >= AIStrafeInterval {
		e.strafeDir = -e.strafeDir
		e.strafeTimer = 0
	}

	e.transition(self, opp)

	e.sx, e.sy = 0, 0
	dist := Distance(self.X, self.Y, opp.X, opp.Y)
	switch e.State {
	case AIHunt:
		e.hunt(self, opp, dist)
	case AIRetreat:
		e.retreat(self, opp)
	case AIAggressive:
		e.aggressive(self, opp, dist)
	case AIDefensive:
		e.defensive(self, opp, dist)
	case AIPowerUp:
		if p, ok := nearestPowerUp(self, v.PowerUps); ok {
			e.steer(angleTo(self.X, self.Y, p.X, p.Y), 1)
		}
	}

	aim := e.predict(opp)
	fire := e.shoot(v, dist)
	e.dodge(v)
	e.seekPowerUp(v, dist)
	e.avoidMeteors(v)

	return Output{Input: e.quantize(fire), Aim: aim}
}

func (e *AIEngine) transition(self, opp *Tank) {
	own := self.HealthFraction()
	their := opp.HealthFraction()
	switch {
	case own < AILowHealth && e.State != AIRetreat:
		e.setState(AIRetreat)
	case own > AIHighHealth && their < 0.5 && e.State != AIAggressive:
		e.setState(AIAggressive)
	case e.stateTimer >= AIStateDuration:
		picks := [...]AIState{AIHunt, AIDefensive, AIAggressive}
		e.setState(picks[e.rng.Intn(len(picks))])
	}
}

func (e *AIEngine) setState(s AIState) {
	e.State = s
	e.stateTimer = 0
}

// SetState forces a behavior, restarting its duration
func (e *AIEngine) SetState(s AIState) {
	e.setState(s)
}

func (e *AIEngine) hunt(self, opp *Tank, dist float64) {
	target := AIStandOff * (0.8 + e.Difficulty*0.4)
	toward := angleTo(self.X, self.Y, opp.X, opp.Y)
	switch {
	case dist < target-AIStandOffBand:
		e.steer(toward+math.Pi+(e.rng.Float64()-0.5)*math.Pi/2, 1)
	case dist > target+AIStandOffBand:
		e.steer(toward, 1)
	default:
		strafe := toward + math.Pi/2
		if e.strafeDir < 0 {
			strafe += math.Pi
		}
		e.steer(strafe, 1)
	}
}

func (e *AIEngine) retreat(self, opp *Tank) {
	if e.cover != nil {
		e.steer(angleTo(self.X, self.Y, e.cover.X, e.cover.Y), 1)
	} else {
		e.steer(angleTo(opp.X, opp.Y, self.X, self.Y), 1)
	}
	// hold still to regenerate
	if self.HealthFraction() < 0.5 {
		e.sx, e.sy = 0, 0
	}
}

func (e *AIEngine) aggressive(self, opp *Tank, dist float64) {
	toward := angleTo(self.X, self.Y, opp.X, opp.Y)
	if dist > AIStandOff*0.6 {
		e.steer(toward, 1)
		return
	}
	e.steer(toward+math.Pi/2, 1)
}

func (e *AIEngine) defensive(self, opp *Tank, dist float64) {
	if dist < AIStandOff*1.2 {
		e.steer(angleTo(opp.X, opp.Y, self.X, self.Y), 1)
		return
	}
	e.steer(angleTo(self.X, self.Y, opp.X, opp.Y)+math.Pi/2, 1)
}

func (e *AIEngine) findCover(v View) {
	self, opp := &v.Self, &v.Opponent
	away := angleTo(opp.X, opp.Y, self.X, self.Y)
	e.cover = &Point{
		X: Clamp(self.X+math.Cos(away)*AICoverDistance, AIMargin, v.Width-AIMargin),
		Y: Clamp(self.Y+math.Sin(away)*AICoverDistance, AIMargin, v.Height-AIMargin),
	}
}

// predict extrapolates the opponent by twice its displacement since the
// last sampled position
func (e *AIEngine) predict(opp *Tank) Pointer {
	return Pointer{
		X:     opp.X + (opp.X-e.lastKnown.X)*2,
		Y:     opp.Y + (opp.Y-e.lastKnown.Y)*2,
		Valid: true,
	}
}

func (e *AIEngine) shoot(v View, dist float64) bool {
	e.reactionTimer++
	if e.reactionTimer < e.reactionDelay || !v.Self.CanShoot(v.Tick) {
		return false
	}
	accuracy := e.Difficulty * (1 - dist/AIFireRange)
	if e.rng.Float64() >= accuracy {
		return false
	}
	e.reactionDelay = AIMinReaction + e.rng.Intn(AIMaxReaction-AIMinReaction+1)
	e.reactionTimer = 0
	return true
}

func (e *AIEngine) dodge(v View) {
	self := &v.Self
	for i := range v.Bullets {
		b := &v.Bullets[i]
		if b.Team == self.Team {
			continue
		}
		dist := Distance(b.X, b.Y, self.X, self.Y)
		speed := math.Hypot(b.VX, b.VY)
		if dist >= AIDodgeRadius || speed == 0 {
			continue
		}
		t := dist / speed
		if Distance(b.X+b.VX*t, b.Y+b.VY*t, self.X, self.Y) >= AIDangerRadius {
			continue
		}

		candidates := [...]Point{
			{-b.VY, b.VX}, // perpendicular
			{b.VX, b.VY},  // along
			{-b.VX, -b.VY},
		}
		best := candidates[0]
		bestScore := math.Inf(-1)
		for _, c := range candidates {
			nx, ny := c.X/speed, c.Y/speed
			px, py := self.X+nx*AIDodgeProbe, self.Y+ny*AIDodgeProbe
			if px <= AIMargin || px >= v.Width-AIMargin || py <= AIMargin || py >= v.Height-AIMargin {
				continue
			}
			if score := e.rng.Float64() * e.Difficulty; score > bestScore {
				bestScore = score
				best = c
			}
		}
		e.steer(math.Atan2(best.Y, best.X), aiDodgeWeight)
	}
}

func (e *AIEngine) seekPowerUp(v View, oppDist float64) {
	p, ok := nearestPowerUp(&v.Self, v.PowerUps)
	if !ok {
		return
	}
	d := Distance(v.Self.X, v.Self.Y, p.X, p.Y)
	if e.State == AIPowerUp || d < AIPowerUpNear || oppDist > AIPowerUpSafe {
		e.steer(angleTo(v.Self.X, v.Self.Y, p.X, p.Y), 1)
	}
}

func (e *AIEngine) avoidMeteors(v View) {
	for i := range v.Meteors {
		m := &v.Meteors[i]
		if !m.Active {
			continue
		}
		if Distance(v.Self.X, v.Self.Y, m.X, m.Y) < AIMeteorFlee {
			e.steer(angleTo(m.X, m.Y, v.Self.X, v.Self.Y), 1)
		}
	}
}

// adapt nudges difficulty toward keeping the match close
func (e *AIEngine) adapt(self, opp *Tank) {
	own := self.HealthFraction()
	their := opp.HealthFraction()
	switch {
	case own < 0.3 && their > 0.7:
		e.Difficulty = math.Max(AIMinDifficulty, e.Difficulty-AIDifficultyStep)
	case own > 0.8 && their < 0.3:
		e.Difficulty = math.Min(AIMaxDifficulty, e.Difficulty+AIDifficultyStep)
	}
}

func (e *AIEngine) steer(angle, weight float64) {
	e.sx += math.Cos(angle) * weight
	e.sy += math.Sin(angle) * weight
}

func (e *AIEngine) quantize(fire bool) Input {
	return Input{
		Up:    e.sy < -aiDeadZone,
		Down:  e.sy > aiDeadZone,
		Left:  e.sx < -aiDeadZone,
		Right: e.sx > aiDeadZone,
		Fire:  fire,
	}
}

func nearestPowerUp(self *Tank, powerUps []PowerUp) (PowerUp, bool) {
	best := -1
	bestDist := math.Inf(1)
	for i := range powerUps {
		if d := Distance(self.X, self.Y, powerUps[i].X, powerUps[i].Y); d < bestDist {
			bestDist = d
			best = i
		}
	}
	if best < 0 {
		return PowerUp{}, false
	}
	return powerUps[best], true
}

func angleTo(fromX, fromY, toX, toY float64) float64 {
	return math.Atan2(toY-fromY, toX-fromX)
}
