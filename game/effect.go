package game

const (
	BoomMaxRadius = 60.0
	BoomGrowth    = 6.0
	BoomFade      = 0.08
)

// BoomEffect is a cosmetic expanding ring
type BoomEffect struct {
	X, Y      float64
	Radius    float64
	MaxRadius float64
	Alpha     float64
	Color     string
	Done      bool
}

// NewBoom creates a ring at x, y
func NewBoom(x, y float64, color string) *BoomEffect {
	return &BoomEffect{X: x, Y: y, MaxRadius: BoomMaxRadius, Alpha: 1, Color: color}
}

// Update grows and fades the ring, reporting whether it is still visible
func (e *BoomEffect) Update() bool {
	e.Radius += BoomGrowth
	e.Alpha -= BoomFade
	if e.Alpha <= 0 || e.Radius >= e.MaxRadius {
		e.Alpha = max(e.Alpha, 0)
		e.Done = true
	}
	return !e.Done
}
