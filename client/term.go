package main

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/nguyenphuquang1234567/Tank-Battle-Game/game"
)

// viewport maps playfield coordinates onto terminal cells. Row 0 and the
// last row are reserved for the HUD.
type viewport struct {
	cols, rows    int
	width, height float64
}

func (v viewport) fieldRows() int {
	if v.rows < 3 {
		return 1
	}
	return v.rows - 2
}

// cell returns the terminal cell for a playfield point
func (v viewport) cell(x, y float64) (int, int) {
	cx := int(x / v.width * float64(v.cols))
	cy := 1 + int(y/v.height*float64(v.fieldRows()))
	return cx, cy
}

// point returns the playfield point at the center of a terminal cell
func (v viewport) point(cx, cy int) (float64, float64) {
	x := (float64(cx) + 0.5) / float64(v.cols) * v.width
	y := (float64(cy-1) + 0.5) / float64(v.fieldRows()) * v.height
	return game.Clamp(x, 0, v.width), game.Clamp(y, 0, v.height)
}

func (v viewport) inField(cx, cy int) bool {
	return cx >= 0 && cx < v.cols && cy >= 1 && cy <= v.fieldRows()
}

var powerUpGlyphs = map[game.PowerUpKind]rune{
	game.PowerUpSpeed:     'S',
	game.PowerUpRapid:     'R',
	game.PowerUpShield:    'H',
	game.PowerUpMultishot: 'M',
	game.PowerUpMiniTank:  'T',
}

var (
	styleHUD     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkSlateGray)
	styleField   = tcell.StyleDefault.Background(tcell.ColorBlack)
	styleMeteor  = tcell.StyleDefault.Foreground(tcell.ColorSaddleBrown).Background(tcell.ColorBlack)
	stylePowerUp = tcell.StyleDefault.Foreground(tcell.ColorGold).Background(tcell.ColorBlack).Bold(true)
	styleWarning = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorBlack)
	styleBanner  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack).Bold(true)
	styleFlash   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
)

func fg(color string) tcell.Style {
	return styleField.Foreground(tcell.GetColor(color))
}

// Terminal draws the match with tcell and decodes keyboard and mouse input
type Terminal struct {
	screen tcell.Screen
	events chan UIEvent
	quit   chan struct{}

	mu   sync.Mutex
	view viewport
}

// NewTerminal takes over the terminal
func NewTerminal(cfg game.Config) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()
	screen.HideCursor()

	t := &Terminal{
		screen: screen,
		events: make(chan UIEvent, 64),
		quit:   make(chan struct{}),
	}
	cols, rows := screen.Size()
	t.view = viewport{cols: cols, rows: rows, width: cfg.Width, height: cfg.Height}
	go t.poll()
	return t, nil
}

func (t *Terminal) Events() <-chan UIEvent { return t.events }

func (t *Terminal) viewport() viewport {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view
}

// Close restores the terminal
func (t *Terminal) Close() {
	close(t.quit)
	t.screen.DisableMouse()
	t.screen.Fini()
}

func (t *Terminal) poll() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		out, ok := t.translate(ev)
		if !ok {
			continue
		}
		select {
		case t.events <- out:
		case <-t.quit:
			return
		default:
			// Drop input when the loop is behind
		}
	}
}

func (t *Terminal) translate(ev tcell.Event) (UIEvent, bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return translateKey(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		x, y := ev.Position()
		v := t.viewport()
		if !v.inField(x, y) {
			return UIEvent{}, false
		}
		px, py := v.point(x, y)
		return UIEvent{Kind: UIAim, X: px, Y: py}, true
	case *tcell.EventResize:
		t.screen.Sync()
		cols, rows := t.screen.Size()
		t.mu.Lock()
		t.view.cols, t.view.rows = cols, rows
		t.mu.Unlock()
	}
	return UIEvent{}, false
}

// translateKey maps WASD/arrows to movement, Enter/Space to acknowledge
// and Esc/Ctrl-C/q to quit
func translateKey(key tcell.Key, r rune) (UIEvent, bool) {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return UIEvent{Kind: UIQuit}, true
	case tcell.KeyEnter:
		return UIEvent{Kind: UIAck}, true
	case tcell.KeyUp:
		return UIEvent{Kind: UIMove, Dir: game.DirUp}, true
	case tcell.KeyDown:
		return UIEvent{Kind: UIMove, Dir: game.DirDown}, true
	case tcell.KeyLeft:
		return UIEvent{Kind: UIMove, Dir: game.DirLeft}, true
	case tcell.KeyRight:
		return UIEvent{Kind: UIMove, Dir: game.DirRight}, true
	case tcell.KeyRune:
		switch r {
		case 'w', 'W':
			return UIEvent{Kind: UIMove, Dir: game.DirUp}, true
		case 's', 'S':
			return UIEvent{Kind: UIMove, Dir: game.DirDown}, true
		case 'a', 'A':
			return UIEvent{Kind: UIMove, Dir: game.DirLeft}, true
		case 'd', 'D':
			return UIEvent{Kind: UIMove, Dir: game.DirRight}, true
		case ' ':
			return UIEvent{Kind: UIAck}, true
		case 'q':
			return UIEvent{Kind: UIQuit}, true
		}
	}
	return UIEvent{}, false
}

// Draw renders one frame
func (t *Terminal) Draw(w *game.World, hud HUD) {
	f := frame{screen: t.screen, view: t.viewport()}
	f.draw(w, hud)
	t.screen.Show()
}

// frame draws onto the screen with a fixed viewport
type frame struct {
	screen tcell.Screen
	view   viewport
}

func (f frame) draw(w *game.World, hud HUD) {
	s := f.screen
	v := f.view
	s.Fill(' ', styleField)

	for _, l := range w.Lasers {
		f.drawLaser(l)
	}
	for _, m := range w.Meteors {
		f.disc(m.X, m.Y, m.Radius, 'o', styleMeteor)
	}
	for _, p := range w.PowerUps {
		if cx, cy := v.cell(p.X, p.Y); v.inField(cx, cy) {
			s.SetContent(cx, cy, powerUpGlyphs[p.Kind], nil, stylePowerUp)
		}
	}
	for _, mt := range w.MiniTanks {
		if cx, cy := v.cell(mt.X, mt.Y); v.inField(cx, cy) {
			s.SetContent(cx, cy, 'o', nil, fg(mt.Color))
		}
	}
	for _, tank := range w.Tanks {
		f.drawTank(tank)
	}
	for _, b := range w.Bullets {
		if cx, cy := v.cell(b.X, b.Y); v.inField(cx, cy) {
			s.SetContent(cx, cy, '•', nil, fg(b.Color))
		}
	}
	for _, e := range w.Effects {
		f.drawBoom(e)
	}
	if p := hud.PeerPointer; p.Valid {
		if cx, cy := v.cell(p.X, p.Y); v.inField(cx, cy) {
			s.SetContent(cx, cy, '+', nil, fg(hud.Team.Opponent().Color()))
		}
	}

	f.drawBanner(w.Match)
	if hud.Invite != "" {
		f.drawInvite(hud.Invite)
	}
	f.text(0, 0, styleHUD, padRight(topLine(w, hud), v.cols))
	f.text(0, v.rows-1, styleHUD, padRight(bottomLine(hud), v.cols))
}

func (f frame) drawTank(tank *game.Tank) {
	style := fg(tank.Color())
	if tank.FlashTimer > 0 {
		style = styleFlash
	}
	glyph := '█'
	if tank.Shield > 0 {
		glyph = '▓'
	}
	f.disc(tank.X, tank.Y, tank.Radius, glyph, style)

	// Barrel
	for d := tank.Radius; d <= tank.Radius+game.TankMuzzleOffset+8; d += 4 {
		x := tank.X + math.Cos(tank.Angle)*d
		y := tank.Y + math.Sin(tank.Angle)*d
		if cx, cy := f.view.cell(x, y); f.view.inField(cx, cy) {
			f.screen.SetContent(cx, cy, '·', nil, fg(tank.Color()))
		}
	}
}

func (f frame) drawLaser(l *game.LaserHazard) {
	v := f.view
	style, glyph := styleWarning, '┆'
	if l.State == game.LaserFiring {
		style, glyph = fg(game.ColorLaser).Bold(true), '┃'
	}
	left, _ := v.cell(l.X-l.Width/2, 0)
	right, _ := v.cell(l.X+l.Width/2, 0)
	for cx := left; cx <= right; cx++ {
		for cy := 1; cy <= v.fieldRows(); cy++ {
			if v.inField(cx, cy) {
				f.screen.SetContent(cx, cy, glyph, nil, style)
			}
		}
	}
}

func (f frame) drawBoom(e *game.BoomEffect) {
	if e.Alpha <= 0 {
		return
	}
	for i := 0; i < 12; i++ {
		a := float64(i) * math.Pi / 6
		x := e.X + math.Cos(a)*e.Radius
		y := e.Y + math.Sin(a)*e.Radius
		if cx, cy := f.view.cell(x, y); f.view.inField(cx, cy) {
			f.screen.SetContent(cx, cy, '*', nil, fg(e.Color))
		}
	}
}

// disc fills every cell whose center lies within r of x, y
func (f frame) disc(x, y, r float64, glyph rune, style tcell.Style) {
	v := f.view
	x0, y0 := v.cell(x-r, y-r)
	x1, y1 := v.cell(x+r, y+r)
	drawn := false
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			if !v.inField(cx, cy) {
				continue
			}
			px, py := v.point(cx, cy)
			if game.Distance(px, py, x, y) <= r {
				f.screen.SetContent(cx, cy, glyph, nil, style)
				drawn = true
			}
		}
	}
	if !drawn {
		// Too small for the grid, mark the center
		if cx, cy := v.cell(x, y); v.inField(cx, cy) {
			f.screen.SetContent(cx, cy, glyph, nil, style)
		}
	}
}

func (f frame) drawBanner(m game.Match) {
	var msg string
	switch m.Phase {
	case game.PhaseRoundOver:
		msg = m.Message + "  (Enter to continue)"
	case game.PhaseMatchOver:
		msg = m.Message + "! Match over  (Enter for a new match)"
	case game.PhaseCountdown:
		if m.CountdownValue > 0 {
			msg = fmt.Sprintf("%d", m.CountdownValue)
		} else {
			msg = "GO"
		}
	default:
		return
	}
	f.centered(1+f.view.fieldRows()/2, styleBanner, msg)
}

func (f frame) drawInvite(invite string) {
	bits, err := inviteBitmap(invite)
	if err != nil {
		return
	}
	lines := halfBlocks(bits)
	top := 1 + (f.view.fieldRows()-len(lines))/2 - 1
	if top < 1 {
		top = 1
	}
	for i, line := range lines {
		f.centered(top+i, styleFlash, line)
	}
	f.centered(top+len(lines), styleBanner, invite)
}

func (f frame) centered(row int, style tcell.Style, s string) {
	x := (f.view.cols - len([]rune(s))) / 2
	if x < 0 {
		x = 0
	}
	f.text(x, row, style, s)
}

func (f frame) text(x, y int, style tcell.Style, s string) {
	for _, r := range s {
		f.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func topLine(w *game.World, hud HUD) string {
	red, blue := w.Tanks[game.TeamRed], w.Tanks[game.TeamBlue]
	m := w.Match
	line := fmt.Sprintf(" RED ♥%d %4dhp   Round %d   BLUE ♥%d %4dhp   you: %s",
		m.Lives[game.TeamRed], red.Health, m.Round, m.Lives[game.TeamBlue], blue.Health, hud.Team)
	if hud.Role != "" {
		line += " (" + hud.Role + ")"
	}
	if hud.Ping > 0 {
		line += fmt.Sprintf("   ping %dms", hud.Ping.Milliseconds())
	}
	return line
}

func bottomLine(hud HUD) string {
	var b strings.Builder
	fmt.Fprintf(&b, " wins R %d - B %d", hud.Wins[game.TeamRed], hud.Wins[game.TeamBlue])
	for i, r := range hud.Journal {
		if i == 0 {
			b.WriteString("   last:")
		}
		fmt.Fprintf(&b, " R%d %s", r.Round, r.Winner)
		if r.MatchOver {
			b.WriteString("!")
		}
	}
	if hud.Status != "" {
		b.WriteString("   " + hud.Status)
	}
	return b.String()
}

func padRight(s string, n int) string {
	if gap := n - len([]rune(s)); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
