package game

// Team identifies one of the two combatant sides
type Team int

const (
	TeamRed  Team = 0
	TeamBlue Team = 1
)

// Wire colors. Field order and values are part of the snapshot contract.
const (
	ColorRed      = "#e74c3c"
	ColorBlue     = "#3498db"
	ColorMiniRed  = "#ff7f7f"
	ColorMiniBlue = "#85c1ff"
	ColorBoom     = "#ff6600"
	ColorLaser    = "#ff1744"
)

// Teams lists both sides in tank-slot order
var Teams = [2]Team{TeamRed, TeamBlue}

// Color returns the team's wire color
func (t Team) Color() string {
	if t == TeamBlue {
		return ColorBlue
	}
	return ColorRed
}

// MiniColor returns the tinted color used by the team's mini-tanks
func (t Team) MiniColor() string {
	if t == TeamBlue {
		return ColorMiniBlue
	}
	return ColorMiniRed
}

// Opponent returns the other team
func (t Team) Opponent() Team {
	if t == TeamBlue {
		return TeamRed
	}
	return TeamBlue
}

func (t Team) String() string {
	if t == TeamBlue {
		return "Blue"
	}
	return "Red"
}

// Valid reports whether t names one of the two teams
func (t Team) Valid() bool {
	return t == TeamRed || t == TeamBlue
}

// TeamForColor maps a team or mini-tank color back to its team
func TeamForColor(color string) (Team, bool) {
	switch color {
	case ColorRed, ColorMiniRed:
		return TeamRed, true
	case ColorBlue, ColorMiniBlue:
		return TeamBlue, true
	}
	return TeamRed, false
}

// ParseTeam accepts "red"/"blue" as used on the wire by role assignment
func ParseTeam(s string) (Team, bool) {
	switch s {
	case "red", "Red":
		return TeamRed, true
	case "blue", "Blue":
		return TeamBlue, true
	}
	return TeamRed, false
}
