package mafia

// Verdict is the result of a win-condition check.
type Verdict int

const (
	VerdictNone Verdict = iota
	TownWin
	MafiaWin
	JesterWin
)

func (v Verdict) String() string {
	switch v {
	case TownWin:
		return "Town wins"
	case MafiaWin:
		return "Mafia wins"
	case JesterWin:
		return "Jester wins"
	default:
		return "no winner"
	}
}

// Evaluate checks win conditions after a death event. A lynched
// Jester wins ahead of the base rules; then Town wins when no
// Mafia-aligned player is alive, and Mafia wins when it matches or
// outnumbers the alive Town.
func Evaluate(players []*Player) Verdict {
	for _, p := range players {
		if p.Role == RoleJester && !p.Alive && p.Lynched {
			return JesterWin
		}
	}

	mafia, town := 0, 0
	for _, p := range players {
		if !p.Alive {
			continue
		}
		switch p.Role.Role().Alignment {
		case AlignMafia:
			mafia++
		case AlignTown:
			town++
		}
	}
	switch {
	case mafia == 0:
		return TownWin
	case mafia >= town:
		return MafiaWin
	default:
		return VerdictNone
	}
}
