package mafia

import "slices"

// Submission is one actor's night action, in submission order.
type Submission struct {
	Actor  ParticipantID
	Target ParticipantID

	// Seq orders submissions within one night; earlier submissions
	// win kill ties.
	Seq int
}

// Investigation is a private result for the investigating player.
type Investigation struct {
	Investigator ParticipantID
	Target       ParticipantID
	Result       string
}

// NightReport is the outcome of resolving one night's submissions.
// Deaths have not yet been applied to the roster.
type NightReport struct {
	Deaths         []ParticipantID
	Saved          []ParticipantID
	Investigations []Investigation
}

// ResolveNight applies the night ordering: blocks silence their
// targets' submissions, kills resolve (Mafia by majority, neutral and
// town killers independently), protection cancels or absorbs deaths,
// and investigations report apparent alignment last, after framing.
// Unblocked protectors have their PreviousTarget updated in place.
func ResolveNight(players []*Player, submissions []Submission) *NightReport {
	byID := make(map[ParticipantID]*Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	slices.SortFunc(submissions, func(a, b Submission) int {
		return a.Seq - b.Seq
	})

	// Blocks apply first and unconditionally, even between blockers.
	blocked := make(map[ParticipantID]bool)
	for _, sub := range submissions {
		actor := byID[sub.Actor]
		if actor == nil || !actor.Alive {
			continue
		}
		if actor.Role.Role().Action == ActionBlock {
			blocked[sub.Target] = true
		}
	}

	active := make([]Submission, 0, len(submissions))
	for _, sub := range submissions {
		actor := byID[sub.Actor]
		if actor == nil || !actor.Alive || blocked[sub.Actor] {
			continue
		}
		active = append(active, sub)
	}

	// Mafia kills merge into one majority target; every other killer
	// resolves independently.
	mafiaVotes := make(map[ParticipantID]int)
	mafiaFirst := make(map[ParticipantID]int)
	killTargets := make([]ParticipantID, 0, 2)
	for _, sub := range active {
		actor := byID[sub.Actor]
		role := actor.Role.Role()
		if role.Action != ActionKill {
			continue
		}
		if role.Alignment == AlignMafia {
			if _, seen := mafiaFirst[sub.Target]; !seen {
				mafiaFirst[sub.Target] = sub.Seq
			}
			mafiaVotes[sub.Target]++
		} else {
			killTargets = append(killTargets, sub.Target)
		}
	}
	if target, ok := mafiaMajority(mafiaVotes, mafiaFirst); ok {
		killTargets = append(killTargets, target)
	}

	// Protectors whose action went through remember their patient for
	// the repeat-target rule; a blocked protector keeps no memory.
	protectors := make(map[ParticipantID][]*Player)
	for _, sub := range active {
		actor := byID[sub.Actor]
		if actor.Role.Role().Action == ActionProtect {
			actor.PreviousTarget = sub.Target
			protectors[sub.Target] = append(protectors[sub.Target], actor)
		}
	}

	report := &NightReport{}
	dead := make(map[ParticipantID]bool)
	for _, target := range killTargets {
		victim := byID[target]
		if victim == nil || !victim.Alive {
			continue
		}
		if guards := protectors[target]; len(guards) > 0 {
			report.Saved = append(report.Saved, target)
			// A sacrificing protector dies in the target's place.
			for _, guard := range guards {
				if guard.Role.Role().Sacrifice && !dead[guard.ID] {
					dead[guard.ID] = true
					report.Deaths = append(report.Deaths, guard.ID)
					break
				}
			}
			continue
		}
		if !dead[target] {
			dead[target] = true
			report.Deaths = append(report.Deaths, target)
		}
	}

	// Framing flips the apparent alignment for this night only.
	framed := make(map[ParticipantID]bool)
	for _, sub := range active {
		if byID[sub.Actor].Role.Role().Action == ActionFrame {
			framed[sub.Target] = true
		}
	}

	for _, sub := range active {
		actor := byID[sub.Actor]
		role := actor.Role.Role()
		if role.Action != ActionInvestigate {
			continue
		}
		target := byID[sub.Target]
		if target == nil {
			continue
		}
		report.Investigations = append(report.Investigations, Investigation{
			Investigator: actor.ID,
			Target:       target.ID,
			Result:       investigationResult(role, target, framed[target.ID]),
		})
	}

	return report
}

// mafiaMajority picks the most-voted target; ties go to the target
// whose first vote arrived earliest.
func mafiaMajority(votes map[ParticipantID]int, first map[ParticipantID]int) (ParticipantID, bool) {
	var (
		best     ParticipantID
		bestN    int
		bestSeq  int
		havePick bool
	)
	for target, n := range votes {
		seq := first[target]
		if !havePick || n > bestN || (n == bestN && seq < bestSeq) {
			best, bestN, bestSeq, havePick = target, n, seq, true
		}
	}
	return best, havePick
}

func investigationResult(investigator Role, target *Player, framed bool) string {
	targetRole := target.Role.Role()
	if investigator.ExactRole {
		return targetRole.Name
	}
	switch {
	case framed:
		return AlignMafia.String()
	case targetRole.AppearsInnocent:
		return AlignTown.String()
	default:
		return targetRole.Alignment.String()
	}
}

// PromoteGodfather hands the Godfather role to the first alive
// Mafia-aligned player when the sitting Godfather has died. Returns
// the promoted player, or nil when no promotion happened.
func PromoteGodfather(players []*Player) *Player {
	hadGodfather := false
	for _, p := range players {
		if p.Role == RoleGodfather {
			if p.Alive {
				return nil
			}
			hadGodfather = true
		}
	}
	if !hadGodfather {
		return nil
	}
	for _, p := range players {
		if p.Alive && p.Role.Role().Alignment == AlignMafia {
			p.Role = RoleGodfather
			return p
		}
	}
	return nil
}
