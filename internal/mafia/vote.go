package mafia

import (
	"math/rand/v2"
	"slices"

	"github.com/lox/partybots/internal/randutil"
)

// VoteTally collects day-phase votes, one active vote per voter.
type VoteTally struct {
	votes map[ParticipantID]ParticipantID
}

func NewVoteTally() *VoteTally {
	return &VoteTally{votes: make(map[ParticipantID]ParticipantID)}
}

// Cast records the voter's vote, replacing any earlier one.
func (t *VoteTally) Cast(voter, target ParticipantID) {
	t.votes[voter] = target
}

// Remove deletes the voter's vote and reports whether one existed.
func (t *VoteTally) Remove(voter ParticipantID) bool {
	if _, ok := t.votes[voter]; !ok {
		return false
	}
	delete(t.votes, voter)
	return true
}

// Counts returns votes received per target.
func (t *VoteTally) Counts() map[ParticipantID]int {
	counts := make(map[ParticipantID]int, len(t.votes))
	for _, target := range t.votes {
		counts[target]++
	}
	return counts
}

// Len is the number of voters with an active vote.
func (t *VoteTally) Len() int {
	return len(t.votes)
}

// Clear drops all votes for a new day.
func (t *VoteTally) Clear() {
	clear(t.votes)
}

// ResolveLynch picks the target with the most votes, breaking ties
// uniformly at random so the day always progresses. The second return
// is false when no votes were cast.
func (t *VoteTally) ResolveLynch(rng *rand.Rand) (ParticipantID, bool) {
	if len(t.votes) == 0 {
		return "", false
	}

	counts := t.Counts()
	max := 0
	for _, n := range counts {
		if n > max {
			max = n
		}
	}
	tied := make([]ParticipantID, 0, 1)
	for target, n := range counts {
		if n == max {
			tied = append(tied, target)
		}
	}
	// Sort before picking so a seeded rng gives a reproducible result.
	slices.Sort(tied)
	return randutil.Pick(rng, tied), true
}
