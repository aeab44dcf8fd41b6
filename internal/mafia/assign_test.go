package mafia

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lox/partybots/internal/randutil"
)

func rosterOf(n int) []*Player {
	players := make([]*Player, n)
	for i := range players {
		id := ParticipantID(fmt.Sprintf("p%d", i))
		players[i] = &Player{Participant: Participant{ID: id, Name: string(id)}, Alive: true}
	}
	return players
}

func TestAssignRolesMatchesDistribution(t *testing.T) {
	t.Parallel()
	for n := MinPlayers; n <= MaxPlayers; n++ {
		players := rosterOf(n)
		if err := AssignRoles(randutil.New(int64(n)), players); err != nil {
			t.Fatalf("AssignRoles(%d players): %v", n, err)
		}

		counts := make(map[RoleKind]int)
		for _, p := range players {
			if p.Role == RoleUnassigned {
				t.Fatalf("player %s left unassigned with %d players", p.Name, n)
			}
			counts[p.Role]++
		}
		want := roleDistribution[n]
		if len(counts) != len(want) {
			t.Errorf("%d players: got %d distinct roles, want %d", n, len(counts), len(want))
		}
		for kind, c := range want {
			if counts[kind] != c {
				t.Errorf("%d players: %s count = %d, want %d", n, kind, counts[kind], c)
			}
		}
	}
}

func TestAssignRolesRejectsUnsupportedCounts(t *testing.T) {
	t.Parallel()
	for _, n := range []int{0, 1, MinPlayers - 1, MaxPlayers + 1} {
		err := AssignRoles(randutil.New(1), rosterOf(n))
		if !errors.Is(err, ErrUnsupportedPlayerCount) {
			t.Errorf("%d players: expected ErrUnsupportedPlayerCount, got %v", n, err)
		}
	}
}
