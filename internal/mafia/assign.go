package mafia

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// Roster size limits for which a role distribution is defined.
const (
	MinPlayers = 4
	MaxPlayers = 15
)

// roleDistribution maps roster size to role counts. Sizes outside
// 4..15 are rejected.
var roleDistribution = map[int]map[RoleKind]int{
	4:  {RoleMafia: 1, RoleDetective: 1, RoleVillager: 2},
	5:  {RoleMafia: 1, RoleDetective: 1, RoleVillager: 3},
	6:  {RoleMafia: 1, RoleDetective: 1, RoleDoctor: 1, RoleVillager: 3},
	7:  {RoleMafia: 2, RoleDetective: 1, RoleDoctor: 1, RoleVillager: 3},
	8:  {RoleMafia: 2, RoleDetective: 1, RoleDoctor: 1, RoleVillager: 4},
	9:  {RoleMafia: 2, RoleDetective: 1, RoleDoctor: 1, RoleVillager: 5},
	10: {RoleMafia: 3, RoleDetective: 1, RoleDoctor: 1, RoleVillager: 5},
	11: {RoleMafia: 3, RoleDetective: 1, RoleDoctor: 1, RoleVillager: 6},
	12: {RoleMafia: 3, RoleDetective: 1, RoleDoctor: 1, RoleVillager: 7},
	13: {RoleMafia: 3, RoleDetective: 2, RoleDoctor: 1, RoleVillager: 7},
	14: {RoleMafia: 4, RoleDetective: 2, RoleDoctor: 1, RoleVillager: 7},
	15: {RoleMafia: 4, RoleDetective: 2, RoleDoctor: 1, RoleVillager: 8},
}

// AssignRoles gives every player exactly one role drawn from the
// distribution row for the roster size, shuffled with rng.
func AssignRoles(rng *rand.Rand, players []*Player) error {
	dist, ok := roleDistribution[len(players)]
	if !ok {
		return fmt.Errorf("%w: %d players, need %d-%d", ErrUnsupportedPlayerCount, len(players), MinPlayers, MaxPlayers)
	}

	// Expand counts in sorted kind order so the shuffle is the only
	// source of randomness.
	kinds := make([]RoleKind, 0, len(players))
	for _, kind := range sortedKinds(dist) {
		for i := 0; i < dist[kind]; i++ {
			kinds = append(kinds, kind)
		}
	}
	rng.Shuffle(len(kinds), func(i, j int) {
		kinds[i], kinds[j] = kinds[j], kinds[i]
	})
	for i, p := range players {
		p.Role = kinds[i]
	}
	return nil
}

func sortedKinds(dist map[RoleKind]int) []RoleKind {
	kinds := make([]RoleKind, 0, len(dist))
	for kind := range dist {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	return kinds
}
