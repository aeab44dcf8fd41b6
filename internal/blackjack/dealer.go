package blackjack

import (
	rand "math/rand/v2"

	"github.com/lox/partybots/internal/randutil"
)

// DeckMode selects how starting hands are generated.
type DeckMode int

const (
	// DeckNormal draws every card uniformly from the rank distribution.
	DeckNormal DeckMode = iota
	// DeckBiased skews starting totals: players open in the awkward 12-17
	// range most of the time while the house opens strong. This is a table
	// toggle, not a bug.
	DeckBiased
)

// String returns the config name for the mode.
func (m DeckMode) String() string {
	switch m {
	case DeckNormal:
		return "normal"
	case DeckBiased:
		return "biased"
	default:
		return "unknown"
	}
}

// rankDistribution is one suit of a standard deck collapsed to blackjack
// values: ten, jack, queen and king all count 10, so 10 appears four times.
var rankDistribution = []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 10, 10, 10, 11}

const (
	playerBiasPct = 70 // chance a biased player start totals 12-17
	houseBiasPct  = 60 // chance a biased house start totals 17-21
	houseStandsAt = 17
)

// Drawer supplies cards to a table. The production implementation is Dealer;
// tests substitute scripted draws.
type Drawer interface {
	// Draw returns a single card for a hit.
	Draw() int
	// StartingHand returns a player's opening two cards.
	StartingHand() Hand
	// HouseHand returns the house's opening two cards.
	HouseHand() Hand
}

// Dealer draws cards from an effectively infinite shoe using the configured
// deck mode.
type Dealer struct {
	rng  *rand.Rand
	mode DeckMode
}

// NewDealer creates a dealer drawing from rng in the given mode.
func NewDealer(rng *rand.Rand, mode DeckMode) *Dealer {
	return &Dealer{rng: rng, mode: mode}
}

// Draw returns a uniformly distributed card rank.
func (d *Dealer) Draw() int {
	return randutil.Pick(d.rng, rankDistribution)
}

// StartingHand deals a player's opening hand. In biased mode the total lands
// in 12-17 with playerBiasPct probability, otherwise the pair is uniform.
func (d *Dealer) StartingHand() Hand {
	if d.mode == DeckBiased && randutil.Chance(d.rng, playerBiasPct) {
		return d.handInRange(12, 17)
	}
	return Hand{d.Draw(), d.Draw()}
}

// HouseHand deals the house's opening hand. In biased mode the total lands in
// 17-21 with houseBiasPct probability.
func (d *Dealer) HouseHand() Hand {
	if d.mode == DeckBiased && randutil.Chance(d.rng, houseBiasPct) {
		return d.handInRange(17, 21)
	}
	return Hand{d.Draw(), d.Draw()}
}

// handInRange rejection-samples uniform pairs until the best total falls in
// [lo, hi]. Every two-card total from 4 to 21 is reachable, so this
// terminates quickly in practice.
func (d *Dealer) handInRange(lo, hi int) Hand {
	for {
		h := Hand{d.Draw(), d.Draw()}
		if v := h.Value(); v >= lo && v <= hi {
			return h
		}
	}
}
