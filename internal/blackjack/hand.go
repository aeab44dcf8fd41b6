package blackjack

// Hand is an ordered sequence of card ranks. Ranks run 2 through 11, with 11
// representing an ace. Face cards are collapsed to their blackjack value of 10
// before they reach a hand.
type Hand []int

// Value returns the best total for the hand. Aces count as 11 until the total
// would bust, then convert to 1 one at a time.
func (h Hand) Value() int {
	total := 0
	aces := 0
	for _, r := range h {
		total += r
		if r == 11 {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// IsSoft reports whether the hand's best total still counts an ace as 11.
func (h Hand) IsSoft() bool {
	total := 0
	aces := 0
	for _, r := range h {
		total += r
		if r == 11 {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return aces > 0
}

// IsBust reports whether the hand's best total exceeds 21.
func (h Hand) IsBust() bool {
	return h.Value() > 21
}

// IsBlackjack reports a natural: a two-card 21.
func (h Hand) IsBlackjack() bool {
	return len(h) == 2 && h.Value() == 21
}
