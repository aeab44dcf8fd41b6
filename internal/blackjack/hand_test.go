package blackjack

import "testing"

func TestHandValue(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		hand Hand
		want int
	}{
		{"empty", Hand{}, 0},
		{"natural", Hand{10, 11}, 21},
		{"two aces reduce once", Hand{11, 11, 9}, 21},
		{"three aces reduce twice", Hand{11, 11, 11}, 13},
		{"bust with no aces", Hand{10, 10, 5}, 25},
		{"soft sixteen", Hand{11, 5}, 16},
		{"ace converts on draw", Hand{11, 5, 10}, 16},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.hand.Value(); got != tc.want {
				t.Errorf("Value(%v) = %d, want %d", tc.hand, got, tc.want)
			}
		})
	}
}

func TestHandSoftness(t *testing.T) {
	t.Parallel()
	if !(Hand{11, 6}).IsSoft() {
		t.Error("A,6 should be soft")
	}
	if (Hand{10, 7}).IsSoft() {
		t.Error("10,7 should be hard")
	}
	if (Hand{11, 6, 10}).IsSoft() {
		t.Error("A,6,10 should be hard after reduction")
	}
}

func TestHandBustAndBlackjack(t *testing.T) {
	t.Parallel()
	if !(Hand{10, 10, 5}).IsBust() {
		t.Error("25 should bust")
	}
	if (Hand{11, 11, 9}).IsBust() {
		t.Error("soft reduction should avoid the bust")
	}
	if !(Hand{10, 11}).IsBlackjack() {
		t.Error("two-card 21 is a natural")
	}
	if (Hand{7, 7, 7}).IsBlackjack() {
		t.Error("three-card 21 is not a natural")
	}
}

// A hand can never un-bust by drawing: once the best total exceeds 21 it
// stays there because every draw adds at least 1 to the reduced total.
func TestHandValueNeverUnbusts(t *testing.T) {
	t.Parallel()
	hand := Hand{10, 9}
	prev := hand.Value()
	for _, card := range []int{3, 11, 2, 10} {
		hand = append(hand, card)
		v := hand.Value()
		if prev > 21 && v <= 21 {
			t.Fatalf("hand %v un-busted from %d to %d", hand, prev, v)
		}
		prev = v
	}
}
