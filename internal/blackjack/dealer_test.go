package blackjack

import (
	"testing"

	"github.com/lox/partybots/internal/randutil"
)

func TestNormalDealerDrawsValidRanks(t *testing.T) {
	t.Parallel()
	d := NewDealer(randutil.New(1), DeckNormal)
	for i := 0; i < 1000; i++ {
		c := d.Draw()
		if c < 2 || c > 11 {
			t.Fatalf("draw %d outside rank range", c)
		}
	}
}

func TestBiasedStartingHands(t *testing.T) {
	t.Parallel()
	d := NewDealer(randutil.New(42), DeckBiased)

	inRange := 0
	const samples = 2000
	for i := 0; i < samples; i++ {
		h := d.StartingHand()
		if len(h) != 2 {
			t.Fatalf("starting hand has %d cards", len(h))
		}
		if v := h.Value(); v >= 12 && v <= 17 {
			inRange++
		}
	}

	// 70% of biased starts land in 12-17 plus whatever the uniform tail
	// contributes; anything below 70% of samples means the bias is broken.
	if inRange < samples*70/100 {
		t.Errorf("only %d/%d biased starts in 12-17", inRange, samples)
	}
}

func TestBiasedHouseHands(t *testing.T) {
	t.Parallel()
	d := NewDealer(randutil.New(7), DeckBiased)

	strong := 0
	const samples = 2000
	for i := 0; i < samples; i++ {
		if v := d.HouseHand().Value(); v >= 17 && v <= 21 {
			strong++
		}
	}
	if strong < samples*60/100 {
		t.Errorf("only %d/%d biased house hands in 17-21", strong, samples)
	}
}
