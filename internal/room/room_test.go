package room

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/lox/partybots/internal/blackjack"
	"github.com/lox/partybots/internal/randutil"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func TestRegistryLifecycle(t *testing.T) {
	t.Parallel()
	reg := NewRegistry(testLogger())

	if _, ok := reg.Get("lounge"); ok {
		t.Fatal("unknown room should not exist")
	}
	r := reg.GetOrCreate("lounge")
	if r.ID() != "lounge" {
		t.Errorf("room id = %s, want lounge", r.ID())
	}
	if again := reg.GetOrCreate("lounge"); again != r {
		t.Error("GetOrCreate should return the same room")
	}
	if reg.Len() != 1 {
		t.Errorf("registry has %d rooms, want 1", reg.Len())
	}

	reg.Remove("lounge")
	if _, ok := reg.Get("lounge"); ok {
		t.Error("removed room should be gone")
	}
}

func TestRoomHostsOneGameAtATime(t *testing.T) {
	t.Parallel()
	r := NewRegistry(testLogger()).GetOrCreate("lounge")

	if _, err := r.BlackjackTable(); !errors.Is(err, ErrNoGame) {
		t.Errorf("expected ErrNoGame, got %v", err)
	}

	tbl := blackjack.NewTable(blackjack.NewDealer(randutil.New(1), blackjack.DeckNormal), blackjack.AutoApply, testLogger())
	if err := r.AttachBlackjack(tbl); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if err := r.AttachBlackjack(tbl); !errors.Is(err, ErrGameInProgress) {
		t.Errorf("expected ErrGameInProgress, got %v", err)
	}
	if err := r.AttachMafia(nil); !errors.Is(err, ErrGameInProgress) {
		t.Errorf("expected ErrGameInProgress for the other game too, got %v", err)
	}

	got, err := r.BlackjackTable()
	if err != nil || got != tbl {
		t.Fatalf("BlackjackTable = %v, %v", got, err)
	}

	r.Clear()
	if _, err := r.BlackjackTable(); !errors.Is(err, ErrNoGame) {
		t.Errorf("cleared room should have no game, got %v", err)
	}
}
