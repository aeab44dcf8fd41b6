package blackjack

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
)

// scriptDrawer deals from fixed scripts so tests control every card.
type scriptDrawer struct {
	starts []Hand
	house  Hand
	draws  []int
}

func (d *scriptDrawer) StartingHand() Hand {
	h := d.starts[0]
	d.starts = d.starts[1:]
	return append(Hand(nil), h...)
}

func (d *scriptDrawer) HouseHand() Hand {
	return append(Hand(nil), d.house...)
}

func (d *scriptDrawer) Draw() int {
	c := d.draws[0]
	d.draws = d.draws[1:]
	return c
}

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func TestJoinRules(t *testing.T) {
	t.Parallel()
	tbl := NewTable(&scriptDrawer{starts: []Hand{{10, 7}}, house: Hand{10, 7}}, AutoApply, testLogger())

	if err := tbl.Join(Player{ID: "a", Name: "Alice"}); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := tbl.Join(Player{ID: "a", Name: "Alice"}); !errors.Is(err, ErrDuplicatePlayer) {
		t.Errorf("expected ErrDuplicatePlayer, got %v", err)
	}
	if _, err := tbl.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := tbl.Join(Player{ID: "b", Name: "Bob"}); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}
}

func TestStartRequiresPlayers(t *testing.T) {
	t.Parallel()
	tbl := NewTable(&scriptDrawer{}, AutoApply, testLogger())
	if _, err := tbl.Start(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestTurnOrderEnforced(t *testing.T) {
	t.Parallel()
	drawer := &scriptDrawer{
		starts: []Hand{{10, 7}, {9, 9}},
		house:  Hand{10, 9},
	}
	tbl := NewTable(drawer, AutoApply, testLogger())
	mustJoin(t, tbl, "a", "b")
	mustStart(t, tbl)

	if _, err := tbl.Hit("b"); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("expected ErrNotYourTurn, got %v", err)
	}
	if _, err := tbl.Hit("ghost"); !errors.Is(err, ErrNotInGame) {
		t.Errorf("expected ErrNotInGame, got %v", err)
	}
}

func TestSplitPair(t *testing.T) {
	t.Parallel()
	drawer := &scriptDrawer{
		starts: []Hand{{8, 8}},
		house:  Hand{10, 9},
		draws:  []int{3, 5},
	}
	tbl := NewTable(drawer, AutoApply, testLogger())
	mustJoin(t, tbl, "a")
	mustStart(t, tbl)

	u, err := tbl.Split("a")
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if u.HandIndex != 0 {
		t.Errorf("active hand index = %d, want 0", u.HandIndex)
	}
	if got, want := u.Hand.Value(), 11; got != want {
		t.Errorf("first split hand value = %d, want %d", got, want)
	}

	// Both hands playable: stand twice resolves the round.
	if _, err := tbl.Stand("a"); err != nil {
		t.Fatalf("stand first hand: %v", err)
	}
	final, err := tbl.Stand("a")
	if err != nil {
		t.Fatalf("stand second hand: %v", err)
	}
	if final.Round == nil {
		t.Fatal("expected round to resolve after both hands stood")
	}
	if len(final.Round.Outcomes) != 2 {
		t.Errorf("outcomes = %d, want 2", len(final.Round.Outcomes))
	}
}

func TestSplitRequiresPair(t *testing.T) {
	t.Parallel()
	drawer := &scriptDrawer{starts: []Hand{{8, 9}}, house: Hand{10, 9}}
	tbl := NewTable(drawer, AutoApply, testLogger())
	mustJoin(t, tbl, "a")
	mustStart(t, tbl)

	if _, err := tbl.Split("a"); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestDoubleRejectedOnThreeCards(t *testing.T) {
	t.Parallel()
	drawer := &scriptDrawer{
		starts: []Hand{{5, 6}},
		house:  Hand{10, 9},
		draws:  []int{2},
	}
	tbl := NewTable(drawer, AutoApply, testLogger())
	mustJoin(t, tbl, "a")
	mustStart(t, tbl)

	if _, err := tbl.Hit("a"); err != nil {
		t.Fatalf("hit: %v", err)
	}
	if _, err := tbl.Double("a"); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState on three-card double, got %v", err)
	}
}

func TestDoubleAutoApply(t *testing.T) {
	t.Parallel()
	drawer := &scriptDrawer{
		starts: []Hand{{5, 6}},
		house:  Hand{10, 9},
		draws:  []int{10},
	}
	tbl := NewTable(drawer, AutoApply, testLogger())
	mustJoin(t, tbl, "a")
	mustStart(t, tbl)

	u, err := tbl.Double("a")
	if err != nil {
		t.Fatalf("double: %v", err)
	}
	if u.Value != 21 {
		t.Errorf("doubled hand value = %d, want 21", u.Value)
	}
	if u.Round == nil {
		t.Fatal("double should force the stand and resolve a one-player round")
	}
	if !u.Round.Outcomes[0].PlayerWins {
		t.Error("21 should beat the house's 19")
	}
}

func TestApprovalFlow(t *testing.T) {
	t.Parallel()
	drawer := &scriptDrawer{
		starts: []Hand{{5, 6}},
		house:  Hand{10, 9},
		draws:  []int{10},
	}
	tbl := NewTable(drawer, RequireApproval, testLogger())
	mustJoin(t, tbl, "a")
	mustStart(t, tbl)

	if _, err := tbl.Approve(); !errors.Is(err, ErrNoPendingAction) {
		t.Errorf("expected ErrNoPendingAction, got %v", err)
	}

	u, err := tbl.Double("a")
	if err != nil {
		t.Fatalf("double: %v", err)
	}
	if u.Pending == nil || u.Pending.Kind != PendingDouble {
		t.Fatal("expected a pending double request")
	}

	// Other actions block while the request is queued.
	if _, err := tbl.Hit("a"); !errors.Is(err, ErrActionPending) {
		t.Errorf("expected ErrActionPending, got %v", err)
	}

	final, err := tbl.Approve()
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if final.Value != 21 || final.Round == nil {
		t.Errorf("approved double should deal and resolve, got value %d", final.Value)
	}
}

func TestDenyClearsPending(t *testing.T) {
	t.Parallel()
	drawer := &scriptDrawer{
		starts: []Hand{{8, 8}},
		house:  Hand{10, 9},
		draws:  []int{4},
	}
	tbl := NewTable(drawer, RequireApproval, testLogger())
	mustJoin(t, tbl, "a")
	mustStart(t, tbl)

	if _, err := tbl.Split("a"); err != nil {
		t.Fatalf("split request: %v", err)
	}
	u, err := tbl.Deny()
	if err != nil {
		t.Fatalf("deny: %v", err)
	}
	if !u.Denied {
		t.Error("expected a denied update")
	}

	// The hand is untouched and play continues.
	hit, err := tbl.Hit("a")
	if err != nil {
		t.Fatalf("hit after deny: %v", err)
	}
	if got, want := hit.Value, 20; got != want {
		t.Errorf("hand value after deny+hit = %d, want %d", got, want)
	}
}

// Two players join, player one stands immediately, player two hits once and
// busts; the house then draws to 17+ and outcomes follow the bust/compare
// rules.
func TestRoundScenario(t *testing.T) {
	t.Parallel()
	drawer := &scriptDrawer{
		starts: []Hand{{10, 8}, {10, 6}},
		house:  Hand{10, 2},
		draws: []int{
			10, // player two's bust card
			5,  // house draws to 17
		},
	}
	tbl := NewTable(drawer, AutoApply, testLogger())
	mustJoin(t, tbl, "a", "b")
	mustStart(t, tbl)

	if _, err := tbl.Stand("a"); err != nil {
		t.Fatalf("stand: %v", err)
	}
	u, err := tbl.Hit("b")
	if err != nil {
		t.Fatalf("hit: %v", err)
	}
	if !u.Busted {
		t.Fatalf("player two should bust on 26, got value %d", u.Value)
	}
	if u.Round == nil {
		t.Fatal("round should resolve once the last hand busts")
	}

	round := u.Round
	if round.HouseValue != 17 {
		t.Errorf("house value = %d, want 17", round.HouseValue)
	}
	if !round.Outcomes[0].PlayerWins {
		t.Error("player one's 18 should beat the house's 17")
	}
	if round.Outcomes[1].PlayerWins {
		t.Error("a busted hand never wins")
	}
}

func TestPushSettlesForHouse(t *testing.T) {
	t.Parallel()
	drawer := &scriptDrawer{
		starts: []Hand{{10, 8}},
		house:  Hand{10, 8},
	}
	tbl := NewTable(drawer, AutoApply, testLogger())
	mustJoin(t, tbl, "a")
	mustStart(t, tbl)

	u, err := tbl.Stand("a")
	if err != nil {
		t.Fatalf("stand: %v", err)
	}
	outcome := u.Round.Outcomes[0]
	if !outcome.Push {
		t.Error("equal totals should record a push")
	}
	if outcome.PlayerWins {
		t.Error("pushes settle in the house's favour")
	}
}

func TestHouseHitsSoftSeventeen(t *testing.T) {
	t.Parallel()
	drawer := &scriptDrawer{
		starts: []Hand{{10, 9}},
		house:  Hand{11, 6},  // soft 17
		draws:  []int{4},     // becomes hard 21
	}
	tbl := NewTable(drawer, AutoApply, testLogger())
	mustJoin(t, tbl, "a")
	mustStart(t, tbl)

	u, err := tbl.Stand("a")
	if err != nil {
		t.Fatalf("stand: %v", err)
	}
	if got, want := u.Round.HouseValue, 21; got != want {
		t.Errorf("house value = %d, want %d (must hit soft 17)", got, want)
	}
}

func mustJoin(t *testing.T, tbl *Table, ids ...string) {
	t.Helper()
	for _, id := range ids {
		if err := tbl.Join(Player{ID: id, Name: id}); err != nil {
			t.Fatalf("join %s: %v", id, err)
		}
	}
}

func mustStart(t *testing.T, tbl *Table) {
	t.Helper()
	if _, err := tbl.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
}
