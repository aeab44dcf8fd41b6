package blackjack

import (
	"sync"

	"github.com/charmbracelet/log"
)

// ApprovalPolicy controls whether double and split requests apply immediately
// or queue for an explicit Approve/Deny from the dealer seat. Both modes ship;
// the table config picks one.
type ApprovalPolicy int

const (
	// AutoApply applies doubles and splits as soon as they are requested.
	AutoApply ApprovalPolicy = iota
	// RequireApproval queues doubles and splits until Approve or Deny.
	RequireApproval
)

// PendingKind identifies the queued request type.
type PendingKind int

const (
	PendingDouble PendingKind = iota
	PendingSplit
)

// String returns a display name for the request kind.
func (k PendingKind) String() string {
	if k == PendingSplit {
		return "split"
	}
	return "double"
}

// PendingAction is a double or split awaiting approval.
type PendingAction struct {
	PlayerID  string
	Kind      PendingKind
	HandIndex int
}

// Player identifies a seated participant. Identity is owned by the transport
// layer; the table only references it.
type Player struct {
	ID   string
	Name string
}

// seat tracks one player's hands within a round. A seat starts with one hand
// and may grow to four through splits.
type seat struct {
	player Player
	hands  []Hand
	stood  map[int]bool
	active int
}

func (s *seat) openHand() (int, bool) {
	for i := range s.hands {
		if !s.stood[i] {
			return i, true
		}
	}
	return 0, false
}

// Update reports the state change produced by a table operation.
type Update struct {
	Player    Player
	HandIndex int
	Hand      Hand
	Value     int
	Busted    bool
	Pending   *PendingAction // set when the request queued for approval
	Denied    bool
	Round     *RoundResult // non-nil once the round has resolved
}

// HandOutcome is the settled result of a single hand.
type HandOutcome struct {
	Player     Player
	HandIndex  int
	Hand       Hand
	Value      int
	PlayerWins bool
	Push       bool // ties are recorded but settle in the house's favour
}

// RoundResult is the settled result of a full round.
type RoundResult struct {
	House      Hand
	HouseValue int
	HouseBust  bool
	Outcomes   []HandOutcome
}

// DealtHand is one player's opening hand as reported by Start.
type DealtHand struct {
	Player Player
	Hand   Hand
	Value  int
}

// Deal reports the opening state of a round.
type Deal struct {
	Hands       []DealtHand
	HouseUpCard int
	First       Player
}

// Table is a per-room blackjack table. All operations are serialised through
// an internal mutex, so a table is safe for use as a single-writer state
// machine behind concurrent transports.
type Table struct {
	mu       sync.Mutex
	logger   *log.Logger
	drawer   Drawer
	policy   ApprovalPolicy
	seats    []*seat
	house    Hand
	turn     int
	started  bool
	finished bool
	pending  *PendingAction
}

// NewTable creates an empty table.
func NewTable(drawer Drawer, policy ApprovalPolicy, logger *log.Logger) *Table {
	return &Table{
		logger: logger.WithPrefix("blackjack"),
		drawer: drawer,
		policy: policy,
	}
}

// Join seats a participant. Fails once the deal has happened or if the
// participant is already seated.
func (t *Table) Join(p Player) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return ErrAlreadyStarted
	}
	for _, s := range t.seats {
		if s.player.ID == p.ID {
			return ErrDuplicatePlayer
		}
	}
	t.seats = append(t.seats, &seat{player: p, stood: make(map[int]bool)})
	t.logger.Info("Player joined", "player", p.Name, "seats", len(t.seats))
	return nil
}

// Start deals every seated player an opening hand and gives the house its
// hand. Requires at least one player.
func (t *Table) Start() (*Deal, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started || len(t.seats) == 0 {
		return nil, ErrInvalidState
	}

	deal := &Deal{First: t.seats[0].player}
	for _, s := range t.seats {
		s.hands = []Hand{t.drawer.StartingHand()}
		s.stood = make(map[int]bool)
		s.active = 0
		deal.Hands = append(deal.Hands, DealtHand{
			Player: s.player,
			Hand:   append(Hand(nil), s.hands[0]...),
			Value:  s.hands[0].Value(),
		})
	}
	t.house = t.drawer.HouseHand()
	t.started = true
	t.turn = 0
	deal.HouseUpCard = t.house[0]

	t.logger.Info("Round started", "players", len(t.seats), "houseUp", deal.HouseUpCard)
	return deal, nil
}

// Hit deals one card to the caller's active hand. A bust stands the hand and
// advances play.
func (t *Table) Hit(playerID string) (*Update, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, err := t.actorSeat(playerID)
	if err != nil {
		return nil, err
	}

	hand := append(t.activeHand(s), t.drawer.Draw())
	t.setActiveHand(s, hand)

	u := t.handUpdate(s)
	if hand.IsBust() {
		u.Busted = true
		s.stood[s.active] = true
		u.Round = t.advance()
	}
	return u, nil
}

// Stand finishes the caller's active hand and advances play.
func (t *Table) Stand(playerID string) (*Update, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, err := t.actorSeat(playerID)
	if err != nil {
		return nil, err
	}

	s.stood[s.active] = true
	u := t.handUpdate(s)
	u.Round = t.advance()
	return u, nil
}

// Double requests a double-down: one card, then the hand is forced to stand.
// Only legal on an open two-card hand. Under RequireApproval the request
// queues until Approve or Deny.
func (t *Table) Double(playerID string) (*Update, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, err := t.actorSeat(playerID)
	if err != nil {
		return nil, err
	}
	if len(t.activeHand(s)) != 2 || s.stood[s.active] {
		return nil, ErrInvalidState
	}

	if t.policy == RequireApproval {
		t.pending = &PendingAction{PlayerID: playerID, Kind: PendingDouble, HandIndex: s.active}
		u := t.handUpdate(s)
		u.Pending = t.pending
		return u, nil
	}
	return t.applyDouble(s), nil
}

// Split turns a two-card pair into two hands, each dealt a fresh second card.
// Limited to four hands per seat. Under RequireApproval the request queues.
func (t *Table) Split(playerID string) (*Update, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, err := t.actorSeat(playerID)
	if err != nil {
		return nil, err
	}
	hand := t.activeHand(s)
	if len(hand) != 2 || hand[0] != hand[1] || s.stood[s.active] || len(s.hands) >= 4 {
		return nil, ErrInvalidState
	}

	if t.policy == RequireApproval {
		t.pending = &PendingAction{PlayerID: playerID, Kind: PendingSplit, HandIndex: s.active}
		u := t.handUpdate(s)
		u.Pending = t.pending
		return u, nil
	}
	return t.applySplit(s), nil
}

// Approve applies the queued double or split.
func (t *Table) Approve() (*Update, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pending == nil {
		return nil, ErrNoPendingAction
	}
	s := t.seatFor(t.pending.PlayerID)
	kind := t.pending.Kind
	t.pending = nil
	if s == nil {
		return nil, ErrInvalidState
	}
	if kind == PendingSplit {
		return t.applySplit(s), nil
	}
	return t.applyDouble(s), nil
}

// Deny discards the queued request. Play continues on the same hand.
func (t *Table) Deny() (*Update, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pending == nil {
		return nil, ErrNoPendingAction
	}
	s := t.seatFor(t.pending.PlayerID)
	t.pending = nil
	if s == nil {
		return nil, ErrInvalidState
	}
	u := t.handUpdate(s)
	u.Denied = true
	return u, nil
}

// Reset returns the table to an empty lobby.
func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seats = nil
	t.house = nil
	t.turn = 0
	t.started = false
	t.finished = false
	t.pending = nil
	t.logger.Info("Table reset")
}

// Started reports whether the deal has happened.
func (t *Table) Started() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.started
}

// Players returns the seated players in join order.
func (t *Table) Players() []Player {
	t.mu.Lock()
	defer t.mu.Unlock()

	players := make([]Player, len(t.seats))
	for i, s := range t.seats {
		players[i] = s.player
	}
	return players
}

// actorSeat validates that playerID may act right now and returns its seat.
func (t *Table) actorSeat(playerID string) (*seat, error) {
	if !t.started || t.finished {
		return nil, ErrInvalidState
	}
	if t.pending != nil {
		return nil, ErrActionPending
	}
	s := t.seatFor(playerID)
	if s == nil {
		return nil, ErrNotInGame
	}
	if t.turn >= len(t.seats) || t.seats[t.turn] != s {
		return nil, ErrNotYourTurn
	}
	return s, nil
}

func (t *Table) seatFor(playerID string) *seat {
	for _, s := range t.seats {
		if s.player.ID == playerID {
			return s
		}
	}
	return nil
}

func (t *Table) activeHand(s *seat) Hand {
	return s.hands[s.active]
}

func (t *Table) setActiveHand(s *seat, h Hand) {
	s.hands[s.active] = h
}

func (t *Table) handUpdate(s *seat) *Update {
	hand := t.activeHand(s)
	return &Update{
		Player:    s.player,
		HandIndex: s.active,
		Hand:      append(Hand(nil), hand...),
		Value:     hand.Value(),
	}
}

func (t *Table) applyDouble(s *seat) *Update {
	hand := append(t.activeHand(s), t.drawer.Draw())
	t.setActiveHand(s, hand)
	s.stood[s.active] = true

	u := t.handUpdate(s)
	u.Busted = hand.IsBust()
	u.Round = t.advance()
	return u
}

func (t *Table) applySplit(s *seat) *Update {
	i := s.active
	card := s.hands[i][0]
	first := Hand{card, t.drawer.Draw()}
	second := Hand{card, t.drawer.Draw()}

	hands := make([]Hand, 0, len(s.hands)+1)
	hands = append(hands, s.hands[:i]...)
	hands = append(hands, first, second)
	hands = append(hands, s.hands[i+1:]...)
	s.hands = hands
	// Both new hands become playable again.
	s.stood = make(map[int]bool)
	s.active = i

	t.logger.Info("Hand split", "player", s.player.Name, "hands", len(s.hands))
	return t.handUpdate(s)
}

// advance moves play to the next open hand of the current seat, then to the
// next seat with an open hand, and resolves the round when none remain.
func (t *Table) advance() *RoundResult {
	for t.turn < len(t.seats) {
		s := t.seats[t.turn]
		if i, ok := s.openHand(); ok {
			s.active = i
			return nil
		}
		t.turn++
	}
	return t.resolve()
}

// resolve plays out the house hand and settles every player hand. The house
// hits below hard 17, including soft 17. Ties settle for the house.
func (t *Table) resolve() *RoundResult {
	for t.house.Value() < houseStandsAt || (t.house.Value() == houseStandsAt && t.house.IsSoft()) {
		t.house = append(t.house, t.drawer.Draw())
	}

	result := &RoundResult{
		House:      append(Hand(nil), t.house...),
		HouseValue: t.house.Value(),
		HouseBust:  t.house.IsBust(),
	}

	for _, s := range t.seats {
		for i, hand := range s.hands {
			value := hand.Value()
			outcome := HandOutcome{
				Player:    s.player,
				HandIndex: i,
				Hand:      append(Hand(nil), hand...),
				Value:     value,
			}
			switch {
			case value > 21:
				// Player bust loses even against a house bust.
			case result.HouseBust:
				outcome.PlayerWins = true
			case value > result.HouseValue:
				outcome.PlayerWins = true
			case value == result.HouseValue:
				outcome.Push = true
			}
			result.Outcomes = append(result.Outcomes, outcome)
		}
	}

	t.finished = true
	t.logger.Info("Round resolved", "houseValue", result.HouseValue, "houseBust", result.HouseBust)
	return result
}
