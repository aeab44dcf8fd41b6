package mafia

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
)

// Phase of a session's lifecycle. Transitions are strictly
// Lobby -> Night -> Day -> Night -> ... -> GameOver.
type Phase int

const (
	PhaseLobby Phase = iota
	PhaseNight
	PhaseDay
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhaseNight:
		return "night"
	case PhaseDay:
		return "day"
	case PhaseGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// Config bounds the roster and the phase timers.
type Config struct {
	MinPlayers    int
	MaxPlayers    int
	NightDuration time.Duration
	DayDuration   time.Duration
}

func DefaultConfig() Config {
	return Config{
		MinPlayers:    MinPlayers,
		MaxPlayers:    MaxPlayers,
		NightDuration: 3 * time.Minute,
		DayDuration:   5 * time.Minute,
	}
}

// Status is a snapshot of the session for display.
type Status struct {
	Phase Phase
	Day   int
	Host  ParticipantID
	Alive []Participant
	Dead  []Participant
}

// Session is the per-room game aggregate. All operations take the
// session lock, so exactly one command mutates state at a time; the
// phase timers are the only background trigger and are guarded by a
// sequence number so a late fire after early completion is a no-op.
type Session struct {
	mu     sync.Mutex
	id     string
	cfg    Config
	logger *log.Logger
	rng    *rand.Rand
	clock  quartz.Clock
	msg    Messenger
	onEnd  func(Verdict)

	host    ParticipantID
	players []*Player
	phase   Phase
	dayNum  int

	seq       int
	timer     *quartz.Timer
	actions   map[ParticipantID]Submission
	actionSeq int
	votes     *VoteTally
}

func NewSession(cfg Config, msg Messenger, clock quartz.Clock, rng *rand.Rand, logger *log.Logger) *Session {
	return &Session{
		id:      uuid.NewString(),
		cfg:     cfg,
		logger:  logger.WithPrefix("mafia"),
		rng:     rng,
		clock:   clock,
		msg:     msg,
		phase:   PhaseLobby,
		actions: make(map[ParticipantID]Submission),
		votes:   NewVoteTally(),
	}
}

// ID is the stable session identifier, used for results records.
func (s *Session) ID() string {
	return s.id
}

// OnEnd registers a hook invoked once when the session reaches
// GameOver, with the winning verdict. Must be set before Start.
func (s *Session) OnEnd(fn func(Verdict)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEnd = fn
}

// Join adds a participant to the lobby. The first joiner becomes host.
func (s *Session) Join(p Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseLobby {
		return fmt.Errorf("%w: game already running", ErrInvalidState)
	}
	if s.findPlayer(p.ID) != nil {
		return ErrAlreadyInGame
	}
	if len(s.players) >= s.cfg.MaxPlayers {
		return fmt.Errorf("%w: lobby is full", ErrInvalidState)
	}
	s.players = append(s.players, &Player{Participant: p, Alive: true})
	if len(s.players) == 1 {
		s.host = p.ID
	}
	s.logger.Info("player joined", "session", s.id, "player", p.Name, "count", len(s.players))
	s.msg.Public(fmt.Sprintf("%s joined the game (%d players).", p.Name, len(s.players)))
	return nil
}

// Leave removes a participant before the game starts. Host duties
// pass to the next joiner; an emptied lobby ends the session.
func (s *Session) Leave(id ParticipantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseLobby {
		return fmt.Errorf("%w: cannot leave a running game", ErrInvalidState)
	}
	idx := -1
	for i, p := range s.players {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotInGame
	}
	name := s.players[idx].Name
	s.players = append(s.players[:idx], s.players[idx+1:]...)
	s.msg.Public(fmt.Sprintf("%s left the game.", name))

	if len(s.players) == 0 {
		s.finishLocked(VerdictNone, "Everyone left; the game is cancelled.")
		return nil
	}
	if s.host == id {
		s.host = s.players[0].ID
		s.msg.Public(fmt.Sprintf("%s is now the host.", s.players[0].Name))
	}
	return nil
}

// Start shuffles the roster, assigns roles, sends role PMs, and
// enters the first night. Host only.
func (s *Session) Start(caller ParticipantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseLobby {
		return fmt.Errorf("%w: game already running", ErrInvalidState)
	}
	if caller != s.host {
		return ErrNotHost
	}
	if len(s.players) < s.cfg.MinPlayers {
		return fmt.Errorf("%w: %d players, need at least %d", ErrUnsupportedPlayerCount, len(s.players), s.cfg.MinPlayers)
	}

	s.rng.Shuffle(len(s.players), func(i, j int) {
		s.players[i], s.players[j] = s.players[j], s.players[i]
	})
	if err := AssignRoles(s.rng, s.players); err != nil {
		return err
	}

	s.logger.Info("game started", "session", s.id, "players", len(s.players))
	for _, p := range s.players {
		s.sendRolePM(p)
	}
	s.msg.Public(fmt.Sprintf("The game begins with %d players. Roles have been sent privately.", len(s.players)))
	s.enterNightLocked()
	return nil
}

// Vote casts the voter's lynch vote. When every alive player has
// voted the day resolves immediately.
func (s *Session) Vote(voter, target ParticipantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseDay {
		return fmt.Errorf("%w: voting only happens during the day", ErrInvalidState)
	}
	v := s.findPlayer(voter)
	if v == nil {
		return ErrNotInGame
	}
	if !v.Alive {
		return fmt.Errorf("%w: dead players cannot vote", ErrInvalidState)
	}
	t := s.findPlayer(target)
	if t == nil {
		return fmt.Errorf("%w: no such player", ErrTargetInvalid)
	}
	if !t.Alive {
		return ErrTargetNotAlive
	}
	s.votes.Cast(voter, target)
	s.msg.Public(fmt.Sprintf("%s voted to lynch %s.", v.Name, t.Name))

	if s.votes.Len() == s.aliveCount() {
		s.resolveDayLocked()
	}
	return nil
}

// Unvote withdraws the voter's current vote.
func (s *Session) Unvote(voter ParticipantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseDay {
		return fmt.Errorf("%w: voting only happens during the day", ErrInvalidState)
	}
	v := s.findPlayer(voter)
	if v == nil {
		return ErrNotInGame
	}
	if !s.votes.Remove(voter) {
		return fmt.Errorf("%w: no vote to withdraw", ErrInvalidState)
	}
	s.msg.Public(fmt.Sprintf("%s withdrew their vote.", v.Name))
	return nil
}

// VoteCounts returns votes per target name for display.
func (s *Session) VoteCounts() (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseDay {
		return nil, fmt.Errorf("%w: no vote in progress", ErrInvalidState)
	}
	counts := make(map[string]int)
	for id, n := range s.votes.Counts() {
		if p := s.findPlayer(id); p != nil {
			counts[p.Name] = n
		}
	}
	return counts, nil
}

// SubmitNightAction records the actor's target for tonight,
// overwriting any earlier submission. The night resolves early once
// every night-capable alive player has submitted.
func (s *Session) SubmitNightAction(actor, target ParticipantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseNight {
		return fmt.Errorf("%w: night actions only happen at night", ErrInvalidState)
	}
	a := s.findPlayer(actor)
	if a == nil {
		return ErrNotInGame
	}
	if !a.Alive {
		return fmt.Errorf("%w: dead players cannot act", ErrInvalidState)
	}
	role := a.Role.Role()
	if !role.HasNightAction() {
		return fmt.Errorf("%w: the %s has no night action", ErrInvalidState, role.Name)
	}
	if err := s.validateTarget(a, role, target); err != nil {
		return err
	}

	s.actionSeq++
	s.actions[actor] = Submission{Actor: actor, Target: target, Seq: s.actionSeq}
	if err := s.msg.Private(actor, fmt.Sprintf("You have chosen to target %s.", s.findPlayer(target).Name)); err != nil {
		s.logger.Warn("could not confirm night action", "session", s.id, "player", a.Name, "error", err)
	}

	if s.allNightActionsIn() {
		s.resolveNightLocked()
	}
	return nil
}

// End terminates the session immediately. Host only.
func (s *Session) End(caller ParticipantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseGameOver {
		return fmt.Errorf("%w: game already over", ErrInvalidState)
	}
	if caller != s.host {
		return ErrNotHost
	}
	s.finishLocked(VerdictNone, "The host ended the game.")
	return nil
}

// Status snapshots phase, day number, and the rosters.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{Phase: s.phase, Day: s.dayNum, Host: s.host}
	for _, p := range s.players {
		if p.Alive {
			st.Alive = append(st.Alive, p.Participant)
		} else {
			st.Dead = append(st.Dead, p.Participant)
		}
	}
	return st
}

// Players returns a copy of the roster, including assigned roles.
func (s *Session) Players() []Player {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Player, len(s.players))
	for i, p := range s.players {
		out[i] = *p
	}
	return out
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) findPlayer(id ParticipantID) *Player {
	for _, p := range s.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Session) aliveCount() int {
	n := 0
	for _, p := range s.players {
		if p.Alive {
			n++
		}
	}
	return n
}

func (s *Session) validateTarget(actor *Player, role Role, target ParticipantID) error {
	if !role.RequiresTarget {
		return nil
	}
	t := s.findPlayer(target)
	if t == nil {
		return fmt.Errorf("%w: no such player", ErrTargetInvalid)
	}
	if !t.Alive {
		return ErrTargetNotAlive
	}
	if t.ID == actor.ID && !role.CanTargetSelf {
		return fmt.Errorf("%w: you cannot target yourself", ErrTargetInvalid)
	}
	if role.Action == ActionKill && role.Alignment == AlignMafia && t.Role.Role().Alignment == AlignMafia {
		return fmt.Errorf("%w: you cannot target your own team", ErrTargetInvalid)
	}
	if role.Action == ActionProtect && actor.PreviousTarget == t.ID {
		return fmt.Errorf("%w: you cannot protect the same player twice in a row", ErrTargetInvalid)
	}
	return nil
}

func (s *Session) allNightActionsIn() bool {
	for _, p := range s.players {
		if !p.Alive || !p.Role.Role().HasNightAction() {
			continue
		}
		if _, ok := s.actions[p.ID]; !ok {
			return false
		}
	}
	return true
}

func (s *Session) sendRolePM(p *Player) {
	role := p.Role.Role()
	text := fmt.Sprintf("You are the %s (%s).", role.Name, role.Alignment)
	if role.Alignment == AlignMafia {
		var mates []string
		for _, other := range s.players {
			if other.ID != p.ID && other.Role.Role().Alignment == AlignMafia {
				mates = append(mates, other.Name)
			}
		}
		if len(mates) > 0 {
			text += fmt.Sprintf(" Your teammates are %s.", formatList(mates))
		} else {
			text += " You work alone."
		}
	}
	if err := s.msg.Private(p.ID, text); err != nil {
		s.logger.Warn("role pm undeliverable", "session", s.id, "player", p.Name, "error", err)
		s.msg.Public(fmt.Sprintf("Could not reach %s with their role.", p.Name))
	}
}

// schedule arms the phase timer. The captured sequence number makes a
// late fire after an early phase completion a no-op.
func (s *Session) schedule(d time.Duration, fire func()) {
	seq := s.seq
	s.timer = s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.seq != seq || s.phase == PhaseGameOver {
			return
		}
		fire()
	})
}

func (s *Session) enterNightLocked() {
	s.phase = PhaseNight
	clear(s.actions)
	s.actionSeq = 0
	s.msg.Public(fmt.Sprintf("Night %d falls. Players with night actions, choose your targets.", s.dayNum+1))
	s.schedule(s.cfg.NightDuration, s.resolveNightLocked)
}

func (s *Session) enterDayLocked() {
	s.phase = PhaseDay
	s.dayNum++
	s.votes.Clear()
	var alive []string
	for _, p := range s.players {
		if p.Alive {
			alive = append(alive, p.Name)
		}
	}
	s.msg.Public(fmt.Sprintf("Day %d begins. Alive: %s. Vote to lynch a suspect.", s.dayNum, formatList(alive)))
	s.schedule(s.cfg.DayDuration, s.resolveDayLocked)
}

func (s *Session) resolveNightLocked() {
	s.seq++
	if s.timer != nil {
		s.timer.Stop()
	}
	if s.aliveCount() == 0 {
		s.finishLocked(VerdictNone, "No players remain; the game ends.")
		return
	}

	subs := make([]Submission, 0, len(s.actions))
	for _, sub := range s.actions {
		subs = append(subs, sub)
	}
	report := ResolveNight(s.players, subs)

	for _, id := range report.Deaths {
		if p := s.findPlayer(id); p != nil {
			p.Alive = false
		}
	}
	for _, inv := range report.Investigations {
		target := s.findPlayer(inv.Target)
		if err := s.msg.Private(inv.Investigator, fmt.Sprintf("Your investigation of %s reveals: %s.", target.Name, inv.Result)); err != nil {
			investigator := s.findPlayer(inv.Investigator)
			s.logger.Warn("investigation result undeliverable", "session", s.id, "player", investigator.Name, "error", err)
			s.msg.Public(fmt.Sprintf("Could not reach %s with their results.", investigator.Name))
		}
	}

	if len(report.Deaths) == 0 {
		s.msg.Public("The night passes quietly. Nobody died.")
	}
	for _, id := range report.Deaths {
		p := s.findPlayer(id)
		s.msg.Public(fmt.Sprintf("%s %s.", p.Name, deathMessage(s.rng)))
	}

	if promoted := PromoteGodfather(s.players); promoted != nil {
		s.logger.Info("godfather promoted", "session", s.id, "player", promoted.Name)
		if err := s.msg.Private(promoted.ID, "The Godfather has fallen. You now lead the family."); err != nil {
			s.logger.Warn("promotion notice undeliverable", "session", s.id, "player", promoted.Name, "error", err)
		}
	}

	if verdict := Evaluate(s.players); verdict != VerdictNone {
		s.finishLocked(verdict, fmt.Sprintf("The game is over: %s!", verdict))
		return
	}
	s.enterDayLocked()
}

func (s *Session) resolveDayLocked() {
	s.seq++
	if s.timer != nil {
		s.timer.Stop()
	}
	if s.aliveCount() == 0 {
		s.finishLocked(VerdictNone, "No players remain; the game ends.")
		return
	}

	if target, ok := s.votes.ResolveLynch(s.rng); ok {
		p := s.findPlayer(target)
		p.Alive = false
		p.Lynched = true
		s.msg.Public(fmt.Sprintf("%s %s. They were a %s.", p.Name, lynchMessage(s.rng), p.Role))
	} else {
		s.msg.Public("No votes were cast. Nobody is lynched today.")
	}

	if promoted := PromoteGodfather(s.players); promoted != nil {
		s.logger.Info("godfather promoted", "session", s.id, "player", promoted.Name)
	}
	if verdict := Evaluate(s.players); verdict != VerdictNone {
		s.finishLocked(verdict, fmt.Sprintf("The game is over: %s!", verdict))
		return
	}
	s.enterNightLocked()
}

func (s *Session) finishLocked(verdict Verdict, text string) {
	s.seq++
	if s.timer != nil {
		s.timer.Stop()
	}
	s.phase = PhaseGameOver
	s.msg.Public(text)
	s.logger.Info("game over", "session", s.id, "verdict", verdict)
	if s.onEnd != nil {
		s.onEnd(verdict)
	}
}
