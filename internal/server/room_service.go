package server

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/partybots/internal/blackjack"
	"github.com/lox/partybots/internal/mafia"
	"github.com/lox/partybots/internal/randutil"
	"github.com/lox/partybots/internal/results"
	"github.com/lox/partybots/internal/room"
)

// RoomService owns the room registry and wires game engines to the
// transport. One logical command mutates one room at a time; the
// engines serialise internally.
type RoomService struct {
	server *Server
	rooms  *room.Registry
	store  *results.Store // nil disables result recording
	clock  quartz.Clock
	cfg    *Config
	logger *log.Logger

	mu       sync.Mutex
	seed     int64
	bjRounds map[string]string // roomID -> results session id
}

// NewRoomService creates the service. store may be nil.
func NewRoomService(server *Server, cfg *Config, store *results.Store, logger *log.Logger, seed int64, clock quartz.Clock) *RoomService {
	return &RoomService{
		server:   server,
		rooms:    room.NewRegistry(logger),
		store:    store,
		clock:    clock,
		cfg:      cfg,
		logger:   logger.WithPrefix("rooms"),
		seed:     seed,
		bjRounds: make(map[string]string),
	}
}

// nextRng derives a fresh engine rng from the service seed.
func (s *RoomService) nextRng() *rand.Rand {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seed++
	return randutil.New(s.seed)
}

func (s *RoomService) messenger(roomID string) mafia.Messenger {
	return &roomMessenger{server: s.server, room: roomID}
}

// Mafia operations

// CreateMafia opens a mafia lobby in the room and seats the creator
// as host.
func (s *RoomService) CreateMafia(roomID string, p mafia.Participant) error {
	rm := s.rooms.GetOrCreate(room.ID(roomID))
	session := mafia.NewSession(s.cfg.MafiaConfig(), s.messenger(roomID), s.clock, s.nextRng(), s.logger)
	if err := rm.AttachMafia(session); err != nil {
		return err
	}
	session.OnEnd(func(v mafia.Verdict) {
		if s.store != nil {
			s.store.RecordEnd(session.ID(), v.String())
		}
		rm.Clear()
	})
	s.logger.Info("mafia lobby created", "room", roomID, "host", p.Name)
	return session.Join(p)
}

func (s *RoomService) mafiaSession(roomID string) (*mafia.Session, error) {
	rm, ok := s.rooms.Get(room.ID(roomID))
	if !ok {
		return nil, room.ErrNoGame
	}
	return rm.MafiaSession()
}

func (s *RoomService) JoinMafia(roomID string, p mafia.Participant) error {
	session, err := s.mafiaSession(roomID)
	if err != nil {
		return err
	}
	return session.Join(p)
}

func (s *RoomService) LeaveMafia(roomID string, id mafia.ParticipantID) error {
	session, err := s.mafiaSession(roomID)
	if err != nil {
		return err
	}
	return session.Leave(id)
}

func (s *RoomService) StartMafia(roomID string, caller mafia.ParticipantID) error {
	session, err := s.mafiaSession(roomID)
	if err != nil {
		return err
	}
	if err := session.Start(caller); err != nil {
		return err
	}
	if s.store != nil {
		s.store.RecordStart(session.ID(), roomID, "mafia", len(session.Players()))
	}
	return nil
}

func (s *RoomService) Vote(roomID string, voter, target mafia.ParticipantID) error {
	session, err := s.mafiaSession(roomID)
	if err != nil {
		return err
	}
	return session.Vote(voter, target)
}

func (s *RoomService) Unvote(roomID string, voter mafia.ParticipantID) error {
	session, err := s.mafiaSession(roomID)
	if err != nil {
		return err
	}
	return session.Unvote(voter)
}

func (s *RoomService) VoteCounts(roomID string) (map[string]int, error) {
	session, err := s.mafiaSession(roomID)
	if err != nil {
		return nil, err
	}
	return session.VoteCounts()
}

func (s *RoomService) SubmitNightAction(roomID string, actor, target mafia.ParticipantID) error {
	session, err := s.mafiaSession(roomID)
	if err != nil {
		return err
	}
	return session.SubmitNightAction(actor, target)
}

func (s *RoomService) MafiaStatus(roomID string) (GameStatusData, error) {
	session, err := s.mafiaSession(roomID)
	if err != nil {
		return GameStatusData{}, err
	}
	return statusFromGame(roomID, session.Status()), nil
}

func (s *RoomService) EndMafia(roomID string, caller mafia.ParticipantID) error {
	session, err := s.mafiaSession(roomID)
	if err != nil {
		return err
	}
	return session.End(caller)
}

// Blackjack operations

// JoinBlackjack seats the participant, opening a table in the room on
// first join.
func (s *RoomService) JoinBlackjack(roomID string, p blackjack.Player) error {
	rm := s.rooms.GetOrCreate(room.ID(roomID))
	tbl, err := rm.BlackjackTable()
	if errors.Is(err, room.ErrNoGame) {
		mode, merr := s.cfg.Blackjack.Mode()
		if merr != nil {
			return merr
		}
		policy, perr := s.cfg.Blackjack.Policy()
		if perr != nil {
			return perr
		}
		tbl = blackjack.NewTable(blackjack.NewDealer(s.nextRng(), mode), policy, s.logger)
		if aerr := rm.AttachBlackjack(tbl); aerr != nil {
			return aerr
		}
		s.logger.Info("blackjack table opened", "room", roomID, "mode", mode)
	} else if err != nil {
		return err
	}
	if err := tbl.Join(p); err != nil {
		return err
	}
	s.broadcast(roomID, MessageTypeRoomMessage, RoomMessageData{
		Room: roomID,
		Text: fmt.Sprintf("%s sat down at the blackjack table.", p.Name),
	})
	return nil
}

func (s *RoomService) blackjackTable(roomID string) (*blackjack.Table, error) {
	rm, ok := s.rooms.Get(room.ID(roomID))
	if !ok {
		return nil, room.ErrNoGame
	}
	return rm.BlackjackTable()
}

func (s *RoomService) StartBlackjack(roomID string) error {
	tbl, err := s.blackjackTable(roomID)
	if err != nil {
		return err
	}
	deal, err := tbl.Start()
	if err != nil {
		return err
	}

	recordID := uuid.NewString()
	s.mu.Lock()
	s.bjRounds[roomID] = recordID
	s.mu.Unlock()
	if s.store != nil {
		s.store.RecordStart(recordID, roomID, "blackjack", len(deal.Hands))
	}

	s.broadcast(roomID, MessageTypeBlackjackDeal, dealFromGame(roomID, deal))
	return nil
}

func (s *RoomService) Hit(roomID, playerID string) error {
	return s.blackjackAction(roomID, func(t *blackjack.Table) (*blackjack.Update, error) {
		return t.Hit(playerID)
	})
}

func (s *RoomService) Stand(roomID, playerID string) error {
	return s.blackjackAction(roomID, func(t *blackjack.Table) (*blackjack.Update, error) {
		return t.Stand(playerID)
	})
}

func (s *RoomService) Double(roomID, playerID string) error {
	return s.blackjackAction(roomID, func(t *blackjack.Table) (*blackjack.Update, error) {
		return t.Double(playerID)
	})
}

func (s *RoomService) Split(roomID, playerID string) error {
	return s.blackjackAction(roomID, func(t *blackjack.Table) (*blackjack.Update, error) {
		return t.Split(playerID)
	})
}

func (s *RoomService) Approve(roomID string) error {
	return s.blackjackAction(roomID, func(t *blackjack.Table) (*blackjack.Update, error) {
		return t.Approve()
	})
}

func (s *RoomService) Deny(roomID string) error {
	return s.blackjackAction(roomID, func(t *blackjack.Table) (*blackjack.Update, error) {
		return t.Deny()
	})
}

func (s *RoomService) ResetBlackjack(roomID string) error {
	tbl, err := s.blackjackTable(roomID)
	if err != nil {
		return err
	}
	tbl.Reset()
	s.broadcast(roomID, MessageTypeRoomMessage, RoomMessageData{Room: roomID, Text: "The table was reset."})
	return nil
}

func (s *RoomService) blackjackAction(roomID string, fn func(*blackjack.Table) (*blackjack.Update, error)) error {
	tbl, err := s.blackjackTable(roomID)
	if err != nil {
		return err
	}
	u, err := fn(tbl)
	if err != nil {
		return err
	}
	s.broadcast(roomID, MessageTypeBlackjackUpdate, updateFromGame(roomID, u))
	if u.Round != nil {
		s.finishBlackjackRound(roomID, u.Round)
	}
	return nil
}

// finishBlackjackRound publishes the settled round and tears the
// table down; a fresh join opens a new one.
func (s *RoomService) finishBlackjackRound(roomID string, r *blackjack.RoundResult) {
	s.broadcast(roomID, MessageTypeBlackjackResult, resultFromGame(roomID, r))

	s.mu.Lock()
	recordID := s.bjRounds[roomID]
	delete(s.bjRounds, roomID)
	s.mu.Unlock()
	if s.store != nil && recordID != "" {
		wins := 0
		for _, o := range r.Outcomes {
			if o.PlayerWins {
				wins++
			}
		}
		s.store.RecordEnd(recordID, fmt.Sprintf("players %d/%d", wins, len(r.Outcomes)))
	}

	if rm, ok := s.rooms.Get(room.ID(roomID)); ok {
		rm.Clear()
	}
}

// HandleDisconnect removes a participant from any pre-game lobby.
// Running games keep the player; their phases time out naturally.
func (s *RoomService) HandleDisconnect(roomID string, id mafia.ParticipantID) {
	if roomID == "" || id == "" {
		return
	}
	if err := s.LeaveMafia(roomID, id); err != nil {
		s.logger.Debug("disconnect cleanup skipped", "room", roomID, "participant", id, "error", err)
	}
}

func (s *RoomService) broadcast(roomID string, mt MessageType, data interface{}) {
	msg, err := NewMessage(mt, data)
	if err != nil {
		s.logger.Error("failed to create broadcast message", "type", mt, "error", err)
		return
	}
	s.server.BroadcastToRoom(roomID, msg)
}

// roomMessenger adapts the server to the game engines' messaging
// capability.
type roomMessenger struct {
	server *Server
	room   string
}

func (m *roomMessenger) Public(text string) {
	msg, err := NewMessage(MessageTypeRoomMessage, RoomMessageData{Room: m.room, Text: text})
	if err != nil {
		return
	}
	m.server.BroadcastToRoom(m.room, msg)
}

func (m *roomMessenger) Private(id mafia.ParticipantID, text string) error {
	msg, err := NewMessage(MessageTypePrivateMessage, PrivateMessageData{Text: text})
	if err != nil {
		return err
	}
	if err := m.server.SendToParticipant(string(id), msg); err != nil {
		return fmt.Errorf("%w: %s", mafia.ErrUnreachable, id)
	}
	return nil
}
