// Package room tracks per-room game state. Each room runs at most one
// game at a time and rooms never share state, so they can be driven
// fully in parallel.
package room

import (
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/partybots/internal/blackjack"
	"github.com/lox/partybots/internal/mafia"
)

var (
	// ErrGameInProgress is returned when a room already hosts a game.
	ErrGameInProgress = errors.New("a game is already running in this room")
	// ErrNoGame is returned when a command needs a running game.
	ErrNoGame = errors.New("no game running in this room")
)

// ID identifies a chat room.
type ID string

// Room owns the game running in one chat room.
type Room struct {
	mu        sync.Mutex
	id        ID
	mafia     *mafia.Session
	blackjack *blackjack.Table
}

func (r *Room) ID() ID {
	return r.id
}

// AttachMafia installs a mafia session if the room is free.
func (r *Room) AttachMafia(s *mafia.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mafia != nil || r.blackjack != nil {
		return ErrGameInProgress
	}
	r.mafia = s
	return nil
}

// AttachBlackjack installs a blackjack table if the room is free.
func (r *Room) AttachBlackjack(t *blackjack.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mafia != nil || r.blackjack != nil {
		return ErrGameInProgress
	}
	r.blackjack = t
	return nil
}

// MafiaSession returns the room's running mafia session.
func (r *Room) MafiaSession() (*mafia.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mafia == nil {
		return nil, ErrNoGame
	}
	return r.mafia, nil
}

// BlackjackTable returns the room's running blackjack table.
func (r *Room) BlackjackTable() (*blackjack.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.blackjack == nil {
		return nil, ErrNoGame
	}
	return r.blackjack, nil
}

// Clear detaches whatever game the room was running.
func (r *Room) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mafia = nil
	r.blackjack = nil
}

// Registry maps room ids to their game state.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[ID]*Room
	logger *log.Logger
}

func NewRegistry(logger *log.Logger) *Registry {
	return &Registry{
		rooms:  make(map[ID]*Room),
		logger: logger.WithPrefix("rooms"),
	}
}

// Get looks up an existing room.
func (g *Registry) Get(id ID) (*Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.rooms[id]
	return r, ok
}

// GetOrCreate returns the room, creating it on first use.
func (g *Registry) GetOrCreate(id ID) *Room {
	g.mu.Lock()
	defer g.mu.Unlock()
	if r, ok := g.rooms[id]; ok {
		return r
	}
	r := &Room{id: id}
	g.rooms[id] = r
	g.logger.Debug("room created", "room", id)
	return r
}

// Remove drops the room and its game state.
func (g *Registry) Remove(id ID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.rooms, id)
	g.logger.Debug("room removed", "room", id)
}

// Len is the number of live rooms.
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}
