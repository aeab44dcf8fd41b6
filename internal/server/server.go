package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/partybots/internal/mafia"
)

// Server represents the WebSocket server
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	roomService *RoomService
	httpSrv     *http.Server
}

// NewServer creates a new WebSocket server
func NewServer(addr string, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// For development, allow all origins
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start starts the WebSocket server
func (s *Server) Start() error {
	go s.run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.mu.Lock()
	s.httpSrv = &http.Server{Addr: s.addr, Handler: mux}
	s.mu.Unlock()

	s.logger.Info("Starting WebSocket server", "addr", s.addr)
	return s.httpSrv.ListenAndServe()
}

// Stop stops the WebSocket server
func (s *Server) Stop() error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	httpSrv := s.httpSrv
	s.mu.Unlock()

	if httpSrv != nil {
		return httpSrv.Close()
	}
	return nil
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			s.mu.Unlock()
			s.logger.Info("Client connected", "total", len(s.connections))

		case conn := <-s.unregister:
			s.mu.Lock()
			_, ok := s.connections[conn]
			if ok {
				delete(s.connections, conn)
			}
			total := len(s.connections)
			s.mu.Unlock()

			if !ok {
				continue
			}

			// Lobby cleanup happens after releasing the lock: it can
			// broadcast a leave message, which takes the lock again.
			participantID := conn.GetParticipant()
			roomID := conn.GetRoom()
			if participantID != "" && roomID != "" && s.roomService != nil {
				s.logger.Info("Cleaning up disconnected participant", "participant", participantID, "room", roomID)
				s.roomService.HandleDisconnect(roomID, mafia.ParticipantID(participantID))
			}

			_ = conn.Close()
			s.logger.Info("Client disconnected", "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s.roomService)
	s.register <- client
	client.Start()

	go func() {
		<-client.ctx.Done()
		s.unregister <- client
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// BroadcastToRoom sends a message to all connections in a room
func (s *Server) BroadcastToRoom(roomID string, msg *Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for conn := range s.connections {
		if conn.GetRoom() == roomID {
			if err := conn.SendMessage(msg); err != nil {
				s.logger.Error("Failed to send message to client", "error", err, "participant", conn.GetParticipant())
			} else {
				count++
			}
		}
	}

	s.logger.Debug("Broadcasted message to room", "room", roomID, "type", msg.Type, "recipients", count)
}

// SendToParticipant sends a message to a specific participant
func (s *Server) SendToParticipant(participantID string, msg *Message) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for conn := range s.connections {
		if conn.GetParticipant() == participantID {
			return conn.SendMessage(msg)
		}
	}

	return fmt.Errorf("participant not found: %s", participantID)
}

// GetConnectedParticipants returns the connected participant IDs
func (s *Server) GetConnectedParticipants() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var participants []string
	for conn := range s.connections {
		if id := conn.GetParticipant(); id != "" {
			participants = append(participants, id)
		}
	}

	return participants
}

// SetRoomService sets the room service for the server
func (s *Server) SetRoomService(roomService *RoomService) {
	s.roomService = roomService
}
