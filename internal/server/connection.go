package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/partybots/internal/blackjack"
	"github.com/lox/partybots/internal/mafia"
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	conn          *websocket.Conn
	send          chan *Message
	participantID string
	roomID        string
	logger        *log.Logger
	ctx           context.Context
	cancel        context.CancelFunc
	mu            sync.RWMutex
	closeOnce     sync.Once
	roomService   *RoomService
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, logger *log.Logger, roomService *RoomService) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:        conn,
		send:        make(chan *Message, 256),
		logger:      logger.WithPrefix("conn"),
		ctx:         ctx,
		cancel:      cancel,
		roomService: roomService,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, expected during shutdown
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// SetParticipant associates this connection with a participant
func (c *Connection) SetParticipant(participantID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.participantID = participantID
}

// GetParticipant returns the associated participant ID
func (c *Connection) GetParticipant() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.participantID
}

// SetRoom associates this connection with a room
func (c *Connection) SetRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomID = roomID
}

// GetRoom returns the associated room ID
func (c *Connection) GetRoom() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomID
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var (
	ErrConnectionClosed = websocket.ErrCloseSent
)

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "participant", c.GetParticipant())

	if msg.Type == MessageTypeAuth {
		var data AuthData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse auth data")
			return
		}
		c.handleAuth(data)
		return
	}

	if c.roomService == nil {
		c.sendError("service_unavailable", "Game service not available")
		return
	}
	participantID := c.GetParticipant()
	if participantID == "" {
		c.sendError("not_authenticated", "Must authenticate first")
		return
	}

	switch msg.Type {
	case MessageTypeMafiaVote, MessageTypeMafiaAction:
		var data TargetCommandData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse target command")
			return
		}
		c.handleTargetCommand(msg.Type, data)

	default:
		var data RoomCommandData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse room command")
			return
		}
		c.handleRoomCommand(msg.Type, data)
	}
}

func (c *Connection) handleAuth(data AuthData) {
	c.logger.Info("Auth request", "name", data.Name)

	// Simple authentication, any non-empty name is accepted
	if data.Name == "" {
		c.sendError("invalid_auth", "Participant name required")
		return
	}

	c.SetParticipant(data.Name)

	response, _ := NewMessage(MessageTypeAuthResponse, AuthResponseData{
		Success:       true,
		ParticipantID: data.Name,
	})
	_ = c.SendMessage(response)
}

func (c *Connection) handleTargetCommand(mt MessageType, data TargetCommandData) {
	actor := mafia.ParticipantID(c.GetParticipant())
	target := mafia.ParticipantID(data.Target)

	var err error
	switch mt {
	case MessageTypeMafiaVote:
		err = c.roomService.Vote(data.Room, actor, target)
	case MessageTypeMafiaAction:
		err = c.roomService.SubmitNightAction(data.Room, actor, target)
	}
	if err != nil {
		c.sendError("command_failed", err.Error())
	}
}

func (c *Connection) handleRoomCommand(mt MessageType, data RoomCommandData) {
	id := c.GetParticipant()
	participant := mafia.Participant{ID: mafia.ParticipantID(id), Name: id}

	var err error
	switch mt {
	case MessageTypeMafiaCreate:
		// Room association first, so the joiner sees the lobby
		// broadcasts their own command produces.
		c.SetRoom(data.Room)
		if err = c.roomService.CreateMafia(data.Room, participant); err != nil {
			c.SetRoom("")
		}
	case MessageTypeMafiaJoin:
		c.SetRoom(data.Room)
		if err = c.roomService.JoinMafia(data.Room, participant); err != nil {
			c.SetRoom("")
		}
	case MessageTypeMafiaLeave:
		if err = c.roomService.LeaveMafia(data.Room, participant.ID); err == nil {
			c.SetRoom("")
		}
	case MessageTypeMafiaStart:
		err = c.roomService.StartMafia(data.Room, participant.ID)
	case MessageTypeMafiaUnvote:
		err = c.roomService.Unvote(data.Room, participant.ID)
	case MessageTypeMafiaVotes:
		var counts map[string]int
		if counts, err = c.roomService.VoteCounts(data.Room); err == nil {
			response, _ := NewMessage(MessageTypeVoteCounts, VoteCountsData{Room: data.Room, Counts: counts})
			_ = c.SendMessage(response)
		}
	case MessageTypeMafiaStatus:
		var status GameStatusData
		if status, err = c.roomService.MafiaStatus(data.Room); err == nil {
			response, _ := NewMessage(MessageTypeGameStatus, status)
			_ = c.SendMessage(response)
		}
	case MessageTypeMafiaEnd:
		err = c.roomService.EndMafia(data.Room, participant.ID)

	case MessageTypeBlackjackJoin:
		c.SetRoom(data.Room)
		if err = c.roomService.JoinBlackjack(data.Room, blackjack.Player{ID: id, Name: id}); err != nil {
			c.SetRoom("")
		}
	case MessageTypeBlackjackStart:
		err = c.roomService.StartBlackjack(data.Room)
	case MessageTypeBlackjackHit:
		err = c.roomService.Hit(data.Room, id)
	case MessageTypeBlackjackStand:
		err = c.roomService.Stand(data.Room, id)
	case MessageTypeBlackjackDouble:
		err = c.roomService.Double(data.Room, id)
	case MessageTypeBlackjackSplit:
		err = c.roomService.Split(data.Room, id)
	case MessageTypeBlackjackApprove:
		err = c.roomService.Approve(data.Room)
	case MessageTypeBlackjackDeny:
		err = c.roomService.Deny(data.Room)
	case MessageTypeBlackjackReset:
		err = c.roomService.ResetBlackjack(data.Room)

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+mt.String())
		return
	}

	if err != nil {
		c.sendError("command_failed", err.Error())
	}
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg)
}
