package server

import (
	"encoding/json"
	"time"

	"github.com/lox/partybots/internal/blackjack"
	"github.com/lox/partybots/internal/mafia"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type AuthData struct {
	Name string `json:"name"`
}

// RoomCommandData covers commands that only need the room.
type RoomCommandData struct {
	Room string `json:"room"`
}

// TargetCommandData covers vote and night-action commands.
type TargetCommandData struct {
	Room   string `json:"room"`
	Target string `json:"target"`
}

// Server → Client Messages

type AuthResponseData struct {
	Success       bool   `json:"success"`
	ParticipantID string `json:"participantId,omitempty"`
	Error         string `json:"error,omitempty"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RoomMessageData struct {
	Room string `json:"room"`
	Text string `json:"text"`
}

type PrivateMessageData struct {
	Text string `json:"text"`
}

type VoteCountsData struct {
	Room   string         `json:"room"`
	Counts map[string]int `json:"counts"`
}

type ParticipantInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type GameStatusData struct {
	Room  string            `json:"room"`
	Phase string            `json:"phase"`
	Day   int               `json:"day"`
	Host  string            `json:"host"`
	Alive []ParticipantInfo `json:"alive"`
	Dead  []ParticipantInfo `json:"dead"`
}

type DealtHandInfo struct {
	Player string `json:"player"`
	Cards  []int  `json:"cards"`
	Value  int    `json:"value"`
}

type BlackjackDealData struct {
	Room        string          `json:"room"`
	Hands       []DealtHandInfo `json:"hands"`
	HouseUpCard int             `json:"houseUpCard"`
}

type PendingActionInfo struct {
	Player    string `json:"player"`
	Kind      string `json:"kind"`
	HandIndex int    `json:"handIndex"`
}

type BlackjackUpdateData struct {
	Room      string             `json:"room"`
	Player    string             `json:"player"`
	HandIndex int                `json:"handIndex"`
	Cards     []int              `json:"cards"`
	Value     int                `json:"value"`
	Busted    bool               `json:"busted"`
	Denied    bool               `json:"denied"`
	Pending   *PendingActionInfo `json:"pending,omitempty"`
}

type HandOutcomeInfo struct {
	Player     string `json:"player"`
	HandIndex  int    `json:"handIndex"`
	Cards      []int  `json:"cards"`
	Value      int    `json:"value"`
	PlayerWins bool   `json:"playerWins"`
	Push       bool   `json:"push"`
}

type BlackjackResultData struct {
	Room       string            `json:"room"`
	HouseCards []int             `json:"houseCards"`
	HouseValue int               `json:"houseValue"`
	HouseBust  bool              `json:"houseBust"`
	Outcomes   []HandOutcomeInfo `json:"outcomes"`
}

// Helper functions to convert between engine types and message types

func statusFromGame(roomID string, st mafia.Status) GameStatusData {
	data := GameStatusData{
		Room:  roomID,
		Phase: st.Phase.String(),
		Day:   st.Day,
		Host:  string(st.Host),
	}
	for _, p := range st.Alive {
		data.Alive = append(data.Alive, ParticipantInfo{ID: string(p.ID), Name: p.Name})
	}
	for _, p := range st.Dead {
		data.Dead = append(data.Dead, ParticipantInfo{ID: string(p.ID), Name: p.Name})
	}
	return data
}

func dealFromGame(roomID string, deal *blackjack.Deal) BlackjackDealData {
	data := BlackjackDealData{Room: roomID, HouseUpCard: deal.HouseUpCard}
	for _, h := range deal.Hands {
		data.Hands = append(data.Hands, DealtHandInfo{
			Player: h.Player.Name,
			Cards:  h.Hand,
			Value:  h.Value,
		})
	}
	return data
}

func updateFromGame(roomID string, u *blackjack.Update) BlackjackUpdateData {
	data := BlackjackUpdateData{
		Room:      roomID,
		Player:    u.Player.Name,
		HandIndex: u.HandIndex,
		Cards:     u.Hand,
		Value:     u.Value,
		Busted:    u.Busted,
		Denied:    u.Denied,
	}
	if u.Pending != nil {
		data.Pending = &PendingActionInfo{
			Player:    u.Pending.PlayerID,
			Kind:      u.Pending.Kind.String(),
			HandIndex: u.Pending.HandIndex,
		}
	}
	return data
}

func resultFromGame(roomID string, r *blackjack.RoundResult) BlackjackResultData {
	data := BlackjackResultData{
		Room:       roomID,
		HouseCards: r.House,
		HouseValue: r.HouseValue,
		HouseBust:  r.HouseBust,
	}
	for _, o := range r.Outcomes {
		data.Outcomes = append(data.Outcomes, HandOutcomeInfo{
			Player:     o.Player.Name,
			HandIndex:  o.HandIndex,
			Cards:      o.Hand,
			Value:      o.Value,
			PlayerWins: o.PlayerWins,
			Push:       o.Push,
		})
	}
	return data
}
