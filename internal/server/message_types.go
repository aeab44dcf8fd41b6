package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants for the client-server protocol.
const (
	// Client to server messages
	MessageTypeAuth MessageType = "auth"

	MessageTypeMafiaCreate MessageType = "mafia_create"
	MessageTypeMafiaJoin   MessageType = "mafia_join"
	MessageTypeMafiaLeave  MessageType = "mafia_leave"
	MessageTypeMafiaStart  MessageType = "mafia_start"
	MessageTypeMafiaVote   MessageType = "mafia_vote"
	MessageTypeMafiaUnvote MessageType = "mafia_unvote"
	MessageTypeMafiaVotes  MessageType = "mafia_votes"
	MessageTypeMafiaAction MessageType = "mafia_action"
	MessageTypeMafiaStatus MessageType = "mafia_status"
	MessageTypeMafiaEnd    MessageType = "mafia_end"

	MessageTypeBlackjackJoin    MessageType = "blackjack_join"
	MessageTypeBlackjackStart   MessageType = "blackjack_start"
	MessageTypeBlackjackHit     MessageType = "blackjack_hit"
	MessageTypeBlackjackStand   MessageType = "blackjack_stand"
	MessageTypeBlackjackDouble  MessageType = "blackjack_double"
	MessageTypeBlackjackSplit   MessageType = "blackjack_split"
	MessageTypeBlackjackApprove MessageType = "blackjack_approve"
	MessageTypeBlackjackDeny    MessageType = "blackjack_deny"
	MessageTypeBlackjackReset   MessageType = "blackjack_reset"

	// Server to client messages
	MessageTypeError           MessageType = "error"
	MessageTypeAuthResponse    MessageType = "auth_response"
	MessageTypeRoomMessage     MessageType = "room_message"
	MessageTypePrivateMessage  MessageType = "private_message"
	MessageTypeVoteCounts      MessageType = "vote_counts"
	MessageTypeGameStatus      MessageType = "game_status"
	MessageTypeBlackjackDeal   MessageType = "blackjack_deal"
	MessageTypeBlackjackUpdate MessageType = "blackjack_update"
	MessageTypeBlackjackResult MessageType = "blackjack_result"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
