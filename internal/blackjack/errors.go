package blackjack

import "errors"

var (
	// ErrInvalidState is returned when an operation is illegal for the
	// table's current state, e.g. hitting before the deal or doubling a
	// three-card hand.
	ErrInvalidState = errors.New("operation not valid in current table state")
	// ErrAlreadyStarted is returned when joining after the deal.
	ErrAlreadyStarted = errors.New("table has already started")
	// ErrDuplicatePlayer is returned when a participant joins twice.
	ErrDuplicatePlayer = errors.New("player already at table")
	// ErrNotInGame is returned when an actor is not seated at the table.
	ErrNotInGame = errors.New("player not at table")
	// ErrNotYourTurn is returned when a player acts out of turn.
	ErrNotYourTurn = errors.New("not your turn")
	// ErrActionPending is returned when a double or split request is
	// awaiting dealer approval and another action arrives.
	ErrActionPending = errors.New("a double or split request is awaiting approval")
	// ErrNoPendingAction is returned by Approve/Deny with nothing queued.
	ErrNoPendingAction = errors.New("no action awaiting approval")
)
