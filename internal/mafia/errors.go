package mafia

import "errors"

var (
	// ErrInvalidState is returned when an operation is illegal for the
	// session's current phase, e.g. voting at night.
	ErrInvalidState = errors.New("operation not valid in current phase")
	// ErrNotInGame is returned when the acting participant is not part
	// of the session.
	ErrNotInGame = errors.New("participant not in game")
	// ErrAlreadyInGame is returned when a participant joins twice.
	ErrAlreadyInGame = errors.New("participant already in game")
	// ErrNotHost is returned when a host-only command comes from
	// someone else.
	ErrNotHost = errors.New("only the host may do that")
	// ErrTargetNotAlive is returned when an action or vote targets a
	// dead player.
	ErrTargetNotAlive = errors.New("target is not alive")
	// ErrTargetInvalid covers targeting rule violations: unknown
	// target, disallowed self-target, same-team kills, or a Doctor
	// repeating last night's patient.
	ErrTargetInvalid = errors.New("target not allowed")
	// ErrUnsupportedPlayerCount is returned when no role distribution
	// exists for the roster size.
	ErrUnsupportedPlayerCount = errors.New("unsupported player count")
	// ErrUnreachable is returned by a Messenger when a private message
	// cannot be delivered. It is never fatal to game progress.
	ErrUnreachable = errors.New("participant unreachable")
)
