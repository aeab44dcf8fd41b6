package mafia

// ParticipantID is the transport layer's stable identity for a user.
type ParticipantID string

// Participant is an identity owned by the transport layer. The core
// references it by ID and never constructs or destroys it.
type Participant struct {
	ID   ParticipantID
	Name string
}

// Player wraps a Participant for the duration of one session.
type Player struct {
	Participant

	Role  RoleKind
	Alive bool

	// Lynched marks a death by day vote, which some roles (Jester)
	// win from.
	Lynched bool

	// PreviousTarget is role-specific memory, e.g. the Doctor's last
	// patient who cannot be healed twice in a row.
	PreviousTarget ParticipantID
}
