package mafia

// Alignment is a role's team, used for win conditions and
// investigation results.
type Alignment int

const (
	AlignTown Alignment = iota
	AlignMafia
	AlignNeutral
)

func (a Alignment) String() string {
	switch a {
	case AlignTown:
		return "Town"
	case AlignMafia:
		return "Mafia"
	case AlignNeutral:
		return "Neutral"
	default:
		return "Unknown"
	}
}

// ActionKind is the capability a role exercises at night.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionKill
	ActionInvestigate
	ActionProtect
	ActionBlock
	ActionFrame
)

// RoleKind identifies one of the closed set of roles.
type RoleKind int

const (
	RoleUnassigned RoleKind = iota
	RoleVillager
	RoleMafia
	RoleGodfather
	RoleDetective
	RoleSheriff
	RoleInvestigator
	RoleConsigliere
	RoleDoctor
	RoleBodyguard
	RoleEscort
	RoleConsort
	RoleFramer
	RoleBlackmailer
	RoleJester
	RoleSerialKiller
	RoleSurvivor
	RoleExecutioner
	RoleArsonist
	RoleWitch
	RoleVigilante
	RoleMayor
	RoleVeteran
	RoleTracker
	RoleLookout
	RoleDisguiser
	RoleForger
	RoleAmnesiac
)

// Role is an immutable capability descriptor.
type Role struct {
	Name           string
	Alignment      Alignment
	Action         ActionKind
	RequiresTarget bool
	CanTargetSelf  bool

	// ExactRole investigations reveal the target's role name rather
	// than just their alignment.
	ExactRole bool
	// Sacrifice protectors die in place of their target instead of
	// simply cancelling the kill.
	Sacrifice bool
	// AppearsInnocent roles show as Town to alignment investigators.
	AppearsInnocent bool
}

// HasNightAction reports whether the role acts at night.
func (r Role) HasNightAction() bool {
	return r.Action != ActionNone
}

var roleTable = map[RoleKind]Role{
	RoleUnassigned:   {Name: "Unassigned", Alignment: AlignNeutral},
	RoleVillager:     {Name: "Villager", Alignment: AlignTown},
	RoleMafia:        {Name: "Mafia", Alignment: AlignMafia, Action: ActionKill, RequiresTarget: true},
	RoleGodfather:    {Name: "Godfather", Alignment: AlignMafia, Action: ActionKill, RequiresTarget: true, AppearsInnocent: true},
	RoleDetective:    {Name: "Detective", Alignment: AlignTown, Action: ActionInvestigate, RequiresTarget: true},
	RoleSheriff:      {Name: "Sheriff", Alignment: AlignTown, Action: ActionInvestigate, RequiresTarget: true},
	RoleInvestigator: {Name: "Investigator", Alignment: AlignTown, Action: ActionInvestigate, RequiresTarget: true},
	RoleConsigliere:  {Name: "Consigliere", Alignment: AlignMafia, Action: ActionInvestigate, RequiresTarget: true, ExactRole: true},
	RoleDoctor:       {Name: "Doctor", Alignment: AlignTown, Action: ActionProtect, RequiresTarget: true, CanTargetSelf: true},
	RoleBodyguard:    {Name: "Bodyguard", Alignment: AlignTown, Action: ActionProtect, RequiresTarget: true, Sacrifice: true},
	RoleEscort:       {Name: "Escort", Alignment: AlignTown, Action: ActionBlock, RequiresTarget: true},
	RoleConsort:      {Name: "Consort", Alignment: AlignMafia, Action: ActionBlock, RequiresTarget: true},
	RoleFramer:       {Name: "Framer", Alignment: AlignMafia, Action: ActionFrame, RequiresTarget: true},
	RoleBlackmailer:  {Name: "Blackmailer", Alignment: AlignMafia, Action: ActionBlock, RequiresTarget: true},
	RoleJester:       {Name: "Jester", Alignment: AlignNeutral},
	RoleSerialKiller: {Name: "Serial Killer", Alignment: AlignNeutral, Action: ActionKill, RequiresTarget: true},
	RoleSurvivor:     {Name: "Survivor", Alignment: AlignNeutral},
	RoleExecutioner:  {Name: "Executioner", Alignment: AlignNeutral},
	RoleArsonist:     {Name: "Arsonist", Alignment: AlignNeutral, Action: ActionKill, RequiresTarget: true},
	RoleWitch:        {Name: "Witch", Alignment: AlignNeutral},
	RoleVigilante:    {Name: "Vigilante", Alignment: AlignTown, Action: ActionKill, RequiresTarget: true},
	RoleMayor:        {Name: "Mayor", Alignment: AlignTown},
	RoleVeteran:      {Name: "Veteran", Alignment: AlignTown},
	RoleTracker:      {Name: "Tracker", Alignment: AlignTown},
	RoleLookout:      {Name: "Lookout", Alignment: AlignTown},
	RoleDisguiser:    {Name: "Disguiser", Alignment: AlignMafia},
	RoleForger:       {Name: "Forger", Alignment: AlignMafia},
	RoleAmnesiac:     {Name: "Amnesiac", Alignment: AlignNeutral},
}

// Role returns the capability descriptor for the kind.
func (k RoleKind) Role() Role {
	return roleTable[k]
}

func (k RoleKind) String() string {
	return roleTable[k].Name
}
