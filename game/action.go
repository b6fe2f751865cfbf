package game

// Action is a turn action submitted by a participant. The set is closed:
// Aim, SetPower, Fire, ChangeAmmo and Shield.
type Action interface {
	action()
}

// Aim sets the turret angle in degrees, clamped to the turret swing.
type Aim struct {
	Angle float64
}

// SetPower sets the launch power, clamped to the power range.
type SetPower struct {
	Power float64
}

type Fire struct{}

type ChangeAmmo struct{}

type Shield struct{}

func (Aim) action()        {}
func (SetPower) action()   {}
func (Fire) action()       {}
func (ChangeAmmo) action() {}
func (Shield) action()     {}

// Outcome reports how Apply handled an action. Rejections are not errors:
// callers may log them, nothing is sent back to the participant.
type Outcome uint8

const (
	Accepted Outcome = iota
	RejectPhase
	RejectUnknownParticipant
	RejectNotTurnOwner
	RejectDeadTank
	RejectShieldCooling
	RejectInvalidValue
	RejectUnknownAction
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case RejectPhase:
		return "wrong_phase"
	case RejectUnknownParticipant:
		return "unknown_participant"
	case RejectNotTurnOwner:
		return "not_turn_owner"
	case RejectDeadTank:
		return "dead_tank"
	case RejectShieldCooling:
		return "shield_cooling"
	case RejectInvalidValue:
		return "invalid_value"
	case RejectUnknownAction:
		return "unknown_action"
	}
	return "unknown"
}
