package game

type EventKind uint8

const (
	EventParticipantJoined EventKind = iota
	EventParticipantLeft
	EventMatchStarted
	EventTurnChanged
	EventMatchEnded
)

func (k EventKind) String() string {
	switch k {
	case EventParticipantJoined:
		return "participant_joined"
	case EventParticipantLeft:
		return "participant_left"
	case EventMatchStarted:
		return "match_started"
	case EventTurnChanged:
		return "turn_changed"
	case EventMatchEnded:
		return "match_ended"
	}
	return "unknown"
}

// Event is one state transition, queued in the order it happened.
// PlayerID is the joiner/leaver or the new turn owner. Winner is only
// meaningful for EventMatchEnded; empty means no winner (draw).
type Event struct {
	Kind     EventKind
	PlayerID string
	Winner   string
}

func (m *Match) emit(ev Event) {
	m.events = append(m.events, ev)
}

// DrainEvents returns the queued events and clears the queue.
func (m *Match) DrainEvents() []Event {
	out := m.events
	m.events = nil
	return out
}
