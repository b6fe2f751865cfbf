package protocol

import (
	"encoding/json"
)

// client -> server
const (
	MsgHello  = "hello"
	MsgAction = "action"
)

// server -> client
const (
	MsgWelcome      = "welcome"
	MsgPlayerJoined = "player_joined"
	MsgPlayerLeft   = "player_left"
	MsgGameStarted  = "game_started"
	MsgTurnChanged  = "turn_changed"
	MsgGameState    = "game_state"
	MsgGameEnded    = "game_ended"
	MsgRoomFull     = "room_full"
)

const (
	SimTickHz   = 60
	BroadcastHz = 60 // one state frame per tick
)

// Envelope is the outer frame of every message. P holds the payload in the
// encoding of the codec that produced the envelope.
type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"` // raw payload bytes
}
