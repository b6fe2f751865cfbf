package room

import "artillery/game"

type Conn interface {
	Send([]byte) error
	Close() error
}

// Join: issued once after hello parsed. PlayerID is assigned by the manager.
type Join struct {
	PlayerID string
	Conn     Conn
	Name     string
	Reply    chan<- JoinResult
}

type JoinResult struct {
	PlayerID string
	Code     string
	OK       bool
}

// Action: one decoded turn action from a player
type Action struct {
	PlayerID string
	Action   game.Action
}

// Leave: issued on disconnect
type Leave struct {
	PlayerID string
}

// SnapshotRequest asks the room for a copy of its match state.
type SnapshotRequest struct {
	Reply chan<- game.Snapshot
}
