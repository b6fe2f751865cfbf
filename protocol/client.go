package protocol

import (
	"errors"
	"fmt"

	"artillery/game"
)

//input structs coming in from the client.

type Hello struct {
	V    int    `json:"v"`              // version
	Name string `json:"name,omitempty"` // optional name
	Room string `json:"room,omitempty"` // optional room code; empty = matchmaking
}

// ActionMsg is the loosely typed action frame. ToAction turns it into one
// of the game actions, carrying only the fields that action needs.
type ActionMsg struct {
	Type  string   `json:"type"` // aim | power | fire | change_ammo | shield
	Angle *float64 `json:"angle,omitempty"`
	Power *float64 `json:"power,omitempty"`
}

var ErrUnknownAction = errors.New("unknown action type")

func (a ActionMsg) ToAction() (game.Action, error) {
	switch a.Type {
	case "aim":
		if a.Angle == nil {
			return nil, fmt.Errorf("aim: missing angle")
		}
		return game.Aim{Angle: *a.Angle}, nil
	case "power":
		if a.Power == nil {
			return nil, fmt.Errorf("power: missing power")
		}
		return game.SetPower{Power: *a.Power}, nil
	case "fire":
		return game.Fire{}, nil
	case "change_ammo":
		return game.ChangeAmmo{}, nil
	case "shield":
		return game.Shield{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
}
