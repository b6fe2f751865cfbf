package protocol

import "artillery/game"

type Welcome struct {
	PlayerID string `json:"playerId"`
	Room     string `json:"room"`
	TickHz   int    `json:"tickHz"`
}

type State struct {
	Tick         int                  `json:"tick"`
	Phase        string               `json:"phase"`
	CurrentTurn  string               `json:"currentTurn,omitempty"`
	TurnTimeLeft float64              `json:"turnTimeLeft"`
	Winner       string               `json:"winner,omitempty"`
	Tanks        []TankSnapshot       `json:"tanks"`
	Projectiles  []ProjectileSnapshot `json:"projectiles"`
	Explosions   []ExplosionSnapshot  `json:"explosions"`
	BurnPatches  []BurnPatchSnapshot  `json:"burnPatches"`
	Terrain      []int                `json:"terrain"`
}

type TankSnapshot struct {
	ID             string  `json:"id"`
	Name           string  `json:"name,omitempty"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	HP             float64 `json:"hp"`
	MaxHP          float64 `json:"maxHp"`
	TurretAngle    float64 `json:"turretAngle"`
	Power          float64 `json:"power"`
	Ammo           string  `json:"ammo"`
	Alive          bool    `json:"alive"`
	ShieldActive   bool    `json:"shieldActive,omitempty"`
	ShieldCooldown float64 `json:"shieldCooldown,omitempty"`
}

type ProjectileSnapshot struct {
	ID      string  `json:"id"`
	Kind    string  `json:"kind"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	VX      float64 `json:"vx"`
	VY      float64 `json:"vy"`
	Radius  float64 `json:"radius"`
	OwnerID string  `json:"ownerId"`
}

type ExplosionSnapshot struct {
	ID       string  `json:"id"`
	Kind     string  `json:"kind"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Radius   float64 `json:"radius"`
	Duration float64 `json:"duration"`
	Elapsed  float64 `json:"elapsed"`
}

type BurnPatchSnapshot struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Radius   float64 `json:"radius"`
	Duration float64 `json:"duration"`
	Elapsed  float64 `json:"elapsed"`
}

// RoomFull answers a hello that could not be seated.
type RoomFull struct {
	Room string `json:"room,omitempty"`
}

type PlayerJoined struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name,omitempty"`
	State    State  `json:"state"`
}

type PlayerLeft struct {
	PlayerID string `json:"playerId"`
}

type GameStarted struct {
	State State `json:"state"`
}

type TurnChanged struct {
	CurrentTurn string  `json:"currentTurn"`
	TimeLeft    float64 `json:"timeLeft"`
}

type GameEnded struct {
	Winner string `json:"winner,omitempty"` // empty on a draw
	State  State  `json:"state"`
}

// NewState converts a match snapshot into its wire form. names maps player
// ids to display names and may be nil.
func NewState(s game.Snapshot, names map[string]string) State {
	st := State{
		Tick:         s.Tick,
		Phase:        s.Phase.String(),
		CurrentTurn:  s.Turn,
		TurnTimeLeft: s.TurnTimeLeft,
		Winner:       s.Winner,
		Tanks:        make([]TankSnapshot, 0, len(s.Tanks)),
		Projectiles:  make([]ProjectileSnapshot, 0, len(s.Projectiles)),
		Explosions:   make([]ExplosionSnapshot, 0, len(s.Explosions)),
		BurnPatches:  make([]BurnPatchSnapshot, 0, len(s.BurnPatches)),
		Terrain:      s.Terrain,
	}
	for _, t := range s.Tanks {
		st.Tanks = append(st.Tanks, TankSnapshot{
			ID:             t.ID,
			Name:           names[t.ID],
			X:              t.Pos.X,
			Y:              t.Pos.Y,
			HP:             t.HP,
			MaxHP:          t.MaxHP,
			TurretAngle:    t.TurretAngle,
			Power:          t.Power,
			Ammo:           t.Ammo.String(),
			Alive:          t.Alive,
			ShieldActive:   t.ShieldActive,
			ShieldCooldown: t.ShieldCooldown,
		})
	}
	for _, p := range s.Projectiles {
		st.Projectiles = append(st.Projectiles, ProjectileSnapshot{
			ID:      p.ID,
			Kind:    p.Kind.String(),
			X:       p.Pos.X,
			Y:       p.Pos.Y,
			VX:      p.Vel.X,
			VY:      p.Vel.Y,
			Radius:  p.Radius,
			OwnerID: p.OwnerID,
		})
	}
	for _, e := range s.Explosions {
		st.Explosions = append(st.Explosions, ExplosionSnapshot{
			ID:       e.ID,
			Kind:     e.Kind.String(),
			X:        e.Pos.X,
			Y:        e.Pos.Y,
			Radius:   e.Radius,
			Duration: e.Duration,
			Elapsed:  e.Elapsed,
		})
	}
	for _, b := range s.BurnPatches {
		st.BurnPatches = append(st.BurnPatches, BurnPatchSnapshot{
			ID:       b.ID,
			X:        b.Pos.X,
			Y:        b.Pos.Y,
			Radius:   b.Radius,
			Duration: b.Duration,
			Elapsed:  b.Elapsed,
		})
	}
	return st
}
