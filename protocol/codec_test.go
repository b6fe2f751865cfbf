package protocol

import (
	"errors"
	"testing"

	"artillery/game"
)

func TestCodecsCarryState(t *testing.T) {
	st := State{
		Tick:        7,
		Phase:       "playing",
		CurrentTurn: "p1",
		Tanks:       []TankSnapshot{{ID: "p1", X: 100, Y: 623, HP: 76, Ammo: "napalm", Alive: true}},
		Terrain:     []int{628, 629, 630},
	}
	for _, c := range []Codec{JSON{}, Msgpack{}} {
		t.Run(c.Name(), func(t *testing.T) {
			b, err := c.Encode(MsgGameState, st)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			env, err := c.DecodeEnvelope(b)
			if err != nil {
				t.Fatalf("decode envelope: %v", err)
			}
			if env.T != MsgGameState {
				t.Fatalf("type = %q, want %q", env.T, MsgGameState)
			}
			got, err := DecodeWith[State](c, env)
			if err != nil {
				t.Fatalf("decode payload: %v", err)
			}
			if got.Tick != 7 || got.CurrentTurn != "p1" || len(got.Tanks) != 1 || got.Tanks[0].HP != 76 || got.Tanks[0].Ammo != "napalm" {
				t.Fatalf("state mismatch: %+v", got)
			}
			if len(got.Terrain) != 3 || got.Terrain[2] != 630 {
				t.Fatalf("terrain mismatch: %v", got.Terrain)
			}
		})
	}
}

func TestEncodeRejectsEmpty(t *testing.T) {
	for _, c := range []Codec{JSON{}, Msgpack{}} {
		if _, err := c.Encode("", State{}); err == nil {
			t.Fatalf("%s: expected error for empty type", c.Name())
		}
		if _, err := c.Encode(MsgGameState, nil); err == nil {
			t.Fatalf("%s: expected error for nil payload", c.Name())
		}
		if _, err := c.DecodeEnvelope(nil); err == nil {
			t.Fatalf("%s: expected error for empty frame", c.Name())
		}
	}
}

func TestCodecByName(t *testing.T) {
	if c, err := CodecByName("msgpack"); err != nil || !c.Binary() {
		t.Fatalf("msgpack codec = %v, %v", c, err)
	}
	if c, err := CodecByName(""); err != nil || c.Binary() {
		t.Fatalf("default codec = %v, %v", c, err)
	}
	if _, err := CodecByName("xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestActionMsgToAction(t *testing.T) {
	angle, power := 45.0, 200.0
	cases := []struct {
		msg  ActionMsg
		want game.Action
	}{
		{ActionMsg{Type: "aim", Angle: &angle}, game.Aim{Angle: 45}},
		{ActionMsg{Type: "power", Power: &power}, game.SetPower{Power: 200}},
		{ActionMsg{Type: "fire"}, game.Fire{}},
		{ActionMsg{Type: "change_ammo"}, game.ChangeAmmo{}},
		{ActionMsg{Type: "shield"}, game.Shield{}},
	}
	for _, tc := range cases {
		got, err := tc.msg.ToAction()
		if err != nil {
			t.Fatalf("%s: %v", tc.msg.Type, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %#v, want %#v", tc.msg.Type, got, tc.want)
		}
	}

	if _, err := (ActionMsg{Type: "aim"}).ToAction(); err == nil {
		t.Fatalf("aim without angle accepted")
	}
	if _, err := (ActionMsg{Type: "teleport"}).ToAction(); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("err = %v, want ErrUnknownAction", err)
	}
}

func TestDecodeActionFrame(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"t":"action","p":{"type":"power","power":120}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	msg, err := DecodeWith[ActionMsg](JSON{}, env)
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	a, err := msg.ToAction()
	if err != nil || a != (game.SetPower{Power: 120}) {
		t.Fatalf("action = %#v, %v", a, err)
	}
}

func TestNewStateKeepsJoinOrderAndNames(t *testing.T) {
	s := game.Snapshot{
		Tick:  3,
		Phase: game.PhasePlaying,
		Turn:  "p2",
		Tanks: []game.Tank{
			{ID: "p2", Pos: game.Vec{X: 100, Y: 623}, HP: 50, Ammo: game.Cluster, Alive: true},
			{ID: "p1", Pos: game.Vec{X: 1180, Y: 623}, Ammo: game.Dirtgun},
		},
		Projectiles: []game.Projectile{{ID: "shell-1", Kind: game.ClusterShard, Pos: game.Vec{X: 5, Y: 6}}},
		Explosions:  []game.Explosion{{ID: "boom-2", Kind: game.ExplosionTank, Radius: 40}},
		Terrain:     []int{628},
	}
	st := NewState(s, map[string]string{"p2": "bob"})
	if st.Phase != "playing" || st.CurrentTurn != "p2" || st.Tick != 3 {
		t.Fatalf("header = %+v", st)
	}
	if st.Tanks[0].ID != "p2" || st.Tanks[0].Name != "bob" || st.Tanks[0].Ammo != "cluster" {
		t.Fatalf("tank 0 = %+v", st.Tanks[0])
	}
	if st.Tanks[1].Name != "" || st.Tanks[1].Ammo != "dirtgun" || st.Tanks[1].Alive {
		t.Fatalf("tank 1 = %+v", st.Tanks[1])
	}
	if st.Projectiles[0].Kind != "cluster_shard" || st.Explosions[0].Kind != "tank" {
		t.Fatalf("effects = %+v / %+v", st.Projectiles, st.Explosions)
	}
	if st.BurnPatches == nil || len(st.BurnPatches) != 0 {
		t.Fatalf("burn patches should encode as an empty list")
	}
}
