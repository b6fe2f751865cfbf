package game

import (
	"math"
	"math/rand/v2"
)

// MaxParticipants is the duel size.
const MaxParticipants = 2

// Match is one duel: terrain, up to two tanks and every live projectile and
// effect. A Match is not safe for concurrent use; the owning room serializes
// all calls.
//
// Tanks are always visited in join order. That order decides which tank a
// projectile hits first and the order area damage is applied in.
type Match struct {
	ID string

	tuning Tuning
	rng    *rand.Rand
	ids    IDGen

	terrain     Terrain
	tanks       map[string]*Tank
	order       []string
	projectiles []*Projectile
	explosions  []*Explosion
	burns       []*BurnPatch

	phase    Phase
	turn     string
	turnLeft float64
	winner   string
	tick     int

	events []Event

	presetHeights []int
}

type Option func(*Match)

func WithTuning(t Tuning) Option {
	return func(m *Match) { m.tuning = t }
}

// WithRand fixes the randomness used for terrain and cluster shards.
func WithRand(r *rand.Rand) Option {
	return func(m *Match) { m.rng = r }
}

func WithIDGen(g IDGen) Option {
	return func(m *Match) { m.ids = g }
}

// WithTerrain replaces the generated height field with a copy of heights.
// The slice length must equal the tuning width.
func WithTerrain(heights []int) Option {
	return func(m *Match) { m.presetHeights = append([]int(nil), heights...) }
}

func NewMatch(id string, opts ...Option) *Match {
	m := &Match{
		ID:     id,
		tuning: DefaultTuning(),
		tanks:  make(map[string]*Tank),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if m.ids == nil {
		m.ids = &Counter{}
	}
	if m.presetHeights != nil {
		m.terrain = NewTerrain(m.tuning, m.presetHeights)
		m.presetHeights = nil
	} else {
		m.terrain = GenerateTerrain(m.tuning, m.rng)
	}
	m.turnLeft = m.tuning.TurnLimit
	return m
}

func (m *Match) Phase() Phase { return m.phase }
func (m *Match) Turn() string { return m.turn }
func (m *Match) Winner() string { return m.winner }
func (m *Match) Tuning() Tuning { return m.tuning }

// Participants returns participant ids in join order.
func (m *Match) Participants() []string {
	return append([]string(nil), m.order...)
}

// Tank returns a copy of the participant's tank.
func (m *Match) Tank(id string) (Tank, bool) {
	t, ok := m.tanks[id]
	if !ok {
		return Tank{}, false
	}
	return *t, true
}

// AddParticipant creates a tank for id. It reports false when the match is
// full, already started, or id is taken. The second join starts the match.
func (m *Match) AddParticipant(id string) bool {
	if m.phase != PhaseWaiting || len(m.tanks) >= MaxParticipants {
		return false
	}
	if _, exists := m.tanks[id]; exists {
		return false
	}
	x := m.tuning.SpawnInset
	if len(m.tanks) == 1 {
		x = float64(m.tuning.Width) - m.tuning.SpawnInset
	}
	t := &Tank{
		ID:    id,
		Pos:   Vec{X: x, Y: m.terrain.HeightAt(x) - m.tuning.TankHeight},
		HP:    m.tuning.TankHP,
		MaxHP: m.tuning.TankHP,
		Power: m.tuning.DefaultPower,
		Ammo:  Mortar,
		Alive: true,
	}
	m.tanks[id] = t
	m.order = append(m.order, id)
	m.emit(Event{Kind: EventParticipantJoined, PlayerID: id})

	if len(m.tanks) == MaxParticipants {
		m.start()
	}
	return true
}

// RemoveParticipant drops id's tank. Leaving a running match ends it with
// the remaining participant as winner.
func (m *Match) RemoveParticipant(id string) {
	if _, ok := m.tanks[id]; !ok {
		return
	}
	delete(m.tanks, id)
	for i, pid := range m.order {
		if pid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.emit(Event{Kind: EventParticipantLeft, PlayerID: id})

	if m.phase == PhasePlaying && len(m.tanks) < MaxParticipants {
		m.end()
	}
}

// Len reports the number of participants.
func (m *Match) Len() int {
	return len(m.tanks)
}

func (m *Match) start() {
	m.phase = PhasePlaying
	m.turn = m.order[0]
	m.turnLeft = m.tuning.TurnLimit
	m.emit(Event{Kind: EventMatchStarted, PlayerID: m.turn})
}

func (m *Match) end() {
	m.phase = PhaseEnded
	m.winner = ""
	alive := m.living()
	if len(alive) == 1 {
		m.winner = alive[0].ID
	}
	m.turn = ""
	m.emit(Event{Kind: EventMatchEnded, Winner: m.winner})
}

// nextTurn hands the turn to the next living participant after the
// current owner and resets the timer.
func (m *Match) nextTurn() {
	idx := 0
	for i, id := range m.order {
		if id == m.turn {
			idx = i
			break
		}
	}
	for i := 1; i <= len(m.order); i++ {
		cand := m.order[(idx+i)%len(m.order)]
		if m.tanks[cand].Alive {
			m.turn = cand
			break
		}
	}
	m.turnLeft = m.tuning.TurnLimit
	m.emit(Event{Kind: EventTurnChanged, PlayerID: m.turn})
}

func (m *Match) living() []*Tank {
	var out []*Tank
	for _, id := range m.order {
		if t := m.tanks[id]; t.Alive {
			out = append(out, t)
		}
	}
	return out
}

// Apply validates and performs a turn action. Only the turn owner of a
// running match may act; everything else is rejected without side effects.
func (m *Match) Apply(playerID string, a Action) Outcome {
	if m.phase != PhasePlaying {
		return RejectPhase
	}
	t, ok := m.tanks[playerID]
	if !ok {
		return RejectUnknownParticipant
	}
	if m.turn != playerID {
		return RejectNotTurnOwner
	}
	if !t.Alive {
		return RejectDeadTank
	}

	switch a := a.(type) {
	case Aim:
		if math.IsNaN(a.Angle) {
			return RejectInvalidValue
		}
		t.TurretAngle = clamp(a.Angle, -m.tuning.MaxTurretSwing, m.tuning.MaxTurretSwing)
	case SetPower:
		if math.IsNaN(a.Power) {
			return RejectInvalidValue
		}
		t.Power = clamp(a.Power, m.tuning.MinPower, m.tuning.MaxPower)
	case Fire:
		p := m.fire(t)
		if p == nil {
			return RejectDeadTank
		}
		m.projectiles = append(m.projectiles, p)
		m.nextTurn()
	case ChangeAmmo:
		t.Ammo = NextAmmo(t.Ammo)
	case Shield:
		if t.ShieldCooldown > 0 {
			return RejectShieldCooling
		}
		t.ShieldActive = true
		t.ShieldCooldown = m.tuning.ShieldSeconds
	default:
		return RejectUnknownAction
	}
	return Accepted
}

// Snapshot returns a deep copy of the match state.
func (m *Match) Snapshot() Snapshot {
	s := Snapshot{
		ID:           m.ID,
		Tick:         m.tick,
		Phase:        m.phase,
		Turn:         m.turn,
		TurnTimeLeft: m.turnLeft,
		Winner:       m.winner,
		Tanks:        make([]Tank, 0, len(m.order)),
		Projectiles:  make([]Projectile, 0, len(m.projectiles)),
		Explosions:   make([]Explosion, 0, len(m.explosions)),
		BurnPatches:  make([]BurnPatch, 0, len(m.burns)),
		Terrain:      m.terrain.clone(),
	}
	for _, id := range m.order {
		s.Tanks = append(s.Tanks, *m.tanks[id])
	}
	for _, p := range m.projectiles {
		s.Projectiles = append(s.Projectiles, *p)
	}
	for _, e := range m.explosions {
		s.Explosions = append(s.Explosions, *e)
	}
	for _, b := range m.burns {
		s.BurnPatches = append(s.BurnPatches, *b)
	}
	return s
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func distance(a, b Vec) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
