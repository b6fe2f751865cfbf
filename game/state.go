package game

// Internal truth authoritative match state

type Vec struct {
	X, Y float64
}

type Kind uint8

const (
	Mortar Kind = iota
	Cluster
	ClusterShard
	Napalm
	Dirtgun
)

var kindNames = [...]string{
	Mortar:       "mortar",
	Cluster:      "cluster",
	ClusterShard: "cluster_shard",
	Napalm:       "napalm",
	Dirtgun:      "dirtgun",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return 0, false
}

// NextAmmo cycles the selectable ring Mortar -> Cluster -> Napalm -> Dirtgun.
// Shards are never selectable.
func NextAmmo(k Kind) Kind {
	switch k {
	case Mortar:
		return Cluster
	case Cluster:
		return Napalm
	case Napalm:
		return Dirtgun
	default:
		return Mortar
	}
}

type Phase uint8

const (
	PhaseWaiting Phase = iota
	PhasePlaying
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhasePlaying:
		return "playing"
	case PhaseEnded:
		return "ended"
	}
	return "unknown"
}

type Tank struct {
	ID             string
	Pos            Vec
	HP, MaxHP      float64
	TurretAngle    float64 // degrees
	Power          float64
	Ammo           Kind
	Alive          bool
	ShieldActive   bool
	ShieldCooldown float64
}

type Projectile struct {
	ID      string
	Kind    Kind
	Pos     Vec
	Vel     Vec
	Radius  float64
	Damage  float64
	OwnerID string

	Splits     bool
	SplitTimer float64

	Active bool
}

type ExplosionKind uint8

const (
	ExplosionNormal ExplosionKind = iota
	ExplosionTank
)

func (k ExplosionKind) String() string {
	if k == ExplosionTank {
		return "tank"
	}
	return "normal"
}

// Explosion is cosmetic after creation; Elapsed only drives expiry.
type Explosion struct {
	ID       string
	Kind     ExplosionKind
	Pos      Vec
	Radius   float64
	Duration float64
	Elapsed  float64
}

type BurnPatch struct {
	ID       string
	Pos      Vec
	Radius   float64
	Duration float64
	Elapsed  float64
}

// Snapshot is a deep copy of a match, safe to hand to other goroutines.
type Snapshot struct {
	ID           string
	Tick         int
	Phase        Phase
	Turn         string
	TurnTimeLeft float64
	Winner       string
	Tanks        []Tank // join order
	Projectiles  []Projectile
	Explosions   []Explosion
	BurnPatches  []BurnPatch
	Terrain      []int
}
