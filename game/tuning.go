package game

import "fmt"

// Tuning holds every balance and geometry constant of a match. Values are
// loaded from YAML by the config package; fields left out keep DefaultTuning.
type Tuning struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	Baseline int `yaml:"baseline"`

	TerrainFloorDepth  float64 `yaml:"terrain_floor_depth"` // generated and built ground never rises past baseline - this
	DigFloorOffset     float64 `yaml:"dig_floor_offset"`    // digging stops at baseline + this
	DeformAmount       float64 `yaml:"deform_amount"`
	DeformRadiusFactor float64 `yaml:"deform_radius_factor"`
	TerrainJitter      float64 `yaml:"terrain_jitter"`

	Harmonics [3]float64 `yaml:"harmonics"` // amplitudes at 1, 2 and 4 cycles across the width

	Gravity        float64 `yaml:"gravity"`
	DefaultPower   float64 `yaml:"default_power"`
	MinPower       float64 `yaml:"min_power"`
	MaxPower       float64 `yaml:"max_power"`
	MaxTurretSwing float64 `yaml:"max_turret_swing"` // degrees either side of horizontal
	MuzzleDistance float64 `yaml:"muzzle_distance"`
	CullMargin     float64 `yaml:"cull_margin"`

	TankHP        float64 `yaml:"tank_hp"`
	TankWidth     float64 `yaml:"tank_width"`
	TankHeight    float64 `yaml:"tank_height"`
	SpawnInset    float64 `yaml:"spawn_inset"`
	ShieldSeconds float64 `yaml:"shield_seconds"`

	Munitions map[string]Munition `yaml:"munitions"`

	ClusterSplitTime float64 `yaml:"cluster_split_time"`
	ShardCount       int     `yaml:"shard_count"`
	ShardMinSpeed    float64 `yaml:"shard_min_speed"`
	ShardMaxSpeed    float64 `yaml:"shard_max_speed"`
	ShardInherit     float64 `yaml:"shard_inherit"`

	ExplosionRadiusFactor float64 `yaml:"explosion_radius_factor"`
	ExplosionDuration     float64 `yaml:"explosion_duration"`
	BurnRadiusFactor      float64 `yaml:"burn_radius_factor"`
	BurnDuration          float64 `yaml:"burn_duration"`
	BurnDPS               float64 `yaml:"burn_dps"`
	TankExplosionRadius   float64 `yaml:"tank_explosion_radius"`
	TankExplosionDuration float64 `yaml:"tank_explosion_duration"`

	TurnLimit float64 `yaml:"turn_limit"`
}

// Munition is the per-kind entry of the projectile lookup table.
type Munition struct {
	Radius float64 `yaml:"radius"`
	Damage float64 `yaml:"damage"`
}

func DefaultTuning() Tuning {
	return Tuning{
		Width:    1280,
		Height:   768,
		Baseline: 768 - 140,

		TerrainFloorDepth:  50,
		DigFloorOffset:     20,
		DeformAmount:       20,
		DeformRadiusFactor: 4,
		TerrainJitter:      5,
		Harmonics:          [3]float64{30, 15, 8},

		Gravity:        120,
		DefaultPower:   160,
		MinPower:       90,
		MaxPower:       260,
		MaxTurretSwing: 90,
		MuzzleDistance: 15,
		CullMargin:     50,

		TankHP:        100,
		TankWidth:     9,
		TankHeight:    5,
		SpawnInset:    100,
		ShieldSeconds: 5,

		Munitions: map[string]Munition{
			Mortar.String():       {Radius: 3.2, Damage: 24},
			Cluster.String():      {Radius: 3.0, Damage: 16},
			ClusterShard.String(): {Radius: 2.2, Damage: 12},
			Napalm.String():       {Radius: 3.8, Damage: 18},
			Dirtgun.String():      {Radius: 2.5, Damage: 0},
		},

		ClusterSplitTime: 0.45,
		ShardCount:       5,
		ShardMinSpeed:    50,
		ShardMaxSpeed:    80,
		ShardInherit:     0.3,

		ExplosionRadiusFactor: 8,
		ExplosionDuration:     0.45,
		BurnRadiusFactor:      6,
		BurnDuration:          1.2,
		BurnDPS:               32,
		TankExplosionRadius:   40,
		TankExplosionDuration: 1.2,

		TurnLimit: 30,
	}
}

// Munition returns the lookup entry for kind. Kinds missing from the table
// fall back to the default table.
func (t Tuning) Munition(kind Kind) Munition {
	if m, ok := t.Munitions[kind.String()]; ok {
		return m
	}
	return DefaultTuning().Munitions[kind.String()]
}

// Validate rejects tunings that would break the match invariants.
func (t Tuning) Validate() error {
	switch {
	case t.Width <= 0 || t.Height <= 0:
		return fmt.Errorf("playfield must be positive, got %dx%d", t.Width, t.Height)
	case t.Baseline <= 0 || t.Baseline >= t.Height:
		return fmt.Errorf("baseline %d outside playfield height %d", t.Baseline, t.Height)
	case t.MinPower > t.MaxPower:
		return fmt.Errorf("min_power %.1f exceeds max_power %.1f", t.MinPower, t.MaxPower)
	case t.DefaultPower < t.MinPower || t.DefaultPower > t.MaxPower:
		return fmt.Errorf("default_power %.1f outside [%.1f, %.1f]", t.DefaultPower, t.MinPower, t.MaxPower)
	case t.MaxTurretSwing < 0:
		return fmt.Errorf("max_turret_swing must be >= 0")
	case t.TankHP <= 0:
		return fmt.Errorf("tank_hp must be > 0")
	case t.TurnLimit <= 0:
		return fmt.Errorf("turn_limit must be > 0")
	case t.ShardCount < 0:
		return fmt.Errorf("shard_count must be >= 0")
	case t.ShardMinSpeed > t.ShardMaxSpeed:
		return fmt.Errorf("shard_min_speed %.1f exceeds shard_max_speed %.1f", t.ShardMinSpeed, t.ShardMaxSpeed)
	}
	for name, m := range t.Munitions {
		if _, ok := ParseKind(name); !ok {
			return fmt.Errorf("unknown munition %q", name)
		}
		if m.Radius <= 0 || m.Damage < 0 {
			return fmt.Errorf("munition %q: radius must be > 0 and damage >= 0", name)
		}
	}
	return nil
}
