package game

import "math"

const deg2rad = math.Pi / 180

func (m *Match) spawnProjectile(kind Kind, pos, vel Vec, ownerID string) *Projectile {
	mu := m.tuning.Munition(kind)
	p := &Projectile{
		ID:      m.ids.Next("shell"),
		Kind:    kind,
		Pos:     pos,
		Vel:     vel,
		Radius:  mu.Radius,
		Damage:  mu.Damage,
		OwnerID: ownerID,
		Active:  true,
	}
	if kind == Cluster {
		p.Splits = true
		p.SplitTimer = m.tuning.ClusterSplitTime
	}
	return p
}

// fire launches the tank's selected munition from the muzzle. It returns nil
// for a dead tank.
func (m *Match) fire(t *Tank) *Projectile {
	if !t.Alive {
		return nil
	}
	a := t.TurretAngle * deg2rad
	dir := Vec{X: math.Cos(a), Y: math.Sin(a)}
	vel := Vec{X: dir.X * t.Power, Y: dir.Y * t.Power}
	muzzle := Vec{
		X: t.Pos.X + dir.X*m.tuning.MuzzleDistance,
		Y: t.Pos.Y + dir.Y*m.tuning.MuzzleDistance,
	}
	return m.spawnProjectile(t.Ammo, muzzle, vel, t.ID)
}

// advanceProjectiles integrates every active projectile (position first with
// the old velocity, then gravity) and resolves splits and collisions.
// Projectiles are handled in slice order; each one's hit is fully resolved
// before the next moves. Shards spawned this pass first move next tick.
func (m *Match) advanceProjectiles(dt float64) {
	var spawned []*Projectile
	for _, p := range m.projectiles {
		if !p.Active {
			continue
		}
		p.Pos.X += p.Vel.X * dt
		p.Pos.Y += p.Vel.Y * dt
		p.Vel.Y += m.tuning.Gravity * dt

		if p.Splits {
			p.SplitTimer -= dt
			if p.SplitTimer <= 0 {
				spawned = append(spawned, m.split(p)...)
				p.Active = false
				continue
			}
		}

		if p.Pos.Y >= m.terrain.HeightAt(p.Pos.X) {
			m.impact(p)
			p.Active = false
			continue
		}

		if t := m.tankHitBy(p); t != nil {
			m.directHit(t, p)
			p.Active = false
			continue
		}

		if m.offField(p.Pos) {
			p.Active = false
		}
	}

	live := m.projectiles[:0]
	for _, p := range m.projectiles {
		if p.Active {
			live = append(live, p)
		}
	}
	for i := len(live); i < len(m.projectiles); i++ {
		m.projectiles[i] = nil
	}
	m.projectiles = append(live, spawned...)
}

// split breaks a cluster shell into evenly spaced shards that keep part of
// the parent's velocity.
func (m *Match) split(parent *Projectile) []*Projectile {
	n := m.tuning.ShardCount
	out := make([]*Projectile, 0, n)
	spread := m.tuning.ShardMaxSpeed - m.tuning.ShardMinSpeed
	for i := 0; i < n; i++ {
		angle := float64(i) / float64(n) * 2 * math.Pi
		speed := m.tuning.ShardMinSpeed + m.rng.Float64()*spread
		vel := Vec{
			X: math.Cos(angle)*speed + parent.Vel.X*m.tuning.ShardInherit,
			Y: math.Sin(angle)*speed + parent.Vel.Y*m.tuning.ShardInherit,
		}
		out = append(out, m.spawnProjectile(ClusterShard, parent.Pos, vel, parent.OwnerID))
	}
	return out
}

// tankHitBy returns the first living tank, in join order, that p touches.
// The owner is never hit by its own shell directly.
func (m *Match) tankHitBy(p *Projectile) *Tank {
	reach := m.tuning.TankWidth/2 + p.Radius
	for _, id := range m.order {
		t := m.tanks[id]
		if id == p.OwnerID || !t.Alive {
			continue
		}
		if distance(t.Pos, p.Pos) < reach {
			return t
		}
	}
	return nil
}

// offField reports whether pos left the playfield margin. There is no upper
// bound: shells above the screen come back down.
func (m *Match) offField(pos Vec) bool {
	margin := m.tuning.CullMargin
	return pos.X < -margin ||
		pos.X > float64(m.tuning.Width)+margin ||
		pos.Y > float64(m.tuning.Height)+margin
}
