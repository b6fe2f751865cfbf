package game

import "math"

// impact resolves a terrain hit: explosion, deformation, an optional burn
// patch, then one-shot falloff damage to every living tank in range.
func (m *Match) impact(p *Projectile) {
	radius := p.Radius * m.tuning.ExplosionRadiusFactor
	m.explosions = append(m.explosions, &Explosion{
		ID:       m.ids.Next("boom"),
		Kind:     ExplosionNormal,
		Pos:      p.Pos,
		Radius:   radius,
		Duration: m.tuning.ExplosionDuration,
	})

	m.terrain.Deform(p.Pos.X, p.Pos.Y, p.Radius*m.tuning.DeformRadiusFactor, p.Kind == Dirtgun, m.tuning.DeformAmount)

	if p.Kind == Napalm {
		m.burns = append(m.burns, &BurnPatch{
			ID:       m.ids.Next("burn"),
			Pos:      p.Pos,
			Radius:   p.Radius * m.tuning.BurnRadiusFactor,
			Duration: m.tuning.BurnDuration,
		})
	}

	for _, id := range m.order {
		t := m.tanks[id]
		if !t.Alive || t.ShieldActive {
			continue
		}
		d := distance(t.Pos, p.Pos)
		if d >= radius {
			continue
		}
		if dmg := math.Floor(p.Damage * (1 - d/radius)); dmg > 0 {
			m.damage(t, dmg)
		}
	}
}

// directHit applies a shell's flat damage to an unshielded tank.
func (m *Match) directHit(t *Tank, p *Projectile) {
	if t.ShieldActive {
		return
	}
	m.damage(t, p.Damage)
}

func (m *Match) damage(t *Tank, amount float64) {
	if !t.Alive {
		return
	}
	t.HP = math.Max(0, t.HP-amount)
	if t.HP <= 0 {
		m.kill(t)
	}
}

// kill marks the tank dead and leaves a wreck explosion. The wreck deals no
// damage of its own.
func (m *Match) kill(t *Tank) {
	t.Alive = false
	m.explosions = append(m.explosions, &Explosion{
		ID:       m.ids.Next("boom"),
		Kind:     ExplosionTank,
		Pos:      t.Pos,
		Radius:   m.tuning.TankExplosionRadius,
		Duration: m.tuning.TankExplosionDuration,
	})
}

// tickTimers burns tanks standing in patches, ages and prunes effects, runs
// shield cooldowns and settles living tanks onto the current ground.
func (m *Match) tickTimers(dt float64) {
	burns := m.burns[:0]
	for _, b := range m.burns {
		b.Elapsed += dt
		for _, id := range m.order {
			t := m.tanks[id]
			if !t.Alive || t.ShieldActive {
				continue
			}
			if distance(t.Pos, b.Pos) < b.Radius {
				m.damage(t, m.tuning.BurnDPS*dt)
			}
		}
		if b.Elapsed < b.Duration {
			burns = append(burns, b)
		}
	}
	m.burns = burns

	explosions := m.explosions[:0]
	for _, e := range m.explosions {
		e.Elapsed += dt
		if e.Elapsed < e.Duration {
			explosions = append(explosions, e)
		}
	}
	m.explosions = explosions

	for _, id := range m.order {
		t := m.tanks[id]
		if t.ShieldCooldown > 0 {
			t.ShieldCooldown -= dt
			if t.ShieldCooldown <= 0 {
				t.ShieldCooldown = 0
				t.ShieldActive = false
			}
		}
		if t.Alive {
			t.Pos.Y = m.terrain.HeightAt(t.Pos.X) - m.tuning.TankHeight
		}
	}
}
