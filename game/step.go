package game

import (
	"fmt"
	"math"
)

// Step advances a running match by dt seconds: projectiles, impacts and
// terrain, timers, the turn clock, then the win check. It does nothing
// outside PhasePlaying. dt is supplied by the caller; Step never reads the
// clock.
func (m *Match) Step(dt float64) {
	if m.phase != PhasePlaying || dt < 0 || math.IsNaN(dt) {
		return
	}
	m.tick++

	m.advanceProjectiles(dt)
	m.tickTimers(dt)

	m.turnLeft -= dt
	if m.turnLeft <= 0 {
		m.nextTurn()
	}

	if len(m.living()) <= 1 {
		m.end()
		return
	}
	m.checkInvariants()
}

// Tick reports how many steps the match has run.
func (m *Match) Tick() int {
	return m.tick
}

func (m *Match) checkInvariants() {
	if len(m.terrain.Heights) != m.tuning.Width {
		panic(fmt.Sprintf("game: terrain has %d columns, want %d", len(m.terrain.Heights), m.tuning.Width))
	}
	if len(m.tanks) > MaxParticipants {
		panic(fmt.Sprintf("game: match %s holds %d tanks", m.ID, len(m.tanks)))
	}
	if m.phase == PhasePlaying {
		t, ok := m.tanks[m.turn]
		if !ok || !t.Alive {
			panic(fmt.Sprintf("game: turn owner %q is not a living tank", m.turn))
		}
	}
}
