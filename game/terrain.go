package game

import (
	"math"
	"math/rand/v2"
)

// Terrain is a 1-D height field, one column per horizontal unit. Heights grow
// downward: a smaller value is higher ground.
type Terrain struct {
	Heights  []int
	Baseline int
	Sky      int // returned for columns outside the field

	floor    float64 // highest ground allowed (baseline - floor depth)
	digFloor float64 // lowest a dig may push a column
}

// GenerateTerrain builds a hilly field from three sine harmonics plus jitter.
// The overall shape is fixed; detail differs per call.
func GenerateTerrain(t Tuning, rng *rand.Rand) Terrain {
	heights := make([]int, t.Width)
	base := float64(t.Baseline)
	floor := base - t.TerrainFloorDepth
	for x := range heights {
		n := float64(x) / float64(t.Width)
		h := base
		h += math.Sin(n*math.Pi*2) * t.Harmonics[0]
		h += math.Sin(n*math.Pi*4) * t.Harmonics[1]
		h += math.Sin(n*math.Pi*8) * t.Harmonics[2]
		h += (rng.Float64() - 0.5) * 2 * t.TerrainJitter
		heights[x] = int(math.Floor(math.Max(h, floor)))
	}
	return NewTerrain(t, heights)
}

// NewTerrain wraps an existing height field with the limits from t.
func NewTerrain(t Tuning, heights []int) Terrain {
	base := float64(t.Baseline)
	return Terrain{
		Heights:  heights,
		Baseline: t.Baseline,
		Sky:      t.Height,
		floor:    base - t.TerrainFloorDepth,
		digFloor: base + t.DigFloorOffset,
	}
}

// HeightAt returns the ground height under x. Probes outside the field get
// Sky so they never register a terrain hit inside the playfield.
func (tr Terrain) HeightAt(x float64) float64 {
	i := int(math.Floor(x))
	if i < 0 || i >= len(tr.Heights) {
		return float64(tr.Sky)
	}
	return float64(tr.Heights[i])
}

// Deform reshapes every column within radius of cx with a linear falloff.
// A building deform raises ground toward cy; otherwise ground is dug out,
// never past the dig floor.
func (tr *Terrain) Deform(cx, cy, radius float64, builds bool, amount float64) {
	if radius <= 0 {
		return
	}
	center := int(math.Floor(cx))
	reach := int(math.Ceil(radius))
	for x := center - reach; x <= center+reach; x++ {
		if x < 0 || x >= len(tr.Heights) {
			continue
		}
		dist := math.Abs(float64(x - center))
		if dist > radius {
			continue
		}
		falloff := 1 - dist/radius
		h := float64(tr.Heights[x])
		var next float64
		if builds {
			next = math.Min(h-falloff*amount, cy)
		} else {
			next = math.Min(h+falloff*amount, math.Max(h, tr.digFloor))
		}
		next = math.Max(next, tr.floor)
		tr.Heights[x] = int(math.Floor(next))
	}
}

func (tr Terrain) clone() []int {
	out := make([]int, len(tr.Heights))
	copy(out, tr.Heights)
	return out
}
