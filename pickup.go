package main

import (
	"math"
	"math/rand"
	"strconv"
)

// PickupKind distinguishes collectible elements from void orbs.
type PickupKind int

const (
	PickupElement PickupKind = iota
	// PickupVoidOrb clears the collector's bank (digest).
	PickupVoidOrb
)

// Pickup is a collectible lying in the world.
type Pickup struct {
	ID      string
	Kind    PickupKind
	Element ElementID // PickupElement only
	X       float64
	Y       float64
}

// Radius is the pickup's collection radius.
func (p *Pickup) Radius() float64 {
	if p.Kind == PickupVoidOrb {
		return VoidOrbRadius
	}
	return ElementRadius
}

// ToDTO converts a pickup to its wire form.
func (p *Pickup) ToDTO() PickupDTO {
	dto := PickupDTO{
		ID: p.ID,
		X:  roundTo1(p.X),
		Y:  roundTo1(p.Y),
	}
	if p.Kind == PickupVoidOrb {
		dto.Void = 1
	} else {
		dto.Element = p.Element
	}
	return dto
}

// DistanceTo returns distance from the pickup to a point
func (p *Pickup) DistanceTo(x, y float64) float64 {
	dx := p.X - x
	dy := p.Y - y
	return math.Sqrt(dx*dx + dy*dy)
}

func (w *World) newPickupID() string {
	w.pickupSeq++
	return "p" + strconv.Itoa(w.pickupSeq)
}

// SpawnElementAt places an element pickup at (x, y).
func (w *World) SpawnElementAt(x, y float64, id ElementID) *Pickup {
	p := &Pickup{ID: w.newPickupID(), Kind: PickupElement, Element: id, X: x, Y: y}
	w.Pickups[p.ID] = p
	return p
}

// SpawnVoidOrbAt places a void orb at (x, y).
func (w *World) SpawnVoidOrbAt(x, y float64) *Pickup {
	p := &Pickup{ID: w.newPickupID(), Kind: PickupVoidOrb, X: x, Y: y}
	w.Pickups[p.ID] = p
	return p
}

// randomSpawnElement mostly returns base elements; occasionally an element already
// discovered in this world so late-game banks see higher tiers.
func (w *World) randomSpawnElement() (ElementID, bool) {
	if len(w.discoveredOrder) > 0 && w.rng.Float64() < AdvancedSpawnChance {
		return w.discoveredOrder[w.rng.Intn(len(w.discoveredOrder))], true
	}
	base := w.Table.BaseElements()
	if len(base) == 0 {
		return 0, false
	}
	return base[w.rng.Intn(len(base))], true
}

// MaintainPickups tops elements back up to TargetElementCount (bounded per tick) and spawns a
// void orb every VoidOrbSpawnInterval ticks while fewer than VoidOrbMaxCount exist.
func (w *World) MaintainPickups() {
	elements, orbs := 0, 0
	for _, p := range w.Pickups {
		if p.Kind == PickupVoidOrb {
			orbs++
		} else {
			elements++
		}
	}

	spawn := TargetElementCount - elements
	if spawn > ElementSpawnPerTick {
		spawn = ElementSpawnPerTick
	}
	for i := 0; i < spawn; i++ {
		id, ok := w.randomSpawnElement()
		if !ok {
			break
		}
		x, y := randomCirclePoint(w.rng, WorldCenterX, WorldCenterY, WorldRadius-SpawnMargin/2)
		w.SpawnElementAt(x, y, id)
	}

	if w.Tick%VoidOrbSpawnInterval == 0 && orbs < VoidOrbMaxCount {
		x, y := randomCirclePoint(w.rng, WorldCenterX, WorldCenterY, WorldRadius-SpawnMargin)
		w.SpawnVoidOrbAt(x, y)
	}
}

// dropRemains scatters a dead snake's bank along its body, plus one base element per
// few segments, clamped inside the arena.
func (w *World) dropRemains(s *Snake) int {
	dropped := 0
	for i, id := range s.Bank {
		seg := s.Segments[(i*3)%len(s.Segments)]
		x, y := w.scatter(seg.X, seg.Y)
		w.SpawnElementAt(x, y, id)
		dropped++
	}
	base := w.Table.BaseElements()
	if len(base) == 0 {
		return dropped
	}
	for i := 0; i < len(s.Segments); i += 4 {
		seg := s.Segments[i]
		x, y := w.scatter(seg.X, seg.Y)
		w.SpawnElementAt(x, y, base[w.rng.Intn(len(base))])
		dropped++
	}
	return dropped
}

func (w *World) scatter(x, y float64) (float64, float64) {
	sx := x + (w.rng.Float64()*2-1)*DeathDropScatter
	sy := y + (w.rng.Float64()*2-1)*DeathDropScatter
	return clampToCircle(sx, sy, WorldCenterX, WorldCenterY, WorldRadius)
}

// randomCirclePoint returns a uniformly random point inside a circle with given center and radius.
// Uses polar coordinates with sqrt(r) for uniform distribution.
func randomCirclePoint(rng *rand.Rand, cx, cy, radius float64) (float64, float64) {
	r := radius * math.Sqrt(rng.Float64())
	angle := rng.Float64() * 2 * math.Pi
	return cx + r*math.Cos(angle), cy + r*math.Sin(angle)
}

// clampToCircle moves point (x,y) inside circle if it is outside.
func clampToCircle(x, y, cx, cy, radius float64) (float64, float64) {
	dx := x - cx
	dy := y - cy
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist <= radius {
		return x, y
	}
	// Project back onto boundary with small margin
	scale := (radius - 1) / dist
	return cx + dx*scale, cy + dy*scale
}

// roundTo1 rounds a float64 to 1 decimal place to save protocol bytes.
func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
