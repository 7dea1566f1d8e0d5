package main

import (
	"math"
	"sort"

	"github.com/joonazan/vec2"
)

// ActorView is an immutable per-tick copy of a live snake, taken before anyone moves.
type ActorView struct {
	ID       string
	Name     string
	IsPlayer bool
	Head     Point
	Angle    float64
	Speed    float64
	Length   int
}

func viewOf(s *Snake) ActorView {
	return ActorView{
		ID:       s.ID,
		Name:     s.Name,
		IsPlayer: s.IsPlayer,
		Head:     s.Head(),
		Angle:    s.Angle,
		Speed:    s.Speed,
		Length:   s.Length(),
	}
}

// Pos returns the head position as a vector.
func (v ActorView) Pos() vec2.Vector {
	return vec2.Vector{X: v.Head.X, Y: v.Head.Y}
}

// Velocity is the per-tick displacement the actor had when the snapshot was taken.
func (v ActorView) Velocity() vec2.Vector {
	return vec2.Vector{X: v.Speed * math.Cos(v.Angle), Y: v.Speed * math.Sin(v.Angle)}
}

// Threat is another live snake that is dangerous to the assessing snake this tick.
type Threat struct {
	Actor      ActorView
	Distance   float64 // to the closer of its head or nearest body segment
	SizeRatio  float64 // other/self length
	Angle      float64 // bearing from self toward the threat point
	Dangerous  bool    // head within DangerZoneRadius and SizeRatio > FleeThreshold
	BodyDanger bool    // a body segment within CollisionAvoidanceRadius
}

// ThreatAssessment summarizes danger around one snake.
type ThreatAssessment struct {
	Threats         []Threat
	Nearest         int // index into Threats, -1 when empty
	ImmediateDanger bool
	DangerLevel     float64 // 0..1
}

// NearestThreat returns the closest threat, if any.
func (ta ThreatAssessment) NearestThreat() (Threat, bool) {
	if ta.Nearest < 0 {
		return Threat{}, false
	}
	return ta.Threats[ta.Nearest], true
}

// TargetKind is what a Target points at.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetSnake
	TargetElement
	TargetVoidOrb
)

// Target is a candidate for pursuit or collection.
type Target struct {
	Kind     TargetKind
	Actor    ActorView // TargetSnake
	PickupID string    // TargetElement, TargetVoidOrb
	Element  ElementID // TargetElement
	Pos      Point

	Distance  float64
	Angle     float64 // bearing from self
	SizeRatio float64 // self/other length, snakes only
	Priority  float64 // snakes only
}

// TargetAssessment partitions opportunities around one snake.
type TargetAssessment struct {
	Players   []Target // by descending priority
	Opponents []Target // non-player snakes, by descending priority
	Elements  []Target // by ascending distance
	VoidOrbs  []Target // by ascending distance
}

// assessThreats classifies every other live actor against self's personality. Body
// proximity is read from grid, which must hold pre-tick positions.
func assessThreats(self *Snake, p Personality, actors []ActorView, grid *SpatialGrid) ThreatAssessment {
	ta := ThreatAssessment{Nearest: -1}
	head := self.Head()
	selfLen := float64(self.Length())

	// Closest body segment per snake within the avoidance radius.
	bodyDist := make(map[string]float64)
	bodyPoint := make(map[string]Point)
	for _, e := range grid.NearbySnakeBody(head.X, head.Y, p.CollisionAvoidanceRadius, self.ID) {
		d := math.Hypot(e.x-head.X, e.y-head.Y)
		if prev, ok := bodyDist[e.snakeID]; !ok || d < prev {
			bodyDist[e.snakeID] = d
			bodyPoint[e.snakeID] = Point{X: e.x, Y: e.y}
		}
	}

	for _, other := range actors {
		if other.ID == self.ID {
			continue
		}
		headDist := math.Hypot(other.Head.X-head.X, other.Head.Y-head.Y)
		ratio := float64(other.Length) / selfLen
		dangerous := headDist < p.DangerZoneRadius && ratio > p.FleeThreshold

		bd, hasBody := bodyDist[other.ID]
		bodyDanger := hasBody && bd < p.CollisionAvoidanceRadius

		if !dangerous && !bodyDanger {
			continue
		}
		t := Threat{
			Actor:      other,
			Distance:   headDist,
			SizeRatio:  ratio,
			Angle:      bearing(head, other.Head),
			Dangerous:  dangerous,
			BodyDanger: bodyDanger,
		}
		if bodyDanger && bd < headDist {
			t.Distance = bd
			t.Angle = bearing(head, bodyPoint[other.ID])
		}
		ta.Threats = append(ta.Threats, t)
		if ta.Nearest < 0 || t.Distance < ta.Threats[ta.Nearest].Distance {
			ta.Nearest = len(ta.Threats) - 1
		}
	}

	if nearest, ok := ta.NearestThreat(); ok {
		ta.ImmediateDanger = nearest.Distance < p.CollisionAvoidanceRadius
		ta.DangerLevel = clamp(1-nearest.Distance/p.DangerZoneRadius, 0, 1)
	}
	return ta
}

// assessTargets finds prey snakes and nearby pickups for self.
func assessTargets(self *Snake, p Personality, actors []ActorView, w *World) TargetAssessment {
	var ta TargetAssessment
	head := self.Head()
	selfLen := float64(self.Length())
	aggressive := p.Kind == ProfileAggressive

	for _, other := range actors {
		if other.ID == self.ID {
			continue
		}
		dist := math.Hypot(other.Head.X-head.X, other.Head.Y-head.Y)
		ratio := selfLen / float64(other.Length)
		huntPlayer := aggressive && other.IsPlayer
		if !huntPlayer {
			if dist >= p.ChaseDistance || ratio <= 1/p.PreyRatioMax {
				continue
			}
		}
		priority := ratio * p.AggressionMultiplier / (math.Max(dist, 1) / 100)
		if huntPlayer {
			priority *= 10
		}
		t := Target{
			Kind:      TargetSnake,
			Actor:     other,
			Pos:       other.Head,
			Distance:  dist,
			Angle:     bearing(head, other.Head),
			SizeRatio: ratio,
			Priority:  priority,
		}
		if other.IsPlayer {
			ta.Players = append(ta.Players, t)
		} else {
			ta.Opponents = append(ta.Opponents, t)
		}
	}
	byPriority := func(ts []Target) {
		sort.SliceStable(ts, func(i, j int) bool { return ts[i].Priority > ts[j].Priority })
	}
	byPriority(ta.Players)
	byPriority(ta.Opponents)

	for _, id := range w.Grid.NearbyPickups(head.X, head.Y, ElementSeekRadius) {
		pk, ok := w.Pickups[id]
		if !ok {
			continue
		}
		pos := Point{X: pk.X, Y: pk.Y}
		dist := pk.DistanceTo(head.X, head.Y)
		t := Target{PickupID: pk.ID, Pos: pos, Distance: dist, Angle: bearing(head, pos)}
		switch pk.Kind {
		case PickupElement:
			t.Kind = TargetElement
			t.Element = pk.Element
			ta.Elements = append(ta.Elements, t)
		case PickupVoidOrb:
			if dist <= VoidOrbSeekRadius {
				t.Kind = TargetVoidOrb
				ta.VoidOrbs = append(ta.VoidOrbs, t)
			}
		}
	}
	byDistance := func(ts []Target) {
		sort.Slice(ts, func(i, j int) bool {
			if ts[i].Distance != ts[j].Distance {
				return ts[i].Distance < ts[j].Distance
			}
			return ts[i].PickupID < ts[j].PickupID
		})
	}
	byDistance(ta.Elements)
	byDistance(ta.VoidOrbs)
	return ta
}

// targetFromView rebuilds a snake target for a remembered actor, bypassing range filters.
func targetFromView(self *Snake, p Personality, other ActorView) Target {
	head := self.Head()
	dist := math.Hypot(other.Head.X-head.X, other.Head.Y-head.Y)
	ratio := float64(self.Length()) / float64(other.Length)
	return Target{
		Kind:      TargetSnake,
		Actor:     other,
		Pos:       other.Head,
		Distance:  dist,
		Angle:     bearing(head, other.Head),
		SizeRatio: ratio,
		Priority:  ratio * p.AggressionMultiplier / (math.Max(dist, 1) / 100),
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
