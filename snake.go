package main

import (
	"math"

	"github.com/go-kit/log/level"
	"github.com/joonazan/vec2"
)

// Point is a 2D coordinate
type Point struct {
	X float64
	Y float64
}

// Snake is one actor in the arena, player- or AI-controlled.
type Snake struct {
	ID       string
	Name     string
	Color    string
	IsPlayer bool
	Profile  Personality // zero Kind for the player

	Segments []Point // index 0 = head
	Angle    float64 // radians, direction of movement
	Speed    float64

	Alive      bool
	DiedAt     uint64 // tick of death, valid when !Alive
	DeathCause string

	Boosting     bool
	Stamina      float64 // 0..StaminaMax
	boostEndedAt uint64  // tick the last boost ended

	Bank         []ElementID // held elements, len <= BankCapacity
	BankCapacity int
	Discovered   map[ElementID]bool
	Discoveries  int
	Score        int
	ComboStreak  int // player only
}

// NewSnake creates a snake at (x, y) heading along angle, with segments trailing behind.
func NewSnake(id, name, color string, x, y, angle float64) *Snake {
	segments := make([]Point, SnakeInitSegments)
	for i := 0; i < SnakeInitSegments; i++ {
		segments[i] = Point{
			X: x - float64(i)*SnakeSegmentSpacing*math.Cos(angle),
			Y: y - float64(i)*SnakeSegmentSpacing*math.Sin(angle),
		}
	}
	return &Snake{
		ID:           id,
		Name:         name,
		Color:        color,
		Segments:     segments,
		Angle:        angle,
		Speed:        SnakeNormalSpeed,
		Alive:        true,
		Stamina:      StaminaMax,
		BankCapacity: DefaultBankCapacity,
		Discovered:   make(map[ElementID]bool),
	}
}

// Head returns the head segment of the snake
func (s *Snake) Head() Point {
	return s.Segments[0]
}

// Length is the segment count, used for every size comparison.
func (s *Snake) Length() int {
	return len(s.Segments)
}

// Velocity is the per-tick displacement along the current heading.
func (s *Snake) Velocity() vec2.Vector {
	return vec2.Vector{X: s.Speed * math.Cos(s.Angle), Y: s.Speed * math.Sin(s.Angle)}
}

// Move advances the snake one tick in its current direction.
// Returns true if the snake crossed the circular boundary (caller should kill it).
func (s *Snake) Move() bool {
	if !isFinite(s.Angle) {
		level.Warn(logger).Log("msg", "non-finite heading reset", "snake", s.ID, "angle", s.Angle)
		s.Angle = 0
	}
	head := s.Head()

	newX := head.X + s.Speed*math.Cos(s.Angle)
	newY := head.Y + s.Speed*math.Sin(s.Angle)
	if !isFinite(newX) || !isFinite(newY) {
		level.Warn(logger).Log("msg", "non-finite position discarded", "snake", s.ID, "speed", s.Speed)
		newX, newY = head.X, head.Y
	}

	dx := newX - WorldCenterX
	dy := newY - WorldCenterY
	outOfBounds := (dx*dx + dy*dy) > WorldRadius*WorldRadius

	// Shift segments: prepend new head, drop last
	copy(s.Segments[1:], s.Segments[:len(s.Segments)-1])
	s.Segments[0] = Point{X: newX, Y: newY}

	return outOfBounds
}

// Grow adds segments at the tail.
func (s *Snake) Grow(amount int) {
	tail := s.Segments[len(s.Segments)-1]
	for i := 0; i < amount; i++ {
		s.Segments = append(s.Segments, tail)
	}
}

// ApplyBoost sets speed for this tick. Stamina drains only while boosting and regenerates
// only once StaminaRegenDelayTicks have passed since the boost ended.
func (s *Snake) ApplyBoost(want bool, tick uint64) {
	boosting := want && s.Stamina > 0
	if boosting {
		s.Speed = SnakeBoostSpeed
		s.Stamina = math.Max(0, s.Stamina-StaminaDrainPerTick)
	} else {
		if s.Boosting {
			s.boostEndedAt = tick
		}
		s.Speed = SnakeNormalSpeed
		if tick-s.boostEndedAt >= StaminaRegenDelayTicks {
			s.Stamina = math.Min(StaminaMax, s.Stamina+StaminaRegenPerTick)
		}
	}
	s.Boosting = boosting
}

// Kill marks the snake dead. The body lingers for DeathAnimationTicks.
func (s *Snake) Kill(cause string, tick uint64) {
	s.Alive = false
	s.DiedAt = tick
	s.DeathCause = cause
	s.Boosting = false
}

// bankFull reports whether the bank is at capacity.
func (s *Snake) bankFull() bool {
	return len(s.Bank) >= s.BankCapacity
}

// bankNearlyFull leaves one free slot of slack.
func (s *Snake) bankNearlyFull() bool {
	return len(s.Bank) >= s.BankCapacity-1
}

// ToDTO converts snake to serializable form, trimming segments to maxSegs.
// If maxSegs <= 0 all segments are included.
func (s *Snake) ToDTO(maxSegs int) SnakeDTO {
	segs := s.Segments
	if maxSegs > 0 && len(segs) > maxSegs {
		segs = segs[:maxSegs]
	}
	pairs := make([][2]float64, len(segs))
	for i, p := range segs {
		pairs[i] = [2]float64{roundTo1(p.X), roundTo1(p.Y)}
	}
	dto := SnakeDTO{
		ID:       s.ID,
		Name:     s.Name,
		Segments: pairs,
		Score:    s.Score,
		Color:    s.Color,
	}
	if s.Boosting {
		dto.Boosting = 1
	}
	if !s.Alive {
		dto.Dying = 1
	}
	return dto
}

// SelfDTO is the viewer's private HUD state.
func (s *Snake) SelfDTO() SelfDTO {
	bank := make([]ElementID, len(s.Bank))
	copy(bank, s.Bank)
	alive := 0
	if s.Alive {
		alive = 1
	}
	return SelfDTO{
		ID:          s.ID,
		Bank:        bank,
		Capacity:    s.BankCapacity,
		Score:       s.Score,
		Streak:      s.ComboStreak,
		Stamina:     roundTo1(s.Stamina),
		Discoveries: s.Discoveries,
		Alive:       alive,
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
