package main

import (
	"math"

	"github.com/go-kit/log/level"
	"github.com/joonazan/vec2"
)

// normalizeAngle wraps an angle into (-π, π]
func normalizeAngle(a float64) float64 {
	if !isFinite(a) {
		return a
	}
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// bearing is the heading from a to b.
func bearing(a, b Point) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

func bearingTo(from Point, to vec2.Vector) float64 {
	return math.Atan2(to.Y-from.Y, to.X-from.X)
}

// blendAngles moves a toward b by weight w along the shorter arc.
func blendAngles(a, b, w float64) float64 {
	return normalizeAngle(a + normalizeAngle(b-a)*w)
}

func toVec(p Point) vec2.Vector {
	return vec2.Vector{X: p.X, Y: p.Y}
}

// turnTowardsAngle rotates the heading toward target by at most TurnSpeed*strength, snapping
// exactly onto target once the remaining difference fits within one step. A non-finite target
// is dropped and logged; the heading is left unchanged.
func (s *Snake) turnTowardsAngle(target, strength float64) {
	if !isFinite(target) || !isFinite(strength) {
		level.Warn(logger).Log("msg", "non-finite steering target ignored", "snake", s.ID, "target", target, "strength", strength)
		return
	}
	if !isFinite(s.Angle) {
		level.Warn(logger).Log("msg", "non-finite heading reset", "snake", s.ID)
		s.Angle = 0
	}
	maxTurn := TurnSpeed * strength
	diff := normalizeAngle(target - s.Angle)
	if math.Abs(diff) <= maxTurn {
		s.Angle = normalizeAngle(target)
		return
	}
	if diff > 0 {
		s.Angle += maxTurn
	} else {
		s.Angle -= maxTurn
	}
	s.Angle = normalizeAngle(s.Angle)
}

// playerTurnStrength shrinks with size so big snakes arc wider.
func playerTurnStrength(segments int) float64 {
	return 1.0 / (1.0 + float64(segments)*SnakeTurnScaleFactor)
}

// headingFor converts a decision into a concrete desired heading.
func headingFor(d Decision, self *Snake, mem *aiMemory, tick uint64) float64 {
	p := self.Profile
	switch d.Action {
	case ActionHunt:
		return huntHeading(self, d.Target, p)
	case ActionRam:
		return d.Target.Angle
	case ActionEncircle:
		return encircleHeading(self, d.Target, mem.orbitDir, tick)
	case ActionCutoff:
		return cutoffHeading(self, d.Target)
	case ActionIntimidate:
		return intimidateHeading(d.Target, mem.orbitDir, tick)
	case ActionCollect, ActionSeekVoidOrb:
		return bearing(self.Head(), d.Target.Pos)
	default:
		// ActionWander, ActionEvade, ActionEscapeBorder carry their own heading.
		return d.Heading
	}
}

// huntHeading blends the raw bearing with a bearing to where the target will be by the time
// we could reach it, weighted by CutoffAnticipation.
func huntHeading(self *Snake, t Target, p Personality) float64 {
	speed := math.Max(self.Speed, SnakeNormalSpeed)
	timeToIntercept := t.Distance / speed
	future := t.Actor.Pos().Plus(t.Actor.Velocity().Times(timeToIntercept * p.PredictiveLookAhead))
	return blendAngles(t.Angle, bearingTo(self.Head(), future), p.CutoffAnticipation)
}

// orbitRadius oscillates slowly between 2× and 3× the target's length plus a base radius.
func orbitRadius(targetLength int, tick uint64) float64 {
	factor := 2.5 + 0.5*math.Sin(float64(tick)*0.02)
	return factor*float64(targetLength) + EncircleBaseRadius
}

// encircleHeading closes to the orbit, then follows its tangent while leaning inward and
// toward the target's position EncirclePredictTicks ahead.
func encircleHeading(self *Snake, t Target, dir float64, tick uint64) float64 {
	radius := orbitRadius(t.Actor.Length, tick)
	if t.Distance > radius*1.5 {
		return t.Angle
	}
	if dir == 0 {
		dir = 1
	}
	tangent := normalizeAngle(t.Angle - dir*math.Pi/2)
	orbit := blendAngles(tangent, t.Angle, 0.2)
	predicted := t.Actor.Pos().Plus(t.Actor.Velocity().Times(EncirclePredictTicks))
	return blendAngles(orbit, bearingTo(self.Head(), predicted), 0.3)
}

// interceptTime solves |d + v·t| = s·t for the earliest positive t, where d is the target's
// offset from the pursuer, v its velocity and s the pursuer's speed.
func interceptTime(d, v vec2.Vector, s float64) (float64, bool) {
	a := v.LengthSquared() - s*s
	b := 2 * d.Dot(v)
	c := d.LengthSquared()

	if math.Abs(a) < 1e-9 {
		if b >= 0 {
			return 0, false
		}
		t := -c / b
		return t, t > 0
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t1 := (-b - sq) / (2 * a)
	t2 := (-b + sq) / (2 * a)
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	switch {
	case t1 > 0:
		return t1, true
	case t2 > 0:
		return t2, true
	}
	return 0, false
}

// interceptPoint aims where a straight-line pursuer at speed meets the target's extrapolated
// path, falling back to a linear lead point when no positive solution exists.
func interceptPoint(pursuer vec2.Vector, speed float64, target, vel vec2.Vector) vec2.Vector {
	d := target.Minus(pursuer)
	if t, ok := interceptTime(d, vel, speed); ok {
		return target.Plus(vel.Times(t))
	}
	lead := d.Length() / math.Max(speed, 1e-6)
	return target.Plus(vel.Times(lead))
}

// cutoffHeading aims at the intercept point, shifted sideways toward our side of the target's
// path so the meeting is closer to head-on.
func cutoffHeading(self *Snake, t Target) float64 {
	pos := toVec(self.Head())
	vel := t.Actor.Velocity()
	speed := math.Max(self.Speed, SnakeNormalSpeed)
	aim := interceptPoint(pos, speed, t.Actor.Pos(), vel)

	if vel.Length() > 1e-9 {
		dir := vel.Normalized()
		perp := vec2.Vector{X: -dir.Y, Y: dir.X}
		if perp.Dot(pos.Minus(t.Actor.Pos())) < 0 {
			perp = perp.Times(-1)
		}
		aim = aim.Plus(perp.Times(CutoffHeadOnOffset))
	}
	return bearingTo(self.Head(), aim)
}

// intimidateHeading orbits at medium range, feints with a wide swing up close and weaves
// while approaching from afar.
func intimidateHeading(t Target, dir float64, tick uint64) float64 {
	if dir == 0 {
		dir = 1
	}
	phase := float64(tick)
	switch {
	case t.Distance <= IntimidateFeintRange:
		return normalizeAngle(t.Angle + 0.8*math.Sin(phase*0.15))
	case t.Distance <= IntimidateOrbitRange:
		return normalizeAngle(t.Angle - dir*math.Pi/2 + 0.3*math.Sin(phase*0.03))
	default:
		return normalizeAngle(t.Angle + 0.25*math.Sin(phase*0.1))
	}
}

// evasionHeading points away from the distance-weighted average threat direction.
func evasionHeading(threats []Threat, fallback float64) float64 {
	var sx, sy float64
	for _, t := range threats {
		w := 1 / math.Max(t.Distance, 1)
		sx += math.Cos(t.Angle) * w
		sy += math.Sin(t.Angle) * w
	}
	if sx == 0 && sy == 0 {
		return fallback
	}
	return math.Atan2(-sy, -sx)
}

// shouldBoost decides whether to boost while pursuing t. The caller still needs stamina for
// the boost to take effect.
func shouldBoost(self *Snake, t Target, tick uint64) bool {
	p := self.Profile
	switch p.Kind {
	case ProfileAggressive:
		if t.Distance < 200 {
			return true
		}
		if t.Kind == TargetSnake && t.Actor.IsPlayer {
			return true
		}
		return math.Sin(float64(tick)*0.05) > 0.7
	case ProfileBalanced:
		if t.Distance < 150 {
			return true
		}
		return t.Distance < 300 && self.Stamina > p.BoostThreshold*100
	default:
		return self.Stamina > p.BoostThreshold*100 && t.Distance < 200
	}
}
