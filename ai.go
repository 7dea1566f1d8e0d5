package main

import (
	"math"
	"math/rand"
)

// Action is what an AI snake chose to do this tick.
type Action int

const (
	ActionNone Action = iota
	ActionWander
	ActionEscapeBorder
	ActionEvade
	ActionHunt
	ActionRam
	ActionEncircle
	ActionCutoff
	ActionIntimidate
	ActionCollect
	ActionSeekVoidOrb
)

func (a Action) String() string {
	switch a {
	case ActionWander:
		return "wander"
	case ActionEscapeBorder:
		return "escape-border"
	case ActionEvade:
		return "evade"
	case ActionHunt:
		return "hunt"
	case ActionRam:
		return "ram"
	case ActionEncircle:
		return "encircle"
	case ActionCutoff:
		return "cutoff"
	case ActionIntimidate:
		return "intimidate"
	case ActionCollect:
		return "collect"
	case ActionSeekVoidOrb:
		return "seek-void-orb"
	default:
		return "none"
	}
}

// attackPattern is the aggressive profile's round-robin attack style.
type attackPattern int

const (
	patternRam attackPattern = iota
	patternEncircle
	patternCutoff
	patternIntimidate
	attackPatternCount
)

// aiMemory is the per-bot state that survives between ticks.
type aiMemory struct {
	targetID      string // persistent target (aggressive only)
	targetTicks   int
	panicTicks    int
	patternCursor int
	pattern       attackPattern
	orbitDir      float64 // +1 or -1
}

// tickTimers counts the persistent-target window down once per tick.
func (m *aiMemory) tickTimers() {
	if m.targetTicks > 0 {
		m.targetTicks--
		if m.targetTicks == 0 {
			m.targetID = ""
		}
	}
}

func (m *aiMemory) clearTarget() {
	m.targetID = ""
	m.targetTicks = 0
}

// Decision is a chosen action plus what steering needs to turn it into a heading.
type Decision struct {
	Action   Action
	Target   Target
	Heading  float64 // preset for wander, evade and border escape
	Strength float64 // turn strength multiplier
	Boost    bool
}

// decisionInput bundles everything one decision reads. Assessments are recomputed each tick
// and dropped afterward.
type decisionInput struct {
	self       *Snake
	mem        *aiMemory
	actors     []ActorView
	threats    ThreatAssessment
	targets    TargetAssessment
	canCombine bool
	tick       uint64
	rng        *rand.Rand
}

// think assesses the surroundings of s and picks an action.
func (w *World) think(s *Snake, mem *aiMemory, actors []ActorView) Decision {
	if s.Profile.Kind == ProfileNone {
		return Decision{Action: ActionNone}
	}
	in := &decisionInput{
		self:       s,
		mem:        mem,
		actors:     actors,
		threats:    assessThreats(s, s.Profile, actors, w.Grid),
		targets:    assessTargets(s, s.Profile, actors, w),
		canCombine: s.CanCombine(w.Table),
		tick:       w.Tick,
		rng:        w.rng,
	}
	return decide(in)
}

// decide runs the priority ladder: border emergency, immediate danger, then the profile's
// own rules.
func decide(in *decisionInput) Decision {
	s, mem := in.self, in.mem
	p := s.Profile
	if p.Kind == ProfileNone {
		return Decision{Action: ActionNone}
	}
	mem.tickTimers()

	head := s.Head()
	center := Point{X: WorldCenterX, Y: WorldCenterY}
	if math.Hypot(head.X-center.X, head.Y-center.Y) > WorldRadius-BorderEmergencyMargin {
		mem.panicTicks = PanicTicks
	}
	if mem.panicTicks > 0 {
		mem.panicTicks--
		return Decision{Action: ActionEscapeBorder, Heading: bearing(head, center), Strength: 2, Boost: true}
	}

	if in.threats.ImmediateDanger {
		return Decision{
			Action:   ActionEvade,
			Heading:  evasionHeading(in.threats.Threats, s.Angle),
			Strength: 1 + p.AvoidanceStrength,
			Boost:    p.RiskTolerance < 0.5 || in.threats.DangerLevel > 0.6,
		}
	}

	switch p.Kind {
	case ProfileAggressive:
		return in.decideAggressive()
	case ProfileComboFocused:
		return in.decideComboFocused()
	case ProfileBalanced:
		return in.decideBalanced()
	case ProfileCautious:
		return in.decideCautious()
	}
	return Decision{Action: ActionNone}
}

// decideAggressive sticks to a persistent target for PersistentTargetTicks, preferring
// players over bots over elements.
func (in *decisionInput) decideAggressive() Decision {
	if t, ok := in.persistentTarget(); ok {
		return in.attack(t)
	}

	var candidate *Target
	switch {
	case len(in.targets.Players) > 0:
		candidate = &in.targets.Players[0]
	case len(in.targets.Opponents) > 0:
		candidate = &in.targets.Opponents[0]
	}
	if candidate != nil {
		mem := in.mem
		mem.targetID = candidate.Actor.ID
		mem.targetTicks = PersistentTargetTicks
		mem.pattern = attackPattern(mem.patternCursor % int(attackPatternCount))
		mem.patternCursor++
		mem.orbitDir = 1
		if in.rng.Intn(2) == 0 {
			mem.orbitDir = -1
		}
		return in.attack(*candidate)
	}

	if len(in.targets.Elements) > 0 {
		return in.collect(in.targets.Elements[0])
	}
	return in.fallback()
}

// persistentTarget returns the remembered target if it is still alive, regardless of range.
func (in *decisionInput) persistentTarget() (Target, bool) {
	if in.mem.targetID == "" {
		return Target{}, false
	}
	for _, a := range in.actors {
		if a.ID == in.mem.targetID {
			return targetFromView(in.self, in.self.Profile, a), true
		}
	}
	in.mem.clearTarget()
	return Target{}, false
}

// attack picks the current attack pattern when its geometry fits, otherwise a plain hunt.
func (in *decisionInput) attack(t Target) Decision {
	p := in.self.Profile
	action := ActionHunt
	switch in.mem.pattern {
	case patternRam:
		if t.SizeRatio > p.RamThreshold && t.Distance < RamMaxDistance {
			action = ActionRam
		}
	case patternEncircle:
		if t.Distance < p.EncircleDistance && in.self.Length() >= EncircleMinLength {
			action = ActionEncircle
		}
	case patternCutoff:
		if t.Distance < CutoffMaxDistance && t.SizeRatio > CutoffMinSizeRatio {
			action = ActionCutoff
		}
	case patternIntimidate:
		action = ActionIntimidate
	}
	return Decision{Action: action, Target: t, Strength: 1, Boost: shouldBoost(in.self, t, in.tick)}
}

// decideComboFocused always goes for elements; a stuck full bank goes for a void orb first.
func (in *decisionInput) decideComboFocused() Decision {
	if in.self.bankFull() && !in.canCombine && len(in.targets.VoidOrbs) > 0 {
		return in.seekVoidOrb(in.targets.VoidOrbs[0])
	}
	if len(in.targets.Elements) > 0 {
		return in.collect(in.targets.Elements[0])
	}
	return in.wander()
}

// decideBalanced opportunistically hunts clearly smaller nearby players, otherwise collects
// with probability ComboPriority (halved when the bank is nearly full).
func (in *decisionInput) decideBalanced() Decision {
	p := in.self.Profile
	for _, t := range in.targets.Players {
		if t.Distance < BalancedHuntRange && t.SizeRatio > BalancedHuntSizeRatio {
			if in.rng.Float64() < p.HuntingPriority*(1+aggressionLevel(in.self)) {
				return Decision{Action: ActionHunt, Target: t, Strength: 1, Boost: shouldBoost(in.self, t, in.tick)}
			}
			break
		}
	}

	chance := p.ComboPriority
	if in.self.bankNearlyFull() {
		chance *= 0.5
	}
	if len(in.targets.Elements) > 0 && in.rng.Float64() < chance {
		return in.collect(in.targets.Elements[0])
	}
	return in.fallback()
}

// decideCautious only collects close elements and never hunts.
func (in *decisionInput) decideCautious() Decision {
	stuck := in.self.bankFull() && !in.canCombine
	if !stuck && len(in.targets.Elements) > 0 && in.targets.Elements[0].Distance < CautiousCollectRange {
		return in.collect(in.targets.Elements[0])
	}
	return in.fallback()
}

// fallback seeks a void orb when the bank is nearly full with nothing to combine, else wanders.
func (in *decisionInput) fallback() Decision {
	if in.self.bankNearlyFull() && !in.canCombine && len(in.targets.VoidOrbs) > 0 {
		return in.seekVoidOrb(in.targets.VoidOrbs[0])
	}
	return in.wander()
}

func (in *decisionInput) collect(t Target) Decision {
	return Decision{Action: ActionCollect, Target: t, Strength: 1, Boost: shouldBoost(in.self, t, in.tick)}
}

func (in *decisionInput) seekVoidOrb(t Target) Decision {
	return Decision{Action: ActionSeekVoidOrb, Target: t, Strength: 1, Boost: shouldBoost(in.self, t, in.tick)}
}

// wander heads home beyond WanderCenterFraction of the radius, otherwise drifts randomly.
func (in *decisionInput) wander() Decision {
	head := in.self.Head()
	center := Point{X: WorldCenterX, Y: WorldCenterY}
	if math.Hypot(head.X-center.X, head.Y-center.Y) > WanderCenterFraction*WorldRadius {
		return Decision{Action: ActionWander, Heading: bearing(head, center), Strength: 1}
	}
	drift := (in.rng.Float64() - 0.5) * WanderDrift
	return Decision{Action: ActionWander, Heading: normalizeAngle(in.self.Angle + drift), Strength: 1}
}

// aggressionLevel grows with length and saturates at 100 segments.
func aggressionLevel(s *Snake) float64 {
	return math.Min(1, float64(s.Length())/100)
}
