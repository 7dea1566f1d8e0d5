package main

import (
	"math"
	"math/rand"
	"strings"
	"testing"
)

func thinkOnce(w *World, s *Snake, mem *aiMemory) Decision {
	w.RebuildGrid()
	return w.think(s, mem, w.Snapshot())
}

func TestBorderEmergencyOverridesEverything(t *testing.T) {
	w := newTestWorld(t, 1)
	bot := addBot(w, "bot", ProfileAggressive, WorldCenterX+WorldRadius-100, WorldCenterY, 0)
	// A big snake right next to it and a player in reach.
	big := addBot(w, "big", ProfileCautious, WorldCenterX+WorldRadius-140, WorldCenterY+30, math.Pi/2)
	growTo(big, 60)
	addPlayer(w, WorldCenterX+WorldRadius-300, WorldCenterY, 0)
	w.SpawnElementAt(WorldCenterX+WorldRadius-120, WorldCenterY, 1)

	mem := aiMemory{orbitDir: 1}
	d := thinkOnce(w, bot, &mem)
	if d.Action != ActionEscapeBorder {
		t.Fatalf("expected border escape, got %v", d.Action)
	}
	heading := headingFor(d, bot, &mem, w.Tick)
	if math.Abs(normalizeAngle(heading-math.Pi)) > 1e-9 {
		t.Fatalf("expected heading toward center (π), got %.4f", heading)
	}
	if !d.Boost {
		t.Fatalf("border escape boosts")
	}

	// The panic window keeps it heading home after it leaves the margin.
	bot.Segments[0] = Point{X: WorldCenterX + 1000, Y: WorldCenterY}
	for i := 1; i < PanicTicks; i++ {
		if d := thinkOnce(w, bot, &mem); d.Action != ActionEscapeBorder {
			t.Fatalf("tick %d of panic window: got %v", i, d.Action)
		}
	}
	if d := thinkOnce(w, bot, &mem); d.Action == ActionEscapeBorder {
		t.Fatalf("panic window should have expired")
	}
}

func TestAggressiveKeepsPersistentTarget(t *testing.T) {
	w := newTestWorld(t, 2)
	bot := addBot(w, "hunter", ProfileAggressive, WorldCenterX-1000, WorldCenterY, 0)
	growTo(bot, 20)
	player := addPlayer(w, WorldCenterX-400, WorldCenterY+100, 0)

	mem := aiMemory{orbitDir: 1}
	d := thinkOnce(w, bot, &mem)
	if d.Target.Actor.ID != player.ID || mem.targetID != player.ID {
		t.Fatalf("expected player acquired, got %+v mem=%+v", d.Target.Actor, mem)
	}

	// Player runs far away; a juicy smaller bot shows up right next to the hunter.
	for i := range player.Segments {
		player.Segments[i] = Point{X: WorldCenterX + 1500, Y: WorldCenterY + float64(i)*SnakeSegmentSpacing}
	}
	addBot(w, "snack", ProfileCautious, WorldCenterX-1000, WorldCenterY+150, 0)

	d = thinkOnce(w, bot, &mem)
	if d.Target.Actor.ID != player.ID {
		t.Fatalf("expected to keep hunting the player, switched to %q", d.Target.Actor.ID)
	}
	if mem.targetTicks != PersistentTargetTicks-1 {
		t.Fatalf("expected persistent timer %d, got %d", PersistentTargetTicks-1, mem.targetTicks)
	}
}

func TestPersistentTargetClearsWhenGone(t *testing.T) {
	w := newTestWorld(t, 3)
	bot := addBot(w, "hunter", ProfileAggressive, WorldCenterX, WorldCenterY, 0)
	growTo(bot, 20)
	addBot(w, "snack", ProfileCautious, WorldCenterX, WorldCenterY+200, 0)

	mem := aiMemory{orbitDir: 1, targetID: "ghost", targetTicks: 100}
	d := thinkOnce(w, bot, &mem)
	if d.Target.Actor.ID != "snack" || mem.targetID != "snack" {
		t.Fatalf("expected to drop the missing target and pick snack, got %+v", d.Target.Actor)
	}
}

func TestAttackPatternRoundRobin(t *testing.T) {
	w := newTestWorld(t, 4)
	bot := addBot(w, "hunter", ProfileAggressive, WorldCenterX, WorldCenterY, 0)
	growTo(bot, 20)
	addBot(w, "snack", ProfileCautious, WorldCenterX, WorldCenterY+200, 0)

	mem := aiMemory{orbitDir: 1}
	var seen []attackPattern
	for i := 0; i < 5; i++ {
		thinkOnce(w, bot, &mem)
		seen = append(seen, mem.pattern)
		mem.clearTarget()
	}
	want := []attackPattern{patternRam, patternEncircle, patternCutoff, patternIntimidate, patternRam}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("pattern sequence %v, want %v", seen, want)
		}
	}
}

func TestAttackFallsBackToHunt(t *testing.T) {
	bot := NewSnake("b", "b", "#fff", 0, 0, 0)
	bot.Profile = ProfileFor(ProfileAggressive)
	in := &decisionInput{self: bot, mem: &aiMemory{pattern: patternRam}}

	// Same-size target: ratio below RamThreshold.
	d := in.attack(Target{Kind: TargetSnake, Distance: 100, SizeRatio: 1})
	if d.Action != ActionHunt {
		t.Fatalf("expected hunt when ram does not fit, got %v", d.Action)
	}
	d = in.attack(Target{Kind: TargetSnake, Distance: 100, SizeRatio: 2})
	if d.Action != ActionRam {
		t.Fatalf("expected ram, got %v", d.Action)
	}
	in.mem.pattern = patternIntimidate
	if d := in.attack(Target{Kind: TargetSnake, Distance: 1000}); d.Action != ActionIntimidate {
		t.Fatalf("intimidate applies at any range, got %v", d.Action)
	}
}

func TestComboFocusedSeeksVoidOrbWhenStuck(t *testing.T) {
	w := newTestWorld(t, 5)
	bot := addBot(w, "bot", ProfileComboFocused, WorldCenterX, WorldCenterY, 0)
	w.SpawnElementAt(WorldCenterX+50, WorldCenterY+50, 1)
	w.SpawnVoidOrbAt(WorldCenterX+200, WorldCenterY)

	mem := aiMemory{orbitDir: 1}
	if d := thinkOnce(w, bot, &mem); d.Action != ActionCollect {
		t.Fatalf("empty bank should collect, got %v", d.Action)
	}

	bot.Bank = []ElementID{30, 30, 30, 30, 30, 30}
	d := thinkOnce(w, bot, &mem)
	if d.Action != ActionSeekVoidOrb || d.Target.Kind != TargetVoidOrb {
		t.Fatalf("stuck full bank should seek the void orb, got %v", d.Action)
	}
}

func TestEvadeOnImmediateDanger(t *testing.T) {
	w := newTestWorld(t, 6)
	bot := addBot(w, "bot", ProfileBalanced, WorldCenterX, WorldCenterY, 0)
	addBot(w, "crosser", ProfileBalanced, WorldCenterX+50, WorldCenterY+40, 0)

	mem := aiMemory{orbitDir: 1}
	d := thinkOnce(w, bot, &mem)
	if d.Action != ActionEvade {
		t.Fatalf("expected evade, got %v", d.Action)
	}
	if d.Strength != 1+bot.Profile.AvoidanceStrength {
		t.Fatalf("evade strength %.2f", d.Strength)
	}
	// Threat is above (positive y), so the escape heading points down.
	if math.Sin(d.Heading) >= 0 {
		t.Fatalf("evade heading %.3f does not point away from the threat", d.Heading)
	}
}

func TestWanderReturnsTowardCenter(t *testing.T) {
	w := newTestWorld(t, 7)
	bot := addBot(w, "bot", ProfileCautious, WorldCenterX, WorldCenterY-2000, 0)

	mem := aiMemory{orbitDir: 1}
	d := thinkOnce(w, bot, &mem)
	if d.Action != ActionWander {
		t.Fatalf("expected wander, got %v", d.Action)
	}
	if math.Abs(normalizeAngle(d.Heading-math.Pi/2)) > 1e-9 {
		t.Fatalf("expected heading toward center (π/2), got %.4f", d.Heading)
	}
}

func TestMissingProfileIsNoOp(t *testing.T) {
	w := newTestWorld(t, 8)
	bm := NewBotManager(w, 0)
	bot := addBot(w, "bot", ProfileNone, WorldCenterX, WorldCenterY, 0)
	bm.bots[bot.ID] = &Bot{ID: bot.ID}
	bm.order = append(bm.order, bot.ID)
	head, angle := bot.Head(), bot.Angle

	w.RebuildGrid()
	bm.Update(w.Snapshot())

	if bot.Head() != head || bot.Angle != angle {
		t.Fatalf("bot without a profile must not act")
	}
	if d := thinkOnce(w, bot, &aiMemory{}); d.Action != ActionNone {
		t.Fatalf("expected ActionNone, got %v", d.Action)
	}
}

func balancedInput(seed int64, hunting, combo float64) *decisionInput {
	bot := NewSnake("b", "b", "#fff", WorldCenterX, WorldCenterY, 0)
	bot.Profile = ProfileFor(ProfileBalanced)
	bot.Profile.HuntingPriority = hunting
	bot.Profile.ComboPriority = combo
	return &decisionInput{self: bot, mem: &aiMemory{orbitDir: 1}, rng: rand.New(rand.NewSource(seed))}
}

func TestBalancedHuntsOnlyCloseSmallPlayers(t *testing.T) {
	tests := []struct {
		name     string
		hunting  float64
		distance float64
		ratio    float64
		want     Action
	}{
		{"eager, close and much smaller", 1, 300, 2, ActionHunt},
		{"eager, out of range", 1, BalancedHuntRange, 2, ActionWander},
		{"eager, not small enough", 1, 300, BalancedHuntSizeRatio, ActionWander},
		{"never hunts", 0, 300, 2, ActionWander},
	}
	for _, tt := range tests {
		in := balancedInput(1, tt.hunting, 0)
		in.targets.Players = []Target{{Kind: TargetSnake, Actor: ActorView{ID: "p", IsPlayer: true}, Distance: tt.distance, SizeRatio: tt.ratio}}
		for i := 0; i < 50; i++ {
			if d := in.decideBalanced(); d.Action != tt.want {
				t.Fatalf("%s: expected %v, got %v", tt.name, tt.want, d.Action)
			}
		}
	}
}

func TestBalancedCollectChanceHalvesWhenBankNearlyFull(t *testing.T) {
	const trials = 2000
	element := Target{Kind: TargetElement, PickupID: "e", Element: 1, Distance: 100}
	collects := func(in *decisionInput) int {
		in.targets.Elements = []Target{element}
		n := 0
		for i := 0; i < trials; i++ {
			if in.decideBalanced().Action == ActionCollect {
				n++
			}
		}
		return n
	}

	if n := collects(balancedInput(2, 0, 1)); n != trials {
		t.Fatalf("empty bank with full combo priority should always collect, got %d/%d", n, trials)
	}
	if n := collects(balancedInput(3, 0, 0)); n != 0 {
		t.Fatalf("zero combo priority should never collect, got %d", n)
	}

	nearlyFull := balancedInput(4, 0, 1)
	nearlyFull.self.Bank = []ElementID{1, 1, 1, 1, 1}
	if n := collects(nearlyFull); n < trials*4/10 || n > trials*6/10 {
		t.Fatalf("nearly full bank should collect about half the time, got %d/%d", n, trials)
	}
}

func TestBotDecisionsAreLoggedAtDebug(t *testing.T) {
	buf := captureLogs(t)
	w := newTestWorld(t, 9)
	bm := NewBotManager(w, 0)
	bot := bm.SpawnBot()

	w.RebuildGrid()
	bm.Update(w.Snapshot())

	out := buf.String()
	if !strings.Contains(out, `msg="bot decision"`) || !strings.Contains(out, "bot="+bot.ID) || !strings.Contains(out, "level=debug") {
		t.Fatalf("expected a debug decision line for %s, got %q", bot.ID, out)
	}
}
