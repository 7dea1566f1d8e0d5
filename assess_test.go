package main

import (
	"math"
	"testing"
)

func TestThreatBoundaryIsStrict(t *testing.T) {
	const cx, cy = WorldCenterX, WorldCenterY
	p := ProfileFor(ProfileBalanced)

	for _, tt := range []struct {
		dist      float64
		dangerous bool
	}{
		{p.DangerZoneRadius, false},
		{p.DangerZoneRadius - 1, true},
	} {
		w := newTestWorld(t, 1)
		self := addBot(w, "self", ProfileBalanced, cx, cy, 0)
		// Facing self so the body trails away and stays out of the avoidance radius.
		big := addBot(w, "big", ProfileCautious, cx+tt.dist, cy, math.Pi)
		growTo(big, 20)
		w.RebuildGrid()

		ta := assessThreats(self, self.Profile, w.Snapshot(), w.Grid)
		if got := len(ta.Threats) == 1 && ta.Threats[0].Dangerous; got != tt.dangerous {
			t.Fatalf("distance %.0f: dangerous=%v, want %v (threats %+v)", tt.dist, got, tt.dangerous, ta.Threats)
		}
	}
}

func TestSmallerSnakeHeadIsNotAThreat(t *testing.T) {
	w := newTestWorld(t, 1)
	self := addBot(w, "self", ProfileBalanced, WorldCenterX, WorldCenterY, 0)
	growTo(self, 20)
	addBot(w, "small", ProfileBalanced, WorldCenterX+200, WorldCenterY, 0)
	w.RebuildGrid()

	ta := assessThreats(self, self.Profile, w.Snapshot(), w.Grid)
	if len(ta.Threats) != 0 || ta.Nearest != -1 {
		t.Fatalf("expected no threats, got %+v", ta)
	}
	if _, ok := ta.NearestThreat(); ok {
		t.Fatalf("NearestThreat must report none")
	}
}

func TestBodyProximityIsImmediateDanger(t *testing.T) {
	w := newTestWorld(t, 1)
	self := addBot(w, "self", ProfileBalanced, WorldCenterX, WorldCenterY, 0)
	// Small snake whose body passes 40 units above self's head.
	other := addBot(w, "crosser", ProfileBalanced, WorldCenterX+50, WorldCenterY+40, 0)
	w.RebuildGrid()

	ta := assessThreats(self, self.Profile, w.Snapshot(), w.Grid)
	nearest, ok := ta.NearestThreat()
	if !ok || nearest.Actor.ID != other.ID {
		t.Fatalf("expected crosser as nearest threat, got %+v", ta)
	}
	if !nearest.BodyDanger || nearest.Dangerous {
		t.Fatalf("expected body danger only, got %+v", nearest)
	}
	if nearest.Distance >= math.Hypot(50, 40) {
		t.Fatalf("threat distance %.1f should use the closer body segment", nearest.Distance)
	}
	if !ta.ImmediateDanger {
		t.Fatalf("body within avoidance radius must be immediate danger")
	}
	if ta.DangerLevel <= 0 || ta.DangerLevel > 1 {
		t.Fatalf("danger level %.2f out of range", ta.DangerLevel)
	}
}

func TestAggressiveSeesPlayersAtAnyRange(t *testing.T) {
	w := newTestWorld(t, 1)
	agg := addBot(w, "agg", ProfileAggressive, WorldCenterX-700, WorldCenterY, 0)
	bal := addBot(w, "bal", ProfileBalanced, WorldCenterX-700, WorldCenterY+300, 0)
	addPlayer(w, WorldCenterX+800, WorldCenterY, 0)
	w.RebuildGrid()
	actors := w.Snapshot()

	ta := assessTargets(agg, agg.Profile, actors, w)
	if len(ta.Players) != 1 || ta.Players[0].Actor.ID != "player" {
		t.Fatalf("aggressive bot must target the distant player, got %+v", ta.Players)
	}
	plain := targetFromView(agg, agg.Profile, ta.Players[0].Actor)
	if math.Abs(ta.Players[0].Priority-10*plain.Priority) > 1e-9 {
		t.Fatalf("player priority %.4f should be 10x %.4f", ta.Players[0].Priority, plain.Priority)
	}

	tb := assessTargets(bal, bal.Profile, actors, w)
	if len(tb.Players) != 0 {
		t.Fatalf("balanced bot must not see an out-of-range player, got %+v", tb.Players)
	}
}

func TestPreyRatioFiltersOpponents(t *testing.T) {
	w := newTestWorld(t, 1)
	self := addBot(w, "self", ProfileBalanced, WorldCenterX, WorldCenterY, 0)
	growTo(self, 20)
	addBot(w, "prey", ProfileCautious, WorldCenterX+200, WorldCenterY+200, 0)
	peer := addBot(w, "peer", ProfileCautious, WorldCenterX-200, WorldCenterY-200, 0)
	growTo(peer, 20)
	w.RebuildGrid()

	ta := assessTargets(self, self.Profile, w.Snapshot(), w)
	if len(ta.Opponents) != 1 || ta.Opponents[0].Actor.ID != "prey" {
		t.Fatalf("expected only the smaller snake as prey, got %+v", ta.Opponents)
	}
	if ta.Opponents[0].SizeRatio != 2 {
		t.Fatalf("expected size ratio 2, got %.2f", ta.Opponents[0].SizeRatio)
	}
}

func TestPickupTargetsSortedAndFiltered(t *testing.T) {
	w := newTestWorld(t, 1)
	self := addBot(w, "self", ProfileComboFocused, WorldCenterX, WorldCenterY, 0)
	far := w.SpawnElementAt(WorldCenterX+300, WorldCenterY, 1)
	near := w.SpawnElementAt(WorldCenterX, WorldCenterY+100, 2)
	w.SpawnElementAt(WorldCenterX+600, WorldCenterY, 3)
	orb := w.SpawnVoidOrbAt(WorldCenterX-250, WorldCenterY)
	w.SpawnVoidOrbAt(WorldCenterX, WorldCenterY-400)
	w.RebuildGrid()

	ta := assessTargets(self, self.Profile, w.Snapshot(), w)
	if len(ta.Elements) != 2 || ta.Elements[0].PickupID != near.ID || ta.Elements[1].PickupID != far.ID {
		t.Fatalf("expected [near far] elements, got %+v", ta.Elements)
	}
	if ta.Elements[0].Element != 2 || ta.Elements[0].Kind != TargetElement {
		t.Fatalf("unexpected element target %+v", ta.Elements[0])
	}
	if len(ta.VoidOrbs) != 1 || ta.VoidOrbs[0].PickupID != orb.ID {
		t.Fatalf("expected only the close void orb, got %+v", ta.VoidOrbs)
	}
}
