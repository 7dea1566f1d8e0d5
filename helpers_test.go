package main

import (
	"bytes"
	"math/rand"
	"testing"
)

// testTable is a small recipe book:
//
//	Fire(1)+Water(2)=Steam(10)  Fire(1)+Earth(3)=Lava(11)  Steam(10)+Air(4)=Cloud(20)
//	Cloud(20)+Lava(11)=Storm(30)  Water(2)+Earth(3)=Ghost(99, not an element)
func testTable() *ElementTable {
	elements := []Element{
		{ID: 1, Name: "Fire", Tier: 0},
		{ID: 2, Name: "Water", Tier: 0},
		{ID: 3, Name: "Earth", Tier: 0},
		{ID: 4, Name: "Air", Tier: 0},
		{ID: 10, Name: "Steam", Tier: 1},
		{ID: 11, Name: "Lava", Tier: 1},
		{ID: 20, Name: "Cloud", Tier: 2},
		{ID: 30, Name: "Storm", Tier: 3},
	}
	combos := map[string]ElementID{
		"1+2":   10,
		"3+1":   11,
		"10+4":  20,
		"20+11": 30,
		"2+3":   99,
	}
	return NewElementTable(elements, combos)
}

func newTestWorld(t *testing.T, seed int64) *World {
	t.Helper()
	return NewWorld(testTable(), rand.New(rand.NewSource(seed)), DefaultBankCapacity)
}

// addPlayer places a player snake at (x, y) heading along angle.
func addPlayer(w *World, x, y, angle float64) *Snake {
	s := NewSnake("player", "Player", "#fff", x, y, angle)
	s.IsPlayer = true
	s.BankCapacity = w.bankCapacity
	w.AddSnake(s)
	return s
}

// addBot places an AI snake with the given profile at (x, y).
func addBot(w *World, id string, kind ProfileKind, x, y, angle float64) *Snake {
	s := NewSnake(id, id, "#000", x, y, angle)
	s.Profile = ProfileFor(kind)
	s.BankCapacity = w.bankCapacity
	w.AddSnake(s)
	return s
}

// growTo pads s with tail segments until it has n segments.
func growTo(s *Snake, n int) {
	if d := n - s.Length(); d > 0 {
		s.Grow(d)
	}
}

func eventsOfKind(events []Event, kind EventKind) []Event {
	var out []Event
	for _, e := range events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func sameBank(a, b []ElementID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// captureLogs routes the package logger into a buffer at debug level for the test's duration.
// Components derive their loggers at construction, so call it before building them.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	l, err := newLogger(&buf, "debug")
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	prev := logger
	logger = l
	t.Cleanup(func() { logger = prev })
	return &buf
}
