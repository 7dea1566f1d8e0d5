package main

import (
	"math"
	"math/rand"
	"sort"
)

// TableSource yields the current combination table; the content store implements it.
type TableSource interface {
	Table() *ElementTable
}

// World is the simulation context for one game session: live actors, pickups, the read-only
// combination table, the RNG and the tick clock. It is owned by a single goroutine (the
// session loop) and is never shared, so it carries no lock.
type World struct {
	Snakes  []*Snake // stable insertion order keeps updates deterministic
	Pickups map[string]*Pickup
	Grid    *SpatialGrid
	Table   *ElementTable

	Tick     uint64
	Events   EventBuffer
	Deferred DeferredQueue

	// Discovered is the session-wide discovered set, separate from each actor's.
	Discovered      map[ElementID]bool
	discoveredOrder []ElementID

	tables       TableSource
	rng          *rand.Rand
	bankCapacity int
	pickupSeq    int
}

// NewWorld creates an empty world. Pickups are not spawned until MaintainPickups runs.
func NewWorld(table *ElementTable, rng *rand.Rand, bankCapacity int) *World {
	if bankCapacity < 2 {
		bankCapacity = DefaultBankCapacity
	}
	return &World{
		Pickups:      make(map[string]*Pickup),
		Grid:         NewSpatialGrid(GridCellSize),
		Table:        table,
		Discovered:   make(map[ElementID]bool),
		rng:          rng,
		bankCapacity: bankCapacity,
	}
}

// SetTableSource makes the world pick up republished tables at tick boundaries.
func (w *World) SetTableSource(src TableSource) {
	w.tables = src
}

// refreshTable swaps in the latest table; only called between ticks.
func (w *World) refreshTable() {
	if w.tables == nil {
		return
	}
	if t := w.tables.Table(); t != nil {
		w.Table = t
	}
}

// SpawnSnake creates a snake at a random point inside the spawn radius and adds it.
func (w *World) SpawnSnake(id, name, color string, isPlayer bool, kind ProfileKind) *Snake {
	x, y := randomCirclePoint(w.rng, WorldCenterX, WorldCenterY, WorldRadius-SpawnMargin)
	angle := w.rng.Float64() * 2 * math.Pi
	s := NewSnake(id, name, color, x, y, angle)
	s.IsPlayer = isPlayer
	s.Profile = ProfileFor(kind)
	s.BankCapacity = w.bankCapacity
	w.AddSnake(s)
	return s
}

// AddSnake adds a snake to the world
func (w *World) AddSnake(s *Snake) {
	w.Snakes = append(w.Snakes, s)
}

// SnakeByID returns the snake with id, or nil.
func (w *World) SnakeByID(id string) *Snake {
	for _, s := range w.Snakes {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// RemoveSnake removes a snake
func (w *World) RemoveSnake(id string) {
	for i, s := range w.Snakes {
		if s.ID == id {
			w.Snakes = append(w.Snakes[:i], w.Snakes[i+1:]...)
			return
		}
	}
}

// RemovePickup removes a pickup by ID
func (w *World) RemovePickup(id string) {
	delete(w.Pickups, id)
}

// Snapshot captures every live snake as an immutable view. AI reads only these views during
// a tick, never another snake's post-move state.
func (w *World) Snapshot() []ActorView {
	views := make([]ActorView, 0, len(w.Snakes))
	for _, s := range w.Snakes {
		if s.Alive {
			views = append(views, viewOf(s))
		}
	}
	return views
}

// RebuildGrid rebuilds the spatial grid from current state
func (w *World) RebuildGrid() {
	w.Grid.Clear()
	for _, p := range w.Pickups {
		w.Grid.InsertPickup(p)
	}
	for _, s := range w.Snakes {
		if s.Alive {
			w.Grid.InsertSnakeBody(s)
		}
	}
}

// markWorldDiscovery records id in the session-wide set; true if it was new.
func (w *World) markWorldDiscovery(id ElementID) bool {
	if w.Discovered[id] {
		return false
	}
	w.Discovered[id] = true
	w.discoveredOrder = append(w.discoveredOrder, id)
	return true
}

// Leaderboard returns the top N live snakes sorted by score
func (w *World) Leaderboard() []LeaderboardEntry {
	snakes := make([]*Snake, 0, len(w.Snakes))
	for _, s := range w.Snakes {
		if s.Alive {
			snakes = append(snakes, s)
		}
	}
	sort.SliceStable(snakes, func(i, j int) bool {
		return snakes[i].Score > snakes[j].Score
	})
	if len(snakes) > LeaderboardSize {
		snakes = snakes[:LeaderboardSize]
	}
	entries := make([]LeaderboardEntry, len(snakes))
	for i, s := range snakes {
		entries[i] = LeaderboardEntry{ID: s.ID, Name: s.Name, Score: s.Score, Discoveries: s.Discoveries}
	}
	return entries
}

// SnakesInViewport returns DTOs for live and dying snakes visible from a viewport centered on (cx,cy)
func (w *World) SnakesInViewport(cx, cy float64) []SnakeDTO {
	halfW := ViewportWidth/2 + ViewportBuffer
	halfH := ViewportHeight/2 + ViewportBuffer
	minX := cx - halfW
	maxX := cx + halfW
	minY := cy - halfH
	maxY := cy + halfH

	result := []SnakeDTO{}
	for _, s := range w.Snakes {
		// Check if ANY segment is in viewport (not just head)
		for _, seg := range s.Segments {
			if seg.X >= minX && seg.X <= maxX && seg.Y >= minY && seg.Y <= maxY {
				result = append(result, s.ToDTO(0))
				break
			}
		}
	}
	return result
}

// PickupsInViewport returns pickup DTOs visible from viewport centered on (cx,cy)
func (w *World) PickupsInViewport(cx, cy float64) []PickupDTO {
	halfW := ViewportWidth/2 + ViewportBuffer
	halfH := ViewportHeight/2 + ViewportBuffer
	return w.Grid.PickupsInViewport(w.Pickups, cx-halfW, cy-halfH, halfW*2, halfH*2)
}
