package main

import (
	"math"
	"sort"
)

// cellKey uniquely identifies a grid cell
type cellKey struct {
	cx, cy int
}

// gridEntry holds a reference to a pickup or snake segment in a cell
type gridEntry struct {
	pickupID string
	snakeID  string
	segIdx   int
	x, y     float64
}

// SpatialGrid is a hash grid for fast proximity queries. Entries are copies of positions at
// insertion time, so a grid built before movement keeps answering with pre-move positions.
type SpatialGrid struct {
	cells    map[cellKey][]gridEntry
	cellSize float64
}

// NewSpatialGrid creates an empty spatial grid
func NewSpatialGrid(cellSize float64) *SpatialGrid {
	return &SpatialGrid{
		cells:    make(map[cellKey][]gridEntry),
		cellSize: cellSize,
	}
}

// Clear resets all cells
func (g *SpatialGrid) Clear() {
	clear(g.cells)
}

func (g *SpatialGrid) keyFor(x, y float64) cellKey {
	return cellKey{
		cx: int(math.Floor(x / g.cellSize)),
		cy: int(math.Floor(y / g.cellSize)),
	}
}

// InsertPickup adds a pickup to the grid
func (g *SpatialGrid) InsertPickup(p *Pickup) {
	k := g.keyFor(p.X, p.Y)
	g.cells[k] = append(g.cells[k], gridEntry{pickupID: p.ID, x: p.X, y: p.Y})
}

// InsertSnakeBody adds snake body segments (skipping head) to the grid
func (g *SpatialGrid) InsertSnakeBody(s *Snake) {
	// Start from index 1 to skip head (head checked separately)
	for i := 1; i < len(s.Segments); i++ {
		seg := s.Segments[i]
		k := g.keyFor(seg.X, seg.Y)
		g.cells[k] = append(g.cells[k], gridEntry{
			snakeID: s.ID,
			segIdx:  i,
			x:       seg.X,
			y:       seg.Y,
		})
	}
}

// NearbyPickups returns pickup IDs within radius of (x,y), sorted for stable iteration.
func (g *SpatialGrid) NearbyPickups(x, y, radius float64) []string {
	results := []string{}
	g.visit(x, y, radius, func(e gridEntry) {
		if e.pickupID != "" {
			results = append(results, e.pickupID)
		}
	})
	sort.Strings(results)
	return results
}

// NearbySnakeBody returns body segments within radius of (x,y),
// excluding the snake identified by excludeID
func (g *SpatialGrid) NearbySnakeBody(x, y, radius float64, excludeID string) []gridEntry {
	results := []gridEntry{}
	g.visit(x, y, radius, func(e gridEntry) {
		if e.snakeID != "" && e.snakeID != excludeID {
			results = append(results, e)
		}
	})
	return results
}

func (g *SpatialGrid) visit(x, y, radius float64, fn func(gridEntry)) {
	minCX := int(math.Floor((x - radius) / g.cellSize))
	maxCX := int(math.Floor((x + radius) / g.cellSize))
	minCY := int(math.Floor((y - radius) / g.cellSize))
	maxCY := int(math.Floor((y + radius) / g.cellSize))

	r2 := radius * radius
	for cx := minCX; cx <= maxCX; cx++ {
		for cy := minCY; cy <= maxCY; cy++ {
			for _, e := range g.cells[cellKey{cx, cy}] {
				dx := e.x - x
				dy := e.y - y
				if dx*dx+dy*dy <= r2 {
					fn(e)
				}
			}
		}
	}
}

// PickupsInViewport returns pickups that fall within the given viewport rectangle
func (g *SpatialGrid) PickupsInViewport(pickups map[string]*Pickup, vx, vy, vw, vh float64) []PickupDTO {
	result := []PickupDTO{}
	minCX := int(math.Floor(vx / g.cellSize))
	maxCX := int(math.Floor((vx + vw) / g.cellSize))
	minCY := int(math.Floor(vy / g.cellSize))
	maxCY := int(math.Floor((vy + vh) / g.cellSize))

	for cx := minCX; cx <= maxCX; cx++ {
		for cy := minCY; cy <= maxCY; cy++ {
			for _, e := range g.cells[cellKey{cx, cy}] {
				if e.pickupID == "" {
					continue
				}
				if p, ok := pickups[e.pickupID]; ok {
					result = append(result, p.ToDTO())
				}
			}
		}
	}
	return result
}
