package main

import (
	"math"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// PlayerInput holds the latest input from a client
type PlayerInput struct {
	Angle float64
	Boost bool
}

// GameLoop advances one world by whole ticks. It has no clock of its own; the session drives
// Step from its ticker and tests call it directly.
type GameLoop struct {
	world  *World
	bots   *BotManager
	player *Snake
	logger log.Logger
}

// NewGameLoop creates a game loop bound to world and pre-populates botCount bots.
func NewGameLoop(world *World, botCount int) *GameLoop {
	bm := NewBotManager(world, botCount)
	for i := 0; i < botCount; i++ {
		bm.SpawnBot()
	}
	world.MaintainPickups()
	return &GameLoop{
		world:  world,
		bots:   bm,
		logger: log.With(logger, "component", "loop"),
	}
}

// SpawnPlayer (re)creates the player snake. Discoveries survive a respawn; bank and score do not.
func (gl *GameLoop) SpawnPlayer(id, name, color string) *Snake {
	w := gl.world
	var discovered map[ElementID]bool
	discoveries := 0
	if old := gl.player; old != nil {
		discovered, discoveries = old.Discovered, old.Discoveries
		if old.Alive {
			w.dropRemains(old)
		}
		w.RemoveSnake(old.ID)
	}
	s := w.SpawnSnake(id, name, color, true, ProfileNone)
	if discovered != nil {
		s.Discovered, s.Discoveries = discovered, discoveries
	}
	gl.player = s
	return s
}

// Player returns the player snake, or nil before the first join.
func (gl *GameLoop) Player() *Snake {
	return gl.player
}

// Step executes a single tick and returns the events it produced.
func (gl *GameLoop) Step(input PlayerInput) []Event {
	w := gl.world
	w.Tick++
	w.refreshTable()

	// 1. Snapshot pre-tick state; the grid keeps pre-move positions for AI queries
	snapshot := w.Snapshot()
	w.RebuildGrid()

	// 2. Bots assess, decide, steer and move
	gl.bots.Update(snapshot)

	// 3. Player input
	if p := gl.player; p != nil && p.Alive {
		p.turnTowardsAngle(input.Angle, playerTurnStrength(p.Length()))
		p.ApplyBoost(input.Boost, w.Tick)
		if p.Move() {
			p.Kill("Boundary", w.Tick)
		}
	}

	// 4. Rebuild grid after movement, then collisions
	w.RebuildGrid()
	deaths := gl.detectCollisions()

	// 5. Deaths; boundary deaths were marked during movement
	for _, s := range w.Snakes {
		if !s.Alive && s.DiedAt == w.Tick && s.DeathCause == "Boundary" {
			gl.processDeath(s)
		}
	}
	for _, s := range w.Snakes {
		if killer, ok := deaths[s.ID]; ok && s.Alive {
			s.Kill(killer, w.Tick)
			gl.processDeath(s)
		}
	}
	gl.bots.HandleDeaths()
	if p := gl.player; p != nil && !p.Alive && w.Tick-p.DiedAt >= DeathAnimationTicks {
		w.RemoveSnake(p.ID)
	}

	// 6. Pickups feed the bank
	w.RebuildGrid()
	gl.collectPickups()

	// 7. Delayed effects due this tick
	w.Deferred.Advance(w.Tick)

	// 8. Upkeep
	w.MaintainPickups()
	gl.bots.MaintainBotCount()

	return w.Events.Drain()
}

// processDeath drops the snake's remains and emits the death signal.
func (gl *GameLoop) processDeath(s *Snake) {
	w := gl.world
	dropped := w.dropRemains(s)
	w.Events.Emit(Event{Kind: EventDied, Tick: w.Tick, ActorID: s.ID, ActorName: s.Name, Cause: s.DeathCause, Slot: -1})
	level.Info(gl.logger).Log("msg", "snake died", "snake", s.Name, "id", s.ID, "cause", s.DeathCause, "dropped", dropped, "score", s.Score)
}

// detectCollisions checks head-to-body and head-to-head collisions.
// Returns map of victimID -> killerName.
func (gl *GameLoop) detectCollisions() map[string]string {
	w := gl.world
	deaths := map[string]string{}

	aliveSnakes := make([]*Snake, 0, len(w.Snakes))
	for _, s := range w.Snakes {
		if s.Alive {
			aliveSnakes = append(aliveSnakes, s)
		}
	}

	for _, snake := range aliveSnakes {
		head := snake.Head()

		// Head vs body of other snakes
		nearby := w.Grid.NearbySnakeBody(head.X, head.Y, CollisionCheckRadius, snake.ID)
		for _, entry := range nearby {
			other := w.SnakeByID(entry.snakeID)
			if other == nil || !other.Alive {
				continue
			}
			dist := math.Hypot(head.X-entry.x, head.Y-entry.y)
			if dist < SnakeHeadRadius+SnakeBodyRadius {
				if _, alreadyDead := deaths[snake.ID]; !alreadyDead {
					deaths[snake.ID] = other.Name
				}
			}
		}
	}

	// Head-to-head: check all pairs
	for i := 0; i < len(aliveSnakes); i++ {
		for j := i + 1; j < len(aliveSnakes); j++ {
			a := aliveSnakes[i]
			b := aliveSnakes[j]
			if _, dead := deaths[a.ID]; dead {
				continue
			}
			if _, dead := deaths[b.ID]; dead {
				continue
			}
			ha := a.Head()
			hb := b.Head()
			if math.Hypot(ha.X-hb.X, ha.Y-hb.Y) < SnakeHeadRadius*2 {
				// Shorter snake dies; if equal both die
				if a.Length() >= b.Length() {
					deaths[b.ID] = a.Name
				}
				if b.Length() >= a.Length() {
					deaths[a.ID] = b.Name
				}
			}
		}
	}

	return deaths
}

// collectPickups lets each live snake eat pickups within reach of its head.
func (gl *GameLoop) collectPickups() {
	w := gl.world
	for _, snake := range w.Snakes {
		if !snake.Alive {
			continue
		}
		head := snake.Head()
		for _, pid := range w.Grid.NearbyPickups(head.X, head.Y, SnakeHeadRadius+VoidOrbRadius) {
			p, ok := w.Pickups[pid]
			if !ok || p.DistanceTo(head.X, head.Y) > SnakeHeadRadius+p.Radius() {
				continue
			}
			w.RemovePickup(pid)
			switch p.Kind {
			case PickupVoidOrb:
				w.Digest(snake)
			case PickupElement:
				snake.Grow(GrowthPerElement)
				snake.Score += ElementPickupScore
				w.CollectElement(snake, p.Element)
			}
		}
	}
}
