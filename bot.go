package main

import (
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
)

// botNames is the pool of names for AI bots
var botNames = []string{
	"Ouroboros", "Quetzal", "Jormungandr", "Basilisk", "Naga",
	"Hydra", "Wyrm", "Lindworm", "Amphisbaena", "Kaa",
	"Mamba", "Cobra", "Viper", "Python", "Anaconda",
	"Sidewinder", "Taipan", "Krait", "Boomslang", "Copperhead",
}

// Bot tracks per-bot AI state
type Bot struct {
	ID        string
	mem       aiMemory
	respawnIn int // countdown ticks before respawning (0 = alive or ready)
}

// BotManager manages all AI bot snakes in one world
type BotManager struct {
	world    *World
	bots     map[string]*Bot
	order    []string // spawn order, for deterministic updates
	count    int      // bots to maintain
	nameSeq  int
	logger   log.Logger
	newBotID func() string
}

// NewBotManager creates a BotManager bound to the given world
func NewBotManager(world *World, count int) *BotManager {
	return &BotManager{
		world:    world,
		bots:     make(map[string]*Bot),
		count:    count,
		logger:   log.With(logger, "component", "bots"),
		newBotID: func() string { return "bot-" + uuid.NewString() },
	}
}

// SpawnBot creates a new bot snake with a random profile and registers it in the world.
func (bm *BotManager) SpawnBot() *Snake {
	w := bm.world
	id := bm.newBotID()
	name := botNames[bm.nameSeq%len(botNames)]
	bm.nameSeq++
	color := PlayerColors[w.rng.Intn(len(PlayerColors))]
	kind := botProfiles[w.rng.Intn(len(botProfiles))]

	snake := w.SpawnSnake(id, name, color, false, kind)
	bm.bots[id] = &Bot{ID: id, mem: aiMemory{orbitDir: 1}}
	bm.order = append(bm.order, id)
	level.Debug(bm.logger).Log("msg", "bot spawned", "id", id, "name", name, "profile", kind)
	return snake
}

// Update runs AI logic for every live bot against the pre-tick snapshot: assess, decide,
// steer, boost, move.
func (bm *BotManager) Update(snapshot []ActorView) {
	w := bm.world
	for _, id := range bm.order {
		bot := bm.bots[id]
		snake := w.SnakeByID(id)
		if snake == nil || !snake.Alive {
			continue
		}

		d := w.think(snake, &bot.mem, snapshot)
		if d.Action == ActionNone {
			continue
		}
		heading := headingFor(d, snake, &bot.mem, w.Tick)
		level.Debug(bm.logger).Log("msg", "bot decision", "bot", id, "tick", w.Tick, "action", d.Action, "target", d.Target.Actor.ID, "heading", heading, "boost", d.Boost)
		snake.turnTowardsAngle(heading, d.Strength)
		snake.ApplyBoost(d.Boost, w.Tick)
		if snake.Move() {
			snake.Kill("Boundary", w.Tick)
		}
	}
}

// HandleDeaths starts the respawn countdown for bots that died and removes their bodies once
// the death animation has played.
func (bm *BotManager) HandleDeaths() {
	w := bm.world
	for _, id := range bm.order {
		bot := bm.bots[id]
		snake := w.SnakeByID(id)
		if snake != nil && snake.Alive {
			continue
		}
		if bot.respawnIn == 0 {
			// Start countdown only once
			bot.respawnIn = BotRespawnDelay
		}
		if snake != nil && w.Tick-snake.DiedAt >= DeathAnimationTicks {
			w.RemoveSnake(id)
		}
	}
}

// tickRespawns decrements respawn counters and replaces bots whose countdown finished.
func (bm *BotManager) tickRespawns() {
	var toRespawn []string
	for _, id := range bm.order {
		bot := bm.bots[id]
		if bot.respawnIn <= 0 {
			continue
		}
		bot.respawnIn--
		if bot.respawnIn == 0 {
			toRespawn = append(toRespawn, id)
		}
	}
	for _, oldID := range toRespawn {
		bm.world.RemoveSnake(oldID)
		bm.remove(oldID)
		bm.SpawnBot()
	}
}

func (bm *BotManager) remove(id string) {
	delete(bm.bots, id)
	for i, v := range bm.order {
		if v == id {
			bm.order = append(bm.order[:i], bm.order[i+1:]...)
			return
		}
	}
}

// MaintainBotCount ensures the configured number of bots exist (alive + in-respawn).
func (bm *BotManager) MaintainBotCount() {
	// tickRespawns first so dead bots count correctly
	bm.tickRespawns()

	if len(bm.bots) < bm.count {
		bm.SpawnBot()
	}
}

// Len returns the number of managed bots.
func (bm *BotManager) Len() int {
	return len(bm.bots)
}
