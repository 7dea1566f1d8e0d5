package main

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Session is one player's private game: a world with a single player snake and its AI rivals,
// driven by its own ticker. Nothing in a session is shared with other sessions except the
// content table (read-only) and the discovery ledger.
type Session struct {
	conn     *Conn
	world    *World
	loop     *GameLoop
	ledger   *DiscoveryLedger
	tickRate int
	color    string
	logger   log.Logger
}

// NewSession builds the world for conn. A zero seed seeds the RNG from the clock.
func NewSession(conn *Conn, content TableSource, ledger *DiscoveryLedger, cfg Config) *Session {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	world := NewWorld(content.Table(), rng, cfg.BankCapacity)
	world.SetTableSource(content)

	return &Session{
		conn:     conn,
		world:    world,
		loop:     NewGameLoop(world, cfg.BotCount),
		ledger:   ledger,
		tickRate: cfg.TickRate,
		color:    PlayerColors[rng.Intn(len(PlayerColors))],
		logger:   log.With(logger, "session", conn.ID),
	}
}

// Run starts the fixed-timestep loop. Blocks until ctx is cancelled.
func (s *Session) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(s.tickRate))
	defer ticker.Stop()
	level.Info(s.logger).Log("msg", "session started", "tick_rate", s.tickRate, "bots", s.loop.bots.Len())

	for {
		select {
		case <-ctx.Done():
			level.Info(s.logger).Log("msg", "session ended", "ticks", s.world.Tick)
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick applies a pending join, advances the world one step and sends the frame.
func (s *Session) tick() {
	if req, ok := s.conn.takeJoin(); ok {
		s.join(req)
	}

	events := s.loop.Step(s.conn.GetInput())
	player := s.loop.Player()

	var visible []Event
	for _, ev := range events {
		mine := player != nil && ev.ActorID == player.ID
		if ev.Kind == EventDiscover && mine {
			if s.ledger.Record(ev.Result, ev.ActorName) {
				level.Info(s.logger).Log("msg", "server first discovery", "element", ev.Result, "by", ev.ActorName)
			}
		}
		if ev.Kind == EventDied && mine {
			if err := s.conn.Send(DeathMsg{
				Type:        MsgDeath,
				Killer:      ev.Cause,
				Score:       player.Score,
				Discoveries: player.Discoveries,
			}); err != nil {
				level.Debug(s.logger).Log("msg", "send error", "type", MsgDeath, "err", err)
			}
		}
		if mine || ev.Kind == EventDied {
			visible = append(visible, ev)
		}
	}

	if err := s.conn.Send(s.state(visible)); err != nil {
		level.Debug(s.logger).Log("msg", "send error", "type", MsgState, "err", err)
	}
}

// join spawns (or respawns) the player snake. The discovered set carries over.
func (s *Session) join(req joinRequest) {
	p := s.loop.SpawnPlayer(s.conn.ID, req.name, s.color)
	level.Info(s.logger).Log("msg", "player joined", "name", req.name, "respawn", req.respawn, "discoveries", p.Discoveries)
}

// state builds the viewport-culled frame for the session's viewer.
func (s *Session) state(events []Event) StateMsg {
	w := s.world
	cx, cy := WorldCenterX, WorldCenterY
	msg := StateMsg{
		Type:        MsgState,
		Tick:        w.Tick,
		Leaderboard: w.Leaderboard(),
		Events:      events,
	}
	if p := s.loop.Player(); p != nil {
		head := p.Head()
		cx, cy = head.X, head.Y
		self := p.SelfDTO()
		msg.Self = &self
	}
	msg.Snakes = w.SnakesInViewport(cx, cy)
	msg.Pickups = w.PickupsInViewport(cx, cy)
	return msg
}

// SessionManager tracks all active sessions
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionManager creates an empty session manager
func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session)}
}

// Add registers a session under its connection id
func (m *SessionManager) Add(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.conn.ID] = s
}

// Remove unregisters a session
func (m *SessionManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Count returns the number of active sessions
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
