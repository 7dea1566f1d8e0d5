package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Game configuration constants
const (
	// Server
	DefaultAddr      = ":8080"
	DefaultStaticDir = "client"
	DefaultDataDir   = "data"
	WebSocketPath    = "/ws"
	AdminPrefix      = "/admin/api"
	MaxSessions      = 64
	IPCooldownSec    = 3
	MaxNameLength    = 20

	// World: circular arena, one per session. Boundary is death (not wrap).
	WorldCenterX = 3000.0
	WorldCenterY = 3000.0
	WorldRadius  = 3000.0
	// SpawnMargin keeps snakes away from the circular boundary on spawn
	SpawnMargin = 400.0

	// Game loop
	DefaultTickRate = 20 // ticks per second

	// Snake
	SnakeNormalSpeed    = 3.0  // px per tick
	SnakeBoostSpeed     = 5.5  // px per tick
	SnakeInitSegments   = 10   // starting segments
	SnakeSegmentSpacing = 8.0  // px between segments
	SnakeHeadRadius     = 10.0 // collision radius for head
	SnakeBodyRadius     = 8.0  // collision radius for body segments
	// TurnSpeed is the max radians per tick at strength 1.
	TurnSpeed = 0.12
	// Player turn strength shrinks with size: 1 / (1 + segments * TurnScaleFactor)
	SnakeTurnScaleFactor = 0.004
	GrowthPerElement     = 2  // segments gained per element pickup
	ElementPickupScore   = 10 // score per element pickup
	DeathAnimationTicks  = 20 // dead snakes linger this long before removal

	// Stamina
	StaminaMax             = 100.0
	StaminaDrainPerTick    = 2.0
	StaminaRegenPerTick    = 1.0
	StaminaRegenDelayTicks = 20 // ticks after boost ends before regen starts

	// Element bank
	DefaultBankCapacity   = 6
	MaxChainDepth         = 3
	CombineRevealTicks    = 6 // 300ms at 20 tps
	DiscoveryBonus        = 500
	DigestBonusPerElement = 50

	// Pickups
	TargetElementCount   = 350
	ElementSpawnPerTick  = 25
	ElementRadius        = 8.0
	AdvancedSpawnChance  = 0.05 // chance a spawn is an already-discovered element
	VoidOrbRadius        = 12.0
	VoidOrbMaxCount      = 4
	VoidOrbSpawnInterval = 200 // ticks
	DeathDropScatter     = 20.0

	// Viewport
	ViewportWidth  = 1536.0
	ViewportHeight = 864.0
	ViewportBuffer = 200.0

	// Spatial grid covers the bounding square of the circular world
	GridCellSize = 200.0

	// Leaderboard
	LeaderboardSize = 10

	// Collision
	CollisionCheckRadius = 20.0

	// Bot AI
	DefaultBotCount       = 12
	BotRespawnDelay       = 100   // ticks before respawning a dead bot
	BorderEmergencyMargin = 250.0 // px from the boundary that triggers panic
	PanicTicks            = 30
	PersistentTargetTicks = 500
	ElementSeekRadius     = 500.0
	VoidOrbSeekRadius     = 300.0
	WanderCenterFraction  = 0.4
	WanderDrift           = 0.2 // max random heading drift per tick while wandering
	EncircleMinLength     = 25
	EncircleBaseRadius    = 40.0
	EncirclePredictTicks  = 30
	RamMaxDistance        = 300.0
	CutoffMaxDistance     = 400.0
	CutoffMinSizeRatio    = 1.1
	CutoffHeadOnOffset    = 20.0
	IntimidateFeintRange  = 150.0
	IntimidateOrbitRange  = 300.0
	BalancedHuntRange     = 400.0
	BalancedHuntSizeRatio = 1.5
	CautiousCollectRange  = 250.0
)

// ComboStreakBonus is the repeat-combination bonus indexed by streak-1, capped at the last entry.
var ComboStreakBonus = [...]int{100, 500, 1000, 2500}

// Player colors palette
var PlayerColors = []string{
	"#e74c3c", "#3498db", "#2ecc71", "#f39c12", "#9b59b6",
	"#1abc9c", "#e67e22", "#e91e63", "#00bcd4", "#8bc34a",
	"#ff5722", "#607d8b", "#795548", "#673ab7", "#03a9f4",
}

// Config holds runtime settings read from the environment (and an optional .env file).
type Config struct {
	Addr         string
	StaticDir    string
	DataDir      string
	BotCount     int
	BankCapacity int
	TickRate     int
	AdminToken   string
	LogLevel     string
	Seed         int64 // 0 = seed from the clock per session
}

// LoadConfig reads .env (if present) and then the process environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return configFromEnv(os.Getenv)
}

func configFromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Addr:         envString(getenv, "SNAKE_ADDR", DefaultAddr),
		StaticDir:    envString(getenv, "SNAKE_STATIC_DIR", DefaultStaticDir),
		DataDir:      envString(getenv, "SNAKE_DATA_DIR", DefaultDataDir),
		AdminToken:   getenv("SNAKE_ADMIN_TOKEN"),
		LogLevel:     strings.ToLower(envString(getenv, "LOG_LEVEL", "info")),
		BotCount:     DefaultBotCount,
		BankCapacity: DefaultBankCapacity,
		TickRate:     DefaultTickRate,
	}

	var err error
	if cfg.BotCount, err = envInt(getenv, "SNAKE_BOT_COUNT", DefaultBotCount); err != nil {
		return Config{}, err
	}
	if cfg.BankCapacity, err = envInt(getenv, "SNAKE_BANK_CAPACITY", DefaultBankCapacity); err != nil {
		return Config{}, err
	}
	if cfg.TickRate, err = envInt(getenv, "SNAKE_TICK_RATE", DefaultTickRate); err != nil {
		return Config{}, err
	}
	if v := getenv("SNAKE_SEED"); v != "" {
		if cfg.Seed, err = strconv.ParseInt(v, 10, 64); err != nil {
			return Config{}, fmt.Errorf("SNAKE_SEED: %w", err)
		}
	}

	switch {
	case cfg.BotCount < 0:
		return Config{}, fmt.Errorf("SNAKE_BOT_COUNT must be >= 0, got %d", cfg.BotCount)
	case cfg.BankCapacity < 2:
		return Config{}, fmt.Errorf("SNAKE_BANK_CAPACITY must be >= 2, got %d", cfg.BankCapacity)
	case cfg.TickRate <= 0 || cfg.TickRate > 120:
		return Config{}, fmt.Errorf("SNAKE_TICK_RATE must be in 1..120, got %d", cfg.TickRate)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return Config{}, fmt.Errorf("LOG_LEVEL %q is not one of debug|info|warn|error", cfg.LogLevel)
	}
	return cfg, nil
}

func envString(getenv func(string) string, key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(getenv func(string) string, key string, def int) (int, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
