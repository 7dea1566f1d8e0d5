package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log/level"
	"github.com/gorilla/websocket"
)

// ipRateLimiter tracks last connection time per IP to prevent abuse
type ipRateLimiter struct {
	mu       sync.Mutex
	times    map[string]time.Time
	cooldown time.Duration
	now      func() time.Time
}

func newIPRateLimiter(cooldown time.Duration) *ipRateLimiter {
	return &ipRateLimiter{
		times:    make(map[string]time.Time),
		cooldown: cooldown,
		now:      time.Now,
	}
}

// run drops stale entries every minute until ctx is cancelled.
func (rl *ipRateLimiter) run(ctx context.Context) {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

func (rl *ipRateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := rl.now().Add(-rl.cooldown)
	for ip, t := range rl.times {
		if t.Before(cutoff) {
			delete(rl.times, ip)
		}
	}
}

// allow returns true if this IP can connect, and records the attempt
func (rl *ipRateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	if last, ok := rl.times[ip]; ok && now.Sub(last) < rl.cooldown {
		return false
	}
	rl.times[ip] = now
	return true
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for development; tighten in production
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Enable per-message deflate compression (RFC 7692)
	EnableCompression: true,
}

// sendErrorAndClose sends an error message via WebSocket then closes the connection
func sendErrorAndClose(ws *websocket.Conn, codec Codec, msg string) {
	if data, err := codec.Marshal(ErrorMsg{Type: MsgError, Message: msg}); err == nil {
		if err := ws.WriteMessage(codec.FrameType(), data); err != nil {
			level.Debug(logger).Log("msg", "send error", "type", MsgError, "err", err)
		}
	}
	ws.Close()
}

// server bundles what the HTTP handlers share.
type server struct {
	cfg      Config
	content  *ContentStore
	ledger   *DiscoveryLedger
	sessions *SessionManager
	limiter  *ipRateLimiter
	baseCtx  context.Context
}

// handleWebSocket upgrades the request and runs one session until the client disconnects.
func (s *server) handleWebSocket(c *gin.Context) {
	r := c.Request
	// Extract client IP (handle X-Forwarded-For for reverse proxies)
	ip := c.ClientIP()
	if ip == "" {
		ip, _, _ = net.SplitHostPort(r.RemoteAddr)
	}
	codec := codecFor(c.Query("codec"))

	ws, err := upgrader.Upgrade(c.Writer, r, nil)
	if err != nil {
		level.Warn(logger).Log("msg", "ws upgrade failed", "err", err)
		return
	}

	// Check limits after upgrade so client can receive error messages
	if s.sessions.Count() >= MaxSessions {
		sendErrorAndClose(ws, codec, "Server full. Please try again later.")
		return
	}
	if !s.limiter.allow(ip) {
		sendErrorAndClose(ws, codec, fmt.Sprintf("Too many connections. Please wait %d seconds.", IPCooldownSec))
		return
	}

	// Enable per-message write compression at best-speed level
	ws.EnableWriteCompression(true)

	conn := NewConn(ws, codec)
	sess := NewSession(conn, s.content, s.ledger, s.cfg)
	s.sessions.Add(sess)
	level.Info(logger).Log("msg", "player connected", "conn", conn.ID, "ip", ip, "codec", codec.Name())

	// Send welcome immediately so client knows its ID, the world and the element catalog
	if err := conn.Send(WelcomeMsg{
		Type:         MsgWelcome,
		ID:           conn.ID,
		WorldRadius:  WorldRadius,
		Color:        sess.color,
		BankCapacity: s.cfg.BankCapacity,
		Elements:     s.content.Elements(),
		Emojis:       s.content.Emojis(),
	}); err != nil {
		level.Debug(logger).Log("msg", "send error", "type", MsgWelcome, "conn", conn.ID, "err", err)
	}

	ctx, cancel := context.WithCancel(s.baseCtx)
	go sess.Run(ctx)

	// Blocking read loop; runs until client disconnects
	conn.ReadLoop(func(c *Conn) {
		cancel()
		s.sessions.Remove(c.ID)
		level.Info(logger).Log("msg", "player disconnected", "conn", c.ID)
	})
}

// newRouter wires the websocket route, the admin API, health and static files.
func newRouter(s *server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET(WebSocketPath, s.handleWebSocket)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.sessions.Count(), "elements": s.content.Table().Len()})
	})

	admin := r.Group(AdminPrefix, adminAuth(s.cfg.AdminToken))
	registerAdminRoutes(admin, s.content, s.ledger)

	// Serve static client files
	r.NoRoute(gin.WrapH(http.FileServer(http.Dir(s.cfg.StaticDir))))
	return r
}

func main() {
	if err := run(); err != nil {
		level.Error(logger).Log("msg", "server exited", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	l, err := newLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	logger = l
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	content, err := OpenContentStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open content: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := &server{
		cfg:      cfg,
		content:  content,
		ledger:   NewDiscoveryLedger(),
		sessions: NewSessionManager(),
		limiter:  newIPRateLimiter(IPCooldownSec * time.Second),
		baseCtx:  ctx,
	}
	go s.limiter.run(ctx)

	if cfg.AdminToken == "" {
		level.Warn(logger).Log("msg", "SNAKE_ADMIN_TOKEN is empty, admin API is unauthenticated")
	}

	srv := &http.Server{Addr: cfg.Addr, Handler: newRouter(s)}
	errc := make(chan error, 1)
	go func() {
		level.Info(logger).Log("msg", "server listening", "addr", cfg.Addr, "world_radius", WorldRadius, "bots", cfg.BotCount, "tick_rate", cfg.TickRate)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	level.Info(logger).Log("msg", "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
