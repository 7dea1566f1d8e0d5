package main

import (
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// joinRequest is a pending join or respawn picked up by the session at the next tick.
type joinRequest struct {
	name    string
	respawn bool
}

// Conn manages a single WebSocket player connection
type Conn struct {
	ID     string
	Name   string
	ws     *websocket.Conn
	codec  Codec
	logger log.Logger

	mu      sync.Mutex // protects input, pending, closed and ws writes
	input   PlayerInput
	pending *joinRequest
	closed  bool
}

// NewConn creates a new connection wrapper
func NewConn(ws *websocket.Conn, codec Codec) *Conn {
	id := uuid.New().String()
	return &Conn{
		ID:     id,
		ws:     ws,
		codec:  codec,
		logger: log.With(logger, "conn", id),
	}
}

// Send encodes msg with the connection's codec and writes it to the WebSocket
func (c *Conn) Send(msg any) error {
	data, err := c.codec.Marshal(msg)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	return c.ws.WriteMessage(c.codec.FrameType(), data)
}

// GetInput returns the current input snapshot
func (c *Conn) GetInput() PlayerInput {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// setInput updates input under lock
func (c *Conn) setInput(angle float64, boost bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input.Angle = angle
	c.input.Boost = boost
}

// requestJoin records a join/respawn; a later request replaces an unprocessed one.
func (c *Conn) requestJoin(name string, respawn bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Name = name
	c.pending = &joinRequest{name: name, respawn: respawn}
}

// takeJoin returns and clears the pending join request, if any.
func (c *Conn) takeJoin() (joinRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return joinRequest{}, false
	}
	req := *c.pending
	c.pending = nil
	return req, true
}

// Close marks connection closed
func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.ws.Close()
}

// ReadLoop handles incoming messages for a connection until it disconnects.
// Compact protocol: single-char "t" field for message type.
//
//	"j" = join, "i" = input, "r" = respawn
//
// onDisconnect is called when the connection closes.
func (c *Conn) ReadLoop(onDisconnect func(conn *Conn)) {
	defer func() {
		onDisconnect(c)
		c.Close()
	}()

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				level.Warn(c.logger).Log("msg", "ws read error", "err", err)
			}
			return
		}

		var msg ClientMessage
		if err := c.codec.Unmarshal(raw, &msg); err != nil {
			level.Debug(c.logger).Log("msg", "bad client message", "err", err)
			continue
		}
		c.handle(msg)
	}
}

// handle applies one decoded client message.
func (c *Conn) handle(msg ClientMessage) {
	switch msg.Type {
	case MsgJoin, MsgRespawn:
		name := msg.Name
		if name == "" {
			name = "Player"
		}
		if r := []rune(name); len(r) > MaxNameLength {
			name = string(r[:MaxNameLength])
		}
		c.requestJoin(name, msg.Type == MsgRespawn)

	case MsgInput:
		if !isFinite(msg.Angle) {
			return
		}
		c.setInput(msg.Angle, msg.Boost == 1)
	}
}
