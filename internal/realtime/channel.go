// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

// Package realtime maintains the WebSocket event channel behind chat and
// presence.
//
// Key features:
//   - Automatic reconnection with exponential backoff
//   - Thread-safe handler registration
//   - Ping/pong keepalive
//   - Supervision-friendly Serve loop (suture)
//
// Delivery is advisory: the REST API remains the source of truth for chat
// history, the channel only pushes what arrives while a screen is open.
// Handlers must tolerate duplicates; the chat session deduplicates by
// server message id.
package realtime

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/amora-app/amora-go/internal/config"
	"github.com/amora-app/amora-go/internal/logging"
	"github.com/amora-app/amora-go/internal/metrics"
)

// Event names on the wire, client to server.
const (
	EventUserOnline  = "userOnline"
	EventJoinRoom    = "joinRoom"
	EventSendMessage = "sendMessage"
)

// Event names on the wire, server to client.
const (
	EventReceiveMessage = "receiveMessage"
	EventPresence       = "presence"
	EventRequestUpdate  = "requestUpdate"
)

// ErrNotConnected is returned by Emit when no connection is up. Callers
// fall back to REST; the channel never queues outbound frames.
var ErrNotConnected = fmt.Errorf("realtime: not connected")

// frame is the envelope every message travels in.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Handler receives the raw payload of one inbound event.
type Handler func(data json.RawMessage)

// Channel is the realtime connection. Create with NewChannel, register
// handlers, then run Serve under a supervisor.
type Channel struct {
	wsURL  string
	userID string
	cfg    *config.RealtimeConfig

	connMu sync.RWMutex
	conn   *websocket.Conn

	writeMu sync.Mutex

	handlerMu sync.RWMutex
	handlers  map[string][]subscription
	nextSubID int

	everConnected bool
}

// subscription pairs a handler with the id its unsubscribe func removes.
type subscription struct {
	id      int
	handler Handler
}

// NewChannel builds a Channel for the given identity. baseURL is the HTTP
// origin; the WebSocket endpoint is derived from it.
func NewChannel(cfg *config.RealtimeConfig, baseURL, userID string) (*Channel, error) {
	wsURL, err := websocketURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Channel{
		wsURL:    wsURL,
		userID:   userID,
		cfg:      cfg,
		handlers: make(map[string][]subscription),
	}, nil
}

// websocketURL converts the HTTP origin into the ws(s) endpoint.
func websocketURL(baseURL string) (string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	scheme := "ws"
	if parsed.Scheme == "https" {
		scheme = "wss"
	}
	return fmt.Sprintf("%s://%s/ws", scheme, parsed.Host), nil
}

// Subscribe registers a handler for an inbound event and returns a func that
// removes it again. Multiple handlers per event are allowed; they run
// sequentially on the read goroutine. Screens unsubscribe their listener on
// teardown while the shared connection stays up.
func (c *Channel) Subscribe(event string, handler Handler) (unsubscribe func()) {
	c.handlerMu.Lock()
	defer c.handlerMu.Unlock()

	c.nextSubID++
	id := c.nextSubID
	c.handlers[event] = append(c.handlers[event], subscription{id: id, handler: handler})

	return func() {
		c.handlerMu.Lock()
		defer c.handlerMu.Unlock()
		subs := c.handlers[event]
		for i, sub := range subs {
			if sub.id == id {
				c.handlers[event] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Serve runs the connect/read/reconnect loop until the context is canceled.
// It satisfies the suture service contract: returning an error restarts the
// service, returning ctx.Err() on cancellation stops it cleanly.
func (c *Channel) Serve(ctx context.Context) error {
	reconnectDelay := time.Second

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err := c.connect(ctx); err != nil {
			logging.Warn().Err(err).Dur("retry_in", reconnectDelay).Msg("realtime connect failed")

			select {
			case <-time.After(reconnectDelay):
			case <-ctx.Done():
				return ctx.Err()
			}

			reconnectDelay *= 2
			if reconnectDelay > c.cfg.MaxReconnectDelay {
				reconnectDelay = c.cfg.MaxReconnectDelay
			}
			continue
		}

		reconnectDelay = time.Second

		pingCtx, stopPing := context.WithCancel(ctx)
		go c.pingLoop(pingCtx)
		err := c.readLoop(ctx)
		stopPing()
		c.closeConnection()

		if ctx.Err() != nil {
			return ctx.Err()
		}
		logging.Warn().Err(err).Msg("realtime connection lost")
	}
}

// String names the service in supervisor logs.
func (c *Channel) String() string {
	return "realtime-channel"
}

// connect dials the endpoint and announces presence.
func (c *Channel) connect(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout:  c.cfg.HandshakeTimeout,
		EnableCompression: true,
	}

	conn, resp, err := dialer.DialContext(ctx, c.wsURL, nil)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return fmt.Errorf("websocket dial (HTTP %d): %w", resp.StatusCode, err)
		}
		return fmt.Errorf("websocket dial: %w", err)
	}

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
	})

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()

	if c.everConnected {
		metrics.RealtimeReconnects.Inc()
	}
	c.everConnected = true
	metrics.RealtimeConnects.Inc()
	logging.Info().Str("url", c.wsURL).Msg("realtime connected")

	// Presence announcement. Failing here tears the connection down so the
	// reconnect loop gets a clean retry.
	if err := c.Emit(EventUserOnline, map[string]string{"userId": c.userID}); err != nil {
		c.closeConnection()
		return fmt.Errorf("announce presence: %w", err)
	}
	return nil
}

// readLoop consumes frames until the connection fails.
func (c *Channel) readLoop(ctx context.Context) error {
	for {
		c.connMu.RLock()
		conn := c.conn
		c.connMu.RUnlock()
		if conn == nil {
			return ErrNotConnected
		}

		if err := conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout)); err != nil {
			logging.Warn().Err(err).Msg("setting read deadline")
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return fmt.Errorf("server closed connection: %w", err)
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read frame: %w", err)
		}

		c.dispatch(message)
	}
}

// dispatch parses a frame and runs the registered handlers.
func (c *Channel) dispatch(message []byte) {
	var f frame
	if err := json.Unmarshal(message, &f); err != nil {
		logging.Warn().Err(err).Msg("unparseable realtime frame")
		return
	}

	metrics.RealtimeEventsReceived.WithLabelValues(f.Event).Inc()

	c.handlerMu.RLock()
	subs := make([]subscription, len(c.handlers[f.Event]))
	copy(subs, c.handlers[f.Event])
	c.handlerMu.RUnlock()

	if len(subs) == 0 {
		logging.Debug().Str("event", f.Event).Msg("unhandled realtime event")
		return
	}
	for _, sub := range subs {
		sub.handler(f.Data)
	}
}

// Emit sends one event frame. Returns ErrNotConnected when no connection is
// up; the caller decides whether that matters.
func (c *Channel) Emit(event string, data interface{}) error {
	c.connMu.RLock()
	conn := c.conn
	c.connMu.RUnlock()
	if conn == nil {
		return ErrNotConnected
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", event, err)
	}
	raw, err := json.Marshal(frame{Event: event, Data: payload})
	if err != nil {
		return fmt.Errorf("marshal %s frame: %w", event, err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		return fmt.Errorf("write %s: %w", event, err)
	}
	return nil
}

// JoinRoom subscribes this connection to a chat room's events. There is no
// matching leave event; the server scopes room membership to the connection.
func (c *Channel) JoinRoom(chatID string) error {
	return c.Emit(EventJoinRoom, map[string]string{"chatId": chatID})
}

// SendMessage pushes a chat message event toward the peer's open screen.
// The REST call remains the delivery of record; this only shortens the
// round trip for a peer who is looking at the conversation right now.
func (c *Channel) SendMessage(from, to, text string) error {
	return c.Emit(EventSendMessage, map[string]string{"from": from, "to": to, "message": text})
}

// Connected reports whether a connection is currently up.
func (c *Channel) Connected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.conn != nil
}

// pingLoop keeps the connection alive. A failed ping closes the connection,
// which unblocks the read loop into a reconnect.
func (c *Channel) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.connMu.RLock()
			conn := c.conn
			c.connMu.RUnlock()
			if conn == nil {
				return
			}

			deadline := time.Now().Add(10 * time.Second)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				logging.Warn().Err(err).Msg("realtime ping failed")
				c.closeConnection()
				return
			}
		}
	}
}

// closeConnection tears down the current connection if one exists.
func (c *Channel) closeConnection() {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	if c.conn == nil {
		return
	}

	deadline := time.Now().Add(time.Second)
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	_ = c.conn.Close()
	c.conn = nil
}
