// Package wsfeed streams session engine events to browser dashboards over
// websocket. Each client receives a snapshot on connect and then every
// event published on the bus.
package wsfeed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"kidsfocus/internal/core/eventbus"
	"kidsfocus/internal/core/timekeeper"
)

const (
	clientBuffer  = 32
	writeTimeout  = 5 * time.Second
	pongTimeout   = 60 * time.Second
	pingInterval  = 25 * time.Second
	shutdownGrace = 3 * time.Second
)

// SnapshotSource provides the state sent to a newly connected client.
type SnapshotSource interface {
	Snapshot() timekeeper.Snapshot
}

// Message is the JSON wire form of an event or snapshot.
type Message struct {
	Type             string    `json:"type"`
	Phase            string    `json:"phase"`
	RemainingSeconds int       `json:"remaining_seconds"`
	TotalSeconds     int       `json:"total_seconds"`
	Progress         float64   `json:"progress"`
	Display          string    `json:"display"`
	Alerts           []string  `json:"alerts,omitempty"`
	At               time.Time `json:"at"`
}

// MessageTypeSnapshot marks the first message a client receives.
const MessageTypeSnapshot = "snapshot"

func FromEvent(event timekeeper.Event) Message {
	var names []string
	for _, kind := range event.Alerts {
		names = append(names, string(kind))
	}
	return Message{
		Type:             string(event.Type),
		Phase:            string(event.Phase),
		RemainingSeconds: int(event.Remaining / time.Second),
		TotalSeconds:     int(event.Total / time.Second),
		Progress:         event.Progress,
		Display:          timekeeper.FormatClock(event.Remaining),
		Alerts:           names,
		At:               event.At,
	}
}

func FromSnapshot(snapshot timekeeper.Snapshot, at time.Time) Message {
	return Message{
		Type:             MessageTypeSnapshot,
		Phase:            string(snapshot.Phase),
		RemainingSeconds: int(snapshot.Remaining / time.Second),
		TotalSeconds:     int(snapshot.Total / time.Second),
		Progress:         snapshot.Progress(),
		Display:          snapshot.Display(),
		At:               at,
	}
}

type client struct {
	conn *websocket.Conn
	send chan Message
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Server fans bus events out to websocket clients.
type Server struct {
	addr     string
	source   SnapshotSource
	events   <-chan timekeeper.Event
	cancel   func()
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

// New creates a Server and subscribes it to bus.
func New(addr string, source SnapshotSource, bus *eventbus.Bus[timekeeper.Event], logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	events, cancel := bus.SubscribeChannel("wsfeed", 64)
	return &Server{
		addr:   addr,
		source: source,
		events: events,
		cancel: cancel,
		logger: logger.With("component", "wsfeed"),
		upgrader: websocket.Upgrader{
			CheckOrigin: checkOrigin,
		},
		clients: make(map[*client]struct{}),
	}
}

// Handler serves /events and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", s.handleEvents)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go s.Pump(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	s.logger.Info("event feed listening", "addr", listener.Addr().String())
	err = httpServer.Serve(listener)
	s.closeClients()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Pump forwards bus events to clients until ctx is done or the bus closes.
func (s *Server) Pump(ctx context.Context) {
	defer s.cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-s.events:
			if !ok {
				return
			}
			s.broadcast(FromEvent(event))
		}
	}
}

// Clients reports the number of connected clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan Message, clientBuffer)}
	// register and queue the snapshot under one lock so no broadcast can
	// land between them
	s.mu.Lock()
	s.clients[c] = struct{}{}
	c.send <- FromSnapshot(s.source.Snapshot(), time.Now())
	s.mu.Unlock()
	s.logger.Debug("client connected", "remote", r.RemoteAddr)

	go s.writeLoop(c)
	s.readLoop(c)
}

// checkOrigin admits non-browser clients, same-host pages and local
// dashboards. Any other web page is refused.
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	parsed, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(parsed.Host, r.Host) {
		return true
	}
	switch parsed.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}

// readLoop drains control frames and detects disconnects.
func (s *Server) readLoop(c *client) {
	defer s.drop(c)

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writeLoop(c *client) {
	ping := time.NewTicker(pingInterval)
	defer func() {
		ping.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				s.logger.Debug("write failed", "error", err)
				return
			}
		case <-ping.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// broadcast drops clients whose buffer is full instead of blocking the bus.
func (s *Server) broadcast(message Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- message:
		default:
			s.logger.Warn("dropping slow client")
			delete(s.clients, c)
			c.close()
		}
	}
}

func (s *Server) drop(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	c.close()
}

func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		delete(s.clients, c)
		c.close()
	}
}
