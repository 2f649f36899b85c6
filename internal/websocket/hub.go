// Package websocket pushes analysis events to connected dashboards.
package websocket

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"studentpulse/internal/infrastructure"
	"studentpulse/pkg/contracts/domain"
	"studentpulse/pkg/contracts/events"
)

const broadcastBuffer = 64

// Options configures connection buffers and keepalive timing
type Options struct {
	ReadBufferSize  int
	WriteBufferSize int
	PingPeriod      time.Duration
	PongWait        time.Duration
	// CheckOrigin decides whether an upgrade request is accepted; nil keeps
	// gorilla's same-origin check
	CheckOrigin func(r *http.Request) bool
}

// DefaultOptions returns gorilla's usual buffer sizes and a 60s pong wait
func DefaultOptions() Options {
	return Options{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		PingPeriod:      54 * time.Second,
		PongWait:        60 * time.Second,
	}
}

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu       sync.RWMutex
	running  bool
	quit     chan struct{}
	done     chan struct{}
	upgrader websocket.Upgrader
	opts     Options

	messagesSent int64
	dropped      int64

	logger *slog.Logger
}

// NewHub creates a hub; call Start before broadcasting
func NewHub(opts Options, logger *slog.Logger) *Hub {
	logger = infrastructure.WithComponent(logger, "websocket.hub")
	if opts.PongWait <= 0 || opts.PingPeriod <= 0 {
		defaults := DefaultOptions()
		opts.PingPeriod, opts.PongWait = defaults.PingPeriod, defaults.PongWait
	}

	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  opts.ReadBufferSize,
			WriteBufferSize: opts.WriteBufferSize,
			CheckOrigin:     opts.CheckOrigin,
		},
		opts:   opts,
		logger: logger,
	}
}

// Start runs the hub loop in a goroutine. It is idempotent, and a stopped
// hub can be started again.
func (h *Hub) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return
	}
	h.running = true
	h.quit = make(chan struct{})
	h.done = make(chan struct{})
	go h.run(h.quit, h.done)
}

// Stop ends the hub loop and closes every client's send channel
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	quit, done := h.quit, h.done
	h.mu.Unlock()

	close(quit)
	<-done
}

func (h *Hub) quitChan() <-chan struct{} {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.quit
}

func (h *Hub) run(quit <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-quit:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("Hub shut down")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()

			h.logger.Info("Client registered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr))

			if msg, err := events.Encode(events.TypeConnection, events.ConnectionData{
				Status:   "connected",
				ClientID: client.id,
			}); err == nil {
				select {
				case client.send <- msg:
				default:
				}
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()

			h.logger.Info("Client unregistered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.Duration("connection_duration", time.Since(client.connectedAt)))

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					h.messagesSent++
				default:
					// slow consumer
					close(client.send)
					delete(h.clients, client)
					h.logger.Warn("Client send buffer full, disconnecting",
						slog.String("client_id", client.id))
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastAnalysis pushes an analysis:completed event to every client
func (h *Hub) BroadcastAnalysis(ctx context.Context, event domain.AnalysisEvent) {
	msg, err := events.Encode(events.TypeAnalysisCompleted, event)
	if err != nil {
		h.logger.ErrorContext(ctx, "Error marshaling analysis event", slog.String("error", err.Error()))
		return
	}
	h.logger.DebugContext(ctx, "Broadcasting analysis event", slog.String("digest", event.Digest))
	h.enqueue(msg)
}

// enqueue never blocks the caller: with the hub stopped or its queue full
// the message is dropped.
func (h *Hub) enqueue(msg []byte) {
	select {
	case <-h.quitChan():
		return
	default:
	}
	select {
	case h.broadcast <- msg:
	default:
		h.mu.Lock()
		h.dropped++
		h.mu.Unlock()
		h.logger.Warn("Broadcast queue full, dropping message")
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Running reports whether the hub loop is active
func (h *Hub) Running() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.running
}

// Stats returns counters for the health endpoint
func (h *Hub) Stats() map[string]interface{} {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return map[string]interface{}{
		"active_clients":   len(h.clients),
		"messages_sent":    h.messagesSent,
		"messages_dropped": h.dropped,
	}
}

// ServeHTTP upgrades the request and attaches a new client to the hub
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error
		h.logger.WarnContext(r.Context(), "WebSocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := NewClient(h, NewConnectionWrapper(conn), infrastructure.GetTraceID(r.Context()))
	select {
	case h.register <- client:
	case <-h.quitChan():
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
