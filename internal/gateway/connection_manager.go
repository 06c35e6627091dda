// Package gateway pushes duel notifications to websocket subscribers. It
// implements the orchestrator's Notifier port; the core never waits on it and
// slow consumers are dropped rather than blocking delivery.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/tgray07/duelcore/internal/duel/events"
	"github.com/tgray07/duelcore/internal/models"
)

// ConnectionManager tracks websocket connections keyed by participant.
type ConnectionManager struct {
	userConnections map[string]map[*Connection]bool
	mu              sync.RWMutex

	upgrader    websocket.Upgrader
	config      ConnectionConfig
	broadcastCh chan broadcastMessage
}

// Connection is one client subscription.
type Connection struct {
	ID          string
	UserID      string
	Conn        *websocket.Conn
	Send        chan []byte
	ConnectedAt time.Time

	manager *ConnectionManager
}

// ConnectionConfig holds websocket tuning knobs.
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConnectionConfig returns the stock tuning.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
}

// NewConnectionManager creates a manager with no subscribers.
func NewConnectionManager(config ConnectionConfig) *ConnectionManager {
	return &ConnectionManager{
		userConnections: make(map[string]map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		broadcastCh: make(chan broadcastMessage, 1000),
	}
}

// Start processes queued notifications until the context ends.
func (cm *ConnectionManager) Start(ctx context.Context) {
	log.Info().Msg("gateway connection manager started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("gateway connection manager shutting down")
			cm.closeAll()
			return
		case msg := <-cm.broadcastCh:
			cm.deliver(msg)
		}
	}
}

// Notify implements the orchestrator's Notifier port for a single
// participant. Delivery is queued; a full queue drops the event.
func (cm *ConnectionManager) Notify(id models.ParticipantID, kind events.Kind, payload any) {
	cm.enqueue(broadcastMessage{
		UserID: id.String(),
		Event:  DuelEvent{Kind: kind, Timestamp: time.Now().UTC(), Payload: payload},
	})
}

// Broadcast implements the Notifier port for server-wide events.
func (cm *ConnectionManager) Broadcast(kind events.Kind, payload any) {
	cm.enqueue(broadcastMessage{
		Event: DuelEvent{Kind: kind, Timestamp: time.Now().UTC(), Payload: payload},
	})
}

func (cm *ConnectionManager) enqueue(msg broadcastMessage) {
	select {
	case cm.broadcastCh <- msg:
	default:
		log.Warn().Str("kind", string(msg.Event.Kind)).Msg("gateway queue full, dropping event")
	}
}

// UpgradeConnection upgrades an HTTP request into a subscription for userID.
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	connection := &Connection{
		ID:          uuid.New().String(),
		UserID:      userID,
		Conn:        conn,
		Send:        make(chan []byte, 64),
		ConnectedAt: time.Now(),
		manager:     cm,
	}

	cm.mu.Lock()
	if cm.userConnections[userID] == nil {
		cm.userConnections[userID] = make(map[*Connection]bool)
	}
	cm.userConnections[userID][connection] = true
	cm.mu.Unlock()

	go connection.writePump()
	go connection.readPump()

	log.Info().Str("user_id", userID).Str("conn_id", connection.ID).Msg("gateway client connected")
	return nil
}

func (cm *ConnectionManager) deliver(msg broadcastMessage) {
	data, err := marshalEvent(msg.Event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal gateway event")
		return
	}

	cm.mu.RLock()
	var targets []*Connection
	if msg.UserID != "" {
		for conn := range cm.userConnections[msg.UserID] {
			targets = append(targets, conn)
		}
	} else {
		for _, conns := range cm.userConnections {
			for conn := range conns {
				targets = append(targets, conn)
			}
		}
	}
	cm.mu.RUnlock()

	for _, conn := range targets {
		select {
		case conn.Send <- data:
		default:
			// Slow consumer; drop the connection rather than the core's time.
			cm.remove(conn)
		}
	}
}

func (cm *ConnectionManager) remove(conn *Connection) {
	cm.mu.Lock()
	if conns, ok := cm.userConnections[conn.UserID]; ok {
		if conns[conn] {
			delete(conns, conn)
			close(conn.Send)
			if len(conns) == 0 {
				delete(cm.userConnections, conn.UserID)
			}
		}
	}
	cm.mu.Unlock()
}

func (cm *ConnectionManager) closeAll() {
	cm.mu.Lock()
	for _, conns := range cm.userConnections {
		for conn := range conns {
			close(conn.Send)
		}
	}
	cm.userConnections = make(map[string]map[*Connection]bool)
	cm.mu.Unlock()
}

// ConnectionCount returns the number of live subscriptions.
func (cm *ConnectionManager) ConnectionCount() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	n := 0
	for _, conns := range cm.userConnections {
		n += len(conns)
	}
	return n
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(c.manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.manager.config.WriteTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.manager.remove(c)
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.manager.remove(c)
				return
			}
		}
	}
}

// readPump discards client messages; the gateway is push-only. It exists to
// process control frames and detect closed peers.
func (c *Connection) readPump() {
	defer func() {
		c.manager.remove(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(c.manager.config.MaxMessageSize)
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
