package gateway

import (
	"encoding/json"
	"time"

	"github.com/tgray07/duelcore/internal/duel/events"
)

// DuelEvent is the wire envelope pushed to websocket subscribers.
type DuelEvent struct {
	Kind      events.Kind `json:"kind"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   any         `json:"payload,omitempty"`
}

// broadcastMessage routes one event to a single user or to everyone.
type broadcastMessage struct {
	UserID string // empty = broadcast to all connections
	Event  DuelEvent
}

func marshalEvent(ev DuelEvent) ([]byte, error) {
	return json.Marshal(ev)
}
