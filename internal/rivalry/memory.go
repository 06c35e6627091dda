package rivalry

import (
	"context"
	"sync"

	"github.com/tgray07/duelcore/internal/models"
)

// Memory is the in-process rivalry store used by tests and the demo server.
type Memory struct {
	mu       sync.Mutex
	meetings map[string]int
	ratings  map[models.ParticipantID]int
}

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{
		meetings: make(map[string]int),
		ratings:  make(map[models.ParticipantID]int),
	}
}

func (m *Memory) RecordDuel(_ context.Context, a, b, _ models.ParticipantID) (int, error) {
	key := pairKey(a, b)
	m.mu.Lock()
	m.meetings[key]++
	n := m.meetings[key]
	m.mu.Unlock()
	return n, nil
}

func (m *Memory) RecordRating(_ context.Context, id models.ParticipantID, rating int) error {
	m.mu.Lock()
	m.ratings[id] = rating
	m.mu.Unlock()
	return nil
}

// Meetings returns the counter for a pair, order-insensitive.
func (m *Memory) Meetings(a, b models.ParticipantID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.meetings[pairKey(a, b)]
}
