package stats

import (
	"context"
	"sync"

	"github.com/tgray07/duelcore/internal/models"
)

// Memory is the in-process stats store used by tests and the demo server.
type Memory struct {
	defaultRating int

	mu      sync.Mutex
	wins    map[models.ParticipantID]int
	losses  map[models.ParticipantID]int
	draws   map[models.ParticipantID]int
	ratings map[models.ParticipantID]int
	history []models.SettlementRecord
}

// NewMemory creates an empty store; unknown participants start at
// defaultRating.
func NewMemory(defaultRating int) *Memory {
	return &Memory{
		defaultRating: defaultRating,
		wins:          make(map[models.ParticipantID]int),
		losses:        make(map[models.ParticipantID]int),
		draws:         make(map[models.ParticipantID]int),
		ratings:       make(map[models.ParticipantID]int),
	}
}

func (m *Memory) RecordWin(_ context.Context, id models.ParticipantID) error {
	m.mu.Lock()
	m.wins[id]++
	m.mu.Unlock()
	return nil
}

func (m *Memory) RecordLoss(_ context.Context, id models.ParticipantID) error {
	m.mu.Lock()
	m.losses[id]++
	m.mu.Unlock()
	return nil
}

func (m *Memory) RecordDraw(_ context.Context, id models.ParticipantID) error {
	m.mu.Lock()
	m.draws[id]++
	m.mu.Unlock()
	return nil
}

func (m *Memory) Rating(_ context.Context, id models.ParticipantID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.ratings[id]; ok {
		return r, nil
	}
	return m.defaultRating, nil
}

func (m *Memory) SetRating(_ context.Context, id models.ParticipantID, rating int) error {
	m.mu.Lock()
	m.ratings[id] = rating
	m.mu.Unlock()
	return nil
}

func (m *Memory) AddHistory(_ context.Context, rec models.SettlementRecord) error {
	m.mu.Lock()
	m.history = append(m.history, rec)
	m.mu.Unlock()
	return nil
}

// Record returns a participant's tallies, for inspection.
func (m *Memory) Record(id models.ParticipantID) (wins, losses, draws int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.wins[id], m.losses[id], m.draws[id]
}

// History returns a copy of the appended settlement records.
func (m *Memory) History() []models.SettlementRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.SettlementRecord(nil), m.history...)
}
