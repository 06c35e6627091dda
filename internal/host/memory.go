// Package host provides player-state access for the duel core. Memory is the
// in-process implementation used by the demo server and the test suites; a
// real deployment adapts its game engine behind the same interface.
package host

import (
	"fmt"
	"sync"

	"github.com/tgray07/duelcore/internal/models"
)

type record struct {
	state  models.PlayerState
	online bool
	alive  bool
}

// Memory holds player state for a single-authority in-process server.
type Memory struct {
	mu      sync.RWMutex
	players map[models.ParticipantID]*record
	kits    map[string]models.Inventory
}

// NewMemory creates an empty host.
func NewMemory() *Memory {
	return &Memory{
		players: make(map[models.ParticipantID]*record),
		kits:    make(map[string]models.Inventory),
	}
}

// Join registers a participant as online and alive with the given state.
func (m *Memory) Join(id models.ParticipantID, state models.PlayerState) {
	m.mu.Lock()
	m.players[id] = &record{state: state, online: true, alive: true}
	m.mu.Unlock()
}

// Leave marks a participant offline.
func (m *Memory) Leave(id models.ParticipantID) {
	m.mu.Lock()
	if r, ok := m.players[id]; ok {
		r.online = false
	}
	m.mu.Unlock()
}

// Kill marks a participant dead.
func (m *Memory) Kill(id models.ParticipantID) {
	m.mu.Lock()
	if r, ok := m.players[id]; ok {
		r.alive = false
	}
	m.mu.Unlock()
}

// Revive marks a participant alive again.
func (m *Memory) Revive(id models.ParticipantID) {
	m.mu.Lock()
	if r, ok := m.players[id]; ok {
		r.alive = true
	}
	m.mu.Unlock()
}

// DefineKit registers the inventory a named kit issues.
func (m *Memory) DefineKit(name string, inv models.Inventory) {
	m.mu.Lock()
	m.kits[name] = inv
	m.mu.Unlock()
}

func (m *Memory) IsOnline(id models.ParticipantID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.players[id]
	return ok && r.online
}

func (m *Memory) IsAlive(id models.ParticipantID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.players[id]
	return ok && r.alive
}

// CaptureState returns a deep copy of the participant's current condition.
func (m *Memory) CaptureState(id models.ParticipantID) (models.PlayerState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.players[id]
	if !ok {
		return models.PlayerState{}, fmt.Errorf("unknown participant %s", id)
	}
	return copyState(r.state), nil
}

func (m *Memory) ApplyInventory(id models.ParticipantID, inv models.Inventory) error {
	return m.mutate(id, func(r *record) {
		r.state.Inventory = copyInventory(inv)
	})
}

func (m *Memory) ApplyGameMode(id models.ParticipantID, mode models.GameMode) error {
	return m.mutate(id, func(r *record) {
		r.state.GameMode = mode
	})
}

func (m *Memory) ApplyVitals(id models.ParticipantID, v models.Vitals) error {
	return m.mutate(id, func(r *record) {
		r.state.Vitals = v
		if v.Health > 0 {
			r.alive = true
		}
	})
}

func (m *Memory) Teleport(id models.ParticipantID, pos models.Position) error {
	return m.mutate(id, func(r *record) {
		r.state.Position = pos
	})
}

func (m *Memory) ClearInventory(id models.ParticipantID) error {
	return m.mutate(id, func(r *record) {
		r.state.Inventory = models.Inventory{}
	})
}

func (m *Memory) GiveKit(id models.ParticipantID, kit string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.players[id]
	if !ok {
		return fmt.Errorf("unknown participant %s", id)
	}
	inv, ok := m.kits[kit]
	if !ok {
		return fmt.Errorf("unknown kit %q", kit)
	}
	r.state.Inventory = copyInventory(inv)
	return nil
}

func (m *Memory) InventoryEmpty(id models.ParticipantID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.players[id]
	return ok && r.state.Inventory.Empty()
}

func (m *Memory) Position(id models.ParticipantID) (models.Position, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.players[id]
	if !ok || !r.online {
		return models.Position{}, false
	}
	return r.state.Position, true
}

// State returns a copy of the participant's full current condition, for
// inspection by callers and tests.
func (m *Memory) State(id models.ParticipantID) (models.PlayerState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.players[id]
	if !ok {
		return models.PlayerState{}, false
	}
	return copyState(r.state), true
}

func (m *Memory) mutate(id models.ParticipantID, fn func(*record)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.players[id]
	if !ok {
		return fmt.Errorf("unknown participant %s", id)
	}
	fn(r)
	return nil
}

func copyState(s models.PlayerState) models.PlayerState {
	s.Inventory = copyInventory(s.Inventory)
	return s
}

func copyInventory(inv models.Inventory) models.Inventory {
	out := models.Inventory{}
	if inv.Slots != nil {
		out.Slots = append([]models.ItemStack(nil), inv.Slots...)
	}
	if inv.Armor != nil {
		out.Armor = append([]models.ItemStack(nil), inv.Armor...)
	}
	return out
}
