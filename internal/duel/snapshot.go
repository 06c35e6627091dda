package duel

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/tgray07/duelcore/internal/models"
)

// SnapshotStore captures and restores pre-duel player condition. A snapshot
// exists for a participant only while that participant is inside a prepared
// session; Restore consumes it.
type SnapshotStore struct {
	host PlayerHost

	mu        sync.Mutex
	snapshots map[models.ParticipantID]models.PlayerState
}

// NewSnapshotStore creates a store backed by the given host.
func NewSnapshotStore(host PlayerHost) *SnapshotStore {
	return &SnapshotStore{
		host:      host,
		snapshots: make(map[models.ParticipantID]models.PlayerState),
	}
}

// Save captures the participant's current condition, overwriting any stale
// prior snapshot for the same identity.
func (s *SnapshotStore) Save(id models.ParticipantID) error {
	state, err := s.host.CaptureState(id)
	if err != nil {
		return fmt.Errorf("capture state for %s: %w", id, err)
	}
	s.mu.Lock()
	if _, stale := s.snapshots[id]; stale {
		log.Warn().Str("participant", id.String()).Msg("overwriting stale snapshot")
	}
	s.snapshots[id] = state
	s.mu.Unlock()
	return nil
}

// Restore applies the saved condition back to the participant and deletes the
// snapshot. Inventory is applied before game mode before position so no
// intermediate state is observable with the wrong mode. Restoring a
// participant with no snapshot is a no-op and returns false, tolerating
// double invocation during disconnect/end races.
func (s *SnapshotStore) Restore(id models.ParticipantID) bool {
	s.mu.Lock()
	state, ok := s.snapshots[id]
	if ok {
		delete(s.snapshots, id)
	}
	s.mu.Unlock()
	if !ok {
		return false
	}

	if err := s.host.ApplyInventory(id, state.Inventory); err != nil {
		log.Error().Err(err).Str("participant", id.String()).Msg("restore inventory failed")
	}
	if err := s.host.ApplyGameMode(id, state.GameMode); err != nil {
		log.Error().Err(err).Str("participant", id.String()).Msg("restore game mode failed")
	}
	if err := s.host.ApplyVitals(id, state.Vitals); err != nil {
		log.Error().Err(err).Str("participant", id.String()).Msg("restore vitals failed")
	}
	if err := s.host.Teleport(id, state.Position); err != nil {
		log.Error().Err(err).Str("participant", id.String()).Msg("restore position failed")
	}
	return true
}

// Has reports whether a snapshot exists for the participant.
func (s *SnapshotStore) Has(id models.ParticipantID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.snapshots[id]
	return ok
}

// Drop discards a snapshot without applying it.
func (s *SnapshotStore) Drop(id models.ParticipantID) {
	s.mu.Lock()
	delete(s.snapshots, id)
	s.mu.Unlock()
}

// Len returns the number of held snapshots.
func (s *SnapshotStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshots)
}
