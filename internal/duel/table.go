package duel

import (
	"github.com/google/uuid"
	"github.com/tgray07/duelcore/internal/models"
)

// SessionTable is the authoritative index of live sessions, keyed by session
// id and by participant. While a session's phase is not ENDED every roster
// member points at it; removal happens inside the same settlement transition.
type SessionTable struct {
	byID          map[uuid.UUID]*models.Session
	byParticipant map[models.ParticipantID]uuid.UUID
}

// NewSessionTable creates an empty table.
func NewSessionTable() *SessionTable {
	return &SessionTable{
		byID:          make(map[uuid.UUID]*models.Session),
		byParticipant: make(map[models.ParticipantID]uuid.UUID),
	}
}

// Insert adds a session and indexes every roster member.
func (t *SessionTable) Insert(s *models.Session) {
	t.byID[s.ID] = s
	for _, p := range s.Participants() {
		t.byParticipant[p] = s.ID
	}
}

// Get returns a live session by id.
func (t *SessionTable) Get(id uuid.UUID) (*models.Session, bool) {
	s, ok := t.byID[id]
	return s, ok
}

// ByParticipant returns the live session a participant fights in.
func (t *SessionTable) ByParticipant(p models.ParticipantID) (*models.Session, bool) {
	id, ok := t.byParticipant[p]
	if !ok {
		return nil, false
	}
	s, ok := t.byID[id]
	return s, ok
}

// InSession reports whether a participant is in any live session.
func (t *SessionTable) InSession(p models.ParticipantID) bool {
	_, ok := t.byParticipant[p]
	return ok
}

// Remove deletes a session and all of its participant index entries. It
// returns nil when the session was already removed, which is the exactly-once
// settlement guard.
func (t *SessionTable) Remove(id uuid.UUID) *models.Session {
	s, ok := t.byID[id]
	if !ok {
		return nil
	}
	delete(t.byID, id)
	for _, p := range s.Participants() {
		delete(t.byParticipant, p)
	}
	return s
}

// Sessions returns all live sessions in unspecified order.
func (t *SessionTable) Sessions() []*models.Session {
	out := make([]*models.Session, 0, len(t.byID))
	for _, s := range t.byID {
		out = append(out, s)
	}
	return out
}

// Len returns the number of live sessions.
func (t *SessionTable) Len() int { return len(t.byID) }
