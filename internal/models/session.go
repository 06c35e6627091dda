package models

import (
	"time"

	"github.com/google/uuid"
)

// Phase is the state of a duel session.
type Phase string

const (
	// PhaseStarting covers the countdown; damage between participants is
	// suppressed until it completes.
	PhaseStarting Phase = "STARTING"
	// PhaseInProgress permits damage and arms the max-duration timer.
	PhaseInProgress Phase = "IN_PROGRESS"
	// PhaseEnded is terminal; settlement runs exactly once on entry.
	PhaseEnded Phase = "ENDED"
)

// Side identifies one roster of a session.
type Side string

const (
	SideA    Side = "A"
	SideB    Side = "B"
	SideNone Side = ""
)

// Opponent returns the opposing side, or SideNone for SideNone.
func (s Side) Opponent() Side {
	switch s {
	case SideA:
		return SideB
	case SideB:
		return SideA
	}
	return SideNone
}

// EndReason records what drove a session into PhaseEnded.
type EndReason string

const (
	EndReasonElimination EndReason = "ELIMINATION"
	EndReasonTimeout     EndReason = "TIMEOUT"
	EndReasonDesertion   EndReason = "DESERTION"
	EndReasonCancelled   EndReason = "CANCELLED"
)

// Session is the state of one duel, solo or team. All mutation happens under
// the orchestrator's lock.
type Session struct {
	ID      uuid.UUID `json:"id"`
	Phase   Phase     `json:"phase"`
	Variant Variant   `json:"variant"`
	Policy  Policy    `json:"policy"`
	Wager   int64     `json:"wager"`

	RosterA []ParticipantID `json:"roster_a"`
	RosterB []ParticipantID `json:"roster_b"`

	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`

	// CountdownLeft is the number of countdown ticks still to fire while
	// Phase == PhaseStarting.
	CountdownLeft int `json:"countdown_left"`

	Kills      map[ParticipantID]int  `json:"kills"`
	Eliminated map[ParticipantID]bool `json:"eliminated"`

	Winner    Side      `json:"winner"`
	EndReason EndReason `json:"end_reason,omitempty"`

	// ReplayID is the external replay-log handle; nil means logging is
	// disabled for this session.
	ReplayID *uuid.UUID `json:"replay_id,omitempty"`
}

// SideOf returns the side a participant fights on, or SideNone.
func (s *Session) SideOf(id ParticipantID) Side {
	for _, p := range s.RosterA {
		if p == id {
			return SideA
		}
	}
	for _, p := range s.RosterB {
		if p == id {
			return SideB
		}
	}
	return SideNone
}

// Roster returns the members of a side.
func (s *Session) Roster(side Side) []ParticipantID {
	switch side {
	case SideA:
		return s.RosterA
	case SideB:
		return s.RosterB
	}
	return nil
}

// Participants returns both rosters, side A first.
func (s *Session) Participants() []ParticipantID {
	out := make([]ParticipantID, 0, len(s.RosterA)+len(s.RosterB))
	out = append(out, s.RosterA...)
	out = append(out, s.RosterB...)
	return out
}

// Leader returns the primary participant of a side, used for rivalry
// tracking.
func (s *Session) Leader(side Side) ParticipantID {
	roster := s.Roster(side)
	if len(roster) == 0 {
		return ""
	}
	return roster[0]
}

// Defeated reports whether every member of the side has been eliminated.
func (s *Session) Defeated(side Side) bool {
	roster := s.Roster(side)
	if len(roster) == 0 {
		return true
	}
	for _, p := range roster {
		if !s.Eliminated[p] {
			return false
		}
	}
	return true
}
